package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values for a fresh configuration.
const (
	DefaultStoreDir     = "/usr/local/share/dothub"
	DefaultHubURL       = "https://raw.githubusercontent.com/huncholane/dothub/refs/heads/main/hub.yml"
	DefaultTokenEnv     = "GITHUB_TOKEN"
	DefaultUserAgent    = "dothub/0.1"
	DefaultAPIURL       = "https://api.github.com"
	DefaultGraphQLURL   = "https://api.github.com/graphql"
	DefaultChunkSize    = 50
	DefaultConcurrency  = 8
	TokenHelpURL        = "https://github.com/settings/personal-access-tokens"
	maxGraphQLChunkSize = 100
)

// GitHubConfig holds settings for the star-count lookups.
type GitHubConfig struct {
	APIURL      string `toml:"api_url"`
	GraphQLURL  string `toml:"graphql_url"`
	ChunkSize   int    `toml:"chunk_size"`  // repositories per GraphQL request
	Concurrency int    `toml:"concurrency"` // parallel REST requests in fallback mode
}

// Valid values for ThemeConfig.
var (
	ValidThemeNames = []string{"none", "default", "dracula", "nord", "gruvbox", "catppuccin"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// ThemeConfig selects the color palette. Individual colors accept hex
// ("#ffaa00") or ANSI ("3") values.
type ThemeConfig struct {
	Name    string `toml:"name"`
	Mode    string `toml:"mode"`
	Accent  string `toml:"accent"`
	Warning string `toml:"warning"`
	Error   string `toml:"error"`
}

// Config holds the dothub configuration
type Config struct {
	StoreDir  string       `toml:"store_dir"` // where repositories are cloned
	LinkDir   string       `toml:"link_dir"`  // where symlinks are created (~/.config)
	HubURL    string       `toml:"hub_url"`
	TokenEnv  string       `toml:"token_env"` // env var holding a GitHub token
	UserAgent string       `toml:"user_agent"`
	GitHub    GitHubConfig `toml:"github"`
	Theme     ThemeConfig  `toml:"theme"`
}

// Default returns the default configuration
func Default() Config {
	linkDir := "~/.config"
	if expanded, err := expandPath(linkDir); err == nil {
		linkDir = expanded
	}
	return Config{
		StoreDir:  DefaultStoreDir,
		LinkDir:   linkDir,
		HubURL:    DefaultHubURL,
		TokenEnv:  DefaultTokenEnv,
		UserAgent: DefaultUserAgent,
		GitHub: GitHubConfig{
			APIURL:      DefaultAPIURL,
			GraphQLURL:  DefaultGraphQLURL,
			ChunkSize:   DefaultChunkSize,
			Concurrency: DefaultConcurrency,
		},
		Theme: ThemeConfig{Name: "default", Mode: "auto"},
	}
}

// Token returns the GitHub token from the configured environment variable,
// or "" when it is unset.
func (c *Config) Token() string {
	if c.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.TokenEnv)
}

type ctxKey struct{}

// WithConfig attaches a config to the context.
func WithConfig(ctx context.Context, c *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext retrieves the config from context.
// Returns Default() if none is attached.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return c
	}
	c := Default()
	return &c
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // empty means "use the default"
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location.
// DOTHUB_CONFIG overrides the default ~/.config/dothub/config.toml.
func Path() (string, error) {
	if p := os.Getenv("DOTHUB_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dothub", "config.toml"), nil
}

// Load reads the config file and applies environment overrides.
// Returns Default() (with env overrides) if the file doesn't exist.
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config from path, see Load.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return fallback(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto the defaults keeps every unset key at its default value.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return fallback(), fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.normalize(); err != nil {
		return fallback(), err
	}
	return cfg, nil
}

// fallback returns defaults with env overrides, used when the file is unusable.
func fallback() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// applyEnv applies DOTHUB_STORE_DIR and DOTHUB_HUB_URL overrides.
func applyEnv(cfg *Config) {
	if dir := os.Getenv("DOTHUB_STORE_DIR"); dir != "" {
		cfg.StoreDir = dir
	}
	if u := os.Getenv("DOTHUB_HUB_URL"); u != "" {
		cfg.HubURL = u
	}
}

func (c *Config) normalize() error {
	if err := ValidatePath(c.StoreDir, "store_dir"); err != nil {
		return err
	}
	if err := ValidatePath(c.LinkDir, "link_dir"); err != nil {
		return err
	}

	var err error
	if c.StoreDir, err = expandPath(c.StoreDir); err != nil {
		return fmt.Errorf("expand store_dir: %w", err)
	}
	if c.LinkDir, err = expandPath(c.LinkDir); err != nil {
		return fmt.Errorf("expand link_dir: %w", err)
	}

	if c.GitHub.ChunkSize < 0 || c.GitHub.ChunkSize > maxGraphQLChunkSize {
		return fmt.Errorf("invalid github.chunk_size %d: must be between 1 and %d", c.GitHub.ChunkSize, maxGraphQLChunkSize)
	}
	if c.GitHub.Concurrency < 0 {
		return fmt.Errorf("invalid github.concurrency %d: must be at least 1", c.GitHub.Concurrency)
	}

	if c.Theme.Name != "" && !slices.Contains(ValidThemeNames, c.Theme.Name) {
		return fmt.Errorf("invalid theme.name %q (available: %s)", c.Theme.Name, strings.Join(ValidThemeNames, ", "))
	}
	if c.Theme.Mode != "" && !slices.Contains(ValidThemeModes, c.Theme.Mode) {
		return fmt.Errorf("invalid theme.mode %q (available: %s)", c.Theme.Mode, strings.Join(ValidThemeModes, ", "))
	}

	// Use defaults for empty values
	def := Default()
	if c.StoreDir == "" {
		c.StoreDir = def.StoreDir
	}
	if c.LinkDir == "" {
		c.LinkDir = def.LinkDir
	}
	if c.HubURL == "" {
		c.HubURL = def.HubURL
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = def.GitHub.APIURL
	}
	if c.GitHub.GraphQLURL == "" {
		c.GitHub.GraphQLURL = def.GitHub.GraphQLURL
	}
	if c.GitHub.ChunkSize == 0 {
		c.GitHub.ChunkSize = def.GitHub.ChunkSize
	}
	if c.GitHub.Concurrency == 0 {
		c.GitHub.Concurrency = def.GitHub.Concurrency
	}
	if c.Theme.Name == "" {
		c.Theme.Name = def.Theme.Name
	}
	if c.Theme.Mode == "" {
		c.Theme.Mode = def.Theme.Mode
	}
	return nil
}

const defaultConfig = `# dothub configuration

# Directory where repositories are cloned by "dothub install".
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# The default location is shared between users and usually needs sudo to create.
# store_dir = "/usr/local/share/dothub"

# Directory where "dothub link" creates symlinks
# link_dir = "~/.config"

# Registry of dotfile repositories shown by "dothub"
# hub_url = "https://raw.githubusercontent.com/huncholane/dothub/refs/heads/main/hub.yml"

# Environment variable holding a GitHub token. With a token, star counts are
# fetched in batches through the GraphQL API; without one, one REST request
# is made per repository.
# token_env = "GITHUB_TOKEN"

# [github]
# api_url = "https://api.github.com"
# graphql_url = "https://api.github.com/graphql"
# chunk_size = 50     # repositories per GraphQL request (1-100)
# concurrency = 8     # parallel REST requests when falling back

# [theme]
# name = "default"    # none, default, dracula, nord, gruvbox, catppuccin
# mode = "auto"       # auto, light, dark
# warning = "#ffaa00" # override single colors (hex or ANSI number)
`

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists: %s (use -f to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}

// Template returns the commented default config file written by Init.
func Template() string {
	return defaultConfig
}
