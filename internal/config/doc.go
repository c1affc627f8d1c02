// Package config handles loading and validation of dothub configuration.
//
// Configuration is read from ~/.config/dothub/config.toml (or the file named
// by DOTHUB_CONFIG) with environment variable overrides.
//
// # Configuration Sources (highest priority first)
//
//   - DOTHUB_STORE_DIR env var: directory holding cloned repositories
//   - DOTHUB_HUB_URL env var: registry location
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - store_dir: where "dothub install" clones to (default /usr/local/share/dothub)
//   - link_dir: where "dothub link" creates symlinks (default ~/.config)
//   - hub_url: registry document listing dotfile repositories by type
//   - token_env: environment variable holding a GitHub token (default GITHUB_TOKEN)
//
// # GitHub Settings
//
// The [github] section tunes star lookups:
//
//	[github]
//	chunk_size = 50
//	concurrency = 8
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
