package github

import (
	"net/url"
	"strings"
)

const host = "github.com"

// Ref identifies a GitHub repository.
type Ref struct {
	Owner string
	Repo  string
}

func (r Ref) String() string {
	return r.Owner + "/" + r.Repo
}

// Resolve extracts owner/repo from an HTTPS-style or SSH-shorthand GitHub URL.
// It reports false for URLs not hosted on github.com.
//
// When the URL names only an owner (https://github.com/acme), the repository
// is guessed to share the owner's name. Path segments of HTTPS-style URLs
// keep their percent-encoding.
func Resolve(rawURL string) (Ref, bool) {
	lower := strings.ToLower(rawURL)
	if !strings.Contains(lower, host) {
		return Ref{}, false
	}

	if parsed, err := url.Parse(rawURL); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		if strings.ToLower(parsed.Hostname()) != host {
			return Ref{}, false
		}
		return fromSegments(strings.Split(strings.TrimPrefix(parsed.EscapedPath(), "/"), "/"))
	}

	if rest, ok := strings.CutPrefix(lower, "git@"+host+":"); ok {
		return fromSegments(strings.Split(rest, "/"))
	}

	return Ref{}, false
}

func fromSegments(segs []string) (Ref, bool) {
	if len(segs) == 0 || segs[0] == "" {
		return Ref{}, false
	}
	owner := segs[0]
	if len(segs) < 2 || segs[1] == "" {
		return Ref{Owner: owner, Repo: owner}, true
	}
	return Ref{Owner: owner, Repo: trimRepoSuffix(segs[1])}, true
}

// trimRepoSuffix strips one trailing "." or, failing that, one ".git".
func trimRepoSuffix(repo string) string {
	if s, ok := strings.CutSuffix(repo, "."); ok {
		return s
	}
	if s, ok := strings.CutSuffix(repo, ".git"); ok {
		return s
	}
	return repo
}
