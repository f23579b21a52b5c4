// Package urlutil provides URL parsing utilities.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoRef names a repository by owner and name.
type RepoRef struct {
	Owner string
	Repo  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepoRef accepts "owner/repo", a github.com repository URL such as
// https://github.com/owner/repo/issues, or an API URL such as
// https://api.github.com/repos/owner/repo.
func ParseRepoRef(s string) (RepoRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RepoRef{}, fmt.Errorf("empty repository reference")
	}

	path := s
	if strings.Contains(s, "://") || strings.HasPrefix(s, "github.com/") {
		raw := s
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid repository URL %q: %w", s, err)
		}
		path = u.Path
	}

	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(parts) >= 3 && parts[0] == "repos" {
		parts = parts[1:]
	}
	if len(parts) < 2 || (len(parts) > 2 && path == s) {
		return RepoRef{}, fmt.Errorf("invalid repository reference %q (use owner/repo)", s)
	}

	ref := RepoRef{Owner: parts[0], Repo: strings.TrimSuffix(parts[1], ".git")}
	if ref.Owner == "" || ref.Repo == "" {
		return RepoRef{}, fmt.Errorf("invalid repository reference %q (use owner/repo)", s)
	}
	return ref, nil
}
