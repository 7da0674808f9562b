// Package github gathers GitHub signals for an applicant: repositories, the
// external profile analyzer, and verification of resume claims.
package github

import (
	"net/url"
	"strings"
)

// ExtractUsername returns the GitHub login from a profile URL, "@user" or a
// bare username. It returns "" when nothing usable is found.
func ExtractUsername(raw string) string {
	s := strings.TrimLeft(strings.TrimSpace(raw), "@")
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "/") && !strings.Contains(s, "github.com") {
		return s
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	return strings.Split(path, "/")[0]
}
