package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// prURLPattern matches https://<host>/<owner>/<repo>/pull/<number>, optionally
// followed by a trailing path segment such as /files or /commits.
var prURLPattern = regexp.MustCompile(`^https?://([^/\s]+)/([^/\s]+)/([^/\s]+)/pull/(\d+)(?:/[^\s]*)?/?$`)

// PRRef identifies a pull request on a GitHub host.
type PRRef struct {
	Host   string
	Owner  string
	Repo   string
	Number int
}

// ParsePRURL parses a pull request URL. Any host is accepted; hosts other than
// github.com are treated as GitHub Enterprise installations.
func ParsePRURL(raw string) (PRRef, error) {
	m := prURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return PRRef{}, fmt.Errorf("%w: %q (expected https://github.com/<owner>/<repo>/pull/<number>)", ErrInvalidPRURL, raw)
	}

	number, err := strconv.Atoi(m[4])
	if err != nil || number <= 0 {
		return PRRef{}, fmt.Errorf("%w: %q has an invalid pull request number", ErrInvalidPRURL, raw)
	}

	return PRRef{
		Host:   strings.ToLower(m[1]),
		Owner:  m[2],
		Repo:   m[3],
		Number: number,
	}, nil
}

// FullName returns "owner/repo".
func (r PRRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// IsEnterprise reports whether the PR lives on a host other than github.com.
func (r PRRef) IsEnterprise() bool {
	return r.Host != "github.com" && r.Host != "www.github.com"
}

func (r PRRef) String() string {
	return fmt.Sprintf("%s#%d", r.FullName(), r.Number)
}

// PRContext is the pull request metadata handed to the AI model as context.
type PRContext struct {
	Number      int
	Title       string
	Description string
	BaseBranch  string
	HeadBranch  string
	HeadSHA     string
	State       string
	Author      string
}
