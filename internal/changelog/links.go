package changelog

import (
	"regexp"
	"strings"
)

// issueRefPattern matches "#123" not already inside a link label.
var issueRefPattern = regexp.MustCompile(`([^\[])#([0-9]+)`)

// IssueURL returns the GitHub issues base URL for repo ("owner/name").
func IssueURL(repo string) string {
	return "https://github.com/" + strings.Trim(repo, "/") + "/issues/"
}

// ExpandIssueReferences turns "#123" references into markdown links to the
// issue on GitHub. References already written as links are left alone.
func ExpandIssueReferences(text, repo string) string {
	url := strings.ReplaceAll(IssueURL(repo), "$", "$$")
	return issueRefPattern.ReplaceAllString(text, "${1}[#${2}]("+url+"${2})")
}
