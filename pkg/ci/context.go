package ci

import (
	"fmt"
	"regexp"
	"strings"
)

// CI_COMMIT_AUTHOR looks like "Name <email@domain>"
var authorEmailRegex = regexp.MustCompile(`<([^>]+)>`)

// Context is the pipeline metadata a notification displays. It is assembled
// once per run and never mutated afterwards.
type Context struct {
	ProjectPath string
	Branch      string
	SHA         string
	ShortSHA    string
	CommitTitle string
	PipelineID  string
	PipelineURL string
	AuthorEmail string
	FailedJobs  []string
}

// Summary is the plain text fallback shown by clients that don't render
// blocks.
func (c *Context) Summary() string {
	summary := fmt.Sprintf("A job failed in pipeline %s for %s", c.PipelineID, c.ProjectPath)
	if c.PipelineURL != "" {
		summary = summary + " -> " + c.PipelineURL
	}
	return summary
}

func (c *Context) Author() string {
	if c.AuthorEmail == "" {
		return "unknown"
	}
	return c.AuthorEmail
}

func (c *Context) Title() string {
	if c.CommitTitle == "" {
		return "(no title)"
	}
	return c.CommitTitle
}

// ProjectPath returns the CI provided project path, falling back to
// namespace/name when it is not set.
func ProjectPath(path string, namespace string, name string) string {
	if path != "" {
		return path
	}
	return namespace + "/" + name
}

func ShortSHA(sha string) string {
	if sha == "" {
		return "unknown"
	}
	if len(sha) > 8 {
		return sha[0:8]
	}
	return sha
}

// ParseAuthorEmail extracts the email from a "Name <email>" string. A string
// without angle brackets yields an empty result, there is no guessing.
func ParseAuthorEmail(author string) string {
	m := authorEmailRegex.FindStringSubmatch(author)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
