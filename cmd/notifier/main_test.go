package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TheBromo/gitlab-ci-slack-alert/cmd/notifier/config"
	"github.com/stretchr/testify/assert"
)

func TestRunIsNoOpWithoutSlackToken(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))

	// a configuration that would reach out to the GitLab API if the run
	// got past the token guard
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("GITLAB_URL", server.URL)
	t.Setenv("GITLAB_ADMIN_TOKEN", "token")
	t.Setenv("CI_PROJECT_PATH", "group/app")
	t.Setenv("CI_PIPELINE_ID", "42")
	t.Setenv("CI_COMMIT_REF_NAME", "main")

	err := run(nil)
	server.Close()

	// a missing token is a graceful no-op, not an error, and nothing
	// external is contacted
	assert.Nil(t, err)
	assert.Equal(t, 0, calls)
}

func TestResolveAuthorEmailTierOrder(t *testing.T) {
	// no checkout: the CI provided author string wins over the plain email
	c := &config.Config{
		CI: config.CI{
			CommitAuthor: "Jane Doe <jane@x.com>",
			UserEmail:    "fallback@x.com",
		},
	}
	assert.Equal(t, "jane@x.com", resolveAuthorEmail(c))

	// author string without angle brackets parses to nothing
	c.CI.CommitAuthor = "Jane Doe"
	assert.Equal(t, "fallback@x.com", resolveAuthorEmail(c))

	c.CI.UserEmail = ""
	assert.Equal(t, "", resolveAuthorEmail(c))
}

func TestFailedJobsSkippedWithoutToken(t *testing.T) {
	c := &config.Config{
		CI: config.CI{PipelineID: "42"},
	}
	assert.Nil(t, failedJobs(c, "group/app"))

	c = &config.Config{
		Gitlab: config.Gitlab{AdminToken: "token"},
		CI:     config.CI{PipelineID: "not-a-number"},
	}
	assert.Nil(t, failedJobs(c, "group/app"))
}
