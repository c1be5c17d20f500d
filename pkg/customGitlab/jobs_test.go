package customGitlab

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailedJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/jobs") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "failed", r.URL.Query().Get("scope[]"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"name":"unit","status":"failed"},{"id":2,"name":"lint","status":"failed"}]`)
	}))
	defer server.Close()

	jobs, err := FailedJobs(server.URL, "token", "group/app", 42)
	assert.Nil(t, err)
	assert.Equal(t, []string{"unit", "lint"}, jobs)
}

func TestFailedJobsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"401 Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := FailedJobs(server.URL, "bad-token", "group/app", 42)
	assert.NotNil(t, err)
}
