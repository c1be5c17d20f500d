package customGitlab

import (
	"fmt"

	"github.com/xanzy/go-gitlab"
)

// FailedJobs returns the names of the failed jobs of a pipeline so the
// notification can call them out. Callers treat any error as "no job info".
func FailedJobs(baseURL string, token string, projectPath string, pipelineID int) ([]string, error) {
	git, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("couldn't create gitlab client: %s", err)
	}

	scope := []gitlab.BuildStateValue{gitlab.Failed}
	jobs, _, err := git.Jobs.ListPipelineJobs(projectPath, pipelineID, &gitlab.ListJobsOptions{
		Scope: &scope,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't list pipeline jobs: %s", err)
	}

	names := []string{}
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	return names, nil
}
