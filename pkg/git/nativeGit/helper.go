package nativeGit

import (
	"context"
	"fmt"
	"io/ioutil"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommitAuthorEmail returns the author email of the given commit, or an empty
// string when the repository or the commit cannot be read. A shallow clone
// missing the commit is an expected condition in CI, not an error.
func CommitAuthorEmail(repoPath string, sha string) string {
	if repoPath == "" || sha == "" {
		return ""
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		logrus.Debugf("cannot open repository at %s: %s", repoPath, err)
		return ""
	}

	commit, err := repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		logrus.Debugf("cannot get commit %s: %s", sha, err)
		return ""
	}

	return strings.TrimSpace(commit.Author.Email)
}

// MarkSafeDirectory marks the checkout safe for git in CI containers where
// the checkout was made by a different uid than the job runs with.
func MarkSafeDirectory(repoPath string) {
	err := execCommand(repoPath, "git", "config", "--global", "--add", "safe.directory", repoPath)
	if err != nil {
		logrus.Debugf("cannot mark %s as a safe directory: %s", repoPath, err)
	}
}

// Unshallow fetches the full history so the commit lookup works on the
// shallow clones CI runners make. Best effort.
func Unshallow(repoPath string) {
	err := execCommand(repoPath, "git", "fetch", "--unshallow")
	if err != nil {
		logrus.Debugf("cannot unshallow %s: %s", repoPath, err)
	}
}

func execCommand(rootPath string, cmdName string, args ...string) error {
	cmd := exec.CommandContext(context.TODO(), cmdName, args...)
	cmd.Dir = rootPath
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.WithMessage(err, "get stdout pipe for command")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.WithMessage(err, "get stderr pipe for command")
	}
	err = cmd.Start()
	if err != nil {
		return errors.WithMessage(err, "start command")
	}

	stdoutData, err := ioutil.ReadAll(stdout)
	if err != nil {
		return errors.WithMessage(err, "read stdout data of command")
	}
	stderrData, err := ioutil.ReadAll(stderr)
	if err != nil {
		return errors.WithMessage(err, "read stderr data of command")
	}

	err = cmd.Wait()
	logrus.Debugf("git: exec command '%s %s': stdout: %s", cmdName, strings.Join(args, " "), stdoutData)
	logrus.Debugf("git: exec command '%s %s': stderr: %s", cmdName, strings.Join(args, " "), stderrData)
	if err != nil {
		return fmt.Errorf("cannot execute command %s: %s", err.Error(), stderrData)
	}

	return nil
}
