package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/TheBromo/gitlab-ci-slack-alert/cmd/notifier/config"
	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/ci"
	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/customGitlab"
	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/git/nativeGit"
	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/notifications"
	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/version"
	"github.com/enescakir/emoji"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:    "notifier",
		Version: version.String(),
		Usage:   "notifies the commit author on Slack when a GitLab CI pipeline fails",
		Action:  run,
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
	}
	// A notification side-channel must never fail the pipeline it reports
	// on, so every branch, including flag misuse, exits with success.
	os.Exit(0)
}

func run(c *cli.Context) error {
	defer func() {
		if r := recover(); r != nil {
			logrus.Warnf("unexpected failure, skipping notification: %v", r)
		}
	}()

	err := godotenv.Load(".env")
	if err != nil {
		logrus.Debugf("could not load .env file, relying on env vars")
	}

	config, err := config.Environ()
	if err != nil {
		logrus.Warnf("invalid configuration, skipping notification: %s", err)
		return nil
	}

	initLogging(config)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(config.String())
	}

	if config.Slack.Token == "" {
		logrus.Warn("SLACK_BOT_TOKEN is not set; exiting")
		return nil
	}

	branch := config.CI.Branch
	if branch == "" {
		branch = "unknown"
	}
	matches, err := ci.NotifyBranch(branch, config.BranchRegex)
	if err != nil {
		logrus.Warnf("cannot compile NOTIFY_BRANCH_REGEX, skipping notification: %s", err)
		return nil
	}
	if !matches {
		logrus.Infof("branch '%s' does not match NOTIFY_BRANCH_REGEX; skipping", branch)
		return nil
	}

	authorEmail := resolveAuthorEmail(config)
	if authorEmail != "" {
		logrus.Infof("commit author email: %s", authorEmail)
	} else {
		logrus.Warn("could not determine author email; will use fallback channel")
	}

	projectPath := ci.ProjectPath(config.CI.ProjectPath, config.CI.ProjectNamespace, config.CI.ProjectName)
	pipeline := ci.Context{
		ProjectPath: projectPath,
		Branch:      branch,
		SHA:         config.CI.CommitSHA,
		ShortSHA:    ci.ShortSHA(config.CI.CommitSHA),
		CommitTitle: config.CI.CommitTitle,
		PipelineID:  config.CI.PipelineID,
		PipelineURL: config.CI.PipelineURL,
		AuthorEmail: authorEmail,
		FailedJobs:  failedJobs(config, projectPath),
	}

	notificationsManager := notifications.NewManager()
	notificationsManager.AddProvider(&notifications.SlackProvider{
		Token:           config.Slack.Token,
		FallbackChannel: config.Slack.FallbackChannel,
		EmailMapping:    config.Slack.Mappings,
	})
	if config.Discord.Token != "" && config.Discord.ChannelID != "" {
		notificationsManager.AddProvider(&notifications.DiscordProvider{
			Token:     config.Discord.Token,
			ChannelID: config.Discord.ChannelID,
		})
	}
	notificationsManager.Broadcast(notifications.MessageFromFailedPipeline(pipeline))

	return nil
}

// resolveAuthorEmail finds the committer's email with a three tier fallback:
// the git history first, the CI provided "Name <email>" string second, the CI
// provided plain email last. Empty means unresolvable, never an error.
func resolveAuthorEmail(config *config.Config) string {
	if config.CI.ProjectDir != "" {
		nativeGit.MarkSafeDirectory(config.CI.ProjectDir)
		nativeGit.Unshallow(config.CI.ProjectDir)
	}

	email := nativeGit.CommitAuthorEmail(config.CI.ProjectDir, config.CI.CommitSHA)
	if email == "" {
		email = ci.ParseAuthorEmail(config.CI.CommitAuthor)
	}
	if email == "" {
		email = config.CI.UserEmail
	}
	return email
}

func failedJobs(config *config.Config, projectPath string) []string {
	if config.Gitlab.AdminToken == "" || config.CI.PipelineID == "" {
		return nil
	}

	pipelineID, err := strconv.Atoi(config.CI.PipelineID)
	if err != nil {
		logrus.Debugf("cannot parse CI_PIPELINE_ID: %s", err)
		return nil
	}

	jobs, err := customGitlab.FailedJobs(config.Gitlab.URL, config.Gitlab.AdminToken, projectPath, pipelineID)
	if err != nil {
		logrus.Warnf("couldn't fetch failed jobs: %s", err)
		return nil
	}
	return jobs
}

// helper function configures the logging.
func initLogging(c *config.Config) {
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Logging.Text {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	}
}
