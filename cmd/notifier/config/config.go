package config

import (
	"encoding/json"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.BranchRegex == "" {
		c.BranchRegex = ".*"
	}
	if c.Gitlab.URL == "" {
		c.Gitlab.URL = "https://gitlab.com"
	}
}

// String returns the configuration in string format.
func (c *Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}

type Config struct {
	Logging     Logging
	BranchRegex string `envconfig:"NOTIFY_BRANCH_REGEX"`
	Slack       Slack
	Discord     Discord
	Gitlab      Gitlab
	CI          CI
}

// Logging provides the logging configuration.
type Logging struct {
	Debug  bool `envconfig:"DEBUG"`
	Trace  bool `envconfig:"TRACE"`
	Color  bool `envconfig:"LOGS_COLOR"`
	Pretty bool `envconfig:"LOGS_PRETTY"`
	Text   bool `envconfig:"LOGS_TEXT"`
}

type Slack struct {
	Token           string       `envconfig:"SLACK_BOT_TOKEN"`
	FallbackChannel string       `envconfig:"SLACK_FALLBACK_CHANNEL"`
	Mappings        EmailMapping `envconfig:"SLACK_MAPPINGS_JSON"`
}

type Discord struct {
	Token     string `envconfig:"DISCORD_BOT_TOKEN"`
	ChannelID string `envconfig:"DISCORD_CHANNEL_ID"`
}

type Gitlab struct {
	// This is a personal access token of the Gitlab admin or a Group Token
	AdminToken string `envconfig:"GITLAB_ADMIN_TOKEN"`
	URL        string `envconfig:"GITLAB_URL"`
}

// CI holds the variables GitLab CI sets on every job.
type CI struct {
	ProjectPath      string `envconfig:"CI_PROJECT_PATH"`
	ProjectNamespace string `envconfig:"CI_PROJECT_NAMESPACE"`
	ProjectName      string `envconfig:"CI_PROJECT_NAME"`
	CommitSHA        string `envconfig:"CI_COMMIT_SHA"`
	Branch           string `envconfig:"CI_COMMIT_REF_NAME"`
	CommitTitle      string `envconfig:"CI_COMMIT_TITLE"`
	PipelineID       string `envconfig:"CI_PIPELINE_ID"`
	PipelineURL      string `envconfig:"CI_PIPELINE_URL"`
	CommitAuthor     string `envconfig:"CI_COMMIT_AUTHOR"`
	UserEmail        string `envconfig:"GITLAB_USER_EMAIL"`
	ProjectDir       string `envconfig:"CI_PROJECT_DIR"`
}

// EmailMapping is the operator supplied commit email to Slack user id table.
// A broken mapping must not take the notifier down, parse errors yield an
// empty table.
type EmailMapping map[string]string

func (m *EmailMapping) Decode(value string) error {
	*m = EmailMapping{}
	if value == "" {
		return nil
	}

	var parsed struct {
		EmailToUserID map[string]string `json:"email_to_user_id"`
	}
	err := json.Unmarshal([]byte(value), &parsed)
	if err != nil {
		logrus.Warnf("SLACK_MAPPINGS_JSON parse error: %s", err)
		return nil
	}

	if parsed.EmailToUserID != nil {
		*m = EmailMapping(parsed.EmailToUserID)
	}
	return nil
}
