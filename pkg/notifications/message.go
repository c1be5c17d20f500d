package notifications

type Provider interface {
	send(msg Message) error
}

type Message interface {
	AsSlackMessage() (*slackMessage, error)
	AsDiscordMessage() (*discordMessage, error)
	AuthorEmail() string
}
