package notifications

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordProvider posts to a single configured channel. Discord has no email
// directory, so the DM-first resolution the Slack provider does has no
// equivalent here.
type DiscordProvider struct {
	Token     string
	ChannelID string
}

type discordMessage struct {
	Text  string                  `json:"text"`
	Embed *discordgo.MessageEmbed `json:"embed"`
}

func (s *DiscordProvider) send(msg Message) error {
	discordBot, err := discordgo.New("Bot " + s.Token)
	if err != nil {
		return fmt.Errorf("error creating Discord session, %s", err)
	}

	discordMessage, err := msg.AsDiscordMessage()
	if err != nil {
		return fmt.Errorf("cannot create discord message: %s", err)
	}

	return s.post(discordBot, discordMessage)
}

func (s *DiscordProvider) post(d *discordgo.Session, msg *discordMessage) error {
	_, err := d.ChannelMessageSend(s.ChannelID, msg.Text)
	if err != nil {
		return err
	}

	_, err = d.ChannelMessageSendEmbed(s.ChannelID, msg.Embed)
	return err
}
