package notifications

import (
	"fmt"
	"strings"

	"github.com/TheBromo/gitlab-ci-slack-alert/pkg/ci"
	"github.com/bwmarrin/discordgo"
)

type PipelineFailedMessage struct {
	Pipeline ci.Context
}

func MessageFromFailedPipeline(pipeline ci.Context) Message {
	return &PipelineFailedMessage{
		Pipeline: pipeline,
	}
}

func (pm *PipelineFailedMessage) AsSlackMessage() (*slackMessage, error) {
	msg := &slackMessage{
		Text:   pm.Pipeline.Summary(),
		Blocks: []Block{},
	}

	msg.Blocks = append(msg.Blocks,
		Block{
			Type: header,
			Text: &Text{
				Type: plainText,
				Text: "Pipeline failed",
			},
		},
	)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: section,
			Fields: []Text{
				{Type: markdown, Text: fmt.Sprintf("*Project:* %s", pm.Pipeline.ProjectPath)},
				{Type: markdown, Text: fmt.Sprintf("*Branch:* %s", pm.Pipeline.Branch)},
				{Type: markdown, Text: fmt.Sprintf("*Commit:* `%s`", pm.Pipeline.ShortSHA)},
				{Type: markdown, Text: fmt.Sprintf("*Author:* %s", pm.Pipeline.Author())},
			},
		},
	)
	msg.Blocks = append(msg.Blocks,
		Block{
			Type: section,
			Text: &Text{
				Type: markdown,
				Text: fmt.Sprintf("*Commit title:* %s", pm.Pipeline.Title()),
			},
		},
	)

	if len(pm.Pipeline.FailedJobs) != 0 {
		msg.Blocks = append(msg.Blocks,
			Block{
				Type: section,
				Text: &Text{
					Type: markdown,
					Text: fmt.Sprintf("*Failed jobs:* %s", strings.Join(pm.Pipeline.FailedJobs, ", ")),
				},
			},
		)
	}

	if pm.Pipeline.PipelineURL != "" {
		msg.Blocks = append(msg.Blocks,
			Block{
				Type: section,
				Text: &Text{
					Type: markdown,
					Text: fmt.Sprintf("<%s|Open the failed pipeline>", pm.Pipeline.PipelineURL),
				},
			},
		)
	}

	return msg, nil
}

func (pm *PipelineFailedMessage) AsDiscordMessage() (*discordMessage, error) {
	msg := &discordMessage{
		Text: pm.Pipeline.Summary(),
		Embed: &discordgo.MessageEmbed{
			Type:        "article",
			Title:       "Pipeline failed",
			Description: "",
			Color:       15158332,
		},
	}

	msg.Embed.Description = fmt.Sprintf(
		"**Project:** %s\n**Branch:** %s\n**Commit:** `%s`\n**Author:** %s\n**Commit title:** %s",
		pm.Pipeline.ProjectPath,
		pm.Pipeline.Branch,
		pm.Pipeline.ShortSHA,
		pm.Pipeline.Author(),
		pm.Pipeline.Title(),
	)
	if len(pm.Pipeline.FailedJobs) != 0 {
		msg.Embed.Description += fmt.Sprintf("\n**Failed jobs:** %s", strings.Join(pm.Pipeline.FailedJobs, ", "))
	}
	if pm.Pipeline.PipelineURL != "" {
		msg.Embed.Description += fmt.Sprintf("\n[Open the failed pipeline](%s)", pm.Pipeline.PipelineURL)
	}

	return msg, nil
}

func (pm *PipelineFailedMessage) AuthorEmail() string {
	return pm.Pipeline.AuthorEmail
}
