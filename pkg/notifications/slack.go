package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

const markdown = "mrkdwn"
const plainText = "plain_text"
const section = "section"
const header = "header"

const defaultSlackAPIBase = "https://slack.com/api"

type SlackProvider struct {
	Token           string
	FallbackChannel string
	EmailMapping    map[string]string

	// APIBase overrides the Slack API endpoint, tests point it at a local
	// server. Empty means the real API.
	APIBase string
}

type slackMessage struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks,omitempty"`
}

type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// send tries to DM the commit author first, then degrades to the fallback
// channel. A successful DM means the fallback channel never sees the message.
func (s *SlackProvider) send(msg Message) error {
	slackMessage, err := msg.AsSlackMessage()
	if err != nil {
		return fmt.Errorf("cannot create slack message: %s", err)
	}

	if slackMessage == nil {
		return nil
	}

	userID := s.resolveUserID(msg.AuthorEmail())
	if userID != "" {
		channelID := s.openConversation(userID)
		if channelID != "" {
			slackMessage.Channel = channelID
			err = s.post(slackMessage)
			if err == nil {
				logrus.Info("DM sent successfully")
				return nil
			}
			logrus.Warnf("DM failed; will try fallback channel: %s", err)
		}
	} else {
		logrus.Warn("no slack user id resolved; will try fallback channel")
	}

	if s.FallbackChannel == "" {
		logrus.Warn("no fallback channel configured; nothing else to do")
		return nil
	}

	author := msg.AuthorEmail()
	if author == "" {
		author = "unknown"
	}
	fallbackMessage := *slackMessage
	fallbackMessage.Channel = s.FallbackChannel
	fallbackMessage.Text = fmt.Sprintf("%s (author: %s)", slackMessage.Text, author)

	err = s.post(&fallbackMessage)
	if err != nil {
		return fmt.Errorf("cannot post to fallback channel: %s", err)
	}

	logrus.Info("posted to fallback channel")
	return nil
}

// resolveUserID maps a commit email to a Slack user id, the static mapping
// first, the Slack directory second.
func (s *SlackProvider) resolveUserID(email string) string {
	if email == "" {
		return ""
	}

	if id, ok := s.EmailMapping[email]; ok && id != "" {
		return id
	}

	return s.lookupByEmail(email)
}

func (s *SlackProvider) lookupByEmail(email string) string {
	parsed, err := s.apiGet("users.lookupByEmail", url.Values{"email": []string{email}})
	if err != nil {
		logrus.Warnf("slack email lookup failed: %s", err)
		return ""
	}

	user, ok := parsed["user"].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := user["id"].(string)
	return id
}

func (s *SlackProvider) openConversation(userID string) string {
	parsed, err := s.apiPost("conversations.open", map[string]interface{}{
		"users":            userID,
		"prevent_creation": false,
	})
	if err != nil {
		logrus.Warnf("conversations.open error: %s", err)
		return ""
	}

	channel, ok := parsed["channel"].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := channel["id"].(string)
	return id
}

func (s *SlackProvider) post(msg *slackMessage) error {
	_, err := s.apiPost("chat.postMessage", msg)
	return err
}

func (s *SlackProvider) apiBase() string {
	if s.APIBase != "" {
		return s.APIBase
	}
	return defaultSlackAPIBase
}

func (s *SlackProvider) apiPost(method string, payload interface{}) (map[string]interface{}, error) {
	b := new(bytes.Buffer)
	err := json.NewEncoder(b).Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("cannot encode slack payload: %s", err)
	}

	req, _ := http.NewRequest("POST", s.apiBase()+"/"+method, b)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	req = req.WithContext(context.TODO())

	return s.do(req)
}

func (s *SlackProvider) apiGet(method string, query url.Values) (map[string]interface{}, error) {
	req, _ := http.NewRequest("GET", s.apiBase()+"/"+method+"?"+query.Encode(), nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	req = req.WithContext(context.TODO())

	return s.do(req)
}

func (s *SlackProvider) do(req *http.Request) (map[string]interface{}, error) {
	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not reach slack: %s", err)
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read slack response: %s", err)
	}
	var parsed map[string]interface{}
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("cannot parse slack response: %s", err)
	}

	if res.StatusCode != 200 {
		return nil, fmt.Errorf("could not call slack, status: %d", res.StatusCode)
	}
	if val, ok := parsed["ok"]; !ok || val != true {
		return nil, fmt.Errorf("slack error response: %s", string(body))
	}

	return parsed, nil
}
