package slackclient

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Client wraps the Slack web API for posting channel messages.
type Client struct {
	api *slack.Client
}

// NewClient creates a Slack client from a bot token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("slack token is not set")
	}
	return &Client{api: slack.New(token)}, nil
}

// Send posts a message to a channel. The Slack API reports failures (bad
// channel, revoked token) in the response body, which the SDK surfaces as
// an error.
func (c *Client) Send(channel, text string) error {
	_, _, err := c.api.PostMessage(channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to %s: %w", channel, err)
	}
	return nil
}
