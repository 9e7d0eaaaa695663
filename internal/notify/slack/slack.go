// Package slack implements notify.Announcer for a Slack channel.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Announcer posts meeting announcements to a Slack channel.
type Announcer struct {
	client    slackClient
	channelID string
}

// Opts holds parameters for creating a Slack Announcer.
type Opts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// New creates a Slack Announcer.
func New(opts Opts) (*Announcer, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel id is required")
	}

	a := &Announcer{channelID: opts.ChannelID}
	if opts.Client != nil {
		a.client = opts.Client
	} else {
		a.client = slackapi.New(opts.BotToken)
	}
	return a, nil
}

// Announce posts text to the configured channel.
func (a *Announcer) Announce(ctx context.Context, text string) error {
	_, _, err := a.client.PostMessageContext(ctx, a.channelID, slackapi.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack: post to %s: %w", a.channelID, err)
	}
	return nil
}
