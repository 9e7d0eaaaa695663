// Package discord implements notify.Announcer for a Discord channel.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// session abstracts the discordgo methods we use, enabling test mocks.
type session interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts meeting announcements to a Discord channel over the
// REST API; no gateway connection is needed for sends.
type Announcer struct {
	sess      session
	channelID string
}

// Opts holds parameters for creating a Discord Announcer.
type Opts struct {
	BotToken  string
	ChannelID string
	// For testing: inject a mock session instead of the real API.
	Session session
}

// New creates a Discord Announcer.
func New(opts Opts) (*Announcer, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("discord: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel id is required")
	}

	a := &Announcer{channelID: opts.ChannelID}
	if opts.Session != nil {
		a.sess = opts.Session
	} else {
		sess, err := discordgo.New("Bot " + opts.BotToken)
		if err != nil {
			return nil, fmt.Errorf("discord: create session: %w", err)
		}
		a.sess = sess
	}
	return a, nil
}

// Announce posts text to the configured channel.
func (a *Announcer) Announce(ctx context.Context, text string) error {
	_, err := a.sess.ChannelMessageSend(a.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: post to %s: %w", a.channelID, err)
	}
	return nil
}
