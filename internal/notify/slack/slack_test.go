package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
)

// mockClient records posted messages.
type mockClient struct {
	channels []string
	err      error
}

func (m *mockClient) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	return channelID, "123.456", m.err
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Opts{ChannelID: "C123"})
	if err == nil {
		t.Fatal("expected error for missing bot token")
	}
}

func TestNew_RequiresChannel(t *testing.T) {
	_, err := New(Opts{BotToken: "xoxb-test"})
	if err == nil {
		t.Fatal("expected error for missing channel id")
	}
}

func TestAnnounce(t *testing.T) {
	client := &mockClient{}
	a, err := New(Opts{ChannelID: "C123", Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Announce(context.Background(), "Meeting scheduled"); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if len(client.channels) != 1 || client.channels[0] != "C123" {
		t.Errorf("posted to %v, want [C123]", client.channels)
	}
}

func TestAnnounce_Error(t *testing.T) {
	a, _ := New(Opts{ChannelID: "C123", Client: &mockClient{err: errors.New("channel_not_found")}})

	if err := a.Announce(context.Background(), "text"); err == nil {
		t.Fatal("expected error from failed post")
	}
}
