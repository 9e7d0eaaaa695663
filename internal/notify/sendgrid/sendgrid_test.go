package sendgrid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/propvivo/schedbot/internal/notify"
)

// mockClient captures the outgoing mail and returns a scripted response.
type mockClient struct {
	last   *mail.SGMailV3
	status int
	err    error
}

func (m *mockClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	m.last = email
	if m.err != nil {
		return nil, m.err
	}
	return &rest.Response{StatusCode: m.status}, nil
}

func confirmation() notify.Confirmation {
	return notify.Confirmation{
		MeetingID:  7,
		Title:      "Project Sync",
		StartLocal: time.Date(2025, 8, 7, 16, 0, 0, 0, time.UTC),
		Recipient:  notify.Recipient{UserID: 1, Name: "Alice", Email: "alice@example.com"},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Opts{From: "meetings@example.com"})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNew_RequiresFrom(t *testing.T) {
	_, err := New(Opts{APIKey: "SG.test"})
	if err == nil {
		t.Fatal("expected error for missing from address")
	}
}

func TestSendConfirmation(t *testing.T) {
	client := &mockClient{status: 202}
	s, err := New(Opts{From: "meetings@example.com", Client: client})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SendConfirmation(context.Background(), confirmation()); err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	if client.last == nil {
		t.Fatal("no mail sent")
	}
	if got := client.last.Subject; !strings.Contains(got, "Aug 7") {
		t.Errorf("subject = %q, want meeting date", got)
	}
	if len(client.last.Personalizations) != 1 || len(client.last.Personalizations[0].To) != 1 {
		t.Fatal("missing recipient")
	}
	if got := client.last.Personalizations[0].To[0].Address; got != "alice@example.com" {
		t.Errorf("to = %q", got)
	}
}

func TestSendConfirmation_BadStatus(t *testing.T) {
	s, _ := New(Opts{From: "meetings@example.com", Client: &mockClient{status: 401}})

	err := s.SendConfirmation(context.Background(), confirmation())
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %q, want status code", err)
	}
}

func TestSendConfirmation_TransportError(t *testing.T) {
	s, _ := New(Opts{From: "meetings@example.com", Client: &mockClient{err: errors.New("dial tcp: refused")}})

	if err := s.SendConfirmation(context.Background(), confirmation()); err == nil {
		t.Fatal("expected error for transport failure")
	}
}

func TestSendFollowUp(t *testing.T) {
	client := &mockClient{status: 202}
	s, _ := New(Opts{From: "meetings@example.com", Client: client})

	f := notify.FollowUp{
		ChatID:    1,
		Ask:       "Charlie, what times work for you?",
		Recipient: notify.Recipient{Name: "Charlie", Email: "charlie@example.com"},
	}
	if err := s.SendFollowUp(context.Background(), f); err != nil {
		t.Fatalf("SendFollowUp: %v", err)
	}
	if got := client.last.Subject; got != "Availability Needed for Group Meeting" {
		t.Errorf("subject = %q", got)
	}
}
