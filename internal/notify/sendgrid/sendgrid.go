// Package sendgrid implements notify.Sender using the SendGrid API.
package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	sendgridapi "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/propvivo/schedbot/internal/notify"
)

const confirmationHTML = `<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #2c3e50;">Meeting Invitation</h1>
    <p>Hi %s,</p>
    <p>You're invited to a team meeting scheduled from your group chat:</p>
    <div style="background-color: #f0f4ff; padding: 25px; border-radius: 10px; margin: 25px 0;">
      <h2 style="margin: 0 0 15px 0;">%s</h2>
      <p style="font-size: 18px; margin: 10px 0;">%s<br>%s</p>
      <p style="font-size: 14px; margin: 10px 0;">Meeting ID: #%d</p>
    </div>
    <p>Please confirm your attendance. This meeting was scheduled
    automatically from everyone's availability in the chat.</p>
  </div>
</body>
</html>`

const followUpHTML = `<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2c3e50;">Meeting Scheduling - Action Needed</h2>
    <p>Hello %s,</p>
    <p>The group is trying to schedule a meeting, but we need your availability.</p>
    <div style="background-color: #fff3cd; padding: 15px; border-radius: 5px; margin: 20px 0;">
      <p>%s</p>
    </div>
    <p>Please reply in the chat with the times that work for you.</p>
  </div>
</body>
</html>`

// sendClient abstracts the SendGrid API call, enabling test mocks.
type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Sender delivers confirmation and follow-up emails via SendGrid.
type Sender struct {
	client sendClient
	from   *mail.Email
}

// Opts holds parameters for creating a Sender.
type Opts struct {
	APIKey string
	From   string // sender address
	// For testing: inject a mock client instead of the real API.
	Client sendClient
}

// New creates a SendGrid Sender.
func New(opts Opts) (*Sender, error) {
	if opts.Client == nil && opts.APIKey == "" {
		return nil, fmt.Errorf("sendgrid: api key is required")
	}
	if opts.From == "" {
		return nil, fmt.Errorf("sendgrid: from address is required")
	}

	s := &Sender{from: mail.NewEmail("Meeting Scheduler", opts.From)}
	if opts.Client != nil {
		s.client = opts.Client
	} else {
		s.client = sendgridapi.NewSendClient(opts.APIKey)
	}
	return s, nil
}

// SendConfirmation emails a meeting confirmation to one recipient.
func (s *Sender) SendConfirmation(ctx context.Context, c notify.Confirmation) error {
	subject := fmt.Sprintf("Team Meeting Scheduled - %s", c.StartLocal.Format("Jan 2"))
	plain := fmt.Sprintf("Hi %s, you're invited to %q on %s at %s. Meeting ID #%d.",
		c.Recipient.Name, c.Title,
		c.StartLocal.Format("Monday, January 2, 2006"),
		c.StartLocal.Format("3:04 PM MST"), c.MeetingID)
	html := fmt.Sprintf(confirmationHTML,
		c.Recipient.Name, c.Title,
		c.StartLocal.Format("Monday, January 2, 2006"),
		c.StartLocal.Format("3:04 PM MST"), c.MeetingID)

	return s.send(ctx, c.Recipient.Name, c.Recipient.Email, subject, plain, html)
}

// SendFollowUp emails a request for missing availability.
func (s *Sender) SendFollowUp(ctx context.Context, f notify.FollowUp) error {
	subject := "Availability Needed for Group Meeting"
	plain := fmt.Sprintf("Hello %s, the group is scheduling a meeting and needs your availability: %s",
		f.Recipient.Name, f.Ask)
	html := fmt.Sprintf(followUpHTML, f.Recipient.Name, f.Ask)

	return s.send(ctx, f.Recipient.Name, f.Recipient.Email, subject, plain, html)
}

func (s *Sender) send(ctx context.Context, name, email, subject, plain, html string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail(name, email), plain, html)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: send to %s: %w", email, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: send to %s: status %d", email, resp.StatusCode)
	}
	return nil
}
