// Package notify fans out meeting notifications. Delivery is
// best-effort: per-recipient failures are logged and never escalated to
// the scheduling pipeline.
package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/propvivo/schedbot/internal/models"
	"github.com/propvivo/schedbot/internal/scheduler"
	"gorm.io/gorm"
)

// Recipient identifies where a notification goes.
type Recipient struct {
	UserID uint
	Name   string
	Email  string
}

// Confirmation carries everything a confirmation message needs.
type Confirmation struct {
	MeetingID  uint
	Title      string
	StartLocal time.Time // meeting start in the display zone
	Recipient  Recipient
}

// FollowUp asks a participant for their missing availability.
type FollowUp struct {
	ChatID    uint
	Ask       string
	Recipient Recipient
}

// Sender delivers per-recipient messages (email).
type Sender interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
	SendFollowUp(ctx context.Context, f FollowUp) error
}

// Announcer posts a meeting announcement to a group channel.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// Dispatcher implements scheduler.Notifier. Recipient sends run
// concurrently; one recipient's failure must not block the others.
type Dispatcher struct {
	db         *gorm.DB
	sender     Sender
	announcers []Announcer
	loc        *time.Location
}

// NewDispatcher creates a Dispatcher. sender may be nil (no per-recipient
// delivery); announcers may be empty.
func NewDispatcher(db *gorm.DB, sender Sender, announcers []Announcer, loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{db: db, sender: sender, announcers: announcers, loc: loc}
}

// DispatchConfirmations sends a confirmation to every meeting participant
// and announces the meeting on configured channels.
func (d *Dispatcher) DispatchConfirmations(ctx context.Context, meeting scheduler.MeetingSummary) {
	recipients := d.resolve(meeting.ParticipantIDs)
	startLocal := meeting.StartUTC.In(d.loc)

	if d.sender != nil {
		var wg sync.WaitGroup
		for _, r := range recipients {
			wg.Add(1)
			go func(r Recipient) {
				defer wg.Done()
				c := Confirmation{
					MeetingID:  meeting.ID,
					Title:      meeting.Title,
					StartLocal: startLocal,
					Recipient:  r,
				}
				if err := d.sender.SendConfirmation(ctx, c); err != nil {
					log.Printf("notify: confirmation to %s: %v", r.Email, err)
				}
			}(r)
		}
		wg.Wait()
	}

	text := fmt.Sprintf("Meeting scheduled: %q on %s (%d attendees)",
		meeting.Title, startLocal.Format("Monday, January 2 at 3:04 PM MST"), len(recipients))
	for _, a := range d.announcers {
		if err := a.Announce(ctx, text); err != nil {
			log.Printf("notify: announce: %v", err)
		}
	}
}

// DispatchFollowUp asks each participant for the availability the
// completeness stage found missing.
func (d *Dispatcher) DispatchFollowUp(ctx context.Context, chatID uint, ask string, userIDs []uint) {
	if d.sender == nil || ask == "" {
		return
	}
	recipients := d.resolve(userIDs)

	var wg sync.WaitGroup
	for _, r := range recipients {
		wg.Add(1)
		go func(r Recipient) {
			defer wg.Done()
			f := FollowUp{ChatID: chatID, Ask: ask, Recipient: r}
			if err := d.sender.SendFollowUp(ctx, f); err != nil {
				log.Printf("notify: follow-up to %s: %v", r.Email, err)
			}
		}(r)
	}
	wg.Wait()
}

// resolve loads active users for the given ids. Lookup failures shrink
// the recipient list rather than aborting the dispatch.
func (d *Dispatcher) resolve(userIDs []uint) []Recipient {
	var users []models.User
	if err := d.db.Where("id IN ? AND active = ?", userIDs, true).Find(&users).Error; err != nil {
		log.Printf("notify: resolve recipients: %v", err)
		return nil
	}
	recipients := make([]Recipient, len(users))
	for i, u := range users {
		recipients[i] = Recipient{UserID: u.ID, Name: u.Name, Email: u.Email}
	}
	return recipients
}
