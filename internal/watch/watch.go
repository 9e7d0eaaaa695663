// Package watch periodically re-runs the scheduling pipeline for
// configured chats so new messages supersede that day's meeting.
package watch

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/propvivo/schedbot/internal/scheduler"
)

// Scheduler runs the pipeline for one chat.
type Scheduler interface {
	Schedule(ctx context.Context, chatID uint) *scheduler.Result
}

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Watcher re-runs scheduling on a cron cadence.
type Watcher struct {
	agent   Scheduler
	chatIDs []uint
	spec    string
}

// New creates a Watcher. The cron expression is validated here so a bad
// config fails at startup, not at first tick.
func New(agent Scheduler, spec string, chatIDs []uint) (*Watcher, error) {
	if agent == nil {
		return nil, fmt.Errorf("watch: agent is required")
	}
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("watch: parse cron %q: %w", spec, err)
	}
	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("watch: at least one chat id is required")
	}
	return &Watcher{agent: agent, chatIDs: chatIDs, spec: spec}, nil
}

// Run blocks until ctx is cancelled, running every configured chat
// through the pipeline on each cron tick. Outcomes are logged; the
// same-day replacement policy makes reruns supersede, not duplicate.
func (w *Watcher) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(cronParser))
	_, err := c.AddFunc(w.spec, func() {
		w.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("watch: schedule: %w", err)
	}

	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// Tick runs one pass over all configured chats.
func (w *Watcher) Tick(ctx context.Context) {
	for _, chatID := range w.chatIDs {
		result := w.agent.Schedule(ctx, chatID)
		switch result.Status {
		case scheduler.StatusScheduled:
			log.Printf("watch: chat %d: scheduled meeting %d (%s)", chatID, result.Meeting.ID, result.Meeting.Title)
		case scheduler.StatusNeedInfo:
			log.Printf("watch: chat %d: waiting on availability: %s", chatID, result.Ask)
		default:
			log.Printf("watch: chat %d: %s: %s", chatID, result.Status, result.Message)
		}
	}
}
