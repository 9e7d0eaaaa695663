package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/propvivo/schedbot/internal/chatlog"
	"github.com/propvivo/schedbot/internal/reasoning"
	"gorm.io/gorm"
)

// Notifier dispatches notifications for pipeline outcomes. Both methods
// are best-effort: failures are the implementation's problem and never
// change the scheduling result.
type Notifier interface {
	DispatchConfirmations(ctx context.Context, meeting MeetingSummary)
	DispatchFollowUp(ctx context.Context, chatID uint, ask string, userIDs []uint)
}

// Opts tunes the scheduling pipeline.
type Opts struct {
	Location       *time.Location // display zone and slot-zone fallback
	MeetingMinutes int            // default duration when a slot has no end time
}

// Agent runs the scheduling pipeline for a chat.
type Agent struct {
	db       *gorm.DB
	engine   reasoning.Engine
	notifier Notifier
	loc      *time.Location
	minutes  int

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// New creates an Agent. notifier may be nil, in which case no
// notifications are sent.
func New(db *gorm.DB, engine reasoning.Engine, notifier Notifier, opts Opts) *Agent {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	minutes := opts.MeetingMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return &Agent{
		db:       db,
		engine:   engine,
		notifier: notifier,
		loc:      loc,
		minutes:  minutes,
		locks:    make(map[uint]*sync.Mutex),
	}
}

// chatLock returns the mutex serializing persistence for one chat.
// Concurrent runs for the same chat race on the same-day replacement
// check; without this, two runs can each delete the other's fresh meeting.
func (a *Agent) chatLock(chatID uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[chatID] = l
	}
	return l
}

// Schedule runs the full pipeline for a chat and returns its terminal
// outcome. It never returns an error: internal failures map to an error
// status with a generic message, with detail in the log.
func (a *Agent) Schedule(ctx context.Context, chatID uint) *Result {
	entries, err := chatlog.Load(a.db, chatID)
	if err != nil {
		log.Printf("scheduler: chat %d: load transcript: %v", chatID, err)
		return &Result{Status: StatusError, Message: "Failed to load chat messages"}
	}
	if len(entries) == 0 {
		return &Result{Status: StatusError, Message: "No messages found in chat"}
	}

	byID, names := chatlog.Participants(entries)
	transcript := chatlog.Format(entries, a.loc)
	lastSeen := entries[len(entries)-1].SentAt.In(a.loc)

	// Stage 1: intent detection, keyword fallback on failure.
	intent, err := a.engine.DetectIntent(ctx, transcript)
	if err != nil {
		log.Printf("scheduler: chat %d: intent stage failed, using fallback: %v", chatID, err)
		intent = reasoning.FallbackIntent(transcript)
	}
	if !intent.HasIntent {
		return &Result{Status: StatusNoIntent, Message: "No meeting scheduling intent detected in the chat"}
	}

	// Stage 2: availability extraction, pattern fallback on failure.
	avail, err := a.engine.ExtractAvailability(ctx, transcript, names, time.Now().In(a.loc))
	if err != nil {
		log.Printf("scheduler: chat %d: availability stage failed, using fallback: %v", chatID, err)
		avail = reasoning.FallbackAvailability(transcript, names, lastSeen, a.loc.String())
	}

	// Stage 3: completeness check. No fallback exists; failure degrades
	// to no-followup-needed so the pipeline can still try to schedule.
	missing, err := a.engine.CheckMissingInfo(ctx, avail, names, transcript)
	if err != nil {
		log.Printf("scheduler: chat %d: completeness stage failed, assuming complete: %v", chatID, err)
		missing = &reasoning.MissingInfo{}
	}
	if missing.NeedsFollowup {
		if a.notifier != nil {
			a.notifier.DispatchFollowUp(ctx, chatID, missing.FollowupMessage, userIDs(byID))
		}
		return &Result{Status: StatusNeedInfo, Ask: missing.FollowupMessage}
	}

	// Stage 4: optimal-time selection. No fallback exists; failure
	// degrades to not-found rather than guessing a slot.
	optimal, err := a.engine.FindOptimalTime(ctx, avail, names)
	if err != nil {
		log.Printf("scheduler: chat %d: optimal-time stage failed: %v", chatID, err)
		optimal = &reasoning.OptimalTime{Reason: "Error processing availability"}
	}
	if optimal.FoundTime && len(optimal.AttendingParticipants) < reasoning.MajorityThreshold(len(names)) {
		optimal = &reasoning.OptimalTime{
			Reason: "The suggested time does not reach a majority of participants",
		}
	}
	if !optimal.FoundTime {
		return &Result{Status: StatusNoOverlap, Message: optimal.Reason}
	}

	// Persist and notify. Persistence is atomic and serialized per chat;
	// notification failures never roll it back.
	lock := a.chatLock(chatID)
	lock.Lock()
	meeting, err := a.createMeeting(chatID, optimal, byID)
	lock.Unlock()
	if err != nil {
		log.Printf("scheduler: chat %d: persist meeting: %v", chatID, err)
		return &Result{Status: StatusError, Message: "Failed to save the scheduled meeting"}
	}

	if a.notifier != nil {
		a.notifier.DispatchConfirmations(ctx, *meeting)
	}
	return &Result{Status: StatusScheduled, Meeting: meeting}
}

func userIDs(byID map[uint]string) []uint {
	ids := make([]uint, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids
}
