// Package scheduler implements the scheduling pipeline: intent detection,
// availability extraction, completeness check, optimal-time selection,
// persistence, and notification.
package scheduler

import "time"

// Terminal statuses for a scheduling run. Every run ends in exactly one
// of these; input conditions (no messages, no intent, missing info, no
// overlap) are outcomes, not errors.
const (
	StatusScheduled = "scheduled"
	StatusNoIntent  = "no_intent"
	StatusNeedInfo  = "need_info"
	StatusNoOverlap = "no_overlap"
	StatusError     = "error"
)

// MeetingSummary describes a freshly created meeting.
type MeetingSummary struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	StartUTC       time.Time `json:"start_utc"`
	EndUTC         time.Time `json:"end_utc"`
	ParticipantIDs []uint    `json:"participants"`
}

// Result is the terminal outcome of one scheduling run.
type Result struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"` // explanation for no_intent, no_overlap, error
	Ask     string          `json:"ask,omitempty"`     // follow-up question for need_info
	Meeting *MeetingSummary `json:"meeting,omitempty"` // set when Status is scheduled
}
