// Package reasoning wraps the external reasoning service behind typed
// per-stage contracts, with deterministic fallbacks for when it fails.
package reasoning

import (
	"context"
	"time"
)

// Slot is a civil time range in a named zone.
type Slot struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Timezone  string `json:"timezone"`   // IANA zone name
}

// IntentResult is the outcome of the intent-detection stage.
type IntentResult struct {
	HasIntent  bool    `json:"has_intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ParticipantAvailability describes one participant's stated availability.
type ParticipantAvailability struct {
	AvailableSlots   []Slot `json:"available_slots"`
	UnavailableSlots []Slot `json:"unavailable_slots"`
	HasAvailability  bool   `json:"has_availability"`
	Constraints      string `json:"constraints"`
}

// Availability maps participant names to their extracted availability.
type Availability struct {
	Participants map[string]ParticipantAvailability `json:"participants"`
}

// MissingInfo is the outcome of the completeness stage.
type MissingInfo struct {
	NeedsFollowup       bool     `json:"needs_followup"`
	MissingParticipants []string `json:"missing_participants"`
	FollowupMessage     string   `json:"followup_message"`
	Reasoning           string   `json:"reasoning"`
}

// OptimalTime is the outcome of the optimal-time stage.
type OptimalTime struct {
	FoundTime             bool     `json:"found_time"`
	MeetingTime           Slot     `json:"meeting_time"`
	AttendingParticipants []string `json:"attending_participants"`
	Title                 string   `json:"title"`
	Reason                string   `json:"reason"`
}

// Engine is the reasoning capability behind the four pipeline stages.
// Implementations must treat any unusable response as an error; callers
// decide whether to fall back or degrade.
type Engine interface {
	DetectIntent(ctx context.Context, transcript string) (*IntentResult, error)
	ExtractAvailability(ctx context.Context, transcript string, participants []string, now time.Time) (*Availability, error)
	CheckMissingInfo(ctx context.Context, avail *Availability, participants []string, transcript string) (*MissingInfo, error)
	FindOptimalTime(ctx context.Context, avail *Availability, participants []string) (*OptimalTime, error)
}

// MajorityThreshold returns the minimum attendee count for a slot to be
// accepted: floor(n/2)+1.
func MajorityThreshold(n int) int {
	return n/2 + 1
}
