package reasoning

import (
	"strings"
	"time"
)

// intentKeywords is the fixed vocabulary for fallback intent detection.
var intentKeywords = []string{
	"let's meet", "can we meet", "schedule a meeting",
	"meet up", "get together", "discussion", "sync up",
	"call", "zoom", "meeting", "available", "free",
}

// timeFragments are the time expressions the availability fallback
// recognizes. Deliberately small: the fallback is a safety net, not a
// planner.
var timeFragments = []string{"2-5", "4-5", "after 4"}

// FallbackIntent is the keyword-based substitute for the intent stage.
// Matching any keyword yields confidence 0.7, otherwise 0.3; intent is
// reported iff a keyword matched.
func FallbackIntent(transcript string) *IntentResult {
	lower := strings.ToLower(transcript)
	hasIntent := false
	for _, kw := range intentKeywords {
		if strings.Contains(lower, kw) {
			hasIntent = true
			break
		}
	}

	confidence := 0.3
	if hasIntent {
		confidence = 0.7
	}
	return &IntentResult{
		HasIntent:  hasIntent,
		Confidence: confidence,
		Reasoning:  "Fallback keyword-based detection",
	}
}

// FallbackAvailability is the pattern-based substitute for the
// availability stage. For each participant it scans transcript lines
// mentioning their name for a weekday fragment plus a known time
// fragment, and records a single approximated late-afternoon slot on the
// next such weekday after ref. Participants with no match degrade to
// empty availability; this never fails.
func FallbackAvailability(transcript string, participants []string, ref time.Time, zone string) *Availability {
	result := &Availability{Participants: make(map[string]ParticipantAvailability)}
	lines := strings.Split(transcript, "\n")

	for _, name := range participants {
		pa := ParticipantAvailability{
			AvailableSlots:   []Slot{},
			UnavailableSlots: []Slot{},
		}

		for _, line := range lines {
			if !strings.Contains(line, name) {
				continue
			}
			lower := strings.ToLower(line)

			var weekday time.Weekday
			switch {
			case strings.Contains(lower, "thu"):
				weekday = time.Thursday
			case strings.Contains(lower, "friday"):
				weekday = time.Friday
			default:
				continue
			}

			matched := false
			for _, frag := range timeFragments {
				if strings.Contains(lower, frag) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			pa.AvailableSlots = append(pa.AvailableSlots, Slot{
				Date:      nextWeekday(ref, weekday).Format("2006-01-02"),
				StartTime: "16:00",
				EndTime:   "17:00",
				Timezone:  zone,
			})
			pa.HasAvailability = true
			break
		}

		result.Participants[name] = pa
	}
	return result
}

// nextWeekday returns the next occurrence of weekday strictly after ref.
func nextWeekday(ref time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return ref.AddDate(0, 0, days)
}
