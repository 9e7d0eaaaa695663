package scheduler

import (
	"fmt"
	"time"

	"github.com/propvivo/schedbot/internal/models"
	"github.com/propvivo/schedbot/internal/reasoning"
	"gorm.io/gorm"
)

// createMeeting converts the chosen slot to UTC instants and commits the
// meeting under the same-day replacement policy: any existing meeting for
// the chat on the same UTC calendar day is superseded, participants
// first, then the meeting row, all inside one transaction.
func (a *Agent) createMeeting(chatID uint, optimal *reasoning.OptimalTime, byID map[uint]string) (*MeetingSummary, error) {
	startUTC, endUTC, err := a.slotToUTC(optimal.MeetingTime)
	if err != nil {
		return nil, err
	}

	attendees := attendeeIDs(optimal.AttendingParticipants, byID)
	if len(attendees) == 0 {
		return nil, fmt.Errorf("scheduler: no attending participants resolve to known users")
	}

	title := optimal.Title
	if title == "" {
		title = "Team Meeting"
	}

	dayStart := time.Date(startUTC.Year(), startUTC.Month(), startUTC.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var meeting models.Meeting
	err = a.db.Transaction(func(tx *gorm.DB) error {
		// Supersede this chat's meetings on the same UTC day. The store
		// is not trusted to cascade, so participants go first.
		var existing []models.Meeting
		if err := tx.Where("chat_id = ? AND start_utc >= ? AND start_utc < ?", chatID, dayStart, dayEnd).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("find same-day meetings: %w", err)
		}
		for _, old := range existing {
			if err := tx.Where("meeting_id = ?", old.ID).Delete(&models.MeetingParticipant{}).Error; err != nil {
				return fmt.Errorf("delete participants of meeting %d: %w", old.ID, err)
			}
			if err := tx.Delete(&models.Meeting{}, old.ID).Error; err != nil {
				return fmt.Errorf("delete meeting %d: %w", old.ID, err)
			}
		}

		meeting = models.Meeting{
			ChatID:      chatID,
			Title:       title,
			StartUTC:    startUTC,
			EndUTC:      endUTC,
			Description: "Scheduled via assistant",
			Status:      models.MeetingScheduled,
		}
		if err := tx.Create(&meeting).Error; err != nil {
			return fmt.Errorf("create meeting: %w", err)
		}

		for _, userID := range attendees {
			mp := models.MeetingParticipant{
				MeetingID: meeting.ID,
				UserID:    userID,
				Response:  models.ResponseInvited,
			}
			if err := tx.Create(&mp).Error; err != nil {
				return fmt.Errorf("create participant %d: %w", userID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: commit meeting: %w", err)
	}

	return &MeetingSummary{
		ID:             meeting.ID,
		Title:          meeting.Title,
		StartUTC:       meeting.StartUTC,
		EndUTC:         meeting.EndUTC,
		ParticipantIDs: attendees,
	}, nil
}

// slotToUTC interprets a civil slot in its named zone and returns UTC
// instants. An unknown or empty zone falls back to the configured zone;
// a missing end time defaults to the configured meeting duration.
func (a *Agent) slotToUTC(slot reasoning.Slot) (time.Time, time.Time, error) {
	loc := a.loc
	if slot.Timezone != "" {
		if l, err := time.LoadLocation(slot.Timezone); err == nil {
			loc = l
		}
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", slot.Date+" "+slot.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("scheduler: parse slot start %q %q: %w", slot.Date, slot.StartTime, err)
	}

	var end time.Time
	if slot.EndTime == "" {
		end = start.Add(time.Duration(a.minutes) * time.Minute)
	} else {
		end, err = time.ParseInLocation("2006-01-02 15:04", slot.Date+" "+slot.EndTime, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("scheduler: parse slot end %q %q: %w", slot.Date, slot.EndTime, err)
		}
		if !end.After(start) {
			// Ranges like 23:00-00:30 wrap past midnight.
			end = end.AddDate(0, 0, 1)
		}
	}

	return start.UTC(), end.UTC(), nil
}

// attendeeIDs maps attending participant names back to user ids.
// Names the transcript never produced are dropped.
func attendeeIDs(names []string, byID map[uint]string) []uint {
	var ids []uint
	for id, name := range byID {
		for _, n := range names {
			if n == name {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}
