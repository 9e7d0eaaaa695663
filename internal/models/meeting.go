package models

import "time"

// Meeting status values.
const (
	MeetingScheduled = "scheduled"
	MeetingConfirmed = "confirmed"
	MeetingCancelled = "cancelled"
)

// Participant response values.
const (
	ResponseInvited   = "invited"
	ResponseConfirmed = "confirmed"
	ResponseDeclined  = "declined"
)

// Meeting is a scheduled meeting for a chat. Times are stored as UTC
// instants; display conversion happens at the edges.
type Meeting struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	ChatID      uint      `gorm:"not null;index"`
	Title       string    `gorm:"size:256"`
	StartUTC    time.Time `gorm:"not null;index"`
	EndUTC      time.Time `gorm:"not null"`
	Description string    `gorm:"type:text"`
	Status      string    `gorm:"size:16;default:scheduled"`
	CreatedAt   time.Time

	Chat         Chat                 `gorm:"foreignKey:ChatID"`
	Participants []MeetingParticipant `gorm:"foreignKey:MeetingID"`
}

// MeetingParticipant joins a user to a meeting with their RSVP state.
// Rows are deleted before their meeting is deleted; the store is not
// trusted to cascade.
type MeetingParticipant struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	MeetingID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Response  string `gorm:"size:16;default:invited"`

	Meeting Meeting `gorm:"foreignKey:MeetingID"`
	User    User    `gorm:"foreignKey:UserID"`
}
