// Package models defines the GORM entities for Schedbot.
package models

import "time"

// User is a chat participant who can be invited to meetings.
type User struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:256;uniqueIndex;not null"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time

	Messages            []Message            `gorm:"foreignKey:UserID"`
	MeetingParticipants []MeetingParticipant `gorm:"foreignKey:UserID"`
}
