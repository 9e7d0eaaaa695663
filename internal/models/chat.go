package models

import "time"

// Chat is a group conversation whose history drives scheduling.
type Chat struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"size:256"`
	CreatedAt time.Time

	Messages []Message `gorm:"foreignKey:ChatID"`
	Meetings []Meeting `gorm:"foreignKey:ChatID"`
}

// Message is a single chat message. Messages are append-only: the
// scheduling pipeline reads them but never mutates them.
type Message struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ChatID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time

	Chat Chat `gorm:"foreignKey:ChatID"`
	User User `gorm:"foreignKey:UserID"`
}
