// Package chatlog reads chat transcripts and renders them for the
// reasoning pipeline.
package chatlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/propvivo/schedbot/internal/models"
	"gorm.io/gorm"
)

// Entry is one transcript line: who said what, when. Entries are
// immutable once loaded and ordered by SentAt ascending.
type Entry struct {
	UserID  uint
	Speaker string
	Text    string
	SentAt  time.Time
}

// Load returns the transcript for a chat, ordered by creation time, with
// speaker names resolved. An empty slice means the chat has no messages;
// that is a normal condition, not an error.
func Load(db *gorm.DB, chatID uint) ([]Entry, error) {
	var rows []struct {
		UserID    uint
		Name      string
		Text      string
		CreatedAt time.Time
	}
	err := db.Model(&models.Message{}).
		Select("messages.user_id, users.name, messages.text, messages.created_at").
		Joins("JOIN users ON users.id = messages.user_id").
		Where("messages.chat_id = ?", chatID).
		Order("messages.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("chatlog: load chat %d: %w", chatID, err)
	}

	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = Entry{UserID: r.UserID, Speaker: r.Name, Text: r.Text, SentAt: r.CreatedAt}
	}
	return entries, nil
}

// Format renders a transcript as one line per entry, in insertion order:
//
//	[2025-08-04 10:15:00 IST] Alice: Let's meet this week
//
// Timestamps are rendered in loc.
func Format(entries []Entry, loc *time.Location) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		ts := e.SentAt.In(loc).Format("2006-01-02 15:04:05 MST")
		lines[i] = fmt.Sprintf("[%s] %s: %s", ts, e.Speaker, e.Text)
	}
	return strings.Join(lines, "\n")
}

// Participants returns the distinct message authors as an id→name map,
// plus names in order of first appearance.
func Participants(entries []Entry) (map[uint]string, []string) {
	byID := make(map[uint]string)
	var names []string
	for _, e := range entries {
		if _, ok := byID[e.UserID]; !ok {
			byID[e.UserID] = e.Speaker
			names = append(names, e.Speaker)
		}
	}
	return byID, names
}
