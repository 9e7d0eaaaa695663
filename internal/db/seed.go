package db

import (
	"fmt"

	"github.com/propvivo/schedbot/internal/models"
	"gorm.io/gorm"
)

// SeedDemo inserts a demo chat with four users and a scheduling
// conversation. It is a no-op if any users already exist.
func SeedDemo(db *gorm.DB) (uint, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("db: count users: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("db: seed: database already has users")
	}

	var chatID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		users := []models.User{
			{Name: "Alice", Email: "alice@example.com", Active: true},
			{Name: "Bob", Email: "bob@example.com", Active: true},
			{Name: "Charlie", Email: "charlie@example.com", Active: true},
			{Name: "Diana", Email: "diana@example.com", Active: true},
		}
		for i := range users {
			if err := tx.Create(&users[i]).Error; err != nil {
				return fmt.Errorf("create user %s: %w", users[i].Name, err)
			}
		}

		chat := models.Chat{Title: "Project Planning Discussion"}
		if err := tx.Create(&chat).Error; err != nil {
			return fmt.Errorf("create chat: %w", err)
		}
		chatID = chat.ID

		texts := []struct {
			user int
			text string
		}{
			{0, "Let's meet this week to discuss the project timeline."},
			{1, "I'm free Thursday 2-5 PM IST and Friday morning."},
			{2, "Thursday after 4 works for me; Friday I'm out of office."},
			{3, "Thursday 4-5 PM IST works perfectly for me!"},
			{0, "Great! Thursday 4-5 PM IST it is. Let's schedule it."},
		}
		for _, m := range texts {
			msg := models.Message{ChatID: chat.ID, UserID: users[m.user].ID, Text: m.text}
			if err := tx.Create(&msg).Error; err != nil {
				return fmt.Errorf("create message: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("db: seed: %w", err)
	}
	return chatID, nil
}
