package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/propvivo/schedbot/internal/models"
	"github.com/propvivo/schedbot/internal/scheduler"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, agent Scheduler) {
	router.GET("/healthz", handleHealth(db))
	router.POST("/api/schedule", handleSchedule(agent))
	router.GET("/api/chats/:id/messages", handleListMessages(db))
	router.POST("/api/chats/:id/messages", handlePostMessage(db))
	router.GET("/api/chats/:id/meetings", handleListMeetings(db))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// scheduleRequest is the body of POST /api/schedule.
type scheduleRequest struct {
	ChatID uint `json:"chat_id" binding:"required"`
}

func handleSchedule(agent Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
			return
		}

		result := agent.Schedule(c.Request.Context(), req.ChatID)
		status := http.StatusOK
		if result.Status == scheduler.StatusError {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
	}
}

// messageView is the JSON shape of a chat message.
type messageView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func handleListMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}

		var rows []struct {
			ID        uint
			UserID    uint
			Name      string
			Text      string
			CreatedAt time.Time
		}
		err := db.Model(&models.Message{}).
			Select("messages.id, messages.user_id, users.name, messages.text, messages.created_at").
			Joins("JOIN users ON users.id = messages.user_id").
			Where("messages.chat_id = ?", chatID).
			Order("messages.created_at ASC").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
			return
		}

		views := make([]messageView, len(rows))
		for i, r := range rows {
			views[i] = messageView{ID: r.ID, UserID: r.UserID, UserName: r.Name, Text: r.Text, CreatedAt: r.CreatedAt}
		}
		c.JSON(http.StatusOK, views)
	}
}

// postMessageRequest is the body of POST /api/chats/:id/messages.
type postMessageRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

func handlePostMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}

		var req postMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and text are required"})
			return
		}

		msg := models.Message{ChatID: chatID, UserID: req.UserID, Text: req.Text}
		if err := db.Create(&msg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": msg.ID})
	}
}

// meetingView is the JSON shape of a meeting with its participants.
type meetingView struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	StartUTC     time.Time         `json:"start_utc"`
	EndUTC       time.Time         `json:"end_utc"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Participants []participantView `json:"participants"`
}

type participantView struct {
	UserID   uint   `json:"user_id"`
	Response string `json:"response"`
}

func handleListMeetings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, ok := chatIDParam(c)
		if !ok {
			return
		}

		var meetings []models.Meeting
		err := db.Preload("Participants").
			Where("chat_id = ?", chatID).
			Order("start_utc ASC").
			Find(&meetings).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load meetings"})
			return
		}

		views := make([]meetingView, len(meetings))
		for i, m := range meetings {
			mv := meetingView{
				ID:          m.ID,
				Title:       m.Title,
				StartUTC:    m.StartUTC,
				EndUTC:      m.EndUTC,
				Description: m.Description,
				Status:      m.Status,
			}
			for _, p := range m.Participants {
				mv.Participants = append(mv.Participants, participantView{UserID: p.UserID, Response: p.Response})
			}
			views[i] = mv
		}
		c.JSON(http.StatusOK, views)
	}
}

// chatIDParam parses the :id path parameter, writing a 400 on failure.
func chatIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return 0, false
	}
	return uint(id), true
}
