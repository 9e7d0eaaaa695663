package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/propvivo/schedbot/internal/models"
	"github.com/propvivo/schedbot/internal/scheduler"
)

// stubAgent returns a canned result and records the chat it was asked about.
type stubAgent struct {
	result  *scheduler.Result
	chatIDs []uint
}

func (s *stubAgent) Schedule(ctx context.Context, chatID uint) *scheduler.Result {
	s.chatIDs = append(s.chatIDs, chatID)
	return s.result
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	all := []interface{}{
		&models.User{}, &models.Chat{}, &models.Message{},
		&models.Meeting{}, &models.MeetingParticipant{},
	}
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := NewRouter(openTestDB(t), &stubAgent{})

	w := doRequest(t, router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestSchedule_Scheduled(t *testing.T) {
	agent := &stubAgent{result: &scheduler.Result{
		Status: scheduler.StatusScheduled,
		Meeting: &scheduler.MeetingSummary{
			ID: 3, Title: "Team Meeting",
			StartUTC:       time.Date(2025, 8, 7, 10, 30, 0, 0, time.UTC),
			EndUTC:         time.Date(2025, 8, 7, 11, 30, 0, 0, time.UTC),
			ParticipantIDs: []uint{1, 2},
		},
	}}
	router := NewRouter(openTestDB(t), agent)

	w := doRequest(t, router, http.MethodPost, "/api/schedule", `{"chat_id": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if len(agent.chatIDs) != 1 || agent.chatIDs[0] != 5 {
		t.Errorf("scheduled chats = %v, want [5]", agent.chatIDs)
	}

	var result scheduler.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != scheduler.StatusScheduled || result.Meeting == nil || result.Meeting.ID != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestSchedule_NonTerminalStatusesAre200(t *testing.T) {
	for _, status := range []string{scheduler.StatusNoIntent, scheduler.StatusNeedInfo, scheduler.StatusNoOverlap} {
		agent := &stubAgent{result: &scheduler.Result{Status: status}}
		router := NewRouter(openTestDB(t), agent)

		w := doRequest(t, router, http.MethodPost, "/api/schedule", `{"chat_id": 1}`)
		if w.Code != http.StatusOK {
			t.Errorf("status %s: code = %d, want 200", status, w.Code)
		}
	}
}

func TestSchedule_ErrorStatusIs500(t *testing.T) {
	agent := &stubAgent{result: &scheduler.Result{
		Status:  scheduler.StatusError,
		Message: "No messages found in chat",
	}}
	router := NewRouter(openTestDB(t), agent)

	w := doRequest(t, router, http.MethodPost, "/api/schedule", `{"chat_id": 1}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", w.Code)
	}
}

func TestSchedule_MissingChatID(t *testing.T) {
	agent := &stubAgent{}
	router := NewRouter(openTestDB(t), agent)

	w := doRequest(t, router, http.MethodPost, "/api/schedule", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", w.Code)
	}
	if len(agent.chatIDs) != 0 {
		t.Errorf("agent should not run on bad request")
	}
}

func TestPostAndListMessages(t *testing.T) {
	db := openTestDB(t)
	user := models.User{Name: "Alice", Email: "alice@example.com", Active: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	chat := models.Chat{Title: "Planning"}
	if err := db.Create(&chat).Error; err != nil {
		t.Fatalf("create chat: %v", err)
	}
	router := NewRouter(db, &stubAgent{})

	w := doRequest(t, router, http.MethodPost, "/api/chats/1/messages",
		`{"user_id": 1, "text": "Let's meet Thursday"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("post code = %d, body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/api/chats/1/messages", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list code = %d", w.Code)
	}
	var msgs []messageView
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].UserName != "Alice" || msgs[0].Text != "Let's meet Thursday" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestPostMessage_MissingFields(t *testing.T) {
	router := NewRouter(openTestDB(t), &stubAgent{})

	w := doRequest(t, router, http.MethodPost, "/api/chats/1/messages", `{"user_id": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", w.Code)
	}
}

func TestListMeetings(t *testing.T) {
	db := openTestDB(t)
	meeting := models.Meeting{
		ChatID:   1,
		Title:    "Team Meeting",
		StartUTC: time.Date(2025, 8, 7, 10, 30, 0, 0, time.UTC),
		EndUTC:   time.Date(2025, 8, 7, 11, 30, 0, 0, time.UTC),
		Status:   models.MeetingScheduled,
	}
	if err := db.Create(&meeting).Error; err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	part := models.MeetingParticipant{MeetingID: meeting.ID, UserID: 2, Response: models.ResponseInvited}
	if err := db.Create(&part).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}
	router := NewRouter(db, &stubAgent{})

	w := doRequest(t, router, http.MethodGet, "/api/chats/1/meetings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var views []meetingView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode meetings: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("meetings = %d, want 1", len(views))
	}
	if views[0].Title != "Team Meeting" || len(views[0].Participants) != 1 {
		t.Errorf("meeting = %+v", views[0])
	}
	if views[0].Participants[0].UserID != 2 || views[0].Participants[0].Response != models.ResponseInvited {
		t.Errorf("participant = %+v", views[0].Participants[0])
	}
}

func TestBadChatIDParam(t *testing.T) {
	router := NewRouter(openTestDB(t), &stubAgent{})

	for _, path := range []string{"/api/chats/abc/messages", "/api/chats/abc/meetings"} {
		w := doRequest(t, router, http.MethodGet, path, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: code = %d, want 400", path, w.Code)
		}
	}
}
