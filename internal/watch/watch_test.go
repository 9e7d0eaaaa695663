package watch

import (
	"context"
	"testing"

	"github.com/propvivo/schedbot/internal/scheduler"
)

// stubAgent records which chats were scheduled.
type stubAgent struct {
	chatIDs []uint
}

func (s *stubAgent) Schedule(ctx context.Context, chatID uint) *scheduler.Result {
	s.chatIDs = append(s.chatIDs, chatID)
	return &scheduler.Result{Status: scheduler.StatusNoIntent, Message: "no intent"}
}

func TestNew_RequiresAgent(t *testing.T) {
	_, err := New(nil, "*/15 * * * *", []uint{1})
	if err == nil {
		t.Fatal("expected error for nil agent")
	}
}

func TestNew_RejectsBadCron(t *testing.T) {
	_, err := New(&stubAgent{}, "not a cron", []uint{1})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestNew_RejectsSixFieldCron(t *testing.T) {
	// Seconds field is not part of the accepted format.
	_, err := New(&stubAgent{}, "0 */15 * * * *", []uint{1})
	if err == nil {
		t.Fatal("expected error for six-field cron expression")
	}
}

func TestNew_RequiresChats(t *testing.T) {
	_, err := New(&stubAgent{}, "*/15 * * * *", nil)
	if err == nil {
		t.Fatal("expected error for empty chat list")
	}
}

func TestTick_RunsEveryChat(t *testing.T) {
	agent := &stubAgent{}
	w, err := New(agent, "*/15 * * * *", []uint{3, 7, 11})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w.Tick(context.Background())

	if len(agent.chatIDs) != 3 {
		t.Fatalf("scheduled chats = %v, want 3", agent.chatIDs)
	}
	for i, want := range []uint{3, 7, 11} {
		if agent.chatIDs[i] != want {
			t.Errorf("chat[%d] = %d, want %d", i, agent.chatIDs[i], want)
		}
	}
}
