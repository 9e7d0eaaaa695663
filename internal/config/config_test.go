package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Path != "schedbot.db" {
		t.Errorf("Database.Path = %q, want schedbot.db", cfg.Database.Path)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("OpenAI.Model = %q, want gpt-4o", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.TimeoutSec != 60 {
		t.Errorf("OpenAI.TimeoutSec = %d, want 60", cfg.OpenAI.TimeoutSec)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Scheduler.Timezone != "Asia/Kolkata" {
		t.Errorf("Scheduler.Timezone = %q, want Asia/Kolkata", cfg.Scheduler.Timezone)
	}
	if cfg.Scheduler.MeetingMinutes != 60 {
		t.Errorf("Scheduler.MeetingMinutes = %d, want 60", cfg.Scheduler.MeetingMinutes)
	}
	if cfg.Scheduler.HorizonDays != 14 {
		t.Errorf("Scheduler.HorizonDays = %d, want 14", cfg.Scheduler.HorizonDays)
	}
}

func TestParse_MySQLDefaults(t *testing.T) {
	yaml := `
database:
  driver: mysql
  name: schedbot
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want 127.0.0.1", cfg.Database.Host)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want 3306", cfg.Database.Port)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want root", cfg.Database.User)
	}
}

func TestParse_UnknownDriver(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "database.driver") {
		t.Errorf("error = %q, want mention of database.driver", err)
	}
}

func TestParse_MySQLMissingName(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: mysql\n"))
	if err == nil {
		t.Fatal("expected error for missing mysql database name")
	}
}

func TestParse_BadTimezone(t *testing.T) {
	_, err := Parse([]byte("scheduler:\n  timezone: Mars/Olympus\n"))
	if err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}

func TestParse_BadCron(t *testing.T) {
	yaml := `
watch:
  cron: "not a cron"
  chat_ids: [1]
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestParse_WatchCronWithoutChats(t *testing.T) {
	yaml := `
watch:
  cron: "*/15 * * * *"
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for watch.cron without chat_ids")
	}
}

func TestParse_ValidWatch(t *testing.T) {
	yaml := `
watch:
  cron: "*/15 * * * *"
  chat_ids: [1, 2]
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Watch.ChatIDs) != 2 {
		t.Errorf("Watch.ChatIDs = %v, want two entries", cfg.Watch.ChatIDs)
	}
}
