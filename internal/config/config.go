// Package config provides YAML-based configuration loading for Schedbot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Schedbot configuration, loaded from schedbot.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Email     EmailConfig     `yaml:"email"`
	Notify    NotifyConfig    `yaml:"notify"`
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Watch     WatchConfig     `yaml:"watch"`
}

// DatabaseConfig selects and configures the persistent store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path   string `yaml:"path"`   // sqlite file path
	Host   string `yaml:"host"`   // mysql host
	Port   int    `yaml:"port"`   // mysql port
	Name   string `yaml:"name"`   // mysql database name
	User   string `yaml:"user"`   // mysql user
}

// OpenAIConfig holds settings for the reasoning service.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EmailConfig holds settings for confirmation emails.
type EmailConfig struct {
	SendGridKey string `yaml:"sendgrid_key"`
	From        string `yaml:"from"`
}

// NotifyConfig configures optional chat-platform announcements.
type NotifyConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
}

// SlackConfig holds Slack announcement settings.
type SlackConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DiscordConfig holds Discord announcement settings.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SchedulerConfig tunes the scheduling pipeline.
type SchedulerConfig struct {
	Timezone       string `yaml:"timezone"`        // IANA zone for transcript display and slot defaults
	MeetingMinutes int    `yaml:"meeting_minutes"` // default meeting duration
	HorizonDays    int    `yaml:"horizon_days"`    // how far ahead the optimal-time stage may look
}

// WatchConfig drives periodic re-scheduling of chats.
type WatchConfig struct {
	Cron    string `yaml:"cron"` // 5-field cron expression
	ChatIDs []uint `yaml:"chat_ids"`
}

// cronParser validates standard 5-field cron expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEnv overlays secrets from the environment onto the config. A .env
// file next to the working directory is loaded first if present; existing
// environment variables win, matching godotenv's behavior.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Email.SendGridKey = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Notify.Slack.BotToken = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Notify.Discord.BotToken = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "schedbot.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o"
	}
	if c.OpenAI.TimeoutSec == 0 {
		c.OpenAI.TimeoutSec = 60
	}
	if c.Email.From == "" {
		c.Email.From = "meetings@example.com"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = "Asia/Kolkata"
	}
	if c.Scheduler.MeetingMinutes == 0 {
		c.Scheduler.MeetingMinutes = 60
	}
	if c.Scheduler.HorizonDays == 0 {
		c.Scheduler.HorizonDays = 14
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required for sqlite")
		}
	case "mysql":
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required for mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite or mysql, got %q", c.Database.Driver))
	}
	if c.Scheduler.MeetingMinutes < 0 {
		errs = append(errs, "scheduler.meeting_minutes must be positive")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("scheduler.timezone %q is not a valid IANA zone", c.Scheduler.Timezone))
	}
	if c.Watch.Cron != "" {
		if _, err := cronParser.Parse(c.Watch.Cron); err != nil {
			errs = append(errs, fmt.Sprintf("watch.cron %q is not a valid cron expression", c.Watch.Cron))
		}
		if len(c.Watch.ChatIDs) == 0 {
			errs = append(errs, "watch.chat_ids is required when watch.cron is set")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
