package main

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/propvivo/schedbot/internal/config"
	"github.com/propvivo/schedbot/internal/db"
	"github.com/propvivo/schedbot/internal/notify"
	"github.com/propvivo/schedbot/internal/notify/discord"
	"github.com/propvivo/schedbot/internal/notify/sendgrid"
	"github.com/propvivo/schedbot/internal/notify/slack"
	"github.com/propvivo/schedbot/internal/reasoning"
	"github.com/propvivo/schedbot/internal/scheduler"
)

// loadConfig reads the config file and overlays env secrets.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.LoadEnv()
	return cfg, nil
}

// buildAgent wires the full pipeline: DB, reasoning client, notification
// dispatcher, scheduler.
func buildAgent(cfg *config.Config) (*scheduler.Agent, *gorm.DB, error) {
	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Scheduler.Timezone, err)
	}

	engine, err := reasoning.NewClient(reasoning.ClientOpts{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Timeout:     time.Duration(cfg.OpenAI.TimeoutSec) * time.Second,
		HorizonDays: cfg.Scheduler.HorizonDays,
	})
	if err != nil {
		return nil, nil, err
	}

	notifier, err := buildNotifier(cfg, gormDB, loc)
	if err != nil {
		return nil, nil, err
	}

	agent := scheduler.New(gormDB, engine, notifier, scheduler.Opts{
		Location:       loc,
		MeetingMinutes: cfg.Scheduler.MeetingMinutes,
	})
	return agent, gormDB, nil
}

// buildNotifier assembles the dispatcher from whichever channels are
// configured. Returns nil when nothing is configured.
func buildNotifier(cfg *config.Config, gormDB *gorm.DB, loc *time.Location) (scheduler.Notifier, error) {
	var sender notify.Sender
	if cfg.Email.SendGridKey != "" {
		s, err := sendgrid.New(sendgrid.Opts{APIKey: cfg.Email.SendGridKey, From: cfg.Email.From})
		if err != nil {
			return nil, err
		}
		sender = s
	}

	var announcers []notify.Announcer
	if cfg.Notify.Slack.BotToken != "" {
		a, err := slack.New(slack.Opts{
			BotToken:  cfg.Notify.Slack.BotToken,
			ChannelID: cfg.Notify.Slack.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		announcers = append(announcers, a)
	}
	if cfg.Notify.Discord.BotToken != "" {
		a, err := discord.New(discord.Opts{
			BotToken:  cfg.Notify.Discord.BotToken,
			ChannelID: cfg.Notify.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		announcers = append(announcers, a)
	}

	if sender == nil && len(announcers) == 0 {
		return nil, nil
	}
	return notify.NewDispatcher(gormDB, sender, announcers, loc), nil
}
