package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var (
		configPath string
		chatID     uint
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the scheduling pipeline for one chat",
		Long:  "Reads the chat's history, decides whether a meeting should be scheduled, and prints the outcome as JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, configPath, chatID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "schedbot.yaml", "path to Schedbot config file")
	cmd.Flags().UintVar(&chatID, "chat", 0, "chat id to schedule for")
	cmd.MarkFlagRequired("chat")
	return cmd
}

func runSchedule(cmd *cobra.Command, configPath string, chatID uint) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	agent, _, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	result := agent.Schedule(context.Background(), chatID)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
