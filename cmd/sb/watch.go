package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/propvivo/schedbot/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run scheduling for configured chats on a cron cadence",
		Long:  "Runs the pipeline for each chat in watch.chat_ids on the watch.cron schedule, so new messages supersede the day's meeting.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "schedbot.yaml", "path to Schedbot config file")
	return cmd
}

func runWatch(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Watch.Cron == "" {
		return fmt.Errorf("watch.cron is not configured")
	}

	agent, _, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	watcher, err := watch.New(agent, cfg.Watch.Cron, cfg.Watch.ChatIDs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d chats on schedule %q\n", len(cfg.Watch.ChatIDs), cfg.Watch.Cron)
	return watcher.Run(ctx)
}
