// Package server exposes the scheduling pipeline and chat data over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/propvivo/schedbot/internal/scheduler"
)

// Scheduler runs the pipeline for one chat. Satisfied by *scheduler.Agent
// and by test stubs.
type Scheduler interface {
	Schedule(ctx context.Context, chatID uint) *scheduler.Result
}

// StartOpts holds configuration for the HTTP server.
type StartOpts struct {
	DB    *gorm.DB
	Agent Scheduler
	Port  int
	Out   io.Writer
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Agent == nil {
		return fmt.Errorf("server: agent is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	router := NewRouter(opts.DB, opts.Agent)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Schedbot API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the gin router with all routes registered.
func NewRouter(db *gorm.DB, agent Scheduler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, db, agent)
	return router
}
