package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"inbox-todo/backend/internal/database"
	"inbox-todo/backend/internal/routes"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	a.log.Info("starting inbox server")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB()
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer database.Close(db, a.log)

	if a.cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := routes.SetupRouter(db, a.cfg, a.log)
	if err != nil {
		return err
	}

	server := http.Server{
		Addr:              a.cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: a.cfg.HTTP.Timeout,
	}

	go func() {
		<-ctx.Done()
		a.log.Debug("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error("erroneous shutdown", "error", err)
		}
	}()

	a.log.Info("server listening", "address", a.cfg.HTTP.Address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
