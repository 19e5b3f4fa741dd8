package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/database"
)

// app はコマンド間で共有する設定とロガーです。
type app struct {
	configPath string
	cfg        config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "inbox",
		Short:         "Inbox/Backlog task server",
		Long:          "inbox serves the Inbox/Backlog task API and provides maintenance commands for its database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newInboxCmd(a))
	root.AddCommand(newBacklogCmd(a))

	root.SetErr(os.Stderr)
	return root
}

// load は .env と設定ファイルを読み込み、ロガーを作ります。
func (a *app) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = mustMakeLogger(cfg.LogLevel)
	return nil
}

// openDB はデータベースに接続し、スキーマを最新にします。
func (a *app) openDB() (*gorm.DB, error) {
	db, err := database.Open(a.cfg.DB, gormLogLevel(a.cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db, a.log)
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return db, nil
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func gormLogLevel(levelStr string) logger.LogLevel {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return logger.Info
	case "ERROR":
		return logger.Error
	default:
		return logger.Warn
	}
}
