// Package database はGORMのデータベース接続とマイグレーションを扱います。
package database

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/models"
)

// MySQLDSN は設定からMySQL接続文字列 (DSN) を構築します。
// DSN が直接指定されている場合はそれを優先します。
func MySQLDSN(cfg config.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Pass
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.Name
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN()
}

// Dialector は Driver に応じたGORMのDialectorを返します。
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		return gormmysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "inbox.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open はデータベース接続を初期化し、疎通を確認します。
func Open(cfg config.DBConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLiteは書き込みが1接続に限られるため、プールを1本にする
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate はスキーマを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Item{})
}

// Ping は接続の健全性を確認します。
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close は接続を閉じます。
func Close(db *gorm.DB, log *slog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to get database handle", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("failed to close database connection", "error", err)
	}
}
