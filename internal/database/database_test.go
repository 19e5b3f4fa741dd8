package database_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/database"
)

func TestMySQLDSN(t *testing.T) {
	dsn := database.MySQLDSN(config.DBConfig{
		Host: "db",
		Port: "3306",
		User: "todo",
		Pass: "secret",
		Name: "inbox",
	})
	assert.True(t, strings.HasPrefix(dsn, "todo:secret@tcp(db:3306)/inbox?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")

	assert.Equal(t, "raw-dsn", database.MySQLDSN(config.DBConfig{DSN: "raw-dsn"}))
}

func TestDialector(t *testing.T) {
	d, err := database.Dialector(config.DBConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = database.Dialector(config.DBConfig{Driver: "mysql", Host: "db", Port: "3306"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = database.Dialector(config.DBConfig{Driver: "postgres"})
	assert.Error(t, err)

	_, err = database.Dialector(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	db, err := database.Open(config.DBConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Silent)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasTable("items"))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasColumn("items", "sort_order"))
	assert.NoError(t, database.Ping(db))
}
