package main

import (
	"github.com/spf13/cobra"

	"inbox-todo/backend/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db, a.log)
			a.log.Info("database migrated", "driver", a.cfg.DB.Driver)
			return nil
		},
	}
}
