package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"inbox-todo/backend/internal/database"
	"inbox-todo/backend/internal/repositories"
	"inbox-todo/backend/internal/services"
)

// withItemService はItemServiceを用意して fn を実行します。
func (a *app) withItemService(ctx context.Context, fn func(context.Context, *services.ItemService) error) error {
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer database.Close(db, a.log)

	svc := services.NewItemService(repositories.NewItemRepository(db), a.log, loc)
	return fn(ctx, svc)
}

func newInboxCmd(a *app) *cobra.Command {
	var (
		userID uint
		date   string
	)
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show a user's inbox for a day",
		Long:  `Show a user's inbox for a day. --date accepts YYYY-MM-DD, "today", "tomorrow", "yesterday" or offsets like "+2d" and "-1w".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItemService(cmd.Context(), func(ctx context.Context, svc *services.ItemService) error {
				day := svc.Today()
				if date != "" {
					parsed, err := svc.ParseDay(date)
					if err != nil {
						return err
					}
					day = *parsed
				}
				items, err := svc.ListInboxForDate(ctx, userID, day)
				if err != nil {
					return err
				}
				title := fmt.Sprintf("Inbox %s", day.In(svc.Location()).Format("2006-01-02 (Mon)"))
				return renderItems(cmd.OutOrStdout(), title, items)
			})
		},
	}
	cmd.Flags().UintVarP(&userID, "user", "u", 0, "owner user ID")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show (default today)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newBacklogCmd(a *app) *cobra.Command {
	var userID uint
	cmd := &cobra.Command{
		Use:   "backlog",
		Short: "Show a user's backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withItemService(cmd.Context(), func(ctx context.Context, svc *services.ItemService) error {
				items, err := svc.ListBacklog(ctx, userID)
				if err != nil {
					return err
				}
				return renderItems(cmd.OutOrStdout(), "Backlog", items)
			})
		},
	}
	cmd.Flags().UintVarP(&userID, "user", "u", 0, "owner user ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
