package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zafmy/sms-lms-v1-sub000/internal/database"
)

func newDBCommand() *cobra.Command {
	dbCommand := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance commands",
	}
	dbCommand.AddCommand(newDBInitCommand())
	return dbCommand
}

func newDBInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the review tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			fmt.Println("Database initialized.")
			return nil
		},
	}
}
