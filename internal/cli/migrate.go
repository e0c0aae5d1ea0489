package cli

import (
	"ai-imagegen-be/internal/config"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		// gen_random_uuid() defaults
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			color.Yellow("Warn: could not create pgcrypto extension: %v", err)
		}
		if err := database.Migrate(db, model.All()...); err != nil {
			return err
		}
		color.Green("Migration complete (%d tables)", len(model.All()))
		return nil
	},
}
