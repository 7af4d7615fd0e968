package main

import (
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/infra/logger"
	infraPostgres "github.com/sifan077/FoodGram/internal/infra/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := infraPostgres.AutoMigrate(cmd.Context(), db, model.All()...); err != nil {
				return err
			}
			logger.L().Info("migration completed")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
