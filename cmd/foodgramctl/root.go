package main

import (
	"fmt"

	"github.com/sifan077/FoodGram/config"
	"github.com/sifan077/FoodGram/internal/infra/logger"
	infraPostgres "github.com/sifan077/FoodGram/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "foodgramctl",
	Short:         "Administrative tasks for the FoodGram database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		_, err = logger.Init(logger.Config{
			Development: cfg.App.IsDevelopment(),
			Level:       cfg.Log.Level,
			Encoding:    cfg.Log.Encoding,
		})
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

var appConfig *config.Config

// withDB opens the configured database for the duration of fn.
func withDB(fn func(db *gorm.DB) error) error {
	db, err := infraPostgres.NewGorm(appConfig.Postgres)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("access sql db: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.L().Warn("failed to close database", zap.Error(err))
		}
	}()
	return fn(db)
}
