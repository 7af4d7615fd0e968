package main

import (
	"os"

	"github.com/sifan077/FoodGram/internal/infra/logger"
	"go.uber.org/zap"
)

func main() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		logger.L().Error("foodgramctl failed", zap.Error(err))
		os.Exit(1)
	}
}
