package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/logger"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "leadflow",
	Short:         "Lead intake, assignment and notification service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, crmSyncCmd, crmCheckCmd, seedCategoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "leadflow:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
