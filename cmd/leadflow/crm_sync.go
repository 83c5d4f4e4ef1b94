package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/infra/integration/kommo"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

const crmTimeout = 15 * time.Second

var crmSyncCmd = &cobra.Command{
	Use:   "crm-sync",
	Short: "Consume lead.created events and push them into Kommo",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return crmSync(ctx, cfg, log)
	},
}

func crmSync(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.AMQP.URL == "" {
		return errors.New("AMQP_URL is required for crm-sync")
	}
	if cfg.Kommo.BaseURL == "" || cfg.Kommo.APIToken == "" {
		return kommo.ErrNotConfigured
	}

	rabbit, err := queue.NewRabbitMQ(cfg.AMQP.URL)
	if err != nil {
		return err
	}
	defer rabbit.Close()

	crm := kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, cfg.Kommo.StatusID, crmTimeout, log)
	worker := queue.NewWorker(rabbit.Ch, crm, log)

	log.Info("crm sync started", zap.String("queue", queue.CRMSyncQueue))
	return worker.Start(ctx, queue.CRMSyncQueue)
}
