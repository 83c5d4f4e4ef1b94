package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/infra/integration/kommo"
)

var crmCheckInput = kommo.CreateLeadInput{
	CustomerName: "Leadflow Test",
	Phone:        "+972501234567",
	Email:        "crm-check@example.com",
	Source:       "crm-check",
	Tags:         []string{"test"},
}

// crmCheckCmd pushes one sample lead to Kommo to verify credentials and
// pipeline settings.
var crmCheckCmd = &cobra.Command{
	Use:   "crm-check",
	Short: "Create a sample lead in Kommo",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.Kommo.BaseURL == "" || cfg.Kommo.APIToken == "" {
			return kommo.ErrNotConfigured
		}

		client := kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, cfg.Kommo.StatusID, crmTimeout, log)
		id, err := client.CreateLead(cmd.Context(), crmCheckInput)
		if err != nil {
			return fmt.Errorf("create kommo lead: %w", err)
		}

		log.Info("kommo lead created", zap.Int("crm_id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "%s/leads/detail/%d\n", cfg.Kommo.BaseURL, id)
		return nil
	},
}
