package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maverick2506/Fintrack-backend/internal/cli"
	"github.com/Maverick2506/Fintrack-backend/internal/config"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
	"github.com/Maverick2506/Fintrack-backend/internal/sheets"
	gsheet "github.com/Maverick2506/Fintrack-backend/internal/sheets/google"
	memsheet "github.com/Maverick2506/Fintrack-backend/internal/sheets/memory"
	"github.com/Maverick2506/Fintrack-backend/internal/worker"
)

func newWorkerCommand(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Export ledger events to the expense spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return runWorker(ctx, cfgPath())
		},
	}
}

func runWorker(ctx context.Context, cfgPath string) error {
	cfg, err := cli.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)

	if !cfg.AMQPEnabled() {
		return errors.New("worker requires AMQP_URL")
	}
	broker, err := cli.ConnectAMQP(cfg, logger)
	if err != nil {
		return err
	}
	defer broker.Close()

	exporter, err := newExporter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting export worker", "queue", cfg.AMQPQueue, "sheet", cfg.GoogleSheetName)
	w := worker.NewExportWorker(exporter)
	if err := broker.ConsumeWithRetry(ctx, w.HandleLedgerEvent); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume ledger events: %w", err)
	}
	logger.Info("Export worker stopped")
	return nil
}

// newExporter targets Google Sheets when a spreadsheet is configured and an
// in-memory sheet otherwise.
func newExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Exporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, exporting to an in-memory sheet")
		return memsheet.New(), nil
	}
	client, err := gsheet.NewClient(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return client, nil
}
