package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maverick2506/Fintrack-backend/internal/cli"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
)

func newMaterializeCommand(cfgPath func() string) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Create this month's instances of recurring expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, cfgPath(), asOf, "recurring", "created",
				func(ctx context.Context, a *app, d core.Date) (int, error) {
					return a.recurring.MaterializeDueRecurrences(ctx, d)
				})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "run as of this date (YYYY-MM-DD, default today)")
	return cmd
}

func newSettleCommand(cfgPath func() string) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Mark card-funded bills due on or before the date as paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, cfgPath(), asOf, "settlement", "settled",
				func(ctx context.Context, a *app, d core.Date) (int, error) {
					return a.sweeper.SettleDueCardBills(ctx, d)
				})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "run as of this date (YYYY-MM-DD, default today)")
	return cmd
}

// runJob runs one ledger job outside the scheduler and prints its count.
func runJob(cmd *cobra.Command, cfgPath, asOf, name, verb string,
	job func(context.Context, *app, core.Date) (int, error)) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	a, err := bootstrap(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := cli.ParseAsOf(asOf, a.clock)
	if err != nil {
		return err
	}

	n, err := job(ctx, a, date)
	if err != nil {
		a.logger.ErrorContext(ctx, "Job failed",
			log.FieldJob, name,
			"as_of", date.String(),
			log.FieldError, err.Error())
		return fmt.Errorf("%s job: %w", name, err)
	}
	a.logger.InfoContext(ctx, "Job complete", log.FieldJob, name, "as_of", date.String(), verb, n)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", verb, n)
	return nil
}
