package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Maverick2506/Fintrack-backend/internal/advice"
	"github.com/Maverick2506/Fintrack-backend/internal/auth"
	"github.com/Maverick2506/Fintrack-backend/internal/cache"
	"github.com/Maverick2506/Fintrack-backend/internal/cli"
	apphttp "github.com/Maverick2506/Fintrack-backend/internal/http"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
	"github.com/Maverick2506/Fintrack-backend/internal/scheduler"
)

func newServeCommand(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled ledger jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return runServe(ctx, cfgPath())
		},
	}
}

func runServe(ctx context.Context, cfgPath string) error {
	a, err := bootstrap(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	authn, err := auth.New(auth.Config{
		Password:     a.cfg.AuthPassword,
		PasswordHash: a.cfg.AuthPasswordHash,
		Secret:       a.cfg.SigningSecret(),
		TTL:          a.cfg.TokenTTL,
		Subject:      a.cfg.AuthSubject,
	}, a.clock)
	if err != nil {
		return err
	}

	advisor, err := newAdvisor(ctx, a)
	if err != nil {
		return err
	}

	sched := scheduler.New(a.cfg.Location(), a.clock, a.logger.WithComponent(log.ComponentScheduler).Logger)
	if err := sched.Add("recurring", a.cfg.RecurringSchedule, a.recurring.MaterializeDueRecurrences); err != nil {
		return err
	}
	if err := sched.Add("settlement", a.cfg.SettlementSchedule, a.sweeper.SettleDueCardBills); err != nil {
		return err
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + a.cfg.Port,
		CORSOrigins:    a.cfg.CORSOrigins,
		LoginRateLimit: a.cfg.LoginRateLimit,
		Logger:         a.logger,
	}, apphttp.Deps{
		Expenses:  a.expenses,
		Accounts:  a.accounts,
		Payments:  a.payments,
		Reporter:  a.reporter,
		Recurring: a.recurring,
		Sweeper:   a.sweeper,
		Advisor:   advisor,
		Auth:      authn,
		Store:     a.store,
		Clock:     a.clock,
	})

	a.logger.Info("Starting fintrack server",
		"port", a.cfg.Port,
		"backend", a.cfg.DataBackend,
		"timezone", a.cfg.Location().String(),
		"advice", advisor.Enabled(),
		"events", a.broker != nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error {
		return cache.NewJanitor(10*time.Minute, advisor.Cleaner()).Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}

// newAdvisor builds the Gemini backed advisor, or a disabled one without an API key.
func newAdvisor(ctx context.Context, a *app) (*advice.Advisor, error) {
	if !a.cfg.AdviceEnabled() {
		a.logger.Info("GEMINI_API_KEY not set, advice endpoints disabled")
		return advice.NewAdvisor(nil, a.cfg.AuthSubject), nil
	}
	gemini, err := advice.NewGemini(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return advice.NewAdvisor(gemini, a.cfg.AuthSubject), nil
}
