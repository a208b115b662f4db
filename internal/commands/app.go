package commands

import (
	"context"
	"fmt"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/cli"
	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/config"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
	"github.com/Maverick2506/Fintrack-backend/internal/services"
)

// app holds what every ledger command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	clock   clock.Clock
	store   ledger.Store
	broker  *amqp.Client
	cleanup []func()

	expenses  *services.ExpenseService
	accounts  *services.AccountService
	payments  *services.PaymentService
	reporter  *services.Reporter
	recurring *services.RecurringProcessor
	sweeper   *services.SettlementSweeper
}

// bootstrap loads configuration, opens the store and, when configured,
// connects to the broker.
func bootstrap(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := cli.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: cli.SetupLogger(cfg),
		clock:  clock.NewSystem(cfg.Location()),
	}

	store, closeStore, err := cli.OpenStore(ctx, cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = store
	a.cleanup = append(a.cleanup, closeStore)

	broker, err := cli.ConnectAMQP(cfg, a.logger)
	if err != nil {
		// Events are best effort; the ledger works without them.
		a.logger.Warn("AMQP unavailable, ledger events disabled", log.FieldError, err.Error())
	}
	if broker != nil {
		a.broker = broker
		a.cleanup = append(a.cleanup, func() { _ = broker.Close() })
	}

	a.wire()
	return a, nil
}

func (a *app) wire() {
	publisher := cli.Publisher(a.broker)
	a.expenses = services.NewExpenseService(a.store, publisher)
	a.accounts = services.NewAccountService(a.store)
	a.payments = services.NewPaymentService(a.store, a.clock, services.NewSettlementRecorder(a.expenses), publisher)
	a.reporter = services.NewReporter(a.store, a.clock)
	a.recurring = services.NewRecurringProcessor(a.store, a.expenses, publisher)
	a.sweeper = services.NewSettlementSweeper(a.store, publisher)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}
