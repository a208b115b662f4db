// Package cli provides common CLI initialization utilities.
// This package consolidates the startup steps shared by the fintrack
// subcommands: environment, configuration, logging, store and broker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/backend"
	"github.com/Maverick2506/Fintrack-backend/internal/clock"
	"github.com/Maverick2506/Fintrack-backend/internal/config"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/Maverick2506/Fintrack-backend/internal/log"
	"github.com/Maverick2506/Fintrack-backend/internal/services"
)

// ConfigEnv names the variable holding the default YAML config path.
const ConfigEnv = "FINTRACK_CONFIG"

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the optional YAML file, applies the environment and
// validates the result.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger installs the process logger described by cfg.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, _ := cfg.SlogLevel()
	return log.Setup(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stdout,
	})
}

// OpenStore creates the configured ledger store. The returned cleanup is
// never nil.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (ledger.Store, func(), error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err.Error())
		}
	}
	return result.Store, cleanup, nil
}

// ConnectAMQP returns the broker client, or nil when AMQP is not configured.
func ConnectAMQP(cfg *config.Config, logger *log.Logger) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, ledger events disabled")
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, nil
}

// Publisher adapts an optional client to services.EventPublisher, keeping a
// nil client from becoming a non-nil interface.
func Publisher(client *amqp.Client) services.EventPublisher {
	if client == nil {
		return nil
	}
	return client
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ParseAsOf reads a YYYY-MM-DD date, defaulting to today on clk.
func ParseAsOf(value string, clk clock.Clock) (core.Date, error) {
	if strings.TrimSpace(value) == "" {
		return clock.Today(clk), nil
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid --as-of: %w", err)
	}
	return d, nil
}
