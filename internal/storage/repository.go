package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Maverick2506/Fintrack-backend/internal/ledger"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Repository is the SQL implementation of ledger.Store.
type Repository struct {
	*Queries
	db      *sql.DB
	dialect Dialect
}

var _ ledger.Store = (*Repository)(nil)

// NewSQLiteRepository opens (creating if needed) the database file and migrates it.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return Open(context.Background(), SQLite, SQLiteDSN(dbPath))
}

// NewPostgresRepository connects to databaseURL and migrates it.
func NewPostgresRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	return Open(ctx, Postgres, databaseURL)
}

// Open connects with the dialect's driver, pings, and runs pending migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect.Name, err)
	}
	if dialect == SQLite {
		// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.InfoContext(ctx, "Database ready", "dialect", dialect.Name)

	return &Repository{
		Queries: New(db, dialect),
		db:      db,
		dialect: dialect,
	}, nil
}

// SQLiteDSN is the modernc connection string for the database file at path.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// WithinTx runs fn in a database transaction, rolling back on error.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx ledger.Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.Queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DeleteCreditCard unlinks expenses and deletes the card atomically.
func (r *Repository) DeleteCreditCard(ctx context.Context, id int64) error {
	return r.WithinTx(ctx, func(tx ledger.Repository) error {
		return tx.DeleteCreditCard(ctx, id)
	})
}

// DeletePaycheque unlinks expenses and deletes the paycheque atomically.
func (r *Repository) DeletePaycheque(ctx context.Context, id int64) error {
	return r.WithinTx(ctx, func(tx ledger.Repository) error {
		return tx.DeletePaycheque(ctx, id)
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
