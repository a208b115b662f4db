package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries implements ledger.Repository on top of a DBTX.
type Queries struct {
	db      DBTX
	dialect Dialect
	now     func() time.Time
}

func New(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect, now: func() time.Time { return time.Now().UTC() }}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect, now: q.now}
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.dialect.Rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.dialect.Rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id statement.
func (q *Queries) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := q.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// expectRow maps a zero-row update or delete to a not found error.
func expectRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.NewNotFoundError(entity, id)
	}
	return nil
}

func (q *Queries) timestamp() string {
	return q.now().Format(time.RFC3339Nano)
}

func dateParam(d core.Date) string {
	return d.Format(core.DateLayout)
}

func nullableDateParam(d *core.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return dateParam(*d)
}

func nullableIDParam(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// dateColumn scans DATE columns (postgres) and ISO text columns (sqlite).
type dateColumn struct {
	Date  core.Date
	Valid bool
}

func (c *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Date, c.Valid = core.Date{}, false
		return nil
	case time.Time:
		c.Date, c.Valid = core.DateOf(v), true
		return nil
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	}
	return fmt.Errorf("scan date: unsupported type %T", src)
}

func (c *dateColumn) parse(s string) error {
	if len(s) > len(core.DateLayout) {
		s = s[:len(core.DateLayout)]
	}
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	c.Date, c.Valid = core.DateOf(t), true
	return nil
}

func (c dateColumn) ptr() *core.Date {
	if !c.Valid {
		return nil
	}
	d := c.Date
	return &d
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// timeColumn scans TIMESTAMPTZ columns (postgres) and RFC 3339 text (sqlite).
type timeColumn struct {
	Time time.Time
}

func (c *timeColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Time = time.Time{}
		return nil
	case time.Time:
		c.Time = v.UTC()
		return nil
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	}
	return fmt.Errorf("scan timestamp: unsupported type %T", src)
}

func (c *timeColumn) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			c.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("scan timestamp %q: unknown format", s)
}

type rowScanner interface {
	Scan(dest ...any) error
}
