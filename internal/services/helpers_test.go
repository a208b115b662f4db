package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, evt *amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []amqp.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBrokerDown = errors.New("broker down")

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCard(t *testing.T, store *memory.Store, name string, limit string) core.CreditCard {
	t.Helper()
	c, err := store.CreateCreditCard(context.Background(), core.CreditCard{Name: name, CreditLimit: money(limit)})
	require.NoError(t, err)
	return c
}

func balanceOf(t *testing.T, store *memory.Store, id int64) decimal.Decimal {
	t.Helper()
	c, err := store.GetCreditCard(context.Background(), id)
	require.NoError(t, err)
	return c.CurrentBalance
}

func id(v int64) *int64 { return &v }
