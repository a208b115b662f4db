// Package memory is an in-process export target used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	ports "github.com/Maverick2506/Fintrack-backend/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	order []int64
	items map[int64]core.Expense
}

var _ ports.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[int64]core.Expense)}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if e.ID == 0 {
		return "", errors.New("expense has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.items[e.ID] = e
	return fmt.Sprintf("mem:%d", slices.Index(s.order, e.ID)+1), nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == id })
	return nil
}

// Rows returns the exported expenses in export order.
func (s *Store) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}
