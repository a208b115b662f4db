// Package services provides business logic and orchestration services.
//
// This file implements the strategy used to place a recurring expense in a
// given month. Each recurrence has its own strategy.

package services

import (
	"fmt"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// OccurrenceStrategy decides when an anchor recurs in the month of asOf.
type OccurrenceStrategy interface {
	// Occurrence returns the due date of the instance in asOf's month and
	// whether the anchor recurs in that month at all.
	Occurrence(anchorDue, asOf core.Date) (core.Date, bool)
}

// MonthlyOccurrence recurs every month on the anchor's day.
type MonthlyOccurrence struct{}

// Occurrence keeps the anchor's day, clamped to the month's last day.
func (MonthlyOccurrence) Occurrence(anchorDue, asOf core.Date) (core.Date, bool) {
	return core.ClampedDate(asOf.Year(), asOf.Month(), anchorDue.Day()), true
}

// YearlyOccurrence recurs once a year in the anchor's month.
type YearlyOccurrence struct{}

func (YearlyOccurrence) Occurrence(anchorDue, asOf core.Date) (core.Date, bool) {
	if anchorDue.Month() != asOf.Month() {
		return core.Date{}, false
	}
	return core.ClampedDate(asOf.Year(), asOf.Month(), anchorDue.Day()), true
}

var occurrenceStrategies = map[core.Recurrence]OccurrenceStrategy{
	core.RecurrenceMonthly: MonthlyOccurrence{},
	core.RecurrenceYearly:  YearlyOccurrence{},
}

// GetOccurrenceStrategy returns the strategy for a recurring expense.
func GetOccurrenceStrategy(r core.Recurrence) (OccurrenceStrategy, error) {
	s, ok := occurrenceStrategies[r]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", r)
	}
	return s, nil
}
