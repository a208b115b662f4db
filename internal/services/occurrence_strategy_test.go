package services

import (
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		anchorDue core.Date
		asOf      core.Date
		want      core.Date
	}{
		{"same day number", core.NewDate(2024, 1, 15), core.NewDate(2024, 6, 20), core.NewDate(2024, 6, 15)},
		{"asOf before day in month", core.NewDate(2024, 1, 25), core.NewDate(2024, 6, 3), core.NewDate(2024, 6, 25)},
		{"31st clamped in 30-day month", core.NewDate(2024, 1, 31), core.NewDate(2024, 6, 10), core.NewDate(2024, 6, 30)},
		{"31st clamped in leap february", core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 1), core.NewDate(2024, 2, 29)},
		{"31st clamped in february", core.NewDate(2023, 1, 31), core.NewDate(2023, 2, 1), core.NewDate(2023, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MonthlyOccurrence{}.Occurrence(tt.anchorDue, tt.asOf)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearlyOccurrence(t *testing.T) {
	anchor := core.NewDate(2023, 3, 12)

	t.Run("anchor month recurs", func(t *testing.T) {
		got, ok := YearlyOccurrence{}.Occurrence(anchor, core.NewDate(2024, 3, 1))
		assert.True(t, ok)
		assert.Equal(t, core.NewDate(2024, 3, 12), got)
	})

	t.Run("other month does not recur", func(t *testing.T) {
		_, ok := YearlyOccurrence{}.Occurrence(anchor, core.NewDate(2024, 4, 12))
		assert.False(t, ok)
	})

	t.Run("leap day clamped", func(t *testing.T) {
		got, ok := YearlyOccurrence{}.Occurrence(core.NewDate(2024, 2, 29), core.NewDate(2025, 2, 10))
		assert.True(t, ok)
		assert.Equal(t, core.NewDate(2025, 2, 28), got)
	})
}

func TestGetOccurrenceStrategy(t *testing.T) {
	s, err := GetOccurrenceStrategy(core.RecurrenceMonthly)
	require.NoError(t, err)
	assert.IsType(t, MonthlyOccurrence{}, s)

	s, err = GetOccurrenceStrategy(core.RecurrenceYearly)
	require.NoError(t, err)
	assert.IsType(t, YearlyOccurrence{}, s)

	_, err = GetOccurrenceStrategy(core.RecurrenceNone)
	assert.Error(t, err)
}
