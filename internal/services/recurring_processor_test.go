package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Maverick2506/Fintrack-backend/internal/amqp"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger"
	"github.com/Maverick2506/Fintrack-backend/internal/ledger/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(store *memory.Store, pub EventPublisher) (*RecurringProcessor, *ExpenseService) {
	expenses := NewExpenseService(store, nil)
	return NewRecurringProcessor(store, expenses, pub), expenses
}

func TestMaterializeDueRecurrences_Monthly(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	pub := &recordingPublisher{}
	p, expenses := newProcessor(store, pub)

	anchor, err := expenses.CreateExpense(ctx, core.Expense{
		Name:       "Gym",
		Amount:     money("45"),
		DueDate:    core.NewDate(2024, 1, 15),
		IsPaid:     true,
		Category:   core.CategoryEntertainment,
		Recurrence: core.RecurrenceMonthly,
	})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	june := core.NewDate(2024, 6, 15)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Gym", DueDate: &june})
	require.NoError(t, err)
	require.Len(t, instances, 1)
	instance := instances[0]
	assert.NotEqual(t, anchor.ID, instance.ID)
	assert.False(t, instance.IsPaid)
	assert.True(t, instance.Amount.Equal(money("45")))
	assert.Equal(t, core.CategoryEntertainment, instance.Category)
	assert.Equal(t, core.RecurrenceMonthly, instance.Recurrence)
	require.NotNil(t, instance.AnchorID)
	assert.Equal(t, anchor.ID, *instance.AnchorID)
	assert.Equal(t, []amqp.EventType{amqp.EventExpenseCreated}, pub.types())

	t.Run("second run is a no-op", func(t *testing.T) {
		created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
		require.NoError(t, err)
		assert.Equal(t, 0, created)

		all, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Gym"})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestMaterializeDueRecurrences_ClampsDay(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	_, err := expenses.CreateExpense(ctx, core.Expense{Name: "Rent", Amount: money("1200"), DueDate: core.NewDate(2024, 1, 31), Recurrence: core.RecurrenceMonthly})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	due := core.NewDate(2024, 6, 30)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Rent", DueDate: &due})
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestMaterializeDueRecurrences_Yearly(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	_, err := expenses.CreateExpense(ctx, core.Expense{Name: "Insurance", Amount: money("600"), DueDate: core.NewDate(2023, 3, 12), Recurrence: core.RecurrenceYearly})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, created, "outside the anchor month")

	created, err = p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestMaterializeDueRecurrences_Skips(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	for _, e := range []core.Expense{
		{Name: "One-off", Amount: money("10"), DueDate: core.NewDate(2024, 1, 5)},
		{Name: "This month", Amount: money("10"), DueDate: core.NewDate(2024, 6, 5), Recurrence: core.RecurrenceMonthly},
		{Name: "Later today", Amount: money("10"), DueDate: core.NewDate(2024, 6, 25), Recurrence: core.RecurrenceMonthly},
	} {
		_, err := expenses.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	all, err := store.FindExpenses(ctx, ledger.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMaterializeDueRecurrences_AnchorDueLater(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	_, err := expenses.CreateExpense(ctx, core.Expense{Name: "Tuition", Amount: money("300"), DueDate: core.NewDate(2024, 8, 15), Recurrence: core.RecurrenceMonthly})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	june := core.NewDate(2024, 6, 15)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Tuition", DueDate: &june})
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestMaterializeDueRecurrences_AnchorDeleted(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	anchor, err := expenses.CreateExpense(ctx, core.Expense{Name: "Gym", Amount: money("45"), DueDate: core.NewDate(2024, 1, 15), Recurrence: core.RecurrenceMonthly})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 2, 20))
	require.NoError(t, err)
	require.Equal(t, 1, created)

	require.NoError(t, expenses.DeleteExpense(ctx, anchor.ID))

	created, err = p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	march := core.NewDate(2024, 3, 15)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Gym", DueDate: &march})
	require.NoError(t, err)
	require.Len(t, instances, 1)
	require.NotNil(t, instances[0].AnchorID)
	assert.Equal(t, anchor.ID, *instances[0].AnchorID, "instances stay in the same series")

	created, err = p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	created, err = p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 4, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, created, "one instance per series, not per remaining row")
}

func TestMaterializeDueRecurrences_AnchorRenamed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)

	anchor, err := expenses.CreateExpense(ctx, core.Expense{Name: "Gym", Amount: money("45"), DueDate: core.NewDate(2024, 1, 15), Recurrence: core.RecurrenceMonthly})
	require.NoError(t, err)

	asOf := core.NewDate(2024, 6, 20)
	created, err := p.MaterializeDueRecurrences(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	name := "Gym Plus"
	_, err = expenses.UpdateExpense(ctx, anchor.ID, ExpensePatch{Name: &name})
	require.NoError(t, err)

	// The existing check is by name, so the renamed series gets a second
	// June instance.
	created, err = p.MaterializeDueRecurrences(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	june := core.NewDate(2024, 6, 15)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{DueDate: &june})
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.ElementsMatch(t, []string{"Gym", "Gym Plus"}, []string{instances[0].Name, instances[1].Name})

	created, err = p.MaterializeDueRecurrences(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestMaterializeDueRecurrences_OverlappingRuns(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)
	card := newCard(t, store, "Visa", "1000")

	_, err := expenses.CreateExpense(ctx, core.Expense{Name: "Spotify", Amount: money("10"), DueDate: core.NewDate(2024, 1, 3), Recurrence: core.RecurrenceMonthly, CreditCardID: id(card.ID)})
	require.NoError(t, err)
	_, err = expenses.CreateExpense(ctx, core.Expense{Name: "Insurance", Amount: money("600"), DueDate: core.NewDate(2023, 6, 12), Recurrence: core.RecurrenceYearly})
	require.NoError(t, err)

	const runs = 8
	var (
		wg    sync.WaitGroup
		total atomic.Int64
	)
	for range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
			assert.NoError(t, err)
			total.Add(int64(n))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(2), total.Load())
	all, err := store.FindExpenses(ctx, ledger.ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("20")))
}

func TestMaterializeDueRecurrences_ChargesCard(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, nil)
	card := newCard(t, store, "Visa", "1000")

	_, err := expenses.CreateExpense(ctx, core.Expense{
		Name:         "Spotify",
		Amount:       money("11.99"),
		DueDate:      core.NewDate(2024, 5, 3),
		Category:     core.CategorySubscription,
		Recurrence:   core.RecurrenceMonthly,
		CreditCardID: id(card.ID),
	})
	require.NoError(t, err)
	require.True(t, balanceOf(t, store, card.ID).Equal(money("11.99")))

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("23.98")))

	_, err = p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 1))
	require.NoError(t, err)
	assert.True(t, balanceOf(t, store, card.ID).Equal(money("23.98")))
}

func TestMaterializeDueRecurrences_PublishFailureKeepsInstance(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	p, expenses := newProcessor(store, &recordingPublisher{err: errBrokerDown})

	_, err := expenses.CreateExpense(ctx, core.Expense{Name: "Gym", Amount: money("45"), DueDate: core.NewDate(2024, 1, 15), Recurrence: core.RecurrenceMonthly})
	require.NoError(t, err)

	created, err := p.MaterializeDueRecurrences(ctx, core.NewDate(2024, 6, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	june := core.NewDate(2024, 6, 15)
	instances, err := store.FindExpenses(ctx, ledger.ExpenseFilter{Name: "Gym", DueDate: &june})
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}
