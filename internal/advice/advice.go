// Package advice asks a text generation model for budgeting tips and
// expense categories.
package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Maverick2506/Fintrack-backend/internal/cache"
	"github.com/Maverick2506/Fintrack-backend/internal/core"
)

// ErrNotConfigured is returned when no model is available.
var ErrNotConfigured = errors.New("AI service is not configured.")

// Generator produces a completion for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Snapshot is the financial picture the client sends for advice. Every field
// is required; empty lists are fine, missing ones are not.
type Snapshot struct {
	MonthlySummary    *core.MonthlySummary `json:"monthly_summary"`
	AllUpcomingBills  []core.Expense       `json:"all_upcoming_bills"`
	DebtSummary       []core.Debt          `json:"debt_summary"`
	CreditCardSummary []core.CreditCard    `json:"credit_card_summary"`
}

func (s Snapshot) Validate() error {
	if s.MonthlySummary == nil || s.AllUpcomingBills == nil || s.DebtSummary == nil || s.CreditCardSummary == nil {
		return core.NewValidationError("snapshot", "Incomplete financial data provided.")
	}
	return nil
}

// Advisor builds prompts and interprets the model's answers.
type Advisor struct {
	gen        Generator
	userName   string
	categories *cache.LRUCache[core.Category]
}

// NewAdvisor returns an advisor addressing advice to userName. A nil
// generator yields an advisor that reports ErrNotConfigured.
func NewAdvisor(gen Generator, userName string) *Advisor {
	return &Advisor{
		gen:        gen,
		userName:   userName,
		categories: cache.NewLRUCache[core.Category](256, 24*time.Hour),
	}
}

// Enabled reports whether a model is configured.
func (a *Advisor) Enabled() bool {
	return a != nil && a.gen != nil
}

// Cleaner exposes the categorization cache for periodic cleanup.
func (a *Advisor) Cleaner() cache.Cleaner {
	return a.categories
}

// Advice returns one actionable tip for the snapshot.
func (a *Advisor) Advice(ctx context.Context, s Snapshot) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	if err := s.Validate(); err != nil {
		return "", err
	}

	text, err := a.gen.Generate(ctx, AdvicePrompt(a.userName, s))
	if err != nil {
		return "", fmt.Errorf("generate advice: %w", err)
	}
	slog.InfoContext(ctx, "Financial advice generated",
		"component", "advice",
		"bills", len(s.AllUpcomingBills),
		"debts", len(s.DebtSummary),
		"cards", len(s.CreditCardSummary))
	return strings.TrimSpace(text), nil
}

// Categorize maps an expense name to a category. Answers outside the known
// set fall back to Other. Results are cached per name.
func (a *Advisor) Categorize(ctx context.Context, name string) (core.Category, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.NewValidationError("name", "name is required")
	}

	key := strings.ToLower(name)
	if c, ok := a.categories.Get(key); ok {
		return c, nil
	}

	text, err := a.gen.Generate(ctx, CategorizePrompt(name))
	if err != nil {
		return "", fmt.Errorf("categorize expense: %w", err)
	}
	category := ParseAnswer(text)
	a.categories.Set(key, category)

	slog.DebugContext(ctx, "Expense categorized",
		"component", "advice",
		"name", name,
		"answer", strings.TrimSpace(text),
		"category", category)
	return category, nil
}

// ParseAnswer extracts a category from free text.
func ParseAnswer(text string) core.Category {
	cleaned := strings.Trim(strings.TrimSpace(text), ".*\"'`")
	if c, ok := core.ParseCategory(cleaned); ok {
		return c
	}
	// Models sometimes answer in a sentence; take the first category named.
	lower := strings.ToLower(text)
	best, bestAt := core.CategoryOther, -1
	for _, c := range core.Categories {
		if at := strings.Index(lower, strings.ToLower(string(c))); at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = c, at
		}
	}
	return best
}
