package finance

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
)

// ExpenseRepository provides access to expense aggregates
type ExpenseRepository interface {
	shared.Repository[Expense]

	// FindByStatus returns expenses in the given status
	FindByStatus(ctx context.Context, status ExpenseStatus, filter shared.Filter) ([]Expense, error)

	// FindCreditableInPeriod returns the ITC-eligible expenses in
	// APPROVED or PAID status dated within [from, to)
	FindCreditableInPeriod(ctx context.Context, from, to time.Time) ([]Expense, error)

	// SaveWithLock persists the expense with an optimistic version check.
	// Concurrent approval attempts on the same expense lose the race and
	// surface a concurrency conflict.
	SaveWithLock(ctx context.Context, expense *Expense) error
}
