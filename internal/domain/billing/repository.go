package billing

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
)

// InvoiceRepository provides access to invoice aggregates
type InvoiceRepository interface {
	shared.Repository[Invoice]

	// FindByNumber retrieves an invoice by its invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindFinalizedInPeriod returns all finalised invoices dated within
	// the half-open interval [from, to), ordered by invoice date
	FindFinalizedInPeriod(ctx context.Context, from, to time.Time) ([]Invoice, error)

	// SaveWithLock persists the invoice with an optimistic version check
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
