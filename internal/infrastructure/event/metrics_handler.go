package event

import (
	"context"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/telemetry"
)

// MetricsHandler translates domain events into business metrics
type MetricsHandler struct {
	metrics *telemetry.BusinessMetrics
}

// NewMetricsHandler creates a metrics event handler
func NewMetricsHandler(metrics *telemetry.BusinessMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes returns the event types this handler subscribes to
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceFinalized,
		finance.EventTypeExpenseSubmitted,
		finance.EventTypeExpenseApproved,
		finance.EventTypeExpenseRejected,
		finance.EventTypeExpensePaid,
	}
}

// Handle records the metric corresponding to the event
func (h *MetricsHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch e := evt.(type) {
	case *billing.InvoiceFinalizedEvent:
		h.metrics.RecordInvoiceFinalized(ctx, e.SupplyType, e.Bucket)
	case *finance.ExpenseSubmittedEvent:
		h.metrics.RecordExpenseTransition(ctx, "submitted")
	case *finance.ExpenseApprovedEvent:
		h.metrics.RecordExpenseTransition(ctx, "approved")
		if e.ITCEligible {
			h.metrics.RecordLedgerPosting(ctx, e.Period)
		}
	case *finance.ExpenseRejectedEvent:
		h.metrics.RecordExpenseTransition(ctx, "rejected")
	case *finance.ExpensePaidEvent:
		h.metrics.RecordExpenseTransition(ctx, "paid")
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
