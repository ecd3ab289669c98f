package finance

import (
	"github.com/finbooks/backend/internal/domain/shared"
)

// Event types for the finance context
const (
	EventTypeExpenseSubmitted = "finance.expense.submitted"
	EventTypeExpenseApproved  = "finance.expense.approved"
	EventTypeExpenseRejected  = "finance.expense.rejected"
	EventTypeExpensePaid      = "finance.expense.paid"
)

// ExpenseSubmittedEvent is emitted when an expense enters the approval queue
type ExpenseSubmittedEvent struct {
	shared.BaseDomainEvent
	Category     string `json:"category"`
	TaxableValue string `json:"taxable_value"`
}

// NewExpenseSubmittedEvent creates an event from a submitted expense
func NewExpenseSubmittedEvent(e *Expense) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseSubmitted, "Expense", e.ID),
		Category:        e.Category,
		TaxableValue:    e.TaxableValue.StringFixed(2),
	}
}

// ExpenseApprovedEvent is emitted when an expense is approved. It carries
// the full posting payload so the ledger boundary needs no further reads.
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	PostingKey   string `json:"posting_key"`
	Period       string `json:"period"`
	Category     string `json:"category"`
	TaxableValue string `json:"taxable_value"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
	ITCEligible  bool   `json:"itc_eligible"`
}

// NewExpenseApprovedEvent creates an event from an approved expense
func NewExpenseApprovedEvent(e *Expense) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, "Expense", e.ID),
		PostingKey:      e.PostingKey(),
		Period:          e.Period(),
		Category:        e.Category,
		TaxableValue:    e.Split.TaxableValue.StringFixed(2),
		CGST:            e.Split.CGST.StringFixed(2),
		SGST:            e.Split.SGST.StringFixed(2),
		IGST:            e.Split.IGST.StringFixed(2),
		ITCEligible:     e.ITCEligible,
	}
}

// ExpenseRejectedEvent is emitted when an expense is declined
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewExpenseRejectedEvent creates an event from a rejected expense
func NewExpenseRejectedEvent(e *Expense) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, "Expense", e.ID),
		Reason:          e.RejectionReason,
	}
}

// ExpensePaidEvent is emitted when an approved expense is settled
type ExpensePaidEvent struct {
	shared.BaseDomainEvent
	PaymentMode string `json:"payment_mode"`
}

// NewExpensePaidEvent creates an event from a paid expense
func NewExpensePaidEvent(e *Expense) *ExpensePaidEvent {
	return &ExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaid, "Expense", e.ID),
		PaymentMode:     e.PaymentMode.String(),
	}
}
