package finance

import (
	"context"

	"github.com/google/uuid"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// LedgerPosting is the input tax credit entry handed to the ledger when
// an expense is approved. Key is the idempotency key: the ledger settles
// each key exactly once no matter how often the posting is retried.
type LedgerPosting struct {
	Key          string            `json:"key"`
	ExpenseID    uuid.UUID         `json:"expense_id"`
	Period       string            `json:"period"`
	Category     string            `json:"category"`
	TaxableValue valueobject.Money `json:"taxable_value"`
	CGST         valueobject.Money `json:"cgst"`
	SGST         valueobject.Money `json:"sgst"`
	IGST         valueobject.Money `json:"igst"`
	ITCEligible  bool              `json:"itc_eligible"`
}

// NewLedgerPosting builds the posting for an approved expense
func NewLedgerPosting(e *Expense) LedgerPosting {
	return LedgerPosting{
		Key:          e.PostingKey(),
		ExpenseID:    e.ID,
		Period:       e.Period(),
		Category:     e.Category,
		TaxableValue: e.Split.TaxableValue,
		CGST:         e.Split.CGST,
		SGST:         e.Split.SGST,
		IGST:         e.Split.IGST,
		ITCEligible:  e.ITCEligible,
	}
}

// LedgerPoster is the boundary to the input tax credit ledger.
// Implementations must be idempotent per posting key and safe to retry.
type LedgerPoster interface {
	Post(ctx context.Context, posting LedgerPosting) error
}
