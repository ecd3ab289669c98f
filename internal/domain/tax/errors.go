package tax

import "github.com/finbooks/backend/internal/domain/shared"

// Tax domain errors
var (
	ErrInvalidGSTIN     = shared.NewDomainError("INVALID_GSTIN", "GSTIN is not valid")
	ErrInvalidStateCode = shared.NewDomainError("INVALID_STATE", "state code is not recognised")
	ErrInvalidTaxRate   = shared.NewDomainError("INVALID_TAX_RATE", "tax rate is not a notified GST slab")
	ErrInvalidAmount    = shared.NewDomainError("INVALID_AMOUNT", "amount must be a non-negative value")
)
