package billing

import "github.com/finbooks/backend/internal/domain/shared"

// Billing domain errors
var (
	ErrInvoiceFinalized = shared.NewDomainError("INVALID_STATUS", "invoice is finalised and cannot be modified")
	ErrInvoiceNotFinal  = shared.NewDomainError("INVALID_STATUS", "invoice has not been finalised")
	ErrEmptyInvoice     = shared.NewDomainError("INVALID_INPUT", "invoice must carry at least one line")
)

// missingField reports a required field that was not supplied
func missingField(field string) *shared.DomainError {
	return shared.NewFieldError("MISSING_FIELD", "required field is missing", field)
}
