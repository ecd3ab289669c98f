package finance

import (
	"fmt"

	"github.com/finbooks/backend/internal/domain/shared"
)

// Finance domain errors
var (
	ErrNotRejected = shared.NewDomainError("INVALID_STATUS", "only a rejected expense can start a new submission cycle")
)

// invalidTransition reports a lifecycle transition attempted from a
// status that does not permit it
func invalidTransition(from ExpenseStatus, action string) *shared.DomainError {
	return shared.NewDomainError("INVALID_STATUS",
		fmt.Sprintf("cannot %s an expense in status %s", action, from))
}

// missingField reports a required field that was not supplied
func missingField(field string) *shared.DomainError {
	return shared.NewFieldError("MISSING_FIELD", "required field is missing", field)
}
