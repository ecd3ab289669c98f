package finance

// ExpenseStatus is the lifecycle status of an expense
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"
	ExpenseStatusSubmitted ExpenseStatus = "SUBMITTED"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusPaid      ExpenseStatus = "PAID"
)

// IsValid checks if the status is valid
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusSubmitted, ExpenseStatusApproved,
		ExpenseStatusRejected, ExpenseStatusPaid:
		return true
	}
	return false
}

// String returns the string representation
func (s ExpenseStatus) String() string {
	return string(s)
}

// CanSubmit checks if the expense can be submitted for approval
func (s ExpenseStatus) CanSubmit() bool {
	return s == ExpenseStatusDraft
}

// CanApprove checks if the expense can be approved
func (s ExpenseStatus) CanApprove() bool {
	return s == ExpenseStatusSubmitted
}

// CanReject checks if the expense can be rejected
func (s ExpenseStatus) CanReject() bool {
	return s == ExpenseStatusSubmitted
}

// CanPay checks if the expense can be marked paid
func (s ExpenseStatus) CanPay() bool {
	return s == ExpenseStatusApproved
}

// IsTerminal checks if no further transition is possible
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusRejected || s == ExpenseStatusPaid
}

// PaymentMode is the settlement instrument for a paid expense
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeCard         PaymentMode = "CARD"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeUPI,
		PaymentModeCheque, PaymentModeCard:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMode) String() string {
	return string(m)
}
