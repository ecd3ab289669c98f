package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// Expense is the purchase-side transaction aggregate root. Its lifecycle
// is DRAFT -> SUBMITTED -> APPROVED or REJECTED, then APPROVED -> PAID.
// Approval recomputes the tax split and, when the expense carries a valid
// vendor registration, schedules exactly one input tax credit posting.
type Expense struct {
	shared.BaseAggregateRoot
	Category      string        `gorm:"not null;index" json:"category"`
	Description   string        `gorm:"not null" json:"description"`
	ExpenseDate   time.Time     `gorm:"not null;index" json:"expense_date"`
	VendorName    string        `json:"vendor_name"`
	VendorGSTIN   tax.GSTIN     `gorm:"-" json:"vendor_gstin"`
	PlaceOfSupply string        `json:"place_of_supply"`
	Status        ExpenseStatus `gorm:"not null;default:'DRAFT';index" json:"status"`

	TaxableValue valueobject.Money `gorm:"type:decimal(15,2)" json:"taxable_value"`
	Rate         tax.Rate          `gorm:"-" json:"-"`
	Split        tax.Split         `gorm:"-" json:"split"`
	ITCEligible  bool              `json:"itc_eligible"`

	SubmittedAt     *time.Time  `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time  `json:"approved_at,omitempty"`
	ApprovedBy      string      `json:"approved_by,omitempty"`
	RejectedAt      *time.Time  `json:"rejected_at,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	PaidAt          *time.Time  `json:"paid_at,omitempty"`
	PaymentMode     PaymentMode `json:"payment_mode,omitempty"`

	// ApprovalAttempts counts successful approval transitions and feeds
	// the ledger posting idempotency key.
	ApprovalAttempts int `gorm:"not null;default:0" json:"approval_attempts"`

	// RevisionOf links a resubmission draft back to the rejected expense
	// it supersedes.
	RevisionOf *uuid.UUID `gorm:"type:uuid" json:"revision_of,omitempty"`
}

// NewExpense creates a draft expense. ITC eligibility is derived from
// the presence of a valid vendor registration and frozen at creation.
func NewExpense(category, description string, date time.Time, vendorName string,
	vendorGSTIN tax.GSTIN, placeOfSupply string, taxableValue valueobject.Money, rate tax.Rate) (*Expense, error) {

	if date.IsZero() {
		return nil, missingField("expense_date")
	}
	if taxableValue.IsNegative() {
		return nil, tax.ErrInvalidAmount.WithField("taxable_value")
	}
	if placeOfSupply != "" && !tax.IsValidStateCode(placeOfSupply) {
		return nil, tax.ErrInvalidStateCode.WithField("place_of_supply")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Description:       description,
		ExpenseDate:       date,
		VendorName:        vendorName,
		VendorGSTIN:       vendorGSTIN,
		PlaceOfSupply:     placeOfSupply,
		Status:            ExpenseStatusDraft,
		TaxableValue:      taxableValue,
		Rate:              rate,
		ITCEligible:       !vendorGSTIN.IsZero(),
	}, nil
}

// NewExpenseFromRejected starts a fresh submission cycle for a rejected
// expense. The rejection itself stays terminal; the new draft references
// it through RevisionOf.
func NewExpenseFromRejected(rejected *Expense) (*Expense, error) {
	if rejected.Status != ExpenseStatusRejected {
		return nil, ErrNotRejected
	}
	draft, err := NewExpense(rejected.Category, rejected.Description, rejected.ExpenseDate,
		rejected.VendorName, rejected.VendorGSTIN, rejected.PlaceOfSupply,
		rejected.TaxableValue, rejected.Rate)
	if err != nil {
		return nil, err
	}
	id := rejected.ID
	draft.RevisionOf = &id
	return draft, nil
}

// Period returns the calendar month the expense falls in, as YYYY-MM
func (e *Expense) Period() string {
	return e.ExpenseDate.Format("2006-01")
}

// PostingKey derives the idempotency key for the ledger posting of the
// given approval attempt
func (e *Expense) PostingKey() string {
	return fmt.Sprintf("%s:%d", e.ID, e.ApprovalAttempts)
}

// UpdateDraft replaces the editable fields of a draft expense
func (e *Expense) UpdateDraft(category, description, vendorName string,
	vendorGSTIN tax.GSTIN, placeOfSupply string, taxableValue valueobject.Money, rate tax.Rate) error {

	if e.Status != ExpenseStatusDraft {
		return invalidTransition(e.Status, "update")
	}
	if taxableValue.IsNegative() {
		return tax.ErrInvalidAmount.WithField("taxable_value")
	}
	if placeOfSupply != "" && !tax.IsValidStateCode(placeOfSupply) {
		return tax.ErrInvalidStateCode.WithField("place_of_supply")
	}

	e.Category = category
	e.Description = description
	e.VendorName = vendorName
	e.VendorGSTIN = vendorGSTIN
	e.PlaceOfSupply = placeOfSupply
	e.TaxableValue = taxableValue
	e.Rate = rate
	e.ITCEligible = !vendorGSTIN.IsZero()
	e.Touch()
	return nil
}

// Submit moves a draft into the approval queue. Category, description
// and a positive amount must be present.
func (e *Expense) Submit() error {
	if !e.Status.CanSubmit() {
		return invalidTransition(e.Status, "submit")
	}
	if e.Category == "" {
		return missingField("category")
	}
	if e.Description == "" {
		return missingField("description")
	}
	if !e.TaxableValue.IsPositive() {
		return tax.ErrInvalidAmount.WithField("taxable_value")
	}

	now := time.Now()
	e.Status = ExpenseStatusSubmitted
	e.SubmittedAt = &now
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpenseSubmittedEvent(e))
	return nil
}

// Approve recomputes the tax split against the organisation's registered
// state and advances the expense to APPROVED. When the expense is ITC
// eligible a ledger posting is scheduled, keyed so that retries of the
// posting settle exactly once.
func (e *Expense) Approve(approvedBy, orgStateCode string) error {
	if !e.Status.CanApprove() {
		return invalidTransition(e.Status, "approve")
	}

	supplyType, err := tax.ResolveJurisdiction(orgStateCode, e.VendorGSTIN, e.PlaceOfSupply)
	if err != nil {
		return err
	}
	split, err := tax.ComputeSplit(e.TaxableValue, e.Rate, supplyType)
	if err != nil {
		return err
	}
	e.Split = split

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedAt = &now
	e.ApprovedBy = approvedBy
	e.ApprovalAttempts++
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpenseApprovedEvent(e))
	return nil
}

// Reject declines a submitted expense with a mandatory reason
func (e *Expense) Reject(reason string) error {
	if !e.Status.CanReject() {
		return invalidTransition(e.Status, "reject")
	}
	if reason == "" {
		return missingField("rejection_reason")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.RejectionReason = reason
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpenseRejectedEvent(e))
	return nil
}

// MarkPaid settles an approved expense with the given payment mode
func (e *Expense) MarkPaid(mode PaymentMode) error {
	if !e.Status.CanPay() {
		return invalidTransition(e.Status, "pay")
	}
	if !mode.IsValid() {
		return missingField("payment_mode")
	}

	now := time.Now()
	e.Status = ExpenseStatusPaid
	e.PaidAt = &now
	e.PaymentMode = mode
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpensePaidEvent(e))
	return nil
}
