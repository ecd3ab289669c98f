package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// ExpenseModel is the persistence model for the Expense aggregate root
type ExpenseModel struct {
	AggregateModel
	Category      string    `gorm:"type:varchar(100);not null;index"`
	Description   string    `gorm:"type:varchar(500);not null"`
	ExpenseDate   time.Time `gorm:"not null;index"`
	VendorName    string    `gorm:"type:varchar(200)"`
	VendorGSTIN   string    `gorm:"type:varchar(15);index"`
	PlaceOfSupply string    `gorm:"type:varchar(2)"`
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	TaxableValue decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RatePercent  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	SupplyType   string          `gorm:"type:varchar(20)"`
	CGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ITCEligible  bool            `gorm:"not null;default:false;index"`

	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      string `gorm:"type:varchar(100)"`
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:varchar(500)"`
	PaidAt          *time.Time
	PaymentMode     string `gorm:"type:varchar(20)"`

	ApprovalAttempts int        `gorm:"not null;default:0"`
	RevisionOf       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense aggregate
func (m *ExpenseModel) ToDomain() *finance.Expense {
	gstin, _ := reassembleGSTIN(m.VendorGSTIN)
	rate, _ := tax.NewRate(m.RatePercent)
	supplyType := tax.SupplyType(m.SupplyType)

	return &finance.Expense{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Category:          m.Category,
		Description:       m.Description,
		ExpenseDate:       m.ExpenseDate,
		VendorName:        m.VendorName,
		VendorGSTIN:       gstin,
		PlaceOfSupply:     m.PlaceOfSupply,
		Status:            finance.ExpenseStatus(m.Status),
		TaxableValue:      valueobject.NewMoneyINR(m.TaxableValue),
		Rate:              rate,
		Split: tax.Split{
			TaxableValue: valueobject.NewMoneyINR(m.TaxableValue),
			CGST:         valueobject.NewMoneyINR(m.CGST),
			SGST:         valueobject.NewMoneyINR(m.SGST),
			IGST:         valueobject.NewMoneyINR(m.IGST),
			Rate:         rate,
			SupplyType:   supplyType,
		},
		ITCEligible:      m.ITCEligible,
		SubmittedAt:      m.SubmittedAt,
		ApprovedAt:       m.ApprovedAt,
		ApprovedBy:       m.ApprovedBy,
		RejectedAt:       m.RejectedAt,
		RejectionReason:  m.RejectionReason,
		PaidAt:           m.PaidAt,
		PaymentMode:      finance.PaymentMode(m.PaymentMode),
		ApprovalAttempts: m.ApprovalAttempts,
		RevisionOf:       m.RevisionOf,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Category = e.Category
	m.Description = e.Description
	m.ExpenseDate = e.ExpenseDate
	m.VendorName = e.VendorName
	m.VendorGSTIN = e.VendorGSTIN.String()
	m.PlaceOfSupply = e.PlaceOfSupply
	m.Status = e.Status.String()
	m.TaxableValue = e.TaxableValue.Amount()
	m.RatePercent = e.Rate.Percent()
	m.SupplyType = e.Split.SupplyType.String()
	m.CGST = e.Split.CGST.Amount()
	m.SGST = e.Split.SGST.Amount()
	m.IGST = e.Split.IGST.Amount()
	m.ITCEligible = e.ITCEligible
	m.SubmittedAt = e.SubmittedAt
	m.ApprovedAt = e.ApprovedAt
	m.ApprovedBy = e.ApprovedBy
	m.RejectedAt = e.RejectedAt
	m.RejectionReason = e.RejectionReason
	m.PaidAt = e.PaidAt
	m.PaymentMode = e.PaymentMode.String()
	m.ApprovalAttempts = e.ApprovalAttempts
	m.RevisionOf = e.RevisionOf
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
