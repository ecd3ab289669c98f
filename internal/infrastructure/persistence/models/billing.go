package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// The value object columns (GSTIN, rate, split components) are flattened
// into primitive columns and reassembled in ToDomain.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceDate   time.Time `gorm:"not null;index"`
	CustomerName  string    `gorm:"type:varchar(200);not null"`
	CustomerGSTIN string    `gorm:"type:varchar(15);index"`
	PlaceOfSupply string    `gorm:"type:varchar(2)"`
	Status        string    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SupplyType    string    `gorm:"type:varchar(20)"`
	Bucket        string    `gorm:"type:varchar(10);index"`
	TaxableValue  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CGST          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SGST          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IGST          decimal.Decimal `gorm:"type:decimal(15,2);not null"`

	Lines []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is the persistence model for an invoice line
type InvoiceLineModel struct {
	BaseModel
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description  string          `gorm:"type:varchar(500);not null"`
	HSNCode      string          `gorm:"type:varchar(8);not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	Unit         string          `gorm:"type:varchar(20)"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RatePercent  decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	SGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IGST         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
// Stored value objects were validated before persisting, so reassembly
// failures collapse to zero values.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	gstin, _ := reassembleGSTIN(m.CustomerGSTIN)
	supplyType := tax.SupplyType(m.SupplyType)

	lines := make([]billing.InvoiceLine, len(m.Lines))
	for i := range m.Lines {
		lines[i] = *m.Lines[i].ToDomain(supplyType)
	}

	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		InvoiceDate:       m.InvoiceDate,
		CustomerName:      m.CustomerName,
		CustomerGSTIN:     gstin,
		PlaceOfSupply:     m.PlaceOfSupply,
		Status:            billing.InvoiceStatus(m.Status),
		Lines:             lines,
		SupplyType:        supplyType,
		Split: tax.Split{
			TaxableValue: valueobject.NewMoneyINR(m.TaxableValue),
			CGST:         valueobject.NewMoneyINR(m.CGST),
			SGST:         valueobject.NewMoneyINR(m.SGST),
			IGST:         valueobject.NewMoneyINR(m.IGST),
			SupplyType:   supplyType,
		},
		Bucket: billing.Bucket(m.Bucket),
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.InvoiceDate = inv.InvoiceDate
	m.CustomerName = inv.CustomerName
	m.CustomerGSTIN = inv.CustomerGSTIN.String()
	m.PlaceOfSupply = inv.PlaceOfSupply
	m.Status = inv.Status.String()
	m.SupplyType = inv.SupplyType.String()
	m.Bucket = inv.Bucket.String()
	m.TaxableValue = inv.Split.TaxableValue.Amount()
	m.CGST = inv.Split.CGST.Amount()
	m.SGST = inv.Split.SGST.Amount()
	m.IGST = inv.Split.IGST.Amount()

	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i := range inv.Lines {
		m.Lines[i].FromDomain(&inv.Lines[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ToDomain converts the persistence model to a domain InvoiceLine
func (m *InvoiceLineModel) ToDomain(supplyType tax.SupplyType) *billing.InvoiceLine {
	rate, _ := tax.NewRate(m.RatePercent)
	return &billing.InvoiceLine{
		BaseEntity:   m.BaseModel.ToDomain(),
		InvoiceID:    m.InvoiceID,
		Description:  m.Description,
		HSNCode:      m.HSNCode,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		TaxableValue: valueobject.NewMoneyINR(m.TaxableValue),
		Rate:         rate,
		Split: tax.Split{
			TaxableValue: valueobject.NewMoneyINR(m.TaxableValue),
			CGST:         valueobject.NewMoneyINR(m.CGST),
			SGST:         valueobject.NewMoneyINR(m.SGST),
			IGST:         valueobject.NewMoneyINR(m.IGST),
			Rate:         rate,
			SupplyType:   supplyType,
		},
	}
}

// FromDomain populates the persistence model from a domain InvoiceLine
func (m *InvoiceLineModel) FromDomain(line *billing.InvoiceLine) {
	m.FromDomainBaseEntity(line.BaseEntity)
	m.InvoiceID = line.InvoiceID
	m.Description = line.Description
	m.HSNCode = line.HSNCode
	m.Quantity = line.Quantity
	m.Unit = line.Unit
	m.TaxableValue = line.TaxableValue.Amount()
	m.RatePercent = line.Rate.Percent()
	m.CGST = line.Split.CGST.Amount()
	m.SGST = line.Split.SGST.Amount()
	m.IGST = line.Split.IGST.Amount()
}

func reassembleGSTIN(value string) (tax.GSTIN, error) {
	if value == "" {
		return tax.GSTIN{}, nil
	}
	return tax.NewGSTIN(value)
}
