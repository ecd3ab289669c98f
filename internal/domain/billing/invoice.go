package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// InvoiceStatus is the lifecycle status of a sales invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusFinalized InvoiceStatus = "FINALIZED"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusFinalized
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// TaxProfile carries the organisation-level inputs that tax derivation
// needs: the registered state and the B2CL invoice threshold.
type TaxProfile struct {
	OrgStateCode  string
	B2CLThreshold valueobject.Money
}

// InvoiceLine is one priced, taxed line of an invoice.
// Lines are owned by their invoice and frozen once it is finalised.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description  string            `gorm:"not null" json:"description"`
	HSNCode      string            `gorm:"not null" json:"hsn_code"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(15,3)" json:"quantity"`
	Unit         string            `json:"unit"`
	TaxableValue valueobject.Money `gorm:"type:decimal(15,2)" json:"taxable_value"`
	Rate         tax.Rate          `gorm:"-" json:"-"`
	Split        tax.Split         `gorm:"-" json:"split"`
}

// Invoice is the sales transaction aggregate root. The tax split and
// reporting bucket are derived fields, recomputed whenever the lines or
// jurisdiction inputs change and frozen on finalisation.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string        `gorm:"not null;uniqueIndex" json:"invoice_number"`
	InvoiceDate   time.Time     `gorm:"not null;index" json:"invoice_date"`
	CustomerName  string        `gorm:"not null" json:"customer_name"`
	CustomerGSTIN tax.GSTIN     `gorm:"-" json:"customer_gstin"`
	PlaceOfSupply string        `json:"place_of_supply"`
	Status        InvoiceStatus `gorm:"not null;default:'DRAFT'" json:"status"`
	Lines         []InvoiceLine `gorm:"-" json:"lines"`

	SupplyType tax.SupplyType `json:"supply_type"`
	Split      tax.Split      `gorm:"-" json:"split"`
	Bucket     Bucket         `json:"bucket"`
}

// NewInvoice creates a draft invoice. The customer GSTIN is optional;
// when absent the place of supply must be recorded before finalisation.
func NewInvoice(number string, date time.Time, customerName string, customerGSTIN tax.GSTIN, placeOfSupply string) (*Invoice, error) {
	if number == "" {
		return nil, missingField("invoice_number")
	}
	if date.IsZero() {
		return nil, missingField("invoice_date")
	}
	if customerName == "" {
		return nil, missingField("customer_name")
	}
	if placeOfSupply != "" && !tax.IsValidStateCode(placeOfSupply) {
		return nil, tax.ErrInvalidStateCode.WithField("place_of_supply")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     number,
		InvoiceDate:       date,
		CustomerName:      customerName,
		CustomerGSTIN:     customerGSTIN,
		PlaceOfSupply:     placeOfSupply,
		Status:            InvoiceStatusDraft,
		Lines:             []InvoiceLine{},
	}, nil
}

// IsRegisteredSale reports whether the customer holds a valid registration
func (i *Invoice) IsRegisteredSale() bool {
	return !i.CustomerGSTIN.IsZero()
}

// IsFinal reports whether the invoice has been finalised
func (i *Invoice) IsFinal() bool {
	return i.Status == InvoiceStatusFinalized
}

// Period returns the calendar month the invoice falls in, as YYYY-MM
func (i *Invoice) Period() string {
	return i.InvoiceDate.Format("2006-01")
}

// AddLine appends a taxed line to a draft invoice
func (i *Invoice) AddLine(description, hsnCode string, quantity decimal.Decimal, unit string, taxableValue valueobject.Money, rate tax.Rate) error {
	if i.IsFinal() {
		return ErrInvoiceFinalized
	}
	if description == "" {
		return missingField("description")
	}
	if hsnCode == "" {
		return missingField("hsn_code")
	}
	if taxableValue.IsNegative() {
		return tax.ErrInvalidAmount.WithField("taxable_value")
	}

	i.Lines = append(i.Lines, InvoiceLine{
		BaseEntity:   shared.NewBaseEntity(),
		InvoiceID:    i.ID,
		Description:  description,
		HSNCode:      hsnCode,
		Quantity:     quantity,
		Unit:         unit,
		TaxableValue: taxableValue,
		Rate:         rate,
	})
	return nil
}

// RemoveLine deletes a line from a draft invoice
func (i *Invoice) RemoveLine(lineID uuid.UUID) error {
	if i.IsFinal() {
		return ErrInvoiceFinalized
	}
	for idx, line := range i.Lines {
		if line.ID == lineID {
			i.Lines = append(i.Lines[:idx], i.Lines[idx+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// TaxableValue returns the sum of all line taxable values
func (i *Invoice) TaxableValue() valueobject.Money {
	total := valueobject.ZeroINR()
	for _, line := range i.Lines {
		total = total.MustAdd(line.TaxableValue)
	}
	return total
}

// Recompute derives the supply type, per-line splits, the invoice-level
// split and the reporting bucket from current field values. It is a
// no-op failure on a finalised invoice; derived fields are frozen there.
func (i *Invoice) Recompute(profile TaxProfile) error {
	if i.IsFinal() {
		return ErrInvoiceFinalized
	}

	supplyType, err := tax.ResolveJurisdiction(profile.OrgStateCode, i.CustomerGSTIN, i.PlaceOfSupply)
	if err != nil {
		return err
	}
	i.SupplyType = supplyType

	total := tax.Split{
		TaxableValue: valueobject.ZeroINR(),
		CGST:         valueobject.ZeroINR(),
		SGST:         valueobject.ZeroINR(),
		IGST:         valueobject.ZeroINR(),
		SupplyType:   supplyType,
	}
	for idx := range i.Lines {
		split, err := tax.ComputeSplit(i.Lines[idx].TaxableValue, i.Lines[idx].Rate, supplyType)
		if err != nil {
			return err
		}
		i.Lines[idx].Split = split
		summed, err := total.Add(split)
		if err != nil {
			return err
		}
		summed.SupplyType = supplyType
		total = summed
	}
	i.Split = total

	bucket, err := Classify(i.IsRegisteredSale(), supplyType, i.TaxableValue(), profile.B2CLThreshold)
	if err != nil {
		return err
	}
	i.Bucket = bucket
	return nil
}

// Finalize freezes the invoice after a final derivation pass. A
// finalised invoice enters the period aggregates and can no longer be
// modified; corrections require a new invoice.
func (i *Invoice) Finalize(profile TaxProfile) error {
	if i.IsFinal() {
		return ErrInvoiceFinalized
	}
	if len(i.Lines) == 0 {
		return ErrEmptyInvoice
	}
	if err := i.Recompute(profile); err != nil {
		return err
	}

	i.Status = InvoiceStatusFinalized
	i.Touch()
	i.AddDomainEvent(NewInvoiceFinalizedEvent(i))
	return nil
}
