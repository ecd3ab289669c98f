package billing

import (
	"github.com/finbooks/backend/internal/domain/shared"
)

// Event types for the billing context
const (
	EventTypeInvoiceFinalized = "billing.invoice.finalized"
)

// InvoiceFinalizedEvent is emitted when an invoice is frozen and becomes
// part of its reporting period
type InvoiceFinalizedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Period        string `json:"period"`
	Bucket        string `json:"bucket"`
	SupplyType    string `json:"supply_type"`
	TaxableValue  string `json:"taxable_value"`
	CGST          string `json:"cgst"`
	SGST          string `json:"sgst"`
	IGST          string `json:"igst"`
}

// NewInvoiceFinalizedEvent creates an event from a finalised invoice
func NewInvoiceFinalizedEvent(inv *Invoice) *InvoiceFinalizedEvent {
	return &InvoiceFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceFinalized, "Invoice", inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Period:          inv.Period(),
		Bucket:          inv.Bucket.String(),
		SupplyType:      inv.SupplyType.String(),
		TaxableValue:    inv.Split.TaxableValue.StringFixed(2),
		CGST:            inv.Split.CGST.StringFixed(2),
		SGST:            inv.Split.SGST.StringFixed(2),
		IGST:            inv.Split.IGST.StringFixed(2),
	}
}
