package reporting

import (
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// B2BInvoiceRow is one registered-counterparty invoice in the outward
// supply report
type B2BInvoiceRow struct {
	InvoiceNumber string            `json:"invoice_number"`
	InvoiceDate   time.Time         `json:"invoice_date"`
	CustomerName  string            `json:"customer_name"`
	CustomerGSTIN string            `json:"customer_gstin"`
	PlaceOfSupply string            `json:"place_of_supply"`
	SupplyType    string            `json:"supply_type"`
	TaxableValue  valueobject.Money `json:"taxable_value"`
	CGST          valueobject.Money `json:"cgst"`
	SGST          valueobject.Money `json:"sgst"`
	IGST          valueobject.Money `json:"igst"`
	InvoiceValue  valueobject.Money `json:"invoice_value"`
}

// OutwardSupplyReport is the statutory outward-supply return shape:
// the full B2B invoice list, aggregate rows for the two unregistered
// buckets and a grand total across all three.
type OutwardSupplyReport struct {
	Period      string          `json:"period"`
	B2BInvoices []B2BInvoiceRow `json:"b2b_invoices"`
	B2B         BucketTotal     `json:"b2b"`
	B2CL        BucketTotal     `json:"b2cl"`
	B2CS        BucketTotal     `json:"b2cs"`
	GrandTotal  BucketTotal     `json:"grand_total"`
}

// BuildOutwardSupplyReport assembles the outward-supply report for a
// period from its finalised invoice set. Totals always reflect the full
// set; display pagination of the B2B list is the caller's concern.
func BuildOutwardSupplyReport(period Period, invoices []billing.Invoice) (*OutwardSupplyReport, error) {
	agg := NewPeriodAggregate(period)
	if err := agg.Replay(invoices); err != nil {
		return nil, err
	}

	rows := make([]B2BInvoiceRow, 0)
	for i := range invoices {
		inv := &invoices[i]
		if inv.Bucket != billing.BucketB2B {
			continue
		}
		rows = append(rows, B2BInvoiceRow{
			InvoiceNumber: inv.InvoiceNumber,
			InvoiceDate:   inv.InvoiceDate,
			CustomerName:  inv.CustomerName,
			CustomerGSTIN: inv.CustomerGSTIN.String(),
			PlaceOfSupply: placeOfSupply(inv),
			SupplyType:    inv.SupplyType.String(),
			TaxableValue:  inv.Split.TaxableValue,
			CGST:          inv.Split.CGST,
			SGST:          inv.Split.SGST,
			IGST:          inv.Split.IGST,
			InvoiceValue:  inv.Split.TotalValue(),
		})
	}

	return &OutwardSupplyReport{
		Period:      period.String(),
		B2BInvoices: rows,
		B2B:         agg.BucketTotal(billing.BucketB2B),
		B2CL:        agg.BucketTotal(billing.BucketB2CL),
		B2CS:        agg.BucketTotal(billing.BucketB2CS),
		GrandTotal:  agg.GrandTotal(),
	}, nil
}

// placeOfSupply prefers the customer's registered state over the
// explicitly recorded code, mirroring jurisdiction resolution
func placeOfSupply(inv *billing.Invoice) string {
	if !inv.CustomerGSTIN.IsZero() {
		return inv.CustomerGSTIN.StateCode()
	}
	return inv.PlaceOfSupply
}
