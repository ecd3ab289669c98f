package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// HSNSummary is the per-code aggregate report for a period, with a
// grand total row across all codes
type HSNSummary struct {
	Period string     `json:"period"`
	Rows   []HSNTotal `json:"rows"`
	Total  HSNTotal   `json:"total"`
}

// BuildHSNSummary assembles the HSN/SAC summary for a period from its
// finalised invoice set. Rows are ordered by code for deterministic
// output.
func BuildHSNSummary(period Period, invoices []billing.Invoice) (*HSNSummary, error) {
	agg := NewPeriodAggregate(period)
	if err := agg.Replay(invoices); err != nil {
		return nil, err
	}

	rows := agg.HSNTotals()
	total := HSNTotal{
		Quantity:     decimal.Zero,
		TaxableValue: valueobject.ZeroINR(),
		CGST:         valueobject.ZeroINR(),
		SGST:         valueobject.ZeroINR(),
		IGST:         valueobject.ZeroINR(),
	}
	for _, row := range rows {
		total.Quantity = total.Quantity.Add(row.Quantity)
		total.TaxableValue = total.TaxableValue.MustAdd(row.TaxableValue)
		total.CGST = total.CGST.MustAdd(row.CGST)
		total.SGST = total.SGST.MustAdd(row.SGST)
		total.IGST = total.IGST.MustAdd(row.IGST)
	}

	return &HSNSummary{
		Period: period.String(),
		Rows:   rows,
		Total:  total,
	}, nil
}
