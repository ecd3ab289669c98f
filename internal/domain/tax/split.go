package tax

import (
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// Split is the breakdown of GST on a taxable value.
// Exactly one of the two groups is populated: CGST and SGST for an
// intra-state supply, IGST for an inter-state supply. The other
// components are zero.
type Split struct {
	TaxableValue valueobject.Money `json:"taxable_value"`
	CGST         valueobject.Money `json:"cgst"`
	SGST         valueobject.Money `json:"sgst"`
	IGST         valueobject.Money `json:"igst"`
	Rate         Rate              `json:"-"`
	SupplyType   SupplyType        `json:"supply_type"`
}

var two = decimal.NewFromInt(2)

// ComputeSplit calculates the GST components on a taxable value.
// Intra-state supplies split the levy equally between CGST and SGST;
// inter-state supplies charge the full rate as IGST. Each component is
// rounded half-up to two decimal places independently, so CGST+SGST may
// differ from the unsplit levy by a paisa.
func ComputeSplit(taxableValue valueobject.Money, rate Rate, supplyType SupplyType) (Split, error) {
	if taxableValue.IsNegative() {
		return Split{}, ErrInvalidAmount.WithField("taxable_value")
	}
	if !supplyType.IsValid() {
		return Split{}, shared.ErrUnclassifiable
	}

	currency := taxableValue.Currency()
	split := Split{
		TaxableValue: taxableValue,
		CGST:         valueobject.Zero(currency),
		SGST:         valueobject.Zero(currency),
		IGST:         valueobject.Zero(currency),
		Rate:         rate,
		SupplyType:   supplyType,
	}

	if supplyType == SupplyIntraState {
		half := taxableValue.Multiply(rate.Percent().Div(decimal.NewFromInt(100).Mul(two)))
		split.CGST = half.Round(2)
		split.SGST = half.Round(2)
		return split, nil
	}

	split.IGST = taxableValue.Multiply(rate.Fraction()).Round(2)
	return split, nil
}

// TotalTax returns the sum of all tax components
func (s Split) TotalTax() valueobject.Money {
	return s.CGST.MustAdd(s.SGST).MustAdd(s.IGST)
}

// TotalValue returns the taxable value plus all tax components
func (s Split) TotalValue() valueobject.Money {
	return s.TaxableValue.MustAdd(s.TotalTax())
}

// Add combines two splits component-wise. Both splits must share the
// same currency. The resulting split carries no rate or supply type.
func (s Split) Add(other Split) (Split, error) {
	taxable, err := s.TaxableValue.Add(other.TaxableValue)
	if err != nil {
		return Split{}, err
	}
	cgst, err := s.CGST.Add(other.CGST)
	if err != nil {
		return Split{}, err
	}
	sgst, err := s.SGST.Add(other.SGST)
	if err != nil {
		return Split{}, err
	}
	igst, err := s.IGST.Add(other.IGST)
	if err != nil {
		return Split{}, err
	}
	return Split{
		TaxableValue: taxable,
		CGST:         cgst,
		SGST:         sgst,
		IGST:         igst,
	}, nil
}
