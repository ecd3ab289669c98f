package tax

import "github.com/shopspring/decimal"

// Rate is a notified GST rate slab expressed as a percentage
type Rate struct {
	percent decimal.Decimal
}

// notifiedSlabs are the rate slabs currently notified under GST
var notifiedSlabs = []int64{0, 5, 12, 18, 28}

// NewRate validates a percentage against the notified GST slabs
func NewRate(percent decimal.Decimal) (Rate, error) {
	for _, slab := range notifiedSlabs {
		if percent.Equal(decimal.NewFromInt(slab)) {
			return Rate{percent: percent}, nil
		}
	}
	return Rate{}, ErrInvalidTaxRate.WithField("tax_rate")
}

// MustRate creates a Rate and panics on an unnotified slab.
// Intended for tests and static rate tables.
func MustRate(percent int64) Rate {
	r, err := NewRate(decimal.NewFromInt(percent))
	if err != nil {
		panic(err)
	}
	return r
}

// Percent returns the rate as a percentage value
func (r Rate) Percent() decimal.Decimal {
	return r.percent
}

// Fraction returns the rate as a multiplier (18% -> 0.18)
func (r Rate) Fraction() decimal.Decimal {
	return r.percent.Div(decimal.NewFromInt(100))
}

// IsZero reports whether this is the nil-rated slab
func (r Rate) IsZero() bool {
	return r.percent.IsZero()
}

// String returns the rate as a percentage string
func (r Rate) String() string {
	return r.percent.String() + "%"
}

// NotifiedSlabs returns the notified slab percentages in ascending order
func NotifiedSlabs() []decimal.Decimal {
	slabs := make([]decimal.Decimal, 0, len(notifiedSlabs))
	for _, s := range notifiedSlabs {
		slabs = append(slabs, decimal.NewFromInt(s))
	}
	return slabs
}
