package reporting

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// BucketTotal is the running total for one reporting bucket
type BucketTotal struct {
	Bucket       billing.Bucket    `json:"bucket"`
	Count        int               `json:"count"`
	TaxableValue valueobject.Money `json:"taxable_value"`
	CGST         valueobject.Money `json:"cgst"`
	SGST         valueobject.Money `json:"sgst"`
	IGST         valueobject.Money `json:"igst"`
}

func newBucketTotal(bucket billing.Bucket) *BucketTotal {
	return &BucketTotal{
		Bucket:       bucket,
		TaxableValue: valueobject.ZeroINR(),
		CGST:         valueobject.ZeroINR(),
		SGST:         valueobject.ZeroINR(),
		IGST:         valueobject.ZeroINR(),
	}
}

// TotalTax returns the sum of all tax components in the bucket
func (b BucketTotal) TotalTax() valueobject.Money {
	return b.CGST.MustAdd(b.SGST).MustAdd(b.IGST)
}

// HSNTotal is the running total for one HSN/SAC code
type HSNTotal struct {
	HSNCode      string            `json:"hsn_code"`
	Quantity     decimal.Decimal   `json:"quantity"`
	TaxableValue valueobject.Money `json:"taxable_value"`
	CGST         valueobject.Money `json:"cgst"`
	SGST         valueobject.Money `json:"sgst"`
	IGST         valueobject.Money `json:"igst"`
}

func newHSNTotal(code string) *HSNTotal {
	return &HSNTotal{
		HSNCode:      code,
		TaxableValue: valueobject.ZeroINR(),
		CGST:         valueobject.ZeroINR(),
		SGST:         valueobject.ZeroINR(),
		IGST:         valueobject.ZeroINR(),
	}
}

// PeriodAggregate accumulates finalised invoices of one reporting period
// into per-bucket and per-HSN-code totals. The totals are a cache over
// the period's invoice set: Replay rebuilds them from scratch, and the
// contribution of each invoice is commutative, so any accumulation order
// yields the same result. Increments serialise on an internal mutex to
// stay safe under concurrent finalisation.
type PeriodAggregate struct {
	mu      sync.Mutex
	period  Period
	buckets map[billing.Bucket]*BucketTotal
	hsn     map[string]*HSNTotal
}

// NewPeriodAggregate creates an empty aggregate for the period
func NewPeriodAggregate(period Period) *PeriodAggregate {
	return &PeriodAggregate{
		period:  period,
		buckets: make(map[billing.Bucket]*BucketTotal),
		hsn:     make(map[string]*HSNTotal),
	}
}

// Period returns the reporting period this aggregate covers
func (a *PeriodAggregate) Period() Period {
	return a.period
}

// Accumulate adds one finalised invoice's contribution to the totals.
// The invoice must be finalised and dated within the period.
func (a *PeriodAggregate) Accumulate(inv *billing.Invoice) error {
	if !inv.IsFinal() {
		return billing.ErrInvoiceNotFinal
	}
	if !a.period.Contains(inv.InvoiceDate) {
		return shared.ErrInvalidInput.WithField("invoice_date")
	}
	if !inv.Bucket.IsValid() {
		return shared.ErrUnclassifiable
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	bt, ok := a.buckets[inv.Bucket]
	if !ok {
		bt = newBucketTotal(inv.Bucket)
		a.buckets[inv.Bucket] = bt
	}
	bt.Count++
	bt.TaxableValue = bt.TaxableValue.MustAdd(inv.Split.TaxableValue)
	bt.CGST = bt.CGST.MustAdd(inv.Split.CGST)
	bt.SGST = bt.SGST.MustAdd(inv.Split.SGST)
	bt.IGST = bt.IGST.MustAdd(inv.Split.IGST)

	for _, line := range inv.Lines {
		ht, ok := a.hsn[line.HSNCode]
		if !ok {
			ht = newHSNTotal(line.HSNCode)
			a.hsn[line.HSNCode] = ht
		}
		ht.Quantity = ht.Quantity.Add(line.Quantity)
		ht.TaxableValue = ht.TaxableValue.MustAdd(line.Split.TaxableValue)
		ht.CGST = ht.CGST.MustAdd(line.Split.CGST)
		ht.SGST = ht.SGST.MustAdd(line.Split.SGST)
		ht.IGST = ht.IGST.MustAdd(line.Split.IGST)
	}
	return nil
}

// Replay rebuilds the totals from scratch out of the given invoice set.
// Invoices outside the period or not yet finalised abort the replay.
func (a *PeriodAggregate) Replay(invoices []billing.Invoice) error {
	a.mu.Lock()
	a.buckets = make(map[billing.Bucket]*BucketTotal)
	a.hsn = make(map[string]*HSNTotal)
	a.mu.Unlock()

	for i := range invoices {
		if err := a.Accumulate(&invoices[i]); err != nil {
			return err
		}
	}
	return nil
}

// BucketTotal returns the total for one bucket, zero-valued when the
// bucket saw no invoices
func (a *PeriodAggregate) BucketTotal(bucket billing.Bucket) BucketTotal {
	a.mu.Lock()
	defer a.mu.Unlock()
	if bt, ok := a.buckets[bucket]; ok {
		return *bt
	}
	return *newBucketTotal(bucket)
}

// BucketTotals returns the totals for all buckets in statutory order,
// including zero rows for empty buckets
func (a *PeriodAggregate) BucketTotals() []BucketTotal {
	totals := make([]BucketTotal, 0, 3)
	for _, bucket := range billing.Buckets() {
		totals = append(totals, a.BucketTotal(bucket))
	}
	return totals
}

// GrandTotal sums all bucket totals
func (a *PeriodAggregate) GrandTotal() BucketTotal {
	grand := *newBucketTotal("")
	for _, bt := range a.BucketTotals() {
		grand.Count += bt.Count
		grand.TaxableValue = grand.TaxableValue.MustAdd(bt.TaxableValue)
		grand.CGST = grand.CGST.MustAdd(bt.CGST)
		grand.SGST = grand.SGST.MustAdd(bt.SGST)
		grand.IGST = grand.IGST.MustAdd(bt.IGST)
	}
	return grand
}

// HSNTotals returns the per-code totals ordered by HSN code
func (a *PeriodAggregate) HSNTotals() []HSNTotal {
	a.mu.Lock()
	defer a.mu.Unlock()

	totals := make([]HSNTotal, 0, len(a.hsn))
	for _, ht := range a.hsn {
		totals = append(totals, *ht)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].HSNCode < totals[j].HSNCode
	})
	return totals
}
