package reporting

import (
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// ComponentPosition is the per-component liability line of the summary
// return. NetPayable is floored at zero; an ITC surplus is reported as
// a carry-forward credit, never as a negative liability.
type ComponentPosition struct {
	Component    string            `json:"component"`
	OutputTax    valueobject.Money `json:"output_tax"`
	ITC          valueobject.Money `json:"itc"`
	NetPayable   valueobject.Money `json:"net_payable"`
	CarryForward valueobject.Money `json:"carry_forward"`
}

func newComponentPosition(component string, output, itc valueobject.Money) (ComponentPosition, error) {
	net := valueobject.ZeroINR()
	carry := valueobject.ZeroINR()
	gt, err := output.GreaterThan(itc)
	if err != nil {
		return ComponentPosition{}, err
	}
	if gt {
		if net, err = output.Subtract(itc); err != nil {
			return ComponentPosition{}, err
		}
	} else {
		if carry, err = itc.Subtract(output); err != nil {
			return ComponentPosition{}, err
		}
	}
	return ComponentPosition{
		Component:    component,
		OutputTax:    output,
		ITC:          itc,
		NetPayable:   net,
		CarryForward: carry,
	}, nil
}

// SummaryReturn is the statutory liability-and-credit summary for a
// period
type SummaryReturn struct {
	Period          string            `json:"period"`
	CGST            ComponentPosition `json:"cgst"`
	SGST            ComponentPosition `json:"sgst"`
	IGST            ComponentPosition `json:"igst"`
	TotalOutputTax  valueobject.Money `json:"total_output_tax"`
	TotalITC        valueobject.Money `json:"total_itc"`
	TotalNetPayable valueobject.Money `json:"total_net_payable"`
}

// BuildSummaryReturn assembles the summary return for a period. Output
// tax sums all sales buckets; input tax credit sums the ITC-eligible
// expenses that reached APPROVED or PAID within the period.
func BuildSummaryReturn(period Period, invoices []billing.Invoice, expenses []finance.Expense) (*SummaryReturn, error) {
	agg := NewPeriodAggregate(period)
	if err := agg.Replay(invoices); err != nil {
		return nil, err
	}
	output := agg.GrandTotal()

	itcCGST := valueobject.ZeroINR()
	itcSGST := valueobject.ZeroINR()
	itcIGST := valueobject.ZeroINR()
	for i := range expenses {
		e := &expenses[i]
		if !creditable(e) || !period.Contains(e.ExpenseDate) {
			continue
		}
		itcCGST = itcCGST.MustAdd(e.Split.CGST)
		itcSGST = itcSGST.MustAdd(e.Split.SGST)
		itcIGST = itcIGST.MustAdd(e.Split.IGST)
	}

	cgst, err := newComponentPosition("CGST", output.CGST, itcCGST)
	if err != nil {
		return nil, err
	}
	sgst, err := newComponentPosition("SGST", output.SGST, itcSGST)
	if err != nil {
		return nil, err
	}
	igst, err := newComponentPosition("IGST", output.IGST, itcIGST)
	if err != nil {
		return nil, err
	}

	return &SummaryReturn{
		Period:          period.String(),
		CGST:            cgst,
		SGST:            sgst,
		IGST:            igst,
		TotalOutputTax:  output.TotalTax(),
		TotalITC:        itcCGST.MustAdd(itcSGST).MustAdd(itcIGST),
		TotalNetPayable: cgst.NetPayable.MustAdd(sgst.NetPayable).MustAdd(igst.NetPayable),
	}, nil
}

func creditable(e *finance.Expense) bool {
	if !e.ITCEligible {
		return false
	}
	return e.Status == finance.ExpenseStatusApproved || e.Status == finance.ExpenseStatusPaid
}
