package reporting

import (
	"context"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/reporting"
	"github.com/finbooks/backend/internal/domain/shared"
)

// ExportFormat names a downloadable rendering of a report
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatXLS ExportFormat = "xlsx"
)

// Renderer turns fully computed report structures into downloadable
// documents. Rendering is an external collaborator: the engine hands it
// the structure and takes back bytes.
type Renderer interface {
	RenderOutwardSupply(ctx context.Context, report *reporting.OutwardSupplyReport, format ExportFormat) ([]byte, string, error)
	RenderSummaryReturn(ctx context.Context, report *reporting.SummaryReturn, format ExportFormat) ([]byte, string, error)
	RenderHSNSummary(ctx context.Context, report *reporting.HSNSummary, format ExportFormat) ([]byte, string, error)
}

// ReportService builds the statutory reports for a period
type ReportService struct {
	invoiceRepo billing.InvoiceRepository
	expenseRepo finance.ExpenseRepository
	renderer    Renderer
}

// NewReportService creates a new ReportService. The renderer is
// optional; without one export requests are rejected.
func NewReportService(invoiceRepo billing.InvoiceRepository, expenseRepo finance.ExpenseRepository, renderer Renderer) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		renderer:    renderer,
	}
}

// OutwardSupplyReport builds the outward-supply return for a YYYY-MM period
func (s *ReportService) OutwardSupplyReport(ctx context.Context, periodValue string) (*reporting.OutwardSupplyReport, error) {
	period, invoices, err := s.periodInvoices(ctx, periodValue)
	if err != nil {
		return nil, err
	}
	return reporting.BuildOutwardSupplyReport(period, invoices)
}

// SummaryReturn builds the liability-and-credit summary for a period
func (s *ReportService) SummaryReturn(ctx context.Context, periodValue string) (*reporting.SummaryReturn, error) {
	period, invoices, err := s.periodInvoices(ctx, periodValue)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindCreditableInPeriod(ctx, period.Start(), period.End())
	if err != nil {
		return nil, err
	}
	return reporting.BuildSummaryReturn(period, invoices, expenses)
}

// HSNSummary builds the per-code aggregate report for a period
func (s *ReportService) HSNSummary(ctx context.Context, periodValue string) (*reporting.HSNSummary, error) {
	period, invoices, err := s.periodInvoices(ctx, periodValue)
	if err != nil {
		return nil, err
	}
	return reporting.BuildHSNSummary(period, invoices)
}

// ExportOutwardSupply renders the outward-supply report in the
// requested format
func (s *ReportService) ExportOutwardSupply(ctx context.Context, periodValue string, format ExportFormat) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", errUnsupportedExport
	}
	report, err := s.OutwardSupplyReport(ctx, periodValue)
	if err != nil {
		return nil, "", err
	}
	return s.renderer.RenderOutwardSupply(ctx, report, format)
}

// ExportSummaryReturn renders the summary return in the requested format
func (s *ReportService) ExportSummaryReturn(ctx context.Context, periodValue string, format ExportFormat) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", errUnsupportedExport
	}
	report, err := s.SummaryReturn(ctx, periodValue)
	if err != nil {
		return nil, "", err
	}
	return s.renderer.RenderSummaryReturn(ctx, report, format)
}

// ExportHSNSummary renders the HSN summary in the requested format
func (s *ReportService) ExportHSNSummary(ctx context.Context, periodValue string, format ExportFormat) ([]byte, string, error) {
	if s.renderer == nil {
		return nil, "", errUnsupportedExport
	}
	report, err := s.HSNSummary(ctx, periodValue)
	if err != nil {
		return nil, "", err
	}
	return s.renderer.RenderHSNSummary(ctx, report, format)
}

func (s *ReportService) periodInvoices(ctx context.Context, periodValue string) (reporting.Period, []billing.Invoice, error) {
	period, err := reporting.ParsePeriod(periodValue)
	if err != nil {
		return reporting.Period{}, nil, err
	}
	invoices, err := s.invoiceRepo.FindFinalizedInPeriod(ctx, period.Start(), period.End())
	if err != nil {
		return reporting.Period{}, nil, err
	}
	return period, invoices, nil
}

var errUnsupportedExport = shared.NewDomainError("INVALID_INPUT", "report export is not configured")
