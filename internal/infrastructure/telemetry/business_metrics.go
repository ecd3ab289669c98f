// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a metrics constructor is given no meter.
var ErrMeterNil = errors.New("telemetry: meter must not be nil")

// BusinessMetrics tracks the tax engine's business activity: invoice
// finalisations per reporting bucket, expense lifecycle transitions,
// ledger postings and report generation latency.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	invoiceFinalizedTotal  *Counter
	expenseTransitionTotal *Counter
	ledgerPostingTotal     *Counter
	reportBuildDuration    *Histogram
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.invoiceFinalizedTotal, err = NewCounter(
		cfg.Meter,
		"finbooks_invoice_finalized_total",
		"Total number of invoices finalised",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.expenseTransitionTotal, err = NewCounter(
		cfg.Meter,
		"finbooks_expense_transition_total",
		"Total number of expense lifecycle transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	bm.ledgerPostingTotal, err = NewCounter(
		cfg.Meter,
		"finbooks_ledger_posting_total",
		"Total number of input tax credit postings settled",
		"{postings}",
	)
	if err != nil {
		return nil, err
	}

	bm.reportBuildDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "finbooks_report_build_duration_seconds",
		Description: "Time spent building regulatory reports",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordInvoiceFinalized records a finalised invoice with its supply type
// and reporting bucket
func (bm *BusinessMetrics) RecordInvoiceFinalized(ctx context.Context, supplyType, bucket string) {
	bm.invoiceFinalizedTotal.Inc(ctx,
		AttrSupplyType.String(supplyType),
		AttrBucket.String(bucket),
	)
}

// RecordExpenseTransition records an expense lifecycle transition
func (bm *BusinessMetrics) RecordExpenseTransition(ctx context.Context, transition string) {
	bm.expenseTransitionTotal.Inc(ctx, AttrExpenseFlow.String(transition))
}

// RecordLedgerPosting records a settled input tax credit posting
func (bm *BusinessMetrics) RecordLedgerPosting(ctx context.Context, period string) {
	bm.ledgerPostingTotal.Inc(ctx, AttrPeriod.String(period))
}

// RecordReportBuild records the duration of a report build
func (bm *BusinessMetrics) RecordReportBuild(ctx context.Context, reportType string, d time.Duration) {
	bm.reportBuildDuration.RecordDuration(ctx, d, AttrReportType.String(reportType))
}
