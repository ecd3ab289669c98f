package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taxapp "github.com/finbooks/backend/internal/application/tax"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	domaintax "github.com/finbooks/backend/internal/domain/tax"
)

type memoryInvoiceRepo struct {
	invoices map[uuid.UUID]*billing.Invoice
	lockErr  error
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{invoices: make(map[uuid.UUID]*billing.Invoice)}
}

func (r *memoryInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	if inv, ok := r.invoices[id]; ok {
		return inv, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]billing.Invoice, error) {
	result := make([]billing.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		result = append(result, *inv)
	}
	return result, nil
}

func (r *memoryInvoiceRepo) Save(_ context.Context, inv *billing.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memoryInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *memoryInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.invoices)), nil
}

func (r *memoryInvoiceRepo) FindByNumber(_ context.Context, number string) (*billing.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryInvoiceRepo) FindFinalizedInPeriod(_ context.Context, from, to time.Time) ([]billing.Invoice, error) {
	result := make([]billing.Invoice, 0)
	for _, inv := range r.invoices {
		if inv.Status == billing.InvoiceStatusFinalized &&
			!inv.InvoiceDate.Before(from) && inv.InvoiceDate.Before(to) {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *memoryInvoiceRepo) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	if r.lockErr != nil {
		return r.lockErr
	}
	return r.Save(ctx, inv)
}

type memorySettingsRepo struct {
	settings *domaintax.Settings
}

func (r *memorySettingsRepo) Get(_ context.Context) (*domaintax.Settings, error) {
	if r.settings == nil {
		return nil, shared.ErrNotFound
	}
	return r.settings, nil
}

func (r *memorySettingsRepo) Save(_ context.Context, s *domaintax.Settings) error {
	r.settings = s
	return nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func configuredSettings(t *testing.T) *domaintax.Settings {
	t.Helper()
	gstin, err := domaintax.NewGSTIN("27AAPFU0939F1ZV")
	require.NoError(t, err)
	settings, err := domaintax.NewSettings("FinBooks Pvt Ltd", gstin,
		valueobject.NewMoneyINR(decimal.NewFromInt(250000)))
	require.NoError(t, err)
	return settings
}

func newTestService(t *testing.T, configured bool) (*InvoiceService, *memoryInvoiceRepo, *capturingPublisher) {
	t.Helper()
	repo := newMemoryInvoiceRepo()
	settingsRepo := &memorySettingsRepo{}
	if configured {
		settingsRepo.settings = configuredSettings(t)
	}
	taxService := taxapp.NewTaxService(settingsRepo, valueobject.NewMoneyINRFromFloat(250000))
	publisher := &capturingPublisher{}
	return NewInvoiceService(repo, taxService, publisher), repo, publisher
}

func steelPipesRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		InvoiceNumber: "INV-2026-001",
		InvoiceDate:   time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Tata Traders",
		CustomerGSTIN: "29AABCT1332L1ZA",
		PlaceOfSupply: "29",
		Lines: []InvoiceLineRequest{{
			Description:  "Steel pipes",
			HSNCode:      "7306",
			Quantity:     decimal.NewFromInt(10),
			Unit:         "NOS",
			TaxableValue: decimal.NewFromInt(10000),
			TaxRate:      decimal.NewFromInt(18),
		}},
	}
}

func TestInvoiceService_CreateInvoice(t *testing.T) {
	t.Run("derives the inter-state split on a draft", func(t *testing.T) {
		svc, repo, _ := newTestService(t, true)

		resp, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
		require.NoError(t, err)

		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "INTER_STATE", resp.SupplyType)
		assert.True(t, resp.IGST.Equal(decimal.NewFromInt(1800)), resp.IGST.String())
		assert.True(t, resp.CGST.IsZero())
		assert.Len(t, repo.invoices, 1)
	})

	t.Run("leaves classification pending without settings", func(t *testing.T) {
		svc, repo, _ := newTestService(t, false)

		resp, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
		require.NoError(t, err)

		assert.Equal(t, "DRAFT", resp.Status)
		assert.Empty(t, resp.SupplyType)
		assert.Empty(t, resp.Bucket)
		assert.Len(t, repo.invoices, 1)
	})

	t.Run("rejects an invalid customer registration", func(t *testing.T) {
		svc, repo, _ := newTestService(t, true)

		req := steelPipesRequest()
		req.CustomerGSTIN = "29AABCT1332L1ZU"
		_, err := svc.CreateInvoice(context.Background(), req)

		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_GSTIN", derr.Code)
		assert.Empty(t, repo.invoices)
	})

	t.Run("rejects a tax rate outside the schedule", func(t *testing.T) {
		svc, _, _ := newTestService(t, true)

		req := steelPipesRequest()
		req.Lines[0].TaxRate = decimal.NewFromInt(17)
		_, err := svc.CreateInvoice(context.Background(), req)
		assert.Error(t, err)
	})
}

func TestInvoiceService_FinalizeInvoice(t *testing.T) {
	t.Run("freezes the invoice and publishes its events", func(t *testing.T) {
		svc, _, publisher := newTestService(t, true)

		created, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
		require.NoError(t, err)

		resp, err := svc.FinalizeInvoice(context.Background(), created.ID)
		require.NoError(t, err)

		assert.Equal(t, "FINALIZED", resp.Status)
		assert.Equal(t, "B2B", resp.Bucket)
		assert.True(t, resp.InvoiceValue.Equal(decimal.NewFromInt(11800)), resp.InvoiceValue.String())
		assert.NotEmpty(t, publisher.events)
	})

	t.Run("requires configured settings", func(t *testing.T) {
		svc, _, _ := newTestService(t, false)

		created, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
		require.NoError(t, err)

		_, err = svc.FinalizeInvoice(context.Background(), created.ID)
		assert.Error(t, err)
	})

	t.Run("propagates a version conflict", func(t *testing.T) {
		svc, repo, _ := newTestService(t, true)

		created, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
		require.NoError(t, err)

		repo.lockErr = shared.ErrConcurrencyConflict
		_, err = svc.FinalizeInvoice(context.Background(), created.ID)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInvoiceService_ListInvoices(t *testing.T) {
	svc, _, _ := newTestService(t, true)

	_, err := svc.CreateInvoice(context.Background(), steelPipesRequest())
	require.NoError(t, err)

	responses, total, err := svc.ListInvoices(context.Background(), InvoiceListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, responses, 1)
}
