package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

func testProfile() TaxProfile {
	return TaxProfile{
		OrgStateCode:  "27", // Maharashtra
		B2CLThreshold: valueobject.NewMoneyINRFromFloat(250000),
	}
}

func mustGSTIN(t *testing.T, value string) tax.GSTIN {
	t.Helper()
	g, err := tax.NewGSTIN(value)
	require.NoError(t, err)
	return g
}

func draftInvoice(t *testing.T, gstin tax.GSTIN, placeOfSupply string) *Invoice {
	t.Helper()
	inv, err := NewInvoice("INV-2026-001", time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), "Acme Traders", gstin, placeOfSupply)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "27")
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, "2026-04", inv.Period())
		assert.False(t, inv.IsRegisteredSale())
	})

	t.Run("requires number, date and customer", func(t *testing.T) {
		_, err := NewInvoice("", time.Now(), "Acme", tax.GSTIN{}, "27")
		assert.Error(t, err)
		_, err = NewInvoice("INV-1", time.Time{}, "Acme", tax.GSTIN{}, "27")
		assert.Error(t, err)
		_, err = NewInvoice("INV-1", time.Now(), "", tax.GSTIN{}, "27")
		assert.Error(t, err)
	})

	t.Run("rejects unknown place of supply", func(t *testing.T) {
		_, err := NewInvoice("INV-1", time.Now(), "Acme", tax.GSTIN{}, "00")
		assert.Error(t, err)
	})
}

func TestInvoiceLines(t *testing.T) {
	t.Run("add and remove lines on draft", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "27")
		require.NoError(t, inv.AddLine("Steel rods", "7214", decimal.NewFromInt(10), "KGS",
			valueobject.NewMoneyINRFromFloat(1000), tax.MustRate(18)))
		require.Len(t, inv.Lines, 1)

		require.NoError(t, inv.RemoveLine(inv.Lines[0].ID))
		assert.Empty(t, inv.Lines)
	})

	t.Run("line guards", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "27")
		assert.Error(t, inv.AddLine("", "7214", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(18)))
		assert.Error(t, inv.AddLine("Steel rods", "", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(18)))
		assert.Error(t, inv.AddLine("Steel rods", "7214", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(-100), tax.MustRate(18)))
	})
}

func TestInvoiceRecompute(t *testing.T) {
	t.Run("intra-state sale to registered customer", func(t *testing.T) {
		inv := draftInvoice(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, inv.AddLine("Steel rods", "7214", decimal.NewFromInt(10), "KGS",
			valueobject.NewMoneyINRFromFloat(1000), tax.MustRate(18)))

		require.NoError(t, inv.Recompute(testProfile()))
		assert.Equal(t, tax.SupplyIntraState, inv.SupplyType)
		assert.Equal(t, BucketB2B, inv.Bucket)
		assert.Equal(t, "90.00", inv.Split.CGST.StringFixed(2))
		assert.Equal(t, "90.00", inv.Split.SGST.StringFixed(2))
		assert.True(t, inv.Split.IGST.IsZero())
	})

	t.Run("inter-state sale sums line splits", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "29")
		require.NoError(t, inv.AddLine("Consulting", "9983", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(1000), tax.MustRate(18)))
		require.NoError(t, inv.AddLine("Support", "9983", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(500), tax.MustRate(5)))

		require.NoError(t, inv.Recompute(testProfile()))
		assert.Equal(t, tax.SupplyInterState, inv.SupplyType)
		assert.Equal(t, "1500.00", inv.Split.TaxableValue.StringFixed(2))
		assert.Equal(t, "205.00", inv.Split.IGST.StringFixed(2)) // 180 + 25
		assert.Equal(t, BucketB2CS, inv.Bucket)
	})

	t.Run("large unregistered inter-state invoice is B2CL", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "29")
		require.NoError(t, inv.AddLine("Machinery", "8458", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(250000.01), tax.MustRate(28)))

		require.NoError(t, inv.Recompute(testProfile()))
		assert.Equal(t, BucketB2CL, inv.Bucket)
	})

	t.Run("unclassifiable without gstin or place of supply", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "")
		require.NoError(t, inv.AddLine("Goods", "1001", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(5)))
		assert.Error(t, inv.Recompute(testProfile()))
	})
}

func TestInvoiceFinalize(t *testing.T) {
	t.Run("freezes invoice and emits event", func(t *testing.T) {
		inv := draftInvoice(t, mustGSTIN(t, "29AABCT1332L1ZA"), "")
		require.NoError(t, inv.AddLine("Goods", "1001", decimal.NewFromInt(5), "NOS",
			valueobject.NewMoneyINRFromFloat(2000), tax.MustRate(12)))

		require.NoError(t, inv.Finalize(testProfile()))
		assert.True(t, inv.IsFinal())
		assert.Equal(t, tax.SupplyInterState, inv.SupplyType)

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeInvoiceFinalized, events[0].EventType())
	})

	t.Run("rejects empty invoice", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "27")
		assert.Error(t, inv.Finalize(testProfile()))
	})

	t.Run("finalised invoice is immutable", func(t *testing.T) {
		inv := draftInvoice(t, tax.GSTIN{}, "27")
		require.NoError(t, inv.AddLine("Goods", "1001", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(5)))
		require.NoError(t, inv.Finalize(testProfile()))

		assert.ErrorIs(t, inv.AddLine("More goods", "1001", decimal.NewFromInt(1), "NOS",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(5)), ErrInvoiceFinalized)
		assert.ErrorIs(t, inv.Finalize(testProfile()), ErrInvoiceFinalized)
		assert.ErrorIs(t, inv.Recompute(testProfile()), ErrInvoiceFinalized)
	})
}
