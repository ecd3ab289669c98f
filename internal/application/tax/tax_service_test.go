package tax

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

type memorySettingsRepo struct {
	settings *tax.Settings
}

func (r *memorySettingsRepo) Get(_ context.Context) (*tax.Settings, error) {
	if r.settings == nil {
		return nil, shared.ErrNotFound
	}
	return r.settings, nil
}

func (r *memorySettingsRepo) Save(_ context.Context, s *tax.Settings) error {
	r.settings = s
	return nil
}

func newService() (*TaxService, *memorySettingsRepo) {
	repo := &memorySettingsRepo{}
	return NewTaxService(repo, valueobject.NewMoneyINRFromFloat(250000)), repo
}

func TestValidateGSTIN(t *testing.T) {
	svc, _ := newService()

	t.Run("valid registration resolves jurisdiction", func(t *testing.T) {
		resp, err := svc.ValidateGSTIN(context.Background(), "27AAPFU0939F1ZV")
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, "27", resp.StateCode)
		assert.Equal(t, "Maharashtra", resp.StateName)
		assert.Equal(t, "AAPFU0939F", resp.PAN)
	})

	t.Run("invalid checksum reports valid false without jurisdiction", func(t *testing.T) {
		resp, err := svc.ValidateGSTIN(context.Background(), "29AABCT1332L1ZU")
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Empty(t, resp.StateCode)
		assert.Empty(t, resp.StateName)
	})

	t.Run("empty input is a field error", func(t *testing.T) {
		_, err := svc.ValidateGSTIN(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestSettings(t *testing.T) {
	t.Run("first update creates settings", func(t *testing.T) {
		svc, _ := newService()
		resp, err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
			LegalName: "FinBooks Test Pvt Ltd",
			GSTIN:     "27AAPFU0939F1ZV",
		})
		require.NoError(t, err)
		assert.Equal(t, "27", resp.StateCode)
		assert.Equal(t, "250000", resp.B2CLThreshold.String())

		got, err := svc.GetSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, resp.GSTIN, got.GSTIN)
	})

	t.Run("update replaces registration and threshold", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
			LegalName: "FinBooks Test Pvt Ltd",
			GSTIN:     "27AAPFU0939F1ZV",
		})
		require.NoError(t, err)

		threshold := decimal.NewFromInt(500000)
		resp, err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
			LegalName:     "FinBooks Karnataka Pvt Ltd",
			GSTIN:         "29AABCT1332L1ZA",
			B2CLThreshold: &threshold,
		})
		require.NoError(t, err)
		assert.Equal(t, "29", resp.StateCode)
		assert.Equal(t, "500000", resp.B2CLThreshold.String())
	})

	t.Run("rejects invalid GSTIN", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
			LegalName: "FinBooks",
			GSTIN:     "33GSPTN4601G1ZL",
		})
		assert.Error(t, err)
	})

	t.Run("profile requires configured settings", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Profile(context.Background())
		assert.Error(t, err)

		_, err = svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
			LegalName: "FinBooks",
			GSTIN:     "27AAPFU0939F1ZV",
		})
		require.NoError(t, err)

		profile, err := svc.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "27", profile.OrgStateCode)
	})
}
