package tax

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// TaxService provides identifier validation and organisation tax
// settings operations
type TaxService struct {
	settingsRepo     tax.SettingsRepository
	defaultThreshold valueobject.Money
}

// NewTaxService creates a new TaxService. The default threshold applies
// until settings carrying an explicit one are stored.
func NewTaxService(settingsRepo tax.SettingsRepository, defaultThreshold valueobject.Money) *TaxService {
	return &TaxService{
		settingsRepo:     settingsRepo,
		defaultThreshold: defaultThreshold,
	}
}

// GSTINValidationResponse is the outcome of validating a candidate GSTIN
type GSTINValidationResponse struct {
	GSTIN     string `json:"gstin"`
	Valid     bool   `json:"valid"`
	StateCode string `json:"state_code,omitempty"`
	StateName string `json:"state_name,omitempty"`
	PAN       string `json:"pan,omitempty"`
}

// ValidateGSTIN checks a candidate registration number. A failed
// checksum or structure is not an error: the response reports
// valid=false with no jurisdiction, and callers must treat the absence
// of a jurisdiction as unknown.
func (s *TaxService) ValidateGSTIN(ctx context.Context, candidate string) (*GSTINValidationResponse, error) {
	if candidate == "" {
		return nil, shared.NewFieldError("MISSING_FIELD", "required field is missing", "gstin")
	}

	gstin, err := tax.NewGSTIN(candidate)
	if err != nil {
		return &GSTINValidationResponse{GSTIN: candidate, Valid: false}, nil
	}
	return &GSTINValidationResponse{
		GSTIN:     gstin.String(),
		Valid:     true,
		StateCode: gstin.StateCode(),
		StateName: gstin.StateName(),
		PAN:       gstin.PAN(),
	}, nil
}

// SettingsResponse represents organisation tax settings in API responses
type SettingsResponse struct {
	ID            uuid.UUID       `json:"id"`
	LegalName     string          `json:"legal_name"`
	GSTIN         string          `json:"gstin"`
	StateCode     string          `json:"state_code"`
	StateName     string          `json:"state_name"`
	B2CLThreshold decimal.Decimal `json:"b2cl_threshold"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UpdateSettingsRequest represents a request to store tax settings
type UpdateSettingsRequest struct {
	LegalName     string           `json:"legal_name" binding:"required"`
	GSTIN         string           `json:"gstin" binding:"required"`
	B2CLThreshold *decimal.Decimal `json:"b2cl_threshold"`
}

// GetSettings returns the stored organisation tax settings
func (s *TaxService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// UpdateSettings creates or replaces the organisation tax settings
func (s *TaxService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	gstin, err := tax.NewGSTIN(req.GSTIN)
	if err != nil {
		return nil, err
	}

	threshold := s.defaultThreshold
	if req.B2CLThreshold != nil {
		threshold = valueobject.NewMoneyINR(*req.B2CLThreshold)
	}

	settings, err := s.settingsRepo.Get(ctx)
	switch {
	case err == nil:
		if err := settings.Update(req.LegalName, gstin, threshold); err != nil {
			return nil, err
		}
	case isNotFound(err):
		settings, err = tax.NewSettings(req.LegalName, gstin, threshold)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Profile returns the tax derivation inputs for billing and finance
// operations. Settings must be configured first.
func (s *TaxService) Profile(ctx context.Context) (billing.TaxProfile, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return billing.TaxProfile{}, shared.NewDomainError("NOT_FOUND", "organisation tax settings are not configured")
		}
		return billing.TaxProfile{}, err
	}
	return billing.TaxProfile{
		OrgStateCode:  settings.StateCode,
		B2CLThreshold: settings.B2CLThreshold,
	}, nil
}

func toSettingsResponse(settings *tax.Settings) *SettingsResponse {
	return &SettingsResponse{
		ID:            settings.ID,
		LegalName:     settings.LegalName,
		GSTIN:         settings.GSTIN.String(),
		StateCode:     settings.StateCode,
		StateName:     settings.GSTIN.StateName(),
		B2CLThreshold: settings.B2CLThreshold.Amount(),
		UpdatedAt:     settings.UpdatedAt,
	}
}

func isNotFound(err error) bool {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return derr.Code == "NOT_FOUND"
	}
	return false
}
