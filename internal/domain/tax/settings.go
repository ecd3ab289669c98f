package tax

import (
	"context"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
)

// Settings holds the organisation's tax registration: its GSTIN, the
// state derived from it, and the large-invoice threshold used for
// outward supply classification.
type Settings struct {
	shared.BaseAggregateRoot
	LegalName     string            `gorm:"not null" json:"legal_name"`
	GSTIN         GSTIN             `gorm:"-" json:"gstin"`
	StateCode     string            `gorm:"not null" json:"state_code"`
	B2CLThreshold valueobject.Money `gorm:"type:decimal(15,2)" json:"b2cl_threshold"`
}

// NewSettings creates organisation tax settings from a validated GSTIN
func NewSettings(legalName string, gstin GSTIN, b2clThreshold valueobject.Money) (*Settings, error) {
	if legalName == "" {
		return nil, shared.NewFieldError("MISSING_FIELD", "required field is missing", "legal_name")
	}
	if gstin.IsZero() {
		return nil, ErrInvalidGSTIN.WithField("gstin")
	}
	if !b2clThreshold.IsPositive() {
		return nil, ErrInvalidAmount.WithField("b2cl_threshold")
	}
	return &Settings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LegalName:         legalName,
		GSTIN:             gstin,
		StateCode:         gstin.StateCode(),
		B2CLThreshold:     b2clThreshold,
	}, nil
}

// Update replaces the registration details
func (s *Settings) Update(legalName string, gstin GSTIN, b2clThreshold valueobject.Money) error {
	if legalName == "" {
		return shared.NewFieldError("MISSING_FIELD", "required field is missing", "legal_name")
	}
	if gstin.IsZero() {
		return ErrInvalidGSTIN.WithField("gstin")
	}
	if !b2clThreshold.IsPositive() {
		return ErrInvalidAmount.WithField("b2cl_threshold")
	}
	s.LegalName = legalName
	s.GSTIN = gstin
	s.StateCode = gstin.StateCode()
	s.B2CLThreshold = b2clThreshold
	s.Touch()
	return nil
}

// SettingsRepository persists the single organisation settings record
type SettingsRepository interface {
	// Get returns the organisation settings, or shared.ErrNotFound when
	// none have been configured yet
	Get(ctx context.Context) (*Settings, error)

	// Save creates or replaces the organisation settings
	Save(ctx context.Context, settings *Settings) error
}
