package models

import (
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// SettingsModel is the persistence model for the organisation tax
// settings. A single row holds the registration for the whole system.
type SettingsModel struct {
	AggregateModel
	LegalName     string          `gorm:"type:varchar(200);not null"`
	GSTIN         string          `gorm:"type:varchar(15);not null"`
	StateCode     string          `gorm:"type:varchar(2);not null"`
	B2CLThreshold decimal.Decimal `gorm:"column:b2cl_threshold;type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "tax_settings"
}

// ToDomain converts the persistence model to domain Settings
func (m *SettingsModel) ToDomain() *tax.Settings {
	gstin, _ := reassembleGSTIN(m.GSTIN)
	return &tax.Settings{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LegalName:         m.LegalName,
		GSTIN:             gstin,
		StateCode:         m.StateCode,
		B2CLThreshold:     valueobject.NewMoneyINR(m.B2CLThreshold),
	}
}

// FromDomain populates the persistence model from domain Settings
func (m *SettingsModel) FromDomain(s *tax.Settings) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.LegalName = s.LegalName
	m.GSTIN = s.GSTIN.String()
	m.StateCode = s.StateCode
	m.B2CLThreshold = s.B2CLThreshold.Amount()
}

// SettingsModelFromDomain creates a new persistence model from domain Settings
func SettingsModelFromDomain(s *tax.Settings) *SettingsModel {
	m := &SettingsModel{}
	m.FromDomain(s)
	return m
}
