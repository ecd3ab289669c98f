package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared"
)

// PostingModel is the persisted input tax credit journal entry
type PostingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PostingKey   string          `gorm:"not null;uniqueIndex"`
	ExpenseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Period       string          `gorm:"not null;index"`
	Category     string          `gorm:"not null"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(15,2)"`
	CGST         decimal.Decimal `gorm:"type:decimal(15,2)"`
	SGST         decimal.Decimal `gorm:"type:decimal(15,2)"`
	IGST         decimal.Decimal `gorm:"type:decimal(15,2)"`
	ITCEligible  bool            `gorm:"not null"`
	PostedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the posting model
func (PostingModel) TableName() string {
	return "itc_ledger_postings"
}

// Journal is the input tax credit ledger boundary. Each posting key is
// settled exactly once: the unique index on the key is the ground
// truth, with the idempotency store as a fast path in front of it.
type Journal struct {
	db     *gorm.DB
	idem   shared.IdempotencyStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewJournal creates a new ledger journal
func NewJournal(db *gorm.DB, idem shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *Journal {
	return &Journal{
		db:     db,
		idem:   idem,
		ttl:    ttl,
		logger: logger,
	}
}

// Post settles a ledger posting. Safe to retry: a key that has already
// been settled is acknowledged without a second journal entry.
func (j *Journal) Post(ctx context.Context, posting finance.LedgerPosting) error {
	if processed, err := j.idem.IsProcessed(ctx, posting.Key); err == nil && processed {
		return nil
	}

	model := PostingModel{
		ID:           uuid.New(),
		PostingKey:   posting.Key,
		ExpenseID:    posting.ExpenseID,
		Period:       posting.Period,
		Category:     posting.Category,
		TaxableValue: posting.TaxableValue.Amount(),
		CGST:         posting.CGST.Amount(),
		SGST:         posting.SGST.Amount(),
		IGST:         posting.IGST.Amount(),
		ITCEligible:  posting.ITCEligible,
		PostedAt:     time.Now(),
	}

	result := j.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "posting_key"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		return fmt.Errorf("ledger posting failed: %w", result.Error)
	}

	if _, err := j.idem.MarkProcessed(ctx, posting.Key, j.ttl); err != nil {
		// The unique index still protects the key; only the fast path
		// is degraded.
		j.logger.Warn("failed to mark posting key processed",
			zap.String("posting_key", posting.Key),
			zap.Error(err),
		)
	}

	if result.RowsAffected > 0 {
		j.logger.Info("input tax credit posted",
			zap.String("posting_key", posting.Key),
			zap.String("period", posting.Period),
			zap.String("taxable_value", posting.TaxableValue.StringFixed(2)),
		)
	}
	return nil
}

// CreditedInPeriod sums the eligible credit components settled for a
// period, for reconciliation against the expense-derived ITC totals
func (j *Journal) CreditedInPeriod(ctx context.Context, period string) (cgst, sgst, igst decimal.Decimal, err error) {
	var postings []PostingModel
	if err = j.db.WithContext(ctx).
		Where("period = ? AND itc_eligible = ?", period, true).
		Find(&postings).Error; err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	cgst, sgst, igst = decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range postings {
		cgst = cgst.Add(p.CGST)
		sgst = sgst.Add(p.SGST)
		igst = igst.Add(p.IGST)
	}
	return cgst, sgst, igst, nil
}

var _ finance.LedgerPoster = (*Journal)(nil)
