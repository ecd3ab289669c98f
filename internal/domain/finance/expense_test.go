package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

const orgState = "27" // Maharashtra

func mustGSTIN(t *testing.T, value string) tax.GSTIN {
	t.Helper()
	g, err := tax.NewGSTIN(value)
	require.NoError(t, err)
	return g
}

func draftExpense(t *testing.T, gstin tax.GSTIN, placeOfSupply string) *Expense {
	t.Helper()
	e, err := NewExpense("Office Supplies", "Printer cartridges",
		time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC), "Stationery World",
		gstin, placeOfSupply, valueobject.NewMoneyINRFromFloat(5000), tax.MustRate(18))
	require.NoError(t, err)
	return e
}

func TestNewExpense(t *testing.T) {
	t.Run("creates draft with derived eligibility", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		assert.Equal(t, ExpenseStatusDraft, e.Status)
		assert.True(t, e.ITCEligible)
		assert.Equal(t, "2026-04", e.Period())

		unregistered := draftExpense(t, tax.GSTIN{}, "27")
		assert.False(t, unregistered.ITCEligible)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewExpense("Travel", "Cab fare", time.Now(), "", tax.GSTIN{}, "27",
			valueobject.NewMoneyINRFromFloat(-1), tax.MustRate(5))
		assert.Error(t, err)
	})

	t.Run("rejects missing date", func(t *testing.T) {
		_, err := NewExpense("Travel", "Cab fare", time.Time{}, "", tax.GSTIN{}, "27",
			valueobject.NewMoneyINRFromFloat(100), tax.MustRate(5))
		assert.Error(t, err)
	})
}

func TestExpenseSubmit(t *testing.T) {
	t.Run("submits a complete draft", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		require.NoError(t, e.Submit())
		assert.Equal(t, ExpenseStatusSubmitted, e.Status)
		require.NotNil(t, e.SubmittedAt)

		events := e.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeExpenseSubmitted, events[0].EventType())
	})

	t.Run("guards required fields", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		e.Category = ""
		assert.Error(t, e.Submit())

		e = draftExpense(t, tax.GSTIN{}, "27")
		e.Description = ""
		assert.Error(t, e.Submit())

		e = draftExpense(t, tax.GSTIN{}, "27")
		e.TaxableValue = valueobject.ZeroINR()
		assert.Error(t, e.Submit())
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		require.NoError(t, e.Submit())
		assert.Error(t, e.Submit())
	})
}

func TestExpenseApprove(t *testing.T) {
	t.Run("recomputes split and schedules posting", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, e.Submit())
		e.ClearDomainEvents()

		require.NoError(t, e.Approve("priya", orgState))
		assert.Equal(t, ExpenseStatusApproved, e.Status)
		assert.Equal(t, 1, e.ApprovalAttempts)
		assert.Equal(t, "450.00", e.Split.CGST.StringFixed(2))
		assert.Equal(t, "450.00", e.Split.SGST.StringFixed(2))
		assert.True(t, e.Split.IGST.IsZero())

		events := e.GetDomainEvents()
		require.Len(t, events, 1)
		approved, ok := events[0].(*ExpenseApprovedEvent)
		require.True(t, ok)
		assert.True(t, approved.ITCEligible)
		assert.Equal(t, e.PostingKey(), approved.PostingKey)
	})

	t.Run("inter-state vendor yields IGST", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "29AABCT1332L1ZA"), "")
		require.NoError(t, e.Submit())

		require.NoError(t, e.Approve("priya", orgState))
		assert.Equal(t, "900.00", e.Split.IGST.StringFixed(2))
		assert.True(t, e.Split.CGST.IsZero())
	})

	t.Run("cannot approve a draft directly", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		assert.Error(t, e.Approve("priya", orgState))
		assert.Equal(t, ExpenseStatusDraft, e.Status)
	})

	t.Run("second approval is rejected and emits nothing", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, e.Submit())
		require.NoError(t, e.Approve("priya", orgState))
		e.ClearDomainEvents()

		assert.Error(t, e.Approve("priya", orgState))
		assert.Equal(t, 1, e.ApprovalAttempts)
		assert.Empty(t, e.GetDomainEvents())
	})

	t.Run("unclassifiable jurisdiction blocks approval", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "")
		require.NoError(t, e.Submit())
		assert.Error(t, e.Approve("priya", orgState))
		assert.Equal(t, ExpenseStatusSubmitted, e.Status)
	})
}

func TestExpenseReject(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		require.NoError(t, e.Submit())
		assert.Error(t, e.Reject(""))

		require.NoError(t, e.Reject("duplicate claim"))
		assert.Equal(t, ExpenseStatusRejected, e.Status)
		assert.Equal(t, "duplicate claim", e.RejectionReason)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		require.NoError(t, e.Submit())
		require.NoError(t, e.Reject("duplicate claim"))

		assert.Error(t, e.Submit())
		assert.Error(t, e.Approve("priya", orgState))
		assert.True(t, e.Status.IsTerminal())
	})
}

func TestExpenseMarkPaid(t *testing.T) {
	t.Run("pays an approved expense", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, e.Submit())
		require.NoError(t, e.Approve("priya", orgState))

		require.NoError(t, e.MarkPaid(PaymentModeUPI))
		assert.Equal(t, ExpenseStatusPaid, e.Status)
		assert.True(t, e.Status.IsTerminal())
	})

	t.Run("requires a valid payment mode", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, e.Submit())
		require.NoError(t, e.Approve("priya", orgState))
		assert.Error(t, e.MarkPaid(PaymentMode("IOU")))
	})

	t.Run("only reachable from approved", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		assert.Error(t, e.MarkPaid(PaymentModeCash))
		require.NoError(t, e.Submit())
		assert.Error(t, e.MarkPaid(PaymentModeCash))
	})
}

func TestNewExpenseFromRejected(t *testing.T) {
	t.Run("starts a fresh cycle referencing the rejection", func(t *testing.T) {
		e := draftExpense(t, mustGSTIN(t, "27AAPFU0939F1ZV"), "")
		require.NoError(t, e.Submit())
		require.NoError(t, e.Reject("wrong category"))

		draft, err := NewExpenseFromRejected(e)
		require.NoError(t, err)
		assert.Equal(t, ExpenseStatusDraft, draft.Status)
		assert.NotEqual(t, e.ID, draft.ID)
		require.NotNil(t, draft.RevisionOf)
		assert.Equal(t, e.ID, *draft.RevisionOf)
		assert.Zero(t, draft.ApprovalAttempts)
	})

	t.Run("only from rejected", func(t *testing.T) {
		e := draftExpense(t, tax.GSTIN{}, "27")
		_, err := NewExpenseFromRejected(e)
		assert.ErrorIs(t, err, ErrNotRejected)
	})
}
