package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	financeapp "github.com/finbooks/backend/internal/application/finance"
	taxapp "github.com/finbooks/backend/internal/application/tax"
	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	"github.com/finbooks/backend/internal/domain/tax"
)

// MockExpenseRepository implements finance.ExpenseRepository for testing
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindByStatus(ctx context.Context, status finance.ExpenseStatus, filter shared.Filter) ([]finance.Expense, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindCreditableInPeriod(ctx context.Context, from, to time.Time) ([]finance.Expense, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerPoster implements finance.LedgerPoster for testing
type MockLedgerPoster struct {
	mock.Mock
}

func (m *MockLedgerPoster) Post(ctx context.Context, posting finance.LedgerPosting) error {
	args := m.Called(ctx, posting)
	return args.Error(0)
}

func registeredExpense(t *testing.T) *finance.Expense {
	t.Helper()
	vendor, err := tax.NewGSTIN("29AABCT1332L1ZA")
	require.NoError(t, err)
	expense, err := finance.NewExpense("RAW_MATERIALS", "Steel coils",
		time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		"Udupi Steels", vendor, "29",
		valueobject.NewMoneyINR(decimal.NewFromInt(5000)), tax.MustRate(18))
	require.NoError(t, err)
	return expense
}

func submittedExpense(t *testing.T) *finance.Expense {
	t.Helper()
	expense := registeredExpense(t)
	require.NoError(t, expense.Submit())
	return expense
}

func newExpenseEngine(expenseRepo *MockExpenseRepository, settingsRepo *MockSettingsRepository,
	ledger *MockLedgerPoster) *ExpenseHandler {
	taxService := taxapp.NewTaxService(settingsRepo, defaultThreshold())
	return NewExpenseHandler(financeapp.NewExpenseService(expenseRepo, taxService, ledger, nil))
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("records a draft expense", func(t *testing.T) {
		expenseRepo := new(MockExpenseRepository)
		expenseRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.Expense")).Return(nil)
		engine := setupTestRouter(newExpenseEngine(expenseRepo, new(MockSettingsRepository), new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses", map[string]any{
			"category":        "RAW_MATERIALS",
			"description":     "Steel coils",
			"expense_date":    "2026-08-10T00:00:00Z",
			"vendor_name":     "Udupi Steels",
			"vendor_gstin":    "29AABCT1332L1ZA",
			"place_of_supply": "29",
			"taxable_value":   "5000",
			"tax_rate":        "18",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var expense financeapp.ExpenseResponse
		decodeData(t, decodeResponse(t, w), &expense)
		assert.Equal(t, "DRAFT", expense.Status)
		assert.True(t, expense.TaxableValue.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("rejects an unknown tax rate", func(t *testing.T) {
		engine := setupTestRouter(newExpenseEngine(new(MockExpenseRepository), new(MockSettingsRepository), new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses", map[string]any{
			"category":      "RAW_MATERIALS",
			"description":   "Steel coils",
			"expense_date":  "2026-08-10T00:00:00Z",
			"taxable_value": "5000",
			"tax_rate":      "17",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_TAX_RATE", decodeResponse(t, w).Error.Code)
	})
}

func TestExpenseHandler_SubmitExpense(t *testing.T) {
	expense := registeredExpense(t)
	expenseRepo := new(MockExpenseRepository)
	expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
	expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)
	engine := setupTestRouter(newExpenseEngine(expenseRepo, new(MockSettingsRepository), new(MockLedgerPoster)))

	w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got financeapp.ExpenseResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.Equal(t, "SUBMITTED", got.Status)
}

func TestExpenseHandler_ApproveExpense(t *testing.T) {
	t.Run("approves and settles the credit posting", func(t *testing.T) {
		expense := submittedExpense(t)
		expenseRepo := new(MockExpenseRepository)
		settingsRepo := new(MockSettingsRepository)
		ledger := new(MockLedgerPoster)
		expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
		settingsRepo.On("Get", mock.Anything).Return(storedSettings(t), nil)
		ledger.On("Post", mock.Anything, mock.AnythingOfType("finance.LedgerPosting")).Return(nil)
		expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)
		engine := setupTestRouter(newExpenseEngine(expenseRepo, settingsRepo, ledger))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/approve",
			map[string]any{"approved_by": "finance-manager"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got financeapp.ExpenseResponse
		decodeData(t, decodeResponse(t, w), &got)
		assert.Equal(t, "APPROVED", got.Status)
		assert.True(t, got.ITCEligible)
		ledger.AssertCalled(t, "Post", mock.Anything, mock.AnythingOfType("finance.LedgerPosting"))
	})

	t.Run("a failed posting keeps the expense submitted", func(t *testing.T) {
		expense := submittedExpense(t)
		expenseRepo := new(MockExpenseRepository)
		settingsRepo := new(MockSettingsRepository)
		ledger := new(MockLedgerPoster)
		expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
		settingsRepo.On("Get", mock.Anything).Return(storedSettings(t), nil)
		ledger.On("Post", mock.Anything, mock.AnythingOfType("finance.LedgerPosting")).Return(assert.AnError)
		engine := setupTestRouter(newExpenseEngine(expenseRepo, settingsRepo, ledger))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/approve",
			map[string]any{"approved_by": "finance-manager"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "POSTING_FAILED", decodeResponse(t, w).Error.Code)
		expenseRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing approver yields 400", func(t *testing.T) {
		engine := setupTestRouter(newExpenseEngine(new(MockExpenseRepository), new(MockSettingsRepository), new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+uuid.NewString()+"/approve",
			map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("approving a draft yields 422", func(t *testing.T) {
		expense := registeredExpense(t)
		expenseRepo := new(MockExpenseRepository)
		settingsRepo := new(MockSettingsRepository)
		expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
		settingsRepo.On("Get", mock.Anything).Return(storedSettings(t), nil)
		engine := setupTestRouter(newExpenseEngine(expenseRepo, settingsRepo, new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/approve",
			map[string]any{"approved_by": "finance-manager"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_STATUS", decodeResponse(t, w).Error.Code)
	})
}

func TestExpenseHandler_RejectExpense(t *testing.T) {
	t.Run("rejects with a reason", func(t *testing.T) {
		expense := submittedExpense(t)
		expenseRepo := new(MockExpenseRepository)
		expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
		expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)
		engine := setupTestRouter(newExpenseEngine(expenseRepo, new(MockSettingsRepository), new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/reject",
			map[string]any{"reason": "missing vendor invoice"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got financeapp.ExpenseResponse
		decodeData(t, decodeResponse(t, w), &got)
		assert.Equal(t, "REJECTED", got.Status)
		assert.Equal(t, "missing vendor invoice", got.RejectionReason)
	})

	t.Run("missing reason yields 400", func(t *testing.T) {
		engine := setupTestRouter(newExpenseEngine(new(MockExpenseRepository), new(MockSettingsRepository), new(MockLedgerPoster)))

		w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+uuid.NewString()+"/reject",
			map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExpenseHandler_PayExpense(t *testing.T) {
	expense := submittedExpense(t)
	require.NoError(t, expense.Approve("finance-manager", "27"))

	expenseRepo := new(MockExpenseRepository)
	expenseRepo.On("FindByID", mock.Anything, expense.ID).Return(expense, nil)
	expenseRepo.On("SaveWithLock", mock.Anything, expense).Return(nil)
	engine := setupTestRouter(newExpenseEngine(expenseRepo, new(MockSettingsRepository), new(MockLedgerPoster)))

	w := performRequest(engine, http.MethodPost, "/api/v1/expenses/"+expense.ID.String()+"/pay",
		map[string]any{"payment_mode": "BANK_TRANSFER"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got financeapp.ExpenseResponse
	decodeData(t, decodeResponse(t, w), &got)
	assert.Equal(t, "PAID", got.Status)
	assert.Equal(t, "BANK_TRANSFER", got.PaymentMode)
}
