package finance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/application/tax"
	"github.com/finbooks/backend/internal/domain/finance"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	domaintax "github.com/finbooks/backend/internal/domain/tax"
)

// ExpenseService provides application-level expense lifecycle operations
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	taxService  *tax.TaxService
	ledger      finance.LedgerPoster
	eventBus    shared.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo finance.ExpenseRepository, taxService *tax.TaxService,
	ledger finance.LedgerPoster, eventBus shared.EventPublisher) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		taxService:  taxService,
		ledger:      ledger,
		eventBus:    eventBus,
	}
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	ExpenseDate   time.Time       `json:"expense_date" binding:"required"`
	VendorName    string          `json:"vendor_name"`
	VendorGSTIN   string          `json:"vendor_gstin"`
	PlaceOfSupply string          `json:"place_of_supply"`
	TaxableValue  decimal.Decimal `json:"taxable_value" binding:"required"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	RevisionOf    *uuid.UUID      `json:"revision_of,omitempty"`
}

// UpdateExpenseRequest carries the editable fields of a draft expense
type UpdateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	VendorName    string          `json:"vendor_name"`
	VendorGSTIN   string          `json:"vendor_gstin"`
	PlaceOfSupply string          `json:"place_of_supply"`
	TaxableValue  decimal.Decimal `json:"taxable_value" binding:"required"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

// RejectExpenseRequest carries the mandatory rejection reason
type RejectExpenseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PayExpenseRequest carries the settlement instrument
type PayExpenseRequest struct {
	PaymentMode string `json:"payment_mode" binding:"required"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID               uuid.UUID       `json:"id"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
	ExpenseDate      time.Time       `json:"expense_date"`
	VendorName       string          `json:"vendor_name,omitempty"`
	VendorGSTIN      string          `json:"vendor_gstin,omitempty"`
	PlaceOfSupply    string          `json:"place_of_supply,omitempty"`
	Status           string          `json:"status"`
	TaxableValue     decimal.Decimal `json:"taxable_value"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	CGST             decimal.Decimal `json:"cgst"`
	SGST             decimal.Decimal `json:"sgst"`
	IGST             decimal.Decimal `json:"igst"`
	ITCEligible      bool            `json:"itc_eligible"`
	SubmittedAt      *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy       string          `json:"approved_by,omitempty"`
	RejectedAt       *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason  string          `json:"rejection_reason,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentMode      string          `json:"payment_mode,omitempty"`
	RevisionOf       *uuid.UUID      `json:"revision_of,omitempty"`
	ApprovalAttempts int             `json:"approval_attempts"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ExpenseListFilter defines filtering options for expense list queries
type ExpenseListFilter struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Period   string `form:"period"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateExpense records a draft expense. When RevisionOf names a
// rejected expense, the draft starts a fresh submission cycle for it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	var vendorGSTIN domaintax.GSTIN
	if req.VendorGSTIN != "" {
		g, err := domaintax.NewGSTIN(req.VendorGSTIN)
		if err != nil {
			return nil, err
		}
		vendorGSTIN = g
	}

	rate, err := domaintax.NewRate(req.TaxRate)
	if err != nil {
		return nil, err
	}

	expense, err := finance.NewExpense(req.Category, req.Description, req.ExpenseDate,
		req.VendorName, vendorGSTIN, req.PlaceOfSupply,
		valueobject.NewMoneyINR(req.TaxableValue), rate)
	if err != nil {
		return nil, err
	}

	if req.RevisionOf != nil {
		rejected, err := s.expenseRepo.FindByID(ctx, *req.RevisionOf)
		if err != nil {
			return nil, err
		}
		if rejected == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Referenced expense not found")
		}
		if rejected.Status != finance.ExpenseStatusRejected {
			return nil, finance.ErrNotRejected
		}
		id := rejected.ID
		expense.RevisionOf = &id
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// GetExpense gets an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// ListExpenses lists expenses with filtering
func (s *ExpenseService) ListExpenses(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Period != "" {
		domainFilter.Filters["period"] = filter.Period
	}

	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, *toExpenseResponse(&expenses[i]))
	}
	return responses, total, nil
}

// UpdateExpense replaces the editable fields of a draft expense.
// Anything past DRAFT is immutable through this path.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	var vendorGSTIN domaintax.GSTIN
	if req.VendorGSTIN != "" {
		g, err := domaintax.NewGSTIN(req.VendorGSTIN)
		if err != nil {
			return nil, err
		}
		vendorGSTIN = g
	}

	rate, err := domaintax.NewRate(req.TaxRate)
	if err != nil {
		return nil, err
	}

	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.UpdateDraft(req.Category, req.Description, req.VendorName,
		vendorGSTIN, req.PlaceOfSupply, valueobject.NewMoneyINR(req.TaxableValue), rate); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// SubmitExpense moves a draft into the approval queue
func (s *ExpenseService) SubmitExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Submit(); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)
	return toExpenseResponse(expense), nil
}

// ApproveExpense approves a submitted expense. The ITC ledger posting
// happens before the status change is persisted: if the posting cannot
// be confirmed the expense stays SUBMITTED and the caller may retry.
// The posting key is stable across retries, so the ledger settles it
// exactly once, and the optimistic save makes concurrent approvals of
// the same expense lose cleanly.
func (s *ExpenseService) ApproveExpense(ctx context.Context, id uuid.UUID, approvedBy string) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.taxService.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := expense.Approve(approvedBy, profile.OrgStateCode); err != nil {
		return nil, err
	}

	if expense.ITCEligible {
		if err := s.ledger.Post(ctx, finance.NewLedgerPosting(expense)); err != nil {
			return nil, shared.ErrPostingFailed
		}
	}

	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)
	return toExpenseResponse(expense), nil
}

// RejectExpense declines a submitted expense
func (s *ExpenseService) RejectExpense(ctx context.Context, id uuid.UUID, req RejectExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.Reject(req.Reason); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)
	return toExpenseResponse(expense), nil
}

// PayExpense settles an approved expense
func (s *ExpenseService) PayExpense(ctx context.Context, id uuid.UUID, req PayExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := expense.MarkPaid(finance.PaymentMode(req.PaymentMode)); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.SaveWithLock(ctx, expense); err != nil {
		return nil, err
	}
	s.publish(ctx, expense)
	return toExpenseResponse(expense), nil
}

// CategoryTotal is one row of the monthly expense summary
type CategoryTotal struct {
	Category     string          `json:"category"`
	Count        int             `json:"count"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TotalTax     decimal.Decimal `json:"total_tax"`
}

// ExpenseSummaryResponse totals a period's expenses by category
type ExpenseSummaryResponse struct {
	Period            string          `json:"period"`
	Categories        []CategoryTotal `json:"categories"`
	TotalTaxableValue decimal.Decimal `json:"total_taxable_value"`
	TotalTax          decimal.Decimal `json:"total_tax"`
}

// ExpenseSummary totals a YYYY-MM period's expenses by category. Only
// approved and paid expenses count; their splits are frozen at approval
// so the totals are stable.
func (s *ExpenseService) ExpenseSummary(ctx context.Context, period string) (*ExpenseSummaryResponse, error) {
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, shared.NewFieldError("INVALID_INPUT", "period must be formatted YYYY-MM", "period")
	}

	filter := shared.DefaultFilter()
	filter.PageSize = summaryPageSize
	filter.Filters["period"] = period

	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*CategoryTotal)
	order := make([]string, 0)
	summary := &ExpenseSummaryResponse{Period: period}
	for i := range expenses {
		e := &expenses[i]
		if e.Status != finance.ExpenseStatusApproved && e.Status != finance.ExpenseStatusPaid {
			continue
		}
		row, ok := byCategory[e.Category]
		if !ok {
			row = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = row
			order = append(order, e.Category)
		}
		taxable := e.TaxableValue.Amount()
		tax := e.Split.CGST.Amount().Add(e.Split.SGST.Amount()).Add(e.Split.IGST.Amount())
		row.Count++
		row.TaxableValue = row.TaxableValue.Add(taxable)
		row.TotalTax = row.TotalTax.Add(tax)
		summary.TotalTaxableValue = summary.TotalTaxableValue.Add(taxable)
		summary.TotalTax = summary.TotalTax.Add(tax)
	}

	sort.Strings(order)
	summary.Categories = make([]CategoryTotal, 0, len(order))
	for _, category := range order {
		summary.Categories = append(summary.Categories, *byCategory[category])
	}
	return summary, nil
}

// summaryPageSize bounds how many expenses one summary reads. A month
// of expenses for a single organisation stays well under it.
const summaryPageSize = 10000

func (s *ExpenseService) findExpense(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Expense not found")
	}
	return expense, nil
}

func (s *ExpenseService) publish(ctx context.Context, expense *finance.Expense) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, expense.GetDomainEvents()...); err == nil {
		expense.ClearDomainEvents()
	}
}

func toExpenseResponse(expense *finance.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:               expense.ID,
		Category:         expense.Category,
		Description:      expense.Description,
		ExpenseDate:      expense.ExpenseDate,
		VendorName:       expense.VendorName,
		VendorGSTIN:      expense.VendorGSTIN.String(),
		PlaceOfSupply:    expense.PlaceOfSupply,
		Status:           expense.Status.String(),
		TaxableValue:     expense.TaxableValue.Amount(),
		TaxRate:          expense.Rate.Percent(),
		CGST:             expense.Split.CGST.Amount(),
		SGST:             expense.Split.SGST.Amount(),
		IGST:             expense.Split.IGST.Amount(),
		ITCEligible:      expense.ITCEligible,
		SubmittedAt:      expense.SubmittedAt,
		ApprovedAt:       expense.ApprovedAt,
		ApprovedBy:       expense.ApprovedBy,
		RejectedAt:       expense.RejectedAt,
		RejectionReason:  expense.RejectionReason,
		PaidAt:           expense.PaidAt,
		PaymentMode:      expense.PaymentMode.String(),
		RevisionOf:       expense.RevisionOf,
		ApprovalAttempts: expense.ApprovalAttempts,
		CreatedAt:        expense.CreatedAt,
		UpdatedAt:        expense.UpdatedAt,
		Version:          expense.Version,
	}
}
