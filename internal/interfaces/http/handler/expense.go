package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/finbooks/backend/internal/application/finance"
)

// ExpenseHandler handles expense lifecycle endpoints
type ExpenseHandler struct {
	BaseHandler
	service *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ApproveExpenseRequest carries the approver identity
type ApproveExpenseRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required"`
}

// RegisterRoutes registers expense routes on the given group
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.CreateExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/summary", h.ExpenseSummary)
		expenses.GET("/:id", h.GetExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.POST("/:id/submit", h.SubmitExpense)
		expenses.POST("/:id/approve", h.ApproveExpense)
		expenses.POST("/:id/reject", h.RejectExpense)
		expenses.POST("/:id/pay", h.PayExpense)
	}
}

// CreateExpense records a draft expense
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req financeapp.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.CreateExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// GetExpense returns an expense by ID
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	expense, err := h.service.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// ListExpenses lists expenses with filtering and pagination
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	var filter financeapp.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	expenses, total, err := h.service.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// UpdateExpense replaces the editable fields of a draft expense
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req financeapp.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// ExpenseSummary totals a period's expenses by category
func (h *ExpenseHandler) ExpenseSummary(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	summary, err := h.service.ExpenseSummary(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SubmitExpense moves a draft expense into the approval queue
func (h *ExpenseHandler) SubmitExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	expense, err := h.service.SubmitExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// ApproveExpense approves a submitted expense and settles its input
// tax credit posting
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ApproveExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.ApproveExpense(c.Request.Context(), id, req.ApprovedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// RejectExpense declines a submitted expense with a mandatory reason
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req financeapp.RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.RejectExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// PayExpense settles an approved expense
func (h *ExpenseHandler) PayExpense(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req financeapp.PayExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	expense, err := h.service.PayExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}
