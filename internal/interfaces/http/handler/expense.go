package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/application/finance"
	"go.uber.org/zap"
)

// ExpenseHandler handles operating expense endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *finance.Service
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *finance.Service, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		BaseHandler:    NewBaseHandler(logger),
		expenseService: expenseService,
	}
}

// Create records an expense
// POST /api/v1/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req finance.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.expenseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single expense
// GET /api/v1/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.expenseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List lists expenses with filtering and pagination
// GET /api/v1/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	var filter finance.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	expenses, total, err := h.expenseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, filter.Page, filter.PageSize)
}

// Update modifies an expense
// PUT /api/v1/expenses/:id
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req finance.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.expenseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an expense
// DELETE /api/v1/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Summary totals expenses over a period with a per-category breakdown
// GET /api/v1/expenses/summary
func (h *ExpenseHandler) Summary(c *gin.Context) {
	var query finance.SummaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.expenseService.Summary(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Categories returns the known expense categories
// GET /api/v1/expenses/categories
func (h *ExpenseHandler) Categories(c *gin.Context) {
	h.Success(c, h.expenseService.Categories())
}
