package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/application/lending"
	"go.uber.org/zap"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	BaseHandler
	loanService *lending.Service
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *lending.Service, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		BaseHandler: NewBaseHandler(logger),
		loanService: loanService,
	}
}

// Create originates a loan and generates its installment schedule
// POST /api/v1/loans
func (h *LoanHandler) Create(c *gin.Context) {
	var req lending.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.loanService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a loan with its full schedule
// GET /api/v1/loans/:id
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List lists loans with filtering and pagination
// GET /api/v1/loans
func (h *LoanHandler) List(c *gin.Context) {
	var filter lending.LoanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	loans, total, err := h.loanService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, loans, total, filter.Page, filter.PageSize)
}

// Cancel cancels a loan that has no payments yet
// POST /api/v1/loans/:id/cancel
func (h *LoanHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.loanService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkDefaulted marks a loan as defaulted
// POST /api/v1/loans/:id/default
func (h *LoanHandler) MarkDefaulted(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.loanService.MarkDefaulted(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GenerateSchedule creates the installment schedule for a loan missing one
// POST /api/v1/loans/:id/schedule
func (h *LoanHandler) GenerateSchedule(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.loanService.GenerateSchedule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Schedule returns installments across loans with status and totals
// GET /api/v1/installments
func (h *LoanHandler) Schedule(c *gin.Context) {
	var query lending.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.loanService.Schedule(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
