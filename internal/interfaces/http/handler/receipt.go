package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/application/billing"
	"go.uber.org/zap"
)

// ReceiptHandler handles payment receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *billing.Service
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *billing.Service, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		BaseHandler:    NewBaseHandler(logger),
		receiptService: receiptService,
	}
}

// Preview computes the oldest-first allocation for a payment without
// persisting anything
// POST /api/v1/receipts/preview
func (h *ReceiptHandler) Preview(c *gin.Context) {
	var req billing.PreviewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.receiptService.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// NextNumber returns the next receipt number without reserving it
// GET /api/v1/receipts/next-number
func (h *ReceiptHandler) NextNumber(c *gin.Context) {
	resp, err := h.receiptService.NextNumber(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create records a payment receipt and applies its imputations
// POST /api/v1/receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req billing.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.receiptService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single receipt with its imputation lines
// GET /api/v1/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List lists receipts with filtering and pagination
// GET /api/v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var filter billing.ReceiptListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}
