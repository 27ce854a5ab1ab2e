package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/application/client"
	"go.uber.org/zap"
)

// ClientHandler handles client management endpoints
type ClientHandler struct {
	BaseHandler
	clientService *client.Service
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *client.Service, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		BaseHandler:   NewBaseHandler(logger),
		clientService: clientService,
	}
}

// Create registers a new client
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single client
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List lists clients with filtering and pagination
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	var filter client.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	clients, total, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Update modifies a client's details
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate marks a client inactive
// POST /api/v1/clients/:id/deactivate
func (h *ClientHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.clientService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Activate marks a client active again
// POST /api/v1/clients/:id/activate
func (h *ClientHandler) Activate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.clientService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// BulkActivate marks a batch of clients active
// POST /api/v1/clients/bulk-activate
func (h *ClientHandler) BulkActivate(c *gin.Context) {
	var req client.BulkActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.clientService.BulkActivate(c.Request.Context(), req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a client without loan history
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
