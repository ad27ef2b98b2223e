package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-backend/internal/service"
)

// ListClients handles GET /api/clients.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.clients.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient handles GET /api/clients/:id.
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles POST /api/clients.
func (h *Handler) CreateClient(c *gin.Context) {
	var req service.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles PUT /api/clients/:id.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.ClientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	client, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /api/clients/:id. Machines owned by the
// client and their interventions are removed with it.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
