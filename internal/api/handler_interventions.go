package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-backend/internal/mw"
	"maintenance-backend/internal/service"
)

// ListInterventions handles GET /api/interventions (admin scope).
func (h *Handler) ListInterventions(c *gin.Context) {
	interventions, err := h.interventions.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interventions)
}

// MyInterventions handles GET /api/interventions/my (technician scope).
func (h *Handler) MyInterventions(c *gin.Context) {
	caller := mw.CurrentUser(c)
	interventions, err := h.interventions.ByTechnician(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interventions)
}

// InterventionsByTechnician handles GET /api/interventions/technician/:technicianId.
func (h *Handler) InterventionsByTechnician(c *gin.Context) {
	technicianID, ok := idParam(c, "technicianId")
	if !ok {
		return
	}
	interventions, err := h.interventions.ByTechnician(c.Request.Context(), technicianID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interventions)
}

// GetIntervention handles GET /api/interventions/:id. A technician only
// sees interventions assigned to them; admins see everything.
func (h *Handler) GetIntervention(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	intervention, err := h.interventions.ByIDFor(c.Request.Context(), id, mw.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intervention)
}

// CreateIntervention handles POST /api/interventions.
func (h *Handler) CreateIntervention(c *gin.Context) {
	var req service.InterventionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	intervention, err := h.interventions.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intervention)
}

// UpdateIntervention handles PUT /api/interventions/:id, the admin full
// replace. Null foreign keys clear the associations.
func (h *Handler) UpdateIntervention(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.InterventionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	intervention, err := h.interventions.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intervention)
}

// TechnicianUpdateIntervention handles PATCH /api/interventions/:id, the
// restricted status/description update for the assigned technician.
func (h *Handler) TechnicianUpdateIntervention(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req service.TechnicianUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	intervention, err := h.interventions.TechnicianUpdate(c.Request.Context(), id, req, mw.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intervention)
}

// DeleteIntervention handles DELETE /api/interventions/:id.
func (h *Handler) DeleteIntervention(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.interventions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
