// README: Zone matrix handler: carriers read and maintain their public zone → zone price matrix.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

type ZoneMatrixService interface {
	ZoneMatrix(ctx context.Context, carrierID types.ID) (pricing.ZoneMatrix, error)
	UpdateZoneMatrix(ctx context.Context, carrierID types.ID, m pricing.ZoneMatrix) error
	DeleteZoneMatrix(ctx context.Context, carrierID types.ID) error
}

type ZoneHandler struct {
	svc ZoneMatrixService
}

func NewZoneHandler(svc ZoneMatrixService) *ZoneHandler {
	return &ZoneHandler{svc: svc}
}

type zoneMatrixBody struct {
	ZoneMatrix pricing.ZoneMatrix `json:"zoneMatrix"`
}

// carrierParam returns the :id param when the caller may manage that carrier.
func carrierParam(c *gin.Context) (types.ID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		writeError(c, http.StatusBadRequest, "carrier id is required")
		return "", false
	}
	if !middleware.CanActFor(c, id) {
		writeError(c, http.StatusForbidden, "forbidden")
		return "", false
	}
	return types.ID(id), true
}

func (h *ZoneHandler) Get(c *gin.Context) {
	id, ok := carrierParam(c)
	if !ok {
		return
	}
	m, err := h.svc.ZoneMatrix(c.Request.Context(), id)
	if err != nil {
		writePricingError(c, err)
		return
	}
	if m == nil {
		m = pricing.ZoneMatrix{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "zoneMatrix": m})
}

func (h *ZoneHandler) Update(c *gin.Context) {
	id, ok := carrierParam(c)
	if !ok {
		return
	}
	var body zoneMatrixBody
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := h.svc.UpdateZoneMatrix(c.Request.Context(), id, body.ZoneMatrix); err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Zone matrix updated"})
}

func (h *ZoneHandler) Delete(c *gin.Context) {
	id, ok := carrierParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteZoneMatrix(c.Request.Context(), id); err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Zone matrix deleted"})
}
