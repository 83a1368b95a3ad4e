// README: Carrier directory handler: name autocomplete, listing and details.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/modules/carrier"
	"freightquote/internal/types"
)

type CarrierDirectory interface {
	Search(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context) ([]carrier.Summary, error)
	Details(ctx context.Context, id types.ID) (*carrier.Summary, error)
}

type CarrierHandler struct {
	svc CarrierDirectory
}

func NewCarrierHandler(svc CarrierDirectory) *CarrierHandler {
	return &CarrierHandler{svc: svc}
}

// List handles GET /api/carriers. With ?search= it returns a bare array of
// matching names for autocomplete.
func (h *CarrierHandler) List(c *gin.Context) {
	if search, ok := c.GetQuery("search"); ok {
		names, err := h.svc.Search(c.Request.Context(), search)
		if err != nil {
			writeCarrierError(c, err)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(c, http.StatusOK, names)
		return
	}

	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeCarrierError(c, err)
		return
	}
	if list == nil {
		list = []carrier.Summary{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Carriers fetched successfully", "data": list})
}

// Get handles GET /api/carriers/:id.
func (h *CarrierHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	sum, err := h.svc.Details(c.Request.Context(), types.ID(id))
	if err != nil {
		writeCarrierError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "data": sum})
}
