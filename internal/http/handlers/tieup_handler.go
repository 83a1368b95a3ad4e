// README: Tie-up handler: add, list and remove a customer's negotiated carriers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/tieup"
	"freightquote/internal/types"
)

type TieUpService interface {
	Add(ctx context.Context, cmd tieup.AddCommand) (tieup.AddResult, error)
	List(ctx context.Context, customerID types.ID) ([]tieup.TiedUp, error)
	Remove(ctx context.Context, customerID, carrierID types.ID) error
}

type TieUpHandler struct {
	svc TieUpService
}

func NewTieUpHandler(svc TieUpService) *TieUpHandler {
	return &TieUpHandler{svc: svc}
}

type addTieUpRequest struct {
	CustomerID  string                `json:"customerID"`
	CompanyName string                `json:"companyName"`
	VendorCode  string                `json:"vendorCode"`
	VendorPhone string                `json:"vendorPhone"`
	VendorEmail string                `json:"vendorEmail"`
	GstNo       string                `json:"gstNo"`
	Mode        string                `json:"mode"`
	Address     string                `json:"address"`
	State       string                `json:"state"`
	Pincode     pincodeField          `json:"pincode"`
	Rating      float64               `json:"rating"`
	PriceRate   *pricing.PriceRate    `json:"priceRate"`
	PriceChart  pricing.PincodeMatrix `json:"priceChart"`
}

func (r addTieUpRequest) toCommand() tieup.AddCommand {
	return tieup.AddCommand{
		CustomerID:  types.ID(strings.TrimSpace(r.CustomerID)),
		CompanyName: r.CompanyName,
		Vendor: tieup.VendorDetails{
			VendorCode:  r.VendorCode,
			VendorPhone: r.VendorPhone,
			VendorEmail: r.VendorEmail,
			GstNo:       r.GstNo,
			Mode:        r.Mode,
			Address:     r.Address,
			State:       r.State,
			Pincode:     types.Pincode(r.Pincode),
			Rating:      r.Rating,
		},
		PriceRate:  r.PriceRate,
		PriceChart: r.PriceChart,
	}
}

// Add handles POST /api/tie-ups. Unknown companies are accepted as pending (202).
func (h *TieUpHandler) Add(c *gin.Context) {
	var body addTieUpRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	cmd := body.toCommand()
	if cmd.CustomerID != "" && !middleware.CanActFor(c, string(cmd.CustomerID)) {
		writeError(c, http.StatusForbidden, "forbidden")
		return
	}
	res, err := h.svc.Add(c.Request.Context(), cmd)
	if err != nil {
		writeTieUpError(c, err)
		return
	}
	if res.Pending {
		writeJSON(c, http.StatusAccepted, gin.H{
			"success": true,
			"message": "Company not registered yet; request sent for verification",
			"id":      res.ID,
			"pending": true,
		})
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"success": true,
		"message": "Tied up company added successfully",
		"id":      res.ID,
		"pending": false,
	})
}

// List handles GET /api/tie-ups?customerId=.
func (h *TieUpHandler) List(c *gin.Context) {
	customerID := strings.TrimSpace(c.Query("customerId"))
	if customerID == "" {
		writeError(c, http.StatusBadRequest, "customerId is required")
		return
	}
	if !middleware.CanActFor(c, customerID) {
		writeError(c, http.StatusForbidden, "forbidden")
		return
	}
	list, err := h.svc.List(c.Request.Context(), types.ID(customerID))
	if err != nil {
		writeTieUpError(c, err)
		return
	}
	if list == nil {
		list = []tieup.TiedUp{}
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Tied up companies fetched successfully", "data": list})
}

// Remove handles DELETE /api/tie-ups/:carrierId?customerId=.
func (h *TieUpHandler) Remove(c *gin.Context) {
	customerID := strings.TrimSpace(c.Query("customerId"))
	carrierID := strings.TrimSpace(c.Param("carrierId"))
	if customerID == "" || carrierID == "" {
		writeError(c, http.StatusBadRequest, "customerId and carrierId are required")
		return
	}
	if !middleware.CanActFor(c, customerID) {
		writeError(c, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.svc.Remove(c.Request.Context(), types.ID(customerID), types.ID(carrierID)); err != nil {
		writeTieUpError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Tied up company removed"})
}
