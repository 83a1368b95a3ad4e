// README: Quote handler: decodes the pricing request form and returns tied-up and public quotes.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"freightquote/internal/http/middleware"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/types"
)

type QuoteService interface {
	Quote(ctx context.Context, req quote.Request) (quote.Result, error)
}

type QuoteHandler struct {
	svc QuoteService
}

func NewQuoteHandler(svc QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// pincodeField accepts 110001 and "110001" alike; clients send both.
type pincodeField types.Pincode

func (p *pincodeField) UnmarshalJSON(b []byte) error {
	n, err := parseWhole(b)
	if err != nil {
		return fmt.Errorf("invalid pincode: %w", err)
	}
	*p = pincodeField(n)
	return nil
}

// countField accepts 2, 2.0 and "2". null and "" decode as 0.
type countField int

func (c *countField) UnmarshalJSON(b []byte) error {
	n, err := parseWhole(b)
	if err != nil {
		return fmt.Errorf("invalid count: %w", err)
	}
	*c = countField(n)
	return nil
}

func parseWhole(b []byte) (int, error) {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

type shipmentLineRequest struct {
	Count  countField `json:"count"`
	Length float64    `json:"length"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Weight float64    `json:"weight"`
}

type quoteRequest struct {
	CustomerID      string                `json:"customerID"`
	UserOGPincode   pincodeField          `json:"userogpincode"`
	ModeOfTransport string                `json:"modeoftransport"`
	FromPincode     pincodeField          `json:"fromPincode"`
	ToPincode       pincodeField          `json:"toPincode"`
	NoOfBoxes       *countField           `json:"noofboxes"`
	Length          *float64              `json:"length"`
	Width           *float64              `json:"width"`
	Height          *float64              `json:"height"`
	Weight          *float64              `json:"weight"`
	ShipmentDetails []shipmentLineRequest `json:"shipment_details"`
}

// toRequest maps the wire form. The legacy box is only used when all five of
// its fields are present.
func (r quoteRequest) toRequest() quote.Request {
	req := quote.Request{
		CustomerID:        types.ID(strings.TrimSpace(r.CustomerID)),
		ModeOfTransport:   strings.TrimSpace(r.ModeOfTransport),
		FromPincode:       types.Pincode(r.FromPincode),
		ToPincode:         types.Pincode(r.ToPincode),
		UserOriginPincode: types.Pincode(r.UserOGPincode),
	}
	for _, l := range r.ShipmentDetails {
		req.Lines = append(req.Lines, pricing.ShipmentLine{
			Length: l.Length,
			Width:  l.Width,
			Height: l.Height,
			Weight: l.Weight,
			Count:  int(l.Count),
		})
	}
	if r.NoOfBoxes != nil && r.Length != nil && r.Width != nil && r.Height != nil && r.Weight != nil {
		req.Legacy = &quote.LegacyBox{
			NoOfBoxes: int(*r.NoOfBoxes),
			Length:    *r.Length,
			Width:     *r.Width,
			Height:    *r.Height,
			Weight:    *r.Weight,
		}
	}
	return req
}

type quoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	quote.Result
}

// Calculate handles POST /api/quotes.
func (h *QuoteHandler) Calculate(c *gin.Context) {
	var body quoteRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	req := body.toRequest()
	if req.CustomerID != "" && !middleware.CanActFor(c, string(req.CustomerID)) {
		writeError(c, http.StatusForbidden, "forbidden")
		return
	}

	res, err := h.svc.Quote(c.Request.Context(), req)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	if res.TiedUp == nil {
		res.TiedUp = []quote.Quote{}
	}
	if res.Public == nil {
		res.Public = []quote.Quote{}
	}
	writeJSON(c, http.StatusOK, quoteResponse{Success: true, Message: "Price calculated successfully", Result: res})
}
