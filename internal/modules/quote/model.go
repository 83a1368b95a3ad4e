// README: Quotation request, quote and result definitions.
package quote

import (
	"encoding/json"
	"errors"
	"strings"

	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// ValidationError lists every problem with a request. It matches ErrBadRequest.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

// LegacyBox is the older single-box request form: NoOfBoxes identical boxes.
type LegacyBox struct {
	NoOfBoxes int
	Length    float64
	Width     float64
	Height    float64
	Weight    float64
}

type Request struct {
	CustomerID      types.ID
	ModeOfTransport string
	FromPincode     types.Pincode
	ToPincode       types.Pincode
	// UserOriginPincode is the customer's registered pickup pincode. Informational.
	UserOriginPincode types.Pincode
	Lines             []pricing.ShipmentLine
	Legacy            *LegacyBox
}

// Quote is one carrier's price for the requested route. Never persisted.
type Quote struct {
	CarrierID          types.ID      `json:"companyId"`
	CarrierName        string        `json:"companyName"`
	OriginPincode      types.Pincode `json:"originPincode"`
	DestinationPincode types.Pincode `json:"destinationPincode"`
	EstimatedDays      float64       `json:"estimatedTime"`
	Distance           string        `json:"distance"`
	ActualWeight       float64       `json:"actualWeight"`
	VolumetricWeight   float64       `json:"volumetricWeight"`
	ChargeableWeight   float64       `json:"chargeableWeight"`
	pricing.ChargeBreakdown
	IsHidden bool `json:"isHidden"`
}

// Masked keeps only the total; everything identifying the carrier or the
// breakdown is dropped.
func (q Quote) Masked() Quote {
	return Quote{ChargeBreakdown: pricing.ChargeBreakdown{TotalCharges: q.TotalCharges}, IsHidden: true}
}

// MarshalJSON writes a hidden quote as exactly {"totalCharges", "isHidden"}.
func (q Quote) MarshalJSON() ([]byte, error) {
	if q.IsHidden {
		return json.Marshal(struct {
			TotalCharges float64 `json:"totalCharges"`
			IsHidden     bool    `json:"isHidden"`
		}{q.TotalCharges, true})
	}
	type plain Quote
	return json.Marshal(plain(q))
}

type Result struct {
	TiedUp []Quote `json:"tiedUpResults"`
	Public []Quote `json:"publicResults"`
}
