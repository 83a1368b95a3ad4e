// README: Customer–carrier tie-ups (negotiated rate cards) and pending verification requests.
package tieup

import (
	"time"

	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

type VendorDetails struct {
	VendorCode  string        `json:"vendorCode"`
	VendorPhone string        `json:"vendorPhone"`
	VendorEmail string        `json:"vendorEmail"`
	GstNo       string        `json:"gstNo"`
	Mode        string        `json:"mode"`
	Address     string        `json:"address"`
	State       string        `json:"state"`
	Pincode     types.Pincode `json:"pincode"`
	Rating      float64       `json:"rating"`
}

// TiedUp is one customer's negotiated pricing with one carrier. PriceChart is
// keyed origin pincode → destination zone, since the customer ships from a
// fixed pickup point.
type TiedUp struct {
	ID         types.ID              `json:"id"`
	CustomerID types.ID              `json:"customerId"`
	CarrierID  types.ID              `json:"carrierId"`
	Vendor     VendorDetails         `json:"vendor"`
	PriceRate  pricing.PriceRate     `json:"priceRate"`
	PriceChart pricing.PincodeMatrix `json:"priceChart"`
	CreatedAt  time.Time             `json:"createdAt"`
}

func (t *TiedUp) RateCard() pricing.RateCard {
	return pricing.RateCard{CarrierID: t.CarrierID, Rates: t.PriceChart, PriceRate: t.PriceRate}
}

const StatusPending = "pending"

// PendingRequest is a tie-up naming a carrier that is not on the marketplace yet.
type PendingRequest struct {
	ID          types.ID              `json:"id"`
	CustomerID  types.ID              `json:"customerId"`
	CompanyName string                `json:"companyName"`
	Vendor      VendorDetails         `json:"vendor"`
	PriceRate   pricing.PriceRate     `json:"priceRate"`
	PriceChart  pricing.PincodeMatrix `json:"priceChart"`
	Status      string                `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
}
