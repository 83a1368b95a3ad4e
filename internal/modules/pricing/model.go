// README: Rate card, price-rate and charge breakdown definitions.
package pricing

import (
	"encoding/json"

	"freightquote/internal/types"
)

// DefaultKFactor is the volumetric divisor applied when a rate card does not set one.
const DefaultKFactor = 5000

// Charge is a {fixed, variable} pair. Variable is a whole percent whose base
// depends on the charge (base freight or chargeable weight).
type Charge struct {
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
}

type PriceRate struct {
	KFactor float64 `json:"kFactor"`

	DocketCharges       float64 `json:"docketCharges"`
	MinCharges          float64 `json:"minCharges"`
	GreenTax            float64 `json:"greenTax"`
	DaccCharges         float64 `json:"daccCharges"`
	MiscellanousCharges float64 `json:"miscellanousCharges"`

	// Fuel is a percent of base freight.
	Fuel float64 `json:"fuel"`

	// Greater of fixed and variable% of base freight.
	RovCharges         Charge `json:"rovCharges"`
	InsuaranceCharges  Charge `json:"insuaranceCharges"`
	FmCharges          Charge `json:"fmCharges"`
	AppointmentCharges Charge `json:"appointmentCharges"`

	// Fixed plus variable% of chargeable weight.
	HandlingCharges Charge `json:"handlingCharges"`
	OdaCharges      Charge `json:"odaCharges"`
}

// UnmarshalJSON accepts the legacy "divisor" alias for kFactor and resolves
// defaults so use sites never inspect partially filled rate cards.
func (p *PriceRate) UnmarshalJSON(b []byte) error {
	type plain PriceRate
	var raw struct {
		plain
		Divisor *float64 `json:"divisor"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = PriceRate(raw.plain)
	if p.KFactor <= 0 && raw.Divisor != nil {
		p.KFactor = *raw.Divisor
	}
	p.Normalize()
	return nil
}

// Normalize fills defaults for fields left unset.
func (p *PriceRate) Normalize() {
	if p.KFactor <= 0 {
		p.KFactor = DefaultKFactor
	}
}

// RateCard is everything needed to price one carrier on one route.
type RateCard struct {
	CarrierID types.ID
	Rates     RouteRateLookup
	PriceRate PriceRate
}

// ChargeBreakdown is the itemized result of ComputeCharge.
type ChargeBreakdown struct {
	UnitPrice          float64 `json:"unitPrice"`
	BaseFreight        float64 `json:"baseFreight"`
	DocketCharge       float64 `json:"docketCharge"`
	MinCharges         float64 `json:"minCharges"`
	GreenTax           float64 `json:"greenTax"`
	DaccCharges        float64 `json:"daccCharges"`
	MiscCharges        float64 `json:"miscCharges"`
	FuelCharges        float64 `json:"fuelCharges"`
	RovCharges         float64 `json:"rovCharges"`
	InsuaranceCharges  float64 `json:"insuaranceCharges"`
	OdaCharges         float64 `json:"odaCharges"`
	HandlingCharges    float64 `json:"handlingCharges"`
	FmCharges          float64 `json:"fmCharges"`
	AppointmentCharges float64 `json:"appointmentCharges"`
	TotalCharges       float64 `json:"totalCharges"`
}

type ShipmentLine struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type Weights struct {
	Actual     float64
	Volumetric float64
	Chargeable float64
}

// Endpoint is a carrier's service-table entry for one pincode.
type Endpoint struct {
	Pincode types.Pincode `json:"pincode"`
	Zone    string        `json:"zone"`
	IsOda   bool          `json:"isOda"`
}

type Route struct {
	Origin      Endpoint
	Destination Endpoint
}

// Computation is a priced route: the weights it was billed on and its charges.
type Computation struct {
	Weights
	ChargeBreakdown
}
