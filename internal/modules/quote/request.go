package quote

import (
	"strconv"
	"strings"

	"freightquote/internal/modules/pricing"
)

// Validate checks required fields and that exactly one shipment form is given.
// A *ValidationError is returned for any problem.
func (r Request) Validate() error {
	var ve ValidationError
	if strings.TrimSpace(string(r.CustomerID)) == "" {
		ve.Missing = append(ve.Missing, "customerID")
	}
	if strings.TrimSpace(r.ModeOfTransport) == "" {
		ve.Missing = append(ve.Missing, "modeoftransport")
	}
	if r.FromPincode <= 0 {
		ve.Missing = append(ve.Missing, "fromPincode")
	}
	if r.ToPincode <= 0 {
		ve.Missing = append(ve.Missing, "toPincode")
	}

	switch {
	case len(r.Lines) == 0 && r.Legacy == nil:
		ve.Missing = append(ve.Missing, "shipment_details or noofboxes/length/width/height/weight")
	case len(r.Lines) > 0 && r.Legacy != nil:
		ve.Invalid = append(ve.Invalid, "shipment_details and legacy box fields are mutually exclusive")
	case r.Legacy != nil:
		b := r.Legacy
		if b.NoOfBoxes < 0 || b.Length < 0 || b.Width < 0 || b.Height < 0 || b.Weight < 0 {
			ve.Invalid = append(ve.Invalid, "legacy box values must not be negative")
		}
	default:
		for i, l := range r.Lines {
			if l.Count < 0 || l.Length < 0 || l.Width < 0 || l.Height < 0 || l.Weight < 0 {
				ve.Invalid = append(ve.Invalid, "shipment_details["+strconv.Itoa(i)+"] has negative values")
			}
		}
	}

	if len(ve.Missing) > 0 || len(ve.Invalid) > 0 {
		return &ve
	}
	return nil
}

// Shipment returns the shipment as one canonical line sequence. The legacy form
// becomes a single line of NoOfBoxes boxes.
func (r Request) Shipment() []pricing.ShipmentLine {
	if len(r.Lines) > 0 {
		out := make([]pricing.ShipmentLine, len(r.Lines))
		copy(out, r.Lines)
		return out
	}
	if r.Legacy == nil {
		return nil
	}
	b := r.Legacy
	return []pricing.ShipmentLine{{
		Length: b.Length,
		Width:  b.Width,
		Height: b.Height,
		Weight: b.Weight,
		Count:  b.NoOfBoxes,
	}}
}
