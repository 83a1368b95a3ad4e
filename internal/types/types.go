// README: Common value objects shared across modules.
package types

import "strconv"

// ID is an opaque entity identifier (carrier, customer, tie-up).
type ID string

// Pincode is a six-digit Indian postal code.
type Pincode int

func (p Pincode) String() string {
	return strconv.Itoa(int(p))
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
