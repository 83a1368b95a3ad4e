// README: Carrier aggregate with its pincode service table.
package carrier

import (
	"errors"
	"time"

	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

var (
	ErrNotFound       = errors.New("carrier not found")
	ErrNotServiceable = errors.New("route not serviceable")
	ErrOriginOda      = errors.New("origin is out of delivery area")
	ErrBadRequest     = errors.New("bad request")
)

type Carrier struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
	// Service maps a serviceable pincode to its zone and ODA flag. Reads used
	// for quoting carry only the two route pincodes.
	Service map[types.Pincode]pricing.Endpoint `json:"-"`
}

// Summary is a carrier's directory entry.
type Summary struct {
	ID              types.ID  `json:"id"`
	Name            string    `json:"companyName"`
	ServicePincodes int       `json:"servicePincodes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Route returns the zoned route between two pincodes. Both must be in the
// service table and the origin must not be ODA; a destination ODA is allowed
// and priced with a surcharge.
func (c *Carrier) Route(origin, destination types.Pincode) (pricing.Route, error) {
	from, ok := c.Service[origin]
	if !ok {
		return pricing.Route{}, ErrNotServiceable
	}
	if from.IsOda {
		return pricing.Route{}, ErrOriginOda
	}
	to, ok := c.Service[destination]
	if !ok {
		return pricing.Route{}, ErrNotServiceable
	}
	return pricing.Route{Origin: from, Destination: to}, nil
}
