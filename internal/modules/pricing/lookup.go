package pricing

// RouteRateLookup resolves the per-kg unit price for a route. Public carriers
// index by origin zone; tie-ups index by origin pincode.
type RouteRateLookup interface {
	UnitPrice(route Route) (float64, bool)
}

// ZoneMatrix maps origin zone → destination zone → price per kg.
type ZoneMatrix map[string]map[string]float64

func (m ZoneMatrix) UnitPrice(route Route) (float64, bool) {
	return positive(m[route.Origin.Zone], route.Destination.Zone)
}

// PincodeMatrix maps origin pincode → destination zone → price per kg.
type PincodeMatrix map[string]map[string]float64

func (m PincodeMatrix) UnitPrice(route Route) (float64, bool) {
	return positive(m[route.Origin.Pincode.String()], route.Destination.Zone)
}

// Covers reports whether the matrix has any prices for the origin pincode.
func (m PincodeMatrix) Covers(origin Endpoint) bool {
	return len(m[origin.Pincode.String()]) > 0
}

func positive(row map[string]float64, destZone string) (float64, bool) {
	if row == nil {
		return 0, false
	}
	p, ok := row[destZone]
	if !ok || p <= 0 {
		return 0, false
	}
	return p, true
}
