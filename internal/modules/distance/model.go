// README: Distance estimate returned for a pincode pair.
package distance

const kmPerDay = 400.0

// Estimate is the transit estimate shared by every carrier quote on a route.
type Estimate struct {
	DistanceText  string  `json:"distance"`
	EstimatedDays float64 `json:"estimatedTime"`
}

// unknownRoute is returned when neither the provider nor the pincode table can place the route.
var unknownRoute = Estimate{DistanceText: "100 km", EstimatedDays: 1}
