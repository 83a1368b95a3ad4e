// README: Pure geographic helpers for the pincode fallback (haversine, transit days).
package distance

import "math"

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// transitDays converts a road distance to days at 400 km per day, two decimals.
func transitDays(meters int) float64 {
	return math.Round(float64(meters)/kmPerDay/1000*100) / 100
}

// fallbackDays is the coarse whole-day estimate used off the primary path.
func fallbackDays(km float64) float64 {
	return math.Max(1, math.Ceil(km/kmPerDay))
}
