package geo

import "math"

// EarthRadius in metres (mean spherical radius).
const EarthRadius = 6371000

// Distance returns the haversine great-circle distance between a and b,
// rounded to the nearest whole metre. The rounded value is the only distance
// the system stores or compares, so verdict and record always agree.
func Distance(a, b Coordinate) int {
	return int(math.Round(haversine(a, b)))
}

// IsWithinRadius is inclusive: a distance equal to the radius is valid.
func IsWithinRadius(distance, radius int) bool {
	return distance <= radius
}

func haversine(a, b Coordinate) float64 {
	// Konversi ke radian
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	// Clamp guards against h drifting past 1 on antipodal inputs.
	h = math.Min(1, math.Max(0, h))

	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
