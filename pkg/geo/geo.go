package geo

import "math"

const earthRadiusKm = 6371.0

// Location is a coordinate pair in decimal degrees.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the great-circle distance between two points in
// kilometers, using the haversine formula.
func Distance(a, b Location) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLon := toRadians(b.Longitude - a.Longitude)

	h := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Pow(math.Sin(deltaLon/2), 2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius filters items down to those whose location falls within
// radiusKm of center. Items without a location never match. The filter
// runs over the snapshot it is handed; at personal-collection scale a
// linear scan is fine, a spatial index would only pay off far beyond
// that.
func WithinRadius[T any](items []T, locate func(T) (Location, bool), center Location, radiusKm float64) []T {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		location, ok := locate(item)
		if !ok {
			continue
		}
		if Distance(center, location) <= radiusKm {
			matched = append(matched, item)
		}
	}
	return matched
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
