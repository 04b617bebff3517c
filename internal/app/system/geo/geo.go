// Package geo answers geofence containment for device-location requests.
package geo

import "math"

const earthRadiusMeters = 6371000.0

// DistanceMeters is the great-circle (haversine) distance between two points
// given in decimal degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Circle is a center and radius in meters.
type Circle struct {
	Lat, Lon     float64
	RadiusMeters float64
}

// Contains reports whether the point lies on or inside c.
func (c Circle) Contains(lat, lon float64) bool {
	return DistanceMeters(c.Lat, c.Lon, lat, lon) <= c.RadiusMeters
}

// ValidPoint reports whether lat/lon are within the usual degree ranges.
func ValidPoint(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
