package geo_test

import (
	"math"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/system/geo"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want, tolerance        float64
	}{
		{"same point", 51.5, -0.12, 51.5, -0.12, 0, 0.001},
		// one degree of latitude is ~111.19 km on a 6371 km sphere
		{"one degree north", 0, 0, 1, 0, 111195, 5},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343500, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("distance: got %.1f, want %.1f ± %.1f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestCircleContains(t *testing.T) {
	depot := geo.Circle{Lat: 40.7128, Lon: -74.0060, RadiusMeters: 500}

	if !depot.Contains(40.7128, -74.0060) {
		t.Error("center should be inside")
	}
	// ~333 m north
	if !depot.Contains(40.7158, -74.0060) {
		t.Error("point 333 m away should be inside a 500 m circle")
	}
	// ~1.1 km north
	if depot.Contains(40.7228, -74.0060) {
		t.Error("point 1.1 km away should be outside a 500 m circle")
	}
}

func TestValidPoint(t *testing.T) {
	if !geo.ValidPoint(-90, 180) {
		t.Error("edges are valid")
	}
	if geo.ValidPoint(91, 0) || geo.ValidPoint(0, -181) {
		t.Error("out of range points should be invalid")
	}
}
