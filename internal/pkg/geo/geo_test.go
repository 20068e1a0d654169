// internal/pkg/geo/geo_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmSamePoint(t *testing.T) {
	p := Point{Latitude: 6.9271, Longitude: 79.8612}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKmKnownDistance(t *testing.T) {
	// Colombo to Kandy is roughly 94 km as the crow flies
	colombo := Point{Latitude: 6.9271, Longitude: 79.8612}
	kandy := Point{Latitude: 7.2906, Longitude: 80.6337}

	d := DistanceKm(colombo, kandy)
	assert.InDelta(t, 94.0, d, 5.0)
}

func TestDistanceKmIsSymmetric(t *testing.T) {
	a := Point{Latitude: 6.9271, Longitude: 79.8612}
	b := Point{Latitude: 6.0535, Longitude: 80.2210}

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}
