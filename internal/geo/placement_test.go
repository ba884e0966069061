package geo

import (
	"math"
	"testing"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertVec(t *testing.T, want, got core.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestPlace_Origin(t *testing.T) {
	got := Place(core.GeoPoint{Latitude: 0, Longitude: 0}, 1)
	assertVec(t, core.Vector3{X: 1}, got)
}

func TestPlace_NorthPoleIgnoresLongitude(t *testing.T) {
	for _, lon := range []float64{-180, -73.9, 0, 45, 139.7, 180} {
		got := Place(core.GeoPoint{Latitude: 90, Longitude: lon}, 1)
		assertVec(t, core.Vector3{Y: 1}, got)
	}
}

func TestPlace_SouthPole(t *testing.T) {
	got := Place(core.GeoPoint{Latitude: -90, Longitude: 12}, 2)
	assertVec(t, core.Vector3{Y: -2}, got)
}

func TestPlace_LongitudeIsNegated(t *testing.T) {
	// 90E lands on -z because longitude is negated before placement.
	got := Place(core.GeoPoint{Latitude: 0, Longitude: 90}, 1)
	assertVec(t, core.Vector3{Z: -1}, got)

	got = Place(core.GeoPoint{Latitude: 0, Longitude: -90}, 1)
	assertVec(t, core.Vector3{Z: 1}, got)
}

func TestPlace_StaysOnSphere(t *testing.T) {
	cities := []core.GeoPoint{
		{Latitude: 51.507351, Longitude: -0.127758},
		{Latitude: -33.868820, Longitude: 151.209290},
		{Latitude: 55.755825, Longitude: 37.617298},
	}
	for _, c := range cities {
		got := Place(c, core.GlobeRadius)
		assert.InDelta(t, core.GlobeRadius, got.Norm(), eps)
	}
}

func TestLabelAnchor(t *testing.T) {
	marker := Place(core.GeoPoint{Latitude: 35.689487, Longitude: 139.691711}, core.GlobeRadius)
	label := LabelAnchor(marker)

	assert.InDelta(t, core.GlobeRadius*core.LabelOffset, label.Norm(), eps)
	assertVec(t, marker.Normalize(), label.Normalize())
}

func TestMarkerOrientation(t *testing.T) {
	got := MarkerOrientation(core.GeoPoint{Latitude: 0, Longitude: 90})
	assertVec(t, core.Vector3{X: 0, Y: math.Pi / 2, Z: -math.Pi / 2}, got)
}
