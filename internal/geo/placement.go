package geo

import (
	"math"

	"github.com/OCAP2/globe/pkg/core"
)

const degToRad = math.Pi / 180

// Place converts a geographic point into a scene position on a sphere of the
// given radius. Longitude is negated so that east runs the same way as the
// globe texture; y is up.
func Place(p core.GeoPoint, radius float64) core.Vector3 {
	lat := p.Latitude * degToRad
	lon := -p.Longitude * degToRad
	return core.Vector3{
		X: math.Cos(lat) * math.Cos(lon) * radius,
		Y: math.Sin(lat) * radius,
		Z: math.Cos(lat) * math.Sin(lon) * radius,
	}
}

// MarkerOrientation returns the Euler rotation (x, y, z radians) that
// aligns a marker with the local surface normal at p.
func MarkerOrientation(p core.GeoPoint) core.Vector3 {
	lat := p.Latitude * degToRad
	lon := -p.Longitude * degToRad
	return core.Vector3{X: 0, Y: -lon, Z: lat - math.Pi*0.5}
}

// LabelAnchor pushes a marker position outward so a label clears the surface.
func LabelAnchor(marker core.Vector3) core.Vector3 {
	return marker.Scale(core.LabelOffset)
}
