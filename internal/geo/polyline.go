package geo

import (
	"fmt"

	"github.com/OCAP2/globe/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Polyline builds an XYZ LineString from trajectory samples (km).
// Input must contain at least 2 samples.
func Polyline(samples []core.RawSample) (geom.LineString, error) {
	if len(samples) < 2 {
		return geom.LineString{}, fmt.Errorf("polyline must have at least 2 points, got %d", len(samples))
	}

	flatCoords := make([]float64, 0, len(samples)*3)
	for _, s := range samples {
		flatCoords = append(flatCoords, s.X, s.Y, s.Z)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXYZ)
	return geom.NewLineString(seq), nil
}

// PolylineWKT returns the trajectory as WKT ("LINESTRING Z (...)").
func PolylineWKT(samples []core.RawSample) (string, error) {
	ls, err := Polyline(samples)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}

// GroundTrackWKT returns the WGS84 sub-points of the samples as a 2D
// LineString in lon/lat order.
func GroundTrackWKT(samples []core.RawSample) (string, error) {
	if len(samples) < 2 {
		return "", fmt.Errorf("ground track must have at least 2 points, got %d", len(samples))
	}

	flatCoords := make([]float64, 0, len(samples)*2)
	for _, s := range samples {
		p, _ := Geographic(s)
		flatCoords = append(flatCoords, p.Longitude, p.Latitude)
	}

	return geom.NewLineString(geom.NewSequence(flatCoords, geom.DimXY)).AsText(), nil
}
