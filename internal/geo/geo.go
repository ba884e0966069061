package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/wroge/wgs84"
)

// SAMPLE POINTS
// Trajectory samples arrive as "x,y,z" text in kilometres, body-fixed frame.
// wgs84 works in metres, so every transform below scales on the way in and out.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

const metresPerKm = 1000.0

// EPSG codes used for the body-fixed <-> geographic transform.
const (
	epsgGeocentric = 4978
	epsgLonLat     = 4326
)

// ParseSample parses a single "x,y,z" line into a core.RawSample.
// Exactly three finite numeric fields are required; surrounding spaces are
// ignored. NaN and infinities are rejected.
func ParseSample(line string) (core.RawSample, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return core.RawSample{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidCoordinates, len(fields))
	}

	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return core.RawSample{}, fmt.Errorf("%w: field %d %q is not a number", ErrInvalidCoordinates, i+1, strings.TrimSpace(f))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.RawSample{}, fmt.Errorf("%w: field %d %q is not a finite number", ErrInvalidCoordinates, i+1, strings.TrimSpace(f))
		}
		vals[i] = v
	}

	return core.RawSample{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// Geographic converts a body-fixed sample (km) into its WGS84 sub-point and
// the ellipsoidal height above it (km). The label is left empty.
func Geographic(s core.RawSample) (core.GeoPoint, float64) {
	f := wgs84.EPSG().Transform(epsgGeocentric, epsgLonLat)
	lon, lat, h := f(s.X*metresPerKm, s.Y*metresPerKm, s.Z*metresPerKm)
	return core.GeoPoint{Latitude: lat, Longitude: lon}, h / metresPerKm
}

// BodyFixed converts a geographic point and ellipsoidal height (km) into a
// body-fixed sample (km). It is the inverse of Geographic.
func BodyFixed(p core.GeoPoint, heightKm float64) core.RawSample {
	f := wgs84.EPSG().Transform(epsgLonLat, epsgGeocentric)
	x, y, z := f(p.Longitude, p.Latitude, heightKm*metresPerKm)
	return core.RawSample{X: x / metresPerKm, Y: y / metresPerKm, Z: z / metresPerKm}
}
