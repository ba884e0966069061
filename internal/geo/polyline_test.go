package geo

import (
	"testing"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyline_Valid(t *testing.T) {
	samples := []core.RawSample{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: 7, Y: 8, Z: 9}}

	ls, err := Polyline(samples)
	require.NoError(t, err)

	seq := ls.Coordinates()
	require.Equal(t, 3, seq.Length())
	assert.Equal(t, 4.0, seq.Get(1).X)
	assert.Equal(t, 5.0, seq.Get(1).Y)
	assert.Equal(t, 6.0, seq.Get(1).Z)
}

func TestPolyline_TooFewPoints(t *testing.T) {
	_, err := Polyline([]core.RawSample{{X: 1}})
	require.Error(t, err)

	_, err = Polyline(nil)
	require.Error(t, err)
}

func TestPolylineWKT(t *testing.T) {
	wkt, err := PolylineWKT([]core.RawSample{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}})

	require.NoError(t, err)
	assert.Contains(t, wkt, "LINESTRING Z")
}

func TestGroundTrackWKT(t *testing.T) {
	wkt, err := GroundTrackWKT([]core.RawSample{{X: 7000}, {Y: 7000}})

	require.NoError(t, err)
	assert.Contains(t, wkt, "LINESTRING")
	assert.NotContains(t, wkt, "LINESTRING Z")
}

func TestGroundTrackWKT_TooFewPoints(t *testing.T) {
	_, err := GroundTrackWKT([]core.RawSample{{X: 7000}})
	require.Error(t, err)
}
