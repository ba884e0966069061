package trajectory

import (
	"fmt"

	"github.com/OCAP2/globe/internal/geo"
	"github.com/OCAP2/globe/pkg/core"
)

// GroundTrack returns the WGS84 sub-point of every sample, labeled with its
// index and ellipsoidal height.
func GroundTrack(samples []core.RawSample) []core.GeoPoint {
	track := make([]core.GeoPoint, len(samples))
	for i, s := range samples {
		p, h := geo.Geographic(s)
		p.Label = fmt.Sprintf("#%d %.1f km", i, h)
		track[i] = p
	}
	return track
}
