// Package trajectory computes aggregate metrics of a sampled path.
package trajectory

import (
	"errors"
	"math"

	"github.com/OCAP2/globe/pkg/core"
)

// ErrEmptyTrajectory is returned when there is nothing to measure.
var ErrEmptyTrajectory = errors.New("trajectory has no samples")

// Height returns the radial distance of s above the reference sphere (km).
func Height(s core.RawSample) float64 {
	return s.Vector().Norm() - core.ReferenceRadiusKm
}

// ToScene maps a body-fixed sample into normalised scene space, where y is
// up: (x/R, z/R, -y/R).
func ToScene(s core.RawSample) core.Vector3 {
	const r = core.ReferenceRadiusKm
	return core.Vector3{X: s.X / r, Y: s.Z / r, Z: -s.Y / r}
}

// Compute derives the stats of an ordered, non-empty sample sequence.
// Distances are measured hop-by-hop in scene space and scaled back to km.
func Compute(samples []core.RawSample) (core.TrajectoryStats, error) {
	if len(samples) == 0 {
		return core.TrajectoryStats{}, ErrEmptyTrajectory
	}

	stats := core.TrajectoryStats{
		MaxHeight: math.Inf(-1),
		MinHeight: math.Inf(1),
		Samples:   len(samples),
	}

	var prev core.Vector3
	for i, s := range samples {
		h := Height(s)
		stats.MaxHeight = math.Max(stats.MaxHeight, h)
		stats.MinHeight = math.Min(stats.MinHeight, h)

		p := ToScene(s)
		if i > 0 {
			stats.TotalDistance += p.DistanceTo(prev) * core.ReferenceRadiusKm
		}
		prev = p
	}

	first := ToScene(samples[0])
	last := ToScene(samples[len(samples)-1])
	stats.LineOfSightDistance = last.DistanceTo(first) * core.ReferenceRadiusKm

	return stats, nil
}
