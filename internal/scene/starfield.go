package scene

import (
	"math"
	"math/rand"

	"github.com/OCAP2/globe/pkg/core"
)

const (
	starMinRadius = 25.0
	starMaxRadius = 45.0
)

// NewStarfield scatters n stars uniformly over directions, at a random
// distance between 25 and 45 units from the origin.
func NewStarfield(n int, rng *rand.Rand) Starfield {
	if n <= 0 {
		return Starfield{}
	}
	stars := make([]core.Vector3, n)
	for i := range stars {
		r := starMinRadius + rng.Float64()*(starMaxRadius-starMinRadius)
		u := rng.Float64()
		v := rng.Float64()
		theta := 2 * math.Pi * u
		phi := math.Acos(2*v - 1)
		stars[i] = core.Vector3{
			X: r * math.Sin(phi) * math.Cos(theta),
			Y: r * math.Sin(phi) * math.Sin(theta),
			Z: r * math.Cos(phi),
		}
	}
	return Starfield{Stars: stars}
}
