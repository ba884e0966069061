package scene

import (
	"math"

	"github.com/OCAP2/globe/pkg/core"
)

const (
	RotationStep = 0.05
	ZoomStep     = 0.1

	MinDistance = 1.5
	MaxDistance = 50.0
)

// Key is an arrow key.
type Key int

const (
	KeyLeft Key = iota
	KeyUp
	KeyRight
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyUp:
		return "up"
	case KeyRight:
		return "right"
	case KeyDown:
		return "down"
	}
	return "unknown"
}

// Camera is a perspective camera. FOV is vertical, in degrees.
type Camera struct {
	Position core.Vector3
	Target   core.Vector3
	FOV      float64
	Near     float64
	Far      float64
	Aspect   float64
}

// DefaultCamera looks at the origin from five units down +z.
func DefaultCamera(aspect float64) Camera {
	return Camera{
		Position: core.Vector3{Z: 5},
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Aspect:   aspect,
	}
}

// Apply moves the camera for one arrow key press and re-aims it at the
// origin. With ctrl held, up and down zoom along z instead of moving on y.
func (c *Camera) Apply(k Key, ctrl bool) {
	switch k {
	case KeyLeft:
		c.Position.X -= RotationStep
	case KeyRight:
		c.Position.X += RotationStep
	case KeyUp:
		if ctrl {
			c.Position.Z -= ZoomStep
		} else {
			c.Position.Y += RotationStep
		}
	case KeyDown:
		if ctrl {
			c.Position.Z += ZoomStep
		} else {
			c.Position.Y -= RotationStep
		}
	}
	c.Target = core.Vector3{}
}

// Orbit rotates the camera around its target by dx radians of azimuth and
// dy radians of elevation. Elevation stops just short of the poles.
func (c *Camera) Orbit(dx, dy float64) {
	offset := c.Position.Sub(c.Target)
	r := offset.Norm()
	if r == 0 {
		return
	}

	theta := math.Atan2(offset.X, offset.Z)
	phi := math.Acos(clamp(offset.Y/r, -1, 1))

	theta -= dx
	phi = clamp(phi-dy, 1e-3, math.Pi-1e-3)

	c.Position = c.Target.Add(core.Vector3{
		X: r * math.Sin(phi) * math.Sin(theta),
		Y: r * math.Cos(phi),
		Z: r * math.Sin(phi) * math.Cos(theta),
	})
}

// Zoom scales the distance to the target by f, within [MinDistance, MaxDistance].
func (c *Camera) Zoom(f float64) {
	if f <= 0 {
		return
	}
	offset := c.Position.Sub(c.Target)
	r := offset.Norm()
	if r == 0 {
		return
	}
	next := clamp(r*f, MinDistance, MaxDistance)
	c.Position = c.Target.Add(offset.Scale(next / r))
}

// Distance returns how far the camera is from its target.
func (c Camera) Distance() float64 {
	return c.Position.DistanceTo(c.Target)
}

// Basis returns the camera's forward, right and up unit vectors.
func (c Camera) Basis() (forward, right, up core.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	if forward == (core.Vector3{}) {
		forward = core.Vector3{Z: -1}
	}
	worldUp := core.Vector3{Y: 1}
	right = forward.Cross(worldUp).Normalize()
	if right == (core.Vector3{}) {
		right = core.Vector3{X: 1}
	}
	up = right.Cross(forward)
	return forward, right, up
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
