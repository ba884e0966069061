// pkg/core/types.go
package core

import "math"

// ReferenceRadiusKm is the reference sphere radius (km) used as the height
// datum and as the unit of scene space for trajectory samples.
const ReferenceRadiusKm = 6378.14

// GlobeRadius is the radius of the Earth mesh in scene units.
const GlobeRadius = 1.01

// LabelOffset scales a marker position outward to anchor its label.
const LabelOffset = 1.05

// Vector3 is a plain 3D vector, independent of any rendering backend.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale multiplies every component by k.
func (v Vector3) Scale(k float64) Vector3 { return Vector3{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product.
func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length.
func (v Vector3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector3) Normalize() Vector3 {
	n := v.Norm()
	if n == 0 {
		return Vector3{}
	}
	return v.Scale(1 / n)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vector3) DistanceTo(o Vector3) float64 { return v.Sub(o).Norm() }

// GeoPoint is a labeled geographic location in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"lat" mapstructure:"lat"`
	Longitude float64 `json:"lon" mapstructure:"lon"`
	Label     string  `json:"label" mapstructure:"label"`
}

// RawSample is one line of a trajectory file: a body-fixed Cartesian
// position in kilometres.
type RawSample struct {
	X, Y, Z float64
}

// Vector returns the sample as a Vector3 (km).
func (s RawSample) Vector() Vector3 { return Vector3{s.X, s.Y, s.Z} }

// TrajectoryStats are the aggregate metrics of a trajectory, all in km.
type TrajectoryStats struct {
	MaxHeight           float64 `json:"maxHeight"`
	MinHeight           float64 `json:"minHeight"`
	LineOfSightDistance float64 `json:"lineOfSightDistance"`
	TotalDistance       float64 `json:"totalDistance"`
	Samples             int     `json:"samples"`
}
