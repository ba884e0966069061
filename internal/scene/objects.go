package scene

import (
	"image/color"

	"github.com/OCAP2/globe/pkg/core"
)

// Colors used by the default layers.
var (
	CityMarkerColor       = color.RGBA{R: 0x23, G: 0x23, B: 0x8E, A: 0xff}
	TrajectoryLineColor   = color.RGBA{R: 0xff, A: 0xff}
	TrajectoryMarkerColor = color.RGBA{R: 0xd1, G: 0xd7, B: 0x3d, A: 0xff}
	AmbientColor          = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	DirectionalColor      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

const (
	CityMarkerSize       = 0.005
	TrajectoryMarkerSize = 0.01
	LabelScaleX          = 0.3
	LabelScaleY          = 0.15
	SkyRadius            = 900.0
)

// Globe is the textured Earth sphere.
type Globe struct {
	Radius        float64
	Texture       string
	LightsTexture string
	NightLights   bool
	TiltDeg       float64
}

// Marker is a small sphere sitting on the globe.
type Marker struct {
	Position    core.Vector3
	Orientation core.Vector3
	Size        float64
	Color       color.RGBA
}

// Label is a billboard text anchored near a marker.
type Label struct {
	Text           string
	Position       core.Vector3
	ScaleX, ScaleY float64
}

// Trajectory is the polyline of a loaded path with optional per-sample markers.
type Trajectory struct {
	Points      []core.Vector3
	Markers     bool
	MarkerSize  float64
	LineColor   color.RGBA
	MarkerColor color.RGBA
}

// Starfield is a set of point stars.
type Starfield struct {
	Stars []core.Vector3
}

// SkySphere is the inward-facing background sphere.
type SkySphere struct {
	Radius  float64
	Texture string
}

// LightKind selects how a Light contributes to shading.
type LightKind int

const (
	Ambient LightKind = iota
	Directional
)

func (k LightKind) String() string {
	if k == Directional {
		return "directional"
	}
	return "ambient"
}

// Light is a scene light. Position is only meaningful for directional
// lights, which shine from Position towards the origin.
type Light struct {
	Kind      LightKind
	Color     color.RGBA
	Intensity float64
	Position  core.Vector3
}
