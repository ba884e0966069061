package scene

import (
	"math/rand"

	"github.com/OCAP2/globe/internal/geo"
	"github.com/OCAP2/globe/internal/trajectory"
	"github.com/OCAP2/globe/pkg/core"
)

// AssembleConfig controls the static layers built by Assemble.
type AssembleConfig struct {
	GlobeTexture  string
	LightsTexture string
	SkyTexture    string
	NightLights   bool
	StarCount     int
	StarSeed      int64
	// TiltDeg leans the globe about z, in degrees.
	TiltDeg float64
}

// DefaultAssembleConfig matches the stock asset names.
func DefaultAssembleConfig() AssembleConfig {
	return AssembleConfig{
		GlobeTexture:  "earth.jpg",
		LightsTexture: "8081_earthlights4k.jpg",
		SkyTexture:    "milkyway_map.jpg",
		StarCount:     200,
		StarSeed:      1,
	}
}

// Assemble builds a scene with the globe, a marker and label per city, the
// sky, the stars and the two lights. The trajectory layer is left empty.
func Assemble(cfg AssembleConfig, cities []core.GeoPoint) *Scene {
	s := New()

	s.AddGlobe(Globe{
		Radius:        core.GlobeRadius,
		Texture:       cfg.GlobeTexture,
		LightsTexture: cfg.LightsTexture,
		NightLights:   cfg.NightLights,
		TiltDeg:       cfg.TiltDeg,
	})

	for _, city := range cities {
		pos := geo.Place(city, core.GlobeRadius)
		s.AddMarker(Marker{
			Position:    pos,
			Orientation: geo.MarkerOrientation(city),
			Size:        CityMarkerSize,
			Color:       CityMarkerColor,
		})
		s.AddLabel(Label{
			Text:     city.Label,
			Position: geo.LabelAnchor(pos),
			ScaleX:   LabelScaleX,
			ScaleY:   LabelScaleY,
		})
	}

	rng := rand.New(rand.NewSource(cfg.StarSeed))
	s.AddStars(NewStarfield(cfg.StarCount, rng))
	s.AddSky(SkySphere{Radius: SkyRadius, Texture: cfg.SkyTexture})

	s.AddLight(Light{Kind: Ambient, Color: AmbientColor, Intensity: 1})
	s.AddLight(LightFromCamera(DefaultCamera(1)))

	return s
}

// TrajectoryLayer converts samples into a scene-space polyline with a marker
// at every sample.
func TrajectoryLayer(samples []core.RawSample) Trajectory {
	points := make([]core.Vector3, len(samples))
	for i, smp := range samples {
		points[i] = trajectory.ToScene(smp)
	}
	return Trajectory{
		Points:      points,
		Markers:     true,
		MarkerSize:  TrajectoryMarkerSize,
		LineColor:   TrajectoryLineColor,
		MarkerColor: TrajectoryMarkerColor,
	}
}

// LightFromCamera returns the white directional light placed on the unit
// sphere in the camera's direction, so the lit side always faces the viewer.
func LightFromCamera(cam Camera) Light {
	return Light{
		Kind:      Directional,
		Color:     DirectionalColor,
		Intensity: 1,
		Position:  cam.Position.Normalize(),
	}
}
