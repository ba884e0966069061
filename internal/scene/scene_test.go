package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/OCAP2/globe/internal/geo"
	"github.com/OCAP2/globe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScene_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.AddMarker(Marker{Position: core.Vector3{X: 1}})
	s.ReplaceTrajectory(Trajectory{Points: []core.Vector3{{X: 1}, {X: 2}}})

	snap := s.Snapshot()
	snap.Markers[0].Position.X = 99
	snap.Trajectory.Points[0].X = 99

	again := s.Snapshot()
	assert.Equal(t, 1.0, again.Markers[0].Position.X)
	assert.Equal(t, 1.0, again.Trajectory.Points[0].X)
}

func TestScene_ReplaceTrajectory(t *testing.T) {
	s := New()
	s.ReplaceTrajectory(Trajectory{Points: []core.Vector3{{X: 1}}})
	assert.Equal(t, 1, s.Counts().TrajectoryPoints)

	s.ReplaceTrajectory(Trajectory{Points: []core.Vector3{{X: 1}, {X: 2}, {X: 3}}})
	assert.Equal(t, 3, s.Counts().TrajectoryPoints)

	s.ReplaceTrajectory(Trajectory{})
	assert.Nil(t, s.Snapshot().Trajectory)
}

func TestScene_SetDirectionalLight(t *testing.T) {
	s := New()
	s.AddLight(Light{Kind: Ambient, Color: AmbientColor})
	s.AddLight(Light{Kind: Directional, Position: core.Vector3{Z: 1}})

	s.SetDirectionalLight(Light{Position: core.Vector3{X: 1}})

	lights := s.Snapshot().Lights
	assert.Equal(t, core.Vector3{}, lights[0].Position)
	assert.Equal(t, core.Vector3{X: 1}, lights[1].Position)
}

func TestAssemble(t *testing.T) {
	cities := []core.GeoPoint{
		{Latitude: 0, Longitude: 0, Label: "Null Island"},
		{Latitude: 90, Longitude: 45, Label: "North Pole"},
	}
	s := Assemble(DefaultAssembleConfig(), cities)
	snap := s.Snapshot()

	require.NotNil(t, snap.Globe)
	assert.Equal(t, core.GlobeRadius, snap.Globe.Radius)
	assert.Equal(t, "earth.jpg", snap.Globe.Texture)
	require.NotNil(t, snap.Sky)
	assert.Equal(t, SkyRadius, snap.Sky.Radius)

	require.Len(t, snap.Markers, 2)
	require.Len(t, snap.Labels, 2)
	assert.InDelta(t, core.GlobeRadius, snap.Markers[0].Position.X, 1e-9)
	assert.InDelta(t, core.GlobeRadius, snap.Markers[1].Position.Y, 1e-9)
	assert.Equal(t, CityMarkerColor, snap.Markers[0].Color)
	assert.Equal(t, "North Pole", snap.Labels[1].Text)
	assert.Equal(t, geo.LabelAnchor(snap.Markers[1].Position), snap.Labels[1].Position)

	require.Len(t, snap.Lights, 2)
	assert.Equal(t, Ambient, snap.Lights[0].Kind)
	assert.Equal(t, AmbientColor, snap.Lights[0].Color)
	assert.Equal(t, Directional, snap.Lights[1].Kind)
	assert.Equal(t, 1.0, snap.Lights[1].Intensity)

	assert.Equal(t, 200, s.Counts().Stars)
	assert.Nil(t, snap.Trajectory)
}

func TestAssemble_DeterministicStars(t *testing.T) {
	a := Assemble(DefaultAssembleConfig(), nil).Snapshot()
	b := Assemble(DefaultAssembleConfig(), nil).Snapshot()
	assert.Equal(t, a.Stars, b.Stars)
}

func TestNewStarfield(t *testing.T) {
	f := NewStarfield(500, rand.New(rand.NewSource(3)))

	require.Len(t, f.Stars, 500)
	for _, s := range f.Stars {
		r := s.Norm()
		assert.GreaterOrEqual(t, r, starMinRadius-1e-9)
		assert.LessOrEqual(t, r, starMaxRadius+1e-9)
	}

	assert.Empty(t, NewStarfield(0, rand.New(rand.NewSource(3))).Stars)
}

func TestTrajectoryLayer(t *testing.T) {
	r := core.ReferenceRadiusKm
	layer := TrajectoryLayer([]core.RawSample{{X: r}, {Y: r}, {Z: 2 * r}})

	require.Len(t, layer.Points, 3)
	assert.InDelta(t, 1.0, layer.Points[0].X, 1e-12)
	assert.InDelta(t, -1.0, layer.Points[1].Z, 1e-12)
	assert.InDelta(t, 2.0, layer.Points[2].Y, 1e-12)
	assert.True(t, layer.Markers)
	assert.Equal(t, TrajectoryLineColor, layer.LineColor)
	assert.Equal(t, TrajectoryMarkerColor, layer.MarkerColor)
}

func TestLightFromCamera(t *testing.T) {
	cam := DefaultCamera(1)
	cam.Position = core.Vector3{X: 3, Z: 4}

	l := LightFromCamera(cam)
	assert.Equal(t, Directional, l.Kind)
	assert.InDelta(t, 1.0, l.Position.Norm(), 1e-12)
	assert.InDelta(t, 0.6, l.Position.X, 1e-12)
	assert.InDelta(t, 0.8, l.Position.Z, 1e-12)
}

func TestCamera_Defaults(t *testing.T) {
	cam := DefaultCamera(16.0 / 9.0)
	assert.Equal(t, core.Vector3{Z: 5}, cam.Position)
	assert.Equal(t, 75.0, cam.FOV)
	assert.Equal(t, 0.1, cam.Near)
	assert.Equal(t, 1000.0, cam.Far)
}

func TestCamera_Apply(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		ctrl bool
		want core.Vector3
	}{
		{"left", KeyLeft, false, core.Vector3{X: -0.05, Z: 5}},
		{"right", KeyRight, false, core.Vector3{X: 0.05, Z: 5}},
		{"up", KeyUp, false, core.Vector3{Y: 0.05, Z: 5}},
		{"down", KeyDown, false, core.Vector3{Y: -0.05, Z: 5}},
		{"ctrl left", KeyLeft, true, core.Vector3{X: -0.05, Z: 5}},
		{"ctrl right", KeyRight, true, core.Vector3{X: 0.05, Z: 5}},
		{"ctrl up zooms in", KeyUp, true, core.Vector3{Z: 4.9}},
		{"ctrl down zooms out", KeyDown, true, core.Vector3{Z: 5.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := DefaultCamera(1)
			cam.Target = core.Vector3{X: 1}
			cam.Apply(tt.key, tt.ctrl)

			assert.InDelta(t, tt.want.X, cam.Position.X, 1e-12)
			assert.InDelta(t, tt.want.Y, cam.Position.Y, 1e-12)
			assert.InDelta(t, tt.want.Z, cam.Position.Z, 1e-12)
			assert.Equal(t, core.Vector3{}, cam.Target)
		})
	}
}

func TestCamera_OrbitKeepsDistance(t *testing.T) {
	cam := DefaultCamera(1)
	cam.Orbit(0.7, -0.3)

	assert.InDelta(t, 5.0, cam.Distance(), 1e-9)
	assert.NotEqual(t, core.Vector3{Z: 5}, cam.Position)

	cam.Orbit(0, math.Pi*2)
	assert.InDelta(t, 5.0, cam.Distance(), 1e-9)
	assert.Less(t, cam.Position.Y, 5.0)
}

func TestCamera_ZoomClamps(t *testing.T) {
	cam := DefaultCamera(1)

	cam.Zoom(0.5)
	assert.InDelta(t, 2.5, cam.Distance(), 1e-9)

	cam.Zoom(0.01)
	assert.InDelta(t, MinDistance, cam.Distance(), 1e-9)

	cam.Zoom(1000)
	assert.InDelta(t, MaxDistance, cam.Distance(), 1e-9)
}

func TestCamera_Basis(t *testing.T) {
	forward, right, up := DefaultCamera(1).Basis()

	assert.InDelta(t, -1.0, forward.Z, 1e-12)
	assert.InDelta(t, 1.0, right.X, 1e-12)
	assert.InDelta(t, 1.0, up.Y, 1e-12)

	// Looking straight down still yields a usable basis.
	cam := Camera{Position: core.Vector3{Y: 5}}
	_, right, up = cam.Basis()
	assert.InDelta(t, 1.0, right.Norm(), 1e-12)
	assert.InDelta(t, 1.0, up.Norm(), 1e-12)
}
