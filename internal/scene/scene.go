// Package scene holds the render-agnostic description of the globe view.
package scene

import (
	"slices"
	"sync"
)

// Scene collects every visible object. Objects are only ever added, except
// for the trajectory layer which is replaced on reload.
type Scene struct {
	mu sync.RWMutex

	globe      *Globe
	sky        *SkySphere
	markers    []Marker
	labels     []Label
	stars      []Starfield
	lights     []Light
	trajectory *Trajectory
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

func (s *Scene) AddGlobe(g Globe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globe = &g
}

func (s *Scene) AddSky(sky SkySphere) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sky = &sky
}

func (s *Scene) AddMarker(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, m)
}

func (s *Scene) AddLabel(l Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels = append(s.labels, l)
}

func (s *Scene) AddStars(f Starfield) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stars = append(s.stars, Starfield{Stars: slices.Clone(f.Stars)})
}

func (s *Scene) AddLight(l Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

// ReplaceTrajectory swaps the trajectory layer. A nil-points trajectory
// clears it.
func (s *Scene) ReplaceTrajectory(t Trajectory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(t.Points) == 0 {
		s.trajectory = nil
		return
	}
	t.Points = slices.Clone(t.Points)
	s.trajectory = &t
}

// SetDirectionalLight moves every directional light to l.Position.
func (s *Scene) SetDirectionalLight(l Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lights {
		if s.lights[i].Kind == Directional {
			s.lights[i].Position = l.Position
		}
	}
}

// Snapshot is an immutable copy of the scene for one frame.
type Snapshot struct {
	Globe      *Globe
	Sky        *SkySphere
	Markers    []Marker
	Labels     []Label
	Stars      []Starfield
	Lights     []Light
	Trajectory *Trajectory
}

// Snapshot copies the current state. The result shares no memory with the
// scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Markers: slices.Clone(s.markers),
		Labels:  slices.Clone(s.labels),
		Lights:  slices.Clone(s.lights),
	}
	if s.globe != nil {
		g := *s.globe
		snap.Globe = &g
	}
	if s.sky != nil {
		sky := *s.sky
		snap.Sky = &sky
	}
	for _, f := range s.stars {
		snap.Stars = append(snap.Stars, Starfield{Stars: slices.Clone(f.Stars)})
	}
	if s.trajectory != nil {
		t := *s.trajectory
		t.Points = slices.Clone(t.Points)
		snap.Trajectory = &t
	}
	return snap
}

// Counts is a summary of what the scene contains.
type Counts struct {
	Markers          int
	Labels           int
	Stars            int
	Lights           int
	TrajectoryPoints int
}

func (s *Scene) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Counts{
		Markers: len(s.markers),
		Labels:  len(s.labels),
		Lights:  len(s.lights),
	}
	for _, f := range s.stars {
		c.Stars += len(f.Stars)
	}
	if s.trajectory != nil {
		c.TrajectoryPoints = len(s.trajectory.Points)
	}
	return c
}
