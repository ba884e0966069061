package app

import "github.com/OCAP2/globe/internal/scene"

// InputKind tells which camera operation an InputEvent carries.
type InputKind int

const (
	InputKey InputKind = iota
	InputOrbit
	InputZoom
)

// InputEvent is one user action captured by the window.
type InputEvent struct {
	Kind InputKind

	// InputKey
	Key  scene.Key
	Ctrl bool

	// InputOrbit, radians
	DX, DY float64

	// InputZoom, distance multiplier
	Factor float64
}

// KeyEvent is an arrow key press.
func KeyEvent(k scene.Key, ctrl bool) InputEvent {
	return InputEvent{Kind: InputKey, Key: k, Ctrl: ctrl}
}

// OrbitEvent is a mouse drag.
func OrbitEvent(dx, dy float64) InputEvent {
	return InputEvent{Kind: InputOrbit, DX: dx, DY: dy}
}

// ZoomEvent is a wheel step.
func ZoomEvent(factor float64) InputEvent {
	return InputEvent{Kind: InputZoom, Factor: factor}
}

func (ev InputEvent) apply(cam *scene.Camera) {
	switch ev.Kind {
	case InputKey:
		cam.Apply(ev.Key, ev.Ctrl)
	case InputOrbit:
		cam.Orbit(ev.DX, ev.DY)
	case InputZoom:
		cam.Zoom(ev.Factor)
	}
}
