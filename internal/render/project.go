package render

import (
	"math"

	"github.com/OCAP2/globe/internal/scene"
	"github.com/OCAP2/globe/pkg/core"
)

// Project maps a world point to normalized device coordinates, x right and
// y up, both in [-1, 1] when on screen. ok is false for points behind the
// near plane or beyond the far plane.
func Project(cam scene.Camera, p core.Vector3) (x, y float64, ok bool) {
	x, y, _, ok = project(cam, p)
	return x, y, ok
}

func project(cam scene.Camera, p core.Vector3) (x, y, depth float64, ok bool) {
	forward, right, up := cam.Basis()
	d := p.Sub(cam.Position)

	depth = d.Dot(forward)
	if depth < cam.Near || depth > cam.Far {
		return 0, 0, depth, false
	}

	tanHalf := math.Tan(cam.FOV * math.Pi / 360)
	aspect := cam.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	x = d.Dot(right) / (depth * tanHalf * aspect)
	y = d.Dot(up) / (depth * tanHalf)
	return x, y, depth, true
}

// ToPixel converts normalized device coordinates into pixel coordinates of
// a w by h image.
func ToPixel(x, y float64, w, h int) (px, py float64) {
	return (x + 1) * 0.5 * float64(w), (1 - y) * 0.5 * float64(h)
}

// ScreenLabel is a label positioned in pixel space.
type ScreenLabel struct {
	Text string
	X, Y int
}

// VisibleLabels returns the labels that are in front of the camera, inside
// the image and not hidden behind the globe.
func VisibleLabels(snap scene.Snapshot, cam scene.Camera, w, h int) []ScreenLabel {
	cam.Aspect = float64(w) / float64(h)
	radius := globeRadius(snap)

	var out []ScreenLabel
	for _, l := range snap.Labels {
		if occluded(cam.Position, l.Position, radius) {
			continue
		}
		x, y, ok := Project(cam, l.Position)
		if !ok {
			continue
		}
		px, py := ToPixel(x, y, w, h)
		if px < 0 || py < 0 || px >= float64(w) || py >= float64(h) {
			continue
		}
		out = append(out, ScreenLabel{Text: l.Text, X: int(px), Y: int(py)})
	}
	return out
}

func globeRadius(snap scene.Snapshot) float64 {
	if snap.Globe == nil {
		return 0
	}
	return snap.Globe.Radius
}

// raySphere returns the nearest positive distance along the unit ray dir
// from o to a sphere of radius r centred on the origin.
func raySphere(o, dir core.Vector3, r float64) (float64, bool) {
	b := o.Dot(dir)
	c := o.Dot(o) - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// occluded reports whether the globe hides p from eye. Points sitting on the
// surface count as visible.
func occluded(eye, p core.Vector3, radius float64) bool {
	if radius <= 0 {
		return false
	}
	d := p.Sub(eye)
	dist := d.Norm()
	if dist == 0 {
		return false
	}
	t, hit := raySphere(eye, d.Scale(1/dist), radius*0.995)
	return hit && t < dist
}
