package render

import (
	"image"
	"image/color"
	"math"

	"github.com/OCAP2/globe/internal/scene"
	"github.com/OCAP2/globe/pkg/core"
)

var (
	// OceanColor stands in for a missing globe texture.
	OceanColor = color.RGBA{R: 0x1c, G: 0x4e, B: 0x80, A: 0xff}
	// SpaceColor stands in for a missing sky texture.
	SpaceColor = color.RGBA{A: 0xff}
	StarColor  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Renderer ray casts the globe and sky per pixel and draws the point and
// line layers on top. It is safe to reuse across frames but not across
// goroutines.
type Renderer struct {
	textures *Textures
}

// NewRenderer returns a renderer. A nil textures source draws flat colors.
func NewRenderer(textures *Textures) *Renderer {
	return &Renderer{textures: textures}
}

func (r *Renderer) texture(name string) *image.RGBA {
	if r.textures == nil {
		return nil
	}
	return r.textures.Get(name)
}

type lighting struct {
	ambient [3]float64
	dirs    []core.Vector3
	colors  [][3]float64
}

func newLighting(lights []scene.Light) lighting {
	var l lighting
	for _, light := range lights {
		c := [3]float64{
			float64(light.Color.R) / 255 * light.Intensity,
			float64(light.Color.G) / 255 * light.Intensity,
			float64(light.Color.B) / 255 * light.Intensity,
		}
		switch light.Kind {
		case scene.Ambient:
			for i := range c {
				l.ambient[i] += c[i]
			}
		case scene.Directional:
			dir := light.Position.Normalize()
			if dir == (core.Vector3{}) {
				continue
			}
			l.dirs = append(l.dirs, dir)
			l.colors = append(l.colors, c)
		}
	}
	return l
}

// shade returns the light arriving at a surface with normal n, and how much
// of it is direct.
func (l lighting) shade(n core.Vector3) (out [3]float64, direct float64) {
	out = l.ambient
	for i, dir := range l.dirs {
		lambert := math.Max(0, n.Dot(dir))
		direct = math.Max(direct, lambert)
		for k := range out {
			out[k] += l.colors[i][k] * lambert
		}
	}
	return out, direct
}

// Render draws snap as seen from cam into dst. The camera aspect is taken
// from dst.
func (r *Renderer) Render(dst *image.RGBA, snap scene.Snapshot, cam scene.Camera) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	cam.Aspect = float64(w) / float64(h)

	r.castPixels(dst, snap, cam)
	r.drawStars(dst, snap, cam)
	r.drawTrajectory(dst, snap, cam)
	r.drawMarkers(dst, snap, cam)
}

func (r *Renderer) castPixels(dst *image.RGBA, snap scene.Snapshot, cam scene.Camera) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	forward, right, up := cam.Basis()
	tanHalf := math.Tan(cam.FOV * math.Pi / 360)

	var globeTex, nightTex, skyTex *image.RGBA
	var radius, tilt float64
	if snap.Globe != nil {
		radius = snap.Globe.Radius
		tilt = snap.Globe.TiltDeg * math.Pi / 180
		globeTex = r.texture(snap.Globe.Texture)
		if snap.Globe.NightLights {
			nightTex = r.texture(snap.Globe.LightsTexture)
		}
	}
	if snap.Sky != nil {
		skyTex = r.texture(snap.Sky.Texture)
	}
	light := newLighting(snap.Lights)

	for py := 0; py < h; py++ {
		ny := 1 - (float64(py)+0.5)/float64(h)*2
		for px := 0; px < w; px++ {
			nx := (float64(px)+0.5)/float64(w)*2 - 1
			dir := forward.
				Add(right.Scale(nx * tanHalf * cam.Aspect)).
				Add(up.Scale(ny * tanHalf)).
				Normalize()

			var c color.RGBA
			if t, hit := raySphere(cam.Position, dir, radius); radius > 0 && hit {
				n := cam.Position.Add(dir.Scale(t)).Normalize()
				c = shadeGlobe(n, untilt(n, tilt), globeTex, nightTex, light)
			} else if skyTex != nil {
				c = sampleSphere(skyTex, dir)
			} else {
				c = SpaceColor
			}
			setPixel(dst, b.Min.X+px, b.Min.Y+py, c)
		}
	}
}

func shadeGlobe(n, texN core.Vector3, tex, night *image.RGBA, light lighting) color.RGBA {
	base := OceanColor
	if tex != nil {
		base = sampleSphere(tex, texN)
	}
	lit, direct := light.shade(n)

	rgb := [3]float64{
		float64(base.R) * lit[0],
		float64(base.G) * lit[1],
		float64(base.B) * lit[2],
	}
	if night != nil {
		glow := sampleSphere(night, texN)
		dark := 1 - direct
		rgb[0] += float64(glow.R) * dark
		rgb[1] += float64(glow.G) * dark
		rgb[2] += float64(glow.B) * dark
	}
	return color.RGBA{R: clampByte(rgb[0]), G: clampByte(rgb[1]), B: clampByte(rgb[2]), A: 0xff}
}

// untilt undoes the globe's axial tilt about z so the texture stays fixed to
// the surface.
func untilt(n core.Vector3, tilt float64) core.Vector3 {
	if tilt == 0 {
		return n
	}
	s, c := math.Sin(tilt), math.Cos(tilt)
	return core.Vector3{X: n.X*c + n.Y*s, Y: -n.X*s + n.Y*c, Z: n.Z}
}

// sampleSphere looks up an equirectangular texture in direction n, using
// the same wrap as the marker placement: longitude 0 at the image centre,
// north at the top.
func sampleSphere(tex *image.RGBA, n core.Vector3) color.RGBA {
	phi := math.Atan2(n.Z, -n.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, n.Y)))

	b := tex.Bounds()
	x := int(phi / (2 * math.Pi) * float64(b.Dx()))
	y := int(theta / math.Pi * float64(b.Dy()))
	x = min(max(x, 0), b.Dx()-1)
	y = min(max(y, 0), b.Dy()-1)

	i := tex.PixOffset(b.Min.X+x, b.Min.Y+y)
	return color.RGBA{R: tex.Pix[i], G: tex.Pix[i+1], B: tex.Pix[i+2], A: 0xff}
}

func (r *Renderer) drawStars(dst *image.RGBA, snap scene.Snapshot, cam scene.Camera) {
	b := dst.Bounds()
	radius := globeRadius(snap)
	for _, field := range snap.Stars {
		for _, s := range field.Stars {
			if occluded(cam.Position, s, radius) {
				continue
			}
			x, y, ok := Project(cam, s)
			if !ok {
				continue
			}
			px, py := ToPixel(x, y, b.Dx(), b.Dy())
			setPixel(dst, b.Min.X+int(px), b.Min.Y+int(py), StarColor)
		}
	}
}

func (r *Renderer) drawTrajectory(dst *image.RGBA, snap scene.Snapshot, cam scene.Camera) {
	t := snap.Trajectory
	if t == nil {
		return
	}
	b := dst.Bounds()
	radius := globeRadius(snap)

	type screenPoint struct {
		x, y    int
		depth   float64
		visible bool
	}
	pts := make([]screenPoint, len(t.Points))
	for i, p := range t.Points {
		x, y, depth, ok := project(cam, p)
		if !ok || occluded(cam.Position, p, radius) {
			continue
		}
		px, py := ToPixel(x, y, b.Dx(), b.Dy())
		pts[i] = screenPoint{x: b.Min.X + int(px), y: b.Min.Y + int(py), depth: depth, visible: true}
	}

	for i := 1; i < len(pts); i++ {
		if pts[i-1].visible && pts[i].visible {
			drawLine(dst, pts[i-1].x, pts[i-1].y, pts[i].x, pts[i].y, t.LineColor)
		}
	}
	if !t.Markers {
		return
	}
	for _, p := range pts {
		if p.visible {
			fillDisc(dst, p.x, p.y, markerPixels(cam, t.MarkerSize, p.depth, b.Dy()), t.MarkerColor)
		}
	}
}

func (r *Renderer) drawMarkers(dst *image.RGBA, snap scene.Snapshot, cam scene.Camera) {
	b := dst.Bounds()
	radius := globeRadius(snap)
	for _, m := range snap.Markers {
		if occluded(cam.Position, m.Position, radius) {
			continue
		}
		x, y, depth, ok := project(cam, m.Position)
		if !ok {
			continue
		}
		px, py := ToPixel(x, y, b.Dx(), b.Dy())
		fillDisc(dst, b.Min.X+int(px), b.Min.Y+int(py), markerPixels(cam, m.Size, depth, b.Dy()), m.Color)
	}
}

// markerPixels is the on-screen radius of a sphere of the given size at
// depth, never less than one pixel.
func markerPixels(cam scene.Camera, size, depth float64, h int) int {
	if depth <= 0 {
		return 1
	}
	focal := float64(h) / 2 / math.Tan(cam.FOV*math.Pi/360)
	return max(1, int(math.Round(size/depth*focal)))
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
