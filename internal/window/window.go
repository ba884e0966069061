// Package window runs the interactive globe in a desktop window.
package window

import (
	"context"
	"errors"
	"image"
	"math"
	"time"
	"unicode/utf8"

	"github.com/OCAP2/globe/internal/app"
	"github.com/OCAP2/globe/internal/config"
	"github.com/OCAP2/globe/internal/render"
	"github.com/OCAP2/globe/internal/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// key repeat starts after this many ticks held, then fires every repeatEvery
	repeatDelay = 30
	repeatEvery = 3

	// radians per pixel dragged
	dragSpeed = 0.005
	// distance multiplier per wheel notch
	wheelStep = 0.9

	lineHeight = 16
	// DebugPrint glyphs are fixed width
	glyphWidth = 6
	margin     = 8
)

// ErrClosed ends the game loop on Escape or when the context is done.
var ErrClosed = errors.New("window closed")

var arrows = []struct {
	key ebiten.Key
	dir scene.Key
}{
	{ebiten.KeyArrowLeft, scene.KeyLeft},
	{ebiten.KeyArrowUp, scene.KeyUp},
	{ebiten.KeyArrowRight, scene.KeyRight},
	{ebiten.KeyArrowDown, scene.KeyDown},
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, ctrl *app.Controller, r *render.Renderer, cfg config.WindowConfig) error {
	g := &game{ctx: ctx, ctrl: ctrl, renderer: r, scale: cfg.RenderScale}
	if g.scale <= 0 || g.scale > 1 {
		g.scale = 1
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}

	err := ebiten.RunGame(g)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

type game struct {
	ctx      context.Context
	ctrl     *app.Controller
	renderer *render.Renderer
	scale    float64

	width, height int

	frame    *image.RGBA
	frameImg *ebiten.Image

	dragging     bool
	lastX, lastY int
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.ctx.Err() != nil {
		return ErrClosed
	}
	g.pollKeys()
	g.pollMouse()
	g.ctrl.Frame()
	return nil
}

func (g *game) pollKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	for _, a := range arrows {
		d := inpututil.KeyPressDuration(a.key)
		if d == 1 || (d > repeatDelay && d%repeatEvery == 0) {
			g.ctrl.PushInput(app.KeyEvent(a.dir, ctrl))
		}
	}
}

func (g *game) pollMouse() {
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging && (x != g.lastX || y != g.lastY) {
			g.ctrl.PushInput(app.OrbitEvent(
				-float64(x-g.lastX)*dragSpeed,
				float64(y-g.lastY)*dragSpeed,
			))
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastX, g.lastY = x, y

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.ctrl.PushInput(app.ZoomEvent(math.Pow(wheelStep, dy)))
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	start := time.Now()
	w := max(1, int(float64(g.width)*g.scale))
	h := max(1, int(float64(g.height)*g.scale))
	if g.frame == nil || g.frame.Bounds().Dx() != w || g.frame.Bounds().Dy() != h {
		g.frame = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.frameImg != nil {
			g.frameImg.Deallocate()
		}
		g.frameImg = ebiten.NewImage(w, h)
	}

	snap := g.ctrl.Snapshot()
	cam := g.ctrl.Camera()
	g.renderer.Render(g.frame, snap, cam)
	g.frameImg.WritePixels(g.frame.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.width)/float64(w), float64(g.height)/float64(h))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frameImg, op)

	for _, l := range render.VisibleLabels(snap, cam, g.width, g.height) {
		ebitenutil.DebugPrintAt(screen, l.Text, int(l.X)+4, int(l.Y)-lineHeight/2)
	}
	drawPanel(screen, g.ctrl.StatsLines(), margin, margin)
	clockLines := g.ctrl.ClockLines()
	drawPanel(screen, clockLines, topRightX(clockLines, g.width), margin)

	g.ctrl.FrameRendered(time.Since(start))
}

func drawPanel(screen *ebiten.Image, lines []string, x, y int) {
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x, y+i*lineHeight)
	}
}

// topRightX is the left edge of a panel whose widest line ends at the
// right margin.
func topRightX(lines []string, width int) int {
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return max(margin, width-margin-widest*glyphWidth)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if outsideHeight > 0 {
			g.ctrl.SetAspect(float64(outsideWidth) / float64(outsideHeight))
		}
	}
	return outsideWidth, outsideHeight
}
