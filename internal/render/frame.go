package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/OCAP2/globe/internal/scene"
)

// Still renders one w by h frame and writes it as PNG.
func Still(out io.Writer, r *Renderer, snap scene.Snapshot, cam scene.Camera, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	r.Render(frame, snap, cam)
	if err := png.Encode(out, frame); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}
