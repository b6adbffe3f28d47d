// Package preview renders strokes to an image so a drawing can be checked
// without moving the pointer.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"drawbot/internal/stroke"
	"drawbot/pkg/colorutil"
	"drawbot/pkg/geometry"

	"gocv.io/x/gocv"
)

// Options configures preview rendering.
type Options struct {
	Mode       stroke.Mode
	Scale      int // Integer upscaling so single-pixel dots stay visible
	DotRadius  int // Click marker radius in output pixels
	Background color.RGBA
	Palette    []color.RGBA // Cycled per stroke; a single entry draws everything in one color
}

// DefaultOptions returns a 4x click-mode preview on white.
func DefaultOptions() Options {
	return Options{
		Mode:       stroke.ModeClick,
		Scale:      4,
		DotRadius:  1,
		Background: colorutil.White,
		Palette:    colorutil.Palette,
	}
}

// Render draws strokes onto a canvas of the given size. Stroke coordinates
// are taken relative to origin, so strokes built for the screen can be shown
// at raster scale. The caller closes the returned Mat.
func Render(strokes []stroke.Stroke, origin geometry.PointInt, size geometry.Size, opts Options) (gocv.Mat, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return gocv.NewMat(), fmt.Errorf("invalid preview size %s", size)
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	canvas := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(opts.Background.B), float64(opts.Background.G), float64(opts.Background.R), 0),
		size.Height*scale, size.Width*scale, gocv.MatTypeCV8UC3)

	// Centre of the scaled pixel
	half := image.Pt(scale/2, scale/2)
	at := func(p geometry.PointInt) image.Point {
		return p.Sub(origin).ImagePoint().Mul(scale).Add(half)
	}

	for i, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		ink := colorutil.Cycle(opts.Palette, i)

		if opts.Mode == stroke.ModeDrag {
			for j := 1; j < len(s.Points); j++ {
				gocv.Line(&canvas, at(s.Points[j-1]), at(s.Points[j]), ink, 1)
			}
			if len(s.Points) == 1 {
				gocv.Circle(&canvas, at(s.Points[0]), opts.DotRadius, ink, -1)
			}
			continue
		}

		for _, p := range s.Points {
			gocv.Circle(&canvas, at(p), opts.DotRadius, ink, -1)
		}
	}

	return canvas, nil
}

// WritePNG renders strokes and writes them to path.
func WritePNG(path string, strokes []stroke.Stroke, origin geometry.PointInt, size geometry.Size, opts Options) error {
	if filepath.Ext(path) == "" {
		return errors.New("preview path needs an image extension such as .png")
	}

	canvas, err := Render(strokes, origin, size, opts)
	if err != nil {
		return err
	}
	defer canvas.Close()

	if !gocv.IMWrite(path, canvas) {
		return fmt.Errorf("failed to write preview %s", path)
	}
	return nil
}
