// Package image provides image loading, luminance conversion and resizing.
package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drawbot/pkg/geometry"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Raster is a single-channel 8-bit intensity image resized to the drawing width.
// It is not modified after creation; Close releases the underlying Mat.
type Raster struct {
	mat    gocv.Mat
	Path   string        // Source file path, empty for in-memory images
	Format string        // Decoder name reported by image.Decode
	Source geometry.Size // Dimensions before resizing
}

// Load decodes the image at path, converts it to luminance and rescales it to
// targetWidth while preserving the aspect ratio. The width is validated before
// the file is touched.
func Load(path string, targetWidth int) (*Raster, error) {
	if targetWidth <= 0 {
		return nil, &WidthError{Value: strconv.Itoa(targetWidth)}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		if !IsSupportedFormat(path) {
			err = fmt.Errorf("%w (supported formats: %s)", err, strings.Join(SupportedFormats(), " "))
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	r, err := FromImage(img, targetWidth)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	r.Path = path
	r.Format = format
	return r, nil
}

// FromImage converts an already decoded image into a Raster of targetWidth.
func FromImage(img image.Image, targetWidth int) (*Raster, error) {
	if targetWidth <= 0 {
		return nil, &WidthError{Value: strconv.Itoa(targetWidth)}
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrImageLoad)
	}

	src, err := gocv.ImageGrayToMatGray(Luma(img))
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	size := ScaledSize(w, h, targetWidth)
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(size.Width, size.Height), 0, 0, Interpolation(w, targetWidth))

	return &Raster{
		mat:    dst,
		Source: geometry.Size{Width: w, Height: h},
	}, nil
}

// Interpolation picks the resampling filter for scaling a w pixel wide image
// to targetWidth. Lanczos4 has a fixed 8x8 support and aliases when shrinking,
// so reductions average over the source area instead.
func Interpolation(w, targetWidth int) gocv.InterpolationFlags {
	if targetWidth < w {
		return gocv.InterpolationArea
	}
	return gocv.InterpolationLanczos4
}

// Luma converts img to ITU-R 601 luminance. Alpha is ignored: a pixel's
// straight (non-premultiplied) color decides its intensity, so transparent
// regions keep the color they were painted with.
func Luma(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 0xff
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(c).(color.Gray))
		}
	}
	return gray
}

// ScaledSize returns the output dimensions for a w x h image rescaled to targetWidth.
// The height is rounded to the nearest pixel and never drops below one.
func ScaledSize(w, h, targetWidth int) geometry.Size {
	scale := float64(targetWidth) / float64(w)
	newH := int(math.Round(float64(h) * scale))
	if newH < 1 {
		newH = 1
	}
	return geometry.Size{Width: targetWidth, Height: newH}
}

// ParseWidth parses a user-supplied target width.
func ParseWidth(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, &WidthError{Value: s}
	}
	return n, nil
}

// Mat returns the intensity buffer. Callers must not modify or close it.
func (r *Raster) Mat() gocv.Mat {
	return r.mat
}

// Width returns the resized width in pixels.
func (r *Raster) Width() int {
	return r.mat.Cols()
}

// Height returns the resized height in pixels.
func (r *Raster) Height() int {
	return r.mat.Rows()
}

// Size returns the resized dimensions.
func (r *Raster) Size() geometry.Size {
	return geometry.Size{Width: r.Width(), Height: r.Height()}
}

// At returns the intensity at (x, y), or 0 outside the raster.
func (r *Raster) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.Width() || y >= r.Height() {
		return 0
	}
	return r.mat.GetUCharAt(y, x)
}

// Close releases the underlying Mat.
func (r *Raster) Close() error {
	return r.mat.Close()
}

// SupportedFormats returns the file extensions with a registered decoder.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
