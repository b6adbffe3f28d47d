// Package edge produces binary edge masks with median-adaptive Canny thresholds.
package edge

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Options configures edge detection.
type Options struct {
	BlurKernel       int     // Gaussian kernel size (odd)
	LowerRatio       float64 // Lower Canny threshold as a fraction of the median
	UpperRatio       float64 // Upper Canny threshold as a fraction of the median
	DilateKernel     int     // Square structuring element size, 0 disables dilation
	DilateIterations int
}

// DefaultOptions returns the detector settings used for drawing.
func DefaultOptions() Options {
	return Options{
		BlurKernel:       3,
		LowerRatio:       0.66,
		UpperRatio:       1.33,
		DilateKernel:     2,
		DilateIterations: 1,
	}
}

// Thresholds are the Canny hysteresis bounds derived for one image.
type Thresholds struct {
	Median float64
	Lower  int
	Upper  int
}

// AdaptiveThresholds derives Canny bounds from a median intensity.
func (o Options) AdaptiveThresholds(median float64) Thresholds {
	return Thresholds{
		Median: median,
		Lower:  int(math.Max(0, o.LowerRatio*median)),
		Upper:  int(math.Min(255, o.UpperRatio*median)),
	}
}

// Mask is a binary edge mask; non-zero pixels are edges.
type Mask struct {
	mat        gocv.Mat
	Thresholds Thresholds
}

// Mat returns the mask buffer. Callers must not close it.
func (m *Mask) Mat() gocv.Mat {
	return m.mat
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int {
	return m.mat.Cols()
}

// Height returns the mask height in pixels.
func (m *Mask) Height() int {
	return m.mat.Rows()
}

// EdgePixels returns the number of non-zero mask pixels.
func (m *Mask) EdgePixels() int {
	return gocv.CountNonZero(m.mat)
}

// Close releases the mask.
func (m *Mask) Close() error {
	return m.mat.Close()
}

// Detect blurs gray, runs Canny with thresholds derived from the blurred
// image's median intensity and dilates the result to bridge small gaps.
func Detect(gray gocv.Mat, opts Options) (*Mask, error) {
	if gray.Empty() {
		return nil, errors.New("empty image")
	}
	if gray.Channels() != 1 {
		return nil, fmt.Errorf("expected single-channel image, got %d channels", gray.Channels())
	}
	if opts.BlurKernel < 1 || opts.BlurKernel%2 == 0 {
		return nil, fmt.Errorf("blur kernel must be odd and positive, got %d", opts.BlurKernel)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(opts.BlurKernel, opts.BlurKernel), 0, 0, gocv.BorderDefault)

	th := opts.AdaptiveThresholds(Median(blurred))

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, float32(th.Lower), float32(th.Upper))

	if opts.DilateKernel > 0 && opts.DilateIterations > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(opts.DilateKernel, opts.DilateKernel))
		defer kernel.Close()

		for i := 0; i < opts.DilateIterations; i++ {
			gocv.Dilate(edges, &edges, kernel)
		}
	}

	return &Mask{mat: edges, Thresholds: th}, nil
}

// Median returns the median intensity of a single-channel 8-bit Mat.
// For an even pixel count it is the mean of the two middle values.
func Median(gray gocv.Mat) float64 {
	return medianOf(Histogram(gray.ToBytes()))
}

// Histogram counts the occurrences of each intensity value.
func Histogram(pixels []byte) [256]int {
	var hist [256]int
	for _, p := range pixels {
		hist[p]++
	}
	return hist
}

func medianOf(hist [256]int) float64 {
	total := 0
	for _, n := range hist {
		total += n
	}
	if total == 0 {
		return 0
	}

	// 0-based ranks of the middle element(s)
	lo, hi := (total-1)/2, total/2
	loVal, hiVal := -1, -1
	seen := 0
	for v, n := range hist {
		seen += n
		if loVal < 0 && seen > lo {
			loVal = v
		}
		if seen > hi {
			hiVal = v
			break
		}
	}
	return float64(loVal+hiVal) / 2
}
