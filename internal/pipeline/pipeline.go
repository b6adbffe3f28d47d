// Package pipeline runs the image to sampled-contour stages in order.
package pipeline

import (
	"fmt"

	"drawbot/internal/contour"
	"drawbot/internal/edge"
	"drawbot/internal/image"
	"drawbot/internal/logger"
	"drawbot/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Options configures a pipeline run.
type Options struct {
	Width     int // Target raster width in pixels
	Edge      edge.Options
	MinPoints int // Shortest contour kept
	MaxPoints int // Sample budget per contour
	Workers   int // Goroutines used for sampling, <= 1 runs inline
}

// DefaultOptions returns the standard settings for a target width.
func DefaultOptions(width int) Options {
	return Options{
		Width:     width,
		Edge:      edge.DefaultOptions(),
		MinPoints: contour.MinPoints,
		MaxPoints: contour.MaxSampledPoints,
		Workers:   1,
	}
}

// Stats summarises the extracted contours.
type Stats struct {
	Contours      int
	Holes         int
	TotalPoints   int
	SampledPoints int
	MeanPoints    float64
	LongestPoints int
}

// Result is the output of a pipeline run.
type Result struct {
	Source     geometry.Size // Original image size
	Size       geometry.Size // Raster size after resizing
	Thresholds edge.Thresholds
	EdgePixels int
	Contours   []contour.Contour
	Sampled    []contour.Sampled
	Stats      Stats
}

// Run loads the image at path and extracts its sampled contours.
func Run(path string, opts Options) (*Result, error) {
	logger.Section("Trace")
	raster, err := image.Load(path, opts.Width)
	if err != nil {
		return nil, err
	}
	defer raster.Close()

	logger.Info("loaded %s (%s, %s) resized to %s", path, raster.Format, raster.Source, raster.Size())
	return Process(raster, opts)
}

// Process runs edge detection, contour extraction and sampling on a loaded raster.
func Process(raster *image.Raster, opts Options) (*Result, error) {
	mask, err := edge.Detect(raster.Mat(), opts.Edge)
	if err != nil {
		return nil, fmt.Errorf("edge detection failed: %w", err)
	}
	defer mask.Close()

	th := mask.Thresholds
	logger.Debug("median=%.1f canny=[%d,%d] edge pixels=%d", th.Median, th.Lower, th.Upper, mask.EdgePixels())

	contours, err := contour.Extract(mask.Mat(), opts.MinPoints)
	if err != nil {
		return nil, fmt.Errorf("contour extraction failed: %w", err)
	}

	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = contour.MaxSampledPoints
	}
	sampled := contour.SampleAll(contours, maxPoints, opts.Workers)

	res := &Result{
		Source:     raster.Source,
		Size:       raster.Size(),
		Thresholds: th,
		EdgePixels: mask.EdgePixels(),
		Contours:   contours,
		Sampled:    sampled,
		Stats:      summarize(contours, sampled),
	}

	logger.Debug("contours=%d holes=%d points=%d sampled=%d",
		res.Stats.Contours, res.Stats.Holes, res.Stats.TotalPoints, res.Stats.SampledPoints)
	if len(contours) == 0 {
		logger.Warn("no contours found; nothing will be drawn")
	}
	return res, nil
}

func summarize(contours []contour.Contour, sampled []contour.Sampled) Stats {
	s := Stats{Contours: len(contours)}
	if len(contours) == 0 {
		return s
	}

	lengths := make([]float64, len(contours))
	for i, c := range contours {
		n := c.Len()
		lengths[i] = float64(n)
		s.TotalPoints += n
		if n > s.LongestPoints {
			s.LongestPoints = n
		}
		if c.Hole {
			s.Holes++
		}
	}
	for _, sc := range sampled {
		s.SampledPoints += sc.Len()
	}
	s.MeanPoints = stat.Mean(lengths, nil)
	return s
}
