package contour

import (
	"math"
	"sync"

	"drawbot/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// MaxSampledPoints bounds the number of points kept per contour.
const MaxSampledPoints = 300

// Sampled is an ordered subsequence of a contour's points.
type Sampled struct {
	Points  []geometry.PointInt
	Indices []int // Positions of Points in the source contour
	Source  int   // Length of the source contour
}

// Len returns the number of sampled points.
func (s Sampled) Len() int {
	return len(s.Points)
}

// SampleIndices returns n indices evenly spaced over [0, length-1], each
// rounded to the nearest integer. When n >= length every index is returned.
func SampleIndices(length, n int) []int {
	if length <= 0 || n <= 0 {
		return nil
	}
	if n >= length {
		idx := make([]int, length)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	if n == 1 {
		return []int{0}
	}

	steps := floats.Span(make([]float64, n), 0, float64(length-1))
	idx := make([]int, n)
	for i, v := range steps {
		idx[i] = int(math.Round(v))
	}
	return idx
}

// Sample reduces c to at most maxPoints points, keeping the first and last.
// Contours within the limit are copied unchanged.
func Sample(c Contour, maxPoints int) Sampled {
	idx := SampleIndices(len(c.Points), maxPoints)
	pts := make([]geometry.PointInt, len(idx))
	for i, j := range idx {
		pts[i] = c.Points[j]
	}
	return Sampled{Points: pts, Indices: idx, Source: len(c.Points)}
}

// SampleAll samples every contour, preserving order. With workers > 1 the
// contours are split across that many goroutines.
func SampleAll(contours []Contour, maxPoints, workers int) []Sampled {
	out := make([]Sampled, len(contours))
	if workers <= 1 || len(contours) < 2 {
		for i, c := range contours {
			out[i] = Sample(c, maxPoints)
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = Sample(contours[i], maxPoints)
			}
		}()
	}
	for i := range contours {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return out
}
