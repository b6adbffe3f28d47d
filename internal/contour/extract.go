// Package contour traces boundary curves from edge masks and reduces them to
// a bounded number of evenly spaced points.
package contour

import (
	"errors"

	"drawbot/pkg/geometry"

	"gocv.io/x/gocv"
)

// MinPoints is the shortest boundary kept by Extract; anything shorter is noise.
const MinPoints = 5

// Contour is an ordered boundary curve of a connected region.
type Contour struct {
	Points []geometry.PointInt
	Parent int  // Index of the enclosing retained contour, -1 if none
	Hole   bool // Inner boundary (odd nesting depth)
}

// Len returns the number of points.
func (c Contour) Len() int {
	return len(c.Points)
}

// Bounds returns the bounding rectangle of the contour.
func (c Contour) Bounds() geometry.RectInt {
	return geometry.BoundingBox(c.Points)
}

// Extract traces every outer and nested inner boundary in mask at full
// precision and drops curves with fewer than minPoints points. Contours are
// returned in trace order.
func Extract(mask gocv.Mat, minPoints int) ([]Contour, error) {
	if mask.Empty() {
		return nil, errors.New("empty mask")
	}
	if minPoints < 1 {
		minPoints = 1
	}

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	traced := gocv.FindContoursWithParams(mask, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxNone)
	defer traced.Close()

	n := traced.Size()
	parents := make([]int, n)
	for i := 0; i < n; i++ {
		parents[i] = -1
		if !hierarchy.Empty() {
			// [next, previous, first child, parent]
			parents[i] = int(hierarchy.GetVeciAt(0, i)[3])
		}
	}

	// Map from traced index to retained index
	kept := make([]int, n)
	var contours []Contour
	for i := 0; i < n; i++ {
		pts := traced.At(i).ToPoints()
		if len(pts) < minPoints {
			kept[i] = -1
			continue
		}

		c := Contour{
			Points: make([]geometry.PointInt, len(pts)),
			Parent: -1,
			Hole:   depth(parents, i)%2 == 1,
		}
		for j, p := range pts {
			c.Points[j] = geometry.FromImagePoint(p)
		}
		kept[i] = len(contours)
		contours = append(contours, c)
	}

	for i := 0; i < n; i++ {
		if kept[i] < 0 {
			continue
		}
		if p := parents[i]; p >= 0 && p < n && kept[p] >= 0 {
			contours[kept[i]].Parent = kept[p]
		}
	}

	return contours, nil
}

// depth counts the ancestors of contour i in the hierarchy.
func depth(parents []int, i int) int {
	d := 0
	for p := parents[i]; p >= 0 && p < len(parents) && d <= len(parents); p = parents[p] {
		d++
	}
	return d
}
