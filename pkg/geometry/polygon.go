package geometry

// PathLength returns the summed segment length of an open polyline.
func PathLength(points []PointInt) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// Corners returns the vertices of a closed chain where the walking direction
// changes. A pixel-traced axis-aligned rectangle yields exactly its four corners.
func Corners(polygon []PointInt) []PointInt {
	n := len(polygon)
	if n < 3 {
		return nil
	}

	var corners []PointInt
	for i := 0; i < n; i++ {
		prev := polygon[(i+n-1)%n]
		cur := polygon[i]
		next := polygon[(i+1)%n]

		in := cur.Sub(prev)
		out := next.Sub(cur)
		if crossProduct(in, out) != 0 {
			corners = append(corners, cur)
		}
	}
	return corners
}

// IsConvex returns true if the polygon vertices form a convex polygon.
// Collinear runs are ignored; the polygon is assumed to be simple.
func IsConvex(polygon []PointInt) bool {
	if len(polygon) < 3 {
		return false
	}

	n := len(polygon)
	var sign int

	for i := 0; i < n; i++ {
		a, b, c := polygon[i], polygon[(i+1)%n], polygon[(i+2)%n]
		cross := crossProduct(b.Sub(a), c.Sub(b))

		if cross != 0 {
			currentSign := 1
			if cross < 0 {
				currentSign = -1
			}

			if sign == 0 {
				sign = currentSign
			} else if currentSign != sign {
				return false
			}
		}
	}

	return true
}

func crossProduct(u, v PointInt) int {
	return u.X*v.Y - u.Y*v.X
}
