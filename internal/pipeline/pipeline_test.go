package pipeline

import (
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"drawbot/internal/contour"
	"drawbot/internal/image"
	"drawbot/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, img stdimage.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func squareOnBlack() *stdimage.Gray {
	img := stdimage.NewGray(stdimage.Rect(0, 0, 50, 50))
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

// onRectangle reports whether every point lies on the border of its bounding
// box, allowing slack pixels of chamfer at each corner.
func onRectangle(points []geometry.PointInt, slack int) bool {
	b := geometry.BoundingBox(points)
	x0, y0, x1, y1 := b.X, b.Y, b.X+b.Width, b.Y+b.Height
	near := func(v, edge int) bool { return v-edge <= slack && edge-v <= slack }
	for _, p := range points {
		onEdge := p.X == x0 || p.X == x1 || p.Y == y0 || p.Y == y1
		nearCorner := (near(p.X, x0) || near(p.X, x1)) && (near(p.Y, y0) || near(p.Y, y1))
		if !onEdge && !nearCorner {
			return false
		}
	}
	return true
}

func TestRun_SquareOnBlack(t *testing.T) {
	res, err := Run(writePNG(t, squareOnBlack()), DefaultOptions(50))
	require.NoError(t, err)
	assert.Equal(t, geometry.Size{Width: 50, Height: 50}, res.Size)

	// The dilated edge ring has one outer boundary and one hole inside it.
	require.Len(t, res.Contours, 2)
	outer, hole := res.Contours[0], res.Contours[1]

	assert.False(t, outer.Hole)
	assert.Equal(t, -1, outer.Parent)
	assert.True(t, hole.Hole)
	assert.Equal(t, 0, hole.Parent)

	assert.True(t, onRectangle(outer.Points, 2), "outer boundary is not rectangular: %v", outer.Points)
	assert.GreaterOrEqual(t, len(geometry.Corners(outer.Points)), 4)

	ob, hb := outer.Bounds(), hole.Bounds()
	assert.InDelta(t, ob.Width, ob.Height, 1)
	assert.True(t, ob.X >= 16 && ob.Y >= 16 && ob.X+ob.Width <= 33 && ob.Y+ob.Height <= 33, "outer bounds %+v", ob)
	assert.True(t, hb.X > ob.X && hb.Y > ob.Y && hb.X+hb.Width < ob.X+ob.Width && hb.Y+hb.Height < ob.Y+ob.Height,
		"hole %+v not inside %+v", hb, ob)

	for i, c := range res.Contours {
		require.LessOrEqual(t, c.Len(), contour.MaxSampledPoints)
		assert.Equal(t, c.Points, res.Sampled[i].Points)
	}

	assert.Equal(t, 2, res.Stats.Contours)
	assert.Equal(t, 1, res.Stats.Holes)
	assert.Equal(t, res.Stats.TotalPoints, res.Stats.SampledPoints)
	assert.Positive(t, res.Stats.MeanPoints)
}

func TestRun_BlankImage(t *testing.T) {
	img := stdimage.NewGray(stdimage.Rect(0, 0, 80, 40))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	res, err := Run(writePNG(t, img), DefaultOptions(40))
	require.NoError(t, err)

	assert.Equal(t, geometry.Size{Width: 40, Height: 20}, res.Size)
	assert.Empty(t, res.Contours)
	assert.Empty(t, res.Sampled)
	assert.Zero(t, res.EdgePixels)
	assert.Equal(t, Stats{}, res.Stats)
}

func TestRun_ZeroWidth(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "never-opened.png"), DefaultOptions(0))
	assert.ErrorIs(t, err, image.ErrInvalidWidth)
}

func TestRun_LongContourIsSampled(t *testing.T) {
	// A large bright disc produces boundaries longer than the sample budget.
	img := stdimage.NewGray(stdimage.Rect(0, 0, 400, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			dx, dy := x-200, y-200
			if dx*dx+dy*dy < 150*150 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	opts := DefaultOptions(400)
	opts.Workers = 4
	res, err := Run(writePNG(t, img), opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Contours)

	for i, c := range res.Contours {
		s := res.Sampled[i]
		if c.Len() > contour.MaxSampledPoints {
			assert.Equal(t, contour.MaxSampledPoints, s.Len())
		} else {
			assert.Equal(t, c.Len(), s.Len())
		}
		assert.Equal(t, c.Points[0], s.Points[0])
		assert.Equal(t, c.Points[c.Len()-1], s.Points[s.Len()-1])
	}
	assert.Greater(t, res.Stats.LongestPoints, contour.MaxSampledPoints)
}
