package edge

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMedian_OddAndEven(t *testing.T) {
	assert.Equal(t, 3.0, medianOf(Histogram([]byte{5, 1, 3})))
	assert.Equal(t, 2.5, medianOf(Histogram([]byte{1, 2, 3, 4})))
	assert.Equal(t, 127.5, medianOf(Histogram([]byte{0, 255})))
	assert.Equal(t, 0.0, medianOf(Histogram(nil)))
}

func TestAdaptiveThresholds(t *testing.T) {
	opts := DefaultOptions()

	th := opts.AdaptiveThresholds(100)
	assert.Equal(t, 66, th.Lower)
	assert.Equal(t, 133, th.Upper)

	// 1.33 * 200 would exceed the intensity range
	th = opts.AdaptiveThresholds(200)
	assert.Equal(t, 132, th.Lower)
	assert.Equal(t, 255, th.Upper)

	th = opts.AdaptiveThresholds(0)
	assert.Zero(t, th.Lower)
	assert.Zero(t, th.Upper)
}

func TestDetect_UniformImageHasNoEdges(t *testing.T) {
	for _, v := range []float64{0, 128, 255} {
		gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, 0, 0, 0), 40, 60, gocv.MatTypeCV8U)

		mask, err := Detect(gray, DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, 60, mask.Width())
		assert.Equal(t, 40, mask.Height())
		assert.Zero(t, mask.EdgePixels())
		assert.Equal(t, v, mask.Thresholds.Median)

		mask.Close()
		gray.Close()
	}
}

func TestDetect_SquareOutline(t *testing.T) {
	gray := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8U)
	defer gray.Close()
	gocv.Rectangle(&gray, image.Rect(20, 20, 30, 30), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	mask, err := Detect(gray, DefaultOptions())
	require.NoError(t, err)
	defer mask.Close()

	// Mostly black background
	assert.Equal(t, 0.0, mask.Thresholds.Median)
	assert.Positive(t, mask.EdgePixels())

	// Edges hug the square; the corners of the frame stay empty.
	m := mask.Mat()
	assert.Zero(t, m.GetUCharAt(0, 0))
	assert.Zero(t, m.GetUCharAt(49, 49))
	assert.Zero(t, m.GetUCharAt(25, 25), "interior of the square is flat")
}

func TestDetect_DilationThickensEdges(t *testing.T) {
	gray := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8U)
	defer gray.Close()
	gocv.Rectangle(&gray, image.Rect(10, 10, 40, 40), color.RGBA{R: 200, G: 200, B: 200, A: 255}, -1)

	thin := DefaultOptions()
	thin.DilateKernel = 0
	a, err := Detect(gray, thin)
	require.NoError(t, err)
	defer a.Close()

	b, err := Detect(gray, DefaultOptions())
	require.NoError(t, err)
	defer b.Close()

	assert.Greater(t, b.EdgePixels(), a.EdgePixels())
}

func TestDetect_RejectsBadInput(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	_, err := Detect(empty, DefaultOptions())
	assert.Error(t, err)

	color3 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer color3.Close()
	_, err = Detect(color3, DefaultOptions())
	assert.Error(t, err)

	gray := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8U)
	defer gray.Close()
	opts := DefaultOptions()
	opts.BlurKernel = 4
	_, err = Detect(gray, opts)
	assert.Error(t, err)
}
