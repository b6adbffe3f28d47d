// Command contourtest runs edge detection and contour extraction on an image
// and prints the traced contours.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"drawbot/internal/contour"
	"drawbot/internal/edge"
	"drawbot/internal/image"
	"drawbot/pkg/geometry"

	"gocv.io/x/gocv"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (PNG, JPEG, GIF, TIFF, BMP or WebP)")
	width := flag.Int("width", 100, "Target width in pixels")
	minPoints := flag.Int("min-points", contour.MinPoints, "Discard contours shorter than this")
	maxPoints := flag.Int("max-points", contour.MaxSampledPoints, "Sample budget per contour")
	maskOut := flag.String("mask", "", "Write the dilated edge mask to this file")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: contourtest -image <path> [-width 100] [-mask edges.png]")
		os.Exit(1)
	}

	raster, err := image.Load(*imagePath, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	defer raster.Close()

	fmt.Printf("Loaded %s image: %s pixels, resized to %s\n", raster.Format, raster.Source, raster.Size())

	opts := edge.DefaultOptions()
	mask, err := edge.Detect(raster.Mat(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Edge detection failed: %v\n", err)
		os.Exit(1)
	}
	defer mask.Close()

	th := mask.Thresholds
	fmt.Printf("\nEdge detection:\n")
	fmt.Printf("  Blur: %dx%d Gaussian\n", opts.BlurKernel, opts.BlurKernel)
	fmt.Printf("  Median: %.1f -> Canny [%d, %d]\n", th.Median, th.Lower, th.Upper)
	fmt.Printf("  Dilate: %dx%d x%d\n", opts.DilateKernel, opts.DilateKernel, opts.DilateIterations)
	fmt.Printf("  Edge pixels: %d\n", mask.EdgePixels())

	if *maskOut != "" {
		if !gocv.IMWrite(*maskOut, mask.Mat()) {
			fmt.Fprintf(os.Stderr, "Failed to write mask to %s\n", *maskOut)
			os.Exit(1)
		}
		fmt.Printf("  Mask written to %s\n", *maskOut)
	}

	contours, err := contour.Extract(mask.Mat(), *minPoints)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contour extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nTraced %d contours:\n", len(contours))
	fmt.Printf("%-6s %8s %8s %8s %8s %6s %6s %-20s\n",
		"#", "Points", "Sampled", "Corners", "Length", "Hole", "Convex", "Bounds")
	fmt.Println(strings.Repeat("-", 79))

	total := 0
	for i, c := range contours {
		s := contour.Sample(c, *maxPoints)
		b := c.Bounds()
		total += s.Len()
		fmt.Printf("%-6d %8d %8d %8d %8.1f %6v %6v %d,%d %dx%d\n",
			i, c.Len(), s.Len(), len(geometry.Corners(c.Points)), geometry.PathLength(c.Points),
			c.Hole, geometry.IsConvex(c.Points), b.X, b.Y, b.Width, b.Height)
	}

	fmt.Printf("\nTotal: %d contours, %d sampled points\n", len(contours), total)
}
