package cli

import (
	"fmt"
	"runtime"

	"drawbot/internal/config"
	"drawbot/internal/image"
	"drawbot/internal/logger"
	"drawbot/internal/pipeline"
	"drawbot/internal/preview"
	"drawbot/internal/stroke"
	"drawbot/pkg/geometry"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// traceFlags are the pipeline settings shared by trace and draw.
type traceFlags struct {
	width       string
	minPoints   int
	maxPoints   int
	parallel    bool
	previewPath string
}

func (f *traceFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.width, "width", "w", "", "target drawing width in pixels (default from config)")
	fs.IntVar(&f.minPoints, "min-points", 0, "discard contours shorter than this (default from config)")
	fs.IntVar(&f.maxPoints, "max-points", 0, "sample budget per contour (default from config)")
	fs.BoolVar(&f.parallel, "parallel", false, "sample contours on all CPUs")
	fs.StringVar(&f.previewPath, "preview", "", "also render the strokes to this PNG file")
}

// options merges the flags over cfg. An explicit width that is not a positive
// integer is reported as a width error.
func (f *traceFlags) options(cfg config.Config) (pipeline.Options, error) {
	width := cfg.Width
	if f.width != "" {
		w, err := image.ParseWidth(f.width)
		if err != nil {
			return pipeline.Options{}, err
		}
		width = w
	}

	opts := pipeline.DefaultOptions(width)
	opts.MinPoints = cfg.MinPoints
	opts.MaxPoints = cfg.MaxPoints
	opts.Edge.BlurKernel = cfg.BlurKernel
	opts.Edge.DilateKernel = cfg.DilateKernel
	if f.minPoints > 0 {
		opts.MinPoints = f.minPoints
	}
	if f.maxPoints > 0 {
		opts.MaxPoints = f.maxPoints
	}
	if f.parallel {
		opts.Workers = runtime.NumCPU()
	}
	return opts, nil
}

func newTraceCmd(root *rootOptions) *cobra.Command {
	flags := &traceFlags{}
	var mode string

	cmd := &cobra.Command{
		Use:   "trace IMAGE",
		Short: "Extract and sample contours without drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}

			res, err := pipeline.Run(args[0], opts)
			if err != nil {
				return err
			}
			printSummary(cmd, args[0], res)

			for i, c := range res.Contours {
				logger.Debug("contour %3d: %4d points -> %3d sampled, bounds %+v, parent %d, hole %v",
					i, c.Len(), res.Sampled[i].Len(), c.Bounds(), c.Parent, c.Hole)
			}

			if flags.previewPath != "" {
				if mode == "" {
					mode = cfg.Mode
				}
				m, err := stroke.ParseMode(mode)
				if err != nil {
					return err
				}
				if err := writePreview(flags.previewPath, res, m); err != nil {
					return err
				}
				cmd.Printf("Preview written to %s\n", flags.previewPath)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&mode, "mode", "", "stroke mode for the preview: click or drag")
	return cmd
}

func printSummary(cmd *cobra.Command, path string, res *pipeline.Result) {
	cmd.Printf("Loaded %s, scaled to %s, found %d contours.\n", path, res.Size, res.Stats.Contours)
	if res.Stats.Contours > 0 {
		cmd.Printf("  %d points traced, %d after sampling (mean %.1f, longest %d), %d holes\n",
			res.Stats.TotalPoints, res.Stats.SampledPoints, res.Stats.MeanPoints,
			res.Stats.LongestPoints, res.Stats.Holes)
	}
	logger.Info("canny thresholds [%d,%d] from median %.1f",
		res.Thresholds.Lower, res.Thresholds.Upper, res.Thresholds.Median)
}

func writePreview(path string, res *pipeline.Result, mode stroke.Mode) error {
	opts := preview.DefaultOptions()
	opts.Mode = mode
	strokes := stroke.Build(res.Sampled, geometry.PointInt{})
	if err := preview.WritePNG(path, strokes, geometry.PointInt{}, res.Size, opts); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
