package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"drawbot/internal/config"
	"drawbot/internal/logger"
	"drawbot/internal/pipeline"
	"drawbot/internal/stroke"
	"drawbot/pkg/geometry"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type drawFlags struct {
	traceFlags
	origin    string
	backend   string
	mode      string
	delay     time.Duration
	countdown time.Duration
	yes       bool
	jcodeOut  string
}

func newDrawCmd(root *rootOptions) *cobra.Command {
	flags := &drawFlags{}

	cmd := &cobra.Command{
		Use:   "draw IMAGE",
		Short: "Trace an image and draw it with the pointer",
		Long: `Trace an image and draw it with the pointer.

The backend is probed before the image is read. Once drawing starts it runs
to completion; the first failed pointer command aborts the whole drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			return runDraw(cmd, args[0], flags, cfg)
		},
	}

	flags.register(cmd.Flags())
	fs := cmd.Flags()
	fs.StringVar(&flags.origin, "origin", "", "absolute desktop position of the image's top-left corner as X,Y (default from config)")
	fs.StringVar(&flags.backend, "backend", "", "automation backend: ydotool, robotgo, jcode or record (default from config)")
	fs.StringVar(&flags.mode, "mode", "", "stroke mode: click (dotted) or drag (continuous) (default from config)")
	fs.DurationVar(&flags.delay, "delay", 0, "pause between pointer commands (default from config)")
	fs.DurationVar(&flags.countdown, "countdown", 0, "wait before drawing starts (default from config)")
	fs.BoolVarP(&flags.yes, "yes", "y", false, "do not wait for Enter before drawing")
	fs.StringVar(&flags.jcodeOut, "jcode-out", "drawing.jcode", "output file for the jcode backend")
	return cmd
}

func runDraw(cmd *cobra.Command, path string, flags *drawFlags, cfg config.Config) error {
	changed := cmd.Flags().Changed
	session := uuid.New()
	logger.Section("Draw")
	logger.Info("session %s", session)

	backend := cfg.Backend
	if changed("backend") {
		backend = flags.backend
	}

	// Probe once, before any image work.
	capability := stroke.Probe(backend)
	if err := capability.Err(); err != nil {
		return err
	}
	logger.Debug("backend %s available %s", capability.Backend, capability.Path)

	driverOpts := stroke.DefaultOptions()
	mode := cfg.Mode
	if changed("mode") {
		mode = flags.mode
	}
	m, err := stroke.ParseMode(mode)
	if err != nil {
		return err
	}
	driverOpts.Mode = m
	driverOpts.Delay = cfg.Delay.Std()
	if changed("delay") {
		driverOpts.Delay = flags.delay
	}
	countdown := cfg.Countdown.Std()
	if changed("countdown") {
		countdown = flags.countdown
	}

	origin := geometry.PointInt{X: cfg.OriginX, Y: cfg.OriginY}
	if changed("origin") {
		if origin, err = geometry.ParsePointInt(flags.origin); err != nil {
			return err
		}
	}

	opts, err := flags.options(cfg)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(path, opts)
	if err != nil {
		return err
	}
	printSummary(cmd, path, res)

	strokes := stroke.Build(res.Sampled, origin)
	if flags.previewPath != "" {
		if err := writePreview(flags.previewPath, res, m); err != nil {
			return err
		}
		cmd.Printf("Preview written to %s\n", flags.previewPath)
	}

	bcfg := stroke.BackendConfig{YdotoolPath: cfg.YdotoolPath, JCodeSpeed: cfg.JCodeSpeed}
	if capability.Backend == stroke.BackendJCode {
		f, err := os.Create(flags.jcodeOut)
		if err != nil {
			return fmt.Errorf("failed to create jcode output: %w", err)
		}
		defer f.Close()
		bcfg.JCodeOut = f
	}

	backendImpl, err := stroke.Open(capability, bcfg)
	if err != nil {
		return err
	}
	if c, ok := backendImpl.(io.Closer); ok {
		defer c.Close()
	}

	driverOpts.Progress = func(done, total int) {
		logger.Debug("stroke %d/%d done", done, total)
	}
	driver, err := stroke.NewDriver(backendImpl, capability, driverOpts)
	if err != nil {
		return err
	}

	if err := waitForUser(cmd, flags.yes, countdown); err != nil {
		return err
	}

	cmd.Printf("Drawing %d strokes at %s in %s mode...\n", len(strokes), origin, m)
	stats, err := driver.Draw(context.Background(), strokes)
	if err != nil {
		return err
	}

	if rec, ok := backendImpl.(*stroke.Recorder); ok {
		cmd.Printf("Recorded %d backend calls.\n", len(rec.Calls()))
	}
	if c, ok := backendImpl.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}
	cmd.Printf("Done: %d strokes, %d points, %d moves, %d clicks in %s (session %s).\n",
		stats.Strokes, stats.Points, stats.Moves, stats.Clicks, stats.Elapsed.Round(time.Millisecond), session)
	return nil
}

// waitForUser gives the user a chance to focus the drawing window. The Enter
// prompt is only shown on an interactive terminal.
func waitForUser(cmd *cobra.Command, skipPrompt bool, countdown time.Duration) error {
	if !skipPrompt && isTerminal(cmd.InOrStdin()) {
		cmd.Print("Prepare your drawing window and press Enter...")
		if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err != nil && err != io.EOF {
			return err
		}
	}
	if countdown > 0 {
		cmd.Printf("Waiting %s to switch to your drawing window...\n", countdown)
		time.Sleep(countdown)
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
