// Package cli implements the drawbot command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"

	"drawbot/internal/config"
	"drawbot/internal/image"
	"drawbot/internal/logger"
	"drawbot/internal/stroke"

	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitToolUnavailable = 2
	ExitImageLoad       = 3
	ExitInvalidWidth    = 4
	ExitStrokeCommand   = 5
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the drawbot command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "drawbot",
		Short: "Draw an image's outline with the mouse pointer",
		Long: `drawbot traces the edges of a raster image and replays them as pointer
strokes through an input-automation backend, drawing the outline into
whatever window has focus.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.SetVerbose(opts.verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")

	cmd.AddCommand(
		newDrawCmd(opts),
		newTraceCmd(opts),
		newProbeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, stroke.ErrToolUnavailable):
		return ExitToolUnavailable
	case errors.Is(err, image.ErrImageLoad):
		return ExitImageLoad
	case errors.Is(err, image.ErrInvalidWidth):
		return ExitInvalidWidth
	case errors.Is(err, stroke.ErrStrokeCommand):
		return ExitStrokeCommand
	default:
		return ExitFailure
	}
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	logger.Debug("config: %+v", cfg)
	return cfg, nil
}
