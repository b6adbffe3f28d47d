package cli

import (
	"strings"

	"drawbot/internal/stroke"

	"github.com/spf13/cobra"
)

func newProbeCmd(root *rootOptions) *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that an automation backend is usable",
		Long: `Check that an automation backend is usable.

Available backends: ` + strings.Join(stroke.Backends(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("backend") {
				backend = cfg.Backend
			}

			c := stroke.Probe(backend)
			if err := c.Err(); err != nil {
				return err
			}
			if c.Path != "" {
				cmd.Printf("%s: available (%s)\n", c.Backend, c.Path)
			} else {
				cmd.Printf("%s: available\n", c.Backend)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "backend to probe")
	return cmd
}
