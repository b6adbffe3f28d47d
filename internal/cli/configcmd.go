package cli

import (
	"drawbot/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Long: `Show the effective settings as TOML.

With --write the settings are saved to the default config file, creating it
with the built-in defaults on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			if write {
				path := root.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := config.Save(path, cfg); err != nil {
					return err
				}
				cmd.Printf("Settings written to %s\n", path)
				return nil
			}

			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "save the settings to the config file")
	return cmd
}
