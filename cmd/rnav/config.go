package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kk-code-lab/rnav/internal/config"
)

func newConfigCmd() *cobra.Command {
	var (
		showDefault bool
		showPath    bool
		file        string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration rnav would run with, as TOML.

Examples:
  rnav config                  # effective configuration
  rnav config --default        # built-in defaults, a starting point for config.toml
  rnav config --path           # where config.toml is looked up`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showPath {
				path, err := config.DefaultPath()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, path)
				return err
			}
			cfg := config.Default()
			if !showDefault {
				loaded, err := config.Load(file)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&showDefault, "default", false, "print the built-in defaults")
	cmd.Flags().BoolVar(&showPath, "path", false, "print the default config file path")
	cmd.Flags().StringVarP(&file, "config", "c", "", "config file to read")
	cmd.MarkFlagsMutuallyExclusive("default", "path")
	return cmd
}
