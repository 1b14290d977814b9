package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/solowindow/internal/config"
)

// loadConfig loads --config, or the default path when unset.
func loadConfig(cmd *cobra.Command) (*config.LoadResult, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config: ok (%d file(s))\n", len(res.Files))
			return nil
		},
	}

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if defaults, _ := cmd.Flags().GetBool("defaults"); !defaults {
				res, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	printCmd.Flags().Bool("defaults", false, "Print built-in defaults (no files)")

	explain := &cobra.Command{
		Use:       "explain <key>",
		Short:     "Show a configuration value and where it came from",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path: %s\n", args[0])
			fmt.Fprintf(out, "source: %s\n", formatSource(src))
			fmt.Fprintf(out, "value: %v\n", value)
			return nil
		},
	}

	cmd.AddCommand(validate, printCmd, explain)
	return cmd
}
