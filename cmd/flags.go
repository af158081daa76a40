package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/flags"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List feature flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := flags.New(cfg.Flags)
		for _, name := range flags.Known() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %t\n", name, reg.Enabled(name))
		}
		return nil
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set <name> <true|false>",
	Short: "Enable or disable a feature flag in the config file",
	Long: `Enable or disable a feature flag in the config file in use.
Comments in the file are kept.

Examples:
  wildo flags set autosave true
  wildo flags set watch false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !flags.IsKnown(name) {
			return fmt.Errorf("unknown flag %q (known: %v)", name, flags.Known())
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("flag value: %w", err)
		}

		path := v.ConfigFileUsed()
		if path == "" {
			path = configPath()
		}
		if err := config.SaveFlag(path, name, enabled); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %t in %s\n", name, enabled, path)
		return nil
	},
}

func init() {
	flagsCmd.AddCommand(flagsSetCmd)
	rootCmd.AddCommand(flagsCmd)
}
