package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/ui/markdown"
)

var (
	keysRaw   bool
	keysWidth int
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print every key binding",
	Long: `Print every key binding grouped by where it applies.

Examples:
  # Rendered for the terminal
  wildo keys

  # Plain markdown, e.g. for a README
  wildo keys --raw > KEYS.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if keysRaw {
			_, err := fmt.Fprint(cmd.OutOrStdout(), keys.Markdown())
			return err
		}
		out, err := markdown.KeyHelp(keysWidth, cfg.UI.MarkdownStyle)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	keysCmd.Flags().BoolVar(&keysRaw, "raw", false, "print markdown without rendering")
	keysCmd.Flags().IntVarP(&keysWidth, "width", "w", 80, "wrap width")
	rootCmd.AddCommand(keysCmd)
}
