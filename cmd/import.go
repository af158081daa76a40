package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the stored state with a YAML snapshot",
	Long: `Load a YAML snapshot, as written by 'wildo export', and save it to the
configured store. A running wildo with the watch flag picks it up.

Examples:
  wildo import backup.yaml
  wildo import backup.yaml --backend sqlite`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		snap, err := store.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		snap.Version = store.Version
		snap.Writer = uuid.NewString()
		snap.SavedAt = time.Now().UTC()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Save(cmd.Context(), snap); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		log.Info(log.CatStore, "imported snapshot", "file", args[0], "entities", snap.Registry.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d entities from %s\n", snap.Registry.Len(), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
