package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/store"
)

// errNoSnapshot is returned by export when nothing was saved yet.
var errNoSnapshot = errors.New("no snapshot saved yet")

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the current snapshot as YAML",
	Long: `Print the latest snapshot from the configured store as YAML.

The output can be loaded again, into either backend, with 'wildo import'.

Examples:
  wildo export > backup.yaml
  wildo export --backend sqlite -o backup.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		snap, err := st.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		if snap == nil {
			return errNoSnapshot
		}
		data, err := store.Encode(snap)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", exportOutput, err)
		}
		log.Info(log.CatStore, "exported snapshot", "path", exportOutput, "entities", snap.Registry.Len())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
