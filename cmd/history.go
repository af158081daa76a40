package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/store"
)

var errNoHistory = errors.New("history needs the sqlite backend")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved snapshot revisions",
	Long: `List the snapshot revisions kept by the sqlite backend, newest first.
The number kept is storage.history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Storage.Backend != config.BackendSQLite {
			return errNoHistory
		}
		st, err := store.OpenSQLite(cfg.Storage.ResolvedPath(), cfg.Storage.History)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		revs, err := st.Revisions(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSAVED\tWRITER\tVERSION")
		for _, r := range revs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.SavedAt.Local().Format(time.DateTime), r.Writer, r.Version)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
