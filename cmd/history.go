package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"mapcycle-sync/core/config"
	"mapcycle-sync/core/logger"
	"mapcycle-sync/feature/mapcycle"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the latest applied syncs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently applied syncs",
	Long:  `Lists the latest syncs that rewrote a mapcycle. Requires DATABASE_ENABLED=true.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Database.Enabled {
			return errors.New("sync history is disabled: set DATABASE_ENABLED=true")
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		history := openHistory(cfg, l)
		if history == nil {
			return errors.New("sync history database is unavailable")
		}

		runs, err := history.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return printHistory(cmd, runs)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	RootCmd.AddCommand(historyCmd)
}

func printHistory(cmd *cobra.Command, runs []mapcycle.SyncRun) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMAPCYCLE\tCOLLECTIONS\tADDED\tREMOVED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t+%d\t-%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Mapcycle, r.Collections, r.Added, r.Removed)
	}
	return w.Flush()
}
