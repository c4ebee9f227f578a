package cmd

import (
	"fmt"

	"mapcycle-sync/core/config"
	"mapcycle-sync/core/logger"
	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/feature/mapcycle"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// duplicatesCmd lists possible duplicate maps of a mapcycle.
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates [mapcycle]",
	Short: "List maps of a mapcycle that look like copies of each other",
	Long: `Groups the maps of a mapcycle by their normalized name with the gamemode
prefix removed, e.g. pl_badwater and workshop/badwater.ugc123. Nothing is fetched
or written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		path := cfg.Mapcycle.Path
		if len(args) > 0 {
			path = args[0]
		}

		engine := reconcile.NewEngine(cfg.Mapcycle.Prefixes())
		groups, err := mapcycle.NewService(nil, engine, nil, nil, l).Duplicates(path)
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			l.Info("No potential duplicates found", zap.String("mapcycle", path))
			return nil
		}
		return mapcycle.WriteDuplicates(cmd.OutOrStdout(), groups)
	},
}

func init() {
	RootCmd.AddCommand(duplicatesCmd)
}
