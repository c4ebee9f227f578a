package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mapcycle-sync/core/config"
	"mapcycle-sync/core/logger"
	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/core/steam"
	"mapcycle-sync/feature/mapcycle"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Flags for the sync command
	syncAPIKey         string
	syncDryRun         bool
	syncQuiet          bool
	syncListDuplicates bool
)

// syncCmd imports workshop collections into a mapcycle.
var syncCmd = &cobra.Command{
	Use:   "sync [mapcycle]",
	Short: "Sync workshop collections into a mapcycle file",
	Long: `Fetches the given Steam Workshop collections and rewrites the workshop
entries of the mapcycle. Local maps, comments and blank lines are kept.

Flags override the MAPCYCLE_* settings from the environment or .env file.

Examples:
  # Preview the changes
  mapcycle-sync sync tf/cfg/mapcycle.txt -c 123456789 --dry-run

  # Import two collections without Halloween maps, keeping a backup
  mapcycle-sync sync tf/cfg/mapcycle.txt -c 123 -c 456 --exclude-workshop-tag Halloween --backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	addMapcycleFlags(f)
	f.StringVar(&syncAPIKey, "api-key", "", "Steam WebAPI key (falls back to STEAM_API_KEY)")
	f.BoolVar(&syncDryRun, "dry-run", false, "do not write the mapcycle, only display changes")
	f.BoolVarP(&syncQuiet, "quiet", "q", false, "do not print informational text if nothing changed")
	f.BoolVar(&syncListDuplicates, "list-duplicates", false, "list maps whose names suggest they are copies of each other")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mc := mergeSyncFlags(cmd.Flags(), cfg.Mapcycle, args)
	opts, err := mc.SyncOptions()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if syncDryRun {
		if opts.Backup {
			fmt.Fprintln(out, "Ignoring --backup flag as we are doing a dry run.")
		}
		if syncQuiet {
			fmt.Fprintln(out, "Ignoring --quiet flag as we are doing a dry run.")
		}
		opts.DryRun = true
		opts.Backup = false
	}
	quiet := syncQuiet && !syncDryRun
	if quiet {
		cfg.Log.Level = "warn"
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// Reject conflicting filters before any request is made
	if err := opts.Filter.Validate(); err != nil {
		return err
	}

	engine := reconcile.NewEngine(mc.Prefixes())

	if len(opts.Collections) == 0 {
		if !syncListDuplicates {
			return mapcycle.ErrNoCollections
		}
		groups, err := mapcycle.NewService(nil, engine, nil, nil, l).Duplicates(opts.Path)
		if err != nil {
			return err
		}
		return mapcycle.WriteDuplicates(out, groups)
	}

	steamCfg := cfg.Steam
	if cmd.Flags().Changed("api-key") {
		steamCfg.APIKey = syncAPIKey
	}
	fetcher, err := steam.NewClient(steamCfg, l)
	if err != nil {
		return err
	}

	var backups *mapcycle.Backuper
	if opts.Backup {
		backups = newBackuper(cfg, l)
	}

	svc := mapcycle.NewService(fetcher, engine, backups, openHistory(cfg, l), l)
	report, err := svc.Sync(ctx, opts)
	if err != nil {
		return err
	}

	return mapcycle.WriteReport(out, report, mapcycle.ReportOptions{
		Quiet:          quiet,
		ListDuplicates: syncListDuplicates,
	})
}

// addMapcycleFlags registers the flags that override mapcycle settings.
func addMapcycleFlags(f *pflag.FlagSet) {
	f.StringArrayP("collection", "c", nil, "workshop collection ID or URL to retrieve maps from (repeatable)")
	f.StringArray("include-workshop-tag", nil, "allow workshop maps that carry one or more of these tags (repeatable)")
	f.StringArray("exclude-workshop-tag", nil, "ignore workshop maps that carry this tag (repeatable)")
	f.Bool("backup", false, "save a backup copy of the mapcycle before changing it")
	f.String("memo", mapcycle.DefaultMemo, "comment written above the imported workshop maps")
}

// mergeSyncFlags overlays the flags the user set onto the configured settings.
func mergeSyncFlags(flags *pflag.FlagSet, cfg mapcycle.Config, args []string) mapcycle.Config {
	if len(args) > 0 {
		cfg.Path = args[0]
	}
	if flags.Changed("collection") {
		cfg.Collections, _ = flags.GetStringArray("collection")
	}
	if flags.Changed("include-workshop-tag") {
		cfg.IncludeTags, _ = flags.GetStringArray("include-workshop-tag")
	}
	if flags.Changed("exclude-workshop-tag") {
		cfg.ExcludeTags, _ = flags.GetStringArray("exclude-workshop-tag")
	}
	if flags.Changed("backup") {
		cfg.Backup, _ = flags.GetBool("backup")
	}
	if flags.Changed("memo") {
		cfg.Memo, _ = flags.GetString("memo")
	}
	return cfg
}
