package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mapcycle-sync/core/config"
	"mapcycle-sync/core/loader"
	"mapcycle-sync/core/logger"
	"mapcycle-sync/core/middleware/auth"
	"mapcycle-sync/core/middleware/rayid"
	"mapcycle-sync/core/reconcile"
	"mapcycle-sync/core/steam"
	"mapcycle-sync/feature/mapcycle"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the mapcycle sync server",
	Long:  `Starts the HTTP server exposing plan, sync and duplicate endpoints for the configured mapcycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsSecured() {
			logg.Fatal("Refusing to start without SERVER_API_KEY")
		}

		// 3. Steam client and sync options
		fetcher, err := steam.NewClient(cfg.Steam, logg)
		if err != nil {
			logg.Fatal("Failed to create Steam client", zap.Error(err))
		}
		opts, err := cfg.Mapcycle.SyncOptions()
		if err != nil {
			logg.Fatal("Invalid mapcycle configuration", zap.Error(err))
		}
		if err := opts.Filter.Validate(); err != nil {
			logg.Fatal("Invalid mapcycle configuration", zap.Error(err))
		}

		// 4. Optional backups and history
		var backups *mapcycle.Backuper
		if opts.Backup {
			backups = newBackuper(cfg, logg)
		}
		engine := reconcile.NewEngine(cfg.Mapcycle.Prefixes())
		svc := mapcycle.NewService(fetcher, engine, backups, openHistory(cfg, logg), logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// 5. Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(mapcycle.NewFeature(svc, opts, cfg.Server.RequestTimeout()))

		// RayID first so every log line can be traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()), zap.String("mapcycle", opts.Path))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
