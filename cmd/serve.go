package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blindermanupwork/property-management-automation-sub007/core/config"
	"github.com/blindermanupwork/property-management-automation-sub007/core/database"
	"github.com/blindermanupwork/property-management-automation-sub007/core/loader"
	"github.com/blindermanupwork/property-management-automation-sub007/core/logger"
	"github.com/blindermanupwork/property-management-automation-sub007/core/middleware/auth"
	"github.com/blindermanupwork/property-management-automation-sub007/core/middleware/rayid"
	"github.com/blindermanupwork/property-management-automation-sub007/core/storage"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/automation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/workorder"

	_ "github.com/blindermanupwork/property-management-automation-sub007/docs/swagger"
)

// @title Property Management Automation API
// @version 1.0
// @description API for reservation records, schedules, and work-order sync.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the automation API server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if !cfg.Server.IsValidEnvironment() {
			log.Fatalf("Unknown environment %q", cfg.Server.Environment)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		logg = logg.With(zap.String("environment", cfg.Server.Environment))

		// 3. Connect to the record store mirror
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		records := store.NewGormStore(db)
		if err := records.Migrate(); err != nil {
			logg.Fatal("Failed to migrate record tables", zap.Error(err))
		}

		// 4. Archive storage (optional: runs proceed without it)
		var archive storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Archive storage unavailable, run reports will not be archived", zap.Error(err))
		} else {
			archive = client
		}

		// 5. Work-order store client and run controller
		jobs := workorder.NewClient(cfg.Workorder)
		controller := automation.NewController(
			cfg.Automation,
			cfg.Server.Environment,
			logg,
			records,
			records,
			jobs,
			archive,
			cfg.Storage.Bucket,
		)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 7. Feature registry
		mgr := loader.NewManager()
		snapshotTTL := time.Duration(cfg.Automation.SnapshotTTLSeconds) * time.Second
		mgr.Register(reservation.NewFeature(logg, records, controller, snapshotTTL))

		// Middleware: ray id first so every request is traceable.
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

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth protects everything below.
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
