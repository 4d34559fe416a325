package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"oppgave-sync/core/config"
	"oppgave-sync/core/database"
	"oppgave-sync/core/loader"
	"oppgave-sync/core/logger"
	"oppgave-sync/core/middleware/auth"
	"oppgave-sync/core/middleware/rayid"
	"oppgave-sync/feature/oppgave"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the oppgave sync server",
	Long:  `Starts the stream consumer and the HTTP server with the batch trigger endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Loggers
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		secure, err := logger.NewSecure(&cfg.Log)
		if err != nil {
			logg.Fatal("Failed to initialize secure logger", zap.Error(err))
		}
		defer secure.Sync()

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()

		feature, err := oppgave.NewFeature(cfg, db, logg, secure)
		if err != nil {
			logg.Fatal("Failed to initialize oppgave feature", zap.Error(err))
		}
		mgr.Register(feature)

		// Middleware Registration
		// RayID must be first to trace everything.
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

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Stream Consumer
		consumerCtx, stopConsumer := context.WithCancel(context.Background())
		consumerDone := make(chan struct{})
		go func() {
			defer close(consumerDone)
			if err := feature.Consumer().Run(consumerCtx); err != nil {
				logg.Error("Stream consumer stopped", zap.Error(err))
			}
		}()

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		stopConsumer()
		_ = feature.Consumer().Close()
		<-consumerDone
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
