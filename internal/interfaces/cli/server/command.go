// Package server implements the `centrex server` command.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/centrex-inc/centrex/internal/infrastructure/config"
	"github.com/centrex-inc/centrex/internal/infrastructure/database"
	"github.com/centrex-inc/centrex/internal/infrastructure/migration"
	httpiface "github.com/centrex-inc/centrex/internal/interfaces/http"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// NewCommand creates the server command
func NewCommand() *cobra.Command {
	var (
		env         string
		autoMigrate bool
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the Centrex HTTP server",
		Long:  "Start the Centrex account management API server with graceful shutdown support",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(env, autoMigrate)
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations before starting")

	return cmd
}

func runServer(env string, autoMigrate bool) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	gin.SetMode(mapEnvToGinMode(env))

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Errorw("failed to close database connection", "error", err)
		}
	}()
	db := database.Get()

	if autoMigrate {
		manager := migration.NewManager(env)
		if err := manager.Migrate(db, migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Errorw("failed to close redis connection", "error", err)
			}
		}()
	}

	router := httpiface.NewRouter(db, redisClient, cfg, log)
	router.SetupRoutes(log)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("starting HTTP server", "addr", srv.Addr, "env", env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Infow("server exited")
	return nil
}

func mapEnvToGinMode(env string) string {
	switch env {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
