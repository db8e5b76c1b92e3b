// Package migrate implements the `centrex migrate` command.
package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/centrex-inc/centrex/internal/infrastructure/config"
	"github.com/centrex-inc/centrex/internal/infrastructure/database"
	"github.com/centrex-inc/centrex/internal/infrastructure/migration"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// NewCommand creates the migrate command
func NewCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newUpCommand(&env))
	cmd.AddCommand(newDownCommand(&env))
	cmd.AddCommand(newStatusCommand(&env))

	return cmd
}

func newUpCommand(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(*env, func(manager *migration.Manager) error {
				db := database.Get()
				return manager.Migrate(db, migration.AutoMigrateModels()...)
			})
		},
	}
}

func newDownCommand(env *string) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(*env, func(manager *migration.Manager) error {
				strategy, ok := manager.GetStrategy().(*migration.GolangMigrateStrategy)
				if !ok {
					return fmt.Errorf("rollback requires versioned migrations (strategy %s does not support it)", manager.GetStrategy().GetName())
				}
				return strategy.MigrateDown(database.Get(), steps)
			})
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	return cmd
}

func newStatusCommand(env *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(*env, func(manager *migration.Manager) error {
				strategy, ok := manager.GetStrategy().(*migration.GolangMigrateStrategy)
				if !ok {
					fmt.Printf("strategy: %s (no version tracking)\n", manager.GetStrategy().GetName())
					return nil
				}
				version, dirty, err := strategy.GetVersion(database.Get())
				if err != nil {
					return fmt.Errorf("failed to read migration version: %w", err)
				}
				fmt.Printf("version: %d, dirty: %t\n", version, dirty)
				return nil
			})
		},
	}
}

// withDatabase loads config, opens the database, and hands a migration
// manager to fn, closing the connection afterwards.
func withDatabase(env string, fn func(*migration.Manager) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close() //nolint:errcheck

	scriptsPath, _ := filepath.Abs("./internal/infrastructure/migration/scripts")
	var manager *migration.Manager
	if env == "development" {
		manager = migration.NewManager(env)
	} else {
		manager = migration.NewManagerWithStrategy(migration.NewGolangMigrateStrategy(scriptsPath))
	}

	return fn(manager)
}
