package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/shared"
)

// Setup writes the default settings file when missing and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	settingsPath := cmd.String("settings")

	if _, err := os.Stat(settingsPath); err == nil {
		r.logger.Info("settings file exists", "path", settingsPath)
	} else {
		r.logger.Info("settings file not found, creating from template", "path", settingsPath)
		if err := shared.CreateConfigFile(settingsPath); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
		r.writePlain("✓ Wrote settings to %s\n", settingsPath)
	}

	config, err := shared.LoadConfig(settingsPath)
	if err != nil {
		return err
	}
	r.config = config

	if cmd.Bool("rollback") {
		return r.rollback(config.Database)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	version, _, err := shared.MigrationVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s (schema version %d)\n", config.Database.Path, version)
}

// rollback reverts the latest migration of the history database.
func (r *Runner) rollback(conf shared.DatabaseConfig) error {
	db, err := shared.NewDatabase(conf.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}

	r.logger.Info("rolled back latest migration", "path", conf.Path)
	return r.writePlain("✓ Rolled back the latest migration of %s\n", conf.Path)
}
