package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
	"github.com/desertthunder/autoalbum/internal/ui"
	"github.com/desertthunder/autoalbum/internal/wizard"
)

const configureLogPath = "./tmp/autoalbum-configure.log"

// Configure launches the wizard TUI and writes the resulting sync configuration.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) error {
	path := shared.ResolveSyncConfigPath(cmd.StringArg("path"))

	existing, err := r.existingSyncConfig(path)
	if err != nil {
		return err
	}
	if existing != nil {
		r.writePlain("Configuration file exists at this location: %q\n", path)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(configureLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	stderrLogger := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(stderrLogger)

	w := wizard.New(wizard.Options{
		Existing:   existing,
		SecretFile: cmd.String("secret-file"),
		Connect: func(ctx context.Context, secret json.RawMessage) (services.AlbumService, error) {
			return r.albums(ctx, secret, services.DefaultScopes)
		},
		OnDelete: func() error { return os.Remove(path) },
	})

	final, err := tea.NewProgram(ui.NewModel(ctx, w)).Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return r.finishConfigure(path, w, final)
}

// existingSyncConfig loads the configuration at path, returning nil when there is none yet.
func (r *Runner) existingSyncConfig(path string) (*models.SyncConfiguration, error) {
	conf, err := shared.LoadSyncConfig(path)
	if errors.Is(err, shared.ErrMissingConfig) {
		return nil, nil
	}
	return conf, err
}

// finishConfigure saves the wizard result once the TUI has exited.
func (r *Runner) finishConfigure(path string, w *wizard.Wizard, final tea.Model) error {
	model, ok := final.(ui.Model)
	if !ok {
		return fmt.Errorf("unexpected TUI model %T", final)
	}

	if !model.Done() {
		if err := model.Err(); err != nil {
			return err
		}
		return r.writePlain("Configuration cancelled, nothing written.\n")
	}

	if album := w.CreatedAlbum(); album != nil {
		r.writePlain("Created album %q (%s)\n", album.Title, album.ID)
	}

	if err := shared.SaveSyncConfig(path, w.Result()); err != nil {
		return err
	}
	r.logger.Info("wrote sync configuration", "path", path)

	r.writePlain("Wrote configuration file to: %s\n", path)
	if secret := w.SecretPath(); secret != "" {
		r.writePlain("It is safe to delete or relocate your secret file (%s)\n", secret)
	}
	return nil
}
