package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/repositories"
	"github.com/desertthunder/autoalbum/internal/shared"
	"github.com/desertthunder/autoalbum/internal/tasks"
)

// Sync loads the sync configuration and runs the chosen behavior against it.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("behavior")
	if name == "" {
		name = tasks.DefaultBehavior
	}

	spec, err := tasks.Lookup(name)
	if err != nil {
		return err
	}

	behavior, err := spec.New(tasks.Params{Count: cmd.Int("count")})
	if err != nil {
		return err
	}

	conf, err := shared.LoadSyncConfig(cmd.String("conf"))
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	albums, err := r.albums(ctx, conf.Auth, behavior.Scopes())
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "behavior", behavior.Name())
	opts := tasks.SyncOpts{DryRun: cmd.Bool("dry-run"), Logger: logger}
	if db := r.openHistory(); db != nil {
		defer db.Close()
		opts.Recorder = repositories.NewSyncRunRepository(db)
	}

	engine := tasks.NewSyncEngine(albums, opts)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.Sync(ctx, behavior, conf, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	return r.writeSyncResult(result)
}

// openHistory opens the run history database. History is optional, so failures are only logged.
func (r *Runner) openHistory() *sql.DB {
	db, err := shared.OpenDatabase(r.settings().Database)
	if err != nil {
		r.logger.Warn("sync history disabled", "error", err)
		return nil
	}
	return db
}

func (r *Runner) writeSyncResult(result *tasks.SyncResult) error {
	title := "Sync complete"
	if result.DryRun {
		title = "Sync plan (dry run)"
	}
	r.writePlainHeader(title)

	r.writePlain("Behavior:    %s\n", result.Behavior)
	r.writePlain("Source:      %s\n", result.Source.ID)
	r.writePlain("Destination: %s\n", result.Destination.ID)
	r.writePlain("Selected:    %d\n", len(result.Selected))

	switch {
	case result.Unchanged():
		return r.writePlain("\n✓ Destination already up to date\n")
	case result.DryRun:
		r.writePlain("Would remove: %d\n", len(result.ToRemove))
		return r.writePlain("Would add:    %d\n", len(result.ToAdd))
	}

	writeStep := func(label string, count int, err error) {
		if err != nil {
			r.writePlain("✗ %s %d items failed: %v\n", label, count, err)
			return
		}
		if count > 0 {
			r.writePlain("✓ %s %d items\n", label, count)
		}
	}
	writeStep("Removed", len(result.ToRemove), result.RemoveErr)
	writeStep("Added", len(result.ToAdd), result.AddErr)

	if result.Run != nil {
		r.writePlain("Recorded as run #%d\n", result.Run.Sequence())
	}
	return nil
}
