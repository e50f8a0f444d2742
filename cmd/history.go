package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/formatter"
	"github.com/desertthunder/autoalbum/internal/repositories"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// History prints recorded sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be at least 1", shared.ErrInvalidFlag)
	}

	db, err := shared.OpenDatabase(r.settings().Database)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{"limit": limit}
	if dest := cmd.String("dest"); dest != "" {
		criteria["dest_album_id"] = dest
	}

	runs, err := repositories.NewSyncRunRepository(db).List(criteria)
	if err != nil {
		return err
	}

	format := formatter.Text
	if cmd.Bool("json") {
		format = formatter.JSON
	}

	data, err := formatter.FormatRuns(runs, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
