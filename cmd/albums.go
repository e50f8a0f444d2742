package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/autoalbum/internal/formatter"
	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// AlbumsList prints every owned or shared album.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albums, err := r.albumService(ctx, cmd, []string{services.ScopeReadonly})
	if err != nil {
		return err
	}

	ownership := models.OwnershipOf(cmd.Bool("shared"))
	r.logger.Debug("listing albums", "ownership", ownership)

	list, err := albums.ListAllAlbums(ctx, ownership)
	if err != nil {
		return err
	}

	data, err := formatter.FormatAlbums(list, format)
	if err != nil {
		return err
	}
	return r.export(cmd.String("output"), data)
}

// AlbumsContents prints every media item in an album.
func (r *Runner) AlbumsContents(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albumID := cmd.String("id")
	if albumID == "" {
		return fmt.Errorf("%w: --id", shared.ErrMissingArgument)
	}

	albums, err := r.albumService(ctx, cmd, []string{services.ScopeReadonly})
	if err != nil {
		return err
	}

	items, err := albums.AllAlbumContents(ctx, albumID)
	if err != nil {
		return err
	}

	data, err := formatter.FormatMedia(albumID, items, format)
	if err != nil {
		return err
	}
	return r.export(cmd.String("output"), data)
}

// AlbumsCreate creates an owned album.
func (r *Runner) AlbumsCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: album title", shared.ErrMissingArgument)
	}

	albums, err := r.albumService(ctx, cmd, services.DefaultScopes)
	if err != nil {
		return err
	}

	album, err := albums.CreateAlbum(ctx, title)
	if err != nil {
		return err
	}
	r.logger.Info("created album", "id", album.ID, "title", album.Title)

	if cmd.Bool("json") {
		return r.writeJSON(album, true)
	}

	r.writePlain("✓ Created album: %s\n", album.DisplayTitle())
	r.writePlain("ID: %s\n", album.ID)
	if album.ProductURL != "" {
		r.writePlain("URL: %s\n", album.ProductURL)
	}
	return nil
}

// albumService authorizes with the client secret from the --conf sync configuration.
func (r *Runner) albumService(ctx context.Context, cmd *cli.Command, scopes []string) (services.AlbumService, error) {
	conf, err := shared.LoadSyncConfig(cmd.String("conf"))
	if err != nil {
		return nil, err
	}
	if !conf.HasAuth() {
		return nil, fmt.Errorf("%w: client secret is missing (run `autoalbum configure`)", shared.ErrMissingCredentials)
	}
	return r.albums(ctx, conf.Auth, scopes)
}

// export writes data to path, or to the runner output when path is empty.
func (r *Runner) export(path string, data []byte) error {
	if path == "" {
		return r.writeBytes(data)
	}

	if err := formatter.WriteExport(path, data); err != nil {
		return err
	}
	r.logger.Info("export complete", "path", path, "bytes", len(data))
	return nil
}
