package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	photoslibrary "github.com/nekr0z/gphotoslibrary"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/shared"
)

const (
	maxAlbumPageSize = 50
	maxMediaPageSize = 100
)

// PhotosOpts configures a [PhotosService].
type PhotosOpts struct {
	PageSize          int     // Listing page size; zero uses the server maximum
	BatchSize         int     // Ids per add/remove call; zero uses [DefaultBatchSize]
	RequestsPerSecond float64 // Remote call rate; zero or less disables limiting
	Logger            *log.Logger
	BasePath          string // Overrides the API root, used against test servers
}

// PhotosService implements [AlbumService] on top of the Photos Library API.
type PhotosService struct {
	svc       *photoslibrary.Service
	client    *http.Client
	limiter   *rate.Limiter
	pageSize  int
	batchSize int
	logger    *log.Logger
}

// NewPhotosService wraps client, which must already carry OAuth credentials.
func NewPhotosService(client *http.Client, opts PhotosOpts) (*PhotosService, error) {
	svc, err := photoslibrary.New(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create photos library service: %w", err)
	}
	if opts.BasePath != "" {
		svc.BasePath = opts.BasePath
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &PhotosService{
		svc:       svc,
		client:    client,
		limiter:   rate.NewLimiter(limit, 1),
		pageSize:  opts.PageSize,
		batchSize: opts.BatchSize,
		logger:    logger,
	}, nil
}

func (s *PhotosService) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (s *PhotosService) pageSizeFor(max int) int64 {
	if s.pageSize <= 0 || s.pageSize > max {
		return int64(max)
	}
	return int64(s.pageSize)
}

// ListAlbums returns one page of owned or shared albums.
func (s *PhotosService) ListAlbums(ctx context.Context, ownership models.Ownership, pageToken string) (*models.Page[models.Album], error) {
	switch ownership {
	case models.Owned:
		return s.listOwnedAlbums(ctx, pageToken)
	case models.Shared:
		return s.listSharedAlbums(ctx, pageToken)
	default:
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, ownership)
	}
}

func (s *PhotosService) listOwnedAlbums(ctx context.Context, pageToken string) (*models.Page[models.Album], error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.listAlbums(ctx, "v1/albums", pageToken)
	if err != nil {
		return nil, fmt.Errorf("%w: albums.list: %w", shared.ErrAPIRequest, err)
	}

	page := &models.Page[models.Album]{NextPageToken: resp.NextPageToken}
	for _, a := range resp.Albums {
		if a != nil {
			page.Items = append(page.Items, toAlbum(a, models.Owned))
		}
	}
	return page, nil
}

func (s *PhotosService) listSharedAlbums(ctx context.Context, pageToken string) (*models.Page[models.Album], error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.listAlbums(ctx, "v1/sharedAlbums", pageToken)
	if err != nil {
		return nil, fmt.Errorf("%w: sharedAlbums.list: %w", shared.ErrAPIRequest, err)
	}

	page := &models.Page[models.Album]{NextPageToken: resp.NextPageToken}
	for _, a := range resp.SharedAlbums {
		if a != nil {
			page.Items = append(page.Items, toAlbum(a, models.Shared))
		}
	}
	return page, nil
}

// ListAllAlbums returns every owned or shared album.
func (s *PhotosService) ListAllAlbums(ctx context.Context, ownership models.Ownership) ([]models.Album, error) {
	albums, err := FetchAll(ctx, func(ctx context.Context, token string) (*models.Page[models.Album], error) {
		return s.ListAlbums(ctx, ownership, token)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed albums", "ownership", ownership, "count", len(albums))
	return albums, nil
}

// AlbumContents returns one page of the media items in albumID.
func (s *PhotosService) AlbumContents(ctx context.Context, albumID, pageToken string) (*models.Page[models.MediaItem], error) {
	if albumID == "" {
		return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	req := &photoslibrary.SearchMediaItemsRequest{
		AlbumId:   albumID,
		PageSize:  s.pageSizeFor(maxMediaPageSize),
		PageToken: pageToken,
	}

	resp, err := s.svc.MediaItems.Search(req).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %w", shared.ErrAlbumNotFound, albumID, err)
		}
		return nil, fmt.Errorf("%w: mediaItems.search: %w", shared.ErrAPIRequest, err)
	}

	page := &models.Page[models.MediaItem]{NextPageToken: resp.NextPageToken}
	for _, m := range resp.MediaItems {
		if m == nil {
			continue
		}
		item, err := toMediaItem(m)
		if err != nil {
			return nil, fmt.Errorf("%w: mediaItems.search: %w", shared.ErrAPIRequest, err)
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// AllAlbumContents returns every media item in albumID in server order.
func (s *PhotosService) AllAlbumContents(ctx context.Context, albumID string) ([]models.MediaItem, error) {
	items, err := FetchAll(ctx, func(ctx context.Context, token string) (*models.Page[models.MediaItem], error) {
		return s.AlbumContents(ctx, albumID, token)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed album contents", "album", albumID, "count", len(items))
	return items, nil
}

// CreateAlbum creates an owned album titled title.
func (s *PhotosService) CreateAlbum(ctx context.Context, title string) (*models.Album, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: album title", shared.ErrMissingArgument)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	req := &photoslibrary.CreateAlbumRequest{Album: &photoslibrary.Album{Title: title}}
	created, err := s.svc.Albums.Create(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: albums.create: %w", shared.ErrAPIRequest, err)
	}

	album := toAlbum(&albumResource{
		ID:          created.Id,
		Title:       created.Title,
		ProductURL:  created.ProductUrl,
		IsWriteable: created.IsWriteable,
	}, models.Owned)
	s.logger.Info("created album", "id", album.ID, "title", album.Title)
	return &album, nil
}

// AddMedia adds mediaIDs to albumID, at most one batch per call.
func (s *PhotosService) AddMedia(ctx context.Context, albumID string, mediaIDs []string) error {
	return Batch(ctx, mediaIDs, s.batchSize, func(ctx context.Context, chunk []string) error {
		if err := s.wait(ctx); err != nil {
			return err
		}

		if err := s.batchMediaItems(ctx, albumID, "batchAddMediaItems", chunk); err != nil {
			return fmt.Errorf("albums.batchAddMediaItems: %w", err)
		}

		s.logger.Debug("added media", "album", albumID, "count", len(chunk))
		return nil
	})
}

// RemoveMedia removes mediaIDs from albumID, at most one batch per call.
func (s *PhotosService) RemoveMedia(ctx context.Context, albumID string, mediaIDs []string) error {
	return Batch(ctx, mediaIDs, s.batchSize, func(ctx context.Context, chunk []string) error {
		if err := s.wait(ctx); err != nil {
			return err
		}

		if err := s.batchMediaItems(ctx, albumID, "batchRemoveMediaItems", chunk); err != nil {
			return fmt.Errorf("albums.batchRemoveMediaItems: %w", err)
		}

		s.logger.Debug("removed media", "album", albumID, "count", len(chunk))
		return nil
	})
}

// IsPermissionDenied reports whether err carries a Photos Library rejection of a mutation,
// typically an album or media item the app did not create.
func IsPermissionDenied(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusBadRequest
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func toMediaItem(m *photoslibrary.MediaItem) (models.MediaItem, error) {
	item := models.MediaItem{ID: m.Id, MimeType: m.MimeType, Filename: m.Filename}

	if m.MediaMetadata != nil && m.MediaMetadata.CreationTime != "" {
		created, err := time.Parse(time.RFC3339Nano, m.MediaMetadata.CreationTime)
		if err != nil {
			return item, fmt.Errorf("media item %s: creation time %q: %w", m.Id, m.MediaMetadata.CreationTime, err)
		}
		item.CreationTime = created
	}

	return item, nil
}
