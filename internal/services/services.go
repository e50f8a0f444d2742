// package services defines interface AlbumService for interacting with the Google Photos Library API
package services

import (
	"context"

	photoslibrary "github.com/nekr0z/gphotoslibrary"

	"github.com/desertthunder/autoalbum/internal/models"
)

// OAuth scopes used by autoalbum.
const (
	ScopeReadonly       = photoslibrary.PhotoslibraryReadonlyScope
	ScopeAppendOnly     = photoslibrary.PhotoslibraryAppendonlyScope
	ScopeSharing        = photoslibrary.PhotoslibrarySharingScope
	ScopeEditAppCreated = "https://www.googleapis.com/auth/photoslibrary.edit.appcreateddata"
)

// DefaultScopes covers listing every album, creating albums and mutating app-created albums.
var DefaultScopes = []string{ScopeEditAppCreated, ScopeAppendOnly, ScopeReadonly}

// AlbumService defines the album operations autoalbum needs from the photo library.
type AlbumService interface {
	// ListAlbums returns one page of owned or shared albums, starting at pageToken ("" for the first page).
	ListAlbums(ctx context.Context, ownership models.Ownership, pageToken string) (*models.Page[models.Album], error)

	// ListAllAlbums follows continuation tokens and returns every owned or shared album.
	ListAllAlbums(ctx context.Context, ownership models.Ownership) ([]models.Album, error)

	// AlbumContents returns one page of media items in an album.
	AlbumContents(ctx context.Context, albumID, pageToken string) (*models.Page[models.MediaItem], error)

	// AllAlbumContents returns every media item in an album, in server order.
	AllAlbumContents(ctx context.Context, albumID string) ([]models.MediaItem, error)

	// CreateAlbum creates a new owned album.
	CreateAlbum(ctx context.Context, title string) (*models.Album, error)

	// AddMedia adds media items to an album in server-sized batches.
	AddMedia(ctx context.Context, albumID string, mediaIDs []string) error

	// RemoveMedia removes media items from an album in server-sized batches.
	RemoveMedia(ctx context.Context, albumID string, mediaIDs []string) error
}
