package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ownership selects which album collection a listing reads from.
type Ownership int

const (
	Owned  Ownership = iota // Albums created by the user
	Shared                  // Albums shared with the user
)

// OwnershipOf maps the persisted is_shared flag to an [Ownership].
func OwnershipOf(isShared bool) Ownership {
	if isShared {
		return Shared
	}
	return Owned
}

// IsShared reports whether o is [Shared].
func (o Ownership) IsShared() bool { return o == Shared }

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("ownership(%d)", int(o))
	}
}

// Album represents a Google Photos album
type Album struct {
	ID              string `json:"id"`
	Title           string `json:"title,omitempty"`
	MediaItemsCount int64  `json:"media_items_count,omitempty"`
	Shared          bool   `json:"is_shared"`
	Writeable       bool   `json:"is_writeable,omitempty"`
	ProductURL      string `json:"product_url,omitempty"`
}

// DisplayTitle returns the album title, or a placeholder built from its size when untitled.
func (a Album) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return fmt.Sprintf("<Unnamed Album with size %d>", a.MediaItemsCount)
}

// MediaItem represents a single photo or video.
type MediaItem struct {
	ID           string    `json:"id"`
	MimeType     string    `json:"mime_type"`
	CreationTime time.Time `json:"creation_time"`
	Filename     string    `json:"filename,omitempty"`
}

// IsImage reports whether the item is a still image.
func (m MediaItem) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image")
}

// Page is one page of a paged listing. An empty NextPageToken marks the last page.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// AlbumRef points at an album by id, remembering whether it is shared.
type AlbumRef struct {
	ID       string `json:"id,omitempty"`
	IsShared bool   `json:"is_shared"`
}

// Ownership returns the [Ownership] of the referenced album.
func (r AlbumRef) Ownership() Ownership {
	return OwnershipOf(r.IsShared)
}

// SyncConfiguration is the persisted configuration written by the wizard and read by sync behaviors.
//
// Auth holds the client secret JSON from the Google API Console, kept opaque.
type SyncConfiguration struct {
	Auth        json.RawMessage `json:"auth,omitempty"`
	Source      AlbumRef        `json:"source"`
	Destination AlbumRef        `json:"destination"`
}

// HasAuth reports whether a client secret is present.
func (c *SyncConfiguration) HasAuth() bool {
	trimmed := strings.TrimSpace(string(c.Auth))
	return trimmed != "" && trimmed != "null"
}

// Validate checks that the configuration can drive a sync run.
func (c *SyncConfiguration) Validate() error {
	if !c.HasAuth() {
		return fmt.Errorf("auth: client secret is missing")
	}
	if c.Source.ID == "" {
		return fmt.Errorf("source: album id is missing")
	}
	if c.Destination.ID == "" {
		return fmt.Errorf("destination: album id is missing")
	}
	return nil
}
