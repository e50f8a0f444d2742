// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// MockAlbumService is an in-memory [services.AlbumService].
//
// Albums and their contents are seeded through the exported maps; mutations are applied to Contents and
// recorded in Calls.
type MockAlbumService struct {
	mu       sync.Mutex
	Albums   map[models.Ownership][]models.Album
	Contents map[string][]models.MediaItem
	Calls    []string

	ListErr   error
	CreateErr error
	AddErr    error
	RemoveErr error

	Added   map[string][][]string
	Removed map[string][][]string
	created int
}

var _ services.AlbumService = (*MockAlbumService)(nil)

// NewMockAlbumService returns an empty [MockAlbumService].
func NewMockAlbumService() *MockAlbumService {
	return &MockAlbumService{
		Albums:   make(map[models.Ownership][]models.Album),
		Contents: make(map[string][]models.MediaItem),
		Added:    make(map[string][][]string),
		Removed:  make(map[string][][]string),
	}
}

func (m *MockAlbumService) record(call string) {
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named method was called.
func (m *MockAlbumService) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockAlbumService) ListAlbums(ctx context.Context, ownership models.Ownership, pageToken string) (*models.Page[models.Album], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("ListAlbums")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return &models.Page[models.Album]{Items: slices.Clone(m.Albums[ownership])}, nil
}

func (m *MockAlbumService) ListAllAlbums(ctx context.Context, ownership models.Ownership) ([]models.Album, error) {
	page, err := m.ListAlbums(ctx, ownership, "")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (m *MockAlbumService) AlbumContents(ctx context.Context, albumID, pageToken string) (*models.Page[models.MediaItem], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("AlbumContents")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	items, ok := m.Contents[albumID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlbumNotFound, albumID)
	}
	return &models.Page[models.MediaItem]{Items: slices.Clone(items)}, nil
}

func (m *MockAlbumService) AllAlbumContents(ctx context.Context, albumID string) ([]models.MediaItem, error) {
	page, err := m.AlbumContents(ctx, albumID, "")
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (m *MockAlbumService) CreateAlbum(ctx context.Context, title string) (*models.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("CreateAlbum")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.created++
	album := models.Album{ID: fmt.Sprintf("created-%d", m.created), Title: title, Writeable: true}
	m.Albums[models.Owned] = append(m.Albums[models.Owned], album)
	m.Contents[album.ID] = nil
	return &album, nil
}

func (m *MockAlbumService) AddMedia(ctx context.Context, albumID string, mediaIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("AddMedia")
	if m.AddErr != nil {
		return m.AddErr
	}

	m.Added[albumID] = append(m.Added[albumID], slices.Clone(mediaIDs))
	for _, id := range mediaIDs {
		m.Contents[albumID] = append(m.Contents[albumID], models.MediaItem{ID: id, MimeType: "image/jpeg"})
	}
	return nil
}

func (m *MockAlbumService) RemoveMedia(ctx context.Context, albumID string, mediaIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("RemoveMedia")
	if m.RemoveErr != nil {
		return m.RemoveErr
	}

	m.Removed[albumID] = append(m.Removed[albumID], slices.Clone(mediaIDs))
	m.Contents[albumID] = slices.DeleteFunc(m.Contents[albumID], func(item models.MediaItem) bool {
		return slices.Contains(mediaIDs, item.ID)
	})
	return nil
}

// Image returns an image media item created at the given offset in minutes from a fixed epoch.
func Image(id string, minute int) models.MediaItem {
	return models.MediaItem{ID: id, MimeType: "image/jpeg", CreationTime: epoch.Add(time.Duration(minute) * time.Minute)}
}

// Video returns a video media item created at the given offset in minutes from a fixed epoch.
func Video(id string, minute int) models.MediaItem {
	return models.MediaItem{ID: id, MimeType: "video/mp4", CreationTime: epoch.Add(time.Duration(minute) * time.Minute)}
}

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
