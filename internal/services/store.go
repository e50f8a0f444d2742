package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/autoalbum/internal/shared"
)

// CredentialStore caches an OAuth token between runs.
type CredentialStore interface {
	// Get returns the cached token or [shared.ErrNotAuthenticated] when there is none.
	Get(ctx context.Context) (*oauth2.Token, error)
	Put(ctx context.Context, token *oauth2.Token) error
}

// FileStore keeps the token as JSON in a single file readable only by the owner.
type FileStore struct {
	Path string
}

// NewFileStore returns a [FileStore] at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Get(ctx context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no cached token at %s", shared.ErrNotAuthenticated, s.Path)
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: corrupt token cache %s: %v", shared.ErrNotAuthenticated, s.Path, err)
	}
	return &token, nil
}

func (s *FileStore) Put(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidArgument)
	}

	data, err := shared.MarshalJSON(token, true)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	if err := os.WriteFile(s.Path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// MemoryStore is an in-process [CredentialStore].
type MemoryStore struct {
	mu    sync.Mutex
	token *oauth2.Token
	puts  int
}

func (s *MemoryStore) Get(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return nil, shared.ErrNotAuthenticated
	}
	t := *s.token
	return &t, nil
}

func (s *MemoryStore) Put(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := *token
	s.token = &t
	s.puts++
	return nil
}

// Puts returns how many times a token was stored.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}
