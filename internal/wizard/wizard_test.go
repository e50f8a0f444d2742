package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
	tu "github.com/desertthunder/autoalbum/internal/testing"
)

var secret = json.RawMessage(`{"installed":{"client_id":"id"}}`)

type harness struct {
	albums   *tu.MockAlbumService
	connects int
	reads    []string
	deleted  bool
}

func newHarness() *harness {
	albums := tu.NewMockAlbumService()
	albums.Albums[models.Owned] = []models.Album{
		{ID: "o1", Title: "Camera Roll"},
		{ID: "o2", MediaItemsCount: 7},
	}
	albums.Albums[models.Shared] = []models.Album{{ID: "s1", Title: "Family", Shared: true}}
	return &harness{albums: albums}
}

func (h *harness) options(existing *models.SyncConfiguration, secretFile string) Options {
	return Options{
		Existing:   existing,
		SecretFile: secretFile,
		ReadSecret: func(path string) (json.RawMessage, error) {
			h.reads = append(h.reads, path)
			if path == "missing.json" {
				return nil, shared.ErrInvalidArgument
			}
			return secret, nil
		},
		Connect: func(ctx context.Context, s json.RawMessage) (services.AlbumService, error) {
			h.connects++
			return h.albums, nil
		},
		OnDelete: func() error {
			h.deleted = true
			return nil
		},
	}
}

// step answers and fails the test on error, asserting the next state.
func step(t *testing.T, w *Wizard, answer string, want State) Question {
	t.Helper()

	q, err := w.Answer(context.Background(), answer)
	if err != nil {
		t.Fatalf("answer %q: unexpected error %v", answer, err)
	}
	if q.State != want {
		t.Fatalf("answer %q: expected state %s, got %s", answer, want, q.State)
	}
	return q
}

func TestWizard(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh configuration with new album", func(t *testing.T) {
		h := newHarness()
		w := New(h.options(nil, ""))

		q, err := w.Start(ctx)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if q.State != NeedAuth || q.Kind != Text || q.Default != DefaultSecretPath {
			t.Fatalf("expected auth question with default path, got %+v", q)
		}

		q = step(t, w, "", NeedSourceOwnership)
		if len(h.reads) != 1 || h.reads[0] != DefaultSecretPath {
			t.Errorf("expected default secret path to be read, got %v", h.reads)
		}
		if w.SecretPath() != DefaultSecretPath {
			t.Errorf("expected secret path to be remembered, got %q", w.SecretPath())
		}
		if q.Default != ChoiceOwned {
			t.Errorf("expected owned default, got %s", q.Default)
		}

		q = step(t, w, ChoiceOwned, NeedSourceAlbum)
		if len(q.Choices) != 2 || q.Choices[1].Label != "<Unnamed Album with size 7>" {
			t.Errorf("unexpected source choices %+v", q.Choices)
		}

		step(t, w, "o1", NeedDestinationOwnership)
		q = step(t, w, ChoiceOwned, NeedDestinationAlbum)
		if q.Choices[0].Value != ChoiceCreateNew || q.Choices[0].Label != "<Create New Album>" {
			t.Errorf("expected create option first, got %+v", q.Choices[0])
		}
		if h.connects != 1 || h.albums.CallCount("ListAlbums") != 1 {
			t.Errorf("expected owned albums fetched once, got %d connects %d lists", h.connects, h.albums.CallCount("ListAlbums"))
		}

		q = step(t, w, ChoiceCreateNew, NeedNewAlbumName)
		if q.Default != "[AUTO] Camera Roll" {
			t.Errorf("expected default title from source, got %q", q.Default)
		}

		step(t, w, "", Done)

		conf := w.Result()
		if string(conf.Auth) != string(secret) {
			t.Errorf("expected secret in result, got %s", conf.Auth)
		}
		if conf.Source != (models.AlbumRef{ID: "o1"}) {
			t.Errorf("unexpected source %+v", conf.Source)
		}
		if conf.Destination.ID != w.CreatedAlbum().ID || conf.Destination.IsShared {
			t.Errorf("expected created album as destination, got %+v", conf.Destination)
		}
		if w.CreatedAlbum().Title != "[AUTO] Camera Roll" {
			t.Errorf("unexpected created title %q", w.CreatedAlbum().Title)
		}
	})

	t.Run("shared source and shared destination", func(t *testing.T) {
		h := newHarness()
		w := New(h.options(nil, "given.json"))

		q, err := w.Start(ctx)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if q.State != NeedSourceOwnership {
			t.Fatalf("expected secret file to skip auth question, got %s", q.State)
		}

		step(t, w, ChoiceShared, NeedSourceAlbum)
		step(t, w, "s1", NeedDestinationOwnership)
		q = step(t, w, ChoiceShared, NeedDestinationAlbum)
		for _, c := range q.Choices {
			if c.Value == ChoiceCreateNew {
				t.Error("expected no create option for shared destination")
			}
		}
		if h.albums.CallCount("ListAlbums") != 1 {
			t.Errorf("expected shared albums cached, got %d lists", h.albums.CallCount("ListAlbums"))
		}

		step(t, w, "s1", Done)
		conf := w.Result()
		if !conf.Source.IsShared || !conf.Destination.IsShared {
			t.Errorf("expected shared refs, got %+v", conf)
		}
	})

	t.Run("amend existing keeps defaults", func(t *testing.T) {
		h := newHarness()
		existing := &models.SyncConfiguration{
			Auth:        secret,
			Source:      models.AlbumRef{ID: "s1", IsShared: true},
			Destination: models.AlbumRef{ID: "o2"},
		}
		w := New(h.options(existing, ""))

		q, err := w.Start(ctx)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if q.State != NeedExistingChoice || q.Default != ChoiceAmend {
			t.Fatalf("expected existing choice, got %+v", q)
		}

		q = step(t, w, ChoiceAmend, NeedReplaceAuth)
		if q.Kind != Confirm || q.Default != No {
			t.Errorf("expected confirm defaulting to no, got %+v", q)
		}

		q = step(t, w, No, NeedSourceOwnership)
		if q.Default != ChoiceShared {
			t.Errorf("expected shared default from existing source, got %s", q.Default)
		}
		if len(h.reads) != 0 {
			t.Errorf("expected existing secret to be kept, got reads %v", h.reads)
		}

		q = step(t, w, ChoiceShared, NeedSourceAlbum)
		if q.Default != "s1" {
			t.Errorf("expected existing source default, got %s", q.Default)
		}

		step(t, w, "s1", NeedDestinationOwnership)
		q = step(t, w, ChoiceOwned, NeedDestinationAlbum)
		if q.Default != "o2" {
			t.Errorf("expected existing destination default, got %s", q.Default)
		}
		step(t, w, "o2", Done)
		if h.deleted {
			t.Error("expected amend not to delete")
		}
	})

	t.Run("delete existing starts over", func(t *testing.T) {
		h := newHarness()
		existing := &models.SyncConfiguration{Auth: secret, Source: models.AlbumRef{ID: "s1", IsShared: true}}
		w := New(h.options(existing, ""))

		if _, err := w.Start(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		q := step(t, w, ChoiceDelete, NeedAuth)
		if !h.deleted {
			t.Error("expected existing file to be deleted")
		}

		step(t, w, "other.json", NeedSourceOwnership)
		if q.State != NeedAuth || w.Result().Source.IsShared {
			t.Errorf("expected empty configuration after delete, got %+v", w.Result())
		}
	})

	t.Run("replace secret", func(t *testing.T) {
		h := newHarness()
		w := New(h.options(&models.SyncConfiguration{Auth: json.RawMessage(`{"old":true}`)}, ""))

		if _, err := w.Start(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		step(t, w, ChoiceAmend, NeedReplaceAuth)
		step(t, w, Yes, NeedAuth)
		step(t, w, "new.json", NeedSourceOwnership)

		if string(w.Result().Auth) != string(secret) {
			t.Errorf("expected replaced secret, got %s", w.Result().Auth)
		}
	})

	t.Run("invalid answers keep the question", func(t *testing.T) {
		h := newHarness()
		w := New(h.options(nil, ""))

		if _, err := w.Start(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		q, err := w.Answer(ctx, "missing.json")
		if err == nil || q.State != NeedAuth {
			t.Errorf("expected unreadable secret to stay on auth, got %s %v", q.State, err)
		}

		step(t, w, "ok.json", NeedSourceOwnership)
		if q, err := w.Answer(ctx, "maybe"); !errors.Is(err, shared.ErrInvalidInput) || q.State != NeedSourceOwnership {
			t.Errorf("expected invalid ownership to be rejected, got %s %v", q.State, err)
		}

		step(t, w, ChoiceOwned, NeedSourceAlbum)
		if q, err := w.Answer(ctx, "s1"); !errors.Is(err, shared.ErrInvalidInput) || q.State != NeedSourceAlbum {
			t.Errorf("expected album of other ownership to be rejected, got %s %v", q.State, err)
		}
	})

	t.Run("source with no albums", func(t *testing.T) {
		h := newHarness()
		h.albums.Albums[models.Shared] = nil
		w := New(h.options(nil, "given.json"))

		if _, err := w.Start(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		q, err := w.Answer(ctx, ChoiceShared)
		if !errors.Is(err, shared.ErrAlbumNotFound) || q.State != NeedSourceOwnership {
			t.Errorf("expected ErrAlbumNotFound on ownership question, got %s %v", q.State, err)
		}
	})

	t.Run("failed album creation", func(t *testing.T) {
		h := newHarness()
		h.albums.CreateErr = shared.ErrAPIRequest
		w := New(h.options(nil, "given.json"))

		if _, err := w.Start(ctx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		step(t, w, ChoiceOwned, NeedSourceAlbum)
		step(t, w, "o2", NeedDestinationOwnership)
		step(t, w, ChoiceOwned, NeedDestinationAlbum)
		q := step(t, w, ChoiceCreateNew, NeedNewAlbumName)
		if q.Default != "[AUTO] ..." {
			t.Errorf("expected placeholder for untitled source, got %q", q.Default)
		}

		if q, err := w.Answer(ctx, "Mine"); !errors.Is(err, shared.ErrAPIRequest) || q.State != NeedNewAlbumName {
			t.Errorf("expected creation error to keep the question, got %s %v", q.State, err)
		}
	})

	t.Run("finished wizard rejects answers", func(t *testing.T) {
		w := New(Options{})
		w.state = Done

		if _, err := w.Answer(ctx, "x"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestStateString(t *testing.T) {
	if NeedNewAlbumName.String() != "new_album_name" || Done.String() != "done" {
		t.Errorf("unexpected names %s %s", NeedNewAlbumName, Done)
	}
	if State(42).String() != "state(42)" {
		t.Errorf("unexpected fallback %s", State(42))
	}
}
