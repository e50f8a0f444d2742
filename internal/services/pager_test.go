package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/autoalbum/internal/models"
)

func pagesOf(pages ...[]string) ListFunc[string] {
	return func(ctx context.Context, token string) (*models.Page[string], error) {
		i := 0
		if token != "" {
			for i = range pages {
				if token == tokenFor(i) {
					break
				}
			}
		}

		page := &models.Page[string]{Items: pages[i]}
		if i+1 < len(pages) {
			page.NextPageToken = tokenFor(i + 1)
		}
		return page, nil
	}
}

func tokenFor(i int) string {
	return "page-" + string(rune('a'+i))
}

func TestFetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("concatenates pages in order", func(t *testing.T) {
		calls := 0
		list := pagesOf([]string{"a", "b"}, []string{"c"}, []string{"d", "e"})
		counted := func(ctx context.Context, token string) (*models.Page[string], error) {
			calls++
			return list(ctx, token)
		}

		got, err := FetchAll(ctx, counted)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"a", "b", "c", "d", "e"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
		if calls != 3 {
			t.Errorf("expected one call per page (3), got %d", calls)
		}
	})

	t.Run("passes continuation tokens", func(t *testing.T) {
		var tokens []string
		list := pagesOf([]string{"a"}, []string{"b"})
		recording := func(ctx context.Context, token string) (*models.Page[string], error) {
			tokens = append(tokens, token)
			return list(ctx, token)
		}

		if _, err := FetchAll(ctx, recording); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"", tokenFor(1)}
		if !slices.Equal(tokens, want) {
			t.Errorf("expected tokens %v, got %v", want, tokens)
		}
	})

	t.Run("missing items count as empty", func(t *testing.T) {
		got, err := FetchAll(ctx, pagesOf(nil, []string{"x"}, nil))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(got, []string{"x"}) {
			t.Errorf("expected [x], got %v", got)
		}
	})

	t.Run("nil page ends the listing", func(t *testing.T) {
		got, err := FetchAll(ctx, func(ctx context.Context, token string) (*models.Page[string], error) {
			return nil, nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("stops at first error", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		_, err := FetchAll(ctx, func(ctx context.Context, token string) (*models.Page[string], error) {
			calls++
			if calls == 2 {
				return nil, boom
			}
			return &models.Page[string]{Items: []string{"a"}, NextPageToken: "next"}, nil
		})

		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped boom, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected no retry (2 calls), got %d", calls)
		}
	})
}
