package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/autoalbum/internal/models"
)

// ListFunc fetches one page of a listing starting at pageToken, "" for the first page.
type ListFunc[T any] func(ctx context.Context, pageToken string) (*models.Page[T], error)

// FetchAll calls list once per page, feeding back each continuation token, and returns the items of every page in order.
//
// A page with an empty NextPageToken is the last one. A nil page or a page without items contributes nothing.
// Errors are returned immediately; there is no retry.
//
// Continuation tokens are sequential, so FetchAll must not run concurrently for the same listing.
func FetchAll[T any](ctx context.Context, list ListFunc[T]) ([]T, error) {
	all := make([]T, 0)
	token := ""

	for n := 1; ; n++ {
		page, err := list(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		if page == nil {
			break
		}

		all = append(all, page.Items...)

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	return all, nil
}
