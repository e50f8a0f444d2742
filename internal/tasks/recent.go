package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// NMostRecent keeps the destination album equal to the N most recently created images of the source.
type NMostRecent struct {
	n int
}

// NewNMostRecent returns the behavior for n images. n must be at least 1.
func NewNMostRecent(n int) (*NMostRecent, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1, got %d", shared.ErrInvalidFlag, n)
	}
	return &NMostRecent{n: n}, nil
}

func (b *NMostRecent) Name() string { return DefaultBehavior }

func (b *NMostRecent) Scopes() []string { return services.DefaultScopes }

func (b *NMostRecent) Plan(ctx context.Context, albums services.AlbumService, conf *models.SyncConfiguration, progress chan<- ProgressUpdate) (*Plan, error) {
	sendProgress(progress, fetchSourceUpdate(conf.Source.ID))
	source, err := albums.AllAlbumContents(ctx, conf.Source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read source album: %w", err)
	}

	selected := SelectRecent(source, b.n)
	sendProgress(progress, selectedUpdate(len(selected), len(source)))

	sendProgress(progress, fetchDestUpdate(conf.Destination.ID))
	dest, err := albums.AllAlbumContents(ctx, conf.Destination.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination album: %w", err)
	}

	toAdd, toRemove := Diff(selected, dest)
	sendProgress(progress, compareUpdate(len(toAdd), len(toRemove)))

	return &Plan{Limit: b.n, Selected: selected, ToAdd: toAdd, ToRemove: toRemove}, nil
}

// SelectRecent returns the last n images of items ordered by creation time, oldest first.
//
// Non-images are dropped. Items with equal creation times keep their relative input order.
// Fewer than n images selects all of them.
func SelectRecent(items []models.MediaItem, n int) []models.MediaItem {
	images := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if item.IsImage() {
			images = append(images, item)
		}
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreationTime.Before(images[j].CreationTime)
	})

	if n < len(images) {
		images = images[len(images)-n:]
	}
	return images
}

// Diff compares the wanted items with the destination's current items.
//
// toAdd holds the wanted ids missing from have, in wanted order; toRemove holds the ids in have that are not
// wanted, in have order. Duplicate ids appear once.
func Diff(wanted, have []models.MediaItem) (toAdd, toRemove []string) {
	return missingFrom(wanted, idSet(have)), missingFrom(have, idSet(wanted))
}

// missingFrom returns the ids of items not in ids, first occurrence order.
func missingFrom(items []models.MediaItem, ids map[string]struct{}) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		if _, ok := ids[item.ID]; ok {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item.ID)
	}
	return out
}

func idSet(items []models.MediaItem) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		ids[item.ID] = struct{}{}
	}
	return ids
}
