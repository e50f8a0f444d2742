package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchDest
	Compare
	RemoveMedia
	AddMedia
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchDest:
		return "fetch_dest"
	case Compare:
		return "compare"
	case RemoveMedia:
		return "remove_media"
	case AddMedia:
		return "add_media"
	default:
		return ""
	}
}

func fetchSourceUpdate(albumID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Fetching source album %s...", albumID),
	}
}

func selectedUpdate(selected, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Selected %d of %d media items", selected, total),
		Data:    selected,
	}
}

func fetchDestUpdate(albumID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching destination album %s...", albumID),
	}
}

func compareUpdate(toAdd, toRemove int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d to add, %d to remove", toAdd, toRemove),
	}
}

func removeMediaUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveMedia,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing %d media items...", count),
		Data:    count,
	}
}

func addMediaUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddMedia,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Adding %d media items...", count),
		Data:    count,
	}
}
