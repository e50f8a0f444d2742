package tasks

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/autoalbum/internal/models"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

// Plan is what a behavior wants done to the destination album.
type Plan struct {
	Limit    int                // Requested selection size, zero when the behavior has none
	Selected []models.MediaItem // Source items the destination should hold
	ToAdd    []string           // Ids to add, oldest first
	ToRemove []string           // Ids to remove, in destination order
}

// Behavior is a named strategy deciding the destination album's contents.
type Behavior interface {
	Name() string

	// Scopes lists the OAuth scopes the behavior needs.
	Scopes() []string

	// Plan reads the albums named by conf and computes the changes to make. It never mutates.
	Plan(ctx context.Context, albums services.AlbumService, conf *models.SyncConfiguration, progress chan<- ProgressUpdate) (*Plan, error)
}

// Params carries behavior options collected from the command line.
type Params struct {
	Count int
}

// BehaviorSpec registers a behavior under a name.
type BehaviorSpec struct {
	Name  string
	Usage string
	New   func(Params) (Behavior, error)
}

const (
	DefaultBehavior = "n-most-recent"
	DefaultCount    = 5
)

var registry = map[string]BehaviorSpec{
	DefaultBehavior: {
		Name:  DefaultBehavior,
		Usage: "keep the destination equal to the N most recent images of the source",
		New: func(p Params) (Behavior, error) {
			return NewNMostRecent(p.Count)
		},
	},
}

// Lookup returns the behavior registered as name.
func Lookup(name string) (BehaviorSpec, error) {
	spec, ok := registry[name]
	if !ok {
		return BehaviorSpec{}, fmt.Errorf("%w: unknown behavior %q (known: %s)", shared.ErrInvalidArgument, name, strings.Join(BehaviorNames(), ", "))
	}
	return spec, nil
}

// Behaviors returns every registered behavior sorted by name.
func Behaviors() []BehaviorSpec {
	specs := make([]BehaviorSpec, 0, len(registry))
	for _, spec := range registry {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// BehaviorNames returns the sorted names of every registered behavior.
func BehaviorNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RunRecorder persists completed runs. repositories.SyncRunRepository satisfies it.
type RunRecorder interface {
	Create(run *models.SyncRun) error
}

// SyncResult is the outcome of one [SyncEngine.Sync] call.
type SyncResult struct {
	Plan
	Behavior    string
	Source      models.AlbumRef
	Destination models.AlbumRef
	DryRun      bool
	RemoveErr   error // Failure of the remove step; the add step still ran
	AddErr      error
	StartedAt   time.Time
	FinishedAt  time.Time
	Run         *models.SyncRun // Persisted record, nil without a recorder
}

// Succeeded reports whether both mutation steps went through.
func (r *SyncResult) Succeeded() bool {
	return r.RemoveErr == nil && r.AddErr == nil
}

// Unchanged reports whether the destination already matched the plan.
func (r *SyncResult) Unchanged() bool {
	return len(r.ToAdd) == 0 && len(r.ToRemove) == 0
}

// SyncOpts configures a [SyncEngine].
type SyncOpts struct {
	DryRun   bool
	Recorder RunRecorder // Optional
	Logger   *log.Logger
}

// SyncEngine runs behaviors against an [services.AlbumService] and applies their plans.
type SyncEngine struct {
	albums   services.AlbumService
	recorder RunRecorder
	dryRun   bool
	logger   *log.Logger
}

// NewSyncEngine creates a [SyncEngine] over albums.
func NewSyncEngine(albums services.AlbumService, opts SyncOpts) *SyncEngine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SyncEngine{albums: albums, recorder: opts.Recorder, dryRun: opts.DryRun, logger: logger}
}

// Sync plans with behavior, then removes and adds media in the destination album.
//
// Mutation failures are logged and reported in the result instead of returned: a failed removal does not
// prevent the additions. Planning failures abort the run.
func (e *SyncEngine) Sync(ctx context.Context, behavior Behavior, conf *models.SyncConfiguration, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.albums == nil {
		return nil, fmt.Errorf("%w: album service not initialized", shared.ErrServiceUnavailable)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	result := &SyncResult{
		Behavior:    behavior.Name(),
		Source:      conf.Source,
		Destination: conf.Destination,
		DryRun:      e.dryRun,
		StartedAt:   time.Now(),
	}

	plan, err := behavior.Plan(ctx, e.albums, conf, progress)
	if err != nil {
		return nil, err
	}
	result.Plan = *plan

	logger := e.logger.With("behavior", behavior.Name(), "destination", conf.Destination.ID)
	logger.Info("planned sync", "selected", len(plan.Selected), "add", len(plan.ToAdd), "remove", len(plan.ToRemove))

	if e.dryRun {
		logger.Info("dry run, skipping mutations")
	} else {
		result.RemoveErr, result.AddErr = e.apply(ctx, logger, conf.Destination.ID, plan, progress)
	}

	result.FinishedAt = time.Now()
	e.record(result)
	return result, nil
}

func (e *SyncEngine) apply(ctx context.Context, logger *log.Logger, albumID string, plan *Plan, progress chan<- ProgressUpdate) (removeErr, addErr error) {
	if len(plan.ToRemove) > 0 {
		sendProgress(progress, removeMediaUpdate(len(plan.ToRemove)))
		if removeErr = e.albums.RemoveMedia(ctx, albumID, plan.ToRemove); removeErr != nil {
			logger.Warn("failed to remove media", "count", len(plan.ToRemove), "error", removeErr, "permission_denied", services.IsPermissionDenied(removeErr))
		}
	}

	if len(plan.ToAdd) > 0 {
		sendProgress(progress, addMediaUpdate(len(plan.ToAdd)))
		if addErr = e.albums.AddMedia(ctx, albumID, plan.ToAdd); addErr != nil {
			logger.Warn("failed to add media", "count", len(plan.ToAdd), "error", addErr, "permission_denied", services.IsPermissionDenied(addErr))
		}
	}

	return removeErr, addErr
}

// record persists result when a recorder is configured. Failures are only logged.
func (e *SyncEngine) record(result *SyncResult) {
	if e.recorder == nil {
		return
	}

	run := models.NewSyncRun(result.Behavior, result.Source.ID, result.Destination.ID, result.Limit)
	run.SetStartedAt(result.StartedAt)
	run.SetDryRun(result.DryRun)
	run.SetPlan(len(result.Selected), len(result.ToAdd), len(result.ToRemove))
	run.Finish(result.FinishedAt, result.RemoveErr, result.AddErr)

	if err := e.recorder.Create(run); err != nil {
		e.logger.Warn("failed to record sync run", "error", err)
		return
	}
	result.Run = run
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
