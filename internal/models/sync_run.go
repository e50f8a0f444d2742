package models

import (
	"fmt"
	"time"
)

// SyncRun records one reconciliation run of a behavior against a destination album.
type SyncRun struct {
	id          string
	sequence    int
	behavior    string
	sourceID    string
	destID      string
	count       int
	selected    int
	toAdd       int
	toRemove    int
	addError    string
	removeError string
	dryRun      bool
	startedAt   time.Time
	finishedAt  time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

var _ Model = (*SyncRun)(nil)

// NewSyncRun creates a run for the given behavior and albums, started now.
func NewSyncRun(behavior, sourceID, destID string, count int) *SyncRun {
	now := time.Now()
	return &SyncRun{
		behavior:  behavior,
		sourceID:  sourceID,
		destID:    destID,
		count:     count,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *SyncRun) ID() string            { return r.id }
func (r *SyncRun) Sequence() int         { return r.sequence }
func (r *SyncRun) Behavior() string      { return r.behavior }
func (r *SyncRun) SourceAlbumID() string { return r.sourceID }
func (r *SyncRun) DestAlbumID() string   { return r.destID }
func (r *SyncRun) Count() int            { return r.count }
func (r *SyncRun) Selected() int         { return r.selected }
func (r *SyncRun) ToAdd() int            { return r.toAdd }
func (r *SyncRun) ToRemove() int         { return r.toRemove }
func (r *SyncRun) AddError() string      { return r.addError }
func (r *SyncRun) RemoveError() string   { return r.removeError }
func (r *SyncRun) DryRun() bool          { return r.dryRun }
func (r *SyncRun) StartedAt() time.Time  { return r.startedAt }
func (r *SyncRun) FinishedAt() time.Time { return r.finishedAt }
func (r *SyncRun) CreatedAt() time.Time  { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time  { return r.updatedAt }

func (r *SyncRun) SetID(id string)              { r.id = id }
func (r *SyncRun) SetSequence(seq int)          { r.sequence = seq }
func (r *SyncRun) SetDryRun(dryRun bool)        { r.dryRun = dryRun }
func (r *SyncRun) SetStartedAt(t time.Time)     { r.startedAt = t }
func (r *SyncRun) SetCreatedAt(t time.Time)     { r.createdAt = t }
func (r *SyncRun) SetUpdatedAt(t time.Time)     { r.updatedAt = t }
func (r *SyncRun) SetPlan(selected, toAdd, toRemove int) {
	r.selected = selected
	r.toAdd = toAdd
	r.toRemove = toRemove
}

// Finish stamps the run with its mutation outcomes. Nil errors are stored as empty strings.
func (r *SyncRun) Finish(finishedAt time.Time, removeErr, addErr error) {
	r.finishedAt = finishedAt
	r.updatedAt = finishedAt
	r.removeError = errString(removeErr)
	r.addError = errString(addErr)
}

// SetOutcome restores persisted outcome fields.
func (r *SyncRun) SetOutcome(finishedAt time.Time, removeErr, addErr string) {
	r.finishedAt = finishedAt
	r.removeError = removeErr
	r.addError = addErr
}

// Succeeded reports whether neither mutation failed.
func (r *SyncRun) Succeeded() bool {
	return r.addError == "" && r.removeError == ""
}

// Validate checks required fields.
func (r *SyncRun) Validate() error {
	if r.id == "" {
		return fmt.Errorf("id is required")
	}
	if r.behavior == "" {
		return fmt.Errorf("behavior is required")
	}
	if r.destID == "" {
		return fmt.Errorf("destination album id is required")
	}
	if r.count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
