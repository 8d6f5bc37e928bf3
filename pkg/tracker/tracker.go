package tracker

import (
	"context"
	"fmt"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// Store persists the duty tracker: the last-assigned member id per duty.
// Advance must be called only after a duty's notifications were dispatched
// successfully; an unadvanced tracker is what makes same-day re-runs
// reproduce the identical decision.
type Store interface {
	Load(ctx context.Context) (model.RotationState, error)
	Advance(ctx context.Context, duty model.DutyType, memberID string) error
}

// Syncer mirrors the locally saved tracker to a remote store. Sync failures
// do not roll back the local save: local state stays the authoritative
// source of truth for the next run.
type Syncer interface {
	Sync(ctx context.Context) error
}

// SyncError reports a failed remote mirror after a successful local save.
// It is logged and otherwise non-fatal.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("tracker saved locally but remote sync failed: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
