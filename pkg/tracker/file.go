package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// FileStore persists the tracker as a small JSON file, rewritten in full on
// every advance. A missing file is an empty state, not an error. Single
// writer assumed: the daily runner is the only process touching the file.
type FileStore struct {
	path   string
	syncer Syncer // optional remote mirror
}

// NewFileStore creates a file-backed tracker store. syncer may be nil.
func NewFileStore(path string, syncer Syncer) *FileStore {
	return &FileStore{path: path, syncer: syncer}
}

func (s *FileStore) Load(ctx context.Context) (model.RotationState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.RotationState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker file: %w", err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tracker file: %w", err)
	}

	state := model.RotationState{}
	for duty, id := range raw {
		if id != nil && *id != "" {
			state[model.DutyType(duty)] = *id
		}
	}
	return state, nil
}

func (s *FileStore) save(state model.RotationState) error {
	// Always write all three keys, null when unassigned, so the file stays
	// hand-editable and diffable.
	raw := make(map[string]*string, len(model.AllDuties))
	for _, duty := range model.AllDuties {
		if id, ok := state[duty]; ok {
			value := id
			raw[string(duty)] = &value
		} else {
			raw[string(duty)] = nil
		}
	}

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode tracker state: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write tracker file: %w", err)
	}
	return nil
}

// Advance sets the duty's tracker value and rewrites the file, then mirrors
// the save through the syncer when one is configured. A sync failure is
// returned as *SyncError after the local save already succeeded.
func (s *FileStore) Advance(ctx context.Context, duty model.DutyType, memberID string) error {
	state, err := s.Load(ctx)
	if err != nil {
		return err
	}

	state[duty] = memberID
	if err := s.save(state); err != nil {
		return err
	}

	if s.syncer != nil {
		if err := s.syncer.Sync(ctx); err != nil {
			return &SyncError{Err: err}
		}
	}
	return nil
}
