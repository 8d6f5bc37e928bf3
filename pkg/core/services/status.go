package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/core/engine"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
)

// DutyStatus reports where one duty's rotation currently stands
type DutyStatus struct {
	Duty           model.DutyType
	FireWeekday    string
	LastAssignedID string // empty when the duty has never been assigned
	NextUp         []model.Member
}

// Status reports the tracker state and who is up next for every duty,
// without dispatching anything or touching the tracker.
func Status(
	ctx context.Context,
	index *roster.Index,
	store TrackerStore,
	cfg *config.Config,
	logger *zap.Logger,
) ([]DutyStatus, error) {
	logger.Debug("Loading duty tracker for status")
	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load duty tracker: %w", err)
	}

	schedules := engine.Schedules(cfg.PresentationWeekday(), cfg.MaintenanceWeekday())
	statuses := make([]DutyStatus, 0, len(schedules))

	for _, sched := range schedules {
		nextUp, _, err := index.Resolve(sched, state[sched.Duty])
		if err != nil {
			return nil, err
		}

		statuses = append(statuses, DutyStatus{
			Duty:           sched.Duty,
			FireWeekday:    model.WeekdayName(sched.FireWeekday),
			LastAssignedID: state[sched.Duty],
			NextUp:         nextUp,
		})
	}

	return statuses, nil
}
