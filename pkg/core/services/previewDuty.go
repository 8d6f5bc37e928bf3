package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/core/engine"
	"github.com/lfl-lab/dutybot/pkg/core/holiday"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
)

// PreviewDuty evaluates one duty for a date without dispatching or
// advancing anything: a dry run of what the daily invocation would decide.
func PreviewDuty(
	ctx context.Context,
	duty model.DutyType,
	index *roster.Index,
	oracle *holiday.Oracle,
	store TrackerStore,
	cfg *config.Config,
	logger *zap.Logger,
	date time.Time,
) (model.RotationDecision, error) {
	logger.Debug("Previewing duty",
		zap.String("duty", string(duty)),
		zap.String("date", date.Format("2006-01-02")))

	state, err := store.Load(ctx)
	if err != nil {
		return model.RotationDecision{}, fmt.Errorf("failed to load duty tracker: %w", err)
	}

	for _, sched := range engine.Schedules(cfg.PresentationWeekday(), cfg.MaintenanceWeekday()) {
		if sched.Duty == duty {
			return engine.Evaluate(sched, index, oracle, state[duty], date)
		}
	}

	return model.RotationDecision{}, fmt.Errorf("unknown duty type: %s", duty)
}
