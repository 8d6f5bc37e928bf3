package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/core/engine"
	"github.com/lfl-lab/dutybot/pkg/core/holiday"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
	"github.com/lfl-lab/dutybot/pkg/tracker"
)

// TrackerStore defines the duty tracker operations the run needs
type TrackerStore interface {
	Load(ctx context.Context) (model.RotationState, error)
	Advance(ctx context.Context, duty model.DutyType, memberID string) error
}

// DecisionDispatcher fans a firing decision out to the notification channels
type DecisionDispatcher interface {
	Dispatch(decision model.RotationDecision) error
}

// ChatNotifier posts a message to the configured chat channel
type ChatNotifier interface {
	Send(channel, text string) error
}

// DutyResult records the outcome of one duty's evaluation within a run
type DutyResult struct {
	Duty     model.DutyType
	Decision model.RotationDecision
	Advanced bool
	Err      error
}

// RunDuties evaluates all three duties for today and dispatches reminders
// for those that fire. Duties are isolated: one duty failing never stops
// the others. The tracker is advanced for a duty only after its full
// fan-out succeeded, so a failed day reproduces the same decision when the
// external scheduler triggers the next attempt.
func RunDuties(
	ctx context.Context,
	index *roster.Index,
	oracle *holiday.Oracle,
	store TrackerStore,
	dispatcher DecisionDispatcher,
	chat ChatNotifier,
	cfg *config.Config,
	logger *zap.Logger,
	today time.Time,
) ([]DutyResult, error) {
	runID := uuid.New().String()
	logger = logger.With(
		zap.String("run_id", runID),
		zap.String("date", today.Format("2006-01-02")))

	logger.Info("Starting daily duty run",
		zap.String("weekday", model.WeekdayName(model.WeekdayIndex(today))))

	schedules := engine.Schedules(cfg.PresentationWeekday(), cfg.MaintenanceWeekday())
	results := make([]DutyResult, 0, len(schedules))
	failed := 0

	for _, sched := range schedules {
		result := runDuty(ctx, sched, index, oracle, store, dispatcher, chat, cfg, logger, today)
		if result.Err != nil {
			failed++
			logger.Error("Duty run failed",
				zap.String("duty", string(sched.Duty)),
				zap.Error(result.Err))
		}
		results = append(results, result)
	}

	logger.Info("Daily duty run completed",
		zap.Int("duties", len(results)),
		zap.Int("failed", failed))

	if failed > 0 {
		return results, fmt.Errorf("%d of %d duties failed", failed, len(results))
	}
	return results, nil
}

func runDuty(
	ctx context.Context,
	sched model.DutySchedule,
	index *roster.Index,
	oracle *holiday.Oracle,
	store TrackerStore,
	dispatcher DecisionDispatcher,
	chat ChatNotifier,
	cfg *config.Config,
	logger *zap.Logger,
	today time.Time,
) DutyResult {
	result := DutyResult{Duty: sched.Duty}
	logger = logger.With(zap.String("duty", string(sched.Duty)))

	// Tracker state is re-read at the start of every duty's evaluation so
	// each duty sees its own latest checkpoint.
	state, err := store.Load(ctx)
	if err != nil {
		result.Err = fmt.Errorf("failed to load duty tracker: %w", err)
		return result
	}

	decision, err := engine.Evaluate(sched, index, oracle, state[sched.Duty], today)
	if err != nil {
		result.Err = err
		return result
	}
	result.Decision = decision

	if !decision.Fires {
		if decision.SuppressedReason == model.SuppressedNone {
			logger.Debug("Not this duty's day, nothing to do")
			return result
		}

		logger.Info("Duty suppressed",
			zap.String("reason", string(decision.SuppressedReason)),
			zap.String("label", decision.SuppressedLabel))

		if err := chat.Send(cfg.SlackChannel, suppressionNotice(decision, cfg)); err != nil {
			result.Err = fmt.Errorf("failed to send suppression notice: %w", err)
		}
		return result
	}

	logger.Info("Duty fires",
		zap.Strings("selected", memberNames(decision.Selected)),
		zap.String("next_tracker", decision.NextTrackerValue))

	if err := dispatcher.Dispatch(decision); err != nil {
		result.Err = err
		return result
	}

	if err := store.Advance(ctx, sched.Duty, decision.NextTrackerValue); err != nil {
		var syncErr *tracker.SyncError
		if errors.As(err, &syncErr) {
			// Local state is authoritative; a failed remote mirror must not
			// fail the duty.
			logger.Warn("Tracker advanced locally but remote sync failed", zap.Error(syncErr))
			result.Advanced = true
			return result
		}
		result.Err = fmt.Errorf("failed to advance duty tracker: %w", err)
		return result
	}

	result.Advanced = true
	logger.Info("Tracker advanced", zap.String("member_id", decision.NextTrackerValue))
	return result
}

func suppressionNotice(decision model.RotationDecision, cfg *config.Config) string {
	switch decision.SuppressedReason {
	case model.SuppressedHoliday:
		return fmt.Sprintf("Reminder: No lab meeting next week due to a national holiday - %s", decision.SuppressedLabel)
	case model.SuppressedCitizenDay:
		notice := "Reminder: Today is 'Lab Citizen Day'"
		if cfg.CitizenDayInfoURL != "" {
			notice += fmt.Sprintf("\nDon't know what to do?\nRefer to\n%s", cfg.CitizenDayInfoURL)
		}
		return notice
	}
	return ""
}

func memberNames(members []model.Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}
