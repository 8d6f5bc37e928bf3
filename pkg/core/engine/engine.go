package engine

import (
	"time"

	"github.com/lfl-lab/dutybot/pkg/core/holiday"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
)

// Schedules builds the three duty schedules from the configured weekdays
// (Monday=0 .. Sunday=6).
//
// Presentation rotates over the whole roster with undergraduates batched as
// a group and is the only duty subject to blackout suppression. Maintenance
// rotates over PhD students and post-docs on its own weekday. Snacks fires
// the day before the presentation day (wrapping Monday back to Sunday) and
// excludes undergraduates.
func Schedules(presentationDay, maintenanceDay int) []model.DutySchedule {
	return []model.DutySchedule{
		{
			Duty:          model.DutyPresentation,
			FireWeekday:   presentationDay,
			Eligible:      nil, // everyone
			GroupRole:     model.RoleUndergrad,
			CheckBlackout: true,
		},
		{
			Duty:        model.DutyMaintenance,
			FireWeekday: maintenanceDay,
			Eligible: func(r model.Role) bool {
				return r == model.RolePhD || r == model.RolePostDoc
			},
		},
		{
			Duty:        model.DutySnacks,
			FireWeekday: (presentationDay + 6) % 7,
			Eligible: func(r model.Role) bool {
				return r != model.RoleUndergrad
			},
		},
	}
}

// Evaluate decides one duty for one day: whether it fires, who is selected
// and what the tracker should advance to. It is pure: it never touches the
// tracker or any notification channel, so re-evaluating an unadvanced day
// reproduces the identical decision.
func Evaluate(
	sched model.DutySchedule,
	index *roster.Index,
	oracle *holiday.Oracle,
	lastAssignedID string,
	today time.Time,
) (model.RotationDecision, error) {
	decision := model.RotationDecision{
		Duty:             sched.Duty,
		SuppressedReason: model.SuppressedNone,
	}

	if model.WeekdayIndex(today) != sched.FireWeekday {
		return decision, nil
	}

	if sched.CheckBlackout {
		if reason, label := oracle.Blackout(today); reason != model.SuppressedNone {
			decision.SuppressedReason = reason
			decision.SuppressedLabel = label
			return decision, nil
		}
	}

	selected, nextTracker, err := index.Resolve(sched, lastAssignedID)
	if err != nil {
		return decision, err
	}

	decision.Fires = true
	decision.Selected = selected
	decision.NextTrackerValue = nextTracker

	switch sched.Duty {
	case model.DutyPresentation:
		decision.EventDate = today.AddDate(0, 0, 7)
	case model.DutyMaintenance:
		decision.EventDate = today.AddDate(0, 0, 3)
		decision.EventEndDate = today.AddDate(0, 0, 7)
	case model.DutySnacks:
		decision.EventDate = today.AddDate(0, 0, 1)
	}

	return decision, nil
}
