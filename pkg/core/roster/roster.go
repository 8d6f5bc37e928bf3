package roster

import (
	"errors"
	"fmt"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// ErrEmptyRoster is returned when a duty has no eligible members. It is
// fatal for that duty's run only.
var ErrEmptyRoster = errors.New("no eligible members in roster")

// Index wraps the ordered member list and answers eligibility and cyclic
// next-member queries. The roster is immutable for the run; eligibility is
// recomputed from the live roster on every call, so roster edits change
// future rotation order without migration.
type Index struct {
	members []model.Member
}

// NewIndex creates an index over the roster in its configured order.
func NewIndex(members []model.Member) *Index {
	return &Index{members: members}
}

// Members returns the full roster in rotation order.
func (x *Index) Members() []model.Member {
	return x.members
}

// Eligible filters the roster by the schedule's role predicate, preserving
// roster order.
func (x *Index) Eligible(sched model.DutySchedule) []model.Member {
	eligible := make([]model.Member, 0, len(x.members))
	for _, m := range x.members {
		if sched.Eligible == nil || sched.Eligible(m.Role) {
			eligible = append(eligible, m)
		}
	}
	return eligible
}

// NextAfter returns the member following currentID in the eligible list,
// wrapping cyclically. An empty or unknown currentID yields the first
// eligible member, which establishes the rotation start and tolerates stale
// ids left behind by roster changes.
func NextAfter(eligible []model.Member, currentID string) (model.Member, error) {
	if len(eligible) == 0 {
		return model.Member{}, ErrEmptyRoster
	}

	currentIndex := -1
	if currentID != "" {
		for i, m := range eligible {
			if m.ID == currentID {
				currentIndex = i
				break
			}
		}
	}
	if currentIndex == -1 {
		return eligible[0], nil
	}

	return eligible[(currentIndex+1)%len(eligible)], nil
}

// Resolve computes the selection and the new tracker value for a duty.
//
// Individual duties select the single next member and advance the tracker
// to that member's id. When the next member belongs to the schedule's group
// role, all members of that role are selected as one batch and the tracker
// advances to the first non-group member after the last group member in
// roster order, wrapping, so the group presents together and rotation then
// resumes with the individual cycle.
func (x *Index) Resolve(sched model.DutySchedule, currentID string) ([]model.Member, string, error) {
	eligible := x.Eligible(sched)

	next, err := NextAfter(eligible, currentID)
	if err != nil {
		return nil, "", fmt.Errorf("duty %s: %w", sched.Duty, err)
	}

	if sched.GroupRole == "" || next.Role != sched.GroupRole {
		return []model.Member{next}, next.ID, nil
	}

	var group []model.Member
	lastGroupIndex := -1
	for i, m := range eligible {
		if m.Role == sched.GroupRole {
			group = append(group, m)
			lastGroupIndex = i
		}
	}

	// Walk past the last group member, skipping any group members hit on
	// wraparound. If every eligible member has the group role, fall back to
	// the first eligible member.
	nextTracker := eligible[0].ID
	for step := 1; step <= len(eligible); step++ {
		candidate := eligible[(lastGroupIndex+step)%len(eligible)]
		if candidate.Role != sched.GroupRole {
			nextTracker = candidate.ID
			break
		}
	}

	return group, nextTracker, nil
}
