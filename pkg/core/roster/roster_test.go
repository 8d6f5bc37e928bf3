package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

func testMembers() []model.Member {
	return []model.Member{
		{ID: "alice", Name: "Alice", Email: "alice@lab.edu", Role: model.RolePhD},
		{ID: "bob", Name: "Bob", Email: "bob@lab.edu", Role: model.RoleUndergrad},
		{ID: "carol", Name: "Carol", Email: "carol@lab.edu", Role: model.RoleUndergrad},
		{ID: "dave", Name: "Dave", Email: "dave@lab.edu", Role: model.RolePostDoc},
	}
}

func TestNextAfter_EmptyTrackerYieldsFirstMember(t *testing.T) {
	members := testMembers()

	next, err := NextAfter(members, "")

	require.NoError(t, err)
	assert.Equal(t, "alice", next.ID)
}

func TestNextAfter_UnknownIDYieldsFirstMember(t *testing.T) {
	members := testMembers()

	// A stale id left behind by a roster edit restarts the rotation rather
	// than failing the run.
	next, err := NextAfter(members, "departed-member")

	require.NoError(t, err)
	assert.Equal(t, "alice", next.ID)
}

func TestNextAfter_WrapsCyclically(t *testing.T) {
	members := testMembers()

	// A full cycle starting from the last member must visit everyone once
	// and come back around.
	current := "dave"
	var visited []string
	for range members {
		next, err := NextAfter(members, current)
		require.NoError(t, err)
		visited = append(visited, next.ID)
		current = next.ID
	}

	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, visited)
}

func TestNextAfter_EmptyListReturnsError(t *testing.T) {
	_, err := NextAfter(nil, "alice")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestEligible_FiltersByRolePreservingOrder(t *testing.T) {
	index := NewIndex(testMembers())
	sched := model.DutySchedule{
		Duty: model.DutyMaintenance,
		Eligible: func(r model.Role) bool {
			return r == model.RolePhD || r == model.RolePostDoc
		},
	}

	eligible := index.Eligible(sched)

	require.Len(t, eligible, 2)
	assert.Equal(t, "alice", eligible[0].ID)
	assert.Equal(t, "dave", eligible[1].ID)
}

func TestEligible_NilPredicateIncludesEveryone(t *testing.T) {
	index := NewIndex(testMembers())

	eligible := index.Eligible(model.DutySchedule{Duty: model.DutyPresentation})

	assert.Len(t, eligible, 4)
}

func TestResolve_IndividualDutyAdvancesToSelected(t *testing.T) {
	index := NewIndex(testMembers())
	sched := model.DutySchedule{Duty: model.DutySnacks}

	selected, nextTracker, err := index.Resolve(sched, "alice")

	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "bob", selected[0].ID)
	assert.Equal(t, "bob", nextTracker)
}

func TestResolve_GroupRoleSelectsWholeBatch(t *testing.T) {
	index := NewIndex(testMembers())
	sched := model.DutySchedule{
		Duty:      model.DutyPresentation,
		GroupRole: model.RoleUndergrad,
	}

	// The member after alice is bob, an undergraduate, so bob and carol
	// present together and the tracker skips past the batch to dave.
	selected, nextTracker, err := index.Resolve(sched, "alice")

	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "bob", selected[0].ID)
	assert.Equal(t, "carol", selected[1].ID)
	assert.Equal(t, "dave", nextTracker)
}

func TestResolve_GroupBatchWrapsAroundRosterEnd(t *testing.T) {
	members := []model.Member{
		{ID: "uma", Name: "Uma", Email: "uma@lab.edu", Role: model.RoleUndergrad},
		{ID: "alice", Name: "Alice", Email: "alice@lab.edu", Role: model.RolePhD},
		{ID: "victor", Name: "Victor", Email: "victor@lab.edu", Role: model.RoleUndergrad},
	}
	index := NewIndex(members)
	sched := model.DutySchedule{
		Duty:      model.DutyPresentation,
		GroupRole: model.RoleUndergrad,
	}

	// After alice comes victor (group). The last group member in roster
	// order is victor; walking past him wraps over uma (also group) and
	// lands on alice.
	selected, nextTracker, err := index.Resolve(sched, "alice")

	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "uma", selected[0].ID)
	assert.Equal(t, "victor", selected[1].ID)
	assert.Equal(t, "alice", nextTracker)
}

func TestResolve_AllGroupRosterFallsBackToFirstMember(t *testing.T) {
	members := []model.Member{
		{ID: "uma", Name: "Uma", Email: "uma@lab.edu", Role: model.RoleUndergrad},
		{ID: "victor", Name: "Victor", Email: "victor@lab.edu", Role: model.RoleUndergrad},
	}
	index := NewIndex(members)
	sched := model.DutySchedule{
		Duty:      model.DutyPresentation,
		GroupRole: model.RoleUndergrad,
	}

	selected, nextTracker, err := index.Resolve(sched, "")

	require.NoError(t, err)
	assert.Len(t, selected, 2)
	assert.Equal(t, "uma", nextTracker)
}

func TestResolve_NoEligibleMembersReturnsError(t *testing.T) {
	index := NewIndex([]model.Member{
		{ID: "bob", Name: "Bob", Email: "bob@lab.edu", Role: model.RoleUndergrad},
	})
	sched := model.DutySchedule{
		Duty: model.DutyMaintenance,
		Eligible: func(r model.Role) bool {
			return r == model.RolePhD || r == model.RolePostDoc
		},
	}

	_, _, err := index.Resolve(sched, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}
