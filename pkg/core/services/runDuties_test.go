package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/internal/config"
	"github.com/lfl-lab/dutybot/pkg/core/holiday"
	"github.com/lfl-lab/dutybot/pkg/core/model"
	"github.com/lfl-lab/dutybot/pkg/core/roster"
	"github.com/lfl-lab/dutybot/pkg/tracker"
)

// mockTrackerStore implements TrackerStore for testing
type mockTrackerStore struct {
	state      model.RotationState
	loadErr    error
	advanceErr error
	advanced   map[model.DutyType]string
}

func (m *mockTrackerStore) Load(ctx context.Context) (model.RotationState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	state := model.RotationState{}
	for duty, id := range m.state {
		state[duty] = id
	}
	return state, nil
}

func (m *mockTrackerStore) Advance(ctx context.Context, duty model.DutyType, memberID string) error {
	if m.advanceErr != nil {
		return m.advanceErr
	}
	if m.advanced == nil {
		m.advanced = make(map[model.DutyType]string)
	}
	m.advanced[duty] = memberID
	if m.state == nil {
		m.state = model.RotationState{}
	}
	m.state[duty] = memberID
	return nil
}

// mockDispatcher implements DecisionDispatcher for testing
type mockDispatcher struct {
	dispatched []model.RotationDecision
	failFor    map[model.DutyType]error
}

func (m *mockDispatcher) Dispatch(decision model.RotationDecision) error {
	if err, ok := m.failFor[decision.Duty]; ok {
		return err
	}
	m.dispatched = append(m.dispatched, decision)
	return nil
}

// mockChatNotifier implements ChatNotifier for testing
type mockChatNotifier struct {
	messages []string
	err      error
}

func (m *mockChatNotifier) Send(channel, text string) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, text)
	return nil
}

func testIndex() *roster.Index {
	return roster.NewIndex([]model.Member{
		{ID: "alice", Name: "Alice", Email: "alice@lab.edu", Role: model.RolePhD},
		{ID: "bob", Name: "Bob", Email: "bob@lab.edu", Role: model.RoleUndergrad},
		{ID: "carol", Name: "Carol", Email: "carol@lab.edu", Role: model.RoleUndergrad},
		{ID: "dave", Name: "Dave", Email: "dave@lab.edu", Role: model.RolePostDoc},
	})
}

func testConfig() *config.Config {
	return &config.Config{
		PresentationDay:  "Thursday",
		PresentationTime: "15:00",
		MaintenanceDay:   "Friday",
		SlackChannel:     "#lab-duties",
	}
}

func testOracle(cfg *config.Config) *holiday.Oracle {
	return holiday.NewOracle(holiday.NewUSCalendar(), cfg.PresentationWeekday())
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func resultFor(t *testing.T, results []DutyResult, duty model.DutyType) DutyResult {
	t.Helper()
	for _, r := range results {
		if r.Duty == duty {
			return r
		}
	}
	t.Fatalf("no result for duty %s", duty)
	return DutyResult{}
}

func TestRunDuties_QuietDayDoesNothing(t *testing.T) {
	store := &mockTrackerStore{}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{}
	cfg := testConfig()

	// March 9, 2026 is a Monday; no duty fires on Mondays here.
	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.March, 9))

	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.False(t, result.Advanced)
		assert.False(t, result.Decision.Fires)
	}
	assert.Empty(t, dispatcher.dispatched)
	assert.Empty(t, store.advanced)
	assert.Empty(t, chat.messages)
}

func TestRunDuties_FiringDutyDispatchesThenAdvances(t *testing.T) {
	store := &mockTrackerStore{}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{}
	cfg := testConfig()

	// March 12, 2026 is a Thursday, the presentation day. First run ever:
	// the empty tracker selects the first member.
	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.March, 12))

	require.NoError(t, err)

	result := resultFor(t, results, model.DutyPresentation)
	require.NoError(t, result.Err)
	assert.True(t, result.Advanced)
	require.Len(t, result.Decision.Selected, 1)
	assert.Equal(t, "alice", result.Decision.Selected[0].ID)

	require.Len(t, dispatcher.dispatched, 1)
	assert.Equal(t, "alice", store.advanced[model.DutyPresentation])
}

func TestRunDuties_DispatchFailureBlocksAdvance(t *testing.T) {
	store := &mockTrackerStore{}
	dispatcher := &mockDispatcher{
		failFor: map[model.DutyType]error{
			model.DutyPresentation: errors.New("smtp down"),
		},
	}
	chat := &mockChatNotifier{}
	cfg := testConfig()
	today := day(2026, time.March, 12)

	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), today)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 duties failed")

	result := resultFor(t, results, model.DutyPresentation)
	assert.Error(t, result.Err)
	assert.False(t, result.Advanced)
	assert.Empty(t, store.advanced)

	// The next attempt starts from the same tracker state and reproduces
	// the identical selection.
	dispatcher.failFor = nil
	retry, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), today)

	require.NoError(t, err)
	retried := resultFor(t, retry, model.DutyPresentation)
	assert.Equal(t, result.Decision.Selected, retried.Decision.Selected)
	assert.True(t, retried.Advanced)
}

func TestRunDuties_OneDutyFailingDoesNotStopOthers(t *testing.T) {
	store := &mockTrackerStore{}
	dispatcher := &mockDispatcher{
		failFor: map[model.DutyType]error{
			model.DutyPresentation: errors.New("smtp down"),
		},
	}
	chat := &mockChatNotifier{}
	cfg := testConfig()
	cfg.MaintenanceDay = "Thursday" // both duties fire the same day

	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.March, 12))

	require.Error(t, err)

	assert.Error(t, resultFor(t, results, model.DutyPresentation).Err)

	maintenance := resultFor(t, results, model.DutyMaintenance)
	require.NoError(t, maintenance.Err)
	assert.True(t, maintenance.Advanced)
	assert.Equal(t, "alice", store.advanced[model.DutyMaintenance])
}

func TestRunDuties_HolidaySuppressionPostsNoticeWithoutAdvancing(t *testing.T) {
	store := &mockTrackerStore{state: model.RotationState{model.DutyPresentation: "alice"}}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{}
	cfg := testConfig()

	// Thanksgiving 2026 falls on the presentation Thursday.
	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.November, 26))

	require.NoError(t, err)

	result := resultFor(t, results, model.DutyPresentation)
	require.NoError(t, result.Err)
	assert.False(t, result.Advanced)
	assert.Equal(t, model.SuppressedHoliday, result.Decision.SuppressedReason)

	require.Len(t, chat.messages, 1)
	assert.Contains(t, chat.messages[0], "No lab meeting next week")
	assert.Contains(t, chat.messages[0], "Thanksgiving")

	assert.Empty(t, dispatcher.dispatched)
	assert.Empty(t, store.advanced)
}

func TestRunDuties_SuppressionNoticeFailureFailsTheDuty(t *testing.T) {
	store := &mockTrackerStore{}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{err: errors.New("channel archived")}
	cfg := testConfig()

	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.November, 26))

	require.Error(t, err)
	result := resultFor(t, results, model.DutyPresentation)
	assert.Error(t, result.Err)
	assert.False(t, result.Advanced)
}

func TestRunDuties_SyncErrorCountsAsAdvanced(t *testing.T) {
	store := &mockTrackerStore{
		advanceErr: &tracker.SyncError{Err: errors.New("push rejected")},
	}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{}
	cfg := testConfig()

	// The local save succeeded; only the remote mirror failed, which must
	// not fail the duty or the run.
	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.March, 12))

	require.NoError(t, err)
	result := resultFor(t, results, model.DutyPresentation)
	assert.NoError(t, result.Err)
	assert.True(t, result.Advanced)
}

func TestRunDuties_TrackerLoadFailureFailsEveryDuty(t *testing.T) {
	store := &mockTrackerStore{loadErr: errors.New("disk gone")}
	dispatcher := &mockDispatcher{}
	chat := &mockChatNotifier{}
	cfg := testConfig()

	results, err := RunDuties(context.Background(), testIndex(), testOracle(cfg),
		store, dispatcher, chat, cfg, zap.NewNop(), day(2026, time.March, 12))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 3 duties failed")
	for _, result := range results {
		assert.Error(t, result.Err)
	}
}

func TestSuppressionNotice_CitizenDayIncludesInfoURLWhenConfigured(t *testing.T) {
	decision := model.RotationDecision{
		Duty:             model.DutyPresentation,
		SuppressedReason: model.SuppressedCitizenDay,
		SuppressedLabel:  "Lab Citizen Day",
	}

	cfg := testConfig()
	notice := suppressionNotice(decision, cfg)
	assert.Contains(t, notice, "Lab Citizen Day")
	assert.NotContains(t, notice, "Refer to")

	cfg.CitizenDayInfoURL = "https://lab.example.edu/citizen-day"
	notice = suppressionNotice(decision, cfg)
	assert.Contains(t, notice, "https://lab.example.edu/citizen-day")
}
