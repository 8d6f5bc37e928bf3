package dispatch

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// EmailNotifier sends an email to one or more recipients.
type EmailNotifier interface {
	Send(recipients []string, subject, body string) error
}

// ChatNotifier posts a message to a chat channel.
type ChatNotifier interface {
	Send(channel, text string) error
}

// CalendarService creates calendar entries.
type CalendarService interface {
	CreateEvent(title, description string, start, end time.Time, attendees []string, location string, allDay bool) (string, error)
	CreateTimedEvent(title string, date time.Time, startTime string, attendees []string, location string) (string, error)
}

// Options carries the rendering knobs the templates and events need.
type Options struct {
	ChatChannel      string
	Location         string
	PresentationTime string // HH:MM start time for timed events
	// SendPresentationReminders gates the presentation email and calendar
	// channels; the chat summary always goes out.
	SendPresentationReminders bool
}

// Dispatcher fans a rotation decision out to the notification channels.
// Channels are called independently: one channel failing never blocks the
// others, and every failure is collected rather than returned eagerly.
type Dispatcher struct {
	email    EmailNotifier
	chat     ChatNotifier
	calendar CalendarService
	opts     Options
	logger   *zap.Logger
}

// New creates a dispatcher over the three notification collaborators.
func New(email EmailNotifier, chat ChatNotifier, calendar CalendarService, opts Options, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		email:    email,
		chat:     chat,
		calendar: calendar,
		opts:     opts,
		logger:   logger,
	}
}

// Dispatch renders and sends every notification for a firing decision.
// Returns a *DispatchError aggregating per-channel failures, or nil when
// every channel succeeded. Callers must not advance the tracker on error.
func (d *Dispatcher) Dispatch(decision model.RotationDecision) error {
	if !decision.Fires {
		return nil
	}

	var failures []ChannelError
	record := func(channel string, err error) {
		if err == nil {
			return
		}
		d.logger.Warn("Notification channel failed",
			zap.String("duty", string(decision.Duty)),
			zap.String("channel", channel),
			zap.Error(err))
		failures = append(failures, ChannelError{Channel: channel, Err: err})
	}

	switch decision.Duty {
	case model.DutyPresentation:
		d.dispatchPresentation(decision, record)
	case model.DutyMaintenance:
		d.dispatchMaintenance(decision, record)
	case model.DutySnacks:
		d.dispatchSnacks(decision, record)
	default:
		return fmt.Errorf("unknown duty type: %s", decision.Duty)
	}

	record(ChannelChat, d.chat.Send(d.opts.ChatChannel, chatSummary(decision)))

	if len(failures) > 0 {
		return &DispatchError{Duty: decision.Duty, Failures: failures}
	}
	return nil
}

func (d *Dispatcher) dispatchPresentation(decision model.RotationDecision, record func(string, error)) {
	if !d.opts.SendPresentationReminders {
		d.logger.Info("Presentation reminders disabled, skipping email and calendar channels")
		return
	}

	attendees := make([]string, len(decision.Selected))
	for i, member := range decision.Selected {
		attendees[i] = member.Email
		body := presentationEmailBody(member.Name, decision.EventDate)
		record(ChannelEmail, d.email.Send([]string{member.Email}, presentationSubject, body))
	}

	title := "Undergraduate Group Presentation"
	if len(decision.Selected) == 1 {
		title = "Group Meeting Presentation by " + decision.Selected[0].Name
	}

	_, err := d.calendar.CreateTimedEvent(title, decision.EventDate, d.opts.PresentationTime, attendees, d.opts.Location)
	record(ChannelCalendar, err)
}

func (d *Dispatcher) dispatchMaintenance(decision model.RotationDecision, record func(string, error)) {
	member := decision.Selected[0]
	body := maintenanceEmailBody(member.Name)

	record(ChannelEmail, d.email.Send([]string{member.Email}, maintenanceSubject, body))

	title := "Lab Maintenance by " + member.Name
	_, err := d.calendar.CreateEvent(title, body, decision.EventDate, decision.EventEndDate,
		[]string{member.Email}, d.opts.Location, true)
	record(ChannelCalendar, err)
}

func (d *Dispatcher) dispatchSnacks(decision model.RotationDecision, record func(string, error)) {
	member := decision.Selected[0]
	body := snacksEmailBody(member.Name, decision.EventDate)
	record(ChannelEmail, d.email.Send([]string{member.Email}, snacksSubject, body))
}
