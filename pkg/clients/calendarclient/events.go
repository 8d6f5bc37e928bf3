package calendarclient

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

const timedEventDuration = time.Hour

// reminderOverrides gives every event an email reminder a day ahead and a
// popup shortly before.
func reminderOverrides() *calendar.EventReminders {
	return &calendar.EventReminders{
		UseDefault: false,
		Overrides: []*calendar.EventReminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 10},
		},
		ForceSendFields: []string{"UseDefault"},
	}
}

func eventAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, len(emails))
	for i, email := range emails {
		attendees[i] = &calendar.EventAttendee{Email: email}
	}
	return attendees
}

// CreateEvent creates a calendar event spanning start to end. All-day
// events use date-only boundaries; timed events use the configured
// timezone.
func (c *Client) CreateEvent(title, description string, start, end time.Time, attendees []string, location string, allDay bool) (string, error) {
	event := &calendar.Event{
		Summary:     title,
		Description: description,
		Location:    location,
		Attendees:   eventAttendees(attendees),
		Reminders:   reminderOverrides(),
	}

	if allDay {
		event.Start = &calendar.EventDateTime{Date: start.Format("2006-01-02")}
		event.End = &calendar.EventDateTime{Date: end.Format("2006-01-02")}
	} else {
		event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: c.location.String()}
		event.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: c.location.String()}
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created.Id, nil
}

// CreateTimedEvent creates a one-hour event on the given date, starting at
// startTime (HH:MM, 24-hour) in the configured timezone.
func (c *Client) CreateTimedEvent(title string, date time.Time, startTime string, attendees []string, location string) (string, error) {
	parsed, err := time.Parse("15:04", startTime)
	if err != nil {
		return "", fmt.Errorf("invalid start time %q: %w", startTime, err)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, c.location)
	end := start.Add(timedEventDuration)

	event := &calendar.Event{
		Summary:   title,
		Location:  location,
		Attendees: eventAttendees(attendees),
		Reminders: reminderOverrides(),
		Start:     &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: c.location.String()},
		End:       &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: c.location.String()},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created.Id, nil
}
