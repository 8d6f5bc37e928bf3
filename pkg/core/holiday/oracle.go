package holiday

import (
	"time"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

// Oracle decides whether a date is a blackout day for presentation duty.
type Oracle struct {
	calendar *Calendar
	// presentationWeekday is the configured presentation weekday index
	// (Monday=0 .. Sunday=6), used by the Lab Citizen Day rule.
	presentationWeekday int
}

// NewOracle creates an oracle over the given holiday calendar.
func NewOracle(calendar *Calendar, presentationWeekday int) *Oracle {
	return &Oracle{calendar: calendar, presentationWeekday: presentationWeekday}
}

// Blackout reports whether the date is a blackout day and why. Two rules
// apply:
//
//  1. The date is a recognized national holiday (or its observed shift).
//  2. Lab Citizen Day: the day of the month equals the presentation
//     weekday index. The comparison of a day-of-month against a weekday
//     index is long-standing documented behavior; note it can never fire
//     when presentations are on Monday (index 0).
func (o *Oracle) Blackout(date time.Time) (model.Suppression, string) {
	if label, ok := o.calendar.Holiday(date); ok {
		return model.SuppressedHoliday, label
	}

	if date.Day() == o.presentationWeekday {
		return model.SuppressedCitizenDay, "Lab Citizen Day"
	}

	return model.SuppressedNone, ""
}
