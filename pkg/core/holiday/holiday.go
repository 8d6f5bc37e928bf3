package holiday

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const dateKeyLayout = "2006-01-02"

// fixedHoliday is a holiday on the same calendar date every year.
type fixedHoliday struct {
	Name  string
	Month time.Month
	Day   int
}

// floatingHoliday is an nth-weekday-of-month holiday, expressed as a
// yearly recurrence rule.
type floatingHoliday struct {
	Name    string
	Month   int
	Weekday rrule.Weekday
}

// US federal holidays. Fixed-date holidays that land on a weekend are
// observed on the adjacent weekday, matching common payroll calendars.
var (
	usFixed = []fixedHoliday{
		{"New Year's Day", time.January, 1},
		{"Juneteenth National Independence Day", time.June, 19},
		{"Independence Day", time.July, 4},
		{"Veterans Day", time.November, 11},
		{"Christmas Day", time.December, 25},
	}
	usFloating = []floatingHoliday{
		{"Martin Luther King Jr. Day", 1, rrule.MO.Nth(3)},
		{"Washington's Birthday", 2, rrule.MO.Nth(3)},
		{"Memorial Day", 5, rrule.MO.Nth(-1)},
		{"Labor Day", 9, rrule.MO.Nth(1)},
		{"Columbus Day", 10, rrule.MO.Nth(2)},
		{"Thanksgiving", 11, rrule.TH.Nth(4)},
	}
)

// Calendar reports recognized national holidays for the configured locale.
// Years are materialized lazily and cached.
type Calendar struct {
	fixed    []fixedHoliday
	floating []floatingHoliday
	years    map[int]map[string]string
}

// NewUSCalendar creates a calendar of US federal holidays.
func NewUSCalendar() *Calendar {
	return &Calendar{
		fixed:    usFixed,
		floating: usFloating,
		years:    make(map[int]map[string]string),
	}
}

// Holiday returns the holiday label for a date, if the date is a recognized
// holiday or an observed shift of one.
func (c *Calendar) Holiday(date time.Time) (string, bool) {
	year := date.Year()
	byDate, ok := c.years[year]
	if !ok {
		byDate = c.materializeYear(year)
		c.years[year] = byDate
	}

	label, ok := byDate[date.Format(dateKeyLayout)]
	return label, ok
}

func (c *Calendar) materializeYear(year int) map[string]string {
	byDate := make(map[string]string)

	for _, h := range c.fixed {
		day := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		byDate[day.Format(dateKeyLayout)] = h.Name

		// Saturday holidays are observed the Friday before, Sunday
		// holidays the Monday after.
		switch day.Weekday() {
		case time.Saturday:
			observed := day.AddDate(0, 0, -1)
			byDate[observed.Format(dateKeyLayout)] = h.Name + " (Observed)"
		case time.Sunday:
			observed := day.AddDate(0, 0, 1)
			byDate[observed.Format(dateKeyLayout)] = h.Name + " (Observed)"
		}
	}

	for _, h := range c.floating {
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.YEARLY,
			Dtstart:   time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
			Until:     time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC),
			Bymonth:   []int{h.Month},
			Byweekday: []rrule.Weekday{h.Weekday},
		})
		if err != nil {
			// Rules are static and covered by tests; a bad rule is a
			// programming error.
			panic(fmt.Sprintf("invalid holiday rule %q: %v", h.Name, err))
		}
		for _, day := range rule.All() {
			byDate[day.Format(dateKeyLayout)] = h.Name
		}
	}

	return byDate
}
