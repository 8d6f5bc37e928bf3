package model

import (
	"fmt"
	"time"
)

var weekdayNames = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

// ParseWeekday converts a day name to the rotation weekday index
// (Monday=0 .. Sunday=6).
func ParseWeekday(name string) (int, error) {
	idx, ok := weekdayNames[name]
	if !ok {
		return -1, fmt.Errorf("invalid weekday name: %q", name)
	}
	return idx, nil
}

// WeekdayIndex returns the rotation weekday index (Monday=0 .. Sunday=6)
// for a date. time.Weekday counts from Sunday, so it is shifted.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName returns the day name for a rotation weekday index.
func WeekdayName(idx int) string {
	for name, i := range weekdayNames {
		if i == idx {
			return name
		}
	}
	return ""
}
