package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	idx, err := ParseWeekday("Monday")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = ParseWeekday("Sunday")
	require.NoError(t, err)
	assert.Equal(t, 6, idx)

	_, err = ParseWeekday("Funday")
	assert.Error(t, err)
}

func TestWeekdayIndex_MondayBased(t *testing.T) {
	// March 9, 2026 is a Monday.
	monday := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestWeekdayName_RoundTripsWithParse(t *testing.T) {
	for i := 0; i < 7; i++ {
		idx, err := ParseWeekday(WeekdayName(i))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
}
