package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday morning, well before the same-day cutoff.
var wedMorning = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

func TestUpcomingDatesRespectsWeekdays(t *testing.T) {
	dates := UpcomingDates([]string{"Lunes", "Miércoles"}, 4, wedMorning)
	require.NotEmpty(t, dates)

	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d.Date)
		require.NoError(t, err)
		wd := day.Weekday()
		assert.True(t, wd == time.Monday || wd == time.Wednesday, "unexpected weekday %s for %s", wd, d.Date)
	}
	// Same-day Wednesday is still offered before the cutoff.
	assert.Equal(t, "2026-03-04", dates[0].Date)
}

func TestUpcomingDatesSkipsTodayAfterCutoff(t *testing.T) {
	evening := time.Date(2026, 3, 4, 17, 30, 0, 0, time.UTC)
	dates := UpcomingDates([]string{"Miércoles"}, 4, evening)
	require.NotEmpty(t, dates)
	assert.Equal(t, "2026-03-11", dates[0].Date)
}

func TestUpcomingDatesCapsTheList(t *testing.T) {
	all := []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}
	dates := UpcomingDates(all, 4, wedMorning)
	assert.Len(t, dates, maxCandidateDates)
}

func TestUpcomingDatesUnknownWeekday(t *testing.T) {
	assert.Empty(t, UpcomingDates([]string{"Someday"}, 4, wedMorning))
}

func TestResolveDayDate(t *testing.T) {
	assert.Equal(t, "2026-05-01", ResolveDayDate("2026-05-01", wedMorning))
	assert.Equal(t, "2026-03-09", ResolveDayDate("9/3", wedMorning))
	assert.Equal(t, "2027-01-15", ResolveDayDate("15/1/27", wedMorning))
	// Next Friday after Wednesday March 4th.
	assert.Equal(t, "2026-03-06", ResolveDayDate("viernes", wedMorning))
	// A weekday name resolves forward, never to today.
	assert.Equal(t, "2026-03-11", ResolveDayDate("miércoles", wedMorning))
	assert.Equal(t, "", ResolveDayDate("no idea", wedMorning))
}

func TestFindDateByText(t *testing.T) {
	dates := UpcomingDates([]string{"Lunes", "Viernes"}, 2, wedMorning)
	require.True(t, len(dates) >= 3)

	byDisplay := FindDateByText(dates, dates[1].Display)
	require.NotNil(t, byDisplay)
	assert.Equal(t, dates[1].Date, byDisplay.Date)

	byDay := FindDateByText(dates, "el 9")
	require.NotNil(t, byDay)
	assert.Equal(t, 9, byDay.Day)

	byWeekday := FindDateByText(dates, "viernes")
	require.NotNil(t, byWeekday)
	assert.Equal(t, "Viernes", byWeekday.Weekday)

	byIndex := FindDateByText(dates, "2")
	require.NotNil(t, byIndex)
	assert.Equal(t, dates[1].Date, byIndex.Date)

	assert.Nil(t, FindDateByText(dates, "nunca"))
}

func TestFindDateByTextIsAccentInsensitive(t *testing.T) {
	dates := UpcomingDates([]string{"Miércoles"}, 2, wedMorning)
	require.NotEmpty(t, dates)
	assert.NotNil(t, FindDateByText(dates, "miercoles"))
}
