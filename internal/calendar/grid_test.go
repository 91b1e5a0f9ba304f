package calendar

import (
	"testing"
	"time"

	"github.com/carpeta/organizer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countInMonth(cells []DayCell) int {
	n := 0
	for _, c := range cells {
		if c.InCurrentMonth {
			n++
		}
	}
	return n
}

func TestMonthGrid_LeapYears(t *testing.T) {
	var none models.Date
	leap := MonthGrid(2024, time.February, none, none)
	require.Equal(t, 29, countInMonth(leap))
	require.Equal(t, 0, len(leap)%7)

	common := MonthGrid(2023, time.February, none, none)
	require.Equal(t, 28, countInMonth(common))

	require.Equal(t, 29, DaysIn(2000, time.February))
	require.Equal(t, 28, DaysIn(1900, time.February))
	require.Equal(t, 31, DaysIn(2025, time.December))
}

func TestMonthGrid_AlwaysWholeWeeks(t *testing.T) {
	var none models.Date
	for year := 2023; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			for _, ws := range []time.Weekday{time.Monday, time.Sunday} {
				cells := MonthGridFrom(ws, year, m, none, none)
				require.Equal(t, 0, len(cells)%7, "%d-%d", year, m)
				require.Equal(t, DaysIn(year, m), countInMonth(cells))
				require.Equal(t, ws, cells[0].Date.Weekday())
				// consecutive days, no gaps
				for i := 1; i < len(cells); i++ {
					require.Equal(t, cells[i-1].Date.AddDays(1), cells[i].Date)
				}
			}
		}
	}
}

func TestMonthGrid_SpillCells(t *testing.T) {
	var none models.Date

	// Feb 2024 starts on a Thursday: Mon-Wed come from January.
	cells := MonthGrid(2024, time.February, none, none)
	require.Len(t, cells, 35)
	assert.Equal(t, models.NewDate(2024, time.January, 29), cells[0].Date)
	assert.False(t, cells[0].InCurrentMonth)
	assert.Equal(t, models.NewDate(2024, time.February, 1), cells[3].Date)
	assert.Equal(t, models.NewDate(2024, time.March, 3), cells[34].Date)

	// Feb 2021 starts on a Monday and has exactly four weeks.
	require.Len(t, MonthGrid(2021, time.February, none, none), 28)
	require.Len(t, MonthGridFrom(time.Sunday, 2021, time.February, none, none), 35)
}

func TestMonthGrid_YearRollover(t *testing.T) {
	var none models.Date

	jan := MonthGrid(2025, time.January, none, none)
	assert.Equal(t, models.NewDate(2024, time.December, 30), jan[0].Date)

	dec := MonthGrid(2024, time.December, none, none)
	require.Len(t, dec, 42)
	assert.Equal(t, models.NewDate(2024, time.November, 25), dec[0].Date)
	assert.Equal(t, models.NewDate(2025, time.January, 5), dec[len(dec)-1].Date)
}

func TestMonthGrid_TodayAndSelected(t *testing.T) {
	today := models.NewDate(2025, time.March, 14)
	selected := models.NewDate(2025, time.March, 20)
	cells := MonthGrid(2025, time.March, today, selected)

	var todays, selecteds []models.Date
	for _, c := range cells {
		if c.IsToday {
			todays = append(todays, c.Date)
		}
		if c.IsSelected {
			selecteds = append(selecteds, c.Date)
		}
	}
	require.Equal(t, []models.Date{today}, todays)
	require.Equal(t, []models.Date{selected}, selecteds)

	// a selected day in a spill cell is not flagged
	spill := MonthGrid(2025, time.March, today, models.NewDate(2025, time.February, 28))
	for _, c := range spill {
		require.False(t, c.IsSelected)
	}
}

func TestMonthGrid_Deterministic(t *testing.T) {
	d := models.NewDate(2025, time.June, 1)
	require.Equal(t, MonthGrid(2025, time.June, d, d), MonthGrid(2025, time.June, d, d))
}

func TestShiftMonthAndWeeks(t *testing.T) {
	y, m := ShiftMonth(2025, time.January, -1)
	require.Equal(t, 2024, y)
	require.Equal(t, time.December, m)
	y, m = ShiftMonth(2024, time.December, 1)
	require.Equal(t, 2025, y)
	require.Equal(t, time.January, m)

	var none models.Date
	rows := Weeks(MonthGrid(2024, time.December, none, none))
	require.Len(t, rows, 6)
	for _, r := range rows {
		require.Len(t, r, 7)
	}

	require.Equal(t, []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		WeekdayHeaders(time.Sunday))
	require.Equal(t, time.Monday, WeekdayHeaders(DefaultWeekStart)[0])
}
