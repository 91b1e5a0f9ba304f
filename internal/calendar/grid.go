// Package calendar holds the pure helpers renderers consult when drawing a
// month: the day grid, event lookups and relative date labels.
package calendar

import (
	"time"

	"github.com/carpeta/organizer/internal/models"
)

// DefaultWeekStart is the first column of every grid built by MonthGrid.
const DefaultWeekStart = time.Monday

// DayCell is one square of a month grid.
type DayCell struct {
	Date           models.Date
	InCurrentMonth bool
	IsToday        bool
	IsSelected     bool
}

// DaysIn returns the number of days in the given month (Gregorian rules).
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ShiftMonth moves (year, month) by delta months, rolling the year over.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// MonthGrid lays out a month in Monday-first weeks. See MonthGridFrom.
func MonthGrid(year int, month time.Month, today, selected models.Date) []DayCell {
	return MonthGridFrom(DefaultWeekStart, year, month, today, selected)
}

// MonthGridFrom lays out the month with weekStart as the first column.
// Leading cells come from the previous month and trailing cells from the next
// one so the result length is always a multiple of 7. Today and selected flags
// are only set on cells of the month itself.
func MonthGridFrom(weekStart time.Weekday, year int, month time.Month, today, selected models.Date) []DayCell {
	first := models.NewDate(year, month, 1)
	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	total := lead + DaysIn(first.Year, first.Month)
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	cells := make([]DayCell, 0, total)
	start := first.AddDays(-lead)
	for i := 0; i < total; i++ {
		d := start.AddDays(i)
		cell := DayCell{Date: d}
		if d.Year == first.Year && d.Month == first.Month {
			cell.InCurrentMonth = true
			cell.IsToday = d.Equal(today)
			cell.IsSelected = d.Equal(selected)
		}
		cells = append(cells, cell)
	}
	return cells
}

// Weeks splits a grid into rows of 7.
func Weeks(cells []DayCell) [][]DayCell {
	rows := make([][]DayCell, 0, len(cells)/7)
	for i := 0; i+7 <= len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}
	return rows
}

// WeekdayHeaders returns the weekday order of a grid starting at weekStart.
func WeekdayHeaders(weekStart time.Weekday) []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = time.Weekday((int(weekStart) + i) % 7)
	}
	return out
}
