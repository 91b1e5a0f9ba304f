package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/carpeta/organizer/internal/calendar"
	"github.com/carpeta/organizer/internal/models"
	"github.com/carpeta/organizer/internal/workspace"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderFolders(w io.Writer, s *workspace.Store) {
	current, _ := s.CurrentFolder()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tDOCS")
	for _, f := range s.Folders() {
		docs, _ := s.Documents(f.ID)
		mark := ""
		if f.ID == current.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", mark, shortID(f.ID), f.Name, len(docs))
	}
	tw.Flush()
}

func renderDocuments(w io.Writer, docs []models.Document, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tEDITED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(d.ID), d.Title, calendar.RelativeAge(d.UpdatedAt, now))
	}
	tw.Flush()
}

func renderEvents(w io.Writer, events []models.Event) {
	for _, e := range events {
		at := e.Time
		if at == "" {
			at = "--:--"
		}
		fmt.Fprintf(w, "%s  %s  [%s] %s", shortID(e.ID), at, e.Type.Label(), e.Title)
		if e.Description != "" {
			fmt.Fprintf(w, " - %s", e.Description)
		}
		fmt.Fprintln(w)
	}
}

// renderMonth draws the grid. Each cell is the day number followed by one
// marker per indicated event; today is wrapped in brackets and the selected
// day is starred.
func renderMonth(w io.Writer, weekStart time.Weekday, year int, month time.Month, today, selected models.Date, idx *calendar.EventIndex) {
	const cellWidth = 7
	title := fmt.Sprintf("%s %d", month, year)
	pad := (cellWidth*7 - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), title)

	for _, wd := range calendar.WeekdayHeaders(weekStart) {
		fmt.Fprintf(w, "%-*s", cellWidth, wd.String()[:2])
	}
	fmt.Fprintln(w)

	cells := calendar.MonthGridFrom(weekStart, year, month, today, selected)
	for _, week := range calendar.Weeks(cells) {
		var line strings.Builder
		for _, c := range week {
			fmt.Fprintf(&line, "%-*s", cellWidth, cellText(c, idx))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	events := idx.InMonth(year, month)
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w)
	for day := 1; day <= calendar.DaysIn(year, month); day++ {
		for _, e := range events[day] {
			fmt.Fprintf(w, "%2d  %s\n", day, eventLine(e))
		}
	}
}

func cellText(c calendar.DayCell, idx *calendar.EventIndex) string {
	if !c.InCurrentMonth {
		return "."
	}
	day := fmt.Sprintf("%d", c.Date.Day)
	if c.IsToday {
		day = "[" + day + "]"
	}
	if c.IsSelected && !c.IsToday {
		day += "*"
	}
	for _, e := range calendar.Indicators(idx.OnDay(c.Date), calendar.DefaultIndicatorCap) {
		day += marker(e.Type)
	}
	return day
}

func marker(t models.EventType) string {
	switch t {
	case models.EventDeadline:
		return "!"
	case models.EventExam:
		return "E"
	case models.EventClass:
		return "c"
	case models.EventMeeting:
		return "m"
	}
	return "o"
}

func eventLine(e models.Event) string {
	s := e.Title
	if e.Time != "" {
		s = e.Time + " " + s
	}
	if e.Type != "" {
		s += " (" + e.Type.Label() + ")"
	}
	return s
}

// renderItems prints server listings, which arrive as loose JSON objects.
func renderItems(w io.Writer, items []map[string]interface{}, cols ...string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(cols, "\t")))
	for _, it := range items {
		vals := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := it[c]; ok && v != nil {
				vals[i] = fmt.Sprint(v)
			}
			if c == "id" {
				vals[i] = shortID(vals[i])
			}
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	tw.Flush()
}
