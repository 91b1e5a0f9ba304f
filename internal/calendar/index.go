package calendar

import (
	"time"

	"github.com/carpeta/organizer/internal/models"
)

// DefaultIndicatorCap is how many event dots a day cell shows.
const DefaultIndicatorCap = 3

// EventIndex answers day and month lookups over a fixed set of events.
// Results keep the relative order of the input.
type EventIndex struct {
	events []models.Event
	byDay  map[models.Date][]int
}

// NewEventIndex copies events and indexes them by day.
func NewEventIndex(events []models.Event) *EventIndex {
	idx := &EventIndex{
		events: append([]models.Event{}, events...),
		byDay:  make(map[models.Date][]int),
	}
	for i, e := range idx.events {
		idx.byDay[e.Date] = append(idx.byDay[e.Date], i)
	}
	return idx
}

func (x *EventIndex) Len() int { return len(x.events) }

// OnDay returns the events dated exactly d. Time of day is not considered.
func (x *EventIndex) OnDay(d models.Date) []models.Event {
	positions := x.byDay[d]
	out := make([]models.Event, 0, len(positions))
	for _, i := range positions {
		out = append(out, x.events[i])
	}
	return out
}

// InMonth groups the month's events by day of month. Lists are complete;
// truncating them for display is up to the renderer (see Indicators).
func (x *EventIndex) InMonth(year int, month time.Month) map[int][]models.Event {
	out := make(map[int][]models.Event)
	for _, e := range x.events {
		if e.Date.Year == year && e.Date.Month == month {
			out[e.Date.Day] = append(out[e.Date.Day], e)
		}
	}
	return out
}

// Indicators returns at most max events for a day cell. A non-positive max
// means DefaultIndicatorCap.
func Indicators(events []models.Event, max int) []models.Event {
	if max <= 0 {
		max = DefaultIndicatorCap
	}
	if len(events) <= max {
		return events
	}
	return events[:max]
}
