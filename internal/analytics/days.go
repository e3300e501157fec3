package analytics

import (
	"math"
	"time"
)

var now = time.Now

// daysUntil counts calendar days from from to the event date in the event's location. Past dates give 0.
func daysUntil(from, event time.Time) int {
	loc := event.Location()
	f := from.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, loc)
	end := time.Date(event.Year(), event.Month(), event.Day(), 0, 0, 0, 0, loc)
	days := int(math.Round(end.Sub(start).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
