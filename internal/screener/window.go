// Package screener implements the premarket screening engine: the scan
// window gate, the filter criteria, alert-state tracking and the scan cycle.
package screener

import "time"

// Window is the daily wall-clock band during which scanning is permitted.
// The band is half-open: [openHour, closeHour) in the window's location.
type Window struct {
	loc       *time.Location
	openHour  int
	closeHour int
}

// NewWindow creates a scan window in the named timezone. Falls back to a
// fixed EST offset if the tz database is unavailable.
func NewWindow(timezone string, openHour, closeHour int) *Window {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return &Window{
		loc:       loc,
		openHour:  openHour,
		closeHour: closeHour,
	}
}

// Contains reports whether t falls inside the scan window.
func (w *Window) Contains(t time.Time) bool {
	hour := t.In(w.loc).Hour()
	return hour >= w.openHour && hour < w.closeHour
}

// IsOpen reports whether the window is open right now.
func (w *Window) IsOpen() bool {
	return w.Contains(time.Now())
}

// Location returns the window's timezone.
func (w *Window) Location() *time.Location {
	return w.loc
}
