// Package markethours decides whether the watched market is in session.
package markethours

import "time"

// Window is an hour-of-day trading window in a fixed location. When
// OpenHour > CloseHour the window wraps past midnight, e.g. 21→4 covers
// [21,23] and [0,4]. Both edges are inclusive at hour granularity.
type Window struct {
	Loc       *time.Location
	OpenHour  int
	CloseHour int
}

// Default models the US session seen from Bangkok: 21:00 through 04:59
// local time.
func Default() Window {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("ICT", 7*3600)
	}
	return Window{Loc: loc, OpenHour: 21, CloseHour: 4}
}

// Open reports whether t falls inside the window.
func (w Window) Open(t time.Time) bool {
	loc := w.Loc
	if loc == nil {
		loc = time.Local
	}
	hour := t.In(loc).Hour()
	if w.OpenHour > w.CloseHour {
		return hour >= w.OpenHour || hour <= w.CloseHour
	}
	return hour >= w.OpenHour && hour <= w.CloseHour
}
