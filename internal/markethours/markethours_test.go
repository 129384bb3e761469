package markethours

import (
	"testing"
	"time"
)

func at(hour int, loc *time.Location) time.Time {
	return time.Date(2026, 8, 27, hour, 30, 0, 0, loc)
}

func TestWrappingWindow(t *testing.T) {
	w := Window{Loc: time.UTC, OpenHour: 21, CloseHour: 4}

	cases := []struct {
		hour int
		open bool
	}{
		{0, true},
		{4, true},
		{5, false},
		{12, false},
		{20, false},
		{21, true},
		{23, true},
	}
	for _, tc := range cases {
		if got := w.Open(at(tc.hour, time.UTC)); got != tc.open {
			t.Errorf("hour %d: expected open=%v, got %v", tc.hour, tc.open, got)
		}
	}
}

func TestNonWrappingWindow(t *testing.T) {
	w := Window{Loc: time.UTC, OpenHour: 9, CloseHour: 16}

	if w.Open(at(8, time.UTC)) {
		t.Error("08:30 must be closed")
	}
	if !w.Open(at(9, time.UTC)) {
		t.Error("09:30 must be open")
	}
	if !w.Open(at(16, time.UTC)) {
		t.Error("16:30 must be open, close hour is inclusive")
	}
	if w.Open(at(17, time.UTC)) {
		t.Error("17:30 must be closed")
	}
}

func TestWindowConvertsToItsLocation(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	w := Window{Loc: ict, OpenHour: 21, CloseHour: 4}

	// 15:30 UTC is 22:30 ICT: in session.
	if !w.Open(time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)) {
		t.Error("15:30 UTC should be open through the ICT window")
	}
	// 07:30 UTC is 14:30 ICT: closed.
	if w.Open(time.Date(2026, 8, 27, 7, 30, 0, 0, time.UTC)) {
		t.Error("07:30 UTC should be closed through the ICT window")
	}
}

func TestDefaultWindow(t *testing.T) {
	w := Default()
	if w.OpenHour != 21 || w.CloseHour != 4 {
		t.Fatalf("unexpected default window %d→%d", w.OpenHour, w.CloseHour)
	}
	if w.Loc == nil {
		t.Fatal("default window must carry a location")
	}
}
