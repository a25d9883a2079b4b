// Package window implements the running-window predicate: should the
// dispatcher operate at all at the current wall-clock time.
package window

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time within a single day, minute resolution.
type TimeOfDay struct {
	Hour, Minute int
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Window is a parsed HH:MM-HH:MM running-window.
type Window struct {
	Start, End TimeOfDay
}

// Parse parses a window string of the form "HH:MM-HH:MM". A malformed
// string returns ok=false; callers must fail closed (treat as never-within)
// rather than running unconditionally.
func Parse(s string) (Window, bool) {
	start, end, found := strings.Cut(s, "-")
	if !found {
		return Window{}, false
	}
	st, ok := parseTimeOfDay(start)
	if !ok {
		return Window{}, false
	}
	en, ok := parseTimeOfDay(end)
	if !ok {
		return Window{}, false
	}
	return Window{Start: st, End: en}, true
}

func parseTimeOfDay(s string) (TimeOfDay, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return TimeOfDay{}, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: hour, Minute: minute}, true
}

// Within reports whether now's wall-clock time falls inside w.
//   - start <= end: true iff start <= now < end.
//   - start > end (wraps midnight): true iff now >= start or now < end.
func (w Window) Within(now time.Time) bool {
	n := TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}.minutes()
	start, end := w.Start.minutes(), w.End.minutes()

	if start <= end {
		return n >= start && n < end
	}
	return n >= start || n < end
}

// WithinString parses s and evaluates it against now. A malformed window
// fails closed: it returns false.
func WithinString(s string, now time.Time) bool {
	w, ok := Parse(s)
	if !ok {
		return false
	}
	return w.Within(now)
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start.Hour, w.Start.Minute, w.End.Hour, w.End.Minute)
}
