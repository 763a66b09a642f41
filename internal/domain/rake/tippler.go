package rake

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWindowMissing is returned when wagons were tipped but no time window was given.
	ErrWindowMissing = errors.New("start and end time are required when a wagon count is recorded")
	// ErrOutOfBounds is returned when a time of day cannot be placed inside the enclosing bounds.
	ErrOutOfBounds = errors.New("time is outside the allowed window")
)

// TipplerEntry is a station's wagon count with its optional time-of-day window.
type TipplerEntry struct {
	Count int
	Start string
	End   string
}

// HasWindow reports whether both window ends were supplied.
func (e TipplerEntry) HasWindow() bool {
	return e.Start != "" && e.End != ""
}

// IsZero reports an untouched field.
func (e TipplerEntry) IsZero() bool {
	return e.Count == 0 && e.Start == "" && e.End == ""
}

// String renders the entry in the "<count> / (<HH:MM> - <HH:MM>)" form stored in the sheet.
func (e TipplerEntry) String() string {
	if e.IsZero() {
		return ""
	}
	if !e.HasWindow() {
		return fmt.Sprintf("%d", e.Count)
	}
	return fmt.Sprintf("%d / (%s - %s)", e.Count, e.Start, e.End)
}

// TipplerWindow is a window resolved to concrete instants.
type TipplerWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration of the window.
func (w TipplerWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// ResolveWindow places the entry's start and end times of day inside
// [lower, upper]. The end is resolved against the resolved start, so a window
// such as 23:50 - 00:10 rolls the end over to the next day. An entry with no
// wagons and no window resolves to the zero window.
func ResolveWindow(entry TipplerEntry, lower, upper time.Time) (TipplerWindow, error) {
	if !entry.HasWindow() {
		if entry.Count > 0 {
			return TipplerWindow{}, ErrWindowMissing
		}
		return TipplerWindow{}, nil
	}

	start, err := ResolveClock(entry.Start, lower, upper)
	if err != nil {
		return TipplerWindow{}, fmt.Errorf("start %s: %w", entry.Start, err)
	}

	end, err := ResolveClock(entry.End, start, upper)
	if err != nil {
		return TipplerWindow{}, fmt.Errorf("end %s: %w", entry.End, err)
	}

	return TipplerWindow{Start: start, End: end}, nil
}

// ResolveClock scans forward day by day from lower's calendar date to upper's
// and returns the first instant with the given time of day inside [lower, upper].
func ResolveClock(clock string, lower, upper time.Time) (time.Time, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if upper.Before(lower) {
		return time.Time{}, fmt.Errorf("%w: bounds are inverted", ErrOutOfBounds)
	}

	lower = lower.In(IST)
	upper = upper.In(IST)
	day := time.Date(lower.Year(), lower.Month(), lower.Day(), 0, 0, 0, 0, IST)
	last := time.Date(upper.Year(), upper.Month(), upper.Day(), 0, 0, 0, 0, IST)

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, IST)
		if !candidate.Before(lower) && !candidate.After(upper) {
			return candidate, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: not between %s and %s", ErrOutOfBounds, FormatInstant(lower), FormatInstant(upper))
}

func parseClock(clock string) (int, int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	return t.Hour(), t.Minute(), nil
}
