package rake

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d{2,}):([0-5]\d):([0-5]\d)$`)

// DerivedMetrics are the values computed from an ordered timeline.
type DerivedMetrics struct {
	UnloadingDuration time.Duration
	ReleaseDuration   time.Duration
	DemurrageHours    int
}

// UnloadingText is the unloading duration as HH:MM:SS.
func (m DerivedMetrics) UnloadingText() string {
	return FormatDuration(m.UnloadingDuration)
}

// ReleaseText is the release duration as HH:MM:SS.
func (m DerivedMetrics) ReleaseText() string {
	return FormatDuration(m.ReleaseDuration)
}

// Compute derives durations and demurrage. A timeline that is not ordered
// yields the zero placeholder rather than negative spans.
func Compute(tl Timeline, wagon WagonType) DerivedMetrics {
	if !tl.Ordered() {
		return DerivedMetrics{}
	}
	release := tl.Release.Sub(tl.Receipt)
	return DerivedMetrics{
		UnloadingDuration: tl.UnloadingEnd.Sub(tl.Placement),
		ReleaseDuration:   release,
		DemurrageHours:    Demurrage(release, wagon),
	}
}

// Demurrage returns the whole hours charged beyond the wagon type's free time,
// rounded up. It is never negative.
func Demurrage(release time.Duration, wagon WagonType) int {
	excess := release - wagon.FreeTime()
	if excess <= 0 {
		return 0
	}
	return int(math.Ceil(excess.Hours()))
}

// FormatDuration renders d as zero padded HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ParseDuration reads an HH:MM:SS string back into a duration.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q, expected HH:MM:SS", s)
	}
	hours, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration hours %q: %w", m[1], err)
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	rest := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if hours > int64((math.MaxInt64-rest)/time.Hour) {
		return 0, fmt.Errorf("invalid duration %q: out of range", s)
	}
	return time.Duration(hours)*time.Hour + rest, nil
}
