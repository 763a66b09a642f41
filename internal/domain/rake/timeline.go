package rake

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "02.01.2006"
	ClockLayout = "15:04"
	// StampLayout is the textual timestamp format shared with the spreadsheet.
	StampLayout = "02.01.2006/15:04"

	DefaultFreshnessWindow = 12 * time.Hour
)

// IST is the fixed zone every rake timestamp is interpreted in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const (
	FieldReceipt      = "receipt"
	FieldPlacement    = "placement"
	FieldUnloadingEnd = "unloading_end"
	FieldRelease      = "release"
)

// DateTime is a date/time pair as typed by the operator.
type DateTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// IsZero reports whether neither half was supplied.
func (d DateTime) IsZero() bool {
	return strings.TrimSpace(d.Date) == "" && strings.TrimSpace(d.Time) == ""
}

// TimelineInput carries the four raw timestamp pairs of a rake.
type TimelineInput struct {
	Receipt      DateTime `json:"receipt"`
	Placement    DateTime `json:"placement"`
	UnloadingEnd DateTime `json:"unloading_end"`
	Release      DateTime `json:"release"`
}

// Timeline holds the four parsed instants in their fixed order.
type Timeline struct {
	Receipt      time.Time
	Placement    time.Time
	UnloadingEnd time.Time
	Release      time.Time
}

// Ordered reports whether all instants are set and non-decreasing.
func (t Timeline) Ordered() bool {
	stamps := t.instants()
	for i, s := range stamps {
		if s.IsZero() {
			return false
		}
		if i > 0 && s.Before(stamps[i-1]) {
			return false
		}
	}
	return true
}

func (t Timeline) instants() [4]time.Time {
	return [4]time.Time{t.Receipt, t.Placement, t.UnloadingEnd, t.Release}
}

// FreshnessPolicy gates how far back a caller may record events.
// Unrestricted callers skip the check entirely.
type FreshnessPolicy struct {
	Restricted bool
	Window     time.Duration
}

// ParseInstant combines a DD.MM.YYYY date and an HH:MM time in IST.
func ParseInstant(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("date and time are both required")
	}
	t, err := time.ParseInLocation(StampLayout, date+"/"+clock, IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected DD.MM.YYYY and HH:MM, got %q %q", date, clock)
	}
	return t, nil
}

// ParseStamp reads a DD.MM.YYYY/HH:MM sheet timestamp in IST.
func ParseStamp(stamp string) (time.Time, error) {
	t, err := time.ParseInLocation(StampLayout, strings.TrimSpace(stamp), IST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected DD.MM.YYYY/HH:MM", stamp)
	}
	return t, nil
}

// FormatInstant renders t in the spreadsheet timestamp format.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(IST).Format(StampLayout)
}

// TabName returns the month tab a record belongs to, e.g. "FEB-26".
func TabName(t time.Time) string {
	return strings.ToUpper(t.In(IST).Format("Jan-06"))
}

// ValidateTimeline parses the four pairs and checks presence, ordering and,
// for restricted callers, freshness relative to now. Every failure is
// accumulated. The returned Timeline is only safe to compute on when
// Ordered() is true.
func ValidateTimeline(in TimelineInput, now time.Time, policy FreshnessPolicy) (Timeline, ValidationErrors) {
	var errs ValidationErrors

	pairs := []struct {
		field string
		value DateTime
	}{
		{FieldReceipt, in.Receipt},
		{FieldPlacement, in.Placement},
		{FieldUnloadingEnd, in.UnloadingEnd},
		{FieldRelease, in.Release},
	}

	var stamps [4]time.Time
	complete := true
	for i, p := range pairs {
		if strings.TrimSpace(p.value.Date) == "" || strings.TrimSpace(p.value.Time) == "" {
			errs.add(p.field, KindMandatory, "date and time are required")
			complete = false
			continue
		}
		t, err := ParseInstant(p.value.Date, p.value.Time)
		if err != nil {
			errs.add(p.field, KindFormat, err.Error())
			complete = false
			continue
		}
		stamps[i] = t
	}

	tl := Timeline{Receipt: stamps[0], Placement: stamps[1], UnloadingEnd: stamps[2], Release: stamps[3]}
	if !complete {
		return tl, errs
	}

	for i := 1; i < len(stamps); i++ {
		if stamps[i].Before(stamps[i-1]) {
			errs.add(pairs[i].field, KindOrdering, fmt.Sprintf("%s (%s) is earlier than %s (%s)",
				pairs[i].field, FormatInstant(stamps[i]), pairs[i-1].field, FormatInstant(stamps[i-1])))
		}
	}

	if policy.Restricted {
		window := policy.Window
		if window <= 0 {
			window = DefaultFreshnessWindow
		}
		oldest := now.Add(-window)
		for i, s := range stamps {
			switch {
			case s.After(now):
				errs.add(pairs[i].field, KindFreshness, fmt.Sprintf("%s is in the future", FormatInstant(s)))
			case s.Before(oldest):
				errs.add(pairs[i].field, KindFreshness, fmt.Sprintf("%s is outside the last %gh edit window", FormatInstant(s), window.Hours()))
			}
		}
	}

	return tl, errs
}
