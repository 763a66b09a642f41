package rake

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// WagonType is the single letter code that decides the free time allowance.
type WagonType string

const (
	WagonTypeN WagonType = "N"
	WagonTypeR WagonType = "R"
)

// FreeTime is the demurrage-free allowance. Unknown types get none.
func (w WagonType) FreeTime() time.Duration {
	switch w {
	case WagonTypeN:
		return 7 * time.Hour
	case WagonTypeR:
		return 2 * time.Hour
	default:
		return 0
	}
}

// WagonSpec is a wagon quantity plus type, written like "58N".
type WagonSpec struct {
	Quantity int
	Type     WagonType
}

func (w WagonSpec) String() string {
	if w.Quantity == 0 {
		return ""
	}
	return fmt.Sprintf("%d%s", w.Quantity, w.Type)
}

// RemarkEntry is one outage line of a departmental remark field.
type RemarkEntry struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

var (
	rakeNoPattern    = regexp.MustCompile(`^\d{1,3}/\d{1,4}$`)
	wagonSpecPattern = regexp.MustCompile(`^([1-9]\d?)([NR])$`)
	tipplerPattern   = regexp.MustCompile(`^(\d+)\s*/\s*\(\s*(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*\)$`)
	countPattern     = regexp.MustCompile(`^\d+$`)
	remarkPattern    = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s+(\S.*)$`)
)

// ErrEmpty is returned by parsers when a required value is blank.
var ErrEmpty = errors.New("value is required")

// ValidateRakeNo checks the "N/M" rake identifier.
func ValidateRakeNo(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmpty
	}
	if !rakeNoPattern.MatchString(value) {
		return fmt.Errorf("invalid rake number %q, expected digits/digits such as 1/1481", value)
	}
	return nil
}

// ParseWagonSpec reads a wagon specification such as "58N".
func ParseWagonSpec(value string) (WagonSpec, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return WagonSpec{}, ErrEmpty
	}
	m := wagonSpecPattern.FindStringSubmatch(value)
	if m == nil {
		return WagonSpec{}, fmt.Errorf("invalid wagon spec %q, expected 1-99 followed by N or R", value)
	}
	qty, _ := strconv.Atoi(m[1])
	return WagonSpec{Quantity: qty, Type: WagonType(m[2])}, nil
}

// ParseTippler reads "<count> / (<HH:MM> - <HH:MM>)" or a bare count.
// An empty value is an untouched optional field.
func ParseTippler(value string) (TipplerEntry, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TipplerEntry{}, nil
	}

	if countPattern.MatchString(value) {
		count, err := strconv.Atoi(value)
		if err != nil {
			return TipplerEntry{}, fmt.Errorf("invalid wagon count %q", value)
		}
		return TipplerEntry{Count: count}, nil
	}

	m := tipplerPattern.FindStringSubmatch(value)
	if m == nil {
		return TipplerEntry{}, fmt.Errorf("invalid entry %q, expected <count> / (HH:MM - HH:MM)", value)
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return TipplerEntry{}, fmt.Errorf("invalid wagon count %q", m[1])
	}
	for _, clock := range m[2:4] {
		if _, _, err := parseClock(clock); err != nil {
			return TipplerEntry{}, err
		}
	}
	return TipplerEntry{Count: count, Start: normalizeClock(m[2]), End: normalizeClock(m[3])}, nil
}

// ParseRemarks reads a multi-line outage log where every non-blank line is
// "<HH:MM> - <HH:MM> <reason>".
func ParseRemarks(value string) ([]RemarkEntry, error) {
	var entries []RemarkEntry
	for i, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := remarkPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d %q, expected HH:MM - HH:MM reason", i+1, line)
		}
		for _, clock := range m[1:3] {
			if _, _, err := parseClock(clock); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		entries = append(entries, RemarkEntry{From: normalizeClock(m[1]), To: normalizeClock(m[2]), Reason: strings.TrimSpace(m[3])})
	}
	return entries, nil
}

func normalizeClock(clock string) string {
	h, m, err := parseClock(clock)
	if err != nil {
		return clock
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
