package rake

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{3*time.Hour + 5*time.Minute + 10*time.Second, "03:05:10"},
		{0, "00:00:00"},
		{26*time.Hour + 59*time.Second, "26:00:59"},
		{120*time.Hour + 30*time.Minute, "120:30:00"},
		{-time.Hour, "00:00:00"},
		{time.Minute + 999*time.Millisecond, "00:01:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDuration_RoundTrip(t *testing.T) {
	for _, s := range []string{"03:05:10", "00:00:00", "26:00:59", "120:30:00"} {
		d, err := ParseDuration(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if got := FormatDuration(d); got != s {
			t.Fatalf("round trip of %q produced %q", s, got)
		}
	}

	for _, bad := range []string{"3:05:10", "03:60:00", "03:05", "abc", ""} {
		if _, err := ParseDuration(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseDuration_OutOfRange(t *testing.T) {
	for _, bad := range []string{"3000000:00:00", "2562047:59:59", "99999999999999999999:00:00"} {
		d, err := ParseDuration(bad)
		if err == nil {
			t.Fatalf("expected error for %q, got %s", bad, d)
		}
	}

	d, err := ParseDuration("2562047:00:00")
	if err != nil {
		t.Fatalf("largest whole hour should parse: %v", err)
	}
	if d != 2562047*time.Hour {
		t.Fatalf("unexpected duration %s", d)
	}
}

func TestDemurrage(t *testing.T) {
	cases := []struct {
		name    string
		release time.Duration
		wagon   WagonType
		want    int
	}{
		{"N at free time", 7 * time.Hour, WagonTypeN, 0},
		{"N just over", 7*time.Hour + 6*time.Minute, WagonTypeN, 1},
		{"N one second over", 7*time.Hour + time.Second, WagonTypeN, 1},
		{"N under", 3 * time.Hour, WagonTypeN, 0},
		{"N whole hours over", 10 * time.Hour, WagonTypeN, 3},
		{"R two and a half", 2*time.Hour + 30*time.Minute, WagonTypeR, 1},
		{"R at free time", 2 * time.Hour, WagonTypeR, 0},
		{"R long", 9*time.Hour + 1*time.Minute, WagonTypeR, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Demurrage(tc.release, tc.wagon); got != tc.want {
				t.Fatalf("Demurrage(%s, %s) = %d, want %d", tc.release, tc.wagon, got, tc.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	tl := Timeline{
		Receipt:      mustInstant(t, "18.10.2026/06:00"),
		Placement:    mustInstant(t, "18.10.2026/07:30"),
		UnloadingEnd: mustInstant(t, "18.10.2026/11:15"),
		Release:      mustInstant(t, "18.10.2026/13:06"),
	}
	m := Compute(tl, WagonTypeN)
	if m.UnloadingText() != "03:45:00" {
		t.Fatalf("unexpected unloading duration %s", m.UnloadingText())
	}
	if m.ReleaseText() != "07:06:00" {
		t.Fatalf("unexpected release duration %s", m.ReleaseText())
	}
	if m.DemurrageHours != 1 {
		t.Fatalf("expected 1h demurrage, got %d", m.DemurrageHours)
	}
}

func TestCompute_UnorderedYieldsPlaceholder(t *testing.T) {
	tl := Timeline{
		Receipt:      mustInstant(t, "18.10.2026/06:00"),
		Placement:    mustInstant(t, "18.10.2026/05:30"),
		UnloadingEnd: mustInstant(t, "18.10.2026/11:15"),
		Release:      mustInstant(t, "18.10.2026/20:00"),
	}
	m := Compute(tl, WagonTypeR)
	if m != (DerivedMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
	if m.ReleaseText() != "00:00:00" {
		t.Fatalf("expected placeholder text, got %s", m.ReleaseText())
	}
}
