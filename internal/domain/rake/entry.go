package rake

import (
	"errors"
	"strings"
	"time"
)

const (
	FieldRakeNo    = "rake_no"
	FieldSource    = "source"
	FieldWagonSpec = "wagon_spec"
)

// TipplerFields lists the wagon handling fields in display order.
var TipplerFields = []string{"wt1", "wt2", "wt3", "wt4", "nth", "muth"}

// RemarkFields lists the departmental outage remark fields in display order.
var RemarkFields = []string{"rem_mm", "rem_emd", "rem_cni", "rem_opr", "rem_mgr", "rem_chem", "rem_other"}

// EntryInput is the immutable set of raw values submitted for one rake.
type EntryInput struct {
	RakeNo    string
	Source    string
	WagonSpec string
	Timeline  TimelineInput
	// Tipplers and Remarks are keyed by TipplerFields and RemarkFields.
	Tipplers map[string]string
	Remarks  map[string]string
}

// Evaluation is the outcome of validating an entry. Metrics are the zero
// placeholder unless the timeline is ordered and the wagon spec parsed.
type Evaluation struct {
	Timeline Timeline
	Wagon    WagonSpec
	Tipplers map[string]TipplerEntry
	Windows  map[string]TipplerWindow
	Remarks  map[string][]RemarkEntry
	Metrics  DerivedMetrics
	Errors   ValidationErrors
}

// Valid reports whether no error of any kind was recorded.
func (e Evaluation) Valid() bool {
	return len(e.Errors) == 0
}

// Evaluate runs every validator over the entry and accumulates all failures.
// Tippler windows must fall within [receipt, unloading-end].
func Evaluate(in EntryInput, now time.Time, policy FreshnessPolicy) Evaluation {
	ev := Evaluation{Remarks: make(map[string][]RemarkEntry)}

	if err := ValidateRakeNo(in.RakeNo); err != nil {
		ev.Errors.add(FieldRakeNo, kindOf(err), err.Error())
	}

	if strings.TrimSpace(in.Source) == "" {
		ev.Errors.add(FieldSource, KindMandatory, ErrEmpty.Error())
	}

	wagon, wagonErr := ParseWagonSpec(in.WagonSpec)
	if wagonErr != nil {
		ev.Errors.add(FieldWagonSpec, kindOf(wagonErr), wagonErr.Error())
	}
	ev.Wagon = wagon

	tl, tlErrs := ValidateTimeline(in.Timeline, now, policy)
	ev.Timeline = tl
	ev.Errors = append(ev.Errors, tlErrs...)

	tipplers, windows, tipplerErrs := EvaluateTipplers(in.Tipplers, TipplerFields, tl)
	ev.Tipplers, ev.Windows = tipplers, windows
	ev.Errors = append(ev.Errors, tipplerErrs...)

	for _, field := range RemarkFields {
		entries, err := ParseRemarks(in.Remarks[field])
		if err != nil {
			ev.Errors.add(field, KindFormat, err.Error())
			continue
		}
		if len(entries) > 0 {
			ev.Remarks[field] = entries
		}
	}

	ev.Metrics = EntryMetrics(tl, wagon, wagonErr)
	return ev
}

// EvaluateTipplers parses the given tippler fields of raw. A count needs a
// window, and windows are resolved against [receipt, unloading-end] only once
// the timeline is ordered.
func EvaluateTipplers(raw map[string]string, fields []string, tl Timeline) (map[string]TipplerEntry, map[string]TipplerWindow, ValidationErrors) {
	entries := make(map[string]TipplerEntry)
	windows := make(map[string]TipplerWindow)
	var errs ValidationErrors
	ordered := tl.Ordered()

	for _, field := range fields {
		entry, err := ParseTippler(raw[field])
		if err != nil {
			errs.add(field, KindFormat, err.Error())
			continue
		}
		if entry.IsZero() {
			continue
		}
		entries[field] = entry

		if entry.Count > 0 && !entry.HasWindow() {
			errs.add(field, KindMandatory, ErrWindowMissing.Error())
			continue
		}
		if !ordered {
			continue
		}
		window, err := ResolveWindow(entry, tl.Receipt, tl.UnloadingEnd)
		if err != nil {
			errs.add(field, kindOf(err), err.Error())
			continue
		}
		if !window.Start.IsZero() {
			windows[field] = window
		}
	}
	return entries, windows, errs
}

// EntryMetrics derives the metrics of an entry whose wagon spec parsed with
// wagonErr. Demurrage depends on the wagon free time, so an unusable wagon
// spec yields the zero placeholder just like an unordered timeline.
func EntryMetrics(tl Timeline, wagon WagonSpec, wagonErr error) DerivedMetrics {
	if wagonErr != nil {
		return DerivedMetrics{}
	}
	return Compute(tl, wagon.Type)
}

func kindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrEmpty), errors.Is(err, ErrWindowMissing):
		return KindMandatory
	case errors.Is(err, ErrOutOfBounds):
		return KindOrdering
	default:
		return KindFormat
	}
}
