package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/rakelog/internal/domain/rake"
)

const appVersion = "0.3.0"

type options struct {
	receipt      string
	placement    string
	unloadingEnd string
	release      string
	wagon        string
	tipplers     map[string]string
	asJSON       bool
}

// Report is the calculator output, also emitted with --json.
type Report struct {
	TabName           string                        `json:"tab_name,omitempty"`
	UnloadingDuration string                        `json:"u_duration"`
	ReleaseDuration   string                        `json:"r_duration"`
	DemurrageHours    int                           `json:"demurrage"`
	FreeTime          string                        `json:"free_time"`
	Windows           map[string]rake.TipplerWindow `json:"windows,omitempty"`
	Errors            rake.ValidationErrors         `json:"errors,omitempty"`
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rakecalc",
		Short: "Rake duration and demurrage calculator",
		Example: `  rakecalc --receipt 18.10.2026/22:00 --placement 18.10.2026/22:30 \
    --unloading-end 19.10.2026/03:00 --release 19.10.2026/05:06 --wagon 58N \
    --tippler "wt1=10 / (23:50 - 00:10)"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := calculate(opts)
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}
			if len(report.Errors) > 0 {
				return fmt.Errorf("entry has %d error(s)", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Version = appVersion
	cmd.SetOut(out)
	cmd.SetVersionTemplate("rakecalc v{{.Version}}\n")

	cmd.Flags().StringVar(&opts.receipt, "receipt", "", "Receipt time DD.MM.YYYY/HH:MM")
	cmd.Flags().StringVar(&opts.placement, "placement", "", "Placement time DD.MM.YYYY/HH:MM")
	cmd.Flags().StringVar(&opts.unloadingEnd, "unloading-end", "", "Unloading end time DD.MM.YYYY/HH:MM")
	cmd.Flags().StringVar(&opts.release, "release", "", "Release time DD.MM.YYYY/HH:MM")
	cmd.Flags().StringVar(&opts.wagon, "wagon", "", "Wagon spec such as 58N or 40R")
	cmd.Flags().StringToStringVar(&opts.tipplers, "tippler", nil, `Tippler entry as field=value, e.g. "wt1=10 / (23:50 - 00:10)"`)
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("wagon")

	return cmd
}

/* ---------------- calculation ---------------- */

func calculate(opts *options) Report {
	in := rake.TimelineInput{
		Receipt:      splitStamp(opts.receipt),
		Placement:    splitStamp(opts.placement),
		UnloadingEnd: splitStamp(opts.unloadingEnd),
		Release:      splitStamp(opts.release),
	}

	// offline use, nobody is held to the freshness window
	tl, errs := rake.ValidateTimeline(in, time.Now(), rake.FreshnessPolicy{})
	report := Report{Errors: errs}

	wagon, wagonErr := rake.ParseWagonSpec(opts.wagon)
	if wagonErr != nil {
		report.Errors = append(report.Errors, rake.FieldError{Field: rake.FieldWagonSpec, Kind: rake.KindFormat, Message: wagonErr.Error()})
	}
	report.FreeTime = rake.FormatDuration(wagon.Type.FreeTime())

	if !tl.Receipt.IsZero() {
		report.TabName = rake.TabName(tl.Receipt)
	}
	derived := rake.EntryMetrics(tl, wagon, wagonErr)
	report.UnloadingDuration = derived.UnloadingText()
	report.ReleaseDuration = derived.ReleaseText()
	report.DemurrageHours = derived.DemurrageHours

	_, windows, tipplerErrs := rake.EvaluateTipplers(opts.tipplers, sortedKeys(opts.tipplers), tl)
	report.Windows = windows
	report.Errors = append(report.Errors, tipplerErrs...)

	return report
}

func splitStamp(stamp string) rake.DateTime {
	stamp = strings.TrimSpace(stamp)
	idx := strings.LastIndex(stamp, "/")
	if idx < 0 {
		return rake.DateTime{Date: stamp}
	}
	return rake.DateTime{Date: stamp[:idx], Time: stamp[idx+1:]}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

/* ---------------- output ---------------- */

func printReport(out io.Writer, r Report) {
	if r.TabName != "" {
		fmt.Fprintf(out, "Tab:        %s\n", r.TabName)
	}
	fmt.Fprintf(out, "Unloading:  %s\n", r.UnloadingDuration)
	fmt.Fprintf(out, "Release:    %s\n", r.ReleaseDuration)
	fmt.Fprintf(out, "Demurrage:  %dh (free time %s)\n", r.DemurrageHours, r.FreeTime)

	for _, field := range sortedWindowKeys(r.Windows) {
		w := r.Windows[field]
		fmt.Fprintf(out, "%-10s  %s -> %s (%s)\n", strings.ToUpper(field)+":",
			rake.FormatInstant(w.Start), rake.FormatInstant(w.End), rake.FormatDuration(w.Duration()))
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Errors:")
		for _, fe := range r.Errors {
			fmt.Fprintf(out, "  - [%s] %s: %s\n", fe.Kind, fe.Field, fe.Message)
		}
	}
}

func sortedWindowKeys(m map[string]rake.TipplerWindow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
