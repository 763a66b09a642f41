package reporting

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/domain/rake"
	"github.com/mamadbah2/rakelog/internal/observability/metrics"
)

// Header names the sheet has used over time for the columns the service reads.
var (
	srNoColumns      = []string{"sr_no", "sr no", "sr. no", "s.no"}
	receiptColumns   = []string{"receipt", "receipt time"}
	releaseColumns   = []string{"release", "release time", "rake release time"}
	rDurationColumns = []string{"r_duration", "r duration", "release duration"}
	demurrageColumns = []string{"demurrage", "demurrage (hrs)"}
	wagonColumns     = []string{"wagon_spec", "wagon spec", "wagon type", "wagon_type"}
)

// TableSource yields the full spreadsheet as one table.
type TableSource interface {
	FetchTable(ctx context.Context) (models.Table, error)
}

// Service serves display reads from a short-lived cache of the spreadsheet.
type Service struct {
	source TableSource
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	cached    models.Table
	fetchedAt time.Time
	// last serial handed out per month tab; the export can lag behind writes
	issued map[string]int
}

// NewService wires a new reporting service instance.
func NewService(source TableSource, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, ttl: ttl, logger: logger, now: time.Now, issued: make(map[string]int)}
}

// Table returns the cached table, refreshing it once the TTL has elapsed.
func (s *Service) Table(ctx context.Context) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	start := time.Now()
	table, err := s.source.FetchTable(ctx)
	metrics.ObserveExportFetch(metrics.Result(err), time.Since(start))
	if err != nil {
		return models.Table{}, fmt.Errorf("load spreadsheet table: %w", err)
	}

	s.cached = table
	s.fetchedAt = s.now()
	s.logger.Debug("spreadsheet table refreshed", zap.Int("rows", len(table.Rows)))
	return table, nil
}

// Invalidate drops the cache so the next read sees a fresh submission.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
}

// RecentRows returns the last limit rows containing the date string.
func (s *Service) RecentRows(ctx context.Context, date string, limit int) (models.RecentRowsResponse, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return models.RecentRowsResponse{}, err
	}

	filtered := table.Filter(strings.TrimSpace(date))
	rows := filtered.Tail(limit)
	if rows == nil {
		rows = [][]string{}
	}
	return models.RecentRowsResponse{Date: date, Header: table.Header, Rows: rows}, nil
}

// NextSerial returns the serial number for the next row of a month tab,
// derived from the rows whose receipt falls in that month. A serial is never
// issued twice for the same tab by one service, even when the table has not
// caught up with earlier submissions yet.
func (s *Service) NextSerial(ctx context.Context, tab string) (int, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return 0, err
	}

	receiptIdx := table.Column(receiptColumns...)
	if receiptIdx < 0 {
		return 0, fmt.Errorf("receipt column not found in sheet header")
	}
	srIdx := table.Column(srNoColumns...)

	count, maxSerial := 0, 0
	for _, row := range table.Rows {
		receipt, err := rake.ParseStamp(models.Cell(row, receiptIdx))
		if err != nil || rake.TabName(receipt) != tab {
			continue
		}
		count++
		if sr, err := strconv.Atoi(models.Cell(row, srIdx)); err == nil && sr > maxSerial {
			maxSerial = sr
		}
	}

	next := max(count, maxSerial) + 1

	s.mu.Lock()
	defer s.mu.Unlock()
	if last := s.issued[tab]; last >= next {
		next = last + 1
	}
	s.issued[tab] = next
	return next, nil
}

// DailySummary aggregates the rakes released on the given IST calendar day.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (models.DailySummary, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return models.DailySummary{}, err
	}

	releaseIdx := table.Column(releaseColumns...)
	if releaseIdx < 0 {
		return models.DailySummary{}, fmt.Errorf("release column not found in sheet header")
	}
	receiptIdx := table.Column(receiptColumns...)
	durationIdx := table.Column(rDurationColumns...)
	demurrageIdx := table.Column(demurrageColumns...)
	wagonIdx := table.Column(wagonColumns...)

	day = day.In(rake.IST)
	summary := models.DailySummary{
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, rake.IST),
		CreatedAt: s.now().UTC(),
	}
	target := summary.Date.Format(rake.DateLayout)

	var totalRelease time.Duration
	var timed int
	for _, row := range table.Rows {
		release := models.Cell(row, releaseIdx)
		if !strings.HasPrefix(release, target) {
			continue
		}
		summary.Rakes++

		if spec, err := rake.ParseWagonSpec(models.Cell(row, wagonIdx)); err == nil {
			summary.Wagons += spec.Quantity
		}

		if hours, err := parseHours(models.Cell(row, demurrageIdx)); err == nil && hours > 0 {
			summary.DemurrageHours += hours
			summary.RakesWithDemurrage++
		}

		if d, ok := releaseDuration(row, durationIdx, receiptIdx, release); ok {
			totalRelease += d
			timed++
		} else {
			s.logger.Debug("skip row without release duration", zap.Strings("row", row))
		}
	}

	if timed > 0 {
		summary.AverageRelease = totalRelease / time.Duration(timed)
	}
	summary.AverageReleaseText = rake.FormatDuration(summary.AverageRelease)
	return summary, nil
}

// FormatSummary renders a summary as a short chat message.
func FormatSummary(summary models.DailySummary) string {
	date := summary.Date.Format(rake.DateLayout)
	if summary.Rakes == 0 {
		return fmt.Sprintf("Rake summary %s: no rakes released.", date)
	}
	return fmt.Sprintf("Rake summary %s: %d rakes released (%d wagons). Average release %s. Demurrage %dh across %d rakes.",
		date, summary.Rakes, summary.Wagons, summary.AverageReleaseText, summary.DemurrageHours, summary.RakesWithDemurrage)
}

func releaseDuration(row []string, durationIdx, receiptIdx int, release string) (time.Duration, bool) {
	if d, err := rake.ParseDuration(models.Cell(row, durationIdx)); err == nil {
		return d, true
	}
	receipt, err := rake.ParseStamp(models.Cell(row, receiptIdx))
	if err != nil {
		return 0, false
	}
	released, err := rake.ParseStamp(release)
	if err != nil || released.Before(receipt) {
		return 0, false
	}
	return released.Sub(receipt), true
}

func parseHours(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	// the sheet allows half-hour steps, demurrage is billed in whole hours
	return int(math.Ceil(f)), nil
}
