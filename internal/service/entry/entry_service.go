package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/auth"
	"github.com/mamadbah2/rakelog/internal/domain/models"
	"github.com/mamadbah2/rakelog/internal/domain/rake"
	"github.com/mamadbah2/rakelog/internal/observability/metrics"
)

// ErrRejected indicates the entry failed validation and nothing was sent.
var ErrRejected = errors.New("rake entry rejected")

// Submitter posts a finished row to the spreadsheet.
type Submitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) error
}

// AuditStore persists one record per submission attempt.
type AuditStore interface {
	SaveSubmissionLog(ctx context.Context, log models.SubmissionLog) error
}

// SerialSource hands out the next serial number of a month tab.
type SerialSource interface {
	NextSerial(ctx context.Context, tab string) (int, error)
	Invalidate()
}

// Service validates rake entries and forwards accepted ones to the sheet.
type Service struct {
	submitter Submitter
	audit     AuditStore
	serials   SerialSource
	freshness time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs the entry service. audit may be nil.
func NewService(submitter Submitter, audit AuditStore, serials SerialSource, freshness time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		submitter: submitter,
		audit:     audit,
		serials:   serials,
		freshness: freshness,
		logger:    logger,
		now:       time.Now,
	}
}

// Validate runs every check without side effects.
func (s *Service) Validate(ctx context.Context, req models.RakeEntryRequest, caller auth.Identity) models.EvaluationResponse {
	ev := s.evaluate(req, caller)
	s.logger.Debug("rake entry validated",
		zap.String("rake_no", req.RakeNo),
		zap.String("subject", caller.Subject),
		zap.Bool("valid", ev.Valid()),
		zap.Int("errors", len(ev.Errors)),
	)
	return evaluationResponse(ev)
}

// Submit validates the entry and, when it is clean, posts it once. The
// returned result always carries the evaluation; the payload is set once it
// was built.
func (s *Service) Submit(ctx context.Context, req models.RakeEntryRequest, caller auth.Identity) (models.SubmissionResult, error) {
	ev := s.evaluate(req, caller)
	result := models.SubmissionResult{Evaluation: evaluationResponse(ev)}

	if !ev.Valid() {
		for _, fe := range ev.Errors {
			metrics.IncValidationError(string(fe.Kind))
		}
		s.record(ctx, req.RakeNo, models.SubmissionRejected, caller, errorStrings(ev.Errors), nil)
		s.logger.Info("rake entry rejected",
			zap.String("rake_no", req.RakeNo),
			zap.String("subject", caller.Subject),
			zap.String("errors", ev.Errors.Error()),
		)
		return result, fmt.Errorf("%w: %s", ErrRejected, ev.Errors.Error())
	}

	tab := rake.TabName(ev.Timeline.Receipt)
	srNo := req.SrNo
	if srNo == 0 {
		next, err := s.serials.NextSerial(ctx, tab)
		if err != nil {
			err = fmt.Errorf("%w: resolve serial number for %s: %v", rake.ErrTransport, tab, err)
			s.fail(ctx, req.RakeNo, caller, err, nil)
			return result, err
		}
		srNo = next
	}

	payload := buildPayload(req, ev, srNo, tab)
	result.Payload = payload

	start := time.Now()
	err := s.submitter.Submit(ctx, payload)
	metrics.ObserveSubmit(metrics.Result(err), time.Since(start))
	if err != nil {
		if !errors.Is(err, rake.ErrTransport) {
			err = fmt.Errorf("%w: %v", rake.ErrTransport, err)
		}
		s.fail(ctx, req.RakeNo, caller, err, &payload)
		return result, err
	}

	s.serials.Invalidate()
	metrics.IncSubmission(string(models.SubmissionAccepted))
	s.record(ctx, req.RakeNo, models.SubmissionAccepted, caller, nil, &payload)
	s.logger.Info("rake entry submitted",
		zap.String("rake_no", payload.RakeNo),
		zap.String("tab", tab),
		zap.Int("sr_no", srNo),
		zap.String("r_duration", payload.RDuration),
		zap.Int("demurrage", payload.Demurrage),
	)
	return result, nil
}

func (s *Service) evaluate(req models.RakeEntryRequest, caller auth.Identity) rake.Evaluation {
	policy := rake.FreshnessPolicy{Restricted: caller.Restricted(), Window: s.freshness}
	return rake.Evaluate(req.EntryInput(), s.now(), policy)
}

func (s *Service) fail(ctx context.Context, rakeNo string, caller auth.Identity, err error, payload *models.SubmissionPayload) {
	metrics.IncValidationError(string(rake.KindTransport))
	metrics.IncSubmission(string(models.SubmissionFailed))
	s.record(ctx, rakeNo, models.SubmissionFailed, caller, []string{err.Error()}, payload)
	s.logger.Error("rake submission failed", zap.String("rake_no", rakeNo), zap.Error(err))
}

func (s *Service) record(ctx context.Context, rakeNo string, status models.SubmissionStatus, caller auth.Identity, errs []string, payload *models.SubmissionPayload) {
	if s.audit == nil {
		return
	}
	entry := models.SubmissionLog{
		RakeNo:    rakeNo,
		Status:    status,
		Subject:   caller.Subject,
		Role:      string(caller.Role),
		Errors:    errs,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.audit.SaveSubmissionLog(ctx, entry); err != nil {
		s.logger.Warn("failed to save submission log", zap.String("rake_no", rakeNo), zap.Error(err))
	}
}

func evaluationResponse(ev rake.Evaluation) models.EvaluationResponse {
	resp := models.EvaluationResponse{
		Valid:             ev.Valid(),
		UnloadingDuration: ev.Metrics.UnloadingText(),
		ReleaseDuration:   ev.Metrics.ReleaseText(),
		DemurrageHours:    ev.Metrics.DemurrageHours,
		Errors:            ev.Errors,
	}
	if !ev.Timeline.Receipt.IsZero() {
		resp.TabName = rake.TabName(ev.Timeline.Receipt)
	}
	if len(ev.Windows) > 0 {
		resp.Windows = ev.Windows
	}
	return resp
}

func buildPayload(req models.RakeEntryRequest, ev rake.Evaluation, srNo int, tab string) models.SubmissionPayload {
	tippler := func(field string) string {
		return ev.Tipplers[field].String()
	}
	return models.SubmissionPayload{
		SrNo:         srNo,
		TabName:      tab,
		RakeNo:       strings.TrimSpace(req.RakeNo),
		Source:       strings.TrimSpace(req.Source),
		WagonSpec:    ev.Wagon.String(),
		WagonType:    string(ev.Wagon.Type),
		Receipt:      rake.FormatInstant(ev.Timeline.Receipt),
		Placement:    rake.FormatInstant(ev.Timeline.Placement),
		UnloadingEnd: rake.FormatInstant(ev.Timeline.UnloadingEnd),
		Release:      rake.FormatInstant(ev.Timeline.Release),
		UDuration:    ev.Metrics.UnloadingText(),
		RDuration:    ev.Metrics.ReleaseText(),
		Demurrage:    ev.Metrics.DemurrageHours,
		NTH:          tippler("nth"),
		MUTH:         tippler("muth"),
		WT1:          tippler("wt1"),
		WT2:          tippler("wt2"),
		WT3:          tippler("wt3"),
		WT4:          tippler("wt4"),
		GCV:          req.GCV,
		VM:           req.VM,
		RemMM:        strings.TrimSpace(req.RemMM),
		RemEMD:       strings.TrimSpace(req.RemEMD),
		RemCNI:       strings.TrimSpace(req.RemCNI),
		RemOPR:       strings.TrimSpace(req.RemOPR),
		RemMGR:       strings.TrimSpace(req.RemMGR),
		RemCHEM:      strings.TrimSpace(req.RemCHEM),
		RemOther:     strings.TrimSpace(req.RemOther),
	}
}

func errorStrings(errs rake.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Error())
	}
	return out
}
