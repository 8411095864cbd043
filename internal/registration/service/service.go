// Package service orchestrates the registration workflow: summary builds,
// commits with compensating rollback, and admin decisions.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"rinkside/internal/member/matcher"
	"rinkside/internal/org/fees"
	"rinkside/internal/registration/eligibility"
	regmetrics "rinkside/internal/registration/metrics"
	"rinkside/internal/registration/models"
	"rinkside/pkg/dates"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/audit"
)

// Service carries the registration workflow.
type Service struct {
	eligibility   *eligibility.Checker
	resolver      FeeResolver
	matcher       Matcher
	members       MemberStore
	registrations RegistrationStore
	payments      PaymentStore
	recorder      *audit.Recorder
	metrics       *regmetrics.Metrics
	logger        *slog.Logger
	currency      string
	tracer        trace.Tracer
}

type Config struct {
	Eligibility   *eligibility.Checker
	Resolver      FeeResolver
	Matcher       Matcher
	Members       MemberStore
	Registrations RegistrationStore
	Payments      PaymentStore
	Recorder      *audit.Recorder
	Metrics       *regmetrics.Metrics
	Logger        *slog.Logger
	Currency      string
}

func New(cfg Config) *Service {
	return &Service{
		eligibility:   cfg.Eligibility,
		resolver:      cfg.Resolver,
		matcher:       cfg.Matcher,
		members:       cfg.Members,
		registrations: cfg.Registrations,
		payments:      cfg.Payments,
		recorder:      cfg.Recorder,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		currency:      cfg.Currency,
		tracer:        otel.Tracer("rinkside/registration"),
	}
}

// BuildSummary computes the priced registration preview. Eligibility runs
// first and short-circuits: ineligible drafts get a verdict but no fees and
// no member lookup. An eligible draft is then checked against active
// registrations, so a candidate already registered learns it at preview time
// rather than at commit; commit re-runs the check since the preview holds no
// reservation. For clean drafts the matcher and the fee resolver run
// concurrently.
//
// The summary is a pure function of the draft and current fee state. It
// carries no timestamps and its item order is the resolver's deterministic
// root-to-leaf order, so identical inputs yield byte-identical JSON.
func (s *Service) BuildSummary(ctx context.Context, draft models.Draft) (*models.Summary, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "registration.build_summary",
		trace.WithAttributes(
			attribute.String("club_id", draft.ClubID.String()),
			attribute.Int("season", draft.Season),
		))
	var retErr error
	defer func() { endSpan(span, retErr) }()

	if err := draft.Validate(); err != nil {
		retErr = err
		return nil, err
	}

	verdict, err := s.eligibility.Check(draft.Candidate.DOB, draft.Season, draft.DivisionCode)
	if err != nil {
		retErr = err
		return nil, err
	}

	summary := &models.Summary{
		Candidate:    draft.Candidate,
		ClubID:       draft.ClubID,
		DivisionCode: verdict.DivisionCode,
		Season:       draft.Season,
		Eligibility:  verdict,
		Items:        []fees.LineItem{},
		Currency:     s.currency,
	}

	if !verdict.Eligible {
		if s.metrics != nil {
			s.metrics.IncIneligible()
			s.metrics.ObserveSummaryBuild(start)
		}
		return summary, nil
	}

	exists, err := s.registrations.HasActive(ctx, draft.CandidateKey(), draft.ClubID, draft.Season)
	if err != nil {
		retErr = dErrors.Wrap(err, dErrors.CodeUnavailable, "duplicate check unavailable")
		return nil, retErr
	}
	if exists {
		retErr = s.duplicateErr(ctx, draft.ClubID, draft.Season)
		return nil, retErr
	}

	var (
		breakdown *fees.Breakdown
		match     *matcher.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		breakdown, err = s.resolver.Resolve(gctx, draft.ClubID, verdict.DivisionCode, seasonEffectiveDate(draft.Season))
		return err
	})
	g.Go(func() error {
		var err error
		match, err = s.matcher.Find(gctx, draft.Candidate)
		return err
	})
	if err := g.Wait(); err != nil {
		retErr = err
		return nil, err
	}

	summary.Items = breakdown.Items
	summary.Total = breakdown.Total
	applyMatch(summary, match)

	if s.metrics != nil {
		s.metrics.ObserveSummaryBuild(start)
	}
	return summary, nil
}

// applyMatch attaches the matcher outcome. High confidence auto-fills the
// member; medium confidence stays a suggestion and never touches the
// candidate profile.
func applyMatch(summary *models.Summary, match *matcher.Match) {
	if match == nil {
		return
	}
	suggestion := &models.Suggestion{
		MemberID:   match.Member.ID,
		FirstName:  match.Member.FirstName,
		LastName:   match.Member.LastName,
		Confidence: string(match.Confidence),
	}
	if match.Confidence == matcher.ConfidenceHigh {
		summary.Member = suggestion
		return
	}
	summary.Suggestion = suggestion
}

// seasonEffectiveDate anchors fee validity checks for a season. Fees are
// evaluated as of January 1 of the season year, matching the age convention.
func seasonEffectiveDate(season int) dates.Date {
	return dates.New(season, time.January, 1)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
