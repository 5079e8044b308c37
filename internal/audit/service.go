// Package audit coordinates the full audit lifecycle: creation, the
// concurrent analysis run, and report retrieval.
package audit

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/fetcher"
	"github.com/seoscan/seoscan/internal/metrics"
	"github.com/seoscan/seoscan/internal/pagespeed"
	"github.com/seoscan/seoscan/internal/report"
	"github.com/seoscan/seoscan/internal/scoring"
	"github.com/seoscan/seoscan/internal/storage"
	"github.com/seoscan/seoscan/internal/urlutil"
)

// Service orchestrates audits.
type Service struct {
	store      storage.Store
	fetcher    *fetcher.Fetcher
	analyzer   *analyzer.Analyzer
	pagespeed  *pagespeed.Client
	aggregator *scoring.Aggregator
	logger     *slog.Logger
}

// New creates the orchestrator.
func New(store storage.Store, f *fetcher.Fetcher, a *analyzer.Analyzer, ps *pagespeed.Client, agg *scoring.Aggregator, logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		fetcher:    f,
		analyzer:   a,
		pagespeed:  ps,
		aggregator: agg,
		logger:     logger,
	}
}

// CreateParams are the inputs for a new audit.
type CreateParams struct {
	UserID      string
	WebsiteURL  string
	DisplayName string
	Tier        string
}

// Create validates the target and stores a pending audit.
func (s *Service) Create(ctx context.Context, params CreateParams) (*storage.Audit, error) {
	parsed, err := url.Parse(params.WebsiteURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &ValidationError{Field: "url", Message: "scheme must be http or https"}
	}

	tier := storage.AuditTier(params.Tier)
	if params.Tier == "" {
		tier = storage.TierBasic
	}
	if !tier.Valid() {
		return nil, &ValidationError{Field: "tier", Message: "must be basic, professional, or agency"}
	}

	canonical, err := urlutil.Canonicalize(params.WebsiteURL)
	if err != nil {
		return nil, &ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	displayName := params.DisplayName
	if displayName == "" {
		host, hostErr := urlutil.Host(canonical)
		if hostErr != nil || host == "" {
			host = parsed.Host
		}
		displayName = host
	}

	audit := &storage.Audit{
		ID:          storage.NewAuditID(),
		UserID:      params.UserID,
		WebsiteURL:  canonical,
		DisplayName: displayName,
		Tier:        tier,
		Status:      storage.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Create(ctx, audit); err != nil {
		return nil, err
	}

	s.logger.Info("audit created",
		slog.String("audit_id", audit.ID),
		slog.String("url", audit.WebsiteURL),
		slog.String("tier", string(audit.Tier)))

	return audit, nil
}

// Run executes the analysis for the given audit. The HTML branch is
// best-effort: a fetch or parse failure leaves the facet data empty.
// A performance provider failure fails the whole run.
func (s *Service) Run(ctx context.Context, id string) (*storage.Audit, error) {
	audit, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !audit.Status.CanTransition(storage.StatusProcessing) {
		return nil, &PreconditionError{
			AuditID: audit.ID,
			Status:  string(audit.Status),
			Message: "audit cannot be run in its current state",
		}
	}

	audit.Status = storage.StatusProcessing
	audit.Error = ""
	if err := s.store.Update(ctx, audit); err != nil {
		return nil, err
	}

	s.logger.Info("audit run started",
		slog.String("audit_id", audit.ID),
		slog.String("url", audit.WebsiteURL))

	started := time.Now()
	var (
		htmlResult *analyzer.HTMLAnalysisResult
		psResult   *pagespeed.RunResult
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.fetcher.Fetch(gctx, audit.WebsiteURL)
		if err != nil {
			metrics.FetchesTotal.WithLabelValues("error").Inc()
			s.logger.Warn("page fetch failed, continuing without facet analysis",
				slog.String("audit_id", audit.ID),
				slog.String("error", err.Error()))
			return nil
		}
		metrics.FetchesTotal.WithLabelValues("ok").Inc()

		result, err := s.analyzer.Analyze(res)
		if err != nil {
			s.logger.Warn("document analysis failed, continuing without facet analysis",
				slog.String("audit_id", audit.ID),
				slog.String("error", err.Error()))
			return nil
		}
		htmlResult = result
		return nil
	})

	g.Go(func() error {
		run, err := s.pagespeed.Run(gctx, audit.WebsiteURL)
		if err != nil {
			return err
		}
		psResult = run
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.AuditRunsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("audit run failed",
			slog.String("audit_id", audit.ID),
			slog.String("error", err.Error()))

		audit.Status = storage.StatusFailed
		audit.Error = err.Error()
		if updateErr := s.store.Update(ctx, audit); updateErr != nil {
			s.logger.Error("failed to persist failed audit",
				slog.String("audit_id", audit.ID),
				slog.String("error", updateErr.Error()))
		}
		return nil, err
	}

	scores, counts := s.aggregator.Aggregate(htmlResult, psResult)

	now := time.Now().UTC()
	audit.Status = storage.StatusCompleted
	audit.CompletedAt = &now
	audit.PagesScanned = 1
	audit.Scores = &scores
	audit.IssuesCount = &counts
	audit.PageSpeedResults = psResult
	audit.HTMLAnalysis = htmlResult

	if err := s.store.Update(ctx, audit); err != nil {
		return nil, err
	}

	metrics.AuditRunsTotal.WithLabelValues("completed").Inc()
	metrics.AuditRunDuration.Observe(time.Since(started).Seconds())
	s.logger.Info("audit run completed",
		slog.String("audit_id", audit.ID),
		slog.Int("overall_score", scores.Overall),
		slog.Duration("duration", time.Since(started)))

	return audit, nil
}

// Get returns one audit.
func (s *Service) Get(ctx context.Context, id string) (*storage.Audit, error) {
	return s.store.Get(ctx, id)
}

// List returns audits matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter storage.ListFilter) ([]*storage.Audit, error) {
	return s.store.List(ctx, filter)
}

// Delete removes an audit.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Report builds the formatted report for a completed audit.
func (s *Service) Report(ctx context.Context, id string) (*report.Report, error) {
	audit, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.Build(audit)
}
