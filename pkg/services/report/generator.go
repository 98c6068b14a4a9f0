package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type MetricsCalculator interface {
	Calculate(ctx context.Context, business domain.Business, period domain.Period) (domain.MetricsBundle, error)
}

type TrendAnalyzer interface {
	Analyze(ctx context.Context, business domain.Business, period domain.Period) (domain.TrendBundle, error)
}

type InsightGenerator interface {
	Generate(metrics domain.MetricsBundle, trends *domain.TrendBundle) domain.InsightSet
}

type HealthScorer interface {
	Calculate(ctx context.Context, business domain.Business, metrics domain.MetricsBundle, trends *domain.TrendBundle) domain.HealthScoreResult
}

// Recorder observes finished generations.
type Recorder interface {
	ObserveReport(status domain.ReportStatus, elapsed time.Duration)
}

type Request struct {
	BusinessID  string
	Start       time.Time
	End         time.Time
	PeriodType  domain.PeriodType
	Kind        domain.ReportKind
	RequestedBy *string
	TemplateID  *string
	ScheduleID  *string
}

// Generator runs the metrics, trend, insight and health stages and persists
// the outcome as a report.
type Generator struct {
	facts    facts.Reader
	metrics  MetricsCalculator
	trends   TrendAnalyzer
	insights InsightGenerator
	health   HealthScorer
	repo     Repository
	renderer *Renderer
	settings Settings

	recorder Recorder
	cache    SummaryCache
	now      func() time.Time
}

type Option func(*Generator)

func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

func WithSummaryCache(c SummaryCache) Option {
	return func(g *Generator) { g.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(
	reader facts.Reader,
	metrics MetricsCalculator,
	trends TrendAnalyzer,
	insights InsightGenerator,
	health HealthScorer,
	repo Repository,
	settings Settings,
	opts ...Option,
) *Generator {
	g := &Generator{
		facts:    reader,
		metrics:  metrics,
		trends:   trends,
		insights: insights,
		health:   health,
		repo:     repo,
		renderer: NewRenderer(settings),
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates a report and drives it to a terminal status. When a stage
// fails the failed report is returned together with the error.
func (g *Generator) Generate(ctx context.Context, req Request) (*domain.Report, error) {
	period, err := domain.NewPeriod(req.Start, req.End, req.PeriodType)
	if err != nil {
		return nil, err
	}
	business, err := g.facts.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.ReportKindCustom
	}
	report := &domain.Report{
		ID:           uuid.NewString(),
		BusinessID:   business.ID,
		BusinessName: business.Name,
		RequestedBy:  req.RequestedBy,
		TemplateID:   req.TemplateID,
		ScheduleID:   req.ScheduleID,
		Kind:         kind,
		Period:       period,
		Status:       domain.ReportStatusGenerating,
		CreatedAt:    g.now().UTC(),
	}
	if err := g.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	logger := zerolog.Ctx(ctx).With().
		Str("report_id", report.ID).
		Str("business_id", business.ID).
		Logger()

	started := g.now()
	if err := g.run(ctx, business, report); err != nil {
		return g.fail(ctx, &logger, report, started, err)
	}

	g.finish(report, domain.ReportStatusCompleted, started)
	if err := g.repo.Finish(context.WithoutCancel(ctx), report); err != nil {
		return g.fail(ctx, &logger, report, started, fmt.Errorf("save report: %w", err))
	}
	g.observe(report)

	logger.Info().
		Int("health_score", report.Health.Score).
		Int64("generation_time_ms", report.GenerationTimeMs).
		Msg("report generated")
	return report, nil
}

func (g *Generator) run(ctx context.Context, business domain.Business, report *domain.Report) error {
	period := report.Period

	metrics, err := g.metrics.Calculate(ctx, business, period)
	if err != nil {
		return fmt.Errorf("calculate metrics: %w", err)
	}
	report.Metrics = &metrics

	trends, err := g.trends.Analyze(ctx, business, period)
	if err != nil {
		return fmt.Errorf("analyze trends: %w", err)
	}
	report.Trends = &trends

	set := g.insights.Generate(metrics, &trends)
	report.Insights = set.Insights
	report.Recommendations = set.Recommendations

	health := g.health.Calculate(ctx, business, metrics, &trends)
	report.Health = &health

	previous, err := g.metrics.Calculate(ctx, business, period.Previous())
	if err != nil {
		return fmt.Errorf("calculate previous metrics: %w", err)
	}
	if report.Comparisons, err = Compare(metrics, previous, g.settings.ComparisonPaths); err != nil {
		return err
	}

	if report.ContentText, err = g.renderer.Text(report); err != nil {
		return err
	}
	if report.ContentHTML, err = g.renderer.HTML(report); err != nil {
		return err
	}
	return nil
}

func (g *Generator) finish(report *domain.Report, status domain.ReportStatus, started time.Time) {
	completed := g.now().UTC()
	report.Status = status
	report.CompletedAt = &completed
	report.GenerationTimeMs = completed.Sub(started.UTC()).Milliseconds()
}

func (g *Generator) fail(ctx context.Context, logger *zerolog.Logger, report *domain.Report, started time.Time, cause error) (*domain.Report, error) {
	msg := cause.Error()
	report.ErrorMessage = &msg
	report.ContentText = ""
	report.ContentHTML = ""
	g.finish(report, domain.ReportStatusFailed, started)

	// The terminal state is written even when ctx has been cancelled.
	if err := g.repo.Finish(context.WithoutCancel(ctx), report); err != nil {
		logger.Error().Err(err).Msg("failed to record report failure")
	}
	g.observe(report)

	logger.Error().Err(cause).Msg("report generation failed")
	return report, cause
}

func (g *Generator) observe(report *domain.Report) {
	if g.recorder != nil {
		g.recorder.ObserveReport(report.Status, time.Duration(report.GenerationTimeMs)*time.Millisecond)
	}
}

func (g *Generator) Get(ctx context.Context, businessID, id string) (*domain.Report, error) {
	return g.repo.Get(ctx, businessID, id)
}

func (g *Generator) List(ctx context.Context, businessID string, limit int) ([]*domain.Report, error) {
	if _, err := g.facts.GetBusiness(ctx, businessID); err != nil {
		return nil, err
	}
	return g.repo.List(ctx, businessID, limit)
}
