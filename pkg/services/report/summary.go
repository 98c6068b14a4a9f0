package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/store/cache"
	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned by a SummaryCache that holds no entry.
var ErrCacheMiss = cache.ErrMiss

type SummaryCache interface {
	GetSummary(ctx context.Context, businessID string) (*domain.Summary, error)
	SetSummary(ctx context.Context, summary *domain.Summary) error
}

// Summary runs the pipeline over the trailing window ending today without
// persisting a report.
func (g *Generator) Summary(ctx context.Context, businessID string) (*domain.Summary, error) {
	logger := zerolog.Ctx(ctx).With().Str("business_id", businessID).Logger()

	if g.cache != nil {
		cached, err := g.cache.GetSummary(ctx, businessID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn().Err(err).Msg("summary cache read failed")
		}
	}

	business, err := g.facts.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	today := domain.Day(g.now().UTC())
	period, err := domain.NewPeriod(today.AddDate(0, 0, -(g.settings.SummaryWindowDays-1)), today, domain.PeriodTypeWeek)
	if err != nil {
		return nil, err
	}

	metrics, err := g.metrics.Calculate(ctx, business, period)
	if err != nil {
		return nil, fmt.Errorf("calculate metrics: %w", err)
	}
	trends, err := g.trends.Analyze(ctx, business, period)
	if err != nil {
		return nil, fmt.Errorf("analyze trends: %w", err)
	}
	health := g.health.Calculate(ctx, business, metrics, &trends)

	keyMetrics := make(map[string]float64, len(g.settings.SummaryMetrics))
	for _, path := range g.settings.SummaryMetrics {
		v, err := metrics.Value(path)
		if err != nil {
			return nil, fmt.Errorf("summary: %w", err)
		}
		keyMetrics[path] = v
	}

	summary := &domain.Summary{
		BusinessID:  business.ID,
		Period:      period,
		HealthScore: health.Score,
		HealthLabel: health.Label,
		LabelText:   health.LabelText,
		KeyMetrics:  keyMetrics,
		KPIProgress: metrics.KPIProgress,
	}

	if g.cache != nil {
		if err := g.cache.SetSummary(ctx, summary); err != nil {
			logger.Warn().Err(err).Msg("summary cache write failed")
		}
	}
	return summary, nil
}
