package report

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
	reportstore "github.com/de-tools/business-pulse/pkg/store/duckdb/report"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_RoundTrip(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`INSERT INTO businesses (id, name, industry) VALUES ('b1', 'Bakery', 'food')`)
	require.NoError(t, err)

	s, err := reportstore.NewStore(db)
	require.NoError(t, err)
	repo := NewRepository(s)
	ctx := context.Background()

	requester := "user-7"
	created := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	report := &domain.Report{
		ID:          "r1",
		BusinessID:  "b1",
		RequestedBy: &requester,
		Kind:        domain.ReportKindWeekly,
		Period:      domain.Period{Start: day("2024-03-08"), End: day("2024-03-14"), Type: domain.PeriodTypeWeek},
		Status:      domain.ReportStatusGenerating,
		CreatedAt:   created,
	}
	require.NoError(t, repo.Create(ctx, report))

	completed := created.Add(2 * time.Second)
	report.Status = domain.ReportStatusCompleted
	report.Metrics = &domain.MetricsBundle{
		Sales:     domain.SalesMetrics{TotalSales: 3, TotalRevenue: 450},
		Marketing: domain.MarketingMetrics{Channels: []domain.ChannelMetrics{{Source: "direct", Sales: 3}}},
	}
	report.Trends = &domain.TrendBundle{
		Sales:      []domain.TrendPoint{{Date: day("2024-03-08"), Count: 1, Revenue: 100}},
		Comparison: domain.PeriodComparison{CurrentTotal: 450, PreviousTotal: 200, ChangePercent: 125, Direction: domain.DirectionUp},
	}
	report.Insights = []domain.Insight{{Type: domain.InsightTrend, Title: "Revenue is growing", Priority: domain.PrioritySuccess}}
	report.Recommendations = []domain.Recommendation{{Type: domain.InsightGeneral, Title: "Enrich your data", Priority: domain.PriorityMedium}}
	report.Comparisons = []domain.MetricComparison{{Metric: "sales.total_sales", Current: 3, Previous: 2, Change: 1, ChangePercent: 50, Direction: domain.DirectionUp}}
	report.Health = &domain.HealthScoreResult{
		Score: 64, Label: domain.HealthGood, LabelText: "Good", Color: domain.ColorBlue, TrendModifier: 3,
		Breakdown: []domain.CategoryScore{{Category: domain.CategorySales, Label: "Sales", RawScore: 47, WeightPercent: 25, WeightedScore: 11.75}},
	}
	report.ContentText = "text"
	report.ContentHTML = "<p>html</p>"
	report.GenerationTimeMs = 2000
	report.CompletedAt = &completed
	require.NoError(t, repo.Finish(ctx, report))

	got, err := repo.Get(ctx, "b1", "r1")
	require.NoError(t, err)

	assert.Equal(t, "Bakery", got.BusinessName)
	assert.Equal(t, requester, *got.RequestedBy)
	assert.Equal(t, report.Period, got.Period)
	assert.Equal(t, report.Metrics, got.Metrics)
	assert.Equal(t, report.Insights, got.Insights)
	assert.Equal(t, report.Recommendations, got.Recommendations)
	assert.Equal(t, report.Comparisons, got.Comparisons)
	assert.Equal(t, report.Health, got.Health)
	assert.Equal(t, report.Trends.Comparison, got.Trends.Comparison)
	assert.Equal(t, "text", got.ContentText)
	assert.Equal(t, int64(2000), got.GenerationTimeMs)

	list, err := repo.List(ctx, "b1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ReportStatusCompleted, list[0].Status)

	_, err = repo.Get(ctx, "b1", "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
