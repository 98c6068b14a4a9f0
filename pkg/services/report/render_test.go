package report

import (
	"testing"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedReport() *domain.Report {
	completed := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	return &domain.Report{
		ID:           "r1",
		BusinessName: "Fish & Chips <Pier>",
		Kind:         domain.ReportKindWeekly,
		Period:       domain.Period{Start: day("2024-03-08"), End: day("2024-03-14"), Type: domain.PeriodTypeWeek},
		Status:       domain.ReportStatusCompleted,
		Metrics: &domain.MetricsBundle{
			Sales:     domain.SalesMetrics{TotalSales: 12, TotalRevenue: 3400.5, AverageCheck: 283.38},
			Marketing: domain.MarketingMetrics{TotalLeads: 40, ConversionRate: 30},
			KPIProgress: domain.KPIProgress{
				HasPlan:          true,
				ExpectedProgress: 45.16,
				Sales:            &domain.KPIAchievement{Actual: 12, Planned: 30, Percent: 40, Status: domain.ProgressOnTrack},
			},
		},
		Health: &domain.HealthScoreResult{Score: 75, Label: domain.HealthGood, LabelText: "Good", Color: domain.ColorBlue},
		Insights: []domain.Insight{
			{Title: "i1", Description: "d1"}, {Title: "i2"}, {Title: "i3"}, {Title: "i4"}, {Title: "i5"}, {Title: "i6"},
		},
		Recommendations: []domain.Recommendation{
			{Title: "r1", Priority: domain.PriorityHigh, ActionURL: "/sales/new"}, {Title: "r2"}, {Title: "r3"}, {Title: "r4"},
		},
		CompletedAt: &completed,
	}
}

func TestRenderer_Text(t *testing.T) {
	text, err := NewRenderer(DefaultSettings()).Text(renderedReport())
	require.NoError(t, err)

	assert.Contains(t, text, "Health score: 🔵 75/100 (Good)")
	assert.Contains(t, text, "- Revenue: 3400.50")
	assert.Contains(t, text, "- Conversion: 30.00%")
	assert.Contains(t, text, "- i1: d1")
	assert.Contains(t, text, "- i5")
	assert.NotContains(t, text, "- i6")
	assert.Contains(t, text, "- [high] r1")
	assert.NotContains(t, text, "r4")
	assert.Contains(t, text, "Plan progress (expected 45.2%):")
	assert.Contains(t, text, "- sales: 40.0% of plan (on_track)")
	assert.Contains(t, text, "Generated at 2024-03-15 06:00 UTC")
}

func TestRenderer_HTML(t *testing.T) {
	html, err := NewRenderer(DefaultSettings()).HTML(renderedReport())
	require.NoError(t, err)

	assert.Contains(t, html, "Fish &amp; Chips &lt;Pier&gt;")
	assert.Contains(t, html, `class="health-score health-blue"`)
	assert.Contains(t, html, `<a href="/sales/new">`)
	assert.Contains(t, html, `<tr class="status-on_track">`)
}

func TestRenderer_WithoutPlan(t *testing.T) {
	r := renderedReport()
	r.Metrics.KPIProgress = domain.KPIProgress{HasPlan: false, Message: "none"}

	text, err := NewRenderer(DefaultSettings()).Text(r)
	require.NoError(t, err)
	assert.NotContains(t, text, "Plan progress")
}

func TestRenderer_RequiresContent(t *testing.T) {
	r := renderedReport()
	r.Health = nil

	_, err := NewRenderer(DefaultSettings()).Text(r)
	assert.Error(t, err)
	_, err = NewRenderer(DefaultSettings()).HTML(r)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	current := domain.MetricsBundle{
		Sales:     domain.SalesMetrics{TotalSales: 150, TotalRevenue: 0},
		Financial: domain.FinancialMetrics{ROI: -20},
	}
	previous := domain.MetricsBundle{
		Sales:     domain.SalesMetrics{TotalSales: 100, TotalRevenue: 0},
		Financial: domain.FinancialMetrics{ROI: -50},
	}

	got, err := Compare(current, previous, []string{"sales.total_sales", "sales.total_revenue", "financial.roi"})
	require.NoError(t, err)

	assert.Equal(t, []domain.MetricComparison{
		{Metric: "sales.total_sales", Current: 150, Previous: 100, Change: 50, ChangePercent: 50, Direction: domain.DirectionUp},
		{Metric: "sales.total_revenue", Direction: domain.DirectionStable},
		{Metric: "financial.roi", Current: -20, Previous: -50, Change: 30, ChangePercent: 60, Direction: domain.DirectionUp},
	}, got)

	for _, c := range got {
		switch c.Direction {
		case domain.DirectionUp:
			assert.Greater(t, c.ChangePercent, 0.0)
		case domain.DirectionDown:
			assert.Less(t, c.ChangePercent, 0.0)
		default:
			assert.Zero(t, c.ChangePercent)
		}
	}

	_, err = Compare(current, previous, []string{"sales.unknown"})
	assert.Error(t, err)
}
