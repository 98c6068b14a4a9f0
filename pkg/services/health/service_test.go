package health

import (
	"context"
	"testing"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/benchmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	s, err := NewService(benchmark.NewResolver(nil, nil), DefaultSettings())
	require.NoError(t, err)
	return s
}

func TestWeights_Validate(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), weightTolerance)
	assert.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.KPI = 0.2
	assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)

	w = DefaultWeights()
	w.Sales, w.Marketing = -0.05, 0.5
	assert.ErrorIs(t, w.Validate(), ErrInvalidWeights)

	settings := DefaultSettings()
	settings.Weights.Customer = 0
	_, err := NewService(nil, settings)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestService_Compose(t *testing.T) {
	s := newService(t)

	got := s.Compose(map[domain.ScoreCategory]int{
		domain.CategorySales:     80,
		domain.CategoryMarketing: 60,
		domain.CategoryFinancial: 90,
		domain.CategoryCustomer:  70,
		domain.CategoryKPI:       50,
	}, 2)

	assert.Equal(t, 75, got.Score)
	assert.Equal(t, domain.HealthGood, got.Label)
	assert.Equal(t, domain.ColorBlue, got.Color)
	assert.Equal(t, 2, got.TrendModifier)
	assert.Equal(t, []domain.CategoryScore{
		{Category: domain.CategorySales, Label: "Sales", RawScore: 80, WeightPercent: 25, WeightedScore: 20},
		{Category: domain.CategoryMarketing, Label: "Marketing", RawScore: 60, WeightPercent: 20, WeightedScore: 12},
		{Category: domain.CategoryFinancial, Label: "Finance", RawScore: 90, WeightPercent: 25, WeightedScore: 22.5},
		{Category: domain.CategoryCustomer, Label: "Customers", RawScore: 70, WeightPercent: 15, WeightedScore: 10.5},
		{Category: domain.CategoryKPI, Label: "Plan progress", RawScore: 50, WeightPercent: 15, WeightedScore: 7.5},
	}, got.Breakdown)
}

func TestService_ComposeBounds(t *testing.T) {
	s := newService(t)
	all := func(v int) map[domain.ScoreCategory]int {
		return map[domain.ScoreCategory]int{
			domain.CategorySales: v, domain.CategoryMarketing: v, domain.CategoryFinancial: v,
			domain.CategoryCustomer: v, domain.CategoryKPI: v,
		}
	}

	assert.Equal(t, 100, s.Compose(all(100), 10).Score)
	assert.Equal(t, 0, s.Compose(all(0), -10).Score)
	assert.Equal(t, 100, s.Compose(all(250), 0).Breakdown[0].RawScore)

	for score := -5; score <= 105; score++ {
		got := s.Compose(all(score), 0).Score
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestSettings_Classify(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		score int
		label domain.HealthLabel
		color domain.HealthColor
	}{
		{100, domain.HealthExcellent, domain.ColorGreen},
		{80, domain.HealthExcellent, domain.ColorGreen},
		{79, domain.HealthGood, domain.ColorBlue},
		{60, domain.HealthGood, domain.ColorBlue},
		{59, domain.HealthAverage, domain.ColorYellow},
		{40, domain.HealthAverage, domain.ColorYellow},
		{39, domain.HealthPoor, domain.ColorRed},
		{0, domain.HealthPoor, domain.ColorRed},
	}
	for _, tt := range tests {
		c := s.Classify(tt.score)
		assert.Equal(t, tt.label, c.Label, "score %d", tt.score)
		assert.Equal(t, tt.color, c.Color, "score %d", tt.score)
	}
}

func TestService_TrendModifier(t *testing.T) {
	s := newService(t)
	bundle := func(sales, revenue float64, anomalies int) *domain.TrendBundle {
		return &domain.TrendBundle{
			SalesComparison: domain.PeriodComparison{ChangePercent: sales},
			Comparison:      domain.PeriodComparison{ChangePercent: revenue},
			Anomalies:       anomalies,
		}
	}

	tests := []struct {
		name   string
		trends *domain.TrendBundle
		want   int
	}{
		{"no trends", nil, 0},
		{"revenue up 50 percent", bundle(0, 50, 0), 3},
		{"both strongly up", bundle(25, 50, 0), 6},
		{"moderate growth", bundle(15, 11, 0), 4},
		{"exactly twenty is moderate", bundle(20, 0, 0), 2},
		{"exactly ten is flat", bundle(10, -10, 0), 0},
		{"decline", bundle(-25, -15, 0), -5},
		{"anomalies capped", bundle(0, 0, 9), -4},
		{"floor", bundle(-50, -50, 9), -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.TrendModifier(tt.trends))
		})
	}
}

func TestService_Calculate(t *testing.T) {
	s := newService(t)
	business := domain.Business{ID: "b1", Industry: "retail"}

	t.Run("empty business without plan", func(t *testing.T) {
		metrics := domain.MetricsBundle{
			Customer:    domain.CustomerMetrics{ChurnRate: 5},
			KPIProgress: domain.KPIProgress{HasPlan: false},
		}

		got := s.Calculate(context.Background(), business, metrics, nil)

		raw := rawScores(got)
		assert.Equal(t, 0, raw[domain.CategorySales])
		assert.Equal(t, 15, raw[domain.CategoryMarketing])
		assert.Equal(t, 15, raw[domain.CategoryFinancial])
		assert.Equal(t, 20, raw[domain.CategoryCustomer])
		assert.Equal(t, 50, raw[domain.CategoryKPI])
		// 0 + 3 + 3.75 + 3 + 7.5 = 17.25
		assert.Equal(t, 17, got.Score)
		assert.Equal(t, domain.HealthPoor, got.Label)
		assert.Equal(t, 0, got.TrendModifier)
	})

	t.Run("strong business", func(t *testing.T) {
		metrics := domain.MetricsBundle{
			Sales: domain.SalesMetrics{
				TotalSales: 400, NewSales: 300, TotalRevenue: 1_200_000,
				RepeatRate: 40, AvgDailySales: 13.3,
			},
			Marketing: domain.MarketingMetrics{
				TotalLeads: 1000, AdSpend: 100_000, ConversionRate: 15, AvgDailyLeads: 33,
			},
			Financial: domain.FinancialMetrics{
				ROI: 1100, ROAS: 12, CAC: 333.33, LTVCACRatio: 27, Profit: 1_100_000,
			},
			Customer: domain.CustomerMetrics{RetentionRate: 65, ChurnRate: 5, NewCustomers: 250},
			KPIProgress: domain.KPIProgress{
				HasPlan: true,
				Sales:   &domain.KPIAchievement{Status: domain.ProgressExcellent},
				Revenue: &domain.KPIAchievement{Status: domain.ProgressOnTrack},
				Leads:   &domain.KPIAchievement{Status: domain.ProgressCritical},
			},
		}
		trends := &domain.TrendBundle{Comparison: domain.PeriodComparison{ChangePercent: 50, Direction: domain.DirectionUp}}

		got := s.Calculate(context.Background(), business, metrics, trends)

		raw := rawScores(got)
		assert.Equal(t, 100, raw[domain.CategorySales])
		assert.Equal(t, 100, raw[domain.CategoryMarketing])
		assert.Equal(t, 100, raw[domain.CategoryFinancial])
		assert.Equal(t, 90, raw[domain.CategoryCustomer])
		assert.Equal(t, 69, raw[domain.CategoryKPI])
		assert.Equal(t, 3, got.TrendModifier)
		// 25 + 20 + 25 + 13.5 + 10.35 + 3 = 96.85
		assert.Equal(t, 97, got.Score)
		assert.Equal(t, domain.HealthExcellent, got.Label)
		assert.Equal(t, domain.ColorGreen, got.Color)
	})
}

func TestTiers(t *testing.T) {
	tiers := Tiers{{Threshold: 10, Points: 30}, {Threshold: 0, Points: 5, Strict: true}}
	assert.Equal(t, 30, tiers.Points(10))
	assert.Equal(t, 5, tiers.Points(0.01))
	assert.Equal(t, 0, tiers.Points(0))

	ceilings := Ceilings{{Threshold: 0.5, Points: 30}, {Threshold: 1, Points: 20}}
	assert.Equal(t, 30, ceilings.Points(0.5))
	assert.Equal(t, 20, ceilings.Points(1))
	assert.Equal(t, 0, ceilings.Points(1.01))
}

func rawScores(r domain.HealthScoreResult) map[domain.ScoreCategory]int {
	out := map[domain.ScoreCategory]int{}
	for _, c := range r.Breakdown {
		out[c.Category] = c.RawScore
	}
	return out
}
