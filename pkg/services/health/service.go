package health

import (
	"context"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/benchmark"
	"github.com/de-tools/business-pulse/pkg/services/calc"
	"github.com/shopspring/decimal"
)

// Service turns a MetricsBundle into a composite 0..100 health score.
type Service struct {
	benchmarks *benchmark.Resolver
	settings   Settings
}

// NewService rejects settings whose weights do not sum to 1.
func NewService(benchmarks *benchmark.Resolver, settings Settings) (*Service, error) {
	if err := settings.Weights.Validate(); err != nil {
		return nil, err
	}
	return &Service{benchmarks: benchmarks, settings: settings}, nil
}

// Calculate scores the metrics of a business. trends may be nil, in which
// case the trend modifier is 0.
func (s *Service) Calculate(ctx context.Context, business domain.Business, metrics domain.MetricsBundle, trends *domain.TrendBundle) domain.HealthScoreResult {
	bench := s.benchmarks.Resolve(ctx, business.Industry)

	raw := map[domain.ScoreCategory]int{
		domain.CategorySales:     s.salesScore(metrics.Sales, bench),
		domain.CategoryMarketing: s.marketingScore(metrics.Marketing, metrics.Financial, bench),
		domain.CategoryFinancial: s.financialScore(metrics.Financial, bench),
		domain.CategoryCustomer:  s.customerScore(metrics.Customer, bench),
		domain.CategoryKPI:       s.kpiScore(metrics.KPIProgress),
	}
	return s.Compose(raw, s.TrendModifier(trends))
}

// Compose weights raw category scores, adds the modifier and classifies the
// rounded, clamped total.
func (s *Service) Compose(raw map[domain.ScoreCategory]int, modifier int) domain.HealthScoreResult {
	w := s.settings.Weights
	weights := []struct {
		category domain.ScoreCategory
		weight   float64
	}{
		{domain.CategorySales, w.Sales},
		{domain.CategoryMarketing, w.Marketing},
		{domain.CategoryFinancial, w.Financial},
		{domain.CategoryCustomer, w.Customer},
		{domain.CategoryKPI, w.KPI},
	}

	total := decimal.NewFromInt(int64(modifier))
	breakdown := make([]domain.CategoryScore, 0, len(weights))
	for _, cw := range weights {
		score := calc.ClampInt(raw[cw.category], 0, 100)
		weight := decimal.NewFromFloat(cw.weight)
		weighted := decimal.NewFromInt(int64(score)).Mul(weight)
		total = total.Add(weighted)

		breakdown = append(breakdown, domain.CategoryScore{
			Category:      cw.category,
			Label:         s.settings.CategoryLabels[cw.category],
			RawScore:      score,
			WeightPercent: int(weight.Mul(decimal.NewFromInt(100)).Round(0).IntPart()),
			WeightedScore: weighted.Round(2).InexactFloat64(),
		})
	}

	score := calc.ClampInt(int(total.Round(0).IntPart()), 0, 100)
	class := s.settings.Classify(score)
	return domain.HealthScoreResult{
		Score:         score,
		Label:         class.Label,
		LabelText:     class.Text,
		Color:         class.Color,
		Breakdown:     breakdown,
		TrendModifier: modifier,
	}
}

// TrendModifier rewards or penalizes period-over-period momentum of sales and
// revenue and deducts a point per anomaly.
func (s *Service) TrendModifier(trends *domain.TrendBundle) int {
	if trends == nil {
		return 0
	}
	modifier := s.step(trends.SalesComparison.ChangePercent) + s.step(trends.Comparison.ChangePercent)
	modifier -= min(trends.Anomalies, s.settings.MaxAnomalyPenalty)
	return calc.ClampInt(modifier, -s.settings.MaxTrendModifier, s.settings.MaxTrendModifier)
}

func (s *Service) step(change float64) int {
	for _, st := range s.settings.TrendSteps {
		switch {
		case change > st.MinChange:
			return st.Points
		case change < -st.MinChange:
			return -st.Points
		}
	}
	return 0
}

func (s *Service) salesScore(m domain.SalesMetrics, bench domain.Benchmarks) int {
	t := s.settings.Sales
	repeatRatio := calc.Div(m.RepeatRate, bench.Get(domain.BenchmarkRepeatPurchaseRate, 0))
	return min(100,
		t.DailySales.Points(m.AvgDailySales)+
			t.RepeatRate.Points(repeatRatio)+
			t.Revenue.Points(m.TotalRevenue))
}

func (s *Service) marketingScore(m domain.MarketingMetrics, f domain.FinancialMetrics, bench domain.Benchmarks) int {
	t := s.settings.Marketing
	conversionRatio := calc.Div(m.ConversionRate, bench.Get(domain.BenchmarkConversionRate, 0))
	roas := t.NoSpendPoints
	if m.AdSpend > 0 {
		roas = t.ROAS.Points(f.ROAS)
	}
	return min(100, t.Conversion.Points(conversionRatio)+t.DailyLeads.Points(m.AvgDailyLeads)+roas)
}

func (s *Service) financialScore(f domain.FinancialMetrics, bench domain.Benchmarks) int {
	t := s.settings.Financial
	ltvcac := t.NoCACPoints
	if f.CAC > 0 {
		ltvcac = t.LTVCAC.Points(calc.Div(f.LTVCACRatio, bench.Get(domain.BenchmarkCACLTVRatio, 0)))
	}
	profit := 0
	if f.Profit > 0 {
		profit = t.ProfitPoints
	}
	return min(100, t.ROI.Points(f.ROI)+ltvcac+profit)
}

func (s *Service) customerScore(c domain.CustomerMetrics, bench domain.Benchmarks) int {
	t := s.settings.Customer
	churnRatio := calc.Div(c.ChurnRate, bench.Get(domain.BenchmarkChurnRate, 0))
	return min(100,
		t.Retention.Points(c.RetentionRate)+
			t.Churn.Points(churnRatio)+
			t.NewCustomers.Points(float64(c.NewCustomers)))
}

func (s *Service) kpiScore(k domain.KPIProgress) int {
	if !k.HasPlan {
		return s.settings.KPI.NoPlanPoints
	}
	total := 0
	for _, a := range k.Achievements() {
		total += s.settings.KPI.StatusPoints[a.Status]
	}
	return calc.ClampInt(total, 0, 100)
}
