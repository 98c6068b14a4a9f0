package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/benchmark"
	"github.com/de-tools/business-pulse/pkg/services/facts/factstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func march(t *testing.T) domain.Period {
	p, err := domain.NewPeriod(day("2024-03-01"), day("2024-03-10"), domain.PeriodTypeCustom)
	require.NoError(t, err)
	return p
}

func newCalculator(b *factstest.Business) *Calculator {
	return NewCalculator(factstest.NewReader(b), benchmark.NewResolver(nil, nil), DefaultSettings())
}

func TestCalculator_EmptyPeriod(t *testing.T) {
	b := &factstest.Business{Business: domain.Business{ID: "b1", Industry: "retail"}}

	got, err := newCalculator(b).Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, 0, got.Sales.TotalSales)
	assert.Equal(t, 0.0, got.Sales.AverageCheck)
	assert.Equal(t, 0.0, got.Marketing.ConversionRate)
	assert.Equal(t, 0.0, got.Marketing.CostPerLead)
	assert.Empty(t, got.Marketing.Channels)
	assert.Equal(t, domain.FinancialMetrics{}, got.Financial)
	assert.Equal(t, 0.0, got.Customer.RetentionRate)
	assert.Equal(t, 5.0, got.Customer.ChurnRate)
	assert.Equal(t, domain.EfficiencyMetrics{}, got.Efficiency)
	assert.False(t, got.KPIProgress.HasPlan)
	assert.NotEmpty(t, got.KPIProgress.Message)
}

func TestCalculator_RawFacts(t *testing.T) {
	b := &factstest.Business{
		Business: domain.Business{ID: "b1", Industry: "retail"},
		Customers: []domain.Customer{
			{ID: "c1", CreatedAt: day("2024-02-01")},
			{ID: "c2", CreatedAt: day("2024-03-02")},
			{ID: "c3", CreatedAt: day("2024-03-05")},
			{ID: "c4", CreatedAt: day("2024-03-20")},
		},
		Sales: []domain.Sale{
			{ID: "s1", CustomerID: "c1", Amount: 100, CreatedAt: day("2024-03-02")},
			{ID: "s2", CustomerID: "c2", Amount: 200, CreatedAt: day("2024-03-03")},
			{ID: "s3", CustomerID: "c2", Amount: 50, CreatedAt: day("2024-03-04")},
			{ID: "s4", Amount: 150, CreatedAt: day("2024-03-05")},
			{ID: "s5", CustomerID: "c1", Amount: 999, CreatedAt: day("2024-03-11")},
		},
		Leads: []domain.Lead{
			{ID: "l1", Source: "google", CreatedAt: day("2024-03-01")},
			{ID: "l2", Source: "google", CreatedAt: day("2024-03-01")},
			{ID: "l3", Source: "google", CreatedAt: day("2024-03-02")},
			{ID: "l4", Source: "google", CreatedAt: day("2024-03-03")},
			{ID: "l5", Source: "google", CreatedAt: day("2024-03-04")},
			{ID: "l6", CreatedAt: day("2024-03-04")},
			{ID: "l7", CreatedAt: day("2024-03-05")},
			{ID: "l8", CreatedAt: day("2024-03-06")},
		},
		Orders: []domain.Order{
			{ID: "o1", Total: 200, UTMSource: "google", CreatedAt: day("2024-03-03")},
			{ID: "o2", Total: 100, UTMSource: "google", CreatedAt: day("2024-03-04")},
			{ID: "o3", Total: 50, CreatedAt: day("2024-03-05")},
			{ID: "o4", Total: 100, UTMSource: "meta", CreatedAt: day("2024-03-06")},
		},
		Plans: []domain.Plan{{
			StartDate:       day("2024-03-01"),
			EndDate:         day("2024-03-31"),
			PlannedNewSales: 4,
			PlannedRevenue:  1000,
			PlannedLeads:    40,
		}},
	}

	got, err := newCalculator(b).Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, domain.SalesMetrics{
		TotalSales:      4,
		NewSales:        2,
		RepeatSales:     2,
		TotalRevenue:    500,
		RepeatRate:      50,
		AverageCheck:    125,
		AvgDailySales:   0.4,
		AvgDailyRevenue: 50,
	}, got.Sales)

	assert.Equal(t, 8, got.Marketing.TotalLeads)
	assert.Equal(t, 0.0, got.Marketing.AdSpend)
	assert.Equal(t, 50.0, got.Marketing.ConversionRate)
	assert.Equal(t, 0.8, got.Marketing.AvgDailyLeads)
	assert.Equal(t, []domain.ChannelMetrics{
		{Source: "google", Leads: 5, Sales: 2, Revenue: 300, ConversionRate: 40},
		{Source: "direct", Leads: 3, Sales: 1, Revenue: 50, ConversionRate: 33.33},
		{Source: "meta", Leads: 0, Sales: 1, Revenue: 100, ConversionRate: 0},
	}, got.Marketing.Channels)

	assert.Equal(t, domain.FinancialMetrics{
		CLV:         375,
		GrossMargin: 250,
		Profit:      500,
	}, got.Financial)

	assert.Equal(t, domain.CustomerMetrics{
		NewCustomers:    2,
		TotalCustomers:  3,
		ActiveCustomers: 2,
		RepeatCustomers: 1,
		RetentionRate:   66.67,
		ChurnRate:       5,
	}, got.Customer)

	assert.Equal(t, domain.EfficiencyMetrics{
		LeadToSaleRate: 50,
		RevenuePerLead: 62.5,
	}, got.Efficiency)

	kpi := got.KPIProgress
	require.True(t, kpi.HasPlan)
	assert.Equal(t, 32.26, kpi.ExpectedProgress)
	assert.Equal(t, domain.KPIAchievement{Actual: 2, Planned: 4, Percent: 50, Status: domain.ProgressExcellent}, *kpi.Sales)
	assert.Equal(t, domain.KPIAchievement{Actual: 500, Planned: 1000, Percent: 50, Status: domain.ProgressExcellent}, *kpi.Revenue)
	assert.Equal(t, domain.KPIAchievement{Actual: 8, Planned: 40, Percent: 20, Status: domain.ProgressCritical}, *kpi.Leads)
}

func TestCalculator_DailyActualsTakePrecedence(t *testing.T) {
	b := &factstest.Business{
		Business: domain.Business{ID: "b1"},
		Sales:    []domain.Sale{{ID: "s1", Amount: 10, CreatedAt: day("2024-03-02")}},
		DailyActuals: []domain.DailyActual{
			{Date: day("2024-03-01"), ActualNewSales: 2, ActualRepeatSales: 1, ActualRevenue: 600.10, ActualLeads: 6, ActualAdCosts: 100.05},
			{Date: day("2024-03-02"), ActualNewSales: 1, ActualRevenue: 399.90, ActualLeads: 4, ActualAdCosts: 99.95},
		},
	}

	got, err := newCalculator(b).Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, 4, got.Sales.TotalSales)
	assert.Equal(t, 3, got.Sales.NewSales)
	assert.Equal(t, 1000.0, got.Sales.TotalRevenue)
	assert.Equal(t, 10, got.Marketing.TotalLeads)
	assert.Equal(t, 200.0, got.Marketing.AdSpend)
	assert.Equal(t, 20.0, got.Marketing.CostPerLead)
	assert.Equal(t, 40.0, got.Marketing.ConversionRate)

	assert.Equal(t, domain.FinancialMetrics{
		ROI:         400,
		ROAS:        5,
		CAC:         66.67,
		CLV:         750,
		LTVCACRatio: 11.25,
		GrossMargin: 500,
		Profit:      800,
	}, got.Financial)
	assert.Equal(t, 50.0, got.Efficiency.CostPerSale)
	assert.Equal(t, 5.0, got.Efficiency.MarketingEfficiency)
}

func TestCalculator_RevenueWithoutSpend(t *testing.T) {
	b := &factstest.Business{
		Business:     domain.Business{ID: "b1"},
		DailyActuals: []domain.DailyActual{{Date: day("2024-03-05"), ActualNewSales: 10, ActualRevenue: 500000}},
	}

	got, err := newCalculator(b).Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.Financial.ROI)
	assert.Equal(t, 0.0, got.Financial.ROAS)
	assert.Equal(t, 0.0, got.Financial.CAC)
	assert.Equal(t, 0.0, got.Efficiency.MarketingEfficiency)
	assert.Equal(t, 500000.0, got.Financial.Profit)
}

func TestCalculator_PlanWithoutLeadsIsAbsent(t *testing.T) {
	b := &factstest.Business{
		Business: domain.Business{ID: "b1"},
		Plans: []domain.Plan{{
			StartDate:       day("2024-03-01"),
			EndDate:         day("2024-03-31"),
			PlannedNewSales: 10,
			PlannedRevenue:  5000,
		}},
	}

	got, err := newCalculator(b).Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, domain.KPIProgress{HasPlan: false, Message: DefaultSettings().NoPlanMessage}, got.KPIProgress)
}

func TestCalculator_OverridableHeuristics(t *testing.T) {
	b := &factstest.Business{
		Business: domain.Business{ID: "b1"},
		Sales:    []domain.Sale{{ID: "s1", Amount: 100, CreatedAt: day("2024-03-02")}},
	}
	settings := DefaultSettings()
	settings.CLVMultiplier = 5
	settings.GrossMarginRate = 0.3

	calc := NewCalculator(factstest.NewReader(b), benchmark.NewResolver(nil, nil), settings)
	got, err := calc.Calculate(context.Background(), b.Business, march(t))
	require.NoError(t, err)

	assert.Equal(t, 500.0, got.Financial.CLV)
	assert.Equal(t, 30.0, got.Financial.GrossMargin)
}

func TestCalculator_ReadFailure(t *testing.T) {
	reader := factstest.NewReader()
	reader.Err = errors.New("connection reset")

	calc := NewCalculator(reader, benchmark.NewResolver(nil, nil), DefaultSettings())
	_, err := calc.Calculate(context.Background(), domain.Business{ID: "b1"}, march(t))

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

func TestSettings_ProgressStatus(t *testing.T) {
	s := DefaultSettings()
	tests := []struct {
		actual, expected float64
		want             domain.ProgressStatus
	}{
		{actual: 55, expected: 50, want: domain.ProgressExcellent},
		{actual: 50, expected: 50, want: domain.ProgressOnTrack},
		{actual: 45, expected: 50, want: domain.ProgressOnTrack},
		{actual: 35, expected: 50, want: domain.ProgressWarning},
		{actual: 34, expected: 50, want: domain.ProgressCritical},
		{actual: 80, expected: 0, want: domain.ProgressNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.ProgressStatus(tt.actual, tt.expected), "actual=%v expected=%v", tt.actual, tt.expected)
	}
}
