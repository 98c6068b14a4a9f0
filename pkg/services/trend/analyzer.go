package trend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/calc"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Settings struct {
	// AnomalyDropRatio flags a sales day whose revenue falls below this share of the mean (default: 0.5)
	AnomalyDropRatio float64
	// MinAnomalyPoints is the shortest series anomalies are looked for in (default: 3)
	MinAnomalyPoints int
}

func DefaultSettings() Settings {
	return Settings{
		AnomalyDropRatio: 0.5,
		MinAnomalyPoints: 3,
	}
}

// Analyzer builds sparse daily series and the previous-period comparison.
type Analyzer struct {
	facts    facts.Reader
	settings Settings
}

func NewAnalyzer(reader facts.Reader, settings Settings) *Analyzer {
	return &Analyzer{facts: reader, settings: settings}
}

func (a *Analyzer) Analyze(ctx context.Context, business domain.Business, period domain.Period) (domain.TrendBundle, error) {
	var (
		sales, previous []domain.Sale
		leads           []domain.Lead
	)
	prev := period.Previous()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = a.facts.ListSales(gCtx, business.ID, period.Start, period.EndExclusive())
		if err != nil {
			return fmt.Errorf("read sales: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		previous, err = a.facts.ListSales(gCtx, business.ID, prev.Start, prev.EndExclusive())
		if err != nil {
			return fmt.Errorf("read previous sales: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		leads, err = a.facts.ListLeads(gCtx, business.ID, period.Start, period.EndExclusive())
		if err != nil {
			return fmt.Errorf("read leads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.TrendBundle{}, err
	}

	salesSeries := series(len(sales), func(i int) (time.Time, float64) {
		return sales[i].CreatedAt, sales[i].Amount
	})
	leadSeries := series(len(leads), func(i int) (time.Time, float64) {
		return leads[i].CreatedAt, 0
	})

	return domain.TrendBundle{
		Sales:           salesSeries,
		Leads:           leadSeries,
		Comparison:      calc.Compare(revenue(sales), revenue(previous)),
		SalesComparison: calc.Compare(float64(len(sales)), float64(len(previous))),
		Anomalies:       a.anomalies(salesSeries),
	}, nil
}

// series buckets n records by UTC calendar day, one point per day with data.
func series(n int, record func(i int) (time.Time, float64)) []domain.TrendPoint {
	type bucket struct {
		count   int
		revenue decimal.Decimal
	}
	buckets := map[time.Time]*bucket{}
	for i := 0; i < n; i++ {
		at, amount := record(i)
		d := domain.Day(at.UTC())
		b, ok := buckets[d]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[d] = b
		}
		b.count++
		b.revenue = b.revenue.Add(decimal.NewFromFloat(amount))
	}

	points := make([]domain.TrendPoint, 0, len(buckets))
	for d, b := range buckets {
		points = append(points, domain.TrendPoint{
			Date:    d,
			Count:   b.count,
			Revenue: b.revenue.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

func revenue(sales []domain.Sale) float64 {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(decimal.NewFromFloat(s.Amount))
	}
	return sum.Round(2).InexactFloat64()
}

// anomalies counts days whose revenue dropped well below the series mean.
func (a *Analyzer) anomalies(points []domain.TrendPoint) int {
	if len(points) < a.settings.MinAnomalyPoints || len(points) == 0 {
		return 0
	}
	var total float64
	for _, p := range points {
		total += p.Revenue
	}
	threshold := total / float64(len(points)) * a.settings.AnomalyDropRatio

	count := 0
	for _, p := range points {
		if p.Revenue < threshold {
			count++
		}
	}
	return count
}
