package metrics

import (
	"context"
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/benchmark"
	"github.com/de-tools/business-pulse/pkg/services/facts"
	"golang.org/x/sync/errgroup"
)

// Calculator aggregates the raw facts of a period into a MetricsBundle.
// Missing data degrades to zero values; only read failures are returned.
type Calculator struct {
	facts      facts.Reader
	benchmarks *benchmark.Resolver
	settings   Settings
}

func NewCalculator(reader facts.Reader, benchmarks *benchmark.Resolver, settings Settings) *Calculator {
	return &Calculator{
		facts:      reader,
		benchmarks: benchmarks,
		settings:   settings,
	}
}

// dataset is every raw fact the categories are computed from.
type dataset struct {
	period    domain.Period
	sales     []domain.Sale
	leads     []domain.Lead
	orders    []domain.Order
	actuals   []domain.DailyActual
	customers []domain.Customer
	plan      domain.Plan
	hasPlan   bool
	churnRate float64
}

func (c *Calculator) Calculate(ctx context.Context, business domain.Business, period domain.Period) (domain.MetricsBundle, error) {
	data, err := c.load(ctx, business, period)
	if err != nil {
		return domain.MetricsBundle{}, err
	}

	sales := c.salesMetrics(data)
	marketing := c.marketingMetrics(data, sales)
	return domain.MetricsBundle{
		Sales:       sales,
		Marketing:   marketing,
		Financial:   c.financialMetrics(sales, marketing),
		Customer:    c.customerMetrics(data),
		Efficiency:  c.efficiencyMetrics(sales, marketing),
		KPIProgress: c.kpiProgress(data, sales, marketing),
	}, nil
}

// load fans the independent reads out and joins them.
func (c *Calculator) load(ctx context.Context, business domain.Business, period domain.Period) (*dataset, error) {
	data := &dataset{period: period}
	start, end := period.Start, period.EndExclusive()
	id := business.ID

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.sales, err = c.facts.ListSales(gCtx, id, start, end)
		return wrap("sales", err)
	})
	g.Go(func() (err error) {
		data.leads, err = c.facts.ListLeads(gCtx, id, start, end)
		return wrap("leads", err)
	})
	g.Go(func() (err error) {
		data.orders, err = c.facts.ListOrders(gCtx, id, start, end)
		return wrap("orders", err)
	})
	g.Go(func() (err error) {
		data.actuals, err = c.facts.ListDailyActuals(gCtx, id, start, end)
		return wrap("daily actuals", err)
	})
	g.Go(func() (err error) {
		data.customers, err = c.facts.ListCustomers(gCtx, id, end)
		return wrap("customers", err)
	})
	g.Go(func() (err error) {
		data.plan, data.hasPlan, err = c.facts.FindPlan(gCtx, id, period.Start)
		return wrap("plan", err)
	})
	g.Go(func() error {
		data.churnRate = c.benchmarks.Resolve(gCtx, business.Industry).
			Get(domain.BenchmarkChurnRate, benchmark.DefaultFallbacks()[domain.BenchmarkChurnRate])
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}
