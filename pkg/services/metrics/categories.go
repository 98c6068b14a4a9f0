package metrics

import (
	"sort"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/calc"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func (c *Calculator) salesMetrics(data *dataset) domain.SalesMetrics {
	var (
		newSales, repeatSales int
		revenue               = decimal.Zero
	)
	for _, a := range data.actuals {
		newSales += a.ActualNewSales
		repeatSales += a.ActualRepeatSales
		revenue = revenue.Add(decimal.NewFromFloat(a.ActualRevenue))
	}

	if newSales+repeatSales == 0 && revenue.IsZero() {
		newSales, repeatSales = splitNewRepeat(data.sales, data.customers, data.period)
		revenue = decimal.Zero
		for _, s := range data.sales {
			revenue = revenue.Add(decimal.NewFromFloat(s.Amount))
		}
	}

	total := newSales + repeatSales
	rev := money(revenue)
	days := float64(data.period.Days())
	return domain.SalesMetrics{
		TotalSales:      total,
		NewSales:        newSales,
		RepeatSales:     repeatSales,
		TotalRevenue:    rev,
		RepeatRate:      calc.Round2(calc.Percent(float64(repeatSales), float64(total))),
		AverageCheck:    calc.Round2(calc.Div(rev, float64(total))),
		AvgDailySales:   calc.Round2(calc.Div(float64(total), days)),
		AvgDailyRevenue: calc.Round2(calc.Div(rev, days)),
	}
}

// splitNewRepeat counts a sale as repeat when its customer existed before the
// period or already bought earlier in it. Anonymous sales are new.
func splitNewRepeat(sales []domain.Sale, customers []domain.Customer, period domain.Period) (newSales, repeatSales int) {
	createdAt := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		createdAt[c.ID] = c
	}

	seen := map[string]bool{}
	for _, s := range sales {
		if s.CustomerID == "" {
			newSales++
			continue
		}
		customer, known := createdAt[s.CustomerID]
		if seen[s.CustomerID] || (known && customer.CreatedAt.Before(period.Start)) {
			repeatSales++
		} else {
			newSales++
		}
		seen[s.CustomerID] = true
	}
	return newSales, repeatSales
}

func (c *Calculator) marketingMetrics(data *dataset, sales domain.SalesMetrics) domain.MarketingMetrics {
	leads := 0
	spend := decimal.Zero
	for _, a := range data.actuals {
		leads += a.ActualLeads
		spend = spend.Add(decimal.NewFromFloat(a.ActualAdCosts))
	}
	if leads == 0 {
		leads = len(data.leads)
	}

	adSpend := money(spend)
	return domain.MarketingMetrics{
		TotalLeads:     leads,
		AdSpend:        adSpend,
		CostPerLead:    calc.Round2(calc.Div(adSpend, float64(leads))),
		ConversionRate: calc.Round2(calc.Percent(float64(sales.TotalSales), float64(leads))),
		AvgDailyLeads:  calc.Round2(calc.Div(float64(leads), float64(data.period.Days()))),
		Channels:       c.channels(data),
	}
}

func (c *Calculator) channels(data *dataset) []domain.ChannelMetrics {
	type agg struct {
		leads, sales int
		revenue      decimal.Decimal
	}
	bySource := map[string]*agg{}
	get := func(source string) *agg {
		if source == "" {
			source = c.settings.DefaultChannel
		}
		a, ok := bySource[source]
		if !ok {
			a = &agg{revenue: decimal.Zero}
			bySource[source] = a
		}
		return a
	}

	for _, l := range data.leads {
		get(l.Source).leads++
	}
	for _, o := range data.orders {
		a := get(o.UTMSource)
		a.sales++
		a.revenue = a.revenue.Add(decimal.NewFromFloat(o.Total))
	}

	channels := make([]domain.ChannelMetrics, 0, len(bySource))
	for source, a := range bySource {
		channels = append(channels, domain.ChannelMetrics{
			Source:         source,
			Leads:          a.leads,
			Sales:          a.sales,
			Revenue:        money(a.revenue),
			ConversionRate: calc.Round2(calc.Percent(float64(a.sales), float64(a.leads))),
		})
	}
	sort.Slice(channels, func(i, j int) bool {
		if channels[i].Leads != channels[j].Leads {
			return channels[i].Leads > channels[j].Leads
		}
		if channels[i].Sales != channels[j].Sales {
			return channels[i].Sales > channels[j].Sales
		}
		return channels[i].Source < channels[j].Source
	})
	return channels
}

func (c *Calculator) financialMetrics(sales domain.SalesMetrics, marketing domain.MarketingMetrics) domain.FinancialMetrics {
	revenue, spend := sales.TotalRevenue, marketing.AdSpend
	cac := calc.Div(spend, float64(sales.NewSales))
	clv := sales.AverageCheck * c.settings.CLVMultiplier
	return domain.FinancialMetrics{
		ROI:         calc.Round2(calc.Percent(revenue-spend, spend)),
		ROAS:        calc.Round2(calc.Div(revenue, spend)),
		CAC:         calc.Round2(cac),
		CLV:         calc.Round2(clv),
		LTVCACRatio: calc.Round2(calc.Div(clv, cac)),
		GrossMargin: calc.Round2(revenue * c.settings.GrossMarginRate),
		Profit:      calc.Round2(revenue - spend),
	}
}

func (c *Calculator) customerMetrics(data *dataset) domain.CustomerMetrics {
	newCustomers := 0
	for _, cu := range data.customers {
		if data.period.Contains(cu.CreatedAt) {
			newCustomers++
		}
	}

	purchases := map[string]int{}
	for _, s := range data.sales {
		if s.CustomerID != "" {
			purchases[s.CustomerID]++
		}
	}
	repeat := 0
	for _, n := range purchases {
		if n > 1 {
			repeat++
		}
	}

	total := len(data.customers)
	return domain.CustomerMetrics{
		NewCustomers:    newCustomers,
		TotalCustomers:  total,
		ActiveCustomers: len(purchases),
		RepeatCustomers: repeat,
		RetentionRate:   calc.Round2(calc.Percent(float64(len(purchases)), float64(total))),
		ChurnRate:       data.churnRate,
	}
}

func (c *Calculator) efficiencyMetrics(sales domain.SalesMetrics, marketing domain.MarketingMetrics) domain.EfficiencyMetrics {
	return domain.EfficiencyMetrics{
		LeadToSaleRate:      marketing.ConversionRate,
		CostPerSale:         calc.Round2(calc.Div(marketing.AdSpend, float64(sales.TotalSales))),
		RevenuePerLead:      calc.Round2(calc.Div(sales.TotalRevenue, float64(marketing.TotalLeads))),
		MarketingEfficiency: calc.Round2(calc.Div(sales.TotalRevenue, marketing.AdSpend)),
	}
}

func (c *Calculator) kpiProgress(data *dataset, sales domain.SalesMetrics, marketing domain.MarketingMetrics) domain.KPIProgress {
	if !data.hasPlan || data.plan.PlannedLeads <= 0 {
		return domain.KPIProgress{HasPlan: false, Message: c.settings.NoPlanMessage}
	}

	plan := data.plan
	planDays := domain.Period{Start: domain.Day(plan.StartDate), End: domain.Day(plan.EndDate)}.Days()
	through := data.period.End
	if through.After(domain.Day(plan.EndDate)) {
		through = domain.Day(plan.EndDate)
	}
	elapsed := calc.ClampInt(int(through.Sub(domain.Day(plan.StartDate)).Hours()/24)+1, 0, max(planDays, 0))
	expected := calc.Round2(calc.Percent(float64(elapsed), float64(planDays)))

	achievement := func(actual, planned float64) *domain.KPIAchievement {
		a := &domain.KPIAchievement{
			Actual:  actual,
			Planned: planned,
			Percent: calc.Round2(calc.Percent(actual, planned)),
			Status:  domain.ProgressNeutral,
		}
		if planned > 0 {
			a.Status = c.settings.ProgressStatus(a.Percent, expected)
		}
		return a
	}

	return domain.KPIProgress{
		HasPlan:          true,
		ExpectedProgress: expected,
		Sales:            achievement(float64(sales.NewSales), float64(plan.PlannedNewSales)),
		Revenue:          achievement(sales.TotalRevenue, plan.PlannedRevenue),
		Leads:            achievement(float64(marketing.TotalLeads), float64(plan.PlannedLeads)),
	}
}
