package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/business-pulse/pkg/models/domain"
)

// input is what every rule sees. Trends is nil when none were computed.
type input struct {
	metrics domain.MetricsBundle
	trends  *domain.TrendBundle
}

// rule appends zero or more insights and recommendations to out.
type rule func(s Settings, in input, out *domain.InsightSet)

// Engine evaluates a fixed ordered list of rules. It never looks at the
// health score.
type Engine struct {
	settings Settings
	rules    []rule
}

func NewEngine(settings Settings) *Engine {
	return &Engine{
		settings: settings,
		rules: []rule{
			noSalesRule,
			repeatRateRule,
			conversionRule,
			noLeadsRule,
			roiRule,
			ltvCACRule,
			trendRule,
			kpiRule,
			bestChannelRule,
		},
	}
}

// Generate always returns at least one recommendation.
func (e *Engine) Generate(metrics domain.MetricsBundle, trends *domain.TrendBundle) domain.InsightSet {
	out := domain.InsightSet{
		Insights:        []domain.Insight{},
		Recommendations: []domain.Recommendation{},
	}
	in := input{metrics: metrics, trends: trends}
	for _, r := range e.rules {
		r(e.settings, in, &out)
	}

	if len(out.Recommendations) == 0 {
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightGeneral,
			Title:       "Enrich your data",
			Description: "Record sales, leads and ad costs every day to get more precise recommendations.",
			Priority:    domain.PriorityMedium,
		})
	}
	return out
}

func noSalesRule(_ Settings, in input, out *domain.InsightSet) {
	if in.metrics.Sales.TotalSales > 0 {
		return
	}
	out.Insights = append(out.Insights, domain.Insight{
		Type:        domain.InsightSales,
		Title:       "No sales recorded",
		Description: "No sales were recorded in this period.",
		Priority:    domain.PriorityWarning,
	})
	out.Recommendations = append(out.Recommendations, domain.Recommendation{
		Type:        domain.InsightSales,
		Title:       "Start recording sales",
		Description: "Add every sale to see revenue, average check and repeat purchases.",
		Priority:    domain.PriorityHigh,
		ActionURL:   "/sales/new",
	})
}

func repeatRateRule(s Settings, in input, out *domain.InsightSet) {
	rate := in.metrics.Sales.RepeatRate
	switch {
	case rate >= s.HighRepeatRate:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightCustomer,
			Title:       "Loyal customers",
			Description: fmt.Sprintf("%.1f%% of sales come from returning customers.", rate),
			Priority:    domain.PrioritySuccess,
		})
	case rate > 0 && rate < s.LowRepeatRate:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightCustomer,
			Title:       "Few repeat purchases",
			Description: fmt.Sprintf("Only %.1f%% of sales come from returning customers.", rate),
			Priority:    domain.PriorityInfo,
		})
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightCustomer,
			Title:       "Launch a loyalty program",
			Description: "Bonuses or personal offers bring customers back for a second purchase.",
			Priority:    domain.PriorityMedium,
		})
	}
}

func conversionRule(s Settings, in input, out *domain.InsightSet) {
	m := in.metrics.Marketing
	switch {
	case m.ConversionRate >= s.HighConversion:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightMarketing,
			Title:       "High conversion",
			Description: fmt.Sprintf("%.1f%% of leads turned into sales.", m.ConversionRate),
			Priority:    domain.PrioritySuccess,
		})
	case m.TotalLeads > 0 && m.ConversionRate < s.LowConversion:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightMarketing,
			Title:       "Low conversion",
			Description: fmt.Sprintf("Only %.1f%% of %d leads turned into sales.", m.ConversionRate, m.TotalLeads),
			Priority:    domain.PriorityWarning,
		})
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightMarketing,
			Title:       "Improve lead handling",
			Description: "Answer leads faster and review the sales script.",
			Priority:    domain.PriorityHigh,
			ActionURL:   "/leads",
		})
	}
}

func noLeadsRule(_ Settings, in input, out *domain.InsightSet) {
	if in.metrics.Marketing.TotalLeads > 0 {
		return
	}
	out.Insights = append(out.Insights, domain.Insight{
		Type:        domain.InsightMarketing,
		Title:       "No leads recorded",
		Description: "No leads were recorded in this period.",
		Priority:    domain.PriorityInfo,
	})
	out.Recommendations = append(out.Recommendations, domain.Recommendation{
		Type:        domain.InsightMarketing,
		Title:       "Track lead sources",
		Description: "Record where every lead comes from to see which channels pay off.",
		Priority:    domain.PriorityMedium,
		ActionURL:   "/leads",
	})
}

func roiRule(s Settings, in input, out *domain.InsightSet) {
	spend := in.metrics.Marketing.AdSpend
	roi := in.metrics.Financial.ROI
	switch {
	case spend > 0 && roi < 0:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightFinancial,
			Title:       "Advertising does not pay off",
			Description: fmt.Sprintf("ROI is %.1f%%: ad spend exceeds revenue.", roi),
			Priority:    domain.PriorityDanger,
		})
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightFinancial,
			Title:       "Cut unprofitable channels",
			Description: "Move budget from channels without sales to the ones that convert.",
			Priority:    domain.PriorityHigh,
		})
	case roi >= s.HighROI:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightFinancial,
			Title:       "Strong return on advertising",
			Description: fmt.Sprintf("ROI is %.1f%%.", roi),
			Priority:    domain.PrioritySuccess,
		})
	}
}

func ltvCACRule(s Settings, in input, out *domain.InsightSet) {
	ratio := in.metrics.Financial.LTVCACRatio
	if ratio <= 0 || ratio >= s.MinLTVCAC {
		return
	}
	out.Insights = append(out.Insights, domain.Insight{
		Type:        domain.InsightFinancial,
		Title:       "Customers cost more than they bring",
		Description: fmt.Sprintf("LTV/CAC is %.2f.", ratio),
		Priority:    domain.PriorityWarning,
	})
	out.Recommendations = append(out.Recommendations, domain.Recommendation{
		Type:        domain.InsightFinancial,
		Title:       "Lower acquisition cost",
		Description: "Raise the average check or reduce the cost of acquiring a customer.",
		Priority:    domain.PriorityMedium,
	})
}

func trendRule(_ Settings, in input, out *domain.InsightSet) {
	if in.trends == nil {
		return
	}
	c := in.trends.Comparison
	switch c.Direction {
	case domain.DirectionUp:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightTrend,
			Title:       "Revenue is growing",
			Description: fmt.Sprintf("Revenue grew %.1f%% compared to the previous period.", c.ChangePercent),
			Priority:    domain.PrioritySuccess,
		})
	case domain.DirectionDown:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightTrend,
			Title:       "Revenue is falling",
			Description: fmt.Sprintf("Revenue fell %.1f%% compared to the previous period.", -c.ChangePercent),
			Priority:    domain.PriorityDanger,
		})
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightTrend,
			Title:       "Analyze the causes",
			Description: "Compare channels, prices and seasonality with the previous period.",
			Priority:    domain.PriorityHigh,
		})
	}
}

func kpiRule(_ Settings, in input, out *domain.InsightSet) {
	achievements := in.metrics.KPIProgress.Achievements()
	if len(achievements) == 0 {
		return
	}

	var critical []string
	excellent := 0
	for _, a := range achievements {
		switch a.Status {
		case domain.ProgressCritical:
			critical = append(critical, a.Name)
		case domain.ProgressExcellent:
			excellent++
		}
	}

	switch {
	case len(critical) > 0:
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightKPI,
			Title:       "Plan is at risk",
			Description: "Far behind plan on: " + strings.Join(critical, ", ") + ".",
			Priority:    domain.PriorityDanger,
		})
		out.Recommendations = append(out.Recommendations, domain.Recommendation{
			Type:        domain.InsightKPI,
			Title:       "Catch up with the plan",
			Description: "Focus the rest of the month on the lagging targets.",
			Priority:    domain.PriorityHigh,
			ActionURL:   "/plans",
		})
	case excellent == len(achievements):
		out.Insights = append(out.Insights, domain.Insight{
			Type:        domain.InsightKPI,
			Title:       "Ahead of plan",
			Description: "Every monthly target is ahead of schedule.",
			Priority:    domain.PrioritySuccess,
		})
	}
}

func bestChannelRule(_ Settings, in input, out *domain.InsightSet) {
	channels := append([]domain.ChannelMetrics(nil), in.metrics.Marketing.Channels...)
	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].Sales != channels[j].Sales {
			return channels[i].Sales > channels[j].Sales
		}
		return channels[i].Source < channels[j].Source
	})
	if len(channels) == 0 || channels[0].Sales == 0 {
		return
	}
	best := channels[0]
	out.Insights = append(out.Insights, domain.Insight{
		Type:        domain.InsightMarketing,
		Title:       "Best channel: " + best.Source,
		Description: fmt.Sprintf("%d sales and %.2f revenue came from %s.", best.Sales, best.Revenue, best.Source),
		Priority:    domain.PriorityInfo,
	})
}
