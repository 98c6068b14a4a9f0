package domain

import (
	"fmt"
	"strings"
)

// MetricsBundle groups the metrics of one period by category.
type MetricsBundle struct {
	Sales       SalesMetrics      `json:"sales"`
	Marketing   MarketingMetrics  `json:"marketing"`
	Financial   FinancialMetrics  `json:"financial"`
	Customer    CustomerMetrics   `json:"customer"`
	Efficiency  EfficiencyMetrics `json:"efficiency"`
	KPIProgress KPIProgress       `json:"kpi_progress"`
}

type SalesMetrics struct {
	TotalSales      int     `json:"total_sales"`
	NewSales        int     `json:"new_sales"`
	RepeatSales     int     `json:"repeat_sales"`
	TotalRevenue    float64 `json:"total_revenue"`
	RepeatRate      float64 `json:"repeat_rate"`
	AverageCheck    float64 `json:"average_check"`
	AvgDailySales   float64 `json:"avg_daily_sales"`
	AvgDailyRevenue float64 `json:"avg_daily_revenue"`
}

type MarketingMetrics struct {
	TotalLeads     int              `json:"total_leads"`
	AdSpend        float64          `json:"ad_spend"`
	CostPerLead    float64          `json:"cost_per_lead"`
	ConversionRate float64          `json:"conversion_rate"`
	AvgDailyLeads  float64          `json:"avg_daily_leads"`
	Channels       []ChannelMetrics `json:"channels"`
}

type ChannelMetrics struct {
	Source         string  `json:"source"`
	Leads          int     `json:"leads"`
	Sales          int     `json:"sales"`
	Revenue        float64 `json:"revenue"`
	ConversionRate float64 `json:"conversion_rate"`
}

type FinancialMetrics struct {
	ROI         float64 `json:"roi"`
	ROAS        float64 `json:"roas"`
	CAC         float64 `json:"cac"`
	CLV         float64 `json:"clv"`
	LTVCACRatio float64 `json:"ltv_cac_ratio"`
	GrossMargin float64 `json:"gross_margin"`
	Profit      float64 `json:"profit"`
}

type CustomerMetrics struct {
	NewCustomers    int     `json:"new_customers"`
	TotalCustomers  int     `json:"total_customers"`
	ActiveCustomers int     `json:"active_customers"`
	RepeatCustomers int     `json:"repeat_customers"`
	RetentionRate   float64 `json:"retention_rate"`
	ChurnRate       float64 `json:"churn_rate"`
}

type EfficiencyMetrics struct {
	LeadToSaleRate      float64 `json:"lead_to_sale_rate"`
	CostPerSale         float64 `json:"cost_per_sale"`
	RevenuePerLead      float64 `json:"revenue_per_lead"`
	MarketingEfficiency float64 `json:"marketing_efficiency"`
}

type ProgressStatus string

const (
	ProgressExcellent ProgressStatus = "excellent"
	ProgressOnTrack   ProgressStatus = "on_track"
	ProgressWarning   ProgressStatus = "warning"
	ProgressCritical  ProgressStatus = "critical"
	ProgressNeutral   ProgressStatus = "neutral"
)

// KPIProgress compares actuals with the monthly plan. Only HasPlan and Message
// are meaningful when no plan exists.
type KPIProgress struct {
	HasPlan          bool            `json:"has_plan"`
	Message          string          `json:"message,omitempty"`
	ExpectedProgress float64         `json:"expected_progress,omitempty"`
	Sales            *KPIAchievement `json:"sales,omitempty"`
	Revenue          *KPIAchievement `json:"revenue,omitempty"`
	Leads            *KPIAchievement `json:"leads,omitempty"`
}

type KPIAchievement struct {
	Actual  float64        `json:"actual"`
	Planned float64        `json:"planned"`
	Percent float64        `json:"percent"`
	Status  ProgressStatus `json:"status"`
}

// Achievements lists the plan lines in a fixed order; empty when there is no plan.
func (k KPIProgress) Achievements() []NamedAchievement {
	if !k.HasPlan {
		return nil
	}
	var out []NamedAchievement
	for _, a := range []NamedAchievement{{"sales", k.Sales}, {"revenue", k.Revenue}, {"leads", k.Leads}} {
		if a.KPIAchievement != nil {
			out = append(out, a)
		}
	}
	return out
}

type NamedAchievement struct {
	Name string
	*KPIAchievement
}

// Value resolves a dotted metric path such as "sales.total_revenue".
func (m MetricsBundle) Value(path string) (float64, error) {
	category, name, ok := strings.Cut(path, ".")
	if !ok {
		return 0, fmt.Errorf("malformed metric path %q", path)
	}
	var values map[string]float64
	switch category {
	case "sales":
		s := m.Sales
		values = map[string]float64{
			"total_sales":       float64(s.TotalSales),
			"new_sales":         float64(s.NewSales),
			"repeat_sales":      float64(s.RepeatSales),
			"total_revenue":     s.TotalRevenue,
			"repeat_rate":       s.RepeatRate,
			"average_check":     s.AverageCheck,
			"avg_daily_sales":   s.AvgDailySales,
			"avg_daily_revenue": s.AvgDailyRevenue,
		}
	case "marketing":
		mk := m.Marketing
		values = map[string]float64{
			"total_leads":     float64(mk.TotalLeads),
			"ad_spend":        mk.AdSpend,
			"cost_per_lead":   mk.CostPerLead,
			"conversion_rate": mk.ConversionRate,
			"avg_daily_leads": mk.AvgDailyLeads,
		}
	case "financial":
		f := m.Financial
		values = map[string]float64{
			"roi":           f.ROI,
			"roas":          f.ROAS,
			"cac":           f.CAC,
			"clv":           f.CLV,
			"ltv_cac_ratio": f.LTVCACRatio,
			"gross_margin":  f.GrossMargin,
			"profit":        f.Profit,
		}
	case "customer":
		c := m.Customer
		values = map[string]float64{
			"new_customers":    float64(c.NewCustomers),
			"total_customers":  float64(c.TotalCustomers),
			"active_customers": float64(c.ActiveCustomers),
			"repeat_customers": float64(c.RepeatCustomers),
			"retention_rate":   c.RetentionRate,
			"churn_rate":       c.ChurnRate,
		}
	case "efficiency":
		e := m.Efficiency
		values = map[string]float64{
			"lead_to_sale_rate":    e.LeadToSaleRate,
			"cost_per_sale":        e.CostPerSale,
			"revenue_per_lead":     e.RevenuePerLead,
			"marketing_efficiency": e.MarketingEfficiency,
		}
	default:
		return 0, fmt.Errorf("unknown metric category %q", category)
	}
	v, ok := values[name]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", path)
	}
	return v, nil
}
