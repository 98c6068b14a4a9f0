package domain

type Priority string

const (
	PriorityInfo    Priority = "info"
	PrioritySuccess Priority = "success"
	PriorityWarning Priority = "warning"
	PriorityDanger  Priority = "danger"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
)

type InsightType string

const (
	InsightSales     InsightType = "sales"
	InsightMarketing InsightType = "marketing"
	InsightFinancial InsightType = "financial"
	InsightCustomer  InsightType = "customer"
	InsightTrend     InsightType = "trend"
	InsightKPI       InsightType = "kpi"
	InsightGeneral   InsightType = "general"
)

type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
}

type Recommendation struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	ActionURL   string      `json:"action_url,omitempty"`
}

type InsightSet struct {
	Insights        []Insight        `json:"insights"`
	Recommendations []Recommendation `json:"recommendations"`
}
