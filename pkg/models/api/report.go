package api

import (
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
)

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"period_type"`
	Days  int    `json:"days"`
}

type GenerateReportRequest struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PeriodType  string  `json:"period_type,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	RequestedBy *string `json:"requested_by,omitempty"`
	TemplateID  *string `json:"template_id,omitempty"`
	ScheduleID  *string `json:"schedule_id,omitempty"`
}

type Report struct {
	ID               string                    `json:"id"`
	BusinessID       string                    `json:"business_id"`
	BusinessName     string                    `json:"business_name,omitempty"`
	RequestedBy      *string                   `json:"requested_by,omitempty"`
	TemplateID       *string                   `json:"template_id,omitempty"`
	ScheduleID       *string                   `json:"schedule_id,omitempty"`
	Kind             string                    `json:"kind"`
	Period           Period                    `json:"period"`
	Status           string                    `json:"status"`
	MetricsData      *domain.MetricsBundle     `json:"metrics_data,omitempty"`
	TrendsData       *domain.TrendBundle       `json:"trends_data,omitempty"`
	Insights         []domain.Insight          `json:"insights,omitempty"`
	Recommendations  []domain.Recommendation   `json:"recommendations,omitempty"`
	Comparisons      []domain.MetricComparison `json:"comparisons,omitempty"`
	HealthScore      *int                      `json:"health_score,omitempty"`
	HealthLabel      string                    `json:"health_label,omitempty"`
	HealthColor      string                    `json:"health_color,omitempty"`
	HealthBreakdown  []domain.CategoryScore    `json:"health_breakdown,omitempty"`
	TrendModifier    *int                      `json:"trend_modifier,omitempty"`
	ContentText      string                    `json:"content_text,omitempty"`
	ContentHTML      string                    `json:"content_html,omitempty"`
	GenerationTimeMs int64                     `json:"generation_time_ms"`
	ErrorMessage     *string                   `json:"error_message,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
}

type Summary struct {
	BusinessID  string             `json:"business_id"`
	Period      Period             `json:"period"`
	HealthScore int                `json:"health_score"`
	HealthLabel string             `json:"health_label"`
	LabelText   string             `json:"label_text"`
	KeyMetrics  map[string]float64 `json:"key_metrics"`
	KPIProgress domain.KPIProgress `json:"kpi_progress"`
}

type Error struct {
	Error string `json:"error"`
}

type StartBatchRequest struct {
	BusinessIDs []string `json:"business_ids"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	PeriodType  string   `json:"period_type,omitempty"`
	Kind        string   `json:"kind,omitempty"`
}

type BatchStarted struct {
	ID string `json:"id"`
}
