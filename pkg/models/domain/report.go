package domain

import "time"

type ReportStatus string

const (
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
)

func (s ReportStatus) Terminal() bool {
	return s == ReportStatusCompleted || s == ReportStatusFailed
}

type ReportKind string

const (
	ReportKindDaily   ReportKind = "daily"
	ReportKindWeekly  ReportKind = "weekly"
	ReportKindMonthly ReportKind = "monthly"
	ReportKindCustom  ReportKind = "custom"
)

// Valid reports whether k is one of the declared kinds. Empty resolves to custom.
func (k ReportKind) Valid() bool {
	switch k {
	case "", ReportKindDaily, ReportKindWeekly, ReportKindMonthly, ReportKindCustom:
		return true
	}
	return false
}

// MetricComparison is one row of the current-vs-previous period table.
type MetricComparison struct {
	Metric        string    `json:"metric"`
	Current       float64   `json:"current"`
	Previous      float64   `json:"previous"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
}

// Report is the persisted outcome of one generation run.
type Report struct {
	ID               string
	BusinessID       string
	BusinessName     string
	RequestedBy      *string
	TemplateID       *string
	ScheduleID       *string
	Kind             ReportKind
	Period           Period
	Status           ReportStatus
	Metrics          *MetricsBundle
	Trends           *TrendBundle
	Insights         []Insight
	Recommendations  []Recommendation
	Comparisons      []MetricComparison
	Health           *HealthScoreResult
	ContentText      string
	ContentHTML      string
	GenerationTimeMs int64
	ErrorMessage     *string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}

// Summary is the non-persisted dashboard refresh over a trailing window.
type Summary struct {
	BusinessID  string
	Period      Period
	HealthScore int
	HealthLabel HealthLabel
	LabelText   string
	KeyMetrics  map[string]float64
	KPIProgress KPIProgress
}
