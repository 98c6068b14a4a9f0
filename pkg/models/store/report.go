package store

import "time"

// Report is the reports table row; JSON columns hold the serialized bundles.
type Report struct {
	ID         string
	BusinessID string
	// BusinessName is joined from businesses on reads.
	BusinessName     string
	RequestedBy      *string
	TemplateID       *string
	ScheduleID       *string
	Kind             string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	PeriodType       string
	Status           string
	MetricsData      []byte
	TrendsData       []byte
	Insights         []byte
	Recommendations  []byte
	Comparisons      []byte
	HealthScore      *int
	HealthBreakdown  []byte
	ContentText      *string
	ContentHTML      *string
	GenerationTimeMs *int64
	ErrorMessage     *string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
