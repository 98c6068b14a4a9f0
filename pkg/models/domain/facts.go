package domain

import "time"

type Business struct {
	ID       string
	Name     string
	Industry string
}

type Customer struct {
	ID        string
	CreatedAt time.Time
}

type Sale struct {
	ID         string
	CustomerID string
	Amount     float64
	CreatedAt  time.Time
}

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusWon        LeadStatus = "won"
	LeadStatusLost       LeadStatus = "lost"
)

type Lead struct {
	ID         string
	Source     string
	Status     LeadStatus
	LostReason string
	CreatedAt  time.Time
}

type Order struct {
	ID        string
	Total     float64
	UTMSource string
	CreatedAt time.Time
}

// DailyActual is a pre-aggregated day of KPI entries.
type DailyActual struct {
	Date              time.Time
	ActualNewSales    int
	ActualRepeatSales int
	ActualRevenue     float64
	ActualLeads       int
	ActualAdCosts     float64
}

// Plan is a monthly target.
type Plan struct {
	StartDate       time.Time
	EndDate         time.Time
	PlannedNewSales int
	PlannedRevenue  float64
	PlannedLeads    int
}
