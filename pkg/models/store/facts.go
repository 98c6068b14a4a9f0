package store

import "time"

type Business struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

type Customer struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Sale struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	CustomerID *string   `json:"customer_id,omitempty"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

type Lead struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Source     *string   `json:"source,omitempty"`
	Status     string    `json:"status"`
	LostReason *string   `json:"lost_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Order struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Total      float64   `json:"total"`
	UTMSource  *string   `json:"utm_source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type DailyActual struct {
	BusinessID        string    `json:"business_id"`
	Date              time.Time `json:"date"`
	ActualNewSales    int       `json:"actual_new_sales"`
	ActualRepeatSales int       `json:"actual_repeat_sales"`
	ActualRevenue     float64   `json:"actual_revenue"`
	ActualLeads       int       `json:"actual_leads"`
	ActualAdCosts     float64   `json:"actual_ad_costs"`
}

type Plan struct {
	BusinessID      string    `json:"business_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	PlannedNewSales int       `json:"planned_new_sales"`
	PlannedRevenue  float64   `json:"planned_revenue"`
	PlannedLeads    int       `json:"planned_leads"`
}

type Benchmark struct {
	Industry string  `json:"industry"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
}

// Dataset is a batch of facts imported together.
type Dataset struct {
	Businesses   []Business    `json:"businesses"`
	Customers    []Customer    `json:"customers"`
	Sales        []Sale        `json:"sales"`
	Leads        []Lead        `json:"leads"`
	Orders       []Order       `json:"orders"`
	DailyActuals []DailyActual `json:"daily_actuals"`
	Plans        []Plan        `json:"plans"`
}
