package domain

import "time"

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// TrendPoint is one calendar day that has at least one record.
type TrendPoint struct {
	Date    time.Time `json:"date"`
	Count   int       `json:"count"`
	Revenue float64   `json:"revenue"`
}

type PeriodComparison struct {
	CurrentTotal  float64   `json:"current_total"`
	PreviousTotal float64   `json:"previous_total"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
}

type TrendBundle struct {
	Sales []TrendPoint `json:"sales"`
	Leads []TrendPoint `json:"leads"`
	// Comparison is the previous-period comparison of sales revenue.
	Comparison PeriodComparison `json:"comparison"`
	// SalesComparison compares sales counts over the same windows.
	SalesComparison PeriodComparison `json:"sales_comparison"`
	Anomalies       int              `json:"anomalies"`
}
