package domain

type HealthLabel string

const (
	HealthExcellent HealthLabel = "excellent"
	HealthGood      HealthLabel = "good"
	HealthAverage   HealthLabel = "average"
	HealthPoor      HealthLabel = "poor"
)

type HealthColor string

const (
	ColorGreen  HealthColor = "green"
	ColorBlue   HealthColor = "blue"
	ColorYellow HealthColor = "yellow"
	ColorRed    HealthColor = "red"
)

type ScoreCategory string

const (
	CategorySales     ScoreCategory = "sales"
	CategoryMarketing ScoreCategory = "marketing"
	CategoryFinancial ScoreCategory = "financial"
	CategoryCustomer  ScoreCategory = "customer"
	CategoryKPI       ScoreCategory = "kpi"
)

type CategoryScore struct {
	Category      ScoreCategory `json:"category"`
	Label         string        `json:"label"`
	RawScore      int           `json:"raw_score"`
	WeightPercent int           `json:"weight_percent"`
	WeightedScore float64       `json:"weighted_score"`
}

type HealthScoreResult struct {
	Score         int             `json:"score"`
	Label         HealthLabel     `json:"label"`
	LabelText     string          `json:"label_text"`
	Color         HealthColor     `json:"color"`
	Breakdown     []CategoryScore `json:"breakdown"`
	TrendModifier int             `json:"trend_modifier"`
}
