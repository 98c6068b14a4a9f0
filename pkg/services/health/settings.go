package health

import (
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/business-pulse/pkg/models/domain"
)

var ErrInvalidWeights = errors.New("invalid category weights")

type Weights struct {
	Sales     float64 `mapstructure:"sales"`
	Marketing float64 `mapstructure:"marketing"`
	Financial float64 `mapstructure:"financial"`
	Customer  float64 `mapstructure:"customer"`
	KPI       float64 `mapstructure:"kpi"`
}

const weightTolerance = 1e-9

// Validate requires non-negative weights that sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Sales, w.Marketing, w.Financial, w.Customer, w.KPI} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, sum)
	}
	return nil
}

func (w Weights) Sum() float64 {
	return w.Sales + w.Marketing + w.Financial + w.Customer + w.KPI
}

type SalesTiers struct {
	DailySales Tiers
	// RepeatRate is scored on repeat rate divided by its benchmark
	RepeatRate Tiers
	Revenue    Tiers
}

type MarketingTiers struct {
	// Conversion is scored on conversion rate divided by its benchmark
	Conversion Tiers
	DailyLeads Tiers
	ROAS       Tiers
	// NoSpendPoints replaces the ROAS tier when nothing was spent
	NoSpendPoints int
}

type FinancialTiers struct {
	ROI Tiers
	// LTVCAC is scored on the LTV/CAC ratio divided by its benchmark
	LTVCAC Tiers
	// NoCACPoints replaces the LTV/CAC tier when CAC is zero
	NoCACPoints  int
	ProfitPoints int
}

type CustomerTiers struct {
	Retention Tiers
	// Churn is scored on churn rate divided by its benchmark
	Churn        Ceilings
	NewCustomers Tiers
}

type KPITiers struct {
	NoPlanPoints int
	StatusPoints map[domain.ProgressStatus]int
}

type TrendStep struct {
	// MinChange is exceeded, not reached, by the absolute change percent
	MinChange float64
	Points    int
}

type Classification struct {
	MinScore int
	Label    domain.HealthLabel
	Color    domain.HealthColor
	Text     string
}

// Settings is the complete scoring table. Build it with DefaultSettings and
// override fields before handing it to NewService.
type Settings struct {
	Weights   Weights
	Sales     SalesTiers
	Marketing MarketingTiers
	Financial FinancialTiers
	Customer  CustomerTiers
	KPI       KPITiers

	// TrendSteps are checked in order for each of the sales and revenue changes
	TrendSteps []TrendStep
	// MaxAnomalyPenalty caps the one point deducted per anomaly (default: 4)
	MaxAnomalyPenalty int
	// MaxTrendModifier bounds the modifier on both sides (default: 10)
	MaxTrendModifier int

	// Classifications are ordered by descending MinScore
	Classifications []Classification
	CategoryLabels  map[domain.ScoreCategory]string
}

func DefaultWeights() Weights {
	return Weights{Sales: 0.25, Marketing: 0.20, Financial: 0.25, Customer: 0.15, KPI: 0.15}
}

func DefaultSettings() Settings {
	return Settings{
		Weights: DefaultWeights(),
		Sales: SalesTiers{
			DailySales: Tiers{{Threshold: 10, Points: 30}, {Threshold: 5, Points: 20}, {Threshold: 2, Points: 12}, {Threshold: 0, Points: 5, Strict: true}},
			RepeatRate: Tiers{{Threshold: 1.2, Points: 35}, {Threshold: 1.0, Points: 28}, {Threshold: 0.7, Points: 18}, {Threshold: 0, Points: 8, Strict: true}},
			Revenue:    Tiers{{Threshold: 1_000_000, Points: 35}, {Threshold: 500_000, Points: 28}, {Threshold: 100_000, Points: 18}, {Threshold: 0, Points: 8, Strict: true}},
		},
		Marketing: MarketingTiers{
			Conversion:    Tiers{{Threshold: 1.2, Points: 40}, {Threshold: 1.0, Points: 32}, {Threshold: 0.7, Points: 20}, {Threshold: 0, Points: 8, Strict: true}},
			DailyLeads:    Tiers{{Threshold: 10, Points: 30}, {Threshold: 5, Points: 20}, {Threshold: 1, Points: 10}, {Threshold: 0, Points: 5, Strict: true}},
			ROAS:          Tiers{{Threshold: 5, Points: 30}, {Threshold: 3, Points: 22}, {Threshold: 1, Points: 12}},
			NoSpendPoints: 15,
		},
		Financial: FinancialTiers{
			ROI:          Tiers{{Threshold: 200, Points: 40}, {Threshold: 100, Points: 30}, {Threshold: 50, Points: 20}, {Threshold: 0, Points: 10, Strict: true}},
			LTVCAC:       Tiers{{Threshold: 1.0, Points: 35}, {Threshold: 0.66, Points: 25}, {Threshold: 0.33, Points: 12}, {Threshold: 0, Points: 5, Strict: true}},
			NoCACPoints:  15,
			ProfitPoints: 25,
		},
		Customer: CustomerTiers{
			Retention:    Tiers{{Threshold: 60, Points: 40}, {Threshold: 40, Points: 30}, {Threshold: 20, Points: 20}, {Threshold: 0, Points: 10, Strict: true}},
			Churn:        Ceilings{{Threshold: 0.5, Points: 30}, {Threshold: 1.0, Points: 20}, {Threshold: 1.5, Points: 10}},
			NewCustomers: Tiers{{Threshold: 20, Points: 30}, {Threshold: 10, Points: 20}, {Threshold: 1, Points: 10}},
		},
		KPI: KPITiers{
			NoPlanPoints: 50,
			StatusPoints: map[domain.ProgressStatus]int{
				domain.ProgressExcellent: 34,
				domain.ProgressOnTrack:   28,
				domain.ProgressWarning:   17,
				domain.ProgressCritical:  7,
				domain.ProgressNeutral:   17,
			},
		},
		TrendSteps:        []TrendStep{{MinChange: 20, Points: 3}, {MinChange: 10, Points: 2}},
		MaxAnomalyPenalty: 4,
		MaxTrendModifier:  10,
		Classifications: []Classification{
			{MinScore: 80, Label: domain.HealthExcellent, Color: domain.ColorGreen, Text: "Excellent"},
			{MinScore: 60, Label: domain.HealthGood, Color: domain.ColorBlue, Text: "Good"},
			{MinScore: 40, Label: domain.HealthAverage, Color: domain.ColorYellow, Text: "Average"},
			{MinScore: 0, Label: domain.HealthPoor, Color: domain.ColorRed, Text: "Needs attention"},
		},
		CategoryLabels: map[domain.ScoreCategory]string{
			domain.CategorySales:     "Sales",
			domain.CategoryMarketing: "Marketing",
			domain.CategoryFinancial: "Finance",
			domain.CategoryCustomer:  "Customers",
			domain.CategoryKPI:       "Plan progress",
		},
	}
}

// Classify maps a composite score to its label; scores below every
// classification fall into the last one.
func (s Settings) Classify(score int) Classification {
	for _, c := range s.Classifications {
		if score >= c.MinScore {
			return c
		}
	}
	return s.Classifications[len(s.Classifications)-1]
}
