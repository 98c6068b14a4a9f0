package metrics

import "github.com/de-tools/business-pulse/pkg/models/domain"

// ProgressTier maps a minimum actual/expected ratio to a status.
type ProgressTier struct {
	MinRatio float64
	Status   domain.ProgressStatus
}

// Settings holds the fixed heuristics of the calculator.
type Settings struct {
	// CLVMultiplier estimates customer lifetime value as average check times this factor (default: 3)
	CLVMultiplier float64
	// GrossMarginRate is the assumed share of revenue kept as gross margin (default: 0.5)
	GrossMarginRate float64
	// ProgressTiers are checked in order; a ratio below every tier is critical
	ProgressTiers []ProgressTier
	// NoPlanMessage explains an absent monthly plan
	NoPlanMessage string
	// DefaultChannel names leads and orders without a source
	DefaultChannel string
}

func DefaultSettings() Settings {
	return Settings{
		CLVMultiplier:   3,
		GrossMarginRate: 0.5,
		ProgressTiers: []ProgressTier{
			{MinRatio: 1.1, Status: domain.ProgressExcellent},
			{MinRatio: 0.9, Status: domain.ProgressOnTrack},
			{MinRatio: 0.7, Status: domain.ProgressWarning},
		},
		NoPlanMessage:  "No plan has been set for this month",
		DefaultChannel: "direct",
	}
}

// ProgressStatus classifies actual progress against expected progress,
// both given in percent.
func (s Settings) ProgressStatus(actual, expected float64) domain.ProgressStatus {
	if expected <= 0 {
		return domain.ProgressNeutral
	}
	ratio := actual / expected
	for _, tier := range s.ProgressTiers {
		if ratio >= tier.MinRatio {
			return tier.Status
		}
	}
	return domain.ProgressCritical
}
