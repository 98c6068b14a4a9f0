package insight

import "time"

// Settings holds the rule thresholds. Rates are percentages.
type Settings struct {
	HighRepeatRate float64
	LowRepeatRate  float64
	HighConversion float64
	LowConversion  float64
	HighROI        float64
	// MinLTVCAC flags an LTV/CAC ratio below it as losing money on acquisition
	MinLTVCAC float64
	// StaleLeadAge is how long an open lead may wait before the brief flags it
	StaleLeadAge time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		HighRepeatRate: 30,
		LowRepeatRate:  10,
		HighConversion: 10,
		LowConversion:  3,
		HighROI:        100,
		MinLTVCAC:      1,
		StaleLeadAge:   48 * time.Hour,
	}
}
