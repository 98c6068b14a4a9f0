package health

// Tier awards Points to a value that reaches Threshold, or exceeds it when Strict.
type Tier struct {
	Threshold float64
	Points    int
	Strict    bool
}

// Tiers is checked in order; the first matching tier wins and no match scores 0.
type Tiers []Tier

func (t Tiers) Points(v float64) int {
	for _, tier := range t {
		if v > tier.Threshold || (!tier.Strict && v == tier.Threshold) {
			return tier.Points
		}
	}
	return 0
}

// Ceilings award Points to a value at or below Threshold; lower is better.
type Ceilings []Tier

func (c Ceilings) Points(v float64) int {
	for _, tier := range c {
		if v <= tier.Threshold {
			return tier.Points
		}
	}
	return 0
}
