// Package calc holds the guarded arithmetic shared by the scoring pipeline.
package calc

import (
	"math"

	"github.com/de-tools/business-pulse/pkg/models/domain"
)

// Div returns num/den, or 0 when den is 0 or the result is not finite.
func Div(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percent returns part/total*100 guarded like Div.
func Percent(part, total float64) float64 {
	return Div(part, total) * 100
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ClampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// ChangePercent is the relative change from previous to current, using
// |previous| as the base. A zero base yields 0 when current is also zero and
// ±100 otherwise. The result is rounded to two decimals.
func ChangePercent(current, previous float64) float64 {
	switch {
	case previous == 0 && current == 0:
		return 0
	case previous == 0 && current > 0:
		return 100
	case previous == 0:
		return -100
	}
	return Round2((current - previous) / math.Abs(previous) * 100)
}

func DirectionOf(changePercent float64) domain.Direction {
	switch {
	case changePercent > 0:
		return domain.DirectionUp
	case changePercent < 0:
		return domain.DirectionDown
	default:
		return domain.DirectionStable
	}
}

// Compare builds a PeriodComparison whose direction always agrees with the
// sign of its rounded change percent.
func Compare(current, previous float64) domain.PeriodComparison {
	change := ChangePercent(current, previous)
	return domain.PeriodComparison{
		CurrentTotal:  Round2(current),
		PreviousTotal: Round2(previous),
		ChangePercent: change,
		Direction:     DirectionOf(change),
	}
}
