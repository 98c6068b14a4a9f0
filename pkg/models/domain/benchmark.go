package domain

import (
	"errors"
	"strings"
)

var ErrBenchmarkNotFound = errors.New("benchmark not found")

const DefaultIndustry = "default"

// Benchmark names consumed by the scoring pipeline.
const (
	BenchmarkConversionRate     = "conversion_rate"
	BenchmarkRepeatPurchaseRate = "repeat_purchase_rate"
	BenchmarkChurnRate          = "churn_rate"
	BenchmarkCACLTVRatio        = "cac_ltv_ratio"
)

// Benchmarks maps a benchmark name to its reference value.
type Benchmarks map[string]float64

func (b Benchmarks) Get(name string, fallback float64) float64 {
	if v, ok := b[name]; ok {
		return v
	}
	return fallback
}

func NormalizeIndustry(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// MatchIndustry picks the candidate that best matches a free-form industry
// string: exact match first, then the longest candidate contained in the
// query (or containing it). Returns "" when nothing matches.
func MatchIndustry(query string, candidates []string) string {
	q := NormalizeIndustry(query)
	if q == "" {
		return ""
	}
	best := ""
	for _, c := range candidates {
		n := NormalizeIndustry(c)
		if n == DefaultIndustry || n == "" {
			continue
		}
		if n == q {
			return c
		}
		if (strings.Contains(q, n) || strings.Contains(n, q)) && len(n) > len(NormalizeIndustry(best)) {
			best = c
		}
	}
	return best
}
