package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchIndustry(t *testing.T) {
	candidates := []string{"default", "Retail", "food", "food delivery", "beauty"}

	tests := []struct {
		query string
		want  string
	}{
		{"retail", "Retail"},
		{"  RETAIL ", "Retail"},
		{"Food Delivery Service", "food delivery"},
		{"fast food", "food"},
		{"beauty salon", "beauty"},
		{"construction", ""},
		{"", ""},
		{"default", ""},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchIndustry(tc.query, candidates))
		})
	}
}

func TestBenchmarks_Get(t *testing.T) {
	b := Benchmarks{BenchmarkChurnRate: 7}
	assert.Equal(t, 7.0, b.Get(BenchmarkChurnRate, 5))
	assert.Equal(t, 10.0, b.Get(BenchmarkConversionRate, 10))
}
