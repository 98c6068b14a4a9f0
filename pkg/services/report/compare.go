package report

import (
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/calc"
)

// Compare builds the current-vs-previous table for the given metric paths.
func Compare(current, previous domain.MetricsBundle, paths []string) ([]domain.MetricComparison, error) {
	out := make([]domain.MetricComparison, 0, len(paths))
	for _, path := range paths {
		cur, err := current.Value(path)
		if err != nil {
			return nil, fmt.Errorf("compare: %w", err)
		}
		prev, err := previous.Value(path)
		if err != nil {
			return nil, fmt.Errorf("compare: %w", err)
		}
		change := calc.ChangePercent(cur, prev)
		out = append(out, domain.MetricComparison{
			Metric:        path,
			Current:       cur,
			Previous:      prev,
			Change:        calc.Round2(cur - prev),
			ChangePercent: change,
			Direction:     calc.DirectionOf(change),
		})
	}
	return out, nil
}
