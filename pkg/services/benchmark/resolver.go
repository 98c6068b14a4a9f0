package benchmark

import (
	"context"
	"maps"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Source looks benchmarks up by a free-form industry string.
type Source interface {
	Lookup(ctx context.Context, industry string) (domain.Benchmarks, error)
}

// DefaultFallbacks are used for any benchmark the source cannot provide.
func DefaultFallbacks() domain.Benchmarks {
	return domain.Benchmarks{
		domain.BenchmarkConversionRate:     10,
		domain.BenchmarkRepeatPurchaseRate: 30,
		domain.BenchmarkChurnRate:          5,
		domain.BenchmarkCACLTVRatio:        3,
	}
}

// Resolver merges looked-up benchmarks over fixed fallbacks. Lookup failures
// are logged and absorbed; Resolve always returns every fallback key.
type Resolver struct {
	source    Source
	fallbacks domain.Benchmarks
}

func NewResolver(source Source, fallbacks domain.Benchmarks) *Resolver {
	if fallbacks == nil {
		fallbacks = DefaultFallbacks()
	}
	return &Resolver{source: source, fallbacks: maps.Clone(fallbacks)}
}

func (r *Resolver) Resolve(ctx context.Context, industry string) domain.Benchmarks {
	result := maps.Clone(r.fallbacks)
	if r.source == nil {
		return result
	}

	found, err := r.source.Lookup(ctx, industry)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("industry", industry).
			Msg("benchmark lookup failed, using fallback values")
		return result
	}
	for k, v := range found {
		result[k] = v
	}
	return result
}
