package benchmark

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
)

// Store serves industry benchmarks from the industry_benchmarks table.
type Store interface {
	Lookup(ctx context.Context, industry string) (domain.Benchmarks, error)
	Put(ctx context.Context, rows []store.Benchmark) error
}

type benchmarkStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &benchmarkStore{db: db}, nil
}

// Lookup overlays the best-matching industry row on the default row.
func (s *benchmarkStore) Lookup(ctx context.Context, industry string) (domain.Benchmarks, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT industry, name, value FROM industry_benchmarks`)
	if err != nil {
		return nil, fmt.Errorf("query benchmarks: %w", err)
	}
	defer rows.Close()

	byIndustry := map[string]domain.Benchmarks{}
	var industries []string
	for rows.Next() {
		var r store.Benchmark
		if err := rows.Scan(&r.Industry, &r.Name, &r.Value); err != nil {
			return nil, err
		}
		key := domain.NormalizeIndustry(r.Industry)
		if _, ok := byIndustry[key]; !ok {
			byIndustry[key] = domain.Benchmarks{}
			industries = append(industries, key)
		}
		byIndustry[key][r.Name] = r.Value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := domain.Benchmarks{}
	defaults, hasDefault := byIndustry[domain.DefaultIndustry]
	for k, v := range defaults {
		result[k] = v
	}

	matched := domain.MatchIndustry(industry, industries)
	if matched == "" && !hasDefault {
		return nil, fmt.Errorf("%w: %q", domain.ErrBenchmarkNotFound, industry)
	}
	for k, v := range byIndustry[matched] {
		result[k] = v
	}
	return result, nil
}

func (s *benchmarkStore) Put(ctx context.Context, rows []store.Benchmark) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO industry_benchmarks (industry, name, value) VALUES (?, ?, ?)
		ON CONFLICT (industry, name) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, domain.NormalizeIndustry(r.Industry), r.Name, r.Value); err != nil {
			return fmt.Errorf("insert benchmark: %w", err)
		}
	}
	return nil
}
