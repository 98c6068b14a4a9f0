package report

import (
	"context"

	"github.com/de-tools/business-pulse/pkg/adapters"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	reportstore "github.com/de-tools/business-pulse/pkg/store/duckdb/report"
)

var (
	ErrReportNotFound = reportstore.ErrReportNotFound
	ErrNotGenerating  = reportstore.ErrNotGenerating
)

// Repository persists reports. Finish may be called once per report.
type Repository interface {
	Create(ctx context.Context, r *domain.Report) error
	Finish(ctx context.Context, r *domain.Report) error
	Get(ctx context.Context, businessID, id string) (*domain.Report, error)
	List(ctx context.Context, businessID string, limit int) ([]*domain.Report, error)
}

type storeRepository struct {
	store reportstore.Store
}

func NewRepository(store reportstore.Store) Repository {
	return &storeRepository{store: store}
}

func (r *storeRepository) Create(ctx context.Context, report *domain.Report) error {
	row, err := adapters.MapDomainReportToStore(report)
	if err != nil {
		return err
	}
	return r.store.Create(ctx, row)
}

func (r *storeRepository) Finish(ctx context.Context, report *domain.Report) error {
	row, err := adapters.MapDomainReportToStore(report)
	if err != nil {
		return err
	}
	return r.store.Finish(ctx, row)
}

func (r *storeRepository) Get(ctx context.Context, businessID, id string) (*domain.Report, error) {
	row, err := r.store.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	return adapters.MapStoreReportToDomain(*row)
}

func (r *storeRepository) List(ctx context.Context, businessID string, limit int) ([]*domain.Report, error) {
	rows, err := r.store.List(ctx, businessID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Report, 0, len(rows))
	for _, row := range rows {
		report, err := adapters.MapStoreReportToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}
