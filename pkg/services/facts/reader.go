package facts

import (
	"context"
	"time"

	"github.com/de-tools/business-pulse/pkg/adapters"
	"github.com/de-tools/business-pulse/pkg/models/domain"
	factsstore "github.com/de-tools/business-pulse/pkg/store/duckdb/facts"
)

var ErrBusinessNotFound = factsstore.ErrBusinessNotFound

// Reader exposes the raw operational facts of a business as domain values.
// Ranged reads are half-open: start <= created_at < end.
type Reader interface {
	GetBusiness(ctx context.Context, id string) (domain.Business, error)
	ListCustomers(ctx context.Context, businessID string, until time.Time) ([]domain.Customer, error)
	ListSales(ctx context.Context, businessID string, start, end time.Time) ([]domain.Sale, error)
	ListLeads(ctx context.Context, businessID string, start, end time.Time) ([]domain.Lead, error)
	ListOpenLeads(ctx context.Context, businessID string, createdBefore time.Time) ([]domain.Lead, error)
	ListOrders(ctx context.Context, businessID string, start, end time.Time) ([]domain.Order, error)
	ListDailyActuals(ctx context.Context, businessID string, start, end time.Time) ([]domain.DailyActual, error)
	// FindPlan reports found=false when no plan covers day.
	FindPlan(ctx context.Context, businessID string, day time.Time) (plan domain.Plan, found bool, err error)
}

type storeReader struct {
	store factsstore.Store
}

func NewReader(store factsstore.Store) Reader {
	return &storeReader{store: store}
}

func (r *storeReader) GetBusiness(ctx context.Context, id string) (domain.Business, error) {
	b, err := r.store.GetBusiness(ctx, id)
	if err != nil {
		return domain.Business{}, err
	}
	return adapters.MapStoreBusinessToDomain(*b), nil
}

func (r *storeReader) ListCustomers(ctx context.Context, businessID string, until time.Time) ([]domain.Customer, error) {
	rows, err := r.store.ListCustomers(ctx, businessID, until)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreCustomerToDomain), nil
}

func (r *storeReader) ListSales(ctx context.Context, businessID string, start, end time.Time) ([]domain.Sale, error) {
	rows, err := r.store.ListSales(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreSaleToDomain), nil
}

func (r *storeReader) ListLeads(ctx context.Context, businessID string, start, end time.Time) ([]domain.Lead, error) {
	rows, err := r.store.ListLeads(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreLeadToDomain), nil
}

func (r *storeReader) ListOpenLeads(ctx context.Context, businessID string, createdBefore time.Time) ([]domain.Lead, error) {
	rows, err := r.store.ListOpenLeads(ctx, businessID, createdBefore)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreLeadToDomain), nil
}

func (r *storeReader) ListOrders(ctx context.Context, businessID string, start, end time.Time) ([]domain.Order, error) {
	rows, err := r.store.ListOrders(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreOrderToDomain), nil
}

func (r *storeReader) ListDailyActuals(ctx context.Context, businessID string, start, end time.Time) ([]domain.DailyActual, error) {
	rows, err := r.store.ListDailyActuals(ctx, businessID, start, end)
	if err != nil {
		return nil, err
	}
	return adapters.MapSlice(rows, adapters.MapStoreDailyActualToDomain), nil
}

func (r *storeReader) FindPlan(ctx context.Context, businessID string, day time.Time) (domain.Plan, bool, error) {
	p, err := r.store.FindPlan(ctx, businessID, day)
	if err != nil {
		return domain.Plan{}, false, err
	}
	if p == nil {
		return domain.Plan{}, false, nil
	}
	return adapters.MapStorePlanToDomain(*p), true, nil
}
