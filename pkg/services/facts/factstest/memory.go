// Package factstest provides an in-memory facts.Reader for tests.
package factstest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/services/facts"
)

// Business holds the facts of one business.
type Business struct {
	domain.Business
	Customers    []domain.Customer
	Sales        []domain.Sale
	Leads        []domain.Lead
	Orders       []domain.Order
	DailyActuals []domain.DailyActual
	Plans        []domain.Plan
}

// Reader is a facts.Reader backed by maps. Err, when set, is returned by
// every read.
type Reader struct {
	Businesses map[string]*Business
	Err        error
}

var _ facts.Reader = (*Reader)(nil)

func NewReader(businesses ...*Business) *Reader {
	r := &Reader{Businesses: map[string]*Business{}}
	for _, b := range businesses {
		r.Businesses[b.ID] = b
	}
	return r
}

func (r *Reader) get(id string) (*Business, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	b, ok := r.Businesses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", facts.ErrBusinessNotFound, id)
	}
	return b, nil
}

func in(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (r *Reader) GetBusiness(_ context.Context, id string) (domain.Business, error) {
	b, err := r.get(id)
	if err != nil {
		return domain.Business{}, err
	}
	return b.Business, nil
}

func (r *Reader) ListCustomers(_ context.Context, id string, until time.Time) ([]domain.Customer, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	for _, c := range b.Customers {
		if c.CreatedAt.Before(until) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Reader) ListSales(_ context.Context, id string, start, end time.Time) ([]domain.Sale, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Sale
	for _, s := range b.Sales {
		if in(s.CreatedAt, start, end) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Reader) ListLeads(_ context.Context, id string, start, end time.Time) ([]domain.Lead, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Lead
	for _, l := range b.Leads {
		if in(l.CreatedAt, start, end) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Reader) ListOpenLeads(_ context.Context, id string, createdBefore time.Time) ([]domain.Lead, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Lead
	for _, l := range b.Leads {
		open := l.Status == domain.LeadStatusNew || l.Status == domain.LeadStatusInProgress
		if open && l.CreatedAt.Before(createdBefore) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Reader) ListOrders(_ context.Context, id string, start, end time.Time) ([]domain.Order, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.Order
	for _, o := range b.Orders {
		if in(o.CreatedAt, start, end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *Reader) ListDailyActuals(_ context.Context, id string, start, end time.Time) ([]domain.DailyActual, error) {
	b, err := r.get(id)
	if err != nil {
		return nil, err
	}
	var out []domain.DailyActual
	for _, a := range b.DailyActuals {
		if in(a.Date, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *Reader) FindPlan(_ context.Context, id string, day time.Time) (domain.Plan, bool, error) {
	b, err := r.get(id)
	if err != nil {
		return domain.Plan{}, false, err
	}
	for _, p := range b.Plans {
		if !day.Before(p.StartDate) && !day.After(p.EndDate) {
			return p, true, nil
		}
	}
	return domain.Plan{}, false, nil
}
