package adapters

import (
	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
)

func MapStoreBusinessToDomain(b store.Business) domain.Business {
	return domain.Business{ID: b.ID, Name: b.Name, Industry: b.Industry}
}

func MapStoreCustomerToDomain(c store.Customer) domain.Customer {
	return domain.Customer{ID: c.ID, CreatedAt: c.CreatedAt}
}

func MapStoreSaleToDomain(s store.Sale) domain.Sale {
	return domain.Sale{
		ID:         s.ID,
		CustomerID: deref(s.CustomerID),
		Amount:     s.Amount,
		CreatedAt:  s.CreatedAt,
	}
}

func MapStoreLeadToDomain(l store.Lead) domain.Lead {
	return domain.Lead{
		ID:         l.ID,
		Source:     deref(l.Source),
		Status:     domain.LeadStatus(l.Status),
		LostReason: deref(l.LostReason),
		CreatedAt:  l.CreatedAt,
	}
}

func MapStoreOrderToDomain(o store.Order) domain.Order {
	return domain.Order{
		ID:        o.ID,
		Total:     o.Total,
		UTMSource: deref(o.UTMSource),
		CreatedAt: o.CreatedAt,
	}
}

func MapStoreDailyActualToDomain(a store.DailyActual) domain.DailyActual {
	return domain.DailyActual{
		Date:              a.Date,
		ActualNewSales:    a.ActualNewSales,
		ActualRepeatSales: a.ActualRepeatSales,
		ActualRevenue:     a.ActualRevenue,
		ActualLeads:       a.ActualLeads,
		ActualAdCosts:     a.ActualAdCosts,
	}
}

func MapStorePlanToDomain(p store.Plan) domain.Plan {
	return domain.Plan{
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		PlannedNewSales: p.PlannedNewSales,
		PlannedRevenue:  p.PlannedRevenue,
		PlannedLeads:    p.PlannedLeads,
	}
}

// MapSlice applies fn to every element of in.
func MapSlice[S any, D any](in []S, fn func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
