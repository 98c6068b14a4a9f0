package facts

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
	factsstore "github.com/de-tools/business-pulse/pkg/store/duckdb/facts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReader(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := factsstore.NewStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	source := "facebook"

	require.NoError(t, s.UpsertBusiness(ctx, store.Business{ID: "b1", Name: "Flowers", Industry: "retail"}))
	require.NoError(t, s.AddSales(ctx, []store.Sale{{ID: "s1", BusinessID: "b1", Amount: 20, CreatedAt: start}}))
	require.NoError(t, s.AddLeads(ctx, []store.Lead{{ID: "l1", BusinessID: "b1", Source: &source, Status: "won", CreatedAt: start}}))
	require.NoError(t, s.AddPlan(ctx, store.Plan{BusinessID: "b1", StartDate: start, EndDate: start.AddDate(0, 1, -1), PlannedLeads: 10}))

	r := NewReader(s)

	b, err := r.GetBusiness(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.Business{ID: "b1", Name: "Flowers", Industry: "retail"}, b)

	_, err = r.GetBusiness(ctx, "nope")
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	sales, err := r.ListSales(ctx, "b1", start, end)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Empty(t, sales[0].CustomerID)

	leads, err := r.ListLeads(ctx, "b1", start, end)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "facebook", leads[0].Source)
	assert.Equal(t, domain.LeadStatusWon, leads[0].Status)

	plan, found, err := r.FindPlan(ctx, "b1", start.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10, plan.PlannedLeads)

	_, found, err = r.FindPlan(ctx, "b1", start.AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.False(t, found)
}
