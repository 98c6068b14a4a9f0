package report

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (Store, *sql.DB) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO businesses (id, name, industry) VALUES ('b1', 'Bakery', 'food')`)
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)
	return s, db
}

func generating(id string, createdAt time.Time) store.Report {
	return store.Report{
		ID:          id,
		BusinessID:  "b1",
		Kind:        "weekly",
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		PeriodType:  "week",
		Status:      "generating",
		CreatedAt:   createdAt,
	}
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestReportStore_Lifecycle(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 8, 6, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, generating("r1", created)))

	got, err := s.Get(ctx, "b1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "generating", got.Status)
	assert.Equal(t, "Bakery", got.BusinessName)
	assert.Nil(t, got.MetricsData)
	assert.Nil(t, got.HealthScore)

	score := 72
	elapsed := int64(35)
	text, html := "report text", "<p>report</p>"
	completed := created.Add(time.Second)
	finished := generating("r1", created)
	finished.Status = "completed"
	finished.MetricsData = []byte(`{"sales":{"total_sales":3}}`)
	finished.Insights = []byte(`[{"title":"x"}]`)
	finished.HealthScore = &score
	finished.ContentText = &text
	finished.ContentHTML = &html
	finished.GenerationTimeMs = &elapsed
	finished.CompletedAt = &completed
	require.NoError(t, s.Finish(ctx, finished))

	got, err = s.Get(ctx, "b1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.JSONEq(t, `{"sales":{"total_sales":3}}`, string(got.MetricsData))
	assert.JSONEq(t, `[{"title":"x"}]`, string(got.Insights))
	assert.Nil(t, got.TrendsData)
	require.NotNil(t, got.HealthScore)
	assert.Equal(t, 72, *got.HealthScore)
	assert.Equal(t, "report text", *got.ContentText)
	assert.Equal(t, int64(35), *got.GenerationTimeMs)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completed.Equal(got.CompletedAt.UTC()))

	t.Run("terminal reports cannot be finished again", func(t *testing.T) {
		msg := "late failure"
		failed := generating("r1", created)
		failed.Status = "failed"
		failed.ErrorMessage = &msg
		assert.ErrorIs(t, s.Finish(ctx, failed), ErrNotGenerating)
	})

	t.Run("other business", func(t *testing.T) {
		_, err := s.Get(ctx, "b2", "r1")
		assert.ErrorIs(t, err, ErrReportNotFound)
	})
}

func TestReportStore_List(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 8, 6, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, generating("r1", base)))
	require.NoError(t, s.Create(ctx, generating("r2", base.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, generating("r3", base.Add(2*time.Hour))))

	got, err := s.List(ctx, "b1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)

	none, err := s.List(ctx, "b2", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReportStore_QueryErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO reports").WillReturnError(errors.New("disk full"))
	assert.ErrorContains(t, s.Create(ctx, generating("r1", time.Now())), "disk full")

	mock.ExpectExec("UPDATE reports").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Finish(ctx, generating("r1", time.Now())), ErrNotGenerating)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))
	_, err = s.Get(ctx, "b1", "r1")
	assert.ErrorContains(t, err, "connection lost")

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection lost"))
	_, err = s.List(ctx, "b1", 10)
	assert.ErrorContains(t, err, "connection lost")

	assert.NoError(t, mock.ExpectationsWereMet())
}
