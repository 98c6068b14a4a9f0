package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
)

var (
	ErrReportNotFound = errors.New("report not found")
	// ErrNotGenerating is returned when finishing a report that already
	// reached a terminal status.
	ErrNotGenerating = errors.New("report is not generating")
)

type Store interface {
	Create(ctx context.Context, r store.Report) error
	// Finish writes the terminal state of a report that is still generating.
	Finish(ctx context.Context, r store.Report) error
	Get(ctx context.Context, businessID, id string) (*store.Report, error)
	// List returns the newest reports of a business first.
	List(ctx context.Context, businessID string, limit int) ([]store.Report, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{db: db}, nil
}

func (s *reportStore) Create(ctx context.Context, r store.Report) error {
	_, err := duckdb.ExecerFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO reports (
			id, business_id, requested_by, template_id, schedule_id, kind,
			period_start, period_end, period_type, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.BusinessID, duckdb.Arg(r.RequestedBy), duckdb.Arg(r.TemplateID), duckdb.Arg(r.ScheduleID), r.Kind,
		r.PeriodStart, r.PeriodEnd, r.PeriodType, r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *reportStore) Finish(ctx context.Context, r store.Report) error {
	res, err := duckdb.ExecerFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE reports SET
			status = ?,
			metrics_data = ?,
			trends_data = ?,
			insights = ?,
			recommendations = ?,
			comparisons = ?,
			health_score = ?,
			health_breakdown = ?,
			content_text = ?,
			content_html = ?,
			generation_time_ms = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ? AND status = 'generating'`,
		r.Status,
		jsonColumn(r.MetricsData),
		jsonColumn(r.TrendsData),
		jsonColumn(r.Insights),
		jsonColumn(r.Recommendations),
		jsonColumn(r.Comparisons),
		duckdb.Arg(r.HealthScore),
		jsonColumn(r.HealthBreakdown),
		duckdb.Arg(r.ContentText),
		duckdb.Arg(r.ContentHTML),
		duckdb.Arg(r.GenerationTimeMs),
		duckdb.Arg(r.ErrorMessage),
		duckdb.Arg(r.CompletedAt),
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("finish report %s: %w", r.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish report %s: %w", r.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotGenerating, r.ID)
	}
	return nil
}

const selectReport = `
	SELECT
		r.id, r.business_id, COALESCE(b.name, ''), r.requested_by, r.template_id, r.schedule_id,
		r.kind, r.period_start, r.period_end, r.period_type, r.status,
		CAST(r.metrics_data AS VARCHAR), CAST(r.trends_data AS VARCHAR),
		CAST(r.insights AS VARCHAR), CAST(r.recommendations AS VARCHAR),
		CAST(r.comparisons AS VARCHAR), r.health_score, CAST(r.health_breakdown AS VARCHAR),
		r.content_text, r.content_html, r.generation_time_ms, r.error_message,
		r.created_at, r.completed_at
	FROM reports r
	LEFT JOIN businesses b ON b.id = r.business_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (store.Report, error) {
	var (
		r                                    store.Report
		metrics, trends, insights, recs, cmp sql.NullString
		breakdown                            sql.NullString
	)
	err := row.Scan(
		&r.ID, &r.BusinessID, &r.BusinessName, &r.RequestedBy, &r.TemplateID, &r.ScheduleID,
		&r.Kind, &r.PeriodStart, &r.PeriodEnd, &r.PeriodType, &r.Status,
		&metrics, &trends, &insights, &recs, &cmp, &r.HealthScore, &breakdown,
		&r.ContentText, &r.ContentHTML, &r.GenerationTimeMs, &r.ErrorMessage,
		&r.CreatedAt, &r.CompletedAt,
	)
	if err != nil {
		return store.Report{}, err
	}
	r.MetricsData = bytesOf(metrics)
	r.TrendsData = bytesOf(trends)
	r.Insights = bytesOf(insights)
	r.Recommendations = bytesOf(recs)
	r.Comparisons = bytesOf(cmp)
	r.HealthBreakdown = bytesOf(breakdown)
	return r, nil
}

func (s *reportStore) Get(ctx context.Context, businessID, id string) (*store.Report, error) {
	r, err := scanReport(s.db.QueryRowContext(ctx, selectReport+` WHERE r.business_id = ? AND r.id = ?`, businessID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

func (s *reportStore) List(ctx context.Context, businessID string, limit int) ([]store.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectReport+`
		WHERE r.business_id = ?
		ORDER BY r.created_at DESC, r.id
		LIMIT ?`, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []store.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

func jsonColumn(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

func bytesOf(s sql.NullString) []byte {
	if !s.Valid {
		return nil
	}
	return []byte(s.String)
}
