package facts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/store"
	"github.com/de-tools/business-pulse/pkg/store/duckdb"
)

var ErrBusinessNotFound = errors.New("business not found")

// Store reads and ingests the raw operational records of businesses.
// Time-ranged reads are half-open: start <= created_at < end.
type Store interface {
	UpsertBusiness(ctx context.Context, b store.Business) error
	GetBusiness(ctx context.Context, id string) (*store.Business, error)
	ListBusinesses(ctx context.Context) ([]store.Business, error)

	AddCustomers(ctx context.Context, customers []store.Customer) error
	AddSales(ctx context.Context, sales []store.Sale) error
	AddLeads(ctx context.Context, leads []store.Lead) error
	AddOrders(ctx context.Context, orders []store.Order) error
	AddDailyActuals(ctx context.Context, actuals []store.DailyActual) error
	AddPlan(ctx context.Context, plan store.Plan) error
	// Import writes a whole dataset in one transaction.
	Import(ctx context.Context, d store.Dataset) error

	ListCustomers(ctx context.Context, businessID string, until time.Time) ([]store.Customer, error)
	ListSales(ctx context.Context, businessID string, start, end time.Time) ([]store.Sale, error)
	ListLeads(ctx context.Context, businessID string, start, end time.Time) ([]store.Lead, error)
	ListOpenLeads(ctx context.Context, businessID string, createdBefore time.Time) ([]store.Lead, error)
	ListOrders(ctx context.Context, businessID string, start, end time.Time) ([]store.Order, error)
	ListDailyActuals(ctx context.Context, businessID string, start, end time.Time) ([]store.DailyActual, error)
	// FindPlan returns the plan covering day, or nil when there is none.
	FindPlan(ctx context.Context, businessID string, day time.Time) (*store.Plan, error)
}

type factsStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &factsStore{db: db}, nil
}

func (s *factsStore) UpsertBusiness(ctx context.Context, b store.Business) error {
	_, err := duckdb.ExecerFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO businesses (id, name, industry) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, industry = excluded.industry`,
		b.ID, b.Name, b.Industry)
	if err != nil {
		return fmt.Errorf("upsert business: %w", err)
	}
	return nil
}

func (s *factsStore) Import(ctx context.Context, d store.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	ctx = duckdb.WithTransaction(ctx, tx)

	for _, b := range d.Businesses {
		if err = s.UpsertBusiness(ctx, b); err != nil {
			return err
		}
	}
	if err = s.AddCustomers(ctx, d.Customers); err != nil {
		return err
	}
	if err = s.AddSales(ctx, d.Sales); err != nil {
		return err
	}
	if err = s.AddLeads(ctx, d.Leads); err != nil {
		return err
	}
	if err = s.AddOrders(ctx, d.Orders); err != nil {
		return err
	}
	if err = s.AddDailyActuals(ctx, d.DailyActuals); err != nil {
		return err
	}
	for _, p := range d.Plans {
		if err = s.AddPlan(ctx, p); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func (s *factsStore) GetBusiness(ctx context.Context, id string) (*store.Business, error) {
	var (
		b        store.Business
		industry sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, name, industry FROM businesses WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &industry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBusinessNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	b.Industry = industry.String
	return &b, nil
}

func (s *factsStore) ListBusinesses(ctx context.Context) ([]store.Business, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, industry FROM businesses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer rows.Close()

	businesses := make([]store.Business, 0)
	for rows.Next() {
		var (
			b        store.Business
			industry sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Name, &industry); err != nil {
			return nil, err
		}
		b.Industry = industry.String
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

func (s *factsStore) AddCustomers(ctx context.Context, customers []store.Customer) error {
	return insertAll(ctx, s.db, `INSERT INTO customers (id, business_id, created_at) VALUES (?, ?, ?)`,
		len(customers), func(i int) []any {
			c := customers[i]
			return []any{c.ID, c.BusinessID, c.CreatedAt}
		})
}

func (s *factsStore) AddSales(ctx context.Context, sales []store.Sale) error {
	return insertAll(ctx, s.db, `INSERT INTO sales (id, business_id, customer_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		len(sales), func(i int) []any {
			r := sales[i]
			return []any{r.ID, r.BusinessID, duckdb.Arg(r.CustomerID), r.Amount, r.CreatedAt}
		})
}

func (s *factsStore) AddLeads(ctx context.Context, leads []store.Lead) error {
	return insertAll(ctx, s.db, `INSERT INTO leads (id, business_id, source, status, lost_reason, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		len(leads), func(i int) []any {
			l := leads[i]
			return []any{l.ID, l.BusinessID, duckdb.Arg(l.Source), l.Status, duckdb.Arg(l.LostReason), l.CreatedAt}
		})
}

func (s *factsStore) AddOrders(ctx context.Context, orders []store.Order) error {
	return insertAll(ctx, s.db, `INSERT INTO orders (id, business_id, total, utm_source, created_at) VALUES (?, ?, ?, ?, ?)`,
		len(orders), func(i int) []any {
			o := orders[i]
			return []any{o.ID, o.BusinessID, o.Total, duckdb.Arg(o.UTMSource), o.CreatedAt}
		})
}

func (s *factsStore) AddDailyActuals(ctx context.Context, actuals []store.DailyActual) error {
	return insertAll(ctx, s.db, `
		INSERT INTO daily_actuals (
			business_id, date, actual_new_sales, actual_repeat_sales,
			actual_revenue, actual_leads, actual_ad_costs
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(actuals), func(i int) []any {
			a := actuals[i]
			return []any{a.BusinessID, a.Date, a.ActualNewSales, a.ActualRepeatSales, a.ActualRevenue, a.ActualLeads, a.ActualAdCosts}
		})
}

func (s *factsStore) AddPlan(ctx context.Context, plan store.Plan) error {
	_, err := duckdb.ExecerFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO plans (business_id, start_date, end_date, planned_new_sales, planned_revenue, planned_leads)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plan.BusinessID, plan.StartDate, plan.EndDate, plan.PlannedNewSales, plan.PlannedRevenue, plan.PlannedLeads)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (s *factsStore) ListCustomers(ctx context.Context, businessID string, until time.Time) ([]store.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, created_at FROM customers
		WHERE business_id = ? AND created_at < ?
		ORDER BY created_at`, businessID, until)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]store.Customer, 0)
	for rows.Next() {
		var c store.Customer
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *factsStore) ListSales(ctx context.Context, businessID string, start, end time.Time) ([]store.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, customer_id, amount, created_at FROM sales
		WHERE business_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at, id`, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := make([]store.Sale, 0)
	for rows.Next() {
		var (
			r        store.Sale
			customer sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.BusinessID, &customer, &r.Amount, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.CustomerID = nullable(customer)
		sales = append(sales, r)
	}
	return sales, rows.Err()
}

func (s *factsStore) ListLeads(ctx context.Context, businessID string, start, end time.Time) ([]store.Lead, error) {
	return s.queryLeads(ctx, `
		SELECT id, business_id, source, status, lost_reason, created_at FROM leads
		WHERE business_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at, id`, businessID, start, end)
}

func (s *factsStore) ListOpenLeads(ctx context.Context, businessID string, createdBefore time.Time) ([]store.Lead, error) {
	return s.queryLeads(ctx, `
		SELECT id, business_id, source, status, lost_reason, created_at FROM leads
		WHERE business_id = ? AND created_at < ? AND status IN ('new', 'in_progress')
		ORDER BY created_at, id`, businessID, createdBefore)
}

func (s *factsStore) queryLeads(ctx context.Context, query string, args ...any) ([]store.Lead, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]store.Lead, 0)
	for rows.Next() {
		var (
			l                  store.Lead
			source, lostReason sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.BusinessID, &source, &l.Status, &lostReason, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Source = nullable(source)
		l.LostReason = nullable(lostReason)
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *factsStore) ListOrders(ctx context.Context, businessID string, start, end time.Time) ([]store.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, total, utm_source, created_at FROM orders
		WHERE business_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at, id`, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]store.Order, 0)
	for rows.Next() {
		var (
			o      store.Order
			source sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.BusinessID, &o.Total, &source, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.UTMSource = nullable(source)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *factsStore) ListDailyActuals(ctx context.Context, businessID string, start, end time.Time) ([]store.DailyActual, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT business_id, date, actual_new_sales, actual_repeat_sales,
		       actual_revenue, actual_leads, actual_ad_costs
		FROM daily_actuals
		WHERE business_id = ? AND date >= ? AND date < ?
		ORDER BY date`, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query daily actuals: %w", err)
	}
	defer rows.Close()

	actuals := make([]store.DailyActual, 0)
	for rows.Next() {
		var a store.DailyActual
		if err := rows.Scan(&a.BusinessID, &a.Date, &a.ActualNewSales, &a.ActualRepeatSales,
			&a.ActualRevenue, &a.ActualLeads, &a.ActualAdCosts); err != nil {
			return nil, err
		}
		actuals = append(actuals, a)
	}
	return actuals, rows.Err()
}

func (s *factsStore) FindPlan(ctx context.Context, businessID string, day time.Time) (*store.Plan, error) {
	var p store.Plan
	err := s.db.QueryRowContext(ctx, `
		SELECT business_id, start_date, end_date, planned_new_sales, planned_revenue, planned_leads
		FROM plans
		WHERE business_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date DESC
		LIMIT 1`, businessID, day, day).
		Scan(&p.BusinessID, &p.StartDate, &p.EndDate, &p.PlannedNewSales, &p.PlannedRevenue, &p.PlannedLeads)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return &p, nil
}

func insertAll(ctx context.Context, db *sql.DB, query string, n int, row func(i int) []any) error {
	if n == 0 {
		return nil
	}

	stmt, err := duckdb.ExecerFrom(ctx, db).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
