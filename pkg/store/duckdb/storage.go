package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const BusinessesSchema = `
	CREATE TABLE IF NOT EXISTS businesses (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		industry VARCHAR
	);
`

const CustomersSchema = `
	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR NOT NULL,
		business_id VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (business_id, id)
	);
`

const SalesSchema = `
	CREATE TABLE IF NOT EXISTS sales (
		id VARCHAR NOT NULL,
		business_id VARCHAR NOT NULL,
		customer_id VARCHAR,
		amount DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (business_id, id)
	);
`

const LeadsSchema = `
	CREATE TABLE IF NOT EXISTS leads (
		id VARCHAR NOT NULL,
		business_id VARCHAR NOT NULL,
		source VARCHAR,
		status VARCHAR NOT NULL,
		lost_reason VARCHAR,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (business_id, id)
	);
`

const OrdersSchema = `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR NOT NULL,
		business_id VARCHAR NOT NULL,
		total DOUBLE NOT NULL,
		utm_source VARCHAR,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (business_id, id)
	);
`

const DailyActualsSchema = `
	CREATE TABLE IF NOT EXISTS daily_actuals (
		business_id VARCHAR NOT NULL,
		date DATE NOT NULL,
		actual_new_sales INTEGER NOT NULL DEFAULT 0,
		actual_repeat_sales INTEGER NOT NULL DEFAULT 0,
		actual_revenue DOUBLE NOT NULL DEFAULT 0,
		actual_leads INTEGER NOT NULL DEFAULT 0,
		actual_ad_costs DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (business_id, date)
	);
`

const PlansSchema = `
	CREATE TABLE IF NOT EXISTS plans (
		business_id VARCHAR NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		planned_new_sales INTEGER NOT NULL DEFAULT 0,
		planned_revenue DOUBLE NOT NULL DEFAULT 0,
		planned_leads INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (business_id, start_date)
	);
`

const BenchmarksSchema = `
	CREATE TABLE IF NOT EXISTS industry_benchmarks (
		industry VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		value DOUBLE NOT NULL,
		PRIMARY KEY (industry, name)
	);
`

const ReportsSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id VARCHAR PRIMARY KEY,
		business_id VARCHAR NOT NULL,
		requested_by VARCHAR,
		template_id VARCHAR,
		schedule_id VARCHAR,
		kind VARCHAR NOT NULL,
		period_start DATE NOT NULL,
		period_end DATE NOT NULL,
		period_type VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		metrics_data JSON,
		trends_data JSON,
		insights JSON,
		recommendations JSON,
		comparisons JSON,
		health_score INTEGER,
		health_breakdown JSON,
		content_text VARCHAR,
		content_html VARCHAR,
		generation_time_ms BIGINT,
		error_message VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP
	);
`

var bootQueries = []string{
	BusinessesSchema,
	CustomersSchema,
	SalesSchema,
	LeadsSchema,
	OrdersSchema,
	DailyActualsSchema,
	PlansSchema,
	BenchmarksSchema,
	ReportsSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}

// Arg turns an optional field into a bindable parameter. The driver rejects
// pointer values, so nil maps to NULL and anything else is dereferenced.
func Arg[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
