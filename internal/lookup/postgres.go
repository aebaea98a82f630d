package lookup

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sudeep-search/sudeep/internal/search"
)

// PostgresSource reads structured results from the structured_queries and
// structured_results tables (see migrations/001_structured_lookup.sql).
type PostgresSource struct {
	db *sql.DB
}

var openDB = sql.Open

func NewPostgres(conn string) (*PostgresSource, error) {
	db, err := openDB("pgx", conn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := verifySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresSource{db: db}, nil
}

func verifySchema(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"structured_queries", "structured_results"} {
		var regclass sql.NullString
		if err := db.QueryRowContext(ctx, "SELECT to_regclass($1)", fmt.Sprintf("public.%s", table)).Scan(&regclass); err != nil {
			return err
		}
		if !regclass.Valid {
			return fmt.Errorf("database schema missing: %s table not found (run migrations/001_structured_lookup.sql)", table)
		}
	}
	return nil
}

func (p *PostgresSource) Lookup(ctx context.Context, query string) ([]search.Result, error) {
	const stmt = `
		SELECT q.failure, r.href, r.body
		FROM structured_queries q
		LEFT JOIN structured_results r ON r.query_id = q.id
		WHERE lower(q.query) = lower($1)
		ORDER BY r.position
	`
	rows, err := p.db.QueryContext(ctx, stmt, normalizeQuery(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matched := false
	results := []search.Result{}
	for rows.Next() {
		var failure, href, body sql.NullString
		if err := rows.Scan(&failure, &href, &body); err != nil {
			return nil, err
		}
		matched = true
		if failure.Valid && failure.String != "" {
			return nil, &FailureError{Query: query, Reason: failure.String}
		}
		if !href.Valid && !body.Valid {
			continue
		}
		results = append(results, search.Result{URL: href.String, Body: body.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !matched || len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

func (p *PostgresSource) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresSource) Close() error {
	return p.db.Close()
}
