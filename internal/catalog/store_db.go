package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresSource reads the product list from a products table. It never writes.
//
//	CREATE TABLE products (
//	    position         integer PRIMARY KEY,
//	    name             text    NOT NULL,
//	    popularity_score numeric NOT NULL,
//	    weight           numeric NOT NULL,
//	    images           jsonb   NOT NULL DEFAULT '{}'
//	);
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres opens a pool through the pgx stdlib driver.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresSource) Records(ctx context.Context) ([]ProductRecord, error) {
	var out []ProductRecord

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT name, popularity_score, weight, images
			FROM products
			ORDER BY position ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]ProductRecord, 0, 16)
		for rows.Next() {
			var (
				rec    ProductRecord
				images []byte
			)
			if err := rows.Scan(&rec.Name, &rec.PopularityScore, &rec.Weight, &images); err != nil {
				return err
			}
			if err := json.Unmarshal(images, &rec.Images); err != nil {
				return fmt.Errorf("product %q images: %w", rec.Name, err)
			}
			out = append(out, rec)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
