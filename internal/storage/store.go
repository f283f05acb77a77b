// Package storage keeps already-scored company records in sqlite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dyike/CreditIntel/internal/models"
	"github.com/dyike/CreditIntel/pkg/sqlite"
)

var ErrNotFound = errors.New("company not found")

// Record is a stored company. LastUpdated replaces the detail's display string.
type Record struct {
	Detail      models.CompanyDetail
	LastUpdated time.Time
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS companies (
    name TEXT PRIMARY KEY,
    ticker TEXT NOT NULL DEFAULT '',
    sector TEXT NOT NULL DEFAULT '',
    market_cap REAL,
    score REAL NOT NULL DEFAULT 0,
    metrics_json TEXT,
    factors_json TEXT NOT NULL DEFAULT '[]',
    sentiment_json TEXT NOT NULL DEFAULT '[]',
    trend_json TEXT NOT NULL DEFAULT '[]',
    last_updated TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts rec or replaces the record with the same name. A replaced
// record keeps its position in List.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	return upsert(ctx, s.db, rec)
}

func upsert(ctx context.Context, db execer, rec Record) error {
	d := rec.Detail
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("company name is required")
	}

	var metrics sql.NullString
	if d.Metrics != nil {
		data, err := json.Marshal(d.Metrics)
		if err != nil {
			return fmt.Errorf("marshal metrics: %w", err)
		}
		metrics = sql.NullString{String: string(data), Valid: true}
	}
	factors, err := marshalList(d.ScoreFactors)
	if err != nil {
		return fmt.Errorf("marshal score factors: %w", err)
	}
	sentiment, err := marshalList(d.Sentiment)
	if err != nil {
		return fmt.Errorf("marshal sentiment: %w", err)
	}
	trend, err := marshalList(d.CreditTrend)
	if err != nil {
		return fmt.Errorf("marshal credit trend: %w", err)
	}

	updated := rec.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	var marketCap any
	if d.MarketCap != nil {
		marketCap = *d.MarketCap
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO companies (name, ticker, sector, market_cap, score, metrics_json, factors_json, sentiment_json, trend_json, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    ticker = excluded.ticker,
    sector = excluded.sector,
    market_cap = excluded.market_cap,
    score = excluded.score,
    metrics_json = excluded.metrics_json,
    factors_json = excluded.factors_json,
    sentiment_json = excluded.sentiment_json,
    trend_json = excluded.trend_json,
    last_updated = excluded.last_updated
`, d.Name, d.Ticker, d.Sector, marketCap, d.Score, metrics, factors, sentiment, trend, updated.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert company %s: %w", d.Name, err)
	}
	return nil
}

// marshalList stores a nil slice as an empty JSON array.
func marshalList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	return string(data), err
}

// Seed upserts every record in one transaction.
func (s *Store) Seed(ctx context.Context, records []Record) error {
	return sqlite.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, rec := range records {
			if err := upsert(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the stored companies in insertion order.
func (s *Store) List(ctx context.Context) ([]models.CompanySummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, ticker FROM companies ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []models.CompanySummary{}
	for rows.Next() {
		var c models.CompanySummary
		if err := rows.Scan(&c.Name, &c.Ticker); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies rows: %w", err)
	}
	return companies, nil
}

// Get returns the record stored under name, or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT name, ticker, sector, market_cap, score, metrics_json, factors_json, sentiment_json, trend_json, last_updated
FROM companies
WHERE name = ?
LIMIT 1
`, name)

	var (
		rec                       Record
		marketCap                 sql.NullFloat64
		metrics                   sql.NullString
		factors, sentiment, trend string
		lastUpdated               string
	)
	d := &rec.Detail
	if err := row.Scan(&d.Name, &d.Ticker, &d.Sector, &marketCap, &d.Score, &metrics, &factors, &sentiment, &trend, &lastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company %s: %w", name, err)
	}

	if marketCap.Valid {
		d.MarketCap = &marketCap.Float64
	}
	if metrics.Valid {
		d.Metrics = &models.Metrics{}
		if err := json.Unmarshal([]byte(metrics.String), d.Metrics); err != nil {
			return nil, fmt.Errorf("decode metrics for %s: %w", name, err)
		}
	}
	if err := json.Unmarshal([]byte(factors), &d.ScoreFactors); err != nil {
		return nil, fmt.Errorf("decode score factors for %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(sentiment), &d.Sentiment); err != nil {
		return nil, fmt.Errorf("decode sentiment for %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(trend), &d.CreditTrend); err != nil {
		return nil, fmt.Errorf("decode credit trend for %s: %w", name, err)
	}

	t, err := time.Parse(time.RFC3339, lastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse last_updated for %s: %w", name, err)
	}
	rec.LastUpdated = t
	return &rec, nil
}

// Count reports how many companies are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}
