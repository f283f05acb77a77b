package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/CreditIntel/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "credit.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertGetList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	updated := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	rec := Record{
		Detail: models.CompanyDetail{
			Name:      "Apple Inc.",
			Ticker:    "AAPL",
			Sector:    "Technology",
			MarketCap: ptr(3.2e12),
			Score:     78,
			Metrics:   &models.Metrics{Revenue: "$383.29B"},
			ScoreFactors: []models.ScoreFactor{
				{Text: "High cash reserves", Positive: true},
			},
			CreditTrend: []models.TrendPoint{{Month: "Jan", Score: 72}},
		},
		LastUpdated: updated,
	}
	if err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, Record{Detail: models.CompanyDetail{Name: "Tesla Inc.", Score: 65}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.Get(ctx, "Apple Inc.")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Detail.Ticker != "AAPL" || got.Detail.Metrics == nil || got.Detail.Metrics.Revenue != "$383.29B" {
		t.Fatalf("unexpected detail %+v", got.Detail)
	}
	if len(got.Detail.ScoreFactors) != 1 || !got.Detail.ScoreFactors[0].Positive {
		t.Fatalf("score factors not round-tripped: %+v", got.Detail.ScoreFactors)
	}
	if !got.LastUpdated.Equal(updated) {
		t.Fatalf("last updated %v, want %v", got.LastUpdated, updated)
	}

	tesla, err := s.Get(ctx, "Tesla Inc.")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if tesla.Detail.Metrics != nil {
		t.Fatalf("missing metrics should stay nil")
	}
	if tesla.Detail.Sentiment == nil || len(tesla.Detail.Sentiment) != 0 {
		t.Fatalf("missing sentiment should decode as an empty list")
	}

	// replacing Apple keeps it first
	rec.Detail.Score = 80
	if err := s.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Apple Inc." || list[1].Name != "Tesla Inc." {
		t.Fatalf("unexpected order %+v", list)
	}
	got, _ = s.Get(ctx, "Apple Inc.")
	if got.Detail.Score != 80 {
		t.Fatalf("score not updated: %v", got.Detail.Score)
	}
}

func TestMarketCapAbsentOrZero(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, Record{Detail: models.CompanyDetail{Name: "Unlisted"}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, Record{Detail: models.CompanyDetail{Name: "Shell", MarketCap: ptr(0)}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "Unlisted")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Detail.MarketCap != nil {
		t.Fatalf("absent market cap came back as %v", *got.Detail.MarketCap)
	}
	got, err = store.Get(ctx, "Shell")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Detail.MarketCap == nil || *got.Detail.MarketCap != 0 {
		t.Fatalf("zero market cap not kept: %v", got.Detail.MarketCap)
	}
}

func ptr(v float64) *float64 { return &v }

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "Nope Corp."); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := s.List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", list, err)
	}
}

func TestUpsertRequiresName(t *testing.T) {
	s := openTestStore(t)
	if err := s.Upsert(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestSeedDefault(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if err := s.Seed(ctx, records); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// seeding twice is idempotent
	if err := s.Seed(ctx, records); err != nil {
		t.Fatalf("Seed again: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 companies, got %d", n)
	}
	list, _ := s.List(ctx)
	if list[0].Name != "Apple Inc." || list[2].Ticker != "TSLA" {
		t.Fatalf("unexpected seed order %+v", list)
	}
	ms, err := s.Get(ctx, "Microsoft Corporation")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ms.Detail.Score != 85 || len(ms.Detail.CreditTrend) != 6 {
		t.Fatalf("unexpected Microsoft record %+v", ms.Detail)
	}
}

func TestParseSeedRejectsBadDate(t *testing.T) {
	_, err := ParseSeed([]byte(`[{"name":"X","lastUpdated":"yesterday"}]`))
	if err == nil {
		t.Fatalf("expected error")
	}
	recs, err := ParseSeed([]byte(`[{"name":"X","lastUpdated":"March 05, 2025"}]`))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if recs[0].LastUpdated.Month() != time.March || recs[0].LastUpdated.Day() != 5 {
		t.Fatalf("unexpected date %v", recs[0].LastUpdated)
	}
}
