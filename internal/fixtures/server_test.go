package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/CreditIntel/config"
	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/dataflows"
	"github.com/dyike/CreditIntel/internal/models"
	"github.com/dyike/CreditIntel/internal/storage"
)

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "fixtures.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	records, err := storage.DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if err := s.Seed(context.Background(), records); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return s
}

func TestListCompanies(t *testing.T) {
	srv := httptest.NewServer(NewRouter(seededStore(t), false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/companies")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("missing request id")
	}

	var companies []models.CompanySummary
	if err := json.NewDecoder(resp.Body).Decode(&companies); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(companies) != 3 || companies[0].Name != "Apple Inc." || companies[1].Ticker != "MSFT" {
		t.Fatalf("unexpected companies %+v", companies)
	}
}

func TestGetCompanyFormatsLastUpdated(t *testing.T) {
	srv := httptest.NewServer(NewRouter(seededStore(t), false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/companies/Microsoft%20Corporation")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var detail models.CompanyDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.LastUpdated != "October 01, 2026" {
		t.Fatalf("lastUpdated = %q", detail.LastUpdated)
	}
	if detail.Score != 85 || detail.Metrics == nil || detail.Metrics.DebtToEquity != "0.33" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestGetCompanyNotFound(t *testing.T) {
	srv := httptest.NewServer(NewRouter(seededStore(t), false))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/companies/Nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Company not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestRequestIDPassthroughAndPreflight(t *testing.T) {
	router := NewRouter(seededStore(t), false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("health: %d %q", rec.Code, rec.Header().Get(requestIDHeader))
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/companies", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
}

type failingRepo struct{}

func (failingRepo) List(ctx context.Context) ([]models.CompanySummary, error) {
	return nil, errors.New("disk on fire")
}

func (failingRepo) Get(ctx context.Context, name string) (*storage.Record, error) {
	return nil, errors.New("disk on fire")
}

func TestRepositoryFailureIs500(t *testing.T) {
	srv := httptest.NewServer(NewRouter(failingRepo{}, false))
	defer srv.Close()

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.APIBaseURL = srv.URL
	_, err := dataflows.NewCreditAPI(cfg).ListCompanies(context.Background())
	if err == nil || err.Error() != "HTTP error! status: 500" {
		t.Fatalf("unexpected error %v", err)
	}
}

// The dashboard reads the fixtures server end to end.
func TestDashboardAgainstFixtures(t *testing.T) {
	srv := httptest.NewServer(NewRouter(seededStore(t), false))
	defer srv.Close()

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.APIBaseURL = srv.URL
	view := dashboard.NewView(dataflows.NewDataFlowInterface(cfg))

	ctx := context.Background()
	if err := view.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if view.Selected.Name != "Apple Inc." || dashboard.BandFor(view.Selected.Score).Label != "Good" {
		t.Fatalf("unexpected first company %+v", view.Selected)
	}
	if err := view.Select(ctx, "Tesla Inc."); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if view.Selected.Metrics != nil || dashboard.BandFor(view.Selected.Score).Label != "Fair" {
		t.Fatalf("unexpected Tesla %+v", view.Selected)
	}
}

func TestServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(ln.Addr().String(), seededStore(t), false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
