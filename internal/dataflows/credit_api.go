package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/CreditIntel/internal/models"
)

const cacheSource = "credit_api"

// CreditAPI reads pre-computed company scores from the credit intelligence API.
type CreditAPI struct {
	client          *resty.Client
	cache           *CacheManager
	baseURL         string
	offlineFallback bool
}

// NewCreditAPI creates a client for config.APIBaseURL
func NewCreditAPI(config *Config) *CreditAPI {
	cacheDir := filepath.Join(config.DataCacheDir, cacheSource)
	cache := NewCacheManager(cacheDir, config.CacheTTL, config.CacheEnabled)

	client := resty.New()
	client.SetBaseURL(config.APIBaseURL)
	client.SetTimeout(config.RequestTimeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "CreditIntel/1.0")

	if config.MaxRetries > 0 {
		client.SetRetryCount(config.MaxRetries)
		client.SetRetryWaitTime(500 * time.Millisecond)
		client.SetRetryMaxWaitTime(5 * time.Second)
		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	}

	return &CreditAPI{
		client:          client,
		cache:           cache,
		baseURL:         config.APIBaseURL,
		offlineFallback: config.OfflineFallback,
	}
}

// BaseURL is the API root this client talks to.
func (c *CreditAPI) BaseURL() string {
	return c.baseURL
}

// Cache exposes the response cache, mainly for `cache clear`.
func (c *CreditAPI) Cache() *CacheManager {
	return c.cache
}

// ListCompanies calls GET /api/companies
func (c *CreditAPI) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	var result []models.CompanySummary
	err := c.fetch(ctx, "companies", "all", func(r *resty.Request) (*resty.Response, error) {
		return r.Get("/api/companies")
	}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCompany calls GET /api/companies/{name}. The name is path-escaped.
func (c *CreditAPI) GetCompany(ctx context.Context, name string) (*models.CompanyDetail, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	var result models.CompanyDetail
	err := c.fetch(ctx, "company", name, func(r *resty.Request) (*resty.Response, error) {
		return r.SetPathParam("name", name).Get("/api/companies/{name}")
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CreditAPI) fetch(ctx context.Context, method string, key interface{}, do func(*resty.Request) (*resty.Response, error), out interface{}) error {
	err := c.do(ctx, do, out)
	if err == nil {
		if cerr := c.cache.Set(cacheSource, method, key, out); cerr != nil {
			log.Printf("credit api: cache write for %s failed: %v", method, cerr)
		}
		return nil
	}

	// fall back only to a copy younger than the cache TTL
	if c.offlineFallback && c.cache.Get(cacheSource, method, key, out) {
		log.Printf("credit api: %s unavailable (%v), serving cached copy", method, err)
		return nil
	}
	return err
}

func (c *CreditAPI) do(ctx context.Context, do func(*resty.Request) (*resty.Response, error), out interface{}) error {
	resp, err := do(c.client.R().SetContext(ctx))
	if err != nil {
		return fmt.Errorf("request %s: %w", c.baseURL, err)
	}

	if !resp.IsSuccess() {
		return &StatusError{Code: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", resp.Request.URL, err)
	}
	return nil
}
