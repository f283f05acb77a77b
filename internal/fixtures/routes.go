package fixtures

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dyike/CreditIntel/internal/models"
	"github.com/dyike/CreditIntel/internal/storage"
)

// LastUpdatedLayout is how lastUpdated is served, e.g. "October 01, 2026".
const LastUpdatedLayout = "January 02, 2006"

// Repository is the read side of the company store.
type Repository interface {
	List(ctx context.Context) ([]models.CompanySummary, error)
	Get(ctx context.Context, name string) (*storage.Record, error)
}

type Handlers struct {
	repo Repository
}

func NewHandlers(repo Repository) *Handlers {
	return &Handlers{repo: repo}
}

// SetupRoutes registers the middleware and the API endpoints on router.
func SetupRoutes(router *gin.Engine, h *Handlers, debug bool) {
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(debug))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/companies", h.ListCompanies)
		api.GET("/companies/:name", h.GetCompany)
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) ListCompanies(c *gin.Context) {
	companies, err := h.repo.List(c.Request.Context())
	if err != nil {
		log.Printf("list companies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *Handlers) GetCompany(c *gin.Context) {
	rec, err := h.repo.Get(c.Request.Context(), c.Param("name"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}
	if err != nil {
		log.Printf("get company %q: %v", c.Param("name"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	detail := rec.Detail
	detail.LastUpdated = rec.LastUpdated.Format(LastUpdatedLayout)
	c.JSON(http.StatusOK, detail)
}
