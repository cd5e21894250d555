package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/presenter"
	"github.com/shelfmatch/backend/internal/usecase"
)

// MatchFinder is the matchmaking surface the handlers depend on
type MatchFinder interface {
	FindMatches(ctx context.Context, raw *domain.RawSubmission) (*usecase.MatchOutcome, error)
	Stores(ctx context.Context) ([]domain.StoreCandidate, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher        MatchFinder
	metrics        *Metrics
	logger         *zap.Logger
	requestTimeout time.Duration
}

// NewHandler creates a new HTTP handler. A nil matcher answers 503 on API routes.
func NewHandler(matcher MatchFinder, metrics *Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		matcher:        matcher,
		metrics:        metrics,
		logger:         logger,
		requestTimeout: 10 * time.Second,
	}
}

// SetRequestTimeout bounds catalog retrieval per request
func (h *Handler) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		h.requestTimeout = d
	}
}

// matchResponse is the body of POST /api/v1/matches
type matchResponse struct {
	Location    string                `json:"location"`
	Count       int                   `json:"count"`
	Total       int                   `json:"total"`
	CatalogSize int                   `json:"catalogSize"`
	Profile     *domain.SellerProfile `json:"profile"`
	Matches     []presenter.MatchView `json:"matches"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfmatch-backend",
		"version": "1.0.0",
	})
}

// FindMatches ranks the catalog for an intake submission.
// An optional ?limit= truncates the rendered list; the total is always reported.
func (h *Handler) FindMatches(c *gin.Context) {
	if h.matcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "matchmaking service not configured"})
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	raw, err := bindSubmission(c)
	if err != nil {
		h.metrics.observe(outcomeInvalid, 0, 0)
		h.respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	start := time.Now()
	outcome, err := h.matcher.FindMatches(ctx, raw)
	elapsed := time.Since(start)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			h.metrics.observe(outcomeInvalid, elapsed, 0)
		} else {
			h.metrics.observe(outcomeError, elapsed, 0)
		}
		h.respondError(c, err)
		return
	}

	result := outcomeMatched
	if len(outcome.Matches) == 0 {
		result = outcomeNoMatch
	}
	h.metrics.observe(result, elapsed, len(outcome.Matches))

	views := presenter.BuildMatchViews(outcome.Profile, outcome.Matches, limit)
	c.JSON(http.StatusOK, matchResponse{
		Location:    presenter.LocationLabel(outcome.Profile),
		Count:       len(views),
		Total:       len(outcome.Matches),
		CatalogSize: outcome.CatalogSize,
		Profile:     outcome.Profile,
		Matches:     views,
	})
}

// NormalizeProfile returns the canonical profile for a submission without matching
func (h *Handler) NormalizeProfile(c *gin.Context) {
	raw, err := bindSubmission(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	profile, err := usecase.NormalizeProfile(raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListStores returns the current catalog snapshot
func (h *Handler) ListStores(c *gin.Context) {
	if h.matcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "matchmaking service not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	stores, err := h.matcher.Stores(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(stores), "stores": stores})
}

// bindSubmission reads the JSON body as a loose map so list fields may arrive as strings
func bindSubmission(c *gin.Context) (*domain.RawSubmission, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, &domain.ValidationError{Reason: "request body must be a JSON object"}
	}
	return usecase.DecodeSubmission(body)
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidRequest)
	}
	return n, nil
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *domain.ValidationError
	var profileErr *domain.InvalidProfileError

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Error()}
		if len(validationErr.Fields) > 0 {
			body["fields"] = validationErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &profileErr):
		h.logger.Error("engine rejected profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "catalog rate limit exceeded"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "catalog request timed out"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		h.logger.Error("catalog unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "store catalog unavailable"})
	default:
		h.logger.Error("unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
