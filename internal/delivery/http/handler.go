package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

// SearchService is the orchestrator capability the handlers depend on.
type SearchService interface {
	Search(ctx context.Context, requestID string, req domain.SearchRequest) (*domain.SearchResponse, error)
	Status(ctx context.Context, requestID string) (map[string]string, error)
}

// RetailerLister exposes the configured retailers.
type RetailerLister interface {
	Retailers() []domain.RetailerConfig
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search    SearchService
	retailers RetailerLister
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(search SearchService, retailers RetailerLister, logger *zap.Logger) *Handler {
	return &Handler{search: search, retailers: retailers, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "waffar-backend",
		"version": "1.0.0",
	})
}

// SearchProducts runs one price-comparison search across all retailers.
// Partial provider coverage is still a 200; only a registry-level failure
// is a server error.
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.NewString()
	h.logger.Info("processing search request",
		zap.String("request_id", requestID),
		zap.String("query", req.Query))

	response, err := h.search.Search(c.Request.Context(), requestID, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("search failed", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal search error"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SearchStatus returns the stored status of a past search request.
func (h *Handler) SearchStatus(c *gin.Context) {
	requestID := c.Param("id")

	status, err := h.search.Status(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, domain.ErrStatusNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "search status not found"})
			return
		}
		h.logger.Error("status lookup failed", zap.String("request_id", requestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestId": requestID, "status": status})
}

// ListRetailers returns the configured retailers.
func (h *Handler) ListRetailers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"retailers": h.retailers.Retailers()})
}
