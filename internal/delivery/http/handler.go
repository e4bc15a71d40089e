package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mitra/backend/internal/domain"
	"github.com/mitra/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommender *usecase.RecommendationService
	catalog     domain.CatalogRepository
	users       domain.UserPreferenceRepository
	taxonomy    *domain.Taxonomy
}

// NewHandler creates a new HTTP handler
func NewHandler(
	recommender *usecase.RecommendationService,
	catalog domain.CatalogRepository,
	users domain.UserPreferenceRepository,
	taxonomy *domain.Taxonomy,
) *Handler {
	return &Handler{
		recommender: recommender,
		catalog:     catalog,
		users:       users,
		taxonomy:    taxonomy,
	}
}

// recommendRequest is the POST /recommend body
type recommendRequest struct {
	Query  string `json:"query" binding:"required"`
	UserID string `json:"user_id"`
}

// Root returns the API banner
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Mitra AI Recommendation Assistant API",
		"status":  "active",
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "mitra-backend",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Recommend runs the full recommendation pipeline for one query
func (h *Handler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.UserID == "" {
		req.UserID = "default_user"
	}

	result, err := h.recommender.Recommend(c.Request.Context(), req.Query, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing recommendation: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListProducts returns catalog products with optional query-string filters:
// category, max_price, and a comma-separated tags list
func (h *Handler) ListProducts(c *gin.Context) {
	var filter domain.ProductFilter
	filter.Category = c.Query("category")

	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_price must be a number"})
			return
		}
		filter.MaxPrice = maxPrice
	}

	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching products: " + err.Error()})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Categories returns the taxonomy as id/name/subcategories entries
func (h *Handler) Categories(c *gin.Context) {
	type categoryView struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Subcategories []string `json:"subcategories"`
	}

	displayNames := map[string]string{
		domain.CategoryFood:    "Food & Beverages",
		domain.CategoryFashion: "Fashion",
	}

	categories := make([]categoryView, 0, len(h.taxonomy.Categories))
	for _, cat := range h.taxonomy.Categories {
		subcategories := make([]string, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			subcategories = append(subcategories, sub.Name)
		}

		name := displayNames[cat.Name]
		if name == "" {
			name = cat.Name
		}
		categories = append(categories, categoryView{
			ID:            cat.Name,
			Name:          name,
			Subcategories: subcategories,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetUserPreferences returns a user's stored preference profile
func (h *Handler) GetUserPreferences(c *gin.Context) {
	userID := c.Param("userID")

	prefs, err := h.users.GetUserPreferences(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no preferences stored for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching preferences: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdateUserPreferences stores a user's preference profile
func (h *Handler) UpdateUserPreferences(c *gin.Context) {
	var prefs domain.StoredUserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferences payload"})
		return
	}
	prefs.UserID = c.Param("userID")

	if err := h.users.SaveUserPreferences(c.Request.Context(), &prefs); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating preferences: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated successfully"})
}
