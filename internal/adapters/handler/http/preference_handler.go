package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast/internal/adapters/handler/http/middleware"
	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
)

type PreferenceHandler struct {
	svc *services.PreferenceService
}

func NewPreferenceHandler(svc *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		svc: svc,
	}
}

type setPreferencesRequest struct {
	DefaultCity string `json:"default_city" binding:"required"`
	Metric      *bool  `json:"metric" binding:"required"`
}

type addFavoriteRequest struct {
	City string `json:"city" binding:"required"`
}

func (h *PreferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/preferences", h.GetPreferences)
	router.PUT("/preferences", h.SetPreferences)

	favorites := router.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.DELETE("/:city", h.RemoveFavorite)
	}
}

func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	prefs, err := h.svc.GetPreferences(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) SetPreferences(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req setPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs := domain.Preferences{
		DefaultCity: req.DefaultCity,
		Metric:      *req.Metric,
	}

	if err := h.svc.SetPreferences(c.Request.Context(), identity, prefs); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) ListFavorites(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	favorites, err := h.svc.ListFavorites(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if favorites == nil {
		favorites = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *PreferenceHandler) AddFavorite(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AddFavorite(c.Request.Context(), identity, req.City); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PreferenceHandler) ToggleFavorite(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pinned, err := h.svc.ToggleFavorite(c.Request.Context(), identity, req.City)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pinned": pinned})
}

func (h *PreferenceHandler) RemoveFavorite(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	city := c.Param("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	if err := h.svc.RemoveFavorite(c.Request.Context(), identity, city); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
