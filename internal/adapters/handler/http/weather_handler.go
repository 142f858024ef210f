package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast/internal/adapters/handler/http/middleware"
	"github.com/skycastapp/skycast/internal/core/domain"
	"github.com/skycastapp/skycast/internal/core/services"
)

type WeatherHandler struct {
	forecasts *services.ForecastService
	snapshots *services.SnapshotService
	prefs     *services.PreferenceService
}

func NewWeatherHandler(forecasts *services.ForecastService, snapshots *services.SnapshotService, prefs *services.PreferenceService) *WeatherHandler {
	return &WeatherHandler{
		forecasts: forecasts,
		snapshots: snapshots,
		prefs:     prefs,
	}
}

func (h *WeatherHandler) RegisterRoutes(router *gin.RouterGroup) {
	weather := router.Group("/weather")
	{
		weather.GET("/forecast", h.Forecast)
	}

	router.GET("/favorites/snapshots", h.Snapshots)
}

// Forecast serves the normalized multi-view forecast. The city defaults
// to the identity's stored default city, and the unit system to its
// stored preference.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	prefs, err := h.prefs.GetPreferences(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	city := c.Query("city")
	if city == "" {
		city = prefs.DefaultCity
	}

	units := prefs.Units()
	if q := c.Query("units"); q != "" {
		switch domain.Units(q) {
		case domain.UnitsMetric, domain.UnitsImperial:
			units = domain.Units(q)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "units must be metric or imperial"})
			return
		}
	}

	opts := domain.NormalizeOptions{}
	if q := c.Query("days"); q != "" {
		days, err := strconv.Atoi(q)
		if err != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		opts.MaxDays = days
	}
	if q := c.Query("skip_today"); q != "" {
		skip, err := strconv.ParseBool(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip_today must be a boolean"})
			return
		}
		opts.SkipToday = skip
	}

	forecast, err := h.forecasts.Forecast(c.Request.Context(), city, units, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "city not found"})
		case errors.Is(err, domain.ErrMalformedPayload), errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrEmptyForecast):
			c.JSON(http.StatusBadGateway, gin.H{"error": "weather provider unavailable"})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, forecast)
}

// Snapshots serves current conditions for every favorite of the caller's
// identity, in favorites order. Cities whose fetch failed are omitted.
func (h *WeatherHandler) Snapshots(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	prefs, err := h.prefs.GetPreferences(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	cities, err := h.prefs.ListFavorites(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	snapshots := h.snapshots.FetchSnapshots(c.Request.Context(), cities, prefs.Units())
	if snapshots == nil {
		snapshots = []domain.FavoriteSnapshot{}
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}
