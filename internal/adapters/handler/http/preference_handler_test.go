package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPreferenceHandler_GuestDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/preferences", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var prefs struct {
		DefaultCity string `json:"default_city"`
		Metric      bool   `json:"metric"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	assert.Equal(t, "Istanbul", prefs.DefaultCity)
	assert.True(t, prefs.Metric)
}

func TestPreferenceHandler_SetPreferences(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/preferences", "", gin.H{
		"default_city": "Tokyo",
		"metric":       false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/preferences", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tokyo")
}

func TestPreferenceHandler_SetPreferencesValidation(t *testing.T) {
	env := newTestEnv(t)

	// metric is required even when false, hence the pointer binding.
	w := env.do(t, http.MethodPut, "/api/v1/preferences", "", gin.H{
		"default_city": "Tokyo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/preferences", "", gin.H{
		"metric": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreferenceHandler_Favorites(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"favorites": []}`, w.Body.String())

	for _, city := range []string{"London", "Paris", "London"} {
		w = env.do(t, http.MethodPost, "/api/v1/favorites", "", gin.H{"city": city})
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.JSONEq(t, `{"favorites": ["London", "Paris"]}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/v1/favorites/London", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.JSONEq(t, `{"favorites": ["Paris"]}`, w.Body.String())

	// Deleting an absent city still succeeds.
	w = env.do(t, http.MethodDelete, "/api/v1/favorites/Berlin", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPreferenceHandler_ToggleFavorite(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/favorites/toggle", "", gin.H{"city": "Lisbon"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pinned": true}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/favorites/toggle", "", gin.H{"city": "Lisbon"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pinned": false}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.JSONEq(t, `{"favorites": []}`, w.Body.String())
}

func TestPreferenceHandler_AccountIsolation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	// Account and guest writes land in different backends.
	w := env.do(t, http.MethodPut, "/api/v1/preferences", token, gin.H{
		"default_city": "Rome", "metric": false,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/favorites", token, gin.H{"city": "Madrid"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/favorites", "", gin.H{"city": "Oslo"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/preferences", token, nil)
	assert.Contains(t, w.Body.String(), "Rome")

	w = env.do(t, http.MethodGet, "/api/v1/preferences", "", nil)
	assert.Contains(t, w.Body.String(), "Istanbul")

	w = env.do(t, http.MethodGet, "/api/v1/favorites", token, nil)
	assert.JSONEq(t, `{"favorites": ["Madrid"]}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.JSONEq(t, `{"favorites": ["Oslo"]}`, w.Body.String())
}

func TestPreferenceHandler_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/preferences", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
