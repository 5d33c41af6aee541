package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videodiary/diary-api/api/types"
	"github.com/videodiary/diary-api/internal/database"
)

func performRequest(t *testing.T, deps *types.Dependencies) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	RegisterRoutes(engine, deps)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetHealthyWithDatabase(t *testing.T) {
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	w, body := performRequest(t, &types.Dependencies{DB: db})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	dbStatus, ok := body["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", dbStatus["status"])
}

func TestGetWithoutDatabase(t *testing.T) {
	w, body := performRequest(t, &types.Dependencies{})

	assert.Equal(t, http.StatusOK, w.Code)
	dbStatus, ok := body["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "not configured", dbStatus["status"])
}

func TestGetWithClosedDatabase(t *testing.T) {
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	w, body := performRequest(t, &types.Dependencies{DB: db})

	assert.Equal(t, http.StatusOK, w.Code)
	dbStatus, ok := body["database"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "unhealthy", dbStatus["status"])
}
