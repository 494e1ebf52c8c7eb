package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"citizen-portal-api/config"
	"citizen-portal-api/models"
	"citizen-portal-api/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupChatRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	config.DB = db

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)
	t.Setenv("CHAT_API_URL", server.URL)
	t.Setenv("CHAT_MODEL", "test-model")

	router := gin.New()
	router.POST("/api/v1/chat", fakeIdentity(1, models.RoleCitizen), Chat)
	return router
}

func TestChatEndpoint(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Start at the permits office."}},
			},
		})
	})

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/chat",
		gin.H{"prompt": "Where do I apply for a business permit?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Start at the permits office.", body["reply"])
}

func TestChatRequiresPrompt(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/chat", gin.H{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/chat", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatFallsBackOnUpstreamFailure(t *testing.T) {
	router := setupChatRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/chat",
		gin.H{"prompt": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.FallbackReply, body["reply"])
}
