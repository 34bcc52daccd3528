package routes

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	v1 "github.com/mga-portal/api/v1"
	"github.com/mga-portal/config"
	"github.com/mga-portal/database/mocks"
	"github.com/mga-portal/middleware"
	"github.com/mga-portal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := &mocks.RecordStore{}
	store.On("FetchCollection", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler := v1.NewHandler(
		services.NewProjectService(store, logger),
		services.NewTaskService(store, logger),
	)
	return NewRouter(config.ServerConfig{CORSOrigins: origins}, logger, handler)
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/", "/api/v1/health", "/api/v1/projects", "/api/v1/tasks"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestNewRouter_ReadOnly(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/projects", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_CORS(t *testing.T) {
	router := newTestRouter([]string{"https://portal.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNewRouter_CORSAllowAll(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
