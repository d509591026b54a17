package bootstrap

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/excel_converter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	saved := *config.DefaultEnvConfig
	t.Cleanup(func() { *config.DefaultEnvConfig = saved })

	t.Setenv("APP_PORT", "0")
	t.Setenv("MAX_UPLOAD_SIZE", "1K")
	t.Setenv("CONVERSION_PROFILE_PATH", "")

	app := NewApp()
	require.NoError(t, app.Initialize(context.Background()))
	return app
}

func TestRoutes(t *testing.T) {
	app := newTestApp(t)

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("Convert without file", func(t *testing.T) {
		body := new(bytes.Buffer)
		w := multipart.NewWriter(body)
		require.NoError(t, w.WriteField("other", "value"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/ConvertExcel", body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Body over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ConvertExcel", bytes.NewReader(make([]byte, 4096)))
		req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=x")
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("Streamed body over limit", func(t *testing.T) {
		body := new(bytes.Buffer)
		w := multipart.NewWriter(body)
		part, err := w.CreateFormFile("file", "large.xlsx")
		require.NoError(t, err)
		_, err = part.Write(make([]byte, 4096))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/ConvertExcel", body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("Unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ConvertExcel", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestInitialize_BadProfile(t *testing.T) {
	saved := *config.DefaultEnvConfig
	t.Cleanup(func() { *config.DefaultEnvConfig = saved })
	t.Setenv("CONVERSION_PROFILE_PATH", "/nonexistent/profile.yaml")

	assert.Error(t, NewApp().Initialize(context.Background()))
}

func TestInitialize_ProfileTableNameIsCellReference(t *testing.T) {
	saved := *config.DefaultEnvConfig
	t.Cleanup(func() { *config.DefaultEnvConfig = saved })

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table_name: A1\n"), 0o644))
	t.Setenv("CONVERSION_PROFILE_PATH", path)

	err := NewApp().Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table_name")
}
