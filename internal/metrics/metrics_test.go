package metrics

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolinventory/internal/api/handlers"
	"toolinventory/internal/api/services"
)

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(slog.New(slog.DiscardHandler))
	e.Use(m.Middleware())
	e.GET("/api/tools/:id", func(c echo.Context) error {
		if c.Param("id") == "1" {
			return c.JSON(http.StatusOK, map[string]int{"id": 1})
		}
		return services.NotFound("Tool with ID " + c.Param("id") + " does not exist")
	})

	for _, target := range []string{"/api/tools/1", "/api/tools/1", "/api/tools/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/tools/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/tools/:id", "404")))

	count, err := testutil.GatherAndCount(reg, "toolinventory_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHTTPMetrics_ErrorRenderedOnce(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(slog.New(slog.DiscardHandler))
	e.Use(NewHTTPMetrics(prometheus.NewRegistry()).Middleware())
	e.GET("/boom", func(c echo.Context) error {
		return services.FieldInvalid("id", "Value must be a number")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Validation failed","details":{"id":"Value must be a number"}}`, rec.Body.String())
}
