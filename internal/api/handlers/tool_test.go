package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolinventory/internal/api/dto"
	"toolinventory/internal/api/services"
	"toolinventory/internal/api/validation"
	"toolinventory/internal/domain"
	"toolinventory/internal/repository"
	"toolinventory/internal/testutil"
)

var handlerNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func setupToolHandlerTest(t *testing.T) (*echo.Echo, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	store.AddCategory(1, "Development")
	store.AddCategory(2, "Communication")

	service := services.NewToolService(store, services.NewUsageAggregator(func() time.Time { return handlerNow }))

	e := echo.New()
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(slog.New(slog.DiscardHandler))
	NewToolHandler(service).Register(e.Group("/api/tools"))
	return e, store
}

func doRequest(e *echo.Echo, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func addTool(store *testutil.MemoryStore, name, cost string, users int, department domain.Department) *domain.Tool {
	return store.AddTool(domain.Tool{
		Name:             name,
		Vendor:           name + " Inc",
		CategoryID:       1,
		MonthlyCost:      decimal.RequireFromString(cost),
		OwnerDepartment:  department,
		Status:           domain.ToolStatusActive,
		ActiveUsersCount: users,
	})
}

func TestToolHandler_CreateTool(t *testing.T) {
	t.Run("created with forced defaults", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodPost, "/api/tools", map[string]interface{}{
			"name":               "Linear",
			"vendor":             "Linear Orbit",
			"website_url":        "https://linear.app",
			"category_id":        1,
			"monthly_cost":       8.5,
			"owner_department":   "Engineering",
			"status":             "deprecated",
			"active_users_count": 40,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var tool dto.Tool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tool))
		assert.NotZero(t, tool.ID)
		assert.Equal(t, "Linear", tool.Name)
		assert.Equal(t, "Development", tool.Category)
		assert.Equal(t, 8.5, tool.MonthlyCost)
		assert.Equal(t, "active", tool.Status)
		assert.Zero(t, tool.ActiveUsersCount)
		assert.Nil(t, tool.Description)
	})

	t.Run("duplicate name", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		addTool(store, "Slack", "8", 1, domain.DepartmentSales)

		rec := doRequest(e, http.MethodPost, "/api/tools", map[string]interface{}{
			"name": "Slack", "vendor": "Salesforce", "category_id": 2,
			"monthly_cost": 8, "owner_department": "Sales",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, map[string]string{"name": "Tool name must be unique"}, body.Details)
	})

	t.Run("unknown category", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodPost, "/api/tools", map[string]interface{}{
			"name": "Figma", "vendor": "Figma", "category_id": 9,
			"monthly_cost": 12, "owner_department": "Design",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"category_id": "Category does not exist"}, decodeError(t, rec).Details)
	})

	t.Run("field validation", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodPost, "/api/tools", map[string]interface{}{
			"name": "X", "category_id": 1, "monthly_cost": 5, "owner_department": "Engineering",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, "name must be at least 2 characters | vendor is required", body.Details["general"])
	})

	t.Run("malformed json", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodPost, "/api/tools", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Validation failed", body.Error)
		assert.NotEmpty(t, body.Details["general"])
	})

	t.Run("store down", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		store.Err = repository.ErrStoreUnavailable

		rec := doRequest(e, http.MethodPost, "/api/tools", map[string]interface{}{
			"name": "Miro", "vendor": "Miro", "category_id": 1,
			"monthly_cost": 10, "owner_department": "Design",
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Internal server error", body.Error)
		assert.Equal(t, "Database connection failed", body.Message)
	})
}

func TestToolHandler_GetToolByID(t *testing.T) {
	t.Run("detail", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		tool := addTool(store, "Postman", "12.50", 3, domain.DepartmentEngineering)
		store.AddUsageLog(tool.ID, handlerNow.AddDate(0, 0, -2), 30)
		store.AddUsageLog(tool.ID, handlerNow.AddDate(0, 0, -40), 90)

		rec := doRequest(e, http.MethodGet, "/api/tools/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var detail dto.ToolDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
		assert.Equal(t, tool.ID, detail.ID)
		assert.Equal(t, 12.5, detail.MonthlyCost)
		assert.Equal(t, 37.5, detail.TotalMonthlyCost)
		assert.Equal(t, dto.UsageWindow{TotalSessions: 1, AvgSessionMinutes: 30}, detail.UsageMetrics.Last30Days)
	})

	t.Run("response shape", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		addTool(store, "Notion", "10", 2, domain.DepartmentOperations)

		rec := doRequest(e, http.MethodGet, "/api/tools/1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		for _, key := range []string{"id", "name", "description", "vendor", "website_url", "category", "monthly_cost",
			"owner_department", "status", "active_users_count", "created_at", "updated_at", "total_monthly_cost", "usage_metrics"} {
			assert.Contains(t, raw, key)
		}
	})

	t.Run("not found", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools/99", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Tool not found", body.Error)
		assert.Equal(t, "Tool with ID 99 does not exist", body.Message)
	})

	t.Run("non numeric id", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"id": "Value must be a number"}, decodeError(t, rec).Details)
	})
}

func TestToolHandler_GetTools(t *testing.T) {
	t.Run("filtered page", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		addTool(store, "Cheap", "5", 1, domain.DepartmentEngineering)
		addTool(store, "Mid", "20", 1, domain.DepartmentEngineering)
		addTool(store, "Upper", "45", 1, domain.DepartmentSales)
		addTool(store, "Pricey", "90", 1, domain.DepartmentEngineering)

		rec := doRequest(e, http.MethodGet, "/api/tools?min_cost=10&max_cost=50&sort_by=cost&order=asc", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list dto.ToolList
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Equal(t, 4, list.Total)
		assert.Equal(t, 2, list.Filtered)
		require.Len(t, list.Data, 2)
		assert.Equal(t, "Mid", list.Data[0].Name)
		assert.Equal(t, "Upper", list.Data[1].Name)
		assert.Equal(t, map[string]interface{}{
			"min_cost": 10.0, "max_cost": 50.0, "sort_by": "cost", "order": "asc",
		}, list.FiltersApplied)
	})

	t.Run("empty inventory", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[],"total":0,"filtered":0,"filters_applied":{}}`, rec.Body.String())
	})

	t.Run("inverted cost range", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools?min_cost=50&max_cost=10", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Contains(t, body.Details, "min_cost")
		assert.Contains(t, body.Details, "max_cost")
	})

	t.Run("bad query values", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools?page=two&department=Legal&limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Value must be a number", body.Details["page"])
		assert.True(t, strings.HasPrefix(body.Details["department"], "department must be one of"))
	})

	t.Run("limit out of range", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodGet, "/api/tools?limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "limit")
	})
}

func TestToolHandler_UpdateTool(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		tool := addTool(store, "Zoom", "15", 10, domain.DepartmentSales)

		rec := doRequest(e, http.MethodPut, "/api/tools/1", map[string]interface{}{"status": "deprecated"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated dto.Tool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "deprecated", updated.Status)
		assert.Equal(t, "Zoom", updated.Name)
		assert.Equal(t, 15.0, updated.MonthlyCost)
		assert.Equal(t, 10, updated.ActiveUsersCount)
		assert.True(t, updated.UpdatedAt.After(tool.UpdatedAt))
	})

	t.Run("patch verb", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		addTool(store, "Loom", "6", 1, domain.DepartmentMarketing)

		rec := doRequest(e, http.MethodPatch, "/api/tools/1", map[string]interface{}{"monthly_cost": 7.25})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing tool", func(t *testing.T) {
		e, _ := setupToolHandlerTest(t)

		rec := doRequest(e, http.MethodPut, "/api/tools/5", map[string]interface{}{"name": "Ghost"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Tool with ID 5 does not exist", decodeError(t, rec).Message)
	})

	t.Run("invalid status", func(t *testing.T) {
		e, store := setupToolHandlerTest(t)
		addTool(store, "Box", "4", 1, domain.DepartmentFinance)

		rec := doRequest(e, http.MethodPut, "/api/tools/1", map[string]interface{}{"status": "retired"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "status must be one of active, deprecated, trial", decodeError(t, rec).Details["general"])
	})
}

func TestToolHandler_ToolsHealth(t *testing.T) {
	e, store := setupToolHandlerTest(t)
	addTool(store, "Jira", "7", 1, domain.DepartmentEngineering)
	addTool(store, "Confluence", "6", 1, domain.DepartmentEngineering)

	rec := doRequest(e, http.MethodGet, "/api/tools/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tools_count":2}`, rec.Body.String())
}

func TestRouterErrorsUseEnvelope(t *testing.T) {
	e, _ := setupToolHandlerTest(t)

	rec := doRequest(e, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Tool not found", decodeError(t, rec).Error)

	rec = doRequest(e, http.MethodDelete, "/api/tools/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Request failed", decodeError(t, rec).Error)
}
