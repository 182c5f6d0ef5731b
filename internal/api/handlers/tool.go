package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"toolinventory/internal/api/dto"
	"toolinventory/internal/api/services"
	"toolinventory/internal/domain"
)

const msgNotANumber = "Value must be a number"

type ToolHandler struct {
	toolService *services.ToolService
}

func NewToolHandler(toolService *services.ToolService) *ToolHandler {
	return &ToolHandler{toolService: toolService}
}

// Register mounts the tool routes on g, which is expected to be rooted at /api/tools.
func (h *ToolHandler) Register(g *echo.Group) {
	g.GET("/health", h.ToolsHealth)
	g.GET("", h.GetTools)
	g.POST("", h.CreateTool)
	g.GET("/:id", h.GetToolByID)
	g.PUT("/:id", h.UpdateTool)
	g.PATCH("/:id", h.UpdateTool)
}

// ToolsHealth godoc
// @Summary Tools health
// @Description Report how many tools are registered
// @Tags tools
// @Produce json
// @Success 200 {object} dto.ToolsHealth
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tools/health [get]
func (h *ToolHandler) ToolsHealth(c echo.Context) error {
	count, err := h.toolService.CountTools(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.ToolsHealth{ToolsCount: count})
}

// GetTools godoc
// @Summary List tools
// @Description Filter, sort and paginate the tool inventory
// @Tags tools
// @Produce json
// @Param department query string false "Owner department" Enums(Engineering, Sales, Marketing, HR, Finance, Operations, Design)
// @Param status query string false "Lifecycle status" Enums(active, deprecated, trial)
// @Param category query string false "Category name"
// @Param min_cost query number false "Minimum monthly cost"
// @Param max_cost query number false "Maximum monthly cost"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sort_by query string false "Sort key" Enums(name, cost, date)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} dto.ToolList
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tools [get]
func (h *ToolHandler) GetTools(c echo.Context) error {
	params, err := parseListParams(c)
	if err != nil {
		return err
	}

	list, err := h.toolService.ListTools(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToolListFromService(list))
}

// GetToolByID godoc
// @Summary Get tool
// @Description Get a tool with its total monthly cost and 30-day usage metrics
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} dto.ToolDetail
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tools/{id} [get]
func (h *ToolHandler) GetToolByID(c echo.Context) error {
	id, err := parseToolID(c)
	if err != nil {
		return err
	}

	detail, err := h.toolService.GetToolByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToolDetailFromService(detail))
}

// CreateTool godoc
// @Summary Create tool
// @Description Register a new tool. Status starts as active with no active users.
// @Tags tools
// @Accept json
// @Produce json
// @Param request body dto.CreateToolRequest true "Tool"
// @Success 201 {object} dto.Tool
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tools [post]
func (h *ToolHandler) CreateTool(c echo.Context) error {
	var req dto.CreateToolRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tool, err := h.toolService.CreateTool(c.Request().Context(), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.ToolFromDomain(tool))
}

// UpdateTool godoc
// @Summary Update tool
// @Description Change the supplied fields of a tool; omitted fields keep their value
// @Tags tools
// @Accept json
// @Produce json
// @Param id path int true "Tool ID"
// @Param request body dto.UpdateToolRequest true "Fields to change"
// @Success 200 {object} dto.Tool
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tools/{id} [put]
func (h *ToolHandler) UpdateTool(c echo.Context) error {
	id, err := parseToolID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateToolRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tool, err := h.toolService.UpdateTool(c.Request().Context(), id, req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToolFromDomain(tool))
}

func parseToolID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, services.FieldInvalid("id", msgNotANumber)
	}
	return id, nil
}

// parseListParams reads the list query string. Empty parameters count as not supplied;
// range and enum checks on paging and sorting are left to services.BuildToolQuery.
func parseListParams(c echo.Context) (services.ListToolsParams, error) {
	var params services.ListToolsParams
	details := map[string]string{}

	if v := c.QueryParam("department"); v != "" {
		department := domain.Department(v)
		if !department.Valid() {
			details["department"] = "department must be one of " + join(domain.Departments)
		}
		params.Department = &department
	}
	if v := c.QueryParam("status"); v != "" {
		status := domain.ToolStatus(v)
		if !status.Valid() {
			details["status"] = "status must be one of " + join(domain.ToolStatuses)
		}
		params.Status = &status
	}
	if v := c.QueryParam("category"); v != "" {
		params.Category = &v
	}

	params.MinCost = queryDecimal(c, "min_cost", details)
	params.MaxCost = queryDecimal(c, "max_cost", details)
	params.Page = queryInt(c, "page", details)
	params.Limit = queryInt(c, "limit", details)

	if v := c.QueryParam("sort_by"); v != "" {
		key := domain.SortKey(v)
		params.SortBy = &key
	}
	if v := c.QueryParam("order"); v != "" {
		order := services.SortOrder(strings.ToLower(v))
		params.Order = &order
	}

	if len(details) > 0 {
		return params, services.ValidationFailed(details)
	}
	return params, nil
}

func queryDecimal(c echo.Context, name string, details map[string]string) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		details[name] = msgNotANumber
		return nil
	}
	return &d
}

func queryInt(c echo.Context, name string, details map[string]string) *int {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		details[name] = msgNotANumber
		return nil
	}
	return &n
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
