package api

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"toolinventory/internal/api/handlers"
	"toolinventory/internal/api/services"
	"toolinventory/internal/api/validation"
	"toolinventory/internal/repository"
)

func SetupRoutes(e *echo.Echo, db *sqlx.DB, logger *slog.Logger) {
	e.Validator = validation.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)

	e.GET("/health", healthCheck)

	store := repository.NewStore(db)
	toolService := services.NewToolService(store, services.NewUsageAggregator(nil))
	toolHandler := handlers.NewToolHandler(toolService)
	toolHandler.Register(e.Group("/api/tools"))
}

// healthCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "ok"
// @Router /health [get]
func healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
