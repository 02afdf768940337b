package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// getSettingsHandler handles GET /api/settings.
func (s *Server) getSettingsHandler(c *echo.Context) error {
	settings, err := s.settingsService.All(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// updateSettingsHandler handles POST /api/settings.
func (s *Server) updateSettingsHandler(c *echo.Context) error {
	var updates map[string]string
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings, err := s.settingsService.Update(c.Request().Context(), updates)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, settings)
}
