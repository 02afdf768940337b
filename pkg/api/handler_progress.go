package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// progressHandler handles GET /api/progress.
func (s *Server) progressHandler(c *echo.Context) error {
	report, err := s.progressService.Report(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, report)
}
