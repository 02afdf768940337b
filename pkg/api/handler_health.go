package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/database"
)

// healthHandler handles GET /api/health. Each dependency is probed
// independently so one outage does not mask another.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := &HealthResponse{DB: "ok", Ollama: "ok", Piper: "ok"}
	healthy := true

	if _, err := database.Health(reqCtx, s.dbClient.DB()); err != nil {
		resp.DB = "unreachable"
		healthy = false
	} else if version, err := database.SchemaVersion(reqCtx, s.dbClient.DB()); err == nil {
		resp.SchemaVersion = version
	}

	if err := s.llmClient.Ping(reqCtx); err != nil {
		resp.Ollama = "unreachable"
		healthy = false
	}

	if !s.speechGateway.Available() {
		resp.Piper = "missing"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
