package api

import (
	"errors"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/speech"
)

// ttsHandler handles POST /api/tts.
func (s *Server) ttsHandler(c *echo.Context) error {
	var req TTSRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	wav, err := s.speechGateway.Synthesize(c.Request().Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, speech.ErrInvalidText):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, speech.ErrUnavailable):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		default:
			return mapServiceError(err)
		}
	}

	return c.Blob(http.StatusOK, "audio/wav", wav)
}
