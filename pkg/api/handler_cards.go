package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/services"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// defaultCardLimit is the page size when the client omits limit.
const defaultCardLimit = 20

// dueCardsHandler handles GET /api/cards/due.
func (s *Server) dueCardsHandler(c *echo.Context) error {
	filter, err := parseDueFilter(c)
	if err != nil {
		return err
	}

	cards, svcErr := s.reviewService.DueCards(c.Request().Context(), filter)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	if cards == nil {
		cards = []models.DueCard{}
	}
	return c.JSON(http.StatusOK, cards)
}

// newCardsHandler handles GET /api/cards/new.
func (s *Server) newCardsHandler(c *echo.Context) error {
	filter, err := parseDueFilter(c)
	if err != nil {
		return err
	}

	items, svcErr := s.reviewService.NewCards(c.Request().Context(), filter)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	if items == nil {
		items = []models.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

// submitReviewHandler handles POST /api/cards/review.
func (s *Server) submitReviewHandler(c *echo.Context) error {
	var req SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := s.reviewService.SubmitReview(c.Request().Context(), services.SubmitReviewRequest{
		ItemType:  models.ItemKind(req.ItemType),
		ItemID:    req.ItemID,
		Grade:     req.Score,
		SessionID: req.SessionID,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// openSessionHandler handles POST /api/cards/sessions.
func (s *Server) openSessionHandler(c *echo.Context) error {
	sess, err := s.sessionService.Open(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, &OpenSessionResponse{ID: sess.ID})
}

// closeSessionHandler handles PATCH /api/cards/sessions/:id.
func (s *Server) closeSessionHandler(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session id is required")
	}
	if err := s.sessionService.Close(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseDueFilter reads the level/type/limit query parameters shared by the
// due and new card listings.
func parseDueFilter(c *echo.Context) (store.DueFilter, error) {
	filter := store.DueFilter{Limit: defaultCardLimit}

	if v := c.QueryParam("level"); v != "" {
		level := models.JLPTLevel(v)
		if err := level.Validate(); err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.Level = &level
	}
	if v := c.QueryParam("type"); v != "" {
		kind := models.ItemKind(v)
		if err := kind.Validate(); err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.ItemType = &kind
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 200 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 200")
		}
		filter.Limit = limit
	}
	return filter, nil
}
