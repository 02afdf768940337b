package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// listVocabHandler handles GET /api/vocab.
func (s *Server) listVocabHandler(c *echo.Context) error {
	params, err := parseListParams(c)
	if err != nil {
		return err
	}

	items, total, svcErr := s.itemService.ListVocab(c.Request().Context(), params)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	return c.JSON(http.StatusOK, &PagedResponse{Items: items, Total: total})
}

// getVocabHandler handles GET /api/vocab/:id.
func (s *Server) getVocabHandler(c *echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vocab id")
	}

	item, svcErr := s.itemService.GetVocab(c.Request().Context(), id)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	return c.JSON(http.StatusOK, item)
}

// listKanjiHandler handles GET /api/kanji.
func (s *Server) listKanjiHandler(c *echo.Context) error {
	params, err := parseListParams(c)
	if err != nil {
		return err
	}

	items, total, svcErr := s.itemService.ListKanji(c.Request().Context(), params)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	return c.JSON(http.StatusOK, &PagedResponse{Items: items, Total: total})
}

// getKanjiHandler handles GET /api/kanji/:character.
func (s *Server) getKanjiHandler(c *echo.Context) error {
	character := c.Param("character")
	if character == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "character is required")
	}

	item, svcErr := s.itemService.GetKanji(c.Request().Context(), character)
	if svcErr != nil {
		return mapServiceError(svcErr)
	}
	return c.JSON(http.StatusOK, item)
}

// parseListParams reads the level/search/page/limit parameters shared by
// the vocab and kanji listings.
func parseListParams(c *echo.Context) (store.ListParams, error) {
	params := store.ListParams{Page: 1, PageSize: 50}

	if v := c.QueryParam("level"); v != "" {
		level := models.JLPTLevel(v)
		if err := level.Validate(); err != nil {
			return params, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		params.Level = &level
	}
	params.Search = c.QueryParam("search")
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, echo.NewHTTPError(http.StatusBadRequest, "page must be at least 1")
		}
		params.Page = page
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 200 {
			return params, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 200")
		}
		params.PageSize = limit
	}
	return params, nil
}
