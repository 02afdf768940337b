package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
)

func TestDueCardsHandler_Validation(t *testing.T) {
	// Only parameter validation is covered here (returns 400 before hitting
	// the service); happy paths run in the integration tests.
	s := &Server{}

	tests := []struct {
		name   string
		query  string
		errMsg string
	}{
		{"invalid level", "level=N6", "invalid JLPT level"},
		{"lowercase level", "level=n5", "invalid JLPT level"},
		{"invalid type", "type=grammar", "invalid item type"},
		{"limit zero", "limit=0", "limit must be between 1 and 200"},
		{"limit too large", "limit=201", "limit must be between 1 and 200"},
		{"limit not a number", "limit=ten", "limit must be between 1 and 200"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/cards/due?"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := s.dueCardsHandler(c)
			if assert.Error(t, err) {
				he, ok := err.(*echo.HTTPError)
				if assert.True(t, ok, "expected echo.HTTPError") {
					assert.Equal(t, http.StatusBadRequest, he.Code)
					assert.Contains(t, he.Message, tt.errMsg)
				}
			}
		})
	}
}

func TestCloseSessionHandler_MissingID(t *testing.T) {
	s := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/cards/sessions/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.closeSessionHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Contains(t, he.Message, "session id")
		}
	}
}

func TestListHandlers_Validation(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name   string
		query  string
		errMsg string
	}{
		{"page zero", "page=0", "page must be at least 1"},
		{"negative page", "page=-2", "page must be at least 1"},
		{"limit over cap", "limit=500", "limit must be between 1 and 200"},
		{"bad level", "level=A1", "invalid JLPT level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/vocab?"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := s.listVocabHandler(c)
			if assert.Error(t, err) {
				he, ok := err.(*echo.HTTPError)
				if assert.True(t, ok) {
					assert.Equal(t, http.StatusBadRequest, he.Code)
					assert.Contains(t, he.Message, tt.errMsg)
				}
			}
		})
	}
}

func TestTutorChatHandler_RejectsUnknownMode(t *testing.T) {
	s := &Server{}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tutor/chat",
		jsonBody(`{"message":"hi","mode":"TRANSLATE"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := s.tutorChatHandler(c)
	if assert.Error(t, err) {
		he, ok := err.(*echo.HTTPError)
		if assert.True(t, ok) {
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Contains(t, he.Message, "mode must be one of")
		}
	}
}
