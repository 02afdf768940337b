// Package api provides the HTTP surface of the tutor backend.
package api

import (
	"context"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/database"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/llm"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/services"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/speech"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/tutor"
)

// Server is the HTTP API server.
type Server struct {
	echo            *echo.Echo
	httpServer      *http.Server
	dbClient        *database.Client
	reviewService   *services.ReviewService
	sessionService  *services.SessionService
	progressService *services.ProgressService
	settingsService *services.SettingsService
	itemService     *services.ItemService
	tutorGateway    *tutor.Gateway
	speechGateway   *speech.Gateway
	llmClient       *llm.Client
}

// NewServer creates the API server with all routes registered.
func NewServer(
	dbClient *database.Client,
	reviewService *services.ReviewService,
	sessionService *services.SessionService,
	progressService *services.ProgressService,
	settingsService *services.SettingsService,
	itemService *services.ItemService,
	tutorGateway *tutor.Gateway,
	speechGateway *speech.Gateway,
	llmClient *llm.Client,
) *Server {
	e := echo.New()

	s := &Server{
		echo:            e,
		dbClient:        dbClient,
		reviewService:   reviewService,
		sessionService:  sessionService,
		progressService: progressService,
		settingsService: settingsService,
		itemService:     itemService,
		tutorGateway:    tutorGateway,
		speechGateway:   speechGateway,
		llmClient:       llmClient,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	// Chat messages and review submissions are small; a 1 MB ceiling
	// rejects oversized payloads before deserialization.
	s.echo.Use(middleware.BodyLimit(1 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	api := s.echo.Group("/api")

	api.GET("/health", s.healthHandler)

	api.GET("/cards/due", s.dueCardsHandler)
	api.GET("/cards/new", s.newCardsHandler)
	api.POST("/cards/review", s.submitReviewHandler)
	api.POST("/cards/sessions", s.openSessionHandler)
	api.PATCH("/cards/sessions/:id", s.closeSessionHandler)

	api.GET("/vocab", s.listVocabHandler)
	api.GET("/vocab/:id", s.getVocabHandler)
	api.GET("/kanji", s.listKanjiHandler)
	api.GET("/kanji/:character", s.getKanjiHandler)

	api.POST("/tutor/chat", s.tutorChatHandler)
	api.POST("/tts", s.ttsHandler)

	api.GET("/progress", s.progressHandler)
	api.GET("/settings", s.getSettingsHandler)
	api.POST("/settings", s.updateSettingsHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.echo,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
