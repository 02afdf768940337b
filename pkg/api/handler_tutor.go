package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/llm"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/tutor"
)

// sseWriter pushes SSE frames to the client, flushing after every frame so
// tokens appear while the model is still generating.
type sseWriter struct {
	w     io.Writer
	flush func()
}

func newSSEWriter(w io.Writer) *sseWriter {
	sw := &sseWriter{w: w, flush: func() {}}
	if f, ok := w.(http.Flusher); ok {
		sw.flush = f.Flush
	}
	return sw
}

func (sw *sseWriter) frame(data string) error {
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	sw.flush()
	return nil
}

// frameError encodes a stream failure as the protocol's single error
// frame. The error text mirrors the failure taxonomy: tutor-unavailable,
// model-missing:<name>, response-timed-out.
func (sw *sseWriter) frameError(streamErr error) error {
	message := "tutor-unavailable"
	var missing *llm.ModelMissingError
	switch {
	case errors.As(streamErr, &missing):
		message = missing.Error()
	case errors.Is(streamErr, llm.ErrTimeout):
		message = "response-timed-out"
	}

	payload, _ := json.Marshal(map[string]string{"error": message})
	return sw.frame(string(payload))
}

func (sw *sseWriter) done() error {
	return sw.frame("[DONE]")
}

// tutorChatHandler handles POST /api/tutor/chat. Tokens stream back as SSE
// data frames while the model is still generating; errors after the stream
// has started surface as a single error frame followed by [DONE].
func (s *Server) tutorChatHandler(c *echo.Context) error {
	var req TutorChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mode := tutor.Mode(req.Mode)
	if err := mode.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	chunks, errs, err := s.tutorGateway.Chat(ctx, req.Message, mode)
	if err != nil {
		return mapServiceError(err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	sw := newSSEWriter(resp)

	for {
		select {
		case <-ctx.Done():
			// Client went away; the gateway's upstream call is cancelled
			// through the shared context.
			return nil
		case token, ok := <-chunks:
			if !ok {
				chunks = nil
				if errs == nil {
					return sw.done()
				}
				continue
			}
			if err := sw.frame(token); err != nil {
				return nil
			}
		case streamErr, ok := <-errs:
			if !ok {
				errs = nil
				if chunks == nil {
					return sw.done()
				}
				continue
			}
			if streamErr != nil {
				_ = sw.frameError(streamErr)
				return sw.done()
			}
		}
	}
}
