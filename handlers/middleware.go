package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"
)

// RequestLogger writes one structured log line per request after the rest of
// the chain has run.
func RequestLogger(e *core.RequestEvent) error {
	start := time.Now()
	err := e.Next()

	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("method", e.Request.Method).
		Str("path", e.Request.URL.Path).
		Int("status", e.Status()).
		Dur("duration", time.Since(start)).
		Msg("request")
	return err
}

// CORS lets the browser admin UI call the API from any origin and answers
// preflight requests without reaching the route handlers.
func CORS(e *core.RequestEvent) error {
	h := e.Response.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if e.Request.Method == http.MethodOptions {
		return e.NoContent(http.StatusNoContent)
	}
	return e.Next()
}
