package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"
)

// maxJSONBody caps request bodies decoded by decodeJSON.
const maxJSONBody = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// jsonMessage answers with {"message": message}.
func jsonMessage(e *core.RequestEvent, status int, message string) error {
	return e.JSON(status, messageResponse{Message: message})
}

// serverError logs err with the failing operation and answers 500 with a
// fixed user-facing message.
func serverError(e *core.RequestEvent, op string, err error, message string) error {
	log.Error().
		Err(err).
		Str("method", e.Request.Method).
		Str("path", e.Request.URL.Path).
		Msg(op)
	return jsonMessage(e, http.StatusInternalServerError, message)
}

// decodeJSON reads the request body as a single JSON document into dst.
func decodeJSON(e *core.RequestEvent, dst any) error {
	body := http.MaxBytesReader(e.Response, e.Request.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// HandleRoot answers the liveness probe at "/".
func HandleRoot(company string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.String(http.StatusOK, company+" Admin API is running.")
	}
}
