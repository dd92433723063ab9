// Package respond writes the generation service's JSON bodies.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drawmyfeelings/journey/internal/wire"
)

// APIVersion is reported in the meta member of successful envelopes.
const APIVersion = "2.1"

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteData writes a successful envelope around data.
func WriteData(w http.ResponseWriter, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		WriteFailure(w, http.StatusInternalServerError, wire.CodeInternal, "An unexpected error occurred", nil)
		return
	}
	WriteJSON(w, http.StatusOK, wire.Envelope{
		Success: true,
		Data:    raw,
		Meta:    meta(APIVersion),
	})
}

// detailBody is the framework's HTTP error wrapper.
type detailBody struct {
	Detail any `json:"detail"`
}

// WriteFailure writes a failed envelope wrapped in {"detail": ...}.
func WriteFailure(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	WriteJSON(w, statusCode, detailBody{Detail: wire.Envelope{
		Success: false,
		Error:   &wire.ErrorDetail{Code: code, Message: message, Details: details},
		Meta:    meta(""),
	}})
}

// FieldError is one entry of a request-model validation failure.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// WriteUnprocessable writes a 422 with a list of field errors, the shape used
// when the body cannot be bound to the request model at all.
func WriteUnprocessable(w http.ResponseWriter, errs ...FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, detailBody{Detail: errs})
}

func meta(version string) map[string]any {
	m := map[string]any{"timestamp": time.Now().UTC().Format(time.RFC3339Nano)}
	if version != "" {
		m["api_version"] = version
	}
	return m
}
