package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// rawEnvelope accepts the plain envelope and the framework's
// {"detail": ...} wrapper used for HTTP errors.
type rawEnvelope struct {
	Success *bool             `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *wire.ErrorDetail `json:"error"`
	Detail  json.RawMessage   `json:"detail"`
}

// decodeEnvelope turns a response into T or a classified failure. It never
// returns an unclassified error.
func decodeEnvelope[T any](op string, status int, body []byte, out *T) error {
	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status < 200 || status > 299 {
			return clienterrors.NewHTTPError(status, string(body), op)
		}
		return clienterrors.NewDecodeError(op, err)
	}

	if env.Success == nil && len(env.Detail) > 0 {
		detail := bytes.TrimSpace(env.Detail)
		switch {
		case len(detail) > 0 && detail[0] == '{':
			return decodeEnvelope(op, status, detail, out)
		case len(detail) > 0 && detail[0] == '[':
			// Request-model validation failures carry a list of field errors.
			return clienterrors.NewServiceError(status, wire.CodeValidation, "The request was not accepted.", op)
		}
	}

	if env.Success == nil {
		if status < 200 || status > 299 {
			return clienterrors.NewHTTPError(status, string(body), op)
		}
		return clienterrors.NewDecodeError(op, errors.New("envelope has no success flag"))
	}

	if !*env.Success {
		if env.Error == nil || env.Error.Code == "" {
			return clienterrors.NewDecodeError(op, errors.New("failed envelope without error"))
		}
		return clienterrors.NewServiceError(status, env.Error.Code, env.Error.Message, op)
	}

	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return clienterrors.NewDecodeError(op, errors.New("successful envelope without data"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return clienterrors.NewDecodeError(op, fmt.Errorf("data: %w", err))
	}
	return nil
}
