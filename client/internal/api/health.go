package api

import (
	"context"
	"encoding/json"
	"net/http"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// GetHealth calls GET {baseURL}/visualizations/health. The body is not an
// envelope.
func GetHealth(ctx context.Context, httpClient HTTPClient, baseURL string) (*wire.HealthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, clienterrors.NewNetworkError("health", err)
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, baseURL+"/visualizations/health", nil)
	if err != nil {
		return nil, clienterrors.NewDecodeError("health", err)
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, clienterrors.NewNetworkError("health", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, clienterrors.NewNetworkError("health", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, clienterrors.NewHTTPError(resp.StatusCode, string(body), "health")
	}

	var hr wire.HealthResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, clienterrors.NewDecodeError("health", err)
	}
	return &hr, nil
}
