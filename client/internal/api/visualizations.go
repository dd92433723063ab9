package api

import (
	"context"
	"fmt"
	"net/http"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// PostFeeling calls POST {baseURL}/visualizations/feeling.
func PostFeeling(ctx context.Context, httpClient HTTPClient, baseURL string, req wire.FeelingRequest) (*wire.VisualizationData, error) {
	var data wire.VisualizationData
	if err := postEnvelope(ctx, httpClient, baseURL+"/visualizations/feeling", "feeling", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// PostStory calls POST {baseURL}/visualizations/story.
func PostStory(ctx context.Context, httpClient HTTPClient, baseURL string, req wire.StoryRequest) (*wire.StoryVisualizationData, error) {
	var data wire.StoryVisualizationData
	if err := postEnvelope(ctx, httpClient, baseURL+"/visualizations/story", "story", req, &data); err != nil {
		return nil, err
	}
	if data.StoryAnalysis == nil {
		return nil, clienterrors.NewDecodeError("story", fmt.Errorf("missing story_analysis"))
	}
	return &data, nil
}

// ListEmotions calls GET {baseURL}/visualizations/emotions.
func ListEmotions(ctx context.Context, httpClient HTTPClient, baseURL string) (*wire.EmotionsData, error) {
	if err := ctx.Err(); err != nil {
		return nil, clienterrors.NewNetworkError("emotions", err)
	}
	httpReq, err := newJSONRequest(ctx, http.MethodGet, baseURL+"/visualizations/emotions", nil)
	if err != nil {
		return nil, clienterrors.NewDecodeError("emotions", err)
	}
	var data wire.EmotionsData
	if err := do(httpClient, httpReq, "emotions", &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func postEnvelope[T any](ctx context.Context, httpClient HTTPClient, url, op string, body any, out *T) error {
	if err := ctx.Err(); err != nil {
		return clienterrors.NewNetworkError(op, err)
	}
	httpReq, err := newJSONRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return clienterrors.NewDecodeError(op, err)
	}
	return do(httpClient, httpReq, op, out)
}

func do[T any](httpClient HTTPClient, httpReq *http.Request, op string, out *T) error {
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return clienterrors.NewNetworkError(op, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return clienterrors.NewNetworkError(op, err)
	}
	return decodeEnvelope(op, resp.StatusCode, body, out)
}
