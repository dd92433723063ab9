// Package client talks to the Draw My Feelings generation service. A Client
// holds no per-call state and is safe for concurrent use.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/client/internal/api"
	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/devmode"
	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// Default per-call budgets. The story call covers text analysis followed by
// image synthesis on the service side.
const (
	DefaultFeelingTimeout = 60 * time.Second
	DefaultStoryTimeout   = 90 * time.Second
	DefaultHealthTimeout  = 5 * time.Second
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string // optional bearer token, fixed at construction
	agent   string
	log     zerolog.Logger

	feelingTimeout time.Duration
	storyTimeout   time.Duration
	healthTimeout  time.Duration
}

// New constructs a Client for the service rooted at baseURL, e.g.
// "https://api.example.com/api/v1". Additional options can be provided via
// functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: 2 * time.Minute},
		log:            zerolog.Nop(),
		feelingTimeout: DefaultFeelingTimeout,
		storyTimeout:   DefaultStoryTimeout,
		healthTimeout:  DefaultHealthTimeout,
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.apiKey != "" || c.agent != "" {
		c.wrapTransportWithAPIKey()
	}
	return c, nil
}

// NewWithDevMode constructs a Client that authenticates with the shared dev
// API key. Only a service running in dev mode accepts it.
func NewWithDevMode(baseURL string, opts ...Option) (*Client, error) {
	return New(baseURL, append(opts, WithAPIKey(devmode.APIKey))...)
}

// wrapTransportWithAPIKey wraps the HTTP client's transport to automatically
// add the Authorization and User-Agent headers to all requests.
func (c *Client) wrapTransportWithAPIKey() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{
		base:   baseTransport,
		apiKey: c.apiKey,
		agent:  c.agent,
	}
}

// apiKeyTransport wraps an http.RoundTripper to automatically add Authorization header
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
	agent  string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	if t.apiKey != "" {
		cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if t.agent != "" {
		cloned.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(cloned)
}

// --------------------------------------------------------------------
// Generation operations
// --------------------------------------------------------------------

// RequestFeelingArtifact asks the service to draw category and emotions.
// The caller is expected to have validated both; an empty selection or an
// unknown category is rejected without a network call.
func (c *Client) RequestFeelingArtifact(ctx context.Context, category emotion.Category, emotions []emotion.ID) (*emotion.FeelingResult, error) {
	if err := checkSelection(category, emotions); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.feelingTimeout)
	defer cancel()

	start := time.Now()
	data, err := api.PostFeeling(ctx, c.http, c.baseURL, wire.FeelingRequest{
		FeelingCategory:  string(category),
		SelectedEmotions: idStrings(emotions),
	})
	if err != nil {
		c.observe("feeling", start, err)
		return nil, err
	}
	art, err := toArtifact("feeling", data)
	c.observe("feeling", start, err)
	if err != nil {
		return nil, err
	}
	return emotion.NewFeelingResult(art), nil
}

// RequestStoryArtifact asks the service to analyse and draw a story. The
// service runs analysis and then image synthesis, hence the longer budget.
func (c *Client) RequestStoryArtifact(ctx context.Context, storyText string, category emotion.Category, emotions []emotion.ID) (*emotion.StoryResult, error) {
	if err := checkSelection(category, emotions); err != nil {
		return nil, err
	}
	if !emotion.CanSubmitStory(storyText) {
		return nil, clienterrors.NewServiceError(0, wire.CodeTextTooShort, "Please share more about your feelings", "story")
	}
	ctx, cancel := context.WithTimeout(ctx, c.storyTimeout)
	defer cancel()

	start := time.Now()
	data, err := api.PostStory(ctx, c.http, c.baseURL, wire.StoryRequest{
		StoryText:        storyText,
		FeelingCategory:  string(category),
		SelectedEmotions: idStrings(emotions),
	})
	if err != nil {
		c.observe("story", start, err)
		return nil, err
	}
	art, err := toArtifact("story", &data.VisualizationData)
	var analysis emotion.Analysis
	if err == nil {
		analysis, err = toAnalysis(data.StoryAnalysis)
	}
	c.observe("story", start, err)
	if err != nil {
		return nil, err
	}
	return emotion.NewStoryResult(art, analysis), nil
}

// CheckAvailability probes the health path. It never returns an error: any
// failure, and a degraded service, report false.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	hs, err := c.Health(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("availability probe failed")
		return false
	}
	return hs.Status == wire.StatusHealthy
}

// Health returns the decoded health report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	start := time.Now()
	hr, err := api.GetHealth(ctx, c.http, c.baseURL)
	c.observe("health", start, err)
	if err != nil {
		return nil, err
	}
	return &HealthStatus{Status: hr.Status, Checks: hr.Checks}, nil
}

// ListEmotions returns the emotion ids the service accepts.
func (c *Client) ListEmotions(ctx context.Context) ([]emotion.ID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	start := time.Now()
	data, err := api.ListEmotions(ctx, c.http, c.baseURL)
	c.observe("emotions", start, err)
	if err != nil {
		return nil, err
	}
	ids := make([]emotion.ID, 0, len(data.AllEmotions))
	for _, s := range data.AllEmotions {
		ids = append(ids, emotion.ID(s))
	}
	return ids, nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	elapsed := time.Since(start)
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	requestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()

	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", endpoint).Dur("elapsed", elapsed).Msg("generation service call failed")
		return
	}
	c.log.Debug().Str("endpoint", endpoint).Dur("elapsed", elapsed).Msg("generation service call completed")
}

func checkSelection(category emotion.Category, emotions []emotion.ID) error {
	if !category.Valid() {
		return clienterrors.NewServiceError(0, wire.CodeValidation, "Choose how you feel first.", "validate")
	}
	if len(emotions) == 0 {
		return clienterrors.NewServiceError(0, wire.CodeValidation, "Pick at least one emotion.", "validate")
	}
	return nil
}

func idStrings(ids []emotion.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
