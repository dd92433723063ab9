// Package wire holds the JSON shapes exchanged with the generation service.
// Both the client and the dev service encode and decode through these types.
package wire

import "encoding/json"

// Error codes returned by the generation service.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeTextTooShort    = "TEXT_TOO_SHORT"
	CodeContentFiltered = "CONTENT_FILTERED"
	CodeServiceError    = "GENERATION_SERVICE_ERROR"
	CodeTimeout         = "GENERATION_TIMEOUT"
	CodeConfiguration   = "CONFIGURATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// Health statuses reported by GET /visualizations/health.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// ------------------------------
// Request Types
// ------------------------------

// FeelingRequest is the body of POST /visualizations/feeling.
type FeelingRequest struct {
	FeelingCategory  string   `json:"feeling_category"`
	SelectedEmotions []string `json:"selected_emotions"`
}

// StoryRequest is the body of POST /visualizations/story.
type StoryRequest struct {
	StoryText        string   `json:"story_text"`
	FeelingCategory  string   `json:"feeling_category"`
	SelectedEmotions []string `json:"selected_emotions"`
}

// ------------------------------
// Response Types
// ------------------------------

// Envelope wraps every visualization response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
	Meta    map[string]any  `json:"meta,omitempty"`
}

// ErrorDetail is the error member of a failed envelope.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ImageSize is the pixel size of a generated image.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisualizationData is the data member of a feeling response.
type VisualizationData struct {
	ImageData        string    `json:"image_data"`
	ImageFormat      string    `json:"image_format"`
	ImageSize        ImageSize `json:"image_size"`
	PromptUsed       string    `json:"prompt_used"`
	DominantColors   []string  `json:"dominant_colors"`
	GenerationTimeMS int64     `json:"generation_time_ms"`
}

// StoryFactor is one entry of story_analysis.factors. Older service builds
// send the explanation as description instead of insight.
type StoryFactor struct {
	Factor      string `json:"factor"`
	Insight     string `json:"insight,omitempty"`
	Description string `json:"description,omitempty"`
}

// StoryAnalysis is the story_analysis member of a story response.
type StoryAnalysis struct {
	CentralStressor string        `json:"central_stressor"`
	Factors         []StoryFactor `json:"factors"`
	Language        string        `json:"language"`
}

// StoryVisualizationData is the data member of a story response.
type StoryVisualizationData struct {
	VisualizationData
	StoryAnalysis *StoryAnalysis `json:"story_analysis"`
}

// HealthResponse is the body of GET /visualizations/health.
type HealthResponse struct {
	Status    string         `json:"status"`
	Checks    map[string]any `json:"checks"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// EmotionsData is the data member of GET /visualizations/emotions.
type EmotionsData struct {
	PositiveEmotions []string `json:"positive_emotions"`
	NegativeEmotions []string `json:"negative_emotions"`
	AllEmotions      []string `json:"all_emotions"`
}
