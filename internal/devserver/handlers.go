package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/devserver/respond"
	"github.com/drawmyfeelings/journey/internal/devserver/validate"
	"github.com/drawmyfeelings/journey/internal/wire"
)

const maxRequestBytes = 64 << 10

func (s *Server) handleFeeling(w http.ResponseWriter, r *http.Request) {
	var req wire.FeelingRequest
	if !decodeBody(w, r, &req, "feeling_category", "selected_emotions") {
		return
	}
	if err := validate.Category(req.FeelingCategory); err != nil {
		writeValidation(w, err)
		return
	}
	if err := validate.Emotions(req.SelectedEmotions, "At least one emotion must be selected"); err != nil {
		writeValidation(w, err)
		return
	}
	if !s.injectFault(w, EndpointFeeling) {
		return
	}

	start := time.Now()
	ids := toIDs(req.SelectedEmotions)
	if !s.wait(r.Context()) {
		return
	}
	data, err := s.visualize(feelingPrompt(emotion.Category(req.FeelingCategory), ids), ids, start)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("feeling render failed")
		respond.WriteFailure(w, http.StatusInternalServerError, wire.CodeInternal, "An unexpected error occurred", nil)
		return
	}
	respond.WriteData(w, data)
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	var req wire.StoryRequest
	if !decodeBody(w, r, &req, "story_text", "feeling_category", "selected_emotions") {
		return
	}
	text, err := validate.Story(req.StoryText)
	if err != nil {
		writeValidation(w, err)
		return
	}
	if err := validate.Category(req.FeelingCategory); err != nil {
		writeValidation(w, err)
		return
	}
	if err := validate.Emotions(req.SelectedEmotions, "Selected emotions are required to understand your story"); err != nil {
		writeValidation(w, err)
		return
	}
	if !s.injectFault(w, EndpointStory) {
		return
	}

	start := time.Now()
	ids := toIDs(req.SelectedEmotions)
	analysis := analyze(text, ids)
	if !s.wait(r.Context()) {
		return
	}
	data, err := s.visualize(storyPrompt(emotion.Category(req.FeelingCategory), ids, analysis), ids, start)
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("story render failed")
		respond.WriteFailure(w, http.StatusInternalServerError, wire.CodeInternal, "An unexpected error occurred", nil)
		return
	}
	respond.WriteData(w, wire.StoryVisualizationData{
		VisualizationData: *data,
		StoryAnalysis:     analysis,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, check := wire.StatusHealthy, map[string]any{"status": wire.StatusHealthy, "renderer": "palette"}
	if f := s.fault(EndpointHealth); f != nil {
		status = wire.StatusDegraded
		check = map[string]any{"status": "unhealthy", "error": f.Message}
	}
	respond.WriteJSON(w, http.StatusOK, wire.HealthResponse{
		Status:    status,
		Checks:    map[string]any{"image_generator": check},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleEmotions(w http.ResponseWriter, r *http.Request) {
	var data wire.EmotionsData
	for _, e := range emotion.All() {
		if e.Valence == emotion.Positive {
			data.PositiveEmotions = append(data.PositiveEmotions, string(e.ID))
		} else {
			data.NegativeEmotions = append(data.NegativeEmotions, string(e.ID))
		}
		data.AllEmotions = append(data.AllEmotions, string(e.ID))
	}
	respond.WriteData(w, data)
}

// injectFault writes the configured fault, if any, and reports whether the
// request may proceed.
func (s *Server) injectFault(w http.ResponseWriter, endpoint string) bool {
	f := s.fault(endpoint)
	if f == nil {
		return true
	}
	status := f.Status
	if status == 0 {
		status = http.StatusServiceUnavailable
	}
	code := f.Code
	if code == "" {
		code = wire.CodeServiceError
	}
	msg := f.Message
	if msg == "" {
		msg = "Image generation service is temporarily unavailable."
	}
	respond.WriteFailure(w, status, code, msg, map[string]any{"suggestion": "Please try again in a few moments"})
	return false
}

// decodeBody binds the JSON body. Malformed JSON or missing fields give the
// 422 field-error list.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, required ...string) bool {
	raw := map[string]json.RawMessage{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&raw); err != nil {
		respond.WriteUnprocessable(w, respond.FieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return false
	}
	var missing []respond.FieldError
	for _, name := range required {
		if _, ok := raw[name]; !ok {
			missing = append(missing, respond.FieldError{Loc: []string{"body", name}, Msg: "Field required", Type: "missing"})
		}
	}
	if len(missing) > 0 {
		respond.WriteUnprocessable(w, missing...)
		return false
	}
	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, v); err != nil {
		respond.WriteUnprocessable(w, respond.FieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "type_error"})
		return false
	}
	return true
}

func writeValidation(w http.ResponseWriter, err error) {
	var short *validate.ErrTextTooShort
	if errors.As(err, &short) {
		respond.WriteFailure(w, http.StatusBadRequest, wire.CodeTextTooShort, "Please share more about your feelings", nil)
		return
	}
	respond.WriteFailure(w, http.StatusBadRequest, wire.CodeValidation, err.Error(), nil)
}

func toIDs(v []string) []emotion.ID {
	ids := make([]emotion.ID, len(v))
	for i, s := range v {
		ids[i] = emotion.ID(s)
	}
	return ids
}
