package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/internal/wire"
)

const feelingOK = `{"success":true,"data":{"image_data":"aGVsbG8=","image_format":"png",
"image_size":{"width":512,"height":512},"prompt_used":"p","dominant_colors":["#1","#2","#3"],
"generation_time_ms":1200},"meta":{"api_version":"2.0"}}`

func TestPostFeeling_Success(t *testing.T) {
	t.Parallel()
	var got wire.FeelingRequest
	var path, reqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		reqID = r.Header.Get(RequestIDHeader)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(feelingOK))
	}))
	defer srv.Close()

	data, err := PostFeeling(context.Background(), srv.Client(), srv.URL, wire.FeelingRequest{
		FeelingCategory:  "good",
		SelectedEmotions: []string{"cozy", "content"},
	})
	if err != nil {
		t.Fatalf("PostFeeling: %v", err)
	}
	if path != "/visualizations/feeling" || reqID == "" {
		t.Fatalf("unexpected path %q or missing request id", path)
	}
	if got.FeelingCategory != "good" || len(got.SelectedEmotions) != 2 {
		t.Fatalf("unexpected body: %+v", got)
	}
	if data.ImageData != "aGVsbG8=" || len(data.DominantColors) != 3 || data.GenerationTimeMS != 1200 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestPostFeeling_ErrorEnvelopes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		status    int
		body      string
		code      string
		kind      clienterrors.Kind
		retryable bool
	}{
		{"plain validation", 400, `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Invalid emotions"}}`,
			"VALIDATION_ERROR", clienterrors.KindRejected, false},
		{"detail wrapped unavailable", 503, `{"detail":{"success":false,"error":{"code":"GENERATION_SERVICE_ERROR","message":"down"}}}`,
			"GENERATION_SERVICE_ERROR", clienterrors.KindTransient, true},
		{"detail wrapped timeout", 504, `{"detail":{"success":false,"error":{"code":"GENERATION_TIMEOUT","message":"slow"}}}`,
			"GENERATION_TIMEOUT", clienterrors.KindTransient, true},
		{"framework validation list", 422, `{"detail":[{"loc":["body","selected_emotions"],"msg":"bad"}]}`,
			"VALIDATION_ERROR", clienterrors.KindRejected, false},
		{"non-json 502", 502, `<html>bad gateway</html>`,
			clienterrors.CodeHTTP, clienterrors.KindTransient, true},
		{"malformed 200", 200, `{bad json`,
			clienterrors.CodeDecode, clienterrors.KindDecode, false},
		{"success without data", 200, `{"success":true}`,
			clienterrors.CodeDecode, clienterrors.KindDecode, false},
		{"failure without error", 200, `{"success":false}`,
			clienterrors.CodeDecode, clienterrors.KindDecode, false},
		{"no success flag", 200, `{"image_data":"x"}`,
			clienterrors.CodeDecode, clienterrors.KindDecode, false},
		{"data wrong type", 200, `{"success":true,"data":"nope"}`,
			clienterrors.CodeDecode, clienterrors.KindDecode, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, tc.status, tc.body)
			_, err := PostFeeling(context.Background(), srv.Client(), srv.URL, wire.FeelingRequest{FeelingCategory: "good", SelectedEmotions: []string{"cozy"}})
			ce, ok := clienterrors.As(err)
			if !ok {
				t.Fatalf("expected classified error, got %v", err)
			}
			if ce.Code != tc.code || ce.Kind != tc.kind || clienterrors.IsRetryable(err) != tc.retryable {
				t.Fatalf("got code=%s kind=%s retryable=%v", ce.Code, ce.Kind, clienterrors.IsRetryable(err))
			}
		})
	}
}

func TestPostStory_RequiresAnalysis(t *testing.T) {
	t.Parallel()
	srv := serve(t, 200, feelingOK)
	_, err := PostStory(context.Background(), srv.Client(), srv.URL, wire.StoryRequest{StoryText: "x"})
	if !errors.Is(err, clienterrors.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestPostStory_Success(t *testing.T) {
	t.Parallel()
	srv := serve(t, 200, `{"success":true,"data":{"image_data":"aGk=","image_format":"png",
"image_size":{"width":1,"height":1},"prompt_used":"p","dominant_colors":["#1","#2","#3","#4"],
"generation_time_ms":9,"story_analysis":{"central_stressor":"exam","language":"en",
"factors":[{"factor":"time","insight":"short"},{"factor":"sleep","description":"little"},{"factor":"peers","insight":"pressure"}]}}}`)
	data, err := PostStory(context.Background(), srv.Client(), srv.URL, wire.StoryRequest{StoryText: "x"})
	if err != nil {
		t.Fatalf("PostStory: %v", err)
	}
	if data.StoryAnalysis.CentralStressor != "exam" || len(data.StoryAnalysis.Factors) != 3 {
		t.Fatalf("unexpected analysis: %+v", data.StoryAnalysis)
	}
	if data.StoryAnalysis.Factors[1].Description != "little" {
		t.Fatalf("description fallback not decoded")
	}
}

func TestPost_HTTPDoError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	_, err := PostFeeling(context.Background(), hc, "http://example.com", wire.FeelingRequest{})
	if !clienterrors.IsRetryable(err) {
		t.Fatalf("network failure should be retryable: %v", err)
	}
}

func TestPost_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := PostStory(ctx, http.DefaultClient, "http://example.com", wire.StoryRequest{})
	if !errors.Is(err, clienterrors.ErrCanceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestListEmotions(t *testing.T) {
	t.Parallel()
	srv := serve(t, 200, `{"success":true,"data":{"positive_emotions":["cozy"],"negative_emotions":["down"],"all_emotions":["cozy","down"]}}`)
	data, err := ListEmotions(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(data.AllEmotions) != 2 {
		t.Fatalf("ListEmotions: %+v, %v", data, err)
	}
}
