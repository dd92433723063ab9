package client

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// Bounds of the result data. Fewer than the minimum is a contract
// mismatch; anything above the maximum is truncated.
const (
	minDominantColors = 3
	maxDominantColors = 4
	minFactors        = 3
	maxFactors        = 5
)

// toArtifact decodes the image payload. Anything other than a decodable PNG
// is a contract mismatch.
func toArtifact(op string, d *wire.VisualizationData) (emotion.Artifact, error) {
	if d.ImageFormat != "" && !strings.EqualFold(d.ImageFormat, "png") {
		return emotion.Artifact{}, clienterrors.NewDecodeError(op, fmt.Errorf("unsupported image format %q", d.ImageFormat))
	}
	raw := d.ImageData
	if i := strings.Index(raw, ";base64,"); strings.HasPrefix(raw, "data:") && i >= 0 {
		raw = raw[i+len(";base64,"):]
	}
	img, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return emotion.Artifact{}, clienterrors.NewDecodeError(op, fmt.Errorf("image_data: %w", err))
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return emotion.Artifact{}, clienterrors.NewDecodeError(op, fmt.Errorf("image_data: %w", err))
	}

	colors := d.DominantColors
	if len(colors) < minDominantColors {
		return emotion.Artifact{}, clienterrors.NewDecodeError(op, fmt.Errorf("dominant_colors: got %d, want at least %d", len(colors), minDominantColors))
	}
	if len(colors) > maxDominantColors {
		colors = colors[:maxDominantColors]
	}
	return emotion.Artifact{
		Image:          img,
		Format:         "png",
		Width:          cfg.Width,
		Height:         cfg.Height,
		Prompt:         d.PromptUsed,
		DominantColors: colors,
		Latency:        time.Duration(d.GenerationTimeMS) * time.Millisecond,
	}, nil
}

func toAnalysis(a *wire.StoryAnalysis) (emotion.Analysis, error) {
	if len(a.Factors) < minFactors {
		return emotion.Analysis{}, clienterrors.NewDecodeError("story", fmt.Errorf("factors: got %d, want at least %d", len(a.Factors), minFactors))
	}
	out := emotion.Analysis{
		CentralStressor: a.CentralStressor,
		Language:        a.Language,
	}
	for _, f := range a.Factors {
		if len(out.Factors) == maxFactors {
			break
		}
		insight := f.Insight
		if insight == "" {
			insight = f.Description
		}
		out.Factors = append(out.Factors, emotion.Factor{Label: f.Factor, Insight: insight})
	}
	return out, nil
}
