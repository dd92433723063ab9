package devserver

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// visualize paints the artwork for ids and wraps it in the response data.
func (s *Server) visualize(prompt string, ids []emotion.ID, start time.Time) (*wire.VisualizationData, error) {
	colors := emotion.DominantColors(ids)
	img, err := paint(s.imageSize, palette(ids, colors))
	if err != nil {
		return nil, err
	}
	return &wire.VisualizationData{
		ImageData:        base64.StdEncoding.EncodeToString(img),
		ImageFormat:      "png",
		ImageSize:        wire.ImageSize{Width: s.imageSize, Height: s.imageSize},
		PromptUsed:       prompt,
		DominantColors:   colors,
		GenerationTimeMS: time.Since(start).Milliseconds(),
	}, nil
}

// palette collects every palette colour of ids, falling back to the
// dominant colours when none is known.
func palette(ids []emotion.ID, dominant []string) []string {
	var out []string
	for _, id := range ids {
		if e, ok := emotion.Lookup(id); ok {
			out = append(out, e.Palette...)
		}
	}
	if len(out) == 0 {
		out = dominant
	}
	return out
}

// paint draws concentric soft rings cycling through hexes on a square
// canvas of size px and returns it PNG encoded.
func paint(px int, hexes []string) ([]byte, error) {
	if px <= 0 {
		return nil, fmt.Errorf("invalid image size %d", px)
	}
	cols := make([]color.RGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := parseHex(h)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no colours to paint")
	}

	img := image.NewRGBA(image.Rect(0, 0, px, px))
	centre := float64(px) / 2
	band := centre / float64(len(cols))
	for y := 0; y < px; y++ {
		for x := 0; x < px; x++ {
			d := math.Hypot(float64(x)-centre, float64(y)-centre)
			pos := d / band
			i := int(pos)
			a := cols[i%len(cols)]
			b := cols[(i+1)%len(cols)]
			img.SetRGBA(x, y, blend(a, b, pos-float64(i)))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// parseHex reads "#RRGGBB".
func parseHex(h string) (color.RGBA, error) {
	s, ok := strings.CutPrefix(h, "#")
	if !ok || len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", h)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", h, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
