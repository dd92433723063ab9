package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport logs request and response metadata for troubleshooting
// calls to the generation service.
//
// Enable with DRAWMYFEELINGS_DEBUG=true or DEBUG=true. Request bodies carry
// the user's story, so only enable it in development.
//
// Response bodies are not dumped: they carry the base64 image.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}

	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, false); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
//
// Returns true if DRAWMYFEELINGS_DEBUG or DEBUG is set to "true" (case-sensitive).
func debugLoggingRequested() bool {
	return os.Getenv("DRAWMYFEELINGS_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
