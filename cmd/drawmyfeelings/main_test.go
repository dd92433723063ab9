package main

import (
	"bytes"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawmyfeelings/journey/devmode"
	"github.com/drawmyfeelings/journey/internal/devserver"
)

func startDevService(t *testing.T) *devserver.Server {
	t.Helper()
	s := devserver.New(devserver.WithImageSize(16))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	t.Setenv("DRAWMYFEELINGS_SERVICE_URL", srv.URL+devmode.BasePath)
	return s
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_Emotions(t *testing.T) {
	startDevService(t)

	out, err := run(t, "", "emotions")
	require.NoError(t, err)
	assert.Contains(t, out, "super_happy")
	assert.Contains(t, out, "#D4B896")

	out, err = run(t, "", "emotions", "--remote")
	require.NoError(t, err)
	assert.Contains(t, out, "bored_stiff")
	assert.NotContains(t, out, "unknown to this client")
}

func TestCLI_Health(t *testing.T) {
	s := startDevService(t)

	out, err := run(t, "", "health", "--wait", "2s")
	require.NoError(t, err)
	assert.Contains(t, out, "status: healthy")

	s.SetFaults(func(endpoint string) *devserver.Fault {
		return &devserver.Fault{Message: "down for maintenance"}
	})
	out, err = run(t, "", "health")
	require.Error(t, err)
	assert.Contains(t, out, "status: degraded")
}

func TestCLI_FeelingWritesPNG(t *testing.T) {
	startDevService(t)
	path := filepath.Join(t.TempDir(), "feeling.png")

	out, err := run(t, "", "feeling", "--category", "good", "--emotions", "cozy,content", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "#D4B896 #D4C4E8 #FFD700 #FF6B6B")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
}

func TestCLI_FeelingRejectsUnknownEmotion(t *testing.T) {
	startDevService(t)
	_, err := run(t, "", "feeling", "--category", "good", "--emotions", "ecstatic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ecstatic")
}

func TestCLI_Story(t *testing.T) {
	startDevService(t)

	_, err := run(t, "", "story", "--category", "bad", "--emotions", "down", "--text", "too short")
	require.Error(t, err)

	text := strings.Repeat("最近工作压力很大，我感到很累。", 5)
	out, err := run(t, "", "story", "--category", "bad", "--emotions", "down,blah", "--text", text)
	require.NoError(t, err)
	assert.Contains(t, out, "language: Chinese (中文)")
	assert.Contains(t, out, "悲伤")
	assert.Contains(t, out, "top left")
}

func TestCLI_Journey(t *testing.T) {
	startDevService(t)
	dir := t.TempDir()

	script := strings.Join([]string{
		"submit",
		"begin",
		"category good",
		"submit",
		"toggle cozy content",
		"submit",
		"elaborate",
		"story a short one",
		"submit",
		"story " + strings.Repeat("Today felt warm and easy, coffee with friends. ", 2),
		"submit",
		"save " + filepath.Join(dir, "story.png"),
		"restart",
		"quit",
	}, "\n")

	out, err := run(t, script, "journey")
	require.NoError(t, err)

	assert.Contains(t, out, "[initial]")
	assert.Contains(t, out, "that does not apply right now")
	assert.Contains(t, out, "pick at least one emotion first")
	assert.Contains(t, out, "[x] cozy")
	assert.Contains(t, out, "[feeling_ready]")
	assert.Contains(t, out, "tell a little more")
	assert.Contains(t, out, "[story_ready]")
	assert.Contains(t, out, "language: English")
	assert.Contains(t, out, "Comfort")
	assert.FileExists(t, filepath.Join(dir, "story.png"))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Contains(t, languageName("zh"), "Chinese")
	assert.Equal(t, "??", languageName("??"))
}

func TestCLI_InvalidConfig(t *testing.T) {
	t.Setenv("DRAWMYFEELINGS_SERVICE_URL", "ftp://nowhere")
	_, err := run(t, "", "emotions")
	require.Error(t, err)
}
