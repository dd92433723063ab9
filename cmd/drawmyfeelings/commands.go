package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/devserver"
	"github.com/drawmyfeelings/journey/internal/logger"
)

func newEmotionsCmd() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "emotions",
		Short: "List the emotions that can be picked",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !remote {
				for _, e := range emotion.All() {
					fmt.Fprintf(out, "%-12s %-12s %-8s %-8s %s\n", e.ID, e.Label, e.Valence, e.Energy, strings.Join(e.Palette, " "))
				}
				return nil
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			ids, err := c.ListEmotions(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				mark := ""
				if !emotion.Valid(id) {
					mark = " (unknown to this client)"
				}
				fmt.Fprintf(out, "%s%s\n", id, mark)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the service instead of the built-in table")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the generation service is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if wait > 0 {
				if err := c.WaitUntilAvailable(cmd.Context(), wait); err != nil {
					return err
				}
			}
			h, err := c.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", h.Status)
			for name, check := range h.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", name, check)
			}
			if !h.Healthy() {
				return fmt.Errorf("generation service is %s", h.Status)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 0, "Poll with backoff until healthy or this much time has passed")
	return cmd
}

// selectionFlags are shared by the one-shot generation commands.
type selectionFlags struct {
	category string
	emotions []string
	out      string
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Feeling category: good, bad or not_sure")
	cmd.Flags().StringSliceVar(&f.emotions, "emotions", nil, "Comma separated emotion ids")
	cmd.Flags().StringVar(&f.out, "out", "", "Write the PNG here")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("emotions")
}

func (f *selectionFlags) parse() (emotion.Category, []emotion.ID, error) {
	c, err := emotion.ParseCategory(f.category)
	if err != nil {
		return "", nil, err
	}
	ids := make([]emotion.ID, 0, len(f.emotions))
	for _, s := range f.emotions {
		id := emotion.ID(strings.TrimSpace(s))
		if !emotion.Valid(id) {
			return "", nil, fmt.Errorf("unknown emotion %q", s)
		}
		ids = append(ids, id)
	}
	return c, ids, nil
}

func newFeelingCmd() *cobra.Command {
	var f selectionFlags
	cmd := &cobra.Command{
		Use:   "feeling",
		Short: "Draw a feeling from a category and emotions",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, ids, err := f.parse()
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.RequestFeelingArtifact(cmd.Context(), category, ids)
			if err != nil {
				return err
			}
			renderArtifact(cmd.OutOrStdout(), &res.Artifact)
			return writeImage(f.out, res.Image)
		},
	}
	f.bind(cmd)
	return cmd
}

func newStoryCmd() *cobra.Command {
	var f selectionFlags
	var text, file string
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Draw a story and read its analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, ids, err := f.parse()
			if err != nil {
				return err
			}
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(b)
			}
			if !emotion.CanSubmitStory(text) {
				return fmt.Errorf("story must have at least %d characters", emotion.MinStoryLength)
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.RequestStoryArtifact(cmd.Context(), text, category, ids)
			if err != nil {
				return err
			}
			renderArtifact(cmd.OutOrStdout(), &res.Artifact)
			renderAnalysis(cmd.OutOrStdout(), res.Analysis)
			return writeImage(f.out, res.Image)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&text, "text", "", "Story text")
	cmd.Flags().StringVar(&file, "file", "", "Read the story from this file")
	return cmd
}

func newDevServerCmd() *cobra.Command {
	var addr string
	var latency time.Duration
	var requireKey bool
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve a local stand-in for the generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = cfg.DevAddr
			}
			if !cmd.Flags().Changed("latency") {
				latency = cfg.DevLatency
			}
			opts := []devserver.Option{
				devserver.WithLogger(logger.New("drawmyfeelings-devserver")),
				devserver.WithLatency(latency),
			}
			if requireKey {
				key := cfg.APIKey
				if key == "" {
					return fmt.Errorf("--require-key needs DRAWMYFEELINGS_API_KEY or --api-key")
				}
				opts = append(opts, devserver.WithAPIKey(key))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return devserver.New(opts...).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from DRAWMYFEELINGS_DEV_ADDR)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Artificial delay per generation")
	cmd.Flags().BoolVar(&requireKey, "require-key", false, "Require the configured API key as bearer token")
	return cmd
}

func writeImage(path string, img []byte) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("bytes", len(img)).Msg("image written")
	return nil
}

func renderArtifact(w io.Writer, a *emotion.Artifact) {
	fmt.Fprintf(w, "image:   %dx%d %s, %d bytes\n", a.Width, a.Height, a.Format, len(a.Image))
	fmt.Fprintf(w, "colours: %s\n", strings.Join(a.DominantColors, " "))
	fmt.Fprintf(w, "took:    %s\n", a.Latency)
}
