package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/shardqueue"
	"github.com/drawmyfeelings/journey/journey"
)

func newJourneyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journey",
		Short: "Walk through the questionnaire interactively",
		Long: "Reads one command per line: begin, category <good|bad|not_sure>, toggle <id>..., " +
			"submit, elaborate, story <text>, back, cancel, retry, restart, probe, save <file>, show, quit. " +
			"Ctrl-C while drawing cancels the request.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			reg, err := journey.NewRegistry(c, shardqueue.Config{
				Shards:    cfg.Shards,
				QueueSize: cfg.QueueSize,
			}, log.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = reg.CloseAll() }()

			m, err := reg.Open()
			if err != nil {
				return err
			}
			p := &presenter{m: m, out: cmd.OutOrStdout()}
			return p.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// presenter renders journey snapshots and maps typed commands onto machine
// operations. It never touches journey state directly.
type presenter struct {
	m   *journey.Machine
	out io.Writer
}

var errQuit = errors.New("quit")

func (p *presenter) run(ctx context.Context, in io.Reader) error {
	if !p.m.ProbeAvailability(ctx) {
		fmt.Fprintln(p.out, "! the drawing service is not reachable right now; you can still start")
	}
	p.render(p.m.Snapshot())

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64<<10), 64<<10)
	for {
		fmt.Fprint(p.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(p.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		err := p.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(p.out, "! %s\n", describeError(err))
			continue
		}
		p.render(p.m.Snapshot())
	}
}

func (p *presenter) exec(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "begin", "start":
		return p.m.Begin()
	case "category":
		c, err := emotion.ParseCategory(rest)
		if err != nil {
			return err
		}
		return p.m.ChooseCategory(c)
	case "toggle":
		for _, id := range strings.Fields(rest) {
			if _, err := p.m.ToggleEmotion(emotion.ID(id)); err != nil {
				return err
			}
		}
		return nil
	case "back":
		return p.m.Back()
	case "submit":
		var err error
		if p.m.Snapshot().State.Kind() == journey.KindFreeTextInput {
			err = p.m.SubmitStoryRequest()
		} else {
			err = p.m.SubmitFeelingRequest()
		}
		if err != nil {
			return err
		}
		p.settle(ctx)
		return nil
	case "retry":
		if err := p.m.RetryLastRequest(); err != nil {
			return err
		}
		p.settle(ctx)
		return nil
	case "elaborate":
		return p.m.Elaborate()
	case "story":
		return p.m.SetStoryText(rest)
	case "cancel":
		return p.m.CancelGeneration()
	case "restart", "startover":
		return p.m.StartOver()
	case "probe":
		p.m.ProbeAvailability(ctx)
		return nil
	case "save":
		return p.save(rest)
	case "show":
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

// settle waits for the outstanding call. An interrupt cancels it.
func (p *presenter) settle(ctx context.Context) {
	fmt.Fprintln(p.out, "drawing...")
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := time.Now()
	if _, err := p.m.Await(sigCtx, journey.Settled); err != nil && ctx.Err() == nil {
		if cerr := p.m.CancelGeneration(); cerr == nil {
			fmt.Fprintln(p.out, "canceled")
		}
		return
	}
	log.Debug().Dur("waited", time.Since(start)).Msg("generation settled")
}

func (p *presenter) save(path string) error {
	if path == "" {
		return errors.New("save needs a file name")
	}
	s := p.m.Snapshot()
	switch {
	case s.Story != nil:
		return writeImage(path, s.Story.Image)
	case s.Feeling != nil:
		return writeImage(path, s.Feeling.Image)
	default:
		return errors.New("nothing drawn yet")
	}
}

func (p *presenter) render(s journey.Snapshot) {
	w := p.out
	fmt.Fprintf(w, "[%s]\n", s.State.Kind())
	switch st := s.State.(type) {
	case journey.Initial:
		fmt.Fprintln(w, "Ready to draw your feelings? Type 'begin'.")
	case journey.QuestionnaireLevel1:
		fmt.Fprintln(w, "How are you feeling? category good | bad | not_sure")
	case journey.QuestionnaireLevel2:
		fmt.Fprintln(w, "Pick what fits (toggle <id>), then 'submit':")
		for _, e := range emotion.ForCategory(s.Input.Category) {
			mark := " "
			for _, id := range s.Input.Emotions {
				if id == e.ID {
					mark = "x"
				}
			}
			fmt.Fprintf(w, "  [%s] %-12s %s\n", mark, e.ID, e.Label)
		}
	case journey.Generating:
		fmt.Fprintln(w, "drawing...")
	case journey.FeelingReady:
		renderArtifact(w, &st.Result.Artifact)
		fmt.Fprintln(w, "Want to say more? 'elaborate', or 'restart'.")
	case journey.FreeTextInput:
		n := utf8.RuneCountInString(strings.TrimSpace(s.Input.StoryText))
		fmt.Fprintf(w, "Tell the story behind it (story <text>), %d/%d characters.\n", n, emotion.MinStoryLength)
		if emotion.CanSubmitStory(s.Input.StoryText) {
			fmt.Fprintln(w, "Ready: 'submit'.")
		}
	case journey.StoryReady:
		renderArtifact(w, &st.Result.Artifact)
		renderAnalysis(w, st.Result.Analysis)
		fmt.Fprintln(w, "'restart' to begin again.")
	}
	if f := s.Failure; f != nil {
		fmt.Fprintf(w, "! %s (%s)\n", f.Message, f.Code)
		if s.CanRetry() {
			fmt.Fprintln(w, "  'retry' or 'restart'")
		} else {
			fmt.Fprintln(w, "  'restart' to begin again")
		}
	}
	if s.Available == journey.Unavailable {
		fmt.Fprintln(w, "(service unavailable at last probe)")
	}
}

var corners = []string{"top left", "top right", "bottom left", "bottom right"}

func renderAnalysis(w io.Writer, a emotion.Analysis) {
	fmt.Fprintf(w, "language: %s\n", languageName(a.Language))
	fmt.Fprintf(w, "at the centre: %s\n", a.CentralStressor)
	for i, f := range a.Factors {
		pos := "around"
		if i < len(corners) {
			pos = corners[i]
		}
		fmt.Fprintf(w, "  %-12s %s: %s\n", pos, f.Label, f.Insight)
	}
}

// languageName renders a language code as "English" or "Chinese (中文)".
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if self := display.Self.Name(tag); self != "" && self != name {
		return fmt.Sprintf("%s (%s)", name, self)
	}
	return name
}

func describeError(err error) string {
	switch {
	case errors.Is(err, journey.ErrWrongState):
		return "that does not apply right now"
	case errors.Is(err, journey.ErrNoEmotions):
		return "pick at least one emotion first"
	case errors.Is(err, journey.ErrStoryTooShort):
		return fmt.Sprintf("tell a little more: at least %d characters", emotion.MinStoryLength)
	case errors.Is(err, journey.ErrStoryTooLong):
		return fmt.Sprintf("that is more than %d characters", emotion.MaxStoryLength)
	case errors.Is(err, journey.ErrNotRetryable):
		return "nothing to retry"
	}
	return err.Error()
}
