package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yildizm/Koryaku/internal/config"
	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/monitor"
	"github.com/yildizm/Koryaku/internal/sequencer"
	"github.com/yildizm/Koryaku/internal/session"
	"github.com/yildizm/Koryaku/internal/snapshot"
)

var errNotAccepted = errors.New("generate was not accepted")

type generateOptions struct {
	fields  snapshot.Fields
	count   int
	copy    bool
	instant bool
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate strategies without the interactive screen",
		Long: `Generate one or more strategies straight to the terminal.

The analysis animation runs on a single redrawn line and the strategy is
revealed letter by letter. When output is not a terminal, only the final
strategies are printed, one per line.`,
		Example: `  # One strategy for your current machine
  koryaku generate --rotation 250 --big-win 2 --top 7 --area center

  # Five strategies, no animation, as JSON
  koryaku generate --count 5 --instant -o json

  # Copy the last strategy to the clipboard
  koryaku generate --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fields.Rotation, "rotation", "", "rotation count")
	cmd.Flags().StringVar(&opts.fields.BigWin, "big-win", "", "big wins today")
	cmd.Flags().StringVar(&opts.fields.TopSymbol, "top", "", "top reel symbol")
	cmd.Flags().StringVar(&opts.fields.MiddleSymbol, "middle", "", "middle reel symbol")
	cmd.Flags().StringVar(&opts.fields.BottomSymbol, "bottom", "", "bottom reel symbol")
	cmd.Flags().StringVar(&opts.fields.AreaPosition, "area", "", "area position")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of strategies to generate")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the last strategy to the clipboard")
	cmd.Flags().BoolVar(&opts.instant, "instant", false, "skip the analysis and reveal delays")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cfg := GetGlobalConfig()
	if err := validateGenerateOptions(cfg, opts); err != nil {
		return err
	}

	format := getOutputFormat()
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported output format for generate: %s (use text or json)", format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	sink := newTerminalSink(out, cmd.ErrOrStderr(), format == "text" && isTerminal(out))

	log := newLogger()
	sessionOpts := sessionOptions(cfg, log)
	if opts.instant {
		sessionOpts.Sleeper = sequencer.Instant
	}
	controller := session.NewController(sink, session.SystemClipboard{}, sessionOpts)

	if err := controller.Load(ctx, newSource(cfg)); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	sink.Reset()

	for i := 0; i < opts.count; i++ {
		accepted, err := controller.Generate(ctx, opts.fields)
		if err != nil {
			sink.Reset()
			return err
		}
		if !accepted {
			return errNotAccepted
		}

		state := controller.State()
		if format == "json" {
			if err := writeGenerateJSON(out, state, controller.StatusText()); err != nil {
				return err
			}
		} else {
			sink.Finish()
		}
		log.Debug("generated %d of %d: %s", i+1, opts.count, controller.StatusText())
	}

	if opts.copy {
		// A canceled context skips the on-screen confirmation pause
		copyCtx, cancel := context.WithCancel(ctx)
		cancel()
		if err := controller.Copy(copyCtx); err != nil {
			return err
		}
	}

	if isVerbose() {
		fmt.Fprintln(cmd.ErrOrStderr(), sink.Status())
		fmt.Fprint(cmd.ErrOrStderr(), monitor.FormatText(controller.Metrics()))
	}
	return nil
}

// validateGenerateOptions checks selector flags against the configured options
func validateGenerateOptions(cfg *config.Config, opts *generateOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	selectors := []struct {
		flag    string
		value   string
		options []string
	}{
		{"top", opts.fields.TopSymbol, cfg.Inputs.Symbols},
		{"middle", opts.fields.MiddleSymbol, cfg.Inputs.Symbols},
		{"bottom", opts.fields.BottomSymbol, cfg.Inputs.Symbols},
		{"area", opts.fields.AreaPosition, cfg.Inputs.Areas},
	}
	for _, s := range selectors {
		if s.value != "" && !slices.Contains(s.options, s.value) {
			return fmt.Errorf("invalid --%s value %q (choose from %s)", s.flag, s.value, strings.Join(s.options, ", "))
		}
	}
	return nil
}

type generateJSON struct {
	Strategy string `json:"strategy"`
	Shown    int    `json:"shown"`
	Total    int    `json:"total"`
	Status   string `json:"status"`
}

func writeGenerateJSON(w io.Writer, state session.State, status string) error {
	data, err := json.Marshal(generateJSON{
		Strategy: state.CurrentText,
		Shown:    state.Shown,
		Total:    state.Total,
		Status:   status,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal strategy: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalSink is a session.View for plain terminals. On a tty the result
// area is one line redrawn in place; otherwise only finished results are
// printed.
type terminalSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	redraw bool

	result  string
	status  string
	drawn   bool
	copied  bool
	pending bool
}

func newTerminalSink(out, errOut io.Writer, redraw bool) *terminalSink {
	return &terminalSink{out: out, errOut: errOut, redraw: redraw}
}

func (s *terminalSink) ShowResult(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = text
	s.pending = true
	if s.redraw {
		fmt.Fprintf(s.out, "\r\033[K%s", text)
		s.drawn = true
	}
}

func (s *terminalSink) ShowFailure(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLine()
	s.result = text
	s.pending = false
	fmt.Fprintln(s.errOut, text)
}

func (s *terminalSink) ShowStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
}

func (s *terminalSink) SetAnalyzing(bool)       {}
func (s *terminalSink) SetGenerateEnabled(bool) {}
func (s *terminalSink) SetCopyEnabled(bool)     {}

func (s *terminalSink) ShowCopyLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label != session.CopiedLabel() || s.copied {
		return
	}
	s.copied = true
	fmt.Fprintln(s.errOut, label)
}

func (s *terminalSink) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLine()
	fmt.Fprintln(s.errOut, emoji.Prefix("warning")+message)
}

// Reset drops whatever the result area shows, such as load messages
func (s *terminalSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLine()
	s.result = ""
	s.pending = false
}

// Finish ends the current result line
func (s *terminalSink) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return
	}
	if s.redraw {
		fmt.Fprintln(s.out)
	} else {
		fmt.Fprintln(s.out, s.result)
	}
	s.drawn = false
	s.pending = false
}

// Status returns the last status line
func (s *terminalSink) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *terminalSink) clearLine() {
	if s.redraw && s.drawn {
		fmt.Fprint(s.out, "\r\033[K")
		s.drawn = false
	}
}
