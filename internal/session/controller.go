// Package session implements the controller that ties user actions to the
// template store and the presentation sequencer.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/logger"
	"github.com/yildizm/Koryaku/internal/monitor"
	"github.com/yildizm/Koryaku/internal/sequencer"
	"github.com/yildizm/Koryaku/internal/snapshot"
	"github.com/yildizm/Koryaku/internal/templates"
)

// DefaultCopyConfirm is how long the copy control shows its confirmation
const DefaultCopyConfirm = 1500 * time.Millisecond

var errAlreadyLoaded = errors.New("templates already loaded")

// Phase is the lifecycle state of a session
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseGenerating
	PhaseFailed
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseGenerating:
		return "generating"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a copy of the session state
type State struct {
	Phase       Phase
	CurrentText string
	HasCurrent  bool
	Shown       int
	Total       int
	Err         error
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Timing      sequencer.Timing
	CopyConfirm time.Duration
	Sleeper     sequencer.Sleeper
	Rand        *rand.Rand
	Logger      *logger.Logger
	Metrics     *monitor.Collector
}

// Controller owns one session: the store, the presentation sequencer and the
// generate guard. At most one generate sequence runs at a time; a generate
// requested while loading, failed or already generating is a silent no-op.
type Controller struct {
	mu         sync.Mutex
	phase      Phase
	store      *templates.Store
	current    templates.Template
	hasCurrent bool
	loadErr    error
	copySeq    uint64

	view        View
	clipboard   Clipboard
	sequencer   *sequencer.Sequencer
	sleeper     sequencer.Sleeper
	rng         *rand.Rand
	copyConfirm time.Duration
	log         *logger.Logger
	metrics     *monitor.Collector
}

// NewController creates a controller in the loading phase
func NewController(view View, clip Clipboard, opts Options) *Controller {
	if opts.Sleeper == nil {
		opts.Sleeper = sequencer.RealSleeper{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 - presentation order
	}
	if opts.CopyConfirm <= 0 {
		opts.CopyConfirm = DefaultCopyConfirm
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if clip == nil {
		clip = SystemClipboard{}
	}
	if opts.Metrics == nil {
		opts.Metrics = monitor.New()
	}

	return &Controller{
		phase:       PhaseLoading,
		view:        view,
		clipboard:   clip,
		sequencer:   sequencer.New(view, opts.Sleeper, opts.Timing, opts.Rand),
		sleeper:     opts.Sleeper,
		rng:         opts.Rand,
		copyConfirm: opts.CopyConfirm,
		log:         opts.Logger.WithComponent("session"),
		metrics:     opts.Metrics,
	}
}

// CopyLabel is the resting label of the copy control
func CopyLabel() string {
	return emoji.Prefix("clipboard") + "Copy"
}

// CopiedLabel is the label shown after a successful copy
func CopiedLabel() string {
	return emoji.Prefix("success") + "Copied!"
}

// Load fetches the templates and moves the session to ready, or to the
// terminal failed phase. It may only be called once.
func (c *Controller) Load(ctx context.Context, source templates.Source) error {
	c.mu.Lock()
	if c.phase != PhaseLoading || c.store != nil || c.loadErr != nil {
		c.mu.Unlock()
		return errAlreadyLoaded
	}
	c.mu.Unlock()

	c.view.SetGenerateEnabled(false)
	c.view.SetCopyEnabled(false)
	c.view.ShowCopyLabel(CopyLabel())
	c.view.ShowResult(emoji.Prefix("loading") + "Loading strategy data...")

	start := time.Now()
	var store *templates.Store
	err := c.metrics.TrackOperationWithError(monitor.OperationLoad, func() (err error) {
		store, err = templates.Load(ctx, source, c.rng)
		return err
	})
	if err != nil {
		c.mu.Lock()
		c.phase = PhaseFailed
		c.loadErr = err
		c.mu.Unlock()

		c.log.ErrorWithFields("failed to load templates", []logger.Field{logger.Source(source.Name()), logger.Error(err)})
		c.view.ShowFailure(failureText(source.Name(), err))
		return err
	}

	c.mu.Lock()
	c.store = store
	c.phase = PhaseReady
	c.mu.Unlock()

	c.log.InfoWithFields("templates loaded", []logger.Field{
		logger.Source(source.Name()),
		logger.Count(store.TotalCount()),
		logger.Duration(time.Since(start)),
	})

	c.view.ShowResult(fmt.Sprintf("%s%d strategies loaded. Enter your data and press generate.",
		emoji.Prefix("success"), store.TotalCount()))
	c.view.ShowStatus(c.StatusText())
	c.view.SetGenerateEnabled(true)
	return nil
}

// failureText is the message shown when loading fails
func failureText(source string, err error) string {
	reason := err.Error()
	var loadErr *templates.LoadError
	if errors.As(err, &loadErr) {
		reason = loadErr.Message
	}
	return fmt.Sprintf("%sError: %s\n\nCheck that %s exists and contains templates.",
		emoji.Prefix("error"), reason, source)
}

// Generate runs one full generate sequence: capture the snapshot, simulate
// analysis, take the next template and reveal it. It returns false without
// doing anything when the session is not ready. An error is only returned
// when ctx ends mid-sequence; the session is ready again afterwards.
func (c *Controller) Generate(ctx context.Context, fields snapshot.Fields) (bool, error) {
	c.mu.Lock()
	if c.phase != PhaseReady {
		c.mu.Unlock()
		return false, nil
	}
	c.phase = PhaseGenerating
	store := c.store
	c.mu.Unlock()

	runID := uuid.NewString()
	start := time.Now()

	if store.Exhausted() {
		store.Reshuffle()
		c.metrics.Inc(monitor.CounterReshuffles)
		c.log.DebugWithFields("reshuffled template pool", []logger.Field{logger.RunID(runID), logger.Count(store.TotalCount())})
		c.view.ShowStatus(c.StatusText())
	}

	snap := snapshot.Capture(fields)
	c.log.DebugWithFields("generate started", []logger.Field{
		logger.RunID(runID),
		logger.F("rotations", snap.RotationCount),
		logger.F("big_wins", snap.BigWinCount),
		logger.F("analysis", c.sequencer.AnalysisDuration(snap)),
	})

	c.view.SetGenerateEnabled(false)
	c.view.SetCopyEnabled(false)
	c.view.SetAnalyzing(true)

	err := c.metrics.TrackOperationWithError(monitor.OperationAnalysis, func() error {
		return c.sequencer.SimulateAnalysis(ctx, snap)
	})
	c.view.SetAnalyzing(false)
	if err != nil {
		c.abortGenerate(runID, err)
		return true, fmt.Errorf("analysis interrupted: %w", err)
	}

	next := store.Next()
	err = c.metrics.TrackOperationWithError(monitor.OperationReveal, func() error {
		return c.sequencer.Reveal(ctx, next.String())
	})
	if err != nil {
		c.abortGenerate(runID, err)
		return true, fmt.Errorf("reveal interrupted: %w", err)
	}

	c.mu.Lock()
	c.current = next
	c.hasCurrent = true
	c.phase = PhaseReady
	c.mu.Unlock()

	c.metrics.Inc(monitor.CounterGenerated)
	c.log.DebugWithFields("generate finished", []logger.Field{
		logger.RunID(runID),
		logger.Duration(time.Since(start)),
		logger.F("shown", store.ShownCount()),
	})

	c.view.SetCopyEnabled(true)
	c.view.SetGenerateEnabled(true)
	c.view.ShowStatus(c.StatusText())
	return true, nil
}

func (c *Controller) abortGenerate(runID string, err error) {
	c.mu.Lock()
	c.phase = PhaseReady
	hasCurrent := c.hasCurrent
	c.mu.Unlock()

	c.metrics.Inc(monitor.CounterInterrupted)
	c.log.ErrorWithFields("generate interrupted", []logger.Field{logger.RunID(runID), logger.Error(err)})
	c.view.SetCopyEnabled(hasCurrent)
	c.view.SetGenerateEnabled(true)
	c.view.ShowStatus(c.StatusText())
}

// Copy writes the current text to the clipboard. Nothing happens before the
// first reveal or while generating. On success the copy control shows a
// confirmation for the configured duration; only the latest copy reverts
// it. Failures raise an alert and return a *ClipboardError.
func (c *Controller) Copy(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasCurrent || c.phase != PhaseReady {
		c.mu.Unlock()
		return nil
	}
	text := c.current.String()
	c.copySeq++
	seq := c.copySeq
	c.mu.Unlock()

	err := c.metrics.TrackOperationWithError(monitor.OperationCopy, func() error {
		return c.clipboard.WriteAll(text)
	})
	if err != nil {
		c.log.ErrorWithFields("clipboard write failed", []logger.Field{logger.Error(err)})
		c.view.Alert("Copy failed: " + err.Error())
		return &ClipboardError{Err: err}
	}

	c.view.ShowCopyLabel(CopiedLabel())

	if err := c.sleeper.Sleep(ctx, c.copyConfirm); err != nil {
		c.log.Debug("copy confirmation cut short: %v", err)
	}

	c.mu.Lock()
	latest := seq == c.copySeq
	c.mu.Unlock()
	if latest {
		c.view.ShowCopyLabel(CopyLabel())
	}
	return nil
}

// State returns a copy of the session state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Phase:       c.phase,
		CurrentText: c.current.String(),
		HasCurrent:  c.hasCurrent,
		Err:         c.loadErr,
	}
	if c.store != nil {
		state.Shown = c.store.ShownCount()
		state.Total = c.store.TotalCount()
	}
	return state
}

// Metrics returns the operation timings and counters recorded so far
func (c *Controller) Metrics() monitor.Snapshot {
	return c.metrics.Snapshot()
}

// StatusText is the progress line: shown/total, annotated once every
// template of the current cycle has been shown.
func (c *Controller) StatusText() string {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return ""
	}

	remaining := store.RemainingCount()
	total := store.TotalCount()
	status := fmt.Sprintf("%d / %d shown", total-remaining, total)
	if remaining == 0 {
		status += " - all shown! Reshuffling on the next generate."
	}
	return status
}
