package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yildizm/Koryaku/internal/monitor"
	"github.com/yildizm/Koryaku/internal/sequencer"
	"github.com/yildizm/Koryaku/internal/snapshot"
	"github.com/yildizm/Koryaku/internal/templates"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeView struct {
	mu              sync.Mutex
	results         []string
	failures        []string
	statuses        []string
	alerts          []string
	copyLabels      []string
	generateEnabled bool
	copyEnabled     bool
	analyzing       bool
}

func (v *fakeView) ShowResult(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = append(v.results, text)
}

func (v *fakeView) ShowFailure(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failures = append(v.failures, text)
}

func (v *fakeView) ShowStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, text)
}

func (v *fakeView) SetAnalyzing(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.analyzing = active
}

func (v *fakeView) SetGenerateEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generateEnabled = enabled
}

func (v *fakeView) SetCopyEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.copyEnabled = enabled
}

func (v *fakeView) ShowCopyLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.copyLabels = append(v.copyLabels, label)
}

func (v *fakeView) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alerts = append(v.alerts, message)
}

func (v *fakeView) lastStatus() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return ""
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) lastResult() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.results) == 0 {
		return ""
	}
	return v.results[len(v.results)-1]
}

func (v *fakeView) enabled() (generate, copyOn bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generateEnabled, v.copyEnabled
}

type fakeClipboard struct {
	mu      sync.Mutex
	written []string
	err     error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

// gateSleeper blocks the first Sleep call until released
type gateSleeper struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGateSleeper() *gateSleeper {
	return &gateSleeper{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	first := false
	g.once.Do(func() { first = true })
	if !first {
		return ctx.Err()
	}
	close(g.entered)
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newController(t *testing.T, sleeper sequencer.Sleeper, clip Clipboard) (*Controller, *fakeView) {
	t.Helper()
	view := &fakeView{}
	c := NewController(view, clip, Options{
		Timing:  sequencer.DefaultTiming(),
		Sleeper: sleeper,
		Rand:    rand.New(rand.NewPCG(11, 13)),
	})
	return c, view
}

func loadABC(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Load(context.Background(), &templates.StringSource{Text: "pattern\nA\nB\nC\n"}))
}

func TestLoadSuccess(t *testing.T) {
	c, view := newController(t, sequencer.Instant, &fakeClipboard{})
	assert.Equal(t, PhaseLoading, c.State().Phase)

	loadABC(t, c)

	state := c.State()
	assert.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, 0, state.Shown)
	assert.Equal(t, "0 / 3 shown", view.lastStatus())
	assert.Contains(t, view.lastResult(), "3 strategies loaded")

	generate, copyEnabled := view.enabled()
	assert.True(t, generate)
	assert.False(t, copyEnabled)

	assert.ErrorIs(t, c.Load(context.Background(), &templates.StringSource{Text: "h\nX"}), errAlreadyLoaded)
}

func TestLoadHeaderOnlyFails(t *testing.T) {
	c, view := newController(t, sequencer.Instant, &fakeClipboard{})

	err := c.Load(context.Background(), &templates.StringSource{Label: "templates.csv", Text: "pattern\n"})
	require.Error(t, err)
	assert.ErrorIs(t, err, templates.ErrEmpty)

	state := c.State()
	assert.Equal(t, PhaseFailed, state.Phase)
	assert.ErrorIs(t, state.Err, templates.ErrEmpty)

	generate, _ := view.enabled()
	assert.False(t, generate)
	require.Len(t, view.failures, 1)
	assert.Contains(t, view.failures[0], "templates file has no data")
	assert.Contains(t, view.failures[0], "templates.csv")

	accepted, err := c.Generate(context.Background(), snapshot.Fields{})
	assert.False(t, accepted)
	assert.NoError(t, err)

	generate, _ = view.enabled()
	assert.False(t, generate, "generate stays disabled after a failed load")
}

func TestGenerateBeforeLoadIsNoop(t *testing.T) {
	c, view := newController(t, sequencer.Instant, &fakeClipboard{})

	accepted, err := c.Generate(context.Background(), snapshot.Fields{})
	assert.False(t, accepted)
	assert.NoError(t, err)
	assert.Empty(t, view.results)
}

func TestGenerateRevealsTemplate(t *testing.T) {
	c, view := newController(t, sequencer.Instant, &fakeClipboard{})
	loadABC(t, c)

	accepted, err := c.Generate(context.Background(), snapshot.Fields{Rotation: "200"})
	require.NoError(t, err)
	assert.True(t, accepted)

	state := c.State()
	assert.Equal(t, PhaseReady, state.Phase)
	assert.True(t, state.HasCurrent)
	assert.Contains(t, []string{"A", "B", "C"}, state.CurrentText)
	assert.Equal(t, state.CurrentText, view.lastResult())
	assert.Equal(t, "1 / 3 shown", view.lastStatus())

	generate, copyEnabled := view.enabled()
	assert.True(t, generate)
	assert.True(t, copyEnabled)
	assert.False(t, view.analyzing)
}

func TestGenerateWhileGeneratingIsNoop(t *testing.T) {
	gate := newGateSleeper()
	c, view := newController(t, gate, &fakeClipboard{})
	loadABC(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background(), snapshot.Fields{})
		done <- err
	}()

	<-gate.entered
	assert.Equal(t, PhaseGenerating, c.State().Phase)
	generate, _ := view.enabled()
	assert.False(t, generate)

	accepted, err := c.Generate(context.Background(), snapshot.Fields{})
	assert.False(t, accepted)
	assert.NoError(t, err)
	assert.False(t, c.State().HasCurrent)
	assert.Equal(t, "", c.State().CurrentText)

	close(gate.release)
	require.NoError(t, <-done)

	state := c.State()
	assert.True(t, state.HasCurrent)
	assert.Equal(t, 1, state.Shown)
}

func TestFullCycleAndReshuffle(t *testing.T) {
	c, view := newController(t, sequencer.Instant, &fakeClipboard{})
	loadABC(t, c)

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		accepted, err := c.Generate(context.Background(), snapshot.Fields{})
		require.NoError(t, err)
		require.True(t, accepted)
		seen[c.State().CurrentText] = true
	}
	assert.Len(t, seen, 3, "every template shown once before any repeat")

	status := view.lastStatus()
	assert.True(t, strings.HasPrefix(status, "3 / 3 shown"))
	assert.Contains(t, status, "all shown")

	accepted, err := c.Generate(context.Background(), snapshot.Fields{})
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, "1 / 3 shown", view.lastStatus())
	assert.Equal(t, 1, c.State().Shown)
}

func TestGenerateInterrupted(t *testing.T) {
	gate := newGateSleeper()
	c, view := newController(t, gate, &fakeClipboard{})
	loadABC(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(ctx, snapshot.Fields{})
		done <- err
	}()

	<-gate.entered
	cancel()
	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))

	state := c.State()
	assert.Equal(t, PhaseReady, state.Phase)
	assert.False(t, state.HasCurrent)
	generate, copyEnabled := view.enabled()
	assert.True(t, generate)
	assert.False(t, copyEnabled)
	assert.Equal(t, "0 / 3 shown", c.StatusText(), "the session lock is released after an interruption")
}

func TestCopy(t *testing.T) {
	clip := &fakeClipboard{}
	c, view := newController(t, sequencer.Instant, clip)
	loadABC(t, c)

	require.NoError(t, c.Copy(context.Background()))
	assert.Empty(t, clip.written, "nothing to copy before the first reveal")

	_, err := c.Generate(context.Background(), snapshot.Fields{})
	require.NoError(t, err)

	require.NoError(t, c.Copy(context.Background()))
	assert.Equal(t, []string{c.State().CurrentText}, clip.written)

	labels := view.copyLabels
	require.GreaterOrEqual(t, len(labels), 2)
	assert.Equal(t, CopiedLabel(), labels[len(labels)-2])
	assert.Equal(t, CopyLabel(), labels[len(labels)-1])
}

func TestCopyConfirmationDuration(t *testing.T) {
	var slept []time.Duration
	var mu sync.Mutex
	sleeper := sequencer.SleeperFunc(func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
		return ctx.Err()
	})

	c, _ := newController(t, sleeper, &fakeClipboard{})
	loadABC(t, c)
	_, err := c.Generate(context.Background(), snapshot.Fields{})
	require.NoError(t, err)

	mu.Lock()
	before := len(slept)
	mu.Unlock()

	require.NoError(t, c.Copy(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, slept, before+1)
	assert.Equal(t, DefaultCopyConfirm, slept[before])
}

func TestCopyFailure(t *testing.T) {
	clip := &fakeClipboard{}
	c, view := newController(t, sequencer.Instant, clip)
	loadABC(t, c)
	_, err := c.Generate(context.Background(), snapshot.Fields{})
	require.NoError(t, err)

	before := c.State()
	clip.err = errors.New("no clipboard utility")

	err = c.Copy(context.Background())
	require.Error(t, err)

	var clipErr *ClipboardError
	require.True(t, errors.As(err, &clipErr))
	require.Len(t, view.alerts, 1)
	assert.Contains(t, view.alerts[0], "no clipboard utility")
	assert.Equal(t, before, c.State())
}

func TestMetricsRecordOperations(t *testing.T) {
	clip := &fakeClipboard{}
	c, _ := newController(t, sequencer.Instant, clip)
	loadABC(t, c)

	for i := 0; i < 4; i++ {
		_, err := c.Generate(context.Background(), snapshot.Fields{})
		require.NoError(t, err)
	}
	require.NoError(t, c.Copy(context.Background()))

	clip.err = errors.New("no clipboard utility")
	require.Error(t, c.Copy(context.Background()))

	metrics := c.Metrics()
	assert.Equal(t, int64(1), metrics.Operation(monitor.OperationLoad).Count)
	assert.Equal(t, int64(4), metrics.Operation(monitor.OperationAnalysis).Count)
	assert.Equal(t, int64(4), metrics.Operation(monitor.OperationReveal).Count)
	assert.Equal(t, int64(2), metrics.Operation(monitor.OperationCopy).Count)
	assert.Equal(t, int64(1), metrics.Operation(monitor.OperationCopy).ErrorCount)
	assert.Equal(t, int64(4), metrics.Counters[monitor.CounterGenerated])
	assert.Equal(t, int64(1), metrics.Counters[monitor.CounterReshuffles])
}

func TestMetricsCountInterruptions(t *testing.T) {
	c, _ := newController(t, sequencer.Instant, &fakeClipboard{})
	loadABC(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Generate(ctx, snapshot.Fields{})
	require.Error(t, err)

	metrics := c.Metrics()
	assert.Equal(t, int64(1), metrics.Counters[monitor.CounterInterrupted])
	assert.Equal(t, int64(1), metrics.Operation(monitor.OperationAnalysis).ErrorCount)
	assert.Zero(t, metrics.Counters[monitor.CounterGenerated])
}

func TestStatusTextBeforeLoad(t *testing.T) {
	c, _ := newController(t, sequencer.Instant, &fakeClipboard{})
	assert.Equal(t, "", c.StatusText())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "generating", PhaseGenerating.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
