// Package sequencer drives the two presentation phases of a generate
// action: a cosmetic "analysis" animation followed by a rune-by-rune reveal
// of the chosen template.
package sequencer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/snapshot"
)

// maxDots is the longest ellipsis shown after an analysis message
const maxDots = 3

// Sink receives the text of the result area
type Sink interface {
	ShowResult(text string)
}

// Timing configures every delay used by the sequencer
type Timing struct {
	DotInterval     time.Duration // ellipsis redraw period
	MessageInterval time.Duration // message advance period
	AnalysisBase    time.Duration // minimum analysis duration
	PerRotation     time.Duration // added per rotation counted
	PerBigWin       time.Duration // added per big win counted
	ComplexityCap   time.Duration // upper bound of the rotation/big-win part
	AnalysisJitter  time.Duration // uniform jitter in [0, AnalysisJitter)
	RevealDelay     time.Duration // minimum pause after each revealed rune
	RevealJitter    time.Duration // uniform jitter in [0, RevealJitter)
}

// DefaultTiming returns the standard presentation timing
func DefaultTiming() Timing {
	return Timing{
		DotInterval:     250 * time.Millisecond,
		MessageInterval: 800 * time.Millisecond,
		AnalysisBase:    2000 * time.Millisecond,
		PerRotation:     10 * time.Microsecond,
		PerBigWin:       50 * time.Millisecond,
		ComplexityCap:   1500 * time.Millisecond,
		AnalysisJitter:  500 * time.Millisecond,
		RevealDelay:     20 * time.Millisecond,
		RevealJitter:    20 * time.Millisecond,
	}
}

// Sequencer renders the analysis and reveal phases onto a Sink.
// It does not guard against overlapping invocations; callers serialize.
type Sequencer struct {
	sink    Sink
	sleeper Sleeper
	timing  Timing

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a sequencer. Non-positive tick intervals fall back to the
// defaults so the analysis timeline always advances.
func New(sink Sink, sleeper Sleeper, timing Timing, rng *rand.Rand) *Sequencer {
	defaults := DefaultTiming()
	if timing.DotInterval <= 0 {
		timing.DotInterval = defaults.DotInterval
	}
	if timing.MessageInterval <= 0 {
		timing.MessageInterval = defaults.MessageInterval
	}
	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 - cosmetic jitter
	}

	return &Sequencer{
		sink:    sink,
		sleeper: sleeper,
		timing:  timing,
		rng:     rng,
	}
}

// Messages returns the analysis status messages for snap, in display order
func Messages(snap snapshot.Snapshot) []string {
	return []string{
		fmt.Sprintf("%sAnalyzing %d rotations", emoji.Prefix("rotation"), snap.RotationCount),
		fmt.Sprintf("%sParsing today's %d big wins", emoji.Prefix("big_win"), snap.BigWinCount),
		fmt.Sprintf("%sVerifying reel pattern (top:%s / middle:%s / bottom:%s)",
			emoji.Prefix("reels"), snap.TopSymbol, snap.MiddleSymbol, snap.BottomSymbol),
		fmt.Sprintf("%sAnalyzing focus area %s", emoji.Prefix("area"), snap.AreaPosition),
		emoji.Prefix("robot") + "AI is calculating the optimal strategy",
		emoji.Prefix("database") + "Cross-checking the database",
		emoji.Prefix("target") + "Generating recommended steps",
	}
}

// AnalysisDuration returns the jitter-free analysis duration for snap:
// the base delay plus a capped term that grows with rotations and big wins.
func (s *Sequencer) AnalysisDuration(snap snapshot.Snapshot) time.Duration {
	complexity := float64(snap.RotationCount)*float64(s.timing.PerRotation) +
		float64(snap.BigWinCount)*float64(s.timing.PerBigWin)
	if complexity > float64(s.timing.ComplexityCap) {
		complexity = float64(s.timing.ComplexityCap)
	}
	if complexity < 0 {
		complexity = 0
	}
	return s.timing.AnalysisBase + time.Duration(complexity)
}

// SimulateAnalysis shows the analysis messages until the analysis duration
// (plus jitter) has elapsed. Dot ticks redraw the current message with a
// cycling ellipsis; message ticks advance to the next message. When both
// fall on the same instant the message advances first.
func (s *Sequencer) SimulateAnalysis(ctx context.Context, snap snapshot.Snapshot) error {
	total := s.AnalysisDuration(snap) + s.jitter(s.timing.AnalysisJitter)
	messages := Messages(snap)

	messageIndex, dotCount := 0, 0
	s.sink.ShowResult(messages[messageIndex])

	var elapsed time.Duration
	nextDot := s.timing.DotInterval
	nextMessage := s.timing.MessageInterval

	for {
		next := min(nextDot, nextMessage, total)
		if err := s.sleeper.Sleep(ctx, next-elapsed); err != nil {
			return err
		}
		elapsed = next

		if elapsed >= total {
			return nil
		}

		if elapsed == nextMessage {
			messageIndex = (messageIndex + 1) % len(messages)
			nextMessage += s.timing.MessageInterval
		}
		if elapsed == nextDot {
			dotCount = (dotCount + 1) % (maxDots + 1)
			s.sink.ShowResult(messages[messageIndex] + strings.Repeat(".", dotCount))
			nextDot += s.timing.DotInterval
		}
	}
}

// Reveal clears the result and then shows text one rune at a time, pausing
// after every rune. Each intermediate state is a prefix of text one rune
// longer than the previous one.
func (s *Sequencer) Reveal(ctx context.Context, text string) error {
	s.sink.ShowResult("")

	var shown strings.Builder
	shown.Grow(len(text))

	for _, r := range text {
		shown.WriteRune(r)
		s.sink.ShowResult(shown.String())

		if err := s.sleeper.Sleep(ctx, s.timing.RevealDelay+s.jitter(s.timing.RevealJitter)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return time.Duration(s.rng.Int64N(int64(limit)))
}
