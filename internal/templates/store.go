package templates

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
)

// Store holds the template pool and the remaining queue of the current
// shuffle cycle. Templates are handed out in random order without repetition
// until the queue is exhausted, then the full pool is reshuffled.
type Store struct {
	mu    sync.Mutex
	pool  []Template
	queue []Template
	rng   *rand.Rand
}

// NewStore creates a store over pool. pool must be non-empty. A nil rng is
// replaced by a randomly seeded generator.
func NewStore(pool []Template, rng *rand.Rand) (*Store, error) {
	if len(pool) == 0 {
		return nil, newEmptyError("")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) // #nosec G404 - presentation order, not security
	}

	s := &Store{
		pool: append([]Template(nil), pool...),
		rng:  rng,
	}
	s.reshuffle()
	return s, nil
}

// Load fetches source, parses it and returns a ready store.
// All failures are reported as *LoadError.
func Load(ctx context.Context, source Source, rng *rand.Rand) (*Store, error) {
	text, err := source.Fetch(ctx)
	if err != nil {
		return nil, newNotFoundError(source.Name(), err)
	}

	pool, err := Parse(text)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Source = source.Name()
		}
		return nil, err
	}

	return NewStore(pool, rng)
}

// Shuffle returns a uniformly random permutation of items using Fisher-Yates.
// items is not modified.
func Shuffle(items []Template, rng *rand.Rand) []Template {
	out := append([]Template(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Next removes and returns the head of the queue, reshuffling first if the
// queue is empty. A template can repeat back-to-back only across a
// reshuffle boundary.
func (s *Store) Next() Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		s.reshuffle()
	}

	next := s.queue[0]
	s.queue = s.queue[1:]
	return next
}

// Reshuffle replaces the queue with a fresh permutation of the full pool
func (s *Store) Reshuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reshuffle()
}

func (s *Store) reshuffle() {
	s.queue = Shuffle(s.pool, s.rng)
}

// RemainingCount returns the number of templates left in the current cycle
func (s *Store) RemainingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// TotalCount returns the pool size
func (s *Store) TotalCount() int {
	return len(s.pool)
}

// ShownCount returns how many templates of the current cycle have been handed out
func (s *Store) ShownCount() int {
	return s.TotalCount() - s.RemainingCount()
}

// Exhausted reports whether every template of the current cycle has been handed out
func (s *Store) Exhausted() bool {
	return s.RemainingCount() == 0
}
