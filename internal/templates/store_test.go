package templates

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func sortedStrings(items []Template) []string {
	out := make([]string, len(items))
	for i, t := range items {
		out[i] = string(t)
	}
	sort.Strings(out)
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Template
		wantErr error
	}{
		{
			name:  "header and rows",
			input: "pattern\nfirst\nsecond\n",
			want:  []Template{"first", "second"},
		},
		{
			name:  "blank lines and whitespace trimmed",
			input: "pattern\r\n  first  \r\n\r\n   \r\nsecond",
			want:  []Template{"first", "second"},
		},
		{
			name:  "commas are not split",
			input: "pattern\na, b, c\n",
			want:  []Template{"a, b, c"},
		},
		{
			name:    "header only",
			input:   "pattern\n",
			wantErr: ErrEmpty,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: ErrEmpty,
		},
		{
			name:    "only blank rows",
			input:   "pattern\n\n  \n",
			wantErr: ErrEmpty,
		},
		{
			name:    "invalid utf-8",
			input:   "pattern\n\xff\xfe\n",
			wantErr: ErrMalformed,
		},
		{
			name:    "binary content",
			input:   "pattern\nab\x00cd\n",
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []Template{"a", "b", "c", "c", "d", "e", "f"}
	rng := seeded(7)

	for i := 0; i < 50; i++ {
		shuffled := Shuffle(items, rng)
		assert.Equal(t, sortedStrings(items), sortedStrings(shuffled))
	}
	assert.Equal(t, []Template{"a", "b", "c", "c", "d", "e", "f"}, items, "input must not be modified")
}

func TestShuffleCoversAllOrderings(t *testing.T) {
	items := []Template{"A", "B", "C"}
	rng := seeded(42)
	counts := make(map[string]int)

	const rounds = 6000
	for i := 0; i < rounds; i++ {
		s := Shuffle(items, rng)
		counts[string(s[0])+string(s[1])+string(s[2])]++
	}

	require.Len(t, counts, 6)
	for order, n := range counts {
		// Each of the 6 orderings expects ~1000 hits.
		assert.InDelta(t, rounds/6, n, 200, "ordering %s", order)
	}
}

func TestStoreNextVisitsEveryTemplateOncePerCycle(t *testing.T) {
	pool := []Template{"one", "two", "three", "four", "five"}
	store, err := NewStore(pool, seeded(1))
	require.NoError(t, err)

	for cycle := 0; cycle < 4; cycle++ {
		seen := make(map[Template]bool)
		for i := 0; i < len(pool); i++ {
			next := store.Next()
			assert.False(t, seen[next], "cycle %d repeated %q", cycle, next)
			seen[next] = true
		}
		assert.Len(t, seen, len(pool))
		assert.True(t, store.Exhausted())
	}
}

func TestStoreReshufflesOnExhaustion(t *testing.T) {
	store, err := NewStore([]Template{"A", "B", "C"}, seeded(3))
	require.NoError(t, err)

	assert.Equal(t, 3, store.TotalCount())
	assert.Equal(t, 3, store.RemainingCount())

	for i := 0; i < 3; i++ {
		store.Next()
	}
	assert.Equal(t, 0, store.RemainingCount())
	assert.Equal(t, 3, store.ShownCount())

	next := store.Next()
	assert.Contains(t, []Template{"A", "B", "C"}, next)
	assert.Equal(t, 2, store.RemainingCount())
	assert.Equal(t, 3, store.TotalCount())
}

func TestStoreExplicitReshuffle(t *testing.T) {
	store, err := NewStore([]Template{"A", "B"}, seeded(5))
	require.NoError(t, err)

	store.Next()
	assert.Equal(t, 1, store.ShownCount())

	store.Reshuffle()
	assert.Equal(t, 0, store.ShownCount())
	assert.Equal(t, 2, store.RemainingCount())
}

func TestNewStoreRejectsEmptyPool(t *testing.T) {
	_, err := NewStore(nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.csv")
	require.NoError(t, os.WriteFile(path, []byte("pattern\nalpha\n\nbeta\n"), 0o600))

	store, err := Load(context.Background(), &FileSource{Path: path}, seeded(9))
	require.NoError(t, err)
	assert.Equal(t, 2, store.TotalCount())
	assert.ElementsMatch(t, []Template{"alpha", "beta"}, []Template{store.Next(), store.Next()})
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("pattern\n"), 0o600))

	tests := []struct {
		name    string
		source  Source
		wantErr error
	}{
		{"missing file", &FileSource{Path: filepath.Join(dir, "missing.csv")}, ErrNotFound},
		{"header only", &FileSource{Path: headerOnly}, ErrEmpty},
		{"malformed", &StringSource{Text: "h\n\xff"}, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Load(context.Background(), tt.source, seeded(1))
			assert.Nil(t, store)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.source.Name(), loadErr.Source)
			assert.NotEmpty(t, loadErr.Message)
		})
	}
}

func TestLoadFromHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/templates.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("pattern\nremote one\nremote two\n"))
	}))
	defer server.Close()

	store, err := Load(context.Background(), SourceFor(server.URL+"/templates.csv", server.Client()), seeded(2))
	require.NoError(t, err)
	assert.Equal(t, 2, store.TotalCount())

	_, err = Load(context.Background(), SourceFor(server.URL+"/missing.csv", server.Client()), seeded(2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSourceFor(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, SourceFor("https://example.com/t.csv", nil))
	assert.IsType(t, &HTTPSource{}, SourceFor("HTTP://example.com/t.csv", nil))
	assert.IsType(t, &FileSource{}, SourceFor("templates.csv", nil))
}

func TestScanCountsBlankLines(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		templates int
		blank     int
	}{
		{name: "trailing newline", input: "pattern\nA\nB\n", templates: 2, blank: 0},
		{name: "no trailing newline", input: "pattern\nA\nB", templates: 2, blank: 0},
		{name: "crlf endings", input: "pattern\r\nA\r\nB\r\n", templates: 2, blank: 0},
		{name: "inner blank row", input: "pattern\nA\n\nB\n", templates: 2, blank: 1},
		{name: "two trailing newlines", input: "pattern\nA\n\n", templates: 1, blank: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Scan(tt.input)
			require.NoError(t, err)
			assert.Len(t, result.Templates, tt.templates)
			assert.Equal(t, tt.blank, result.BlankLines)
		})
	}
}

func TestSummarize(t *testing.T) {
	result, err := Scan("pattern\nab\n\nabcd\nab\n")
	require.NoError(t, err)

	summary := Summarize("x.csv", result)
	assert.Equal(t, "pattern", summary.Header)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.BlankLines)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 2, summary.Shortest)
	assert.Equal(t, 4, summary.Longest)
	assert.InDelta(t, 8.0/3.0, summary.AverageLength, 1e-9)
}
