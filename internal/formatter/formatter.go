package formatter

import (
	"fmt"

	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/vectorstore"
)

// sampleLimit caps how many templates or similar pairs a report lists
const sampleLimit = 5

// similarityLimit is the largest template count checked for similar pairs
const similarityLimit = 2000

// Report is the input shared by every formatter
type Report struct {
	Summary *templates.Summary
	Samples []templates.Template

	// Similar lists distinct templates that read almost the same
	Similar []vectorstore.Pair
}

// NewReport builds a report from a scan result
func NewReport(source string, result *templates.ParseResult) *Report {
	samples := result.Templates
	if len(samples) > sampleLimit {
		samples = samples[:sampleLimit]
	}
	return &Report{
		Summary: templates.Summarize(source, result),
		Samples: samples,
		Similar: findSimilar(result.Templates),
	}
}

// findSimilar compares every pair of templates. Files too large for a
// pairwise pass are skipped.
func findSimilar(pool []templates.Template) []vectorstore.Pair {
	if len(pool) < 2 || len(pool) > similarityLimit {
		return nil
	}

	texts := make([]string, len(pool))
	for i, tmpl := range pool {
		texts[i] = tmpl.String()
	}

	store, err := vectorstore.Build(texts, vectorstore.DefaultDimensions)
	if err != nil {
		return nil
	}
	return store.SimilarPairs(vectorstore.DefaultThreshold)
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns the formatter for an output format name
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
