package formatter

import (
	"fmt"

	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/vectorstore"
)

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// uniqueRatio is the share of templates that are not repeats of an earlier line
func uniqueRatio(summary *templates.Summary) float64 {
	if summary.Total == 0 {
		return 0
	}
	return float64(summary.Total-summary.Duplicates) / float64(summary.Total)
}

// generateNotes turns the report into actionable notes
func generateNotes(report *Report) []string {
	summary := report.Summary
	var notes []string

	if summary.Total == 0 {
		return append(notes, "Add at least one template below the header row")
	}
	if summary.Duplicates > 0 {
		notes = append(notes,
			fmt.Sprintf("%d duplicate template(s) will be shown more than once per cycle", summary.Duplicates))
	}
	if summary.BlankLines > 0 {
		notes = append(notes,
			fmt.Sprintf("%d blank line(s) are skipped when loading", summary.BlankLines))
	}
	if len(report.Similar) > 0 {
		notes = append(notes,
			fmt.Sprintf("%d pair(s) of templates read almost the same", len(report.Similar)))
	}
	if summary.Header == "" {
		notes = append(notes, "The header row is empty; the first line is always discarded")
	}

	if len(notes) == 0 {
		notes = append(notes, "Templates file looks healthy")
	}
	return notes
}

// topPairs returns at most sampleLimit similar pairs
func topPairs(pairs []vectorstore.Pair) []vectorstore.Pair {
	if len(pairs) > sampleLimit {
		return pairs[:sampleLimit]
	}
	return pairs
}

// truncate shortens s to at most limit runes
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
