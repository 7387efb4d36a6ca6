package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/vectorstore"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Summary == nil {
		return nil, fmt.Errorf("report has no summary")
	}

	var b strings.Builder

	b.WriteString("# Strategy Templates Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeTableOfContents(&b, report)
	f.writeSummaryTable(&b, report.Summary)
	if len(report.Samples) > 0 {
		f.writeSamples(&b, report.Samples)
	}
	if len(report.Similar) > 0 {
		f.writeSimilar(&b, report.Similar)
	}
	f.writeNotes(&b, report)

	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, report *Report) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")
	if len(report.Samples) > 0 {
		b.WriteString("- [Samples](#samples)\n")
	}
	if len(report.Similar) > 0 {
		b.WriteString("- [Similar Templates](#similar-templates)\n")
	}
	b.WriteString("- [Notes](#notes)\n\n")
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, summary *templates.Summary) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Source | `%s` |\n", escapeMarkdown(summary.Source))
	fmt.Fprintf(b, "| Header | %s |\n", escapeMarkdown(summary.Header))
	fmt.Fprintf(b, "| Templates | %s |\n", formatNumber(summary.Total))
	fmt.Fprintf(b, "| Blank Lines | %s |\n", formatNumber(summary.BlankLines))
	fmt.Fprintf(b, "| Duplicates | %d (%.1f%% unique) |\n", summary.Duplicates, uniqueRatio(summary)*100)
	if summary.Total > 0 {
		fmt.Fprintf(b, "| Shortest | %d |\n", summary.Shortest)
		fmt.Fprintf(b, "| Longest | %d |\n", summary.Longest)
		fmt.Fprintf(b, "| Average Length | %.1f |\n", summary.AverageLength)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSamples(b *strings.Builder, samples []templates.Template) {
	b.WriteString("## Samples\n\n")
	for i, sample := range samples {
		fmt.Fprintf(b, "%d. %s\n", i+1, escapeMarkdown(sample.String()))
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeSimilar(b *strings.Builder, pairs []vectorstore.Pair) {
	b.WriteString("## Similar Templates\n\n")
	b.WriteString("| Template | Template | Similarity |\n")
	b.WriteString("|----------|----------|------------|\n")
	for _, pair := range topPairs(pairs) {
		fmt.Fprintf(b, "| %s | %s | %.0f%% |\n", escapeMarkdown(pair.A), escapeMarkdown(pair.B), pair.Score*100)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeNotes(b *strings.Builder, report *Report) {
	b.WriteString("## Notes\n\n")
	for _, note := range generateNotes(report) {
		b.WriteString("- " + note + "\n")
	}
}

// escapeMarkdown escapes characters that would break a table cell or list item
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("|", "\\|", "`", "\\`", "*", "\\*", "_", "\\_")
	return replacer.Replace(s)
}
