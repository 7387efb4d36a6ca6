package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/vectorstore"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Summary == nil {
		return nil, fmt.Errorf("report has no summary")
	}

	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, report.Summary)
	f.writeSamples(&b, report.Samples)
	f.writeSimilar(&b, report.Similar)
	f.writeNotes(&b, report)

	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Strategy Templates Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes statistics as a tree
func (f *terminalFormatter) writeStatistics(b *strings.Builder, summary *templates.Summary) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	header := summary.Header
	if header == "" {
		header = "(empty)"
	}

	items := []termfmt.TreeItem{
		{Label: "Source", Value: summary.Source},
		{Label: "Header", Value: truncate(header, 40)},
		{Label: "Templates", Value: formatNumber(summary.Total)},
		{Label: "Blank Lines", Value: formatNumber(summary.BlankLines)},
		{Label: "Duplicates", Value: fmt.Sprintf("%d %s", summary.Duplicates,
			termfmt.CreateConfidenceBar(uniqueRatio(summary), f.opts))},
	}

	if summary.Total > 0 {
		items = append(items, termfmt.TreeItem{
			Label: "Length",
			Value: fmt.Sprintf("%d-%d chars (avg %.1f)", summary.Shortest, summary.Longest, summary.AverageLength),
			Last:  true,
		})
	} else {
		items = append(items, termfmt.TreeItem{Label: "Length", Value: "N/A", Last: true})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeSamples lists the first few templates in file order
func (f *terminalFormatter) writeSamples(b *strings.Builder, samples []templates.Template) {
	if len(samples) == 0 {
		return
	}

	symbol := termfmt.GetEmoji("target", f.opts)
	if symbol == "" {
		symbol = "🎯"
	}
	b.WriteString(symbol + " Samples\n")

	for i, sample := range samples {
		text := truncate(sample.String(), 60)
		if i == len(samples)-1 {
			fmt.Fprintf(b, "└─ %s\n", text)
		} else {
			fmt.Fprintf(b, "├─ %s\n", text)
		}
	}
	b.WriteString("\n")
}

// writeSimilar lists the closest pairs of distinct templates
func (f *terminalFormatter) writeSimilar(b *strings.Builder, pairs []vectorstore.Pair) {
	if len(pairs) == 0 {
		return
	}

	symbol := termfmt.GetEmoji("pattern", f.opts)
	b.WriteString(symbol + " Similar Templates\n")

	top := topPairs(pairs)
	items := make([]termfmt.TreeItem, 0, len(top))
	for i, pair := range top {
		items = append(items, termfmt.TreeItem{
			Label: truncate(pair.A, 30) + " ~ " + truncate(pair.B, 30),
			Value: termfmt.CreateConfidenceBar(float64(pair.Score), f.opts),
			Last:  i == len(top)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeNotes writes the notes derived from the report
func (f *terminalFormatter) writeNotes(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("recommendations", f.opts)
	b.WriteString(symbol + " Notes\n")

	for _, note := range generateNotes(report) {
		b.WriteString("• " + note + "\n")
	}
}
