package formatter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/Koryaku/internal/templates"
)

func sampleReport(t *testing.T, text string) *Report {
	t.Helper()
	result, err := templates.Scan(text)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return NewReport("templates.csv", result)
}

func TestTerminalFormat(t *testing.T) {
	report := sampleReport(t, "pattern\nAim for the bonus\n\nStop at 300\nAim for the bonus\n")

	output, err := NewTerminal(false).Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(output)

	for _, want := range []string{"Strategy Templates Summary", "Statistics", "templates.csv", "Samples", "Stop at 300", "Notes"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if !strings.Contains(text, "1 duplicate template(s)") {
		t.Errorf("Expected duplicate note in output:\n%s", text)
	}
	if !strings.Contains(text, "1 blank line(s)") {
		t.Errorf("Expected blank line note in output:\n%s", text)
	}
}

func TestWriteSamples_LastBranch(t *testing.T) {
	formatter := NewTerminal(false).(*terminalFormatter)

	var b strings.Builder
	formatter.writeSamples(&b, []templates.Template{"first", "second", "third"})

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 samples, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "├─") || !strings.HasPrefix(lines[3], "└─") {
		t.Errorf("Unexpected tree branches: %q", lines)
	}
}

func TestWriteSamples_EmptyInput(t *testing.T) {
	formatter := NewTerminal(false).(*terminalFormatter)

	var b strings.Builder
	formatter.writeSamples(&b, nil)

	if b.Len() != 0 {
		t.Errorf("Expected no output for empty samples, got %q", b.String())
	}
}

func TestNewReportLimitsSamples(t *testing.T) {
	report := sampleReport(t, "h\n1\n2\n3\n4\n5\n6\n7\n")

	if len(report.Samples) != sampleLimit {
		t.Errorf("Expected %d samples, got %d", sampleLimit, len(report.Samples))
	}
	if report.Summary.Total != 7 {
		t.Errorf("Expected total 7, got %d", report.Summary.Total)
	}
}

func TestJSONFormat(t *testing.T) {
	report := sampleReport(t, "pattern\nA\nA\nB\n")

	output, err := NewJSON().Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded JSONOutput
	if err := json.Unmarshal(output, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Summary.Total != 3 || decoded.Summary.Duplicates != 1 {
		t.Errorf("Unexpected summary %+v", decoded.Summary)
	}
	if decoded.UniqueRatio < 0.66 || decoded.UniqueRatio > 0.67 {
		t.Errorf("Expected unique ratio 2/3, got %f", decoded.UniqueRatio)
	}
}

func TestMarkdownFormat(t *testing.T) {
	report := sampleReport(t, "pattern\nStay | bet_max\n")
	formatter := &markdownFormatter{now: func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}}

	output, err := formatter.Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(output)

	if !strings.Contains(text, "Generated: 2024-03-01 12:00:00") {
		t.Errorf("Expected fixed timestamp in output")
	}
	if !strings.Contains(text, `Stay \| bet\_max`) {
		t.Errorf("Expected escaped sample in output:\n%s", text)
	}
	if !strings.Contains(text, "Templates file looks healthy") {
		t.Errorf("Expected healthy note in output")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"text", false},
		{"json", false},
		{"markdown", false},
		{"csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := New(tt.format, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestFormatNilReport(t *testing.T) {
	for _, f := range []Formatter{NewTerminal(false), NewJSON(), NewMarkdown()} {
		if _, err := f.Format(nil); err == nil {
			t.Errorf("%T: expected error for nil report", f)
		}
	}
}

func TestAddCommas(t *testing.T) {
	if got := formatNumber(1234567); got != "1,234,567" {
		t.Errorf("Expected 1,234,567, got %s", got)
	}
	if got := formatNumber(999); got != "999" {
		t.Errorf("Expected 999, got %s", got)
	}
}

func TestReportSimilarTemplates(t *testing.T) {
	report := sampleReport(t, "pattern\n"+
		"Stop at three hundred rotations and change machines\n"+
		"Stop at three hundred rotations then change machines\n"+
		"Sit in the center area and wait\n")

	if len(report.Similar) != 1 {
		t.Fatalf("Expected 1 similar pair, got %d", len(report.Similar))
	}

	output, err := NewTerminal(false).Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(output)
	if !strings.Contains(text, "Similar Templates") {
		t.Errorf("Expected similar section in output:\n%s", text)
	}
	if !strings.Contains(text, "1 pair(s) of templates read almost the same") {
		t.Errorf("Expected similar note in output:\n%s", text)
	}

	jsonOutput, err := NewJSON().Format(report)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var decoded JSONOutput
	if err := json.Unmarshal(jsonOutput, &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.Similar) != 1 || decoded.Similar[0].Score < 0.75 {
		t.Errorf("Unexpected similar pairs %+v", decoded.Similar)
	}
}
