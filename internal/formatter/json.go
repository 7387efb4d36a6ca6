package formatter

import (
	"encoding/json"
	"fmt"

	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/vectorstore"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Summary == nil {
		return nil, fmt.Errorf("report has no summary")
	}

	output := &JSONOutput{
		Summary:     report.Summary,
		UniqueRatio: uniqueRatio(report.Summary),
		Samples:     createSampleOutputs(report.Samples),
		Similar:     topPairs(report.Similar),
		Notes:       generateNotes(report),
	}

	return json.MarshalIndent(output, "", "  ")
}

// JSONOutput represents the JSON report structure
type JSONOutput struct {
	Summary     *templates.Summary `json:"summary"`
	UniqueRatio float64            `json:"unique_ratio"`
	Samples     []string           `json:"samples"`
	Similar     []vectorstore.Pair `json:"similar"`
	Notes       []string           `json:"notes"`
}

func createSampleOutputs(samples []templates.Template) []string {
	outputs := make([]string, 0, len(samples))
	for _, sample := range samples {
		outputs = append(outputs, sample.String())
	}
	return outputs
}
