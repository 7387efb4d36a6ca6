package templates

import "unicode/utf8"

// Summary describes the contents of a templates file
type Summary struct {
	Source        string  `json:"source"`
	Header        string  `json:"header"`
	Total         int     `json:"total"`
	BlankLines    int     `json:"blank_lines"`
	Duplicates    int     `json:"duplicates"`
	Shortest      int     `json:"shortest"`
	Longest       int     `json:"longest"`
	AverageLength float64 `json:"average_length"`
}

// Summarize computes a Summary from a scan result. Lengths are counted in runes.
func Summarize(source string, result *ParseResult) *Summary {
	summary := &Summary{
		Source:     source,
		Header:     result.Header,
		Total:      len(result.Templates),
		BlankLines: result.BlankLines,
	}
	if summary.Total == 0 {
		return summary
	}

	seen := make(map[Template]struct{}, summary.Total)
	totalLength := 0
	summary.Shortest = -1

	for _, tmpl := range result.Templates {
		if _, ok := seen[tmpl]; ok {
			summary.Duplicates++
		}
		seen[tmpl] = struct{}{}

		n := utf8.RuneCountInString(string(tmpl))
		totalLength += n
		if summary.Shortest < 0 || n < summary.Shortest {
			summary.Shortest = n
		}
		if n > summary.Longest {
			summary.Longest = n
		}
	}

	summary.AverageLength = float64(totalLength) / float64(summary.Total)
	return summary
}
