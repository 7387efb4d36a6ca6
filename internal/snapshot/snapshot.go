// Package snapshot captures the player's input fields at the moment a
// generate action starts. Capture never fails: bad input is coerced.
package snapshot

import (
	"math"
	"strconv"
	"strings"
)

// Unselected is the value of a selector that was left empty
const Unselected = "unselected"

// Fields are the raw values of the input controls
type Fields struct {
	Rotation     string
	BigWin       string
	TopSymbol    string
	MiddleSymbol string
	BottomSymbol string
	AreaPosition string
}

// Snapshot is the immutable, normalized view of Fields
type Snapshot struct {
	RotationCount int    `json:"rotation_count"`
	BigWinCount   int    `json:"big_win_count"`
	TopSymbol     string `json:"top_symbol"`
	MiddleSymbol  string `json:"middle_symbol"`
	BottomSymbol  string `json:"bottom_symbol"`
	AreaPosition  string `json:"area_position"`
}

// Capture normalizes fields into a Snapshot
func Capture(fields Fields) Snapshot {
	return Snapshot{
		RotationCount: parseCount(fields.Rotation),
		BigWinCount:   parseCount(fields.BigWin),
		TopSymbol:     selection(fields.TopSymbol),
		MiddleSymbol:  selection(fields.MiddleSymbol),
		BottomSymbol:  selection(fields.BottomSymbol),
		AreaPosition:  selection(fields.AreaPosition),
	}
}

// parseCount reads the leading decimal digits of s, so "120 spins" is 120.
// Anything without leading digits is 0, negatives clamp to 0 and values too
// large for an int clamp to math.MaxInt.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only a range error is possible on a pure digit string
		return math.MaxInt
	}
	return n
}

func selection(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unselected
	}
	return s
}
