package monitor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatText renders a snapshot as an aligned plain-text table
func FormatText(snapshot Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session metrics (uptime %s)\n", snapshot.Uptime.Round(time.Millisecond))
	fmt.Fprintf(&b, "  %-10s %6s %6s %10s %10s %10s\n", "operation", "count", "errors", "avg", "min", "max")
	for _, op := range snapshot.Operations {
		if op.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-10s %6d %6d %10s %10s %10s\n",
			op.Operation, op.Count, op.ErrorCount,
			roundDuration(op.AvgTime), roundDuration(op.MinTime), roundDuration(op.MaxTime))
	}

	names := make([]string, 0, len(snapshot.Counters))
	for name := range snapshot.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %d\n", name, snapshot.Counters[name])
	}

	return b.String()
}

// FormatJSON renders a snapshot as indented JSON
func FormatJSON(snapshot Snapshot) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metrics: %w", err)
	}
	return string(data), nil
}

func roundDuration(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond)
	}
	return d.Round(time.Microsecond)
}
