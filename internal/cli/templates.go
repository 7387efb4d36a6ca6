package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/Koryaku/internal/formatter"
	"github.com/yildizm/Koryaku/internal/templates"
)

func newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect strategy template files",
		Long: `Inspect strategy template files.

A templates file has a header line followed by one strategy per line. Blank
lines are skipped.`,
	}

	cmd.AddCommand(newTemplatesStatsCommand())
	cmd.AddCommand(newTemplatesValidateCommand())

	return cmd
}

func newTemplatesStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the configured templates",
		Long: `Load the configured templates and report counts, duplicates, blank lines
and template lengths. Use --output to choose text, json or markdown.`,
		Example: `  koryaku templates stats
  koryaku templates stats --templates https://example.com/templates.csv -o json`,
		Args: cobra.NoArgs,
		RunE: runTemplatesStats,
	}
}

func runTemplatesStats(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	source := newSource(cfg)

	text, err := source.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch templates from %s: %w", source.Name(), err)
	}

	result, err := templates.Scan(text)
	if err != nil {
		return fmt.Errorf("failed to read templates from %s: %w", source.Name(), err)
	}

	f, err := formatter.New(getOutputFormat(), !noColor)
	if err != nil {
		return err
	}

	output, err := f.Format(formatter.NewReport(source.Name(), result))
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(output)
	return err
}

func newTemplatesValidateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a templates file loads",
		Long: `Check that a templates file loads: it must be readable UTF-8 text with at
least one template below the header line.

With --watch, the file is checked again every time it is written. Press
Ctrl+C to stop watching.`,
		Example: `  koryaku templates validate
  koryaku templates validate my-templates.csv --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := GetGlobalConfig().Templates.Source
			if len(args) == 1 {
				path = args[0]
			}
			if _, remote := templates.SourceFor(path, nil).(*templates.HTTPSource); remote {
				return fmt.Errorf("validate works on local files; use 'templates stats' for %s", path)
			}

			filename, err := validateFilePath(path)
			if err != nil {
				return fmt.Errorf("invalid file path: %w", err)
			}

			err = reportValidation(cmd.OutOrStdout(), filename)
			if !watch {
				return err
			}
			return runValidateWatch(cmd, filename)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-validate whenever the file is written")

	return cmd
}

// reportValidation validates filename and prints the outcome
func reportValidation(w io.Writer, filename string) error {
	count, err := validateTemplatesFile(filename)
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", GetEmoji("error"), filename, err)
		return err
	}
	fmt.Fprintf(w, "%s %s: %d templates\n", GetEmoji("success"), filename, count)
	return nil
}

// validateTemplatesFile loads filename the same way a session does
func validateTemplatesFile(filename string) (int, error) {
	source := &templates.FileSource{Path: filename}
	text, err := source.Fetch(context.Background())
	if err != nil {
		return 0, fmt.Errorf("templates file not found: %w", err)
	}

	pool, err := templates.Parse(text)
	if err != nil {
		return 0, err
	}
	return len(pool), nil
}

func runValidateWatch(cmd *cobra.Command, filename string) error {
	watcher, err := createWatcher(filename)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching file: %s\n", filename)
		fmt.Fprintf(cmd.ErrOrStderr(), "Press Ctrl+C to stop...\n\n")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWatchLoop(ctx, watcher, filename, func() {
		_ = reportValidation(cmd.OutOrStdout(), filename)
	})
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches the directory holding filename so that files
// replaced on save are still seen
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// runWatchLoop calls onChange for every write to filename until ctx ends
func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, filename string, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if handleWatchEvent(event, filename) {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// handleWatchEvent reports whether event wrote or replaced filename
func handleWatchEvent(event fsnotify.Event, filename string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(filename) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// validateFilePath validates that a file path is safe to read and returns it cleaned
func validateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed")
	}

	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory, must be a file", cleanPath)
	}

	return cleanPath, nil
}
