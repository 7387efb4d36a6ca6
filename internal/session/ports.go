package session

import (
	"github.com/atotto/clipboard"

	"github.com/yildizm/Koryaku/internal/sequencer"
)

// View is the display surface the controller drives. Implementations must be
// safe to call from the goroutine running a controller operation.
type View interface {
	sequencer.Sink

	// ShowFailure shows a fatal error in the result area
	ShowFailure(text string)

	// ShowStatus replaces the progress line
	ShowStatus(text string)

	// SetAnalyzing marks the analysis phase as running or finished
	SetAnalyzing(active bool)

	SetGenerateEnabled(enabled bool)
	SetCopyEnabled(enabled bool)

	// ShowCopyLabel replaces the label of the copy control
	ShowCopyLabel(label string)

	// Alert surfaces a one-shot, non-fatal message
	Alert(message string)
}

// Clipboard is a write-only system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the platform clipboard
type SystemClipboard struct{}

// WriteAll copies text to the clipboard
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ClipboardError is returned when copying fails. It does not affect session state.
type ClipboardError struct {
	Err error
}

// Error implements the error interface
func (e *ClipboardError) Error() string {
	return "copy to clipboard failed: " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ClipboardError) Unwrap() error {
	return e.Err
}
