package templates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxPayloadSize bounds how much of a remote or local resource is read
const maxPayloadSize = 8 * 1024 * 1024

// Source fetches the raw text backing a template pool
type Source interface {
	// Fetch returns the full text of the resource. Any error is treated as
	// the resource being unreachable.
	Fetch(ctx context.Context) (string, error)

	// Name identifies the resource in messages and logs
	Name() string
}

// FileSource reads templates from a local file
type FileSource struct {
	Path string
}

// Fetch reads the file
func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(s.Path)

	// #nosec G304 - reading a user-selected data file is the purpose of this source
	file, err := os.Open(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", cleanPath, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxPayloadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", cleanPath, err)
	}
	return string(data), nil
}

// Name returns the file path
func (s *FileSource) Name() string {
	return s.Path
}

// HTTPSource fetches templates with a single GET request. There is no retry.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Fetch performs the request
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(data), nil
}

// Name returns the URL
func (s *HTTPSource) Name() string {
	return s.URL
}

// StringSource serves fixed text. Useful for tests and embedded data.
type StringSource struct {
	Label string
	Text  string
}

// Fetch returns the fixed text
func (s *StringSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Text, nil
}

// Name returns the label, or "inline" when none was given
func (s *StringSource) Name() string {
	if s.Label == "" {
		return "inline"
	}
	return s.Label
}

// SourceFor picks a source implementation for a location string.
// http:// and https:// locations are fetched remotely, anything else is a file path.
func SourceFor(location string, client *http.Client) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &HTTPSource{URL: location, Client: client}
	}
	return &FileSource{Path: location}
}
