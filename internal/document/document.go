// Package document supplies the line snapshot a grep runs against.
package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"grephl/internal/domain"
)

// Provider returns the lines of the active document
type Provider interface {
	Lines(ctx context.Context) ([]string, error)
	Name() string
}

// FileSource reads a file from disk on every request
type FileSource struct {
	path string
}

// NewFileSource creates a provider for path. An empty path means no document is active.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string {
	return f.path
}

func (f *FileSource) Lines(ctx context.Context) ([]string, error) {
	if f == nil || f.path == "" {
		return nil, domain.ErrNoActiveDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoActiveDocument, f.path)
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return SplitLines(string(data)), nil
}

// Snapshot is a fixed set of lines
type Snapshot struct {
	name  string
	lines []string
}

// NewSnapshot creates a provider over lines that never change
func NewSnapshot(name string, lines []string) *Snapshot {
	own := make([]string, len(lines))
	copy(own, lines)
	return &Snapshot{name: name, lines: own}
}

// ReadSnapshot reads r to the end and keeps the lines
func ReadSnapshot(name string, r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return &Snapshot{name: name, lines: SplitLines(string(data))}, nil
}

func (s *Snapshot) Name() string {
	return s.name
}

func (s *Snapshot) Lines(context.Context) ([]string, error) {
	if s == nil {
		return nil, domain.ErrNoActiveDocument
	}
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

// SplitLines splits text on \n or \r\n. A trailing newline doesn't add an empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
