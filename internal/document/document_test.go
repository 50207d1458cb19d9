package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grephl/internal/domain"
)

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\r\nb"))
	assert.Equal(t, []string{""}, SplitLines("\n"))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

	lines, err := NewFileSource(path).Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)
}

func TestFileSourceWithoutDocument(t *testing.T) {
	_, err := NewFileSource("").Lines(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveDocument)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "gone.log")).Lines(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveDocument)

	var nilSource *FileSource
	_, err = nilSource.Lines(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoActiveDocument)
}

func TestSnapshotIsImmutable(t *testing.T) {
	src := []string{"a", "b"}
	s := NewSnapshot("mem", src)
	src[0] = "changed"

	lines, err := s.Lines(context.Background())
	require.NoError(t, err)
	lines[1] = "changed"

	again, err := s.Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestReadSnapshot(t *testing.T) {
	s, err := ReadSnapshot("stdin", strings.NewReader("x\ny"))
	require.NoError(t, err)
	assert.Equal(t, "stdin", s.Name())

	lines, err := s.Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, lines)
}
