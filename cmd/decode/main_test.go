package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vigenere/internal/decoder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()

	names := make([]string, len(contents))
	for i, c := range contents {
		names[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(names[i], []byte(c), 0600))
	}
	return names
}

func TestDecodeReader(t *testing.T) {
	res, err := decodeReader("stdin", strings.NewReader("Ifmmp\n"), []int{1})
	require.NoError(t, err)

	text, err := res.dec.Text()
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
	assert.Equal(t, 1, res.src.LineCount())
}

func TestDecodeReaderError(t *testing.T) {
	_, err := decodeReader("stdin", strings.NewReader("abc"), []int{})
	require.ErrorIs(t, err, decoder.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "stdin: ")
}

func TestDecodeFilesKeepsOrder(t *testing.T) {
	files := writeFiles(t, "B\n", "Ifmmp\nXpsme\n", "", "C")

	for _, workers := range []int{0, 1, 2} {
		results, err := decodeFiles(context.Background(), files, []int{1}, workers)
		require.NoError(t, err)
		require.Len(t, results, len(files))

		var texts []string
		for i, res := range results {
			assert.Equal(t, files[i], res.name)
			text, err := res.dec.Text()
			require.NoError(t, err)
			texts = append(texts, text)
		}
		assert.Equal(t, []string{"A", "Hello\nWorld", "", "B"}, texts)
	}
}

func TestDecodeFilesError(t *testing.T) {
	files := writeFiles(t, "ok", "caf\xc3\xa9")
	files = append(files, filepath.Join(t.TempDir(), "missing.txt"))

	_, err := decodeFiles(context.Background(), files, []int{1}, 1)
	assert.Error(t, err)
}
