package dictionary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunkFile(t *testing.T, path string, words Words) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, words))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestReadText(t *testing.T) {
	words, err := ReadText(strings.NewReader("# comment\nHello 12\nworld\n\npizza x\nhello 3\n"))
	require.NoError(t, err)
	assert.Equal(t, Words{"hello": 15, "world": 1, "pizza": 1}, words)
}

func TestChunkRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, Words{"the": 900, "of": 800, "and": 800}))

	words, err := ReadChunk(&buf)
	require.NoError(t, err)
	// ranks: the=1, and=2, of=3
	assert.Equal(t, Words{"the": 65535, "and": 65534, "of": 65533}, words)
}

func TestReadChunkTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, Words{"hello": 1}))
	data := buf.Bytes()[:buf.Len()-1]

	_, err := ReadChunk(bytes.NewReader(data))
	assert.Error(t, err)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello\n"), 0644))
	chunk := filepath.Join(dir, "dict_0001.bin")
	writeChunkFile(t, chunk, Words{"hello": 1})
	bogus := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(bogus, []byte{0xff, 0xff, 0xff, 0xff}, 0644))
	other := filepath.Join(dir, "words.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0644))

	format, err := DetectFileFormat(text)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	format, err = DetectFileFormat(chunk)
	require.NoError(t, err)
	assert.Equal(t, FormatChunk, format)

	_, err = DetectFileFormat(bogus)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = DetectFileFormat(other)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeChunkFile(t, filepath.Join(dir, "dict_0002.bin"), Words{"beta": 1})
	writeChunkFile(t, filepath.Join(dir, "dict_0001.bin"), Words{"alpha": 1})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict_x.bin"), []byte("junk"), 0644))

	chunks, err := ListChunks(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, chunks[0].ChunkID)
	assert.Equal(t, 1, chunks[0].WordCount)

	words, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, Words{"alpha": 65535, "beta": 65535}, words)

	_, err = LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestAppendWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user", "words.txt")
	require.NoError(t, AppendWord(path, "Typeahead"))
	require.NoError(t, AppendWord(path, "bbolt"))
	assert.Error(t, AppendWord(path, "two words"))

	words, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Words{"typeahead": 1, "bbolt": 1}, words)
}

func TestLoadOptional(t *testing.T) {
	words, err := LoadOptional(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Empty(t, words)
}
