package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// Words maps a lowercase word to its count or score.
type Words map[string]int

// Merge adds every count of other into w.
func (w Words) Merge(other Words) {
	for word, n := range other {
		w[word] += n
	}
}

// LoadFile reads a text or chunk dictionary, picking the format from the file.
func LoadFile(path string) (Words, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatChunk:
		return ReadChunk(bufio.NewReader(f))
	default:
		return ReadText(f)
	}
}

// LoadDir loads every dict_NNNN.bin chunk in dirPath in ascending id order.
func LoadDir(dirPath string) (Words, error) {
	chunks, err := ListChunks(dirPath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dirPath)
	}

	words := Words{}
	for _, chunk := range chunks {
		loaded, err := LoadFile(chunk.Filename)
		if err != nil {
			log.Warnf("Skipping chunk %d: %v", chunk.ChunkID, err)
			continue
		}
		words.Merge(loaded)
		log.Debugf("Loaded chunk %d: %d words", chunk.ChunkID, len(loaded))
	}
	return words, nil
}

// ListChunks scans dirPath for chunk files, sorted by id.
func ListChunks(dirPath string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		// dict_0001.bin -> 1
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// ReadChunk decodes the binary chunk format: an int32 entry count, then per entry
// a uint16 length, the word bytes and a uint16 rank. Rank 1 scores 65535.
func ReadChunk(r io.Reader) (Words, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read entry count: %w", err)
	}
	if total < 0 || total > maxChunkEntries {
		return nil, fmt.Errorf("invalid entry count %d", total)
	}

	words := make(Words, total)
	buf := make([]byte, 64)
	for i := int32(0); i < total; i++ {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read word length: %w", i, err)
		}
		if int(wordLen) > cap(buf) {
			buf = make([]byte, wordLen)
		}
		buf = buf[:wordLen]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read word: %w", i, err)
		}

		var rank uint16
		if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("entry %d: failed to read rank: %w", i, err)
		}

		word := strings.ToLower(string(buf))
		if word == "" {
			continue
		}
		words[word] = 65536 - int(rank)
	}
	return words, nil
}

// WriteChunk encodes words in the chunk format, ranked by descending score then word.
func WriteChunk(w io.Writer, words Words) error {
	type ranked struct {
		word  string
		score int
	}
	list := make([]ranked, 0, len(words))
	for word, score := range words {
		if word == "" || len(word) > 0xffff {
			continue
		}
		list = append(list, ranked{word, score})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].word < list[j].word
	})

	if err := binary.Write(w, binary.LittleEndian, int32(len(list))); err != nil {
		return err
	}
	for i, e := range list {
		rank := i + 1
		if rank > 0xffff {
			rank = 0xffff
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(e.word))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, e.word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(rank)); err != nil {
			return err
		}
	}
	return nil
}

// ReadText parses "word [count]" lines. Blank lines and lines starting with # are
// skipped, a missing or invalid count is 1.
func ReadText(r io.Reader) (Words, error) {
	words := Words{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		word := strings.ToLower(fields[0])
		count := 1
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				count = n
			}
		}
		words[word] += count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return words, nil
}

// AppendWord adds word to the text dictionary at path, creating it when missing.
func AppendWord(path, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || strings.ContainsAny(word, " \t\r\n") {
		return fmt.Errorf("invalid word %q", word)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open user words %s: %w", path, err)
	}
	if _, err := fmt.Fprintln(f, word); err != nil {
		f.Close()
		return fmt.Errorf("failed to write user words %s: %w", path, err)
	}
	return f.Close()
}

// LoadOptional loads path and treats a missing file as an empty list.
func LoadOptional(path string) (Words, error) {
	words, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Words{}, nil
	}
	return words, err
}
