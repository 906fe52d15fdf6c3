// Package dictionary reads word lists used to seed the spell corrector vocabulary.
package dictionary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownFormat is returned when a file matches no supported dictionary format.
var ErrUnknownFormat = errors.New("dictionary: unknown file format")

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // dict_NNNN.bin ranked word chunks
	FormatText               // "word [count]" per line
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // entry count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".dic", ""},
		MinSize:     0,
	},
}

// maxChunkEntries rejects headers that are clearly not a chunk file.
const maxChunkEntries = 1000000

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateChunkHeader(filename)
	}
	return nil
}

func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var entries int32
	if err := binary.Read(file, binary.LittleEndian, &entries); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if entries < 0 || entries > maxChunkEntries {
		return fmt.Errorf("invalid entry count in %s: %d", filename, entries)
	}

	log.Debugf("Chunk file %s validated: %d entries", filename, entries)
	return nil
}

// DetectFileFormat picks the format from the file name and validates it.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var candidate FileFormat
	switch ext {
	case ".bin":
		candidate = FormatChunk
	case ".txt", ".dic", "":
		candidate = FormatText
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}

	if err := ValidateFileFormat(filename, candidate); err != nil {
		return FormatUnknown, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	return candidate, nil
}
