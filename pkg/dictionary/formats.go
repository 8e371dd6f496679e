package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatWordList            // one word per line
	FormatFreqList            // `word count` per line
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatWordList: {
		Format:      FormatWordList,
		Description: "Word List",
		Extensions:  []string{".txt", ".lst", ".words", ""},
		MinSize:     1, // At least one character
	},
	FormatFreqList: {
		Format:      FormatFreqList,
		Description: "Frequency List",
		Extensions:  []string{".freq", ".txt", ""},
		MinSize:     3, // "a 1"
	},
}

func formatName(format FileFormat) string {
	if info, ok := GetFormatInfo(format); ok {
		return strings.ToLower(info.Description)
	}
	return "unknown format"
}

// ValidateFileFormat checks that filename has a plausible size and extension
// for format. Frequency lists must also start with a `word count` line.
func ValidateFileFormat(filename string, format FileFormat) error {
	info, ok := supportedFormats[format]
	if !ok {
		return fmt.Errorf("unknown format: %v", format)
	}
	st, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if st.Size() < info.MinSize {
		return fmt.Errorf("%s holds %d bytes, too few for a %s", filename, st.Size(), formatName(format))
	}
	if ext := strings.ToLower(filepath.Ext(filename)); !slices.Contains(info.Extensions, ext) {
		return fmt.Errorf("%s: extension %q is not one of %v for a %s", filename, ext, info.Extensions, formatName(format))
	}
	if format == FormatFreqList {
		return validateFreqFormat(filename)
	}
	return nil
}

// validateFreqFormat checks that the first line looks like `word count`.
func validateFreqFormat(filename string) error {
	data, err := readHead(filename, 256)
	if err != nil {
		return err
	}
	first, _, _ := strings.Cut(string(data), "\n")
	if len(strings.Fields(first)) != 2 {
		return fmt.Errorf("file %s does not look like a frequency list: first line %q", filename, first)
	}
	log.Debugf("Frequency list %s validated", filename)
	return nil
}

func readHead(filename string, n int) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, n)
	read, err := file.Read(buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to read from file %s: %w", filename, err)
	}
	return buffer[:read], nil
}

// DetectFileFormat guesses the format of a file from its first line:
// two fields with a numeric second one is a frequency list.
func DetectFileFormat(filename string) (FileFormat, error) {
	data, err := readHead(filename, 256)
	if err != nil {
		return FormatUnknown, err
	}
	first, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(first)
	switch {
	case len(fields) == 2 && isDigits(fields[1]):
		return FormatFreqList, nil
	case len(fields) == 1:
		return FormatWordList, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
