package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoadOptions controls which files are read and which words are kept.
type LoadOptions struct {
	WordList  string
	FreqList  string
	MinLength int
	MaxLength int // 0 means no upper bound
}

// LoadIndex reads the frequency list (if any) and the word list into a new Index.
func LoadIndex(opts LoadOptions) (*Index, error) {
	start := time.Now()

	freqs, err := LoadFreqList(opts.FreqList)
	if err != nil {
		return nil, err
	}

	f, err := openList(opts.WordList, FormatWordList)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := ReadWordList(f, freqs, opts.MinLength, opts.MaxLength)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list %s: %w", opts.WordList, err)
	}

	log.Debugf("Loaded %d words (%d with frequency) in %v", idx.Len(), idx.Stats().WithFreq, time.Since(start))
	return idx, nil
}

// ReadWordList builds an Index from one word per line.
// Words outside [minLen, maxLen] are skipped; maxLen 0 disables the upper bound.
func ReadWordList(r io.Reader, freqs map[string]int, minLen, maxLen int) (*Index, error) {
	idx := NewIndex()
	scanner := bufio.NewScanner(r)
	skipped := 0

	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		if len(word) < minLen || (maxLen > 0 && len(word) > maxLen) {
			skipped++
			continue
		}
		if !idx.Add(word, freqs[word]) {
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if idx.Len() == 0 {
		return nil, ErrEmptyWordList
	}

	log.Debugf("Word list read: kept %d, skipped %d", idx.Len(), skipped)
	return idx, nil
}

// LoadFreqList reads a frequency list from path. An empty path yields an empty map.
func LoadFreqList(path string) (map[string]int, error) {
	if path == "" {
		return map[string]int{}, nil
	}
	f, err := openList(path, FormatFreqList)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	freqs, err := ReadFreqList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency list %s: %w", path, err)
	}
	return freqs, nil
}

// ReadFreqList parses `word count` lines, keyed on the lower-cased word.
// Malformed lines are skipped.
func ReadFreqList(r io.Reader) (map[string]int, error) {
	freqs := make(map[string]int)
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			log.Debugf("Skipping frequency line %d: %q", line, scanner.Text())
			continue
		}
		freqs[strings.ToLower(fields[0])] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read frequency list: %w", err)
	}
	return freqs, nil
}

// openList validates path against the expected format and opens it.
// Device files such as /dev/stdin skip validation.
func openList(path string, format FileFormat) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no %s path given", formatName(format))
	}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if err := ValidateFileFormat(path, format); err != nil {
			log.Warnf("%v", err)
		}
		if detected, err := DetectFileFormat(path); err == nil && detected != format {
			log.Warnf("%s looks like a %s, expected a %s", path, formatName(detected), formatName(format))
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
