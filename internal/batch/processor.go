// Package batch reads character lists for bulk processing.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// Entry is one character from a batch file with an optional meaning hint
type Entry struct {
	Glyph   string
	Meaning string
}

// ReadBatchFile reads entries from a file
// Supports formats:
// - Character only: "水"
// - With meaning: "水 = water" (the meaning replaces the looked-up one)
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses batch entries from r
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		glyph, meaning, _ := strings.Cut(line, "=")
		query, err := hanzi.NewCharacterQuery(glyph)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		entries = append(entries, Entry{
			Glyph:   query.Glyph(),
			Meaning: strings.TrimSpace(meaning),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}
