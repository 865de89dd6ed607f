package radical

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

//go:embed kangxi.json
var kangxiJSON []byte

// Default returns the table of the 214 Kangxi radicals shipped with the binary
func Default() (*Table, error) {
	entries, err := decodeJSON(bytes.NewReader(kangxiJSON))
	if err != nil {
		return nil, fmt.Errorf("decoding embedded radicals: %w", err)
	}
	return New(entries)
}

// LoadJSON reads a radicals.json style document: [{"id", "radical", "english"}]
func LoadJSON(r io.Reader) (*Table, error) {
	entries, err := decodeJSON(r)
	if err != nil {
		return nil, err
	}
	return New(entries)
}

// LoadFile loads a table from path, choosing the format by extension.
// .json files are decoded directly, .db, .sqlite and .sqlite3 files are
// read through the SQLite driver.
func LoadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening radicals file: %w", err)
		}
		defer f.Close()
		return LoadJSON(f)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported radicals file format: %s", path)
	}
}

func decodeJSON(r io.Reader) ([]hanzi.RadicalEntry, error) {
	var entries []hanzi.RadicalEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing radicals: %w", err)
	}
	return entries, nil
}
