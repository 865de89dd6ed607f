package radical

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// LoadSQLite reads radicals from the radicals(id, radical, english) table
// of a SQLite database. The database is opened read-only and closed
// before returning.
func LoadSQLite(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening radicals database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening radicals database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, radical, english FROM radicals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying radicals: %w", err)
	}
	defer rows.Close()

	var entries []hanzi.RadicalEntry
	for rows.Next() {
		var e hanzi.RadicalEntry
		if err := rows.Scan(&e.ID, &e.Glyph, &e.EnglishGloss); err != nil {
			return nil, fmt.Errorf("scanning radical row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading radicals: %w", err)
	}

	return New(entries)
}
