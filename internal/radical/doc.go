// Package radical provides the read-only Kangxi radical table used to
// resolve radical numbers into glyphs and English glosses. The table is
// built once at startup from the embedded dataset, a JSON file or a
// SQLite database and is never mutated afterwards.
package radical
