package radical

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// Table is an immutable index of radical entries keyed by radical number.
// It is safe for concurrent use because nothing writes to it after New.
type Table struct {
	byID    map[int]hanzi.RadicalEntry
	byGlyph map[string]int
}

// variantForms maps positional and simplified radical shapes, as commonly
// returned by language models, to their Kangxi number
var variantForms = map[string]int{
	"亻": 9, "刂": 18, "忄": 61, "扌": 64, "攵": 66, "氵": 85, "灬": 86,
	"犭": 94, "礻": 113, "罒": 122, "艹": 140, "衤": 145, "辶": 162,
	"讠": 149, "纟": 120, "钅": 167, "饣": 184, "户": 63, "见": 147,
	"贝": 154, "车": 159, "长": 168, "门": 169, "青": 174, "韦": 178,
	"页": 181, "风": 182, "飞": 183, "马": 187, "鱼": 195, "鸟": 196,
	"卤": 197, "麦": 199, "黄": 201, "黾": 205, "齐": 210, "齿": 211,
	"龙": 212, "龟": 213,
}

// New builds a table from entries. Ids must be positive and unique.
func New(entries []hanzi.RadicalEntry) (*Table, error) {
	t := &Table{
		byID:    make(map[int]hanzi.RadicalEntry, len(entries)),
		byGlyph: make(map[string]int, len(entries)+len(variantForms)),
	}

	for _, e := range entries {
		if e.ID < 1 {
			return nil, fmt.Errorf("invalid radical id %d", e.ID)
		}
		if _, dup := t.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate radical id %d", e.ID)
		}
		e.Glyph = strings.TrimSpace(e.Glyph)
		e.EnglishGloss = strings.TrimSpace(e.EnglishGloss)
		t.byID[e.ID] = e
		if e.Glyph != "" {
			t.byGlyph[e.Glyph] = e.ID
		}
	}

	for glyph, id := range variantForms {
		if _, ok := t.byID[id]; !ok {
			continue
		}
		if _, taken := t.byGlyph[glyph]; !taken {
			t.byGlyph[glyph] = id
		}
	}

	return t, nil
}

// Lookup returns the entry for a radical number
func (t *Table) Lookup(id int) (hanzi.RadicalEntry, bool) {
	if t == nil {
		return hanzi.RadicalEntry{}, false
	}
	e, ok := t.byID[id]
	return e, ok
}

// LookupString parses a decimal radical id and looks it up
func (t *Table) LookupString(id string) (hanzi.RadicalEntry, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return hanzi.RadicalEntry{}, false
	}
	return t.Lookup(n)
}

// IDForGlyph returns the radical number for a radical glyph, including
// common variant and simplified shapes
func (t *Table) IDForGlyph(glyph string) (int, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.byGlyph[strings.TrimSpace(glyph)]
	return id, ok
}

// Len returns the number of radicals in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}
