package tabular

import (
	"github.com/jyhi/mdbfs/internal/pathutil"
)

// Tag identifies which level of the tabular hierarchy a Path addresses.
type Tag int

const (
	// TagDatabase is the root: all components absent.
	TagDatabase Tag = iota
	// TagTable: only Table is present.
	TagTable
	// TagRow: Table and Row are present.
	TagRow
	// TagColumn: Table, Row and Column are all present.
	TagColumn
)

// Path is a decoded tabular filesystem path (spec §3's "Decoded Path
// (tabular backend)"). Table, Row, Column are populated in prefix order
// according to Tag.
type Path struct {
	Tag    Tag
	Table  string
	Row    string
	Column string
}

// Decode normalizes p and maps it onto the tabular hierarchy:
//
//	/              -> Database
//	/T             -> Table
//	/T/R           -> Row
//	/T/R/C         -> Column
//
// A fourth non-empty segment is rejected (ok == false), matching spec
// §4.3's "any more than three components => not a decoded path".
func Decode(p string) (Path, bool) {
	norm, err := pathutil.Normalize(p)
	if err != nil {
		return Path{}, false
	}
	if !pathutil.IsAbsolute(norm) {
		return Path{}, false
	}

	segs := pathutil.Segments(norm)
	switch len(segs) {
	case 0:
		return Path{Tag: TagDatabase}, true
	case 1:
		return Path{Tag: TagTable, Table: segs[0]}, true
	case 2:
		return Path{Tag: TagRow, Table: segs[0], Row: segs[1]}, true
	case 3:
		return Path{Tag: TagColumn, Table: segs[0], Row: segs[1], Column: segs[2]}, true
	default:
		return Path{}, false
	}
}

// Render is Decode's inverse: it reconstructs the canonical path string for
// a decoded Path. Used by tests to verify the round-trip invariant in spec
// §8.1.
func Render(p Path) string {
	switch p.Tag {
	case TagDatabase:
		return "/"
	case TagTable:
		return "/" + p.Table
	case TagRow:
		return "/" + p.Table + "/" + p.Row
	case TagColumn:
		return "/" + p.Table + "/" + p.Row + "/" + p.Column
	default:
		return "/"
	}
}
