package tileset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedDocument = errors.New("malformed tileset document")
	ErrDuplicateTileID   = errors.New("duplicate tile id")
	ErrInvalidAttribute  = errors.New("invalid attribute")
)

// noTile marks a LoadError that is not tied to a tile entry.
const noTile = -1

// LoadError locates a load failure inside a document. Kind is one of the
// Err* sentinels above and matches with errors.Is.
type LoadError struct {
	Document string
	TileID   int64 // -1 when the failure is not inside a tile entry
	Attr     string
	Kind     error
	Err      error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("tileset ")
	b.WriteString(e.Document)
	if e.TileID != noTile {
		fmt.Fprintf(&b, " tile %d", e.TileID)
	}
	if e.Attr != "" {
		fmt.Fprintf(&b, " attribute %q", e.Attr)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// HasTile reports whether the error points at a tile entry.
func (e *LoadError) HasTile() bool {
	return e.TileID != noTile
}
