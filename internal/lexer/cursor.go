package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// Cursor is a byte position inside one interface file.
type Cursor struct {
	File *source.File
	Off  uint32
}

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0}
}

func (c *Cursor) limit() uint32 {
	return uint32(len(c.File.Content)) // #nosec G115 -- checked in NewCursor
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek reads the current byte without advancing, 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt reads the byte n positions ahead, 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit() {
		return 0
	}
	return c.File.Content[c.Off+n]
}

func (c *Cursor) Advance() {
	if !c.EOF() {
		c.Off++
	}
}

func (c *Cursor) AdvanceN(n uint32) {
	c.Off += n
	if c.Off > c.limit() {
		c.Off = c.limit()
	}
}

// Slice returns the source text between two offsets.
func (c *Cursor) Slice(start, end uint32) string {
	return string(c.File.Content[start:end])
}

func (c *Cursor) Span(start uint32) source.Span {
	return source.Span{File: c.File.ID, Start: start, End: c.Off}
}
