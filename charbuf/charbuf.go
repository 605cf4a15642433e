// Package charbuf converts raw text into the fixed-size character buffer
// consumed by the character display renderers.
package charbuf

import (
	"bytes"
	"strings"
)

// Quirk is a per-cell flag carried next to the character code.
type Quirk uint8

const (
	// CombiningFullStop lights the decimal point of the cell.
	CombiningFullStop Quirk = 1 << iota
)

// Quirks holds the flags of every cell of a Buffer.
//
// All accessors check the index; out of range writes are ignored.
type Quirks []Quirk

// Set adds f to cell i and reports whether i was in range.
func (q Quirks) Set(i int, f Quirk) bool {
	if i < 0 || i >= len(q) {
		return false
	}
	q[i] |= f
	return true
}

// Clear removes f from cell i.
func (q Quirks) Clear(i int, f Quirk) bool {
	if i < 0 || i >= len(q) {
		return false
	}
	q[i] &^= f
	return true
}

// Has reports whether cell i carries f.
func (q Quirks) Has(i int, f Quirk) bool {
	if i < 0 || i >= len(q) {
		return false
	}
	return q[i]&f != 0
}

// Buffer is a Width x Height grid of character codes, row-major.
type Buffer struct {
	Width  int
	Height int
	Chars  []byte
	Quirks Quirks
}

// New returns a blank buffer of the given size in characters.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	return &Buffer{
		Width:  width,
		Height: height,
		Chars:  make([]byte, n),
		Quirks: make(Quirks, n),
	}
}

// Len returns the number of cells.
func (b *Buffer) Len() int {
	return len(b.Chars)
}

// Cell returns the character and flags of cell i, or zeros when out of range.
func (b *Buffer) Cell(i int) (byte, Quirk) {
	if i < 0 || i >= len(b.Chars) {
		return 0, 0
	}
	var q Quirk
	if i < len(b.Quirks) {
		q = b.Quirks[i]
	}
	return b.Chars[i], q
}

// Fill sets every cell to c and clears all flags.
func (b *Buffer) Fill(c byte) {
	for i := range b.Chars {
		b.Chars[i] = c
	}
	clear(b.Quirks)
}

// Equal reports whether both buffers hold the same geometry and content.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	if !bytes.Equal(b.Chars, o.Chars) || len(b.Quirks) != len(o.Quirks) {
		return false
	}
	for i := range b.Quirks {
		if b.Quirks[i] != o.Quirks[i] {
			return false
		}
	}
	return true
}

// CopyFrom makes b a copy of src, reusing b's storage when it is large enough.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.Width, b.Height = src.Width, src.Height
	b.Chars = append(b.Chars[:0], src.Chars...)
	b.Quirks = append(b.Quirks[:0], src.Quirks...)
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{}
	c.CopyFrom(b)
	return c
}

// String renders the buffer one row per line. Cells with a combining full
// stop are followed by '.'.
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, c := range b.Chars {
		if i > 0 && b.Width > 0 && i%b.Width == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteByte(c)
		if b.Quirks.Has(i, CombiningFullStop) && c != '.' {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Convert fills dst from src. dst is first reset to blank with no flags.
//
// A '.' combines with the previous cell as its decimal point, unless it is the
// first byte of src or follows another '.', in which case it takes a cell of
// its own with the decimal point lit. A '\n' moves to the start of the next
// row. Conversion stops at the first NUL or once dst is full; a combining '.'
// after the last cell is still applied.
func Convert(dst *Buffer, src []byte, blank byte) {
	dst.Fill(blank)
	n := len(dst.Chars)
	di := 0
	for si, c := range src {
		switch c {
		case 0:
			return
		case '.':
			if si == 0 || src[si-1] == '.' {
				if di >= n {
					return
				}
				dst.Chars[di] = '.'
				dst.Quirks.Set(di, CombiningFullStop)
				di++
				continue
			}
			// Attaches to whatever cell precedes the cursor, including the
			// last cell of the previous row after a line break.
			dst.Quirks.Set(di-1, CombiningFullStop)
		case '\n':
			if dst.Width > 0 {
				di += dst.Width - di%dst.Width
			}
		default:
			if di >= n {
				return
			}
			dst.Chars[di] = c
			di++
		}
	}
}

// ConvertString is Convert for string input.
func ConvertString(dst *Buffer, s string, blank byte) {
	Convert(dst, []byte(s), blank)
}
