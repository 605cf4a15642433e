// Package segfont holds the glyph and wiring tables of the 16-segment LED
// character modules.
//
// Every character cell is a block of 49 addressable LEDs. The LEDs are grouped
// into 17 strokes (16 segments and a decimal point) and every stroke owns a
// contiguous, inclusive range of LED indices inside the block:
//
//	 -A1-  -A2-
//	|\    |    /|
//	F H   I   J B
//	|  \  |  /  |
//	 -G1-  -G2-
//	|  /  |  \  |
//	E K   L   M C
//	|/    |    \|
//	 -D1-  -D2-  DP
//
// The tables reproduce one specific wiring harness and must not be changed.
package segfont

import (
	"image"
	"strings"
)

// Segment is a physical stroke of a character cell.
type Segment uint8

const (
	SegA1 Segment = iota
	SegA2
	SegB
	SegC
	SegD1
	SegD2
	SegE
	SegF
	SegG1
	SegG2
	SegH
	SegI
	SegJ
	SegK
	SegL
	SegM
	SegDP

	// NumSegments is the number of strokes per character cell.
	NumSegments = 17
)

// LEDsPerChar is the number of logical LEDs in one character cell.
const LEDsPerChar = 49

// Cell size, in pixels, of the LED coordinate template.
const (
	CellWidth  = 10
	CellHeight = 12
)

// Mask is a segment bitmask, bit i set means Segment i is lit.
type Mask uint32

// Has reports whether s is lit.
func (m Mask) Has(s Segment) bool {
	return s < NumSegments && m&(1<<s) != 0
}

// With returns m with s lit.
func (m Mask) With(s Segment) Mask {
	if s >= NumSegments {
		return m
	}
	return m | 1<<s
}

// LED reports whether the LED at index led of a cell is on for this mask.
//
// A LED is on when it falls in the range of any lit segment.
func (m Mask) LED(led int) bool {
	for s := Segment(0); s < NumSegments; s++ {
		if m&(1<<s) != 0 && Ranges[s].Contains(led) {
			return true
		}
	}
	return false
}

// Range is an inclusive range of LED indices inside a character cell.
type Range struct {
	Start, End uint8
}

// Contains reports whether led is inside the range.
func (r Range) Contains(led int) bool {
	return led >= int(r.Start) && led <= int(r.End)
}

// Len returns the number of LEDs in the range.
func (r Range) Len() int {
	return int(r.End) - int(r.Start) + 1
}

// Ranges maps every segment to the LEDs it drives. The ranges follow the
// daisy chain of the harness: outer ring clockwise, middle bar, inner strokes,
// then the decimal point.
var Ranges = [NumSegments]Range{
	SegA1: {0, 2},
	SegA2: {3, 5},
	SegB:  {6, 9},
	SegC:  {10, 13},
	SegD2: {14, 16},
	SegD1: {17, 19},
	SegE:  {20, 23},
	SegF:  {24, 27},
	SegG1: {28, 30},
	SegG2: {31, 33},
	SegH:  {34, 35},
	SegI:  {36, 38},
	SegJ:  {39, 40},
	SegM:  {41, 42},
	SegL:  {43, 45},
	SegK:  {46, 47},
	SegDP: {48, 48},
}

// Template is the position of every LED inside a CellWidth x CellHeight cell.
var Template = [LEDsPerChar]image.Point{
	// A1, A2
	{1, 0}, {2, 0}, {3, 0},
	{5, 0}, {6, 0}, {7, 0},
	// B, C
	{8, 1}, {8, 2}, {8, 3}, {8, 4},
	{8, 6}, {8, 7}, {8, 8}, {8, 9},
	// D2, D1
	{7, 10}, {6, 10}, {5, 10},
	{3, 10}, {2, 10}, {1, 10},
	// E, F
	{0, 9}, {0, 8}, {0, 7}, {0, 6},
	{0, 4}, {0, 3}, {0, 2}, {0, 1},
	// G1, G2
	{1, 5}, {2, 5}, {3, 5},
	{5, 5}, {6, 5}, {7, 5},
	// H, I, J
	{2, 2}, {3, 3},
	{4, 1}, {4, 2}, {4, 3},
	{6, 2}, {5, 3},
	// M, L, K
	{5, 7}, {6, 8},
	{4, 7}, {4, 8}, {4, 9},
	{3, 7}, {2, 8},
	// DP
	{9, 10},
}

var splitNames = [NumSegments]string{
	"A1", "A2", "B", "C", "D1", "D2", "E", "F", "G1", "G2",
	"H", "I", "J", "K", "L", "M", "DP",
}

func (s Segment) String() string {
	if s >= NumSegments {
		return "?"
	}
	return splitNames[s]
}

// ParseMask builds a mask from a space separated list of segment names,
// e.g. "A1 A2 G1". Unknown names are ignored.
func ParseMask(names string) Mask {
	var m Mask
	for _, n := range strings.Fields(names) {
		for s, sn := range splitNames {
			if strings.EqualFold(n, sn) {
				m = m.With(Segment(s))
			}
		}
	}
	return m
}
