package segfont

// Font is a character to segment mask table covering the codes 32 to 127.
type Font struct {
	// Name identifies the wiring variant in configuration.
	Name string
	// Labels are the segment names printed on the harness, indexed by Segment.
	Labels [NumSegments]string

	glyphs [96]Mask
}

// Lookup returns the segment mask of c, or 0 when c is outside the table.
func (f *Font) Lookup(c byte) Mask {
	if c < 32 || c > 127 {
		return 0
	}
	return f.glyphs[c-32]
}

// ByName returns the font registered under name, or nil.
func ByName(name string) *Font {
	switch name {
	case Split.Name:
		return Split
	case Letters.Name:
		return Letters
	}
	return nil
}

// Split is the standard 16-segment wiring where the top, bottom and middle
// bars are driven as two independent halves.
var Split = &Font{
	Name:   "split",
	Labels: splitNames,
	glyphs: [96]Mask{
		0x00000, // 0x20 space
		0x14800, // 0x21 !
		0x00804, // 0x22 "
		0x04B3C, // 0x23 #
		0x04BBB, // 0x24 $
		0x07BA9, // 0x25 %
		0x09571, // 0x26 &
		0x00800, // 0x27 '
		0x09000, // 0x28 (
		0x02400, // 0x29 )
		0x0FF00, // 0x2A *
		0x04B00, // 0x2B +
		0x02000, // 0x2C ,
		0x00300, // 0x2D -
		0x10000, // 0x2E .
		0x03000, // 0x2F /
		0x030FF, // 0x30 0
		0x0100C, // 0x31 1
		0x00377, // 0x32 2
		0x0023F, // 0x33 3
		0x0038C, // 0x34 4
		0x081B3, // 0x35 5
		0x003FB, // 0x36 6
		0x0000F, // 0x37 7
		0x003FF, // 0x38 8
		0x003BF, // 0x39 9
		0x04800, // 0x3A :
		0x02800, // 0x3B ;
		0x09000, // 0x3C <
		0x00330, // 0x3D =
		0x02400, // 0x3E >
		0x14207, // 0x3F ?
		0x0097F, // 0x40 @
		0x003CF, // 0x41 A
		0x04A3F, // 0x42 B
		0x000F3, // 0x43 C
		0x0483F, // 0x44 D
		0x001F3, // 0x45 E
		0x001C3, // 0x46 F
		0x002FB, // 0x47 G
		0x003CC, // 0x48 H
		0x04833, // 0x49 I
		0x0007C, // 0x4A J
		0x091C0, // 0x4B K
		0x000F0, // 0x4C L
		0x014CC, // 0x4D M
		0x084CC, // 0x4E N
		0x000FF, // 0x4F O
		0x003C7, // 0x50 P
		0x080FF, // 0x51 Q
		0x083C7, // 0x52 R
		0x003BB, // 0x53 S
		0x04803, // 0x54 T
		0x000FC, // 0x55 U
		0x030C0, // 0x56 V
		0x0A0CC, // 0x57 W
		0x0B400, // 0x58 X
		0x05400, // 0x59 Y
		0x03033, // 0x5A Z
		0x04822, // 0x5B [
		0x08400, // 0x5C \
		0x04811, // 0x5D ]
		0x0A000, // 0x5E ^
		0x00030, // 0x5F _
		0x00400, // 0x60 `
		0x04150, // 0x61 a
		0x041D0, // 0x62 b
		0x00150, // 0x63 c
		0x0422C, // 0x64 d
		0x02150, // 0x65 e
		0x04B02, // 0x66 f
		0x04991, // 0x67 g
		0x041C0, // 0x68 h
		0x04000, // 0x69 i
		0x02850, // 0x6A j
		0x0D800, // 0x6B k
		0x000C0, // 0x6C l
		0x04348, // 0x6D m
		0x04140, // 0x6E n
		0x04150, // 0x6F o
		0x009C1, // 0x70 p
		0x04981, // 0x71 q
		0x00140, // 0x72 r
		0x04191, // 0x73 s
		0x001D0, // 0x74 t
		0x04050, // 0x75 u
		0x02040, // 0x76 v
		0x0A048, // 0x77 w
		0x0B400, // 0x78 x
		0x00A2C, // 0x79 y
		0x02110, // 0x7A z
		0x04922, // 0x7B {
		0x04800, // 0x7C |
		0x04A11, // 0x7D }
		0x00887, // 0x7E ~
		0x1FFFF, // 0x7F DEL
	},
}

// Letters is the wiring where segments are labelled A to P. The top, bottom and
// middle bars are a single stroke each, so both halves are always lit together.
var Letters = &Font{
	Name: "letters",
	Labels: [NumSegments]string{
		SegA1: "A", SegA2: "B", SegB: "C", SegC: "D", SegD1: "E", SegD2: "F",
		SegE: "G", SegF: "H", SegG1: "I", SegG2: "J", SegH: "K", SegI: "L",
		SegJ: "M", SegK: "N", SegL: "O", SegM: "P", SegDP: "DP",
	},
	glyphs: [96]Mask{
		0x00000, // 0x20 space
		0x14800, // 0x21 !
		0x00804, // 0x22 "
		0x04B3C, // 0x23 #
		0x04BBB, // 0x24 $
		0x07BBB, // 0x25 %
		0x09773, // 0x26 &
		0x00800, // 0x27 '
		0x09000, // 0x28 (
		0x02400, // 0x29 )
		0x0FF00, // 0x2A *
		0x04B00, // 0x2B +
		0x02000, // 0x2C ,
		0x00300, // 0x2D -
		0x10000, // 0x2E .
		0x03000, // 0x2F /
		0x030FF, // 0x30 0
		0x0100C, // 0x31 1
		0x00377, // 0x32 2
		0x0033F, // 0x33 3
		0x0038C, // 0x34 4
		0x083B3, // 0x35 5
		0x003FB, // 0x36 6
		0x0000F, // 0x37 7
		0x003FF, // 0x38 8
		0x003BF, // 0x39 9
		0x04800, // 0x3A :
		0x02800, // 0x3B ;
		0x09000, // 0x3C <
		0x00330, // 0x3D =
		0x02400, // 0x3E >
		0x14307, // 0x3F ?
		0x00B7F, // 0x40 @
		0x003CF, // 0x41 A
		0x04B3F, // 0x42 B
		0x000F3, // 0x43 C
		0x0483F, // 0x44 D
		0x003F3, // 0x45 E
		0x003C3, // 0x46 F
		0x003FB, // 0x47 G
		0x003CC, // 0x48 H
		0x04833, // 0x49 I
		0x0007C, // 0x4A J
		0x093C0, // 0x4B K
		0x000F0, // 0x4C L
		0x014CC, // 0x4D M
		0x084CC, // 0x4E N
		0x000FF, // 0x4F O
		0x003C7, // 0x50 P
		0x080FF, // 0x51 Q
		0x083C7, // 0x52 R
		0x003BB, // 0x53 S
		0x04803, // 0x54 T
		0x000FC, // 0x55 U
		0x030C0, // 0x56 V
		0x0A0CC, // 0x57 W
		0x0B400, // 0x58 X
		0x05400, // 0x59 Y
		0x03033, // 0x5A Z
		0x04833, // 0x5B [
		0x08400, // 0x5C \
		0x04833, // 0x5D ]
		0x0A000, // 0x5E ^
		0x00030, // 0x5F _
		0x00400, // 0x60 `
		0x04370, // 0x61 a
		0x043F0, // 0x62 b
		0x00370, // 0x63 c
		0x0433C, // 0x64 d
		0x02370, // 0x65 e
		0x04B03, // 0x66 f
		0x04BB3, // 0x67 g
		0x043C0, // 0x68 h
		0x04000, // 0x69 i
		0x02870, // 0x6A j
		0x0D800, // 0x6B k
		0x000C0, // 0x6C l
		0x04348, // 0x6D m
		0x04340, // 0x6E n
		0x04370, // 0x6F o
		0x00BC3, // 0x70 p
		0x04B83, // 0x71 q
		0x00340, // 0x72 r
		0x043B3, // 0x73 s
		0x003F0, // 0x74 t
		0x04070, // 0x75 u
		0x02040, // 0x76 v
		0x0A048, // 0x77 w
		0x0B400, // 0x78 x
		0x00B3C, // 0x79 y
		0x02330, // 0x7A z
		0x04B33, // 0x7B {
		0x04800, // 0x7C |
		0x04B33, // 0x7D }
		0x00887, // 0x7E ~
		0x1FFFF, // 0x7F DEL
	},
}
