// Package pixbuf provides the three pixel buffer layouts shared by the display
// renderers and the bitmap generators.
//
// All layouts are column-major, so a column of a physical panel is contiguous
// in memory.
//
// Mono packs 8 rows per byte, least significant bit first:
//
//	height 10, so 2 bytes per column
//	Pix[x*2+0] bit 0..7 = rows 0..7
//	Pix[x*2+1] bit 0..1 = rows 8..9
//
// Gray stores one byte per pixel at Pix[x*H+y]. A value above 127 is "on" for
// binary displays.
//
// RGB stores three bytes per pixel at Pix[(x*H+y)*3], in R, G, B order.
//
// Every buffer implements image.Image and draw.Image, so standard drawing code
// can target them:
//
//	buf := pixbuf.NewRGB(image.Rect(0, 0, 210, 24))
//	draw.Draw(buf, buf.Bounds(), image.NewUniform(hsv.RGB{R: 255}), image.Point{}, draw.Src)
//
// Reads outside the bounds return the zero colour and writes outside the bounds
// are ignored.
package pixbuf
