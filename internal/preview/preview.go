// Package preview draws frames on a console, for bring-up without hardware.
package preview

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/pixbuf"
)

// Console renders frames as text. On a terminal every frame replaces the
// previous one and the pixel buffer is drawn in true colour.
type Console struct {
	w     io.Writer
	ansi  bool
	width int

	// Pixels enables the colour view of the pixel buffer. It needs a
	// terminal.
	Pixels bool

	buf  bytes.Buffer
	last []byte
}

// New returns a console writing to w.
func New(w io.Writer) *Console {
	c := &Console{w: w}
	if f, ok := w.(*os.File); ok {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			c.ansi = true
			if width, _, err := term.GetSize(fd); err == nil {
				c.width = width
			}
		}
	}
	return c
}

// Render implements display.Renderer. Identical output is not written twice.
func (c *Console) Render(f *display.Frame) error {
	c.buf.Reset()
	if f.Chars != nil {
		for _, line := range strings.Split(f.Chars.String(), "\n") {
			c.line("|" + line + "|")
		}
	}
	if f.Mono != nil {
		c.mono(f.Mono)
	}
	if f.Pixels != nil && c.Pixels && c.ansi {
		c.pixels(f.Pixels)
	}
	if f.Units != nil {
		var sb strings.Builder
		for i, u := range f.Units {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%02X", u)
		}
		c.line(sb.String())
	}
	if bytes.Equal(c.buf.Bytes(), c.last) {
		return nil
	}
	c.last = append(c.last[:0], c.buf.Bytes()...)
	if c.ansi {
		if _, err := io.WriteString(c.w, "\x1b[H\x1b[2J"); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	if _, err := c.w.Write(c.buf.Bytes()); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// line appends s clipped to the console width.
func (c *Console) line(s string) {
	if c.width > 0 && utf8.RuneCountInString(s) > c.width {
		r := []rune(s)
		s = string(r[:c.width])
	}
	c.buf.WriteString(s)
	c.buf.WriteByte('\n')
}

func (c *Console) mono(m *pixbuf.Mono) {
	b := m.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sb.Reset()
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.BitAt(x, y) {
				sb.WriteRune('●')
			} else {
				sb.WriteRune('·')
			}
		}
		c.line(sb.String())
	}
}

// pixels draws two pixel rows per text row with upper half blocks.
func (c *Console) pixels(p *pixbuf.RGB) {
	b := p.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c.width > 0 && x-b.Min.X >= c.width {
				break
			}
			top, bottom := p.RGBAt(x, y), p.RGBAt(x, y+1)
			fmt.Fprintf(&c.buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		c.buf.WriteString("\x1b[0m\n")
	}
}
