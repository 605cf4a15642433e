// Package ibis sends text to IBIS passenger information displays.
//
// A telegram is a command byte, the payload, a carriage return and an XOR
// checksum. The bus is a 1200 baud 7E2 serial line, so the payload uses the
// IBIS national variant of 7-bit ASCII where the German umlauts replace
// brackets and braces.
package ibis

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/transport"
)

// Seed is the initial value of the checksum.
const Seed = 0x7F

// CmdText is the command byte of a text telegram.
const CmdText = 'v'

// Line is the serial configuration of the bus.
var Line = transport.UARTOpts{
	Baud:   1200 * physic.Hertz,
	Parity: uart.Even,
	Stop:   uart.Two,
	Bits:   7,
}

// umlauts maps ISO-8859-1 umlauts onto their 7-bit IBIS codes.
var umlauts = map[byte]byte{
	0xC4: 0x5B, // Ä
	0xD6: 0x5C, // Ö
	0xDC: 0x5D, // Ü
	0xE4: 0x7B, // ä
	0xF6: 0x7C, // ö
	0xFC: 0x7D, // ü
	0xDF: 0x7E, // ß
}

// Substitute returns the 7-bit code sent for the ISO-8859-1 byte b. Control
// characters become spaces and other characters outside 7-bit ASCII '?'.
func Substitute(b byte) byte {
	switch {
	case b < 0x20 || b == 0x7F:
		return ' '
	case b < 0x80:
		return b
	}
	if c, ok := umlauts[b]; ok {
		return c
	}
	return '?'
}

// Checksum returns Seed XORed with every byte of p.
func Checksum(p []byte) byte {
	c := byte(Seed)
	for _, b := range p {
		c ^= b
	}
	return c
}

// AppendTelegram appends the telegram for cmd and the ISO-8859-1 text to dst.
// When the checksum would equal the terminating carriage return a space is
// inserted before the carriage return, which changes the checksum.
func AppendTelegram(dst []byte, cmd byte, text []byte) []byte {
	start := len(dst)
	dst = append(dst, cmd)
	for _, b := range text {
		dst = append(dst, Substitute(b))
	}
	dst = append(dst, '\r')
	sum := Checksum(dst[start:])
	if sum == '\r' {
		dst[len(dst)-1] = ' '
		dst = append(dst, '\r')
		sum = Checksum(dst[start:])
	}
	return append(dst, sum)
}

// Encode returns the telegram for cmd and the ISO-8859-1 text.
func Encode(cmd byte, text []byte) []byte {
	return AppendTelegram(nil, cmd, text)
}

// EncodeString returns the telegram for cmd and the UTF-8 text s.
func EncodeString(cmd byte, s string) []byte {
	return Encode(cmd, Latin1(s))
}

// Latin1 converts s to ISO-8859-1. Runes without an encoding become '?'.
func Latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// Opts is the configuration of an IBIS display.
type Opts struct {
	// Command defaults to CmdText.
	Command byte
	// Row of the character buffer shown on the display.
	Row int
}

// Dev is an IBIS display.
type Dev struct {
	t    transport.Transport
	opts Opts

	text     []byte
	last     []byte
	known    bool
	telegram []byte

	halted bool
}

// New returns an IBIS display sending through t. opts can be nil.
func New(t transport.Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("ibis: transport is required")
	}
	o := Opts{Command: CmdText}
	if opts != nil {
		o = *opts
		if o.Command == 0 {
			o.Command = CmdText
		}
	}
	if o.Row < 0 {
		return nil, errors.New("ibis: row must not be negative")
	}
	return &Dev{t: t, opts: o}, nil
}

// Render implements display.Renderer.
func (d *Dev) Render(f *display.Frame) error {
	if f.Chars == nil {
		return nil
	}
	return d.Draw(f.Chars)
}

// Draw sends the configured row of chars when it differs from the text last
// sent. When the transport is busy Draw does nothing.
func (d *Dev) Draw(chars *charbuf.Buffer) error {
	d.text = RowText(d.text[:0], chars, d.opts.Row)
	return d.Write(d.text)
}

// Write sends the ISO-8859-1 text when it differs from the text last sent.
func (d *Dev) Write(text []byte) error {
	if d.halted {
		return errors.New("ibis: halted")
	}
	if d.t.Busy() {
		return nil
	}
	if d.known && bytes.Equal(text, d.last) {
		return nil
	}
	d.telegram = AppendTelegram(d.telegram[:0], d.opts.Command, text)
	if err := d.t.Send(d.telegram); err != nil {
		if errors.Is(err, transport.ErrBusy) {
			return nil
		}
		return fmt.Errorf("ibis: %w", err)
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("ibis: %w", err)
	}
	d.last = append(d.last[:0], text...)
	d.known = true
	return nil
}

// RowText appends row of b to dst with combining full stops restored and
// trailing blanks removed.
func RowText(dst []byte, b *charbuf.Buffer, row int) []byte {
	if row < 0 || row >= b.Height {
		return dst
	}
	start := len(dst)
	for i := row * b.Width; i < (row+1)*b.Width; i++ {
		c, q := b.Cell(i)
		dst = append(dst, c)
		if q&charbuf.CombiningFullStop != 0 {
			dst = append(dst, '.')
		}
	}
	return append(dst[:start], bytes.TrimRight(dst[start:], " ")...)
}

// Halt waits for the last telegram and refuses further frames.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("ibis: %w", err)
	}
	d.halted = true
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ibis.Dev{%q, row %d}", d.opts.Command, d.opts.Row)
}
