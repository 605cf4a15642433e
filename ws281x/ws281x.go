// Package ws281x renders the character buffer onto segment displays built
// from WS281x addressable LEDs.
//
// Every character cell is a block of 49 LEDs grouped into the 17 segments of
// segfont. A lit LED takes its colour from the active shader, or from the
// shared pixel buffer through the LED map when no shader is set. Colours are
// gamma corrected, scaled by the brightness and serialised for an SPI bus
// clocked at about 3.2MHz, four SPI bits per LED bit.
package ws281x

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/segfont"
	"github.com/flavioheleno/udc/shader"
	"github.com/flavioheleno/udc/transport"
)

// BytesPerLED is the encoded size of one LED: three channels, four bytes each.
const BytesPerLED = 12

const (
	// DefaultFrequency is the SPI clock the bit patterns are timed for.
	DefaultFrequency = 3200 * physic.KiloHertz
	// DefaultResetGap is the low time that latches a frame.
	DefaultResetGap = 350 * time.Microsecond
)

// patterns encodes two LED bits per SPI byte, MSB first.
var patterns = [4]byte{0x88, 0x8E, 0xE8, 0xEE}

// EncodeByte writes the four byte pattern of v into dst.
func EncodeByte(dst []byte, v uint8) {
	dst[0] = patterns[v>>6&3]
	dst[1] = patterns[v>>4&3]
	dst[2] = patterns[v>>2&3]
	dst[3] = patterns[v&3]
}

// Encode writes the twelve byte pattern of c into dst in green, red, blue
// order.
func Encode(dst []byte, c hsv.RGB) {
	EncodeByte(dst[0:4], c.G)
	EncodeByte(dst[4:8], c.R)
	EncodeByte(dst[8:12], c.B)
}

// Opts is the configuration of a segment display.
type Opts struct {
	// Geometry in character cells. Zero takes the geometry of the LED map.
	Geometry ledmap.Geometry
	// Font defaults to segfont.Split.
	Font *segfont.Font
	// Brightness scales every channel by Brightness/255.
	Brightness uint8
	// Gamma is the exponent of the correction curve. Zero means 1.0.
	Gamma float64
	// Split is the first LED driven by the second bus of a dual display.
	// Zero splits the chain in the middle.
	Split int
	// Frequency of the SPI clock, used to size the reset tail.
	Frequency physic.Frequency
	// ResetGap is the low time after a frame.
	ResetGap time.Duration
}

// DefaultOpts is used when nil Opts are given.
var DefaultOpts = Opts{
	Font:       segfont.Split,
	Brightness: 255,
	Gamma:      1,
	Frequency:  DefaultFrequency,
	ResetGap:   DefaultResetGap,
}

// Dev is a segment display on one or two LED chains.
type Dev struct {
	bus   [2]transport.Transport
	split int

	m     *ledmap.Map
	geom  ledmap.Geometry
	font  *segfont.Font
	gamma *hsv.Gamma

	brightness uint8
	shader     shader.Shader
	resetGap   time.Duration

	// One buffer per bus. The single bus buffer carries the reset tail.
	buf   [2][]byte
	masks []segfont.Mask
	blank *charbuf.Buffer

	sleep  func(time.Duration)
	halted bool
}

// New returns a display driven through a single transport.
func New(t transport.Transport, m *ledmap.Map, opts *Opts) (*Dev, error) {
	d, err := newDev(m, opts)
	if err != nil {
		return nil, err
	}
	d.bus[0] = t
	d.split = m.Len()
	d.buf[0] = make([]byte, m.Len()*BytesPerLED+tailLen(d.resetGap, frequency(opts)))
	return d, nil
}

// NewDual returns a display whose LED chain is cut in two at opts.Split, the
// first part on a and the rest on b.
func NewDual(a, b transport.Transport, m *ledmap.Map, opts *Opts) (*Dev, error) {
	d, err := newDev(m, opts)
	if err != nil {
		return nil, err
	}
	split := m.Len() / 2
	if opts != nil && opts.Split != 0 {
		split = opts.Split
	}
	if split <= 0 || split >= m.Len() {
		return nil, fmt.Errorf("ws281x: split %d outside 1..%d", split, m.Len()-1)
	}
	d.bus = [2]transport.Transport{a, b}
	d.split = split
	d.buf[0] = make([]byte, split*BytesPerLED)
	d.buf[1] = make([]byte, (m.Len()-split)*BytesPerLED)
	return d, nil
}

func newDev(m *ledmap.Map, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if m == nil {
		return nil, errors.New("ws281x: missing LED map")
	}
	g := opts.Geometry
	if g == (ledmap.Geometry{}) {
		g = m.Geometry
	}
	if m.Len() != g.LEDs() {
		return nil, fmt.Errorf("ws281x: LED map has %d LEDs, display has %d", m.Len(), g.LEDs())
	}
	font := opts.Font
	if font == nil {
		font = segfont.Split
	}
	gap := opts.ResetGap
	if gap <= 0 {
		gap = DefaultResetGap
	}
	return &Dev{
		m:          m,
		geom:       g,
		font:       font,
		gamma:      hsv.NewGamma(opts.Gamma),
		brightness: opts.Brightness,
		resetGap:   gap,
		masks:      make([]segfont.Mask, g.Cells()),
		blank:      charbuf.New(g.Cols, g.Rows),
		sleep:      time.Sleep,
	}, nil
}

func frequency(opts *Opts) physic.Frequency {
	if opts == nil || opts.Frequency <= 0 {
		return DefaultFrequency
	}
	return opts.Frequency
}

// tailLen is the number of zero bytes that keep the line low for gap at f.
func tailLen(gap time.Duration, f physic.Frequency) int {
	bits := (int64(gap) * int64(f/physic.Hertz)) / int64(time.Second)
	return int((bits + 7) / 8)
}

// SetShader selects the colour source of lit LEDs. nil samples the pixel
// buffer.
func (d *Dev) SetShader(s shader.Shader) {
	d.shader = s
}

// SetBrightness sets the global brightness, 0 to 255.
func (d *Dev) SetBrightness(b uint8) {
	d.brightness = b
}

// SetGamma rebuilds the correction table for exponent g.
func (d *Dev) SetGamma(g float64) {
	d.gamma = hsv.NewGamma(g)
}

// Render implements display.Renderer.
func (d *Dev) Render(f *display.Frame) error {
	return d.Draw(f.Time, f.Chars, f.Pixels)
}

// Draw renders chars at time t, sampling pix for LEDs without a shader. It
// does nothing while a bus is still transmitting the previous frame.
func (d *Dev) Draw(t int64, chars *charbuf.Buffer, pix *pixbuf.RGB) error {
	if d.halted {
		return errors.New("ws281x: halted")
	}
	for _, b := range d.bus {
		if b != nil && b.Busy() {
			return nil
		}
	}
	if chars == nil {
		chars = d.blank
	}
	d.encode(t, chars, pix)

	if d.bus[1] == nil {
		if err := d.bus[0].Send(d.buf[0]); err != nil {
			return d.sendErr(err)
		}
		return nil
	}

	errA := d.bus[0].Send(d.buf[0])
	if errA != nil {
		return d.sendErr(errA)
	}
	errB := d.bus[1].Send(d.buf[1])
	errA = d.bus[0].Wait()
	switch {
	case errB == nil:
		errB = d.bus[1].Wait()
	case errors.Is(errB, transport.ErrBusy):
		errB = nil
	}
	d.sleep(d.resetGap)
	if err := errors.Join(errA, errB); err != nil {
		return fmt.Errorf("ws281x: %w", err)
	}
	return nil
}

func (d *Dev) sendErr(err error) error {
	if errors.Is(err, transport.ErrBusy) {
		return nil
	}
	return fmt.Errorf("ws281x: %w", err)
}

// encode fills the bus buffers for one frame.
func (d *Dev) encode(t int64, chars *charbuf.Buffer, pix *pixbuf.RGB) {
	g := d.geom
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			var mask segfont.Mask
			if col < chars.Width && row < chars.Height {
				c, q := chars.Cell(row*chars.Width + col)
				mask = d.font.Lookup(c)
				if q&charbuf.CombiningFullStop != 0 {
					mask = mask.With(segfont.SegDP)
				}
			}
			d.masks[row*g.Cols+col] = mask
		}
	}

	for led := range d.m.Len() {
		cell, idx := d.m.Cell(led)
		c := hsv.Black
		if d.masks[cell].LED(idx) {
			switch {
			case d.shader != nil:
				c = d.shader.Shade(t, cell, idx, d.m.Point(led))
			case pix != nil:
				c = pix.AtOffset(d.m.Offset(led))
			}
			c = hsv.Scale(d.gamma.Apply(c), d.brightness)
		}
		bus, i := 0, led
		if led >= d.split {
			bus, i = 1, led-d.split
		}
		Encode(d.buf[bus][i*BytesPerLED:], c)
	}
}

// Halt blanks the chain and refuses further frames.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	for i, b := range d.bus {
		if b == nil {
			continue
		}
		if err := b.Wait(); err != nil {
			return fmt.Errorf("ws281x: %w", err)
		}
		n := len(d.buf[i]) / BytesPerLED
		if i == 0 {
			n = min(n, d.split)
		}
		for led := range n {
			Encode(d.buf[i][led*BytesPerLED:], hsv.Black)
		}
		if err := b.Send(d.buf[i]); err != nil {
			return fmt.Errorf("ws281x: %w", err)
		}
		if err := b.Wait(); err != nil {
			return fmt.Errorf("ws281x: %w", err)
		}
	}
	d.halted = true
	return nil
}

func (d *Dev) String() string {
	if d.bus[1] != nil {
		return fmt.Sprintf("ws281x.Dev{%dx%d, split %d}", d.geom.Cols, d.geom.Rows, d.split)
	}
	return fmt.Sprintf("ws281x.Dev{%dx%d}", d.geom.Cols, d.geom.Rows)
}
