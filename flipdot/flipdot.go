// Package flipdot drives flipdot panels through a chain of shift registers
// and a single coil pulse line.
//
// The registers hold a four byte control word: panel enable bits, the disc
// colour, the column driver address and the row driver address. Every step of
// a flip latches a new word. Discs are flipped one at a time and only when
// they differ from what was last shown.
package flipdot

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/transport"
)

// Colour bits of the control word.
const (
	Bright byte = 0x01 // flip to the lit side
	Dark   byte = 0x02 // flip to the black side
)

// MaxPanels is the number of panel enable bits in the control word.
const MaxPanels = 8

// rowAddresses maps a row to its driver address. Addresses with the three low
// bits clear select nothing on the row driver.
var rowAddresses = [...]byte{
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
	0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E, 0x1F,
}

// MaxRows is the number of rows the row driver can address.
const MaxRows = len(rowAddresses)

// ColumnAddress returns the driver address of column l on a panel n columns
// wide. The columns are wired right to left and every eighth driver address
// is unused.
func ColumnAddress(n, l int) byte {
	p := n - 1 - l
	p += p / 7
	return byte(p)
}

// RowAddress returns the driver address of row r.
func RowAddress(r int) byte {
	return rowAddresses[r]
}

// Opts is the configuration of a flipdot display.
type Opts struct {
	Width, Height int
	// PanelWidth is the number of columns per panel.
	PanelWidth int
	// PulseWidth is how long the coil is energised.
	PulseWidth time.Duration
	// SettleTime is the pause after each pulse.
	SettleTime time.Duration
}

// DefaultOpts describes a single 28x16 panel.
var DefaultOpts = Opts{
	Width:      28,
	Height:     16,
	PanelWidth: 28,
	PulseWidth: 200 * time.Microsecond,
	SettleTime: 100 * time.Microsecond,
}

// Dev is a flipdot display.
type Dev struct {
	t     transport.Transport
	pulse gpio.PinOut
	opts  Opts
	rect  image.Rectangle

	// last is what the discs show. It is only meaningful once known is set.
	last  *pixbuf.Mono
	known bool

	word   [4]byte
	sleep  func(time.Duration)
	halted bool
}

// New returns a flipdot display latching control words through t and
// pulsing the coils through pulse. opts can be nil to use DefaultOpts.
func New(t transport.Transport, pulse gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if t == nil || pulse == nil {
		return nil, errors.New("flipdot: transport and pulse line are required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("flipdot: width and height must be positive")
	}
	if opts.Height > MaxRows {
		return nil, fmt.Errorf("flipdot: height must be at most %d", MaxRows)
	}
	if opts.PanelWidth <= 0 || opts.PanelWidth > 28 || opts.Width%opts.PanelWidth != 0 {
		return nil, errors.New("flipdot: panel width must be between 1 and 28 and divide the width")
	}
	if opts.Width/opts.PanelWidth > MaxPanels {
		return nil, fmt.Errorf("flipdot: at most %d panels", MaxPanels)
	}
	if opts.PulseWidth <= 0 {
		return nil, errors.New("flipdot: pulse width must be positive")
	}
	rect := image.Rect(0, 0, opts.Width, opts.Height)
	return &Dev{
		t:     t,
		pulse: pulse,
		opts:  *opts,
		rect:  rect,
		last:  pixbuf.NewMono(rect),
		sleep: time.Sleep,
	}, nil
}

// Bounds returns the size of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Render implements display.Renderer.
func (d *Dev) Render(f *display.Frame) error {
	if f.Mono == nil {
		return nil
	}
	return d.Draw(f.Mono)
}

// Draw flips the discs that differ between img and the current state. The
// first call after New or Reset flips every disc. When the transport is busy
// Draw does nothing.
func (d *Dev) Draw(img *pixbuf.Mono) error {
	if d.halted {
		return errors.New("flipdot: halted")
	}
	if img.Rect != d.rect {
		return fmt.Errorf("flipdot: frame is %v, display is %v", img.Rect, d.rect)
	}
	if d.t.Busy() {
		return nil
	}
	if d.known && img.Equal(d.last) {
		return nil
	}
	for x := 0; x < d.opts.Width; x++ {
		for y := 0; y < d.opts.Height; y++ {
			on := img.BitAt(x, y)
			if d.known && d.last.BitAt(x, y) == on {
				continue
			}
			if err := d.flip(x, y, on); err != nil {
				return err
			}
			d.last.SetBit(x, y, on)
		}
	}
	d.known = true
	return nil
}

// Reset forgets the disc state so the next Draw flips every disc.
func (d *Dev) Reset() {
	d.known = false
}

// flip turns one disc: select panel, colour, column and row, pulse, deselect.
func (d *Dev) flip(x, y int, on bool) error {
	panel := x / d.opts.PanelWidth
	colour := Dark
	if on {
		colour = Bright
	}
	d.word = [4]byte{}
	steps := []struct {
		i int
		v byte
	}{
		{0, 1 << panel},
		{1, colour},
		{2, ColumnAddress(d.opts.PanelWidth, x%d.opts.PanelWidth)},
		{3, RowAddress(y)},
	}
	for _, s := range steps {
		d.word[s.i] = s.v
		if err := d.latch(); err != nil {
			return err
		}
	}
	if err := d.fire(); err != nil {
		return err
	}
	d.word = [4]byte{}
	return d.latch()
}

// latch shifts the control word into the registers and waits for it.
func (d *Dev) latch() error {
	if err := d.t.Send(d.word[:]); err != nil {
		return fmt.Errorf("flipdot: latch: %w", err)
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("flipdot: latch: %w", err)
	}
	return nil
}

// fire energises the selected coil for the pulse width.
func (d *Dev) fire() error {
	if err := d.pulse.Out(gpio.High); err != nil {
		return fmt.Errorf("flipdot: failed to assert pulse: %w", err)
	}
	d.sleep(d.opts.PulseWidth)
	if err := d.pulse.Out(gpio.Low); err != nil {
		return fmt.Errorf("flipdot: failed to release pulse: %w", err)
	}
	d.sleep(d.opts.SettleTime)
	return nil
}

// Halt releases the pulse line and deselects every driver.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	if err := d.pulse.Out(gpio.Low); err != nil {
		return fmt.Errorf("flipdot: failed to release pulse: %w", err)
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("flipdot: %w", err)
	}
	d.word = [4]byte{}
	if err := d.latch(); err != nil {
		return err
	}
	d.halted = true
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("flipdot.Dev{%dx%d, %d panels}", d.opts.Width, d.opts.Height, d.opts.Width/d.opts.PanelWidth)
}
