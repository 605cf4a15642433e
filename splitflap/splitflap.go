// Package splitflap drives serial split-flap units.
//
// Each changed unit gets a three byte command: a command byte carrying the
// parity of the address and the code, the 7-bit unit address and the flap
// code. A single commit byte then makes every addressed unit rotate at once.
// The receivers hold only one byte, so the transport must pace the bytes.
package splitflap

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/transport"
)

// Protocol is one of the two command sets spoken by split-flap units.
type Protocol int

const (
	// Position addresses a flap by its 7-bit position on the drum.
	Position Protocol = iota
	// BCD addresses a flap by a two digit BCD number, 0 to 79.
	BCD
)

type protocolInfo struct {
	name   string
	base   byte
	commit byte
	gap    time.Duration
}

var protocols = [...]protocolInfo{
	Position: {"position", 0x88, 0x81, 1000 * time.Microsecond},
	BCD:      {"bcd", 0x90, 0x82, 2500 * time.Microsecond},
}

func (p Protocol) String() string {
	if p < 0 || int(p) >= len(protocols) {
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
	return protocols[p].name
}

// ParseProtocol returns the protocol named s.
func ParseProtocol(s string) (Protocol, error) {
	for i, p := range protocols {
		if p.name == s {
			return Protocol(i), nil
		}
	}
	return 0, fmt.Errorf("splitflap: unknown protocol %q", s)
}

// Gap is the delay the receivers need between two bytes.
func (p Protocol) Gap() time.Duration {
	return protocols[p].gap
}

// Baud is the bit rate of the bus, 8N1.
const Baud = 19200 * physic.Hertz

// Line returns the serial configuration for p.
func (p Protocol) Line() transport.UARTOpts {
	return transport.UARTOpts{Baud: Baud, Gap: p.Gap()}
}

// Commit is the byte that makes all addressed units rotate.
func (p Protocol) Commit() byte {
	return protocols[p].commit
}

// Code returns the wire code of flap c. Codes that cannot be encoded are
// clamped.
func (p Protocol) Code(c byte) byte {
	if p == BCD {
		c = min(c, 79)
		return c/10<<4 | c%10
	}
	return c & 0x7F
}

func parity(b byte) byte {
	return byte(bits.OnesCount8(b) & 1)
}

// AppendCommand appends the command triplet moving unit addr to flap c.
func (p Protocol) AppendCommand(dst []byte, addr, c byte) []byte {
	addr &= 0x7F
	code := p.Code(c)
	cmd := protocols[p].base | parity(addr)<<1 | parity(code)
	return append(dst, cmd, addr, code)
}

// Opts is the configuration of a row of split-flap units.
type Opts struct {
	Protocol Protocol
	// Units is the number of units.
	Units int
	// Addresses maps a unit to its bus address. Empty uses the unit index.
	Addresses []byte
}

// Dev is a row of split-flap units sharing one serial line.
type Dev struct {
	t    transport.Transport
	opts Opts

	last  []byte
	known bool
	buf   []byte

	halted bool
}

// New returns a split-flap row sending through t, which must pace bytes by
// opts.Protocol.Gap().
func New(t transport.Transport, opts *Opts) (*Dev, error) {
	if t == nil || opts == nil {
		return nil, errors.New("splitflap: transport and options are required")
	}
	if opts.Protocol < 0 || int(opts.Protocol) >= len(protocols) {
		return nil, errors.New("splitflap: unknown protocol")
	}
	if opts.Units <= 0 || opts.Units > 128 {
		return nil, errors.New("splitflap: units must be between 1 and 128")
	}
	if len(opts.Addresses) != 0 && len(opts.Addresses) != opts.Units {
		return nil, fmt.Errorf("splitflap: %d addresses for %d units", len(opts.Addresses), opts.Units)
	}
	for i, a := range opts.Addresses {
		if a > 0x7F {
			return nil, fmt.Errorf("splitflap: unit %d: address %#x exceeds 7 bits", i, a)
		}
	}
	return &Dev{
		t:    t,
		opts: *opts,
		last: make([]byte, opts.Units),
	}, nil
}

func (d *Dev) address(i int) byte {
	if len(d.opts.Addresses) == 0 {
		return byte(i)
	}
	return d.opts.Addresses[i]
}

// Render implements display.Renderer.
func (d *Dev) Render(f *display.Frame) error {
	if f.Units == nil {
		return nil
	}
	return d.Draw(f.Units)
}

// Draw moves every unit whose code differs from what it shows. The first call
// after New or Reset moves every unit. When the transport is busy Draw does
// nothing.
func (d *Dev) Draw(units []byte) error {
	if d.halted {
		return errors.New("splitflap: halted")
	}
	if len(units) != d.opts.Units {
		return fmt.Errorf("splitflap: %d codes for %d units", len(units), d.opts.Units)
	}
	if d.t.Busy() {
		return nil
	}
	if d.known && bytes.Equal(units, d.last) {
		return nil
	}
	d.buf = d.Commands(d.buf[:0], units)
	if err := d.t.Send(d.buf); err != nil {
		if errors.Is(err, transport.ErrBusy) {
			return nil
		}
		return fmt.Errorf("splitflap: %w", err)
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("splitflap: %w", err)
	}
	copy(d.last, units)
	d.known = true
	return nil
}

// Commands appends the command buffer moving the changed units to units.
func (d *Dev) Commands(dst []byte, units []byte) []byte {
	p := d.opts.Protocol
	for i, c := range units {
		if d.known && d.last[i] == c {
			continue
		}
		dst = p.AppendCommand(dst, d.address(i), c)
	}
	return append(dst, p.Commit())
}

// Reset forgets the unit state so the next Draw moves every unit.
func (d *Dev) Reset() {
	d.known = false
}

// Halt waits for the last command buffer and refuses further frames.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	if err := d.t.Wait(); err != nil {
		return fmt.Errorf("splitflap: %w", err)
	}
	d.halted = true
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("splitflap.Dev{%s, %d units}", d.opts.Protocol, d.opts.Units)
}
