// Package transport hands output buffers to a bus without blocking the
// renderer.
//
// A Transport accepts one transfer at a time. While a transfer is in flight
// Busy reports true and Send returns ErrBusy; renderers treat that as a
// request to skip the cycle, never as a failure.
package transport

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/uart"
)

// ErrBusy is returned by Send while a previous transfer is still running.
var ErrBusy = errors.New("transport: busy")

// Transport is a byte sink with a busy/idle signal.
type Transport interface {
	// Busy reports whether a transfer is in progress. It never blocks.
	Busy() bool
	// Send starts transmitting p. p may be reused as soon as Send returns.
	Send(p []byte) error
	// Wait blocks until the last transfer finished and returns its error.
	Wait() error
}

type flight struct {
	done chan struct{}
	err  error
}

// async runs one transfer at a time on its own goroutine.
type async struct {
	busy atomic.Bool
	buf  []byte

	mu  sync.Mutex
	cur *flight
}

func (a *async) start(p []byte, tx func([]byte) error) error {
	if !a.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	a.buf = append(a.buf[:0], p...)
	buf := a.buf
	f := &flight{done: make(chan struct{})}
	a.mu.Lock()
	a.cur = f
	a.mu.Unlock()
	go func() {
		if err := tx(buf); err != nil {
			f.err = fmt.Errorf("transport: %w", err)
		}
		a.busy.Store(false)
		close(f.done)
	}()
	return nil
}

func (a *async) Busy() bool {
	return a.busy.Load()
}

func (a *async) Wait() error {
	a.mu.Lock()
	f := a.cur
	a.mu.Unlock()
	if f == nil {
		return nil
	}
	<-f.done
	return f.err
}

// Async sends whole buffers over a periph connection in a single Tx.
type Async struct {
	async
	c conn.Conn
}

// NewAsync returns an Async transport writing to c.
func NewAsync(c conn.Conn) *Async {
	return &Async{c: c}
}

// Send implements Transport.
func (a *Async) Send(p []byte) error {
	return a.start(p, func(b []byte) error {
		return a.c.Tx(b, nil)
	})
}

func (a *Async) String() string {
	return fmt.Sprintf("async(%s)", a.c)
}

// Paced sends one byte per Tx and waits Gap after each byte, for receivers
// that buffer no more than a single byte.
type Paced struct {
	async
	c   conn.Conn
	Gap time.Duration

	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewPaced returns a Paced transport writing to c.
func NewPaced(c conn.Conn, gap time.Duration) *Paced {
	return &Paced{c: c, Gap: gap}
}

// Send implements Transport.
func (p *Paced) Send(b []byte) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	gap := p.Gap
	return p.start(b, func(b []byte) error {
		for i := range b {
			if err := p.c.Tx(b[i:i+1], nil); err != nil {
				return fmt.Errorf("byte %d: %w", i, err)
			}
			if gap > 0 {
				sleep(gap)
			}
		}
		return nil
	})
}

func (p *Paced) String() string {
	return fmt.Sprintf("paced(%s, %s)", p.c, p.Gap)
}

// OpenSPI connects to an SPI port in mode 0 with 8 bit words.
func OpenSPI(p spi.Port, f physic.Frequency) (*Async, error) {
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("transport: spi connect: %w", err)
	}
	return NewAsync(c), nil
}

// UARTOpts configures a serial line.
type UARTOpts struct {
	Baud   physic.Frequency
	Parity uart.Parity
	Stop   uart.Stop
	Bits   int
	// Gap is the delay after each byte.
	Gap time.Duration
}

// OpenUART connects to a UART port and returns a paced transport.
func OpenUART(p uart.Port, opts *UARTOpts) (*Paced, error) {
	if opts == nil || opts.Baud <= 0 {
		return nil, errors.New("transport: uart baud rate must be set")
	}
	bits := opts.Bits
	if bits == 0 {
		bits = 8
	}
	parity := opts.Parity
	if parity == 0 {
		parity = uart.NoParity
	}
	stop := opts.Stop
	if stop == 0 {
		stop = uart.One
	}
	c, err := p.Connect(opts.Baud, stop, parity, uart.NoFlow, bits)
	if err != nil {
		return nil, fmt.Errorf("transport: uart connect: %w", err)
	}
	return NewPaced(c, opts.Gap), nil
}
