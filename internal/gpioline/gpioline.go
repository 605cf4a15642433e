// Package gpioline exposes a line of a Linux GPIO character device as a
// periph output pin.
package gpioline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Consumer is the label the kernel shows for lines requested here.
const Consumer = "udc"

type line interface {
	SetValue(value int) error
	Close() error
}

// Line is an output line. It implements gpio.PinOut.
type Line struct {
	chip   string
	offset int

	mu    sync.Mutex
	l     line
	level gpio.Level
}

// Open requests offset on chip as an output driven low.
func Open(chip string, offset int) (*Line, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("gpioline: %s:%d: %w", chip, offset, err)
	}
	return newLine(chip, offset, l), nil
}

func newLine(chip string, offset int, l line) *Line {
	return &Line{chip: chip, offset: offset, l: l}
}

// String implements conn.Resource.
func (p *Line) String() string {
	return fmt.Sprintf("%s:%d", p.chip, p.offset)
}

// Halt implements conn.Resource. It drives the line low.
func (p *Line) Halt() error {
	return p.Out(gpio.Low)
}

// Name implements pin.Pin.
func (p *Line) Name() string {
	return p.String()
}

// Number implements pin.Pin.
func (p *Line) Number() int {
	return p.offset
}

// Function implements pin.Pin.
func (p *Line) Function() string {
	return "Out/" + p.Read().String()
}

// Read returns the level last written.
func (p *Line) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Out implements gpio.PinOut.
func (p *Line) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		return errors.New("gpioline: closed")
	}
	v := 0
	if l {
		v = 1
	}
	if err := p.l.SetValue(v); err != nil {
		return fmt.Errorf("gpioline: %s:%d: %w", p.chip, p.offset, err)
	}
	p.level = l
	return nil
}

// PWM implements gpio.PinOut. Character device lines have no PWM.
func (p *Line) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("gpioline: PWM is not supported")
}

// Close releases the line.
func (p *Line) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.l == nil {
		return nil
	}
	err := p.l.Close()
	p.l = nil
	return err
}

var _ gpio.PinOut = (*Line)(nil)
