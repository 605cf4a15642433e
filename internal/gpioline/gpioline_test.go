package gpioline

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

type fakeLine struct {
	values []int
	closed bool
	err    error
}

func (f *fakeLine) SetValue(v int) error {
	if f.err != nil {
		return f.err
	}
	f.values = append(f.values, v)
	return nil
}

func (f *fakeLine) Close() error {
	f.closed = true
	return nil
}

func TestOut(t *testing.T) {
	f := &fakeLine{}
	p := newLine("gpiochip0", 17, f)
	if p.String() != "gpiochip0:17" || p.Number() != 17 {
		t.Errorf("identity = %s %d", p, p.Number())
	}
	if err := p.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if p.Read() != gpio.High || p.Function() != "Out/High" {
		t.Errorf("level = %v, function %q", p.Read(), p.Function())
	}
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
	if len(f.values) != 2 || f.values[0] != 1 || f.values[1] != 0 {
		t.Errorf("values = %v", f.values)
	}
	if err := p.PWM(gpio.DutyHalf, 0); err == nil {
		t.Error("PWM succeeded")
	}
}

func TestOutError(t *testing.T) {
	want := errors.New("device busy")
	p := newLine("gpiochip0", 4, &fakeLine{err: want})
	if err := p.Out(gpio.High); !errors.Is(err, want) {
		t.Errorf("Out = %v", err)
	}
	if p.Read() != gpio.Low {
		t.Error("level changed on failure")
	}
}

func TestClose(t *testing.T) {
	f := &fakeLine{}
	p := newLine("gpiochip0", 4, f)
	if err := p.Close(); err != nil || !f.closed {
		t.Fatalf("Close = %v, closed %t", err, f.closed)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := p.Out(gpio.High); err == nil {
		t.Error("Out after Close succeeded")
	}
}
