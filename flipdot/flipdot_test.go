package flipdot

import (
	"bytes"
	"errors"
	"image"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/transport"
)

// countPin counts the pulses issued on a fake GPIO.
type countPin struct {
	gpiotest.Pin
	pulses int
}

func (p *countPin) Out(l gpio.Level) error {
	if l == gpio.High {
		p.pulses++
	}
	return p.Pin.Out(l)
}

// failConn fails every Tx after the first ok ones.
type failConn struct {
	ok  int
	err error
}

func (f *failConn) String() string      { return "fail" }
func (f *failConn) Duplex() conn.Duplex { return conn.Half }

func (f *failConn) Tx(w, r []byte) error {
	if f.ok == 0 {
		return f.err
	}
	f.ok--
	return nil
}

type stuck struct{}

func (stuck) Busy() bool          { return true }
func (stuck) Send(p []byte) error { return transport.ErrBusy }
func (stuck) Wait() error         { return nil }

var testOpts = Opts{Width: 4, Height: 2, PanelWidth: 2, PulseWidth: time.Millisecond, SettleTime: time.Millisecond}

func newTest(t *testing.T) (*Dev, *conntest.Record, *countPin) {
	t.Helper()
	r := &conntest.Record{}
	p := &countPin{Pin: gpiotest.Pin{N: "pulse"}}
	d, err := New(transport.NewAsync(r), p, &testOpts)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	return d, r, p
}

func TestNew(t *testing.T) {
	r := transport.NewAsync(&conntest.Record{})
	p := &gpiotest.Pin{}
	tests := []struct {
		name string
		opts Opts
	}{
		{"zero width", Opts{Width: 0, Height: 7, PanelWidth: 28, PulseWidth: 1}},
		{"too tall", Opts{Width: 28, Height: MaxRows + 1, PanelWidth: 28, PulseWidth: 1}},
		{"panel does not divide", Opts{Width: 30, Height: 7, PanelWidth: 28, PulseWidth: 1}},
		{"panel too wide", Opts{Width: 30, Height: 7, PanelWidth: 30, PulseWidth: 1}},
		{"too many panels", Opts{Width: 9, Height: 7, PanelWidth: 1, PulseWidth: 1}},
		{"no pulse", Opts{Width: 28, Height: 7, PanelWidth: 28}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(r, p, &tt.opts); err == nil {
				t.Error("accepted")
			}
		})
	}
	if _, err := New(nil, p, nil); err == nil {
		t.Error("nil transport accepted")
	}
	d, err := New(r, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Bounds() != image.Rect(0, 0, 28, 16) {
		t.Errorf("default bounds = %v", d.Bounds())
	}
}

func TestColumnAddress(t *testing.T) {
	tests := []struct {
		n, l int
		want byte
	}{
		{28, 27, 0},
		{28, 21, 6},
		{28, 20, 8},
		{28, 13, 16},
		{28, 0, 30},
		{7, 0, 6},
	}
	for _, tt := range tests {
		if got := ColumnAddress(tt.n, tt.l); got != tt.want {
			t.Errorf("ColumnAddress(%d, %d) = %d, want %d", tt.n, tt.l, got, tt.want)
		}
	}
	seen := map[byte]bool{}
	for l := range 28 {
		a := ColumnAddress(28, l)
		if a%8 == 7 || seen[a] {
			t.Errorf("column %d: bad address %d", l, a)
		}
		seen[a] = true
	}
}

func TestRowAddress(t *testing.T) {
	for r := range MaxRows {
		if a := RowAddress(r); a&7 == 0 {
			t.Errorf("row %d maps to unused address %#x", r, a)
		}
	}
	if RowAddress(7) != 0x09 {
		t.Errorf("RowAddress(7) = %#x", RowAddress(7))
	}
}

func TestDrawSequence(t *testing.T) {
	d, r, p := newTest(t)
	img := pixbuf.NewMono(d.Bounds())
	if err := d.Draw(img); err != nil {
		t.Fatal(err)
	}
	// Unknown state: every disc is flipped once.
	if p.pulses != 8 || len(r.Ops) != 8*5 {
		t.Fatalf("first draw: %d pulses, %d latches", p.pulses, len(r.Ops))
	}

	r.Ops = nil
	img.SetBit(3, 1, true)
	if err := d.Draw(img); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{
		{0x02, 0, 0, 0},
		{0x02, Bright, 0, 0},
		{0x02, Bright, ColumnAddress(2, 1), 0},
		{0x02, Bright, ColumnAddress(2, 1), RowAddress(1)},
		{0, 0, 0, 0},
	}
	if len(r.Ops) != len(want) {
		t.Fatalf("got %d latches, want %d", len(r.Ops), len(want))
	}
	for i, w := range want {
		if !bytes.Equal(r.Ops[i].W, w) {
			t.Errorf("latch %d = % X, want % X", i, r.Ops[i].W, w)
		}
	}
	if p.pulses != 9 || p.L != gpio.Low {
		t.Errorf("pulses = %d, line = %v", p.pulses, p.L)
	}
}

func TestIdenticalFrame(t *testing.T) {
	d, r, p := newTest(t)
	img := pixbuf.NewMono(d.Bounds())
	img.SetBit(0, 0, true)
	if err := d.Render(&display.Frame{Mono: img}); err != nil {
		t.Fatal(err)
	}
	ops, pulses := len(r.Ops), p.pulses
	same := img.Clone()
	if err := d.Render(&display.Frame{Mono: same}); err != nil {
		t.Fatal(err)
	}
	if len(r.Ops) != ops || p.pulses != pulses {
		t.Errorf("identical frame: %d new latches, %d new pulses", len(r.Ops)-ops, p.pulses-pulses)
	}
	if err := d.Render(&display.Frame{}); err != nil {
		t.Errorf("frame without mono buffer: %v", err)
	}
}

func TestReset(t *testing.T) {
	d, _, p := newTest(t)
	img := pixbuf.NewMono(d.Bounds())
	if err := d.Draw(img); err != nil {
		t.Fatal(err)
	}
	d.Reset()
	if err := d.Draw(img); err != nil {
		t.Fatal(err)
	}
	if p.pulses != 16 {
		t.Errorf("pulses = %d, want 16", p.pulses)
	}
}

func TestDrawBusy(t *testing.T) {
	p := &countPin{}
	d, err := New(stuck{}, p, &testOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Draw(pixbuf.NewMono(d.Bounds())); err != nil {
		t.Errorf("busy Draw = %v", err)
	}
	if p.pulses != 0 {
		t.Errorf("%d pulses while busy", p.pulses)
	}
}

func TestDrawError(t *testing.T) {
	want := errors.New("bus fault")
	// Enough latches for two flips and the first step of a third.
	fc := &failConn{ok: 11, err: want}
	p := &countPin{}
	d, err := New(transport.NewAsync(fc), p, &testOpts)
	if err != nil {
		t.Fatal(err)
	}
	d.sleep = func(time.Duration) {}
	d.known = true
	img := pixbuf.NewMono(d.Bounds())
	img.SetBit(0, 0, true)
	img.SetBit(0, 1, true)
	img.SetBit(1, 0, true)
	if err := d.Draw(img); !errors.Is(err, want) {
		t.Fatalf("Draw = %v, want %v", err, want)
	}
	if p.pulses != 2 {
		t.Errorf("pulses = %d, want 2", p.pulses)
	}
	if !d.last.BitAt(0, 0) || !d.last.BitAt(0, 1) || d.last.BitAt(1, 0) {
		t.Error("snapshot does not match the discs that flipped")
	}
}

func TestDrawSize(t *testing.T) {
	d, _, _ := newTest(t)
	if err := d.Draw(pixbuf.NewMono(image.Rect(0, 0, 5, 2))); err == nil {
		t.Error("wrong size accepted")
	}
}

func TestHalt(t *testing.T) {
	d, r, p := newTest(t)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if p.L != gpio.Low || len(r.Ops) != 1 || !bytes.Equal(r.Ops[0].W, []byte{0, 0, 0, 0}) {
		t.Errorf("halt: line %v, ops %v", p.L, r.Ops)
	}
	if err := d.Draw(pixbuf.NewMono(d.Bounds())); err == nil {
		t.Error("Draw after Halt succeeded")
	}
}
