package display

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/flavioheleno/udc/bitmap"
	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/hsv"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/shader"
)

// recorder keeps a copy of every rendered frame.
type recorder struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (r *recorder) Render(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c Frame
	c.CopyFrom(f)
	r.frames = append(r.frames, c)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"ws281x", KindWS281x},
		{"WS281X-Dual", KindWS281xDual},
		{" flipdot ", KindFlipdot},
		{"splitflap", KindSplitFlap},
		{"ibis", KindIBIS},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
			}
			if got.String() != strings.ToLower(strings.TrimSpace(tt.in)) {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
	if _, err := ParseKind("lcd"); !errors.Is(err, errUnknownKind) {
		t.Errorf("ParseKind(lcd) = %v", err)
	}
	var k Kind
	if err := k.UnmarshalText([]byte("ibis")); err != nil || k != KindIBIS {
		t.Errorf("UnmarshalText = %v, %v", k, err)
	}
	if _, err := Kind(42).MarshalText(); err == nil {
		t.Error("MarshalText accepted an unknown kind")
	}
	if KindFlipdot.UsesChars() || !KindIBIS.UsesChars() {
		t.Error("UsesChars")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	chars := charbuf.New(4, 1)
	charbuf.ConvertString(chars, "AB", ' ')
	s := NewStore(Frame{Chars: chars, Units: []byte{1, 2}})

	var snap Frame
	s.Snapshot(&snap)
	s.Update(func(f *Frame) {
		charbuf.ConvertString(f.Chars, "XY", ' ')
		f.Units[0] = 9
	})
	if string(snap.Chars.Chars) != "AB  " || snap.Units[0] != 1 {
		t.Errorf("snapshot changed with the store: %q %v", snap.Chars.Chars, snap.Units)
	}
	s.Snapshot(&snap)
	if string(snap.Chars.Chars) != "XY  " || snap.Units[0] != 9 {
		t.Errorf("second snapshot = %q %v", snap.Chars.Chars, snap.Units)
	}
	if snap.Pixels != nil || snap.Mono != nil {
		t.Error("absent buffers appeared")
	}
}

func TestTick(t *testing.T) {
	m, err := ledmap.New(ledmap.Geometry{Cols: 2, Rows: 1})
	if err != nil {
		t.Fatal(err)
	}
	chars := charbuf.New(2, 1)
	charbuf.ConvertString(chars, "AA", ' ')
	mono := pixbuf.NewMono(m.Bounds())
	s := NewStore(Frame{Chars: chars, Pixels: m.NewBuffer(), Mono: mono})
	r := &recorder{}
	l := &Loop{
		Store:     s,
		Renderer:  r,
		Generator: bitmap.Solid{Color: hsv.RGB{R: 255, G: 255, B: 255}},
		Map:       m,
		Threshold: true,
		Pipeline:  &shader.Pipeline{Transition: shader.Wipe{Duration: 100}},
	}
	if err := l.Tick(0); err != nil {
		t.Fatal(err)
	}
	s.Update(func(f *Frame) { charbuf.ConvertString(f.Chars, "BB", ' ') })
	if err := l.Tick(1000); err != nil {
		t.Fatal(err)
	}
	if err := l.Tick(1050); err != nil {
		t.Fatal(err)
	}

	f := r.frames[0]
	if f.Time != 0 {
		t.Errorf("time = %d", f.Time)
	}
	p := m.Point(0)
	if got := f.Pixels.RGBAt(p.X, p.Y); got != (hsv.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("generated pixel = %v", got)
	}
	if !f.Mono.BitAt(p.X, p.Y) {
		t.Error("mono not derived from pixels")
	}
	if got := string(r.frames[2].Chars.Chars); got != "BA" {
		t.Errorf("mid transition = %q", got)
	}
	// The generator only touched the snapshot.
	s.Update(func(f *Frame) {
		if f.Pixels.RGBAt(p.X, p.Y) != hsv.Black {
			t.Error("generator wrote into the store")
		}
	})
}

func TestRunLogsAndContinues(t *testing.T) {
	var logs bytes.Buffer
	r := &recorder{err: errors.New("bus fault")}
	l := &Loop{
		Store:    NewStore(Frame{Units: []byte{0}}),
		Renderer: r,
		Interval: time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- l.Run(ctx) }()
	for r.count() < 3 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v", err)
	}
	if !strings.Contains(logs.String(), "bus fault") {
		t.Errorf("error not logged:\n%s", logs.String())
	}
}
