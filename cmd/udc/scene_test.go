package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/flavioheleno/udc/bitmap"
	"github.com/flavioheleno/udc/config"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/ibis"
	"github.com/flavioheleno/udc/shader"
)

func TestNewScene(t *testing.T) {
	tests := []struct {
		name  string
		kind  display.Kind
		check func(t *testing.T, sc *scene)
	}{
		{"ws281x", display.KindWS281x, func(t *testing.T, sc *scene) {
			if sc.m == nil || sc.frame.Pixels == nil || sc.frame.Chars == nil {
				t.Fatal("segment frame incomplete")
			}
			if got := sc.frame.Chars.String(); !strings.HasPrefix(got, "HELLO ") {
				t.Errorf("chars = %q", got)
			}
			if sc.shader != shader.DefaultStatic {
				t.Errorf("shader = %v", sc.shader)
			}
		}},
		{"flipdot", display.KindFlipdot, func(t *testing.T, sc *scene) {
			m := sc.frame.Mono
			if m == nil || m.Bounds().Dx() != 28 || m.Bounds().Dy() != 16 {
				t.Fatalf("mono = %v", m)
			}
			lit := false
			for y := range 16 {
				for x := range 28 {
					lit = lit || m.BitAt(x, y)
				}
			}
			if !lit {
				t.Error("text not drawn")
			}
		}},
		{"splitflap", display.KindSplitFlap, func(t *testing.T, sc *scene) {
			if string(sc.frame.Units) != "H" {
				t.Errorf("units = %q", sc.frame.Units)
			}
		}},
		{"ibis", display.KindIBIS, func(t *testing.T, sc *scene) {
			if sc.frame.Chars.String() != "HELLO" || sc.pipeline == nil {
				t.Errorf("chars = %q", sc.frame.Chars)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Display.Kind = tt.kind
			sc, err := newScene(cfg, slog.New(slog.DiscardHandler))
			if err != nil {
				t.Fatal(err)
			}
			defer sc.Close()
			tt.check(t, sc)
		})
	}
}

func TestNewSceneFallbacks(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.Creative.Generator = json.RawMessage(`{"type": "fireworks"}`)
	cfg.Creative.Shader = json.RawMessage(`{"type": "static", "color": 5}`)
	cfg.Creative.Transition = json.RawMessage(`{"type": "wipe", "duration": -1}`)
	sc, err := newScene(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sc.generator.(bitmap.None); !ok {
		t.Errorf("generator = %T", sc.generator)
	}
	if sc.shader != shader.DefaultStatic {
		t.Errorf("shader = %v", sc.shader)
	}
	if _, ok := sc.pipeline.Transition.(shader.Instant); !ok {
		t.Errorf("transition = %T", sc.pipeline.Transition)
	}
	for _, msg := range []string{"invalid generator", "invalid shader", "invalid transition"} {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("%q not logged", msg)
		}
	}
}

func TestUnitCodes(t *testing.T) {
	if got := unitCodes("AB", 4); string(got) != "AB  " {
		t.Errorf("unitCodes = %q", got)
	}
	if got := unitCodes("ABCDE", 2); string(got) != "AB" {
		t.Errorf("unitCodes = %q", got)
	}
}

func TestTextBuffer(t *testing.T) {
	tests := []struct {
		name string
		text string
		rows int
		want string
		row  int
		line string
	}{
		{"longest line first", "Linie 5\nZiel", 3, "Linie 5\nZiel   \n       ", 1, "Ziel"},
		{"exact rows", "Linie 5\nZiel", 2, "Linie 5\nZiel   ", 1, "Ziel"},
		{"last line longest", "5\nHauptbahnhof", 1, "5           \nHauptbahnhof", 1, "Hauptbahnhof"},
		{"combining stop", "A.B\nCD", 2, "A.B \nCD ", 0, "A.B"},
		{"empty", "", 1, " ", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := textBuffer(tt.text, tt.rows)
			if got := b.String(); got != tt.want {
				t.Errorf("buffer = %q, want %q", got, tt.want)
			}
			if got := ibis.RowText(nil, b, tt.row); string(got) != tt.line {
				t.Errorf("row %d = %q, want %q", tt.row, got, tt.line)
			}
		})
	}
}

type renderFunc func(f *display.Frame) error

func (fn renderFunc) Render(f *display.Frame) error { return fn(f) }

func TestFlipdotGenerator(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Kind = display.KindFlipdot
	cfg.Creative.Generator = json.RawMessage(`{"type": "solid", "color": "#ffffff"}`)
	sc, err := newScene(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()
	if !sc.threshold || sc.m == nil || sc.frame.Pixels == nil {
		t.Fatalf("generator not wired: threshold %t, map %v", sc.threshold, sc.m)
	}

	var dark int
	l := sc.loop(renderFunc(func(f *display.Frame) error {
		for y := range 16 {
			for x := range 28 {
				if !f.Mono.BitAt(x, y) {
					dark++
				}
			}
		}
		return nil
	}), time.Millisecond, slog.New(slog.DiscardHandler))
	if !l.Threshold {
		t.Error("loop threshold off")
	}
	if err := l.Tick(0); err != nil {
		t.Fatal(err)
	}
	if dark != 0 {
		t.Errorf("%d discs dark under a white generator", dark)
	}

	cfg.Creative.Generator = json.RawMessage(`{"type": "fireworks"}`)
	sc, err = newScene(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if sc.threshold || sc.generator != nil {
		t.Error("invalid generator replaced the text")
	}
}
