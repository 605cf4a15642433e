package shader

import (
	"errors"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/hsv"
)

func TestStatic(t *testing.T) {
	c := hsv.RGB{R: 1, G: 2, B: 3}
	if got := (Static{Color: c}).Shade(99, 3, 4, image.Pt(5, 6)); got != c {
		t.Errorf("Shade = %v, want %v", got, c)
	}
}

func TestRainbow(t *testing.T) {
	s := Rainbow{Speed: 60, Spread: 60}
	tests := []struct {
		name string
		t    int64
		x    int
		want hsv.RGB
	}{
		{"origin", 0, 0, hsv.RGB{R: 255}},
		{"one column right", 0, 1, hsv.RGB{R: 255, G: 255}},
		{"one second later", 1_000_000, 0, hsv.RGB{R: 255, G: 255}},
		{"both", 1_000_000, 1, hsv.RGB{G: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Shade(tt.t, 0, 0, image.Pt(tt.x, 3)); got != tt.want {
				t.Errorf("Shade = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinear(t *testing.T) {
	s := Linear{From: hsv.RGB{R: 255}, To: hsv.RGB{B: 255}, Width: 11}
	if got := s.Shade(0, 0, 0, image.Pt(0, 0)); got != s.From {
		t.Errorf("left = %v", got)
	}
	if got := s.Shade(0, 0, 0, image.Pt(10, 0)); got != s.To {
		t.Errorf("right = %v", got)
	}
	if got := s.Shade(0, 0, 0, image.Pt(50, 0)); got != s.To {
		t.Errorf("clamped = %v", got)
	}
	mid := s.Shade(0, 0, 0, image.Pt(5, 0))
	if mid.R == 0 || mid.B == 0 {
		t.Errorf("middle = %v, want a blend", mid)
	}
	if got := (Linear{From: s.From, Width: 1}).Shade(0, 0, 0, image.Pt(0, 0)); got != s.From {
		t.Errorf("narrow = %v", got)
	}
}

func buffer(w int, s string) *charbuf.Buffer {
	b := charbuf.New(w, 1)
	charbuf.ConvertString(b, s, ' ')
	return b
}

func TestInstant(t *testing.T) {
	from, to, out := buffer(4, "AAAA"), buffer(4, "B.BBB"), charbuf.New(4, 1)
	if !(Instant{}).Step(0, from, to, out) {
		t.Error("Instant not done")
	}
	if !out.Equal(to) {
		t.Errorf("out = %q", out.String())
	}
}

func TestWipe(t *testing.T) {
	from, to, out := buffer(4, "AAAA"), buffer(4, "BBBB"), charbuf.New(4, 1)
	w := Wipe{Duration: 400}
	tests := []struct {
		t    int64
		want string
		done bool
	}{
		{0, "AAAA", false},
		{100, "BAAA", false},
		{250, "BBAA", false},
		{399, "BBBA", false},
		{400, "BBBB", true},
	}
	for _, tt := range tests {
		done := w.Step(tt.t, from, to, out)
		if got := string(out.Chars); got != tt.want || done != tt.done {
			t.Errorf("t=%d: %q done=%t, want %q done=%t", tt.t, got, done, tt.want, tt.done)
		}
	}
	// Size change finishes at once.
	if !w.Step(0, buffer(2, "AA"), to, out) {
		t.Error("size change not instant")
	}
}

func TestGlitch(t *testing.T) {
	g := NewGlitch(1, 100, 2, rand.New(rand.NewPCG(1, 2)))
	buf := buffer(8, "        ")
	g.Apply(0, buf)
	if string(buf.Chars) == "        " {
		t.Fatal("glitch did not change anything")
	}
	for _, c := range buf.Chars {
		if c < ' ' || c > '~' {
			t.Errorf("non printable glyph %#x", c)
		}
	}
	buf = buffer(8, "        ")
	g.Apply(150, buf)
	if string(buf.Chars) != "        " {
		t.Errorf("glitch outside window: %q", buf.Chars)
	}
	if g.Active(150) {
		t.Error("still active after duration")
	}
}

func TestPipeline(t *testing.T) {
	p := &Pipeline{Transition: Wipe{Duration: 200}}
	a, b := buffer(2, "AA"), buffer(2, "BB")

	if got := p.Next(0, a); string(got.Chars) != "AA" {
		t.Fatalf("first frame %q", got.Chars)
	}
	if p.Transitioning() {
		t.Fatal("first frame started a transition")
	}
	if got := p.Next(1000, b); string(got.Chars) != "AA" {
		t.Errorf("transition start %q", got.Chars)
	}
	if got := p.Next(1100, b); string(got.Chars) != "BA" {
		t.Errorf("transition middle %q", got.Chars)
	}
	if got := p.Next(1200, b); string(got.Chars) != "BB" || p.Transitioning() {
		t.Errorf("transition end %q", got.Chars)
	}
	// Content change mid transition restarts from what is shown.
	p.Next(2000, a)
	got := p.Next(2100, b)
	if string(got.Chars) != "BB" {
		t.Errorf("restart %q", got.Chars)
	}
}

func TestPipelineEffectDoesNotStick(t *testing.T) {
	p := &Pipeline{Effect: NewGlitch(1, 10, 8, rand.New(rand.NewPCG(5, 5)))}
	in := buffer(4, "    ")
	p.Next(0, in)
	if got := p.Next(20, in); string(got.Chars) != "    " {
		t.Errorf("glitch persisted: %q", got.Chars)
	}
	if string(in.Chars) != "    " {
		t.Error("effect modified the producer buffer")
	}
}

func TestParse(t *testing.T) {
	t.Run("shader", func(t *testing.T) {
		s, err := ParseShader([]byte(`{"type":"linear","from":"#ff0000"}`), 42)
		if err != nil {
			t.Fatal(err)
		}
		if l, ok := s.(Linear); !ok || l.Width != 42 || l.From != (hsv.RGB{R: 255}) {
			t.Errorf("got %#v", s)
		}
		if s, err := ParseShader(nil, 10); s != nil || err != nil {
			t.Errorf("empty = %v, %v", s, err)
		}
		if s, err := ParseShader([]byte(`{"type":"static","color":"#00ff00"}`), 10); err != nil || s != (Static{Color: hsv.RGB{G: 255}}) {
			t.Errorf("static = %v, %v", s, err)
		}
		if _, err := ParseShader([]byte(`{"type":"rainbow"}`), 10); err != nil {
			t.Errorf("rainbow: %v", err)
		}
		_, err = ParseShader([]byte(`{"type":"rainbow","speed":"x"}`), 10)
		var pe *ParamError
		if !errors.As(err, &pe) || pe.Field != "speed" {
			t.Errorf("err = %v", err)
		}
		if got := ShaderOr(nil, err, DefaultStatic); got != DefaultStatic {
			t.Errorf("fallback = %v", got)
		}
		if _, err := ParseShader([]byte(`{"type":"sparkle"}`), 10); !errors.Is(err, errUnknownType) {
			t.Errorf("unknown: %v", err)
		}
	})
	t.Run("transition", func(t *testing.T) {
		tr, err := ParseTransition([]byte(`{"type":"wipe","duration":1000}`))
		if err != nil || tr != (Wipe{Duration: 1000}) {
			t.Errorf("wipe = %v, %v", tr, err)
		}
		tr, err = ParseTransition([]byte(`{"type":"wipe","duration":-1}`))
		if !errors.Is(err, errPositive) {
			t.Errorf("negative duration: %v", err)
		}
		if _, ok := TransitionOrInstant(tr, err).(Instant); !ok {
			t.Error("fallback is not Instant")
		}
		if tr, err := ParseTransition(nil); err != nil || tr != (Instant{}) {
			t.Errorf("empty = %v, %v", tr, err)
		}
	})
	t.Run("effect", func(t *testing.T) {
		e, err := ParseEffect([]byte(`{"type":"glitch","rate":2,"cells":3}`), nil)
		if err != nil {
			t.Fatal(err)
		}
		if g := e.(*Glitch); g.Rate != 2 || g.Cells != 3 || g.Duration != 150_000 {
			t.Errorf("glitch = %+v", g)
		}
		if _, err := ParseEffect([]byte(`{"type":"glitch","rate":0}`), nil); err == nil {
			t.Error("zero rate accepted")
		}
		if e, err := ParseEffect([]byte(`{`), nil); err == nil || e != nil {
			t.Error("bad json accepted")
		}
	})
}
