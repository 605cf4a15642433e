package main

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/flavioheleno/udc/bitmap"
	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/config"
	"github.com/flavioheleno/udc/display"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/shader"
)

// scene is the initial frame and the creative settings of the render loop.
type scene struct {
	frame     display.Frame
	m         *ledmap.Map
	generator bitmap.Generator
	shader    shader.Shader
	pipeline  *shader.Pipeline
	threshold bool
}

// newScene builds the first frame for the configured display. Invalid
// creative settings are logged and replaced by their fallback.
func newScene(cfg *config.Config, logger *slog.Logger) (*scene, error) {
	d := &cfg.Display
	cr := &cfg.Creative
	sc := &scene{}
	switch d.Kind {
	case display.KindWS281x, display.KindWS281xDual:
		m, err := ledmap.New(d.Geometry)
		if err != nil {
			return nil, err
		}
		sc.m = m
		sc.frame.Chars = charbuf.New(d.Geometry.Cols, d.Geometry.Rows)
		charbuf.ConvertString(sc.frame.Chars, cr.Text, ' ')
		sc.frame.Pixels = m.NewBuffer()

		if len(cr.Generator) != 0 {
			g, err := bitmap.Parse(cr.Generator, bitmap.Env{Bounds: m.Bounds()})
			if err != nil {
				logger.Warn("invalid generator, using none", "err", err)
			}
			sc.generator = bitmap.OrNone(g, err)
		}
		s, err := shader.ParseShader(cr.Shader, m.Bounds().Dx())
		if err != nil {
			logger.Warn("invalid shader, using static", "err", err)
		}
		sc.shader = shader.ShaderOr(s, err, shader.DefaultStatic)
		if sc.shader == nil && sc.generator == nil {
			sc.shader = shader.DefaultStatic
		}
	case display.KindFlipdot:
		rect := image.Rect(0, 0, d.Width, d.Height)
		sc.frame.Mono = pixbuf.NewMono(rect)
		bitmap.DrawText(sc.frame.Mono, cr.Text, color.White, image.Point{})
		if len(cr.Generator) == 0 {
			break
		}
		g, err := bitmap.Parse(cr.Generator, bitmap.Env{Bounds: rect})
		if err != nil {
			logger.Warn("invalid generator, showing text", "err", err)
			break
		}
		m, err := ledmap.Grid(rect)
		if err != nil {
			return nil, err
		}
		// The discs follow the generated pixels instead of the text.
		sc.m, sc.generator, sc.threshold = m, g, true
		sc.frame.Pixels = m.NewBuffer()
	case display.KindSplitFlap:
		sc.frame.Units = unitCodes(cr.Text, d.Units)
	case display.KindIBIS:
		sc.frame.Chars = textBuffer(cr.Text, d.Row+1)
	default:
		return nil, fmt.Errorf("unsupported display kind %v", d.Kind)
	}

	if sc.frame.Chars != nil {
		tr, err := shader.ParseTransition(cr.Transition)
		if err != nil {
			logger.Warn("invalid transition, using instant", "err", err)
		}
		sc.pipeline = &shader.Pipeline{Transition: shader.TransitionOrInstant(tr, err)}
		if fx, err := shader.ParseEffect(cr.Effect, nil); err != nil {
			logger.Warn("invalid effect, using none", "err", err)
		} else {
			sc.pipeline.Effect = fx
		}
	}
	return sc, nil
}

// loop returns the render loop showing the scene on r.
func (sc *scene) loop(r display.Renderer, interval time.Duration, logger *slog.Logger) *display.Loop {
	return &display.Loop{
		Store:     display.NewStore(sc.frame),
		Renderer:  r,
		Generator: sc.generator,
		Map:       sc.m,
		Threshold: sc.threshold,
		Pipeline:  sc.pipeline,
		Interval:  interval,
		Logger:    logger,
	}
}

// Close releases the generator's interpreter, if any.
func (sc *scene) Close() error {
	if s, ok := sc.generator.(*bitmap.Script); ok {
		s.Close()
	}
	return nil
}

// unitCodes returns one flap code per unit: the bytes of text, padded with
// spaces.
func unitCodes(text string, units int) []byte {
	out := make([]byte, units)
	for i := range out {
		out[i] = ' '
		if i < len(text) {
			out[i] = text[i]
		}
	}
	return out
}

// textBuffer returns a buffer holding one line of text per row, at least rows
// rows high. Lines are converted separately so a line that fills its row does
// not push the next one down.
func textBuffer(text string, rows int) *charbuf.Buffer {
	lines := strings.Split(text, "\n")
	width := 1
	for _, l := range lines {
		width = max(width, len(l))
	}
	b := charbuf.New(width, max(rows, len(lines)))
	b.Fill(' ')
	row := charbuf.New(width, 1)
	for i, l := range lines {
		charbuf.ConvertString(row, l, ' ')
		copy(b.Chars[i*width:], row.Chars)
		copy(b.Quirks[i*width:], row.Quirks)
	}
	return b
}
