package display

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flavioheleno/udc/bitmap"
	"github.com/flavioheleno/udc/ledmap"
	"github.com/flavioheleno/udc/pixbuf"
	"github.com/flavioheleno/udc/shader"
)

// Store guards the producer buffers.
type Store struct {
	mu sync.Mutex
	f  Frame
}

// NewStore returns a store owning f.
func NewStore(f Frame) *Store {
	return &Store{f: f}
}

// Update runs fn with the lock held. fn must not keep references to the
// buffers after it returns.
func (s *Store) Update(fn func(f *Frame)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.f)
}

// Snapshot copies the buffers into dst.
func (s *Store) Snapshot(dst *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dst.CopyFrom(&s.f)
}

// Loop renders the store at a fixed interval.
type Loop struct {
	Store    *Store
	Renderer Renderer

	// Generator paints the pixel buffer of every snapshot through Map. Both
	// are optional.
	Generator bitmap.Generator
	Map       *ledmap.Map
	// Threshold derives the mono buffer from the generated pixels.
	Threshold bool

	// Pipeline runs transitions and effects over the character buffer.
	Pipeline *shader.Pipeline

	Interval time.Duration
	Logger   *slog.Logger

	snap Frame
	out  Frame
}

// Tick renders one frame for time t, in microseconds.
func (l *Loop) Tick(t int64) error {
	l.Store.Snapshot(&l.snap)
	l.snap.Time = t
	if l.Generator != nil && l.Map != nil && l.snap.Pixels != nil {
		l.Generator.Generate(t, l.snap.Pixels, l.Map)
		if l.Threshold && l.snap.Mono != nil {
			pixbuf.Threshold(l.snap.Mono, l.snap.Pixels)
		}
	}
	l.out = l.snap
	if l.Pipeline != nil && l.snap.Chars != nil {
		l.out.Chars = l.Pipeline.Next(t, l.snap.Chars)
	}
	return l.Renderer.Render(&l.out)
}

// Run renders until ctx is done. A failed render is logged and the loop
// carries on with the next tick.
func (l *Loop) Run(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := l.Interval
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	logger.Info("render loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("render loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			t := now.Sub(start).Microseconds()
			if err := l.Tick(t); err != nil {
				logger.Error("render failed", "t", t, "err", err)
			}
		}
	}
}
