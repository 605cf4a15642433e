package shader

import (
	"github.com/flavioheleno/udc/charbuf"
)

// Transition blends from into to, writing the frame into out. t is the time
// in microseconds since the transition started. It reports whether the
// transition is complete.
type Transition interface {
	Step(t int64, from, to, out *charbuf.Buffer) bool
}

// Instant switches to the new content at once.
type Instant struct{}

// Step implements Transition.
func (Instant) Step(_ int64, _, to, out *charbuf.Buffer) bool {
	out.CopyFrom(to)
	return true
}

// Wipe reveals the new content column by column from the left over Duration
// microseconds.
type Wipe struct {
	Duration int64 `json:"duration"`
}

// Step implements Transition.
func (w Wipe) Step(t int64, from, to, out *charbuf.Buffer) bool {
	if t >= w.Duration || w.Duration <= 0 || to.Width == 0 || from.Len() != to.Len() {
		out.CopyFrom(to)
		return true
	}
	out.CopyFrom(from)
	front := int(int64(to.Width) * max(t, 0) / w.Duration)
	for i := range to.Chars {
		if i%to.Width < front {
			out.Chars[i] = to.Chars[i]
			out.Quirks[i] = to.Quirks[i]
		}
	}
	return false
}
