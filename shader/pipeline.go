package shader

import (
	"github.com/flavioheleno/udc/charbuf"
)

// Pipeline runs the active transition and effect over successive snapshots of
// the character buffer.
type Pipeline struct {
	Transition Transition
	Effect     Effect

	from, to *charbuf.Buffer
	out      *charbuf.Buffer
	view     *charbuf.Buffer
	start    int64
	active   bool
}

// Next returns the buffer to render at t for the producer content in. A
// change of content starts the transition from whatever is currently shown.
// The returned buffer is owned by the pipeline and valid until the next call.
func (p *Pipeline) Next(t int64, in *charbuf.Buffer) *charbuf.Buffer {
	if p.to == nil {
		p.to, p.out, p.from, p.view = in.Clone(), in.Clone(), in.Clone(), in.Clone()
	} else if !in.Equal(p.to) {
		p.from.CopyFrom(p.out)
		p.to.CopyFrom(in)
		p.start = t
		p.active = true
	}

	if p.active {
		tr := p.Transition
		if tr == nil {
			tr = Instant{}
		}
		if tr.Step(t-p.start, p.from, p.to, p.out) {
			p.active = false
		}
	} else {
		p.out.CopyFrom(p.to)
	}

	p.view.CopyFrom(p.out)
	if p.Effect != nil {
		p.Effect.Apply(t, p.view)
	}
	return p.view
}

// Transitioning reports whether a transition is in progress.
func (p *Pipeline) Transitioning() bool {
	return p.active
}
