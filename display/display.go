// Package display ties producers, generators and renderers together.
//
// Producers mutate the buffers of a Store under its lock. A Loop snapshots
// the buffers while holding the lock, releases it, runs the pixel generator
// and the text pipeline on the snapshot and hands the result to a Renderer.
// Bus I/O therefore never blocks a producer.
package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flavioheleno/udc/charbuf"
	"github.com/flavioheleno/udc/pixbuf"
)

// Frame is the set of abstract buffers a renderer draws from. Any buffer may
// be nil when the display kind does not use it.
type Frame struct {
	Chars  *charbuf.Buffer
	Pixels *pixbuf.RGB
	Mono   *pixbuf.Mono
	Units  []byte
	// Time in microseconds since the loop started.
	Time int64
}

// CopyFrom makes f a deep copy of src, reusing f's storage.
func (f *Frame) CopyFrom(src *Frame) {
	f.Time = src.Time
	switch {
	case src.Chars == nil:
		f.Chars = nil
	case f.Chars == nil:
		f.Chars = src.Chars.Clone()
	default:
		f.Chars.CopyFrom(src.Chars)
	}
	switch {
	case src.Pixels == nil:
		f.Pixels = nil
	case f.Pixels == nil:
		f.Pixels = src.Pixels.Clone()
	default:
		f.Pixels.CopyFrom(src.Pixels)
	}
	switch {
	case src.Mono == nil:
		f.Mono = nil
	case f.Mono == nil:
		f.Mono = src.Mono.Clone()
	default:
		f.Mono.CopyFrom(src.Mono)
	}
	if src.Units == nil {
		f.Units = nil
	} else {
		f.Units = append(f.Units[:0], src.Units...)
	}
}

// Renderer turns a frame into device output. Render returns nil without doing
// anything when the transport is still busy with the previous frame. An error
// concerns that cycle only; the renderer stays usable.
type Renderer interface {
	Render(f *Frame) error
}

// Kind is the closed set of supported display technologies.
type Kind int

const (
	KindWS281x Kind = iota
	KindWS281xDual
	KindFlipdot
	KindSplitFlap
	KindIBIS
)

var kindNames = [...]string{
	KindWS281x:     "ws281x",
	KindWS281xDual: "ws281x-dual",
	KindFlipdot:    "flipdot",
	KindSplitFlap:  "splitflap",
	KindIBIS:       "ibis",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

var errUnknownKind = errors.New("display: unknown kind")

// ParseKind returns the kind named s, ignoring case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w %q", errUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w %d", errUnknownKind, int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// UsesChars reports whether displays of kind k render the character buffer.
func (k Kind) UsesChars() bool {
	return k == KindWS281x || k == KindWS281xDual || k == KindIBIS
}
