package shader

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ParamError reports invalid shader, transition or effect parameters.
type ParamError struct {
	Kind  string // "shader", "transition" or "effect"
	Type  string
	Field string
	Err   error
}

func (e *ParamError) Error() string {
	name := e.Kind
	if e.Type != "" {
		name += " " + e.Type
	}
	if e.Field != "" {
		return fmt.Sprintf("shader: %s.%s: %v", name, e.Field, e.Err)
	}
	return fmt.Sprintf("shader: %s: %v", name, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

var (
	errUnknownType = errors.New("unknown type")
	errPositive    = errors.New("must be positive")
)

func head(kind string, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var h struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return "", &ParamError{Kind: kind, Err: err}
	}
	return strings.ToLower(h.Type), nil
}

func decode(kind, typ string, raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	pe := &ParamError{Kind: kind, Type: typ, Err: err}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		pe.Field = ute.Field
	}
	return pe
}

// ParseShader builds a shader from its JSON description. An empty description
// or type "none" returns a nil Shader: LEDs take their colour from the pixel
// buffer. width is the display width in pixels, used by gradients.
func ParseShader(raw []byte, width int) (Shader, error) {
	typ, err := head("shader", raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "", "none":
		return nil, nil
	case "static":
		s := DefaultStatic
		if err := decode("shader", typ, raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case "rainbow":
		s := Rainbow{Speed: 60, Spread: 4}
		if err := decode("shader", typ, raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case "linear":
		s := Linear{To: DefaultStatic.Color}
		if err := decode("shader", typ, raw, &s); err != nil {
			return nil, err
		}
		if s.Width == 0 {
			s.Width = width
		}
		return s, nil
	}
	return nil, &ParamError{Kind: "shader", Type: typ, Err: errUnknownType}
}

// ParseTransition builds a transition from its JSON description. An empty
// description selects Instant.
func ParseTransition(raw []byte) (Transition, error) {
	typ, err := head("transition", raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "", "none", "instant":
		return Instant{}, nil
	case "wipe":
		w := Wipe{Duration: 500_000}
		if err := decode("transition", typ, raw, &w); err != nil {
			return nil, err
		}
		if w.Duration <= 0 {
			return nil, &ParamError{Kind: "transition", Type: typ, Field: "duration", Err: errPositive}
		}
		return w, nil
	}
	return nil, &ParamError{Kind: "transition", Type: typ, Err: errUnknownType}
}

// ParseEffect builds an effect from its JSON description. An empty
// description returns a nil Effect. rng may be nil.
func ParseEffect(raw []byte, rng *rand.Rand) (Effect, error) {
	typ, err := head("effect", raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "", "none":
		return nil, nil
	case "glitch":
		g := NewGlitch(0.5, 150_000, 2, rng)
		if err := decode("effect", typ, raw, g); err != nil {
			return nil, err
		}
		if g.Rate <= 0 {
			return nil, &ParamError{Kind: "effect", Type: typ, Field: "rate", Err: errPositive}
		}
		return g, nil
	}
	return nil, &ParamError{Kind: "effect", Type: typ, Err: errUnknownType}
}

// ShaderOr returns s, or fallback when err is set.
func ShaderOr(s Shader, err error, fallback Shader) Shader {
	if err != nil {
		return fallback
	}
	return s
}

// TransitionOrInstant returns tr, or Instant when err is set.
func TransitionOrInstant(tr Transition, err error) Transition {
	if err != nil || tr == nil {
		return Instant{}
	}
	return tr
}
