package bitmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
)

// ParamError reports invalid generator parameters.
type ParamError struct {
	Type  string
	Field string
	Err   error
}

func (e *ParamError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("bitmap: %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("bitmap: %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

var (
	errUnknownType = errors.New("unknown generator")
	errRequired    = errors.New("required")
)

// Env carries what stateful generators need at construction.
type Env struct {
	// Bounds of the pixel buffer.
	Bounds image.Rectangle
	// Rand seeds the matrix columns; nil uses a random seed.
	Rand *rand.Rand
}

// Parse builds a generator from its JSON description:
//
//	{"type": "rainbow_gradient", "speed": 30, "scale": 1, "angle": 45}
//
// Invalid input returns a *ParamError; callers fall back to None.
func Parse(raw []byte, env Env) (Generator, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &ParamError{Type: "generator", Err: err}
	}
	typ := strings.ToLower(head.Type)
	switch typ {
	case "", "none":
		return None{}, nil
	case "solid":
		return decodeAs(typ, raw, Solid{})
	case "rainbow":
		return decodeAs(typ, raw, RainbowTime{})
	case "rainbow_gradient":
		return decodeAs(typ, raw, RainbowGradient{Scale: 1})
	case "hard_gradient":
		var g HardGradient
		if err := decode(typ, raw, &g); err != nil {
			return nil, err
		}
		if len(g.Colors) == 0 {
			return nil, &ParamError{Type: typ, Field: "colors", Err: errRequired}
		}
		return g, nil
	case "matrix":
		p := DefaultMatrix
		if err := decode(typ, raw, &p); err != nil {
			return nil, err
		}
		if p.MinLength > p.MaxLength {
			return nil, &ParamError{Type: typ, Field: "min_length", Err: errors.New("greater than max_length")}
		}
		if p.MinDelay > p.MaxDelay {
			return nil, &ParamError{Type: typ, Field: "min_delay", Err: errors.New("greater than max_delay")}
		}
		rng := env.Rand
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		return NewMatrix(p, env.Bounds.Dx(), env.Bounds.Dy(), rng), nil
	case "plasma":
		return decodeAs(typ, raw, Plasma{Speed: 1, Scale: 1})
	case "text":
		return decodeAs(typ, raw, Text{Color: DefaultMatrix.Lead})
	case "svg":
		var p struct {
			Document string `json:"document"`
		}
		if err := decode(typ, raw, &p); err != nil {
			return nil, err
		}
		if p.Document == "" {
			return nil, &ParamError{Type: typ, Field: "document", Err: errRequired}
		}
		g, err := ParseSVG([]byte(p.Document))
		if err != nil {
			return nil, &ParamError{Type: typ, Field: "document", Err: err}
		}
		return g, nil
	case "script":
		var p struct {
			Source string `json:"source"`
		}
		if err := decode(typ, raw, &p); err != nil {
			return nil, err
		}
		g, err := NewScript(p.Source)
		if err != nil {
			return nil, &ParamError{Type: typ, Field: "source", Err: err}
		}
		return g, nil
	}
	return nil, &ParamError{Type: head.Type, Err: errUnknownType}
}

// decodeAs decodes raw over the defaults in g.
func decodeAs[T Generator](typ string, raw []byte, g T) (Generator, error) {
	if err := decode(typ, raw, &g); err != nil {
		return nil, err
	}
	return g, nil
}

func decode(typ string, raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return &ParamError{Type: typ, Field: ute.Field, Err: err}
	}
	return &ParamError{Type: typ, Err: err}
}

// OrNone returns g, or None when err is set.
func OrNone(g Generator, err error) Generator {
	if err != nil || g == nil {
		return None{}
	}
	return g
}
