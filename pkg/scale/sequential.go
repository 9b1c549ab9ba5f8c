package scale

import (
	"math"

	"github.com/CTAG07/Vellum/pkg/convert"
)

// sequential maps a continuous domain onto an interpolator; diverging
// scales use a three-value domain around a midpoint.
type sequential struct {
	kind    string
	domain  []float64
	rng     []any
	interp  Interpolator
	clamp   bool
	unknown any
}

func newSequential() *sequential {
	s := &sequential{kind: "sequential", domain: []float64{0, 1}}
	s.interp = func(t float64) any { return t }
	return s
}

func newDiverging() *sequential {
	s := &sequential{kind: "diverging", domain: []float64{0, 0.5, 1}}
	s.interp = func(t float64) any { return t }
	return s
}

func (s *sequential) Kind() string   { return s.kind }
func (s *sequential) String() string { return s.kind }

func (s *sequential) Copy() Scale {
	c := *s
	c.domain = append([]float64(nil), s.domain...)
	c.rng = append([]any(nil), s.rng...)
	return &c
}

func (s *sequential) Domain() []any { return floatTicks(s.domain) }

func (s *sequential) Range() []any {
	if s.rng != nil {
		return append([]any(nil), s.rng...)
	}
	if s.kind == "diverging" {
		return []any{s.interp(0), s.interp(0.5), s.interp(1)}
	}
	return []any{s.interp(0), s.interp(1)}
}

func (s *sequential) Apply(x any) any {
	if x == nil {
		return s.unknown
	}
	v, ok := convert.Number(x)
	if !ok || math.IsNaN(v) {
		return s.unknown
	}
	var t float64
	if s.kind == "diverging" {
		t = s.divergingT(v)
	} else {
		t = s.sequentialT(v)
	}
	if s.clamp {
		t = math.Max(0, math.Min(1, t))
	}
	return s.interp(t)
}

func (s *sequential) sequentialT(x float64) float64 {
	if len(s.domain) < 2 {
		return math.NaN()
	}
	t0, t1 := s.domain[0], s.domain[1]
	if t0 == t1 {
		return 0.5
	}
	return (x - t0) / (t1 - t0)
}

func (s *sequential) divergingT(x float64) float64 {
	if len(s.domain) < 3 {
		return math.NaN()
	}
	t0, t1, t2 := s.domain[0], s.domain[1], s.domain[2]
	k10, k21 := 0.0, 0.0
	if t0 != t1 {
		k10 = 0.5 / (t1 - t0)
	}
	if t1 != t2 {
		k21 = 0.5 / (t2 - t1)
	}
	sign := 1.0
	if t1 < t0 {
		sign = -1
	}
	k := k21
	if sign*x < sign*t1 {
		k = k10
	}
	return 0.5 + (x-t1)*k
}

func (s *sequential) setRange(v any, round bool) error {
	items, err := sliceArg(s.kind, "range", v)
	if err != nil {
		return err
	}
	want := 2
	if s.kind == "diverging" {
		want = 3
	}
	if len(items) < want {
		return &MethodError{Kind: s.kind, Method: "range", Reason: "not enough values"}
	}
	items = items[:want]
	interp := Interpolate
	if round {
		interp = interpolateRound
	}
	s.rng = items
	s.interp = piecewise(items, interp)
	return nil
}

func (s *sequential) Ticks(args ...any) []any {
	if len(s.domain) == 0 {
		return []any{}
	}
	return floatTicks(Ticks(s.domain[0], s.domain[len(s.domain)-1], countArg(args, 0)))
}

func (s *sequential) TickFormat(args ...any) (func(any) string, error) {
	if len(s.domain) == 0 {
		return func(any) string { return "" }, nil
	}
	f, err := linearTickFormat(s.domain[0], s.domain[len(s.domain)-1], countArg(args, 0), stringArg(args, 1))
	if err != nil {
		return nil, err
	}
	return func(v any) string { return f(convert.Float(v)) }, nil
}

func (s *sequential) Call(method string, args ...any) (any, error) {
	switch method {
	case "domain":
		v, ok := arg(args, 0)
		if !ok {
			return s.Domain(), nil
		}
		d, err := floatsArg(s.kind, method, v)
		if err != nil {
			return nil, err
		}
		s.domain = d
		return s, nil
	case "range", "rangeRound":
		v, ok := arg(args, 0)
		if !ok {
			return s.Range(), nil
		}
		if err := s.setRange(v, method == "rangeRound"); err != nil {
			return nil, err
		}
		return s, nil
	case "clamp":
		v, ok := arg(args, 0)
		if !ok {
			return s.clamp, nil
		}
		s.clamp = convert.Truthy(v)
		return s, nil
	case "unknown":
		if len(args) == 0 {
			return s.unknown, nil
		}
		s.unknown = args[0]
		return s, nil
	case "ticks":
		return s.Ticks(args...), nil
	case "tickFormat":
		return s.TickFormat(args...)
	case "nice":
		s.domain = niceLinear(s.domain, countArg(args, 0))
		return s, nil
	case "copy":
		return s.Copy(), nil
	}
	return nil, &MethodError{Kind: s.kind, Method: method}
}
