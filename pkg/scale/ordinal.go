package scale

import (
	"math"

	"github.com/CTAG07/Vellum/pkg/convert"
)

type implicitValue struct{}

func (implicitValue) String() string { return "implicit" }

// Implicit is the default unknown value of ordinal scales: unseen inputs
// are appended to the domain instead of mapping to a fixed value.
var Implicit any = implicitValue{}

type ordinal struct {
	domain  []any
	index   map[any]int
	rng     []any
	unknown any
}

func newOrdinal() *ordinal {
	return &ordinal{index: map[any]int{}, rng: []any{}, unknown: Implicit}
}

func (s *ordinal) Kind() string   { return "ordinal" }
func (s *ordinal) String() string { return "ordinal" }

func (s *ordinal) copyOrdinal() *ordinal {
	c := &ordinal{rng: append([]any(nil), s.rng...), unknown: s.unknown}
	c.setDomain(s.domain)
	return c
}

func (s *ordinal) Copy() Scale { return s.copyOrdinal() }

func (s *ordinal) setDomain(values []any) {
	s.domain = s.domain[:0:0]
	s.index = make(map[any]int, len(values))
	for _, v := range values {
		k := convert.Key(v)
		if _, ok := s.index[k]; ok {
			continue
		}
		s.index[k] = len(s.domain)
		s.domain = append(s.domain, v)
	}
}

func (s *ordinal) Domain() []any { return append([]any(nil), s.domain...) }
func (s *ordinal) Range() []any  { return append([]any(nil), s.rng...) }

func (s *ordinal) Apply(x any) any {
	k := convert.Key(x)
	i, ok := s.index[k]
	if !ok {
		if _, implicit := s.unknown.(implicitValue); !implicit {
			return s.unknown
		}
		i = len(s.domain)
		s.index[k] = i
		s.domain = append(s.domain, x)
	}
	if len(s.rng) == 0 {
		return nil
	}
	return s.rng[i%len(s.rng)]
}

func (s *ordinal) Call(method string, args ...any) (any, error) {
	switch method {
	case "domain":
		v, ok := arg(args, 0)
		if !ok {
			return s.Domain(), nil
		}
		items, err := sliceArg("ordinal", method, v)
		if err != nil {
			return nil, err
		}
		s.setDomain(items)
		return s, nil
	case "range":
		v, ok := arg(args, 0)
		if !ok {
			return s.Range(), nil
		}
		items, err := sliceArg("ordinal", method, v)
		if err != nil {
			return nil, err
		}
		s.rng = items
		return s, nil
	case "unknown":
		if len(args) == 0 {
			return s.unknown, nil
		}
		s.unknown = args[0]
		return s, nil
	case "copy":
		return s.Copy(), nil
	}
	return nil, &MethodError{Kind: "ordinal", Method: method}
}

// band maps discrete domain values to evenly spaced bands of a continuous
// range. A point scale is a band scale with zero bandwidth.
type band struct {
	kind         string
	ord          *ordinal
	r0, r1       float64
	step         float64
	bandwidth    float64
	round        bool
	paddingInner float64
	paddingOuter float64
	align        float64
}

func newBand() *band {
	b := &band{kind: "band", ord: newOrdinal(), r0: 0, r1: 1, align: 0.5}
	b.ord.unknown = nil
	b.rescale()
	return b
}

func newPoint() *band {
	b := newBand()
	b.kind = "point"
	b.paddingInner = 1
	b.rescale()
	return b
}

func (b *band) Kind() string   { return b.kind }
func (b *band) String() string { return b.kind }

func (b *band) Copy() Scale {
	c := *b
	c.ord = b.ord.copyOrdinal()
	return &c
}

func (b *band) rescale() {
	n := float64(len(b.ord.domain))
	reverse := b.r1 < b.r0
	start, stop := b.r0, b.r1
	if reverse {
		start, stop = b.r1, b.r0
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	if b.round {
		b.step = math.Floor(b.step)
	}
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if b.round {
		start = jsRound(start)
		b.bandwidth = jsRound(b.bandwidth)
	}
	values := make([]any, len(b.ord.domain))
	for i := range values {
		v := start + b.step*float64(i)
		if reverse {
			values[len(values)-1-i] = v
		} else {
			values[i] = v
		}
	}
	b.ord.rng = values
}

func (b *band) Domain() []any      { return b.ord.Domain() }
func (b *band) Range() []any       { return []any{b.r0, b.r1} }
func (b *band) Apply(x any) any    { return b.ord.Apply(x) }
func (b *band) Bandwidth() float64 { return b.bandwidth }
func (b *band) Step() float64      { return b.step }
func (b *band) IsRound() bool      { return b.round }

func (b *band) setRange(v any) error {
	r, err := floatsArg(b.kind, "range", v)
	if err != nil {
		return err
	}
	if len(r) < 2 {
		return &MethodError{Kind: b.kind, Method: "range", Reason: "expected two values"}
	}
	b.r0, b.r1 = r[0], r[1]
	return nil
}

func (b *band) Call(method string, args ...any) (any, error) {
	v, has := arg(args, 0)
	switch method {
	case "domain":
		if !has {
			return b.Domain(), nil
		}
		items, err := sliceArg(b.kind, method, v)
		if err != nil {
			return nil, err
		}
		b.ord.setDomain(items)
	case "range":
		if !has {
			return b.Range(), nil
		}
		if err := b.setRange(v); err != nil {
			return nil, err
		}
	case "rangeRound":
		if err := b.setRange(v); err != nil {
			return nil, err
		}
		b.round = true
	case "bandwidth":
		return b.bandwidth, nil
	case "step":
		return b.step, nil
	case "round":
		if !has {
			return b.round, nil
		}
		b.round = convert.Truthy(v)
	case "padding":
		if !has {
			if b.kind == "point" {
				return b.paddingOuter, nil
			}
			return b.paddingInner, nil
		}
		b.paddingOuter = convert.Float(v)
		if b.kind == "band" {
			b.paddingInner = math.Min(1, b.paddingOuter)
		}
	case "paddingInner":
		if b.kind == "point" {
			return nil, &MethodError{Kind: b.kind, Method: method}
		}
		if !has {
			return b.paddingInner, nil
		}
		b.paddingInner = math.Min(1, convert.Float(v))
	case "paddingOuter":
		if !has {
			return b.paddingOuter, nil
		}
		b.paddingOuter = convert.Float(v)
	case "align":
		if !has {
			return b.align, nil
		}
		b.align = math.Max(0, math.Min(1, convert.Float(v)))
	case "copy":
		return b.Copy(), nil
	default:
		return nil, &MethodError{Kind: b.kind, Method: method}
	}
	b.rescale()
	return b, nil
}
