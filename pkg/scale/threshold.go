package scale

import "github.com/CTAG07/Vellum/pkg/convert"

// threshold maps values to range entries by arbitrary, sorted breakpoints.
type threshold struct {
	domain  []any
	rng     []any
	unknown any
}

func newThreshold() *threshold {
	return &threshold{domain: []any{0.5}, rng: []any{0.0, 1.0}}
}

func (s *threshold) Kind() string   { return "threshold" }
func (s *threshold) String() string { return "threshold" }

func (s *threshold) Copy() Scale {
	return &threshold{
		domain:  append([]any(nil), s.domain...),
		rng:     append([]any(nil), s.rng...),
		unknown: s.unknown,
	}
}

func (s *threshold) Domain() []any { return append([]any(nil), s.domain...) }
func (s *threshold) Range() []any  { return append([]any(nil), s.rng...) }

func (s *threshold) n() int {
	return max(0, min(len(s.domain), len(s.rng)-1))
}

func (s *threshold) Apply(x any) any {
	if x == nil || len(s.rng) == 0 {
		return s.unknown
	}
	if _, ok := convert.Compare(x, x); !ok {
		return s.unknown
	}
	lo, hi := 0, s.n()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if c, ok := convert.Compare(x, s.domain[mid]); ok && c < 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return s.rng[lo]
}

// InvertExtent returns the breakpoints around the range value y.
func (s *threshold) InvertExtent(y any) []any {
	i := indexOf(s.rng, y)
	at := func(j int) any {
		if j < 0 || j >= len(s.domain) {
			return nil
		}
		return s.domain[j]
	}
	return []any{at(i - 1), at(i)}
}

func (s *threshold) Call(method string, args ...any) (any, error) {
	switch method {
	case "domain", "range":
		v, ok := arg(args, 0)
		if !ok {
			if method == "domain" {
				return s.Domain(), nil
			}
			return s.Range(), nil
		}
		items, err := sliceArg("threshold", method, v)
		if err != nil {
			return nil, err
		}
		if method == "domain" {
			s.domain = items
		} else {
			s.rng = items
		}
		return s, nil
	case "unknown":
		if len(args) == 0 {
			return s.unknown, nil
		}
		s.unknown = args[0]
		return s, nil
	case "invertExtent":
		v, _ := arg(args, 0)
		return s.InvertExtent(v), nil
	case "copy":
		return s.Copy(), nil
	}
	return nil, &MethodError{Kind: "threshold", Method: method}
}
