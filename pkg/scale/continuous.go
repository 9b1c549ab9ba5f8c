package scale

import (
	"math"
	"time"

	"github.com/CTAG07/Vellum/pkg/convert"
)

// continuous is shared by the linear, pow, log, radial and time scales.
type continuous struct {
	kind     string
	domain   []float64
	rng      []any
	clamp    bool
	round    bool
	unknown  any
	exponent float64
	base     float64
	loc      *time.Location
}

func newLinear() *continuous {
	return &continuous{kind: "linear", domain: []float64{0, 1}, rng: []any{0.0, 1.0}}
}

func newPow() *continuous {
	s := newLinear()
	s.kind, s.exponent = "pow", 1
	return s
}

func newRadial() *continuous {
	s := newLinear()
	s.kind = "radial"
	return s
}

func newLog() *continuous {
	s := newLinear()
	s.kind, s.base, s.domain = "log", 10, []float64{1, 10}
	return s
}

func newTime() *continuous {
	loc := time.Local
	s := newLinear()
	s.kind, s.loc = "time", loc
	s.domain = []float64{
		float64(time.Date(2000, 1, 1, 0, 0, 0, 0, loc).UnixMilli()),
		float64(time.Date(2000, 1, 2, 0, 0, 0, 0, loc).UnixMilli()),
	}
	return s
}

func (s *continuous) Kind() string   { return s.kind }
func (s *continuous) String() string { return s.kind }

func (s *continuous) Copy() Scale {
	c := *s
	c.domain = append([]float64(nil), s.domain...)
	c.rng = append([]any(nil), s.rng...)
	return &c
}

func (s *continuous) transforms() (fwd, inv func(float64) float64) {
	identity := func(x float64) float64 { return x }
	switch s.kind {
	case "pow":
		e := s.exponent
		switch e {
		case 1:
			return identity, identity
		case 0.5:
			return signed(math.Sqrt), signed(func(x float64) float64 { return x * x })
		}
		return signed(func(x float64) float64 { return math.Pow(x, e) }),
			signed(func(x float64) float64 { return math.Pow(x, 1/e) })
	case "log":
		if len(s.domain) > 0 && s.domain[0] < 0 {
			return func(x float64) float64 { return -math.Log(-x) },
				func(x float64) float64 { return -math.Exp(-x) }
		}
		return math.Log, math.Exp
	}
	return identity, identity
}

func signed(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		if x < 0 {
			return -f(-x)
		}
		return f(x)
	}
}

func normalize(a, b float64) func(float64) float64 {
	d := b - a
	switch {
	case math.IsNaN(d):
		return func(float64) float64 { return math.NaN() }
	case d == 0:
		return func(float64) float64 { return 0.5 }
	}
	return func(x float64) float64 { return (x - a) / d }
}

// polymap maps x from a piecewise domain to the matching piece of the range.
func polymap(domain []float64, rng []any, interp func(a, b any) Interpolator) func(float64) any {
	n := min(len(domain), len(rng))
	if n < 2 {
		return func(float64) any { return math.NaN() }
	}
	d := append([]float64(nil), domain[:n]...)
	r := append([]any(nil), rng[:n]...)
	if d[n-1] < d[0] {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			d[i], d[j] = d[j], d[i]
			r[i], r[j] = r[j], r[i]
		}
	}
	norms := make([]func(float64) float64, n-1)
	interps := make([]Interpolator, n-1)
	for i := 0; i < n-1; i++ {
		norms[i] = normalize(d[i], d[i+1])
		interps[i] = interp(r[i], r[i+1])
	}
	return func(x float64) any {
		i := bisectRight(d, x, 1, n-1) - 1
		return interps[i](norms[i](x))
	}
}

func (s *continuous) clamped(x float64) float64 {
	if !s.clamp {
		return x
	}
	n := min(len(s.domain), len(s.rng))
	if n == 0 {
		return x
	}
	a, b := s.domain[0], s.domain[n-1]
	if a > b {
		a, b = b, a
	}
	return math.Max(a, math.Min(b, x))
}

// outputRange is the range the interpolation runs over; radial scales
// interpolate over the squared range.
func (s *continuous) outputRange() []any {
	if s.kind != "radial" {
		return s.rng
	}
	out := make([]any, len(s.rng))
	for i, v := range s.rng {
		f := convert.Float(v)
		out[i] = math.Copysign(f*f, f)
	}
	return out
}

func (s *continuous) interpolator() func(a, b any) Interpolator {
	if s.round && s.kind != "radial" {
		return interpolateRound
	}
	return Interpolate
}

func (s *continuous) input(x any) (float64, bool) {
	if x == nil {
		return 0, false
	}
	v, ok := convert.Number(x)
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (s *continuous) Apply(x any) any {
	v, ok := s.input(x)
	if !ok {
		return s.unknown
	}
	fwd, _ := s.transforms()
	td := make([]float64, len(s.domain))
	for i, d := range s.domain {
		td[i] = fwd(d)
	}
	y := polymap(td, s.outputRange(), s.interpolator())(fwd(s.clamped(v)))
	if s.kind == "radial" {
		f := convert.Float(y)
		f = math.Copysign(math.Sqrt(math.Abs(f)), f)
		if math.IsNaN(f) {
			return s.unknown
		}
		if s.round {
			f = jsRound(f)
		}
		return f
	}
	return y
}

// Invert maps a range value back to the domain.
func (s *continuous) Invert(y any) any {
	yv := convert.Float(y)
	if s.kind == "radial" {
		yv = math.Copysign(yv*yv, yv)
	}
	fwd, inv := s.transforms()
	td := make([]any, len(s.domain))
	for i, d := range s.domain {
		td[i] = fwd(d)
	}
	out := s.outputRange()
	r := make([]float64, len(out))
	for i, v := range out {
		r[i] = convert.Float(v)
	}
	x := s.clamped(inv(convert.Float(polymap(r, td, func(a, b any) Interpolator {
		return interpolateNumber(convert.Float(a), convert.Float(b))
	})(yv))))
	if s.kind == "time" {
		if math.IsNaN(x) {
			return nil
		}
		return time.UnixMilli(int64(x)).In(s.loc)
	}
	return x
}

func (s *continuous) Domain() []any {
	out := make([]any, len(s.domain))
	for i, d := range s.domain {
		if s.kind == "time" {
			out[i] = time.UnixMilli(int64(d)).In(s.loc)
		} else {
			out[i] = d
		}
	}
	return out
}

func (s *continuous) Range() []any {
	return append([]any(nil), s.rng...)
}

func (s *continuous) setRange(v any) error {
	items, err := sliceArg(s.kind, "range", v)
	if err != nil {
		return err
	}
	if s.kind == "radial" {
		for i, item := range items {
			items[i] = convert.Float(item)
		}
	}
	s.rng = items
	return nil
}

func (s *continuous) Ticks(args ...any) []any {
	switch s.kind {
	case "log":
		return floatTicks(s.logTicks(countArg(args, 0)))
	case "time":
		return s.timeTicks(args)
	}
	if len(s.domain) == 0 {
		return []any{}
	}
	return floatTicks(Ticks(s.domain[0], s.domain[len(s.domain)-1], countArg(args, 0)))
}

func (s *continuous) TickFormat(args ...any) (func(any) string, error) {
	switch s.kind {
	case "log":
		return s.logTickFormat(args)
	case "time":
		return s.timeTickFormat(args), nil
	}
	if len(s.domain) == 0 {
		return func(v any) string { return "" }, nil
	}
	f, err := linearTickFormat(s.domain[0], s.domain[len(s.domain)-1], countArg(args, 0), stringArg(args, 1))
	if err != nil {
		return nil, err
	}
	return func(v any) string { return f(convert.Float(v)) }, nil
}

func (s *continuous) nice(args []any) {
	switch s.kind {
	case "log":
		s.logNice()
	case "time":
		s.timeNice(args)
	default:
		s.domain = niceLinear(s.domain, countArg(args, 0))
	}
}

func (s *continuous) Call(method string, args ...any) (any, error) {
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
	case "range":
		v, ok := arg(args, 0)
		if !ok {
			return s.Range(), nil
		}
		if err := s.setRange(v); err != nil {
			return nil, err
		}
		return s, nil
	case "rangeRound":
		v, ok := arg(args, 0)
		if !ok {
			return nil, &MethodError{Kind: s.kind, Method: method, Reason: "expected an array"}
		}
		if err := s.setRange(v); err != nil {
			return nil, err
		}
		s.round = true
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
	case "invert":
		v, _ := arg(args, 0)
		return s.Invert(v), nil
	case "ticks":
		return s.Ticks(args...), nil
	case "tickFormat":
		return s.TickFormat(args...)
	case "nice":
		s.nice(args)
		return s, nil
	case "copy":
		return s.Copy(), nil
	case "exponent":
		if s.kind != "pow" {
			break
		}
		v, ok := arg(args, 0)
		if !ok {
			return s.exponent, nil
		}
		s.exponent = convert.Float(v)
		return s, nil
	case "base":
		if s.kind != "log" {
			break
		}
		v, ok := arg(args, 0)
		if !ok {
			return s.base, nil
		}
		s.base = convert.Float(v)
		return s, nil
	case "round":
		if s.kind != "radial" {
			break
		}
		v, ok := arg(args, 0)
		if !ok {
			return s.round, nil
		}
		s.round = convert.Truthy(v)
		return s, nil
	}
	return nil, &MethodError{Kind: s.kind, Method: method}
}
