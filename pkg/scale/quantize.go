package scale

import (
	"math"

	"github.com/CTAG07/Vellum/pkg/convert"
)

// quantize divides a continuous domain into uniform segments, one per range value.
type quantize struct {
	x0, x1     float64
	thresholds []float64
	rng        []any
	unknown    any
}

func newQuantize() *quantize {
	q := &quantize{x0: 0, x1: 1, rng: []any{0.0, 1.0}}
	q.rescale()
	return q
}

func (q *quantize) rescale() {
	n := len(q.rng) - 1
	if n < 0 {
		n = 0
	}
	q.thresholds = make([]float64, n)
	for i := range q.thresholds {
		fi, fn := float64(i), float64(n)
		q.thresholds[i] = ((fi+1)*q.x1 - (fi-fn)*q.x0) / (fn + 1)
	}
}

func (q *quantize) Kind() string   { return "quantize" }
func (q *quantize) String() string { return "quantize" }

func (q *quantize) Copy() Scale {
	c := *q
	c.rng = append([]any(nil), q.rng...)
	c.rescale()
	return &c
}

func (q *quantize) Domain() []any { return []any{q.x0, q.x1} }
func (q *quantize) Range() []any  { return append([]any(nil), q.rng...) }

func (q *quantize) Apply(x any) any {
	if x == nil || len(q.rng) == 0 {
		return q.unknown
	}
	v, ok := convert.Number(x)
	if !ok || math.IsNaN(v) {
		return q.unknown
	}
	return q.rng[bisectRight(q.thresholds, v, 0, len(q.thresholds))]
}

// InvertExtent returns the domain extent mapped to y.
func (q *quantize) InvertExtent(y any) []any {
	i := indexOf(q.rng, y)
	n := len(q.thresholds)
	switch {
	case i < 0:
		return []any{math.NaN(), math.NaN()}
	case n == 0:
		return []any{q.x0, q.x1}
	case i < 1:
		return []any{q.x0, q.thresholds[0]}
	case i >= n:
		return []any{q.thresholds[n-1], q.x1}
	}
	return []any{q.thresholds[i-1], q.thresholds[i]}
}

func (q *quantize) Ticks(args ...any) []any {
	return floatTicks(Ticks(q.x0, q.x1, countArg(args, 0)))
}

func (q *quantize) TickFormat(args ...any) (func(any) string, error) {
	f, err := linearTickFormat(q.x0, q.x1, countArg(args, 0), stringArg(args, 1))
	if err != nil {
		return nil, err
	}
	return func(v any) string { return f(convert.Float(v)) }, nil
}

func (q *quantize) Call(method string, args ...any) (any, error) {
	switch method {
	case "domain":
		v, ok := arg(args, 0)
		if !ok {
			return q.Domain(), nil
		}
		d, err := floatsArg("quantize", method, v)
		if err != nil {
			return nil, err
		}
		if len(d) < 2 {
			return nil, &MethodError{Kind: "quantize", Method: method, Reason: "expected two values"}
		}
		q.x0, q.x1 = d[0], d[1]
		q.rescale()
		return q, nil
	case "range":
		v, ok := arg(args, 0)
		if !ok {
			return q.Range(), nil
		}
		items, err := sliceArg("quantize", method, v)
		if err != nil {
			return nil, err
		}
		q.rng = items
		q.rescale()
		return q, nil
	case "unknown":
		if len(args) == 0 {
			return q.unknown, nil
		}
		q.unknown = args[0]
		return q, nil
	case "invertExtent":
		v, _ := arg(args, 0)
		return q.InvertExtent(v), nil
	case "thresholds":
		return floatTicks(q.thresholds), nil
	case "ticks":
		return q.Ticks(args...), nil
	case "tickFormat":
		return q.TickFormat(args...)
	case "nice":
		d := niceLinear([]float64{q.x0, q.x1}, countArg(args, 0))
		q.x0, q.x1 = d[0], d[1]
		q.rescale()
		return q, nil
	case "copy":
		return q.Copy(), nil
	}
	return nil, &MethodError{Kind: "quantize", Method: method}
}
