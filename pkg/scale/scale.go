// Package scale implements the scale functions templates use to map data
// values to visual values: continuous scales (linear, pow, log, radial,
// time), sequential and diverging scales, quantize and threshold scales,
// and the ordinal family (ordinal, band, point).
//
// A Scale is created with New and is then driven by name through Call, which
// mirrors the chainable getter/setter methods template authors know from
// d3-scale: a method called with arguments sets state and returns the scale,
// called without arguments it returns the current value.
package scale

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/CTAG07/Vellum/pkg/convert"
)

// ErrUnknownKind is returned by New for an unsupported scale kind.
var ErrUnknownKind = errors.New("unknown scale kind")

// MethodError reports a call to a method the scale does not have, or a
// method called with unusable arguments.
type MethodError struct {
	Kind   string
	Method string
	Reason string
}

func (e *MethodError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("scale %s: %s: %s", e.Kind, e.Method, e.Reason)
	}
	return fmt.Sprintf("scale %s has no method %q", e.Kind, e.Method)
}

// Scale maps domain values to range values.
type Scale interface {
	// Kind returns the scale kind, e.g. "linear".
	Kind() string
	// Apply maps a domain value to a range value. Values outside the
	// scale's understanding map to the configured unknown value.
	Apply(x any) any
	// Call invokes a named method. Setters return the scale itself.
	Call(method string, args ...any) (any, error)
	Domain() []any
	Range() []any
	Copy() Scale
}

// Ticker is implemented by scales that can suggest reference values.
type Ticker interface {
	Ticks(args ...any) []any
	TickFormat(args ...any) (func(any) string, error)
}

// Banded is implemented by scales that map values to bands.
type Banded interface {
	Bandwidth() float64
	IsRound() bool
}

type constructor func() Scale

var kinds = map[string]constructor{
	"linear":     func() Scale { return newLinear() },
	"pow":        func() Scale { return newPow() },
	"log":        func() Scale { return newLog() },
	"radial":     func() Scale { return newRadial() },
	"time":       func() Scale { return newTime() },
	"sequential": func() Scale { return newSequential() },
	"diverging":  func() Scale { return newDiverging() },
	"quantize":   func() Scale { return newQuantize() },
	"threshold":  func() Scale { return newThreshold() },
	"ordinal":    func() Scale { return newOrdinal() },
	"band":       func() Scale { return newBand() },
	"point":      func() Scale { return newPoint() },
}

// Kinds returns the supported scale kinds in alphabetical order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// New creates a scale of the given kind. With one argument, the argument
// is the range; with two, they are the domain and the range.
func New(kind string, args ...any) (Scale, error) {
	ctor, ok := kinds[strings.ToLower(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	s := ctor()
	switch len(args) {
	case 0:
	case 1:
		if _, err := s.Call("range", args[0]); err != nil {
			return nil, err
		}
	default:
		if _, err := s.Call("domain", args[0]); err != nil {
			return nil, err
		}
		if _, err := s.Call("range", args[1]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func arg(args []any, i int) (any, bool) {
	if i < len(args) && args[i] != nil {
		return args[i], true
	}
	return nil, false
}

func sliceArg(kind, method string, v any) ([]any, error) {
	items, ok := convert.Slice(v)
	if !ok {
		return nil, &MethodError{Kind: kind, Method: method, Reason: "expected an array"}
	}
	return append([]any(nil), items...), nil
}

func floatsArg(kind, method string, v any) ([]float64, error) {
	items, err := sliceArg(kind, method, v)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = convert.Float(item)
	}
	return out, nil
}

func countArg(args []any, i int) float64 {
	if v, ok := arg(args, i); ok {
		if f, ok := convert.Number(v); ok {
			return f
		}
	}
	return 10
}

func stringArg(args []any, i int) string {
	if v, ok := arg(args, i); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bisectRight returns the insertion point for x in the sorted values a[lo:hi],
// after any existing entries equal to x.
func bisectRight(a []float64, x float64, lo, hi int) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if x < a[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func indexOf(values []any, v any) int {
	for i, item := range values {
		if convert.StrictEqual(item, v) {
			return i
		}
	}
	return -1
}
