package templating

import (
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

// array collects its arguments into a sequence, capped at MaxArrayItems.
func (e *Engine) array(args ...any) any {
	args = params(args)
	if limit := e.config.MaxArrayItems; limit > 0 && len(args) > limit {
		args = args[:limit]
	}
	out := make([]any, len(args))
	copy(out, args)
	return out
}

// mapKey plucks key from every item of the sequence. Absent and nil values
// both come out as convert.Missing so that #each never sees a nil element.
func (e *Engine) mapKey(key, items any, _ *raymond.Options) any {
	s := sequence("map", items)
	if limit := e.config.MaxArrayItems; limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	out := make([]any, len(s))
	for i, item := range s {
		v := lookup(item, key)
		if v == nil {
			v = convert.Missing
		}
		out[i] = v
	}
	return out
}

// lookup returns item[key] for maps with string keys, struct fields and
// sequence indexes. Anything unresolvable is convert.Missing.
func lookup(item, key any) any {
	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return convert.Missing
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return convert.Missing
		}
		v := rv.MapIndex(reflect.ValueOf(convert.String(key)).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return convert.Missing
		}
		return v.Interface()
	case reflect.Struct:
		name := convert.String(key)
		if name == "" {
			return convert.Missing
		}
		f := rv.FieldByName(name)
		if !f.IsValid() {
			f = rv.FieldByName(strings.ToUpper(name[:1]) + name[1:])
		}
		if !f.IsValid() || !f.CanInterface() {
			return convert.Missing
		}
		return f.Interface()
	case reflect.Slice, reflect.Array:
		i, ok := convert.Int(key)
		if !ok || i < 0 || i >= rv.Len() {
			return convert.Missing
		}
		return rv.Index(i).Interface()
	}
	return convert.Missing
}

func sequence(helper string, v any) []any {
	s, ok := convert.Slice(v)
	if !ok {
		fail(helper, ErrNotArray)
	}
	return s
}

// extent scans s for the value that wins against every other under better.
// nil, Missing, NaN and values that do not compare are skipped.
func extent(s []any, better func(c int) bool) any {
	var best any
	for _, v := range s {
		if convert.IsNil(v) {
			continue
		}
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			continue
		}
		if best == nil {
			if _, ok := convert.Compare(v, v); ok {
				best = v
			}
			continue
		}
		if c, ok := convert.Compare(v, best); ok && better(c) {
			best = v
		}
	}
	return best
}

func minOf(items any, _ *raymond.Options) any {
	return extent(sequence("min", items), func(c int) bool { return c < 0 })
}

func maxOf(items any, _ *raymond.Options) any {
	return extent(sequence("max", items), func(c int) bool { return c > 0 })
}

// numbers coerces every element and drops those with no numeric value.
func numbers(s []any) []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if convert.IsNil(v) {
			continue
		}
		if f, ok := convert.Number(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// mean is nil for a sequence without numbers.
func mean(items any, _ *raymond.Options) any {
	ns := numbers(sequence("mean", items))
	if len(ns) == 0 {
		return nil
	}
	var total float64
	for _, n := range ns {
		total += n
	}
	return total / float64(len(ns))
}

// median is the 0.5 quantile, interpolating between the middle pair.
func median(items any, _ *raymond.Options) any {
	ns := numbers(sequence("median", items))
	if len(ns) == 0 {
		return nil
	}
	sort.Float64s(ns)
	i := float64(len(ns)-1) * 0.5
	i0 := int(i)
	if i0+1 >= len(ns) {
		return ns[i0]
	}
	return ns[i0] + (ns[i0+1]-ns[i0])*(i-float64(i0))
}

// sums adds every numeric element; the empty sum is 0.
func sums(items any, _ *raymond.Options) any {
	var total float64
	for _, n := range numbers(sequence("sums", items)) {
		total += n
	}
	return total
}

// filter keeps the elements comparing to value under op, one of > >= < <=.
// Any other op keeps strictly equal elements.
func (e *Engine) filter(args ...any) any {
	args = params(args)
	s := sequence("filter", param(args, 0))
	value := param(args, 1)
	op, _ := param(args, 2).(string)
	keep := func(v any) bool {
		if op == "" || op == "==" {
			return convert.StrictEqual(v, value)
		}
		c, ok := convert.Compare(v, value)
		if !ok {
			return false
		}
		switch op {
		case ">":
			return c > 0
		case ">=":
			return c >= 0
		case "<":
			return c < 0
		case "<=":
			return c <= 0
		}
		return convert.StrictEqual(v, value)
	}
	out := make([]any, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	if limit := e.config.MaxArrayItems; limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
