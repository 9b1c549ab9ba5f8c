// Package convert holds the value coercion rules shared by the template
// helpers, scales and axes. Template authors pass loosely typed values
// (ints from literals, float64 from data, strings, dates), so every numeric
// or relational operation funnels through here to get one consistent answer.
package convert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/Vellum/pkg/numfmt"
	"github.com/CTAG07/Vellum/pkg/timefmt"
)

var dateString = timefmt.New("%a %b %d %Y %H:%M:%S GMT%z", false, nil)

// Undefined marks a value that does not exist, such as the field of a row
// that lacks it. It prints as the empty string and is falsy.
type Undefined string

// Missing is the Undefined value.
const Missing Undefined = ""

func (Undefined) String() string { return "" }

// IsNil reports whether v is nil or Missing.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Undefined)
	return ok
}

// IsNumber reports whether v holds a Go numeric kind. It is the strict check
// used where only genuine numbers are accepted (no strings, no dates).
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Number coerces v to a float64 the way unary plus does in the template
// language: numbers pass through, booleans become 0/1, dates become epoch
// milliseconds, numeric strings are parsed and nil becomes 0. The second
// result is false (and the value NaN) when v has no numeric meaning, which
// includes Missing.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case Undefined:
		return math.NaN(), false
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(n.UnixMilli()), true
	case *time.Time:
		if n == nil {
			return math.NaN(), false
		}
		return float64(n.UnixMilli()), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	}
	return math.NaN(), false
}

// Float is Number without the ok flag; non-numeric input yields NaN.
func Float(v any) float64 {
	f, ok := Number(v)
	if !ok {
		return math.NaN()
	}
	return f
}

// Int coerces v to an int, truncating toward zero.
func Int(v any) (int, bool) {
	f, ok := Number(v)
	if !ok || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Time returns v as a time.Time when it is a date, or an epoch-millisecond
// number.
func Time(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	if IsNumber(v) {
		f, _ := Number(v)
		return time.UnixMilli(int64(f)), true
	}
	return time.Time{}, false
}

// Slice returns the elements of v when v is a slice or array.
func Slice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Floats coerces every element of v to a float64. Non-numeric elements
// are returned as NaN so callers can skip them.
func Floats(v any) ([]float64, bool) {
	items, ok := Slice(v)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = Float(item)
	}
	return out, true
}

// Truthy reports the boolean meaning of v: nil, false, zero, NaN and the
// empty string are false, everything else (including empty collections)
// is true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil, Undefined:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case time.Time:
		return true
	}
	if IsNumber(v) {
		f, _ := Number(v)
		return f != 0 && !math.IsNaN(f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	case reflect.String:
		return rv.Len() > 0
	}
	return true
}

// StrictEqual compares a and b without type coercion, except that all Go
// numeric kinds are treated as one number type. nil and Missing are equal
// to each other and to nothing else.
func StrictEqual(a, b any) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if IsNumber(a) && IsNumber(b) {
		x, _ := Number(a)
		y, _ := Number(b)
		return x == y
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Slice, reflect.Map:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Func:
		return false
	}
	if !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// Compare orders a and b. Two strings compare lexically, anything else is
// compared numerically. ok is false when either side is not a number.
func Compare(a, b any) (int, bool) {
	sa, aStr := a.(string)
	sb, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(sa, sb), true
	}
	x, okA := Number(a)
	y, okB := Number(b)
	if !okA || !okB || math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

// Key normalizes v into a comparable map key so that 1, 1.0 and int64(1)
// land on the same ordinal slot, and dates key by instant.
func Key(v any) any {
	if IsNumber(v) {
		f, _ := Number(v)
		return f
	}
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case nil, Undefined:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().Comparable() {
		return v
	}
	return fmt.Sprint(v)
}

// String renders v the way it prints inside template output: numbers in
// their shortest round-trip form, dates in the long local form and nil as
// the empty string.
func String(v any) string {
	switch t := v.(type) {
	case nil, Undefined:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return dateString.Format(t)
	case fmt.Stringer:
		return t.String()
	}
	if IsNumber(v) {
		f, _ := Number(v)
		return numfmt.String(f)
	}
	if items, ok := Slice(v); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = String(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
