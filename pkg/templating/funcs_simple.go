package templating

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"reflect"
	"time"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

// sum returns a + b. When either side is text (a string, a date or a
// sequence) the two are concatenated instead.
func sum(a, b any, _ *raymond.Options) any {
	if textual(a) || textual(b) {
		return convert.String(a) + convert.String(b)
	}
	return convert.Float(a) + convert.Float(b)
}

func textual(v any) bool {
	switch v.(type) {
	case nil, bool:
		return false
	case string, time.Time:
		return true
	}
	if convert.IsNumber(v) {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map || k == reflect.Struct
}

// sub returns a - b.
func sub(a, b any, _ *raymond.Options) any {
	return convert.Float(a) - convert.Float(b)
}

// multiply returns a * b.
func multiply(a, b any, _ *raymond.Options) any {
	return convert.Float(a) * convert.Float(b)
}

// divide returns a / b. Division by zero yields an infinity or NaN.
func divide(a, b any, _ *raymond.Options) any {
	return convert.Float(a) / convert.Float(b)
}

var mathConstants = map[string]float64{
	"E":       math.E,
	"LN10":    math.Ln10,
	"LN2":     math.Ln2,
	"LOG10E":  1 / math.Ln10,
	"LOG2E":   1 / math.Ln2,
	"PI":      math.Pi,
	"SQRT1_2": math.Sqrt2 / 2,
	"SQRT2":   math.Sqrt2,
}

func unary(f func(float64) float64) func(x []float64) float64 {
	return func(x []float64) float64 { return f(at(x, 0)) }
}

func at(x []float64, i int) float64 {
	if i < len(x) {
		return x[i]
	}
	return math.NaN()
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(math.Mod(f, 1<<32)))))
}

var mathFuncs = map[string]func(x []float64) float64{
	"abs":   unary(math.Abs),
	"acos":  unary(math.Acos),
	"acosh": unary(math.Acosh),
	"asin":  unary(math.Asin),
	"asinh": unary(math.Asinh),
	"atan":  unary(math.Atan),
	"atanh": unary(math.Atanh),
	"atan2": func(x []float64) float64 { return math.Atan2(at(x, 0), at(x, 1)) },
	"cbrt":  unary(math.Cbrt),
	"ceil":  unary(math.Ceil),
	"clz32": func(x []float64) float64 {
		return float64(bits.LeadingZeros32(uint32(toInt32(at(x, 0)))))
	},
	"cos":    unary(math.Cos),
	"cosh":   unary(math.Cosh),
	"exp":    unary(math.Exp),
	"expm1":  unary(math.Expm1),
	"floor":  unary(math.Floor),
	"fround": unary(func(f float64) float64 { return float64(float32(f)) }),
	"hypot": func(x []float64) float64 {
		var h float64
		for _, v := range x {
			h = math.Hypot(h, v)
		}
		return h
	},
	"imul": func(x []float64) float64 {
		return float64(toInt32(at(x, 0)) * toInt32(at(x, 1)))
	},
	"log":   unary(math.Log),
	"log1p": unary(math.Log1p),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"max": func(x []float64) float64 {
		m := math.Inf(-1)
		for _, v := range x {
			if math.IsNaN(v) {
				return v
			}
			m = math.Max(m, v)
		}
		return m
	},
	"min": func(x []float64) float64 {
		m := math.Inf(1)
		for _, v := range x {
			if math.IsNaN(v) {
				return v
			}
			m = math.Min(m, v)
		}
		return m
	},
	"pow":    func(x []float64) float64 { return math.Pow(at(x, 0), at(x, 1)) },
	"random": func([]float64) float64 { return rand.Float64() },
	"round":  unary(func(f float64) float64 { return math.Floor(f + 0.5) }),
	"sign": unary(func(f float64) float64 {
		switch {
		case f > 0:
			return 1
		case f < 0:
			return -1
		}
		return f
	}),
	"sin":   unary(math.Sin),
	"sinh":  unary(math.Sinh),
	"sqrt":  unary(math.Sqrt),
	"tan":   unary(math.Tan),
	"tanh":  unary(math.Tanh),
	"trunc": unary(math.Trunc),
}

// mathHelper evaluates the math function name with the remaining arguments,
// or returns the constant name when there are none.
func mathHelper(args ...any) any {
	args = params(args)
	name := convert.String(param(args, 0))
	var xs []float64
	for i := 1; i < len(args); i++ {
		xs = append(xs, convert.Float(args[i]))
	}
	if c, ok := mathConstants[name]; ok {
		if len(xs) > 0 {
			failf("math", "%s is not a function", name)
		}
		return c
	}
	f, ok := mathFuncs[name]
	if !ok {
		fail("math", fmt.Errorf("unknown function %q", name))
	}
	return f(xs)
}

// setVar stores value under name for later val calls in the same pass.
func (e *Engine) setVar(name, value any, _ *raymond.Options) any {
	key := convert.String(name)
	if _, exists := e.state.Var(key); !exists &&
		e.config.MaxVariables > 0 && e.state.NumVars() >= e.config.MaxVariables {
		failf("var", "%w: more than %d variables", ErrLimitExceeded, e.config.MaxVariables)
	}
	e.state.SetVar(key, value)
	return nil
}

// getVar returns the value stored under name, or nil.
func (e *Engine) getVar(name any, _ *raymond.Options) any {
	v, _ := e.state.Var(convert.String(name))
	return v
}
