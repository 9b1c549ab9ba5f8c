package templating

import (
	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

// eq reports whether a and b are strictly equal.
func eq(a, b any, _ *raymond.Options) bool { return convert.StrictEqual(a, b) }

// ne reports whether a and b are not strictly equal.
func ne(a, b any, _ *raymond.Options) bool { return !convert.StrictEqual(a, b) }

// ordered reports whether a and b compare and the result satisfies ok.
func ordered(a, b any, ok func(c int) bool) bool {
	c, comparable := convert.Compare(a, b)
	return comparable && ok(c)
}

func lt(a, b any, _ *raymond.Options) bool {
	return ordered(a, b, func(c int) bool { return c < 0 })
}

func gt(a, b any, _ *raymond.Options) bool {
	return ordered(a, b, func(c int) bool { return c > 0 })
}

func lte(a, b any, _ *raymond.Options) bool {
	return ordered(a, b, func(c int) bool { return c <= 0 })
}

func gte(a, b any, _ *raymond.Options) bool {
	return ordered(a, b, func(c int) bool { return c >= 0 })
}

// and reports whether every argument is truthy.
func and(args ...any) any {
	for _, a := range params(args) {
		if !convert.Truthy(a) {
			return false
		}
	}
	return true
}

// or reports whether any argument is truthy.
func or(args ...any) any {
	for _, a := range params(args) {
		if convert.Truthy(a) {
			return true
		}
	}
	return false
}
