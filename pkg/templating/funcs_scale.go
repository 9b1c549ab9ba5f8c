package templating

import (
	"errors"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/CTAG07/Vellum/pkg/scale"
	"github.com/mailgun/raymond/v2"
)

// scaleHelpers maps each scale constructor helper to the scale kind it
// creates.
var scaleHelpers = map[string]string{
	"scaleLinear":     "linear",
	"scaleBand":       "band",
	"scaleLog":        "log",
	"scaleOrdinal":    "ordinal",
	"scalePoint":      "point",
	"scalePow":        "pow",
	"scaleQuantize":   "quantize",
	"scaleDiverging":  "diverging",
	"scaleTime":       "time",
	"scaleThreshold":  "threshold",
	"scaleRadial":     "radial",
	"scaleSequential": "sequential",
}

// scaleConstructor returns the helper registering a new scale of kind under
// the id given as its first argument. The remaining arguments are the range,
// or the domain and the range. An id that is already taken is left alone.
func (e *Engine) scaleConstructor(name, kind string) func(args ...any) any {
	return func(args ...any) any {
		args = params(args)
		id := convert.String(param(args, 0))
		if _, ok := e.state.Scale(id); ok {
			return "Scale redeclared"
		}
		if e.config.MaxScales > 0 && e.state.NumScales() >= e.config.MaxScales {
			failf(name, "%w: more than %d scales", ErrLimitExceeded, e.config.MaxScales)
		}
		var rest []any
		if len(args) > 1 {
			rest = args[1:]
		}
		sc, err := scale.New(kind, rest...)
		if err != nil {
			fail(name, err)
		}
		e.state.AddScale(id, sc)
		return nil
	}
}

// useScale applies the scale id to its second argument.
func (e *Engine) useScale(args ...any) any {
	args = params(args)
	id, ok := param(args, 0).(string)
	if !ok || id == "" {
		return "Wrong scale ID"
	}
	sc, ok := e.state.Scale(id)
	if !ok {
		return "Wrong scale ID"
	}
	return sc.Apply(param(args, 1))
}

// getScale calls a method of the scale id and returns its result.
func (e *Engine) getScale(args ...any) any {
	res, _ := e.callScale("getScale", params(args))
	return res
}

// setupScale calls a method of the scale id for its side effect.
func (e *Engine) setupScale(args ...any) any {
	e.callScale("setupScale", params(args))
	return nil
}

func (e *Engine) callScale(helper string, args []any) (any, bool) {
	sc, ok := e.state.Scale(convert.String(param(args, 0)))
	if !ok {
		return nil, false
	}
	method := convert.String(param(args, 1))
	var rest []any
	if len(args) > 2 {
		rest = args[2:]
	}
	res, err := sc.Call(method, rest...)
	if err != nil {
		var me *scale.MethodError
		if !errors.As(err, &me) {
			err = &scale.MethodError{Kind: sc.Kind(), Method: method, Reason: err.Error()}
		}
		fail(helper, err)
	}
	return res, true
}

func (e *Engine) resetScales(_ *raymond.Options) any {
	e.state.ResetScales()
	return nil
}
