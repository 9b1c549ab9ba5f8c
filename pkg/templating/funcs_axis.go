package templating

import (
	"github.com/CTAG07/Vellum/pkg/axis"
	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

var axisHelpers = map[string]axis.Orient{
	"axisTop":    axis.Top,
	"axisRight":  axis.Right,
	"axisBottom": axis.Bottom,
	"axisLeft":   axis.Left,
}

// axisConstructor returns the helper binding a new axis to an existing
// scale. Unlike scales, an axis id may be redeclared.
func (e *Engine) axisConstructor(name string, orient axis.Orient) func(id, scaleID any, _ *raymond.Options) any {
	return func(id, scaleID any, _ *raymond.Options) any {
		sid := convert.String(scaleID)
		sc, ok := e.state.Scale(sid)
		if !ok {
			return "Scale " + sid + " not found"
		}
		key := convert.String(id)
		if _, exists := e.state.Axis(key); !exists &&
			e.config.MaxAxes > 0 && e.state.NumAxes() >= e.config.MaxAxes {
			failf(name, "%w: more than %d axes", ErrLimitExceeded, e.config.MaxAxes)
		}
		a, err := axis.New(orient, sc)
		if err != nil {
			fail(name, err)
		}
		e.state.SetAxis(key, a)
		return nil
	}
}

// useAxis renders the axis id, or nothing when it does not exist.
func (e *Engine) useAxis(id any, _ *raymond.Options) any {
	a, ok := e.state.Axis(convert.String(id))
	if !ok {
		return nil
	}
	out, err := a.Render()
	if err != nil {
		fail("useAxis", err)
	}
	return out
}

// setupAxis calls a method of the axis id. tickFormat takes a numeric
// format pattern.
func (e *Engine) setupAxis(args ...any) any {
	args = params(args)
	a, ok := e.state.Axis(convert.String(param(args, 0)))
	if !ok {
		return nil
	}
	method := convert.String(param(args, 1))
	var rest []any
	if len(args) > 2 {
		rest = args[2:]
	}
	if method == "tickFormat" {
		if err := a.SetNumberFormat(convert.String(param(rest, 0))); err != nil {
			fail("setupAxis", err)
		}
		return nil
	}
	if _, err := a.Call(method, rest...); err != nil {
		fail("setupAxis", err)
	}
	return nil
}

func (e *Engine) resetAxes(_ *raymond.Options) any {
	e.state.ResetAxes()
	return nil
}
