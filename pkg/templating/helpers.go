package templating

// helpers returns the helpers bound to the engine state for the lifetime of
// a compiled template.
func (e *Engine) helpers() map[string]any {
	h := map[string]any{
		// Formatting (from funcs_format.go)
		"format":     e.format,
		"utcFormat":  e.utcFormat,
		"timeFormat": e.timeFormat,

		// Scales (from funcs_scale.go)
		"useScale":    e.useScale,
		"getScale":    e.getScale,
		"setupScale":  e.setupScale,
		"resetScales": e.resetScales,

		// Axes (from funcs_axis.go)
		"useAxis":   e.useAxis,
		"setupAxis": e.setupAxis,
		"resetAxes": e.resetAxes,

		// Sequences (from funcs_data.go)
		"array":  e.array,
		"map":    e.mapKey,
		"min":    minOf,
		"max":    maxOf,
		"mean":   mean,
		"median": median,
		"sums":   sums,
		"filter": e.filter,

		// Arithmetic and variables (from funcs_simple.go)
		"sum":      sum,
		"sub":      sub,
		"multiply": multiply,
		"divide":   divide,
		"math":     mathHelper,
		"var":      e.setVar,
		"val":      e.getVar,

		// Comparison and logic (from funcs_logic.go)
		"eq":  eq,
		"ne":  ne,
		"lt":  lt,
		"gt":  gt,
		"lte": lte,
		"gte": gte,
		"and": and,
		"or":  or,

		// Links (from funcs_links.go)
		"launchUrl": launchURL,

		// Stand-in argument of bare variadic calls (from variadic.go)
		noArgsHelper: noArgsValue,
	}
	for name, kind := range scaleHelpers {
		h[name] = e.scaleConstructor(name, kind)
	}
	for name, orient := range axisHelpers {
		h[name] = e.axisConstructor(name, orient)
	}
	return h
}

// params undoes the stand-ins for missing arguments of variadic helpers:
// the (_noArgs) that padArgs gives a bare call, and the nil []interface{}
// the template engine passes for a nil argument.
func params(args []any) []any {
	if len(args) == 1 {
		if _, ok := args[0].(noArgs); ok {
			return nil
		}
	}
	for i, a := range args {
		if s, ok := a.([]any); ok && s == nil {
			args[i] = nil
		}
	}
	return args
}

func param(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}
