package templating

import (
	"time"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/CTAG07/Vellum/pkg/timefmt"
	"github.com/mailgun/raymond/v2"
)

// format renders a number with a numeric format pattern such as ",.2f".
func (e *Engine) format(value, pattern any, _ *raymond.Options) any {
	if value == nil {
		return "null"
	}
	p, ok := pattern.(string)
	if !ok {
		return "Wrong format"
	}
	if !convert.IsNumber(value) {
		return "Value is not number"
	}
	f, err := e.state.NumberFormat(p)
	if err != nil {
		fail("format", err)
	}
	return f(convert.Float(value))
}

// utcFormat renders a date, or an ISO-8601 UTC timestamp string, in UTC.
// Strings that do not parse render as nothing.
func (e *Engine) utcFormat(value, pattern any, _ *raymond.Options) any {
	if value == nil {
		return "null"
	}
	p, ok := pattern.(string)
	if !ok {
		return "Wrong format"
	}
	if s, ok := value.(string); ok {
		t, err := timefmt.ParseISO(s)
		if err != nil {
			return nil
		}
		value = t
	}
	t, ok := dateValue(value)
	if !ok {
		return nil
	}
	return e.state.TimeFormat(p, true).Format(t)
}

// timeFormat renders a date in the configured local zone.
func (e *Engine) timeFormat(value, pattern any, _ *raymond.Options) any {
	if value == nil {
		return "null"
	}
	p, ok := pattern.(string)
	if !ok {
		return "Wrong format"
	}
	t, ok := dateValue(value)
	if !ok {
		return nil
	}
	return e.state.TimeFormat(p, false).Format(t)
}

func dateValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}
