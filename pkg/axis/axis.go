// Package axis renders reference axes for scales as SVG markup.
//
// The markup is the inner content of an SVG group: a domain path followed by
// one tick group per value, each holding a tick line and a label. The caller
// positions the enclosing <g> element.
package axis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/CTAG07/Vellum/pkg/numfmt"
	"github.com/CTAG07/Vellum/pkg/scale"
)

// Orient is the side of the scale the ticks are drawn on.
type Orient string

const (
	Top    Orient = "top"
	Right  Orient = "right"
	Bottom Orient = "bottom"
	Left   Orient = "left"
)

// ErrUnknownOrient is returned by New for an unsupported orientation.
var ErrUnknownOrient = errors.New("unknown axis orientation")

// MethodError reports an unsupported axis method.
type MethodError struct {
	Method string
	Reason string
}

func (e *MethodError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("axis: %s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("axis has no method %q", e.Method)
}

// Axis is bound to a scale at construction and configured through Call.
type Axis struct {
	orient        Orient
	scale         scale.Scale
	tickArguments []any
	tickValues    []any
	format        func(any) string
	tickSizeInner float64
	tickSizeOuter float64
	tickPadding   float64
	offset        float64
}

// New returns an axis for s with the default tick sizes and padding.
func New(orient Orient, s scale.Scale) (*Axis, error) {
	switch orient {
	case Top, Right, Bottom, Left:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrient, orient)
	}
	return &Axis{
		orient:        orient,
		scale:         s,
		tickSizeInner: 6,
		tickSizeOuter: 6,
		tickPadding:   3,
		offset:        0.5,
	}, nil
}

func (a *Axis) Orient() Orient         { return a.orient }
func (a *Axis) Scale() scale.Scale     { return a.scale }
func (a *Axis) TickSizeInner() float64 { return a.tickSizeInner }
func (a *Axis) TickSizeOuter() float64 { return a.tickSizeOuter }
func (a *Axis) TickPadding() float64   { return a.tickPadding }

// SetTickFormat replaces the label formatter. A nil f restores the scale's
// own tick format.
func (a *Axis) SetTickFormat(f func(any) string) { a.format = f }

// SetNumberFormat formats labels with a numeric format specifier.
func (a *Axis) SetNumberFormat(spec string) error {
	f, err := numfmt.New(spec)
	if err != nil {
		return err
	}
	a.format = func(v any) string { return f(convert.Float(v)) }
	return nil
}

// Call invokes a named configuration method. Setters return the axis,
// getters the current value.
func (a *Axis) Call(method string, args ...any) (any, error) {
	switch method {
	case "ticks":
		a.tickArguments = append([]any(nil), args...)
	case "tickArguments":
		if len(args) == 0 {
			return append([]any(nil), a.tickArguments...), nil
		}
		if args[0] == nil {
			a.tickArguments = nil
			break
		}
		items, ok := convert.Slice(args[0])
		if !ok {
			return nil, &MethodError{Method: method, Reason: "expected an array"}
		}
		a.tickArguments = items
	case "tickValues":
		if len(args) == 0 {
			return a.tickValues, nil
		}
		if args[0] == nil {
			a.tickValues = nil
			break
		}
		items, ok := convert.Slice(args[0])
		if !ok {
			return nil, &MethodError{Method: method, Reason: "expected an array"}
		}
		a.tickValues = append([]any{}, items...)
	case "tickFormat":
		if len(args) == 0 {
			return a.format, nil
		}
		switch f := args[0].(type) {
		case nil:
			a.format = nil
		case string:
			if err := a.SetNumberFormat(f); err != nil {
				return nil, err
			}
		case func(any) string:
			a.format = f
		default:
			return nil, &MethodError{Method: method, Reason: "expected a format specifier"}
		}
	case "tickSize":
		if len(args) == 0 {
			return a.tickSizeInner, nil
		}
		a.tickSizeInner = convert.Float(args[0])
		a.tickSizeOuter = a.tickSizeInner
	case "tickSizeInner":
		if len(args) == 0 {
			return a.tickSizeInner, nil
		}
		a.tickSizeInner = convert.Float(args[0])
	case "tickSizeOuter":
		if len(args) == 0 {
			return a.tickSizeOuter, nil
		}
		a.tickSizeOuter = convert.Float(args[0])
	case "tickPadding":
		if len(args) == 0 {
			return a.tickPadding, nil
		}
		a.tickPadding = convert.Float(args[0])
	case "offset":
		if len(args) == 0 {
			return a.offset, nil
		}
		a.offset = convert.Float(args[0])
	default:
		return nil, &MethodError{Method: method}
	}
	return a, nil
}

func (a *Axis) values() []any {
	if a.tickValues != nil {
		return a.tickValues
	}
	if t, ok := a.scale.(scale.Ticker); ok {
		return t.Ticks(a.tickArguments...)
	}
	return a.scale.Domain()
}

func (a *Axis) labeler() (func(any) string, error) {
	if a.format != nil {
		return a.format, nil
	}
	if t, ok := a.scale.(scale.Ticker); ok {
		return t.TickFormat(a.tickArguments...)
	}
	return convert.String, nil
}

// position maps a tick value to its offset along the axis. Banded scales
// place ticks at the band centers.
func (a *Axis) position() func(any) float64 {
	s := a.scale.Copy()
	b, ok := s.(scale.Banded)
	if !ok {
		return func(v any) float64 { return convert.Float(s.Apply(v)) }
	}
	center := math.Max(0, b.Bandwidth()-a.offset*2) / 2
	if b.IsRound() {
		center = math.Floor(center + 0.5)
	}
	return func(v any) float64 { return convert.Float(s.Apply(v)) + center }
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")

func num(x float64) string { return numfmt.String(x) }

// Render returns the axis markup with percent escapes in labels decoded.
// It fails only when the scale's tick format does.
func (a *Axis) Render() (string, error) {
	label, err := a.labeler()
	if err != nil {
		return "", err
	}
	values := a.values()
	rng := a.scale.Range()
	var range0, range1 float64
	if len(rng) > 0 {
		range0 = convert.Float(rng[0]) + a.offset
		range1 = convert.Float(rng[len(rng)-1]) + a.offset
	}
	position := a.position()

	vertical := a.orient == Left || a.orient == Right
	k := 1.0
	if a.orient == Top || a.orient == Left {
		k = -1
	}
	x := "y"
	if vertical {
		x = "x"
	}
	dy := "0.32em"
	switch a.orient {
	case Top:
		dy = "0em"
	case Bottom:
		dy = "0.71em"
	}
	spacing := math.Max(a.tickSizeInner, 0) + a.tickPadding

	var sb strings.Builder
	sb.WriteString(`<path class="domain" stroke="currentColor" d="`)
	outer := num(k * a.tickSizeOuter)
	switch {
	case vertical && a.tickSizeOuter != 0:
		fmt.Fprintf(&sb, "M%s,%sH%sV%sH%s", outer, num(range0), num(a.offset), num(range1), outer)
	case vertical:
		fmt.Fprintf(&sb, "M%s,%sV%s", num(a.offset), num(range0), num(range1))
	case a.tickSizeOuter != 0:
		fmt.Fprintf(&sb, "M%s,%sV%sH%sV%s", num(range0), outer, num(a.offset), num(range1), outer)
	default:
		fmt.Fprintf(&sb, "M%s,%sH%s", num(range0), num(a.offset), num(range1))
	}
	sb.WriteString(`"></path>`)

	for _, v := range values {
		p := num(position(v) + a.offset)
		transform := "translate(" + p + ",0)"
		if vertical {
			transform = "translate(0," + p + ")"
		}
		fmt.Fprintf(&sb, `<g class="tick" opacity="1" transform="%s">`, transform)
		fmt.Fprintf(&sb, `<line stroke="currentColor" %s2="%s"></line>`, x, num(k*a.tickSizeInner))
		fmt.Fprintf(&sb, `<text fill="currentColor" %s="%s" dy="%s">%s</text>`, x, num(k*spacing), dy, textEscaper.Replace(label(v)))
		sb.WriteString(`</g>`)
	}
	return DecodeURI(sb.String()), nil
}
