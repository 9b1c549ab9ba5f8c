package scale

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/Vellum/pkg/convert"
	"golang.org/x/image/colornames"
)

// Interpolator maps t in [0, 1] to a value between two endpoints.
type Interpolator func(t float64) any

type rgb struct{ r, g, b float64 }

func (c rgb) String() string {
	ch := func(v float64) int {
		v = jsRound(v)
		if math.IsNaN(v) {
			return 0
		}
		return int(math.Max(0, math.Min(255, v)))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", ch(c.r), ch(c.g), ch(c.b))
}

var rgbPattern = regexp.MustCompile(`^rgb\(\s*([-+]?\d*\.?\d+)\s*,\s*([-+]?\d*\.?\d+)\s*,\s*([-+]?\d*\.?\d+)\s*\)$`)

// parseColor understands #rgb, #rrggbb, rgb(r, g, b) and the SVG color keywords.
func parseColor(s string) (rgb, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return rgb{float64(c.R), float64(c.G), float64(c.B)}, true
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return rgb{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return rgb{}, false
		}
		return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, true
	}
	if m := rgbPattern.FindStringSubmatch(s); m != nil {
		r, _ := strconv.ParseFloat(m[1], 64)
		g, _ := strconv.ParseFloat(m[2], 64)
		b, _ := strconv.ParseFloat(m[3], 64)
		return rgb{r, g, b}, true
	}
	return rgb{}, false
}

var numberPattern = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.?\d+)(?:[eE][-+]?\d+)?`)

// Interpolate returns an interpolator between a and b, chosen by the type of b:
// numbers interpolate numerically, colors in RGB space, dates by instant and
// other strings by the numbers embedded in them. Anything else is constant b.
func Interpolate(a, b any) Interpolator {
	switch bv := b.(type) {
	case nil, bool:
		return func(float64) any { return b }
	case string:
		if cb, ok := parseColor(bv); ok {
			as, _ := a.(string)
			ca, ok := parseColor(as)
			if !ok {
				ca = rgb{math.NaN(), math.NaN(), math.NaN()}
			}
			return func(t float64) any {
				return rgb{
					lerpColor(ca.r, cb.r, t),
					lerpColor(ca.g, cb.g, t),
					lerpColor(ca.b, cb.b, t),
				}.String()
			}
		}
		return interpolateString(fmt.Sprint(a), bv)
	case time.Time:
		ta, _ := convert.Time(a)
		x0, x1 := float64(ta.UnixMilli()), float64(bv.UnixMilli())
		return func(t float64) any {
			return time.UnixMilli(int64(x0*(1-t) + x1*t))
		}
	}
	if convert.IsNumber(b) {
		return interpolateNumber(convert.Float(a), convert.Float(b))
	}
	return func(float64) any { return b }
}

// lerpColor follows a missing channel on one side to the value on the other.
func lerpColor(a, b, t float64) float64 {
	switch {
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	}
	return a + (b-a)*t
}

func interpolateNumber(a, b float64) Interpolator {
	return func(t float64) any { return a*(1-t) + b*t }
}

func interpolateRound(a, b any) Interpolator {
	x0, x1 := convert.Float(a), convert.Float(b)
	return func(t float64) any { return jsRound(x0*(1-t) + x1*t) }
}

// interpolateString interpolates the numbers found in b from the
// corresponding numbers in a, keeping the rest of b.
func interpolateString(a, b string) Interpolator {
	am := numberPattern.FindAllStringIndex(a, -1)
	bm := numberPattern.FindAllStringIndex(b, -1)
	if len(bm) == 0 {
		return func(float64) any { return b }
	}
	type piece struct {
		lit    string
		x0, x1 float64
		num    bool
	}
	var pieces []piece
	last := 0
	for i, m := range bm {
		if m[0] > last {
			pieces = append(pieces, piece{lit: b[last:m[0]]})
		}
		x1, _ := strconv.ParseFloat(b[m[0]:m[1]], 64)
		if i < len(am) {
			x0, _ := strconv.ParseFloat(a[am[i][0]:am[i][1]], 64)
			pieces = append(pieces, piece{x0: x0, x1: x1, num: true})
		} else {
			pieces = append(pieces, piece{lit: b[m[0]:m[1]]})
		}
		last = m[1]
	}
	if last < len(b) {
		pieces = append(pieces, piece{lit: b[last:]})
	}
	return func(t float64) any {
		var sb strings.Builder
		for _, p := range pieces {
			if p.num {
				sb.WriteString(strconv.FormatFloat(p.x0*(1-t)+p.x1*t, 'f', -1, 64))
			} else {
				sb.WriteString(p.lit)
			}
		}
		return sb.String()
	}
}

// piecewise spreads interpolators evenly over the given values.
func piecewise(values []any, interp func(a, b any) Interpolator) Interpolator {
	n := len(values) - 1
	if n < 1 {
		var v any
		if n == 0 {
			v = values[0]
		}
		return func(float64) any { return v }
	}
	parts := make([]Interpolator, n)
	for i := range parts {
		parts[i] = interp(values[i], values[i+1])
	}
	return func(t float64) any {
		t *= float64(n)
		i := 0
		if !math.IsNaN(t) {
			i = int(math.Max(0, math.Min(float64(n-1), math.Floor(t))))
		}
		return parts[i](t - float64(i))
	}
}
