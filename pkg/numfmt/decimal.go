package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// decimal is the exact base-10 expansion of a non-negative finite float:
// value = 0.d[0]d[1]... * 10^point. digits carries no leading or trailing zeros;
// zero is represented by empty digits.
type decimal struct {
	digits []byte
	point  int
}

func newDecimal(x float64) decimal {
	x = math.Abs(x)
	if x == 0 {
		return decimal{}
	}
	// 767 significant digits are enough to print any float64 exactly.
	s := strconv.FormatFloat(x, 'e', 767, 64)
	e := strings.IndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[e+1:])
	digits := make([]byte, 0, e)
	digits = append(digits, s[0])
	digits = append(digits, s[2:e]...)
	for len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	return decimal{digits: digits, point: exp + 1}
}

// shortestDecimal is the shortest expansion that reads back as x.
func shortestDecimal(x float64) decimal {
	x = math.Abs(x)
	if x == 0 {
		return decimal{}
	}
	s := strconv.FormatFloat(x, 'e', -1, 64)
	e := strings.IndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[e+1:])
	digits := []byte{s[0]}
	if e > 1 {
		digits = append(digits, s[2:e]...)
	}
	for len(digits) > 0 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
	}
	return decimal{digits: digits, point: exp + 1}
}

// round keeps n significant digits, rounding half up, and pads with zeros
// so the result has exactly n digits. A zero value stays zero.
func (d decimal) round(n int) decimal {
	if len(d.digits) == 0 {
		return decimal{digits: zeros(n), point: 1}
	}
	if n <= 0 {
		// Only a carry into a new leading digit can survive.
		if n == 0 && d.digits[0] >= '5' {
			return decimal{digits: []byte{'1'}, point: d.point + 1}
		}
		return decimal{}
	}
	out := make([]byte, n)
	copy(out, d.digits)
	for i := len(d.digits); i < n; i++ {
		out[i] = '0'
	}
	if len(d.digits) > n && d.digits[n] >= '5' {
		i := n - 1
		for ; i >= 0; i-- {
			if out[i] < '9' {
				out[i]++
				break
			}
			out[i] = '0'
		}
		if i < 0 {
			out = append([]byte{'1'}, out[:n-1]...)
			return decimal{digits: out, point: d.point + 1}
		}
	}
	return decimal{digits: out, point: d.point}
}

func zeros(n int) []byte {
	if n <= 0 {
		return nil
	}
	return []byte(strings.Repeat("0", n))
}

func finite(x float64) (string, bool) {
	switch {
	case math.IsNaN(x):
		return "NaN", false
	case math.IsInf(x, 0):
		return "Infinity", false
	}
	return "", true
}

// toFixed renders |x| with p digits after the decimal point.
func toFixed(x float64, p int) string {
	if s, ok := finite(x); !ok {
		return s
	}
	d := newDecimal(x)
	if len(d.digits) == 0 {
		d.point = 1
	}
	d = d.round(d.point + p)
	var b strings.Builder
	if len(d.digits) == 0 {
		b.WriteByte('0')
		if p > 0 {
			b.WriteByte('.')
			b.Write(zeros(p))
		}
		return b.String()
	}
	// Lay the digits out on a fixed grid from 10^(point-1) down to 10^-p.
	intDigits := d.point
	if intDigits <= 0 {
		b.WriteByte('0')
	} else {
		for i := 0; i < intDigits; i++ {
			b.WriteByte(digitAt(d.digits, i))
		}
	}
	if p > 0 {
		b.WriteByte('.')
		for i := 0; i < p; i++ {
			b.WriteByte(digitAt(d.digits, intDigits+i))
		}
	}
	return b.String()
}

func digitAt(digits []byte, i int) byte {
	if i < 0 || i >= len(digits) {
		return '0'
	}
	return digits[i]
}

// toExponential renders |x| as d.ddde±n with p fraction digits; a negative
// p picks as many digits as needed to represent x uniquely.
func toExponential(x float64, p int) string {
	if s, ok := finite(x); !ok {
		return s
	}
	var d decimal
	if p < 0 {
		d = shortestDecimal(x)
		if len(d.digits) == 0 {
			d = decimal{digits: []byte{'0'}, point: 1}
		}
	} else {
		d = newDecimal(x).round(p + 1)
	}
	return expString(d.digits, d.point-1)
}

func expString(digits []byte, exp int) string {
	var b strings.Builder
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.Write(digits[1:])
	}
	b.WriteByte('e')
	if exp >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(exp))
	return b.String()
}

// toPrecision renders |x| with p significant digits, switching to
// exponential notation for very small or very large magnitudes.
func toPrecision(x float64, p int) string {
	if s, ok := finite(x); !ok {
		return s
	}
	d := newDecimal(x).round(p)
	if x == 0 {
		d.point = 1
	}
	e := d.point - 1
	if e < -6 || e >= p {
		return expString(d.digits, e)
	}
	if e >= 0 {
		s := string(d.digits[:e+1])
		if p > e+1 {
			s += "." + string(d.digits[e+1:])
		}
		return s
	}
	return "0." + strings.Repeat("0", -e-1) + string(d.digits)
}

// decimalParts returns the significant digits of |x| rounded to p digits
// (or the shortest exact digits when p is 0) and the decimal exponent of
// the leading digit.
func decimalParts(x float64, p int) (string, int, bool) {
	if _, ok := finite(x); !ok {
		return "", 0, false
	}
	var d decimal
	if p > 0 {
		d = newDecimal(x).round(p)
	} else {
		d = shortestDecimal(x)
	}
	if len(d.digits) == 0 {
		return "0", 0, true
	}
	if x == 0 {
		return string(d.digits), 0, true
	}
	return string(d.digits), d.point - 1, true
}

// Exponent returns the decimal exponent of x's leading digit, e.g. 2 for 123.
// It returns 0 for zero, NaN and infinities.
func Exponent(x float64) int {
	_, e, ok := decimalParts(x, 0)
	if !ok {
		return 0
	}
	return e
}

// String renders x as the shortest decimal that reads back as x, switching
// to exponential notation below 1e-6 and from 1e21 on.
func String(x float64) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	if math.IsInf(x, 1) {
		return "Infinity"
	}
	if math.IsInf(x, -1) {
		return "-Infinity"
	}
	if x == 0 {
		return "0"
	}
	ax := math.Abs(x)
	if ax >= 1e21 || ax < 1e-6 {
		s := toExponential(x, -1)
		if x < 0 {
			return "-" + s
		}
		return s
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
