package numfmt

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const minus = "−"

// Formatter formats a single number.
type Formatter func(float64) string

// siSymbol returns the SI symbol of a multiple-of-three decimal exponent
// in [-24, 24].
func siSymbol(e int) string {
	// Five times the power keeps the magnitude well inside its prefix band.
	_, sym := humanize.ComputeSI(5 * math.Pow10(e))
	return sym
}

func siExponent(exponent int) int {
	return max(-8, min(8, int(math.Floor(float64(exponent)/3)))) * 3
}

// New parses spec and returns its formatter.
func New(spec string) (Formatter, error) {
	s, err := ParseSpecifier(spec)
	if err != nil {
		return nil, err
	}
	return s.Formatter(), nil
}

// Format formats x with spec.
func Format(spec string, x float64) (string, error) {
	f, err := New(spec)
	if err != nil {
		return "", err
	}
	return f(x), nil
}

func knownType(t byte) bool {
	return t != 0 && strings.IndexByte("%bcdefgoprsxX", t) >= 0
}

// Formatter builds the formatter described by s.
func (s Specifier) Formatter() Formatter {
	fill, align, sign, zero := s.Fill, s.Align, s.Sign, s.Zero
	width, comma, precision, trim, typ := s.Width, s.Comma, s.Precision, s.Trim, s.Type

	switch {
	case typ == 'n':
		comma, typ = true, 'g'
	case !knownType(typ):
		if precision < 0 {
			precision = 12
		}
		trim, typ = true, 'g'
	}
	if zero || (fill == "0" && align == '=') {
		zero, fill, align = true, "0", '='
	}

	var prefix, suffix string
	switch {
	case s.Symbol == '$':
		prefix = "$"
	case s.Symbol == '#' && strings.IndexByte("boxX", typ) >= 0:
		prefix = "0" + strings.ToLower(string(typ))
	}
	if s.Symbol != '$' && (typ == '%' || typ == 'p') {
		suffix = "%"
	}
	maybeSuffix := strings.IndexByte("defgprs%", typ) >= 0

	switch {
	case precision < 0:
		precision = 6
	case strings.IndexByte("gprs", typ) >= 0:
		precision = max(1, min(21, precision))
	default:
		precision = max(0, min(20, precision))
	}

	return func(x float64) string {
		valuePrefix, valueSuffix := prefix, suffix
		var value string

		if typ == 'c' {
			valueSuffix = String(x) + valueSuffix
		} else {
			negative := x < 0 || (x == 0 && math.Signbit(x))
			siExp := 0
			if math.IsNaN(x) {
				value = "NaN"
			} else {
				value, siExp = formatType(typ, math.Abs(x), precision)
			}
			if trim {
				value = trimInsignificant(value)
			}
			if negative && sign != '+' {
				if f, err := strconv.ParseFloat(value, 64); err == nil && f == 0 {
					negative = false
				}
			}

			switch {
			case negative && sign == '(':
				valuePrefix = "(" + valuePrefix
			case negative:
				valuePrefix = minus + valuePrefix
			case sign != '-' && sign != '(':
				valuePrefix = string(sign) + valuePrefix
			}
			if typ == 's' {
				valueSuffix = siSymbol(siExp) + valueSuffix
			}
			if negative && sign == '(' {
				valueSuffix += ")"
			}

			if maybeSuffix {
				for i := 0; i < len(value); i++ {
					if c := value[i]; c < '0' || c > '9' {
						if c == '.' {
							valueSuffix = "." + value[i+1:] + valueSuffix
						} else {
							valueSuffix = value[i:] + valueSuffix
						}
						value = value[:i]
						break
					}
				}
			}
		}

		if comma && !zero {
			value = group(value, math.MaxInt)
		}

		length := utf8.RuneCountInString(valuePrefix) + len(value) + utf8.RuneCountInString(valueSuffix)
		pad := 0
		if width > length {
			pad = width - length
		}
		if comma && zero {
			limit := math.MaxInt
			if pad > 0 {
				limit = width - utf8.RuneCountInString(valueSuffix)
			}
			value = group(strings.Repeat(fill, pad)+value, limit)
			pad = 0
		}

		switch align {
		case '<':
			return valuePrefix + value + valueSuffix + strings.Repeat(fill, pad)
		case '=':
			return valuePrefix + strings.Repeat(fill, pad) + value + valueSuffix
		case '^':
			half := pad >> 1
			return strings.Repeat(fill, half) + valuePrefix + value + valueSuffix + strings.Repeat(fill, pad-half)
		}
		return strings.Repeat(fill, pad) + valuePrefix + value + valueSuffix
	}
}

// formatType renders a non-negative x. For the "s" type it also returns the
// SI exponent that was factored out.
func formatType(typ byte, x float64, p int) (string, int) {
	switch typ {
	case '%':
		return toFixed(x*100, p), 0
	case 'b':
		return formatBase(x, 2), 0
	case 'o':
		return formatBase(x, 8), 0
	case 'x':
		return formatBase(x, 16), 0
	case 'X':
		return strings.ToUpper(formatBase(x, 16)), 0
	case 'd':
		return toFixed(x, 0), 0
	case 'e':
		return toExponential(x, p), 0
	case 'f':
		return toFixed(x, p), 0
	case 'p':
		return formatRounded(x*100, p), 0
	case 'r':
		return formatRounded(x, p), 0
	case 's':
		return formatPrefixAuto(x, p)
	}
	return toPrecision(x, p), 0
}

func formatBase(x float64, base int) string {
	if s, ok := finite(x); !ok {
		return s
	}
	r := math.Round(x)
	if r < 1<<63 {
		return strconv.FormatInt(int64(r), base)
	}
	i, _ := big.NewFloat(r).Int(nil)
	return i.Text(base)
}

func formatRounded(x float64, p int) string {
	coef, exp, ok := decimalParts(x, p)
	if !ok {
		return String(x)
	}
	switch {
	case exp < 0:
		return "0." + strings.Repeat("0", -exp-1) + coef
	case len(coef) > exp+1:
		return coef[:exp+1] + "." + coef[exp+1:]
	}
	return coef + strings.Repeat("0", exp-len(coef)+1)
}

func formatPrefixAuto(x float64, p int) (string, int) {
	coef, exp, ok := decimalParts(x, p)
	if !ok {
		return String(x), 0
	}
	siExp := siExponent(exp)
	i := exp - siExp + 1
	n := len(coef)
	switch {
	case i == n:
		return coef, siExp
	case i > n:
		return coef + strings.Repeat("0", i-n), siExp
	case i > 0:
		return coef[:i] + "." + coef[i:], siExp
	}
	// Smaller than the smallest prefix.
	small, _, _ := decimalParts(x, max(0, p+i-1))
	return "0." + strings.Repeat("0", -i) + small, siExp
}

// trimInsignificant drops trailing fractional zeros, e.g. "1.20" to "1.2"
// and "1.0e+3" to "1e+3".
func trimInsignificant(s string) string {
	i0, i1 := -1, 0
out:
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			i0, i1 = i, i
		case c == '0':
			if i0 == 0 {
				i0 = i
			}
			i1 = i
		case c >= '1' && c <= '9':
			if i0 > 0 {
				i0 = 0
			}
		default:
			break out
		}
	}
	if i0 > 0 {
		return s[:i0] + s[i1+1:]
	}
	return s
}

// group inserts thousands separators into a run of digits, using at most
// width characters.
func group(value string, width int) string {
	var parts []string
	i, length, g := len(value), 0, 3
	for i > 0 && g > 0 {
		if length+g+1 > width {
			g = max(1, width-length)
		}
		parts = append(parts, value[max(0, i-g):i])
		i -= g
		length += g + 1
		if length > width {
			break
		}
		g = 3
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ",")
}

// NewPrefix returns a formatter that scales every value by the SI prefix
// appropriate for reference, then formats it in fixed-point notation with
// the remaining options of s.
func NewPrefix(s Specifier, reference float64) Formatter {
	s.Type = 'f'
	f := s.Formatter()
	e := siExponent(Exponent(reference))
	k := math.Pow10(-e)
	sym := siSymbol(e)
	return func(x float64) string {
		return f(k*x) + sym
	}
}
