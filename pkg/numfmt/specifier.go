package numfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Specifier is a parsed format specifier. Width and Precision are -1 when
// absent; Type is 0 when absent.
type Specifier struct {
	Fill      string
	Align     byte
	Sign      byte
	Symbol    byte
	Zero      bool
	Width     int
	Comma     bool
	Precision int
	Trim      bool
	Type      byte
}

// InvalidSpecifierError is returned for specifiers that do not parse.
type InvalidSpecifierError string

func (e InvalidSpecifierError) Error() string {
	return "invalid format: " + string(e)
}

func isAlign(b byte) bool {
	return b == '<' || b == '>' || b == '=' || b == '^'
}

// ParseSpecifier parses spec.
func ParseSpecifier(spec string) (Specifier, error) {
	s := Specifier{Fill: " ", Align: '>', Sign: '-', Width: -1, Precision: -1}
	rest := spec

	if r, size := utf8.DecodeRuneInString(rest); size > 0 && size < len(rest) && isAlign(rest[size]) {
		s.Fill, s.Align = string(r), rest[size]
		rest = rest[size+1:]
	} else if len(rest) > 0 && isAlign(rest[0]) {
		s.Align = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && strings.IndexByte("+-( ", rest[0]) >= 0 {
		s.Sign = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && (rest[0] == '$' || rest[0] == '#') {
		s.Symbol = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '0' {
		s.Zero = true
		rest = rest[1:]
	}
	if n := leadingDigits(rest); n > 0 {
		s.Width, _ = strconv.Atoi(rest[:n])
		rest = rest[n:]
	}
	if len(rest) > 0 && rest[0] == ',' {
		s.Comma = true
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0] == '.' {
		n := leadingDigits(rest[1:])
		if n == 0 {
			return Specifier{}, InvalidSpecifierError(spec)
		}
		s.Precision, _ = strconv.Atoi(rest[1 : n+1])
		rest = rest[n+1:]
	}
	if len(rest) > 0 && rest[0] == '~' {
		s.Trim = true
		rest = rest[1:]
	}
	if len(rest) == 1 && (isLetter(rest[0]) || rest[0] == '%') {
		s.Type = rest[0]
		rest = rest[1:]
	}
	if rest != "" {
		return Specifier{}, InvalidSpecifierError(spec)
	}
	return s, nil
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// String reassembles the specifier.
func (s Specifier) String() string {
	var b strings.Builder
	b.WriteString(s.Fill)
	b.WriteByte(s.Align)
	b.WriteByte(s.Sign)
	if s.Symbol != 0 {
		b.WriteByte(s.Symbol)
	}
	if s.Zero {
		b.WriteByte('0')
	}
	if s.Width >= 0 {
		b.WriteString(strconv.Itoa(s.Width))
	}
	if s.Comma {
		b.WriteByte(',')
	}
	if s.Precision >= 0 {
		fmt.Fprintf(&b, ".%d", s.Precision)
	}
	if s.Trim {
		b.WriteByte('~')
	}
	if s.Type != 0 {
		b.WriteByte(s.Type)
	}
	return b.String()
}
