package axis

import (
	"strings"
	"unicode/utf8"
)

const reservedURI = ";/?:@&=+$,#"

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func escapedByte(s string, i int) (byte, bool) {
	if i+2 >= len(s) || s[i] != '%' {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

// escapedRune decodes the UTF-8 sequence of percent escapes starting at i.
// It returns the number of input bytes consumed, or 0 if there is no valid
// sequence at i.
func escapedRune(s string, i int) (string, int) {
	b, ok := escapedByte(s, i)
	if !ok {
		return "", 0
	}
	if b < utf8.RuneSelf {
		if strings.IndexByte(reservedURI, b) >= 0 {
			return s[i : i+3], 3
		}
		return string(rune(b)), 3
	}
	n := 0
	switch {
	case b&0xe0 == 0xc0:
		n = 2
	case b&0xf0 == 0xe0:
		n = 3
	case b&0xf8 == 0xf0:
		n = 4
	default:
		return "", 0
	}
	buf := []byte{b}
	for j := 1; j < n; j++ {
		c, ok := escapedByte(s, i+3*j)
		if !ok || c&0xc0 != 0x80 {
			return "", 0
		}
		buf = append(buf, c)
	}
	if r, size := utf8.DecodeRune(buf); r == utf8.RuneError || size != n {
		return "", 0
	}
	return string(buf), 3 * n
}

// DecodeURI replaces percent escapes with the characters they encode.
// Escapes of URI delimiters such as "%2F" are kept, and a "%" that does
// not start a valid escape is copied through unchanged.
func DecodeURI(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' {
			if dec, n := escapedRune(s, i); n > 0 {
				sb.WriteString(dec)
				i += n
				continue
			}
		}
		sb.WriteByte(s[i])
		i++
	}
	return sb.String()
}
