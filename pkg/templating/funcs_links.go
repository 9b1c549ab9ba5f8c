package templating

import (
	"strings"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/mailgun/raymond/v2"
)

const upperhex = "0123456789ABCDEF"

// launchURL marks an element as a link the host opens when activated.
func launchURL(url any, _ *raymond.Options) string {
	return `data-launch-url=true data-url="` + encodeURIComponent(convert.String(url)) + `"`
}

// encodeURIComponent percent-encodes every byte of s except letters, digits
// and the marks - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
