// Package timefmt formats times from strftime-style patterns.
package timefmt

import (
	"time"

	"github.com/ncruces/go-strftime"
)

// ISOPattern is the pattern ISO-8601 UTC timestamps with milliseconds are parsed with.
const ISOPattern = "%Y-%m-%dT%H:%M:%S.%LZ"

// Formatter renders times with one pattern, either in UTC or in a local zone.
type Formatter struct {
	pattern string
	layout  string // empty when the pattern has no Go layout equivalent
	loc     *time.Location
}

// New returns a formatter for pattern. When utc is false, times are rendered
// in loc (time.Local if loc is nil).
func New(pattern string, utc bool, loc *time.Location) *Formatter {
	f := &Formatter{pattern: pattern, loc: loc}
	if utc {
		f.loc = time.UTC
	} else if f.loc == nil {
		f.loc = time.Local
	}
	if layout, err := strftime.Layout(pattern); err == nil {
		f.layout = layout
	}
	return f
}

// Pattern returns the strftime pattern.
func (f *Formatter) Pattern() string { return f.pattern }

// Format renders t.
func (f *Formatter) Format(t time.Time) string {
	t = t.In(f.loc)
	if f.layout != "" {
		return t.Format(f.layout)
	}
	return strftime.Format(f.pattern, t)
}

// ParseISO parses an ISO-8601 UTC timestamp with milliseconds.
func ParseISO(s string) (time.Time, error) {
	t, err := strftime.Parse(ISOPattern, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
