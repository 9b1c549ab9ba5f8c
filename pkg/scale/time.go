package scale

import (
	"math"
	"strings"
	"time"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/CTAG07/Vellum/pkg/timefmt"
)

type unit int

const (
	millisecond unit = iota
	second
	minute
	hour
	day
	week
	month
	year
)

var unitNames = map[string]unit{
	"millisecond": millisecond,
	"second":      second,
	"minute":      minute,
	"hour":        hour,
	"day":         day,
	"week":        week,
	"sunday":      week,
	"month":       month,
	"year":        year,
}

const (
	durationSecond = 1000.0
	durationMinute = durationSecond * 60
	durationHour   = durationMinute * 60
	durationDay    = durationHour * 24
	durationWeek   = durationDay * 7
	durationMonth  = durationDay * 30
	durationYear   = durationDay * 365
)

var tickIntervals = []struct {
	unit     unit
	step     int
	duration float64
}{
	{second, 1, durationSecond},
	{second, 5, 5 * durationSecond},
	{second, 15, 15 * durationSecond},
	{second, 30, 30 * durationSecond},
	{minute, 1, durationMinute},
	{minute, 5, 5 * durationMinute},
	{minute, 15, 15 * durationMinute},
	{minute, 30, 30 * durationMinute},
	{hour, 1, durationHour},
	{hour, 3, 3 * durationHour},
	{hour, 6, 6 * durationHour},
	{hour, 12, 12 * durationHour},
	{day, 1, durationDay},
	{day, 2, 2 * durationDay},
	{week, 1, durationWeek},
	{month, 1, durationMonth},
	{month, 3, 3 * durationMonth},
	{year, 1, durationYear},
}

// interval is a calendar interval in a time zone, optionally thinned to
// every step-th boundary.
type interval struct {
	unit unit
	step int
	loc  *time.Location
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (iv interval) baseFloor(t time.Time) time.Time {
	t = t.In(iv.loc)
	y, m, d := t.Date()
	switch iv.unit {
	case millisecond:
		k := int64(max(1, iv.step))
		return time.UnixMilli(floorDiv(t.UnixMilli(), k) * k).In(iv.loc)
	case second:
		return time.UnixMilli(floorDiv(t.UnixMilli(), 1000) * 1000).In(iv.loc)
	case minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, iv.loc)
	case hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, iv.loc)
	case day:
		return time.Date(y, m, d, 0, 0, 0, 0, iv.loc)
	case week:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, iv.loc)
	case month:
		return time.Date(y, m, 1, 0, 0, 0, 0, iv.loc)
	}
	if iv.step > 1 {
		y = int(floorDiv(int64(y), int64(iv.step)) * int64(iv.step))
	}
	return time.Date(y, time.January, 1, 0, 0, 0, 0, iv.loc)
}

func (iv interval) baseOffset(t time.Time, n int) time.Time {
	switch iv.unit {
	case millisecond:
		return t.Add(time.Duration(n*max(1, iv.step)) * time.Millisecond)
	case second:
		return t.Add(time.Duration(n) * time.Second)
	case minute:
		return t.Add(time.Duration(n) * time.Minute)
	case hour:
		return t.Add(time.Duration(n) * time.Hour)
	case day:
		return t.AddDate(0, 0, n)
	case week:
		return t.AddDate(0, 0, 7*n)
	case month:
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(n*max(1, iv.step), 0, 0)
}

// test reports whether t is one of the kept boundaries of a thinned interval.
func (iv interval) test(t time.Time) bool {
	if iv.step <= 1 {
		return true
	}
	t = t.In(iv.loc)
	var field int
	switch iv.unit {
	case second:
		field = t.Second()
	case minute:
		field = t.Minute()
	case hour:
		field = t.Hour()
	case day:
		field = t.Day() - 1
	case month:
		field = int(t.Month()) - 1
	default:
		return true
	}
	return field%iv.step == 0
}

func (iv interval) floor(t time.Time) time.Time {
	f := iv.baseFloor(t)
	for i := 0; !iv.test(f) && i < 1000; i++ {
		f = iv.baseFloor(f.Add(-time.Millisecond))
	}
	return f
}

func (iv interval) next(t time.Time) time.Time {
	t = iv.baseOffset(t, 1)
	for i := 0; !iv.test(t) && i < 1000; i++ {
		t = iv.baseOffset(t, 1)
	}
	return t
}

func (iv interval) ceil(t time.Time) time.Time {
	return iv.floor(iv.next(iv.floor(t.Add(-time.Millisecond))))
}

// between returns the boundaries in [start, stop).
func (iv interval) between(start, stop time.Time) []time.Time {
	var out []time.Time
	for t := iv.ceil(start); t.Before(stop) && len(out) < MaxTicks; {
		out = append(out, t)
		n := iv.floor(iv.next(t))
		if !n.After(t) {
			break
		}
		t = n
	}
	return out
}

func every(u unit, step float64, loc *time.Location) *interval {
	k := math.Floor(step)
	if math.IsInf(k, 0) || !(k > 0) {
		return nil
	}
	return &interval{unit: u, step: int(k), loc: loc}
}

func (s *continuous) tickInterval(start, stop, count float64) *interval {
	target := math.Abs(stop-start) / count
	i := 0
	for i < len(tickIntervals) && tickIntervals[i].duration <= target {
		i++
	}
	switch i {
	case len(tickIntervals):
		return every(year, TickStep(start/durationYear, stop/durationYear, count), s.loc)
	case 0:
		return every(millisecond, math.Max(TickStep(start, stop, count), 1), s.loc)
	}
	pick := tickIntervals[i]
	if target/tickIntervals[i-1].duration < tickIntervals[i].duration/target {
		pick = tickIntervals[i-1]
	}
	return every(pick.unit, float64(pick.step), s.loc)
}

// intervalArg reads either a named interval with an optional step or a tick count.
func (s *continuous) intervalArg(args []any, start, stop float64) *interval {
	if name, ok := args0String(args); ok {
		u, ok := unitNames[strings.ToLower(name)]
		if !ok {
			return nil
		}
		step := 1.0
		if v, ok := arg(args, 1); ok {
			step = convert.Float(v)
		}
		return every(u, step, s.loc)
	}
	return s.tickInterval(start, stop, countArg(args, 0))
}

func args0String(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	str, ok := args[0].(string)
	return str, ok
}

func (s *continuous) timeTicks(args []any) []any {
	if len(s.domain) == 0 {
		return []any{}
	}
	start, stop := s.domain[0], s.domain[len(s.domain)-1]
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	iv := s.intervalArg(args, start, stop)
	if iv == nil {
		return []any{}
	}
	ticks := iv.between(time.UnixMilli(int64(start)), time.UnixMilli(int64(stop)+1))
	out := make([]any, len(ticks))
	for i, t := range ticks {
		if reverse {
			out[len(ticks)-1-i] = t
		} else {
			out[i] = t
		}
	}
	return out
}

func (s *continuous) timeNice(args []any) {
	if len(s.domain) == 0 {
		return
	}
	d := append([]float64(nil), s.domain...)
	i0, i1 := 0, len(d)-1
	if d[i1] < d[i0] {
		i0, i1 = i1, i0
	}
	var iv *interval
	if _, ok := args0String(args); ok {
		iv = s.intervalArg(args, d[i0], d[i1])
	} else {
		iv = s.tickInterval(d[i0], d[i1], countArg(args, 0))
	}
	if iv == nil {
		return
	}
	d[i0] = float64(iv.floor(time.UnixMilli(int64(d[i0]))).UnixMilli())
	d[i1] = float64(iv.ceil(time.UnixMilli(int64(d[i1]))).UnixMilli())
	s.domain = d
}

var multiFormats = []string{".%L", ":%S", "%I:%M", "%I %p", "%a %d", "%b %d", "%B", "%Y"}

func (s *continuous) timeTickFormat(args []any) func(any) string {
	if spec := stringArg(args, 1); spec != "" {
		f := timefmt.New(spec, false, s.loc)
		return func(v any) string {
			t, ok := convert.Time(v)
			if !ok {
				return ""
			}
			return f.Format(t)
		}
	}
	formatters := make([]*timefmt.Formatter, len(multiFormats))
	for i, p := range multiFormats {
		formatters[i] = timefmt.New(p, false, s.loc)
	}
	return func(v any) string {
		t, ok := convert.Time(v)
		if !ok {
			return ""
		}
		return formatters[s.multiFormatIndex(t)].Format(t)
	}
}

// multiFormatIndex picks the coarsest format that still distinguishes t
// from the boundary it falls on.
func (s *continuous) multiFormatIndex(t time.Time) int {
	floor := func(u unit) time.Time {
		return interval{unit: u, step: 1, loc: s.loc}.floor(t)
	}
	switch {
	case floor(second).Before(t):
		return 0
	case floor(minute).Before(t):
		return 1
	case floor(hour).Before(t):
		return 2
	case floor(day).Before(t):
		return 3
	case floor(month).Before(t):
		if floor(week).Before(t) {
			return 4
		}
		return 5
	case floor(year).Before(t):
		return 6
	}
	return 7
}
