package scale

import (
	"math"

	"github.com/CTAG07/Vellum/pkg/numfmt"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// MaxTicks bounds the number of values a single tick request can produce.
const MaxTicks = 10000

// jsRound rounds half toward positive infinity.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}

func tickSpec(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = jsRound(start * inc)
		i2 = jsRound(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = jsRound(start / inc)
		i2 = jsRound(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// Ticks returns about count round values between start and stop, inclusive.
// Values are returned in the order of start and stop.
func Ticks(start, stop, count float64) []float64 {
	if !(count > 0) || math.IsNaN(start) || math.IsNaN(stop) {
		return []float64{}
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	var i1, i2, inc float64
	if reverse {
		i1, i2, inc = tickSpec(stop, start, count)
	} else {
		i1, i2, inc = tickSpec(start, stop, count)
	}
	if !(i2 >= i1) || math.IsInf(i2-i1, 0) {
		return []float64{}
	}
	n := min(int(i2-i1)+1, MaxTicks)
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		k := i1 + float64(i)
		if reverse {
			k = i2 - float64(i)
		}
		if inc < 0 {
			ticks[i] = k / -inc
		} else {
			ticks[i] = k * inc
		}
	}
	return ticks
}

// TickIncrement is like TickStep, but returns the negated inverse of the
// step when it is below one, so that it stays an integer.
func TickIncrement(start, stop, count float64) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

// TickStep returns the distance between adjacent values of Ticks.
func TickStep(start, stop, count float64) float64 {
	reverse := stop < start
	var inc float64
	if reverse {
		inc = TickIncrement(stop, start, count)
	} else {
		inc = TickIncrement(start, stop, count)
	}
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

// niceLinear extends the first and last domain values to round values.
func niceLinear(domain []float64, count float64) []float64 {
	d := append([]float64(nil), domain...)
	if len(d) == 0 {
		return d
	}
	i0, i1 := 0, len(d)-1
	start, stop := d[i0], d[i1]
	if stop < start {
		start, stop = stop, start
		i0, i1 = i1, i0
	}
	prestep := math.NaN()
	for iter := 0; iter < 10; iter++ {
		step := TickIncrement(start, stop, count)
		if step == prestep {
			d[i0], d[i1] = start, stop
			return d
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return domain
		}
		prestep = step
	}
	return domain
}

// linearTickFormat picks a number format suited to ticks between start and stop.
func linearTickFormat(start, stop, count float64, specifier string) (numfmt.Formatter, error) {
	step := TickStep(start, stop, count)
	if specifier == "" {
		specifier = ",f"
	}
	s, err := numfmt.ParseSpecifier(specifier)
	if err != nil {
		return nil, err
	}
	reference := math.Max(math.Abs(start), math.Abs(stop))
	switch s.Type {
	case 's':
		if s.Precision < 0 {
			s.Precision = numfmt.PrecisionPrefix(step, reference)
		}
		return numfmt.NewPrefix(s, reference), nil
	case 0, 'e', 'g', 'p', 'r':
		if s.Precision < 0 {
			s.Precision = numfmt.PrecisionRound(step, reference)
			if s.Type == 'e' {
				s.Precision--
			}
		}
	case 'f', '%':
		if s.Precision < 0 {
			s.Precision = numfmt.PrecisionFixed(step)
			if s.Type == '%' {
				s.Precision = max(0, s.Precision-2)
			}
		}
	}
	return s.Formatter(), nil
}

func floatTicks(v []float64) []any {
	out := make([]any, len(v))
	for i, x := range v {
		out[i] = x
	}
	return out
}
