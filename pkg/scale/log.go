package scale

import (
	"math"

	"github.com/CTAG07/Vellum/pkg/convert"
	"github.com/CTAG07/Vellum/pkg/numfmt"
)

// logPair returns the logarithm and exponentiation for the scale's base,
// reflected when the domain is negative.
func (s *continuous) logPair() (logs, pows func(float64) float64) {
	base := s.base
	switch base {
	case math.E:
		logs, pows = math.Log, math.Exp
	case 10:
		logs = math.Log10
		pows = func(x float64) float64 {
			if x == math.Trunc(x) && math.Abs(x) < 400 {
				return math.Pow10(int(x))
			}
			return math.Pow(10, x)
		}
	case 2:
		logs = math.Log2
		pows = func(x float64) float64 { return math.Pow(2, x) }
	default:
		lb := math.Log(base)
		logs = func(x float64) float64 { return math.Log(x) / lb }
		pows = func(x float64) float64 { return math.Pow(base, x) }
	}
	if len(s.domain) > 0 && s.domain[0] < 0 {
		l, p := logs, pows
		logs = func(x float64) float64 { return -l(-x) }
		pows = func(x float64) float64 { return -p(-x) }
	}
	return logs, pows
}

func (s *continuous) logTicks(count float64) []float64 {
	if len(s.domain) == 0 {
		return []float64{}
	}
	logs, pows := s.logPair()
	u, v := s.domain[0], s.domain[len(s.domain)-1]
	reverse := v < u
	if reverse {
		u, v = v, u
	}
	i, j := logs(u), logs(v)
	base := s.base
	var z []float64

	if base == math.Trunc(base) && base <= MaxTicks && j-i < count {
		i, j = math.Floor(i), math.Ceil(j)
		if u > 0 {
			for ; i <= j; i++ {
				for k := 1.0; k < base; k++ {
					var t float64
					if i < 0 {
						t = k / pows(-i)
					} else {
						t = k * pows(i)
					}
					if t < u {
						continue
					}
					if t > v {
						break
					}
					z = append(z, t)
				}
			}
		} else {
			for ; i <= j; i++ {
				for k := base - 1; k >= 1; k-- {
					var t float64
					if i > 0 {
						t = k / pows(-i)
					} else {
						t = k * pows(i)
					}
					if t < u {
						continue
					}
					if t > v {
						break
					}
					z = append(z, t)
				}
			}
		}
		if float64(len(z))*2 < count {
			z = Ticks(u, v, count)
		}
	} else {
		for _, t := range Ticks(i, j, math.Min(j-i, count)) {
			z = append(z, pows(t))
		}
	}
	if z == nil {
		z = []float64{}
	}
	if reverse {
		for a, b := 0, len(z)-1; a < b; a, b = a+1, b-1 {
			z[a], z[b] = z[b], z[a]
		}
	}
	return z
}

func (s *continuous) logTickFormat(args []any) (func(any) string, error) {
	count := countArg(args, 0)
	spec := stringArg(args, 1)
	if spec == "" {
		spec = ","
		if s.base == 10 {
			spec = "s"
		}
	}
	sp, err := numfmt.ParseSpecifier(spec)
	if err != nil {
		return nil, err
	}
	if s.base == math.Trunc(s.base) && sp.Precision < 0 {
		sp.Trim = true
	}
	f := sp.Formatter()
	if math.IsInf(count, 1) {
		return func(v any) string { return f(convert.Float(v)) }, nil
	}
	logs, pows := s.logPair()
	n := len(s.logTicks(10))
	k := 1.0
	if n > 0 {
		k = math.Max(1, s.base*count/float64(n))
	}
	return func(v any) string {
		d := convert.Float(v)
		i := d / pows(jsRound(logs(d)))
		if i*s.base < s.base-0.5 {
			i *= s.base
		}
		if i <= k {
			return f(d)
		}
		return ""
	}, nil
}

func (s *continuous) logNice() {
	if len(s.domain) == 0 {
		return
	}
	logs, pows := s.logPair()
	d := append([]float64(nil), s.domain...)
	i0, i1 := 0, len(d)-1
	if d[i1] < d[i0] {
		i0, i1 = i1, i0
	}
	d[i0] = pows(math.Floor(logs(d[i0])))
	d[i1] = pows(math.Ceil(logs(d[i1])))
	s.domain = d
}
