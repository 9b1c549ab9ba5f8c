package numfmt

import "math"

// PrecisionFixed returns the number of fraction digits a fixed-point format
// needs to distinguish values that are step apart.
func PrecisionFixed(step float64) int {
	return max(0, -Exponent(math.Abs(step)))
}

// PrecisionRound returns the significant digits a rounded format needs to
// distinguish values that are step apart, given the largest magnitude maxValue.
func PrecisionRound(step, maxValue float64) int {
	step = math.Abs(step)
	maxValue = math.Abs(maxValue) - step
	return max(0, Exponent(maxValue)-Exponent(step)) + 1
}

// PrecisionPrefix returns the fraction digits an SI-prefix format needs to
// distinguish values that are step apart, for values around reference.
func PrecisionPrefix(step, reference float64) int {
	return max(0, siExponent(Exponent(reference))-Exponent(math.Abs(step)))
}
