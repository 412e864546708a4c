package color

import "math"

// lightnessExponent brings Oklch lightness closer to the HSL lightness scale
// users expect from a slider.
const lightnessExponent = 0.74

// Ease maps a lightness control value in [0, 1] to Oklch lightness.
func Ease(x float64) float64 {
	return math.Pow(x, lightnessExponent)
}

// Unease maps Oklch lightness back to a control value. It inverts Ease on [0, 1].
func Unease(x float64) float64 {
	return math.Pow(x, 1/lightnessExponent)
}
