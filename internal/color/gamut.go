package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultDelta is the convergence tolerance of the chroma search.
	DefaultDelta = 0.001

	// SRGBChromaCeiling is an upper bound for Oklch chroma of any sRGB color.
	// The largest sRGB chroma is a little above 0.321 (around oklch(69.9% 0.321 328.24)).
	// Wider gamuts such as Display-P3 need a larger ceiling.
	SRGBChromaCeiling = 0.322

	// gamutEpsilon absorbs float noise in the matrix round trip, e.g. white
	// converting to a channel value of 1.0000000000000002.
	gamutEpsilon = 1e-9

	// maxSearchSteps bounds the search when delta is below float resolution.
	maxSearchSteps = 64
)

// Gamut is a target color space: a chroma ceiling for the search and a
// containment test on the converted color.
type Gamut struct {
	Name     string
	Ceiling  float64
	contains func(Oklch) bool
}

// SRGB is the sRGB gamut.
var SRGB = Gamut{
	Name:     "srgb",
	Ceiling:  SRGBChromaCeiling,
	contains: inSRGB,
}

func inSRGB(o Oklch) bool {
	return channelsInRange(o.Colorful())
}

func channelsInRange(c colorful.Color) bool {
	return -gamutEpsilon <= c.R && c.R <= 1+gamutEpsilon &&
		-gamutEpsilon <= c.G && c.G <= 1+gamutEpsilon &&
		-gamutEpsilon <= c.B && c.B <= 1+gamutEpsilon
}

// Contains reports whether o lies inside the gamut.
func (g Gamut) Contains(o Oklch) bool {
	return g.contains(o)
}

// InGamut reports whether o is displayable in sRGB.
func InGamut(o Oklch) bool {
	return SRGB.Contains(o)
}

// MaxChroma binary searches the sRGB gamut for the largest chroma at the given
// lightness and hue. See Gamut.MaxChroma.
func MaxChroma(lightness, hue, delta float64) float64 {
	return SRGB.MaxChroma(lightness, hue, delta)
}

// MaxChroma binary searches chroma in [0, g.Ceiling] for the largest value that
// keeps (lightness, chroma, hue) inside g. The search stops once the interval is
// no wider than delta and returns its lower end, the last chroma confirmed to be
// in gamut, so the result underestimates the true boundary by at most delta.
//
// Lightness is clamped to [0, 1] and hue wrapped into [0, 360). NaN lightness or
// hue gives 0. A delta that is not positive falls back to DefaultDelta.
func (g Gamut) MaxChroma(lightness, hue, delta float64) float64 {
	if math.IsNaN(lightness) || math.IsNaN(hue) || math.IsInf(hue, 0) {
		return 0
	}
	if !(delta > 0) {
		delta = DefaultDelta
	}
	lightness = clamp01(lightness)
	hue = wrapHue(hue)

	lower, upper := 0.0, g.Ceiling
	for i := 0; upper-lower > delta && i < maxSearchSteps; i++ {
		chroma := lower + (upper-lower)/2
		if g.contains(Oklch{L: lightness, C: chroma, H: hue}) {
			lower = chroma
		} else {
			upper = chroma
		}
	}
	return lower
}
