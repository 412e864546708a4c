package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Oklch is a color in the cylindrical form of Oklab.
// L is lightness [0, 1], C is chroma (>= 0, about 0.37 at most for sRGB), H is hue in degrees.
type Oklch struct {
	L, C, H float64
}

// FromColorfulOklch converts an sRGB color to Oklch.
func FromColorfulOklch(c colorful.Color) Oklch {
	l, chroma, hue := c.OkLch()
	return Oklch{L: l, C: chroma, H: hue}
}

// Colorful converts o to sRGB without clipping, so channels may fall outside [0, 1].
func (o Oklch) Colorful() colorful.Color {
	return colorful.OkLch(o.L, o.C, o.H)
}

// RGB converts o to 8-bit sRGB, clipping each channel to the displayable range.
func (o Oklch) RGB() Color {
	return FromColorful(o.Colorful())
}

// Oklab returns the rectangular Oklab coordinates of o.
func (o Oklch) Oklab() (l, a, b float64) {
	return colorful.OkLchToOkLab(o.L, o.C, o.H)
}

// WithLightness returns o with its lightness replaced, keeping chroma and hue.
func (o Oklch) WithLightness(l float64) Oklch {
	o.L = l
	return o
}

// Normalize wraps the hue into [0, 360).
func (o Oklch) Normalize() Oklch {
	o.H = wrapHue(o.H)
	return o
}

// FromOklab converts rectangular Oklab coordinates to Oklch.
func FromOklab(l, a, b float64) Oklch {
	l, c, h := colorful.OkLabToOkLch(l, a, b)
	return Oklch{L: l, C: c, H: h}
}

// labD50 returns CIE Lab relative to D50 in go-colorful's scale (L in [0, 1]).
func (o Oklch) labD50() (l, a, b float64) {
	x, y, z := colorful.OkLchToXyz(o.L, o.C, o.H)
	x, y, z = adapt(d65ToD50, x, y, z)
	return colorful.XyzToLabWhiteRef(x, y, z, whiteD50)
}

// fromLabD50 converts CIE Lab relative to D50 (go-colorful scale) to Oklch.
func fromLabD50(l, a, b float64) Oklch {
	x, y, z := colorful.LabToXyzWhiteRef(l, a, b, whiteD50)
	x, y, z = adapt(d50ToD65, x, y, z)
	l, c, h := colorful.XyzToOkLch(x, y, z)
	return Oklch{L: l, C: c, H: h}
}

// whiteD50 is the D50 white point CSS uses for lab() and lch(). It differs from
// colorful.D50 in the fourth decimal, enough to tint white.
var whiteD50 = [3]float64{0.3457 / 0.3585, 1.0, (1.0 - 0.3457 - 0.3585) / 0.3585}

// Bradford chromatic adaptation matrices from CSS Color 4.
var (
	d65ToD50 = [3][3]float64{
		{1.0479297925449969, 0.022946870601609652, -0.05019226628920524},
		{0.02962780877005599, 0.9904344267538799, -0.017073799063418826},
		{-0.009243040646204504, 0.015055191490298152, 0.7518742814281371},
	}
	d50ToD65 = [3][3]float64{
		{0.955473421488075, -0.02309845494876471, 0.06325924320057072},
		{-0.0283697093338637, 1.0099953980813041, 0.021041441191917323},
		{0.012314014864481998, -0.020507649298898964, 1.330365926242124},
	}
)

func adapt(m [3][3]float64, x, y, z float64) (float64, float64, float64) {
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}

// wrapHue maps any angle in degrees into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
