package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Notation is a CSS color syntax a color can be written in.
type Notation int

const (
	NotationHex Notation = iota
	NotationRGB
	NotationHSL
	NotationOklch
	NotationOklab
	NotationLCH
	NotationLab
)

var notationNames = [...]string{
	NotationHex:   "hex",
	NotationRGB:   "rgb",
	NotationHSL:   "hsl",
	NotationOklch: "oklch",
	NotationOklab: "oklab",
	NotationLCH:   "lch",
	NotationLab:   "lab",
}

// Notations lists every notation in display order.
func Notations() []Notation {
	return []Notation{NotationHex, NotationRGB, NotationHSL, NotationOklch, NotationOklab, NotationLCH, NotationLab}
}

func (n Notation) String() string {
	if n < 0 || int(n) >= len(notationNames) {
		return fmt.Sprintf("Notation(%d)", int(n))
	}
	return notationNames[n]
}

// ParseNotation looks a notation up by name, e.g. "oklch".
func ParseNotation(name string) (Notation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range notationNames {
		if n == name {
			return Notation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown notation %q (valid: %s)", name, strings.Join(notationNames[:], ", "))
}

// Format writes o in the given notation. Notations backed by sRGB (hex, rgb,
// hsl) clip out-of-gamut channels; the others are exact.
func (o Oklch) Format(n Notation) string {
	switch n {
	case NotationHex:
		return o.Hex()
	case NotationRGB:
		return o.RGBString()
	case NotationHSL:
		return o.HSL()
	case NotationOklch:
		return o.CSS()
	case NotationOklab:
		return o.OklabString()
	case NotationLCH:
		return o.LCH()
	case NotationLab:
		return o.Lab()
	default:
		return o.CSS()
	}
}

// Hex returns the clipped sRGB hex form, e.g. "#a1b2c3".
func (o Oklch) Hex() string {
	return o.RGB().Hex()
}

// RGBString returns the clipped sRGB functional form, e.g. "rgb(161, 178, 195)".
func (o Oklch) RGBString() string {
	return o.RGB().RGB()
}

// HSL returns the clipped 8-bit sRGB color as hsl(), e.g. "hsl(210 20.69% 69.8%)".
func (o Oklch) HSL() string {
	h, s, l := o.RGB().Colorful().Hsl()
	return fmt.Sprintf("hsl(%s %s%% %s%%)",
		formatNumber(h, 2), formatNumber(s*100, 2), formatNumber(l*100, 2))
}

// CSS returns o as oklch(), e.g. "oklch(60% 0.1 250)".
func (o Oklch) CSS() string {
	return fmt.Sprintf("oklch(%s%% %s %s)",
		formatNumber(o.L*100, 2), formatNumber(o.C, 4), formatNumber(wrapHue(o.H), 2))
}

// String implements fmt.Stringer with the oklch() form.
func (o Oklch) String() string {
	return o.CSS()
}

// OklabString returns o as oklab(), e.g. "oklab(60% -0.0342 -0.094)".
func (o Oklch) OklabString() string {
	l, a, b := o.Oklab()
	return fmt.Sprintf("oklab(%s%% %s %s)",
		formatNumber(l*100, 2), formatNumber(a, 4), formatNumber(b, 4))
}

// Lab returns o as CIE lab() relative to D50.
func (o Oklch) Lab() string {
	l, a, b := o.labD50()
	return fmt.Sprintf("lab(%s%% %s %s)",
		formatNumber(l*100, 2), formatNumber(a*100, 2), formatNumber(b*100, 2))
}

// LCH returns o as CIE lch() relative to D50.
func (o Oklch) LCH() string {
	l, a, b := o.labD50()
	c := math.Hypot(a, b) * 100
	h := wrapHue(math.Atan2(b, a) * 180 / math.Pi)
	if formatNumber(c, 2) == "0" {
		// Hue is powerless for neutrals and a and b are only rounding noise.
		h = 0
	}
	return fmt.Sprintf("lch(%s%% %s %s)",
		formatNumber(l*100, 2), formatNumber(c, 2), formatNumber(h, 2))
}

// formatNumber prints v with at most prec decimals, trimming trailing zeros.
func formatNumber(v float64, prec int) string {
	text := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.Contains(text, ".") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}
	if text == "-0" {
		text = "0"
	}
	return text
}
