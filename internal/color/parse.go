package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned (wrapped) for strings that are not a supported
// CSS color.
var ErrInvalidColor = errors.New("invalid color")

// Valid reports whether s parses as a supported CSS color.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse reads a CSS color and converts it to Oklch. Supported syntaxes are hex
// (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba(), hsl()/hsla(), oklch(),
// oklab(), lch(), lab() and named colors. Alpha is accepted and discarded.
func Parse(s string) (Oklch, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return Oklch{}, invalidf(s, "empty string")
	}

	if strings.HasPrefix(text, "#") {
		return parseHexColor(s, text[1:])
	}

	if open := strings.IndexByte(text, '('); open >= 0 {
		if !strings.HasSuffix(text, ")") {
			return Oklch{}, invalidf(s, "missing closing parenthesis")
		}
		name := strings.TrimSpace(text[:open])
		args, err := splitArgs(text[open+1 : len(text)-1])
		if err != nil {
			return Oklch{}, invalidf(s, "%v", err)
		}
		o, err := parseFunction(name, args)
		if err != nil {
			return Oklch{}, invalidf(s, "%v", err)
		}
		return o, nil
	}

	if c, ok := colornames.Map[text]; ok {
		return Color{R: c.R, G: c.G, B: c.B}.Oklch(), nil
	}
	return Oklch{}, invalidf(s, "not a recognized color syntax")
}

func invalidf(s, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidColor, s, fmt.Sprintf(format, args...))
}

func parseHexColor(s, digits string) (Oklch, error) {
	switch len(digits) {
	case 4:
		digits = digits[:3]
	case 8:
		digits = digits[:6]
	case 3, 6:
	default:
		return Oklch{}, invalidf(s, "hex colors have 3, 4, 6 or 8 digits")
	}
	c, err := ParseHex(digits)
	if err != nil {
		return Oklch{}, invalidf(s, "%v", err)
	}
	return c.Oklch(), nil
}

// splitArgs splits a function body into its three components, accepting the
// legacy comma syntax "1, 2, 3[, a]" and the space syntax "1 2 3[ / a]".
func splitArgs(body string) ([]string, error) {
	var args []string
	var alpha string

	if strings.Contains(body, ",") {
		if strings.Contains(body, "/") {
			return nil, fmt.Errorf("cannot mix commas and a slash")
		}
		for _, part := range strings.Split(body, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				return nil, fmt.Errorf("empty component")
			}
			args = append(args, part)
		}
		if len(args) == 4 {
			alpha = args[3]
			args = args[:3]
		}
	} else {
		main, rest, hasAlpha := strings.Cut(body, "/")
		args = strings.Fields(main)
		if hasAlpha {
			alpha = strings.TrimSpace(rest)
			if alpha == "" || strings.Contains(alpha, "/") || len(strings.Fields(alpha)) != 1 {
				return nil, fmt.Errorf("malformed alpha %q", rest)
			}
		}
	}

	if len(args) != 3 {
		return nil, fmt.Errorf("expected 3 components, got %d", len(args))
	}
	if alpha != "" {
		if _, err := percentOrNumber(alpha, 1); err != nil {
			return nil, fmt.Errorf("alpha: %w", err)
		}
	}
	return args, nil
}

func parseFunction(name string, args []string) (Oklch, error) {
	switch name {
	case "rgb", "rgba":
		var ch [3]float64
		for i, a := range args {
			v, err := percentOrNumber(a, 255)
			if err != nil {
				return Oklch{}, fmt.Errorf("rgb channel %d: %w", i+1, err)
			}
			ch[i] = clamp01(v / 255)
		}
		return FromColorfulOklch(colorful.Color{R: ch[0], G: ch[1], B: ch[2]}), nil

	case "hsl", "hsla":
		h, err := angle(args[0])
		if err != nil {
			return Oklch{}, fmt.Errorf("hue: %w", err)
		}
		s, err := percentOrNumber(args[1], 100)
		if err != nil {
			return Oklch{}, fmt.Errorf("saturation: %w", err)
		}
		l, err := percentOrNumber(args[2], 100)
		if err != nil {
			return Oklch{}, fmt.Errorf("lightness: %w", err)
		}
		c := colorful.Hsl(wrapHue(h), clamp01(s/100), clamp01(l/100))
		return FromColorfulOklch(c), nil

	case "oklch":
		l, err := percentOrNumber(args[0], 1)
		if err != nil {
			return Oklch{}, fmt.Errorf("lightness: %w", err)
		}
		c, err := percentOrNumber(args[1], 0.4)
		if err != nil {
			return Oklch{}, fmt.Errorf("chroma: %w", err)
		}
		h, err := angle(args[2])
		if err != nil {
			return Oklch{}, fmt.Errorf("hue: %w", err)
		}
		return Oklch{L: l, C: math.Max(c, 0), H: wrapHue(h)}, nil

	case "oklab":
		l, err := percentOrNumber(args[0], 1)
		if err != nil {
			return Oklch{}, fmt.Errorf("lightness: %w", err)
		}
		a, err := percentOrNumber(args[1], 0.4)
		if err != nil {
			return Oklch{}, fmt.Errorf("a: %w", err)
		}
		b, err := percentOrNumber(args[2], 0.4)
		if err != nil {
			return Oklch{}, fmt.Errorf("b: %w", err)
		}
		return FromOklab(l, a, b), nil

	case "lab":
		l, err := percentOrNumber(args[0], 100)
		if err != nil {
			return Oklch{}, fmt.Errorf("lightness: %w", err)
		}
		a, err := percentOrNumber(args[1], 125)
		if err != nil {
			return Oklch{}, fmt.Errorf("a: %w", err)
		}
		b, err := percentOrNumber(args[2], 125)
		if err != nil {
			return Oklch{}, fmt.Errorf("b: %w", err)
		}
		return fromLabD50(l/100, a/100, b/100), nil

	case "lch":
		l, err := percentOrNumber(args[0], 100)
		if err != nil {
			return Oklch{}, fmt.Errorf("lightness: %w", err)
		}
		c, err := percentOrNumber(args[1], 150)
		if err != nil {
			return Oklch{}, fmt.Errorf("chroma: %w", err)
		}
		h, err := angle(args[2])
		if err != nil {
			return Oklch{}, fmt.Errorf("hue: %w", err)
		}
		rad := h * math.Pi / 180
		c = math.Max(c, 0)
		return fromLabD50(l/100, c*math.Cos(rad)/100, c*math.Sin(rad)/100), nil

	default:
		return Oklch{}, fmt.Errorf("unsupported color function %q", name)
	}
}

// number parses a plain CSS number. The keyword none reads as 0.
func number(tok string) (float64, error) {
	if tok == "none" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", tok)
	}
	return v, nil
}

// percentOrNumber parses a number or a percentage, where 100% equals full.
func percentOrNumber(tok string, full float64) (float64, error) {
	if p, ok := strings.CutSuffix(tok, "%"); ok {
		v, err := number(p)
		if err != nil || p == "none" {
			return 0, fmt.Errorf("%q is not a percentage", tok)
		}
		return v / 100 * full, nil
	}
	return number(tok)
}

// angle parses a hue in degrees, accepting deg, grad, rad and turn units.
func angle(tok string) (float64, error) {
	units := []struct {
		suffix string
		scale  float64
	}{
		{"deg", 1},
		{"grad", 360.0 / 400.0},
		{"rad", 180.0 / math.Pi},
		{"turn", 360},
	}
	for _, u := range units {
		if v, ok := strings.CutSuffix(tok, u.suffix); ok {
			n, err := number(v)
			if err != nil || v == "none" {
				return 0, fmt.Errorf("%q is not an angle", tok)
			}
			return n * u.scale, nil
		}
	}
	return number(tok)
}
