package color

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	white := Color{255, 255, 255}.Oklch()
	red := Color{255, 0, 0}.Oklch()

	tests := []struct {
		name  string
		input string
		want  Oklch
		tol   float64
	}{
		{"oklch percent lightness", "oklch(60% 0.1 250)", Oklch{0.6, 0.1, 250}, 0},
		{"oklch number lightness", "oklch(0.6 0.1 250)", Oklch{0.6, 0.1, 250}, 0},
		{"oklch percent chroma", "oklch(60% 25% 250)", Oklch{0.6, 0.1, 250}, 0},
		{"oklch with alpha", "oklch(60% 0.1 250 / 0.5)", Oklch{0.6, 0.1, 250}, 0},
		{"oklch hue units", "oklch(60% 0.1 0.5turn)", Oklch{0.6, 0.1, 180}, 0},
		{"oklch wraps hue", "oklch(60% 0.1 -110deg)", Oklch{0.6, 0.1, 250}, 0},
		{"oklch none", "oklch(60% none 250)", Oklch{0.6, 0, 250}, 0},
		{"oklch negative chroma clamps", "oklch(60% -0.1 250)", Oklch{0.6, 0, 250}, 0},
		{"uppercase and padding", "  OKLCH(60% 0.1 250)  ", Oklch{0.6, 0.1, 250}, 0},
		{"hex", "#ff0000", red, 0},
		{"short hex", "#f00", red, 0},
		{"hex with alpha", "#ff000080", red, 0},
		{"short hex with alpha", "#f008", red, 0},
		{"rgb legacy", "rgb(255, 0, 0)", red, 0},
		{"rgba legacy", "rgba(255, 0, 0, 0.5)", red, 0},
		{"rgb space", "rgb(255 0 0 / 50%)", red, 0},
		{"rgb percent", "rgb(100% 0% 0%)", red, 0},
		{"hsl", "hsl(0 100% 50%)", red, 0},
		{"hsl legacy", "hsla(0, 100%, 50%, 1)", red, 0},
		{"named", "red", red, 0},
		{"named white", "White", white, 0},
		{"lab white", "lab(100% 0 0)", white, 0},
		{"lab red", "lab(54.29 80.79 69.83)", red, 0.05},
		{"lch red", "lch(54.29% 106.78 40.84)", red, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if tt.want.C < 0.01 {
				// Hue is meaningless for neutrals.
				got.H, tt.want.H = 0, 0
			}
			tol := tt.tol
			if tol == 0 {
				tol = 1e-3
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, tol)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Oklab(t *testing.T) {
	tests := []struct {
		input string
		want  Oklch
		tol   float64
	}{
		{"oklab(60% 0 0)", Oklch{0.6, 0, 0}, 1e-3},
		// The serialized form rounds a and b, which moves the hue by a few thousandths.
		{Oklch{0.6, 0.1, 250}.OklabString(), Oklch{0.6, 0.1, 250}, 0.01},
		{"oklab(0.5 0 0.1)", Oklch{0.5, 0.1, 90}, 1e-3},
		{"oklab(50% 0% 25%)", Oklch{0.5, 0.1, 90}, 1e-3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, tt.tol)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"not-a-color",
		"",
		"   ",
		"#",
		"#12",
		"#12345",
		"#ggg",
		"oklch(60% 0.1)",
		"oklch(60% 0.1 250 40)",
		"oklch(60% 0.1 250",
		"oklch(60% abc 250)",
		"oklch(60% 0.1 250 / )",
		"oklch(60% 0.1 250 / 0.5 / 1)",
		"oklch(60%, 0.1, 250 / 1)",
		"oklch(nan 0.1 250)",
		"oklch(60% 0.1 infdeg)",
		"rgb(255, 0, , 0)",
		"rgb(1,2,3,)",
		"rgb(1, 2, 3, , )",
		"rgb(,1,2,3)",
		"rgb(1 2 3 4)",
		"hsl(0 100% 50% / x)",
		"cmyk(0 0 0 0)",
		"lab()",
		"oklch(60%% 0.1 250)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", input)
			}
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidColor", input, err)
			}
			if Valid(input) {
				t.Errorf("Valid(%q) = true, want false", input)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, input := range []string{"oklch(60% 0.1 250)", "#abc", "cornflowerblue", "lab(50% 20 -30)"} {
		if !Valid(input) {
			t.Errorf("Valid(%q) = false, want true", input)
		}
	}
}
