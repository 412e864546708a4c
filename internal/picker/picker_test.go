package picker

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/oklchpicker/internal/color"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	l, ratio, h := s.Values()
	if l != DefaultLightness || ratio != DefaultChromaRatio || h != DefaultHue {
		t.Errorf("Values() = (%v, %v, %v), want (%v, %v, %v)",
			l, ratio, h, DefaultLightness, DefaultChromaRatio, DefaultHue)
	}
}

func TestSetters(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		input   float64
		want    float64
	}{
		{"lightness", Lightness, 0.25, 0.25},
		{"lightness clamps high", Lightness, 1.5, 1},
		{"lightness clamps low", Lightness, -0.5, 0},
		{"lightness truncates", Lightness, 0.123456789, 0.1234},
		{"ratio", ChromaRatio, 0.5, 0.5},
		{"ratio clamps", ChromaRatio, 2, 1},
		{"ratio truncates", ChromaRatio, 0.987654, 0.9876},
		{"hue", Hue, 250, 250},
		{"hue clamps high", Hue, 400, 360},
		{"hue clamps low", Hue, -10, 0},
		{"hue truncates", Hue, 123.456789, 123.45},
		{"hue truncates before clamping", Hue, 1234567, 360},
		{"infinity clamps", Hue, math.Inf(1), 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Set(tt.channel, tt.input)
			if got := s.Value(tt.channel); got != tt.want {
				t.Errorf("Set(%v, %v) stored %v, want %v", tt.channel, tt.input, got, tt.want)
			}
		})
	}
}

func TestSettersIgnoreNaN(t *testing.T) {
	s := New()
	s.SetLightness(math.NaN())
	s.SetChromaRatio(math.NaN())
	s.SetHue(math.NaN())

	l, ratio, h := s.Values()
	if l != DefaultLightness || ratio != DefaultChromaRatio || h != DefaultHue {
		t.Errorf("Values() after NaN = (%v, %v, %v), want defaults", l, ratio, h)
	}
}

func TestNamedSetters(t *testing.T) {
	s := New()
	s.SetLightness(0.3)
	s.SetChromaRatio(0.4)
	s.SetHue(90)

	l, ratio, h := s.Values()
	if l != 0.3 || ratio != 0.4 || h != 90 {
		t.Errorf("Values() = (%v, %v, %v), want (0.3, 0.4, 90)", l, ratio, h)
	}
}

func TestColorUsesEasedLightness(t *testing.T) {
	r := color.NewResolver()
	s := New(WithResolver(r))
	s.SetLightness(0.5)
	s.SetChromaRatio(0.5)
	s.SetHue(120)

	got := s.Color()
	want := r.FromChromaRatio(color.Ease(0.5), 0.5, 120)
	if got != want {
		t.Errorf("Color() = %v, want %v", got, want)
	}
	if !color.InGamut(got) {
		t.Errorf("Color() = %v is out of gamut", got)
	}
}

func TestSetFromTrackAndMarker(t *testing.T) {
	tests := []struct {
		channel  Channel
		fraction float64
		want     float64
	}{
		{Lightness, 0.25, 0.25},
		{ChromaRatio, 0.75, 0.75},
		{Hue, 0.5, 180},
		{Hue, 1.2, 360},
		{Hue, -0.1, 0},
	}

	for _, tt := range tests {
		s := New()
		s.SetFromTrack(tt.channel, tt.fraction)
		if got := s.Value(tt.channel); got != tt.want {
			t.Errorf("SetFromTrack(%v, %v) stored %v, want %v", tt.channel, tt.fraction, got, tt.want)
		}
		if got, want := s.Marker(tt.channel), tt.want/tt.channel.maxValue(); got != want {
			t.Errorf("Marker(%v) = %v, want %v", tt.channel, got, want)
		}
	}
}

func TestOutputs(t *testing.T) {
	s := New()
	outputs := s.Outputs()

	var got []string
	for _, o := range outputs {
		got = append(got, o.Notation.String())
	}
	want := []string{"hex", "rgb", "hsl", "oklch", "oklab", "lch", "lab"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Outputs() notations mismatch (-want +got):\n%s", diff)
	}

	for _, o := range outputs {
		if !strings.HasPrefix(o.Text, o.Notation.String()) && o.Notation != color.NotationHex {
			t.Errorf("output %v = %q, want %s() form", o.Notation, o.Text, o.Notation)
		}
		if !color.Valid(o.Text) {
			t.Errorf("output %v = %q does not parse", o.Notation, o.Text)
		}
	}

	if got, want := s.Current(), outputs[2].Text; got != want {
		t.Errorf("Current() = %q, want hsl output %q", got, want)
	}
}

func TestTrack(t *testing.T) {
	r := color.NewResolver()
	s := New(WithResolver(r))

	for _, c := range []Channel{Lightness, ChromaRatio, Hue} {
		t.Run(c.String(), func(t *testing.T) {
			samples := s.Track(c, 0)
			if len(samples) != DefaultTrackSteps {
				t.Fatalf("len(Track(%v, 0)) = %d, want %d", c, len(samples), DefaultTrackSteps)
			}
			for i, sample := range samples {
				if !strings.HasPrefix(sample, "hsl(") {
					t.Fatalf("sample %d = %q, want hsl()", i, sample)
				}
			}
		})
	}

	lightness := s.Track(Lightness, 3)
	if lightness[0] != "hsl(0 0% 0%)" {
		t.Errorf("lightness track starts at %q, want black", lightness[0])
	}

	// The hue track ends where it starts.
	hue := s.Track(Hue, 5)
	if hue[0] != hue[4] {
		t.Errorf("hue track ends %q, starts %q", hue[4], hue[0])
	}

	// The chroma track starts at the neutral of the current lightness.
	chroma := s.Track(ChromaRatio, 2)
	neutral := r.FromChromaRatio(color.Ease(DefaultLightness), 0, DefaultHue).HSL()
	if chroma[0] != neutral {
		t.Errorf("chroma track starts %q, want %q", chroma[0], neutral)
	}

	if single := s.Track(Hue, 1); len(single) != 1 {
		t.Errorf("len(Track(hue, 1)) = %d, want 1", len(single))
	}
}

func TestApplyCSS(t *testing.T) {
	s := New()
	if !s.ApplyCSS("oklch(60% 0.1 250)") {
		t.Fatal("ApplyCSS(valid) = false")
	}

	l, ratio, h := s.Values()
	if want := color.Unease(0.6); math.Abs(l-want) > 1e-4 {
		t.Errorf("lightness = %v, want %v", l, want)
	}
	if want := 0.1 / color.MaxChromaInGamut(0.6, 250, color.DefaultDelta); math.Abs(ratio-want) > 1e-4 {
		t.Errorf("ratio = %v, want %v", ratio, want)
	}
	if h != 250 {
		t.Errorf("hue = %v, want 250", h)
	}

	// Round trip: the resolved color is the one applied.
	got := s.Color()
	if math.Abs(got.L-0.6) > 1e-3 || math.Abs(got.C-0.1) > 2e-3 || math.Abs(got.H-250) > 1e-3 {
		t.Errorf("Color() after ApplyCSS = %v, want about oklch(60%% 0.1 250)", got)
	}
}

func TestApplyCSSInvalidKeepsState(t *testing.T) {
	s := New()
	s.SetHue(42)
	before1, before2, before3 := s.Values()

	if s.ApplyCSS("not-a-color") {
		t.Fatal("ApplyCSS(invalid) = true")
	}

	l, ratio, h := s.Values()
	if l != before1 || ratio != before2 || h != before3 {
		t.Errorf("Values() changed after invalid input: (%v, %v, %v)", l, ratio, h)
	}
}

func TestApplyCSSNeutralKeepsHue(t *testing.T) {
	s := New()
	s.SetHue(42)
	if !s.ApplyCSS("#808080") {
		t.Fatal("ApplyCSS(gray) = false")
	}
	_, ratio, h := s.Values()
	if h != 42 {
		t.Errorf("hue = %v, want 42 kept", h)
	}
	if ratio > 0.01 {
		t.Errorf("ratio = %v, want about 0", ratio)
	}
}

func TestApplyCSSOutOfGamutClampsRatio(t *testing.T) {
	s := New()
	if !s.ApplyCSS("oklch(60% 0.3 180)") {
		t.Fatal("ApplyCSS = false")
	}
	if got := s.Value(ChromaRatio); got != 1 {
		t.Errorf("ratio = %v, want 1", got)
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input   string
		want    Channel
		wantErr bool
	}{
		{"lightness", Lightness, false},
		{"Chroma", ChromaRatio, false},
		{"chroma_ratio", ChromaRatio, false},
		{"h", Hue, false},
		{"alpha", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseChannel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChannel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0.1234567, 0.1234},
		{-0.123456, -0.123},
		{12345.67, 12345},
		{360, 360},
	}
	for _, tt := range tests {
		if got := truncate(tt.in); got != tt.want {
			t.Errorf("truncate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
