// Package picker holds the state behind an Oklch color picker: the three
// control values, the color they resolve to and the slider tracks drawn
// from them.
package picker

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("oklchpick.picker")

const (
	DefaultLightness   = 0.6
	DefaultChromaRatio = 0.8
	DefaultHue         = 180.0

	// MaxInputLength is the number of characters a control value keeps when
	// written out in decimal. Longer values are cut, not rounded.
	MaxInputLength = 6

	// DefaultTrackSteps is the number of samples in a slider track.
	DefaultTrackSteps = 360

	// achromaticChroma is the chroma below which a parsed hue is noise. sRGB
	// neutrals convert with chroma up to about 1.3e-4.
	achromaticChroma = 5e-4
)

// Channel identifies one of the three picker controls.
type Channel int

const (
	Lightness Channel = iota
	ChromaRatio
	Hue
)

var channelNames = [...]string{
	Lightness:   "lightness",
	ChromaRatio: "chroma",
	Hue:         "hue",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel looks a channel up by name. "chroma_ratio" and "ratio" are
// accepted for ChromaRatio.
func ParseChannel(name string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lightness", "l":
		return Lightness, nil
	case "chroma", "chroma_ratio", "ratio", "c":
		return ChromaRatio, nil
	case "hue", "h":
		return Hue, nil
	}
	return 0, fmt.Errorf("unknown channel %q (valid: lightness, chroma, hue)", name)
}

// maxValue is the upper bound of a channel's control value.
func (c Channel) maxValue() float64 {
	if c == Hue {
		return 360
	}
	return 1
}

// Output is one line of the picker's CSS output list.
type Output struct {
	Notation color.Notation
	Text     string
}

// State is the picker's control values. Lightness is the eased control value,
// not Oklch lightness. It is safe for concurrent use.
type State struct {
	mu        sync.RWMutex
	resolver  *color.Resolver
	lightness float64
	ratio     float64
	hue       float64
}

// Option configures a State.
type Option func(*State)

// WithResolver makes the state resolve colors with r instead of the default resolver.
func WithResolver(r *color.Resolver) Option {
	return func(s *State) {
		s.resolver = r
	}
}

// New returns a picker at the default control values.
func New(opts ...Option) *State {
	s := &State{
		resolver:  color.DefaultResolver(),
		lightness: DefaultLightness,
		ratio:     DefaultChromaRatio,
		hue:       DefaultHue,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Values returns the lightness control value, chroma ratio and hue.
func (s *State) Values() (lightness, ratio, hue float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightness, s.ratio, s.hue
}

// Value returns the control value of one channel.
func (s *State) Value(c Channel) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value(c)
}

func (s *State) value(c Channel) float64 {
	switch c {
	case Lightness:
		return s.lightness
	case ChromaRatio:
		return s.ratio
	default:
		return s.hue
	}
}

// SetLightness sets the lightness control value. NaN is ignored.
func (s *State) SetLightness(v float64) {
	s.Set(Lightness, v)
}

// SetChromaRatio sets the chroma ratio. NaN is ignored.
func (s *State) SetChromaRatio(v float64) {
	s.Set(ChromaRatio, v)
}

// SetHue sets the hue in degrees. NaN is ignored.
func (s *State) SetHue(v float64) {
	s.Set(Hue, v)
}

// Set stores v on channel c after truncating it to MaxInputLength characters
// and clamping it to the channel's range. NaN leaves the state unchanged.
func (s *State) Set(c Channel, v float64) {
	if math.IsNaN(v) {
		return
	}
	v = clamp(truncate(v), 0, c.maxValue())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(c, v)
}

func (s *State) set(c Channel, v float64) {
	switch c {
	case Lightness:
		s.lightness = v
	case ChromaRatio:
		s.ratio = v
	default:
		s.hue = v
	}
}

// SetFromTrack sets a channel from a position along its slider, where fraction
// 0 is the left end and 1 the right end.
func (s *State) SetFromTrack(c Channel, fraction float64) {
	s.Set(c, c.maxValue()*fraction)
}

// Marker returns the position of a channel's slider marker in [0, 1].
func (s *State) Marker(c Channel) float64 {
	return s.Value(c) / c.maxValue()
}

// Color resolves the current control values to an Oklch color.
func (s *State) Color() color.Oklch {
	l, ratio, h := s.Values()
	return s.resolver.FromChromaRatio(color.Ease(l), ratio, h)
}

// Outputs returns the current color in every notation, in display order.
func (s *State) Outputs() []Output {
	c := s.Color()
	notations := color.Notations()
	out := make([]Output, len(notations))
	for i, n := range notations {
		out[i] = Output{Notation: n, Text: c.Format(n)}
	}
	return out
}

// Current returns the current color as an hsl() string for tinting previews.
func (s *State) Current() string {
	return s.Color().HSL()
}

// Track samples the color along one channel's slider while the other two
// channels keep their values. Each sample is an hsl() string. A steps value
// below 1 uses DefaultTrackSteps.
func (s *State) Track(c Channel, steps int) []string {
	if steps < 1 {
		steps = DefaultTrackSteps
	}
	l, ratio, h := s.Values()
	eased := color.Ease(l)

	samples := make([]string, steps)
	for i := range samples {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		var o color.Oklch
		switch c {
		case Lightness:
			o = s.resolver.FromChromaRatio(color.Ease(t), ratio, h)
		case ChromaRatio:
			o = s.resolver.FromChromaRatio(eased, t, h)
		default:
			o = s.resolver.FromChromaRatio(eased, ratio, 360*t)
		}
		samples[i] = o.HSL()
	}
	return samples
}

// ApplyCSS moves the picker to the color written in text. It reports false and
// leaves the state unchanged when text is not a valid color. The hue is kept
// for neutral colors, whose parsed hue carries no information.
func (s *State) ApplyCSS(text string) bool {
	o, err := color.Parse(text)
	if err != nil {
		log.Debugf("ignoring css input: %s", err)
		return false
	}

	ratio := s.resolver.ChromaRatio(o)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(Lightness, clamp(truncate(color.Unease(clamp(o.L, 0, 1))), 0, 1))
	s.set(ChromaRatio, clamp(truncate(ratio), 0, 1))
	if o.C >= achromaticChroma {
		s.set(Hue, clamp(truncate(o.H), 0, 360))
	}
	return true
}

// truncate cuts the decimal form of v to MaxInputLength characters.
func truncate(v float64) float64 {
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if len(text) <= MaxInputLength {
		return v
	}
	cut, err := strconv.ParseFloat(text[:MaxInputLength], 64)
	if err != nil {
		return v
	}
	return cut
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
