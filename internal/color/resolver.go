package color

import (
	"math"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("oklchpick.color")

// Resolver maps chroma ratios onto absolute chroma for a target gamut,
// memoizing the gamut search per (lightness, hue, delta).
type Resolver struct {
	gamut Gamut
	delta float64
	cache *ChromaCache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDelta sets the search tolerance. Values that are not positive are ignored.
func WithDelta(delta float64) Option {
	return func(r *Resolver) {
		if delta > 0 {
			r.delta = delta
		}
	}
}

// WithCacheSize bounds the number of memoized search results.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		r.cache = NewChromaCache(size)
	}
}

// WithGamut sets the target gamut.
func WithGamut(g Gamut) Option {
	return func(r *Resolver) {
		r.gamut = g
	}
}

// NewResolver returns a Resolver for sRGB with DefaultDelta and a cache of
// DefaultCacheSize entries, adjusted by opts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		gamut: SRGB,
		delta: DefaultDelta,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewChromaCache(DefaultCacheSize)
	}
	return r
}

// Delta returns the search tolerance used by MaxChroma.
func (r *Resolver) Delta() float64 {
	return r.delta
}

// Gamut returns the target gamut.
func (r *Resolver) Gamut() Gamut {
	return r.gamut
}

// Stats reports cache usage.
func (r *Resolver) Stats() CacheStats {
	return r.cache.Stats()
}

// MaxChroma returns the largest in-gamut chroma at lightness and hue using the
// resolver's delta.
func (r *Resolver) MaxChroma(lightness, hue float64) float64 {
	return r.MaxChromaDelta(lightness, hue, r.delta)
}

// MaxChromaDelta is MaxChroma with an explicit tolerance. Results are cached
// per (lightness, hue, delta) as given, before clamping or hue wrapping; a
// repeated query never searches again while the entry is resident. NaN
// lightness or hue gives 0 and is never cached.
func (r *Resolver) MaxChromaDelta(lightness, hue, delta float64) float64 {
	if math.IsNaN(lightness) || math.IsNaN(hue) {
		return 0
	}
	if !(delta > 0) {
		delta = DefaultDelta
	}
	k := chromaKey{L: lightness, H: hue, Delta: delta}
	if v, ok := r.cache.get(k); ok {
		return v
	}
	v := r.gamut.MaxChroma(lightness, hue, delta)
	r.cache.put(k, v)
	log.Debugf("max chroma for l=%g h=%g delta=%g in %s: %g", lightness, hue, delta, r.gamut.Name, v)
	return v
}

// FromChromaRatio returns the color with the given lightness and hue whose
// chroma is ratio times the maximum in-gamut chroma. The ratio is not clamped:
// values above 1 give out-of-gamut colors, which conversions clip.
func (r *Resolver) FromChromaRatio(lightness, ratio, hue float64) Oklch {
	maxChroma := r.MaxChroma(lightness, hue)
	return Oklch{L: lightness, C: maxChroma * ratio, H: hue}
}

// ChromaRatio returns o's chroma relative to the maximum in-gamut chroma at its
// lightness and hue. It is 0 when no chroma fits, e.g. at pure black or white.
func (r *Resolver) ChromaRatio(o Oklch) float64 {
	maxChroma := r.MaxChroma(o.L, o.H)
	if maxChroma == 0 || math.IsNaN(o.C) {
		return 0
	}
	return o.C / maxChroma
}

// Brighten raises o's lightness by amount, clamped to [0, 1], keeping its
// chroma ratio so the result stays as colorful relative to what the gamut allows.
func (r *Resolver) Brighten(o Oklch, amount float64) Oklch {
	return r.shiftLightness(o, amount)
}

// Darken lowers o's lightness by amount. See Brighten.
func (r *Resolver) Darken(o Oklch, amount float64) Oklch {
	return r.shiftLightness(o, -amount)
}

func (r *Resolver) shiftLightness(o Oklch, amount float64) Oklch {
	ratio := r.ChromaRatio(o)
	o = o.WithLightness(clamp01(o.L + amount))
	return r.FromChromaRatio(o.L, ratio, o.H)
}

var defaultResolver = NewResolver()

// DefaultResolver returns the shared resolver used by the package-level helpers.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// MaxChromaInGamut returns the cached maximum sRGB chroma at lightness and hue
// for the given tolerance, using the default resolver.
func MaxChromaInGamut(lightness, hue, delta float64) float64 {
	return defaultResolver.MaxChromaDelta(lightness, hue, delta)
}

// FromChromaRatio resolves a color with the default resolver.
func FromChromaRatio(lightness, ratio, hue float64) Oklch {
	return defaultResolver.FromChromaRatio(lightness, ratio, hue)
}
