package color

import (
	"math"
	"sync"
	"testing"
)

func TestResolverFromChromaRatio_HalfOfMax(t *testing.T) {
	r := NewResolver()
	got := r.FromChromaRatio(0.8, 0.5, 120)
	want := r.MaxChroma(0.8, 120) / 2

	if got.C != want {
		t.Errorf("FromChromaRatio(0.8, 0.5, 120).C = %v, want %v", got.C, want)
	}
	if got.L != 0.8 || got.H != 120 {
		t.Errorf("FromChromaRatio(0.8, 0.5, 120) = %v, want L=0.8 H=120", got)
	}
}

func TestFromChromaRatio_DefaultResolver(t *testing.T) {
	got := FromChromaRatio(0.8, 0.5, 120)
	want := MaxChromaInGamut(0.8, 120, DefaultDelta) * 0.5
	if got.C != want {
		t.Errorf("FromChromaRatio(0.8, 0.5, 120).C = %v, want %v", got.C, want)
	}
}

func TestResolverFromChromaRatio_Bounds(t *testing.T) {
	r := NewResolver()
	tests := []struct {
		name  string
		ratio float64
		in    bool
	}{
		{"zero is gray", 0, true},
		{"full is on the boundary", 1, true},
		{"above one leaves the gamut", 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := r.FromChromaRatio(0.6, tt.ratio, 250)
			if got := InGamut(o); got != tt.in {
				t.Errorf("InGamut(FromChromaRatio(0.6, %v, 250)) = %v, want %v", tt.ratio, got, tt.in)
			}
		})
	}
}

func TestResolverMaxChroma_Memoized(t *testing.T) {
	r := NewResolver()

	first := r.MaxChroma(0.6, 180)
	second := r.MaxChroma(0.6, 180)
	if first != second {
		t.Errorf("MaxChroma not idempotent: %v then %v", first, second)
	}

	stats := r.Stats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("Stats() = %+v, want 1 miss and 1 hit", stats)
	}
	if stats.Len != 1 {
		t.Errorf("Stats().Len = %d, want 1", stats.Len)
	}
}

func TestResolverMaxChroma_NaNSkipsCache(t *testing.T) {
	r := NewResolver()
	for _, in := range [][2]float64{{math.NaN(), 180}, {0.6, math.NaN()}} {
		if got := r.MaxChroma(in[0], in[1]); got != 0 {
			t.Errorf("MaxChroma(%v, %v) = %v, want 0", in[0], in[1], got)
		}
	}
	if stats := r.Stats(); stats.Len != 0 || stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("Stats() = %+v, want an untouched cache", stats)
	}
}

func TestResolverMaxChroma_DeltaIsPartOfKey(t *testing.T) {
	r := NewResolver()
	coarse := r.MaxChromaDelta(0.45, 264, 0.01)
	fine := r.MaxChromaDelta(0.45, 264, 0.0001)

	if coarse != MaxChroma(0.45, 264, 0.01) {
		t.Errorf("MaxChromaDelta(0.45, 264, 0.01) = %v, want uncached result %v", coarse, MaxChroma(0.45, 264, 0.01))
	}
	if fine != MaxChroma(0.45, 264, 0.0001) {
		t.Errorf("MaxChromaDelta(0.45, 264, 0.0001) = %v, want uncached result %v", fine, MaxChroma(0.45, 264, 0.0001))
	}
	if got := r.Stats().Misses; got != 2 {
		t.Errorf("Stats().Misses = %d, want 2", got)
	}
}

func TestResolverCacheEvicts(t *testing.T) {
	r := NewResolver(WithCacheSize(2))

	r.MaxChroma(0.5, 10)
	r.MaxChroma(0.5, 20)
	r.MaxChroma(0.5, 30) // evicts hue 10

	if got := r.Stats().Len; got != 2 {
		t.Fatalf("Stats().Len = %d, want 2", got)
	}

	r.MaxChroma(0.5, 30)
	r.MaxChroma(0.5, 10)

	stats := r.Stats()
	if stats.Hits != 1 || stats.Misses != 4 {
		t.Errorf("Stats() = %+v, want 1 hit and 4 misses", stats)
	}
	if stats.Capacity != 2 {
		t.Errorf("Stats().Capacity = %d, want 2", stats.Capacity)
	}
}

func TestChromaCachePurge(t *testing.T) {
	c := NewChromaCache(0)
	if got := c.Stats().Capacity; got != DefaultCacheSize {
		t.Errorf("NewChromaCache(0) capacity = %d, want %d", got, DefaultCacheSize)
	}

	c.put(chromaKey{L: 0.5, H: 1, Delta: DefaultDelta}, 0.1)
	c.Purge()
	if _, ok := c.get(chromaKey{L: 0.5, H: 1, Delta: DefaultDelta}); ok {
		t.Error("get after Purge found an entry")
	}
	if got := c.Stats().Misses; got != 1 {
		t.Errorf("Stats().Misses = %d, want 1", got)
	}
}

func TestResolverOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want float64
	}{
		{"default", nil, DefaultDelta},
		{"explicit delta", []Option{WithDelta(0.01)}, 0.01},
		{"zero delta ignored", []Option{WithDelta(0)}, DefaultDelta},
		{"negative delta ignored", []Option{WithDelta(-1)}, DefaultDelta},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.opts...)
			if got := r.Delta(); got != tt.want {
				t.Errorf("Delta() = %v, want %v", got, tt.want)
			}
			if got, want := r.MaxChroma(0.7, 90), MaxChroma(0.7, 90, tt.want); got != want {
				t.Errorf("MaxChroma(0.7, 90) = %v, want %v", got, want)
			}
		})
	}
}

func TestResolverWithGamut(t *testing.T) {
	narrow := Gamut{
		Name:     "narrow",
		Ceiling:  0.05,
		contains: func(o Oklch) bool { return o.C <= 0.02 },
	}
	r := NewResolver(WithGamut(narrow))
	if got := r.Gamut().Name; got != "narrow" {
		t.Errorf("Gamut().Name = %q, want %q", got, "narrow")
	}
	got := r.MaxChroma(0.5, 0)
	if got > 0.02 || 0.02-got > DefaultDelta {
		t.Errorf("MaxChroma in narrow gamut = %v, want within %v below 0.02", got, DefaultDelta)
	}
}

func TestResolverChromaRatio(t *testing.T) {
	r := NewResolver()
	tests := []struct {
		name string
		o    Oklch
		want float64
	}{
		{"round trip", r.FromChromaRatio(0.6, 0.8, 180), 0.8},
		{"gray", Oklch{0.6, 0, 180}, 0},
		{"white has no room", Oklch{1, 0.1, 180}, 0},
		{"NaN chroma", Oklch{0.6, math.NaN(), 180}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ChromaRatio(tt.o); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ChromaRatio(%v) = %v, want %v", tt.o, got, tt.want)
			}
		})
	}
}

func TestResolverBrightenDarken(t *testing.T) {
	r := NewResolver()
	base := r.FromChromaRatio(0.5, 0.6, 200)

	tests := []struct {
		name  string
		got   Oklch
		wantL float64
	}{
		{"brighten", r.Brighten(base, 0.2), 0.7},
		{"darken", r.Darken(base, 0.2), 0.3},
		{"brighten clamps", r.Brighten(base, 1), 1},
		{"darken clamps", r.Darken(base, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got.L-tt.wantL) > 1e-12 {
				t.Errorf("L = %v, want %v", tt.got.L, tt.wantL)
			}
			if tt.got.H != base.H {
				t.Errorf("H = %v, want %v", tt.got.H, base.H)
			}
			if limit := r.MaxChroma(tt.got.L, tt.got.H); tt.got.C > limit {
				t.Errorf("C = %v, above max chroma %v", tt.got.C, limit)
			}
		})
	}

	if ratio := r.ChromaRatio(r.Brighten(base, 0.2)); math.Abs(ratio-0.6) > 1e-9 {
		t.Errorf("ChromaRatio after Brighten = %v, want 0.6", ratio)
	}
}

func TestResolverConcurrentUse(t *testing.T) {
	r := NewResolver(WithCacheSize(64))
	want := MaxChroma(0.6, 180, DefaultDelta)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.MaxChroma(0.6, float64((i*100+j)%360))
			}
		}(i)
	}
	wg.Wait()

	if got := r.MaxChroma(0.6, 180); got != want {
		t.Errorf("MaxChroma(0.6, 180) = %v, want %v", got, want)
	}
}
