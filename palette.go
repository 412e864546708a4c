// Package oklchpicker resolves picker configuration files into palettes and
// renders them through text templates.
package oklchpicker

import (
	"fmt"

	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/config"
)

// Palette is the fully-resolved configuration, ready for template rendering.
type Palette struct {
	Picker   config.Picker
	Gamut    config.Gamut
	Swatches []Swatch

	// Current is the color the picker starts at.
	Current color.Oklch

	resolver *color.Resolver
}

// Swatch is a named palette color.
type Swatch struct {
	Name  string
	Color color.Oklch
}

// Load parses an HCL configuration file and returns a fully-resolved Palette.
func Load(path string) (*Palette, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading palette: %w", err)
	}
	return FromConfig(cfg), nil
}

// FromConfig builds a Palette from a loaded configuration.
func FromConfig(cfg *config.Config) *Palette {
	p := &Palette{
		Picker:   cfg.Picker,
		Gamut:    cfg.Gamut,
		Current:  cfg.NewPicker().Color(),
		resolver: cfg.Resolver(),
	}
	for _, s := range cfg.Swatches {
		p.Swatches = append(p.Swatches, Swatch{Name: s.Name, Color: s.Color})
	}
	return p
}

// Swatch looks a swatch up by name.
func (p *Palette) Swatch(name string) (Swatch, bool) {
	for _, s := range p.Swatches {
		if s.Name == name {
			return s, true
		}
	}
	return Swatch{}, false
}

// Resolver returns the resolver built from the palette's gamut settings.
func (p *Palette) Resolver() *color.Resolver {
	if p.resolver == nil {
		p.resolver = color.NewResolver(color.WithDelta(p.Gamut.Delta), color.WithCacheSize(p.Gamut.CacheSize))
	}
	return p.resolver
}
