// Package config loads picker configuration files: picker defaults, gamut
// search settings and named swatches.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/picker"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("oklchpick.config")

// Block types allowed at the top level.
const (
	BlockPicker = "picker"
	BlockGamut  = "gamut"
	BlockSwatch = "swatch"
)

// BlockAttributes lists the attributes each block type accepts.
var BlockAttributes = map[string][]string{
	BlockPicker: {"lightness", "chroma_ratio", "hue"},
	BlockGamut:  {"delta", "cache_size"},
	BlockSwatch: {"color", "lightness", "chroma_ratio", "hue", "eased"},
}

// Config is a fully-resolved configuration file.
type Config struct {
	Picker   Picker
	Gamut    Gamut
	Swatches []Swatch

	resolver *color.Resolver
}

// Picker holds the initial picker control values.
type Picker struct {
	Lightness   float64
	ChromaRatio float64
	Hue         float64
}

// Gamut holds the chroma search settings.
type Gamut struct {
	Delta     float64
	CacheSize int
}

// Swatch is a named color defined in a swatch block.
type Swatch struct {
	Name  string
	Color color.Oklch

	// DefRange covers the block type and label, ColorRange the color attribute value
	// or, for swatches built from lightness, chroma_ratio and hue, the label.
	DefRange   hcl.Range
	ColorRange hcl.Range

	// Literal is set when the color is a plain string that an editor may rewrite.
	Literal bool
}

type pickerBlock struct {
	Lightness   *float64 `hcl:"lightness,optional"`
	ChromaRatio *float64 `hcl:"chroma_ratio,optional"`
	Hue         *float64 `hcl:"hue,optional"`
}

type gamutBlock struct {
	Delta     *float64 `hcl:"delta,optional"`
	CacheSize *int     `hcl:"cache_size,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Picker: Picker{
			Lightness:   picker.DefaultLightness,
			ChromaRatio: picker.DefaultChromaRatio,
			Hue:         picker.DefaultHue,
		},
		Gamut: Gamut{
			Delta:     color.DefaultDelta,
			CacheSize: color.DefaultCacheSize,
		},
		resolver: color.DefaultResolver(),
	}
}

// Resolver returns the resolver built from the gamut settings.
func (c *Config) Resolver() *color.Resolver {
	if c.resolver == nil {
		c.resolver = color.NewResolver(color.WithDelta(c.Gamut.Delta), color.WithCacheSize(c.Gamut.CacheSize))
	}
	return c.resolver
}

// SetGamut replaces the gamut settings. Colors resolved afterwards use them;
// swatches already loaded keep their values.
func (c *Config) SetGamut(g Gamut) {
	c.Gamut = g
	c.resolver = nil
}

// NewPicker returns picker state at the configured initial values.
func (c *Config) NewPicker() *picker.State {
	s := picker.New(picker.WithResolver(c.Resolver()))
	s.SetLightness(c.Picker.Lightness)
	s.SetChromaRatio(c.Picker.ChromaRatio)
	s.SetHue(c.Picker.Hue)
	return s
}

// Swatch looks a swatch up by name.
func (c *Config) Swatch(name string) (Swatch, bool) {
	for _, s := range c.Swatches {
		if s.Name == name {
			return s, true
		}
	}
	return Swatch{}, false
}

// Load reads and resolves a configuration file. Warnings are logged; any
// error diagnostic fails the load.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, diags := Parse(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("loading %s: %s", path, diags.Error())
	}
	for _, d := range diags {
		log.Warningf("%s", d.Error())
	}
	return cfg, nil
}

// Parse resolves configuration source held in memory. It collects every
// problem it finds rather than stopping at the first, so the returned config
// holds whatever could be resolved even when diags has errors. Only a syntax
// error returns a nil config.
func Parse(src []byte, filename string) (*Config, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "internal error: parsed body is not *hclsyntax.Body",
		}}
	}

	cfg := Default()
	cfg.resolver = nil

	for _, name := range sortedAttributeNames(body.Attributes) {
		attr := body.Attributes[name]
		diags = append(diags, errorAt(attr.SrcRange,
			"Unexpected attribute",
			fmt.Sprintf("%q cannot be set at the top level; use a picker, gamut or swatch block", name)))
	}

	var pickerBlk, gamutBlk *hclsyntax.Block
	var swatchBlocks []*hclsyntax.Block
	for _, block := range body.Blocks {
		switch block.Type {
		case BlockPicker, BlockGamut:
			if len(block.Labels) != 0 {
				diags = append(diags, errorAt(block.LabelRanges[0],
					"Unexpected label", fmt.Sprintf("%s blocks take no labels", block.Type)))
				continue
			}
			existing := &pickerBlk
			if block.Type == BlockGamut {
				existing = &gamutBlk
			}
			if *existing != nil {
				diags = append(diags, errorAt(block.DefRange(),
					"Duplicate block", fmt.Sprintf("%s block already defined at line %d", block.Type, (*existing).DefRange().Start.Line)))
				continue
			}
			*existing = block
		case BlockSwatch:
			if len(block.Labels) != 1 {
				diags = append(diags, errorAt(block.DefRange(),
					"Missing swatch name", `swatch blocks take exactly one label, e.g. swatch "primary" { ... }`))
				continue
			}
			swatchBlocks = append(swatchBlocks, block)
		default:
			diags = append(diags, errorAt(block.DefRange(),
				"Unsupported block type",
				fmt.Sprintf("unknown block type %q (valid: picker, gamut, swatch)", block.Type)))
		}
	}

	// Settings blocks may call functions but not reference swatches.
	settingsCtx := &hcl.EvalContext{Functions: Functions(color.DefaultResolver())}

	if gamutBlk != nil {
		diags = append(diags, cfg.decodeGamut(gamutBlk, settingsCtx)...)
	}
	r := cfg.Resolver()

	if pickerBlk != nil {
		diags = append(diags, cfg.decodePicker(pickerBlk, settingsCtx)...)
	}

	resolved := make(map[string]color.Oklch)
	defined := make(map[string]hcl.Range)
	for _, block := range swatchBlocks {
		name := block.Labels[0]
		if prev, dup := defined[name]; dup {
			diags = append(diags, errorAt(block.LabelRanges[0],
				"Duplicate swatch", fmt.Sprintf("swatch %q already defined at line %d", name, prev.Start.Line)))
			continue
		}
		defined[name] = block.DefRange()

		sw, swDiags := EvalSwatch(block, EvalContext(r, resolved), r)
		diags = append(diags, swDiags...)
		if swDiags.HasErrors() {
			continue
		}
		cfg.Swatches = append(cfg.Swatches, sw)
		resolved[name] = sw.Color
	}

	return cfg, diags
}

func (c *Config) decodeGamut(block *hclsyntax.Block, ctx *hcl.EvalContext) hcl.Diagnostics {
	if diags := checkBlockContents(block); diags.HasErrors() {
		return diags
	}
	var g gamutBlock
	diags := gohcl.DecodeBody(block.Body, ctx, &g)
	if diags.HasErrors() {
		return diags
	}
	if g.Delta != nil {
		if *g.Delta <= 0 || *g.Delta >= color.SRGBChromaCeiling {
			diags = append(diags, errorAt(attrRange(block, "delta"),
				"Invalid delta", fmt.Sprintf("delta must be within (0, %v), got %v", color.SRGBChromaCeiling, *g.Delta)))
		} else {
			c.Gamut.Delta = *g.Delta
		}
	}
	if g.CacheSize != nil {
		if *g.CacheSize < 1 {
			diags = append(diags, errorAt(attrRange(block, "cache_size"),
				"Invalid cache size", fmt.Sprintf("cache_size must be at least 1, got %d", *g.CacheSize)))
		} else {
			c.Gamut.CacheSize = *g.CacheSize
		}
	}
	return diags
}

func (c *Config) decodePicker(block *hclsyntax.Block, ctx *hcl.EvalContext) hcl.Diagnostics {
	if diags := checkBlockContents(block); diags.HasErrors() {
		return diags
	}
	var p pickerBlock
	diags := gohcl.DecodeBody(block.Body, ctx, &p)
	if diags.HasErrors() {
		return diags
	}

	settings := []struct {
		name string
		val  *float64
		max  float64
		dest *float64
	}{
		{"lightness", p.Lightness, 1, &c.Picker.Lightness},
		{"chroma_ratio", p.ChromaRatio, 1, &c.Picker.ChromaRatio},
		{"hue", p.Hue, 360, &c.Picker.Hue},
	}
	for _, s := range settings {
		if s.val == nil {
			continue
		}
		if *s.val < 0 || *s.val > s.max {
			diags = append(diags, errorAt(attrRange(block, s.name),
				"Value out of range", fmt.Sprintf("%s must be within [0, %v], got %v", s.name, s.max, *s.val)))
			continue
		}
		*s.dest = *s.val
	}
	return diags
}

// EvalSwatch resolves one swatch block. ctx must carry the swatches defined
// before it.
func EvalSwatch(block *hclsyntax.Block, ctx *hcl.EvalContext, r *color.Resolver) (Swatch, hcl.Diagnostics) {
	sw := Swatch{
		Name:     block.Labels[0],
		DefRange: block.DefRange(),
	}
	body := block.Body

	diags := checkBlockContents(block)
	if diags.HasErrors() {
		return sw, diags
	}

	if colorAttr, ok := body.Attributes["color"]; ok {
		for _, other := range []string{"lightness", "chroma_ratio", "hue", "eased"} {
			if _, set := body.Attributes[other]; set {
				return sw, append(diags, errorAt(body.Attributes[other].SrcRange,
					"Conflicting arguments", fmt.Sprintf("swatch %q sets both color and %s", sw.Name, other)))
			}
		}

		val, valDiags := colorAttr.Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			return sw, diags
		}
		text, err := ResolveColor(val)
		if err != nil {
			return sw, append(diags, errorAt(colorAttr.Expr.Range(), "Invalid color", err.Error()))
		}
		o, err := color.Parse(text)
		if err != nil {
			return sw, append(diags, errorAt(colorAttr.Expr.Range(), "Invalid color", err.Error()))
		}

		sw.Color = o
		sw.ColorRange = colorAttr.Expr.Range()
		sw.Literal = isStringLiteral(colorAttr.Expr)
		return sw, diags
	}

	lightness, lDiags := numberAttr(block, "lightness", ctx)
	ratio, rDiags := numberAttr(block, "chroma_ratio", ctx)
	hue, hDiags := numberAttr(block, "hue", ctx)
	diags = append(diags, lDiags...)
	diags = append(diags, rDiags...)
	diags = append(diags, hDiags...)

	var eased bool
	if attr, ok := body.Attributes["eased"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, ctx, &eased)...)
	}
	if diags.HasErrors() {
		return sw, diags
	}

	if lightness < 0 || lightness > 1 {
		return sw, append(diags, errorAt(attrRange(block, "lightness"),
			"Value out of range", fmt.Sprintf("lightness must be within [0, 1], got %v", lightness)))
	}
	if ratio < 0 || ratio > 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagWarning,
			Summary:  "Chroma ratio out of range",
			Detail:   fmt.Sprintf("chroma_ratio %v is outside [0, 1]; the color leaves the sRGB gamut and is clipped on output", ratio),
			Subject:  rangePtr(attrRange(block, "chroma_ratio")),
		})
	}
	if eased {
		lightness = color.Ease(lightness)
	}

	sw.Color = r.FromChromaRatio(lightness, ratio, hue)
	sw.ColorRange = block.LabelRanges[0]
	return sw, diags
}

// numberAttr evaluates a required number attribute of a block.
func numberAttr(block *hclsyntax.Block, name string, ctx *hcl.EvalContext) (float64, hcl.Diagnostics) {
	attr, ok := block.Body.Attributes[name]
	if !ok {
		return 0, hcl.Diagnostics{errorAt(block.DefRange(),
			"Missing required argument",
			fmt.Sprintf("swatch %q needs color, or lightness, chroma_ratio and hue; %s is missing", block.Labels[0], name))}
	}
	var v float64
	diags := gohcl.DecodeExpression(attr.Expr, ctx, &v)
	return v, diags
}

// checkBlockContents reports attributes the block type does not accept and any
// nested blocks.
func checkBlockContents(block *hclsyntax.Block) hcl.Diagnostics {
	var diags hcl.Diagnostics
	body := block.Body
	for _, name := range sortedAttributeNames(body.Attributes) {
		if !isKnownAttribute(block.Type, name) {
			diags = append(diags, errorAt(body.Attributes[name].SrcRange,
				"Unsupported argument",
				fmt.Sprintf("unknown attribute %q (valid: %s)", name, strings.Join(BlockAttributes[block.Type], ", "))))
		}
	}
	for _, nested := range body.Blocks {
		diags = append(diags, errorAt(nested.DefRange(),
			"Unexpected block", fmt.Sprintf("%s blocks cannot contain %s blocks", block.Type, nested.Type)))
	}
	return diags
}

func isKnownAttribute(blockType, name string) bool {
	for _, known := range BlockAttributes[blockType] {
		if known == name {
			return true
		}
	}
	return false
}

// isStringLiteral reports whether expr is a quoted string without interpolation.
func isStringLiteral(expr hclsyntax.Expression) bool {
	tmpl, ok := expr.(*hclsyntax.TemplateExpr)
	return ok && tmpl.IsStringLiteral()
}

func attrRange(block *hclsyntax.Block, name string) hcl.Range {
	if attr, ok := block.Body.Attributes[name]; ok {
		return attr.Expr.Range()
	}
	return block.DefRange()
}

func sortedAttributeNames(attrs hclsyntax.Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return attrs[names[i]].SrcRange.Start.Byte < attrs[names[j]].SrcRange.Start.Byte
	})
	return names
}

func errorAt(rng hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rangePtr(rng),
	}
}

func rangePtr(rng hcl.Range) *hcl.Range {
	return &rng
}
