package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// numberArg reads a cty.Number argument as a float64.
func numberArg(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}

// makeOklchFunc creates an HCL function that resolves a color from a chroma ratio.
// Usage: oklch(0.7, 0.9, 250)
func makeOklchFunc(r *color.Resolver) function.Function {
	return function.New(&function.Spec{
		Description: "Resolves lightness, chroma ratio and hue to an oklch() color",
		Params: []function.Parameter{
			{Name: "lightness", Type: cty.Number},
			{Name: "chroma_ratio", Type: cty.Number},
			{Name: "hue", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			o := r.FromChromaRatio(numberArg(args[0]), numberArg(args[1]), numberArg(args[2]))
			return cty.StringVal(o.CSS()), nil
		},
	})
}

// makeShiftFunc creates an HCL function that moves a color's lightness,
// keeping its chroma ratio. sign is 1 for brighten and -1 for darken.
// Usage: brighten("#eb6f92", 0.1) or darken(swatch.primary, 0.1)
func makeShiftFunc(r *color.Resolver, description string, sign float64) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{Name: "color", Type: cty.String},
			{Name: "amount", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			o, err := color.Parse(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			shifted := r.Brighten(o, sign*numberArg(args[1]))
			return cty.StringVal(shifted.CSS()), nil
		},
	})
}

// makeNumberFunc wraps a float64 function as an HCL function of one number.
func makeNumberFunc(description string, fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{Name: "x", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.NumberFloatVal(fn(numberArg(args[0]))), nil
		},
	})
}

// makeMaxChromaFunc creates an HCL function returning the largest in-gamut chroma.
// Usage: max_chroma(0.6, 180)
func makeMaxChromaFunc(r *color.Resolver) function.Function {
	return function.New(&function.Spec{
		Description: "Returns the largest sRGB chroma at the given lightness and hue",
		Params: []function.Parameter{
			{Name: "lightness", Type: cty.Number},
			{Name: "hue", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.NumberFloatVal(r.MaxChroma(numberArg(args[0]), numberArg(args[1]))), nil
		},
	})
}

// Functions returns the HCL functions available in configuration files,
// resolving colors with r.
func Functions(r *color.Resolver) map[string]function.Function {
	return map[string]function.Function{
		"oklch":      makeOklchFunc(r),
		"brighten":   makeShiftFunc(r, "Raises lightness by amount, keeping the chroma ratio", 1),
		"darken":     makeShiftFunc(r, "Lowers lightness by amount, keeping the chroma ratio", -1),
		"ease":       makeNumberFunc("Maps a lightness control value to Oklch lightness", color.Ease),
		"unease":     makeNumberFunc("Maps Oklch lightness back to a control value", color.Unease),
		"max_chroma": makeMaxChromaFunc(r),
	}
}

// FunctionNames lists the configuration functions in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, 6)
	for name := range Functions(color.DefaultResolver()) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FunctionSignature returns a short usage line for a configuration function.
func FunctionSignature(name string) (string, bool) {
	fn, ok := Functions(color.DefaultResolver())[name]
	if !ok {
		return "", false
	}
	params := fn.Params()
	text := name + "("
	for i, p := range params {
		if i > 0 {
			text += ", "
		}
		text += p.Name
	}
	return text + ")", true
}

// FunctionDescription returns the description of a configuration function.
func FunctionDescription(name string) string {
	fn, ok := Functions(color.DefaultResolver())[name]
	if !ok {
		return ""
	}
	return fn.Description()
}

// SwatchesToCty converts resolved swatches to the object bound to the
// "swatch" variable. Each swatch is its oklch() string.
func SwatchesToCty(swatches map[string]color.Oklch) cty.Value {
	if len(swatches) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(swatches))
	for name, o := range swatches {
		vals[name] = cty.StringVal(o.CSS())
	}
	return cty.ObjectVal(vals)
}

// EvalContext builds the HCL evaluation context for swatch expressions.
func EvalContext(r *color.Resolver, swatches map[string]color.Oklch) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"swatch": SwatchesToCty(swatches),
		},
		Functions: Functions(r),
	}
}

// ResolveColor extracts a color string from an evaluated expression.
func ResolveColor(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("color is null")
	}
	if !val.IsKnown() {
		return "", fmt.Errorf("color is not known")
	}
	if val.Type() == cty.String {
		return val.AsString(), nil
	}
	return "", fmt.Errorf("expected a color string, got %s", val.Type().FriendlyName())
}
