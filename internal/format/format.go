// Package format rewrites picker configuration files into canonical style.
package format

import (
	"fmt"
	"regexp"
	"slices"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/config"
	"github.com/zclconf/go-cty/cty"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules. It uses hclwrite.Format which handles
// indentation, spacing, and newline normalization. Attributes of picker,
// gamut and swatch blocks are sorted into their documented order; comments
// travel with the attribute below them.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing. Attribute sorting is skipped
// until the file parses.
func Format(content string) (string, error) {
	src := []byte(content)
	if ordered, ok := canonicalOrder(src); ok {
		src = ordered
	}
	return tidy(hclwrite.Format(src)), nil
}

// Rewrite converts every swatch color written as a plain string literal to
// notation n, then formats the result. Colors built from expressions and
// strings that do not parse are left alone. Unlike Format, it needs valid HCL.
func Rewrite(content string, n color.Notation) (string, error) {
	f, diags := hclwrite.ParseConfig([]byte(content), "", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("parsing config: %s", diags.Error())
	}

	for _, block := range f.Body().Blocks() {
		if block.Type() != config.BlockSwatch {
			continue
		}
		attr := block.Body().GetAttribute("color")
		if attr == nil {
			continue
		}
		text, ok := literalString(attr.Expr().BuildTokens(nil))
		if !ok {
			continue
		}
		o, err := color.Parse(text)
		if err != nil {
			continue
		}
		block.Body().SetAttributeValue("color", cty.StringVal(o.Format(n)))
	}

	return Format(string(f.Bytes()))
}

func tidy(formatted []byte) string {
	// Collapse multiple consecutive blank lines into a single blank line.
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	// Remove blank lines immediately after opening braces.
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	// Remove blank lines immediately before closing braces.
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	return collapsed
}

// literalString returns the text of a quoted string without escapes or
// interpolation.
func literalString(tokens hclwrite.Tokens) (string, bool) {
	if len(tokens) != 3 ||
		tokens[0].Type != hclsyntax.TokenOQuote ||
		tokens[1].Type != hclsyntax.TokenQuotedLit ||
		tokens[2].Type != hclsyntax.TokenCQuote {
		return "", false
	}
	lit := tokens[1].Bytes
	if slices.Contains(lit, '\\') {
		return "", false
	}
	return string(lit), true
}

// canonicalOrder sorts block attributes into the order config.BlockAttributes
// lists them. Unknown attributes follow the known ones in source order. It
// reports false when nothing moved or the source does not parse.
func canonicalOrder(src []byte) ([]byte, bool) {
	native, diags := hclsyntax.ParseConfig(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, false
	}
	nativeBody, ok := native.Body.(*hclsyntax.Body)
	if !ok {
		return nil, false
	}
	f, diags := hclwrite.ParseConfig(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, false
	}

	blocks := f.Body().Blocks()
	if len(blocks) != len(nativeBody.Blocks) {
		return nil, false
	}

	changed := false
	for i, block := range blocks {
		known, ok := config.BlockAttributes[block.Type()]
		nb := nativeBody.Blocks[i]
		if !ok || len(nb.Body.Blocks) > 0 || len(nb.Body.Attributes) < 2 {
			continue
		}
		current := sourceOrder(nb.Body.Attributes)
		want := sortAttributes(current, known)
		if slices.Equal(current, want) {
			continue
		}
		if reorder(block.Body(), want) {
			changed = true
		}
	}
	if !changed {
		return nil, false
	}
	return f.Bytes(), true
}

// reorder rebuilds body with its attributes in the given order. Bodies holding
// comments that belong to no attribute are left alone.
func reorder(body *hclwrite.Body, names []string) bool {
	attrs := body.Attributes()
	parts := make([]hclwrite.Tokens, len(names))
	attrTokens := 0
	for i, name := range names {
		parts[i] = attrs[name].BuildTokens(nil)
		attrTokens += countContent(parts[i])
	}
	if countContent(body.BuildTokens(nil)) != attrTokens {
		return false
	}

	body.Clear()
	body.AppendNewline()
	for _, part := range parts {
		body.AppendUnstructuredTokens(part)
	}
	return true
}

// countContent counts the tokens that are not newlines.
func countContent(tokens hclwrite.Tokens) int {
	n := 0
	for _, tok := range tokens {
		if tok.Type != hclsyntax.TokenNewline {
			n++
		}
	}
	return n
}

func sourceOrder(attrs hclsyntax.Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return attrs[names[i]].SrcRange.Start.Byte < attrs[names[j]].SrcRange.Start.Byte
	})
	return names
}

func sortAttributes(current, known []string) []string {
	sorted := make([]string, 0, len(current))
	for _, name := range known {
		if slices.Contains(current, name) {
			sorted = append(sorted, name)
		}
	}
	for _, name := range current {
		if !slices.Contains(known, name) {
			sorted = append(sorted, name)
		}
	}
	return sorted
}
