package lsp

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/config"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagnosticSource = "oklchpick"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

// AnalysisResult holds all information produced by analyzing a configuration file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Config      *config.Config            // nil when the file has syntax errors
	Symbols     map[string]protocol.Range // "swatch.primary" -> definition range
	Colors      []ColorLocation
}

// ColorLocation records a resolved swatch color at a specific source position.
type ColorLocation struct {
	Name  string
	Range protocol.Range
	Color color.Oklch
	IsRef bool // true unless the color is a plain string literal
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses HCL content from memory and produces diagnostics, a symbol table,
// and color locations. It collects ALL errors rather than short-circuiting on the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	cfg, diags := config.Parse([]byte(content), filename)
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
	}
	if cfg == nil {
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}
	result.Config = cfg

	r := cfg.Resolver()
	for _, sw := range cfg.Swatches {
		result.Symbols[config.BlockSwatch+"."+sw.Name] = hclRangeToLSP(sw.DefRange)
		result.Colors = append(result.Colors, ColorLocation{
			Name:  sw.Name,
			Range: hclRangeToLSP(sw.ColorRange),
			Color: sw.Color,
			IsRef: !sw.Literal,
		})
		if sw.Literal {
			result.checkGamut(sw, r)
		}
	}

	return result
}

// checkGamut warns about literal colors that sRGB displays cannot show. The
// gamut search undershoots by at most one delta, so anything within a delta of
// the search result is accepted.
func (res *AnalysisResult) checkGamut(sw config.Swatch, r *color.Resolver) {
	limit := r.MaxChroma(sw.Color.L, sw.Color.H)
	if sw.Color.C <= limit+r.Delta() {
		return
	}
	res.addWarning(sw.ColorRange, fmt.Sprintf(
		"swatch %q is outside the sRGB gamut (chroma %.4f, max %.4f) and is clipped to %s",
		sw.Name, sw.Color.C, limit, sw.Color.Hex()))
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagnosticSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addWarning adds a warning-level diagnostic at the given range.
func (res *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	res.Diagnostics = append(res.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagWarning,
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	})
}

// swatchAt returns the color location covering pos.
func (res *AnalysisResult) swatchAt(pos protocol.Position) (ColorLocation, bool) {
	if res == nil {
		return ColorLocation{}, false
	}
	for _, cl := range res.Colors {
		if posInRange(pos, cl.Range) {
			return cl, true
		}
	}
	return ColorLocation{}, false
}

func strPtr(s string) *string {
	return &s
}
