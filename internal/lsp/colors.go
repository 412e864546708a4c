package lsp

import (
	"math"
	"strings"

	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts an Oklch color to a protocol.Color (float32 0.0-1.0),
// clipping it to 8-bit sRGB first.
func colorToLSP(o color.Oklch) protocol.Color {
	c := o.RGB()
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// colorFromLSP converts a protocol.Color to the nearest 8-bit sRGB color.
func colorFromLSP(c protocol.Color) color.Color {
	channel := func(v float32) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
	}
	return color.Color{R: channel(c.Red), G: channel(c.Green), B: channel(c.Blue)}
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// colorPresentation offers the picked color in every notation. String literals
// get a TextEdit replacing the old value, keeping its quotes. Anything else
// (swatch references, function calls, swatch labels) gets no presentations, so
// the editor never overwrites an expression with a literal.
func colorPresentation(result *AnalysisResult, content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	if result != nil {
		for _, cl := range result.Colors {
			if cl.Range == params.Range && cl.IsRef {
				return []protocol.ColorPresentation{}
			}
		}
	}
	text := extractText(content, params.Range)
	if !strings.HasPrefix(text, "\"") {
		return []protocol.ColorPresentation{}
	}

	o := colorFromLSP(params.Color).Oklch()
	notations := color.Notations()
	presentations := make([]protocol.ColorPresentation, 0, len(notations))
	for _, n := range notations {
		label := o.Format(n)
		presentations = append(presentations, protocol.ColorPresentation{
			Label: label,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: "\"" + label + "\"",
			},
		})
	}
	return presentations
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	result := s.getResult(uri)
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(s.getResult(uri), content, params), nil
}
