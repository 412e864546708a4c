package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/jsvensson/oklchpicker/internal/config"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	if startLine == endLine {
		line := lines[startLine]
		startChar := int(r.Start.Character)
		endChar := int(r.End.Character)
		if startChar > len(line) {
			startChar = len(line)
		}
		if endChar > len(line) {
			endChar = len(line)
		}
		return line[startChar:endChar]
	}

	// Multi-line range
	var parts []string
	for i := startLine; i <= endLine; i++ {
		line := lines[i]
		if i == startLine {
			startChar := int(r.Start.Character)
			if startChar > len(line) {
				startChar = len(line)
			}
			parts = append(parts, line[startChar:])
		} else if i == endLine {
			endChar := int(r.End.Character)
			if endChar > len(line) {
				endChar = len(line)
			}
			parts = append(parts, line[:endChar])
		} else {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// hover produces a Hover response for the given cursor position. On a function
// name it shows the signature; elsewhere on a swatch color it lists every
// notation together with the gamut limit at the color's lightness and hue.
// Returns nil if nothing is found at the position.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	if h := functionHover(content, pos); h != nil {
		return h
	}

	if cl, ok := result.swatchAt(pos); ok {
		md := colorMarkdown(cl, result.Config.Resolver())
		rng := cl.Range
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: md,
			},
			Range: &rng,
		}
	}
	return nil
}

func colorMarkdown(cl ColorLocation, r *color.Resolver) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**swatch.%s**\n\n", cl.Name)
	for _, n := range color.Notations() {
		fmt.Fprintf(&b, "- `%s`\n", cl.Color.Format(n))
	}
	limit := r.MaxChroma(cl.Color.L, cl.Color.H)
	fmt.Fprintf(&b, "\nmax chroma %.4f \u00b7 chroma ratio %.3f", limit, r.ChromaRatio(cl.Color))
	if cl.Color.C > limit+r.Delta() {
		b.WriteString(" \u00b7 outside sRGB")
	}
	return b.String()
}

// functionHover describes the configuration function under the cursor.
func functionHover(content string, pos protocol.Position) *protocol.Hover {
	lines := strings.Split(content, "\n")
	if int(pos.Line) >= len(lines) {
		return nil
	}
	line := lines[pos.Line]
	start, end := wordBounds(line, int(pos.Character))
	if start == end || end >= len(line) || line[end] != '(' {
		return nil
	}
	// oklch( inside a color string is CSS, not a call
	if strings.Count(line[:start], "\"")%2 == 1 {
		return nil
	}
	name := line[start:end]
	sig, ok := config.FunctionSignature(name)
	if !ok {
		return nil
	}

	rng := protocol.Range{
		Start: protocol.Position{Line: pos.Line, Character: uint32(start)},
		End:   protocol.Position{Line: pos.Line, Character: uint32(end)},
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: fmt.Sprintf("`%s`\n\n%s", sig, config.FunctionDescription(name)),
		},
		Range: &rng,
	}
}

// wordBounds returns the identifier around col, without dots.
func wordBounds(line string, col int) (int, int) {
	if col > len(line) {
		col = len(line)
	}
	start, end := col, col
	for start > 0 && isIdentChar(line[start-1]) && line[start-1] != '.' {
		start--
	}
	for end < len(line) && isIdentChar(line[end]) && line[end] != '.' {
		end++
	}
	return start, end
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return hover(result, content, params.Position), nil
}
