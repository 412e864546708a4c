package lsp

import (
	"strings"

	"github.com/jsvensson/oklchpicker/internal/config"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// topLevelBlocks are the valid top-level block names.
var topLevelBlocks = []string{config.BlockPicker, config.BlockGamut, config.BlockSwatch}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	// Check for swatch name completion: "swatch." or "swatch.pri"
	if items := trySwatchCompletion(result, textBeforeCursor); items != nil {
		return items
	}

	// Value position (after "="): offer functions and swatch references
	if isValuePosition(textBeforeCursor) {
		return valueCompletions()
	}

	block := determineBlock(lines, int(pos.Line))
	if block == "" {
		return topLevelCompletions()
	}
	return attributeCompletions(block, lines, int(pos.Line))
}

// trySwatchCompletion checks if the text before the cursor ends inside a
// swatch reference and returns the swatches resolved so far.
func trySwatchCompletion(result *AnalysisResult, textBeforeCursor string) []protocol.CompletionItem {
	if result == nil || result.Config == nil {
		return nil
	}

	prefix := config.BlockSwatch + "."
	idx := strings.LastIndex(textBeforeCursor, prefix)
	if idx == -1 {
		return nil
	}
	if idx > 0 && isIdentChar(textBeforeCursor[idx-1]) {
		return nil
	}
	// Only the partial name may follow the dot.
	for _, b := range []byte(textBeforeCursor[idx+len(prefix):]) {
		if !isIdentChar(b) || b == '.' {
			return nil
		}
	}

	kind := protocol.CompletionItemKindColor
	items := make([]protocol.CompletionItem, 0, len(result.Config.Swatches))
	for _, sw := range result.Config.Swatches {
		hex := sw.Color.Hex()
		doc := sw.Color.CSS()
		items = append(items, protocol.CompletionItem{
			Label:         sw.Name,
			Kind:          &kind,
			Detail:        &hex,
			Documentation: doc,
		})
	}
	return items
}

// isValuePosition returns true if the text before the cursor indicates we are
// at a value position (after an "=" sign with nothing meaningful following it).
func isValuePosition(textBeforeCursor string) bool {
	trimmed := strings.TrimSpace(textBeforeCursor)
	eqIdx := strings.LastIndex(trimmed, "=")
	if eqIdx == -1 {
		return false
	}
	afterEq := strings.TrimSpace(trimmed[eqIdx+1:])
	return afterEq == ""
}

// valueCompletions returns completion items for a value position, including
// function snippets and a swatch reference trigger.
func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	var items []protocol.CompletionItem
	for _, name := range config.FunctionNames() {
		sig, _ := config.FunctionSignature(name)
		snippet := functionSnippet(sig)
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr(sig),
			Documentation:    config.FunctionDescription(name),
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	swatchSnippet := config.BlockSwatch + "."
	items = append(items, protocol.CompletionItem{
		Label:      config.BlockSwatch,
		Kind:       completionKindPtr(protocol.CompletionItemKindVariable),
		Detail:     strPtr("swatch reference"),
		InsertText: &swatchSnippet,
	})
	return items
}

// functionSnippet turns "brighten(color, amount)" into
// "brighten(${1:color}, ${2:amount})".
func functionSnippet(sig string) string {
	open := strings.Index(sig, "(")
	if open == -1 || !strings.HasSuffix(sig, ")") {
		return sig
	}
	params := strings.Split(sig[open+1:len(sig)-1], ", ")
	var b strings.Builder
	b.WriteString(sig[:open+1])
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("${")
		b.WriteString(string(rune('1' + i)))
		b.WriteString(":")
		b.WriteString(p)
		b.WriteString("}")
	}
	b.WriteString(")")
	return b.String()
}

// determineBlock scans from the top of the file down to the cursor line
// to determine which top-level block the cursor is in, using brace nesting.
// It returns "" at the top level.
func determineBlock(lines []string, cursorLine int) string {
	var stack []string

	for i := 0; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])

		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")

		// Process opening braces: extract the block name (first word on the line)
		if opens > 0 {
			parts := strings.Fields(line)
			if len(parts) >= 1 {
				name := strings.TrimSuffix(parts[0], "{")
				for range opens {
					stack = append(stack, name)
				}
			}
		}

		// Process closing braces
		for range closes {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 {
		return ""
	}
	return stack[0]
}

// attributeCompletions returns the attributes a block accepts, excluding names
// already defined in the block surrounding the cursor.
func attributeCompletions(block string, lines []string, cursorLine int) []protocol.CompletionItem {
	attrs, ok := config.BlockAttributes[block]
	if !ok {
		return nil
	}
	defined := findDefinedAttributes(lines, cursorLine)
	kind := protocol.CompletionItemKindProperty

	var items []protocol.CompletionItem
	for _, name := range attrs {
		if !defined[name] {
			items = append(items, protocol.CompletionItem{
				Label: name,
				Kind:  &kind,
			})
		}
	}

	return items
}

// findDefinedAttributes scans the current block (from the nearest opening brace
// before cursorLine to cursorLine) and returns attribute names already defined
// (lines containing "name = ...").
func findDefinedAttributes(lines []string, cursorLine int) map[string]bool {
	defined := make(map[string]bool)

	// Scan backwards to find the opening brace of the current block
	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		closes := strings.Count(line, "}")
		opens := strings.Count(line, "{")
		depth += closes - opens
		if depth < 0 {
			startLine = i
			break
		}
	}

	// Scan forward from startLine to cursorLine, collecting attribute names
	for i := startLine; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])
		if eqIdx := strings.Index(line, "="); eqIdx > 0 {
			name := strings.TrimSpace(line[:eqIdx])
			if !strings.Contains(name, " ") && !strings.Contains(name, "{") {
				defined[name] = true
			}
		}
	}

	return defined
}

// topLevelCompletions returns completion items for top-level block names.
func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	kind := protocol.CompletionItemKindSnippet

	var items []protocol.CompletionItem
	for _, name := range topLevelBlocks {
		snippet := name + " {\n  $0\n}"
		if name == config.BlockSwatch {
			snippet = name + " \"${1:name}\" {\n  $0\n}"
		}
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             &kind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	return items
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	items := complete(result, content, params.Position)
	return items, nil
}
