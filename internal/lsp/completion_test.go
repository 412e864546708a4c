package lsp

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func completionLabels(items []protocol.CompletionItem) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	sort.Strings(labels)
	return labels
}

func findItem(items []protocol.CompletionItem, label string) *protocol.CompletionItem {
	for i := range items {
		if items[i].Label == label {
			return &items[i]
		}
	}
	return nil
}

// endOf returns the position at the end of the given line.
func endOf(content string, line int) protocol.Position {
	lines := splitLines(content)
	return protocol.Position{Line: uint32(line), Character: uint32(len(lines[line]))}
}

func TestCompletion_SwatchNames(t *testing.T) {
	// The result comes from the last good version of the file, while the
	// editor buffer holds the reference being typed.
	result := Analyze("test.hcl", validConfig)
	if result.Config == nil {
		t.Fatal("expected non-nil config from analysis")
	}

	tests := []struct {
		name string
		line string
	}{
		{"after dot", "  color = brighten(swatch."},
		{"partial name", "  color = darken(swatch.pri"},
		{"bare reference", "  color = swatch."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "swatch \"new\" {\n" + tt.line + "\n}\n"
			items := complete(result, content, endOf(content, 1))

			want := []string{"mid", "primary", "soft"}
			if diff := cmp.Diff(want, completionLabels(items)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompletion_SwatchItemDetails(t *testing.T) {
	result := Analyze("test.hcl", validConfig)
	content := "swatch \"new\" {\n  color = swatch.\n}\n"

	items := complete(result, content, endOf(content, 1))
	primary := findItem(items, "primary")
	if primary == nil {
		t.Fatal("expected primary in completions")
	}
	if primary.Detail == nil || *primary.Detail != "#eb6f92" {
		t.Errorf("Detail = %v, want #eb6f92", primary.Detail)
	}
	if primary.Kind == nil || *primary.Kind != protocol.CompletionItemKindColor {
		t.Errorf("Kind = %v, want color", primary.Kind)
	}
	doc, ok := primary.Documentation.(string)
	if !ok || !strings.HasPrefix(doc, "oklch(") {
		t.Errorf("Documentation = %v, want an oklch() string", primary.Documentation)
	}
}

func TestCompletion_NotASwatchReference(t *testing.T) {
	result := Analyze("test.hcl", validConfig)
	content := "swatch \"new\" {\n  color = myswatch.\n}\n"

	items := complete(result, content, endOf(content, 1))
	if findItem(items, "primary") != nil {
		t.Error("myswatch. should not offer swatch names")
	}
}

func TestCompletion_ValuePosition(t *testing.T) {
	content := "swatch \"new\" {\n  color = \n}\n"
	items := complete(Analyze("test.hcl", validConfig), content, endOf(content, 1))

	want := []string{"brighten", "darken", "ease", "max_chroma", "oklch", "swatch", "unease"}
	if diff := cmp.Diff(want, completionLabels(items)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	brighten := findItem(items, "brighten")
	if brighten.InsertText == nil || *brighten.InsertText != "brighten(${1:color}, ${2:amount})" {
		t.Errorf("brighten InsertText = %v", brighten.InsertText)
	}
	if brighten.InsertTextFormat == nil || *brighten.InsertTextFormat != protocol.InsertTextFormatSnippet {
		t.Error("brighten should be a snippet")
	}

	sw := findItem(items, "swatch")
	if sw.InsertText == nil || *sw.InsertText != "swatch." {
		t.Errorf("swatch InsertText = %v, want swatch.", sw.InsertText)
	}
}

func TestCompletion_TopLevel(t *testing.T) {
	content := "picker {\n  hue = 250\n}\n\n"
	items := complete(Analyze("test.hcl", content), content, protocol.Position{Line: 3, Character: 0})

	want := []string{"gamut", "picker", "swatch"}
	if diff := cmp.Diff(want, completionLabels(items)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	sw := findItem(items, "swatch")
	if sw.InsertText == nil || *sw.InsertText != "swatch \"${1:name}\" {\n  $0\n}" {
		t.Errorf("swatch snippet = %v", sw.InsertText)
	}
}

func TestCompletion_Attributes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		want    []string
	}{
		{
			name:    "empty picker",
			content: "picker {\n  \n}\n",
			line:    1,
			want:    []string{"chroma_ratio", "hue", "lightness"},
		},
		{
			name:    "picker with lightness",
			content: "picker {\n  lightness = 0.5\n  \n}\n",
			line:    2,
			want:    []string{"chroma_ratio", "hue"},
		},
		{
			name:    "gamut",
			content: "gamut {\n  \n}\n",
			line:    1,
			want:    []string{"cache_size", "delta"},
		},
		{
			name:    "swatch with hue",
			content: "swatch \"a\" {\n  hue = 30\n  \n}\n",
			line:    2,
			want:    []string{"chroma_ratio", "color", "eased", "lightness"},
		},
		{
			name:    "second block only sees its own attributes",
			content: "picker {\n  hue = 250\n}\n\nswatch \"a\" {\n  \n}\n",
			line:    5,
			want:    []string{"chroma_ratio", "color", "eased", "hue", "lightness"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := complete(nil, tt.content, endOf(tt.content, tt.line))
			if diff := cmp.Diff(tt.want, completionLabels(items)); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompletion_UnknownBlock(t *testing.T) {
	content := "theme {\n  \n}\n"
	if items := complete(nil, content, endOf(content, 1)); len(items) != 0 {
		t.Errorf("expected no completions in an unknown block, got %v", completionLabels(items))
	}
}

func TestCompletion_LineOutOfRange(t *testing.T) {
	if items := complete(nil, "picker {}\n", protocol.Position{Line: 5}); items != nil {
		t.Errorf("expected nil, got %v", items)
	}
}

func TestFunctionSnippet(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"ease(x)", "ease(${1:x})"},
		{"max_chroma(lightness, hue)", "max_chroma(${1:lightness}, ${2:hue})"},
		{"oklch(lightness, chroma_ratio, hue)", "oklch(${1:lightness}, ${2:chroma_ratio}, ${3:hue})"},
		{"notafunction", "notafunction"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			if got := functionSnippet(tt.sig); got != tt.want {
				t.Errorf("functionSnippet(%q) = %q, want %q", tt.sig, got, tt.want)
			}
		})
	}
}

func TestDetermineBlock(t *testing.T) {
	lines := splitLines("picker {\n  hue = 250\n}\nswatch \"a\" {\n  color = \"#fff\"\n}\n")
	tests := []struct {
		line int
		want string
	}{
		{0, "picker"},
		{1, "picker"},
		{2, ""},
		{4, "swatch"},
		{6, ""},
	}
	for _, tt := range tests {
		if got := determineBlock(lines, tt.line); got != tt.want {
			t.Errorf("determineBlock(line %d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
