package blocks

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBlockDecodeNormalizesAndFlagsRepairs(t *testing.T) {
	payload := `{"id":"b1","type":"heading","content":{"0":"junk","text":"Title","fontSize":24,"color":"#112233"}}`

	var block Block
	if err := json.Unmarshal([]byte(payload), &block); err != nil {
		t.Fatalf("decode block: %v", err)
	}
	if !block.Repaired() {
		t.Fatalf("expected the numeric-key payload to be flagged as repaired")
	}
	heading, ok := block.Content.(HeadingContent)
	if !ok {
		t.Fatalf("expected heading content, got %#v", block.Content)
	}
	if heading.Text != "Title" || heading.FontSize != 24 || heading.Color != "#112233" {
		t.Fatalf("unexpected heading: %#v", heading)
	}
}

func TestBlockDecodeLeavesCanonicalContentUnflagged(t *testing.T) {
	payload := `{"id":"b2","type":"paragraph","content":"hello"}`

	var block Block
	if err := json.Unmarshal([]byte(payload), &block); err != nil {
		t.Fatalf("decode block: %v", err)
	}
	if block.Repaired() {
		t.Fatalf("canonical content should not be flagged")
	}
	if block.Content.(ParagraphContent).Text != "hello" {
		t.Fatalf("unexpected content: %#v", block.Content)
	}
}

func TestBlockDecodeMapsUnknownTypeToParagraph(t *testing.T) {
	payload := `{"id":"b3","type":"hologram","content":"leftover"}`

	var block Block
	if err := json.Unmarshal([]byte(payload), &block); err != nil {
		t.Fatalf("decode block: %v", err)
	}
	if block.Type != BlockTypeParagraph {
		t.Fatalf("expected paragraph fallback, got %q", block.Type)
	}
	if !block.Repaired() {
		t.Fatalf("fallback should be flagged as a repair")
	}
	if block.Content.(ParagraphContent).Text != "leftover" {
		t.Fatalf("expected text to survive, got %#v", block.Content)
	}
}

func TestParagraphContentMarshalsAsBareString(t *testing.T) {
	encoded, err := json.Marshal(ParagraphContent{Text: "plain"})
	if err != nil {
		t.Fatalf("marshal paragraph: %v", err)
	}
	if string(encoded) != `"plain"` {
		t.Fatalf("unexpected encoding: %s", encoded)
	}
}

func TestContentMarshalingInlinesExtraKeys(t *testing.T) {
	equation := EquationContent{
		Latex: "x^2",
		Extra: map[string]any{"note": "kept"},
	}
	encoded, err := json.Marshal(equation)
	if err != nil {
		t.Fatalf("marshal equation: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("decode round trip: %v", err)
	}
	if decoded["latex"] != "x^2" || decoded["note"] != "kept" {
		t.Fatalf("unexpected wire shape: %s", encoded)
	}
}

func TestContentMarshalingEmitsEmptyCollections(t *testing.T) {
	encoded, err := json.Marshal(ImageContent{})
	if err != nil {
		t.Fatalf("marshal image: %v", err)
	}
	if !strings.Contains(string(encoded), `"images":[]`) {
		t.Fatalf("expected empty array, got %s", encoded)
	}

	encoded, err = json.Marshal(ListContent{Heading: "L"})
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}
	if !strings.Contains(string(encoded), `"items":[]`) {
		t.Fatalf("expected empty array, got %s", encoded)
	}
}

func TestNewBlockIDValidatesBounds(t *testing.T) {
	if _, err := NewBlockID("  "); err == nil {
		t.Fatalf("expected blank id to be rejected")
	}
	if _, err := NewBlockID(strings.Repeat("a", 191)); err == nil {
		t.Fatalf("expected oversized id to be rejected")
	}
	id, err := NewBlockID(" block-1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "block-1" {
		t.Fatalf("expected trimmed id, got %q", id)
	}
}
