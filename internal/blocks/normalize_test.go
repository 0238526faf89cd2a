package blocks

import (
	"reflect"
	"testing"
)

func TestNormalizeCanonicalContentIsUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		blockType BlockType
		raw       any
		expected  Content
	}{
		{
			name:      "paragraph",
			blockType: BlockTypeParagraph,
			raw:       "hello",
			expected:  ParagraphContent{Text: "hello"},
		},
		{
			name:      "heading",
			blockType: BlockTypeHeading,
			raw:       map[string]any{"text": "Title", "fontSize": float64(24), "color": "#112233"},
			expected:  HeadingContent{Text: "Title", FontSize: 24, Color: "#112233"},
		},
		{
			name:      "equation",
			blockType: BlockTypeEquation,
			raw:       map[string]any{"latex": "E = mc^2"},
			expected:  EquationContent{Latex: "E = mc^2"},
		},
		{
			name:      "image",
			blockType: BlockTypeImage,
			raw: map[string]any{"images": []any{
				map[string]any{"url": "https://example.com/a.png", "width": float64(120), "height": float64(80)},
			}},
			expected: ImageContent{Images: []ImageRef{{URL: "https://example.com/a.png", Width: 120, Height: 80}}},
		},
		{
			name:      "video",
			blockType: BlockTypeVideo,
			raw: map[string]any{"videos": []any{
				map[string]any{"url": "https://embed/v", "originalUrl": "https://watch/v", "width": float64(560), "height": float64(315)},
			}},
			expected: VideoContent{Videos: []VideoRef{{URL: "https://embed/v", OriginalURL: "https://watch/v", Width: 560, Height: 315}}},
		},
		{
			name:      "drawing",
			blockType: BlockTypeDrawing,
			raw: map[string]any{
				"strokes": []any{map[string]any{
					"points": []any{map[string]any{"x": float64(1), "y": float64(2)}},
					"color":  "#ff0000",
				}},
				"width":  float64(400),
				"height": float64(300),
			},
			expected: DrawingContent{
				Strokes: []Stroke{{Points: []StrokePoint{{X: 1, Y: 2}}, Color: "#ff0000"}},
				Width:   400,
				Height:  300,
			},
		},
		{
			name:      "list",
			blockType: BlockTypeList,
			raw: map[string]any{"heading": "Groceries", "items": []any{
				map[string]any{"text": "Milk", "sublists": []any{}, "images": []any{}, "videos": []any{}},
			}},
			expected: ListContent{Heading: "Groceries", Items: []ListItem{NewListItem("Milk")}},
		},
		{
			name:      "checkbox",
			blockType: BlockTypeCheckbox,
			raw: map[string]any{"heading": "Chores", "items": []any{
				map[string]any{"text": "Dishes", "checked": true, "sublists": []any{}, "images": []any{}, "videos": []any{}},
			}},
			expected: CheckboxContent{Heading: "Chores", Items: []CheckboxItem{{
				Text:     "Dishes",
				Checked:  true,
				Sublists: []CheckboxItem{},
				Images:   []ImageRef{},
				Videos:   []VideoRef{},
			}}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			content, changed := Normalize(testCase.blockType, testCase.raw)
			if changed {
				t.Fatalf("canonical content should not be reported as changed")
			}
			if !reflect.DeepEqual(content, testCase.expected) {
				t.Fatalf("unexpected content: %#v", content)
			}
		})
	}
}

func TestNormalizeStripsNumericKeysAndKeepsTheRest(t *testing.T) {
	content, changed := Normalize(BlockTypeEquation, map[string]any{
		"0":     "a",
		"1":     "b",
		"latex": "x^2",
		"note":  "kept",
	})
	if !changed {
		t.Fatalf("expected corruption repair to be reported")
	}
	equation, ok := content.(EquationContent)
	if !ok {
		t.Fatalf("expected equation content, got %#v", content)
	}
	if equation.Latex != "x^2" {
		t.Fatalf("expected surviving latex, got %q", equation.Latex)
	}
	if !reflect.DeepEqual(equation.Extra, map[string]any{"note": "kept"}) {
		t.Fatalf("expected non-numeric key to survive, got %#v", equation.Extra)
	}
}

func TestNormalizeParagraphUnwrapsTextObject(t *testing.T) {
	content, changed := Normalize(BlockTypeParagraph, map[string]any{"text": "hi"})
	if !changed {
		t.Fatalf("expected unwrap to be reported as a change")
	}
	if content.(ParagraphContent).Text != "hi" {
		t.Fatalf("unexpected paragraph: %#v", content)
	}
}

func TestNormalizeHeadingWrapsLegacyString(t *testing.T) {
	content, changed := Normalize(BlockTypeHeading, "Quarterly Plan")
	if !changed {
		t.Fatalf("expected wrap to be reported as a change")
	}
	expected := HeadingContent{Text: "Quarterly Plan", FontSize: 24, Color: "#000000"}
	if !reflect.DeepEqual(content, expected) {
		t.Fatalf("unexpected heading: %#v", content)
	}
}

func TestNormalizeHeadingRepairsCorruptedObject(t *testing.T) {
	content, changed := Normalize(BlockTypeHeading, map[string]any{
		"0":     "junk",
		"color": "#ff0000",
	})
	if !changed {
		t.Fatalf("expected repair to be reported")
	}
	heading := content.(HeadingContent)
	if heading.Text != "Heading" || heading.FontSize != 24 {
		t.Fatalf("expected defaults for missing fields, got %#v", heading)
	}
	if heading.Color != "#ff0000" {
		t.Fatalf("expected surviving color, got %q", heading.Color)
	}
}

func TestNormalizeHeadingResetsOutOfRangeFields(t *testing.T) {
	content, changed := Normalize(BlockTypeHeading, map[string]any{
		"text":     "T",
		"fontSize": float64(100),
		"color":    "red",
	})
	if !changed {
		t.Fatalf("expected invalid fields to be reported")
	}
	heading := content.(HeadingContent)
	if heading.FontSize != 24 {
		t.Fatalf("expected out-of-range font size to reset, got %d", heading.FontSize)
	}
	if heading.Color != "#000000" {
		t.Fatalf("expected malformed color to reset, got %q", heading.Color)
	}
	if heading.Text != "T" {
		t.Fatalf("valid text should be untouched, got %q", heading.Text)
	}
}

func TestNormalizeHeadingResetsBlankStyleFields(t *testing.T) {
	content, changed := Normalize(BlockTypeHeading, map[string]any{
		"text":     "T",
		"fontSize": float64(0),
		"color":    "",
	})
	if !changed {
		t.Fatalf("expected blank fields to be reported")
	}
	heading := content.(HeadingContent)
	if heading.FontSize != 24 || heading.Color != "#000000" {
		t.Fatalf("expected style defaults, got %#v", heading)
	}
}

func TestNormalizeEquationDefaultsToQuadraticFormula(t *testing.T) {
	content, changed := Normalize(BlockTypeEquation, map[string]any{"0": "junk"})
	if !changed {
		t.Fatalf("expected repair to be reported")
	}
	if content.(EquationContent).Latex != QuadraticFormulaLatex {
		t.Fatalf("unexpected latex: %#v", content)
	}
}

func TestNormalizeImageRebuildsFromGarbage(t *testing.T) {
	content, changed := Normalize(BlockTypeImage, "nope")
	if !changed {
		t.Fatalf("expected rebuild to be reported")
	}
	image := content.(ImageContent)
	if image.Images == nil || len(image.Images) != 0 {
		t.Fatalf("expected empty images, got %#v", image.Images)
	}
}

func TestNormalizeImageKeepsSurvivingRefs(t *testing.T) {
	content, changed := Normalize(BlockTypeImage, map[string]any{
		"0": "junk",
		"images": []any{
			map[string]any{"url": "u", "width": float64(10), "height": float64(20)},
		},
	})
	if !changed {
		t.Fatalf("expected repair to be reported")
	}
	image := content.(ImageContent)
	expected := []ImageRef{{URL: "u", Width: 10, Height: 20}}
	if !reflect.DeepEqual(image.Images, expected) {
		t.Fatalf("expected surviving refs, got %#v", image.Images)
	}
}

func TestNormalizeDrawingKeepsSurvivingFields(t *testing.T) {
	content, changed := Normalize(BlockTypeDrawing, map[string]any{
		"0":     "junk",
		"width": float64(640),
	})
	if !changed {
		t.Fatalf("expected repair to be reported")
	}
	drawing := content.(DrawingContent)
	if drawing.Width != 640 {
		t.Fatalf("expected surviving width, got %d", drawing.Width)
	}
	if drawing.Height != 300 {
		t.Fatalf("expected default height, got %d", drawing.Height)
	}
	if len(drawing.Strokes) != 0 {
		t.Fatalf("expected empty strokes, got %#v", drawing.Strokes)
	}
}

func TestNormalizeDrawingResetsOutOfRangeSize(t *testing.T) {
	content, _ := Normalize(BlockTypeDrawing, map[string]any{
		"strokes": []any{},
		"width":   float64(1000),
		"height":  float64(10),
	})
	drawing := content.(DrawingContent)
	if drawing.Width != 400 || drawing.Height != 300 {
		t.Fatalf("expected size defaults, got %dx%d", drawing.Width, drawing.Height)
	}
}

func TestNormalizeListCoercesLegacyStringArray(t *testing.T) {
	content, changed := Normalize(BlockTypeList, []any{"x", "y"})
	if !changed {
		t.Fatalf("expected coercion to be reported")
	}
	expected := ListContent{Heading: "List", Items: []ListItem{NewListItem("x"), NewListItem("y")}}
	if !reflect.DeepEqual(content, expected) {
		t.Fatalf("unexpected list: %#v", content)
	}
}

func TestNormalizeListResetsArrayShapedObject(t *testing.T) {
	content, changed := Normalize(BlockTypeList, map[string]any{"0": "x", "1": "y"})
	if !changed {
		t.Fatalf("expected reset to be reported")
	}
	if !reflect.DeepEqual(content, DefaultContent(BlockTypeList)) {
		t.Fatalf("expected list default, got %#v", content)
	}
}

func TestNormalizeListRebuildsItemsWithBareStrings(t *testing.T) {
	content, changed := Normalize(BlockTypeList, map[string]any{
		"heading": "Mixed",
		"items":   []any{"a", map[string]any{"text": "b"}},
	})
	if !changed {
		t.Fatalf("expected rebuild to be reported")
	}
	expected := ListContent{Heading: "Mixed", Items: []ListItem{NewListItem("a"), NewListItem("b")}}
	if !reflect.DeepEqual(content, expected) {
		t.Fatalf("unexpected list: %#v", content)
	}
}

func TestNormalizeListFillsMissingItems(t *testing.T) {
	content, changed := Normalize(BlockTypeList, map[string]any{"heading": "Empty"})
	if !changed {
		t.Fatalf("expected rebuild to be reported")
	}
	list := content.(ListContent)
	if list.Heading != "Empty" {
		t.Fatalf("expected surviving heading, got %q", list.Heading)
	}
	if len(list.Items) != 1 || list.Items[0].Text != "Item 1" {
		t.Fatalf("expected one default item, got %#v", list.Items)
	}
}

func TestNormalizeCheckboxCoercesEveryDepth(t *testing.T) {
	content, changed := Normalize(BlockTypeCheckbox, map[string]any{
		"heading": "Tasks",
		"items": []any{
			map[string]any{
				"text": "top",
				"sublists": []any{
					map[string]any{
						"text":     "mid",
						"sublists": []any{"leaf"},
					},
				},
			},
		},
	})
	if !changed {
		t.Fatalf("expected coercion to be reported")
	}
	checklist := content.(CheckboxContent)
	top := checklist.Items[0]
	if top.Checked {
		t.Fatalf("expected missing checked to default to false")
	}
	mid := top.Sublists[0]
	if mid.Text != "mid" || mid.Checked {
		t.Fatalf("unexpected mid item: %#v", mid)
	}
	leaf := mid.Sublists[0]
	if leaf.Text != "leaf" || leaf.Checked {
		t.Fatalf("unexpected leaf item: %#v", leaf)
	}
	if leaf.Sublists == nil || leaf.Images == nil || leaf.Videos == nil {
		t.Fatalf("expected canonical collections at every depth, got %#v", leaf)
	}
}

func TestNormalizeUnknownTypeFallsBackToParagraph(t *testing.T) {
	content, changed := Normalize(BlockType("tabla"), "salvaged text")
	if !changed {
		t.Fatalf("expected fallback to be reported")
	}
	if content.(ParagraphContent).Text != "salvaged text" {
		t.Fatalf("unexpected fallback content: %#v", content)
	}
}

func TestContainsNumericKeysDescendsNestedValues(t *testing.T) {
	if ContainsNumericKeys(map[string]any{"items": []any{map[string]any{"0": "a"}}}) == false {
		t.Fatalf("expected nested numeric key to be detected")
	}
	if ContainsNumericKeys(map[string]any{"heading": "ok", "items": []any{}}) {
		t.Fatalf("clean content should not be flagged")
	}
}
