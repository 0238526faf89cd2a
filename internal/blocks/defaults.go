package blocks

// Defaults used for freshly created blocks and for filling fields the
// normalizer could not recover.
const (
	// QuadraticFormulaLatex seeds new equation blocks.
	QuadraticFormulaLatex = `x = \frac{-b \pm \sqrt{b^2-4ac}}{2a}`

	defaultHeadingText     = "Heading"
	defaultHeadingFontSize = 24
	defaultHeadingColor    = "#000000"

	defaultListHeading     = "List"
	defaultCheckboxHeading = "Checklist"
	defaultItemText        = "Item 1"

	newListHeading     = "List Heading"
	newCheckboxHeading = "Checklist Heading"

	defaultDrawingWidth  = 400
	defaultDrawingHeight = 300
	defaultStrokeColor   = "#000000"

	minHeadingFontSize = 12
	maxHeadingFontSize = 72
	minDrawingWidth    = 200
	maxDrawingWidth    = 800
	minDrawingHeight   = 150
	maxDrawingHeight   = 600
)

// DefaultContent returns the canonical payload for a freshly created or
// freshly type-switched block. Unknown types fall back to an empty paragraph.
func DefaultContent(blockType BlockType) Content {
	switch blockType {
	case BlockTypeParagraph:
		return ParagraphContent{}
	case BlockTypeHeading:
		return HeadingContent{
			Text:     defaultHeadingText,
			FontSize: defaultHeadingFontSize,
			Color:    defaultHeadingColor,
		}
	case BlockTypeEquation:
		return EquationContent{Latex: QuadraticFormulaLatex}
	case BlockTypeImage:
		return ImageContent{Images: []ImageRef{}}
	case BlockTypeVideo:
		return VideoContent{Videos: []VideoRef{}}
	case BlockTypeDrawing:
		return DrawingContent{
			Strokes: []Stroke{},
			Width:   defaultDrawingWidth,
			Height:  defaultDrawingHeight,
		}
	case BlockTypeList:
		return ListContent{
			Heading: newListHeading,
			Items:   []ListItem{NewListItem(defaultItemText)},
		}
	case BlockTypeCheckbox:
		return CheckboxContent{
			Heading: newCheckboxHeading,
			Items:   []CheckboxItem{NewCheckboxItem(defaultItemText)},
		}
	default:
		return ParagraphContent{}
	}
}

// NewListItem returns a canonical list item with empty collections.
func NewListItem(text string) ListItem {
	return ListItem{
		Text:     text,
		Sublists: []ListItem{},
		Images:   []ImageRef{},
		Videos:   []VideoRef{},
	}
}

// NewCheckboxItem returns a canonical unchecked checklist item.
func NewCheckboxItem(text string) CheckboxItem {
	return CheckboxItem{
		Text:     text,
		Checked:  false,
		Sublists: []CheckboxItem{},
		Images:   []ImageRef{},
		Videos:   []VideoRef{},
	}
}
