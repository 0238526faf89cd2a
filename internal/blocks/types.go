package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BlockType enumerates the supported content block kinds.
type BlockType string

const (
	// BlockTypeParagraph holds a plain run of text.
	BlockTypeParagraph BlockType = "paragraph"
	// BlockTypeHeading holds styled heading text.
	BlockTypeHeading BlockType = "heading"
	// BlockTypeList holds a nested bullet list.
	BlockTypeList BlockType = "list"
	// BlockTypeCheckbox holds a nested checklist.
	BlockTypeCheckbox BlockType = "checkbox"
	// BlockTypeImage holds one or more embedded images.
	BlockTypeImage BlockType = "image"
	// BlockTypeVideo holds one or more embedded videos.
	BlockTypeVideo BlockType = "video"
	// BlockTypeEquation holds a LaTeX expression.
	BlockTypeEquation BlockType = "equation"
	// BlockTypeDrawing holds freehand stroke data.
	BlockTypeDrawing BlockType = "drawing"
)

// Known reports whether the value names a supported block kind.
func (t BlockType) Known() bool {
	switch t {
	case BlockTypeParagraph, BlockTypeHeading, BlockTypeList, BlockTypeCheckbox,
		BlockTypeImage, BlockTypeVideo, BlockTypeEquation, BlockTypeDrawing:
		return true
	}
	return false
}

var (
	// ErrInvalidBlockID indicates that a block identifier is empty or exceeds storage bounds.
	ErrInvalidBlockID = errors.New("blocks: invalid block id")
)

const maxIdentifierLength = 190

// BlockID represents a validated block identifier.
type BlockID string

// NewBlockID validates raw input and returns a BlockID.
func NewBlockID(rawInput string) (BlockID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidBlockID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidBlockID, maxIdentifierLength)
	}
	return BlockID(trimmed), nil
}

// String returns the underlying string identifier.
func (id BlockID) String() string {
	return string(id)
}

// Content is the tagged union of canonical block payloads. Exactly one
// concrete content type exists per BlockType.
type Content interface {
	// Type names the block kind this payload belongs to.
	Type() BlockType
}

// ParagraphContent is the canonical paragraph payload. It serializes as a
// bare JSON string, the shape the editor currently writes.
type ParagraphContent struct {
	Text string
}

// Type implements Content.
func (ParagraphContent) Type() BlockType { return BlockTypeParagraph }

// MarshalJSON emits the bare string form.
func (c ParagraphContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Text)
}

// HeadingContent is the canonical heading payload.
type HeadingContent struct {
	Text     string `json:"text"`
	FontSize int    `json:"fontSize"`
	Color    string `json:"color"`

	// Extra carries non-numeric keys that survived normalization but are
	// not part of the canonical shape. Serialized inline.
	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (HeadingContent) Type() BlockType { return BlockTypeHeading }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c HeadingContent) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(map[string]any{
		"text":     c.Text,
		"fontSize": c.FontSize,
		"color":    c.Color,
	}, c.Extra)
}

// EquationContent is the canonical equation payload.
type EquationContent struct {
	Latex string `json:"latex"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (EquationContent) Type() BlockType { return BlockTypeEquation }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c EquationContent) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(map[string]any{"latex": c.Latex}, c.Extra)
}

// ImageRef locates one embedded image and its display size.
type ImageRef struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoRef locates one embedded video and its display size.
type VideoRef struct {
	URL         string `json:"url"`
	OriginalURL string `json:"originalUrl"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// ImageContent is the canonical image payload.
type ImageContent struct {
	Images []ImageRef `json:"images"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (ImageContent) Type() BlockType { return BlockTypeImage }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c ImageContent) MarshalJSON() ([]byte, error) {
	images := c.Images
	if images == nil {
		images = []ImageRef{}
	}
	return marshalWithExtra(map[string]any{"images": images}, c.Extra)
}

// VideoContent is the canonical video payload.
type VideoContent struct {
	Videos []VideoRef `json:"videos"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (VideoContent) Type() BlockType { return BlockTypeVideo }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c VideoContent) MarshalJSON() ([]byte, error) {
	videos := c.Videos
	if videos == nil {
		videos = []VideoRef{}
	}
	return marshalWithExtra(map[string]any{"videos": videos}, c.Extra)
}

// StrokePoint is one sampled point of a freehand stroke.
type StrokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous freehand line.
type Stroke struct {
	Points []StrokePoint `json:"points"`
	Color  string        `json:"color"`
}

// DrawingContent is the canonical freehand drawing payload.
type DrawingContent struct {
	Strokes []Stroke `json:"strokes"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (DrawingContent) Type() BlockType { return BlockTypeDrawing }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c DrawingContent) MarshalJSON() ([]byte, error) {
	strokes := c.Strokes
	if strokes == nil {
		strokes = []Stroke{}
	}
	return marshalWithExtra(map[string]any{
		"strokes": strokes,
		"width":   c.Width,
		"height":  c.Height,
	}, c.Extra)
}

// ListItem is one entry of a bullet list. Sublists nest without a depth bound.
type ListItem struct {
	Text     string     `json:"text"`
	Sublists []ListItem `json:"sublists"`
	Images   []ImageRef `json:"images"`
	Videos   []VideoRef `json:"videos"`
}

// ListContent is the canonical bullet list payload.
type ListContent struct {
	Heading string     `json:"heading"`
	Items   []ListItem `json:"items"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (ListContent) Type() BlockType { return BlockTypeList }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c ListContent) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []ListItem{}
	}
	return marshalWithExtra(map[string]any{"heading": c.Heading, "items": items}, c.Extra)
}

// CheckboxItem is one entry of a checklist. The checked flag applies at
// every nesting depth; sublists hold CheckboxItem, not ListItem.
type CheckboxItem struct {
	Text     string         `json:"text"`
	Checked  bool           `json:"checked"`
	Sublists []CheckboxItem `json:"sublists"`
	Images   []ImageRef     `json:"images"`
	Videos   []VideoRef     `json:"videos"`
}

// CheckboxContent is the canonical checklist payload.
type CheckboxContent struct {
	Heading string         `json:"heading"`
	Items   []CheckboxItem `json:"items"`

	Extra map[string]any `json:"-"`
}

// Type implements Content.
func (CheckboxContent) Type() BlockType { return BlockTypeCheckbox }

// MarshalJSON inlines retained extra keys next to the canonical fields.
func (c CheckboxContent) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []CheckboxItem{}
	}
	return marshalWithExtra(map[string]any{"heading": c.Heading, "items": items}, c.Extra)
}

// Block is one typed unit of a file body.
type Block struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Content Content   `json:"content"`

	repaired bool
}

// Repaired reports whether the last decode had to migrate or repair the
// block payload to reach the canonical shape.
func (b Block) Repaired() bool {
	return b.repaired
}

// UnmarshalJSON decodes the wire shape and immediately normalizes the
// payload, so in-memory content always satisfies the canonical schema.
func (b *Block) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID      string          `json:"id"`
		Type    BlockType       `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var raw any
	if len(wire.Content) > 0 {
		if err := json.Unmarshal(wire.Content, &raw); err != nil {
			return err
		}
	}

	content, changed := Normalize(wire.Type, raw)
	b.ID = wire.ID
	b.Type = wire.Type
	if !wire.Type.Known() {
		b.Type = BlockTypeParagraph
	}
	b.Content = content
	b.repaired = changed
	return nil
}

func marshalWithExtra(known map[string]any, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return json.Marshal(known)
	}
	merged := make(map[string]any, len(known)+len(extra))
	for key, value := range extra {
		merged[key] = value
	}
	for key, value := range known {
		merged[key] = value
	}
	return json.Marshal(merged)
}
