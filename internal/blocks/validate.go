package blocks

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// hexColorPattern matches the exact #RRGGBB form the canonical schema requires.
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validation detects canonical-shape violations; repair lives in the
// normalizer. Keeping the two apart makes each testable on its own.

// Validate reports range and format violations of the canonical heading shape.
func (c HeadingContent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FontSize,
			validation.Required,
			validation.Min(minHeadingFontSize),
			validation.Max(maxHeadingFontSize)),
		validation.Field(&c.Color,
			validation.Required,
			validation.Match(hexColorPattern)),
	)
}

// Validate reports range and format violations of the canonical drawing shape.
func (c DrawingContent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Width,
			validation.Required,
			validation.Min(minDrawingWidth),
			validation.Max(maxDrawingWidth)),
		validation.Field(&c.Height,
			validation.Required,
			validation.Min(minDrawingHeight),
			validation.Max(maxDrawingHeight)),
		validation.Field(&c.Strokes),
	)
}

// Validate reports format violations of a single stroke.
func (s Stroke) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Color,
			validation.Required,
			validation.Match(hexColorPattern)),
	)
}

// Validate reports negative display sizes on an image reference.
func (r ImageRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Width, validation.Min(0)),
		validation.Field(&r.Height, validation.Min(0)),
	)
}

// Validate reports negative display sizes on a video reference.
func (r VideoRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Width, validation.Min(0)),
		validation.Field(&r.Height, validation.Min(0)),
	)
}

// fieldInvalid reports whether the validation result flags the given
// struct field (keyed by its JSON name, as ozzo does).
func fieldInvalid(err error, field string) bool {
	if err == nil {
		return false
	}
	fields, ok := err.(validation.Errors)
	if !ok {
		return true
	}
	_, flagged := fields[field]
	return flagged
}
