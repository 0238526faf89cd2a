package blocks

import (
	"math"
	"strconv"
)

// Normalize returns the canonical payload for the given block type and an
// arbitrary decoded JSON value, which may carry a legacy shape or the
// numeric-key artifact left behind when an array was spread into an object.
// The second result reports whether the payload had to be migrated or
// repaired. Normalize never fails: unrecoverable input degrades to the
// type's default payload, and an unknown block type falls back to a
// paragraph string.
func Normalize(blockType BlockType, raw any) (Content, bool) {
	switch blockType {
	case BlockTypeParagraph:
		return normalizeParagraph(raw)
	case BlockTypeHeading:
		return normalizeHeading(raw)
	case BlockTypeEquation:
		return normalizeEquation(raw)
	case BlockTypeImage:
		return normalizeImage(raw)
	case BlockTypeVideo:
		return normalizeVideo(raw)
	case BlockTypeDrawing:
		return normalizeDrawing(raw)
	case BlockTypeList:
		return normalizeList(raw)
	case BlockTypeCheckbox:
		return normalizeCheckbox(raw)
	default:
		content, _ := normalizeParagraph(raw)
		return content, true
	}
}

// ContainsNumericKeys reports whether the decoded JSON value carries the
// corruption signature: an object key that parses as a number. The check
// descends into nested objects and arrays.
func ContainsNumericKeys(raw any) bool {
	switch value := raw.(type) {
	case map[string]any:
		for key, nested := range value {
			if isNumericKey(key) {
				return true
			}
			if ContainsNumericKeys(nested) {
				return true
			}
		}
	case []any:
		for _, element := range value {
			if ContainsNumericKeys(element) {
				return true
			}
		}
	}
	return false
}

// isNumericKey mirrors the coerce-to-number heuristic of the original data:
// "0", "1", "2.5" are numeric; the empty key is not, since no corruption
// mode produces it and dropping it would silently eat a map entry.
func isNumericKey(key string) bool {
	if key == "" {
		return false
	}
	_, err := strconv.ParseFloat(key, 64)
	return err == nil
}

// stripNumericKeys copies every non-numeric key into a fresh map and
// reports whether any numeric key was dropped.
func stripNumericKeys(corrupted map[string]any) (map[string]any, bool) {
	clean := make(map[string]any, len(corrupted))
	dropped := false
	for key, value := range corrupted {
		if isNumericKey(key) {
			dropped = true
			continue
		}
		clean[key] = value
	}
	return clean, dropped
}

func normalizeParagraph(raw any) (Content, bool) {
	switch value := raw.(type) {
	case string:
		return ParagraphContent{Text: value}, false
	case map[string]any:
		clean, _ := stripNumericKeys(value)
		if text, ok := clean["text"].(string); ok {
			return ParagraphContent{Text: text}, true
		}
		return ParagraphContent{}, true
	default:
		return ParagraphContent{}, true
	}
}

func normalizeHeading(raw any) (Content, bool) {
	switch value := raw.(type) {
	case string:
		return HeadingContent{
			Text:     value,
			FontSize: defaultHeadingFontSize,
			Color:    defaultHeadingColor,
		}, true
	case map[string]any:
		clean, changed := stripNumericKeys(value)

		heading := HeadingContent{}
		if text, ok := clean["text"].(string); ok {
			heading.Text = text
		} else {
			heading.Text = defaultHeadingText
			changed = true
		}
		if size, ok := intFromAny(clean["fontSize"]); ok {
			heading.FontSize = size
		} else {
			heading.FontSize = defaultHeadingFontSize
			changed = true
		}
		if color, ok := clean["color"].(string); ok {
			heading.Color = color
		} else {
			heading.Color = defaultHeadingColor
			changed = true
		}

		invalid := heading.Validate()
		if fieldInvalid(invalid, "fontSize") {
			heading.FontSize = defaultHeadingFontSize
			changed = true
		}
		if fieldInvalid(invalid, "color") {
			heading.Color = defaultHeadingColor
			changed = true
		}

		heading.Extra = extraKeys(clean, "text", "fontSize", "color")
		return heading, changed
	default:
		return DefaultContent(BlockTypeHeading), true
	}
}

func normalizeEquation(raw any) (Content, bool) {
	switch value := raw.(type) {
	case string:
		return EquationContent{Latex: value}, true
	case map[string]any:
		clean, changed := stripNumericKeys(value)
		equation := EquationContent{}
		if latex, ok := clean["latex"].(string); ok {
			equation.Latex = latex
		} else {
			equation.Latex = QuadraticFormulaLatex
			changed = true
		}
		equation.Extra = extraKeys(clean, "latex")
		return equation, changed
	default:
		return EquationContent{Latex: QuadraticFormulaLatex}, true
	}
}

func normalizeImage(raw any) (Content, bool) {
	value, ok := raw.(map[string]any)
	if !ok {
		return ImageContent{Images: []ImageRef{}}, true
	}
	clean, changed := stripNumericKeys(value)
	images, coerced := coerceImageRefs(clean["images"])
	return ImageContent{
		Images: images,
		Extra:  extraKeys(clean, "images"),
	}, changed || coerced
}

func normalizeVideo(raw any) (Content, bool) {
	value, ok := raw.(map[string]any)
	if !ok {
		return VideoContent{Videos: []VideoRef{}}, true
	}
	clean, changed := stripNumericKeys(value)
	videos, coerced := coerceVideoRefs(clean["videos"])
	return VideoContent{
		Videos: videos,
		Extra:  extraKeys(clean, "videos"),
	}, changed || coerced
}

func normalizeDrawing(raw any) (Content, bool) {
	value, ok := raw.(map[string]any)
	if !ok {
		return DefaultContent(BlockTypeDrawing), true
	}
	clean, changed := stripNumericKeys(value)

	drawing := DrawingContent{}
	strokes, coerced := coerceStrokes(clean["strokes"])
	drawing.Strokes = strokes
	changed = changed || coerced

	if width, ok := intFromAny(clean["width"]); ok {
		drawing.Width = width
	} else {
		drawing.Width = defaultDrawingWidth
		changed = true
	}
	if height, ok := intFromAny(clean["height"]); ok {
		drawing.Height = height
	} else {
		drawing.Height = defaultDrawingHeight
		changed = true
	}

	invalid := drawing.Validate()
	if fieldInvalid(invalid, "width") {
		drawing.Width = defaultDrawingWidth
		changed = true
	}
	if fieldInvalid(invalid, "height") {
		drawing.Height = defaultDrawingHeight
		changed = true
	}

	drawing.Extra = extraKeys(clean, "strokes", "width", "height")
	return drawing, changed
}

func normalizeList(raw any) (Content, bool) {
	switch value := raw.(type) {
	case string:
		return DefaultContent(BlockTypeList), true
	case []any:
		items := make([]ListItem, 0, len(value))
		for _, element := range value {
			switch entry := element.(type) {
			case string:
				items = append(items, NewListItem(entry))
			case map[string]any:
				item, _ := coerceListItem(entry)
				items = append(items, item)
			}
		}
		return ListContent{Heading: defaultListHeading, Items: items}, true
	case map[string]any:
		if _, arrayShaped := value["0"]; arrayShaped {
			return DefaultContent(BlockTypeList), true
		}
		clean, changed := stripNumericKeys(value)

		list := ListContent{}
		if heading, ok := clean["heading"].(string); ok {
			list.Heading = heading
		} else {
			list.Heading = defaultListHeading
			changed = true
		}

		rawItems, ok := clean["items"].([]any)
		if !ok {
			list.Items = []ListItem{NewListItem(defaultItemText)}
			changed = true
		} else {
			items := make([]ListItem, 0, len(rawItems))
			for _, element := range rawItems {
				item, coerced := coerceListItem(element)
				items = append(items, item)
				changed = changed || coerced
			}
			list.Items = items
		}

		list.Extra = extraKeys(clean, "heading", "items")
		return list, changed
	default:
		return DefaultContent(BlockTypeList), true
	}
}

func normalizeCheckbox(raw any) (Content, bool) {
	switch value := raw.(type) {
	case string:
		return DefaultContent(BlockTypeCheckbox), true
	case []any:
		items := make([]CheckboxItem, 0, len(value))
		for _, element := range value {
			switch entry := element.(type) {
			case string:
				items = append(items, NewCheckboxItem(entry))
			case map[string]any:
				item, _ := coerceCheckboxItem(entry)
				items = append(items, item)
			}
		}
		return CheckboxContent{Heading: defaultCheckboxHeading, Items: items}, true
	case map[string]any:
		if _, arrayShaped := value["0"]; arrayShaped {
			return DefaultContent(BlockTypeCheckbox), true
		}
		clean, changed := stripNumericKeys(value)

		checklist := CheckboxContent{}
		if heading, ok := clean["heading"].(string); ok {
			checklist.Heading = heading
		} else {
			checklist.Heading = defaultCheckboxHeading
			changed = true
		}

		rawItems, ok := clean["items"].([]any)
		if !ok {
			checklist.Items = []CheckboxItem{NewCheckboxItem(defaultItemText)}
			changed = true
		} else {
			items := make([]CheckboxItem, 0, len(rawItems))
			for _, element := range rawItems {
				item, coerced := coerceCheckboxItem(element)
				items = append(items, item)
				changed = changed || coerced
			}
			checklist.Items = items
		}

		checklist.Extra = extraKeys(clean, "heading", "items")
		return checklist, changed
	default:
		return DefaultContent(BlockTypeCheckbox), true
	}
}

// coerceListItem rebuilds one list entry into the canonical item shape.
// Bare strings are wrapped; objects keep recognized fields and gain
// empty-collection defaults for anything missing.
func coerceListItem(raw any) (ListItem, bool) {
	switch value := raw.(type) {
	case string:
		return NewListItem(value), true
	case map[string]any:
		clean, changed := stripNumericKeys(value)

		item := NewListItem("")
		if text, ok := clean["text"].(string); ok {
			item.Text = text
		} else {
			changed = true
		}

		if rawSublists, ok := clean["sublists"].([]any); ok {
			sublists := make([]ListItem, 0, len(rawSublists))
			for _, element := range rawSublists {
				child, coerced := coerceListItem(element)
				sublists = append(sublists, child)
				changed = changed || coerced
			}
			item.Sublists = sublists
		} else {
			changed = true
		}

		images, coerced := coerceImageRefs(clean["images"])
		item.Images = images
		changed = changed || coerced

		videos, coerced := coerceVideoRefs(clean["videos"])
		item.Videos = videos
		changed = changed || coerced

		if hasUnknownKeys(clean, "text", "sublists", "images", "videos") {
			changed = true
		}
		return item, changed
	default:
		return NewListItem(""), true
	}
}

// coerceCheckboxItem is coerceListItem for checklist entries. It applies
// recursively down every sublists chain so nested entries are never left
// in the legacy plain-item shape.
func coerceCheckboxItem(raw any) (CheckboxItem, bool) {
	switch value := raw.(type) {
	case string:
		return NewCheckboxItem(value), true
	case map[string]any:
		clean, changed := stripNumericKeys(value)

		item := NewCheckboxItem("")
		if text, ok := clean["text"].(string); ok {
			item.Text = text
		} else {
			changed = true
		}
		if checked, ok := clean["checked"].(bool); ok {
			item.Checked = checked
		} else {
			changed = true
		}

		if rawSublists, ok := clean["sublists"].([]any); ok {
			sublists := make([]CheckboxItem, 0, len(rawSublists))
			for _, element := range rawSublists {
				child, coerced := coerceCheckboxItem(element)
				sublists = append(sublists, child)
				changed = changed || coerced
			}
			item.Sublists = sublists
		} else {
			changed = true
		}

		images, coerced := coerceImageRefs(clean["images"])
		item.Images = images
		changed = changed || coerced

		videos, coerced := coerceVideoRefs(clean["videos"])
		item.Videos = videos
		changed = changed || coerced

		if hasUnknownKeys(clean, "text", "checked", "sublists", "images", "videos") {
			changed = true
		}
		return item, changed
	default:
		return NewCheckboxItem(""), true
	}
}

func coerceImageRefs(raw any) ([]ImageRef, bool) {
	elements, ok := raw.([]any)
	if !ok {
		return []ImageRef{}, true
	}
	refs := make([]ImageRef, 0, len(elements))
	changed := false
	for _, element := range elements {
		entry, ok := element.(map[string]any)
		if !ok {
			changed = true
			continue
		}
		ref := ImageRef{}
		if url, ok := entry["url"].(string); ok {
			ref.URL = url
		} else {
			changed = true
		}
		if width, ok := intFromAny(entry["width"]); ok && width >= 0 {
			ref.Width = width
		} else {
			changed = true
		}
		if height, ok := intFromAny(entry["height"]); ok && height >= 0 {
			ref.Height = height
		} else {
			changed = true
		}
		if hasUnknownKeys(entry, "url", "width", "height") {
			changed = true
		}
		refs = append(refs, ref)
	}
	return refs, changed
}

func coerceVideoRefs(raw any) ([]VideoRef, bool) {
	elements, ok := raw.([]any)
	if !ok {
		return []VideoRef{}, true
	}
	refs := make([]VideoRef, 0, len(elements))
	changed := false
	for _, element := range elements {
		entry, ok := element.(map[string]any)
		if !ok {
			changed = true
			continue
		}
		ref := VideoRef{}
		if url, ok := entry["url"].(string); ok {
			ref.URL = url
		} else {
			changed = true
		}
		if original, ok := entry["originalUrl"].(string); ok {
			ref.OriginalURL = original
		} else {
			changed = true
		}
		if width, ok := intFromAny(entry["width"]); ok && width >= 0 {
			ref.Width = width
		} else {
			changed = true
		}
		if height, ok := intFromAny(entry["height"]); ok && height >= 0 {
			ref.Height = height
		} else {
			changed = true
		}
		if hasUnknownKeys(entry, "url", "originalUrl", "width", "height") {
			changed = true
		}
		refs = append(refs, ref)
	}
	return refs, changed
}

func coerceStrokes(raw any) ([]Stroke, bool) {
	elements, ok := raw.([]any)
	if !ok {
		return []Stroke{}, true
	}
	strokes := make([]Stroke, 0, len(elements))
	changed := false
	for _, element := range elements {
		entry, ok := element.(map[string]any)
		if !ok {
			changed = true
			continue
		}
		stroke := Stroke{Points: []StrokePoint{}}
		if rawPoints, ok := entry["points"].([]any); ok {
			points := make([]StrokePoint, 0, len(rawPoints))
			for _, rawPoint := range rawPoints {
				pointEntry, ok := rawPoint.(map[string]any)
				if !ok {
					changed = true
					continue
				}
				point := StrokePoint{}
				if x, ok := floatFromAny(pointEntry["x"]); ok {
					point.X = x
				} else {
					changed = true
				}
				if y, ok := floatFromAny(pointEntry["y"]); ok {
					point.Y = y
				} else {
					changed = true
				}
				if hasUnknownKeys(pointEntry, "x", "y") {
					changed = true
				}
				points = append(points, point)
			}
			stroke.Points = points
		} else {
			changed = true
		}
		if color, ok := entry["color"].(string); ok {
			stroke.Color = color
		} else {
			stroke.Color = defaultStrokeColor
			changed = true
		}
		if fieldInvalid(stroke.Validate(), "color") {
			stroke.Color = defaultStrokeColor
			changed = true
		}
		if hasUnknownKeys(entry, "points", "color") {
			changed = true
		}
		strokes = append(strokes, stroke)
	}
	return strokes, changed
}

// extraKeys collects the non-canonical keys that must survive repair,
// returning nil when nothing needs preserving.
func extraKeys(clean map[string]any, canonical ...string) map[string]any {
	var extra map[string]any
	for key, value := range clean {
		if containsKey(canonical, key) {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[key] = value
	}
	return extra
}

func hasUnknownKeys(entry map[string]any, canonical ...string) bool {
	for key := range entry {
		if !containsKey(canonical, key) {
			return true
		}
	}
	return false
}

func containsKey(keys []string, key string) bool {
	for _, candidate := range keys {
		if candidate == key {
			return true
		}
	}
	return false
}

func intFromAny(raw any) (int, bool) {
	switch value := raw.(type) {
	case float64:
		if value == math.Trunc(value) {
			return int(value), true
		}
	case int:
		return value, true
	case int64:
		return int(value), true
	}
	return 0, false
}

func floatFromAny(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}
