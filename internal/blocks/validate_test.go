package blocks

import "testing"

func TestHeadingValidateFlagsFieldsByJSONName(t *testing.T) {
	heading := HeadingContent{Text: "T", FontSize: 200, Color: "#123456"}
	err := heading.Validate()
	if err == nil {
		t.Fatalf("expected oversized font size to fail validation")
	}
	if !fieldInvalid(err, "fontSize") {
		t.Fatalf("expected fontSize to be flagged: %v", err)
	}
	if fieldInvalid(err, "color") {
		t.Fatalf("valid color should not be flagged: %v", err)
	}
}

func TestHeadingValidateAcceptsCanonicalShape(t *testing.T) {
	heading := HeadingContent{Text: "T", FontSize: 24, Color: "#000000"}
	if err := heading.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestDrawingValidateFlagsSizeAndStrokeColor(t *testing.T) {
	drawing := DrawingContent{
		Strokes: []Stroke{{Points: []StrokePoint{}, Color: "blue"}},
		Width:   50,
		Height:  300,
	}
	err := drawing.Validate()
	if err == nil {
		t.Fatalf("expected validation to fail")
	}
	if !fieldInvalid(err, "width") {
		t.Fatalf("expected width to be flagged: %v", err)
	}
	if fieldInvalid(err, "height") {
		t.Fatalf("valid height should not be flagged: %v", err)
	}
	if !fieldInvalid(err, "strokes") {
		t.Fatalf("expected malformed stroke color to surface: %v", err)
	}
}

func TestRefValidateRejectsNegativeSizes(t *testing.T) {
	if err := (ImageRef{URL: "u", Width: -1, Height: 10}).Validate(); err == nil {
		t.Fatalf("expected negative width to fail validation")
	}
	if err := (VideoRef{URL: "u", OriginalURL: "o", Width: 1, Height: 1}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
