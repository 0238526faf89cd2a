package transfer

import (
	"encoding/json"
	"time"

	"github.com/parchmentlab/parchment/internal/doctree"
)

// EditorVersion tags exported documents with the content format in use.
const EditorVersion = "2.0"

// ContentStructure advertises the content capabilities of the exporting
// editor so older importers can detect shapes they do not understand.
type ContentStructure struct {
	NestedSublists   bool `json:"nestedSublists"`
	CheckboxSublists bool `json:"checkboxSublists"`
	MultiImage       bool `json:"multiImage"`
	DrawingStrokes   bool `json:"drawingStrokes"`
}

func currentContentStructure() ContentStructure {
	return ContentStructure{
		NestedSublists:   true,
		CheckboxSublists: true,
		MultiImage:       true,
		DrawingStrokes:   true,
	}
}

// FileExport is the standalone JSON envelope for a single file.
type FileExport struct {
	doctree.File
	ExportedAtSeconds int64            `json:"exportedAt"`
	EditorVersion     string           `json:"editorVersion"`
	ContentStructure  ContentStructure `json:"contentStructure"`
}

// FolderExport is the standalone JSON envelope for a folder subtree.
type FolderExport struct {
	doctree.Folder
	ExportedAtSeconds int64            `json:"exportedAt"`
	EditorVersion     string           `json:"editorVersion"`
	ContentStructure  ContentStructure `json:"contentStructure"`
}

// ExportFile serializes one file into its export envelope.
func ExportFile(file doctree.File, now time.Time) ([]byte, error) {
	return json.MarshalIndent(FileExport{
		File:              file,
		ExportedAtSeconds: now.UTC().Unix(),
		EditorVersion:     EditorVersion,
		ContentStructure:  currentContentStructure(),
	}, "", "  ")
}

// ExportFolder serializes a folder subtree into its export envelope.
func ExportFolder(folder doctree.Folder, now time.Time) ([]byte, error) {
	return json.MarshalIndent(FolderExport{
		Folder:            folder,
		ExportedAtSeconds: now.UTC().Unix(),
		EditorVersion:     EditorVersion,
		ContentStructure:  currentContentStructure(),
	}, "", "  ")
}
