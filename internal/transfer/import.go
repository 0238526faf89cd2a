package transfer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/parchmentlab/parchment/internal/doctree"
)

var (
	// ErrMalformedImport indicates that an import payload is not valid JSON,
	// not an object, or carries a blank name. The import aborts with no
	// state change.
	ErrMalformedImport = errors.New("transfer: malformed import payload")
)

// Kind classifies an import payload.
type Kind string

const (
	// KindFile marks a payload carrying a single file.
	KindFile Kind = "file"
	// KindFolder marks a payload carrying a folder subtree.
	KindFolder Kind = "folder"
)

// ImportSummary counts what an import touched, surfaced to the user as a
// one-line result.
type ImportSummary struct {
	Folders        int
	Files          int
	BlocksRepaired int
}

// ImportResult is a decoded, normalized import payload ready to be
// appended into a tree. Exactly one of File or Folder is meaningful,
// selected by Kind.
type ImportResult struct {
	Kind    Kind
	File    doctree.File
	Folder  doctree.Folder
	Summary ImportSummary
}

// Decode parses an exported JSON document, classifies it as file- or
// folder-shaped by the presence of a content key, normalizes every block,
// and assigns fresh identifiers throughout so the imported subtree never
// collides with existing ids. A payload that is not a JSON object, or whose
// root node has no usable name, aborts with ErrMalformedImport.
func Decode(data []byte, ids doctree.IDProvider) (ImportResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if probe == nil {
		return ImportResult{}, fmt.Errorf("%w: null payload", ErrMalformedImport)
	}

	if _, fileShaped := probe["content"]; fileShaped {
		var file doctree.File
		if err := json.Unmarshal(data, &file); err != nil {
			return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		if _, err := doctree.NewNodeName(file.Name); err != nil {
			return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		result := ImportResult{Kind: KindFile}
		summary := &result.Summary
		file, err := freshFile(file, ids, summary)
		if err != nil {
			return ImportResult{}, err
		}
		result.File = file
		return result, nil
	}

	var folder doctree.Folder
	if err := json.Unmarshal(data, &folder); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if _, err := doctree.NewNodeName(folder.Name); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	result := ImportResult{Kind: KindFolder}
	summary := &result.Summary
	folder, err := freshFolder(folder, ids, summary)
	if err != nil {
		return ImportResult{}, err
	}
	result.Folder = folder
	return result, nil
}

func freshFile(file doctree.File, ids doctree.IDProvider, summary *ImportSummary) (doctree.File, error) {
	id, err := ids.NewID()
	if err != nil {
		return doctree.File{}, err
	}
	file.ID = id
	summary.Files++
	for position, block := range file.Content {
		if block.Repaired() {
			summary.BlocksRepaired++
		}
		if block.ID == "" {
			blockID, err := ids.NewID()
			if err != nil {
				return doctree.File{}, err
			}
			block.ID = blockID
			file.Content[position] = block
		}
	}
	return file, nil
}

func freshFolder(folder doctree.Folder, ids doctree.IDProvider, summary *ImportSummary) (doctree.Folder, error) {
	id, err := ids.NewID()
	if err != nil {
		return doctree.Folder{}, err
	}
	folder.ID = id
	summary.Folders++

	files := make([]doctree.File, len(folder.Files))
	for position, file := range folder.Files {
		fresh, err := freshFile(file, ids, summary)
		if err != nil {
			return doctree.Folder{}, err
		}
		files[position] = fresh
	}
	folder.Files = files

	children := make([]doctree.Folder, len(folder.Folders))
	for position, child := range folder.Folders {
		fresh, err := freshFolder(child, ids, summary)
		if err != nil {
			return doctree.Folder{}, err
		}
		children[position] = fresh
	}
	folder.Folders = children
	return folder, nil
}
