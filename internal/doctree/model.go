package doctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parchmentlab/parchment/internal/blocks"
)

const maxIdentifierLength = 190

var (
	// ErrInvalidNodeID indicates that a folder or file identifier is empty
	// or exceeds storage bounds.
	ErrInvalidNodeID = errors.New("doctree: invalid node id")
	// ErrInvalidNodeName indicates that a folder or file name is empty or
	// exceeds storage bounds.
	ErrInvalidNodeName = errors.New("doctree: invalid node name")
)

// NodeID represents a validated folder or file identifier.
type NodeID string

// NewNodeID validates raw input and returns a NodeID.
func NewNodeID(rawInput string) (NodeID, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidNodeID)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidNodeID, maxIdentifierLength)
	}
	return NodeID(trimmed), nil
}

// String returns the underlying string identifier.
func (id NodeID) String() string {
	return string(id)
}

// NodeName represents a validated folder or file display name.
type NodeName string

// NewNodeName validates raw input and returns a NodeName.
func NewNodeName(rawInput string) (NodeName, error) {
	trimmed := strings.TrimSpace(rawInput)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidNodeName)
	}
	if len(trimmed) > maxIdentifierLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidNodeName, maxIdentifierLength)
	}
	return NodeName(trimmed), nil
}

// String returns the underlying name.
func (name NodeName) String() string {
	return string(name)
}

// Tree is the persisted root: an ordered sequence of top-level folders.
type Tree []Folder

// Folder owns an ordered sequence of child folders and files. Folders form
// a tree, never a graph; each node is owned by exactly one parent.
type Folder struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}

// File is one note: an ordered block list plus bookkeeping timestamps.
// UpdatedAtSeconds is refreshed on every content or name mutation.
type File struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Content          []blocks.Block `json:"content"`
	CreatedAtSeconds int64          `json:"createdAt"`
	UpdatedAtSeconds int64          `json:"updatedAt"`
}

// FolderAt resolves a path of folder ids from the root. The second result
// is false when any segment is missing.
func FolderAt(tree Tree, path []string) (Folder, bool) {
	if len(path) == 0 {
		return Folder{}, false
	}
	current := tree
	var resolved Folder
	for depth, segment := range path {
		found := false
		for _, folder := range current {
			if folder.ID == segment {
				resolved = folder
				found = true
				break
			}
		}
		if !found {
			return Folder{}, false
		}
		if depth < len(path)-1 {
			current = resolved.Folders
		}
	}
	return resolved, true
}

// FileAt resolves a file by folder path and file id.
func FileAt(tree Tree, path []string, fileID string) (File, bool) {
	folder, ok := FolderAt(tree, path)
	if !ok {
		return File{}, false
	}
	for _, file := range folder.Files {
		if file.ID == fileID {
			return file, true
		}
	}
	return File{}, false
}

// FindFile locates a file by id anywhere in the tree, depth first.
func FindFile(tree Tree, fileID string) (File, bool) {
	for _, folder := range tree {
		if file, ok := findFileInFolder(folder, fileID); ok {
			return file, true
		}
	}
	return File{}, false
}

func findFileInFolder(folder Folder, fileID string) (File, bool) {
	for _, file := range folder.Files {
		if file.ID == fileID {
			return file, true
		}
	}
	for _, child := range folder.Folders {
		if file, ok := findFileInFolder(child, fileID); ok {
			return file, true
		}
	}
	return File{}, false
}
