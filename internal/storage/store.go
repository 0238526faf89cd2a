package storage

import (
	"context"
	"errors"

	"github.com/parchmentlab/parchment/internal/doctree"
)

var (
	// ErrMissingKey indicates that a storage key is empty.
	ErrMissingKey = errors.New("storage: key is required")
)

// TreeStore durably saves and loads one document tree per storage key.
// Load returns false when the key was never saved. Save is a last-write-wins
// whole-tree replacement; there is exactly one logical writer.
type TreeStore interface {
	Load(ctx context.Context, key string) (doctree.Tree, bool, error)
	Save(ctx context.Context, key string, tree doctree.Tree) error
}
