package editor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/parchmentlab/parchment/internal/blocks"
	"github.com/parchmentlab/parchment/internal/doctree"
	"github.com/parchmentlab/parchment/internal/storage"
)

const testTreeKey = "default"

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type staticIDGenerator struct {
	prefix string
	next   int
}

func (generator *staticIDGenerator) NewID() (string, error) {
	generator.next++
	return fmt.Sprintf("%s-%d", generator.prefix, generator.next), nil
}

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	service, err := NewService(ServiceConfig{
		Store:      store,
		Clock:      func() time.Time { return testNow },
		IDProvider: &staticIDGenerator{prefix: "gen"},
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return service, store
}

func checklistBlock(id string, texts ...string) blocks.Block {
	items := make([]blocks.CheckboxItem, 0, len(texts))
	for _, text := range texts {
		items = append(items, blocks.NewCheckboxItem(text))
	}
	return blocks.Block{
		ID:      id,
		Type:    blocks.BlockTypeCheckbox,
		Content: blocks.CheckboxContent{Heading: "Tasks", Items: items},
	}
}

func paragraphBlock(id string, text string) blocks.Block {
	return blocks.Block{
		ID:      id,
		Type:    blocks.BlockTypeParagraph,
		Content: blocks.ParagraphContent{Text: text},
	}
}

func seedTree(t *testing.T, store *storage.MemoryStore) {
	t.Helper()

	tree := doctree.Tree{{
		ID:   "root",
		Name: "Root",
		Folders: []doctree.Folder{{
			ID:   "nested",
			Name: "Nested",
			Files: []doctree.File{{
				ID:      "other",
				Name:    "Other",
				Content: []blocks.Block{paragraphBlock("b9", "elsewhere")},
			}},
		}},
		Files: []doctree.File{{
			ID:   "f1",
			Name: "Notes",
			Content: []blocks.Block{
				paragraphBlock("b1", "one"),
				checklistBlock("b2", "first", "second"),
			},
			CreatedAtSeconds: 1_700_000_000,
			UpdatedAtSeconds: 1_700_000_000,
		}},
	}}
	if err := store.Save(context.Background(), testTreeKey, tree); err != nil {
		t.Fatalf("seed tree: %v", err)
	}
}

func mustLoadTree(t *testing.T, store *storage.MemoryStore) doctree.Tree {
	t.Helper()

	tree, found, err := store.Load(context.Background(), testTreeKey)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if !found {
		t.Fatalf("expected the tree to exist")
	}
	return tree
}

func mustFindFile(t *testing.T, store *storage.MemoryStore, fileID string) doctree.File {
	t.Helper()

	file, ok := doctree.FindFile(mustLoadTree(t, store), fileID)
	if !ok {
		t.Fatalf("expected file %q to exist", fileID)
	}
	return file
}
