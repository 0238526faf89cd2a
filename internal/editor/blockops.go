package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/parchmentlab/parchment/internal/blocks"
	"github.com/parchmentlab/parchment/internal/doctree"
)

// BlockAddress locates one block: the folder path to its file, the file id,
// and the block id within the file.
type BlockAddress struct {
	Path    []string
	FileID  string
	BlockID string
}

// SetBlockContent replaces a block's payload with the normalized form of
// raw, healing numeric-key corruption and legacy shapes on every edit.
func (s *Service) SetBlockContent(ctx context.Context, key string, addr BlockAddress, raw any) error {
	return s.editFile(ctx, opSetBlockContent, key, addr.Path, addr.FileID, func(file doctree.File) ([]blocks.Block, bool) {
		position, ok := blockIndex(file.Content, addr.BlockID)
		if !ok {
			s.logNoOp(opSetBlockContent, "block_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}
		if blocks.ContainsNumericKeys(raw) {
			s.logger.Debug("numeric key corruption repaired",
				zap.String("file_id", addr.FileID),
				zap.String("block_id", addr.BlockID))
		}
		content, _ := blocks.Normalize(file.Content[position].Type, raw)
		rebuilt := copyBlocks(file.Content)
		rebuilt[position].Content = content
		return rebuilt, true
	})
}

// ChangeBlockType switches a block to another type, discarding the prior
// payload in favor of the new type's default.
func (s *Service) ChangeBlockType(ctx context.Context, key string, addr BlockAddress, newType blocks.BlockType) error {
	if !newType.Known() {
		s.logNoOp(opChangeBlockType, "unknown_type", zap.String("type", string(newType)))
		return nil
	}
	return s.editFile(ctx, opChangeBlockType, key, addr.Path, addr.FileID, func(file doctree.File) ([]blocks.Block, bool) {
		position, ok := blockIndex(file.Content, addr.BlockID)
		if !ok {
			s.logNoOp(opChangeBlockType, "block_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}
		rebuilt := copyBlocks(file.Content)
		rebuilt[position].Type = newType
		rebuilt[position].Content = blocks.DefaultContent(newType)
		return rebuilt, true
	})
}

// AppendBlock adds a block of the given type, with its default payload, to
// the end of the file. Returns the new block id.
func (s *Service) AppendBlock(ctx context.Context, key string, path []string, fileID string, blockType blocks.BlockType) (string, error) {
	blockID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAppendBlock, "id_generation_failed", err)
		return "", newServiceError(opAppendBlock, "id_generation_failed", err)
	}
	appendErr := s.editFile(ctx, opAppendBlock, key, path, fileID, func(file doctree.File) ([]blocks.Block, bool) {
		rebuilt := make([]blocks.Block, 0, len(file.Content)+1)
		rebuilt = append(rebuilt, file.Content...)
		rebuilt = append(rebuilt, blocks.Block{
			ID:      blockID,
			Type:    blockType,
			Content: blocks.DefaultContent(blockType),
		})
		return rebuilt, true
	})
	if appendErr != nil {
		return "", appendErr
	}
	return blockID, nil
}

// RemoveBlock deletes a block from its file.
func (s *Service) RemoveBlock(ctx context.Context, key string, addr BlockAddress) error {
	return s.editFile(ctx, opRemoveBlock, key, addr.Path, addr.FileID, func(file doctree.File) ([]blocks.Block, bool) {
		position, ok := blockIndex(file.Content, addr.BlockID)
		if !ok {
			s.logNoOp(opRemoveBlock, "block_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}
		rebuilt := make([]blocks.Block, 0, len(file.Content)-1)
		rebuilt = append(rebuilt, file.Content[:position]...)
		rebuilt = append(rebuilt, file.Content[position+1:]...)
		return rebuilt, true
	})
}

// SetListItemText replaces the text of the list or checklist entry
// addressed by itemIndex and itemPath.
func (s *Service) SetListItemText(ctx context.Context, key string, addr BlockAddress, itemIndex int, itemPath []int, text string) error {
	return s.editListBlock(ctx, key, addr, func(content blocks.Content) (blocks.Content, bool) {
		switch typed := content.(type) {
		case blocks.ListContent:
			items, ok := blocks.SetItemText(typed.Items, itemIndex, itemPath, text)
			typed.Items = items
			return typed, ok
		case blocks.CheckboxContent:
			items, ok := blocks.SetItemText(typed.Items, itemIndex, itemPath, text)
			typed.Items = items
			return typed, ok
		}
		return content, false
	})
}

// ToggleListItemChecked flips the checked flag of the addressed checklist
// entry. Only meaningful for checkbox blocks.
func (s *Service) ToggleListItemChecked(ctx context.Context, key string, addr BlockAddress, itemIndex int, itemPath []int) error {
	return s.editListBlock(ctx, key, addr, func(content blocks.Content) (blocks.Content, bool) {
		typed, ok := content.(blocks.CheckboxContent)
		if !ok {
			return content, false
		}
		items, ok := blocks.ToggleChecked(typed.Items, itemIndex, itemPath)
		typed.Items = items
		return typed, ok
	})
}

// AddListChild appends a new entry under the addressed node, creating any
// missing intermediate nodes along the way.
func (s *Service) AddListChild(ctx context.Context, key string, addr BlockAddress, itemIndex int, itemPath []int, text string) error {
	return s.editListBlock(ctx, key, addr, func(content blocks.Content) (blocks.Content, bool) {
		switch typed := content.(type) {
		case blocks.ListContent:
			typed.Items = blocks.AddChild(typed.Items, itemIndex, itemPath, text)
			return typed, true
		case blocks.CheckboxContent:
			typed.Items = blocks.AddChild(typed.Items, itemIndex, itemPath, text)
			return typed, true
		}
		return content, false
	})
}

// RemoveListChild removes the nested entry addressed by the path's last
// segment.
func (s *Service) RemoveListChild(ctx context.Context, key string, addr BlockAddress, itemIndex int, itemPath []int) error {
	return s.editListBlock(ctx, key, addr, func(content blocks.Content) (blocks.Content, bool) {
		switch typed := content.(type) {
		case blocks.ListContent:
			items, ok := blocks.RemoveChild(typed.Items, itemIndex, itemPath)
			typed.Items = items
			return typed, ok
		case blocks.CheckboxContent:
			items, ok := blocks.RemoveChild(typed.Items, itemIndex, itemPath)
			typed.Items = items
			return typed, ok
		}
		return content, false
	})
}

// RemoveListItem removes a top-level entry. Removing the last remaining
// entry removes the whole block from the file instead of leaving an empty
// list behind.
func (s *Service) RemoveListItem(ctx context.Context, key string, addr BlockAddress, itemIndex int) error {
	return s.editFile(ctx, opListItemEdit, key, addr.Path, addr.FileID, func(file doctree.File) ([]blocks.Block, bool) {
		position, ok := blockIndex(file.Content, addr.BlockID)
		if !ok {
			s.logNoOp(opListItemEdit, "block_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}

		block := file.Content[position]
		var itemCount int
		switch typed := block.Content.(type) {
		case blocks.ListContent:
			itemCount = len(typed.Items)
		case blocks.CheckboxContent:
			itemCount = len(typed.Items)
		default:
			s.logNoOp(opListItemEdit, "not_a_list", zap.String("block_id", addr.BlockID))
			return nil, false
		}

		if itemCount <= 1 {
			rebuilt := make([]blocks.Block, 0, len(file.Content)-1)
			rebuilt = append(rebuilt, file.Content[:position]...)
			rebuilt = append(rebuilt, file.Content[position+1:]...)
			return rebuilt, true
		}

		rebuilt := copyBlocks(file.Content)
		switch typed := block.Content.(type) {
		case blocks.ListContent:
			items, ok := blocks.RemoveItem(typed.Items, itemIndex)
			if !ok {
				return nil, false
			}
			typed.Items = items
			rebuilt[position].Content = typed
		case blocks.CheckboxContent:
			items, ok := blocks.RemoveItem(typed.Items, itemIndex)
			if !ok {
				return nil, false
			}
			typed.Items = items
			rebuilt[position].Content = typed
		}
		return rebuilt, true
	})
}

// editListBlock threads one list or checklist payload through apply and
// writes the result back. A false return from apply is a silent no-op.
func (s *Service) editListBlock(ctx context.Context, key string, addr BlockAddress, apply func(blocks.Content) (blocks.Content, bool)) error {
	return s.editFile(ctx, opListItemEdit, key, addr.Path, addr.FileID, func(file doctree.File) ([]blocks.Block, bool) {
		position, ok := blockIndex(file.Content, addr.BlockID)
		if !ok {
			s.logNoOp(opListItemEdit, "block_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}
		content, ok := apply(file.Content[position].Content)
		if !ok {
			s.logNoOp(opListItemEdit, "item_not_found", zap.String("block_id", addr.BlockID))
			return nil, false
		}
		rebuilt := copyBlocks(file.Content)
		rebuilt[position].Content = content
		return rebuilt, true
	})
}

// editFile loads the tree, applies a block-list edit to the addressed
// file, threads the result through ReplaceFileContent and saves. A false
// return from apply leaves the tree untouched.
func (s *Service) editFile(ctx context.Context, operation string, key string, path []string, fileID string, apply func(doctree.File) ([]blocks.Block, bool)) error {
	tree, err := s.loadTree(ctx, operation, key)
	if err != nil {
		return err
	}

	file, ok := doctree.FileAt(tree, path, fileID)
	if !ok {
		s.logNoOp(operation, "file_not_found",
			zap.Strings("path", path),
			zap.String("file_id", fileID))
		return nil
	}

	content, ok := apply(file)
	if !ok {
		return nil
	}

	updated, ok := doctree.ReplaceFileContent(tree, path, fileID, content, s.clock())
	if !ok {
		s.logNoOp(operation, "file_not_found",
			zap.Strings("path", path),
			zap.String("file_id", fileID))
		return nil
	}
	return s.saveTree(ctx, operation, key, updated)
}

func blockIndex(content []blocks.Block, blockID string) (int, bool) {
	for position, block := range content {
		if block.ID == blockID {
			return position, true
		}
	}
	return 0, false
}

func copyBlocks(content []blocks.Block) []blocks.Block {
	copied := make([]blocks.Block, len(content))
	copy(copied, content)
	return copied
}
