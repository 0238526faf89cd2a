package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parchmentlab/parchment/internal/blocks"
	"github.com/parchmentlab/parchment/internal/doctree"
	"github.com/parchmentlab/parchment/internal/storage"
	"github.com/parchmentlab/parchment/internal/transfer"
)

var (
	errMissingStore      = errors.New("tree store is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError carries an operation-scoped failure code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the op.reason failure code.
func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew      = "editor.service.new"
	opOpenTree        = "editor.open_tree"
	opCreateFolder    = "editor.create_folder"
	opCreateFile      = "editor.create_file"
	opRenameNode      = "editor.rename_node"
	opDeleteNode      = "editor.delete_node"
	opSetBlockContent = "editor.set_block_content"
	opChangeBlockType = "editor.change_block_type"
	opAppendBlock     = "editor.append_block"
	opRemoveBlock     = "editor.remove_block"
	opListItemEdit    = "editor.list_item_edit"
	opMoveBlocks      = "editor.move_blocks"
	opImport          = "editor.import"
	opExport          = "editor.export"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// ServiceConfig captures the dependencies of the editor service.
type ServiceConfig struct {
	Store      storage.TreeStore
	Clock      func() time.Time
	IDProvider doctree.IDProvider
	Logger     *zap.Logger
}

// Service orchestrates document tree mutations: every operation loads the
// current tree, applies a pure mutation, and saves the settled result.
type Service struct {
	store      storage.TreeStore
	clock      func() time.Time
	idProvider doctree.IDProvider
	logger     *zap.Logger
}

// NewService validates the configuration and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// NormalizationReport summarizes the repairs a load pass performed.
type NormalizationReport struct {
	BlocksRepaired int
	FilesTouched   int
	RepairsByFile  map[string]int
}

// OpenTree loads the tree saved under key. Every block arrives normalized;
// when any block needed repair the healed tree is written back immediately
// and the report says which files were touched.
func (s *Service) OpenTree(ctx context.Context, key string) (doctree.Tree, NormalizationReport, error) {
	tree, found, err := s.store.Load(ctx, key)
	if err != nil {
		s.logError(opOpenTree, "load_failed", err, zap.String("key", key))
		return nil, NormalizationReport{}, newServiceError(opOpenTree, "load_failed", err)
	}
	if !found {
		return doctree.Tree{}, NormalizationReport{}, nil
	}

	report := collectRepairs(tree)
	if report.BlocksRepaired > 0 {
		s.logger.Info("repaired legacy block content",
			zap.String("key", key),
			zap.Int("blocks", report.BlocksRepaired),
			zap.Int("files", report.FilesTouched))
		if err := s.store.Save(ctx, key, tree); err != nil {
			s.logError(opOpenTree, "save_failed", err, zap.String("key", key))
			return nil, NormalizationReport{}, newServiceError(opOpenTree, "save_failed", err)
		}
	}
	return tree, report, nil
}

// CreateFolder appends a fresh folder inside the folder addressed by path;
// an empty path creates it at the root. Returns the new folder id.
func (s *Service) CreateFolder(ctx context.Context, key string, path []string, rawName string) (string, error) {
	name, err := doctree.NewNodeName(rawName)
	if err != nil {
		return "", newServiceError(opCreateFolder, "invalid_name", err)
	}

	tree, err := s.loadTree(ctx, opCreateFolder, key)
	if err != nil {
		return "", err
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateFolder, "id_generation_failed", err)
		return "", newServiceError(opCreateFolder, "id_generation_failed", err)
	}

	folder := doctree.Folder{
		ID:      id,
		Name:    name.String(),
		Folders: []doctree.Folder{},
		Files:   []doctree.File{},
	}
	updated, ok := doctree.AddFolder(tree, path, folder)
	if !ok {
		s.logNoOp(opCreateFolder, "path_not_found", zap.Strings("path", path))
		return "", nil
	}
	if err := s.saveTree(ctx, opCreateFolder, key, updated); err != nil {
		return "", err
	}
	return id, nil
}

// CreateFile appends a fresh file, seeded with one empty paragraph block,
// to the folder addressed by path. Returns the new file id.
func (s *Service) CreateFile(ctx context.Context, key string, path []string, rawName string) (string, error) {
	name, err := doctree.NewNodeName(rawName)
	if err != nil {
		return "", newServiceError(opCreateFile, "invalid_name", err)
	}

	tree, err := s.loadTree(ctx, opCreateFile, key)
	if err != nil {
		return "", err
	}

	fileID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateFile, "id_generation_failed", err)
		return "", newServiceError(opCreateFile, "id_generation_failed", err)
	}
	blockID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateFile, "id_generation_failed", err)
		return "", newServiceError(opCreateFile, "id_generation_failed", err)
	}

	now := s.clock().UTC().Unix()
	file := doctree.File{
		ID:   fileID,
		Name: name.String(),
		Content: []blocks.Block{{
			ID:      blockID,
			Type:    blocks.BlockTypeParagraph,
			Content: blocks.DefaultContent(blocks.BlockTypeParagraph),
		}},
		CreatedAtSeconds: now,
		UpdatedAtSeconds: now,
	}
	updated, ok := doctree.AddFile(tree, path, file)
	if !ok {
		s.logNoOp(opCreateFile, "path_not_found", zap.Strings("path", path))
		return "", nil
	}
	if err := s.saveTree(ctx, opCreateFile, key, updated); err != nil {
		return "", err
	}
	return fileID, nil
}

// RenameNode renames the folder or file with the given id.
func (s *Service) RenameNode(ctx context.Context, key string, id string, rawName string) error {
	name, err := doctree.NewNodeName(rawName)
	if err != nil {
		return newServiceError(opRenameNode, "invalid_name", err)
	}

	tree, err := s.loadTree(ctx, opRenameNode, key)
	if err != nil {
		return err
	}
	updated, ok := doctree.RenameNode(tree, id, name.String(), s.clock())
	if !ok {
		s.logNoOp(opRenameNode, "node_not_found", zap.String("id", id))
		return nil
	}
	return s.saveTree(ctx, opRenameNode, key, updated)
}

// DeleteNode removes the folder or file with the given id. Irreversible;
// callers prompt for confirmation before invoking it.
func (s *Service) DeleteNode(ctx context.Context, key string, id string) error {
	tree, err := s.loadTree(ctx, opDeleteNode, key)
	if err != nil {
		return err
	}
	updated, ok := doctree.RemoveNode(tree, id)
	if !ok {
		s.logNoOp(opDeleteNode, "node_not_found", zap.String("id", id))
		return nil
	}
	return s.saveTree(ctx, opDeleteNode, key, updated)
}

// MoveSource addresses the file blocks are moved out of.
type MoveSource struct {
	Path   []string
	FileID string
}

// MoveTarget selects where moved blocks land: an existing file anywhere in
// the tree when FileID is set, otherwise a new file created in NewFilePath.
type MoveTarget struct {
	FileID      string
	NewFileName string
	NewFilePath []string
}

// MoveBlocks strips the given block ids out of the source file and appends
// them to the target. Returns how many blocks moved.
func (s *Service) MoveBlocks(ctx context.Context, key string, source MoveSource, blockIDs []string, target MoveTarget) (int, error) {
	tree, err := s.loadTree(ctx, opMoveBlocks, key)
	if err != nil {
		return 0, err
	}

	now := s.clock()
	var (
		updated doctree.Tree
		moved   int
		ok      bool
	)
	if target.FileID != "" {
		updated, moved, ok = doctree.MoveBlocksToFile(tree, source.Path, source.FileID, blockIDs, target.FileID, now)
	} else {
		name, err := doctree.NewNodeName(target.NewFileName)
		if err != nil {
			return 0, newServiceError(opMoveBlocks, "invalid_name", err)
		}
		fileID, err := s.idProvider.NewID()
		if err != nil {
			s.logError(opMoveBlocks, "id_generation_failed", err)
			return 0, newServiceError(opMoveBlocks, "id_generation_failed", err)
		}
		newFile := doctree.File{ID: fileID, Name: name.String()}
		updated, moved, ok = doctree.MoveBlocksToNewFile(tree, source.Path, source.FileID, blockIDs, target.NewFilePath, newFile, now)
	}
	if !ok {
		s.logNoOp(opMoveBlocks, "target_not_found",
			zap.String("source_file", source.FileID),
			zap.String("target_file", target.FileID))
		return 0, nil
	}
	if err := s.saveTree(ctx, opMoveBlocks, key, updated); err != nil {
		return 0, err
	}
	return moved, nil
}

// Import decodes an exported JSON document and appends it into the folder
// addressed by path (tree root for an empty path, folders only). Malformed
// JSON aborts with no state change.
func (s *Service) Import(ctx context.Context, key string, path []string, data []byte) (transfer.ImportSummary, error) {
	result, err := transfer.Decode(data, s.idProvider)
	if err != nil {
		s.logError(opImport, "decode_failed", err)
		return transfer.ImportSummary{}, newServiceError(opImport, "decode_failed", err)
	}

	tree, err := s.loadTree(ctx, opImport, key)
	if err != nil {
		return transfer.ImportSummary{}, err
	}

	var (
		updated doctree.Tree
		ok      bool
	)
	switch result.Kind {
	case transfer.KindFile:
		file := result.File
		now := s.clock().UTC().Unix()
		if file.CreatedAtSeconds == 0 {
			file.CreatedAtSeconds = now
		}
		file.UpdatedAtSeconds = now
		updated, ok = doctree.AddFile(tree, path, file)
	case transfer.KindFolder:
		updated, ok = doctree.AddFolder(tree, path, result.Folder)
	}
	if !ok {
		s.logNoOp(opImport, "path_not_found", zap.Strings("path", path))
		return transfer.ImportSummary{}, nil
	}
	if err := s.saveTree(ctx, opImport, key, updated); err != nil {
		return transfer.ImportSummary{}, err
	}
	return result.Summary, nil
}

// ExportFile serializes the file with the given id into its export envelope.
func (s *Service) ExportFile(ctx context.Context, key string, fileID string) ([]byte, error) {
	tree, err := s.loadTree(ctx, opExport, key)
	if err != nil {
		return nil, err
	}
	file, ok := doctree.FindFile(tree, fileID)
	if !ok {
		s.logNoOp(opExport, "file_not_found", zap.String("id", fileID))
		return nil, nil
	}
	return transfer.ExportFile(file, s.clock())
}

// ExportFolder serializes the folder with the given id into its export
// envelope.
func (s *Service) ExportFolder(ctx context.Context, key string, folderID string) ([]byte, error) {
	tree, err := s.loadTree(ctx, opExport, key)
	if err != nil {
		return nil, err
	}
	folder, ok := findFolder(tree, folderID)
	if !ok {
		s.logNoOp(opExport, "folder_not_found", zap.String("id", folderID))
		return nil, nil
	}
	return transfer.ExportFolder(folder, s.clock())
}

func findFolder(folders []doctree.Folder, id string) (doctree.Folder, bool) {
	for _, folder := range folders {
		if folder.ID == id {
			return folder, true
		}
		if found, ok := findFolder(folder.Folders, id); ok {
			return found, true
		}
	}
	return doctree.Folder{}, false
}

func collectRepairs(tree doctree.Tree) NormalizationReport {
	report := NormalizationReport{RepairsByFile: map[string]int{}}
	var walk func(folders []doctree.Folder)
	walk = func(folders []doctree.Folder) {
		for _, folder := range folders {
			for _, file := range folder.Files {
				repaired := 0
				for _, block := range file.Content {
					if block.Repaired() {
						repaired++
					}
				}
				if repaired > 0 {
					report.RepairsByFile[file.ID] = repaired
					report.BlocksRepaired += repaired
					report.FilesTouched++
				}
			}
			walk(folder.Folders)
		}
	}
	walk(tree)
	return report
}

func (s *Service) loadTree(ctx context.Context, operation string, key string) (doctree.Tree, error) {
	tree, found, err := s.store.Load(ctx, key)
	if err != nil {
		s.logError(operation, "load_failed", err, zap.String("key", key))
		return nil, newServiceError(operation, "load_failed", err)
	}
	if !found {
		return doctree.Tree{}, nil
	}
	return tree, nil
}

func (s *Service) saveTree(ctx context.Context, operation string, key string, tree doctree.Tree) error {
	if err := s.store.Save(ctx, key, tree); err != nil {
		s.logError(operation, "save_failed", err, zap.String("key", key))
		return newServiceError(operation, "save_failed", err)
	}
	return nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("editor service error", attrs...)
}

// logNoOp records a broken-path or missing-id mutation. These indicate a
// stale caller address, so the tree is left unchanged without surfacing an
// error.
func (s *Service) logNoOp(operation, reason string, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	attrs = append(attrs, fields...)
	s.logger.Warn("editor mutation skipped", attrs...)
}
