package doctree

import (
	"time"

	"github.com/parchmentlab/parchment/internal/blocks"
)

// Mutators are pure functions: each takes the current tree and returns a
// new one with the touched chain rebuilt and untouched siblings shared.
// A path or id that does not resolve is a silent no-op returning the tree
// unchanged; a stale address is a caller bug, not a user-facing failure.

// ReplaceFileContent swaps the block list of the file with the given id
// inside the folder addressed by path, refreshing its updatedAt.
func ReplaceFileContent(tree Tree, path []string, fileID string, content []blocks.Block, now time.Time) (Tree, bool) {
	folders, ok := mapFolderAtPath(tree, path, func(folder Folder) (Folder, bool) {
		return mapFileInFolder(folder, fileID, func(file File) File {
			file.Content = content
			file.UpdatedAtSeconds = now.UTC().Unix()
			return file
		})
	})
	return Tree(folders), ok
}

// AddFile appends a file to the folder addressed by path.
func AddFile(tree Tree, path []string, file File) (Tree, bool) {
	folders, ok := mapFolderAtPath(tree, path, func(folder Folder) (Folder, bool) {
		files := make([]File, 0, len(folder.Files)+1)
		files = append(files, folder.Files...)
		files = append(files, file)
		folder.Files = files
		return folder, true
	})
	return Tree(folders), ok
}

// AddFolder appends a folder to the folder addressed by path; an empty
// path appends at the tree root.
func AddFolder(tree Tree, path []string, folder Folder) (Tree, bool) {
	if len(path) == 0 {
		grown := make(Tree, 0, len(tree)+1)
		grown = append(grown, tree...)
		grown = append(grown, folder)
		return grown, true
	}
	folders, ok := mapFolderAtPath(tree, path, func(parent Folder) (Folder, bool) {
		children := make([]Folder, 0, len(parent.Folders)+1)
		children = append(children, parent.Folders...)
		children = append(children, folder)
		parent.Folders = children
		return parent, true
	})
	return Tree(folders), ok
}

// RemoveNode removes the folder or file with the given id. The search is
// depth first and removes at most one match.
func RemoveNode(tree Tree, id string) (Tree, bool) {
	folders, removed := removeFromFolders(tree, id)
	return Tree(folders), removed
}

// RenameNode renames the folder or file with the given id. A renamed file
// also gets its updatedAt refreshed.
func RenameNode(tree Tree, id string, name string, now time.Time) (Tree, bool) {
	folders, renamed := renameInFolders(tree, id, name, now)
	return Tree(folders), renamed
}

// MoveBlocksToFile strips the given block ids out of the source file and
// appends them, in order, to the target file, which may live anywhere in
// the tree. Returns the moved count.
func MoveBlocksToFile(tree Tree, sourcePath []string, sourceFileID string, blockIDs []string, targetFileID string, now time.Time) (Tree, int, bool) {
	stripped, moved, ok := extractBlocks(tree, sourcePath, sourceFileID, blockIDs, now)
	if !ok || len(moved) == 0 {
		return tree, 0, false
	}
	result, ok := mapFileByID(stripped, targetFileID, func(file File) File {
		content := make([]blocks.Block, 0, len(file.Content)+len(moved))
		content = append(content, file.Content...)
		content = append(content, moved...)
		file.Content = content
		file.UpdatedAtSeconds = now.UTC().Unix()
		return file
	})
	if !ok {
		return tree, 0, false
	}
	return Tree(result), len(moved), true
}

// MoveBlocksToNewFile strips the given block ids out of the source file
// and creates a new file holding them inside the destination folder.
func MoveBlocksToNewFile(tree Tree, sourcePath []string, sourceFileID string, blockIDs []string, destPath []string, newFile File, now time.Time) (Tree, int, bool) {
	stripped, moved, ok := extractBlocks(tree, sourcePath, sourceFileID, blockIDs, now)
	if !ok || len(moved) == 0 {
		return tree, 0, false
	}
	newFile.Content = moved
	if newFile.CreatedAtSeconds == 0 {
		newFile.CreatedAtSeconds = now.UTC().Unix()
	}
	newFile.UpdatedAtSeconds = now.UTC().Unix()
	result, ok := AddFile(Tree(stripped), destPath, newFile)
	if !ok {
		return tree, 0, false
	}
	return result, len(moved), true
}

func extractBlocks(tree Tree, sourcePath []string, sourceFileID string, blockIDs []string, now time.Time) ([]Folder, []blocks.Block, bool) {
	wanted := make(map[string]bool, len(blockIDs))
	for _, id := range blockIDs {
		wanted[id] = true
	}
	var moved []blocks.Block
	stripped, ok := mapFolderAtPath(tree, sourcePath, func(folder Folder) (Folder, bool) {
		return mapFileInFolder(folder, sourceFileID, func(file File) File {
			kept := make([]blocks.Block, 0, len(file.Content))
			for _, block := range file.Content {
				if wanted[block.ID] {
					moved = append(moved, block)
					continue
				}
				kept = append(kept, block)
			}
			file.Content = kept
			file.UpdatedAtSeconds = now.UTC().Unix()
			return file
		})
	})
	if !ok {
		return tree, nil, false
	}
	return stripped, moved, true
}

// mapFolderAtPath descends the id path segment by segment, rebuilding the
// folder chain around the applied change. Shared by every path-addressed
// mutator.
func mapFolderAtPath(folders []Folder, path []string, apply func(Folder) (Folder, bool)) ([]Folder, bool) {
	if len(path) == 0 {
		return folders, false
	}
	for position, folder := range folders {
		if folder.ID != path[0] {
			continue
		}
		if len(path) == 1 {
			updated, ok := apply(folder)
			if !ok {
				return folders, false
			}
			rebuilt := copyFolders(folders)
			rebuilt[position] = updated
			return rebuilt, true
		}
		children, ok := mapFolderAtPath(folder.Folders, path[1:], apply)
		if !ok {
			return folders, false
		}
		rebuilt := copyFolders(folders)
		folder.Folders = children
		rebuilt[position] = folder
		return rebuilt, true
	}
	return folders, false
}

func mapFileInFolder(folder Folder, fileID string, apply func(File) File) (Folder, bool) {
	for position, file := range folder.Files {
		if file.ID != fileID {
			continue
		}
		files := make([]File, len(folder.Files))
		copy(files, folder.Files)
		files[position] = apply(file)
		folder.Files = files
		return folder, true
	}
	return folder, false
}

func mapFileByID(folders []Folder, fileID string, apply func(File) File) ([]Folder, bool) {
	for position, folder := range folders {
		if updated, ok := mapFileInFolder(folder, fileID, apply); ok {
			rebuilt := copyFolders(folders)
			rebuilt[position] = updated
			return rebuilt, true
		}
		children, ok := mapFileByID(folder.Folders, fileID, apply)
		if ok {
			rebuilt := copyFolders(folders)
			folder.Folders = children
			rebuilt[position] = folder
			return rebuilt, true
		}
	}
	return folders, false
}

func removeFromFolders(folders []Folder, id string) ([]Folder, bool) {
	for position, folder := range folders {
		if folder.ID == id {
			rebuilt := make([]Folder, 0, len(folders)-1)
			rebuilt = append(rebuilt, folders[:position]...)
			rebuilt = append(rebuilt, folders[position+1:]...)
			return rebuilt, true
		}
		for filePosition, file := range folder.Files {
			if file.ID != id {
				continue
			}
			files := make([]File, 0, len(folder.Files)-1)
			files = append(files, folder.Files[:filePosition]...)
			files = append(files, folder.Files[filePosition+1:]...)
			rebuilt := copyFolders(folders)
			folder.Files = files
			rebuilt[position] = folder
			return rebuilt, true
		}
		children, removed := removeFromFolders(folder.Folders, id)
		if removed {
			rebuilt := copyFolders(folders)
			folder.Folders = children
			rebuilt[position] = folder
			return rebuilt, true
		}
	}
	return folders, false
}

func renameInFolders(folders []Folder, id string, name string, now time.Time) ([]Folder, bool) {
	for position, folder := range folders {
		if folder.ID == id {
			rebuilt := copyFolders(folders)
			folder.Name = name
			rebuilt[position] = folder
			return rebuilt, true
		}
		if updated, ok := mapFileInFolder(folder, id, func(file File) File {
			file.Name = name
			file.UpdatedAtSeconds = now.UTC().Unix()
			return file
		}); ok {
			rebuilt := copyFolders(folders)
			rebuilt[position] = updated
			return rebuilt, true
		}
		children, renamed := renameInFolders(folder.Folders, id, name, now)
		if renamed {
			rebuilt := copyFolders(folders)
			folder.Folders = children
			rebuilt[position] = folder
			return rebuilt, true
		}
	}
	return folders, false
}

func copyFolders(folders []Folder) []Folder {
	copied := make([]Folder, len(folders))
	copy(copied, folders)
	return copied
}
