package blocks

// Path-addressed operations over the items[].sublists[]... recursion shared
// by bullet lists and checklists. A path is the sequence of sublist indices
// descending from a top-level item. Every operation leaves its input intact
// and returns a fresh items slice with the touched chain rebuilt; untouched
// siblings are shared.

// treeItem constrains the operations to the two nested item shapes.
type treeItem[T any] interface {
	children() []T
	withChildren(children []T) T
	withText(text string) T
	blank() T
}

func (item ListItem) children() []ListItem { return item.Sublists }

func (item ListItem) withChildren(children []ListItem) ListItem {
	item.Sublists = children
	return item
}

func (item ListItem) withText(text string) ListItem {
	item.Text = text
	return item
}

func (ListItem) blank() ListItem { return NewListItem("") }

func (item CheckboxItem) children() []CheckboxItem { return item.Sublists }

func (item CheckboxItem) withChildren(children []CheckboxItem) CheckboxItem {
	item.Sublists = children
	return item
}

func (item CheckboxItem) withText(text string) CheckboxItem {
	item.Text = text
	return item
}

func (CheckboxItem) blank() CheckboxItem { return NewCheckboxItem("") }

// GetItem walks items[index], then each sublist index in path, and returns
// the terminal node. The second result is false when any hop is missing.
func GetItem[T treeItem[T]](items []T, index int, path []int) (T, bool) {
	var missing T
	if index < 0 || index >= len(items) {
		return missing, false
	}
	node := items[index]
	for _, hop := range path {
		children := node.children()
		if hop < 0 || hop >= len(children) {
			return missing, false
		}
		node = children[hop]
	}
	return node, true
}

// SetItemText replaces the text of the node addressed by index and path.
// A broken path is a no-op; the second result reports whether the node was
// found.
func SetItemText[T treeItem[T]](items []T, index int, path []int, text string) ([]T, bool) {
	return updateAt(items, index, path, func(node T) (T, bool) {
		return node.withText(text), true
	})
}

// ToggleChecked flips the checked flag of the addressed checklist node.
// A broken path is a no-op.
func ToggleChecked(items []CheckboxItem, index int, path []int) ([]CheckboxItem, bool) {
	return updateAt(items, index, path, func(node CheckboxItem) (CheckboxItem, bool) {
		node.Checked = !node.Checked
		return node, true
	})
}

// AddChild appends a new entry with the given text to the sublists of the
// addressed node, creating any missing intermediate nodes with the default
// shape along the sublist path. The editor relies on this to let a user
// jump to a nesting level that does not fully exist yet. The top-level item
// itself must exist; an out-of-range index is a no-op.
func AddChild[T treeItem[T]](items []T, index int, path []int, text string) []T {
	if index < 0 || index >= len(items) {
		return items
	}
	grown := copyItems(items)
	grown[index] = addChildNode(grown[index], path, text)
	return grown
}

func addChildNode[T treeItem[T]](node T, path []int, text string) T {
	var proto T
	if len(path) == 0 {
		children := append(copyItems(node.children()), proto.blank().withText(text))
		return node.withChildren(children)
	}
	hop := path[0]
	if hop < 0 {
		return node
	}
	children := copyItems(node.children())
	for len(children) <= hop {
		children = append(children, proto.blank())
	}
	children[hop] = addChildNode(children[hop], path[1:], text)
	return node.withChildren(children)
}

// RemoveChild removes the entry addressed by the last path segment from its
// parent's sublists. A path that breaks before the last segment, or an
// empty path, is a no-op.
func RemoveChild[T treeItem[T]](items []T, index int, path []int) ([]T, bool) {
	if len(path) == 0 {
		return items, false
	}
	last := path[len(path)-1]
	return updateAt(items, index, path[:len(path)-1], func(parent T) (T, bool) {
		children := parent.children()
		if last < 0 || last >= len(children) {
			return parent, false
		}
		trimmed := make([]T, 0, len(children)-1)
		trimmed = append(trimmed, children[:last]...)
		trimmed = append(trimmed, children[last+1:]...)
		return parent.withChildren(trimmed), true
	})
}

// RemoveItem removes a top-level item by index. Callers decide what an
// empty list means; removing the last item of a block removes the block.
func RemoveItem[T treeItem[T]](items []T, index int) ([]T, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	trimmed := make([]T, 0, len(items)-1)
	trimmed = append(trimmed, items[:index]...)
	trimmed = append(trimmed, items[index+1:]...)
	return trimmed, true
}

// updateAt rebuilds the chain from items[index] down the path and applies
// the update to the terminal node. Returns the input unchanged when the
// path is broken or the update declines.
func updateAt[T treeItem[T]](items []T, index int, path []int, update func(T) (T, bool)) ([]T, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	node := items[index]
	if len(path) == 0 {
		updated, ok := update(node)
		if !ok {
			return items, false
		}
		rebuilt := copyItems(items)
		rebuilt[index] = updated
		return rebuilt, true
	}
	children, ok := updateAt(node.children(), path[0], path[1:], update)
	if !ok {
		return items, false
	}
	rebuilt := copyItems(items)
	rebuilt[index] = node.withChildren(children)
	return rebuilt, true
}

func copyItems[T any](items []T) []T {
	copied := make([]T, len(items))
	copy(copied, items)
	return copied
}
