package keytree

import "strings"

// Item is a node of a key tree. Items are owned by their Tree and refer to
// their parent and children by id only; use the Tree accessors to resolve
// them.
type Item struct {
	id       string
	name     string
	parent   string
	children []string // sorted ids

	key        bool // id is a real bundle key, not only a group prefix
	suppressed bool // hidden by the updater regardless of the filter
	visible    bool
}

func newItem(id, name, parent string, key bool) *Item {
	return &Item{id: id, name: name, parent: parent, key: key, visible: true}
}

// ID returns the full key (or key prefix for group items).
func (i *Item) ID() string {
	return i.id
}

// Name returns the display label: the id without its parent prefix.
func (i *Item) Name() string {
	return i.name
}

// ParentID returns the id of the parent item, or "" for root items.
func (i *Item) ParentID() string {
	return i.parent
}

// ChildIDs returns the ids of the direct children in ascending order.
func (i *Item) ChildIDs() []string {
	return append([]string(nil), i.children...)
}

// HasChildren reports whether the item is a group container.
func (i *Item) HasChildren() bool {
	return len(i.children) > 0
}

// IsKey reports whether the item stands for an actual bundle key. Group
// items created only to hold children return false.
func (i *Item) IsKey() bool {
	return i.key
}

// Visible reports the result of the last visibility pass.
func (i *Item) Visible() bool {
	return i.visible
}

// Compare orders items by id.
func (i *Item) Compare(other *Item) int {
	return strings.Compare(i.id, other.id)
}

func (i *Item) String() string {
	return i.id
}
