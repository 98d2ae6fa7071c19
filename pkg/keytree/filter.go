package keytree

import "strings"

// Filter returns the filter applied by the last FilterKeyItems call.
func (t *Tree) Filter() string {
	return t.filter
}

// FilterKeyItems stores filter and recomputes the visibility of every item.
// An item is visible when its id contains filter (case-sensitive) and the
// updater does not hide it, or when any of its children is visible, so
// matches keep their ancestors visible.
func (t *Tree) FilterKeyItems(filter string) {
	t.filter = filter
	for _, id := range t.roots {
		if it, ok := t.items[id]; ok {
			t.applyFilter(it)
		}
	}
}

// ResetFilter makes every item the updater does not hide visible again.
func (t *Tree) ResetFilter() {
	t.FilterKeyItems("")
}

func (t *Tree) applyFilter(it *Item) bool {
	childVisible := false
	for _, id := range it.children {
		if c, ok := t.items[id]; ok && t.applyFilter(c) {
			childVisible = true
		}
	}
	it.visible = childVisible || t.matches(it)
	return it.visible
}

func (t *Tree) matches(it *Item) bool {
	return !it.suppressed && strings.Contains(it.id, t.filter)
}

// refreshChain recomputes the visibility of id and its ancestors from their
// own match and the current visibility of their children.
func (t *Tree) refreshChain(id string) {
	for id != "" {
		it, ok := t.items[id]
		if !ok {
			return
		}
		it.visible = t.matches(it) || t.anyChildVisible(it)
		id = it.parent
	}
}

func (t *Tree) anyChildVisible(it *Item) bool {
	for _, id := range it.children {
		if c, ok := t.items[id]; ok && c.visible {
			return true
		}
	}
	return false
}

// VisibleKeys returns the ids of visible items that are real keys, in
// ascending order.
func (t *Tree) VisibleKeys() []string {
	var out []string
	for it := range t.Items() {
		if it.key && it.visible {
			out = append(out, it.id)
		}
	}
	return out
}
