package keytree

import (
	"iter"
	"slices"
	"strings"
)

// Items yields every cached item in ascending id order. The sequence is
// lazy and can be ranged over any number of times; the tree must not be
// mutated while ranging.
func (t *Tree) Items() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, id := range t.ids {
			if !yield(t.items[id]) {
				return
			}
		}
	}
}

// Visitor is notified of each cached item in ascending id order and then of
// the tree itself.
type Visitor interface {
	VisitKeyTreeItem(item *Item)
	VisitKeyTree(tree *Tree)
}

// Accept walks v over every cached item and finally over the tree.
func (t *Tree) Accept(v Visitor) {
	for it := range t.Items() {
		v.VisitKeyTreeItem(it)
	}
	v.VisitKeyTree(t)
}

// NestedChildren returns every descendant of it in ascending id order.
func (t *Tree) NestedChildren(it *Item) []*Item {
	if it == nil {
		return nil
	}
	var out []*Item
	stack := slices.Clone(it.children)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := t.items[id]
		if !ok {
			continue
		}
		out = append(out, c)
		stack = append(stack, c.children...)
	}
	slices.SortFunc(out, (*Item).Compare)
	return out
}

// ItemsWithPrefix yields the cached items whose id starts with prefix, in
// ascending id order.
func (t *Tree) ItemsWithPrefix(prefix string) iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		i, _ := slices.BinarySearch(t.ids, prefix)
		for ; i < len(t.ids) && strings.HasPrefix(t.ids[i], prefix); i++ {
			if !yield(t.items[t.ids[i]]) {
				return
			}
		}
	}
}
