// Package keytree maintains a sorted, optionally hierarchical index over the
// keys of a bundle group. A Tree follows the group through its entry
// notifications, lays keys out with a swappable Updater and republishes its
// own Added, Removed, Modified and Selected notifications for views.
//
// A Tree is not safe for concurrent use. All calls, including the bundle
// notifications that drive it, must happen on one goroutine.
package keytree

import (
	"slices"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/event"
)

// Source is the bundle group a Tree indexes.
type Source interface {
	Completeness
	// Keys returns every known key in ascending order.
	Keys() []string
	// EntryCount reports how many locale bundles hold key.
	EntryCount(key string) int
	// Bundles returns the locale bundles of the group.
	Bundles() []*bundle.Bundle
	// Subscribe registers fn for bundle-added notifications.
	Subscribe(fn event.Listener[*bundle.Bundle]) *event.Subscription
}

// Delta is the payload of tree notifications. Item is the affected item and
// may be nil for unknown keys; Tree is set instead for the bulk notification
// published after a rebuild.
type Delta struct {
	Item *Item
	Tree *Tree
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(lgr logr.Logger) Option {
	return func(t *Tree) {
		t.log = lgr
	}
}

// Tree is the key tree of one bundle group.
type Tree struct {
	source  Source
	updater Updater

	items map[string]*Item
	ids   []string // sorted keys of items
	roots []string // sorted ids of items without parent

	selectedKey string
	filter      string

	feed       event.Feed[Delta]
	groupSub   *event.Subscription
	bundleSubs map[*bundle.Bundle]*event.Subscription

	log logr.Logger
}

// New builds the tree of source laid out by updater and subscribes to the
// notifications of the group and of each of its bundles.
func New(source Source, updater Updater, opts ...Option) *Tree {
	t := &Tree{
		source:     source,
		updater:    updater,
		items:      make(map[string]*Item),
		bundleSubs: make(map[*bundle.Bundle]*event.Subscription),
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.groupSub = source.Subscribe(func(ev event.Event[*bundle.Bundle]) {
		if ev.Kind != event.Added {
			return
		}
		t.initBundle(ev.Payload)
		// keys the new locale lacks are incomplete now
		if t.updater.mode == ModeIncomplete {
			t.Refresh()
		}
	})
	for _, b := range source.Bundles() {
		t.initBundle(b)
	}
	t.load()
	return t
}

func (t *Tree) initBundle(b *bundle.Bundle) {
	if b == nil {
		return
	}
	if _, ok := t.bundleSubs[b]; ok {
		return
	}
	t.bundleSubs[b] = b.Subscribe(func(ev event.Event[bundle.Entry]) {
		key := ev.Payload.Key
		switch ev.Kind {
		case event.Added:
			t.AddKey(key)
		case event.Removed:
			if t.source.EntryCount(key) == 0 {
				t.RemoveKey(key)
			} else {
				t.ModifyKey(key)
			}
		case event.Modified:
			t.ModifyKey(key)
		}
	})
	t.log.V(1).Info("subscribed to bundle", "locale", b.Locale().String())
}

// Close detaches the tree from the group and all of its bundles.
func (t *Tree) Close() {
	t.groupSub.Unsubscribe()
	for b, sub := range t.bundleSubs {
		sub.Unsubscribe()
		delete(t.bundleSubs, b)
	}
}

// Subscribe registers fn for tree notifications.
func (t *Tree) Subscribe(fn event.Listener[Delta]) *event.Subscription {
	return t.feed.Subscribe(fn)
}

// Source returns the bundle group backing the tree.
func (t *Tree) Source() Source {
	return t.source
}

// KeyTreeItem returns the item cached under key, or nil.
func (t *Tree) KeyTreeItem(key string) *Item {
	return t.items[key]
}

// KeyItemsCache returns every cached item in ascending id order. In grouped
// mode this includes the group items.
func (t *Tree) KeyItemsCache() []*Item {
	out := make([]*Item, len(t.ids))
	for i, id := range t.ids {
		out[i] = t.items[id]
	}
	return out
}

// RootKeyItems returns the items without parent in ascending id order.
func (t *Tree) RootKeyItems() []*Item {
	return t.resolve(t.roots)
}

// Children returns the direct children of it in ascending id order.
func (t *Tree) Children(it *Item) []*Item {
	if it == nil {
		return nil
	}
	return t.resolve(it.children)
}

// Parent returns the parent of it, or nil for root items.
func (t *Tree) Parent(it *Item) *Item {
	if it == nil || it.parent == "" {
		return nil
	}
	return t.items[it.parent]
}

// Len reports the number of cached items.
func (t *Tree) Len() int {
	return len(t.ids)
}

func (t *Tree) resolve(ids []string) []*Item {
	out := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := t.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// AddKey lays key out with the current updater and publishes Added with the
// resulting item.
func (t *Tree) AddKey(key string) {
	touched := apply(t, t.updater, key, actionAdd)
	t.refreshChain(touched)
	t.feed.Publish(event.Added, Delta{Item: t.items[key]})
}

// RemoveKey removes key, pruning emptied group items, and publishes Removed
// with the item that was cached before removal (nil when key was unknown).
func (t *Tree) RemoveKey(key string) {
	item := t.items[key]
	touched := apply(t, t.updater, key, actionRemove)
	t.refreshChain(touched)
	t.feed.Publish(event.Removed, Delta{Item: item})
}

// ModifyKey publishes Modified for the cached item of key. Layout never
// changes; visibility is re-evaluated when the updater depends on values.
func (t *Tree) ModifyKey(key string) {
	touched := apply(t, t.updater, key, actionEvaluate)
	t.refreshChain(touched)
	t.feed.Publish(event.Modified, Delta{Item: t.items[key]})
}

// SelectedKey returns the selected key, or "" when nothing is selected.
func (t *Tree) SelectedKey() string {
	return t.selectedKey
}

// SelectKey selects key and publishes Selected with its cached item, which
// may be nil. Selecting "" or the current selection does nothing.
func (t *Tree) SelectKey(key string) {
	if key == "" || key == t.selectedKey {
		return
	}
	t.selectedKey = key
	t.feed.Publish(event.Selected, Delta{Item: t.items[key]})
}

// SelectNextKey selects the cached id that follows the selection. It does
// nothing without a selection, when the selection is not cached or when it
// is the last id.
func (t *Tree) SelectNextKey() {
	if t.selectedKey == "" {
		return
	}
	i, found := slices.BinarySearch(t.ids, t.selectedKey)
	if !found || i+1 >= len(t.ids) {
		return
	}
	t.SelectKey(t.ids[i+1])
}

// Updater returns the current updater.
func (t *Tree) Updater() Updater {
	return t.updater
}

// SetUpdater replaces the updater and rebuilds the tree from scratch.
// Selection is kept as a key; the stored filter is reapplied.
func (t *Tree) SetUpdater(u Updater) {
	t.updater = u
	t.Refresh()
}

// Refresh discards every item and rebuilds the tree from the source.
func (t *Tree) Refresh() {
	t.items = make(map[string]*Item, len(t.items))
	t.ids = t.ids[:0]
	t.roots = t.roots[:0]
	t.load()
}

// load lays out every source key without per-key notifications, applies
// the filter and publishes a single bulk Added.
func (t *Tree) load() {
	keys := t.source.Keys()
	for _, key := range keys {
		apply(t, t.updater, key, actionAdd)
	}
	t.FilterKeyItems(t.filter)
	t.log.V(1).Info("loaded key tree", "updater", t.updater.String(), "keys", len(keys), "items", len(t.ids))
	t.feed.Publish(event.Added, Delta{Tree: t})
}

func (t *Tree) insert(it *Item) {
	t.items[it.id] = it
	t.ids = insertSorted(t.ids, it.id)
	if it.parent == "" {
		t.roots = insertSorted(t.roots, it.id)
		return
	}
	if p, ok := t.items[it.parent]; ok {
		p.children = insertSorted(p.children, it.id)
	}
}

func (t *Tree) delete(id string) {
	it, ok := t.items[id]
	if !ok {
		return
	}
	delete(t.items, id)
	t.ids = removeSorted(t.ids, id)
	if it.parent == "" {
		t.roots = removeSorted(t.roots, id)
		return
	}
	if p, ok := t.items[it.parent]; ok {
		p.children = removeSorted(p.children, id)
	}
}

func insertSorted(ids []string, id string) []string {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}

func removeSorted(ids []string, id string) []string {
	i, found := slices.BinarySearch(ids, id)
	if !found {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}
