package bundle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/pkg/event"
)

var (
	// ErrEmptyKey is returned when a key operation receives an empty key.
	ErrEmptyKey = errors.New("key is empty")
	// ErrKeyExists is returned when the target key of an add, rename or copy
	// is already present in the group.
	ErrKeyExists = errors.New("key already exists")
	// ErrUnknownKey is returned when the source key is not in any bundle.
	ErrUnknownKey = errors.New("unknown key")
	// ErrUnknownLocale is returned when no bundle exists for a locale.
	ErrUnknownLocale = errors.New("unknown locale")
)

// Group is the set of locale bundles of one resource bundle.
type Group struct {
	name    string
	bundles map[string]*Bundle
	feed    event.Feed[*Bundle]
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{
		name:    name,
		bundles: make(map[string]*Bundle),
	}
}

// Name returns the base name of the group (e.g. "messages").
func (g *Group) Name() string {
	return g.name
}

// Subscribe registers fn for bundle notifications. An Added event is
// published whenever a new locale bundle joins the group.
func (g *Group) Subscribe(fn event.Listener[*Bundle]) *event.Subscription {
	return g.feed.Subscribe(fn)
}

// AddBundle returns the bundle for locale, creating and announcing it when
// it does not exist yet.
func (g *Group) AddBundle(locale language.Tag) *Bundle {
	id := locale.String()
	if b, ok := g.bundles[id]; ok {
		return b
	}
	b := NewBundle(locale)
	g.bundles[id] = b
	g.feed.Publish(event.Added, b)
	return b
}

// Bundle returns the bundle for locale.
func (g *Group) Bundle(locale language.Tag) (*Bundle, bool) {
	b, ok := g.bundles[locale.String()]
	return b, ok
}

// Bundles returns all bundles ordered by locale; the root locale ("und")
// sorts first.
func (g *Group) Bundles() []*Bundle {
	out := make([]*Bundle, 0, len(g.bundles))
	for _, b := range g.bundles {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Bundle) int {
		return compareLocales(a.locale, b.locale)
	})
	return out
}

// Locales returns the locales of all bundles in Bundles order.
func (g *Group) Locales() []language.Tag {
	bundles := g.Bundles()
	out := make([]language.Tag, len(bundles))
	for i, b := range bundles {
		out[i] = b.locale
	}
	return out
}

func compareLocales(a, b language.Tag) int {
	switch {
	case a == b:
		return 0
	case a == language.Und:
		return -1
	case b == language.Und:
		return 1
	}
	return strings.Compare(a.String(), b.String())
}

// Keys returns the union of all bundle keys in ascending order.
func (g *Group) Keys() []string {
	seen := make(map[string]struct{})
	for _, b := range g.bundles {
		for k := range b.entries {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries returns the entries stored under key, one per bundle holding it,
// in Bundles order.
func (g *Group) Entries(key string) []Entry {
	var out []Entry
	for _, b := range g.Bundles() {
		if e, ok := b.entries[key]; ok {
			out = append(out, e)
		}
	}
	return out
}

// EntryCount reports how many bundles hold key.
func (g *Group) EntryCount(key string) int {
	n := 0
	for _, b := range g.bundles {
		if _, ok := b.entries[key]; ok {
			n++
		}
	}
	return n
}

// IsKey reports whether any bundle holds key.
func (g *Group) IsKey(key string) bool {
	for _, b := range g.bundles {
		if _, ok := b.entries[key]; ok {
			return true
		}
	}
	return false
}

// IsComplete reports whether every bundle holds a non-blank value for key.
// A group without bundles has no complete keys.
func (g *Group) IsComplete(key string) bool {
	if len(g.bundles) == 0 {
		return false
	}
	return len(g.MissingLocales(key)) == 0
}

// MissingLocales returns the locales whose bundle lacks a non-blank value
// for key.
func (g *Group) MissingLocales(key string) []language.Tag {
	var out []language.Tag
	for _, b := range g.Bundles() {
		e, ok := b.entries[key]
		if !ok || strings.TrimSpace(e.Value) == "" {
			out = append(out, b.locale)
		}
	}
	return out
}

// AddKey adds key with an empty value to every bundle.
func (g *Group) AddKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if g.IsKey(key) {
		return fmt.Errorf("add %q: %w", key, ErrKeyExists)
	}
	for _, b := range g.Bundles() {
		b.Put(Entry{Key: key})
	}
	return nil
}

// RemoveKey deletes key from every bundle.
func (g *Group) RemoveKey(key string) error {
	if !g.IsKey(key) {
		return fmt.Errorf("remove %q: %w", key, ErrUnknownKey)
	}
	for _, b := range g.Bundles() {
		b.Remove(key)
	}
	return nil
}

// RenameKey moves every entry of oldKey to newKey, keeping values and
// comments. Listeners observe it as additions of newKey followed by removals
// of oldKey.
func (g *Group) RenameKey(oldKey, newKey string) error {
	if err := g.checkTransfer(oldKey, newKey); err != nil {
		return fmt.Errorf("rename %q: %w", oldKey, err)
	}
	if oldKey == newKey {
		return nil
	}
	for _, b := range g.Bundles() {
		if e, ok := b.entries[oldKey]; ok {
			e.Key = newKey
			b.Put(e)
		}
	}
	for _, b := range g.Bundles() {
		b.Remove(oldKey)
	}
	return nil
}

// CopyKey duplicates every entry of origKey under newKey.
func (g *Group) CopyKey(origKey, newKey string) error {
	if err := g.checkTransfer(origKey, newKey); err != nil {
		return fmt.Errorf("copy %q: %w", origKey, err)
	}
	if origKey == newKey {
		return fmt.Errorf("copy %q: %w", origKey, ErrKeyExists)
	}
	for _, b := range g.Bundles() {
		if e, ok := b.entries[origKey]; ok {
			e.Key = newKey
			b.Put(e)
		}
	}
	return nil
}

func (g *Group) checkTransfer(from, to string) error {
	if from == "" || to == "" {
		return ErrEmptyKey
	}
	if !g.IsKey(from) {
		return ErrUnknownKey
	}
	if from != to && g.IsKey(to) {
		return fmt.Errorf("%q: %w", to, ErrKeyExists)
	}
	return nil
}

// CommentKey marks every entry of key as commented out.
func (g *Group) CommentKey(key string) error {
	return g.setCommented(key, true)
}

// UncommentKey clears the commented flag of every entry of key.
func (g *Group) UncommentKey(key string) error {
	return g.setCommented(key, false)
}

func (g *Group) setCommented(key string, commented bool) error {
	if !g.IsKey(key) {
		return fmt.Errorf("comment %q: %w", key, ErrUnknownKey)
	}
	for _, b := range g.Bundles() {
		b.setCommented(key, commented)
	}
	return nil
}

// SetValue stores value for key in the bundle of locale.
func (g *Group) SetValue(locale language.Tag, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	b, ok := g.Bundle(locale)
	if !ok {
		return fmt.Errorf("set %q: %w: %s", key, ErrUnknownLocale, locale)
	}
	b.Set(key, value)
	return nil
}
