// Package bundle holds the in-memory, multi-locale key/value store that the
// key tree indexes. A Group owns one Bundle per locale; every mutation is
// announced on the owning feed so views can follow along.
package bundle

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/pkg/event"
)

// Entry is one key/value pair of a locale bundle.
type Entry struct {
	Locale    language.Tag
	Key       string
	Value     string
	Comment   string
	Commented bool
}

// Bundle is the set of entries for a single locale.
type Bundle struct {
	locale  language.Tag
	entries map[string]Entry
	feed    event.Feed[Entry]
}

// NewBundle creates an empty bundle for locale. Use language.Und for the
// default (locale-less) bundle.
func NewBundle(locale language.Tag) *Bundle {
	return &Bundle{
		locale:  locale,
		entries: make(map[string]Entry),
	}
}

// Locale returns the bundle locale.
func (b *Bundle) Locale() language.Tag {
	return b.locale
}

// Entry returns the entry stored under key.
func (b *Bundle) Entry(key string) (Entry, bool) {
	e, ok := b.entries[key]
	return e, ok
}

// Keys returns the bundle keys in ascending order.
func (b *Bundle) Keys() []string {
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len reports the number of entries.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Subscribe registers fn for entry notifications of this bundle.
func (b *Bundle) Subscribe(fn event.Listener[Entry]) *event.Subscription {
	return b.feed.Subscribe(fn)
}

// Set stores value under key, publishing Added for a new key and Modified
// when the value of an existing key changes. Setting an identical value is a
// no-op.
func (b *Bundle) Set(key, value string) {
	if e, ok := b.entries[key]; ok {
		if e.Value == value {
			return
		}
		e.Value = value
		b.entries[key] = e
		b.feed.Publish(event.Modified, e)
		return
	}
	b.Put(Entry{Key: key, Value: value})
}

// Put stores e as is, overwriting any existing entry with the same key.
func (b *Bundle) Put(e Entry) {
	e.Locale = b.locale
	_, existed := b.entries[e.Key]
	b.entries[e.Key] = e
	if existed {
		b.feed.Publish(event.Modified, e)
		return
	}
	b.feed.Publish(event.Added, e)
}

// Remove deletes key and publishes Removed. It reports whether the key was
// present.
func (b *Bundle) Remove(key string) bool {
	e, ok := b.entries[key]
	if !ok {
		return false
	}
	delete(b.entries, key)
	b.feed.Publish(event.Removed, e)
	return true
}

func (b *Bundle) setCommented(key string, commented bool) bool {
	e, ok := b.entries[key]
	if !ok || e.Commented == commented {
		return false
	}
	e.Commented = commented
	b.entries[key] = e
	b.feed.Publish(event.Modified, e)
	return true
}
