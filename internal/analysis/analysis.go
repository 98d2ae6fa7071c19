// Package analysis holds read-only consumers of a key tree and its bundle
// group: per-key records, prefix lookup, value search, duplicate values and
// missing-translation reports.
package analysis

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/keytree"
)

// KeyRecord is the per-key view used by output documents and predicates.
type KeyRecord struct {
	Key       string            `json:"key" yaml:"key" toml:"key"`
	Values    map[string]string `json:"values" yaml:"values" toml:"values"`
	Missing   []string          `json:"missing,omitempty" yaml:"missing,omitempty" toml:"missing,omitempty"`
	Commented bool              `json:"commented,omitempty" yaml:"commented,omitempty" toml:"commented,omitempty"`
	Complete  bool              `json:"complete" yaml:"complete" toml:"complete"`
}

// Record builds the record for key. Values are keyed by locale string;
// the root locale is "und".
func Record(g *bundle.Group, key string) KeyRecord {
	r := KeyRecord{Key: key, Values: make(map[string]string)}
	for _, e := range g.Entries(key) {
		r.Values[e.Locale.String()] = e.Value
		r.Commented = r.Commented || e.Commented
	}
	for _, tag := range g.MissingLocales(key) {
		r.Missing = append(r.Missing, tag.String())
	}
	r.Complete = g.IsComplete(key)
	return r
}

// Records returns a record for each visible key of t, in key order.
func Records(t *keytree.Tree, g *bundle.Group) []KeyRecord {
	var out []KeyRecord
	for it := range t.Items() {
		if it.IsKey() && it.Visible() {
			out = append(out, Record(g, it.ID()))
		}
	}
	return out
}

// Activation exposes the record to CEL as a plain map.
func (r KeyRecord) Activation() map[string]any {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	missing := make([]any, len(r.Missing))
	for i, m := range r.Missing {
		missing[i] = m
	}
	return map[string]any{
		"key":       r.Key,
		"values":    values,
		"missing":   missing,
		"commented": r.Commented,
		"complete":  r.Complete,
	}
}

// prefixCollector gathers real keys starting with a prefix.
type prefixCollector struct {
	prefix string
	keys   []*keytree.Item
}

func (c *prefixCollector) VisitKeyTreeItem(it *keytree.Item) {
	if it.IsKey() && strings.HasPrefix(it.ID(), c.prefix) {
		c.keys = append(c.keys, it)
	}
}

func (c *prefixCollector) VisitKeyTree(*keytree.Tree) {}

// KeysStartingWith returns the keys whose id starts with prefix, in order.
func KeysStartingWith(t *keytree.Tree, prefix string) []*keytree.Item {
	c := &prefixCollector{prefix: prefix}
	t.Accept(c)
	return c.keys
}

// FirstKeyStartingWith returns the first key whose id starts with prefix.
func FirstKeyStartingWith(t *keytree.Tree, prefix string) (*keytree.Item, bool) {
	for it := range t.ItemsWithPrefix(prefix) {
		if it.IsKey() {
			return it, true
		}
	}
	return nil, false
}

// Match is a hit of FindValue.
type Match struct {
	Key    string
	Locale language.Tag
	Value  string
}

// FindOptions tunes FindValue.
type FindOptions struct {
	// Locale to start after, together with the tree's selected key.
	From language.Tag
	// Backward searches towards the previous key.
	Backward bool
	// IgnoreCase folds case before matching.
	IgnoreCase bool
	// VisibleOnly skips keys hidden by the current filter.
	VisibleOnly bool
}

// FindValue scans keys times locales for a value containing query,
// starting right after the selected key's From locale and wrapping around.
// The starting cell itself is checked last.
func FindValue(t *keytree.Tree, g *bundle.Group, query string, opts FindOptions) (Match, bool) {
	if query == "" {
		return Match{}, false
	}
	var keys []string
	for it := range t.Items() {
		if it.IsKey() && (!opts.VisibleOnly || it.Visible()) {
			keys = append(keys, it.ID())
		}
	}
	locales := g.Locales()
	if len(keys) == 0 || len(locales) == 0 {
		return Match{}, false
	}

	type cell struct{ k, l int }
	start := cell{k: -1, l: len(locales) - 1}
	if i, ok := slices.BinarySearch(keys, t.SelectedKey()); ok {
		start.k = i
		start.l = max(slices.Index(locales, opts.From), 0)
	}
	if opts.Backward && start.k < 0 {
		start = cell{k: 0, l: 0}
	}

	if opts.IgnoreCase {
		query = strings.ToLower(query)
	}
	total := len(keys) * len(locales)
	pos := start.k*len(locales) + start.l
	for n := 1; n <= total; n++ {
		step := n
		if opts.Backward {
			step = -n
		}
		p := ((pos+step)%total + total) % total
		key, tag := keys[p/len(locales)], locales[p%len(locales)]
		b, _ := g.Bundle(tag)
		e, ok := b.Entry(key)
		if !ok {
			continue
		}
		v := e.Value
		if opts.IgnoreCase {
			v = strings.ToLower(v)
		}
		if strings.Contains(v, query) {
			return Match{Key: key, Locale: tag, Value: e.Value}, true
		}
	}
	return Match{}, false
}

// Duplicate is a value shared by several keys of one locale.
type Duplicate struct {
	Locale language.Tag
	Value  string
	Keys   []string
}

// DuplicateValues finds non-blank values held by more than one key within
// the same locale. Only keys present in t are considered.
func DuplicateValues(t *keytree.Tree, g *bundle.Group) []Duplicate {
	var out []Duplicate
	for _, b := range g.Bundles() {
		byValue := make(map[string][]string)
		var order []string
		for it := range t.Items() {
			if !it.IsKey() {
				continue
			}
			e, ok := b.Entry(it.ID())
			if !ok || strings.TrimSpace(e.Value) == "" {
				continue
			}
			if _, seen := byValue[e.Value]; !seen {
				order = append(order, e.Value)
			}
			byValue[e.Value] = append(byValue[e.Value], it.ID())
		}
		for _, v := range order {
			if keys := byValue[v]; len(keys) > 1 {
				out = append(out, Duplicate{Locale: b.Locale(), Value: v, Keys: keys})
			}
		}
	}
	return out
}

// DuplicatesOf returns the other keys holding the same value as key in
// the given locale.
func DuplicatesOf(t *keytree.Tree, g *bundle.Group, locale language.Tag, key string) []string {
	b, ok := g.Bundle(locale)
	if !ok {
		return nil
	}
	e, ok := b.Entry(key)
	if !ok || strings.TrimSpace(e.Value) == "" {
		return nil
	}
	var out []string
	for it := range t.Items() {
		if !it.IsKey() || it.ID() == key {
			continue
		}
		if other, ok := b.Entry(it.ID()); ok && other.Value == e.Value {
			out = append(out, it.ID())
		}
	}
	return out
}

// MissingEntry lists the locales lacking a value for a key.
type MissingEntry struct {
	Key     string
	Locales []language.Tag
}

// Missing reports the visible keys that lack a value in at least one
// locale.
func Missing(t *keytree.Tree, g *bundle.Group) []MissingEntry {
	var out []MissingEntry
	for it := range t.Items() {
		if !it.IsKey() || !it.Visible() {
			continue
		}
		if tags := g.MissingLocales(it.ID()); len(tags) > 0 {
			out = append(out, MissingEntry{Key: it.ID(), Locales: tags})
		}
	}
	return out
}
