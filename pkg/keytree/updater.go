package keytree

import (
	"fmt"
	"strings"
)

// Mode identifies an updater variant.
type Mode int

const (
	// ModeFlat puts every key at the root.
	ModeFlat Mode = iota
	// ModeGrouped splits keys on a separator into a hierarchy.
	ModeGrouped
	// ModeIncomplete wraps another updater and only shows keys missing a
	// value in at least one locale.
	ModeIncomplete
)

func (m Mode) String() string {
	switch m {
	case ModeFlat:
		return "flat"
	case ModeGrouped:
		return "grouped"
	case ModeIncomplete:
		return "incomplete"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Completeness reports whether a key has a value in every locale.
type Completeness interface {
	IsComplete(key string) bool
}

// Updater decides how keys are laid out in a Tree. The zero value is the
// flat updater.
type Updater struct {
	mode      Mode
	separator string
	source    Completeness
	wrapped   *Updater
}

// Flat returns the updater that creates one root item per key.
func Flat() Updater {
	return Updater{mode: ModeFlat}
}

// Grouped returns the updater that splits keys on separator. An empty
// separator never splits, which lays keys out like Flat.
func Grouped(separator string) Updater {
	return Updater{mode: ModeGrouped, separator: separator}
}

// Incomplete returns an updater that lays keys out with wrapped and hides
// every key that source reports complete.
func Incomplete(source Completeness, wrapped Updater) Updater {
	return Updater{mode: ModeIncomplete, source: source, wrapped: &wrapped}
}

// Mode returns the variant of u.
func (u Updater) Mode() Mode {
	return u.mode
}

// Separator returns the group separator of the structural updater, or ""
// for flat layouts.
func (u Updater) Separator() string {
	return u.Structural().separator
}

// Structural returns the innermost non-filtering updater.
func (u Updater) Structural() Updater {
	for u.mode == ModeIncomplete && u.wrapped != nil {
		u = *u.wrapped
	}
	return u
}

func (u Updater) String() string {
	switch u.mode {
	case ModeGrouped:
		return fmt.Sprintf("grouped(%q)", u.separator)
	case ModeIncomplete:
		if u.wrapped == nil {
			return "incomplete(flat)"
		}
		return "incomplete(" + u.wrapped.String() + ")"
	default:
		return u.mode.String()
	}
}

type action int

const (
	actionAdd action = iota
	actionRemove
	actionEvaluate
)

// apply performs the structural effect of act for key under u and returns
// the id of the deepest surviving item whose visibility may have changed,
// or "" when there is none.
func apply(t *Tree, u Updater, key string, act action) string {
	switch u.mode {
	case ModeGrouped:
		switch act {
		case actionAdd:
			return groupedAdd(t, u.separator, key)
		case actionRemove:
			return groupedRemove(t, key)
		}
		return ""
	case ModeIncomplete:
		var wrapped Updater
		if u.wrapped != nil {
			wrapped = *u.wrapped
		}
		touched := apply(t, wrapped, key, act)
		if act == actionEvaluate {
			touched = key
		}
		suppressIncomplete(t, u.source, touched)
		return touched
	default:
		switch act {
		case actionAdd:
			return flatAdd(t, key)
		case actionRemove:
			return flatRemove(t, key)
		}
		return ""
	}
}

func flatAdd(t *Tree, key string) string {
	if _, ok := t.items[key]; !ok {
		t.insert(newItem(key, key, "", true))
	}
	return key
}

func flatRemove(t *Tree, key string) string {
	if _, ok := t.items[key]; ok {
		t.delete(key)
	}
	return ""
}

func groupedAdd(t *Tree, sep, key string) string {
	if it, ok := t.items[key]; ok {
		it.key = true
		return key
	}
	parent := ""
	for _, prefix := range groupPrefixes(key, sep) {
		if _, ok := t.items[prefix]; !ok {
			t.insert(newItem(prefix, nameUnder(prefix, parent, sep), parent, false))
		}
		parent = prefix
	}
	t.insert(newItem(key, nameUnder(key, parent, sep), parent, true))
	return key
}

func groupedRemove(t *Tree, key string) string {
	it, ok := t.items[key]
	if !ok || !it.key {
		return ""
	}
	if it.HasChildren() {
		it.key = false
		return key
	}
	parent := it.parent
	t.delete(key)
	for parent != "" {
		p, ok := t.items[parent]
		if !ok {
			return ""
		}
		if p.key || p.HasChildren() {
			return parent
		}
		next := p.parent
		t.delete(parent)
		parent = next
	}
	return ""
}

// suppressIncomplete marks id and its ancestors hidden when they are group
// only items or complete keys.
func suppressIncomplete(t *Tree, source Completeness, id string) {
	for id != "" {
		it, ok := t.items[id]
		if !ok {
			return
		}
		it.suppressed = !it.key || (source != nil && source.IsComplete(id))
		id = it.parent
	}
}

// groupPrefixes returns the group ids above key, outermost first. A prefix
// is cut before every separator occurrence; empty prefixes and prefixes that
// end in the separator (from doubled separators) are skipped.
func groupPrefixes(key, sep string) []string {
	if sep == "" {
		return nil
	}
	var out []string
	for i := 0; i < len(key); {
		j := strings.Index(key[i:], sep)
		if j < 0 {
			break
		}
		end := i + j
		if end > 0 && !strings.HasSuffix(key[:end], sep) {
			out = append(out, key[:end])
		}
		i = end + len(sep)
	}
	return out
}

func nameUnder(id, parent, sep string) string {
	if parent == "" {
		return id
	}
	if name := strings.TrimPrefix(id, parent+sep); name != "" {
		return name
	}
	return id
}
