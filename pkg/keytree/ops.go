package keytree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/rbx/pkg/bundle"
)

// Editor is the mutating side of a bundle group. Group operations issue
// plain key operations on it; the tree picks the results up through its
// subscriptions.
type Editor interface {
	IsKey(key string) bool
	RemoveKey(key string) error
	RenameKey(oldKey, newKey string) error
	CopyKey(origKey, newKey string) error
	CommentKey(key string) error
	UncommentKey(key string) error
}

// groupKeys returns id and every key below it, as real keys only.
func (t *Tree) groupKeys(id string) ([]string, error) {
	it := t.items[id]
	if it == nil {
		return nil, fmt.Errorf("no item %q in key tree", id)
	}
	var keys []string
	if it.key {
		keys = append(keys, it.id)
	}
	for _, c := range t.NestedChildren(it) {
		if c.key {
			keys = append(keys, c.id)
		}
	}
	return keys, nil
}

// DeleteGroup removes the key id and every key nested below it.
func DeleteGroup(ed Editor, t *Tree, id string) error {
	return eachKey(t, id, ed.RemoveKey)
}

// CommentGroup comments out the key id and every key nested below it.
func CommentGroup(ed Editor, t *Tree, id string) error {
	return eachKey(t, id, ed.CommentKey)
}

// UncommentGroup reverses CommentGroup.
func UncommentGroup(ed Editor, t *Tree, id string) error {
	return eachKey(t, id, ed.UncommentKey)
}

// RenameGroup renames id and every key nested below it by replacing the id
// prefix with newID. Nothing is renamed when any target key already exists.
func RenameGroup(ed Editor, t *Tree, id, newID string) error {
	return eachPrefixed(ed, t, id, newID, ed.RenameKey)
}

// CopyGroup copies id and every key nested below it under newID. Nothing is
// copied when any target key already exists.
func CopyGroup(ed Editor, t *Tree, id, newID string) error {
	return eachPrefixed(ed, t, id, newID, ed.CopyKey)
}

func eachKey(t *Tree, id string, fn func(string) error) error {
	keys, err := t.groupKeys(id)
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range keys {
		if err := fn(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func eachPrefixed(ed Editor, t *Tree, id, newID string, fn func(from, to string) error) error {
	if newID == "" {
		return fmt.Errorf("new id for %q is empty", id)
	}
	keys, err := t.groupKeys(id)
	if err != nil {
		return err
	}
	moves := make([][2]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, id) {
			continue
		}
		to := newID + key[len(id):]
		if to != key && ed.IsKey(to) {
			return fmt.Errorf("%q: %w", to, bundle.ErrKeyExists)
		}
		moves = append(moves, [2]string{key, to})
	}
	var errs []error
	for _, m := range moves {
		if err := fn(m[0], m[1]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
