package keytree

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/event"
)

// newGroup builds a group with a root and a French bundle. Every key gets a
// root value; keys listed in complete also get a French value.
func newGroup(t *testing.T, keys []string, complete ...string) *bundle.Group {
	t.Helper()
	g := bundle.NewGroup("messages")
	root := g.AddBundle(language.Und)
	fr := g.AddBundle(language.French)
	for _, k := range keys {
		root.Set(k, "value of "+k)
	}
	for _, k := range complete {
		fr.Set(k, "valeur de "+k)
	}
	return g
}

func itemIDs(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func cacheIDs(tree *Tree) []string {
	return itemIDs(tree.KeyItemsCache())
}

func visibleIDs(tree *Tree) []string {
	var out []string
	for it := range tree.Items() {
		if it.Visible() {
			out = append(out, it.ID())
		}
	}
	return out
}

type recorder struct {
	events []event.Event[Delta]
}

func record(tree *Tree) *recorder {
	r := &recorder{}
	tree.Subscribe(func(ev event.Event[Delta]) {
		r.events = append(r.events, ev)
	})
	return r
}

func (r *recorder) kinds() []event.Kind {
	out := make([]event.Kind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) count(kind event.Kind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.events = nil
}
