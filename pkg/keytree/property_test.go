package keytree

import (
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/language"
	"pgregory.net/rapid"

	"github.com/oakwood-commons/rbx/pkg/bundle"
)

var keyPool = []string{
	"a", "a.b", "a.b.c", "a.b.d", "a.c", "b", "b.a", "app.title",
	"app.menu.file", "app.menu", "x..y", "x.", ".z",
}

type op struct {
	add bool
	key string
}

func drawOps(t *rapid.T) []op {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) op {
		return op{
			add: rapid.Bool().Draw(t, "add"),
			key: rapid.SampledFrom(keyPool).Draw(t, "key"),
		}
	}), 0, 40).Draw(t, "ops")
}

func drawUpdater(t *rapid.T) Updater {
	switch rapid.IntRange(0, 2).Draw(t, "updater") {
	case 0:
		return Flat()
	case 1:
		return Grouped(".")
	default:
		return Incomplete(bundle.NewGroup("none"), Grouped("."))
	}
}

func TestPropertyCacheCompleteness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		u := drawUpdater(rt)
		tree := New(bundle.NewGroup("g"), u)
		present := map[string]bool{}

		for _, o := range drawOps(rt) {
			if o.add {
				tree.AddKey(o.key)
				present[o.key] = true
			} else {
				tree.RemoveKey(o.key)
				delete(present, o.key)
			}
			checkInvariants(rt, tree, present)
		}
	})
}

func TestPropertyAddIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		u := drawUpdater(rt)
		tree := New(bundle.NewGroup("g"), u)
		for _, o := range drawOps(rt) {
			if o.add {
				tree.AddKey(o.key)
			} else {
				tree.RemoveKey(o.key)
			}
		}
		key := rapid.SampledFrom(keyPool).Draw(rt, "again")
		tree.AddKey(key)
		once := snapshot(tree)
		tree.AddKey(key)
		if got := snapshot(tree); got != once {
			rt.Fatalf("second add of %q changed tree:\n%s\nvs\n%s", key, once, got)
		}
		tree.RemoveKey("not-in-pool")
		if got := snapshot(tree); got != once {
			rt.Fatalf("removing an absent key changed tree")
		}
	})
}

func TestPropertyRebuildMatchesIncremental(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := bundle.NewGroup("g")
		root := g.AddBundle(language.Und)
		tree := New(g, Grouped("."))
		for _, o := range drawOps(rt) {
			if o.add {
				root.Set(o.key, "v")
			} else {
				root.Remove(o.key)
			}
		}
		incremental := snapshot(tree)
		tree.Refresh()
		if got := snapshot(tree); got != incremental {
			rt.Fatalf("rebuild differs from incremental tree:\n%s\nvs\n%s", incremental, got)
		}
	})
}

func checkInvariants(t *rapid.T, tree *Tree, present map[string]bool) {
	var keys []string
	for it := range tree.Items() {
		if it.IsKey() {
			keys = append(keys, it.ID())
		} else if !it.HasChildren() {
			t.Fatalf("group item %q has no children", it.ID())
		}
		if p := it.ParentID(); p != "" {
			parent := tree.KeyTreeItem(p)
			if parent == nil || !slices.Contains(parent.ChildIDs(), it.ID()) {
				t.Fatalf("item %q not linked from parent %q", it.ID(), p)
			}
		}
	}
	want := make([]string, 0, len(present))
	for k := range present {
		want = append(want, k)
	}
	slices.Sort(want)
	if !slices.Equal(keys, want) {
		t.Fatalf("cache keys = %v, want %v", keys, want)
	}

	var roots []string
	for it := range tree.Items() {
		if it.ParentID() == "" {
			roots = append(roots, it.ID())
		}
	}
	if got := itemIDs(tree.RootKeyItems()); !slices.Equal(got, roots) {
		t.Fatalf("roots = %v, want %v", got, roots)
	}
	if tree.Updater().Mode() == ModeFlat && !slices.Equal(roots, itemIDs(tree.KeyItemsCache())) {
		t.Fatalf("flat roots %v differ from cache", roots)
	}
}

func snapshot(tree *Tree) string {
	var b strings.Builder
	for it := range tree.Items() {
		b.WriteString(it.ID())
		b.WriteString("|")
		b.WriteString(it.Name())
		b.WriteString("|")
		b.WriteString(it.ParentID())
		if it.IsKey() {
			b.WriteString("|key")
		}
		if it.Visible() {
			b.WriteString("|visible")
		}
		b.WriteString("\n")
	}
	return b.String()
}
