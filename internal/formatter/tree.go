package formatter

import (
	"strings"

	"github.com/xlab/treeprint"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/keytree"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	NoColor bool
	// ShowValues appends the Locale value to key labels.
	ShowValues bool
	Locale     language.Tag
	// MarkMissing appends the locales lacking a value to key labels.
	MarkMissing bool
	// MaxValueLen truncates values (0 = unlimited).
	MaxValueLen int
	// Include further restricts the keys shown; groups without an included
	// key are dropped. Nil includes every visible key.
	Include func(key string) bool
}

// FormatTree renders the visible items of t under a root labelled with the
// group name. Group items become branches; keys without visible children
// become leaves.
func FormatTree(t *keytree.Tree, g *bundle.Group, opts TreeOptions) string {
	root := treeprint.NewWithRoot(render(headerStyle, g.Name(), opts.NoColor))
	p := &treePrinter{tree: t, group: g, opts: opts, shown: make(map[string]bool)}
	for _, it := range t.RootKeyItems() {
		if p.isShown(it) {
			p.add(root, it)
		}
	}
	return root.String()
}

type treePrinter struct {
	tree  *keytree.Tree
	group *bundle.Group
	opts  TreeOptions
	shown map[string]bool
}

// isShown memoizes whether it or any descendant passes visibility and
// the Include predicate.
func (p *treePrinter) isShown(it *keytree.Item) bool {
	if v, ok := p.shown[it.ID()]; ok {
		return v
	}
	ok := false
	if it.Visible() {
		ok = it.IsKey() && (p.opts.Include == nil || p.opts.Include(it.ID()))
		for _, child := range p.tree.Children(it) {
			if p.isShown(child) {
				ok = true
			}
		}
	}
	p.shown[it.ID()] = ok
	return ok
}

func (p *treePrinter) add(branch treeprint.Tree, it *keytree.Item) {
	label := itemLabel(p.group, it, p.opts)
	var children []*keytree.Item
	for _, child := range p.tree.Children(it) {
		if p.isShown(child) {
			children = append(children, child)
		}
	}
	if len(children) == 0 {
		branch.AddNode(label)
		return
	}
	sub := branch.AddBranch(label)
	for _, child := range children {
		p.add(sub, child)
	}
}

func itemLabel(g *bundle.Group, it *keytree.Item, opts TreeOptions) string {
	if !it.IsKey() {
		return it.Name()
	}
	label := render(keyStyle, it.Name(), opts.NoColor)
	if opts.ShowValues {
		value := MissingValue
		style := missingStyle
		if b, ok := g.Bundle(opts.Locale); ok {
			if e, ok := b.Entry(it.ID()); ok {
				value = truncate(EscapeValue(e.Value), opts.MaxValueLen)
				style = valueStyle
			}
		}
		label += ": " + render(style, value, opts.NoColor)
	}
	if opts.MarkMissing {
		if tags := g.MissingLocales(it.ID()); len(tags) > 0 {
			names := make([]string, len(tags))
			for i, tag := range tags {
				names[i] = tag.String()
			}
			label += " " + render(missingStyle, "[missing: "+strings.Join(names, ", ")+"]", opts.NoColor)
		}
	}
	return label
}
