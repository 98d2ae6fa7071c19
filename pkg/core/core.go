// Package core is the embeddable entry point of rbx: it loads a bundle
// directory into a group, keeps a key tree on it and answers record
// queries, the same way the CLI does.
package core

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/cel"
	"github.com/oakwood-commons/rbx/internal/watch"
	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/keytree"
	"github.com/oakwood-commons/rbx/pkg/loader"
	"github.com/oakwood-commons/rbx/pkg/logger"
	"github.com/oakwood-commons/rbx/pkg/settings"
)

// Evaluator evaluates expressions against a key record.
type Evaluator interface {
	Evaluate(expr string, record map[string]any) (any, error)
}

// compiler is implemented by evaluators that can check an expression once
// and reuse it for every record.
type compiler interface {
	Compile(expr string) (*cel.Predicate, error)
}

// Engine holds a loaded bundle group and the key tree built on it.
type Engine struct {
	Evaluator Evaluator

	log      logr.Logger
	dir      string
	layout   settings.TreeSettings
	baseName string

	group *bundle.Group
	tree  *keytree.Tree
	where func(map[string]any) (bool, error)
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator for Where.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithLogger sets the logger handed to the loader and the tree.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Engine) {
		c.log = lgr
	}
}

// WithTree sets the tree layout.
func WithTree(ts settings.TreeSettings) Option {
	return func(c *Engine) {
		c.layout = ts
	}
}

// WithBaseName selects the bundle to load when dir holds several.
func WithBaseName(name string) Option {
	return func(c *Engine) {
		c.baseName = name
	}
}

// Open loads the bundle in dir and builds its key tree.
func Open(dir string, opts ...Option) (*Engine, error) {
	engine := &Engine{
		log:    logr.Discard(),
		dir:    dir,
		layout: settings.TreeSettings{Separator: settings.DefaultSeparator},
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}

	group, err := loader.LoadDir(dir, engine.LoaderOptions()...)
	if err != nil {
		return nil, err
	}
	engine.group = group
	engine.log = *logger.ForBundle(&engine.log, group.Name())
	engine.tree = keytree.New(group, Updater(engine.layout, group), keytree.WithLogger(engine.log))
	engine.log.V(1).Info("opened bundle", "dir", dir, "locales", len(group.Locales()), "keys", len(group.Keys()), "updater", engine.tree.Updater().String())
	return engine, nil
}

// Updater returns the updater matching ts. Incomplete wraps the grouped or
// flat layout and asks g for completeness.
func Updater(ts settings.TreeSettings, g *bundle.Group) keytree.Updater {
	u := keytree.Grouped(ts.Separator)
	if ts.Flat {
		u = keytree.Flat()
	}
	if ts.Incomplete {
		u = keytree.Incomplete(g, u)
	}
	return u
}

// LoaderOptions returns the options Open and Reload pass to the loader.
func (e *Engine) LoaderOptions() []loader.Option {
	opts := []loader.Option{loader.WithLogger(e.log)}
	// nested locale files need a separator even when grouping is off
	if e.layout.Separator != "" {
		opts = append(opts, loader.WithSeparator(e.layout.Separator))
	}
	if e.baseName != "" {
		opts = append(opts, loader.WithBaseName(e.baseName))
	}
	return opts
}

// Dir returns the bundle directory.
func (e *Engine) Dir() string {
	return e.dir
}

// Group returns the loaded bundle group.
func (e *Engine) Group() *bundle.Group {
	return e.group
}

// Tree returns the key tree following the group.
func (e *Engine) Tree() *keytree.Tree {
	return e.tree
}

// Logger returns the engine logger, tagged with the bundle name.
func (e *Engine) Logger() logr.Logger {
	return e.log
}

// Where restricts Records to the keys for which expr is true. The record
// is bound to "_". An empty expr removes the restriction.
func (e *Engine) Where(expr string) error {
	if expr == "" {
		e.where = nil
		return nil
	}
	if c, ok := e.Evaluator.(compiler); ok {
		p, err := c.Compile(expr)
		if err != nil {
			return err
		}
		e.where = p.Match
		return nil
	}
	e.where = func(record map[string]any) (bool, error) {
		out, err := e.Evaluator.Evaluate(expr, record)
		if err != nil {
			return false, err
		}
		b, ok := out.(bool)
		if !ok {
			return false, fmt.Errorf("expression %q yielded %v, want bool", expr, out)
		}
		return b, nil
	}
	return nil
}

// Records returns the records of the visible keys that pass Where, in key
// order.
func (e *Engine) Records() ([]analysis.KeyRecord, error) {
	all := analysis.Records(e.tree, e.group)
	if e.where == nil {
		return all, nil
	}
	out := make([]analysis.KeyRecord, 0, len(all))
	for _, r := range all {
		ok, err := e.where(r.Activation())
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate predicate for key %q: %w", r.Key, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Reload re-reads the bundle directory into the group. The tree follows
// through entry events.
func (e *Engine) Reload() (bundle.SyncStats, error) {
	stats, err := watch.Resync(e.group, e.dir, e.LoaderOptions()...)
	if err != nil {
		return stats, err
	}
	e.log.V(1).Info("reloaded bundle", "added", stats.Added, "modified", stats.Modified, "removed", stats.Removed)
	return stats, nil
}

// Close detaches the tree from the group.
func (e *Engine) Close() {
	e.tree.Close()
}
