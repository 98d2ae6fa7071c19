// Package watch follows a bundle directory on disk. File events are
// debounced into Change batches delivered on a channel; the receiver reloads
// and resyncs its group on its own goroutine.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/loader"
)

// DefaultDebounce is the quiet period after the last event before a Change
// is delivered.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Run when the underlying watcher was closed.
var ErrClosed = errors.New("watcher closed")

// Change lists the locale files touched during one debounce window.
type Change struct {
	Paths []string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(lgr logr.Logger) Option {
	return func(w *Watcher) {
		w.log = lgr
	}
}

// WithFilter replaces the file-name filter. The default accepts locale
// files (see loader.ParseFileName).
func WithFilter(fn func(name string) bool) Option {
	return func(w *Watcher) {
		w.filter = fn
	}
}

// Watcher watches one directory for locale file changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	log      logr.Logger
	filter   func(string) bool

	fsw     *fsnotify.Watcher
	changes chan Change
}

// New starts watching dir. Call Run to deliver changes and Close to stop.
func New(dir string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		dir:      abs,
		debounce: DefaultDebounce,
		log:      logr.Discard(),
		filter: func(name string) bool {
			_, ok := loader.ParseFileName(name)
			return ok
		},
		changes: make(chan Change),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	w.fsw = fsw
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Changes delivers debounced batches. It is closed when Run returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the underlying watcher; a running Run returns ErrClosed.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.fsw.Close()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}
			if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if !w.filter(filepath.Base(ev.Name)) {
				continue
			}
			w.log.V(1).Info("locale file event", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			select {
			case w.changes <- Change{Paths: paths}:
			case <-ctx.Done():
				w.fsw.Close()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}
			w.log.Error(err, "watch error", "dir", w.dir)
		}
	}
}

// Resync reloads the bundle directory and merges it into g, so that trees
// built on g follow through ordinary entry events.
func Resync(g *bundle.Group, dir string, opts ...loader.Option) (bundle.SyncStats, error) {
	fresh, err := loader.LoadDir(dir, append([]loader.Option{loader.WithBaseName(g.Name())}, opts...)...)
	if err != nil {
		return bundle.SyncStats{}, fmt.Errorf("failed to reload bundle: %w", err)
	}
	return g.Sync(fresh), nil
}
