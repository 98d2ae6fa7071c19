package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/formatter"
	"github.com/oakwood-commons/rbx/internal/watch"
)

// renderRoot formats the session in the selected output format.
func renderRoot(s *session) (string, error) {
	records, err := s.records()
	if err != nil {
		return "", err
	}
	switch s.run.Output {
	case "tree":
		tag, err := s.locale(localeFlag)
		if err != nil {
			return "", err
		}
		opts := formatter.TreeOptions{
			NoColor:     s.noColor,
			ShowValues:  true,
			Locale:      tag,
			MarkMissing: true,
			MaxValueLen: 60,
		}
		if whereExpr != "" {
			keep := make(map[string]bool, len(records))
			for _, r := range records {
				keep[r.Key] = true
			}
			opts.Include = func(key string) bool { return keep[key] }
		}
		return formatter.FormatTree(s.tree, s.group, opts) + "\n", nil
	case "list":
		locales := s.group.Locales()
		if localeFlag != "" {
			tag, err := s.locale(localeFlag)
			if err != nil {
				return "", err
			}
			locales = []language.Tag{tag}
		}
		return formatter.FormatList(records, formatter.ListOptions{Table: s.tableOptions(), Locales: locales}), nil
	default:
		if records == nil {
			records = []analysis.KeyRecord{}
		}
		doc := formatter.Document{Bundle: s.group.Name(), Keys: records}
		for _, tag := range s.group.Locales() {
			doc.Locales = append(doc.Locales, tag.String())
		}
		return formatter.FormatDocument(doc, s.run.Output)
	}
}

// watchBundle reloads the bundle on every change of its directory and
// calls render when the group changed. The tree follows the group through
// its entry events; it is never rebuilt here.
func watchBundle(ctx context.Context, s *session, w io.Writer, render func() error) error {
	watcher, err := watch.New(s.engine.Dir(), watch.WithLogger(s.log))
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- watcher.Run(ctx) }()

	for change := range watcher.Changes() {
		stats, err := s.engine.Reload()
		if err != nil {
			s.log.Error(err, "failed to reload bundle", "paths", change.Paths)
			continue
		}
		if !stats.Changed() {
			continue
		}
		fmt.Fprintln(w)
		if err := render(); err != nil {
			return err
		}
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
