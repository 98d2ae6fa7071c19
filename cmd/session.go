package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/config"
	"github.com/oakwood-commons/rbx/internal/formatter"
	"github.com/oakwood-commons/rbx/pkg/bundle"
	"github.com/oakwood-commons/rbx/pkg/core"
	"github.com/oakwood-commons/rbx/pkg/keytree"
	"github.com/oakwood-commons/rbx/pkg/logger"
	"github.com/oakwood-commons/rbx/pkg/settings"
)

const defaultFallbackTermWidth = 120

// session is a loaded bundle plus the settings of one run.
type session struct {
	run    *settings.Run
	cfg    config.Config
	engine *core.Engine
	log    logr.Logger
	group  *bundle.Group
	tree   *keytree.Tree
	// width caps tables; 0 when output is not a terminal.
	width   int
	noColor bool
}

func openSession(cmd *cobra.Command, args []string) (*session, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	run, cfg, err := resolveRun(cmd, dir)
	if err != nil {
		return nil, err
	}
	engine, err := core.Open(dir,
		core.WithLogger(*logger.FromContext(cmd.Context())),
		core.WithTree(run.Tree),
		core.WithBaseName(cfg.Bundle.BaseName),
	)
	if err != nil {
		return nil, err
	}
	s := newSession(run, cfg, engine)
	if filterText != "" {
		s.tree.FilterKeyItems(filterText)
	}
	s.noColor = colorDisabled(run, cmd.OutOrStdout())
	if isTerminal(cmd.OutOrStdout()) {
		s.width = detectTerminalWidth()
	}
	if whereExpr != "" && cmd.Flags().Lookup("where") != nil {
		if err := engine.Where(whereExpr); err != nil {
			engine.Close()
			return nil, fmt.Errorf("invalid --where: %w", err)
		}
	}
	return s, nil
}

func newSession(run *settings.Run, cfg config.Config, engine *core.Engine) *session {
	return &session{
		run:    run,
		cfg:    cfg,
		engine: engine,
		log:    engine.Logger(),
		group:  engine.Group(),
		tree:   engine.Tree(),
	}
}

// resolveRun layers the defaults, the config file and the flags that were
// set explicitly, in that order.
func resolveRun(cmd *cobra.Command, dir string) (*settings.Run, config.Config, error) {
	run := settings.NewCliParams()
	run.BundleDir = dir
	if debug {
		run.MinLogLevel = -1
	}

	var cfg config.Config
	path := configFile
	if path == "" {
		path = config.Find(dir)
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, cfg, err
		}
		cfg = loaded
		cfg.ApplyTo(run)
	}

	flags := cmd.Flags()
	if flags.Changed("separator") {
		run.Tree.Separator = separator
	}
	if flags.Changed("flat") {
		run.Tree.Flat = flat
	}
	if flags.Changed("incomplete") {
		run.Tree.Incomplete = incomplete
	}
	if flags.Changed("no-color") {
		run.NoColor = noColor
	}
	if flags.Changed("output") {
		run.Output = output
	}
	if !slices.Contains(config.Outputs, run.Output) {
		return nil, cfg, fmt.Errorf("invalid output format %q (expected one of %v)", run.Output, config.Outputs)
	}
	return run, cfg, nil
}

// locale resolves the locale to display: the given value, then
// bundle.default_locale, then the first locale of the group.
func (s *session) locale(value string) (language.Tag, error) {
	if value != "" {
		tag, err := language.Parse(value)
		if err != nil {
			return language.Und, fmt.Errorf("invalid locale %q: %w", value, err)
		}
		return tag, nil
	}
	if s.cfg.Bundle.DefaultLocale != "" {
		return s.cfg.DefaultLocale(), nil
	}
	if locales := s.group.Locales(); len(locales) > 0 {
		return locales[0], nil
	}
	return language.Und, nil
}

// records returns the visible keys' records that satisfy --where.
func (s *session) records() ([]analysis.KeyRecord, error) {
	return s.engine.Records()
}

func (s *session) tableOptions() formatter.TableOptions {
	return formatter.TableOptions{
		NoColor:     s.noColor,
		KeyColWidth: s.cfg.Display.KeyColWidth,
		MaxWidth:    s.width,
	}
}

func colorDisabled(run *settings.Run, w io.Writer) bool {
	if run.NoColor || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func detectTerminalWidth() int {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
			return w
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w
		}
	}
	return defaultFallbackTermWidth
}
