package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/config"
	"github.com/oakwood-commons/rbx/pkg/logger"
	"github.com/oakwood-commons/rbx/pkg/settings"
)

var (
	configFile string
	separator  string
	flat       bool
	incomplete bool
	filterText string
	noColor    bool
	debug      bool

	output     string
	whereExpr  string
	localeFlag string
	watchMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "rbx [dir]",
	Short: "Inspect resource bundles as a key tree",
	Long: `rbx loads the locale files of a resource bundle (messages.yaml,
messages_fr.yaml, messages_de_CH.json, ...) from a directory and shows
their keys as a tree grouped by a separator, as a flat list, or as a
yaml/json/toml document.`,
	Example: "\n  rbx i18n/\n  rbx i18n/ --flat --incomplete\n  rbx i18n/ -f menu --locale fr\n  rbx i18n/ -o json --where 'size(_.missing) > 0'\n  rbx i18n/ --watch\n",
	Args:    cobra.MaximumNArgs(1),
	// main prints the error; usage on every load error is noise
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// debug => zap.DebugLevel (-1), else zap.InfoLevel (0)
		var level int8
		if debug {
			level = -1
		}
		lgr := logger.Get(level)
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logger.WithLogger(ctx, lgr))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.engine.Close()

		render := func() error {
			out, err := renderRoot(s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}
		if err := render(); err != nil {
			return err
		}
		if !watchMode {
			return nil
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchBundle(ctx, s, cmd.OutOrStdout(), render)
	},
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file (default: <dir>/"+config.FileName+" when present)")
	pf.StringVarP(&separator, "separator", "s", settings.DefaultSeparator, "key separator used to group keys; empty disables grouping")
	pf.BoolVar(&flat, "flat", false, "list keys at the root instead of grouping them")
	pf.BoolVar(&incomplete, "incomplete", false, "show only keys missing a value in some locale")
	pf.StringVarP(&filterText, "filter", "f", "", "show only keys whose id contains this text (case-sensitive)")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "enable debug logging on stderr")

	rootCmd.Flags().StringVarP(&output, "output", "o", "tree", "output format: tree|list|yaml|json|toml")
	rootCmd.Flags().StringVar(&whereExpr, "where", "", "CEL predicate over key records, bound to '_', e.g. 'size(_.missing) > 0' or '_.key.startsWith(\"app.\")'")
	rootCmd.Flags().StringVar(&localeFlag, "locale", "", "locale shown next to keys in tree output, or the only value column in list output")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-render whenever a locale file changes")

	rootCmd.AddCommand(versionCmd, keysCmd, findCmd, duplicatesCmd, missingCmd)
	registerCompletions()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
