package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/formatter"
)

var (
	findFrom       string
	findLocale     string
	findBackward   bool
	findIgnoreCase bool
)

// ErrNotFound is returned by find when no value matches.
var ErrNotFound = errors.New("no matching value")

var findCmd = &cobra.Command{
	Use:   "find [dir] <text>",
	Short: "Find the next value containing text, across keys and locales",
	Long: `find scans the keys in tree order and, for each key, the locales in
bundle order. The search starts right after --from (key) and --in (locale),
wraps around, and prints the first match as "key<TAB>locale<TAB>value".`,
	Example: "\n  rbx find i18n/ Cancel\n  rbx find i18n/ cancel -i --from app.menu.file --in fr\n  rbx find i18n/ Cancel --backward\n",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[len(args)-1]
		s, err := openSession(cmd, args[:len(args)-1])
		if err != nil {
			return err
		}
		defer s.engine.Close()

		opts := analysis.FindOptions{
			Backward:    findBackward,
			IgnoreCase:  findIgnoreCase,
			VisibleOnly: true,
		}
		if findFrom != "" {
			s.tree.SelectKey(findFrom)
			if findLocale != "" {
				if opts.From, err = s.locale(findLocale); err != nil {
					return err
				}
			}
		}
		m, ok := analysis.FindValue(s.tree, s.group, query, opts)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, query)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.Key, formatter.LocaleLabel(m.Locale), formatter.EscapeValue(m.Value))
		return nil
	},
}

func init() { //nolint:gochecknoinits
	findCmd.Flags().StringVar(&findFrom, "from", "", "key to start after (default: start at the first key)")
	findCmd.Flags().StringVar(&findLocale, "in", "", "locale of --from to start after (default: the first locale)")
	findCmd.Flags().BoolVar(&findBackward, "backward", false, "search towards previous keys")
	findCmd.Flags().BoolVarP(&findIgnoreCase, "ignore-case", "i", false, "match case-insensitively")
	_ = findCmd.RegisterFlagCompletionFunc("in", completeLocale)
}
