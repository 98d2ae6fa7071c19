package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/limiter"
)

var (
	keyPrefix     string
	limitRecords  int
	offsetRecords int
	tailRecords   int
)

var keysCmd = &cobra.Command{
	Use:     "keys [dir]",
	Short:   "Print the visible keys in order, one per line",
	Example: "\n  rbx keys i18n/ --prefix app.menu\n  rbx keys i18n/ --incomplete --limit 20\n",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limitCfg := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
		if err := limitCfg.Validate(); err != nil {
			return fmt.Errorf("record limiting error: %w", err)
		}
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.engine.Close()

		var keys []string
		if keyPrefix != "" {
			for _, it := range analysis.KeysStartingWith(s.tree, keyPrefix) {
				if it.Visible() {
					keys = append(keys, it.ID())
				}
			}
		} else {
			keys = s.tree.VisibleKeys()
		}
		keys = limiter.Apply(limitCfg, keys)
		if len(keys) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keys, "\n"))
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits
	keysCmd.Flags().StringVar(&keyPrefix, "prefix", "", "only keys starting with this prefix")
	keysCmd.Flags().IntVar(&limitRecords, "limit", 0, "limit the number of keys printed")
	keysCmd.Flags().IntVar(&offsetRecords, "offset", 0, "skip the first N keys")
	keysCmd.Flags().IntVar(&tailRecords, "tail", 0, "print only the last N keys")
}
