package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/formatter"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates [dir]",
	Short: "List values shared by several keys of the same locale",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.engine.Close()

		dups := analysis.DuplicateValues(s.tree, s.group)
		if len(dups) == 0 {
			s.log.V(1).Info("no duplicate values")
			return nil
		}
		rows := make([][]string, 0, len(dups))
		for _, d := range dups {
			rows = append(rows, []string{
				formatter.LocaleLabel(d.Locale),
				formatter.EscapeValue(d.Value),
				strings.Join(d.Keys, ", "),
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"LOCALE", "VALUE", "KEYS"}, rows, s.tableOptions()))
		return nil
	},
}
