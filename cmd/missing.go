package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/analysis"
	"github.com/oakwood-commons/rbx/internal/formatter"
)

var missingCmd = &cobra.Command{
	Use:   "missing [dir]",
	Short: "List keys lacking a value in some locale",
	Long: `missing lists every visible key together with the locales that have no
value, or only a blank one, for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.engine.Close()

		entries := analysis.Missing(s.tree, s.group)
		if len(entries) == 0 {
			s.log.V(1).Info("every key is complete")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			names := make([]string, len(e.Locales))
			for i, tag := range e.Locales {
				names[i] = formatter.LocaleLabel(tag)
			}
			rows = append(rows, []string{e.Key, strings.Join(names, ", ")})
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"KEY", "MISSING"}, rows, s.tableOptions()))
		return nil
	},
}
