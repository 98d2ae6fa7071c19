package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/rbx/internal/config"
	"github.com/oakwood-commons/rbx/pkg/loader"
)

// whereCompletions are the record fields and helpers offered for --where.
var whereCompletions = []string{
	"_.key",
	"_.values",
	"_.missing",
	"_.commented",
	"_.complete",
	"size(_.missing) > 0",
	"_.key.startsWith(",
	".isBlank()",
}

func completeBundleDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeLocale offers the locales found in the bundle directory argument.
func completeLocale(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	files, err := loader.ScanDir(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, f := range files {
		tag := f.Locale.String()
		if strings.HasPrefix(tag, toComplete) && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeWhere(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, c := range whereCompletions {
		if strings.HasPrefix(c, toComplete) {
			out = append(out, c)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func registerCompletions() {
	for _, c := range []*cobra.Command{rootCmd, keysCmd, duplicatesCmd, missingCmd} {
		c.ValidArgsFunction = completeBundleDir
	}
	_ = rootCmd.RegisterFlagCompletionFunc("locale", completeLocale)
	_ = rootCmd.RegisterFlagCompletionFunc("where", completeWhere)
	_ = rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(config.Outputs, cobra.ShellCompDirectiveNoFileComp))
}
