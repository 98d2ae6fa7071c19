package formatter

import (
	"golang.org/x/text/language"

	"github.com/oakwood-commons/rbx/internal/analysis"
)

// ListOptions controls list output formatting.
type ListOptions struct {
	Table TableOptions
	// Locales selects the value columns, in order.
	Locales []language.Tag
	// MaxValueLen truncates values before layout (0 = unlimited).
	MaxValueLen int
}

// FormatList renders one row per record: the key followed by its value in
// each selected locale.
func FormatList(records []analysis.KeyRecord, opts ListOptions) string {
	headers := make([]string, 0, len(opts.Locales)+1)
	headers = append(headers, "KEY")
	for _, tag := range opts.Locales {
		headers = append(headers, LocaleLabel(tag))
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, 0, len(headers))
		row = append(row, r.Key)
		for _, tag := range opts.Locales {
			v, ok := r.Values[tag.String()]
			if !ok {
				row = append(row, MissingValue)
				continue
			}
			row = append(row, truncate(EscapeValue(v), opts.MaxValueLen))
		}
		rows = append(rows, row)
	}
	return RenderTable(headers, rows, opts.Table)
}

// LocaleLabel names a locale column; the root locale is "default".
func LocaleLabel(tag language.Tag) string {
	if tag == language.Und {
		return "default"
	}
	return tag.String()
}
