// Package loader builds bundle groups from locale files. Each file holds the
// entries of one locale as a YAML, JSON or TOML document; nested maps are
// flattened into separator-joined keys.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/rbx/pkg/bundle"
)

// Format is the syntax of a locale file.
type Format string

const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DefaultSeparator joins nested map keys when flattening.
const DefaultSeparator = "."

type options struct {
	log       logr.Logger
	separator string
	baseName  string
}

// Option configures loading.
type Option func(*options)

// WithLogger sets the logger used to report skipped files and format
// detection.
func WithLogger(lgr logr.Logger) Option {
	return func(o *options) {
		o.log = lgr
	}
}

// WithSeparator sets the separator used to join nested keys.
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}

// WithBaseName restricts LoadDir to files of one bundle (e.g. "messages"
// for messages.yaml, messages_fr.yaml, ...).
func WithBaseName(name string) Option {
	return func(o *options) {
		o.baseName = name
	}
}

func newOptions(opts []Option) options {
	o := options{log: logr.Discard(), separator: DefaultSeparator}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LocaleFile is a locale file found in a bundle directory.
type LocaleFile struct {
	Path     string
	BaseName string
	Locale   language.Tag
	Format   Format
}

// LoadDir loads every locale file of one bundle found directly in dir.
// Without WithBaseName the alphabetically first base name is used.
func LoadDir(dir string, opts ...Option) (*bundle.Group, error) {
	o := newOptions(opts)
	files, err := ScanDir(dir)
	if err != nil {
		return nil, err
	}
	base := o.baseName
	if base == "" {
		if len(files) == 0 {
			return nil, fmt.Errorf("no locale files found in %s", dir)
		}
		base = files[0].BaseName
	}

	group := bundle.NewGroup(base)
	found := false
	for _, f := range files {
		if f.BaseName != base {
			o.log.V(1).Info("skipping locale file of another bundle", "path", f.Path, "bundle", f.BaseName)
			continue
		}
		found = true
		entries, err := loadFile(f.Path, f.Format, o)
		if err != nil {
			return nil, err
		}
		b := group.AddBundle(f.Locale)
		for _, key := range sortedKeys(entries) {
			b.Set(key, entries[key])
		}
		o.log.V(1).Info("loaded locale file", "path", f.Path, "locale", f.Locale.String(), "entries", len(entries))
	}
	if !found {
		return nil, fmt.Errorf("no locale files for bundle %q in %s", base, dir)
	}
	return group, nil
}

// ScanDir lists the locale files in dir ordered by base name and locale.
func ScanDir(dir string) ([]LocaleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle directory: %w", err)
	}
	var files []LocaleFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, ok := ParseFileName(e.Name())
		if !ok {
			continue
		}
		f.Path = filepath.Join(dir, e.Name())
		files = append(files, f)
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].BaseName != files[j].BaseName {
			return files[i].BaseName < files[j].BaseName
		}
		return files[i].Locale.String() < files[j].Locale.String()
	})
	return files, nil
}

// ParseFileName splits a locale file name such as messages_fr_CA.yaml into
// its base name, locale and format. Files without a locale suffix belong to
// the root locale (language.Und).
func ParseFileName(name string) (LocaleFile, bool) {
	format := formatForExt(strings.ToLower(filepath.Ext(name)))
	if format == FormatAuto {
		return LocaleFile{}, false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	f := LocaleFile{BaseName: stem, Locale: language.Und, Format: format}
	// The longest suffix shaped and parsed as a locale wins.
	for i := 0; i < len(stem); i++ {
		if stem[i] != '_' {
			continue
		}
		suffix := stem[i+1:]
		if !localeShape(strings.Split(suffix, "_")) {
			continue
		}
		tag, err := language.Parse(strings.ReplaceAll(suffix, "_", "-"))
		if err != nil {
			continue
		}
		f.BaseName = stem[:i]
		f.Locale = tag
		break
	}
	if f.BaseName == "" {
		return LocaleFile{}, false
	}
	return f, true
}

// localeShape reports whether parts look like a file-name locale:
// a lowercase language followed by Script, REGION or variant subtags.
func localeShape(parts []string) bool {
	if !isLower(parts[0]) || len(parts[0]) < 2 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		switch {
		case len(p) == 2 && strings.ToUpper(p) == p && isLetters(p):
		case len(p) == 3 && isDigits(p):
		case len(p) == 4 && isLetters(p) && strings.ToUpper(p[:1]) == p[:1] && isLower(p[1:]):
		case len(p) >= 5 && len(p) <= 8:
		default:
			return false
		}
	}
	return true
}

func isLower(s string) bool { return isLetters(s) && strings.ToLower(s) == s }

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func formatForExt(ext string) Format {
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// LoadFile reads a single locale file and returns its flattened entries.
func LoadFile(path string, opts ...Option) (map[string]string, error) {
	o := newOptions(opts)
	return loadFile(path, formatForExt(strings.ToLower(filepath.Ext(path))), o)
}

func loadFile(path string, format Format, o options) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := parse(data, format, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse decodes data in the given format (detected from content for
// FormatAuto) and flattens it into key/value entries.
func Parse(data []byte, format Format, opts ...Option) (map[string]string, error) {
	return parse(data, format, newOptions(opts))
}

func parse(data []byte, format Format, o options) (map[string]string, error) {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return map[string]string{}, nil
	}
	if format == FormatAuto {
		format = DetectFormat(input)
		o.log.V(1).Info("detected locale file format", "format", string(format))
	}
	var doc interface{}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	}
	if doc == nil {
		return map[string]string{}, nil
	}
	if !isMap(doc) {
		return nil, fmt.Errorf("locale file must hold a mapping, got %T", doc)
	}
	return Flatten(doc, o.separator), nil
}

// DetectFormat guesses the syntax of input.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") {
		return FormatJSON
	}
	return FormatYAML
}

// isLikelyTOML heuristic: section headers, or a majority of key = value
// lines (distinct from YAML's key: value).
func isLikelyTOML(input string) bool {
	lines := strings.Split(input, "\n")

	sectionPattern := regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	keyValuePattern := regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)

	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if sectionPattern.MatchString(line) {
			sectionCount++
		}
		if keyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

func isMap(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, map[interface{}]interface{}:
		return true
	}
	return false
}

// Flatten turns nested maps and lists into a flat map whose keys are the
// paths joined with sep. List elements use their index as path segment;
// nil leaves become empty values.
func Flatten(node interface{}, sep string) map[string]string {
	out := make(map[string]string)
	flatten(out, "", node, sep)
	return out
}

func flatten(out map[string]string, prefix string, node interface{}, sep string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + sep + k
	}
	switch v := node.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(out, join(k), child, sep)
		}
	case map[interface{}]interface{}:
		for k, child := range v {
			flatten(out, join(fmt.Sprint(k)), child, sep)
		}
	case []interface{}:
		for i, child := range v {
			flatten(out, join(fmt.Sprint(i)), child, sep)
		}
	case nil:
		if prefix != "" {
			out[prefix] = ""
		}
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
