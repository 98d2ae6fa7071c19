// Package settings provides build metadata, per-run options and context
// helpers shared by the rbx CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "rbx"

// DefaultSeparator splits keys into groups when no separator is configured.
const DefaultSeparator = "."

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// TreeSettings selects how keys are arranged into a tree.
type TreeSettings struct {
	// Separator splits keys into group segments. Empty disables grouping.
	Separator string
	// Flat lists every key at the root.
	Flat bool
	// Incomplete hides keys that have a value in every locale.
	Incomplete bool
}

// Run holds the settings of a single execution of the application.
type Run struct {
	MinLogLevel int8
	BundleDir   string
	Tree        TreeSettings
	Output      string
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI before flags and the
// config file are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Tree: TreeSettings{
			Separator: DefaultSeparator,
		},
		Output:      "tree",
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
