package logger

// Output controls what categories of information the CLI prints at each
// verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults     OutputCategory = iota // Generated file list
	OutputDiagnostics                       // Warnings and errors
	OutputUserStatus                        // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress      // Per-namespace progress
	OutputPassSummaries // One line per shape pass

	// Level 2 (-vv) - Detailed
	OutputTiming // Per-pass timing
	OutputPolicy // Effective policy values

	// Level 3 (-vvv) - Trace
	OutputRenameDecisions // Every rename decision

	// Level 4 (-vvvv) - Full dump
	OutputGraphDump // Full graph contents after each pass
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:         VerbosityUser,
	OutputDiagnostics:     VerbosityUser,
	OutputUserStatus:      VerbosityUser,
	OutputProgress:        VerbosityInfo,
	OutputPassSummaries:   VerbosityInfo,
	OutputTiming:          VerbosityDebug,
	OutputPolicy:          VerbosityDebug,
	OutputRenameDecisions: VerbosityTrace,
	OutputGraphDump:       VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:         "results",
	OutputDiagnostics:     "diagnostics",
	OutputUserStatus:      "status",
	OutputProgress:        "progress",
	OutputPassSummaries:   "pass-summaries",
	OutputTiming:          "timing",
	OutputPolicy:          "policy",
	OutputRenameDecisions: "rename-decisions",
	OutputGraphDump:       "graph-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
