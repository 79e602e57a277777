package diag

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// FormatPlain renders one diagnostic per line without color, for logs and
// files.
func FormatPlain(items []Diagnostic) string {
	var sb strings.Builder
	for _, d := range items {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatTerminal renders diagnostics with severity colors.
func FormatTerminal(items []Diagnostic) string {
	var sb strings.Builder
	for _, d := range items {
		var sev string
		switch d.Severity {
		case SevError:
			sev = pterm.Red(d.Severity.String())
		case SevWarning:
			sev = pterm.Yellow(d.Severity.String())
		default:
			sev = pterm.Blue(d.Severity.String())
		}
		sb.WriteString(fmt.Sprintf("%s %s %s", sev, pterm.LightCyan(string(d.Code)), d.Message))
		if d.Location != "" {
			sb.WriteString(" " + pterm.Gray(d.Location))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns "N errors, N warnings, N info".
func Summary(c *Collector) string {
	counts := c.CountBySeverity()
	return fmt.Sprintf("%d errors, %d warnings, %d info",
		counts[SevError], counts[SevWarning], counts[SevInfo])
}
