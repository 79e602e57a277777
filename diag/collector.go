// Package diag collects coded findings produced while shaping a graph.
//
// Every finding is kept, duplicates included: callers count occurrences.
// Severity is informational; only Collector.FailOn turns findings into a
// build failure, and only after emission completed.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/tsbindgen/errors"
)

// Diagnostic is one finding.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Location is a stable identity string (type or member), empty when the
	// finding is global.
	Location string `json:"location,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Location == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s %s: %s (%s)", d.Severity, d.Code, d.Message, d.Location)
}

// Collector accumulates diagnostics. It is safe for concurrent use because
// loading may run on several goroutines.
type Collector struct {
	mu     sync.Mutex
	items  []Diagnostic
	warnOn map[Code]bool
}

// NewCollector creates a collector. Codes in warnOn are reported with at
// least warning severity.
func NewCollector(warnOn ...string) *Collector {
	c := &Collector{warnOn: make(map[Code]bool, len(warnOn))}
	for _, code := range warnOn {
		c.warnOn[Code(strings.TrimSpace(code))] = true
	}
	return c
}

// Add records a diagnostic as given (after WarnOn elevation).
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warnOn[d.Code] && d.Severity < SevWarning {
		d.Severity = SevWarning
	}
	c.items = append(c.items, d)
}

// Report records a diagnostic with the code's default severity.
func (c *Collector) Report(code Code, location, format string, args ...interface{}) {
	c.Add(Diagnostic{
		Code:     code,
		Severity: code.DefaultSeverity(),
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

// ReportWith records a diagnostic with an explicit severity.
func (c *Collector) ReportWith(sev Severity, code Code, location, format string, args ...interface{}) {
	c.Add(Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

// Items returns a copy of all diagnostics in recording order.
func (c *Collector) Items() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Count returns how many diagnostics carry code.
func (c *Collector) Count(code Code) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Has reports whether at least one diagnostic carries code.
func (c *Collector) Has(code Code) bool {
	return c.Count(code) > 0
}

// CountBySeverity returns the number of diagnostics per severity.
func (c *Collector) CountBySeverity() map[Severity]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[Severity]int, 3)
	for _, d := range c.items {
		counts[d.Severity]++
	}
	return counts
}

// Sorted returns a copy ordered by severity (desc), code, location, keeping
// recording order for ties.
func (c *Collector) Sorted() []Diagnostic {
	items := c.Items()
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i], items[j]
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Location < dj.Location
	})
	return items
}

// FailOn returns ErrBuildFailed when any recorded code appears in codes.
func (c *Collector) FailOn(codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	want := make(map[Code]bool, len(codes))
	for _, code := range codes {
		want[Code(strings.TrimSpace(code))] = true
	}

	hits := make(map[Code]int)
	for _, d := range c.Items() {
		if want[d.Code] {
			hits[d.Code]++
		}
	}
	if len(hits) == 0 {
		return nil
	}

	parts := make([]string, 0, len(hits))
	for code, n := range hits {
		parts = append(parts, fmt.Sprintf("%s x%d", code, n))
	}
	sort.Strings(parts)
	return errors.WithHint(
		errors.Wrapf(errors.ErrBuildFailed, "fail-on diagnostics present: %s", strings.Join(parts, ", ")),
		"remove the codes from diagnostics.fail_on or fix the input")
}
