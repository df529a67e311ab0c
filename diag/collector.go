package diag

import (
	"fmt"
	"sort"

	"github.com/adamvoss/yamlast/ast"
)

// Collector accumulates the diagnostics of a single parse. It is not safe
// for concurrent use; every parse owns its own collector.
type Collector struct {
	msgs     Messages
	errors   List
	warnings List
	starts   map[int]struct{}
}

// NewCollector returns a collector that renders messages from msgs. A nil
// table selects the built-in messages.
func NewCollector(msgs Messages) *Collector {
	if msgs == nil {
		msgs = defaultMessages
	}
	return &Collector{msgs: msgs, starts: make(map[int]struct{})}
}

func (c *Collector) text(code Code, args []any) string {
	tmpl := c.msgs.Text(code)
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Error records an error for code over rng and reports whether it was kept.
// Only the first error starting at a given offset is kept, which collapses
// cascades from a single failure point.
func (c *Collector) Error(code Code, rng ast.Range, args ...any) bool {
	return c.add(Diagnostic{Message: c.text(code, args), Code: code, Severity: Error, Range: rng})
}

// Import records an error whose message comes from a foreign parser and
// cannot be classified further. Imported errors are always kept.
func (c *Collector) Import(message string, rng ast.Range) {
	c.errors = append(c.errors, Diagnostic{Message: message, Code: Undefined, Severity: Error, Range: rng})
}

func (c *Collector) add(d Diagnostic) bool {
	if _, dup := c.starts[d.Range.Start]; dup {
		return false
	}
	c.starts[d.Range.Start] = struct{}{}
	c.errors = append(c.errors, d)
	return true
}

// Warning records a warning for code over rng. Warnings are never
// de-duplicated.
func (c *Collector) Warning(code Code, rng ast.Range, args ...any) {
	c.warnings = append(c.warnings, Diagnostic{Message: c.text(code, args), Code: code, Severity: Warning, Range: rng})
}

// Errors returns the recorded errors in the order they were reported.
func (c *Collector) Errors() List { return c.errors }

// Warnings returns the recorded warnings in the order they were reported.
func (c *Collector) Warnings() List { return c.warnings }

// HasErrors reports whether any error was recorded.
func (c *Collector) HasErrors() bool { return len(c.errors) > 0 }

// Sorted returns errors and warnings merged and ordered by start offset.
// Errors come before warnings at the same offset.
func Sorted(errors, warnings List) List {
	out := make(List, 0, len(errors)+len(warnings))
	out = append(out, errors...)
	out = append(out, warnings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Range.Start != out[j].Range.Start {
			return out[i].Range.Start < out[j].Range.Start
		}
		return out[i].Severity < out[j].Severity
	})
	return out
}
