package ocrkit

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal issue encountered during validation or
// page processing. Processing continued, but the caller may want to know.
type Warning struct {
	// Page is the 1-based page number the warning concerns, or 0 for a
	// run-level warning.
	Page int

	// Message describes the issue.
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single display string, one per
// line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
