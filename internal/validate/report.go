package validate

import (
	"errors"
	"fmt"
	"io"
)

// ErrValidationFailed is returned by Report.Err when any issue was recorded
var ErrValidationFailed = errors.New("validation failed")

// Report accumulates the issues of one validation run
type Report struct {
	Issues []Issue

	// NodeCount is the number of node files that parsed as JSON
	NodeCount int

	// EdgeCount is the number of edge lines that parsed as JSON
	EdgeCount int

	// Strict is set when strict mode was requested
	Strict bool

	// VocabularySkipped is set when strict mode ran without a vocabulary
	VocabularySkipped bool
}

// Add records an issue
func (r *Report) Add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// OK reports whether the run found no issues
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// ErrorCount returns the total number of issues
func (r *Report) ErrorCount() int {
	return len(r.Issues)
}

// Count returns the number of issues matching target via errors.Is
func (r *Report) Count(target error) int {
	n := 0
	for _, issue := range r.Issues {
		if errors.Is(issue, target) {
			n++
		}
	}
	return n
}

// Err returns nil for a clean run, or an error carrying the issue count
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d errors", ErrValidationFailed, r.ErrorCount())
}

// Summary is the one-line outcome of the run
func (r *Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("Validation passed: %d nodes, %d edges", r.NodeCount, r.EdgeCount)
	}
	return fmt.Sprintf("Validation failed: %d errors", r.ErrorCount())
}

// Warning describes a degraded run, or returns "" when there is none
func (r *Report) Warning() string {
	if r.VocabularySkipped {
		return "Warning: strict mode requested but no vocabulary found; domain and relation checks were skipped"
	}
	return ""
}

// WriteIssues writes one line per issue, prefixed by its location
func (r *Report) WriteIssues(w io.Writer) error {
	for _, issue := range r.Issues {
		if _, err := fmt.Fprintf(w, "%s: %s\n", issue.Loc(), issue.Error()); err != nil {
			return err
		}
	}
	return nil
}
