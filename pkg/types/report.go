package types

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Failure records one item of a batch operation that could not be completed.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report aggregates the outcome of a bulk copy or download. Batches run with
// at-least-attempt-all semantics, so a report can carry both successes and
// failures at once.
type Report struct {
	Files    int       `json:"files"`
	Dirs     int       `json:"dirs"`
	Bytes    int64     `json:"bytes"`
	Failures []Failure `json:"failures,omitempty"`
}

// Add folds another report into this one.
func (r *Report) Add(other Report) {
	r.Files += other.Files
	r.Dirs += other.Dirs
	r.Bytes += other.Bytes
	r.Failures = append(r.Failures, other.Failures...)
}

// Fail records a failed item.
func (r *Report) Fail(path string, err error) {
	r.Failures = append(r.Failures, Failure{Path: path, Reason: err.Error()})
}

// OK reports whether every item in the batch succeeded.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// String returns a human-readable summary.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d files, %d dirs, %s", r.Files, r.Dirs, humanize.Bytes(uint64(r.Bytes)))
	if len(r.Failures) > 0 {
		fmt.Fprintf(&sb, ", %d failed:", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&sb, "\n  %s: %s", f.Path, f.Reason)
		}
	}
	return sb.String()
}
