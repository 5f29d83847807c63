// Package diffutil computes line-oriented diffs between two revisions of a
// document, used by the document service to satisfy the C1 Diff operation
// (spec.md §4.1) without parsing git's own diff output.
package diffutil

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changed
// sections. Equal runs longer than 2*contextLines are collapsed with "...".
const contextLines = 3

// Result holds a computed diff between two labelled revisions.
type Result struct {
	Old  string // old revision label
	New  string // new revision label
	Diff string // plain diff text, git-style +/-/space prefixed lines
}

// Compute returns a diff between old and new content, labelled oldLabel and
// newLabel (typically revision hashes or "working tree").
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(oldContent, newContent, false)
	d = dmp.DiffCleanupSemantic(d)

	return Result{
		Old:  oldLabel,
		New:  newLabel,
		Diff: format(d),
	}
}

// format converts character-level diffs into unified, line-oriented text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Format returns the full diff with a unified-style header.
func (r Result) Format() string {
	return fmt.Sprintf("--- %s\n+++ %s\n%s", r.Old, r.New, r.Diff)
}
