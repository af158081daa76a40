package watcher

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary counts the characters that changed between two snapshot texts.
type Summary struct {
	Inserted int
	Deleted  int
	Patch    string
}

// Changed reports whether any text differs.
func (s Summary) Changed() bool { return s.Inserted > 0 || s.Deleted > 0 }

// Diff compares two encoded snapshots line by line.
func Diff(before, after string) Summary {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var s Summary
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Inserted += len(d.Text)
		case diffmatchpatch.DiffDelete:
			s.Deleted += len(d.Text)
		}
	}
	s.Patch = strings.TrimSpace(dmp.PatchToText(dmp.PatchMake(before, diffs)))
	return s
}
