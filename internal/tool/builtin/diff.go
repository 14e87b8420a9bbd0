package builtin

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a diff line
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffAdded
	DiffRemoved
)

// DiffLine is one line of a line diff. Line is the 1-based line number in
// the side the line comes from (suggested for equal/added, original for
// removed).
type DiffLine struct {
	Op   DiffOp
	Line int
	Text string
}

var opByType = map[diffmatchpatch.Operation]DiffOp{
	diffmatchpatch.DiffEqual:  DiffEqual,
	diffmatchpatch.DiffInsert: DiffAdded,
	diffmatchpatch.DiffDelete: DiffRemoved,
}

// withNewline makes the last line compare equal whether or not the file
// ends in a newline
func withNewline(s string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

// LineDiff computes a line-level diff between two texts
func LineDiff(original, suggested string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(withNewline(original), withNewline(suggested))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	origLine, suggLine := 0, 0
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		op := opByType[d.Type]
		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			line := DiffLine{Op: op, Text: text}
			switch op {
			case DiffRemoved:
				origLine++
				line.Line = origLine
			case DiffAdded:
				suggLine++
				line.Line = suggLine
			default:
				origLine++
				suggLine++
				line.Line = suggLine
			}
			out = append(out, line)
		}
	}
	return out
}

// AddedLines returns the 1-based line numbers of the suggestion that are not
// in the original
func AddedLines(original, suggested string) []int {
	var added []int
	for _, l := range LineDiff(original, suggested) {
		if l.Op == DiffAdded {
			added = append(added, l.Line)
		}
	}
	return added
}
