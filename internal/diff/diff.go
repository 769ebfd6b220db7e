// Package diff renders line diffs between two versions of a document.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Line struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// Hunk is a run of changes with up to ContextLines unchanged lines around it.
type Hunk struct {
	OldStart int    `json:"old_start"`
	NewStart int    `json:"new_start"`
	Lines    []Line `json:"lines"`
}

const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

const (
	ContextLines = 3
	MaxDiffLines = 5000
)

// Result is the payload returned to the editor.
type Result struct {
	Changed   bool   `json:"changed"`
	Added     int    `json:"added"`
	Removed   int    `json:"removed"`
	Truncated bool   `json:"truncated,omitempty"`
	Hunks     []Hunk `json:"hunks"`
}

// Compare diffs before and after. Inputs larger than MaxDiffLines combined
// only report whether they differ.
func Compare(before, after string) Result {
	if before == after {
		return Result{Hunks: []Hunk{}}
	}
	if lineCount(before)+lineCount(after) > MaxDiffLines {
		return Result{Changed: true, Truncated: true, Hunks: []Hunk{}}
	}
	lines := Lines(before, after)
	res := Result{Changed: true, Hunks: Group(lines, ContextLines)}
	for _, line := range lines {
		switch line.Type {
		case LineAdded:
			res.Added++
		case LineRemoved:
			res.Removed++
		}
	}
	return res
}

// Lines is the full line-level edit script from before to after.
func Lines(before, after string) []Line {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return lines
}

// Group cuts an edit script into hunks, keeping radius context lines on
// each side of a change and merging changes whose context overlaps.
func Group(lines []Line, radius int) []Hunk {
	hunks := []Hunk{}
	start, end := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		hunk := Hunk{Lines: append([]Line{}, lines[start:end]...)}
		hunk.OldStart, hunk.NewStart = startsOf(lines, start)
		hunks = append(hunks, hunk)
		start, end = -1, -1
	}
	for i, line := range lines {
		if line.Type == LineContext {
			continue
		}
		lo := max(i-radius, 0)
		hi := min(i+radius+1, len(lines))
		if start >= 0 && lo > end {
			flush()
		}
		if start < 0 {
			start = lo
		}
		end = max(end, hi)
	}
	flush()
	return hunks
}

// startsOf reports the old and new line numbers a hunk starting at idx
// begins at; pure insertions or deletions borrow from the preceding lines.
func startsOf(lines []Line, idx int) (int, int) {
	oldStart, newStart := 1, 1
	for _, line := range lines[:idx] {
		if line.OldLine > 0 {
			oldStart = line.OldLine + 1
		}
		if line.NewLine > 0 {
			newStart = line.NewLine + 1
		}
	}
	return oldStart, newStart
}

func lineCount(value string) int {
	if value == "" {
		return 0
	}
	return strings.Count(value, "\n") + 1
}
