package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareReplacedLine(t *testing.T) {
	res := Compare("alpha\nbeta\n", "alpha\ngamma\n")
	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Removed)
	require.Len(t, res.Hunks, 1)

	hunk := res.Hunks[0]
	assert.Equal(t, 1, hunk.OldStart)
	assert.Equal(t, 1, hunk.NewStart)
	assert.Equal(t, []Line{
		{Type: LineContext, Text: "alpha", OldLine: 1, NewLine: 1},
		{Type: LineRemoved, Text: "beta", OldLine: 2},
		{Type: LineAdded, Text: "gamma", NewLine: 2},
	}, hunk.Lines)
}

func TestCompareUnchanged(t *testing.T) {
	res := Compare("same\n", "same\n")
	assert.False(t, res.Changed)
	assert.Empty(t, res.Hunks)
	assert.NotNil(t, res.Hunks)
}

func TestCompareSplitsDistantChanges(t *testing.T) {
	var before, after []string
	for i := 1; i <= 30; i++ {
		before = append(before, fmt.Sprintf("line %d", i))
		after = append(after, fmt.Sprintf("line %d", i))
	}
	after[1] = "changed 2"
	after[25] = "changed 26"

	res := Compare(strings.Join(before, "\n")+"\n", strings.Join(after, "\n")+"\n")
	require.Len(t, res.Hunks, 2)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, res.Removed)

	first := res.Hunks[0]
	assert.Equal(t, 1, first.OldStart)
	assert.Equal(t, "line 1", first.Lines[0].Text)
	assert.Equal(t, "line 5", first.Lines[len(first.Lines)-1].Text)

	second := res.Hunks[1]
	assert.Equal(t, 23, second.OldStart)
	assert.Equal(t, "line 23", second.Lines[0].Text)
	assert.Equal(t, "line 29", second.Lines[len(second.Lines)-1].Text)
}

func TestCompareTruncatesLargeInputs(t *testing.T) {
	big := strings.Repeat("x\n", MaxDiffLines)
	res := Compare(big, big+"y\n")
	assert.True(t, res.Changed)
	assert.True(t, res.Truncated)
	assert.Empty(t, res.Hunks)
}

func TestGroupMergesOverlappingContext(t *testing.T) {
	lines := Lines("a\nb\nc\nd\ne\n", "a\nB\nc\nD\ne\n")
	hunks := Group(lines, 1)
	require.Len(t, hunks, 1)
	assert.Equal(t, "a", hunks[0].Lines[0].Text)
	assert.Equal(t, "e", hunks[0].Lines[len(hunks[0].Lines)-1].Text)
}
