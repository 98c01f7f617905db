package rpc

import (
	"testing"

	"github.com/teleivo/assertive/assert"
)

func TestPositionCompare(t *testing.T) {
	t.Parallel()

	assert.EqualValuesf(t, Position{Line: 0, Character: 2}.Compare(Position{Line: 0, Character: 2}), 0, "equal positions")
	assert.EqualValuesf(t, Position{Line: 0, Character: 1}.Compare(Position{Line: 0, Character: 2}), -1, "same line, earlier character")
	assert.EqualValuesf(t, Position{Line: 1, Character: 0}.Compare(Position{Line: 0, Character: 99}), 1, "later line always sorts after, regardless of character")
}

func TestRangeLengthSameLine(t *testing.T) {
	t.Parallel()

	got := RangeLength("abcdef", Position{Line: 0, Character: 2}, Position{Line: 0, Character: 4})
	assert.EqualValuesf(t, got, 2, "same line range length is end.character - start.character")
}

// TestRangeLengthMultiLine verifies the worked example: start=(0,2),
// end=(2,3), old_text="abcdef\nghij\nklmno" computes 4 + 4 + 3 = 11
// (remainder of line 0 after col 2 = "cdef", full line 1 = "ghij", prefix
// of line 2 up to col 3 = "klm").
func TestRangeLengthMultiLine(t *testing.T) {
	t.Parallel()

	oldText := "abcdef\nghij\nklmno"
	got := RangeLength(oldText, Position{Line: 0, Character: 2}, Position{Line: 2, Character: 3})
	assert.EqualValuesf(t, got, 11, "range length spanning three lines")
}

func TestRangeLengthLineTerminators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"LF", "abcdef\nghij\nklmno"},
		{"CRLF", "abcdef\r\nghij\r\nklmno"},
		{"CR", "abcdef\rghij\rklmno"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RangeLength(tt.text, Position{Line: 0, Character: 2}, Position{Line: 2, Character: 3})
			assert.EqualValuesf(t, got, 11, "range length is independent of line terminator style")
		})
	}
}

func TestRangeLengthSurrogatePair(t *testing.T) {
	t.Parallel()

	// U+1F600 (😀) encodes as a UTF-16 surrogate pair (2 code units) but a
	// single Go rune; rangeLength must count code units, not runes.
	text := "a😀b"
	got := RangeLength(text, Position{Line: 0, Character: 0}, Position{Line: 0, Character: 3})
	assert.EqualValuesf(t, got, 3, "surrogate pair counts as two UTF-16 code units")
}

func TestNewIncrementalChange(t *testing.T) {
	t.Parallel()

	oldText := "abcdef\nghij\nklmno"
	ev := NewIncrementalChange(Position{Line: 0, Character: 2}, Position{Line: 2, Character: 3}, "XYZ", oldText)

	assert.Truef(t, ev.Range != nil, "incremental change carries a range")
	assert.EqualValuesf(t, ev.Text, "XYZ", "new text")
	assert.Truef(t, ev.RangeLength != nil, "incremental change carries a deprecated rangeLength")
	assert.EqualValuesf(t, *ev.RangeLength, 11, "derived rangeLength")
}

func TestNewFullChange(t *testing.T) {
	t.Parallel()

	ev := NewFullChange("whole new content")
	assert.Truef(t, ev.Range == nil, "full change has no range")
	assert.Truef(t, ev.RangeLength == nil, "full change has no rangeLength")
	assert.EqualValuesf(t, ev.Text, "whole new content", "full change text")
}
