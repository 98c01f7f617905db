package rpc

import "strings"

// DocumentURI identifies a text document. The client treats it as an opaque
// string; it never parses or constructs file:// paths itself.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#documentUri
type DocumentURI string

// Position represents a position in a text document (zero-based line and
// UTF-16 code unit offset).
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#position
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Compare orders positions by line then character, matching the sort order
// the original client documents for Position values.
func (p Position) Compare(o Position) int {
	if p.Line != o.Line {
		if p.Line < o.Line {
			return -1
		}
		return 1
	}
	switch {
	case p.Character < o.Character:
		return -1
	case p.Character > o.Character:
		return 1
	default:
		return 0
	}
}

// Range represents a range in a text document.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#range
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentIdentifier identifies a text document using a URI.
type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

// VersionedTextDocumentIdentifier identifies a specific version of a text document.
type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int32 `json:"version"`
}

// TextDocumentItem represents an open text document with its content.
type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int32       `json:"version"`
	Text       string      `json:"text"`
}

// TextEdit represents a textual edit applicable to a text document.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// DidOpenTextDocumentParams contains the parameters for textDocument/didOpen.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidCloseTextDocumentParams contains the parameters for textDocument/didClose.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// TextDocumentSaveReason describes why a document was saved.
type TextDocumentSaveReason int

const (
	SaveManual     TextDocumentSaveReason = 1
	SaveAfterDelay TextDocumentSaveReason = 2
	SaveFocusOut   TextDocumentSaveReason = 3
)

// WillSaveTextDocumentParams contains the parameters for textDocument/willSave
// and textDocument/willSaveWaitUntil.
type WillSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier  `json:"textDocument"`
	Reason       TextDocumentSaveReason  `json:"reason"`
}

// DidSaveTextDocumentParams contains the parameters for textDocument/didSave.
type DidSaveTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Text         *string                `json:"text,omitempty"`
}

// TextDocumentContentChangeEvent describes a change to a text document. When
// Range is nil, Text is the full new content of the document (full sync).
// Otherwise Text replaces the given range (incremental sync). RangeLength is
// deprecated but still emitted for servers that rely on it.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocumentContentChangeEvent
type TextDocumentContentChangeEvent struct {
	Range       *Range  `json:"range,omitempty"`
	RangeLength *uint32 `json:"rangeLength,omitempty"`
	Text        string  `json:"text"`
}

// NewFullChange builds a TextDocumentContentChangeEvent describing a full
// document replacement.
func NewFullChange(text string) TextDocumentContentChangeEvent {
	return TextDocumentContentChangeEvent{Text: text}
}

// NewIncrementalChange builds a TextDocumentContentChangeEvent describing an
// incremental edit, deriving the deprecated RangeLength from oldText the way
// the original sans-I/O client's range_change constructor does.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocumentContentChangeEvent
func NewIncrementalChange(start, end Position, newText, oldText string) TextDocumentContentChangeEvent {
	length := RangeLength(oldText, start, end)
	r := Range{Start: start, End: end}
	return TextDocumentContentChangeEvent{
		Range:       &r,
		RangeLength: &length,
		Text:        newText,
	}
}

// DidChangeTextDocumentParams contains the parameters for textDocument/didChange.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// splitLines splits text on \n, \r\n, and \r, mirroring the line-terminator
// rules LSP positions are defined against, independent of platform.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

// RangeLength computes the deprecated rangeLength field: the number of
// UTF-16 code units between start and end in oldText.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocumentContentChangeEvent
func RangeLength(oldText string, start, end Position) uint32 {
	lines := splitLines(oldText)

	if start.Line == end.Line {
		line := lineAt(lines, start.Line)
		return utf16Len(sliceUTF16(line, start.Character, end.Character))
	}

	var total uint32
	total += utf16Len(sliceUTF16(lineAt(lines, start.Line), start.Character, ^uint32(0)))
	for l := start.Line + 1; l < end.Line; l++ {
		total += utf16Len(lineAt(lines, l))
	}
	total += utf16Len(sliceUTF16(lineAt(lines, end.Line), 0, end.Character))
	return total
}

func lineAt(lines []string, n uint32) string {
	if int(n) >= len(lines) {
		return ""
	}
	return lines[n]
}

// utf16Len returns the number of UTF-16 code units a string encodes to.
func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// sliceUTF16 returns the substring of s spanning UTF-16 code units [from, to).
// to == ^uint32(0) means "to the end of the string".
func sliceUTF16(s string, from, to uint32) string {
	var b strings.Builder
	var unit uint32
	for _, r := range s {
		width := uint32(1)
		if r > 0xFFFF {
			width = 2
		}
		if unit >= from && (to == ^uint32(0) || unit < to) {
			b.WriteRune(r)
		}
		unit += width
		if to != ^uint32(0) && unit >= to {
			break
		}
	}
	return b.String()
}
