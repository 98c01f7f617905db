package rpc

import "encoding/json"

// Location represents a location inside a resource, such as a line inside a
// text file.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

// LocationLink represents a link between a source and a target location,
// with optional origin/target selection ranges. Some servers return these
// instead of a bare Location for definition/declaration/references.
type LocationLink struct {
	OriginSelectionRange *Range      `json:"originSelectionRange,omitempty"`
	TargetURI            DocumentURI `json:"targetUri"`
	TargetRange          Range       `json:"targetRange"`
	TargetSelectionRange Range       `json:"targetSelectionRange"`
}

// TextDocumentPositionParams is the common {textDocument, position} shape
// shared by most single-cursor requests (hover, completion, definition, ...).
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// WorkDoneProgressParams carries an optional progress token a caller
// supplies to receive $/progress notifications for the request.
type WorkDoneProgressParams struct {
	WorkDoneToken *ProgressToken `json:"workDoneToken,omitempty"`
}

// PartialResultParams carries an optional token for streaming partial
// results via $/progress.
type PartialResultParams struct {
	PartialResultToken *ProgressToken `json:"partialResultToken,omitempty"`
}

// CompletionTriggerKind describes how a completion request was triggered.
type CompletionTriggerKind int

const (
	CompletionInvoked                         CompletionTriggerKind = 1
	CompletionTriggerCharacter                 CompletionTriggerKind = 2
	CompletionTriggerForIncompleteCompletions CompletionTriggerKind = 3
)

// CompletionContext carries additional information about the context in
// which a completion request was triggered.
type CompletionContext struct {
	TriggerKind      CompletionTriggerKind `json:"triggerKind"`
	TriggerCharacter *string               `json:"triggerCharacter,omitempty"`
}

// CompletionParams contains the parameters for textDocument/completion.
type CompletionParams struct {
	TextDocumentPositionParams
	WorkDoneProgressParams
	PartialResultParams
	Context *CompletionContext `json:"context,omitempty"`
}

// CompletionItemKind categorizes a completion item for icon/sort purposes.
type CompletionItemKind int

// InsertTextFormat describes whether a completion item's insertText is a
// plain string or a snippet.
type InsertTextFormat int

const (
	InsertTextFormatPlainText InsertTextFormat = 1
	InsertTextFormatSnippet   InsertTextFormat = 2
)

// CompletionItem represents one suggestion in a code completion request.
type CompletionItem struct {
	Label            string              `json:"label"`
	Kind             *CompletionItemKind `json:"kind,omitempty"`
	Detail           *string             `json:"detail,omitempty"`
	Documentation    json.RawMessage     `json:"documentation,omitempty"`
	SortText         *string             `json:"sortText,omitempty"`
	FilterText       *string             `json:"filterText,omitempty"`
	InsertText       *string             `json:"insertText,omitempty"`
	InsertTextFormat *InsertTextFormat   `json:"insertTextFormat,omitempty"`
	TextEdit         *TextEdit           `json:"textEdit,omitempty"`
}

// CompletionList represents a collection of completion items the server
// knows are complete or incomplete. Some servers return a bare array of
// CompletionItem instead; NormalizeCompletionList covers both shapes.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// NormalizeCompletionList decodes a textDocument/completion result, which
// the protocol allows to be null, a bare CompletionItem array, or a
// CompletionList object, into a single CompletionList shape.
func NormalizeCompletionList(raw json.RawMessage) (CompletionList, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return CompletionList{}, nil
	}
	var list CompletionList
	if err := json.Unmarshal(raw, &list); err == nil && (list.Items != nil || hasListObjectShape(raw)) {
		return list, nil
	}
	var items []CompletionItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return CompletionList{}, err
	}
	return CompletionList{Items: items}, nil
}

func hasListObjectShape(raw json.RawMessage) bool {
	var probe struct {
		IsIncomplete *bool `json:"isIncomplete"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.IsIncomplete != nil
}

// MarkupKind describes the content format of documentation/hover text.
type MarkupKind string

const (
	MarkupPlainText MarkupKind = "plaintext"
	MarkupMarkdown  MarkupKind = "markdown"
)

// MarkupContent is a string value which content can be represented in
// different formats.
type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

// HoverParams contains the parameters for textDocument/hover.
type HoverParams struct {
	TextDocumentPositionParams
	WorkDoneProgressParams
}

// Hover is the result of a textDocument/hover request.
type Hover struct {
	Contents json.RawMessage `json:"contents"`
	Range    *Range          `json:"range,omitempty"`
}

// SignatureHelpParams contains the parameters for textDocument/signatureHelp.
type SignatureHelpParams struct {
	TextDocumentPositionParams
	WorkDoneProgressParams
}

// ParameterInformation represents a parameter of a callable-signature.
type ParameterInformation struct {
	Label         json.RawMessage `json:"label"`
	Documentation json.RawMessage `json:"documentation,omitempty"`
}

// SignatureInformation represents the signature of something callable.
type SignatureInformation struct {
	Label         string                 `json:"label"`
	Documentation json.RawMessage        `json:"documentation,omitempty"`
	Parameters    []ParameterInformation `json:"parameters,omitempty"`
}

// SignatureHelp is the result of a textDocument/signatureHelp request.
type SignatureHelp struct {
	Signatures      []SignatureInformation `json:"signatures"`
	ActiveSignature *uint32                `json:"activeSignature,omitempty"`
	ActiveParameter *uint32                `json:"activeParameter,omitempty"`
}

// DefinitionParams contains the parameters shared by textDocument/definition,
// textDocument/declaration, textDocument/typeDefinition and
// textDocument/implementation.
type DefinitionParams struct {
	TextDocumentPositionParams
	WorkDoneProgressParams
	PartialResultParams
}

// ReferenceContext carries options for textDocument/references.
type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

// ReferenceParams contains the parameters for textDocument/references.
type ReferenceParams struct {
	TextDocumentPositionParams
	WorkDoneProgressParams
	PartialResultParams
	Context ReferenceContext `json:"context"`
}

// SymbolKind categorizes a symbol for icon/sort purposes.
type SymbolKind int

// DocumentSymbolParams contains the parameters for textDocument/documentSymbol.
type DocumentSymbolParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	WorkDoneProgressParams
	PartialResultParams
}

// DocumentSymbol represents programming constructs like variables, classes,
// interfaces, and so on, nested hierarchically.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         *string          `json:"detail,omitempty"`
	Kind           SymbolKind       `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// SymbolInformation is the flat, pre-3.16 shape some servers return instead
// of nested DocumentSymbol values.
type SymbolInformation struct {
	Name     string     `json:"name"`
	Kind     SymbolKind `json:"kind"`
	Location Location   `json:"location"`
}

// WorkspaceSymbolParams contains the parameters for workspace/symbol.
type WorkspaceSymbolParams struct {
	Query string `json:"query"`
	WorkDoneProgressParams
	PartialResultParams
}

// FormattingOptions describes how a document should be formatted.
type FormattingOptions struct {
	TabSize      uint32 `json:"tabSize"`
	InsertSpaces bool   `json:"insertSpaces"`
}

// DocumentFormattingParams contains the parameters for textDocument/formatting.
type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
	WorkDoneProgressParams
}

// DocumentRangeFormattingParams contains the parameters for
// textDocument/rangeFormatting.
type DocumentRangeFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Options      FormattingOptions      `json:"options"`
	WorkDoneProgressParams
}

// RenameParams contains the parameters for textDocument/rename.
type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
	WorkDoneProgressParams
}

// WorkspaceEdit represents a set of document changes used both as the
// result of textDocument/rename and as the argument of workspace/applyEdit.
type WorkspaceEdit struct {
	Changes map[DocumentURI][]TextEdit `json:"changes,omitempty"`
}

// FoldingRangeParams contains the parameters for textDocument/foldingRange.
type FoldingRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	WorkDoneProgressParams
	PartialResultParams
}

// FoldingRangeKind hints at the use of a folding range, e.g. "comment", "imports", "region".
type FoldingRangeKind string

// FoldingRange captures a range that can be folded.
type FoldingRange struct {
	StartLine      uint32            `json:"startLine"`
	StartCharacter *uint32           `json:"startCharacter,omitempty"`
	EndLine        uint32            `json:"endLine"`
	EndCharacter   *uint32           `json:"endCharacter,omitempty"`
	Kind           *FoldingRangeKind `json:"kind,omitempty"`
}

// Command represents a reference to a command identified by a string, with
// an optional list of arguments.
type Command struct {
	Title     string            `json:"title"`
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// ExecuteCommandParams contains the parameters for workspace/executeCommand.
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
	WorkDoneProgressParams
}

// DiagnosticSeverity indicates the severity of a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a problem reported for a document.
type Diagnostic struct {
	Range    Range               `json:"range"`
	Severity *DiagnosticSeverity `json:"severity,omitempty"`
	Code     json.RawMessage     `json:"code,omitempty"`
	Source   *string             `json:"source,omitempty"`
	Message  string              `json:"message"`
}

// PublishDiagnosticsParams contains the parameters for the server
// notification textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Version     *int32       `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// CodeActionContext carries the diagnostics and kinds a code action request is scoped to.
type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Only        []string     `json:"only,omitempty"`
}

// CodeActionParams contains the parameters for textDocument/codeAction.
type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
	WorkDoneProgressParams
}

// CodeAction represents a change that can be performed in code, such as a
// quick fix or a refactoring.
type CodeAction struct {
	Title       string         `json:"title"`
	Kind        *string        `json:"kind,omitempty"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
	Edit        *WorkspaceEdit `json:"edit,omitempty"`
	Command     *Command       `json:"command,omitempty"`
}
