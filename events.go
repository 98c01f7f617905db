package lspclient

import (
	"encoding/json"

	"github.com/sansio/lspclient/internal/rpc"
)

// Event is the sum type of everything the dispatcher can hand back to the
// caller through [Client.Events]. Concrete types are unexported-marker
// structs; callers discriminate with a type switch.
type Event interface{ isEvent() }

// InitializedEvent is emitted once the initialize handshake completes; it
// carries the server's advertised capabilities.
type InitializedEvent struct {
	Capabilities rpc.ServerCapabilities
}

func (InitializedEvent) isEvent() {}

// CompletionEvent is the decoded result of a textDocument/completion request.
type CompletionEvent struct {
	ID   int64
	List rpc.CompletionList
}

func (CompletionEvent) isEvent() {}

// HoverEvent is the decoded result of a textDocument/hover request.
type HoverEvent struct {
	ID    int64
	Hover rpc.Hover
}

func (HoverEvent) isEvent() {}

// SignatureHelpEvent is the decoded result of a textDocument/signatureHelp request.
type SignatureHelpEvent struct {
	ID   int64
	Help rpc.SignatureHelp
}

func (SignatureHelpEvent) isEvent() {}

// LocationsEvent is the decoded result of textDocument/definition,
// declaration, typeDefinition, implementation, or references. Any of
// these may return a single location, an array of locations, or an array
// of location links.
type LocationsEvent struct {
	ID        int64
	Tag       rpc.RequestTag
	Locations []rpc.Location
	Links     []rpc.LocationLink
}

func (LocationsEvent) isEvent() {}

// DocumentSymbolEvent is the decoded result of textDocument/documentSymbol,
// which may return nested DocumentSymbol values or flat SymbolInformation.
type DocumentSymbolEvent struct {
	ID      int64
	Nested  []rpc.DocumentSymbol
	Flat    []rpc.SymbolInformation
}

func (DocumentSymbolEvent) isEvent() {}

// WorkspaceSymbolEvent is the decoded result of workspace/symbol.
type WorkspaceSymbolEvent struct {
	ID      int64
	Symbols []rpc.SymbolInformation
}

func (WorkspaceSymbolEvent) isEvent() {}

// TextEditsEvent is the decoded result of textDocument/formatting,
// rangeFormatting, or willSaveWaitUntil, all of which return []TextEdit.
type TextEditsEvent struct {
	ID    int64
	Tag   rpc.RequestTag
	Edits []rpc.TextEdit
}

func (TextEditsEvent) isEvent() {}

// RenameEvent is the decoded result of textDocument/rename.
type RenameEvent struct {
	ID   int64
	Edit rpc.WorkspaceEdit
}

func (RenameEvent) isEvent() {}

// FoldingRangeEvent is the decoded result of textDocument/foldingRange.
type FoldingRangeEvent struct {
	ID     int64
	Ranges []rpc.FoldingRange
}

func (FoldingRangeEvent) isEvent() {}

// ExecuteCommandEvent is the decoded result of workspace/executeCommand.
// The result shape is server-defined, so it is left undecoded.
type ExecuteCommandEvent struct {
	ID     int64
	Result json.RawMessage
}

func (ExecuteCommandEvent) isEvent() {}

// CodeActionEvent is the decoded result of textDocument/codeAction.
type CodeActionEvent struct {
	ID      int64
	Actions []rpc.CodeAction
}

func (CodeActionEvent) isEvent() {}

// ShutdownEvent is emitted when the server acknowledges a shutdown request.
type ShutdownEvent struct{}

func (ShutdownEvent) isEvent() {}

// RPCErrorEvent is emitted when a response carries a JSON-RPC error
// instead of a result, correlated back to the originating request.
type RPCErrorEvent struct {
	ID  int64
	Tag rpc.RequestTag
	Err *rpc.Error
}

func (RPCErrorEvent) isEvent() {}

// PublishDiagnosticsEvent mirrors a textDocument/publishDiagnostics notification.
type PublishDiagnosticsEvent struct {
	rpc.PublishDiagnosticsParams
}

func (PublishDiagnosticsEvent) isEvent() {}

// ShowMessageEvent mirrors a window/showMessage notification.
type ShowMessageEvent struct {
	rpc.ShowMessageParams
}

func (ShowMessageEvent) isEvent() {}

// LogMessageEvent mirrors a window/logMessage notification.
type LogMessageEvent struct {
	rpc.LogMessageParams
}

func (LogMessageEvent) isEvent() {}

// ProgressBeginEvent mirrors the first $/progress notification of a stream.
type ProgressBeginEvent struct {
	Token rpc.ProgressToken
	Value rpc.WorkDoneProgressBegin
}

func (ProgressBeginEvent) isEvent() {}

// ProgressReportEvent mirrors an intermediate $/progress notification.
type ProgressReportEvent struct {
	Token rpc.ProgressToken
	Value rpc.WorkDoneProgressReport
}

func (ProgressReportEvent) isEvent() {}

// ProgressEndEvent mirrors the final $/progress notification of a stream.
type ProgressEndEvent struct {
	Token rpc.ProgressToken
	Value rpc.WorkDoneProgressEnd
}

func (ProgressEndEvent) isEvent() {}

// ConfigurationRequestEvent mirrors a server-originated workspace/configuration
// request. The caller must reply via [Client.ReplyToConfiguration].
type ConfigurationRequestEvent struct {
	id    rpc.ID
	Items []rpc.ConfigurationItem
}

func (ConfigurationRequestEvent) isEvent() {}

// WorkspaceFoldersRequestEvent mirrors a server-originated
// workspace/workspaceFolders request. The caller must reply via
// [Client.ReplyToWorkspaceFolders].
type WorkspaceFoldersRequestEvent struct {
	id rpc.ID
}

func (WorkspaceFoldersRequestEvent) isEvent() {}

// ShowMessageRequestEvent mirrors a server-originated
// window/showMessageRequest request. The caller must reply via
// [Client.ReplyToShowMessageRequest].
type ShowMessageRequestEvent struct {
	id     rpc.ID
	Params rpc.ShowMessageRequestParams
}

func (ShowMessageRequestEvent) isEvent() {}

// ApplyEditRequestEvent mirrors a server-originated workspace/applyEdit
// request. The caller must reply via [Client.ReplyToApplyEdit].
type ApplyEditRequestEvent struct {
	id     rpc.ID
	Params rpc.ApplyWorkspaceEditParams
}

func (ApplyEditRequestEvent) isEvent() {}

// ProtocolErrorEvent carries a non-fatal protocol error: an unknown
// response id, a message forbidden by the current state, a duplicate
// initialize, or a progress report/end with no matching begin.
type ProtocolErrorEvent struct {
	Err error
}

func (ProtocolErrorEvent) isEvent() {}
