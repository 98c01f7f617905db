package lspclient

import (
	"encoding/json"

	"github.com/sansio/lspclient/internal/rpc"
)

// requireNormal returns an [ErrIllegalState] if the client is not in state
// NORMAL, where all feature requests/notifications are permitted (spec §4.5).
func (c *Client) requireNormal(operation string) error {
	if !c.state.canSendFeature() {
		return &ErrIllegalState{State: c.state, Operation: operation}
	}
	return nil
}

// DidOpen sends textDocument/didOpen and records the document as open.
// The sync kind recorded for validation is whatever the server advertised
// in its capabilities; if the server advertised no textDocumentSync, full
// sync is assumed.
func (c *Client) DidOpen(doc rpc.TextDocumentItem) error {
	if err := c.requireNormal("didOpen"); err != nil {
		return err
	}
	kind := rpc.SyncFull
	if caps, ok := c.caps.snapshot(); ok && caps.TextDocumentSync != nil {
		kind = caps.TextDocumentSync.Kind()
	}
	c.docs.open_(doc.URI, kind)
	c.sendNotification(rpc.MethodDidOpen, rpc.DidOpenTextDocumentParams{TextDocument: doc})
	return nil
}

// DidChange sends textDocument/didChange after validating the change
// events against the sync kind negotiated for uri.
func (c *Client) DidChange(doc rpc.VersionedTextDocumentIdentifier, changes []rpc.TextDocumentContentChangeEvent) error {
	if err := c.requireNormal("didChange"); err != nil {
		return err
	}
	kind, ok := c.docs.syncKind(doc.URI)
	if !ok {
		return &ErrUnknownDocument{URI: string(doc.URI)}
	}
	if kind == rpc.SyncNone {
		return nil // server asked for no sync; drop silently
	}
	if kind == rpc.SyncFull {
		for i := range changes {
			changes[i].Range = nil
			changes[i].RangeLength = nil
		}
	}
	c.sendNotification(rpc.MethodDidChange, rpc.DidChangeTextDocumentParams{
		TextDocument:   doc,
		ContentChanges: changes,
	})
	return nil
}

// DidClose sends textDocument/didClose and forgets the document's sync state.
func (c *Client) DidClose(uri rpc.DocumentURI) error {
	if err := c.requireNormal("didClose"); err != nil {
		return err
	}
	c.docs.close(uri)
	c.sendNotification(rpc.MethodDidClose, rpc.DidCloseTextDocumentParams{
		TextDocument: rpc.TextDocumentIdentifier{URI: uri},
	})
	return nil
}

// DidSave sends textDocument/didSave.
func (c *Client) DidSave(params rpc.DidSaveTextDocumentParams) error {
	if err := c.requireNormal("didSave"); err != nil {
		return err
	}
	c.sendNotification(rpc.MethodDidSave, params)
	return nil
}

// WillSave sends textDocument/willSave.
func (c *Client) WillSave(params rpc.WillSaveTextDocumentParams) error {
	if err := c.requireNormal("willSave"); err != nil {
		return err
	}
	c.sendNotification(rpc.MethodWillSave, params)
	return nil
}

// WillSaveWaitUntil sends the request variant of willSave, whose result is
// a list of edits to apply before the save completes.
func (c *Client) WillSaveWaitUntil(params rpc.WillSaveTextDocumentParams) (int64, error) {
	return c.sendFeatureRequest("willSaveWaitUntil", rpc.TagWillSaveWaitUntil, rpc.MethodWillSaveWaitUntil, params)
}

// Completion sends textDocument/completion.
func (c *Client) Completion(params rpc.CompletionParams) (int64, error) {
	return c.sendFeatureRequest("completion", rpc.TagCompletion, rpc.MethodCompletion, params)
}

// Hover sends textDocument/hover.
func (c *Client) Hover(params rpc.HoverParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.HoverProvider }, "hover"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("hover", rpc.TagHover, rpc.MethodHover, params)
}

// SignatureHelp sends textDocument/signatureHelp.
func (c *Client) SignatureHelp(params rpc.SignatureHelpParams) (int64, error) {
	return c.sendFeatureRequest("signatureHelp", rpc.TagSignatureHelp, rpc.MethodSignatureHelp, params)
}

// Definition sends textDocument/definition.
func (c *Client) Definition(params rpc.DefinitionParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.DefinitionProvider }, "definition"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("definition", rpc.TagDefinition, rpc.MethodDefinition, params)
}

// Declaration sends textDocument/declaration.
func (c *Client) Declaration(params rpc.DefinitionParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.DeclarationProvider }, "declaration"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("declaration", rpc.TagDeclaration, rpc.MethodDeclaration, params)
}

// TypeDefinition sends textDocument/typeDefinition.
func (c *Client) TypeDefinition(params rpc.DefinitionParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.TypeDefinitionProvider }, "typeDefinition"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("typeDefinition", rpc.TagTypeDefinition, rpc.MethodTypeDefinition, params)
}

// Implementation sends textDocument/implementation.
func (c *Client) Implementation(params rpc.DefinitionParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.ImplementationProvider }, "implementation"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("implementation", rpc.TagImplementation, rpc.MethodImplementation, params)
}

// References sends textDocument/references.
func (c *Client) References(params rpc.ReferenceParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.ReferencesProvider }, "references"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("references", rpc.TagReferences, rpc.MethodReferences, params)
}

// DocumentSymbol sends textDocument/documentSymbol.
func (c *Client) DocumentSymbol(params rpc.DocumentSymbolParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.DocumentSymbolProvider }, "documentSymbol"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("documentSymbol", rpc.TagDocumentSymbol, rpc.MethodDocumentSymbol, params)
}

// WorkspaceSymbol sends workspace/symbol.
func (c *Client) WorkspaceSymbol(params rpc.WorkspaceSymbolParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.WorkspaceSymbolProvider }, "workspaceSymbol"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("workspaceSymbol", rpc.TagWorkspaceSymbol, rpc.MethodWorkspaceSymbol, params)
}

// Formatting sends textDocument/formatting.
func (c *Client) Formatting(params rpc.DocumentFormattingParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.DocumentFormattingProvider }, "formatting"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("formatting", rpc.TagFormatting, rpc.MethodFormatting, params)
}

// RangeFormatting sends textDocument/rangeFormatting.
func (c *Client) RangeFormatting(params rpc.DocumentRangeFormattingParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.DocumentRangeFormattingProvider }, "rangeFormatting"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("rangeFormatting", rpc.TagRangeFormatting, rpc.MethodRangeFormatting, params)
}

// Rename sends textDocument/rename.
func (c *Client) Rename(params rpc.RenameParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.RenameProvider }, "rename"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("rename", rpc.TagRename, rpc.MethodRename, params)
}

// FoldingRange sends textDocument/foldingRange.
func (c *Client) FoldingRange(params rpc.FoldingRangeParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.FoldingRangeProvider }, "foldingRange"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("foldingRange", rpc.TagFoldingRange, rpc.MethodFoldingRange, params)
}

// ExecuteCommand sends workspace/executeCommand.
func (c *Client) ExecuteCommand(params rpc.ExecuteCommandParams) (int64, error) {
	return c.sendFeatureRequest("executeCommand", rpc.TagExecuteCommand, rpc.MethodExecuteCommand, params)
}

// CodeAction sends textDocument/codeAction.
func (c *Client) CodeAction(params rpc.CodeActionParams) (int64, error) {
	if err := c.requireSupported(func(caps rpc.ServerCapabilities) json.RawMessage { return caps.CodeActionProvider }, "codeAction"); err != nil {
		return 0, err
	}
	return c.sendFeatureRequest("codeAction", rpc.TagCodeAction, rpc.MethodCodeAction, params)
}

// sendFeatureRequest validates state, allocates a correlation entry, and
// queues the request's bytes. It is the shared body of every feature
// request method above.
func (c *Client) sendFeatureRequest(operation string, tag rpc.RequestTag, method string, params any) (int64, error) {
	if err := c.requireNormal(operation); err != nil {
		return 0, err
	}
	id := c.corr.allocate(tag)
	c.encodeRequest(id, method, params)
	return id, nil
}

// requireSupported short-circuits a feature request the server has
// explicitly declared unsupported. A missing capability snapshot (before
// initialize completes, which requireNormal already forbids) or a
// provider flag the server never mentions is treated permissively, per
// spec §4.4: "a permissive implementation simply forwards."
func (c *Client) requireSupported(provider func(rpc.ServerCapabilities) json.RawMessage, operation string) error {
	caps, ok := c.caps.snapshot()
	if !ok {
		return nil
	}
	raw := provider(caps)
	if len(raw) == 0 {
		return nil
	}
	if !rpc.Supports(raw) {
		return &ErrUnsupportedCapability{Operation: operation}
	}
	return nil
}

// Shutdown sends the shutdown request and moves the client to
// WAITING_FOR_SHUTDOWN.
func (c *Client) Shutdown() (int64, error) {
	if !c.state.canSendShutdown() {
		return 0, &ErrIllegalState{State: c.state, Operation: "shutdown"}
	}
	id := c.corr.allocate(rpc.TagShutdown)
	c.encodeRequest(id, rpc.MethodShutdown, struct{}{})
	c.state = WaitingForShutdown
	return id, nil
}

// Exit sends the exit notification and moves the client to EXITED.
func (c *Client) Exit() error {
	if !c.state.canSendExit() {
		return &ErrIllegalState{State: c.state, Operation: "exit"}
	}
	c.sendNotification(rpc.MethodExit, struct{}{})
	c.state = Exited
	return nil
}

// CancelRequest sends $/cancelRequest for a previously issued request id.
// The correlation entry is left in place: the server may still reply with
// a result or a RequestCancelled error (spec §5, "Cancellation").
func (c *Client) CancelRequest(id int64) error {
	if c.state != Normal && c.state != WaitingForShutdown {
		return &ErrIllegalState{State: c.state, Operation: "cancelRequest"}
	}
	c.sendNotification(rpc.MethodCancelRequest, struct {
		ID int64 `json:"id"`
	}{ID: id})
	return nil
}

// ReplyToConfiguration answers a server-originated workspace/configuration
// request with one settings value per requested item, in the same order.
func (c *Client) ReplyToConfiguration(ev ConfigurationRequestEvent, settings []json.RawMessage) {
	c.replySuccess(ev.id, settings)
}

// ReplyToWorkspaceFolders answers a server-originated
// workspace/workspaceFolders request.
func (c *Client) ReplyToWorkspaceFolders(ev WorkspaceFoldersRequestEvent, folders []rpc.WorkspaceFolder) {
	c.replySuccess(ev.id, folders)
}

// ReplyToShowMessageRequest answers a server-originated
// window/showMessageRequest with the action the user picked, or nil if
// the request was dismissed.
func (c *Client) ReplyToShowMessageRequest(ev ShowMessageRequestEvent, chosen *rpc.MessageActionItem) {
	c.replySuccess(ev.id, chosen)
}

// ReplyToApplyEdit answers a server-originated workspace/applyEdit request.
func (c *Client) ReplyToApplyEdit(ev ApplyEditRequestEvent, result rpc.ApplyWorkspaceEditResult) {
	c.replySuccess(ev.id, result)
}
