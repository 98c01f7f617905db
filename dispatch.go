package lspclient

import (
	"encoding/json"
	"fmt"

	"github.com/sansio/lspclient/internal/assert"
	"github.com/sansio/lspclient/internal/rpc"
)

// dispatch consumes one decoded message and updates state, the
// correlation table, the capability registry, and the progress tracker,
// appending whatever events and outbound bytes result (spec §4.6).
func (c *Client) dispatch(msg rpc.Message) {
	switch {
	case msg.IsResponse():
		c.dispatchResponse(msg)
	case msg.IsRequest():
		c.dispatchServerRequest(msg)
	case msg.IsNotification():
		c.dispatchNotification(msg)
	default:
		c.emit(ProtocolErrorEvent{Err: fmt.Errorf("message is neither request, response, nor notification")})
	}
}

func (c *Client) dispatchResponse(msg rpc.Message) {
	assert.That(msg.ID != nil, "response must have an id")
	id, isInt := msg.ID.Int()
	if !isInt {
		c.emit(ProtocolErrorEvent{Err: &ErrUnknownResponseID{ID: msg.ID.String()}})
		return
	}
	tag, ok := c.corr.take(id)
	if !ok {
		c.emit(ProtocolErrorEvent{Err: &ErrUnknownResponseID{ID: msg.ID.String()}})
		return
	}

	if tag == rpc.TagInitialize {
		c.dispatchInitializeResponse(id, msg)
		return
	}
	if tag == rpc.TagShutdown {
		if msg.Error != nil {
			c.emit(RPCErrorEvent{ID: id, Tag: tag, Err: msg.Error})
			return
		}
		c.state = Shutdown
		c.emit(ShutdownEvent{})
		return
	}

	if msg.Error != nil {
		c.emit(RPCErrorEvent{ID: id, Tag: tag, Err: msg.Error})
		return
	}
	c.emitDecodedResult(id, tag, rawOf(msg.Result))
}

func (c *Client) dispatchInitializeResponse(id int64, msg rpc.Message) {
	if c.state != WaitingForInitialized {
		c.emit(ProtocolErrorEvent{Err: &ErrDuplicateInitialize{}})
		return
	}
	if msg.Error != nil {
		c.emit(RPCErrorEvent{ID: id, Tag: rpc.TagInitialize, Err: msg.Error})
		return
	}
	var result rpc.InitializeResult
	if err := json.Unmarshal(rawOf(msg.Result), &result); err != nil {
		c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode initialize result: %w", err)})
		return
	}
	c.caps.setSnapshot(result.Capabilities)
	c.state = Normal
	c.emit(InitializedEvent{Capabilities: result.Capabilities})
	c.sendNotification(rpc.MethodInitialized, struct{}{})
}

// emitDecodedResult decodes a successful response's result field per tag
// into its typed event, per spec §9 "dynamic decoding of responses".
func (c *Client) emitDecodedResult(id int64, tag rpc.RequestTag, raw json.RawMessage) {
	switch tag {
	case rpc.TagCompletion:
		list, err := rpc.NormalizeCompletionList(raw)
		if c.failDecode(id, tag, err) {
			return
		}
		c.emit(CompletionEvent{ID: id, List: list})
	case rpc.TagHover:
		var v rpc.Hover
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(HoverEvent{ID: id, Hover: v})
	case rpc.TagSignatureHelp:
		var v rpc.SignatureHelp
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(SignatureHelpEvent{ID: id, Help: v})
	case rpc.TagDefinition, rpc.TagDeclaration, rpc.TagTypeDefinition, rpc.TagImplementation, rpc.TagReferences:
		locs, links, err := decodeLocations(raw)
		if c.failDecode(id, tag, err) {
			return
		}
		c.emit(LocationsEvent{ID: id, Tag: tag, Locations: locs, Links: links})
	case rpc.TagDocumentSymbol:
		nested, flat, err := decodeDocumentSymbols(raw)
		if c.failDecode(id, tag, err) {
			return
		}
		c.emit(DocumentSymbolEvent{ID: id, Nested: nested, Flat: flat})
	case rpc.TagWorkspaceSymbol:
		var v []rpc.SymbolInformation
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(WorkspaceSymbolEvent{ID: id, Symbols: v})
	case rpc.TagFormatting, rpc.TagRangeFormatting, rpc.TagWillSaveWaitUntil:
		var v []rpc.TextEdit
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(TextEditsEvent{ID: id, Tag: tag, Edits: v})
	case rpc.TagRename:
		var v rpc.WorkspaceEdit
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(RenameEvent{ID: id, Edit: v})
	case rpc.TagFoldingRange:
		var v []rpc.FoldingRange
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(FoldingRangeEvent{ID: id, Ranges: v})
	case rpc.TagExecuteCommand:
		c.emit(ExecuteCommandEvent{ID: id, Result: raw})
	case rpc.TagCodeAction:
		var v []rpc.CodeAction
		if c.failDecode(id, tag, unmarshalIfPresent(raw, &v)) {
			return
		}
		c.emit(CodeActionEvent{ID: id, Actions: v})
	default:
		c.emit(ProtocolErrorEvent{Err: fmt.Errorf("no decoder registered for request tag %s", tag)})
	}
}

// failDecode emits a protocol error and reports true if err is non-nil.
func (c *Client) failDecode(id int64, tag rpc.RequestTag, err error) bool {
	if err == nil {
		return false
	}
	c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode %s result for request %d: %w", tag, id, err)})
	return true
}

func unmarshalIfPresent(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// decodeLocations accepts the three shapes textDocument/definition and its
// siblings may return: a single Location, a []Location, or a []LocationLink.
func decodeLocations(raw json.RawMessage) ([]rpc.Location, []rpc.LocationLink, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}
	var one rpc.Location
	if err := json.Unmarshal(raw, &one); err == nil && one.URI != "" {
		return []rpc.Location{one}, nil, nil
	}
	var many []rpc.Location
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0].URI != "" {
		return many, nil, nil
	}
	var links []rpc.LocationLink
	if err := json.Unmarshal(raw, &links); err != nil {
		return nil, nil, err
	}
	return nil, links, nil
}

// decodeDocumentSymbols accepts the two shapes textDocument/documentSymbol
// may return: nested DocumentSymbol values, or flat pre-3.16 SymbolInformation.
func decodeDocumentSymbols(raw json.RawMessage) ([]rpc.DocumentSymbol, []rpc.SymbolInformation, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, err
	}
	if len(probe) == 0 {
		return nil, nil, nil
	}
	var hasLocation struct {
		Location *rpc.Location `json:"location"`
	}
	if err := json.Unmarshal(probe[0], &hasLocation); err == nil && hasLocation.Location != nil {
		var flat []rpc.SymbolInformation
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, nil, err
		}
		return nil, flat, nil
	}
	var nested []rpc.DocumentSymbol
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, nil, err
	}
	return nested, nil, nil
}

// dispatchServerRequest handles an inbound request. Server requests are
// only legal in NORMAL (spec §4.5); anything else is answered with a
// JSON-RPC error rather than processed.
func (c *Client) dispatchServerRequest(msg rpc.Message) {
	assert.That(msg.ID != nil, "server request must have an id")
	id := *msg.ID

	if c.state != Normal {
		err := &ErrUnexpectedMessageInState{State: c.state, Method: msg.Method, Kind: "request"}
		c.replyError(id, rpc.InvalidRequest, err.Error())
		c.emit(ProtocolErrorEvent{Err: err})
		return
	}

	raw := rawOf(msg.Params)

	switch msg.Method {
	case rpc.MethodConfiguration:
		var params rpc.ConfigurationParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid workspace/configuration params")
			return
		}
		c.emit(ConfigurationRequestEvent{id: id, Items: params.Items})
	case rpc.MethodWorkspaceFolders:
		c.emit(WorkspaceFoldersRequestEvent{id: id})
	case rpc.MethodShowMessageRequest:
		var params rpc.ShowMessageRequestParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid window/showMessageRequest params")
			return
		}
		c.emit(ShowMessageRequestEvent{id: id, Params: params})
	case rpc.MethodWorkDoneProgressCreate:
		var params rpc.WorkDoneProgressCreateParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid window/workDoneProgress/create params")
			return
		}
		c.replySuccess(id, nil)
	case rpc.MethodRegisterCapability:
		var params rpc.RegistrationParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid client/registerCapability params")
			return
		}
		for _, reg := range params.Registrations {
			c.caps.register(reg)
		}
		c.replySuccess(id, nil)
	case rpc.MethodUnregisterCapability:
		var params rpc.UnregistrationParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid client/unregisterCapability params")
			return
		}
		for _, unreg := range params.Unregisterations {
			c.caps.unregister(unreg.ID)
		}
		c.replySuccess(id, nil)
	case rpc.MethodApplyEdit:
		var params rpc.ApplyWorkspaceEditParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.replyError(id, rpc.InvalidParams, "invalid workspace/applyEdit params")
			return
		}
		c.emit(ApplyEditRequestEvent{id: id, Params: params})
	default:
		c.replyError(id, rpc.MethodNotFound, fmt.Sprintf("method not found: %s", msg.Method))
	}
}

// dispatchNotification handles an inbound notification. Server
// notifications are only legal in NORMAL (spec §4.5); anything else is
// dropped with a protocol-error event instead of processed.
func (c *Client) dispatchNotification(msg rpc.Message) {
	if c.state != Normal {
		c.emit(ProtocolErrorEvent{Err: &ErrUnexpectedMessageInState{State: c.state, Method: msg.Method, Kind: "notification"}})
		return
	}

	raw := rawOf(msg.Params)

	switch msg.Method {
	case rpc.MethodPublishDiagnostics:
		var params rpc.PublishDiagnosticsParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode publishDiagnostics: %w", err)})
			return
		}
		c.emit(PublishDiagnosticsEvent{PublishDiagnosticsParams: params})
	case rpc.MethodShowMessage:
		var params rpc.ShowMessageParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode showMessage: %w", err)})
			return
		}
		c.emit(ShowMessageEvent{ShowMessageParams: params})
	case rpc.MethodLogMessage:
		var params rpc.LogMessageParams
		if err := unmarshalIfPresent(raw, &params); err != nil {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode logMessage: %w", err)})
			return
		}
		c.emit(LogMessageEvent{LogMessageParams: params})
	case rpc.MethodProgress:
		c.dispatchProgress(raw)
	default:
		// unknown notifications are dropped silently, per spec §4.6
	}
}

func (c *Client) dispatchProgress(raw json.RawMessage) {
	var params rpc.ProgressParams
	if err := json.Unmarshal(raw, &params); err != nil {
		c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode $/progress: %w", err)})
		return
	}
	value, err := rpc.DecodeProgressValue(params.Value)
	if err != nil {
		c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode $/progress value: %w", err)})
		return
	}
	switch v := value.(type) {
	case rpc.WorkDoneProgressBegin:
		c.progress.observe(params.Token, rpc.ProgressBegin)
		c.emit(ProgressBeginEvent{Token: params.Token, Value: v})
	case rpc.WorkDoneProgressReport:
		if !c.progress.observe(params.Token, rpc.ProgressReport) {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("progress report for token %s with no matching begin", params.Token)})
			return
		}
		c.emit(ProgressReportEvent{Token: params.Token, Value: v})
	case rpc.WorkDoneProgressEnd:
		if !c.progress.observe(params.Token, rpc.ProgressEnd) {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("progress end for token %s with no matching begin", params.Token)})
			return
		}
		c.emit(ProgressEndEvent{Token: params.Token, Value: v})
	}
}

func rawOf(p *json.RawMessage) json.RawMessage {
	if p == nil {
		return nil
	}
	return *p
}
