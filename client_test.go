package lspclient

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/sansio/lspclient/internal/rpc"
)

// decodeOutbound parses exactly one framed message off the front of b,
// the same framing the codec package tests exercise directly.
func decodeOutbound(t *testing.T, b []byte) rpc.Message {
	t.Helper()
	d := rpc.NewDecoder()
	require.NoErrorf(t, d.Feed(b), "feed outbound bytes")
	msgs, err := d.Drain()
	require.NoErrorf(t, err, "drain outbound bytes")
	require.EqualValuesf(t, len(msgs), 1, "want exactly one outbound message")
	var msg rpc.Message
	require.NoErrorf(t, json.Unmarshal(msgs[0], &msg), "unmarshal outbound message")
	return msg
}

func frame(content string) []byte {
	return []byte(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content))
}

// TestHandshake exercises scenario S1: construction queues an initialize
// request; feeding its response emits Initialized and auto-sends
// "initialized".
func TestHandshake(t *testing.T) {
	t.Parallel()

	processID := int32(1234)
	rootURI := rpc.DocumentURI("file:///tmp/x")
	c := New(Config{ProcessID: &processID, RootURI: &rootURI})

	assert.EqualValuesf(t, c.State(), WaitingForInitialized, "state after construction")
	assert.EqualValuesf(t, c.corr.len(), 1, "one pending request while awaiting initialize response")

	out := c.SendBytes()
	require.Truef(t, len(out) > 0, "want queued initialize request")
	msg := decodeOutbound(t, out)
	assert.EqualValuesf(t, msg.Method, rpc.MethodInitialize, "queued method")
	require.Truef(t, msg.ID != nil, "initialize request has an id")
	n, isInt := msg.ID.Int()
	assert.Truef(t, isInt, "initialize id is numeric")
	assert.EqualValuesf(t, n, 0, "first request id is 0")

	var params rpc.InitializeParams
	require.NoErrorf(t, json.Unmarshal(*msg.Params, &params), "unmarshal initialize params")
	require.Truef(t, params.ProcessID != nil, "process id present")
	assert.EqualValuesf(t, *params.ProcessID, 1234, "process id value")
	require.Truef(t, params.RootURI != nil, "root uri present")
	assert.EqualValuesf(t, *params.RootURI, rootURI, "root uri value")

	require.NoErrorf(t, c.Feed(frame(`{"jsonrpc":"2.0","id":0,"result":{"capabilities":{}}}`)), "feed initialize response")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	_, ok := events[0].(InitializedEvent)
	require.Truef(t, ok, "want InitializedEvent, got %T", events[0])
	assert.EqualValuesf(t, c.State(), Normal, "state after initialize response")
	assert.EqualValuesf(t, c.corr.len(), 0, "pending table drains to zero once the response is taken")

	out = c.SendBytes()
	msg = decodeOutbound(t, out)
	assert.EqualValuesf(t, msg.Method, rpc.MethodInitialized, "auto-sent notification method")
	assert.Truef(t, msg.ID == nil, "initialized is a notification, no id")
}

// TestCompletion exercises scenario S2.
func TestCompletion(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)

	id, err := c.Completion(rpc.CompletionParams{
		TextDocumentPositionParams: rpc.TextDocumentPositionParams{
			TextDocument: rpc.TextDocumentIdentifier{URI: "file:///a.py"},
			Position:     rpc.Position{Line: 3, Character: 7},
		},
	})
	require.NoErrorf(t, err, "completion")
	c.SendBytes() // drain the request bytes, irrelevant to this assertion

	resp := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":{"isIncomplete":false,"items":[{"label":"foo"}]}}`, id)
	require.NoErrorf(t, c.Feed(frame(resp)), "feed completion response")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	ce, ok := events[0].(CompletionEvent)
	require.Truef(t, ok, "want CompletionEvent, got %T", events[0])
	require.EqualValuesf(t, len(ce.List.Items), 1, "want one completion item")
	assert.EqualValuesf(t, ce.List.Items[0].Label, "foo", "completion label")
}

// TestDiagnostics exercises scenario S3.
func TestDiagnostics(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)

	note := `{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"file:///a.py","diagnostics":[{"range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}},"message":"x"}]}}`
	require.NoErrorf(t, c.Feed(frame(note)), "feed diagnostics notification")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	de, ok := events[0].(PublishDiagnosticsEvent)
	require.Truef(t, ok, "want PublishDiagnosticsEvent, got %T", events[0])
	assert.EqualValuesf(t, de.URI, rpc.DocumentURI("file:///a.py"), "diagnostics uri")
	require.EqualValuesf(t, len(de.Diagnostics), 1, "want one diagnostic")
	assert.EqualValuesf(t, de.Diagnostics[0].Message, "x", "diagnostic message")
}

// TestProgressStream exercises scenario S4.
func TestProgressStream(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)

	begin := `{"jsonrpc":"2.0","method":"$/progress","params":{"token":"tok","value":{"kind":"begin","title":"indexing"}}}`
	report := `{"jsonrpc":"2.0","method":"$/progress","params":{"token":"tok","value":{"kind":"report","message":"50%"}}}`
	end := `{"jsonrpc":"2.0","method":"$/progress","params":{"token":"tok","value":{"kind":"end"}}}`

	require.NoErrorf(t, c.Feed(frame(begin)), "feed begin")
	require.NoErrorf(t, c.Feed(frame(report)), "feed report")
	require.NoErrorf(t, c.Feed(frame(end)), "feed end")

	events := c.Events()
	require.EqualValuesf(t, len(events), 3, "want three events")
	_, ok := events[0].(ProgressBeginEvent)
	require.Truef(t, ok, "want ProgressBeginEvent first, got %T", events[0])
	_, ok = events[1].(ProgressReportEvent)
	require.Truef(t, ok, "want ProgressReportEvent second, got %T", events[1])
	_, ok = events[2].(ProgressEndEvent)
	require.Truef(t, ok, "want ProgressEndEvent third, got %T", events[2])
}

// TestProgressWithoutBegin verifies a stray "end" with no prior "begin"
// yields a protocol-error event, per S4.
func TestProgressWithoutBegin(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)
	stray := `{"jsonrpc":"2.0","method":"$/progress","params":{"token":"ghost","value":{"kind":"end"}}}`
	require.NoErrorf(t, c.Feed(frame(stray)), "feed stray end")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want one event")
	_, ok := events[0].(ProtocolErrorEvent)
	require.Truef(t, ok, "want ProtocolErrorEvent, got %T", events[0])
}

// TestShutdownExit exercises scenario S5.
func TestShutdownExit(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)

	id, err := c.Shutdown()
	require.NoErrorf(t, err, "shutdown")
	assert.EqualValuesf(t, c.State(), WaitingForShutdown, "state after shutdown request")
	c.SendBytes()

	resp := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":null}`, id)
	require.NoErrorf(t, c.Feed(frame(resp)), "feed shutdown response")
	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want one event")
	_, ok := events[0].(ShutdownEvent)
	require.Truef(t, ok, "want ShutdownEvent, got %T", events[0])
	assert.EqualValuesf(t, c.State(), Shutdown, "state after shutdown response")

	require.NoErrorf(t, c.Exit(), "exit")
	assert.EqualValuesf(t, c.State(), Exited, "state after exit")

	_, err = c.Completion(rpc.CompletionParams{})
	require.Errorf(t, err, "want illegal state after exit")
	var illegal *ErrIllegalState
	assert.Truef(t, asIllegalState(err, &illegal), "want ErrIllegalState, got %T", err)
}

func asIllegalState(err error, target **ErrIllegalState) bool {
	e, ok := err.(*ErrIllegalState)
	if ok {
		*target = e
	}
	return ok
}

// TestDidChangeUnknownDocument verifies didChange before didOpen fails
// with ErrUnknownDocument rather than sending anything.
func TestDidChangeUnknownDocument(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)
	err := c.DidChange(rpc.VersionedTextDocumentIdentifier{
		TextDocumentIdentifier: rpc.TextDocumentIdentifier{URI: "file:///never-opened.py"},
		Version:                2,
	}, []rpc.TextDocumentContentChangeEvent{rpc.NewFullChange("x")})
	require.Errorf(t, err, "want error")
	_, ok := err.(*ErrUnknownDocument)
	assert.Truef(t, ok, "want ErrUnknownDocument, got %T", err)
}

// TestIllegalStateBeforeInitialize verifies feature requests are rejected
// before the handshake completes.
func TestIllegalStateBeforeInitialize(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	_, err := c.Hover(rpc.HoverParams{})
	require.Errorf(t, err, "want error")
	_, ok := err.(*ErrIllegalState)
	assert.Truef(t, ok, "want ErrIllegalState, got %T", err)
}

// TestNotificationRejectedBeforeInitialize verifies a server notification
// arriving before the handshake completes is dropped with a protocol-error
// event rather than processed, per spec §4.5.
func TestNotificationRejectedBeforeInitialize(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	c.SendBytes() // drain the queued initialize request

	note := `{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"file:///a.py","diagnostics":[]}}`
	require.NoErrorf(t, c.Feed(frame(note)), "feed notification before initialize completes")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	pe, ok := events[0].(ProtocolErrorEvent)
	require.Truef(t, ok, "want ProtocolErrorEvent, got %T", events[0])
	var unexpected *ErrUnexpectedMessageInState
	require.Truef(t, asUnexpectedMessageInState(pe.Err, &unexpected), "want ErrUnexpectedMessageInState, got %T", pe.Err)
	assert.EqualValuesf(t, unexpected.Kind, "notification", "error kind")
	assert.EqualValuesf(t, unexpected.State, WaitingForInitialized, "error state")
}

// TestServerRequestRejectedAfterShutdown verifies a server request arriving
// outside NORMAL is answered with a JSON-RPC error instead of processed.
func TestServerRequestRejectedAfterShutdown(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)
	id, err := c.Shutdown()
	require.NoErrorf(t, err, "shutdown")
	c.SendBytes()
	require.NoErrorf(t, c.Feed(frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":null}`, id))), "feed shutdown response")
	c.Events()

	req := `{"jsonrpc":"2.0","id":"srv-1","method":"workspace/workspaceFolders"}`
	require.NoErrorf(t, c.Feed(frame(req)), "feed server request after shutdown")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	pe, ok := events[0].(ProtocolErrorEvent)
	require.Truef(t, ok, "want ProtocolErrorEvent, got %T", events[0])
	var unexpected *ErrUnexpectedMessageInState
	require.Truef(t, asUnexpectedMessageInState(pe.Err, &unexpected), "want ErrUnexpectedMessageInState, got %T", pe.Err)
	assert.EqualValuesf(t, unexpected.Kind, "request", "error kind")
	assert.EqualValuesf(t, unexpected.State, Shutdown, "error state")

	out := c.SendBytes()
	require.Truef(t, len(out) > 0, "want a JSON-RPC error reply queued")
	reply := decodeOutbound(t, out)
	require.Truef(t, reply.Error != nil, "want an error reply")
	assert.EqualValuesf(t, reply.Error.Code, rpc.InvalidRequest, "reply error code")
}

func asUnexpectedMessageInState(err error, target **ErrUnexpectedMessageInState) bool {
	e, ok := err.(*ErrUnexpectedMessageInState)
	if ok {
		*target = e
	}
	return ok
}

// TestDuplicateInitializeResponse verifies a second response tagged
// INITIALIZE, arriving once the client has already left
// WAITING_FOR_INITIALIZED, is reported as a duplicate rather than
// re-running the handshake.
func TestDuplicateInitializeResponse(t *testing.T) {
	t.Parallel()

	c := initializedClient(t)
	id := c.corr.allocate(rpc.TagInitialize)

	require.NoErrorf(t, c.Feed(frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":{"capabilities":{}}}`, id))), "feed duplicate initialize response")

	events := c.Events()
	require.EqualValuesf(t, len(events), 1, "want exactly one event")
	pe, ok := events[0].(ProtocolErrorEvent)
	require.Truef(t, ok, "want ProtocolErrorEvent, got %T", events[0])
	_, ok = pe.Err.(*ErrDuplicateInitialize)
	require.Truef(t, ok, "want ErrDuplicateInitialize, got %T", pe.Err)
	assert.EqualValuesf(t, c.State(), Normal, "state is unaffected by the duplicate response")
	assert.EqualValuesf(t, c.corr.len(), 0, "pending table drains to zero once the duplicate response is taken")
}

// initializedClient builds a client and drives it through the handshake
// so tests can focus on NORMAL-state behavior.
func initializedClient(t *testing.T) *Client {
	t.Helper()
	c := New(Config{})
	c.SendBytes()
	if err := c.Feed(frame(`{"jsonrpc":"2.0","id":0,"result":{"capabilities":{}}}`)); err != nil {
		t.Fatalf("feed initialize response: %v", err)
	}
	c.Events()
	c.SendBytes()
	return c
}
