// Package lspclient implements a sans-I/O Language Server Protocol client:
// a transport-agnostic state machine translating between caller intent
// ("open this document", "request completions here") and the framed byte
// streams of the LSP/JSON-RPC 2.0 wire format.
//
// The client performs no I/O itself. The caller owns the transport (spawn
// the server, read/write bytes, schedule) and drives the client with three
// operations: [Client.Feed] to hand it inbound bytes, [Client.Events] to
// drain decoded events, and [Client.SendBytes] to drain outbound bytes to
// write to the server.
//
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/
package lspclient

import (
	"encoding/json"
	"fmt"

	"github.com/sansio/lspclient/internal/rpc"
	"github.com/sansio/lspclient/internal/version"
)

// Config configures a new [Client]. It mirrors the initialize handshake
// parameters the caller must supply up front.
type Config struct {
	ProcessID        *int32
	RootURI          *rpc.DocumentURI
	WorkspaceFolders []rpc.WorkspaceFolder
	Trace            *rpc.TraceValue
	ClientInfo       *rpc.ClientInfo
	Capabilities     rpc.ClientCapabilities
}

// Client is a sans-I/O LSP client. It is not safe for concurrent use; the
// caller must serialize all method calls (spec §5, "Thread safety").
type Client struct {
	decoder *rpc.Decoder
	encoder *rpc.Encoder

	state State
	corr  *correlationTable
	caps  *capabilityRegistry
	docs  *documentTable
	progress *progressTracker

	events []Event
	outbox []byte
}

// New constructs a client, which starts in NOT_INITIALIZED, immediately
// queues the initialize request (spec §4.5, "handshake"), and returns it in
// WAITING_FOR_INITIALIZED. Call [Client.SendBytes] to retrieve the request.
func New(cfg Config) *Client {
	c := &Client{
		decoder:  rpc.NewDecoder(),
		encoder:  rpc.NewEncoder(),
		state:    NotInitialized,
		corr:     newCorrelationTable(),
		caps:     newCapabilityRegistry(),
		docs:     newDocumentTable(),
		progress: newProgressTracker(),
	}

	id := c.corr.allocate(rpc.TagInitialize)
	clientInfo := cfg.ClientInfo
	if clientInfo != nil && clientInfo.Version == nil {
		v := version.Version()
		info := *clientInfo
		info.Version = &v
		clientInfo = &info
	}
	params := rpc.InitializeParams{
		ProcessID:        cfg.ProcessID,
		ClientInfo:       clientInfo,
		RootURI:          cfg.RootURI,
		WorkspaceFolders: cfg.WorkspaceFolders,
		Capabilities:     cfg.Capabilities,
		Trace:            cfg.Trace,
	}
	c.encodeRequest(id, rpc.MethodInitialize, params)
	c.state = WaitingForInitialized
	return c
}

// State returns the client's current lifecycle state.
func (c *Client) State() State { return c.state }

// Capabilities returns the server's advertised capabilities and whether
// initialize has completed yet.
func (c *Client) Capabilities() (rpc.ServerCapabilities, bool) {
	return c.caps.snapshot()
}

// Feed supplies inbound bytes read from the server transport. Complete
// messages are decoded and dispatched immediately; resulting events and
// outbound bytes (auto-replies, the "initialized" notification) become
// available via [Client.Events] and [Client.SendBytes]. A decoder framing
// error poisons the client the same way it poisons the decoder: every
// subsequent Feed call returns the same error.
func (c *Client) Feed(b []byte) error {
	if err := c.decoder.Feed(b); err != nil {
		return err
	}
	raws, err := c.decoder.Drain()
	for _, raw := range raws {
		var msg rpc.Message
		if decodeErr := json.Unmarshal(raw, &msg); decodeErr != nil {
			c.emit(ProtocolErrorEvent{Err: fmt.Errorf("decode message envelope: %w", decodeErr)})
			continue
		}
		c.dispatch(msg)
	}
	return err
}

// Events drains every event produced since the last call.
func (c *Client) Events() []Event {
	if len(c.events) == 0 {
		return nil
	}
	out := c.events
	c.events = nil
	return out
}

// SendBytes drains outbound bytes ready to write to the server transport.
func (c *Client) SendBytes() []byte {
	if len(c.outbox) == 0 {
		return nil
	}
	out := c.outbox
	c.outbox = nil
	return out
}

func (c *Client) emit(e Event) {
	c.events = append(c.events, e)
}

// encodeRequest frames and appends an outbound request to the outbox. It
// panics on marshal failure: every caller passes a value from this
// package's own schema types, so a marshal failure is a bug, not a
// runtime condition.
func (c *Client) encodeRequest(id int64, method string, params any) {
	rid := rpc.NewIntID(id)
	raw, err := marshalParams(params)
	if err != nil {
		panic(fmt.Sprintf("lspclient: marshal %s params: %v", method, err))
	}
	msg := rpc.Message{ID: &rid, Method: method, Params: raw}
	c.encodeAndQueue(msg)
}

func (c *Client) sendNotification(method string, params any) {
	raw, err := marshalParams(params)
	if err != nil {
		panic(fmt.Sprintf("lspclient: marshal %s params: %v", method, err))
	}
	msg := rpc.Message{Method: method, Params: raw}
	c.encodeAndQueue(msg)
}

func (c *Client) replySuccess(id rpc.ID, result any) {
	var raw *json.RawMessage
	if result != nil {
		r, err := marshalParams(result)
		if err != nil {
			panic(fmt.Sprintf("lspclient: marshal reply result: %v", err))
		}
		raw = r
	} else {
		null := json.RawMessage("null")
		raw = &null
	}
	msg := rpc.Message{ID: &id, Result: raw}
	c.encodeAndQueue(msg)
}

func (c *Client) replyError(id rpc.ID, code rpc.ErrorCode, message string) {
	msg := rpc.Message{ID: &id, Error: &rpc.Error{Code: code, Message: message}}
	c.encodeAndQueue(msg)
}

func (c *Client) encodeAndQueue(msg rpc.Message) {
	b, err := c.encoder.Encode(msg)
	if err != nil {
		panic(fmt.Sprintf("lspclient: encode message: %v", err))
	}
	c.outbox = append(c.outbox, b...)
}

func marshalParams(v any) (*json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	raw := json.RawMessage(b)
	return &raw, nil
}
