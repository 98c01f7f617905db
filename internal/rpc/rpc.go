// Package rpc implements the JSON-RPC 2.0 envelope and the LSP 3.16 message
// shapes a sans-I/O client needs to construct requests/notifications and
// decode responses/requests/notifications from the server.
//
// The central type is [Message], which represents all three JSON-RPC
// message kinds (requests, responses, and notifications) in a single
// struct. Message discrimination is based on field presence:
//   - Request: has ID and Method
//   - Response: has ID and no Method (Result or Error carries the outcome)
//   - Notification: has Method but no ID
//
// https://www.jsonrpc.org/specification
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/
package rpc

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a JSON-RPC error code.
type ErrorCode int32

// JSON-RPC 2.0 standard error codes.
const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

// LSP-specific error codes.
const (
	ServerNotInitialized ErrorCode = -32002
	UnknownErrorCode     ErrorCode = -32001
	RequestCancelled     ErrorCode = -32800
	ContentModified      ErrorCode = -32801
)

// LSP method names the client sends or dispatches on.
const (
	MethodInitialize    = "initialize"
	MethodInitialized   = "initialized"
	MethodShutdown      = "shutdown"
	MethodExit          = "exit"
	MethodCancelRequest = "$/cancelRequest"
	MethodProgress      = "$/progress"

	MethodDidOpen           = "textDocument/didOpen"
	MethodDidChange         = "textDocument/didChange"
	MethodDidClose          = "textDocument/didClose"
	MethodDidSave           = "textDocument/didSave"
	MethodWillSave          = "textDocument/willSave"
	MethodWillSaveWaitUntil = "textDocument/willSaveWaitUntil"

	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
	MethodFormatting         = "textDocument/formatting"
	MethodRangeFormatting    = "textDocument/rangeFormatting"
	MethodCompletion         = "textDocument/completion"
	MethodHover              = "textDocument/hover"
	MethodSignatureHelp      = "textDocument/signatureHelp"
	MethodDocumentSymbol     = "textDocument/documentSymbol"
	MethodDefinition         = "textDocument/definition"
	MethodDeclaration        = "textDocument/declaration"
	MethodTypeDefinition     = "textDocument/typeDefinition"
	MethodImplementation     = "textDocument/implementation"
	MethodReferences         = "textDocument/references"
	MethodRename             = "textDocument/rename"
	MethodFoldingRange       = "textDocument/foldingRange"
	MethodCodeAction         = "textDocument/codeAction"

	MethodWorkspaceSymbol        = "workspace/symbol"
	MethodExecuteCommand         = "workspace/executeCommand"
	MethodApplyEdit              = "workspace/applyEdit"
	MethodConfiguration          = "workspace/configuration"
	MethodWorkspaceFolders       = "workspace/workspaceFolders"
	MethodRegisterCapability     = "client/registerCapability"
	MethodUnregisterCapability   = "client/unregisterCapability"
	MethodWorkDoneProgressCreate = "window/workDoneProgress/create"
	MethodShowMessage            = "window/showMessage"
	MethodShowMessageRequest     = "window/showMessageRequest"
	MethodLogMessage             = "window/logMessage"
)

// RequestTag identifies the semantic kind of a pending request so the
// dispatcher can decode its response's result into the right typed event.
// This is the closed set of requests the client ever sends.
type RequestTag int

const (
	TagInitialize RequestTag = iota
	TagShutdown
	TagCompletion
	TagHover
	TagSignatureHelp
	TagDefinition
	TagDeclaration
	TagTypeDefinition
	TagImplementation
	TagReferences
	TagDocumentSymbol
	TagWorkspaceSymbol
	TagFormatting
	TagRangeFormatting
	TagRename
	TagFoldingRange
	TagExecuteCommand
	TagCodeAction
	TagWillSaveWaitUntil
)

// String returns the tag's name, used in error messages and logs.
func (t RequestTag) String() string {
	switch t {
	case TagInitialize:
		return "initialize"
	case TagShutdown:
		return "shutdown"
	case TagCompletion:
		return "completion"
	case TagHover:
		return "hover"
	case TagSignatureHelp:
		return "signatureHelp"
	case TagDefinition:
		return "definition"
	case TagDeclaration:
		return "declaration"
	case TagTypeDefinition:
		return "typeDefinition"
	case TagImplementation:
		return "implementation"
	case TagReferences:
		return "references"
	case TagDocumentSymbol:
		return "documentSymbol"
	case TagWorkspaceSymbol:
		return "workspaceSymbol"
	case TagFormatting:
		return "formatting"
	case TagRangeFormatting:
		return "rangeFormatting"
	case TagRename:
		return "rename"
	case TagFoldingRange:
		return "foldingRange"
	case TagExecuteCommand:
		return "executeCommand"
	case TagCodeAction:
		return "codeAction"
	case TagWillSaveWaitUntil:
		return "willSaveWaitUntil"
	default:
		return fmt.Sprintf("RequestTag(%d)", int(t))
	}
}

// Message has all the fields of request, response and notification. Presence/absence of fields is
// used to discriminate which one it is. Unmarshaling of those discriminatory fields is deferred
// until the caller knows which it is.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#abstractMessage
type Message struct {
	Version Version          `json:"jsonrpc"`
	ID      *ID              `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  *json.RawMessage `json:"params,omitempty"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
}

// IsRequest reports whether m is a request: it has both an ID and a Method.
func (m Message) IsRequest() bool { return m.ID != nil && m.Method != "" }

// IsResponse reports whether m is a response: it has an ID and no Method.
func (m Message) IsResponse() bool { return m.ID != nil && m.Method == "" }

// IsNotification reports whether m is a notification: it has a Method and no ID.
func (m Message) IsNotification() bool { return m.ID == nil && m.Method != "" }

// Error represents a structured error in a response.
type Error struct {
	// Code indicating the type of error.
	Code ErrorCode `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data is optional structured data containing additional information about the error.
	Data *json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Version is a zero-sized struct that encodes as the jsonrpc version tag.
// It will fail during decode if it is not the correct version tag in the stream.
type Version struct{}

// MarshalJSON encodes the version as the JSON string "2.0".
func (Version) MarshalJSON() ([]byte, error) {
	return json.Marshal("2.0")
}

// UnmarshalJSON decodes the version and returns an error if it is not "2.0".
func (v *Version) UnmarshalJSON(data []byte) error {
	var version string
	if err := json.Unmarshal(data, &version); err != nil {
		return err
	}
	if version != "2.0" {
		return fmt.Errorf("invalid RPC version %q", version)
	}
	return nil
}

// ID is a request identifier that can be either a string or integer.
type ID struct {
	name   string
	number int64
	isName bool
}

// NewIntID builds an integer ID, the kind this client allocates for its own requests.
func NewIntID(n int64) ID {
	return ID{number: n}
}

// NewStringID builds a string ID, used to mirror a string id a server assigned.
func NewStringID(s string) ID {
	return ID{name: s, isName: true}
}

// Int returns the ID as an int64 and whether the ID was numeric.
func (id ID) Int() (int64, bool) {
	return id.number, !id.isName
}

// String returns a human-readable form of the ID, regardless of its kind.
func (id ID) String() string {
	if id.isName {
		return id.name
	}
	return fmt.Sprintf("%d", id.number)
}

// MarshalJSON encodes the ID as either a JSON string or number.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isName {
		return json.Marshal(id.name)
	}
	return json.Marshal(id.number)
}

// UnmarshalJSON decodes a JSON string or number into the ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID{} // reset to support reusing ID in unmarshal
	if err := json.Unmarshal(data, &id.number); err == nil {
		return nil
	}
	id.isName = true
	return json.Unmarshal(data, &id.name)
}
