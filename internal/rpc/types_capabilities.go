package rpc

import "encoding/json"

// TextDocumentSyncKind defines how the host (editor) should sync document
// changes to the language server.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#textDocumentSyncKind
type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

// TextDocumentSyncOptions is the object form a server may return for
// ServerCapabilities.textDocumentSync instead of a bare TextDocumentSyncKind.
type TextDocumentSyncOptions struct {
	OpenClose *bool                 `json:"openClose,omitempty"`
	Change    *TextDocumentSyncKind `json:"change,omitempty"`
}

// TextDocumentSync normalizes the two shapes LSP allows for
// ServerCapabilities.textDocumentSync: a bare kind, or an options object
// whose Change field carries the kind. Kind() defaults to SyncNone when
// neither shape specifies a value.
type TextDocumentSync struct {
	kind    TextDocumentSyncKind
	options *TextDocumentSyncOptions
}

// Kind returns the negotiated sync kind regardless of which wire shape the
// server used.
func (s TextDocumentSync) Kind() TextDocumentSyncKind {
	if s.options != nil && s.options.Change != nil {
		return *s.options.Change
	}
	return s.kind
}

// UnmarshalJSON accepts either a number or a TextDocumentSyncOptions object.
func (s *TextDocumentSync) UnmarshalJSON(data []byte) error {
	var kind TextDocumentSyncKind
	if err := json.Unmarshal(data, &kind); err == nil {
		s.kind = kind
		s.options = nil
		return nil
	}
	var opts TextDocumentSyncOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return err
	}
	s.options = &opts
	return nil
}

// MarshalJSON emits the bare-kind shape; this client never needs to send
// textDocumentSync itself (it is server-to-client data), but Marshal support
// keeps the type round-trippable for tests.
func (s TextDocumentSync) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Kind())
}

// PositionEncodingKind defines how character offsets are interpreted in
// positions, negotiated during initialize.
type PositionEncodingKind string

const (
	EncodingUTF8  PositionEncodingKind = "utf-8"
	EncodingUTF16 PositionEncodingKind = "utf-16"
	EncodingUTF32 PositionEncodingKind = "utf-32"
)

// ClientInfo identifies the client application, sent in InitializeParams.
type ClientInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

// ServerInfo identifies the server application, present in InitializeResult.
type ServerInfo struct {
	Name    string  `json:"name"`
	Version *string `json:"version,omitempty"`
}

// WorkspaceFolder represents a single folder in the client's workspace.
type WorkspaceFolder struct {
	URI  DocumentURI `json:"uri"`
	Name string      `json:"name"`
}

// TraceValue controls how verbose the server's $/logTrace notifications are.
type TraceValue string

const (
	TraceOff      TraceValue = "off"
	TraceMessages TraceValue = "messages"
	TraceVerbose  TraceValue = "verbose"
)

// ClientCapabilities advertises what the client supports. Only the fields
// this client actually exercises are modeled; servers tolerate the rest
// being absent, per the field-omission discipline.
type ClientCapabilities struct {
	Workspace    *WorkspaceClientCapabilities    `json:"workspace,omitempty"`
	TextDocument *TextDocumentClientCapabilities `json:"textDocument,omitempty"`
	Window       *WindowClientCapabilities       `json:"window,omitempty"`
	General      *GeneralClientCapabilities      `json:"general,omitempty"`
}

// WorkspaceClientCapabilities is the workspace-scoped subset of ClientCapabilities.
type WorkspaceClientCapabilities struct {
	ApplyEdit              *bool `json:"applyEdit,omitempty"`
	WorkspaceFolders       *bool `json:"workspaceFolders,omitempty"`
	Configuration          *bool `json:"configuration,omitempty"`
	DidChangeConfiguration *DynamicRegistrationCapability `json:"didChangeConfiguration,omitempty"`
}

// TextDocumentClientCapabilities is the textDocument-scoped subset of ClientCapabilities.
type TextDocumentClientCapabilities struct {
	Synchronization *TextDocumentSyncClientCapabilities `json:"synchronization,omitempty"`
	Completion      *CompletionClientCapabilities       `json:"completion,omitempty"`
	Hover           *DynamicRegistrationCapability       `json:"hover,omitempty"`
	PublishDiagnostics *PublishDiagnosticsClientCapabilities `json:"publishDiagnostics,omitempty"`
}

// TextDocumentSyncClientCapabilities advertises sync-related lifecycle support.
type TextDocumentSyncClientCapabilities struct {
	DynamicRegistration *bool `json:"dynamicRegistration,omitempty"`
	WillSave            *bool `json:"willSave,omitempty"`
	WillSaveWaitUntil   *bool `json:"willSaveWaitUntil,omitempty"`
	DidSave             *bool `json:"didSave,omitempty"`
}

// CompletionClientCapabilities advertises completion-related support.
type CompletionClientCapabilities struct {
	DynamicRegistration *bool                    `json:"dynamicRegistration,omitempty"`
	CompletionItem      *CompletionItemCapability `json:"completionItem,omitempty"`
}

// CompletionItemCapability advertises completion item shape support.
type CompletionItemCapability struct {
	SnippetSupport *bool `json:"snippetSupport,omitempty"`
}

// PublishDiagnosticsClientCapabilities advertises diagnostics support.
type PublishDiagnosticsClientCapabilities struct {
	RelatedInformation *bool `json:"relatedInformation,omitempty"`
}

// DynamicRegistrationCapability is the common {dynamicRegistration} shape
// many capability sub-objects share.
type DynamicRegistrationCapability struct {
	DynamicRegistration *bool `json:"dynamicRegistration,omitempty"`
}

// WindowClientCapabilities advertises window-scoped support.
type WindowClientCapabilities struct {
	WorkDoneProgress *bool `json:"workDoneProgress,omitempty"`
	ShowMessage      *DynamicRegistrationCapability `json:"showMessage,omitempty"`
}

// GeneralClientCapabilities advertises encoding negotiation and other
// general client behavior.
type GeneralClientCapabilities struct {
	PositionEncodings []PositionEncodingKind `json:"positionEncodings,omitempty"`
}

// ServerCapabilities mirrors the subset of the LSP ServerCapabilities
// structure this client reasons about directly (textDocumentSync, to
// validate didChange payloads, and the provider flags needed to
// short-circuit unsupported feature requests). Unknown fields from a
// real server response are silently ignored by encoding/json.
type ServerCapabilities struct {
	TextDocumentSync   *TextDocumentSync     `json:"textDocumentSync,omitempty"`
	PositionEncoding   *PositionEncodingKind `json:"positionEncoding,omitempty"`
	CompletionProvider *CompletionOptions    `json:"completionProvider,omitempty"`
	HoverProvider        json.RawMessage `json:"hoverProvider,omitempty"`
	SignatureHelpProvider *SignatureHelpOptions `json:"signatureHelpProvider,omitempty"`
	DefinitionProvider     json.RawMessage `json:"definitionProvider,omitempty"`
	DeclarationProvider    json.RawMessage `json:"declarationProvider,omitempty"`
	TypeDefinitionProvider json.RawMessage `json:"typeDefinitionProvider,omitempty"`
	ImplementationProvider json.RawMessage `json:"implementationProvider,omitempty"`
	ReferencesProvider     json.RawMessage `json:"referencesProvider,omitempty"`
	DocumentSymbolProvider json.RawMessage `json:"documentSymbolProvider,omitempty"`
	WorkspaceSymbolProvider json.RawMessage `json:"workspaceSymbolProvider,omitempty"`
	DocumentFormattingProvider json.RawMessage `json:"documentFormattingProvider,omitempty"`
	DocumentRangeFormattingProvider json.RawMessage `json:"documentRangeFormattingProvider,omitempty"`
	RenameProvider json.RawMessage `json:"renameProvider,omitempty"`
	FoldingRangeProvider json.RawMessage `json:"foldingRangeProvider,omitempty"`
	ExecuteCommandProvider *ExecuteCommandOptions `json:"executeCommandProvider,omitempty"`
	CodeActionProvider json.RawMessage `json:"codeActionProvider,omitempty"`
	Workspace *ServerWorkspaceCapabilities `json:"workspace,omitempty"`
}

// Supports reports whether a RawMessage provider flag is present and not
// explicitly `false`. A missing field and an explicit boolean false both
// mean "unsupported"; any other JSON value (true, or an options object)
// means "supported". This mirrors how real servers advertise providers
// either as a bool or as a detailed options object.
func Supports(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	return true
}

// ServerWorkspaceCapabilities is the workspace-scoped subset of ServerCapabilities.
type ServerWorkspaceCapabilities struct {
	WorkspaceFolders *WorkspaceFoldersServerCapabilities `json:"workspaceFolders,omitempty"`
}

// WorkspaceFoldersServerCapabilities describes workspace folder support.
type WorkspaceFoldersServerCapabilities struct {
	Supported           *bool `json:"supported,omitempty"`
	ChangeNotifications json.RawMessage `json:"changeNotifications,omitempty"`
}

// CompletionOptions describes server-side completion support.
type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
	ResolveProvider   *bool    `json:"resolveProvider,omitempty"`
}

// SignatureHelpOptions describes server-side signature help support.
type SignatureHelpOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

// ExecuteCommandOptions describes the commands a server accepts for workspace/executeCommand.
type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

// InitializeParams contains the parameters for the initialize request.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#initializeParams
type InitializeParams struct {
	ProcessID             *int32              `json:"processId"`
	ClientInfo             *ClientInfo         `json:"clientInfo,omitempty"`
	RootURI               *DocumentURI        `json:"rootUri"`
	WorkspaceFolders       []WorkspaceFolder   `json:"workspaceFolders,omitempty"`
	Capabilities           ClientCapabilities  `json:"capabilities"`
	Trace                  *TraceValue         `json:"trace,omitempty"`
}

// InitializeResult is the result of a successful initialize request.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

// Registration describes one client/registerCapability entry.
// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#registration
type Registration struct {
	ID              string           `json:"id"`
	Method          string           `json:"method"`
	RegisterOptions *json.RawMessage `json:"registerOptions,omitempty"`
}

// RegistrationParams contains the parameters for client/registerCapability.
type RegistrationParams struct {
	Registrations []Registration `json:"registrations"`
}

// Unregistration identifies one registration to remove.
type Unregistration struct {
	ID     string `json:"id"`
	Method string `json:"method"`
}

// UnregistrationParams contains the parameters for client/unregisterCapability.
type UnregistrationParams struct {
	Unregisterations []Unregistration `json:"unregisterations"`
}
