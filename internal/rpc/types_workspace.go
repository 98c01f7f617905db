package rpc

import (
	"encoding/json"
	"fmt"
)

// ProgressToken identifies a stream of $/progress notifications. Like ID,
// it can be either a string or an integer on the wire.
type ProgressToken struct {
	name   string
	number int64
	isName bool
}

// NewIntProgressToken builds an integer progress token.
func NewIntProgressToken(n int64) ProgressToken {
	return ProgressToken{number: n}
}

// NewStringProgressToken builds a string progress token.
func NewStringProgressToken(s string) ProgressToken {
	return ProgressToken{name: s, isName: true}
}

// String returns a human-readable form of the token, used as the map key
// for tracking progress stream state.
func (t ProgressToken) String() string {
	if t.isName {
		return t.name
	}
	return fmt.Sprintf("%d", t.number)
}

// MarshalJSON encodes the token as either a JSON string or number.
func (t ProgressToken) MarshalJSON() ([]byte, error) {
	if t.isName {
		return json.Marshal(t.name)
	}
	return json.Marshal(t.number)
}

// UnmarshalJSON decodes a JSON string or number into the token.
func (t *ProgressToken) UnmarshalJSON(data []byte) error {
	*t = ProgressToken{}
	if err := json.Unmarshal(data, &t.number); err == nil {
		return nil
	}
	t.isName = true
	return json.Unmarshal(data, &t.name)
}

// WorkDoneProgressKind discriminates the three $/progress value shapes a
// work-done progress stream can carry.
type WorkDoneProgressKind string

const (
	ProgressBegin  WorkDoneProgressKind = "begin"
	ProgressReport WorkDoneProgressKind = "report"
	ProgressEnd    WorkDoneProgressKind = "end"
)

// WorkDoneProgressBegin is the value of the first $/progress notification
// for a stream.
type WorkDoneProgressBegin struct {
	Kind        WorkDoneProgressKind `json:"kind"`
	Title       string               `json:"title"`
	Cancellable *bool                `json:"cancellable,omitempty"`
	Message     *string              `json:"message,omitempty"`
	Percentage  *uint32              `json:"percentage,omitempty"`
}

// WorkDoneProgressReport is an intermediate $/progress value for a stream.
type WorkDoneProgressReport struct {
	Kind        WorkDoneProgressKind `json:"kind"`
	Cancellable *bool                `json:"cancellable,omitempty"`
	Message     *string              `json:"message,omitempty"`
	Percentage  *uint32              `json:"percentage,omitempty"`
}

// WorkDoneProgressEnd is the final $/progress value for a stream.
type WorkDoneProgressEnd struct {
	Kind    WorkDoneProgressKind `json:"kind"`
	Message *string              `json:"message,omitempty"`
}

// ProgressParams contains the parameters for a $/progress notification in
// either direction. Value is decoded by inspecting its "kind" field against
// [WorkDoneProgressKind].
type ProgressParams struct {
	Token ProgressToken   `json:"token"`
	Value json.RawMessage `json:"value"`
}

// DecodeProgressValue inspects a ProgressParams.Value's "kind" discriminator
// and unmarshals it into the matching typed event.
func DecodeProgressValue(raw json.RawMessage) (any, error) {
	var probe struct {
		Kind WorkDoneProgressKind `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode progress value kind: %w", err)
	}
	switch probe.Kind {
	case ProgressBegin:
		var v WorkDoneProgressBegin
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ProgressReport:
		var v WorkDoneProgressReport
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case ProgressEnd:
		var v WorkDoneProgressEnd
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown progress value kind %q", probe.Kind)
	}
}

// WorkDoneProgressCreateParams contains the parameters for the server
// request window/workDoneProgress/create.
type WorkDoneProgressCreateParams struct {
	Token ProgressToken `json:"token"`
}

// MessageType classifies a window/showMessage, window/showMessageRequest,
// or window/logMessage notification.
type MessageType int

const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
	MessageLog     MessageType = 4
)

// ShowMessageParams contains the parameters for window/showMessage.
type ShowMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// MessageActionItem is one button a user can pick in response to a
// window/showMessageRequest.
type MessageActionItem struct {
	Title string `json:"title"`
}

// ShowMessageRequestParams contains the parameters for window/showMessageRequest.
type ShowMessageRequestParams struct {
	Type    MessageType         `json:"type"`
	Message string              `json:"message"`
	Actions []MessageActionItem `json:"actions,omitempty"`
}

// LogMessageParams contains the parameters for window/logMessage.
type LogMessageParams struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

// ConfigurationItem describes one setting scope a server asks for via
// workspace/configuration.
type ConfigurationItem struct {
	ScopeURI *DocumentURI `json:"scopeUri,omitempty"`
	Section  *string      `json:"section,omitempty"`
}

// ConfigurationParams contains the parameters for the server request
// workspace/configuration. The client's reply must supply one settings
// value per requested item, in the same order.
type ConfigurationParams struct {
	Items []ConfigurationItem `json:"items"`
}

// DidChangeWorkspaceFoldersParams contains the parameters for the
// workspace/didChangeWorkspaceFolders notification.
type DidChangeWorkspaceFoldersParams struct {
	Event WorkspaceFoldersChangeEvent `json:"event"`
}

// WorkspaceFoldersChangeEvent describes an added/removed set of workspace folders.
type WorkspaceFoldersChangeEvent struct {
	Added   []WorkspaceFolder `json:"added"`
	Removed []WorkspaceFolder `json:"removed"`
}

// ApplyWorkspaceEditParams contains the parameters for the server request
// workspace/applyEdit.
type ApplyWorkspaceEditParams struct {
	Label *string       `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

// ApplyWorkspaceEditResult is the client's reply to workspace/applyEdit.
type ApplyWorkspaceEditResult struct {
	Applied       bool    `json:"applied"`
	FailureReason *string `json:"failureReason,omitempty"`
}
