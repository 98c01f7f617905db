package lspclient

import "fmt"

// ErrIllegalState is returned when a caller invokes an operation the
// current client state forbids (spec §4.5).
type ErrIllegalState struct {
	State     State
	Operation string
}

func (e *ErrIllegalState) Error() string {
	return fmt.Sprintf("illegal state: cannot %s while in state %s", e.Operation, e.State)
}

// ErrUnknownDocument is returned when an operation references a document
// URI the client never saw a didOpen for.
type ErrUnknownDocument struct {
	URI string
}

func (e *ErrUnknownDocument) Error() string {
	return fmt.Sprintf("unknown document: %s", e.URI)
}

// ErrUnknownResponseID is returned (as a protocol-error event, not a panic)
// when an inbound response's id has no matching pending request.
type ErrUnknownResponseID struct {
	ID string
}

func (e *ErrUnknownResponseID) Error() string {
	return fmt.Sprintf("unknown response id: %s", e.ID)
}

// ErrUnexpectedMessageInState is returned when an inbound message is
// structurally valid but forbidden by the current lifecycle state.
type ErrUnexpectedMessageInState struct {
	State   State
	Method  string
	Kind    string // "request" | "response" | "notification"
}

func (e *ErrUnexpectedMessageInState) Error() string {
	return fmt.Sprintf("unexpected %s %q in state %s", e.Kind, e.Method, e.State)
}

// ErrDuplicateInitialize is reported (as a protocol-error event) when a
// response to an initialize request arrives after the client has already
// left WAITING_FOR_INITIALIZED.
type ErrDuplicateInitialize struct{}

func (e *ErrDuplicateInitialize) Error() string {
	return "duplicate initialize: a client may only initialize once"
}

// ErrUnsupportedCapability is returned when the server's advertised
// capabilities explicitly declare a feature unsupported (spec §4.4: the
// capability registry "used by the dispatcher to short-circuit
// unsupported operations").
type ErrUnsupportedCapability struct {
	Operation string
}

func (e *ErrUnsupportedCapability) Error() string {
	return fmt.Sprintf("server does not support %s", e.Operation)
}
