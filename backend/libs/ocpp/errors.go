package ocpp

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode is an OCPP-J RPC framework error code.
type ErrorCode string

const (
	FormatViolation               ErrorCode = "FormatViolation"
	GenericError                  ErrorCode = "GenericError"
	InternalError                 ErrorCode = "InternalError"
	MessageTypeNotSupported       ErrorCode = "MessageTypeNotSupported"
	NotImplemented                ErrorCode = "NotImplemented"
	NotSupported                  ErrorCode = "NotSupported"
	OccurrenceConstraintViolation ErrorCode = "OccurrenceConstraintViolation"
	PropertyConstraintViolation   ErrorCode = "PropertyConstraintViolation"
	ProtocolError                 ErrorCode = "ProtocolError"
	RpcFrameworkError             ErrorCode = "RpcFrameworkError"
	SecurityError                 ErrorCode = "SecurityError"
	TypeConstraintViolation       ErrorCode = "TypeConstraintViolation"
)

var errorCodes = map[ErrorCode]struct{}{
	FormatViolation:               {},
	GenericError:                  {},
	InternalError:                 {},
	MessageTypeNotSupported:       {},
	NotImplemented:                {},
	NotSupported:                  {},
	OccurrenceConstraintViolation: {},
	PropertyConstraintViolation:   {},
	ProtocolError:                 {},
	RpcFrameworkError:             {},
	SecurityError:                 {},
	TypeConstraintViolation:       {},
}

// IsValid reports whether the code belongs to the OCPP-J 2.1 set.
func (c ErrorCode) IsValid() bool {
	_, ok := errorCodes[c]
	return ok
}

// Error is a protocol level error carried by CALLERROR and CALLRESULTERROR frames.
type Error struct {
	Code        ErrorCode
	Description string
	Details     json.RawMessage
	// MessageID is set when the failing frame's unique id is known.
	MessageID string
}

// NewError builds an Error. Details may be nil, a json.RawMessage or any value
// that marshals to a JSON object.
func NewError(code ErrorCode, description string, details any) *Error {
	e := &Error{Code: code, Description: description}
	switch d := details.(type) {
	case nil:
	case json.RawMessage:
		e.Details = d
	default:
		if raw, err := json.Marshal(d); err == nil {
			e.Details = raw
		}
	}
	return e
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("ocpp: %s", e.Code)
	}
	return fmt.Sprintf("ocpp: %s: %s", e.Code, e.Description)
}

// WithMessageID returns a copy bound to a unique id.
func (e *Error) WithMessageID(id string) *Error {
	c := *e
	c.MessageID = id
	return &c
}

// AsError extracts an *Error from err. Errors of other kinds are wrapped into an
// InternalError so they can always be reported to the peer.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe
	}
	return NewError(InternalError, err.Error(), nil)
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Code == code
}
