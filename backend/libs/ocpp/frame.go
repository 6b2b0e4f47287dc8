package ocpp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageType values as per OCPP-J 2.1.
type MessageType int

const (
	Call            MessageType = 2
	CallResult      MessageType = 3
	CallError       MessageType = 4
	CallResultError MessageType = 5
	Send            MessageType = 6
)

// MaxUniqueIDLength is the longest unique id accepted on the wire.
const MaxUniqueIDLength = 36

// IsValid reports whether the type is known.
func (t MessageType) IsValid() bool {
	return t >= Call && t <= Send
}

func (t MessageType) String() string {
	switch t {
	case Call:
		return "CALL"
	case CallResult:
		return "CALLRESULT"
	case CallError:
		return "CALLERROR"
	case CallResultError:
		return "CALLRESULTERROR"
	case Send:
		return "SEND"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// Message represents a parsed OCPP-J frame.
type Message struct {
	Type     MessageType
	UniqueID string
	// Action is set for CALL and SEND frames.
	Action string
	// Payload is set for CALL, CALLRESULT and SEND frames.
	Payload json.RawMessage

	ErrorCode        ErrorCode
	ErrorDescription string
	ErrorDetails     json.RawMessage

	// DestinationID and NetworkPath are only present on overlay frames.
	DestinationID NodeID
	NetworkPath   NetworkPath
}

// IsRouted reports whether the frame carries an overlay routing header.
func (m *Message) IsRouted() bool {
	return m.DestinationID != ""
}

// IsResponse reports whether the frame answers a CALL.
func (m *Message) IsResponse() bool {
	return m.Type == CallResult || m.Type == CallError || m.Type == CallResultError
}

// Err converts an error frame into *Error.
func (m *Message) Err() *Error {
	if m.Type != CallError && m.Type != CallResultError {
		return nil
	}
	return &Error{
		Code:        m.ErrorCode,
		Description: m.ErrorDescription,
		Details:     m.ErrorDetails,
		MessageID:   m.UniqueID,
	}
}

// Parser decodes raw JSON OCPP frames.
type Parser struct{}

// NewParser returns parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes []byte into Message struct. Returned errors are *Error; their
// MessageID is filled whenever the unique id could be read.
func (p *Parser) Parse(data []byte) (*Message, error) {
	var array []json.RawMessage
	if err := json.Unmarshal(data, &array); err != nil {
		return nil, NewError(RpcFrameworkError, "frame is not a JSON array", nil)
	}

	if len(array) < 3 {
		return nil, NewError(FormatViolation, "malformed frame", nil)
	}

	var msgType int
	if err := json.Unmarshal(array[0], &msgType); err != nil {
		return nil, NewError(RpcFrameworkError, "message type is not a number", nil)
	}

	msg := &Message{Type: MessageType(msgType)}
	rest := array[1:]

	if isJSONArray(array[2]) {
		if len(array) < 5 {
			return nil, NewError(FormatViolation, "incomplete overlay frame", nil)
		}
		var dest string
		if err := json.Unmarshal(array[1], &dest); err != nil || dest == "" {
			return nil, NewError(FormatViolation, "overlay destination must be a non-empty string", nil)
		}
		var hops []string
		if err := json.Unmarshal(array[2], &hops); err != nil {
			return nil, NewError(FormatViolation, "overlay network path must be an array of strings", nil)
		}
		msg.DestinationID = NodeID(dest)
		msg.NetworkPath = make(NetworkPath, 0, len(hops))
		for _, hop := range hops {
			msg.NetworkPath = append(msg.NetworkPath, NodeID(hop))
		}
		rest = array[3:]
	}

	if err := json.Unmarshal(rest[0], &msg.UniqueID); err != nil {
		return nil, NewError(FormatViolation, "unique id must be a string", nil)
	}
	if msg.UniqueID == "" || len(msg.UniqueID) > MaxUniqueIDLength {
		return nil, NewError(FormatViolation, fmt.Sprintf("unique id must be 1..%d characters", MaxUniqueIDLength), nil).WithMessageID(msg.UniqueID)
	}
	rest = rest[1:]

	fail := func(code ErrorCode, format string, args ...any) (*Message, error) {
		return msg, NewError(code, fmt.Sprintf(format, args...), nil).WithMessageID(msg.UniqueID)
	}

	switch msg.Type {
	case Call, Send:
		if len(rest) != 2 {
			return fail(FormatViolation, "%s frame must have 4 elements", msg.Type)
		}
		if err := json.Unmarshal(rest[0], &msg.Action); err != nil || msg.Action == "" {
			return fail(FormatViolation, "action must be a non-empty string")
		}
		if !isJSONObject(rest[1]) {
			return fail(FormatViolation, "payload must be a JSON object")
		}
		msg.Payload = rest[1]
	case CallResult:
		if len(rest) != 1 {
			return fail(FormatViolation, "CALLRESULT frame must have 3 elements")
		}
		if !isJSONObject(rest[0]) {
			return fail(FormatViolation, "payload must be a JSON object")
		}
		msg.Payload = rest[0]
	case CallError, CallResultError:
		if len(rest) < 1 || len(rest) > 3 {
			return fail(FormatViolation, "%s frame must have 5 elements", msg.Type)
		}
		var code string
		if err := json.Unmarshal(rest[0], &code); err != nil {
			return fail(FormatViolation, "error code must be a string")
		}
		msg.ErrorCode = ErrorCode(code)
		if len(rest) > 1 {
			if err := json.Unmarshal(rest[1], &msg.ErrorDescription); err != nil {
				return fail(FormatViolation, "error description must be a string")
			}
		}
		msg.ErrorDetails = json.RawMessage("{}")
		if len(rest) > 2 {
			if !isJSONObject(rest[2]) {
				return fail(FormatViolation, "error details must be a JSON object")
			}
			msg.ErrorDetails = rest[2]
		}
	default:
		return fail(MessageTypeNotSupported, "unsupported message type %d", msgType)
	}

	return msg, nil
}

// Encode renders a Message back into its wire form.
func Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("ocpp: nil message")
	}
	frame := []any{int(msg.Type)}
	if msg.IsRouted() {
		path := msg.NetworkPath
		if path == nil {
			path = NetworkPath{}
		}
		frame = append(frame, string(msg.DestinationID), path)
	}
	frame = append(frame, msg.UniqueID)

	switch msg.Type {
	case Call, Send:
		frame = append(frame, msg.Action, payloadOrEmpty(msg.Payload))
	case CallResult:
		frame = append(frame, payloadOrEmpty(msg.Payload))
	case CallError, CallResultError:
		frame = append(frame, string(msg.ErrorCode), msg.ErrorDescription, payloadOrEmpty(msg.ErrorDetails))
	default:
		return nil, fmt.Errorf("ocpp: cannot encode message type %d", int(msg.Type))
	}
	return json.Marshal(frame)
}

// BuildCall builds a CALL frame.
func BuildCall(uniqueID, action string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return Encode(&Message{Type: Call, UniqueID: uniqueID, Action: action, Payload: body})
}

// BuildSend builds a SEND frame.
func BuildSend(uniqueID, action string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return Encode(&Message{Type: Send, UniqueID: uniqueID, Action: action, Payload: body})
}

// BuildCallResult builds standard CALLRESULT payload.
func BuildCallResult(uniqueID string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return Encode(&Message{Type: CallResult, UniqueID: uniqueID, Payload: body})
}

// BuildCallError builds CALLERROR payload.
func BuildCallError(uniqueID string, oerr *Error) ([]byte, error) {
	return Encode(errorMessage(CallError, uniqueID, oerr))
}

// BuildCallResultError builds CALLRESULTERROR payload.
func BuildCallResultError(uniqueID string, oerr *Error) ([]byte, error) {
	return Encode(errorMessage(CallResultError, uniqueID, oerr))
}

func errorMessage(t MessageType, uniqueID string, oerr *Error) *Message {
	if oerr == nil {
		oerr = NewError(GenericError, "", nil)
	}
	return &Message{
		Type:             t,
		UniqueID:         uniqueID,
		ErrorCode:        oerr.Code,
		ErrorDescription: oerr.Description,
		ErrorDetails:     oerr.Details,
	}
}

// Decode convenience helper for handlers.
func Decode[T any](payload json.RawMessage) (T, error) {
	var target T
	if err := json.Unmarshal(payload, &target); err != nil {
		var zero T
		return zero, err
	}
	return target, nil
}

func payloadOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
