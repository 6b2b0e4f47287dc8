package ocpp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandardFrames(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name   string
		raw    string
		expect Message
	}{
		{
			name:   "call",
			raw:    `[2,"19223201","BootNotification",{"reason":"PowerUp"}]`,
			expect: Message{Type: Call, UniqueID: "19223201", Action: "BootNotification", Payload: json.RawMessage(`{"reason":"PowerUp"}`)},
		},
		{
			name:   "call result",
			raw:    `[3,"19223201",{"status":"Accepted"}]`,
			expect: Message{Type: CallResult, UniqueID: "19223201", Payload: json.RawMessage(`{"status":"Accepted"}`)},
		},
		{
			name:   "call error",
			raw:    `[4,"19223201","NotImplemented","unknown action",{"hint":"x"}]`,
			expect: Message{Type: CallError, UniqueID: "19223201", ErrorCode: NotImplemented, ErrorDescription: "unknown action", ErrorDetails: json.RawMessage(`{"hint":"x"}`)},
		},
		{
			name:   "call result error",
			raw:    `[5,"19223201","SecurityError","bad signature",{}]`,
			expect: Message{Type: CallResultError, UniqueID: "19223201", ErrorCode: SecurityError, ErrorDescription: "bad signature", ErrorDetails: json.RawMessage(`{}`)},
		},
		{
			name:   "send",
			raw:    `[6,"s-1","NotifyPeriodicEventStream",{"id":1}]`,
			expect: Message{Type: Send, UniqueID: "s-1", Action: "NotifyPeriodicEventStream", Payload: json.RawMessage(`{"id":1}`)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := parser.Parse([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.expect, *msg)
			assert.False(t, msg.IsRouted())
		})
	}
}

func TestParseOverlayFrame(t *testing.T) {
	raw := `[2,"CS-7",["CSMS","LC-1"],"abc","Reset",{"type":"Immediate"}]`

	msg, err := NewParser().Parse([]byte(raw))
	require.NoError(t, err)
	assert.True(t, msg.IsRouted())
	assert.Equal(t, NodeID("CS-7"), msg.DestinationID)
	assert.Equal(t, NetworkPath{"CSMS", "LC-1"}, msg.NetworkPath)
	assert.Equal(t, "abc", msg.UniqueID)
	assert.Equal(t, "Reset", msg.Action)
}

func TestParseErrors(t *testing.T) {
	parser := NewParser()
	longID := strings.Repeat("a", MaxUniqueIDLength+1)

	tests := []struct {
		name      string
		raw       string
		code      ErrorCode
		messageID string
	}{
		{name: "not json", raw: `hello`, code: RpcFrameworkError},
		{name: "object", raw: `{"a":1}`, code: RpcFrameworkError},
		{name: "too short", raw: `[2,"x"]`, code: FormatViolation},
		{name: "type not number", raw: `["2","x","A",{}]`, code: RpcFrameworkError},
		{name: "unknown type", raw: `[9,"x","A",{}]`, code: MessageTypeNotSupported, messageID: "x"},
		{name: "id too long", raw: `[2,"` + longID + `","A",{}]`, code: FormatViolation, messageID: longID},
		{name: "id not string", raw: `[2,7,"A",{}]`, code: FormatViolation},
		{name: "call arity", raw: `[2,"x","A",{},{}]`, code: FormatViolation, messageID: "x"},
		{name: "call payload array", raw: `[2,"x","A",[1]]`, code: FormatViolation, messageID: "x"},
		{name: "result payload string", raw: `[3,"x","ok"]`, code: FormatViolation, messageID: "x"},
		{name: "error code not string", raw: `[4,"x",1,"d",{}]`, code: FormatViolation, messageID: "x"},
		{name: "overlay empty destination", raw: `[2,"",[],"x","A",{}]`, code: FormatViolation},
		{name: "overlay bad path", raw: `[2,"d",[1],"x","A",{}]`, code: FormatViolation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tc.raw))
			require.Error(t, err)
			oerr := AsError(err)
			assert.Equal(t, tc.code, oerr.Code)
			assert.Equal(t, tc.messageID, oerr.MessageID)
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	frames := []*Message{
		{Type: Call, UniqueID: "1", Action: "Heartbeat", Payload: json.RawMessage(`{}`)},
		{Type: CallResult, UniqueID: "1", Payload: json.RawMessage(`{"currentTime":"2025-01-01T00:00:00Z"}`)},
		{Type: CallError, UniqueID: "1", ErrorCode: GenericError, ErrorDescription: "boom", ErrorDetails: json.RawMessage(`{}`)},
		{Type: Send, UniqueID: "2", Action: "NotifyPeriodicEventStream", Payload: json.RawMessage(`{"id":3}`)},
		{Type: Call, UniqueID: "3", Action: "Reset", Payload: json.RawMessage(`{}`), DestinationID: "CS-1", NetworkPath: NetworkPath{"CSMS"}},
		{Type: CallResultError, UniqueID: "4", ErrorCode: SecurityError, ErrorDescription: "", ErrorDetails: json.RawMessage(`{}`), DestinationID: "CSMS", NetworkPath: NetworkPath{}},
	}

	for _, frame := range frames {
		raw, err := Encode(frame)
		require.NoError(t, err)
		parsed, err := NewParser().Parse(raw)
		require.NoError(t, err, string(raw))
		assert.Equal(t, frame, parsed, string(raw))
	}
}

func TestBuildCallError(t *testing.T) {
	raw, err := BuildCallError("m-1", NewError(NotSupported, "no handler", map[string]string{"action": "Reset"}))
	require.NoError(t, err)
	assert.JSONEq(t, `[4,"m-1","NotSupported","no handler",{"action":"Reset"}]`, string(raw))

	raw, err = BuildCallResultError("m-2", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[5,"m-2","GenericError","",{}]`, string(raw))
}

func TestBuildCallAndSend(t *testing.T) {
	raw, err := BuildCall("m-1", "Heartbeat", struct{}{})
	require.NoError(t, err)
	assert.JSONEq(t, `[2,"m-1","Heartbeat",{}]`, string(raw))

	raw, err = BuildSend("m-2", "NotifyPeriodicEventStream", map[string]int{"id": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `[6,"m-2","NotifyPeriodicEventStream",{"id":1}]`, string(raw))

	raw, err = BuildCallResult("m-3", map[string]string{"status": "Accepted"})
	require.NoError(t, err)
	assert.JSONEq(t, `[3,"m-3",{"status":"Accepted"}]`, string(raw))
}

func TestMessageErr(t *testing.T) {
	msg := &Message{Type: CallError, UniqueID: "x", ErrorCode: ProtocolError, ErrorDescription: "loop"}
	oerr := msg.Err()
	require.NotNil(t, oerr)
	assert.Equal(t, ProtocolError, oerr.Code)
	assert.Equal(t, "x", oerr.MessageID)
	assert.EqualError(t, oerr, "ocpp: ProtocolError: loop")

	assert.Nil(t, (&Message{Type: CallResult}).Err())
}
