package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ocppnode/backend/libs/ocpp"
)

type sentCall struct {
	dest      ocpp.NodeID
	messageID string
	action    string
	payload   json.RawMessage
}

type fakeSender struct {
	mu    sync.Mutex
	calls []sentCall
	err   error
	via   ocpp.NodeID
}

func (f *fakeSender) sendCall(dest ocpp.NodeID, messageID, action string, payload json.RawMessage) (ocpp.NodeID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, sentCall{dest: dest, messageID: messageID, action: action, payload: payload})
	if f.via != "" {
		return f.via, nil
	}
	return dest, nil
}

func (f *fakeSender) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSender) callAt(index int) sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.calls) {
		return sentCall{}
	}
	return f.calls[index]
}

func newTestTracker(t *testing.T, cfg TrackerConfig, sender callSender) *Tracker {
	t.Helper()
	tr := newTracker(cfg, sender)
	t.Cleanup(tr.Close)
	return tr
}

func collect() (CommandCallback, <-chan CommandResult) {
	ch := make(chan CommandResult, 4)
	return func(r CommandResult) { ch <- r }, ch
}

func receiveResult(t *testing.T, ch <-chan CommandResult) CommandResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		t.Fatalf("no command result")
		return CommandResult{}
	}
}

func TestTrackerSendAndAcknowledge(t *testing.T) {
	useIDs(t, "cmd-1", "msg-1")
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second, MaxAttempts: 2}, sender)

	cb, results := collect()
	snapshot, err := tracker.Enqueue("station-1", "Reset", json.RawMessage(`{"type":"Immediate"}`), cb)
	if err != nil {
		t.Fatalf("enqueue command: %v", err)
	}
	if snapshot.ID != "cmd-1" {
		t.Fatalf("expected command id cmd-1, got %s", snapshot.ID)
	}
	if sender.count() != 1 {
		t.Fatalf("expected one call on the wire, got %d", sender.count())
	}

	snap, ok := tracker.Snapshot(snapshot.ID)
	if !ok {
		t.Fatalf("command snapshot not found")
	}
	if snap.Status != CommandStatusPending {
		t.Fatalf("expected pending status after send, got %s", snap.Status)
	}
	if snap.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", snap.Attempts)
	}
	if call := sender.callAt(0); call.messageID != "msg-1" || call.action != "Reset" {
		t.Fatalf("unexpected call %+v", call)
	}

	pending, ok := tracker.Pending("msg-1")
	if !ok || pending.CommandID != "cmd-1" || pending.Destination != "station-1" {
		t.Fatalf("unexpected pending call %+v", pending)
	}

	if !tracker.HandleResult("msg-1", nil, json.RawMessage(`{"status":"Accepted"}`)) {
		t.Fatalf("result not correlated")
	}

	snap, _ = tracker.Snapshot(snapshot.ID)
	if snap.Status != CommandStatusAccepted {
		t.Fatalf("expected accepted status, got %s", snap.Status)
	}
	if snap.LastMessageID != "msg-1" {
		t.Fatalf("expected last message id msg-1, got %s", snap.LastMessageID)
	}
	result := receiveResult(t, results)
	if result.Status != CommandStatusAccepted || result.Err != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if tracker.PendingCount() != 0 {
		t.Fatalf("expected nothing pending, got %d", tracker.PendingCount())
	}
}

func TestTrackerRetriesWithNewMessageIDAndTimesOut(t *testing.T) {
	useIDs(t, "cmd-timeout", "msg-1", "msg-2")
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: 20 * time.Millisecond, MaxAttempts: 2}, sender)

	cb, results := collect()
	snapshot, err := tracker.Enqueue("station-7", "RequestStopTransaction", json.RawMessage(`{"transactionId":"42"}`), cb)
	if err != nil {
		t.Fatalf("enqueue command: %v", err)
	}

	waitFor(t, 400*time.Millisecond, func() bool { return sender.count() == 2 })
	if id := sender.callAt(1).messageID; id != "msg-2" {
		t.Fatalf("expected retry with msg-2, got %s", id)
	}

	waitFor(t, 400*time.Millisecond, func() bool {
		snap, ok := tracker.Snapshot(snapshot.ID)
		return ok && snap.Status == CommandStatusTimeout
	})

	snap, _ := tracker.Snapshot(snapshot.ID)
	if snap.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", snap.Attempts)
	}
	result := receiveResult(t, results)
	if !errors.Is(result.Err, ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", result.Err)
	}

	// A late answer to the first attempt changes nothing.
	if tracker.HandleResult("msg-1", nil, json.RawMessage(`{}`)) {
		t.Fatalf("late result must not be correlated")
	}
}

func TestTrackerKeepsCommandQueuedWithoutRoute(t *testing.T) {
	useIDs(t, "cmd-queued", "msg-1")
	sender := &fakeSender{}
	sender.setErr(fmt.Errorf("%w station-3", ErrNoRoute))
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second}, sender)

	snapshot, err := tracker.Enqueue("station-3", "GetVariables", nil, nil)
	if err != nil {
		t.Fatalf("enqueue command: %v", err)
	}
	snap, _ := tracker.Snapshot(snapshot.ID)
	if snap.Status != CommandStatusQueued || snap.Attempts != 0 {
		t.Fatalf("expected queued command without attempts, got %s/%d", snap.Status, snap.Attempts)
	}
	if tracker.QueuedCount() != 1 {
		t.Fatalf("expected one queued command, got %d", tracker.QueuedCount())
	}

	sender.setErr(nil)
	tracker.Flush()

	if sender.count() != 1 {
		t.Fatalf("expected the command to be sent after flush, got %d calls", sender.count())
	}
	if string(sender.callAt(0).payload) != "{}" {
		t.Fatalf("expected empty object payload, got %s", sender.callAt(0).payload)
	}
}

func TestTrackerHandlesSendFailure(t *testing.T) {
	useIDs(t, "cmd-fail", "msg-fail")
	sender := &fakeSender{}
	sender.setErr(errors.New("boom"))
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second, MaxAttempts: 1}, sender)

	snapshot, err := tracker.Enqueue("station-9", "ChangeAvailability", json.RawMessage(`{"operationalStatus":"Inoperative"}`), nil)
	if err != nil {
		t.Fatalf("enqueue command: %v", err)
	}

	snap, ok := tracker.Snapshot(snapshot.ID)
	if !ok {
		t.Fatalf("command snapshot not found after send failure")
	}
	if snap.Status != CommandStatusQueued {
		t.Fatalf("expected command to remain queued, got %s", snap.Status)
	}
	if snap.Attempts != 0 {
		t.Fatalf("expected attempts to remain 0, got %d", snap.Attempts)
	}
	if !strings.Contains(snap.LastError, "send command failed") {
		t.Fatalf("expected error to mention send failure, got %s", snap.LastError)
	}
}

func TestTrackerLimitsInFlightPerDestination(t *testing.T) {
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second}, sender)

	if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := tracker.Enqueue("cs-2", "Reset", nil, nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if sender.count() != 2 {
		t.Fatalf("expected one call per destination, got %d", sender.count())
	}
	if tracker.PendingCount() != 2 || tracker.QueuedCount() != 1 {
		t.Fatalf("expected 2 pending and 1 queued, got %d and %d", tracker.PendingCount(), tracker.QueuedCount())
	}

	first := sender.callAt(0)
	if first.dest != "cs-1" {
		t.Fatalf("expected first call to cs-1, got %s", first.dest)
	}
	tracker.HandleError(first.messageID, ocpp.NewError(ocpp.NotSupported, "nope", nil))

	if sender.count() != 3 {
		t.Fatalf("expected the queued command to follow, got %d calls", sender.count())
	}
	if sender.callAt(2).dest != "cs-1" {
		t.Fatalf("expected third call to cs-1, got %s", sender.callAt(2).dest)
	}
}

func TestTrackerMaxInFlightConfigurable(t *testing.T) {
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second, MaxInFlight: 3}, sender)

	for i := 0; i < 4; i++ {
		if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if sender.count() != 3 {
		t.Fatalf("expected 3 calls in flight, got %d", sender.count())
	}
}

func TestTrackerErrorCompletesOnce(t *testing.T) {
	useIDs(t, "cmd-err", "msg-err")
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second}, sender)

	cb, results := collect()
	snapshot, err := tracker.Enqueue("cs-1", "Reset", nil, cb)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if !tracker.HandleError("msg-err", ocpp.NewError(ocpp.SecurityError, "bad signature", nil)) {
		t.Fatalf("error not correlated")
	}
	if tracker.HandleError("msg-err", nil) || tracker.HandleResult("msg-err", nil, nil) {
		t.Fatalf("second completion must be ignored")
	}

	result := receiveResult(t, results)
	if result.Status != CommandStatusFailed || !ocpp.IsCode(result.Err, ocpp.SecurityError) {
		t.Fatalf("unexpected result %+v", result)
	}
	snap, _ := tracker.Snapshot(snapshot.ID)
	if !strings.Contains(snap.LastError, "SecurityError") {
		t.Fatalf("expected last error to carry the code, got %q", snap.LastError)
	}
	select {
	case extra := <-results:
		t.Fatalf("unexpected second result %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTrackerRequeueViaUsesNewMessageID(t *testing.T) {
	useIDs(t, "cmd-via", "msg-1", "msg-2")
	sender := &fakeSender{via: "gw-1"}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second, MaxAttempts: 3}, sender)

	snapshot, err := tracker.Enqueue("cs-1", "Reset", nil, nil)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	snap, _ := tracker.Snapshot(snapshot.ID)
	if snap.Via != "gw-1" {
		t.Fatalf("expected via gw-1, got %s", snap.Via)
	}

	if n := tracker.RequeueVia("gw-2"); n != 0 {
		t.Fatalf("nothing left through gw-2, requeued %d", n)
	}
	if n := tracker.RequeueVia("gw-1"); n != 1 {
		t.Fatalf("expected 1 requeued command, got %d", n)
	}

	if sender.count() != 2 {
		t.Fatalf("expected a resend, got %d calls", sender.count())
	}
	if id := sender.callAt(1).messageID; id != "msg-2" {
		t.Fatalf("expected resend with msg-2, got %s", id)
	}
	if _, ok := tracker.Pending("msg-1"); ok {
		t.Fatalf("old message id must be forgotten")
	}
	snap, _ = tracker.Snapshot(snapshot.ID)
	if snap.Status != CommandStatusPending || snap.Attempts != 2 {
		t.Fatalf("expected pending second attempt, got %s/%d", snap.Status, snap.Attempts)
	}
}

func TestTrackerCancel(t *testing.T) {
	useIDs(t, "cmd-cancel", "msg-cancel")
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second}, sender)

	cb, results := collect()
	snapshot, err := tracker.Enqueue("cs-1", "Reset", nil, cb)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if !tracker.Cancel(snapshot.ID, errors.New("operator")) {
		t.Fatalf("cancel failed")
	}
	if tracker.Cancel(snapshot.ID, nil) {
		t.Fatalf("second cancel must fail")
	}
	if tracker.HandleResult("msg-cancel", nil, nil) {
		t.Fatalf("result after cancel must not be correlated")
	}

	result := receiveResult(t, results)
	if result.Status != CommandStatusCanceled {
		t.Fatalf("expected canceled, got %s", result.Status)
	}
}

func TestTrackerCloseCancelsEverything(t *testing.T) {
	sender := &fakeSender{}
	sender.setErr(ErrNoRoute)
	tracker := newTracker(TrackerConfig{}, sender)

	cb, results := collect()
	if _, err := tracker.Enqueue("cs-1", "Reset", nil, cb); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	tracker.Close()

	result := receiveResult(t, results)
	if !errors.Is(result.Err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", result.Err)
	}
	if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestTrackerPrune(t *testing.T) {
	useIDs(t, "cmd-old", "msg-old", "cmd-new")
	sender := &fakeSender{}
	tracker := newTestTracker(t, TrackerConfig{Timeout: time.Second}, sender)

	if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	tracker.HandleResult("msg-old", nil, nil)
	if _, err := tracker.Enqueue("cs-1", "Reset", nil, nil); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if n := tracker.Prune(time.Now().Add(time.Minute)); n != 1 {
		t.Fatalf("expected only the finished command pruned, got %d", n)
	}
	if _, ok := tracker.Snapshot("cmd-old"); ok {
		t.Fatalf("pruned command still visible")
	}
	if _, ok := tracker.Snapshot("cmd-new"); !ok {
		t.Fatalf("pending command must survive pruning")
	}
}

func TestTrackerRejectsMissingFields(t *testing.T) {
	tracker := newTestTracker(t, TrackerConfig{}, &fakeSender{})
	if _, err := tracker.Enqueue(" ", "Reset", nil, nil); err == nil {
		t.Fatalf("expected error for empty destination")
	}
	if _, err := tracker.Enqueue("cs-1", "", nil, nil); err == nil {
		t.Fatalf("expected error for empty action")
	}
}

func TestResultStatus(t *testing.T) {
	cases := map[string]CommandStatus{
		``:                       CommandStatusAccepted,
		`{}`:                     CommandStatusAccepted,
		`{"status":"Accepted"}`:  CommandStatusAccepted,
		`{"status":"Rejected"}`:  CommandStatusRejected,
		`{"status":"Scheduled"}`: CommandStatusCompleted,
		`{"currentTime":"x"}`:    CommandStatusAccepted,
	}
	for payload, want := range cases {
		if got := resultStatus(json.RawMessage(payload)); got != want {
			t.Fatalf("resultStatus(%q) = %s, want %s", payload, got, want)
		}
	}
}
