package node

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"ocppnode/backend/libs/ocpp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeConn records written frames.
type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	writeErr error
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{}
}

func (f *fakeConn) WriteMessage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) setWriteErr(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *fakeConn) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

// messageAt parses the frame at index.
func (f *fakeConn) messageAt(t *testing.T, index int) *ocpp.Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.frames) {
		t.Fatalf("no frame at %d, have %d", index, len(f.frames))
	}
	msg, err := ocpp.NewParser().Parse(f.frames[index])
	if err != nil {
		t.Fatalf("parse frame %s: %v", f.frames[index], err)
	}
	return msg
}

func (f *fakeConn) last(t *testing.T) *ocpp.Message {
	t.Helper()
	return f.messageAt(t, f.messageCount()-1)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// pipeConn delivers frames straight into the peer node.
type pipeConn struct {
	mu     sync.Mutex
	from   ocpp.NodeID
	to     *Node
	frames [][]byte
	closed bool
}

func (p *pipeConn) WriteMessage(data []byte) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New("pipe closed")
	}
	p.frames = append(p.frames, append([]byte(nil), data...))
	p.mu.Unlock()

	_ = p.to.Receive(context.Background(), p.from, data)
	return nil
}

func (p *pipeConn) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func (p *pipeConn) frameAt(t *testing.T, index int) []any {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.frames) {
		t.Fatalf("no frame at %d, have %d", index, len(p.frames))
	}
	var out []any
	if err := json.Unmarshal(p.frames[index], &out); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return out
}

func (p *pipeConn) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// connect links a and b in both directions and returns the conn each side
// writes to.
func connect(t *testing.T, a, b *Node, mode NetworkingMode) (ab, ba *pipeConn) {
	t.Helper()
	ab = &pipeConn{from: a.ID(), to: b}
	ba = &pipeConn{from: b.ID(), to: a}
	if err := b.Attach(a.ID(), ba, mode); err != nil {
		t.Fatalf("attach %s to %s: %v", a.ID(), b.ID(), err)
	}
	if err := a.Attach(b.ID(), ab, mode); err != nil {
		t.Fatalf("attach %s to %s: %v", b.ID(), a.ID(), err)
	}
	return ab, ba
}

func useIDs(t *testing.T, ids ...string) {
	t.Helper()
	originalGenerator := idGenerator
	var mu sync.Mutex
	idGenerator = func() string {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return originalGenerator()
		}
		id := ids[0]
		ids = ids[1:]
		return id
	}
	t.Cleanup(func() { idGenerator = originalGenerator })
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
