package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
)

// CommandStatus is the lifecycle state of an outgoing CALL.
type CommandStatus string

var idGenerator = uuid.NewString

const (
	CommandStatusQueued    CommandStatus = "queued"
	CommandStatusPending   CommandStatus = "pending"
	CommandStatusAccepted  CommandStatus = "accepted"
	CommandStatusRejected  CommandStatus = "rejected"
	CommandStatusCompleted CommandStatus = "completed"
	CommandStatusFailed    CommandStatus = "failed"
	CommandStatusTimeout   CommandStatus = "timeout"
	CommandStatusCanceled  CommandStatus = "canceled"
)

// IsFinal reports whether no further transition can happen.
func (s CommandStatus) IsFinal() bool {
	switch s {
	case CommandStatusQueued, CommandStatusPending:
		return false
	default:
		return true
	}
}

// CommandResult is handed to the callback once a command terminates.
type CommandResult struct {
	CommandID   string
	MessageID   string
	Destination ocpp.NodeID
	Action      string
	Status      CommandStatus
	Attempts    int
	Response    ocpp.Response
	Payload     json.RawMessage
	Err         error
	OccurredAt  time.Time
}

// CommandSnapshot is a point in time copy of a command.
type CommandSnapshot struct {
	ID            string          `json:"id"`
	Destination   ocpp.NodeID     `json:"destination"`
	Action        string          `json:"action"`
	Status        CommandStatus   `json:"status"`
	Attempts      int             `json:"attempts"`
	MaxAttempts   int             `json:"maxAttempts"`
	Via           ocpp.NodeID     `json:"via,omitempty"`
	LastMessageID string          `json:"lastMessageId"`
	LastError     string          `json:"lastError,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Payload       json.RawMessage `json:"payload"`
	LastResponse  json.RawMessage `json:"lastResponse,omitempty"`
}

type CommandCallback func(CommandResult)

// TrackerConfig tunes outgoing CALL handling.
type TrackerConfig struct {
	// Timeout bounds the wait for a response to one attempt.
	Timeout time.Duration
	// MaxAttempts counts the initial attempt. Every retry uses a new message id.
	MaxAttempts int
	// MaxInFlight limits outstanding CALLs per destination.
	MaxInFlight int
	Logger      *zap.Logger
}

// callSender puts a CALL on the wire and returns the link it left through.
// ErrNoRoute keeps the command queued until the destination becomes reachable.
type callSender interface {
	sendCall(dest ocpp.NodeID, messageID, action string, payload json.RawMessage) (ocpp.NodeID, error)
}

type Command struct {
	mu            sync.Mutex
	id            string
	destination   ocpp.NodeID
	action        string
	payload       json.RawMessage
	status        CommandStatus
	attempts      int
	maxAttempts   int
	timeout       time.Duration
	createdAt     time.Time
	updatedAt     time.Time
	lastError     string
	lastMessageID string
	lastResponse  json.RawMessage
	via           ocpp.NodeID
	timer         *time.Timer
	callback      CommandCallback
}

func newCommand(dest ocpp.NodeID, action string, payload json.RawMessage, timeout time.Duration, maxAttempts int) *Command {
	now := time.Now().UTC()
	return &Command{
		id:          idGenerator(),
		destination: dest,
		action:      action,
		payload:     payload,
		status:      CommandStatusQueued,
		maxAttempts: maxAttempts,
		timeout:     timeout,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (c *Command) snapshot() CommandSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CommandSnapshot{
		ID:            c.id,
		Destination:   c.destination,
		Action:        c.action,
		Status:        c.status,
		Attempts:      c.attempts,
		MaxAttempts:   c.maxAttempts,
		Via:           c.via,
		LastMessageID: c.lastMessageID,
		LastError:     c.lastError,
		CreatedAt:     c.createdAt,
		UpdatedAt:     c.updatedAt,
		Payload:       cloneRaw(c.payload),
		LastResponse:  cloneRaw(c.lastResponse),
	}
}

// finish moves the command into a final state. It returns false when the
// command already terminated, so every command completes exactly once.
func (c *Command) finish(status CommandStatus, messageID string, response json.RawMessage, errMsg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.IsFinal() {
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.status = status
	if messageID != "" {
		c.lastMessageID = messageID
	}
	if response != nil {
		c.lastResponse = response
	}
	c.lastError = errMsg
	c.updatedAt = time.Now().UTC()
	return true
}

func (c *Command) markSent(messageID string, via ocpp.NodeID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempts++
	c.via = via
	if c.status.IsFinal() {
		// The response overtook us.
		return
	}
	c.status = CommandStatusPending
	c.lastMessageID = messageID
	c.updatedAt = time.Now().UTC()
}

func (c *Command) resetForRetry(errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.status = CommandStatusQueued
	c.lastMessageID = ""
	c.lastResponse = nil
	c.via = ""
	c.lastError = errMsg
	c.updatedAt = time.Now().UTC()
}

func (c *Command) setTimer(timer *time.Timer) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = timer
	c.mu.Unlock()
}

func (c *Command) getCallback() CommandCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callback
}

func (c *Command) attemptsInfo() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts, c.maxAttempts
}

func (c *Command) isFinal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.IsFinal()
}

func (c *Command) viaPeer() ocpp.NodeID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.via
}

// destinationSession queues the commands of one destination.
type destinationSession struct {
	destination ocpp.NodeID
	tracker     *Tracker

	mu      sync.Mutex
	queue   []*Command
	pending map[string]*Command
}

// Tracker correlates outgoing CALLs with their responses. It keeps one queue
// per destination, sends at most MaxInFlight CALLs at a time, and retries
// timed out CALLs with fresh message ids.
type Tracker struct {
	mu          sync.Mutex
	sessions    map[ocpp.NodeID]*destinationSession
	commands    map[string]*Command
	inflight    map[string]*destinationSession
	timeout     time.Duration
	attempts    int
	maxInFlight int
	sender      callSender
	log         *zap.Logger
	closed      bool
}

func newTracker(cfg TrackerConfig, sender callSender) *Tracker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	inFlight := cfg.MaxInFlight
	if inFlight <= 0 {
		inFlight = 1
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		sessions:    make(map[ocpp.NodeID]*destinationSession),
		commands:    make(map[string]*Command),
		inflight:    make(map[string]*destinationSession),
		timeout:     timeout,
		attempts:    attempts,
		maxInFlight: inFlight,
		sender:      sender,
		log:         log,
	}
}

func (t *Tracker) getOrCreateSessionLocked(dest ocpp.NodeID) *destinationSession {
	sess, ok := t.sessions[dest]
	if !ok {
		sess = &destinationSession{
			destination: dest,
			tracker:     t,
			queue:       make([]*Command, 0),
			pending:     make(map[string]*Command),
		}
		t.sessions[dest] = sess
	}
	return sess
}

// Enqueue registers a CALL for dest. The payload must already be signed.
func (t *Tracker) Enqueue(dest ocpp.NodeID, action string, payload json.RawMessage, cb CommandCallback) (CommandSnapshot, error) {
	dest = ocpp.NodeID(strings.TrimSpace(string(dest)))
	action = strings.TrimSpace(action)
	if dest.IsZero() {
		return CommandSnapshot{}, errors.New("node: destination is required")
	}
	if action == "" {
		return CommandSnapshot{}, errors.New("node: action is required")
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	cmd := newCommand(dest, action, payload, t.timeout, t.attempts)
	cmd.callback = cb

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return CommandSnapshot{}, ErrClosed
	}
	t.commands[cmd.id] = cmd
	sess := t.getOrCreateSessionLocked(dest)
	t.mu.Unlock()

	sess.enqueueCommand(cmd)
	t.log.Debug("command queued",
		zap.String("destination", string(dest)),
		zap.String("action", action),
		zap.String("command_id", cmd.id),
	)

	return cmd.snapshot(), nil
}

// Snapshot returns the state of a command.
func (t *Tracker) Snapshot(commandID string) (CommandSnapshot, bool) {
	t.mu.Lock()
	cmd, ok := t.commands[commandID]
	t.mu.Unlock()
	if !ok {
		return CommandSnapshot{}, false
	}
	return cmd.snapshot(), true
}

// PendingCall describes a CALL waiting for its response.
type PendingCall struct {
	CommandID   string
	Destination ocpp.NodeID
	Action      string
}

// Pending looks up the CALL sent under messageID without completing it.
func (t *Tracker) Pending(messageID string) (PendingCall, bool) {
	t.mu.Lock()
	sess, ok := t.inflight[messageID]
	t.mu.Unlock()
	if !ok {
		return PendingCall{}, false
	}
	sess.mu.Lock()
	cmd := sess.pending[messageID]
	sess.mu.Unlock()
	if cmd == nil {
		return PendingCall{}, false
	}
	return PendingCall{CommandID: cmd.id, Destination: sess.destination, Action: cmd.action}, true
}

// PendingCount returns the number of CALLs awaiting a response.
func (t *Tracker) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// QueuedCount returns the number of commands waiting to be sent.
func (t *Tracker) QueuedCount() int {
	t.mu.Lock()
	sessions := make([]*destinationSession, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.mu.Unlock()

	total := 0
	for _, s := range sessions {
		s.mu.Lock()
		total += len(s.queue)
		s.mu.Unlock()
	}
	return total
}

// HandleResult completes the CALL sent under messageID with a decoded response.
func (t *Tracker) HandleResult(messageID string, resp ocpp.Response, payload json.RawMessage) bool {
	sess, cmd := t.takePending(messageID)
	if cmd == nil {
		t.log.Warn("call result for unknown message", zap.String("message_id", messageID))
		return false
	}

	status := resultStatus(payload)
	if !cmd.finish(status, messageID, payload, "") {
		return false
	}
	snap := cmd.snapshot()
	t.log.Info("command completed",
		zap.String("destination", string(snap.Destination)),
		zap.String("action", snap.Action),
		zap.String("command_id", snap.ID),
		zap.String("status", string(status)),
		zap.Int("attempts", snap.Attempts),
	)
	t.notify(cmd, CommandResult{
		CommandID:   snap.ID,
		MessageID:   messageID,
		Destination: snap.Destination,
		Action:      snap.Action,
		Status:      status,
		Attempts:    snap.Attempts,
		Response:    resp,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	})

	sess.flushQueue()
	return true
}

// HandleError completes the CALL sent under messageID with a protocol error,
// either a CALLERROR from the peer or a local failure to accept its response.
func (t *Tracker) HandleError(messageID string, oerr *ocpp.Error) bool {
	sess, cmd := t.takePending(messageID)
	if cmd == nil {
		t.log.Warn("call error for unknown message", zap.String("message_id", messageID))
		return false
	}
	if oerr == nil {
		oerr = ocpp.NewError(ocpp.GenericError, "", nil)
	}

	errMsg := fmt.Sprintf("%s: %s", oerr.Code, oerr.Description)
	if !cmd.finish(CommandStatusFailed, messageID, oerr.Details, errMsg) {
		return false
	}
	snap := cmd.snapshot()
	t.log.Warn("command failed",
		zap.String("destination", string(snap.Destination)),
		zap.String("action", snap.Action),
		zap.String("command_id", snap.ID),
		zap.String("error", errMsg),
	)
	t.notify(cmd, CommandResult{
		CommandID:   snap.ID,
		MessageID:   messageID,
		Destination: snap.Destination,
		Action:      snap.Action,
		Status:      CommandStatusFailed,
		Attempts:    snap.Attempts,
		Payload:     oerr.Details,
		Err:         oerr,
		OccurredAt:  time.Now().UTC(),
	})

	sess.flushQueue()
	return true
}

// Cancel terminates a queued or pending command.
func (t *Tracker) Cancel(commandID string, reason error) bool {
	t.mu.Lock()
	cmd, ok := t.commands[commandID]
	var sess *destinationSession
	if ok {
		sess = t.sessions[cmd.destination]
	}
	t.mu.Unlock()
	if !ok || sess == nil {
		return false
	}

	sess.remove(cmd)
	if reason == nil {
		reason = errors.New("canceled")
	}
	if !cmd.finish(CommandStatusCanceled, "", nil, reason.Error()) {
		return false
	}
	snap := cmd.snapshot()
	t.notify(cmd, CommandResult{
		CommandID:   snap.ID,
		MessageID:   snap.LastMessageID,
		Destination: snap.Destination,
		Action:      snap.Action,
		Status:      CommandStatusCanceled,
		Attempts:    snap.Attempts,
		Err:         reason,
		OccurredAt:  time.Now().UTC(),
	})
	sess.flushQueue()
	return true
}

// Flush tries to send queued commands of every destination. The node calls it
// whenever a link comes up or routes change.
func (t *Tracker) Flush() {
	t.mu.Lock()
	sessions := make([]*destinationSession, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.mu.Unlock()

	for _, s := range sessions {
		s.flushQueue()
	}
}

// RequeueVia puts back every pending CALL that left through peer. Attempts are
// kept, the next send uses a new message id.
func (t *Tracker) RequeueVia(peer ocpp.NodeID) int {
	t.mu.Lock()
	sessions := make([]*destinationSession, 0, len(t.sessions))
	for _, s := range t.sessions {
		sessions = append(sessions, s)
	}
	t.mu.Unlock()

	total := 0
	for _, sess := range sessions {
		var moved []*Command
		var ids []string
		sess.mu.Lock()
		for messageID, cmd := range sess.pending {
			if cmd.viaPeer() == peer {
				moved = append(moved, cmd)
				ids = append(ids, messageID)
				delete(sess.pending, messageID)
			}
		}
		sess.mu.Unlock()

		if len(moved) == 0 {
			continue
		}
		t.mu.Lock()
		for _, id := range ids {
			delete(t.inflight, id)
		}
		t.mu.Unlock()

		for _, cmd := range moved {
			cmd.resetForRetry("connection lost")
			sess.requeueFront(cmd)
		}
		total += len(moved)
	}
	return total
}

// Prune forgets final commands last updated before the cutoff.
func (t *Tracker) Prune(before time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, cmd := range t.commands {
		snap := cmd.snapshot()
		if snap.Status.IsFinal() && snap.UpdatedAt.Before(before) {
			delete(t.commands, id)
			removed++
		}
	}
	return removed
}

// Close cancels every unfinished command.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	ids := make([]string, 0, len(t.commands))
	for id, cmd := range t.commands {
		if !cmd.isFinal() {
			ids = append(ids, id)
		}
	}
	t.mu.Unlock()

	for _, id := range ids {
		t.Cancel(id, ErrClosed)
	}
}

func (t *Tracker) notify(cmd *Command, result CommandResult) {
	if cb := cmd.getCallback(); cb != nil {
		go cb(result)
	}
}

func (t *Tracker) handleTimeout(messageID string) {
	sess, cmd := t.takePending(messageID)
	if cmd == nil {
		return
	}

	attempts, maxAttempts := cmd.attemptsInfo()
	if attempts >= maxAttempts {
		if !cmd.finish(CommandStatusTimeout, messageID, nil, "maximum attempts reached") {
			return
		}
		snap := cmd.snapshot()
		t.log.Warn("command timeout",
			zap.String("destination", string(snap.Destination)),
			zap.String("action", snap.Action),
			zap.String("command_id", snap.ID),
			zap.Int("attempts", snap.Attempts),
		)
		t.notify(cmd, CommandResult{
			CommandID:   snap.ID,
			MessageID:   messageID,
			Destination: snap.Destination,
			Action:      snap.Action,
			Status:      CommandStatusTimeout,
			Attempts:    snap.Attempts,
			Err:         fmt.Errorf("%w after %d attempts", ErrTimeout, snap.Attempts),
			OccurredAt:  time.Now().UTC(),
		})
		sess.flushQueue()
		return
	}

	cmd.resetForRetry("timeout waiting for response")
	snap := cmd.snapshot()
	t.log.Info("command retry",
		zap.String("destination", string(snap.Destination)),
		zap.String("action", snap.Action),
		zap.String("command_id", snap.ID),
		zap.Int("attempt", attempts+1),
		zap.Int("max_attempts", maxAttempts),
	)
	sess.requeueFront(cmd)
}

func (t *Tracker) takePending(messageID string) (*destinationSession, *Command) {
	t.mu.Lock()
	sess, ok := t.inflight[messageID]
	if ok {
		delete(t.inflight, messageID)
	}
	t.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return sess, sess.takePending(messageID)
}

func (s *destinationSession) enqueueCommand(cmd *Command) {
	s.mu.Lock()
	s.queue = append(s.queue, cmd)
	s.mu.Unlock()
	s.flushQueue()
}

func (s *destinationSession) flushQueue() {
	for {
		cmd := s.nextCommand()
		if cmd == nil {
			return
		}
		if err := s.sendCommand(cmd); err != nil {
			s.handleSendError(cmd, err)
			return
		}
	}
}

func (s *destinationSession) nextCommand() *Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) >= s.tracker.maxInFlight {
		return nil
	}
	for len(s.queue) > 0 {
		cmd := s.queue[0]
		s.queue = s.queue[1:]
		if !cmd.isFinal() {
			return cmd
		}
	}
	return nil
}

func (s *destinationSession) sendCommand(cmd *Command) error {
	messageID := idGenerator()

	// Register before writing so that a fast response finds the command.
	s.mu.Lock()
	s.pending[messageID] = cmd
	s.mu.Unlock()
	s.tracker.mu.Lock()
	s.tracker.inflight[messageID] = s
	s.tracker.mu.Unlock()

	via, err := s.tracker.sender.sendCall(s.destination, messageID, cmd.action, cmd.payload)
	if err != nil {
		s.takePending(messageID)
		s.tracker.mu.Lock()
		delete(s.tracker.inflight, messageID)
		s.tracker.mu.Unlock()
		return err
	}

	cmd.markSent(messageID, via)
	timer := time.AfterFunc(cmd.timeout, func() {
		s.tracker.handleTimeout(messageID)
	})
	cmd.setTimer(timer)
	if cmd.isFinal() {
		// Completed while the timer was being armed.
		timer.Stop()
	}

	snap := cmd.snapshot()
	s.tracker.log.Debug("command sent",
		zap.String("destination", string(s.destination)),
		zap.String("via", string(via)),
		zap.String("action", snap.Action),
		zap.String("message_id", messageID),
		zap.Int("attempt", snap.Attempts),
	)
	return nil
}

func (s *destinationSession) takePending(messageID string) *Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, ok := s.pending[messageID]
	if ok {
		delete(s.pending, messageID)
	}
	return cmd
}

func (s *destinationSession) remove(cmd *Command) {
	s.mu.Lock()
	var messageID string
	for id, pending := range s.pending {
		if pending == cmd {
			messageID = id
			delete(s.pending, id)
			break
		}
	}
	for i, queued := range s.queue {
		if queued == cmd {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if messageID != "" {
		s.tracker.mu.Lock()
		delete(s.tracker.inflight, messageID)
		s.tracker.mu.Unlock()
	}
}

func (s *destinationSession) requeueFront(cmd *Command) {
	s.mu.Lock()
	s.queue = append([]*Command{cmd}, s.queue...)
	s.mu.Unlock()
	s.flushQueue()
}

func (s *destinationSession) handleSendError(cmd *Command, err error) {
	if errors.Is(err, ErrNoRoute) {
		// Stays queued until a link or route shows up.
		cmd.resetForRetry(err.Error())
		s.mu.Lock()
		s.queue = append([]*Command{cmd}, s.queue...)
		s.mu.Unlock()
		return
	}

	errMsg := fmt.Sprintf("send command failed: %v", err)
	s.tracker.log.Warn("send command failed",
		zap.String("destination", string(s.destination)),
		zap.String("action", cmd.action),
		zap.Error(err),
	)
	cmd.resetForRetry(errMsg)

	s.mu.Lock()
	s.queue = append([]*Command{cmd}, s.queue...)
	s.mu.Unlock()
}

// resultStatus maps the optional "status" member of a response onto a command
// status. Responses without one count as accepted.
func resultStatus(payload json.RawMessage) CommandStatus {
	var body struct {
		Status string `json:"status"`
	}
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &body)
	}
	switch strings.ToLower(strings.TrimSpace(body.Status)) {
	case "", "accepted":
		return CommandStatusAccepted
	case "rejected":
		return CommandStatusRejected
	default:
		return CommandStatusCompleted
	}
}

func cloneRaw(src json.RawMessage) json.RawMessage {
	if src == nil {
		return nil
	}
	dst := make(json.RawMessage, len(src))
	copy(dst, src)
	return dst
}
