// Package node implements an OCPP 2.1 networking node. A node owns a set of
// links to neighbouring nodes, answers requests addressed to it, forwards
// overlay frames addressed to others and correlates the responses to its own
// requests.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/catalog"
	"ocppnode/backend/libs/ocpp/signature"
)

const (
	defaultMaxHops        = 8
	defaultForwardTimeout = 60 * time.Second
	defaultRouteTTL       = 10 * time.Minute
	// pathRoutePriority ranks routes learned from network paths behind
	// announced ones.
	pathRoutePriority = 100
)

// Options configures a Node.
type Options struct {
	// Registry resolves actions. Defaults to the full OCPP 2.1 catalogue.
	Registry *ocpp.Registry
	// Policy signs outgoing and verifies incoming payloads. Nil disables
	// signatures.
	Policy   *signature.Policy
	Logger   *zap.Logger
	Observer Observer
	Journal  Journal
	Tracker  TrackerConfig
	// MaxHops bounds the network path of forwarded frames.
	MaxHops int
	// ForwardTimeout bounds how long a forwarded CALL waits for its response.
	ForwardTimeout time.Duration
	// RouteTTL is the lifetime of routes learned from network paths.
	RouteTTL time.Duration
	// Upstream receives plain CALL and SEND frames that have no local handler.
	// Gateways set it to the CSMS.
	Upstream ocpp.NodeID
}

// Node is an OCPP networking node.
type Node struct {
	id       ocpp.NodeID
	registry *ocpp.Registry
	policy   *signature.Policy
	parser   *ocpp.Parser
	log      *zap.Logger
	observer Observer
	journal  Journal
	tracker  *Tracker
	routes   *RoutingTable
	forwards *forwardTable
	maxHops  int
	routeTTL time.Duration
	upstream ocpp.NodeID

	mu           sync.RWMutex
	links        map[ocpp.NodeID]*link
	handlers     map[string]HandlerFunc
	sendHandlers map[string]SendHandlerFunc
	closed       bool
}

// New builds a node identified by id.
func New(id ocpp.NodeID, opts Options) (*Node, error) {
	id = ocpp.NodeID(strings.TrimSpace(string(id)))
	if id.IsZero() {
		return nil, errors.New("node: id is required")
	}
	if opts.Registry == nil {
		opts.Registry = catalog.Registry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Journal == nil {
		opts.Journal = nopJournal{}
	}
	if opts.MaxHops <= 0 {
		opts.MaxHops = defaultMaxHops
	}
	if opts.ForwardTimeout <= 0 {
		opts.ForwardTimeout = defaultForwardTimeout
	}
	if opts.RouteTTL <= 0 {
		opts.RouteTTL = defaultRouteTTL
	}
	log := opts.Logger.With(zap.String("node_id", string(id)))

	n := &Node{
		id:           id,
		registry:     opts.Registry,
		policy:       opts.Policy,
		parser:       ocpp.NewParser(),
		log:          log,
		observer:     opts.Observer,
		journal:      opts.Journal,
		routes:       NewRoutingTable(),
		forwards:     newForwardTable(opts.ForwardTimeout),
		maxHops:      opts.MaxHops,
		routeTTL:     opts.RouteTTL,
		upstream:     opts.Upstream,
		links:        make(map[ocpp.NodeID]*link),
		handlers:     make(map[string]HandlerFunc),
		sendHandlers: make(map[string]SendHandlerFunc),
	}
	trackerCfg := opts.Tracker
	if trackerCfg.Logger == nil {
		trackerCfg.Logger = log
	}
	n.tracker = newTracker(trackerCfg, n)
	if !opts.Upstream.IsZero() {
		n.routes.SetDefault(opts.Upstream)
	}
	n.registerTopologyHandler()
	return n, nil
}

// ID returns the node id.
func (n *Node) ID() ocpp.NodeID {
	return n.id
}

// Registry returns the action registry.
func (n *Node) Registry() *ocpp.Registry {
	return n.registry
}

// RoutingTable exposes the routes for static configuration.
func (n *Node) RoutingTable() *RoutingTable {
	return n.routes
}

// AddRoute installs a static route and sends the commands queued for
// destinations it makes reachable.
func (n *Node) AddRoute(dest, nextHop ocpp.NodeID, priority int) {
	n.routes.AddStatic(dest, nextHop, priority)
	n.tracker.Flush()
}

// RemoveRoute deletes a static route. Commands queued for dest may still leave
// through a learned or default route.
func (n *Node) RemoveRoute(dest ocpp.NodeID) {
	n.routes.RemoveStatic(dest)
	n.tracker.Flush()
}

// Handle registers the handler of a CALL action. It panics on actions the
// registry does not know, and on SEND-only actions.
func (n *Node) Handle(action string, h HandlerFunc) {
	f, ok := n.registry.Feature(action)
	if !ok {
		panic(fmt.Sprintf("node: unknown action %s", action))
	}
	if ocpp.IsSendOnly(f) {
		panic(fmt.Sprintf("node: %s is SEND only, use HandleSend", action))
	}
	n.mu.Lock()
	n.handlers[action] = h
	n.mu.Unlock()
}

// HandleSend registers the handler of a SEND action.
func (n *Node) HandleSend(action string, h SendHandlerFunc) {
	if _, ok := n.registry.Feature(action); !ok {
		panic(fmt.Sprintf("node: unknown action %s", action))
	}
	n.mu.Lock()
	n.sendHandlers[action] = h
	n.mu.Unlock()
}

func (n *Node) handler(action string) HandlerFunc {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.handlers[action]
}

func (n *Node) sendHandler(action string) SendHandlerFunc {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sendHandlers[action]
}

// Attach makes conn the link to peer. A previous link to the same peer is
// closed and replaced. Queued requests that can now be routed are sent.
func (n *Node) Attach(peer ocpp.NodeID, conn Conn, mode NetworkingMode) error {
	peer = ocpp.NodeID(strings.TrimSpace(string(peer)))
	if peer.IsZero() {
		return errors.New("node: peer id is required")
	}
	if peer == n.id {
		return fmt.Errorf("node: cannot attach a link to itself (%s)", peer)
	}
	if conn == nil {
		return errors.New("node: conn is required")
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return ErrClosed
	}
	old := n.links[peer]
	n.links[peer] = &link{peer: peer, conn: conn, mode: mode, attachedAt: time.Now().UTC()}
	n.mu.Unlock()

	if old != nil && old.conn != conn {
		n.log.Info("replacing link", zap.String("peer", string(peer)))
		n.tracker.RequeueVia(peer)
		n.forwards.dropPeer(peer)
		_ = old.conn.Close()
	}
	n.routes.LinkUp(peer)
	n.log.Info("link attached", zap.String("peer", string(peer)), zap.String("mode", mode.String()))

	n.tracker.Flush()
	return nil
}

// Detach removes the link to peer if conn is still its transport. Pending
// requests that left through it are queued again with new message ids.
func (n *Node) Detach(peer ocpp.NodeID, conn Conn) bool {
	n.mu.Lock()
	cur, ok := n.links[peer]
	if !ok || (conn != nil && cur.conn != conn) {
		n.mu.Unlock()
		return false
	}
	delete(n.links, peer)
	n.mu.Unlock()

	n.routes.LinkDown(peer)
	dropped := n.forwards.dropPeer(peer)
	requeued := n.tracker.RequeueVia(peer)
	n.log.Info("link detached",
		zap.String("peer", string(peer)),
		zap.Int("requeued", requeued),
		zap.Int("forwards_dropped", dropped),
	)

	// Another route may still reach the destinations.
	n.tracker.Flush()
	return true
}

// Links lists attached links sorted by peer.
func (n *Node) Links() []LinkInfo {
	n.mu.RLock()
	out := make([]LinkInfo, 0, len(n.links))
	for _, l := range n.links {
		out = append(out, LinkInfo{Peer: l.peer, Mode: l.mode.String(), AttachedAt: l.attachedAt})
	}
	n.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Peer < out[j].Peer })
	return out
}

// Routes lists the routing table.
func (n *Node) Routes() []Route {
	return n.routes.Routes()
}

// Stats is a point in time view of the node's queues.
type Stats struct {
	Links      int `json:"links"`
	Pending    int `json:"pending"`
	Queued     int `json:"queued"`
	Forwarding int `json:"forwarding"`
}

// Stats returns queue sizes.
func (n *Node) Stats() Stats {
	n.mu.RLock()
	links := len(n.links)
	n.mu.RUnlock()
	return Stats{
		Links:      links,
		Pending:    n.tracker.PendingCount(),
		Queued:     n.tracker.QueuedCount(),
		Forwarding: n.forwards.len(),
	}
}

// Call sends req to dest and waits for the response. The request stays queued
// while dest is unreachable; cancel ctx to give up.
func (n *Node) Call(ctx context.Context, dest ocpp.NodeID, req ocpp.Request) (ocpp.Response, error) {
	done := make(chan CommandResult, 1)
	snap, err := n.Enqueue(dest, req, func(r CommandResult) { done <- r })
	if err != nil {
		return nil, err
	}
	select {
	case r := <-done:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Response, nil
	case <-ctx.Done():
		n.tracker.Cancel(snap.ID, ctx.Err())
		return nil, ctx.Err()
	}
}

// Enqueue queues req for dest and returns at once. cb, if set, runs on its own
// goroutine when the command terminates.
func (n *Node) Enqueue(dest ocpp.NodeID, req ocpp.Request, cb CommandCallback) (CommandSnapshot, error) {
	if isNil(req) {
		return CommandSnapshot{}, errors.New("node: request is required")
	}
	action := req.GetFeatureName()
	payload, err := n.outgoingPayload(action, req, true)
	if err != nil {
		return CommandSnapshot{}, err
	}
	return n.tracker.Enqueue(dest, action, payload, cb)
}

// EnqueueJSON queues a request given as raw JSON. The payload is decoded and
// validated against the action first.
func (n *Node) EnqueueJSON(dest ocpp.NodeID, action string, payload json.RawMessage, cb CommandCallback) (CommandSnapshot, error) {
	req, err := n.registry.DecodeRequest(action, payload)
	if err != nil {
		return CommandSnapshot{}, err
	}
	return n.Enqueue(dest, req, cb)
}

// Command returns the state of a queued or finished command.
func (n *Node) Command(id string) (CommandSnapshot, bool) {
	return n.tracker.Snapshot(id)
}

// Cancel stops a queued or pending command.
func (n *Node) Cancel(id string) bool {
	return n.tracker.Cancel(id, errors.New("canceled by caller"))
}

// PruneCommands forgets finished commands older than age.
func (n *Node) PruneCommands(age time.Duration) int {
	return n.tracker.Prune(time.Now().UTC().Add(-age))
}

// Send delivers req to dest as an unconfirmed SEND frame.
func (n *Node) Send(ctx context.Context, dest ocpp.NodeID, req ocpp.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if isNil(req) {
		return errors.New("node: request is required")
	}
	action := req.GetFeatureName()
	payload, err := n.outgoingPayload(action, req, false)
	if err != nil {
		return err
	}
	msg := &ocpp.Message{Type: ocpp.Send, UniqueID: idGenerator(), Action: action, Payload: payload}
	_, err = n.sendTo(dest, msg)
	return err
}

func (n *Node) outgoingPayload(action string, req ocpp.Request, call bool) (json.RawMessage, error) {
	f, ok := n.registry.Feature(action)
	if !ok {
		return nil, ocpp.NewError(ocpp.NotImplemented, fmt.Sprintf("unknown action %s", action), nil)
	}
	if call && ocpp.IsSendOnly(f) {
		return nil, fmt.Errorf("node: %s is SEND only", action)
	}
	if err := ocpp.Validate(req); err != nil {
		return nil, fmt.Errorf("node: invalid %s request: %w", action, err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("node: encode %s request: %w", action, err)
	}
	return n.policy.SignRequest(action, body)
}

// sendCall implements callSender for the tracker.
func (n *Node) sendCall(dest ocpp.NodeID, messageID, action string, payload json.RawMessage) (ocpp.NodeID, error) {
	msg := &ocpp.Message{Type: ocpp.Call, UniqueID: messageID, Action: action, Payload: payload}
	return n.sendTo(dest, msg)
}

// sendTo writes a frame originated by this node.
func (n *Node) sendTo(dest ocpp.NodeID, msg *ocpp.Message) (ocpp.NodeID, error) {
	l, err := n.linkFor(dest)
	if err != nil {
		return "", err
	}
	if err := n.writeFrame(l, msg, dest); err != nil {
		return "", err
	}
	return l.peer, nil
}

// linkFor resolves the link that leads to dest.
func (n *Node) linkFor(dest ocpp.NodeID) (*link, error) {
	if dest == n.id {
		return nil, fmt.Errorf("node: %s is this node", dest)
	}
	r, ok := n.routes.Lookup(dest)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoRoute, dest)
	}
	n.mu.RLock()
	l := n.links[r.NextHop]
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}
	if l == nil {
		return nil, fmt.Errorf("%w %s", ErrNoRoute, dest)
	}
	if l.mode == Standard && l.peer != dest {
		return nil, fmt.Errorf("%w %s: %w", ErrNoRoute, dest, ErrOverlayRequired)
	}
	return l, nil
}

// writeFrame frames msg for the link and writes it. Overlay links get the
// destination and, for frames starting here, a path holding this node.
// Standard links only ever carry frames for their peer.
func (n *Node) writeFrame(l *link, msg *ocpp.Message, dest ocpp.NodeID) error {
	out := *msg
	switch l.mode {
	case Overlay:
		out.DestinationID = dest
		if len(out.NetworkPath) == 0 {
			out.NetworkPath = ocpp.NewNetworkPath(n.id)
		}
	default:
		if dest != l.peer {
			return ErrOverlayRequired
		}
		out.DestinationID = ""
		out.NetworkPath = nil
	}

	raw, err := ocpp.Encode(&out)
	if err != nil {
		return fmt.Errorf("node: encode %s: %w", out.Type, err)
	}
	if err := l.conn.WriteMessage(raw); err != nil {
		n.log.Warn("write failed, closing link",
			zap.String("peer", string(l.peer)),
			zap.String("message_id", out.UniqueID),
			zap.Error(err),
		)
		_ = l.conn.Close()
		return fmt.Errorf("node: write to %s: %w", l.peer, err)
	}

	n.observer.FrameSent(FrameEvent{Direction: DirectionOut, Peer: l.peer, Message: &out, Raw: raw, Time: time.Now().UTC()})
	n.record(DirectionOut, l.peer, dest, &out, raw)
	return nil
}

func (n *Node) record(dir Direction, peer, dest ocpp.NodeID, msg *ocpp.Message, raw []byte) {
	entry := JournalEntry{
		Time:        time.Now().UTC(),
		Direction:   dir,
		Peer:        peer,
		Destination: dest,
		MessageType: msg.Type,
		MessageID:   msg.UniqueID,
		Action:      msg.Action,
		Payload:     msg.Payload,
		Raw:         raw,
	}
	if err := n.journal.Record(context.Background(), entry); err != nil {
		n.log.Debug("journal record failed", zap.String("message_id", msg.UniqueID), zap.Error(err))
	}
}

// Close cancels outstanding commands and closes every link.
func (n *Node) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	links := make([]*link, 0, len(n.links))
	for peer, l := range n.links {
		links = append(links, l)
		delete(n.links, peer)
	}
	n.mu.Unlock()

	n.tracker.Close()
	n.forwards.close()
	var errs []error
	for _, l := range links {
		n.routes.LinkDown(l.peer)
		if err := l.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
