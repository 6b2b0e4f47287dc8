package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
)

// Receive handles one frame read from the link to peer. It returns an error
// only when the frame could not be handled at all; protocol failures are
// answered on the link.
func (n *Node) Receive(ctx context.Context, peer ocpp.NodeID, raw []byte) error {
	n.mu.RLock()
	l := n.links[peer]
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if l == nil {
		n.observer.FrameDropped(peer, raw, ErrNotConnected)
		return ErrNotConnected
	}

	msg, err := n.parser.Parse(raw)
	if err != nil {
		n.handleParseError(l, msg, raw, err)
		return nil
	}

	n.observer.FrameReceived(FrameEvent{Direction: DirectionIn, Peer: peer, Message: msg, Raw: raw, Time: time.Now().UTC()})

	origin, path, dest := peer, ocpp.NewNetworkPath(peer), n.id
	if msg.IsRouted() {
		dest = msg.DestinationID
		if len(msg.NetworkPath) > 0 {
			path = msg.NetworkPath
			origin = path.Origin()
		}
	}
	n.record(DirectionIn, peer, dest, msg, raw)

	// Responses to forwarded CALLs go back the way the CALL came.
	if msg.IsResponse() {
		if entry, ok := n.forwards.take(responseKey(l, msg)); ok {
			n.returnResponse(l, msg, entry, path)
			return nil
		}
	}

	if path.Contains(n.id) {
		n.rejectLoop(l, msg, origin, ErrLoop)
		return nil
	}
	if origin != peer && n.routes.Learn(origin, peer, len(path), pathRoutePriority, n.routeTTL) {
		n.tracker.Flush()
	}

	if dest != n.id {
		n.forward(l, msg, origin, path)
		return nil
	}

	if !msg.IsRouted() && n.shouldGoUpstream(msg) {
		up := *msg
		up.DestinationID = n.upstream
		up.NetworkPath = path
		n.forward(l, &up, origin, path)
		return nil
	}

	rc := &RequestContext{
		From:      origin,
		Via:       peer,
		Path:      path,
		MessageID: msg.UniqueID,
		Action:    msg.Action,
		Overlay:   msg.IsRouted(),
	}
	switch msg.Type {
	case ocpp.Call:
		n.handleCall(ctx, l, msg, rc)
	case ocpp.Send:
		n.handleSend(ctx, msg, rc)
	default:
		n.correlate(l, msg, origin)
	}
	return nil
}

func (n *Node) handleParseError(l *link, msg *ocpp.Message, raw []byte, err error) {
	n.observer.FrameDropped(l.peer, raw, err)
	oerr := ocpp.AsError(err)
	if oerr.MessageID == "" {
		n.log.Warn("dropping unparsable frame", zap.String("peer", string(l.peer)), zap.Error(err))
		return
	}

	replyType := ocpp.CallError
	dest := l.peer
	if msg != nil {
		switch msg.Type {
		case ocpp.CallResult:
			replyType = ocpp.CallResultError
		case ocpp.CallError, ocpp.CallResultError, ocpp.Send:
			n.log.Warn("dropping malformed frame",
				zap.String("peer", string(l.peer)),
				zap.String("message_id", oerr.MessageID),
				zap.Error(err),
			)
			return
		}
		if msg.IsRouted() && len(msg.NetworkPath) > 0 {
			dest = msg.NetworkPath.Origin()
		}
	}
	n.log.Warn("malformed frame",
		zap.String("peer", string(l.peer)),
		zap.String("message_id", oerr.MessageID),
		zap.Error(err),
	)
	n.replyError(l, replyType, oerr.MessageID, dest, oerr)
}

func (n *Node) shouldGoUpstream(msg *ocpp.Message) bool {
	if n.upstream.IsZero() {
		return false
	}
	switch msg.Type {
	case ocpp.Call:
		return n.handler(msg.Action) == nil
	case ocpp.Send:
		return n.sendHandler(msg.Action) == nil
	default:
		return false
	}
}

// handleCall runs the CALL pipeline and answers on the incoming link.
func (n *Node) handleCall(ctx context.Context, l *link, msg *ocpp.Message, rc *RequestContext) {
	payload, oerr := n.serveCall(ctx, msg, rc)
	if oerr != nil {
		n.log.Info("call rejected",
			zap.String("peer", string(l.peer)),
			zap.String("action", msg.Action),
			zap.String("message_id", msg.UniqueID),
			zap.String("code", string(oerr.Code)),
			zap.String("error", oerr.Description),
		)
		n.replyError(l, ocpp.CallError, msg.UniqueID, rc.From, oerr)
		return
	}

	reply := &ocpp.Message{Type: ocpp.CallResult, UniqueID: msg.UniqueID, Action: msg.Action, Payload: payload}
	if err := n.writeFrame(l, reply, rc.From); err != nil {
		n.log.Warn("send call result failed",
			zap.String("peer", string(l.peer)),
			zap.String("action", msg.Action),
			zap.String("message_id", msg.UniqueID),
			zap.Error(err),
		)
	}
}

func (n *Node) serveCall(ctx context.Context, msg *ocpp.Message, rc *RequestContext) (json.RawMessage, *ocpp.Error) {
	f, ok := n.registry.Feature(msg.Action)
	if !ok {
		return nil, ocpp.NewError(ocpp.NotImplemented, fmt.Sprintf("unknown action %s", msg.Action), nil)
	}
	if ocpp.IsSendOnly(f) {
		return nil, ocpp.NewError(ocpp.MessageTypeNotSupported, fmt.Sprintf("%s must be sent as SEND", msg.Action), nil)
	}
	handler := n.handler(msg.Action)
	if handler == nil {
		return nil, ocpp.NewError(ocpp.NotSupported, fmt.Sprintf("%s is not supported", msg.Action), nil)
	}

	if err := n.policy.VerifyRequest(msg.Action, msg.Payload); err != nil {
		return nil, ocpp.AsError(err)
	}
	req, err := n.registry.DecodeRequest(msg.Action, msg.Payload)
	if err != nil {
		return nil, ocpp.AsError(err)
	}

	resp, err := n.invoke(ctx, handler, rc, req)
	if err != nil {
		var oerr *ocpp.Error
		if errors.As(err, &oerr) {
			return nil, oerr
		}
		n.log.Error("handler failed",
			zap.String("action", msg.Action),
			zap.String("message_id", msg.UniqueID),
			zap.Error(err),
		)
		return nil, ocpp.NewError(ocpp.InternalError, "handler failed", nil)
	}
	if isNil(resp) {
		return nil, ocpp.NewError(ocpp.InternalError, "handler returned no response", nil)
	}
	if err := ocpp.Validate(resp); err != nil {
		n.log.Error("handler returned invalid response",
			zap.String("action", msg.Action),
			zap.String("message_id", msg.UniqueID),
			zap.Error(err),
		)
		return nil, ocpp.NewError(ocpp.InternalError, "invalid response", nil)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, ocpp.NewError(ocpp.InternalError, "encode response", nil)
	}
	body, err = n.policy.SignResponse(msg.Action, body)
	if err != nil {
		n.log.Error("sign response failed", zap.String("action", msg.Action), zap.Error(err))
		return nil, ocpp.NewError(ocpp.InternalError, "sign response", nil)
	}
	return body, nil
}

func (n *Node) invoke(ctx context.Context, h HandlerFunc, rc *RequestContext, req ocpp.Request) (resp ocpp.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("handler panic",
				zap.String("action", rc.Action),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			resp = nil
			err = fmt.Errorf("node: handler panic: %v", r)
		}
	}()
	return h(ctx, rc, req)
}

// handleSend runs a SEND handler. SEND frames are never answered, failures are
// only logged.
func (n *Node) handleSend(ctx context.Context, msg *ocpp.Message, rc *RequestContext) {
	fields := []zap.Field{
		zap.String("peer", string(rc.Via)),
		zap.String("action", msg.Action),
		zap.String("message_id", msg.UniqueID),
	}
	h := n.sendHandler(msg.Action)
	if h == nil {
		n.log.Warn("no handler for send", fields...)
		return
	}
	if err := n.policy.VerifyRequest(msg.Action, msg.Payload); err != nil {
		n.log.Warn("send rejected", append(fields, zap.Error(err))...)
		return
	}
	req, err := n.registry.DecodeRequest(msg.Action, msg.Payload)
	if err != nil {
		n.log.Warn("send rejected", append(fields, zap.Error(err))...)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			n.log.Error("send handler panic", append(fields, zap.Any("panic", r))...)
		}
	}()
	if err := h(ctx, rc, req); err != nil {
		n.log.Warn("send handler failed", append(fields, zap.Error(err))...)
	}
}

// correlate completes the own CALL a response belongs to.
func (n *Node) correlate(l *link, msg *ocpp.Message, origin ocpp.NodeID) {
	pending, ok := n.tracker.Pending(msg.UniqueID)
	if !ok {
		n.log.Warn("dropping response for unknown message",
			zap.String("peer", string(l.peer)),
			zap.String("message_id", msg.UniqueID),
			zap.String("type", msg.Type.String()),
		)
		n.observer.FrameDropped(l.peer, nil, ErrUnknownMessage)
		return
	}
	if pending.Destination != origin {
		n.log.Warn("dropping response from unexpected node",
			zap.String("peer", string(l.peer)),
			zap.String("message_id", msg.UniqueID),
			zap.String("origin", string(origin)),
			zap.String("destination", string(pending.Destination)),
		)
		n.observer.FrameDropped(l.peer, nil, ErrUnexpectedOrigin)
		return
	}

	if msg.Type != ocpp.CallResult {
		n.tracker.HandleError(msg.UniqueID, msg.Err())
		return
	}

	resp, err := n.acceptResponse(pending.Action, msg.Payload)
	if err != nil {
		oerr := ocpp.AsError(err).WithMessageID(msg.UniqueID)
		n.tracker.HandleError(msg.UniqueID, oerr)
		n.replyError(l, ocpp.CallResultError, msg.UniqueID, origin, oerr)
		return
	}
	n.tracker.HandleResult(msg.UniqueID, resp, msg.Payload)
}

func (n *Node) acceptResponse(action string, payload json.RawMessage) (ocpp.Response, error) {
	if err := n.policy.VerifyResponse(action, payload); err != nil {
		return nil, err
	}
	return n.registry.DecodeResponse(action, payload)
}

// forward relays a frame addressed to another node.
func (n *Node) forward(in *link, msg *ocpp.Message, origin ocpp.NodeID, path ocpp.NetworkPath) {
	dest := msg.DestinationID
	if len(path) >= n.maxHops {
		n.rejectLoop(in, msg, origin, ErrHopLimit)
		return
	}

	out, err := n.linkFor(dest)
	if err == nil && out.peer == in.peer {
		err = fmt.Errorf("%w %s: route leads back to %s", ErrNoRoute, dest, in.peer)
	}
	if err != nil {
		n.observer.FrameDropped(in.peer, nil, err)
		n.log.Info("cannot forward",
			zap.String("peer", string(in.peer)),
			zap.String("destination", string(dest)),
			zap.String("message_id", msg.UniqueID),
			zap.Error(err),
		)
		if msg.Type == ocpp.Call {
			n.replyError(in, ocpp.CallError, msg.UniqueID, origin,
				ocpp.NewError(ocpp.NotSupported, fmt.Sprintf("no route to %s", dest), nil))
		}
		return
	}

	fwd := *msg
	fwd.NetworkPath = path.Append(n.id)
	var key forwardKey
	if msg.Type == ocpp.Call {
		entry := &forwardEntry{from: in.peer, origin: origin, action: msg.Action}
		key = forwardKey{nextHop: out.peer, messageID: msg.UniqueID}
		if out.mode == Overlay {
			key.origin = origin
		} else {
			entry.messageID = msg.UniqueID
			fwd.UniqueID = idGenerator()
			key.messageID = fwd.UniqueID
		}
		n.forwards.remember(key, entry)
	}
	if err := n.writeFrame(out, &fwd, dest); err != nil {
		if msg.Type == ocpp.Call {
			n.forwards.take(key)
		}
		n.observer.FrameDropped(in.peer, nil, err)
		if msg.Type == ocpp.Call {
			n.replyError(in, ocpp.CallError, msg.UniqueID, origin,
				ocpp.NewError(ocpp.GenericError, fmt.Sprintf("%s unreachable", dest), nil))
		}
		return
	}
	n.observer.FrameForwarded(in.peer, out.peer, &fwd)
	n.log.Debug("frame forwarded",
		zap.String("from", string(in.peer)),
		zap.String("to", string(out.peer)),
		zap.String("destination", string(dest)),
		zap.String("message_id", msg.UniqueID),
	)
}

// returnResponse relays the response to a forwarded CALL back to the link the
// CALL arrived on.
func (n *Node) returnResponse(in *link, msg *ocpp.Message, entry *forwardEntry, path ocpp.NetworkPath) {
	n.mu.RLock()
	back := n.links[entry.from]
	n.mu.RUnlock()
	if back == nil {
		n.log.Info("dropping response, requester link is gone",
			zap.String("peer", string(entry.from)),
			zap.String("message_id", msg.UniqueID),
		)
		n.observer.FrameDropped(in.peer, nil, ErrNotConnected)
		return
	}

	fwd := *msg
	fwd.Action = entry.action
	fwd.NetworkPath = path.Append(n.id)
	if entry.messageID != "" {
		fwd.UniqueID = entry.messageID
	}
	if err := n.writeFrame(back, &fwd, entry.origin); err != nil {
		n.observer.FrameDropped(in.peer, nil, err)
		return
	}
	n.observer.FrameForwarded(in.peer, back.peer, &fwd)
}

// rejectLoop answers a CALL that cannot travel further with a ProtocolError
// and drops anything else.
func (n *Node) rejectLoop(in *link, msg *ocpp.Message, origin ocpp.NodeID, reason error) {
	n.observer.FrameDropped(in.peer, nil, reason)
	n.log.Warn("dropping frame",
		zap.String("peer", string(in.peer)),
		zap.String("message_id", msg.UniqueID),
		zap.String("path", msg.NetworkPath.String()),
		zap.Error(reason),
	)
	if msg.Type == ocpp.Call {
		n.replyError(in, ocpp.CallError, msg.UniqueID, origin, ocpp.NewError(ocpp.ProtocolError, reason.Error(), nil))
	}
}

func (n *Node) replyError(l *link, t ocpp.MessageType, messageID string, dest ocpp.NodeID, oerr *ocpp.Error) {
	reply := &ocpp.Message{
		Type:             t,
		UniqueID:         messageID,
		ErrorCode:        oerr.Code,
		ErrorDescription: oerr.Description,
		ErrorDetails:     oerr.Details,
	}
	if l.mode == Standard {
		dest = l.peer
	}
	if err := n.writeFrame(l, reply, dest); err != nil {
		n.log.Warn("send error frame failed",
			zap.String("peer", string(l.peer)),
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
