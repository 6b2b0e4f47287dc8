package node

import (
	"context"
	"fmt"
	"reflect"

	"ocppnode/backend/libs/ocpp"
)

// RequestContext describes where an incoming request came from.
type RequestContext struct {
	// From is the node that originated the request.
	From ocpp.NodeID
	// Via is the peer of the link the request arrived on.
	Via ocpp.NodeID
	// Path is the network path, originator first.
	Path      ocpp.NetworkPath
	MessageID string
	Action    string
	Overlay   bool
}

// HandlerFunc answers a CALL. Returning an *ocpp.Error sends it as CALLERROR;
// any other error becomes an InternalError.
type HandlerFunc func(ctx context.Context, rc *RequestContext, req ocpp.Request) (ocpp.Response, error)

// SendHandlerFunc consumes a SEND. SEND frames are never answered.
type SendHandlerFunc func(ctx context.Context, rc *RequestContext, req ocpp.Request) error

// HandleFunc registers a typed handler. Req and Resp are the pointer types
// of the action's payloads, e.g. *provisioning.BootNotificationRequest.
func HandleFunc[Req ocpp.Request, Resp ocpp.Response](n *Node, action string, fn func(ctx context.Context, rc *RequestContext, req Req) (Resp, error)) {
	n.Handle(action, func(ctx context.Context, rc *RequestContext, req ocpp.Request) (ocpp.Response, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, ocpp.NewError(ocpp.InternalError, fmt.Sprintf("handler for %s expects %T, got %T", action, typed, req), nil)
		}
		resp, err := fn(ctx, rc, typed)
		if err != nil {
			return nil, err
		}
		if isNil(resp) {
			return nil, ocpp.NewError(ocpp.InternalError, fmt.Sprintf("handler for %s returned no response", action), nil)
		}
		return resp, nil
	})
}

// HandleSendFunc registers a typed SEND handler.
func HandleSendFunc[Req ocpp.Request](n *Node, action string, fn func(ctx context.Context, rc *RequestContext, req Req) error) {
	n.HandleSend(action, func(ctx context.Context, rc *RequestContext, req ocpp.Request) error {
		typed, ok := req.(Req)
		if !ok {
			return fmt.Errorf("node: send handler for %s expects %T, got %T", action, typed, req)
		}
		return fn(ctx, rc, typed)
	})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
