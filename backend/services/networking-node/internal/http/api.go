package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/service"
)

const (
	maxBodySize = 1 << 20
	maxWait     = time.Minute
)

var validate = validator.New()

// API implements the admin endpoints.
type API struct {
	deps RouterDeps
}

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SendCommand queues a CALL for a node. The body is the request payload.
// With ?wait=<duration> the response is held until the command terminates or
// the duration passes.
func (a *API) SendCommand(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	dest := ocpp.NodeID(params.ByName("id"))
	action := params.ByName("action")

	var wait time.Duration
	if v := r.URL.Query().Get("wait"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid wait duration")
			return
		}
		wait = min(d, maxWait)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read body")
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	done := make(chan node.CommandResult, 1)
	snap, err := a.deps.Node.EnqueueJSON(dest, action, body, func(res node.CommandResult) {
		if a.deps.OnCommandFinished != nil {
			a.deps.OnCommandFinished(res)
		}
		done <- res
	})
	if err != nil {
		writeNodeError(w, err)
		return
	}
	a.deps.Logger.Info("command queued",
		zap.String("command_id", snap.ID),
		zap.String("destination", string(dest)),
		zap.String("action", action),
	)

	if wait == 0 {
		writeJSON(w, http.StatusAccepted, snap)
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-r.Context().Done():
		return
	}
	if latest, ok := a.deps.Node.Command(snap.ID); ok {
		snap = latest
	}
	status := http.StatusAccepted
	if snap.Status.IsFinal() {
		status = http.StatusOK
	}
	writeJSON(w, status, snap)
}

// AnnounceTopology sends this node's reachability to a neighbour.
func (a *API) AnnounceTopology(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	snap, err := a.deps.Node.AnnounceTopology(ocpp.NodeID(params.ByName("id")))
	if err != nil {
		writeNodeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

// GetCommand returns a command's state.
func (a *API) GetCommand(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	snap, ok := a.deps.Node.Command(params.ByName("id"))
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "command not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// CancelCommand stops a queued or pending command.
func (a *API) CancelCommand(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	if !a.deps.Node.Cancel(params.ByName("id")) {
		writeError(w, http.StatusNotFound, codeNotFound, "command not found or already finished")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStations returns every known station.
func (a *API) ListStations(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": a.deps.Registry.List(),
	})
}

type stationView struct {
	registry.StationSnapshot
	Transactions []service.Transaction `json:"transactions"`
}

// GetStation returns one station with its ongoing transactions.
func (a *API) GetStation(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	id := params.ByName("id")
	snap, ok := a.deps.Registry.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "station not found")
		return
	}
	view := stationView{StationSnapshot: snap, Transactions: []service.Transaction{}}
	if a.deps.Transactions != nil {
		if txs := a.deps.Transactions.ForStation(id); txs != nil {
			view.Transactions = txs
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// ListRoutes returns the routing table.
func (a *API) ListRoutes(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes": a.deps.Node.Routes(),
	})
}

type routeRequest struct {
	Destination string `json:"destination" validate:"required,max=48"`
	NextHop     string `json:"nextHop" validate:"required,max=48"`
	Priority    int    `json:"priority" validate:"gte=0"`
}

// AddRoute installs a static route.
func (a *API) AddRoute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req routeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	a.deps.Node.AddRoute(ocpp.NodeID(req.Destination), ocpp.NodeID(req.NextHop), req.Priority)
	a.deps.Logger.Info("static route added",
		zap.String("destination", req.Destination),
		zap.String("next_hop", req.NextHop),
	)
	writeJSON(w, http.StatusCreated, req)
}

// RemoveRoute deletes a static route.
func (a *API) RemoveRoute(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	a.deps.Node.RemoveRoute(ocpp.NodeID(params.ByName("destination")))
	w.WriteHeader(http.StatusNoContent)
}

// ListLinks returns the attached links.
func (a *API) ListLinks(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"links": a.deps.Node.Links(),
	})
}

// Stats returns queue sizes.
func (a *API) Stats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, a.deps.Node.Stats())
}
