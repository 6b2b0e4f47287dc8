// Package httpserver exposes the node's admin API, metrics and the OCPP
// websocket endpoint.
package httpserver

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/auth"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/service"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Node         *node.Node
	Registry     *registry.Registry
	Transactions *service.TransactionStore
	Tokens       *auth.TokenService
	// WebSocket serves the OCPP upgrade at /ocpp/:id.
	WebSocket http.Handler
	Gatherer  prometheus.Gatherer
	// OnCommandFinished observes commands started through the API.
	OnCommandFinished node.CommandCallback
	Logger            *zap.Logger
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	api := &API{deps: deps}
	router := httprouter.New()

	router.GET("/health", api.Health)
	if deps.Gatherer != nil {
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if deps.WebSocket != nil {
		router.Handler(http.MethodGet, "/ocpp/:id", deps.WebSocket)
	}

	secured := func(h httprouter.Handle) httprouter.Handle {
		return authenticated(deps.Tokens, h)
	}
	router.POST("/api/nodes/:id/actions/:action", secured(api.SendCommand))
	router.POST("/api/nodes/:id/topology", secured(api.AnnounceTopology))
	router.GET("/api/commands/:id", secured(api.GetCommand))
	router.DELETE("/api/commands/:id", secured(api.CancelCommand))
	router.GET("/api/stations", secured(api.ListStations))
	router.GET("/api/stations/:id", secured(api.GetStation))
	router.GET("/api/routes", secured(api.ListRoutes))
	router.POST("/api/routes", secured(api.AddRoute))
	router.DELETE("/api/routes/:destination", secured(api.RemoveRoute))
	router.GET("/api/links", secured(api.ListLinks))
	router.GET("/api/stats", secured(api.Stats))

	return router
}
