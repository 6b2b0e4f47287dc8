// Package handlers answers the requests charging stations address to a CSMS
// node.
package handlers

import (
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/registry"
	"ocppnode/backend/services/networking-node/internal/repository"
	"ocppnode/backend/services/networking-node/internal/service"
)

// Deps collects handler dependencies.
type Deps struct {
	Registry     *registry.Registry
	Stations     repository.StationStore
	Transactions *service.TransactionStore
	// AllowedTokens restricts Authorize. Empty accepts every token.
	AllowedTokens []string
	// HeartbeatInterval is returned in BootNotification responses, in seconds.
	HeartbeatInterval int
	Logger            *zap.Logger
	Now               func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// Register installs the CSMS handlers on n.
func Register(n *node.Node, d *Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Stations == nil {
		d.Stations = repository.NopStationStore{}
	}
	if d.Registry == nil {
		d.Registry = registry.New()
	}
	if d.Transactions == nil {
		d.Transactions = service.NewTransactionStore()
	}

	registerProvisioning(n, d)
	registerAvailability(n, d)
	registerTransactions(n, d)
	registerAuthorization(n, d)
	registerNotifications(n, d)
	registerAcknowledged(n, d)
}

// seen refreshes the station's activity on every request it sends.
func (d *Deps) seen(rc *node.RequestContext) {
	at := d.now()
	d.Registry.Seen(string(rc.From), string(rc.Via), at)
}
