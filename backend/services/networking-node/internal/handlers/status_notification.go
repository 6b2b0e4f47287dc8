package handlers

import (
	"context"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/availability"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/services/networking-node/internal/registry"
)

func registerAvailability(n *node.Node, d *Deps) {
	node.HandleFunc(n, availability.StatusNotificationFeatureName, NewStatusNotificationHandler(d))
}

// NewStatusNotificationHandler records connector states.
func NewStatusNotificationHandler(d *Deps) func(context.Context, *node.RequestContext, *availability.StatusNotificationRequest) (*availability.StatusNotificationResponse, error) {
	return func(ctx context.Context, rc *node.RequestContext, req *availability.StatusNotificationRequest) (*availability.StatusNotificationResponse, error) {
		stationID := string(rc.From)
		now := d.now()
		update := registry.StatusUpdate{
			EVSEID:          req.EvseID,
			ConnectorID:     req.ConnectorID,
			ConnectorStatus: string(req.ConnectorStatus),
			Timestamp:       req.Timestamp,
		}
		ev, err := d.Registry.Update(stationID, update, now)
		if err != nil {
			return nil, ocpp.NewError(ocpp.PropertyConstraintViolation, err.Error(), nil)
		}
		d.Registry.Seen(stationID, string(rc.Via), now)
		if err := d.Stations.UpsertConnectorStatus(ctx, stationID, ev.Update, now); err != nil {
			d.Logger.Warn("failed to persist connector status", zap.String("station_id", stationID), zap.Error(err))
		}

		if ev.Previous.Status != ev.Current.Status {
			d.Logger.Info("connector status changed",
				zap.String("station_id", stationID),
				zap.Int("evse_id", req.EvseID),
				zap.Int("connector_id", req.ConnectorID),
				zap.String("from", ev.Previous.Status),
				zap.String("to", ev.Current.Status),
			)
		}
		return availability.NewStatusNotificationResponse(), nil
	}
}
