package handlers

import (
	"context"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/provisioning"
	"ocppnode/backend/services/networking-node/internal/registry"
)

func registerProvisioning(n *node.Node, d *Deps) {
	node.HandleFunc(n, provisioning.BootNotificationFeatureName, NewBootNotificationHandler(d))
	node.HandleFunc(n, provisioning.HeartbeatFeatureName, NewHeartbeatHandler(d))
	node.HandleFunc(n, provisioning.NotifyReportFeatureName, NewNotifyReportHandler(d))
}

// NewBootNotificationHandler registers the station and accepts it.
func NewBootNotificationHandler(d *Deps) func(context.Context, *node.RequestContext, *provisioning.BootNotificationRequest) (*provisioning.BootNotificationResponse, error) {
	return func(ctx context.Context, rc *node.RequestContext, req *provisioning.BootNotificationRequest) (*provisioning.BootNotificationResponse, error) {
		stationID := string(rc.From)
		now := d.now()
		info := registry.BootInfo{
			Vendor:          req.ChargingStation.VendorName,
			Model:           req.ChargingStation.Model,
			SerialNumber:    req.ChargingStation.SerialNumber,
			FirmwareVersion: req.ChargingStation.FirmwareVersion,
			Reason:          string(req.Reason),
			BootedAt:        now,
		}

		if err := d.Stations.UpsertBoot(ctx, stationID, info); err != nil {
			d.Logger.Error("failed to upsert station", zap.String("station_id", stationID), zap.Error(err))
			return nil, err
		}
		if err := d.Registry.Boot(stationID, info); err != nil {
			return nil, err
		}
		d.Registry.Seen(stationID, string(rc.Via), now)

		d.Logger.Info("station booted",
			zap.String("station_id", stationID),
			zap.String("via", string(rc.Via)),
			zap.String("vendor", info.Vendor),
			zap.String("model", info.Model),
			zap.String("reason", info.Reason),
		)
		return provisioning.NewBootNotificationResponse(now, d.HeartbeatInterval, provisioning.RegistrationStatusAccepted), nil
	}
}

// NewHeartbeatHandler returns the current time.
func NewHeartbeatHandler(d *Deps) func(context.Context, *node.RequestContext, *provisioning.HeartbeatRequest) (*provisioning.HeartbeatResponse, error) {
	return func(ctx context.Context, rc *node.RequestContext, _ *provisioning.HeartbeatRequest) (*provisioning.HeartbeatResponse, error) {
		now := d.now()
		d.seen(rc)
		if err := d.Stations.UpdateLastSeen(ctx, string(rc.From), now); err != nil {
			d.Logger.Warn("failed to update last seen", zap.String("station_id", string(rc.From)), zap.Error(err))
		}
		return provisioning.NewHeartbeatResponse(now), nil
	}
}

// NewNotifyReportHandler logs device model reports.
func NewNotifyReportHandler(d *Deps) func(context.Context, *node.RequestContext, *provisioning.NotifyReportRequest) (*provisioning.NotifyReportResponse, error) {
	return func(_ context.Context, rc *node.RequestContext, req *provisioning.NotifyReportRequest) (*provisioning.NotifyReportResponse, error) {
		d.seen(rc)
		d.Logger.Info("device model report",
			zap.String("station_id", string(rc.From)),
			zap.Int("request_id", req.RequestID),
			zap.Int("seq_no", req.SeqNo),
			zap.Int("entries", len(req.ReportData)),
			zap.Bool("tbc", req.Tbc),
		)
		return provisioning.NewNotifyReportResponse(), nil
	}
}
