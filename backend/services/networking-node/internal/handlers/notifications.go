package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/datatransfer"
	"ocppnode/backend/libs/ocpp/diagnostics"
	"ocppnode/backend/libs/ocpp/firmware"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/periodicstream"
	"ocppnode/backend/libs/ocpp/security"
)

func registerNotifications(n *node.Node, d *Deps) {
	node.HandleFunc(n, diagnostics.NotifyEventFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *diagnostics.NotifyEventRequest) (*diagnostics.NotifyEventResponse, error) {
			d.seen(rc)
			d.Logger.Info("event notification",
				zap.String("station_id", string(rc.From)),
				zap.Int("seq_no", req.SeqNo),
				zap.Int("events", len(req.EventData)),
				zap.Bool("tbc", req.Tbc),
			)
			return diagnostics.NewNotifyEventResponse(), nil
		})

	node.HandleFunc(n, security.SecurityEventNotificationFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *security.SecurityEventNotificationRequest) (*security.SecurityEventNotificationResponse, error) {
			d.seen(rc)
			d.Logger.Warn("security event",
				zap.String("station_id", string(rc.From)),
				zap.String("type", req.Type),
				zap.Time("timestamp", req.Timestamp),
				zap.String("tech_info", req.TechInfo),
			)
			return security.NewSecurityEventNotificationResponse(), nil
		})

	node.HandleFunc(n, firmware.FirmwareStatusNotificationFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *firmware.FirmwareStatusNotificationRequest) (*firmware.FirmwareStatusNotificationResponse, error) {
			d.seen(rc)
			d.Logger.Info("firmware status",
				zap.String("station_id", string(rc.From)),
				zap.String("status", string(req.Status)),
				requestID(req.RequestID),
			)
			return firmware.NewFirmwareStatusNotificationResponse(), nil
		})

	node.HandleFunc(n, diagnostics.LogStatusNotificationFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *diagnostics.LogStatusNotificationRequest) (*diagnostics.LogStatusNotificationResponse, error) {
			d.seen(rc)
			d.Logger.Info("log upload status",
				zap.String("station_id", string(rc.From)),
				zap.String("status", string(req.Status)),
				requestID(req.RequestID),
			)
			return diagnostics.NewLogStatusNotificationResponse(), nil
		})

	node.HandleFunc(n, datatransfer.DataTransferFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *datatransfer.DataTransferRequest) (*datatransfer.DataTransferResponse, error) {
			d.seen(rc)
			d.Logger.Info("data transfer",
				zap.String("station_id", string(rc.From)),
				zap.String("vendor_id", req.VendorID),
				zap.String("message_id", req.MessageID),
			)
			return datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusUnknownVendorID), nil
		})

	node.HandleSendFunc(n, periodicstream.NotifyPeriodicEventStreamFeatureName,
		func(_ context.Context, rc *node.RequestContext, req *periodicstream.NotifyPeriodicEventStream) error {
			d.seen(rc)
			d.Logger.Debug("periodic event stream",
				zap.String("station_id", string(rc.From)),
				zap.Int("stream_id", req.ID),
				zap.Int("samples", len(req.Data)),
				zap.Int("pending", req.Pending),
			)
			return nil
		})
}

// acknowledged lists station notifications that need nothing but an empty
// response.
var acknowledged = []string{
	"ReservationStatusUpdate",
	"NotifyDisplayMessages",
	"NotifyMonitoringReport",
	"NotifyCustomerInformation",
	"NotifyChargingLimit",
	"ClearedChargingLimit",
	"ReportChargingProfiles",
	"PublishFirmwareStatusNotification",
	"NotifyDERAlarm",
	"NotifyDERStartStop",
	"ReportDERControl",
	"NotifyPriorityCharging",
	"NotifyQRCodeScanned",
	"NotifySettlement",
	"BatterySwap",
	"NotifyWebPaymentStarted",
}

func registerAcknowledged(n *node.Node, d *Deps) {
	reg := n.Registry()
	for _, action := range acknowledged {
		if _, ok := reg.Feature(action); !ok {
			continue
		}
		n.Handle(action, func(_ context.Context, rc *node.RequestContext, _ ocpp.Request) (ocpp.Response, error) {
			d.seen(rc)
			d.Logger.Debug("notification acknowledged",
				zap.String("station_id", string(rc.From)),
				zap.String("action", action),
			)
			resp, err := reg.NewResponse(action)
			if err != nil {
				return nil, fmt.Errorf("build %s response: %w", action, err)
			}
			return resp, nil
		})
	}
}

func requestID(id *int) zap.Field {
	if id == nil {
		return zap.Skip()
	}
	return zap.Int("request_id", *id)
}
