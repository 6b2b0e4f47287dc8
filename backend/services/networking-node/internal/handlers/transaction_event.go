package handlers

import (
	"context"
	"math"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/transactions"
	"ocppnode/backend/libs/ocpp/types"
	"ocppnode/backend/services/networking-node/internal/service"
)

func registerTransactions(n *node.Node, d *Deps) {
	node.HandleFunc(n, transactions.TransactionEventFeatureName, NewTransactionEventHandler(d))
	node.HandleFunc(n, transactions.MeterValuesFeatureName, NewMeterValuesHandler(d))
}

// NewTransactionEventHandler tracks transactions from start to end.
func NewTransactionEventHandler(d *Deps) func(context.Context, *node.RequestContext, *transactions.TransactionEventRequest) (*transactions.TransactionEventResponse, error) {
	return func(_ context.Context, rc *node.RequestContext, req *transactions.TransactionEventRequest) (*transactions.TransactionEventResponse, error) {
		stationID := string(rc.From)
		txID := req.TransactionInfo.TransactionID
		d.seen(rc)

		energy, hasEnergy := lastEnergyReading(req.MeterValue)
		resp := transactions.NewTransactionEventResponse()

		switch req.EventType {
		case transactions.TransactionEventStarted:
			tx := service.Transaction{
				ID:        txID,
				StationID: stationID,
				StartedAt: req.Timestamp,
				UpdatedAt: req.Timestamp,
				SeqNo:     req.SeqNo,
				EnergyWh:  energy,
			}
			if req.EVSE != nil {
				tx.EVSEID = req.EVSE.ID
				if req.EVSE.ConnectorID != nil {
					tx.ConnectorID = *req.EVSE.ConnectorID
				}
			}
			if req.IdToken != nil {
				tx.IdToken = req.IdToken.IdToken
			}
			d.Transactions.Set(tx)
			d.Logger.Info("transaction started",
				zap.String("station_id", stationID),
				zap.String("transaction_id", txID),
				zap.Int("evse_id", tx.EVSEID),
			)
		case transactions.TransactionEventUpdated:
			_, ok := d.Transactions.Update(stationID, txID, func(tx *service.Transaction) {
				tx.UpdatedAt = req.Timestamp
				tx.SeqNo = req.SeqNo
				if hasEnergy {
					tx.EnergyWh = energy
				}
			})
			if !ok {
				// Events queued while offline may arrive after a restart.
				d.Logger.Warn("update for unknown transaction",
					zap.String("station_id", stationID),
					zap.String("transaction_id", txID),
				)
				d.Transactions.Set(service.Transaction{
					ID:        txID,
					StationID: stationID,
					StartedAt: req.Timestamp,
					UpdatedAt: req.Timestamp,
					SeqNo:     req.SeqNo,
					EnergyWh:  energy,
				})
			}
		case transactions.TransactionEventEnded:
			tx, ok := d.Transactions.Delete(stationID, txID)
			if hasEnergy {
				tx.EnergyWh = energy
			}
			d.Logger.Info("transaction ended",
				zap.String("station_id", stationID),
				zap.String("transaction_id", txID),
				zap.Bool("known", ok),
				zap.String("stopped_reason", string(req.TransactionInfo.StoppedReason)),
				zap.Float64("energy_wh", tx.EnergyWh),
			)
		}

		if req.IdToken != nil {
			info := d.authorize(req.IdToken.IdToken)
			resp.IdTokenInfo = &info
		}
		return resp, nil
	}
}

// NewMeterValuesHandler logs samples sent outside of a transaction.
func NewMeterValuesHandler(d *Deps) func(context.Context, *node.RequestContext, *transactions.MeterValuesRequest) (*transactions.MeterValuesResponse, error) {
	return func(_ context.Context, rc *node.RequestContext, req *transactions.MeterValuesRequest) (*transactions.MeterValuesResponse, error) {
		d.seen(rc)
		fields := []zap.Field{
			zap.String("station_id", string(rc.From)),
			zap.Int("evse_id", req.EvseID),
			zap.Int("samples", len(req.MeterValue)),
		}
		if energy, ok := lastEnergyReading(req.MeterValue); ok {
			fields = append(fields, zap.Float64("energy_wh", energy))
		}
		d.Logger.Debug("meter values", fields...)
		return transactions.NewMeterValuesResponse(), nil
	}
}

// lastEnergyReading returns the newest Energy.Active.Import.Register sample in
// Wh. Samples without a measurand default to that measurand.
func lastEnergyReading(values []types.MeterValue) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		latest, found := 0.0, false
		for _, sample := range values[i].SampledValue {
			if sample.Measurand != "" && sample.Measurand != types.MeasurandEnergyActiveImportRegister {
				continue
			}
			value := sample.Value
			if sample.UnitOfMeasure != nil {
				value = toWh(value, sample.UnitOfMeasure)
			}
			latest, found = value, true
		}
		if found {
			return latest, true
		}
	}
	return 0, false
}

func toWh(value float64, unit *types.UnitOfMeasure) float64 {
	value *= math.Pow10(unit.Multiplier)
	if unit.Unit == "kWh" {
		value *= 1000
	}
	return value
}
