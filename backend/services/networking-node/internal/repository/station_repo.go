package repository

import (
	"context"
	"fmt"
	"time"

	"ocppnode/backend/services/networking-node/internal/registry"
)

// StationStore persists station state.
type StationStore interface {
	UpsertBoot(ctx context.Context, stationID string, info registry.BootInfo) error
	UpdateLastSeen(ctx context.Context, stationID string, ts time.Time) error
	UpsertConnectorStatus(ctx context.Context, stationID string, update registry.StatusUpdate, recordedAt time.Time) error
}

// StationRepository manages charging station persistence.
type StationRepository struct {
	db Execer
}

// NewStationRepository returns repository.
func NewStationRepository(db Execer) *StationRepository {
	return &StationRepository{db: db}
}

// UpsertBoot stores the station metadata from a BootNotification.
func (r *StationRepository) UpsertBoot(ctx context.Context, stationID string, info registry.BootInfo) error {
	if stationID == "" {
		return fmt.Errorf("station id is required")
	}
	const query = `
		INSERT INTO charging_stations (id, vendor, model, serial_number, firmware_version, boot_reason, last_seen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			vendor = EXCLUDED.vendor,
			model = EXCLUDED.model,
			serial_number = EXCLUDED.serial_number,
			firmware_version = EXCLUDED.firmware_version,
			boot_reason = EXCLUDED.boot_reason,
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		stationID,
		info.Vendor,
		info.Model,
		nullIfEmpty(info.SerialNumber),
		nullIfEmpty(info.FirmwareVersion),
		info.Reason,
		info.BootedAt,
	)
	return err
}

// UpdateLastSeen refreshes last_seen_at.
func (r *StationRepository) UpdateLastSeen(ctx context.Context, stationID string, ts time.Time) error {
	if stationID == "" {
		return fmt.Errorf("station id is required")
	}
	const query = `
		INSERT INTO charging_stations (id, last_seen_at)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, stationID, ts)
	return err
}

// UpsertConnectorStatus stores the last reported connector state.
func (r *StationRepository) UpsertConnectorStatus(ctx context.Context, stationID string, update registry.StatusUpdate, recordedAt time.Time) error {
	if stationID == "" {
		return fmt.Errorf("station id is required")
	}
	if update.EVSEID <= 0 || update.ConnectorID <= 0 {
		return fmt.Errorf("evse and connector id must be positive")
	}
	const query = `
		INSERT INTO station_connector_statuses (station_id, evse_id, connector_id, connector_status, status_timestamp, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (station_id, evse_id, connector_id) DO UPDATE SET
			connector_status = EXCLUDED.connector_status,
			status_timestamp = EXCLUDED.status_timestamp,
			recorded_at = EXCLUDED.recorded_at
	`
	_, err := r.db.ExecContext(ctx, query,
		stationID,
		update.EVSEID,
		update.ConnectorID,
		update.ConnectorStatus,
		update.Timestamp,
		recordedAt,
	)
	return err
}

// NopStationStore is used when no database is configured.
type NopStationStore struct{}

func (NopStationStore) UpsertBoot(context.Context, string, registry.BootInfo) error { return nil }
func (NopStationStore) UpdateLastSeen(context.Context, string, time.Time) error     { return nil }
func (NopStationStore) UpsertConnectorStatus(context.Context, string, registry.StatusUpdate, time.Time) error {
	return nil
}
