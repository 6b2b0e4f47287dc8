package repository

// Schema creates the tables used by the node. db.Migrate records how many
// statements ran, so new ones go at the end.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS ocpp_messages (
		id           BIGSERIAL PRIMARY KEY,
		node_id      TEXT NOT NULL,
		peer_id      TEXT NOT NULL,
		destination  TEXT,
		direction    TEXT NOT NULL,
		message_type SMALLINT NOT NULL,
		message_id   TEXT NOT NULL,
		action       TEXT,
		payload      JSONB,
		raw          TEXT NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ocpp_messages_message_id_idx ON ocpp_messages (message_id)`,
	`CREATE TABLE IF NOT EXISTS charging_stations (
		id               TEXT PRIMARY KEY,
		vendor           TEXT,
		model            TEXT,
		serial_number    TEXT,
		firmware_version TEXT,
		boot_reason      TEXT,
		last_seen_at     TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS station_connector_statuses (
		station_id       TEXT NOT NULL,
		evse_id          INTEGER NOT NULL,
		connector_id     INTEGER NOT NULL,
		connector_status TEXT NOT NULL,
		status_timestamp TIMESTAMPTZ NOT NULL,
		recorded_at      TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (station_id, evse_id, connector_id)
	)`,
}
