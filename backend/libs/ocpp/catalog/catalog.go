// Package catalog assembles every OCPP 2.1 functional block into one registry.
package catalog

import (
	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/authorization"
	"ocppnode/backend/libs/ocpp/availability"
	"ocppnode/backend/libs/ocpp/batteryswap"
	"ocppnode/backend/libs/ocpp/bidirectional"
	"ocppnode/backend/libs/ocpp/datatransfer"
	"ocppnode/backend/libs/ocpp/der"
	"ocppnode/backend/libs/ocpp/diagnostics"
	"ocppnode/backend/libs/ocpp/display"
	"ocppnode/backend/libs/ocpp/firmware"
	"ocppnode/backend/libs/ocpp/networking"
	"ocppnode/backend/libs/ocpp/payment"
	"ocppnode/backend/libs/ocpp/periodicstream"
	"ocppnode/backend/libs/ocpp/provisioning"
	"ocppnode/backend/libs/ocpp/remotecontrol"
	"ocppnode/backend/libs/ocpp/reservation"
	"ocppnode/backend/libs/ocpp/security"
	"ocppnode/backend/libs/ocpp/smartcharging"
	"ocppnode/backend/libs/ocpp/tariff"
	"ocppnode/backend/libs/ocpp/transactions"
)

// Profiles lists every functional block.
func Profiles() []*ocpp.Profile {
	return []*ocpp.Profile{
		provisioning.Profile,
		authorization.Profile,
		availability.Profile,
		transactions.Profile,
		remotecontrol.Profile,
		reservation.Profile,
		diagnostics.Profile,
		firmware.Profile,
		security.Profile,
		smartcharging.Profile,
		display.Profile,
		datatransfer.Profile,
		tariff.Profile,
		der.Profile,
		periodicstream.Profile,
		payment.Profile,
		bidirectional.Profile,
		batteryswap.Profile,
		networking.Profile,
	}
}

// Registry returns a new registry holding every block. Callers may add
// vendor profiles to it.
func Registry() *ocpp.Registry {
	return ocpp.NewRegistry(Profiles()...)
}
