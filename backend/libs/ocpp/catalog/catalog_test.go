package catalog

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/availability"
	"ocppnode/backend/libs/ocpp/periodicstream"
	"ocppnode/backend/libs/ocpp/provisioning"
	"ocppnode/backend/libs/ocpp/types"
)

func TestRegistryFeatureNamesMatchPayloads(t *testing.T) {
	registry := Registry()
	actions := registry.Actions()
	require.NotEmpty(t, actions)

	for _, action := range actions {
		feature, ok := registry.Feature(action)
		require.True(t, ok, action)

		req, ok := reflect.New(feature.GetRequestType()).Interface().(ocpp.Request)
		require.True(t, ok, "%s request does not implement ocpp.Request", action)
		assert.Equal(t, action, req.GetFeatureName())

		if ocpp.IsSendOnly(feature) {
			continue
		}
		resp, ok := reflect.New(feature.GetResponseType()).Interface().(ocpp.Response)
		require.True(t, ok, "%s response does not implement ocpp.Response", action)
		assert.Equal(t, action, resp.GetFeatureName())
	}
}

func TestRegistryCoversEveryBlock(t *testing.T) {
	registry := Registry()
	assert.Len(t, registry.Profiles(), len(Profiles()))

	for _, action := range []string{
		"BootNotification",
		"Authorize",
		"StatusNotification",
		"TransactionEvent",
		"RequestStartTransaction",
		"ReserveNow",
		"NotifyEvent",
		"UpdateFirmware",
		"SignCertificate",
		"SetChargingProfile",
		"SetDisplayMessage",
		"DataTransfer",
		"BinaryDataTransfer",
		"CostUpdated",
		"SetDERControl",
		"NotifyPeriodicEventStream",
		"NotifySettlement",
		"AFRRSignal",
		"BatterySwap",
		"NotifyNetworkTopology",
	} {
		_, ok := registry.Feature(action)
		assert.True(t, ok, action)
	}
}

func TestEmptyRequestsMarshalToObjects(t *testing.T) {
	registry := Registry()
	for _, action := range registry.Actions() {
		req, err := registry.NewRequest(action)
		require.NoError(t, err)
		raw, err := json.Marshal(req)
		require.NoError(t, err, action)
		assert.Equal(t, byte('{'), raw[0], action)
	}
}

func TestDecodeBootNotification(t *testing.T) {
	registry := Registry()
	payload := json.RawMessage(`{"reason":"PowerUp","chargingStation":{"model":"M1","vendorName":"V"}}`)

	req, err := registry.DecodeRequest(provisioning.BootNotificationFeatureName, payload)
	require.NoError(t, err)
	boot, ok := req.(*provisioning.BootNotificationRequest)
	require.True(t, ok)
	assert.Equal(t, provisioning.BootReasonPowerUp, boot.Reason)
	assert.Equal(t, "M1", boot.ChargingStation.Model)
}

func TestDecodeRejectsUnknownEnum(t *testing.T) {
	registry := Registry()
	payload := json.RawMessage(`{"reason":"Sneeze","chargingStation":{"model":"M1","vendorName":"V"}}`)

	_, err := registry.DecodeRequest(provisioning.BootNotificationFeatureName, payload)
	require.Error(t, err)
	assert.True(t, ocpp.IsCode(err, ocpp.PropertyConstraintViolation))
}

func TestDecodeMissingMember(t *testing.T) {
	registry := Registry()
	payload := json.RawMessage(`{"timestamp":"2025-01-01T00:00:00Z","evseId":1,"connectorId":1}`)

	_, err := registry.DecodeRequest(availability.StatusNotificationFeatureName, payload)
	require.Error(t, err)
	assert.True(t, ocpp.IsCode(err, ocpp.OccurrenceConstraintViolation))
}

func TestSendOnlyActionHasNoResponse(t *testing.T) {
	registry := Registry()
	_, err := registry.NewResponse(periodicstream.NotifyPeriodicEventStreamFeatureName)
	require.Error(t, err)
	assert.True(t, ocpp.IsCode(err, ocpp.MessageTypeNotSupported))
}

func TestSignaturesSurviveDecode(t *testing.T) {
	registry := Registry()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := availability.NewStatusNotificationRequest(now, availability.ConnectorStatusAvailable, 1, 1)
	in.Signatures = []types.Signature{{KeyID: "k1", Value: "c2ln", SigningMethod: "ES256"}}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := registry.DecodeRequest(availability.StatusNotificationFeatureName, raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
