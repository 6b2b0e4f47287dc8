// Package transactions contains the OCPP 2.1 transactions functional block.
package transactions

import "ocppnode/backend/libs/ocpp"

const ProfileName = "transactions"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[TransactionEventRequest, TransactionEventResponse](TransactionEventFeatureName),
	ocpp.NewFeature[GetTransactionStatusRequest, GetTransactionStatusResponse](GetTransactionStatusFeatureName),
	ocpp.NewFeature[MeterValuesRequest, MeterValuesResponse](MeterValuesFeatureName),
)
