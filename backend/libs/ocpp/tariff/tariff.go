// Package tariff contains the OCPP 2.1 tariff and cost functional block.
package tariff

import (
	"time"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

const ProfileName = "tariff"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[CostUpdatedRequest, CostUpdatedResponse](CostUpdatedFeatureName),
	ocpp.NewFeature[SetDefaultTariffRequest, SetDefaultTariffResponse](SetDefaultTariffFeatureName),
	ocpp.NewFeature[GetTariffsRequest, GetTariffsResponse](GetTariffsFeatureName),
	ocpp.NewFeature[ClearTariffsRequest, ClearTariffsResponse](ClearTariffsFeatureName),
	ocpp.NewFeature[ChangeTransactionTariffRequest, ChangeTransactionTariffResponse](ChangeTransactionTariffFeatureName),
)

// TariffSetStatus answers SetDefaultTariff.
type TariffSetStatus string

const (
	TariffSetStatusAccepted              TariffSetStatus = "Accepted"
	TariffSetStatusRejected              TariffSetStatus = "Rejected"
	TariffSetStatusTooManyElements       TariffSetStatus = "TooManyElements"
	TariffSetStatusConditionNotSupported TariffSetStatus = "ConditionNotSupported"
	TariffSetStatusDuplicateTariffID     TariffSetStatus = "DuplicateTariffId"
)

// TariffGetStatus answers GetTariffs.
type TariffGetStatus string

const (
	TariffGetStatusAccepted TariffGetStatus = "Accepted"
	TariffGetStatusRejected TariffGetStatus = "Rejected"
	TariffGetStatusNoTariff TariffGetStatus = "NoTariff"
)

// TariffClearStatus is the per-tariff outcome of ClearTariffs.
type TariffClearStatus string

const (
	TariffClearStatusAccepted TariffClearStatus = "Accepted"
	TariffClearStatusRejected TariffClearStatus = "Rejected"
	TariffClearStatusNoTariff TariffClearStatus = "NoTariff"
)

// TariffChangeStatus answers ChangeTransactionTariff.
type TariffChangeStatus string

const (
	TariffChangeStatusAccepted              TariffChangeStatus = "Accepted"
	TariffChangeStatusRejected              TariffChangeStatus = "Rejected"
	TariffChangeStatusTooManyElements       TariffChangeStatus = "TooManyElements"
	TariffChangeStatusConditionNotSupported TariffChangeStatus = "ConditionNotSupported"
	TariffChangeStatusTxNotFound            TariffChangeStatus = "TxNotFound"
	TariffChangeStatusNoCurrencyChange      TariffChangeStatus = "NoCurrencyChange"
)

// Price is an amount with optional tax breakdown.
type Price struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	ExclTax    *float64          `json:"exclTax,omitempty"`
	InclTax    *float64          `json:"inclTax,omitempty"`
}

// TariffEnergyPrice is a price per kWh.
type TariffEnergyPrice struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	PriceKWh   float64           `json:"priceKwh"`
}

// TariffEnergy lists energy prices and taxes.
type TariffEnergy struct {
	CustomData *types.CustomData   `json:"customData,omitempty"`
	Prices     []TariffEnergyPrice `json:"prices" validate:"required,min=1,dive"`
}

// TariffTimePrice is a price per minute.
type TariffTimePrice struct {
	CustomData  *types.CustomData `json:"customData,omitempty"`
	PriceMinute float64           `json:"priceMinute"`
}

// TariffTime lists time based prices.
type TariffTime struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	Prices     []TariffTimePrice `json:"prices" validate:"required,min=1,dive"`
}

// Tariff is the price structure applied to transactions.
type Tariff struct {
	CustomData   *types.CustomData      `json:"customData,omitempty"`
	TariffID     string                 `json:"tariffId" validate:"required,max=60"`
	Currency     string                 `json:"currency" validate:"required,len=3"`
	Description  []types.MessageContent `json:"description,omitempty" validate:"omitempty,max=10,dive"`
	Energy       *TariffEnergy          `json:"energy,omitempty" validate:"omitempty"`
	ChargingTime *TariffTime            `json:"chargingTime,omitempty" validate:"omitempty"`
	IdleTime     *TariffTime            `json:"idleTime,omitempty" validate:"omitempty"`
	FixedFee     *Price                 `json:"fixedFee,omitempty" validate:"omitempty"`
	MinCost      *Price                 `json:"minCost,omitempty" validate:"omitempty"`
	MaxCost      *Price                 `json:"maxCost,omitempty" validate:"omitempty"`
	ValidFrom    *time.Time             `json:"validFrom,omitempty"`
}

// TariffAssignment tells which tariff is used where.
type TariffAssignment struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	TariffID   string            `json:"tariffId" validate:"required,max=60"`
	TariffKind string            `json:"tariffKind" validate:"required,oneof=DefaultTariff DriverTariff"`
	EvseIDs    []int             `json:"evseIds,omitempty"`
	IdTokens   []string          `json:"idTokens,omitempty" validate:"omitempty,dive,max=255"`
	ValidFrom  *time.Time        `json:"validFrom,omitempty"`
}

// ClearTariffsResult is the outcome for one tariff.
type ClearTariffsResult struct {
	CustomData *types.CustomData `json:"customData,omitempty"`
	TariffID   string            `json:"tariffId,omitempty" validate:"max=60"`
	Status     TariffClearStatus `json:"status" validate:"required,tariffClearStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func init() {
	ocpp.RegisterEnum("tariffSetStatus",
		TariffSetStatusAccepted,
		TariffSetStatusRejected,
		TariffSetStatusTooManyElements,
		TariffSetStatusConditionNotSupported,
		TariffSetStatusDuplicateTariffID,
	)
	ocpp.RegisterEnum("tariffGetStatus", TariffGetStatusAccepted, TariffGetStatusRejected, TariffGetStatusNoTariff)
	ocpp.RegisterEnum("tariffClearStatus", TariffClearStatusAccepted, TariffClearStatusRejected, TariffClearStatusNoTariff)
	ocpp.RegisterEnum("tariffChangeStatus",
		TariffChangeStatusAccepted,
		TariffChangeStatusRejected,
		TariffChangeStatusTooManyElements,
		TariffChangeStatusConditionNotSupported,
		TariffChangeStatusTxNotFound,
		TariffChangeStatusNoCurrencyChange,
	)
}
