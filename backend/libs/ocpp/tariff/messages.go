package tariff

import "ocppnode/backend/libs/ocpp/types"

const (
	CostUpdatedFeatureName             = "CostUpdated"
	SetDefaultTariffFeatureName        = "SetDefaultTariff"
	GetTariffsFeatureName              = "GetTariffs"
	ClearTariffsFeatureName            = "ClearTariffs"
	ChangeTransactionTariffFeatureName = "ChangeTransactionTariff"
)

// CostUpdatedRequest pushes the running cost of a transaction.
type CostUpdatedRequest struct {
	types.Extensions
	TotalCost     float64 `json:"totalCost"`
	TransactionID string  `json:"transactionId" validate:"required,max=36"`
}

type CostUpdatedResponse struct {
	types.Extensions
}

func (r CostUpdatedRequest) GetFeatureName() string  { return CostUpdatedFeatureName }
func (r CostUpdatedResponse) GetFeatureName() string { return CostUpdatedFeatureName }

func NewCostUpdatedRequest(totalCost float64, transactionID string) *CostUpdatedRequest {
	return &CostUpdatedRequest{TotalCost: totalCost, TransactionID: transactionID}
}

func NewCostUpdatedResponse() *CostUpdatedResponse {
	return &CostUpdatedResponse{}
}

// SetDefaultTariffRequest installs the default tariff of an EVSE.
type SetDefaultTariffRequest struct {
	types.Extensions
	EvseID int    `json:"evseId" validate:"gte=0"`
	Tariff Tariff `json:"tariff" validate:"required"`
}

type SetDefaultTariffResponse struct {
	types.Extensions
	Status     TariffSetStatus   `json:"status" validate:"required,tariffSetStatus"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetDefaultTariffRequest) GetFeatureName() string  { return SetDefaultTariffFeatureName }
func (r SetDefaultTariffResponse) GetFeatureName() string { return SetDefaultTariffFeatureName }

func NewSetDefaultTariffRequest(evseID int, tariff Tariff) *SetDefaultTariffRequest {
	return &SetDefaultTariffRequest{EvseID: evseID, Tariff: tariff}
}

func NewSetDefaultTariffResponse(status TariffSetStatus) *SetDefaultTariffResponse {
	return &SetDefaultTariffResponse{Status: status}
}

// GetTariffsRequest lists tariffs of an EVSE.
type GetTariffsRequest struct {
	types.Extensions
	EvseID int `json:"evseId" validate:"gte=0"`
}

type GetTariffsResponse struct {
	types.Extensions
	Status            TariffGetStatus    `json:"status" validate:"required,tariffGetStatus"`
	StatusInfo        *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
	TariffAssignments []TariffAssignment `json:"tariffAssignments,omitempty" validate:"omitempty,dive"`
}

func (r GetTariffsRequest) GetFeatureName() string  { return GetTariffsFeatureName }
func (r GetTariffsResponse) GetFeatureName() string { return GetTariffsFeatureName }

func NewGetTariffsRequest(evseID int) *GetTariffsRequest {
	return &GetTariffsRequest{EvseID: evseID}
}

func NewGetTariffsResponse(status TariffGetStatus) *GetTariffsResponse {
	return &GetTariffsResponse{Status: status}
}

// ClearTariffsRequest removes tariffs by id, or all tariffs when none given.
type ClearTariffsRequest struct {
	types.Extensions
	TariffIDs []string `json:"tariffIds,omitempty" validate:"omitempty,dive,max=60"`
	EvseID    *int     `json:"evseId,omitempty" validate:"omitempty,gte=0"`
}

type ClearTariffsResponse struct {
	types.Extensions
	ClearTariffsResult []ClearTariffsResult `json:"clearTariffsResult" validate:"required,min=1,dive"`
}

func (r ClearTariffsRequest) GetFeatureName() string  { return ClearTariffsFeatureName }
func (r ClearTariffsResponse) GetFeatureName() string { return ClearTariffsFeatureName }

func NewClearTariffsRequest(tariffIDs ...string) *ClearTariffsRequest {
	return &ClearTariffsRequest{TariffIDs: tariffIDs}
}

func NewClearTariffsResponse(results ...ClearTariffsResult) *ClearTariffsResponse {
	return &ClearTariffsResponse{ClearTariffsResult: results}
}

// ChangeTransactionTariffRequest switches the tariff of a running transaction.
type ChangeTransactionTariffRequest struct {
	types.Extensions
	Tariff        Tariff `json:"tariff" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required,max=36"`
}

type ChangeTransactionTariffResponse struct {
	types.Extensions
	Status     TariffChangeStatus `json:"status" validate:"required,tariffChangeStatus"`
	StatusInfo *types.StatusInfo  `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ChangeTransactionTariffRequest) GetFeatureName() string {
	return ChangeTransactionTariffFeatureName
}

func (r ChangeTransactionTariffResponse) GetFeatureName() string {
	return ChangeTransactionTariffFeatureName
}

func NewChangeTransactionTariffRequest(tariff Tariff, transactionID string) *ChangeTransactionTariffRequest {
	return &ChangeTransactionTariffRequest{Tariff: tariff, TransactionID: transactionID}
}

func NewChangeTransactionTariffResponse(status TariffChangeStatus) *ChangeTransactionTariffResponse {
	return &ChangeTransactionTariffResponse{Status: status}
}
