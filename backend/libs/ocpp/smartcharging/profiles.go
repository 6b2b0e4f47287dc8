package smartcharging

import "ocppnode/backend/libs/ocpp/types"

const (
	SetChargingProfileFeatureName     = "SetChargingProfile"
	GetChargingProfilesFeatureName    = "GetChargingProfiles"
	ReportChargingProfilesFeatureName = "ReportChargingProfiles"
	ClearChargingProfileFeatureName   = "ClearChargingProfile"
)

// SetChargingProfileRequest installs a profile on an EVSE, or on the station
// when EvseID is 0.
type SetChargingProfileRequest struct {
	types.Extensions
	EvseID          int                   `json:"evseId" validate:"gte=0"`
	ChargingProfile types.ChargingProfile `json:"chargingProfile" validate:"required"`
}

type SetChargingProfileResponse struct {
	types.Extensions
	Status     ChargingProfileStatus `json:"status" validate:"required,chargingProfileStatus"`
	StatusInfo *types.StatusInfo     `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r SetChargingProfileRequest) GetFeatureName() string  { return SetChargingProfileFeatureName }
func (r SetChargingProfileResponse) GetFeatureName() string { return SetChargingProfileFeatureName }

func NewSetChargingProfileRequest(evseID int, profile types.ChargingProfile) *SetChargingProfileRequest {
	return &SetChargingProfileRequest{EvseID: evseID, ChargingProfile: profile}
}

func NewSetChargingProfileResponse(status ChargingProfileStatus) *SetChargingProfileResponse {
	return &SetChargingProfileResponse{Status: status}
}

// ChargingProfileCriterion selects installed profiles.
type ChargingProfileCriterion struct {
	CustomData             *types.CustomData            `json:"customData,omitempty"`
	ChargingProfilePurpose types.ChargingProfilePurpose `json:"chargingProfilePurpose,omitempty" validate:"omitempty,chargingProfilePurpose"`
	StackLevel             *int                         `json:"stackLevel,omitempty" validate:"omitempty,gte=0"`
	ChargingProfileID      []int                        `json:"chargingProfileId,omitempty"`
	ChargingLimitSource    []string                     `json:"chargingLimitSource,omitempty" validate:"omitempty,max=4,dive,max=20"`
}

// GetChargingProfilesRequest asks the station to report installed profiles.
type GetChargingProfilesRequest struct {
	types.Extensions
	RequestID       int                      `json:"requestId"`
	EvseID          *int                     `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	ChargingProfile ChargingProfileCriterion `json:"chargingProfile" validate:"required"`
}

type GetChargingProfilesResponse struct {
	types.Extensions
	Status     GetChargingProfileStatus `json:"status" validate:"required,getChargingProfileStatus"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r GetChargingProfilesRequest) GetFeatureName() string  { return GetChargingProfilesFeatureName }
func (r GetChargingProfilesResponse) GetFeatureName() string { return GetChargingProfilesFeatureName }

func NewGetChargingProfilesRequest(requestID int, criterion ChargingProfileCriterion) *GetChargingProfilesRequest {
	return &GetChargingProfilesRequest{RequestID: requestID, ChargingProfile: criterion}
}

func NewGetChargingProfilesResponse(status GetChargingProfileStatus) *GetChargingProfilesResponse {
	return &GetChargingProfilesResponse{Status: status}
}

// ReportChargingProfilesRequest carries profiles requested by GetChargingProfiles.
type ReportChargingProfilesRequest struct {
	types.Extensions
	RequestID           int                     `json:"requestId"`
	ChargingLimitSource string                  `json:"chargingLimitSource" validate:"required,max=20"`
	Tbc                 bool                    `json:"tbc,omitempty"`
	EvseID              int                     `json:"evseId" validate:"gte=0"`
	ChargingProfile     []types.ChargingProfile `json:"chargingProfile" validate:"required,min=1,dive"`
}

type ReportChargingProfilesResponse struct {
	types.Extensions
}

func (r ReportChargingProfilesRequest) GetFeatureName() string {
	return ReportChargingProfilesFeatureName
}

func (r ReportChargingProfilesResponse) GetFeatureName() string {
	return ReportChargingProfilesFeatureName
}

func NewReportChargingProfilesRequest(requestID int, source string, evseID int, profiles ...types.ChargingProfile) *ReportChargingProfilesRequest {
	return &ReportChargingProfilesRequest{
		RequestID:           requestID,
		ChargingLimitSource: source,
		EvseID:              evseID,
		ChargingProfile:     profiles,
	}
}

func NewReportChargingProfilesResponse() *ReportChargingProfilesResponse {
	return &ReportChargingProfilesResponse{}
}

// ClearChargingProfile selects profiles to clear.
type ClearChargingProfile struct {
	CustomData             *types.CustomData            `json:"customData,omitempty"`
	EvseID                 *int                         `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	ChargingProfilePurpose types.ChargingProfilePurpose `json:"chargingProfilePurpose,omitempty" validate:"omitempty,chargingProfilePurpose"`
	StackLevel             *int                         `json:"stackLevel,omitempty" validate:"omitempty,gte=0"`
}

// ClearChargingProfileRequest removes a profile by id or by criteria.
type ClearChargingProfileRequest struct {
	types.Extensions
	ChargingProfileID       *int                  `json:"chargingProfileId,omitempty"`
	ChargingProfileCriteria *ClearChargingProfile `json:"chargingProfileCriteria,omitempty" validate:"omitempty"`
}

type ClearChargingProfileResponse struct {
	types.Extensions
	Status     ClearChargingProfileStatus `json:"status" validate:"required,clearChargingProfileStatus"`
	StatusInfo *types.StatusInfo          `json:"statusInfo,omitempty" validate:"omitempty"`
}

func (r ClearChargingProfileRequest) GetFeatureName() string  { return ClearChargingProfileFeatureName }
func (r ClearChargingProfileResponse) GetFeatureName() string { return ClearChargingProfileFeatureName }

func NewClearChargingProfileRequest() *ClearChargingProfileRequest {
	return &ClearChargingProfileRequest{}
}

func NewClearChargingProfileResponse(status ClearChargingProfileStatus) *ClearChargingProfileResponse {
	return &ClearChargingProfileResponse{Status: status}
}
