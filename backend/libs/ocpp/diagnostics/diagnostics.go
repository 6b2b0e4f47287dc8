// Package diagnostics contains the OCPP 2.1 diagnostics functional block: log
// upload, variable monitoring, event notification and customer information.
package diagnostics

import "ocppnode/backend/libs/ocpp"

const ProfileName = "diagnostics"

var Profile = ocpp.NewProfile(ProfileName,
	ocpp.NewFeature[GetLogRequest, GetLogResponse](GetLogFeatureName),
	ocpp.NewFeature[LogStatusNotificationRequest, LogStatusNotificationResponse](LogStatusNotificationFeatureName),
	ocpp.NewFeature[SetVariableMonitoringRequest, SetVariableMonitoringResponse](SetVariableMonitoringFeatureName),
	ocpp.NewFeature[SetMonitoringBaseRequest, SetMonitoringBaseResponse](SetMonitoringBaseFeatureName),
	ocpp.NewFeature[SetMonitoringLevelRequest, SetMonitoringLevelResponse](SetMonitoringLevelFeatureName),
	ocpp.NewFeature[ClearVariableMonitoringRequest, ClearVariableMonitoringResponse](ClearVariableMonitoringFeatureName),
	ocpp.NewFeature[GetMonitoringReportRequest, GetMonitoringReportResponse](GetMonitoringReportFeatureName),
	ocpp.NewFeature[NotifyMonitoringReportRequest, NotifyMonitoringReportResponse](NotifyMonitoringReportFeatureName),
	ocpp.NewFeature[NotifyEventRequest, NotifyEventResponse](NotifyEventFeatureName),
	ocpp.NewFeature[CustomerInformationRequest, CustomerInformationResponse](CustomerInformationFeatureName),
	ocpp.NewFeature[NotifyCustomerInformationRequest, NotifyCustomerInformationResponse](NotifyCustomerInformationFeatureName),
)
