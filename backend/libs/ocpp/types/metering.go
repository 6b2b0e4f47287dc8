package types

import (
	"time"

	"ocppnode/backend/libs/ocpp"
)

// ReadingContext of a sampled value.
type ReadingContext string

const (
	ReadingContextInterruptionBegin ReadingContext = "Interruption.Begin"
	ReadingContextInterruptionEnd   ReadingContext = "Interruption.End"
	ReadingContextOther             ReadingContext = "Other"
	ReadingContextSampleClock       ReadingContext = "Sample.Clock"
	ReadingContextSamplePeriodic    ReadingContext = "Sample.Periodic"
	ReadingContextTransactionBegin  ReadingContext = "Transaction.Begin"
	ReadingContextTransactionEnd    ReadingContext = "Transaction.End"
	ReadingContextTrigger           ReadingContext = "Trigger"
)

// Measurand of a sampled value.
type Measurand string

const (
	MeasurandCurrentExport                Measurand = "Current.Export"
	MeasurandCurrentImport                Measurand = "Current.Import"
	MeasurandCurrentOffered               Measurand = "Current.Offered"
	MeasurandDisplayPresentSOC            Measurand = "Display.PresentSOC"
	MeasurandEnergyActiveExportRegister   Measurand = "Energy.Active.Export.Register"
	MeasurandEnergyActiveImportRegister   Measurand = "Energy.Active.Import.Register"
	MeasurandEnergyActiveNet              Measurand = "Energy.Active.Net"
	MeasurandEnergyActiveExportInterval   Measurand = "Energy.Active.Export.Interval"
	MeasurandEnergyActiveImportInterval   Measurand = "Energy.Active.Import.Interval"
	MeasurandEnergyActiveSetpointInterval Measurand = "Energy.Active.Setpoint.Interval"
	MeasurandEnergyReactiveExportRegister Measurand = "Energy.Reactive.Export.Register"
	MeasurandEnergyReactiveImportRegister Measurand = "Energy.Reactive.Import.Register"
	MeasurandEnergyApparentNet            Measurand = "Energy.Apparent.Net"
	MeasurandFrequency                    Measurand = "Frequency"
	MeasurandPowerActiveExport            Measurand = "Power.Active.Export"
	MeasurandPowerActiveImport            Measurand = "Power.Active.Import"
	MeasurandPowerActiveSetpoint          Measurand = "Power.Active.Setpoint"
	MeasurandPowerActiveResidual          Measurand = "Power.Active.Residual"
	MeasurandPowerFactor                  Measurand = "Power.Factor"
	MeasurandPowerOffered                 Measurand = "Power.Offered"
	MeasurandPowerReactiveExport          Measurand = "Power.Reactive.Export"
	MeasurandPowerReactiveImport          Measurand = "Power.Reactive.Import"
	MeasurandSoC                          Measurand = "SoC"
	MeasurandVoltage                      Measurand = "Voltage"
	MeasurandVoltageMinimum               Measurand = "Voltage.Minimum"
	MeasurandVoltageMaximum               Measurand = "Voltage.Maximum"
)

// Phase of a sampled value.
type Phase string

const (
	PhaseL1   Phase = "L1"
	PhaseL2   Phase = "L2"
	PhaseL3   Phase = "L3"
	PhaseN    Phase = "N"
	PhaseL1N  Phase = "L1-N"
	PhaseL2N  Phase = "L2-N"
	PhaseL3N  Phase = "L3-N"
	PhaseL1L2 Phase = "L1-L2"
	PhaseL2L3 Phase = "L2-L3"
	PhaseL3L1 Phase = "L3-L1"
)

// Location of a measurement.
type Location string

const (
	LocationBody     Location = "Body"
	LocationCable    Location = "Cable"
	LocationEV       Location = "EV"
	LocationInlet    Location = "Inlet"
	LocationOutlet   Location = "Outlet"
	LocationUpstream Location = "Upstream"
)

// UnitOfMeasure with an optional power of ten multiplier.
type UnitOfMeasure struct {
	CustomData *CustomData `json:"customData,omitempty"`
	Unit       string      `json:"unit,omitempty" validate:"max=20"`
	Multiplier int         `json:"multiplier,omitempty"`
}

// SignedMeterValue carries a signed meter reading.
type SignedMeterValue struct {
	CustomData      *CustomData `json:"customData,omitempty"`
	SignedMeterData string      `json:"signedMeterData" validate:"required,max=32768"`
	SigningMethod   string      `json:"signingMethod,omitempty" validate:"max=50"`
	EncodingMethod  string      `json:"encodingMethod" validate:"required,max=50"`
	PublicKey       string      `json:"publicKey,omitempty" validate:"max=2500"`
}

// SampledValue is one measured value.
type SampledValue struct {
	CustomData       *CustomData       `json:"customData,omitempty"`
	Value            float64           `json:"value"`
	Context          ReadingContext    `json:"context,omitempty" validate:"omitempty,readingContext"`
	Measurand        Measurand         `json:"measurand,omitempty" validate:"omitempty,measurand"`
	Phase            Phase             `json:"phase,omitempty" validate:"omitempty,phase"`
	Location         Location          `json:"location,omitempty" validate:"omitempty,location"`
	SignedMeterValue *SignedMeterValue `json:"signedMeterValue,omitempty" validate:"omitempty"`
	UnitOfMeasure    *UnitOfMeasure    `json:"unitOfMeasure,omitempty" validate:"omitempty"`
}

// MeterValue groups sampled values taken at one point in time.
type MeterValue struct {
	CustomData   *CustomData    `json:"customData,omitempty"`
	Timestamp    time.Time      `json:"timestamp" validate:"required"`
	SampledValue []SampledValue `json:"sampledValue" validate:"required,min=1,dive"`
}

// NewMeterValue returns a meter value with the given samples.
func NewMeterValue(timestamp time.Time, samples ...SampledValue) MeterValue {
	return MeterValue{Timestamp: timestamp, SampledValue: samples}
}

func init() {
	ocpp.RegisterEnum("readingContext",
		ReadingContextInterruptionBegin,
		ReadingContextInterruptionEnd,
		ReadingContextOther,
		ReadingContextSampleClock,
		ReadingContextSamplePeriodic,
		ReadingContextTransactionBegin,
		ReadingContextTransactionEnd,
		ReadingContextTrigger,
	)
	ocpp.RegisterEnum("measurand",
		MeasurandCurrentExport,
		MeasurandCurrentImport,
		MeasurandCurrentOffered,
		MeasurandDisplayPresentSOC,
		MeasurandEnergyActiveExportRegister,
		MeasurandEnergyActiveImportRegister,
		MeasurandEnergyActiveNet,
		MeasurandEnergyActiveExportInterval,
		MeasurandEnergyActiveImportInterval,
		MeasurandEnergyActiveSetpointInterval,
		MeasurandEnergyReactiveExportRegister,
		MeasurandEnergyReactiveImportRegister,
		MeasurandEnergyApparentNet,
		MeasurandFrequency,
		MeasurandPowerActiveExport,
		MeasurandPowerActiveImport,
		MeasurandPowerActiveSetpoint,
		MeasurandPowerActiveResidual,
		MeasurandPowerFactor,
		MeasurandPowerOffered,
		MeasurandPowerReactiveExport,
		MeasurandPowerReactiveImport,
		MeasurandSoC,
		MeasurandVoltage,
		MeasurandVoltageMinimum,
		MeasurandVoltageMaximum,
	)
	ocpp.RegisterEnum("phase", PhaseL1, PhaseL2, PhaseL3, PhaseN, PhaseL1N, PhaseL2N, PhaseL3N, PhaseL1L2, PhaseL2L3, PhaseL3L1)
	ocpp.RegisterEnum("location", LocationBody, LocationCable, LocationEV, LocationInlet, LocationOutlet, LocationUpstream)
}
