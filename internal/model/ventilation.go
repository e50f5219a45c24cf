package model

import (
	"fmt"
	"strings"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// VentilationType is the dwelling's ventilation strategy.
type VentilationType string

// Ventilation types.
const (
	// NaturalVentilation relies on infiltration and openings.
	NaturalVentilation VentilationType = "NV"
	// IntermittentExtract is natural ventilation with intermittent extract fans.
	IntermittentExtract VentilationType = "IE"
	// PassiveStack uses passive stack ventilators.
	PassiveStack VentilationType = "PS"
	// DecentralisedExtract runs continuous decentralised extract fans.
	DecentralisedExtract VentilationType = "DEV"
	// MechanicalExtract runs a continuous centralised extract system.
	MechanicalExtract VentilationType = "MEV"
	// MechanicalVentilation is balanced supply and extract without heat recovery.
	MechanicalVentilation VentilationType = "MV"
	// MechanicalHeatRecovery is balanced ventilation with heat recovery.
	MechanicalHeatRecovery VentilationType = "MVHR"
)

// ParseVentilationType accepts the short codes case-insensitively.
func ParseVentilationType(s string) (VentilationType, error) {
	switch t := VentilationType(strings.ToUpper(strings.TrimSpace(s))); t {
	case "":
		return NaturalVentilation, nil
	case NaturalVentilation, IntermittentExtract, PassiveStack, DecentralisedExtract,
		MechanicalExtract, MechanicalVentilation, MechanicalHeatRecovery:
		return t, nil
	default:
		return NaturalVentilation, fmt.Errorf("unknown ventilation type %q", s)
	}
}

// IsBalanced reports whether the system supplies and extracts air.
func (t VentilationType) IsBalanced() bool {
	return t == MechanicalVentilation || t == MechanicalHeatRecovery
}

// hasSystemFlow reports whether the system moves air continuously.
func (t VentilationType) hasSystemFlow() bool {
	switch t {
	case PassiveStack, DecentralisedExtract, MechanicalExtract, MechanicalVentilation, MechanicalHeatRecovery:
		return true
	default:
		return false
	}
}

// VentilationCommonInput holds the site inputs shared by ventilation and infiltration.
type VentilationCommonInput struct {
	Region         datasets.Region
	SidesSheltered int
}

// VentilationCommon derives shelter and wind factors.
type VentilationCommon struct {
	input VentilationCommonInput
}

// NewVentilationCommon constructs the shared ventilation inputs.
func NewVentilationCommon(in VentilationCommonInput) *VentilationCommon {
	return &VentilationCommon{input: in}
}

// Name implements Module.
func (c *VentilationCommon) Name() string { return "ventilation-common" }

// Region is the climate region.
func (c *VentilationCommon) Region() datasets.Region { return c.input.Region }

// ShelterFactor is 1 − 0.075 × sides sheltered.
func (c *VentilationCommon) ShelterFactor() float64 {
	return 1 - 0.075*float64(c.input.SidesSheltered)
}

// WindFactor is the monthly wind speed divided by 4.
func (c *VentilationCommon) WindFactor() Monthly {
	return MonthlyOf(func(m Month) float64 {
		return datasets.WindSpeed(c.input.Region, m.Index()) / 4
	})
}

// OwnedFields implements Module.
func (c *VentilationCommon) OwnedFields() []string {
	return []string{"ventilation.shelter_factor", "ventilation.wind_factor"}
}

// MutateLegacyData implements Module.
func (c *VentilationCommon) MutateLegacyData(rec scenario.Record) {
	rec.Set(c.ShelterFactor(), "ventilation", "shelter_factor")
	rec.Set(c.WindFactor().Array(), "ventilation", "wind_factor")
}

// VentilationInput describes the ventilation system.
type VentilationInput struct {
	Type VentilationType
	// SystemAirChangeRate is the mechanical air change rate in ach.
	SystemAirChangeRate float64
	// HeatRecoveryEfficiency is the MVHR efficiency as a percentage.
	HeatRecoveryEfficiency float64
	// SpecificFanPower is in W/(l/s).
	SpecificFanPower float64
}

// Ventilation computes the mechanical system's air change rate, fan gains and
// fan electricity.
type Ventilation struct {
	input  VentilationInput
	floors *Floors
	common *VentilationCommon
}

// NewVentilation constructs the ventilation system module.
func NewVentilation(in VentilationInput, floors *Floors, common *VentilationCommon) *Ventilation {
	return &Ventilation{input: in, floors: floors, common: common}
}

// Name implements Module.
func (v *Ventilation) Name() string { return "ventilation" }

// Type is the ventilation strategy.
func (v *Ventilation) Type() VentilationType { return v.input.Type }

// SystemAirChangeRate is the continuous mechanical rate, 0 for natural systems.
func (v *Ventilation) SystemAirChangeRate() float64 {
	if !v.input.Type.hasSystemFlow() {
		return 0
	}
	return v.input.SystemAirChangeRate
}

// HeatRecoveryEfficiency is the MVHR efficiency as a fraction, 0 otherwise.
func (v *Ventilation) HeatRecoveryEfficiency() float64 {
	if v.input.Type != MechanicalHeatRecovery {
		return 0
	}
	return v.input.HeatRecoveryEfficiency / 100
}

// FanHeatGain is the heat gain from supply fans in W.
func (v *Ventilation) FanHeatGain() float64 {
	if v.input.Type != MechanicalVentilation {
		return 0
	}
	return 0.12 * v.input.SpecificFanPower * v.floors.Volume()
}

// FanElectricity is the annual fan electricity in kWh.
func (v *Ventilation) FanElectricity() float64 {
	switch v.input.Type {
	case DecentralisedExtract, MechanicalExtract:
		return 1.22 * v.input.SpecificFanPower * v.floors.Volume()
	case MechanicalVentilation, MechanicalHeatRecovery:
		return 2.44 * v.SystemAirChangeRate() * v.input.SpecificFanPower * v.floors.Volume()
	default:
		return 0
	}
}

// OwnedFields implements Module.
func (v *Ventilation) OwnedFields() []string {
	return []string{
		"ventilation.effective_system_air_change_rate",
		"ventilation.fan_gain_W",
		"ventilation.fan_annual_kWh",
	}
}

// MutateLegacyData implements Module.
func (v *Ventilation) MutateLegacyData(rec scenario.Record) {
	rec.Set(v.SystemAirChangeRate(), "ventilation", "effective_system_air_change_rate")
	rec.Set(v.FanHeatGain(), "ventilation", "fan_gain_W")
	rec.Set(v.FanElectricity(), "ventilation", "fan_annual_kWh")
}

// Construction is the structural type used for structural infiltration.
type Construction string

// Construction types.
const (
	TimberFrame Construction = "timberframe"
	Masonry     Construction = "masonry"
)

// WoodenFloor describes a suspended timber ground floor.
type WoodenFloor int

// Suspended wooden floor states.
const (
	NoWoodenFloor WoodenFloor = iota
	SealedWoodenFloor
	UnsealedWoodenFloor
)

// ParseWoodenFloor accepts 0, "sealed" or "unsealed"; the legacy value 1
// means unsealed.
func ParseWoodenFloor(v any) (WoodenFloor, error) {
	if f, ok := scenario.ToFloat(v); ok {
		switch f {
		case 0:
			return NoWoodenFloor, nil
		case 1:
			return UnsealedWoodenFloor, nil
		}
		return NoWoodenFloor, fmt.Errorf("invalid suspended wooden floor %v", v)
	}
	switch strings.ToLower(strings.TrimSpace(scenario.ToString(v))) {
	case "", "no", "none":
		return NoWoodenFloor, nil
	case "sealed":
		return SealedWoodenFloor, nil
	case "unsealed":
		return UnsealedWoodenFloor, nil
	default:
		return NoWoodenFloor, fmt.Errorf("invalid suspended wooden floor %v", v)
	}
}

// Openings counts the flues and vents contributing to infiltration.
type Openings struct {
	Chimneys         int
	OpenFlues        int
	IntermittentFans int
	PassiveVents     int
	FluelessGasFires int
}

// InfiltrationInput describes the airtightness of the dwelling.
type InfiltrationInput struct {
	Construction          Construction
	WoodenFloor           WoodenFloor
	DraughtLobby          bool
	PercentDraughtProofed float64
	// AirPermeability is q50 in m³/h·m² when a pressure test was done.
	AirPermeability *float64
	Openings        Openings
}

// Infiltration computes the shelter- and wind-adjusted infiltration rate.
type Infiltration struct {
	input  InfiltrationInput
	floors *Floors
	common *VentilationCommon
}

// NewInfiltration constructs the infiltration module.
func NewInfiltration(in InfiltrationInput, floors *Floors, common *VentilationCommon) *Infiltration {
	return &Infiltration{input: in, floors: floors, common: common}
}

// Name implements Module.
func (i *Infiltration) Name() string { return "infiltration" }

// OpeningsAirChangeRate is the air change rate from chimneys, flues and vents.
func (i *Infiltration) OpeningsAirChangeRate() float64 {
	o := i.input.Openings
	flow := 40*float64(o.Chimneys) + 20*float64(o.OpenFlues) + 10*float64(o.IntermittentFans) +
		10*float64(o.PassiveVents) + 40*float64(o.FluelessGasFires)
	return safeDiv(flow, i.floors.Volume())
}

// StructuralInfiltration is the construction-dependent component when no
// pressure test is available.
func (i *Infiltration) StructuralInfiltration() float64 {
	in := i.input
	rate := 0.25
	if in.Construction == Masonry {
		rate = 0.35
	}
	switch in.WoodenFloor {
	case UnsealedWoodenFloor:
		rate += 0.2
	case SealedWoodenFloor:
		rate += 0.1
	}
	if !in.DraughtLobby {
		rate += 0.05
	}
	rate += 0.25 - 0.2*in.PercentDraughtProofed/100
	if storeys := i.floors.NumberOfFloors(); storeys > 1 {
		rate += float64(storeys-1) * 0.1
	}
	return rate
}

// InfiltrationRate is the unadjusted infiltration rate in ach.
func (i *Infiltration) InfiltrationRate() float64 {
	if i.input.AirPermeability != nil {
		return *i.input.AirPermeability/20 + i.OpeningsAirChangeRate()
	}
	return i.StructuralInfiltration() + i.OpeningsAirChangeRate()
}

// ShelteredRate applies the shelter factor.
func (i *Infiltration) ShelteredRate() float64 {
	return i.InfiltrationRate() * i.common.ShelterFactor()
}

// MonthlyRate applies the monthly wind factor to the sheltered rate.
func (i *Infiltration) MonthlyRate() Monthly {
	return i.common.WindFactor().Scale(i.ShelteredRate())
}

// OwnedFields implements Module.
func (i *Infiltration) OwnedFields() []string {
	return []string{
		"ventilation.openings_ach",
		"ventilation.structural_infiltration",
		"ventilation.infiltration_rate",
		"ventilation.infiltration_rate_incorp_shelter_factor",
		"ventilation.adjusted_infiltration",
	}
}

// MutateLegacyData implements Module.
func (i *Infiltration) MutateLegacyData(rec scenario.Record) {
	rec.Set(i.OpeningsAirChangeRate(), "ventilation", "openings_ach")
	structural := 0.0
	if i.input.AirPermeability == nil {
		structural = i.StructuralInfiltration()
	}
	rec.Set(structural, "ventilation", "structural_infiltration")
	rec.Set(i.InfiltrationRate(), "ventilation", "infiltration_rate")
	rec.Set(i.ShelteredRate(), "ventilation", "infiltration_rate_incorp_shelter_factor")
	rec.Set(i.MonthlyRate().Array(), "ventilation", "adjusted_infiltration")
}

// AirChangeRate combines the system and infiltration rates into the monthly
// effective air change rate.
type AirChangeRate struct {
	ventilation  *Ventilation
	infiltration *Infiltration

	infiltrationPart Monthly
	ventilationPart  Monthly
}

// NewAirChangeRate computes the effective rate for the ventilation type.
func NewAirChangeRate(ventilation *Ventilation, infiltration *Infiltration) *AirChangeRate {
	a := &AirChangeRate{ventilation: ventilation, infiltration: infiltration}
	infil := infiltration.MonthlyRate()
	sys := ventilation.SystemAirChangeRate()

	for _, m := range Months {
		var effective float64
		switch t := ventilation.Type(); {
		case t == MechanicalHeatRecovery:
			effective = infil[m] + sys*(1-ventilation.HeatRecoveryEfficiency())
		case t == MechanicalVentilation:
			effective = infil[m] + sys
		case t.hasSystemFlow():
			if infil[m] < 0.5*sys {
				effective = sys
			} else {
				effective = infil[m] + 0.5*sys
			}
		default:
			if infil[m] >= 1 {
				effective = infil[m]
			} else {
				effective = 0.5 + 0.5*infil[m]*infil[m]
			}
		}
		a.infiltrationPart[m] = min(infil[m], effective)
		a.ventilationPart[m] = effective - a.infiltrationPart[m]
	}
	return a
}

// Name implements Module.
func (a *AirChangeRate) Name() string { return "air-change-rate" }

// Effective is the monthly effective air change rate in ach.
func (a *AirChangeRate) Effective() Monthly {
	return a.infiltrationPart.Add(a.ventilationPart)
}

// InfiltrationPart is the share of the effective rate due to infiltration.
func (a *AirChangeRate) InfiltrationPart() Monthly { return a.infiltrationPart }

// VentilationPart is the share of the effective rate due to ventilation.
func (a *AirChangeRate) VentilationPart() Monthly { return a.ventilationPart }

// OwnedFields implements Module.
func (a *AirChangeRate) OwnedFields() []string {
	return []string{"ventilation.effective_air_change_rate"}
}

// MutateLegacyData implements Module.
func (a *AirChangeRate) MutateLegacyData(rec scenario.Record) {
	rec.Set(a.Effective().Array(), "ventilation", "effective_air_change_rate")
}
