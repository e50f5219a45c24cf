package model

import (
	"math"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// hotWaterUseFactor is the monthly hot water use relative to the annual mean.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var hotWaterUseFactor = Monthly{1.10, 1.06, 1.02, 0.98, 0.94, 0.90, 0.90, 0.94, 0.98, 1.02, 1.06, 1.10}

// hotWaterTemperatureRise is the monthly temperature rise of hot water in K.
//
//nolint:gochecknoglobals // Fixed methodology tables.
var hotWaterTemperatureRise = Monthly{41.2, 41.4, 40.1, 37.6, 36.4, 33.9, 30.4, 33.4, 33.5, 36.3, 39.4, 39.9}

// WaterCommonInput describes hot water usage.
type WaterCommonInput struct {
	LowWaterUseDesign bool
	// Instantaneous is true for point-of-use heaters with no distribution pipework.
	Instantaneous bool
}

// WaterCommon computes hot water demand from occupancy.
type WaterCommon struct {
	input     WaterCommonInput
	occupancy *Occupancy
	flags     behaviour.WaterCommonFlags
}

// NewWaterCommon constructs the hot water demand module.
func NewWaterCommon(in WaterCommonInput, occupancy *Occupancy, flags behaviour.WaterCommonFlags) *WaterCommon {
	return &WaterCommon{input: in, occupancy: occupancy, flags: flags}
}

// Name implements Module.
func (w *WaterCommon) Name() string { return "water-common" }

// Instantaneous reports whether hot water is heated at the point of use.
func (w *WaterCommon) Instantaneous() bool { return w.input.Instantaneous }

// AverageDailyVolume is the annual mean hot water use in litres per day.
func (w *WaterCommon) AverageDailyVolume() float64 {
	vd := 25*w.occupancy.Occupancy() + 36
	if w.input.LowWaterUseDesign {
		vd *= 0.95
	}
	return vd
}

// DailyVolume is the monthly hot water use in litres per day.
func (w *WaterCommon) DailyVolume() Monthly {
	return hotWaterUseFactor.Scale(w.AverageDailyVolume())
}

// EnergyContent is the monthly energy content of hot water used in kWh.
func (w *WaterCommon) EnergyContent() Monthly {
	vd := w.DailyVolume()
	return MonthlyOf(func(m Month) float64 {
		return 4.190 * vd[m] * m.Days() * hotWaterTemperatureRise[m] / 3600
	})
}

// DistributionLoss is the monthly pipework loss in kWh.
func (w *WaterCommon) DistributionLoss() Monthly {
	if w.input.Instantaneous && w.flags.SkipDistributionLossForInstantaneous {
		return Monthly{}
	}
	return w.EnergyContent().Scale(0.15)
}

// AnnualDemand is the annual energy content plus distribution loss in kWh.
func (w *WaterCommon) AnnualDemand() float64 {
	return w.EnergyContent().Add(w.DistributionLoss()).Sum()
}

// OwnedFields implements Module.
func (w *WaterCommon) OwnedFields() []string {
	return []string{
		"water_heating.Vd_average",
		"water_heating.Vd_m",
		"water_heating.monthly_energy_content",
		"water_heating.annual_energy_content",
		"water_heating.distribution_loss",
	}
}

// MutateLegacyData implements Module.
func (w *WaterCommon) MutateLegacyData(rec scenario.Record) {
	content := w.EnergyContent()
	rec.Set(w.AverageDailyVolume(), "water_heating", "Vd_average")
	rec.Set(w.DailyVolume().Array(), "water_heating", "Vd_m")
	rec.Set(content.Array(), "water_heating", "monthly_energy_content")
	rec.Set(content.Sum(), "water_heating", "annual_energy_content")
	rec.Set(w.DistributionLoss().Array(), "water_heating", "distribution_loss")
}

// InsulationType is the insulation on a hot water cylinder.
type InsulationType string

// Cylinder insulation types.
const (
	FactoryInsulated InsulationType = "factory_insulated"
	LooseJacket      InsulationType = "loose_jacket"
)

// HotWaterControl is the cylinder control arrangement.
type HotWaterControl string

// Cylinder controls.
const (
	CylinderThermostatSeparatelyTimed    HotWaterControl = "cylinder_thermostat_separately_timed"
	CylinderThermostatNotSeparatelyTimed HotWaterControl = "cylinder_thermostat_not_separately_timed"
	NoCylinderThermostat                 HotWaterControl = "no_cylinder_thermostat"
)

// primaryCircuitHours is the daily primary circuit hot period for c.
func (c HotWaterControl) primaryCircuitHours() float64 {
	switch c {
	case CylinderThermostatNotSeparatelyTimed:
		return 5
	case NoCylinderThermostat:
		return 11
	default:
		return 3
	}
}

// CylinderInput describes a hot water storage cylinder.
type CylinderInput struct {
	// DeclaredLoss is the manufacturer's loss in kWh/day, nil when unknown.
	DeclaredLoss *float64
	// Volume is the cylinder volume in litres.
	Volume              float64
	Insulation          InsulationType
	InsulationThickness float64
	TemperatureFactor   float64
}

// WaterHeatingInput describes how hot water is produced.
type WaterHeatingInput struct {
	// Cylinder is nil when there is no hot water storage.
	Cylinder                  *CylinderInput
	PipeworkInsulatedFraction float64
	Control                   HotWaterControl
	PrimaryCircuit            bool
	// CombiLoss is the annual combi boiler loss in kWh before the usage factor.
	CombiLoss float64
}

// WaterHeating combines demand, losses and solar input into the heat
// required from water heaters.
type WaterHeating struct {
	input  WaterHeatingInput
	common *WaterCommon
	solar  SolarHotWater
}

// NewWaterHeating constructs the water heating module.
func NewWaterHeating(in WaterHeatingInput, common *WaterCommon, solar SolarHotWater) *WaterHeating {
	return &WaterHeating{input: in, common: common, solar: solar}
}

// Name implements Module.
func (w *WaterHeating) Name() string { return "water-heating" }

// StorageLoss is the monthly cylinder loss in kWh.
func (w *WaterHeating) StorageLoss() Monthly {
	c := w.input.Cylinder
	if c == nil {
		return Monthly{}
	}
	var daily float64
	if c.DeclaredLoss != nil {
		daily = *c.DeclaredLoss * c.TemperatureFactor
	} else if c.Volume > 0 {
		var lossFactor float64
		if c.Insulation == LooseJacket {
			lossFactor = 0.005 + 1.76/(c.InsulationThickness+12.8)
		} else {
			lossFactor = 0.005 + 0.55/(c.InsulationThickness+4)
		}
		volumeFactor := math.Cbrt(120 / c.Volume)
		daily = c.Volume * lossFactor * volumeFactor * c.TemperatureFactor
	}
	return MonthlyOf(func(m Month) float64 { return daily * m.Days() })
}

// PrimaryCircuitLoss is the monthly loss from boiler-to-cylinder pipework in kWh.
func (w *WaterHeating) PrimaryCircuitLoss() Monthly {
	if !w.input.PrimaryCircuit || w.input.Cylinder == nil {
		return Monthly{}
	}
	p := w.input.PipeworkInsulatedFraction
	h := w.input.Control.primaryCircuitHours()
	daily := 14 * ((0.0091*p+0.0245*(1-p))*h + 0.0263)
	return MonthlyOf(func(m Month) float64 { return daily * m.Days() })
}

// CombiLoss is the monthly combi boiler loss in kWh.
func (w *WaterHeating) CombiLoss() Monthly {
	if w.input.CombiLoss == 0 {
		return Monthly{}
	}
	vd := w.common.DailyVolume()
	return MonthlyOf(func(m Month) float64 {
		usage := 1.0
		if vd[m] < 100 {
			usage = vd[m] / 100
		}
		return w.input.CombiLoss * usage * m.Days() / DaysInYear
	})
}

// HeatRequired is the monthly heat required for water heating before solar input.
func (w *WaterHeating) HeatRequired() Monthly {
	return w.common.EnergyContent().Scale(0.85).
		Add(w.common.DistributionLoss()).
		Add(w.StorageLoss()).
		Add(w.PrimaryCircuitLoss()).
		Add(w.CombiLoss())
}

// Output is the monthly heat the water heaters must supply in kWh.
func (w *WaterHeating) Output() Monthly {
	required := w.HeatRequired()
	solar := w.solar.MonthlyInput()
	return MonthlyOf(func(m Month) float64 { return max(0, required[m]-solar[m]) })
}

// Gains is the monthly heat gain from water heating in W.
func (w *WaterHeating) Gains() Monthly {
	content := w.common.EnergyContent()
	dist := w.common.DistributionLoss()
	storage := w.StorageLoss()
	primary := w.PrimaryCircuitLoss()
	combi := w.CombiLoss()
	kwh := MonthlyOf(func(m Month) float64 {
		return 0.25*(0.85*content[m]+combi[m]) + 0.8*(dist[m]+storage[m]+primary[m])
	})
	return KWhToWatts(kwh)
}

// OwnedFields implements Module.
func (w *WaterHeating) OwnedFields() []string {
	return []string{
		"water_heating.storage_loss",
		"water_heating.primary_circuit_loss",
		"water_heating.combi_loss",
		"water_heating.total_heat_required",
		"water_heating.solar_input",
		"water_heating.Qw_monthly",
		"water_heating.annual_waterheating_demand",
		"gains_W.waterheating",
	}
}

// MutateLegacyData implements Module.
func (w *WaterHeating) MutateLegacyData(rec scenario.Record) {
	output := w.Output()
	rec.Set(w.StorageLoss().Array(), "water_heating", "storage_loss")
	rec.Set(w.PrimaryCircuitLoss().Array(), "water_heating", "primary_circuit_loss")
	rec.Set(w.CombiLoss().Array(), "water_heating", "combi_loss")
	rec.Set(w.HeatRequired().Array(), "water_heating", "total_heat_required")
	rec.Set(w.solar.MonthlyInput().Array(), "water_heating", "solar_input")
	rec.Set(output.Array(), "water_heating", "Qw_monthly")
	rec.Set(output.Sum(), "water_heating", "annual_waterheating_demand")
	rec.Set(w.Gains().Array(), "gains_W", "waterheating")
}
