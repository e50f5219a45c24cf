package model

import (
	"math"

	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// SolarHotWater is the solar collector contribution to water heating. It is
// either a configured collector or a no-op.
type SolarHotWater interface {
	Module

	// MonthlyInput is the solar heat delivered to hot water each month in kWh.
	MonthlyInput() Monthly

	// PumpElectricity is the annual collector pump electricity in kWh.
	PumpElectricity() float64
}

// SolarCollectorInput describes a solar thermal collector.
type SolarCollectorInput struct {
	Region datasets.Region
	// Area is the aperture area in m².
	Area float64
	// ZeroLossEfficiency is η0.
	ZeroLossEfficiency float64
	// A1 and A2 are the linear and second order heat loss coefficients.
	A1          float64
	A2          float64
	Orientation datasets.Orientation
	Inclination float64
	Overshading Overshading
	// DedicatedVolume is the dedicated solar storage in litres.
	DedicatedVolume float64
	// CombinedCylinderVolume is the total volume of a combined cylinder, 0 if separate.
	CombinedCylinderVolume float64
	ElectricPump           bool
}

// SolarHotWaterInput selects the solar hot water variant.
type SolarHotWaterInput struct {
	// Collector is nil when there is no solar water heating.
	Collector *SolarCollectorInput
}

// NewSolarHotWater constructs the variant selected by in.
func NewSolarHotWater(in SolarHotWaterInput, common *WaterCommon) SolarHotWater {
	if in.Collector == nil {
		return noSolarHotWater{}
	}
	return newSolarCollector(*in.Collector, common)
}

type noSolarHotWater struct{}

func (noSolarHotWater) Name() string             { return "solar-hot-water" }
func (noSolarHotWater) MonthlyInput() Monthly    { return Monthly{} }
func (noSolarHotWater) PumpElectricity() float64 { return 0 }

func (noSolarHotWater) OwnedFields() []string {
	return []string{"SHW.Qs", "SHW.Qs_monthly", "SHW.pump_annual_kWh"}
}

func (noSolarHotWater) MutateLegacyData(rec scenario.Record) {
	rec.Set(0.0, "SHW", "Qs")
	rec.Set(Monthly{}.Array(), "SHW", "Qs_monthly")
	rec.Set(0.0, "SHW", "pump_annual_kWh")
}

// solarCollector computes collector output following SAP Appendix H.
type solarCollector struct {
	input  SolarCollectorInput
	common *WaterCommon

	a                   float64
	performanceRatio    float64
	annualRadiation     float64
	available           float64
	loadRatio           float64
	utilisation         float64
	performanceFactor   float64
	effectiveVolume     float64
	volumeRatio         float64
	storageVolumeFactor float64
	annualOutput        float64
	monthly             Monthly
}

func newSolarCollector(in SolarCollectorInput, common *WaterCommon) *solarCollector {
	s := &solarCollector{input: in, common: common}

	s.a = 0.892 * (in.A1 + 45*in.A2)
	s.performanceRatio = safeDiv(s.a, in.ZeroLossEfficiency)
	s.annualRadiation = datasets.AnnualSolarRadiation(in.Region, in.Orientation, in.Inclination)
	s.available = in.Area * in.ZeroLossEfficiency * s.annualRadiation * in.Overshading.CollectorFactor()

	s.loadRatio = safeDiv(s.available, common.AnnualDemand())
	if s.loadRatio > 0 {
		s.utilisation = 1 - math.Exp(-1/s.loadRatio)
	}

	r := s.performanceRatio
	if r < 20 {
		s.performanceFactor = 0.97 - 0.0367*r + 0.0006*r*r
	} else {
		s.performanceFactor = 0.693 - 0.0108*r
	}
	s.performanceFactor = max(0, s.performanceFactor)

	s.effectiveVolume = in.DedicatedVolume
	if in.CombinedCylinderVolume > in.DedicatedVolume {
		s.effectiveVolume += 0.3 * (in.CombinedCylinderVolume - in.DedicatedVolume)
	}
	s.volumeRatio = safeDiv(s.effectiveVolume, common.AverageDailyVolume())
	if s.volumeRatio > 0 {
		s.storageVolumeFactor = min(1, 1+0.2*math.Log(s.volumeRatio))
	}
	s.storageVolumeFactor = max(0, s.storageVolumeFactor)

	s.annualOutput = s.available * s.utilisation * s.performanceFactor * s.storageVolumeFactor
	s.monthly = s.distribute()
	return s
}

// distribute spreads the annual output by monthly collector radiation, capped
// at each month's demand.
func (s *solarCollector) distribute() Monthly {
	radiation := MonthlyOf(func(m Month) float64 {
		return datasets.SolarRadiationOnSurface(s.input.Region, s.input.Orientation, s.input.Inclination, m.Index()) * m.Days()
	})
	total := radiation.Sum()
	demand := s.common.EnergyContent().Add(s.common.DistributionLoss())
	return MonthlyOf(func(m Month) float64 {
		return min(demand[m], s.annualOutput*safeDiv(radiation[m], total))
	})
}

func (s *solarCollector) Name() string          { return "solar-hot-water" }
func (s *solarCollector) MonthlyInput() Monthly { return s.monthly }

func (s *solarCollector) PumpElectricity() float64 {
	if !s.input.ElectricPump {
		return 0
	}
	return 50
}

func (s *solarCollector) OwnedFields() []string {
	return []string{
		"SHW.a", "SHW.collector_performance_ratio", "SHW.annual_solar",
		"SHW.solar_energy_available", "SHW.solar_load_ratio", "SHW.utilisation_factor",
		"SHW.collector_performance_factor", "SHW.Veff", "SHW.volume_ratio", "SHW.f2",
		"SHW.Qs", "SHW.Qs_monthly", "SHW.pump_annual_kWh",
	}
}

func (s *solarCollector) MutateLegacyData(rec scenario.Record) {
	rec.Set(s.a, "SHW", "a")
	rec.Set(s.performanceRatio, "SHW", "collector_performance_ratio")
	rec.Set(s.annualRadiation, "SHW", "annual_solar")
	rec.Set(s.available, "SHW", "solar_energy_available")
	rec.Set(s.loadRatio, "SHW", "solar_load_ratio")
	rec.Set(s.utilisation, "SHW", "utilisation_factor")
	rec.Set(s.performanceFactor, "SHW", "collector_performance_factor")
	rec.Set(s.effectiveVolume, "SHW", "Veff")
	rec.Set(s.volumeRatio, "SHW", "volume_ratio")
	rec.Set(s.storageVolumeFactor, "SHW", "f2")
	rec.Set(s.monthly.Sum(), "SHW", "Qs")
	rec.Set(s.monthly.Array(), "SHW", "Qs_monthly")
	rec.Set(s.PumpElectricity(), "SHW", "pump_annual_kWh")
}
